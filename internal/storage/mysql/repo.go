package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/go-sql-driver/mysql"

	"techmart/internal/domain"
)

const (
	dupEntryErr = 1062 // ER_DUP_ENTRY
	fkFailErr   = 1452 // ER_NO_REFERENCED_ROW_2
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func isMySQLErr(err error, code uint16) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == code
}

// ---- JSON column helpers ----

func jsonArr(v []string) string {
	if v == nil {
		v = []string{}
	}
	b, _ := json.Marshal(v)
	return string(b)
}

func jsonMap(v map[string]string) string {
	if v == nil {
		v = map[string]string{}
	}
	b, _ := json.Marshal(v)
	return string(b)
}

func scanArr(b []byte, dst *[]string) {
	if len(b) > 0 {
		_ = json.Unmarshal(b, dst)
	}
	if *dst == nil {
		*dst = []string{}
	}
}

func scanMap(b []byte, dst *map[string]string) {
	if len(b) > 0 {
		_ = json.Unmarshal(b, dst)
	}
}

// ---- users ----

func (r *Repo) CreateUser(ctx context.Context, u *domain.User) error {
	res, err := r.db.ExecContext(ctx, insertUserSQL,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.Role,
		u.UserType,
		u.Preferences.Language,
		u.Preferences.Theme,
		u.Preferences.Notifications,
		u.IsSystem,
		u.IsActive,
	)
	if err != nil {
		if isMySQLErr(err, dupEntryErr) {
			return domain.ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = id
	return nil
}

func (r *Repo) GetUser(ctx context.Context, id int64) (domain.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, "SELECT"+userColumns+"FROM users WHERE id = ?", id))
}

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, "SELECT"+userColumns+"FROM users WHERE email = ?", email))
}

func (r *Repo) scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.UserType,
		&u.Preferences.Language, &u.Preferences.Theme, &u.Preferences.Notifications,
		&u.IsSystem, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}

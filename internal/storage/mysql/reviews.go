package mysql

import (
	"context"
	"database/sql"
	"errors"

	"techmart/internal/domain"
)

// CreateReview inserts the review and recomputes the product aggregate in one
// transaction. The unique (product_id, user_id) key is the real guard against
// two concurrent creates for the same pair; the service-level existence check
// only exists for a friendlier error path.
func (r *Repo) CreateReview(ctx context.Context, rv *domain.Review) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, insertReviewSQL,
		rv.ProductID,
		rv.UserID,
		rv.Rating,
		rv.Title,
		rv.Comment,
		jsonArr(rv.Pros),
		jsonArr(rv.Cons),
		rv.UserType,
		rv.Role,
		rv.UseCase,
		rv.Verified,
		jsonArr(rv.Images),
	)
	if err != nil {
		if isMySQLErr(err, dupEntryErr) {
			return domain.ErrConflict
		}
		if isMySQLErr(err, fkFailErr) {
			return domain.ErrNotFound // product or user raced away
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	if err := recompute(ctx, tx, rv.ProductID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	rv.ID = id
	return nil
}

func (r *Repo) GetReview(ctx context.Context, id int64) (domain.Review, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT"+reviewColumns+"FROM reviews r JOIN users u ON u.id = r.user_id WHERE r.id = ?", id)
	rv, err := scanReview(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Review{}, domain.ErrNotFound
		}
		return domain.Review{}, err
	}
	return rv, nil
}

func (r *Repo) ListProductReviews(ctx context.Context, productID int64, pg domain.PageQuery) (domain.ReviewsPage, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reviews WHERE product_id = ?", productID).Scan(&total); err != nil {
		return domain.ReviewsPage{}, err
	}

	limit := pg.Limit
	if limit <= 0 {
		limit = 10
	}
	page := pg.Page
	if page <= 0 {
		page = 1
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT"+reviewColumns+`FROM reviews r
		 JOIN users u ON u.id = r.user_id
		 WHERE r.product_id = ?
		 ORDER BY r.created_at DESC, r.id DESC
		 LIMIT ? OFFSET ?`,
		productID, limit, (page-1)*limit)
	if err != nil {
		return domain.ReviewsPage{}, err
	}
	defer rows.Close()

	items := []domain.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return domain.ReviewsPage{}, err
		}
		items = append(items, rv)
	}
	return domain.ReviewsPage{Items: items, Total: total}, rows.Err()
}

func (r *Repo) ListUserReviews(ctx context.Context, userID int64, limit int) ([]domain.Review, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT"+reviewColumns+`, p.name, p.image
		 FROM reviews r
		 JOIN users u ON u.id = r.user_id
		 JOIN products p ON p.id = r.product_id
		 WHERE r.user_id = ?
		 ORDER BY r.created_at DESC, r.id DESC
		 LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Review{}
	for rows.Next() {
		var rv domain.Review
		var pros, cons, images []byte
		if err := rows.Scan(
			&rv.ID, &rv.ProductID, &rv.UserID, &rv.Rating, &rv.Title, &rv.Comment,
			&pros, &cons, &rv.UserType, &rv.Role, &rv.UseCase, &rv.Verified,
			&images, &rv.CreatedAt, &rv.UpdatedAt, &rv.Username, &rv.Helpful,
			&rv.ProductName, &rv.ProductImage,
		); err != nil {
			return nil, err
		}
		scanArr(pros, &rv.Pros)
		scanArr(cons, &rv.Cons)
		scanArr(images, &rv.Images)
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateReview(ctx context.Context, rv domain.Review, ratingChanged bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, updateReviewSQL,
		rv.Rating,
		rv.Title,
		rv.Comment,
		jsonArr(rv.Pros),
		jsonArr(rv.Cons),
		rv.UserType,
		rv.Role,
		rv.UseCase,
		jsonArr(rv.Images),
		rv.ID,
	); err != nil {
		return err
	}
	if ratingChanged {
		if err := recompute(ctx, tx, rv.ProductID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *Repo) DeleteReview(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var productID int64
	err = tx.QueryRowContext(ctx,
		"SELECT product_id FROM reviews WHERE id = ? FOR UPDATE", id).Scan(&productID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM reviews WHERE id = ?", id); err != nil {
		return err
	}
	if err := recompute(ctx, tx, productID); err != nil {
		return err
	}
	return tx.Commit()
}

// ToggleHelpful flips the caller's membership in the review's helpful-voter
// set and returns the resulting set size. The review row is locked for the
// duration so concurrent toggles for the same user cannot double-apply.
func (r *Repo) ToggleHelpful(ctx context.Context, reviewID, userID int64) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var exists int64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM reviews WHERE id = ? FOR UPDATE", reviewID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx, deleteVoteSQL, reviewID, userID)
	if err != nil {
		return 0, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := tx.ExecContext(ctx, insertVoteSQL, reviewID, userID); err != nil {
			return 0, err
		}
	}

	var count int
	if err := tx.QueryRowContext(ctx, countVotesSQL, reviewID).Scan(&count); err != nil {
		return 0, err
	}
	return count, tx.Commit()
}

// recompute is the rating aggregator. It must run inside the transaction of
// the review write that triggered it.
func recompute(ctx context.Context, tx *sql.Tx, productID int64) error {
	_, err := tx.ExecContext(ctx, recomputeRatingSQL, productID, productID)
	return err
}

func scanReview(row rowScanner) (domain.Review, error) {
	var rv domain.Review
	var pros, cons, images []byte
	if err := row.Scan(
		&rv.ID, &rv.ProductID, &rv.UserID, &rv.Rating, &rv.Title, &rv.Comment,
		&pros, &cons, &rv.UserType, &rv.Role, &rv.UseCase, &rv.Verified,
		&images, &rv.CreatedAt, &rv.UpdatedAt, &rv.Username, &rv.Helpful,
	); err != nil {
		return domain.Review{}, err
	}
	scanArr(pros, &rv.Pros)
	scanArr(cons, &rv.Cons)
	scanArr(images, &rv.Images)
	return rv, nil
}

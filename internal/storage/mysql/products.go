package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"techmart/internal/domain"
)

func (r *Repo) CreateProduct(ctx context.Context, p *domain.Product) error {
	res, err := r.db.ExecContext(ctx, insertProductSQL,
		p.Name,
		p.Category,
		p.Description,
		p.Price,
		p.Brand,
		p.Image,
		jsonArr(p.Features),
		jsonMap(p.Specifications),
		jsonArr(p.Badges),
		p.SystemRecommended,
		p.IsSystemCreated,
		jsonArr(p.TargetAudience),
		jsonArr(p.EducationalUse),
		jsonArr(p.Accessibility),
		jsonArr(p.UseCase),
		p.AddedBy,
		p.Approved,
	)
	if err != nil {
		if isMySQLErr(err, fkFailErr) {
			return domain.ErrNotFound // owner vanished
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

func (r *Repo) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	row := r.db.QueryRowContext(ctx, "SELECT"+productColumns+"FROM products WHERE id = ?", id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, domain.ErrNotFound
		}
		return domain.Product{}, err
	}
	return p, nil
}

func (r *Repo) ListProducts(ctx context.Context, q domain.ProductsQuery) (domain.ProductsPage, error) {
	where, args := buildProductFilter(q)

	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM products WHERE "+where, args...).Scan(&total); err != nil {
		return domain.ProductsPage{}, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 12
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	query := fmt.Sprintf("SELECT%sFROM products WHERE %s ORDER BY %s LIMIT ? OFFSET ?",
		productColumns, where, sortClause(q.Sort))
	items, err := r.queryProducts(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return domain.ProductsPage{}, err
	}
	return domain.ProductsPage{Items: items, Total: total}, nil
}

func (r *Repo) Recommendations(ctx context.Context, q domain.RecommendationsQuery) ([]domain.Product, error) {
	where := "approved = 1 AND system_recommended = 1"
	var args []any
	if q.UserType != "" {
		where += " AND JSON_CONTAINS(target_audience, JSON_QUOTE(?))"
		args = append(args, q.UserType)
	}
	if q.UseCase != "" {
		where += " AND JSON_CONTAINS(use_case, JSON_QUOTE(?))"
		args = append(args, q.UseCase)
	}
	if q.MaxPrice != nil {
		where += " AND price <= ?"
		args = append(args, *q.MaxPrice)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 6
	}
	query := fmt.Sprintf("SELECT%sFROM products WHERE %s ORDER BY rating DESC LIMIT ?", productColumns, where)
	return r.queryProducts(ctx, query, append(args, limit)...)
}

func (r *Repo) SearchProducts(ctx context.Context, intent domain.SearchIntent, limit int) ([]domain.Product, error) {
	where := "approved = 1"
	var args []any
	if intent.Category != "" {
		where += " AND category = ?"
		args = append(args, intent.Category)
	}
	if intent.UseCase != "" {
		where += " AND JSON_CONTAINS(use_case, JSON_QUOTE(?))"
		args = append(args, intent.UseCase)
	}
	if limit <= 0 {
		limit = 20
	}
	query := fmt.Sprintf("SELECT%sFROM products WHERE %s ORDER BY system_recommended DESC, rating DESC LIMIT ?",
		productColumns, where)
	return r.queryProducts(ctx, query, append(args, limit)...)
}

func (r *Repo) ListUserProducts(ctx context.Context, userID int64, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	query := "SELECT" + productColumns + "FROM products WHERE added_by = ? ORDER BY created_at DESC LIMIT ?"
	return r.queryProducts(ctx, query, userID, limit)
}

func (r *Repo) UpdateProduct(ctx context.Context, p domain.Product) error {
	res, err := r.db.ExecContext(ctx, updateProductSQL,
		p.Name,
		p.Category,
		p.Description,
		p.Price,
		p.Brand,
		p.Image,
		jsonArr(p.Features),
		jsonMap(p.Specifications),
		jsonArr(p.Badges),
		jsonArr(p.TargetAudience),
		jsonArr(p.EducationalUse),
		jsonArr(p.Accessibility),
		jsonArr(p.UseCase),
		p.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is 0 both for "missing" and "unchanged"; a missing row
		// matters, an unchanged one does not.
		if _, err := r.GetProduct(ctx, p.ID); err != nil {
			return err
		}
	}
	return nil
}

// DeleteProduct removes the product; the review set and its helpful votes go
// with it through the FK cascade.
func (r *Repo) DeleteProduct(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ---- scanning ----

type rowScanner interface{ Scan(dest ...any) error }

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	var features, specs, badges, audience, edu, access, useCase []byte
	var addedBy sql.NullInt64
	if err := row.Scan(
		&p.ID, &p.Name, &p.Category, &p.Description, &p.Price, &p.Brand, &p.Image,
		&features, &specs, &badges,
		&p.Rating, &p.ReviewCount, &p.SystemRecommended, &p.IsSystemCreated,
		&audience, &edu, &access, &useCase,
		&addedBy, &p.Approved, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return domain.Product{}, err
	}
	scanArr(features, &p.Features)
	scanMap(specs, &p.Specifications)
	scanArr(badges, &p.Badges)
	scanArr(audience, &p.TargetAudience)
	scanArr(edu, &p.EducationalUse)
	scanArr(access, &p.Accessibility)
	scanArr(useCase, &p.UseCase)
	if addedBy.Valid {
		p.AddedBy = addedBy.Int64
	}
	return p, nil
}

func (r *Repo) queryProducts(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

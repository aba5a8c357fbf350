package mysql

import (
	"encoding/json"
	"strings"

	"techmart/internal/domain"
)

// buildProductFilter turns a listing query into a WHERE clause and its args.
// Pure function, deterministic clause order. Public listing is always
// restricted to approved products regardless of the rest of the query.
func buildProductFilter(q domain.ProductsQuery) (string, []any) {
	where := []string{"approved = 1"}
	var args []any

	if q.Category != "" {
		where = append(where, "category = ?")
		args = append(args, q.Category)
	}
	if q.MinPrice != nil {
		where = append(where, "price >= ?")
		args = append(args, *q.MinPrice)
	}
	if q.MaxPrice != nil {
		where = append(where, "price <= ?")
		args = append(args, *q.MaxPrice)
	}
	if len(q.Badges) > 0 {
		where = append(where, "JSON_OVERLAPS(badges, CAST(? AS JSON))")
		args = append(args, mustJSON(q.Badges))
	}
	if len(q.TargetAudience) > 0 {
		where = append(where, "JSON_OVERLAPS(target_audience, CAST(? AS JSON))")
		args = append(args, mustJSON(q.TargetAudience))
	}
	if len(q.UseCase) > 0 {
		where = append(where, "JSON_OVERLAPS(use_case, CAST(? AS JSON))")
		args = append(args, mustJSON(q.UseCase))
	}
	if q.Search != "" {
		where = append(where, "MATCH(name, description, brand) AGAINST (? IN NATURAL LANGUAGE MODE)")
		args = append(args, q.Search)
	}
	return strings.Join(where, " AND "), args
}

// sortClause maps the API sort modes onto ORDER BY expressions. Ties fall
// back to the store's natural order on purpose.
func sortClause(sort string) string {
	switch sort {
	case "price-asc":
		return "price ASC"
	case "price-desc":
		return "price DESC"
	case "rating":
		return "rating DESC"
	case "newest":
		return "created_at DESC"
	default:
		return "system_recommended DESC, rating DESC"
	}
}

func mustJSON(v []string) string {
	b, _ := json.Marshal(v)
	return string(b)
}

package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storeops/storefront/internal/search/application"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) SearchProducts(ctx context.Context, q application.Query) ([]application.ProductHit, int, error) {
	var (
		args   []any
		wheres []string
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	selectCols := "p.id, p.title, p.description, p.price_cents, c.name"
	from := "FROM products p JOIN categories c ON c.id = p.category_id"

	if q.StoreID != 0 {
		from += fmt.Sprintf(" LEFT JOIN inventory i ON i.product_id = p.id AND i.store_id = %s", arg(q.StoreID))
		selectCols += ", i.quantity"
	} else {
		selectCols += ", NULL::bigint"
	}

	if q.Term != "" {
		pattern := "%" + q.Term + "%"
		p := arg(pattern)
		wheres = append(wheres, fmt.Sprintf("(p.title ILIKE %s OR p.description ILIKE %s OR c.name ILIKE %s)", p, p, p))
	}
	if q.CategoryID != 0 {
		wheres = append(wheres, fmt.Sprintf("p.category_id = %s", arg(q.CategoryID)))
	}
	if q.PriceMin != nil {
		wheres = append(wheres, fmt.Sprintf("p.price_cents >= %s", arg(*q.PriceMin)))
	}
	if q.PriceMax != nil {
		wheres = append(wheres, fmt.Sprintf("p.price_cents <= %s", arg(*q.PriceMax)))
	}
	if q.InStockOnly {
		wheres = append(wheres, "i.quantity > 0")
	}

	where := ""
	if len(wheres) > 0 {
		where = " WHERE " + strings.Join(wheres, " AND ")
	}

	var total int
	countSQL := "SELECT count(*) " + from + where
	if err := r.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderBy := "p.title"
	switch q.Sort {
	case application.SortPrice:
		orderBy = "p.price_cents"
	case application.SortNewest:
		orderBy = "p.created_at DESC"
	case application.SortRelevance:
		// Title matches rank above description matches, which rank above
		// category matches.
		pattern := "%" + q.Term + "%"
		orderBy = fmt.Sprintf(`CASE
			WHEN p.title ILIKE %s THEN 3
			WHEN p.description ILIKE %s THEN 2
			WHEN c.name ILIKE %s THEN 1
			ELSE 0
		END DESC, p.title`, arg(pattern), arg(pattern), arg(pattern))
	}

	sql := fmt.Sprintf("SELECT %s %s%s ORDER BY %s LIMIT %s OFFSET %s",
		selectCols, from, where, orderBy, arg(q.PageSize), arg(q.Offset()))

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var hits []application.ProductHit
	for rows.Next() {
		var h application.ProductHit
		if err := rows.Scan(&h.ID, &h.Title, &h.Description, &h.PriceCents, &h.CategoryName, &h.Quantity); err != nil {
			return nil, 0, err
		}
		hits = append(hits, h)
	}
	return hits, total, rows.Err()
}

func (r *Repository) SuggestProducts(ctx context.Context, term string, limit int) ([]application.Suggestion, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title
		FROM products
		WHERE title ILIKE '%' || $1 || '%'
		ORDER BY (title ILIKE $1 || '%') DESC, title
		LIMIT $2
	`, term, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var suggestions []application.Suggestion
	for rows.Next() {
		var s application.Suggestion
		if err := rows.Scan(&s.ID, &s.Title); err != nil {
			return nil, err
		}
		suggestions = append(suggestions, s)
	}
	return suggestions, rows.Err()
}

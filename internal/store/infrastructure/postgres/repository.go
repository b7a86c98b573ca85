package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	orderdomain "github.com/storeops/storefront/internal/order/domain"
	"github.com/storeops/storefront/internal/store/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) ResolveStore(ctx context.Context, id int64) (domain.Store, error) {
	var s domain.Store
	err := r.pool.QueryRow(ctx, `SELECT id, name, location FROM stores WHERE id = $1`, id).
		Scan(&s.ID, &s.Name, &s.Location)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Store{}, &orderdomain.NotFoundError{Kind: "store", ID: id}
	}
	if err != nil {
		return domain.Store{}, err
	}
	return s, nil
}

// ListInventory returns the store's current stock, ordered by product title.
// This is a plain snapshot read; it takes no row locks.
func (r *Repository) ListInventory(ctx context.Context, storeID int64) ([]domain.InventoryRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT i.store_id, i.product_id, p.title, i.quantity
		FROM inventory i
		JOIN products p ON p.id = i.product_id
		WHERE i.store_id = $1
		ORDER BY p.title
	`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var inventory []domain.InventoryRow
	for rows.Next() {
		var row domain.InventoryRow
		if err := rows.Scan(&row.StoreID, &row.ProductID, &row.ProductTitle, &row.Quantity); err != nil {
			return nil, err
		}
		inventory = append(inventory, row)
	}
	return inventory, rows.Err()
}

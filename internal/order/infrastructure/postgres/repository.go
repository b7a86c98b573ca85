package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storeops/storefront/internal/order/application"
	"github.com/storeops/storefront/internal/order/domain"
)

// Repository implements application.FulfillmentStore on postgres. Row locks
// are plain SELECT ... FOR UPDATE, scoped to the pgx transaction that Fulfill
// opens; postgres releases them on commit or rollback.
type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) Fulfill(ctx context.Context, fn func(tx application.FulfillmentTx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(&fulfillmentTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repository) ListOrders(ctx context.Context, storeID int64) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, store_id, status, created_at
		FROM orders
		WHERE store_id = $1
		ORDER BY created_at DESC, id DESC
	`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	index := make(map[int64]int)
	var ids []int64
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.StoreID, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		index[o.ID] = len(orders)
		ids = append(ids, o.ID)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	itemRows, err := r.pool.Query(ctx, `
		SELECT i.id, i.order_id, i.product_id, p.title, i.quantity_requested
		FROM order_items i
		JOIN products p ON p.id = i.product_id
		WHERE i.order_id = ANY($1)
		ORDER BY i.id
	`, ids)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var item domain.OrderItem
		var orderID int64
		if err := itemRows.Scan(&item.ID, &orderID, &item.ProductID, &item.ProductTitle, &item.QuantityRequested); err != nil {
			return nil, err
		}
		i := index[orderID]
		orders[i].Items = append(orders[i].Items, item)
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

type fulfillmentTx struct {
	tx pgx.Tx
}

func (t *fulfillmentTx) InsertOrder(ctx context.Context, o *domain.Order) error {
	return t.tx.QueryRow(ctx, `
		INSERT INTO orders (store_id, status, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, o.StoreID, o.Status, o.CreatedAt).Scan(&o.ID)
}

func (t *fulfillmentTx) InsertItem(ctx context.Context, orderID int64, item *domain.OrderItem) error {
	return t.tx.QueryRow(ctx, `
		INSERT INTO order_items (order_id, product_id, quantity_requested)
		VALUES ($1, $2, $3)
		RETURNING id
	`, orderID, item.ProductID, item.QuantityRequested).Scan(&item.ID)
}

func (t *fulfillmentTx) UpdateStatus(ctx context.Context, o *domain.Order) error {
	_, err := t.tx.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, o.ID, o.Status)
	return err
}

func (t *fulfillmentTx) LockStock(ctx context.Context, storeID, productID int64) (int64, bool, error) {
	var quantity int64
	err := t.tx.QueryRow(ctx, `
		SELECT quantity FROM inventory
		WHERE store_id = $1 AND product_id = $2
		FOR UPDATE
	`, storeID, productID).Scan(&quantity)
	if errors.Is(err, pgx.ErrNoRows) {
		// A missing row is legitimate zero stock, not an error.
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return quantity, true, nil
}

func (t *fulfillmentTx) DeductStock(ctx context.Context, storeID, productID, amount int64) error {
	ct, err := t.tx.Exec(ctx, `
		UPDATE inventory
		SET quantity = quantity - $3
		WHERE store_id = $1 AND product_id = $2 AND quantity >= $3
	`, storeID, productID, amount)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return &domain.InsufficientStockError{StoreID: storeID, ProductID: productID, Requested: amount}
	}
	return nil
}

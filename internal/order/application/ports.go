package application

import (
	"context"

	catalogdomain "github.com/storeops/storefront/internal/catalog/domain"
	"github.com/storeops/storefront/internal/order/domain"
	storedomain "github.com/storeops/storefront/internal/store/domain"
)

// FulfillmentStore owns the transactional boundary of one submission. Fulfill
// runs fn inside a single unit of work: every write and every row lock taken
// through the FulfillmentTx becomes visible together on commit, or not at all
// if fn returns an error.
type FulfillmentStore interface {
	Fulfill(ctx context.Context, fn func(tx FulfillmentTx) error) error
	ListOrders(ctx context.Context, storeID int64) ([]domain.Order, error)
}

// FulfillmentTx is the set of writes available inside one unit of work.
type FulfillmentTx interface {
	InsertOrder(ctx context.Context, o *domain.Order) error
	InsertItem(ctx context.Context, orderID int64, item *domain.OrderItem) error
	UpdateStatus(ctx context.Context, o *domain.Order) error

	// LockStock acquires an exclusive lock on the (store, product) inventory
	// row for the remainder of the unit of work. A missing row is reported as
	// found=false with quantity 0; no row is created.
	LockStock(ctx context.Context, storeID, productID int64) (quantity int64, found bool, err error)

	// DeductStock decrements a row the caller already locked via LockStock in
	// this same unit. Returns InsufficientStockError if the decrement would go
	// negative, which indicates an internal consistency violation.
	DeductStock(ctx context.Context, storeID, productID, amount int64) error
}

type StoreGateway interface {
	ResolveStore(ctx context.Context, id int64) (storedomain.Store, error)
}

type CatalogGateway interface {
	ResolveProduct(ctx context.Context, id int64) (catalogdomain.Product, error)
}

// Notifier delivers the post-commit confirmation signal. Best-effort: the
// coordinator swallows every error it returns.
type Notifier interface {
	NotifyConfirmed(ctx context.Context, orderID int64) error
}

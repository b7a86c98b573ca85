package application

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/storeops/storefront/internal/order/domain"
)

const notifyTimeout = 5 * time.Second

// OrderLine is one requested (product, quantity) pair as submitted by the
// caller, in the caller's original order.
type OrderLine struct {
	ProductID int64
	Quantity  int64
}

type Service struct {
	log      *slog.Logger
	store    FulfillmentStore
	stores   StoreGateway
	catalog  CatalogGateway
	notifier Notifier
}

func NewService(log *slog.Logger, store FulfillmentStore, stores StoreGateway, catalog CatalogGateway, notifier Notifier) *Service {
	return &Service{
		log:      log,
		store:    store,
		stores:   stores,
		catalog:  catalog,
		notifier: notifier,
	}
}

// demand is the summed requested quantity for one product across all lines of
// a single order. Locking and deduction work per demand so that a product
// repeated across lines is locked once and deducted once.
type demand struct {
	productID int64
	quantity  int64
}

// SubmitOrder runs one fulfillment attempt as a single atomic unit of work.
// The order is CONFIRMED and stock deducted only if every requested line can
// be covered by the locked inventory rows; otherwise it is REJECTED with no
// deduction at all. Both outcomes are normal results. An unknown store or
// product aborts the whole unit and nothing is persisted.
func (s *Service) SubmitOrder(ctx context.Context, storeID int64, lines []OrderLine) (domain.Order, error) {
	if len(lines) == 0 {
		return domain.Order{}, domain.ErrEmptyOrder
	}
	for _, l := range lines {
		if l.Quantity < 1 {
			return domain.Order{}, domain.ErrInvalidQuantity
		}
	}

	if _, err := s.stores.ResolveStore(ctx, storeID); err != nil {
		return domain.Order{}, err
	}

	demands := aggregateDemand(lines)

	var result domain.Order
	err := s.store.Fulfill(ctx, func(tx FulfillmentTx) error {
		order := domain.Open(storeID)
		if err := tx.InsertOrder(ctx, order); err != nil {
			return err
		}

		// Inventory rows are locked in ascending product id order regardless
		// of how the caller arranged the lines. Two submissions racing over
		// overlapping product sets therefore acquire locks in the same
		// relative order, which rules out a circular wait between them.
		titles := make(map[int64]string, len(demands))
		sufficient := true
		for _, d := range demands {
			product, err := s.catalog.ResolveProduct(ctx, d.productID)
			if err != nil {
				return err
			}
			titles[d.productID] = product.Title

			quantity, found, err := tx.LockStock(ctx, storeID, d.productID)
			if err != nil {
				return err
			}
			if !found || quantity < d.quantity {
				sufficient = false
			}
		}

		// Every line is recorded as submitted, whether or not the order ends
		// up confirmed: the items are a record of what was asked for.
		for _, l := range lines {
			if err := order.RecordItem(l.ProductID, titles[l.ProductID], l.Quantity); err != nil {
				return err
			}
			item := &order.Items[len(order.Items)-1]
			if err := tx.InsertItem(ctx, order.ID, item); err != nil {
				return err
			}
		}

		if sufficient {
			for _, d := range demands {
				if err := tx.DeductStock(ctx, storeID, d.productID, d.quantity); err != nil {
					return err
				}
			}
			if err := order.Resolve(domain.StatusConfirmed); err != nil {
				return err
			}
		} else {
			if err := order.Resolve(domain.StatusRejected); err != nil {
				return err
			}
		}
		if err := tx.UpdateStatus(ctx, order); err != nil {
			return err
		}

		result = *order
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	if result.Status == domain.StatusConfirmed {
		s.notifyConfirmed(result.ID)
	}
	return result, nil
}

// ListOrders returns the store's order history, newest first.
func (s *Service) ListOrders(ctx context.Context, storeID int64) ([]domain.Order, error) {
	return s.store.ListOrders(ctx, storeID)
}

// notifyConfirmed hands the confirmation signal to its own goroutine with a
// fresh context, outside the transactional boundary. Failures are logged and
// discarded; they can never change the order's recorded outcome.
func (s *Service) notifyConfirmed(orderID int64) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.notifier.NotifyConfirmed(ctx, orderID); err != nil {
			s.log.Warn("order confirmation notify failed", "order_id", orderID, "err", err)
		}
	}()
}

func aggregateDemand(lines []OrderLine) []demand {
	byProduct := make(map[int64]int64, len(lines))
	for _, l := range lines {
		byProduct[l.ProductID] += l.Quantity
	}
	demands := make([]demand, 0, len(byProduct))
	for id, qty := range byProduct {
		demands = append(demands, demand{productID: id, quantity: qty})
	}
	sort.Slice(demands, func(i, j int) bool { return demands[i].productID < demands[j].productID })
	return demands
}

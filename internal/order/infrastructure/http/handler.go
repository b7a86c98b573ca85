package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/storeops/storefront/internal/order/application"
	"github.com/storeops/storefront/internal/order/domain"
)

type OrderService interface {
	SubmitOrder(ctx context.Context, storeID int64, lines []application.OrderLine) (domain.Order, error)
	ListOrders(ctx context.Context, storeID int64) ([]domain.Order, error)
}

type Handler struct {
	log     *slog.Logger
	service OrderService
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service OrderService) *Handler {
	return &Handler{
		log:     log,
		service: service,
		tracer:  otel.Tracer("order-http"),
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/orders", h.createOrder)
	r.Get("/stores/{storeID}/orders", h.listOrders)
}

type createOrderReq struct {
	StoreID int64 `json:"store_id"`
	Items   []struct {
		ProductID         int64 `json:"product_id"`
		QuantityRequested int64 `json:"quantity_requested"`
	} `json:"items"`
}

type orderItemResp struct {
	ID                int64  `json:"id"`
	Product           int64  `json:"product"`
	ProductTitle      string `json:"product_title"`
	QuantityRequested int64  `json:"quantity_requested"`
}

type orderResp struct {
	ID         int64           `json:"id"`
	Store      int64           `json:"store"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	Items      []orderItemResp `json:"items"`
	TotalItems int             `json:"total_items"`
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "SubmitOrder")
	defer span.End()

	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "at least one item is required")
		return
	}
	lines := make([]application.OrderLine, 0, len(req.Items))
	for _, it := range req.Items {
		if it.QuantityRequested < 1 {
			writeError(w, http.StatusBadRequest, "quantity_requested must be at least 1")
			return
		}
		lines = append(lines, application.OrderLine{ProductID: it.ProductID, Quantity: it.QuantityRequested})
	}

	order, err := h.service.SubmitOrder(ctx, req.StoreID, lines)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(toOrderResp(order))
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListOrders")
	defer span.End()

	storeID, err := strconv.ParseInt(chi.URLParam(r, "storeID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid store id")
		return
	}

	orders, err := h.service.ListOrders(ctx, storeID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	resp := make([]orderResp, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toOrderResp(o))
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var notFound *domain.NotFoundError
	switch {
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, notFound.Error())
	case errors.Is(err, domain.ErrEmptyOrder), errors.Is(err, domain.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error("order request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func toOrderResp(o domain.Order) orderResp {
	items := make([]orderItemResp, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemResp{
			ID:                it.ID,
			Product:           it.ProductID,
			ProductTitle:      it.ProductTitle,
			QuantityRequested: it.QuantityRequested,
		})
	}
	return orderResp{
		ID:         o.ID,
		Store:      o.StoreID,
		Status:     string(o.Status),
		CreatedAt:  o.CreatedAt,
		Items:      items,
		TotalItems: len(items),
	}
}

func writeError(w http.ResponseWriter, code int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

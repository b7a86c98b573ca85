package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/storeops/storefront/internal/catalog/domain"
)

type ProductLister interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

type Handler struct {
	log      *slog.Logger
	products ProductLister
}

func NewHandler(log *slog.Logger, products ProductLister) *Handler {
	return &Handler{log: log, products: products}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/products", h.listProducts)
}

type productResp struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	PriceCents   int64     `json:"price_cents"`
	CategoryName string    `json:"category_name"`
	CreatedAt    time.Time `json:"created_at"`
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListProducts(r.Context())
	if err != nil {
		h.log.Error("product list failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := make([]productResp, 0, len(products))
	for _, p := range products {
		resp = append(resp, productResp{
			ID:           p.ID,
			Title:        p.Title,
			Description:  p.Description,
			PriceCents:   p.PriceCents,
			CategoryName: p.CategoryName,
			CreatedAt:    p.CreatedAt,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

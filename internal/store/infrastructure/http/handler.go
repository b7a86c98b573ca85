package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/storeops/storefront/internal/store/domain"
)

type InventoryLister interface {
	ListInventory(ctx context.Context, storeID int64) ([]domain.InventoryRow, error)
}

type Handler struct {
	log       *slog.Logger
	inventory InventoryLister
}

func NewHandler(log *slog.Logger, inventory InventoryLister) *Handler {
	return &Handler{log: log, inventory: inventory}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/stores/{storeID}/inventory", h.listInventory)
}

type inventoryResp struct {
	ProductID    int64  `json:"product_id"`
	ProductTitle string `json:"product_title"`
	Quantity     int64  `json:"quantity"`
}

func (h *Handler) listInventory(w http.ResponseWriter, r *http.Request) {
	storeID, err := strconv.ParseInt(chi.URLParam(r, "storeID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid store id", http.StatusBadRequest)
		return
	}

	rows, err := h.inventory.ListInventory(r.Context(), storeID)
	if err != nil {
		h.log.Error("inventory list failed", "store_id", storeID, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := make([]inventoryResp, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, inventoryResp{
			ProductID:    row.ProductID,
			ProductTitle: row.ProductTitle,
			Quantity:     row.Quantity,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/storeops/storefront/internal/search/application"
)

type SearchService interface {
	SearchProducts(ctx context.Context, q application.Query) (application.Result, error)
	Suggest(ctx context.Context, term string) ([]application.Suggestion, error)
}

// ClientLimiter gates the suggest endpoint per client identity.
type ClientLimiter interface {
	Allow(ctx context.Context, ident string) bool
}

type Handler struct {
	log     *slog.Logger
	service SearchService
	limiter ClientLimiter
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service SearchService, limiter ClientLimiter) *Handler {
	return &Handler{
		log:     log,
		service: service,
		limiter: limiter,
		tracer:  otel.Tracer("search-http"),
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/search/products", h.searchProducts)
	r.With(h.throttle).Get("/search/suggest", h.suggest)
}

type productHitResp struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	PriceCents   int64  `json:"price_cents"`
	CategoryName string `json:"category_name"`
	Quantity     *int64 `json:"quantity"`
}

type searchResp struct {
	Count    int              `json:"count"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Results  []productHitResp `json:"results"`
}

func (h *Handler) searchProducts(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "SearchProducts")
	defer span.End()

	q, err := parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.SearchProducts(ctx, q)
	if err != nil {
		h.log.Error("product search failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := searchResp{
		Count:    result.Count,
		Page:     result.Page,
		PageSize: result.PageSize,
		Results:  make([]productHitResp, 0, len(result.Results)),
	}
	for _, hit := range result.Results {
		resp.Results = append(resp.Results, productHitResp{
			ID:           hit.ID,
			Title:        hit.Title,
			Description:  hit.Description,
			PriceCents:   hit.PriceCents,
			CategoryName: hit.CategoryName,
			Quantity:     hit.Quantity,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

type suggestionResp struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "SuggestProducts")
	defer span.End()

	suggestions, err := h.service.Suggest(ctx, r.URL.Query().Get("q"))
	if errors.Is(err, application.ErrTermTooShort) {
		writeError(w, http.StatusBadRequest, "Minimum 3 characters required.")
		return
	}
	if err != nil {
		h.log.Error("suggest failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := make([]suggestionResp, 0, len(suggestions))
	for _, s := range suggestions {
		resp = append(resp, suggestionResp{ID: s.ID, Title: s.Title})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *Handler) throttle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.limiter.Allow(r.Context(), clientIdent(r)) {
			writeError(w, http.StatusTooManyRequests, "request rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIdent(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func parseQuery(r *http.Request) (application.Query, error) {
	params := r.URL.Query()
	q := application.Query{
		Term: params.Get("q"),
		Sort: params.Get("sort"),
	}

	var err error
	if q.CategoryID, err = parseOptionalInt(params.Get("category")); err != nil {
		return q, errors.New("invalid category")
	}
	if q.StoreID, err = parseOptionalInt(params.Get("store_id")); err != nil {
		return q, errors.New("invalid store_id")
	}
	if v := params.Get("price_min"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return q, errors.New("invalid price_min")
		}
		q.PriceMin = &n
	}
	if v := params.Get("price_max"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return q, errors.New("invalid price_max")
		}
		q.PriceMax = &n
	}
	q.InStockOnly = params.Get("in_stock") == "true"

	if v := params.Get("page"); v != "" {
		if q.Page, err = strconv.Atoi(v); err != nil {
			return q, errors.New("invalid page")
		}
	}
	if v := params.Get("page_size"); v != "" {
		if q.PageSize, err = strconv.Atoi(v); err != nil {
			return q, errors.New("invalid page_size")
		}
	}
	return q, nil
}

func parseOptionalInt(v string) (int64, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.ParseInt(v, 10, 64)
}

func writeError(w http.ResponseWriter, code int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

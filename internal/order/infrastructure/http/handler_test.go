package http_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeops/storefront/internal/order/application"
	"github.com/storeops/storefront/internal/order/domain"
	orderhttp "github.com/storeops/storefront/internal/order/infrastructure/http"
)

type stubService struct {
	submitted domain.Order
	listed    []domain.Order
	err       error

	gotStoreID int64
	gotLines   []application.OrderLine
}

func (s *stubService) SubmitOrder(_ context.Context, storeID int64, lines []application.OrderLine) (domain.Order, error) {
	s.gotStoreID = storeID
	s.gotLines = lines
	return s.submitted, s.err
}

func (s *stubService) ListOrders(_ context.Context, storeID int64) ([]domain.Order, error) {
	s.gotStoreID = storeID
	return s.listed, s.err
}

func newRouter(svc *stubService) http.Handler {
	r := chi.NewRouter()
	orderhttp.NewHandler(slog.New(slog.DiscardHandler), svc).Register(r)
	return r
}

func TestCreateOrderReturnsCreatedOrder(t *testing.T) {
	svc := &stubService{
		submitted: domain.Order{
			ID:        42,
			StoreID:   1,
			Status:    domain.StatusConfirmed,
			CreatedAt: time.Now().UTC(),
			Items: []domain.OrderItem{
				{ID: 1, ProductID: 10, ProductTitle: "Widget", QuantityRequested: 3},
			},
		},
	}
	router := newRouter(svc)

	body := `{"store_id": 1, "items": [{"product_id": 10, "quantity_requested": 3}]}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(1), svc.gotStoreID)
	require.Len(t, svc.gotLines, 1)
	assert.Equal(t, application.OrderLine{ProductID: 10, Quantity: 3}, svc.gotLines[0])

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(42), resp["id"])
	assert.Equal(t, "CONFIRMED", resp["status"])
	assert.Equal(t, float64(1), resp["total_items"])
}

func TestCreateOrderRejectedIsStillCreated(t *testing.T) {
	svc := &stubService{
		submitted: domain.Order{ID: 43, StoreID: 1, Status: domain.StatusRejected},
	}
	router := newRouter(svc)

	body := `{"store_id": 1, "items": [{"product_id": 10, "quantity_requested": 5}]}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "REJECTED", resp["status"])
}

func TestCreateOrderValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"store_id": `},
		{"no items", `{"store_id": 1, "items": []}`},
		{"zero quantity", `{"store_id": 1, "items": [{"product_id": 10, "quantity_requested": 0}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newRouter(&stubService{})
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(tc.body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreateOrderNotFound(t *testing.T) {
	svc := &stubService{err: &domain.NotFoundError{Kind: "product", ID: 99}}
	router := newRouter(svc)

	body := `{"store_id": 1, "items": [{"product_id": 99, "quantity_requested": 1}]}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body)))

	require.Equal(t, http.StatusNotFound, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["detail"], "product 99")
}

func TestListOrders(t *testing.T) {
	svc := &stubService{
		listed: []domain.Order{
			{ID: 2, StoreID: 5, Status: domain.StatusRejected},
			{ID: 1, StoreID: 5, Status: domain.StatusConfirmed},
		},
	}
	router := newRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stores/5/orders", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(5), svc.gotStoreID)

	var resp []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, float64(2), resp[0]["id"])
}

func TestListOrdersInvalidStoreID(t *testing.T) {
	router := newRouter(&stubService{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stores/abc/orders", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

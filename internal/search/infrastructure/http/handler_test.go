package http_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeops/storefront/internal/search/application"
	searchhttp "github.com/storeops/storefront/internal/search/infrastructure/http"
)

type stubSearch struct {
	gotQuery application.Query
	gotTerm  string
	result   application.Result
}

func (s *stubSearch) SearchProducts(_ context.Context, q application.Query) (application.Result, error) {
	s.gotQuery = q
	return s.result, nil
}

func (s *stubSearch) Suggest(_ context.Context, term string) ([]application.Suggestion, error) {
	s.gotTerm = term
	if len(term) < 3 {
		return nil, application.ErrTermTooShort
	}
	return []application.Suggestion{{ID: 1, Title: "Desk lamp"}}, nil
}

type stubLimiter struct {
	allow bool
}

func (l *stubLimiter) Allow(context.Context, string) bool { return l.allow }

func newRouter(svc *stubSearch, limiter *stubLimiter) http.Handler {
	r := chi.NewRouter()
	searchhttp.NewHandler(slog.New(slog.DiscardHandler), svc, limiter).Register(r)
	return r
}

func TestSearchProductsParsesQuery(t *testing.T) {
	svc := &stubSearch{result: application.Result{Count: 1, Page: 2, PageSize: 10}}
	router := newRouter(svc, &stubLimiter{allow: true})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/search/products?q=lamp&category=3&price_min=1000&price_max=5000&store_id=7&in_stock=true&sort=price&page=2&page_size=10", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "lamp", svc.gotQuery.Term)
	assert.Equal(t, int64(3), svc.gotQuery.CategoryID)
	require.NotNil(t, svc.gotQuery.PriceMin)
	assert.Equal(t, int64(1000), *svc.gotQuery.PriceMin)
	require.NotNil(t, svc.gotQuery.PriceMax)
	assert.Equal(t, int64(5000), *svc.gotQuery.PriceMax)
	assert.Equal(t, int64(7), svc.gotQuery.StoreID)
	assert.True(t, svc.gotQuery.InStockOnly)
	assert.Equal(t, "price", svc.gotQuery.Sort)
	assert.Equal(t, 2, svc.gotQuery.Page)
	assert.Equal(t, 10, svc.gotQuery.PageSize)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(1), resp["count"])
	assert.Equal(t, float64(2), resp["page"])
}

func TestSearchProductsRejectsBadParams(t *testing.T) {
	router := newRouter(&stubSearch{}, &stubLimiter{allow: true})

	for _, target := range []string{
		"/search/products?category=abc",
		"/search/products?price_min=abc",
		"/search/products?page=abc",
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestSuggestShortTerm(t *testing.T) {
	router := newRouter(&stubSearch{}, &stubLimiter{allow: true})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search/suggest?q=ab", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["detail"], "Minimum 3 characters")
}

func TestSuggestReturnsSuggestions(t *testing.T) {
	svc := &stubSearch{}
	router := newRouter(svc, &stubLimiter{allow: true})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search/suggest?q=lam", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "lam", svc.gotTerm)

	var resp []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "Desk lamp", resp[0]["title"])
}

func TestSuggestThrottled(t *testing.T) {
	router := newRouter(&stubSearch{}, &stubLimiter{allow: false})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search/suggest?q=lam", nil))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestSearchProductsNotThrottled(t *testing.T) {
	// Only the suggest endpoint is rate limited.
	router := newRouter(&stubSearch{}, &stubLimiter{allow: false})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search/products?q=lamp", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

package application_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeops/storefront/internal/search/application"
)

type stubRepo struct {
	gotQuery application.Query
	gotTerm  string
	gotLimit int
	hits     []application.ProductHit
	total    int
}

func (r *stubRepo) SearchProducts(_ context.Context, q application.Query) ([]application.ProductHit, int, error) {
	r.gotQuery = q
	return r.hits, r.total, nil
}

func (r *stubRepo) SuggestProducts(_ context.Context, term string, limit int) ([]application.Suggestion, error) {
	r.gotTerm = term
	r.gotLimit = limit
	return nil, nil
}

func newService() (*application.Service, *stubRepo) {
	repo := &stubRepo{}
	return application.NewService(slog.New(slog.DiscardHandler), repo), repo
}

func TestQueryNormalizeDefaults(t *testing.T) {
	q := application.Query{}
	q.Normalize()

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 20, q.PageSize)
	assert.Equal(t, application.SortTitle, q.Sort)
}

func TestQueryNormalizeClampsPageSize(t *testing.T) {
	q := application.Query{Page: -3, PageSize: 5000}
	q.Normalize()

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 100, q.PageSize)
}

func TestQueryNormalizeSorts(t *testing.T) {
	q := application.Query{Sort: "price"}
	q.Normalize()
	assert.Equal(t, application.SortPrice, q.Sort)

	q = application.Query{Sort: "garbage"}
	q.Normalize()
	assert.Equal(t, application.SortTitle, q.Sort)

	// Relevance needs a term to rank against.
	q = application.Query{Sort: "relevance"}
	q.Normalize()
	assert.Equal(t, application.SortTitle, q.Sort)

	q = application.Query{Sort: "relevance", Term: "lamp"}
	q.Normalize()
	assert.Equal(t, application.SortRelevance, q.Sort)
}

func TestQueryNormalizeInStockNeedsStore(t *testing.T) {
	q := application.Query{InStockOnly: true}
	q.Normalize()
	assert.False(t, q.InStockOnly)

	q = application.Query{InStockOnly: true, StoreID: 3}
	q.Normalize()
	assert.True(t, q.InStockOnly)
}

func TestQueryOffset(t *testing.T) {
	q := application.Query{Page: 3, PageSize: 20}
	q.Normalize()
	assert.Equal(t, 40, q.Offset())
}

func TestSearchProductsWrapsPagination(t *testing.T) {
	svc, repo := newService()
	repo.total = 57
	repo.hits = []application.ProductHit{{ID: 1, Title: "Desk lamp"}}

	result, err := svc.SearchProducts(context.Background(), application.Query{Term: "  lamp  ", Page: 2})
	require.NoError(t, err)

	assert.Equal(t, 57, result.Count)
	assert.Equal(t, 2, result.Page)
	assert.Equal(t, 20, result.PageSize)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "lamp", repo.gotQuery.Term, "term is trimmed before hitting storage")
}

func TestSuggestRequiresThreeCharacters(t *testing.T) {
	svc, repo := newService()

	_, err := svc.Suggest(context.Background(), "ab")
	assert.ErrorIs(t, err, application.ErrTermTooShort)

	_, err = svc.Suggest(context.Background(), "  ab  ")
	assert.ErrorIs(t, err, application.ErrTermTooShort)

	_, err = svc.Suggest(context.Background(), "lam")
	require.NoError(t, err)
	assert.Equal(t, "lam", repo.gotTerm)
	assert.Equal(t, 10, repo.gotLimit)
}

package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	suggestLimit    = 10
	minSuggestTerm  = 3
)

var ErrTermTooShort = errors.New("minimum 3 characters required")

const (
	SortTitle     = "title"
	SortPrice     = "price"
	SortNewest    = "newest"
	SortRelevance = "relevance"
)

// Query is one product search request after parameter parsing. Zero values
// mean "filter not applied".
type Query struct {
	Term        string
	CategoryID  int64
	PriceMin    *int64 // cents
	PriceMax    *int64 // cents
	StoreID     int64  // annotate per-store quantity when set
	InStockOnly bool   // only meaningful with StoreID
	Sort        string
	Page        int
	PageSize    int
}

// Normalize clamps paging and falls back to title ordering for unknown sorts.
// Relevance ordering needs a search term to rank against.
func (q *Query) Normalize() {
	q.Term = strings.TrimSpace(q.Term)
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = defaultPageSize
	}
	if q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}
	switch q.Sort {
	case SortPrice, SortNewest:
	case SortRelevance:
		if q.Term == "" {
			q.Sort = SortTitle
		}
	default:
		q.Sort = SortTitle
	}
	if q.StoreID == 0 {
		q.InStockOnly = false
	}
}

func (q *Query) Offset() int {
	return (q.Page - 1) * q.PageSize
}

type ProductHit struct {
	ID           int64
	Title        string
	Description  string
	PriceCents   int64
	CategoryName string
	// Quantity is the stock in the requested store; nil when no store was
	// given or the store has no row for this product.
	Quantity *int64
}

type Result struct {
	Count    int
	Page     int
	PageSize int
	Results  []ProductHit
}

type Suggestion struct {
	ID    int64
	Title string
}

type SearchRepository interface {
	SearchProducts(ctx context.Context, q Query) (hits []ProductHit, total int, err error)
	SuggestProducts(ctx context.Context, term string, limit int) ([]Suggestion, error)
}

type Service struct {
	log  *slog.Logger
	repo SearchRepository
}

func NewService(log *slog.Logger, repo SearchRepository) *Service {
	return &Service{log: log, repo: repo}
}

func (s *Service) SearchProducts(ctx context.Context, q Query) (Result, error) {
	q.Normalize()
	hits, total, err := s.repo.SearchProducts(ctx, q)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Count:    total,
		Page:     q.Page,
		PageSize: q.PageSize,
		Results:  hits,
	}, nil
}

func (s *Service) Suggest(ctx context.Context, term string) ([]Suggestion, error) {
	term = strings.TrimSpace(term)
	if len(term) < minSuggestTerm {
		return nil, ErrTermTooShort
	}
	return s.repo.SuggestProducts(ctx, term, suggestLimit)
}

package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/rshade/catalogview/internal/api"
	"github.com/rshade/catalogview/internal/query"
)

// CatalogClient is the data source the app reads from. *api.Client satisfies it.
type CatalogClient interface {
	FetchRootProducts(ctx context.Context) ([]api.Product, error)
	FetchChildProducts(ctx context.Context, parentID string) ([]api.Product, error)
	FetchProductDetail(ctx context.Context, productID string) (*api.ProductDetail, error)
	FetchProductReviews(ctx context.Context, productID string) ([]api.Review, error)
}

// rootsKey is the single key of the roots cache.
const rootsKey = "roots"

// session holds the client and the query caches shared by all pages.
type session struct {
	client   CatalogClient
	logger   zerolog.Logger
	roots    *query.Cache[[]api.Product]
	children *query.Cache[[]api.Product]
	details  *query.Cache[*api.ProductDetail]
	reviews  *query.Cache[[]api.Review]

	staleAfter  time.Duration
	refreshedAt time.Time
	now         func() time.Time
}

func newSession(ctx context.Context, client CatalogClient, logger zerolog.Logger, staleAfter time.Duration) *session {
	cfg := query.Config{StaleAfter: staleAfter, Context: ctx, Logger: logger}
	return &session{
		client:   client,
		logger:   logger,
		roots:    query.NewCache[[]api.Product]("roots", cfg),
		children: query.NewCache[[]api.Product]("children", cfg),
		details:  query.NewCache[*api.ProductDetail]("details", cfg),
		reviews:  query.NewCache[[]api.Review]("reviews", cfg),

		staleAfter: staleAfter,
		now:        time.Now,
	}
}

// handle routes a query result to the cache that issued it.
func (s *session) handle(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case query.ResultMsg[[]api.Product]:
		return s.roots.Handle(msg) || s.children.Handle(msg)
	case query.ResultMsg[*api.ProductDetail]:
		return s.details.Handle(msg)
	case query.ResultMsg[[]api.Review]:
		return s.reviews.Handle(msg)
	}
	return false
}

// clear drops every cached query so the next render refetches. Responses the
// client cached on disk before this point are not served again.
func (s *session) clear() {
	s.refreshedAt = s.now()
	s.roots.Clear()
	s.children.Clear()
	s.details.Clear()
	s.reviews.Clear()
}

// cachedAfter is the oldest response cache entry a fetch issued now may use:
// nothing from before the last refresh, nothing already stale.
func (s *session) cachedAfter() time.Time {
	cutoff := s.refreshedAt
	if s.staleAfter > 0 {
		if horizon := s.now().Add(-s.staleAfter); horizon.After(cutoff) {
			cutoff = horizon
		}
	}
	return cutoff
}

func (s *session) queryRoots() (query.State[[]api.Product], tea.Cmd) {
	after := s.cachedAfter()
	return s.roots.Query(rootsKey, true, func(ctx context.Context) ([]api.Product, error) {
		return s.client.FetchRootProducts(api.WithCachedAfter(ctx, after))
	})
}

// childrenResolver binds the children cache to the tree table contract.
func (s *session) childrenResolver(p api.Product, expanded bool) (childrenState, tea.Cmd) {
	id := p.ProductID
	after := s.cachedAfter()
	st, cmd := s.children.Query(id, expanded, func(ctx context.Context) ([]api.Product, error) {
		return s.client.FetchChildProducts(api.WithCachedAfter(ctx, after), id)
	})
	return childrenState{
		Data:      st.Data,
		IsLoading: st.IsLoading,
		IsFetched: st.IsFetched,
		IsError:   st.IsError,
		Err:       st.Err,
	}, cmd
}

func (s *session) queryDetail(id string) (query.State[*api.ProductDetail], tea.Cmd) {
	after := s.cachedAfter()
	return s.details.Query(id, true, func(ctx context.Context) (*api.ProductDetail, error) {
		return s.client.FetchProductDetail(api.WithCachedAfter(ctx, after), id)
	})
}

func (s *session) queryReviews(id string) (query.State[[]api.Review], tea.Cmd) {
	after := s.cachedAfter()
	return s.reviews.Query(id, true, func(ctx context.Context) ([]api.Review, error) {
		return s.client.FetchProductReviews(api.WithCachedAfter(ctx, after), id)
	})
}

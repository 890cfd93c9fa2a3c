package pricetable

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"pricetable/internal/core/apperror"
	"pricetable/internal/domain/filter"
	"pricetable/internal/domain/product"
	"pricetable/pkg/logger"
)

var (
	// ErrAlreadyMounted is returned by a second Mount.
	ErrAlreadyMounted = errors.New("product table already mounted")

	// ErrNothingToRetry is returned by Retry before any fetch was dispatched.
	ErrNothingToRetry = errors.New("no fetch to retry")
)

// Store is the paged product store. All mutation goes through its methods;
// readers take Snapshot.
//
// Every dispatched fetch gets a sequence number and only the settlement of the
// newest one is applied, so the last user intent wins regardless of the order
// in which responses arrive.
type Store struct {
	gateway product.Gateway
	policy  FailurePolicy
	log     *logger.Logger

	mu      sync.RWMutex
	page    PageState
	load    LoadState
	filter  filter.State
	lastErr error
	mounted bool
	issued  uint64
	applied uint64
	last    fetchRequest

	inflight sync.WaitGroup
}

// Option configures a Store.
type Option func(*Store)

// WithFailurePolicy sets what a failed fetch does to the loading flag.
func WithFailurePolicy(p FailurePolicy) Option {
	return func(s *Store) { s.policy = p }
}

// WithLogger sets the store's logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Store) { s.log = l }
}

// NewStore creates a store with the default page and page size.
func NewStore(gateway product.Gateway, opts ...Option) *Store {
	s := &Store{
		gateway: gateway,
		policy:  ClearLoadingOnFailure,
		log:     logger.Default(),
		page: PageState{
			Page:     product.DefaultPage,
			PageSize: product.DefaultPageSize,
		},
		load:   LoadState{Products: []product.Product{}},
		filter: filter.State{Criteria: filter.NoCriteria()},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithComponent("price-table")
	return s
}

// Mount issues the initial fetch. It succeeds once per store.
func (s *Store) Mount(ctx context.Context) error {
	s.mu.Lock()
	if s.mounted {
		s.mu.Unlock()
		return ErrAlreadyMounted
	}
	s.mounted = true
	req := s.beginLocked(s.page.Pagination(), filter.NoCriteria())
	s.mu.Unlock()

	s.dispatch(ctx, req)
	return nil
}

// SetPage moves to a zero-based page and refetches.
func (s *Store) SetPage(ctx context.Context, page int) error {
	if page < 0 {
		return apperror.NewInvalidInput("page", page)
	}

	s.mu.Lock()
	s.page.Page = page
	req := s.beginLocked(s.page.Pagination(), s.effectiveCriteriaLocked())
	s.mu.Unlock()

	s.dispatch(ctx, req)
	return nil
}

// SetPageSize changes the page size and refetches. Nothing else is reset.
func (s *Store) SetPageSize(ctx context.Context, pageSize int) error {
	if !product.IsPageSizeAllowed(pageSize) {
		return apperror.NewInvalidInput("pageSize", pageSize).
			WithDetail("allowed", product.PageSizeOptions)
	}

	s.mu.Lock()
	s.page.PageSize = pageSize
	req := s.beginLocked(s.page.Pagination(), s.effectiveCriteriaLocked())
	s.mu.Unlock()

	s.dispatch(ctx, req)
	return nil
}

// SetFilter records the filter criteria and refetches with them.
func (s *Store) SetFilter(ctx context.Context, c filter.Criteria) error {
	if c.Operator != filter.All && c.Value == nil {
		return apperror.NewValidation("filter value is required").
			WithDetail("operator", c.Operator.String())
	}

	s.mu.Lock()
	s.filter.Criteria = c
	req := s.beginLocked(s.page.Pagination(), c)
	s.mu.Unlock()

	s.dispatch(ctx, req)
	return nil
}

// ToggleServerSideFiltering flips between server and client filtering and
// returns the new mode. It does not refetch. The stored criteria are dropped:
// they belong to the previous mode, and the new mode only gets criteria from
// its next filter change.
func (s *Store) ToggleServerSideFiltering() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filter = filter.State{
		Criteria:   filter.NoCriteria(),
		ServerSide: !s.filter.ServerSide,
	}
	return s.filter.ServerSide
}

// ServerSideFiltering reports whether filters are evaluated by the price API.
func (s *Store) ServerSideFiltering() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter.ServerSide
}

// Retry re-dispatches the most recent fetch.
func (s *Store) Retry(ctx context.Context) error {
	s.mu.Lock()
	if s.issued == 0 {
		s.mu.Unlock()
		return ErrNothingToRetry
	}
	req := s.beginLocked(s.last.pagination, s.last.criteria)
	s.mu.Unlock()

	s.dispatch(ctx, req)
	return nil
}

// Snapshot returns a consistent copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Wait blocks until every dispatched fetch has settled.
func (s *Store) Wait() {
	s.inflight.Wait()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Page:      s.page,
		Load:      s.load,
		Filter:    s.filter,
		LastError: s.lastErr,
		Issued:    s.issued,
		Applied:   s.applied,
	}
}

// effectiveCriteriaLocked is what page and page size changes send: the stored
// filter in server mode, nothing in client mode.
func (s *Store) effectiveCriteriaLocked() filter.Criteria {
	if s.filter.ServerSide {
		return s.filter.Criteria
	}
	return filter.NoCriteria()
}

// beginLocked marks the store loading and allocates the next sequence number.
func (s *Store) beginLocked(p product.Pagination, c filter.Criteria) fetchRequest {
	s.issued++
	s.load = LoadState{IsLoading: true, Products: s.load.Products}
	s.last = fetchRequest{seq: s.issued, pagination: p, criteria: c}
	return s.last
}

func (s *Store) dispatch(ctx context.Context, req fetchRequest) {
	// The fetch outlives the HTTP request that triggered it.
	ctx = context.WithoutCancel(ctx)

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		page, err := s.fetch(ctx, req)
		s.settle(ctx, req, page, err)
	}()
}

func (s *Store) fetch(ctx context.Context, req fetchRequest) (product.Page, error) {
	p := req.pagination
	if req.criteria.IsAll() {
		return s.gateway.GetAllProducts(ctx, p)
	}

	value := *req.criteria.Value
	switch req.criteria.Operator {
	case filter.Contains:
		return s.gateway.GetProductsContaining(ctx, p, value)
	case filter.StartsWith:
		return s.gateway.GetProductsStartingWith(ctx, p, value)
	case filter.EndsWith:
		return s.gateway.GetProductsEndingWith(ctx, p, value)
	case filter.All:
		return s.gateway.GetAllProducts(ctx, p)
	}
	return product.Page{}, fmt.Errorf("unsupported filter operator %d", req.criteria.Operator)
}

func (s *Store) settle(ctx context.Context, req fetchRequest, page product.Page, err error) {
	log := s.log.WithContext(ctx).With("seq", req.seq, "page", req.pagination.Page, "page_size", req.pagination.PageSize)

	s.mu.Lock()
	if req.seq != s.issued {
		latest := s.issued
		s.mu.Unlock()
		log.Debugw("discarding superseded fetch", "latest_seq", latest, "error", err)
		return
	}

	if err != nil {
		if s.policy == ClearLoadingOnFailure {
			s.load = LoadState{IsLoading: false, Products: s.load.Products}
			s.lastErr = err
		}
		s.mu.Unlock()
		log.Errorw("fetch products failed", "operator", req.criteria.Operator.String(), "error", err)
		return
	}

	products := page.Products
	if products == nil {
		products = []product.Product{}
	}
	s.load = LoadState{IsLoading: false, Products: products}
	s.page.RowCount = page.RowCount
	s.lastErr = nil
	s.applied = req.seq
	s.mu.Unlock()

	log.Debugw("products page applied", "row_count", page.RowCount, "rows", len(products))
}

// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package discovery

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/yiakwy/edx-platform/internal/domain/model"
	"github.com/yiakwy/edx-platform/internal/event"
	"github.com/yiakwy/edx-platform/pkg/constants"
	"github.com/yiakwy/edx-platform/pkg/paging"
)

var (
	// ErrSuperseded is returned when a newer search started while the request was in flight.
	// The response was discarded.
	ErrSuperseded = errors.New("search superseded by a newer search")

	// ErrPageLoading is returned by LoadNextPage while a page of the current
	// search is outstanding
	ErrPageLoading = errors.New("next page is already loading")
)

// PageFetcher requests a single page of search results
type PageFetcher interface {
	FetchPage(ctx context.Context, req model.SearchRequest) (*model.SearchResponse, error)
}

// PageFetcherFunc adapts a function to PageFetcher
type PageFetcherFunc func(ctx context.Context, req model.SearchRequest) (*model.SearchResponse, error)

// FetchPage calls f(ctx, req)
func (f PageFetcherFunc) FetchPage(ctx context.Context, req model.SearchRequest) (*model.SearchResponse, error) {
	return f(ctx, req)
}

// CollectionOption configures a Collection
type CollectionOption func(*Collection)

// WithPageSize sets the number of results requested per page
func WithPageSize(size int) CollectionOption {
	return func(c *Collection) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// WithCollectionBus publishes the collection events on the given bus
func WithCollectionBus(bus *event.Bus) CollectionOption {
	return func(c *Collection) {
		c.bus = bus
	}
}

// Collection owns the paged results of the current search.
// It emits event.ResultsSearch, event.ResultsNext and event.ResultsError.
//
// Every PerformSearch starts a new generation; responses that belong to an
// older generation are dropped without touching state or emitting events.
type Collection struct {
	fetcher  PageFetcher
	pageSize int
	bus      *event.Bus

	mu           sync.Mutex
	generation   uint64
	term         string
	filters      []model.Filter
	page         int
	total        int
	accessDenied int
	accumulated  []model.Course
	latest       []model.Course
	facets       map[string]model.FacetResult
	loadingFirst bool
	loadingNext  bool
}

// NewCollection creates an empty collection fetching pages through fetcher
func NewCollection(fetcher PageFetcher, opts ...CollectionOption) *Collection {
	c := &Collection{
		fetcher:  fetcher,
		pageSize: constants.DefaultPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.bus == nil {
		c.bus = event.New()
	}
	return c
}

// Subscribe registers a handler for one of the collection events
func (c *Collection) Subscribe(t event.Type, h event.Handler) func() {
	return c.bus.Subscribe(t, h)
}

// PerformSearch resets the paging state and fetches the first page for term.
// The facet filters are sent with this and every following page request.
func (c *Collection) PerformSearch(ctx context.Context, term string, filters ...model.Filter) error {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.term = term
	c.filters = append([]model.Filter(nil), filters...)
	c.page = 0
	c.total = 0
	c.accessDenied = 0
	c.accumulated = nil
	c.latest = nil
	c.facets = nil
	c.loadingFirst = true
	c.loadingNext = false
	req := c.requestLocked(0)
	c.mu.Unlock()

	slog.DebugContext(ctx, "performing search",
		"search_string", term,
		"filters", len(filters),
		"generation", gen,
	)

	resp, err := c.fetcher.FetchPage(ctx, req)

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		slog.DebugContext(ctx, "discarding stale search response", "generation", gen)
		return ErrSuperseded
	}
	c.loadingFirst = false
	if err != nil {
		c.mu.Unlock()
		slog.ErrorContext(ctx, "search request failed", "error", err)
		c.bus.Publish(event.ResultsError{Err: err})
		return err
	}
	c.applyLocked(resp)
	e := event.ResultsSearch{
		Term:   c.term,
		Total:  c.total,
		Latest: c.copyLatestLocked(),
		Facets: c.facets,
	}
	c.mu.Unlock()

	c.bus.Publish(e)
	return nil
}

// LoadNextPage fetches the page following the last loaded one for the current search
func (c *Collection) LoadNextPage(ctx context.Context) error {
	c.mu.Lock()
	if c.loadingFirst || c.loadingNext {
		c.mu.Unlock()
		return ErrPageLoading
	}
	c.loadingNext = true
	gen := c.generation
	req := c.requestLocked(c.page + 1)
	c.mu.Unlock()

	slog.DebugContext(ctx, "loading next page",
		"search_string", req.SearchString,
		"page_index", req.PageIndex,
	)

	resp, err := c.fetcher.FetchPage(ctx, req)

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		slog.DebugContext(ctx, "discarding stale page response", "generation", gen)
		return ErrSuperseded
	}
	c.loadingNext = false
	if err != nil {
		c.mu.Unlock()
		slog.ErrorContext(ctx, "next page request failed", "error", err, "page_index", req.PageIndex)
		c.bus.Publish(event.ResultsError{Err: err})
		return err
	}
	c.page++
	c.applyLocked(resp)
	e := event.ResultsNext{
		PageIndex: c.page,
		Latest:    c.copyLatestLocked(),
	}
	c.mu.Unlock()

	c.bus.Publish(e)
	return nil
}

// HasNextPage reports whether results beyond the loaded ones can still arrive
func (c *Collection) HasNextPage() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return paging.HasNext(c.page, c.pageSize, c.total, c.accessDenied)
}

// Loading reports whether a page request of the current search is outstanding
func (c *Collection) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadingFirst || c.loadingNext
}

// Term returns the term of the current search
func (c *Collection) Term() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.term
}

// Filters returns the facet filters of the current search
func (c *Collection) Filters() []model.Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Filter(nil), c.filters...)
}

// PageIndex returns the index of the last loaded page
func (c *Collection) PageIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// PageSize returns the number of results requested per page
func (c *Collection) PageSize() int {
	return c.pageSize
}

// TotalCount returns the total reported by the latest response
func (c *Collection) TotalCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// AccessDeniedCount returns the number of results withheld during the current search
func (c *Collection) AccessDeniedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessDenied
}

// Len returns the number of accumulated results
func (c *Collection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.accumulated)
}

// Accumulated returns every result loaded for the current search, oldest first
func (c *Collection) Accumulated() []model.Course {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Course(nil), c.accumulated...)
}

// LatestModels returns the results of the most recently processed response
func (c *Collection) LatestModels() []model.Course {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyLatestLocked()
}

// Facets returns the facet counts of the most recent response carrying them
func (c *Collection) Facets() map[string]model.FacetResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.facets
}

func (c *Collection) requestLocked(pageIndex int) model.SearchRequest {
	return model.SearchRequest{
		SearchString: c.term,
		PageSize:     c.pageSize,
		PageIndex:    pageIndex,
		Filters:      append([]model.Filter(nil), c.filters...),
	}
}

func (c *Collection) applyLocked(resp *model.SearchResponse) {
	latest := resp.Courses()
	c.latest = latest
	c.accumulated = append(c.accumulated, latest...)
	if resp == nil {
		return
	}
	c.total = resp.Total
	c.accessDenied += resp.AccessDeniedCount
	if resp.Facets != nil {
		c.facets = resp.Facets
	}
}

func (c *Collection) copyLatestLocked() []model.Course {
	return append([]model.Course(nil), c.latest...)
}

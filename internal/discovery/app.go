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
	"github.com/yiakwy/edx-platform/internal/filterbar"
	"github.com/yiakwy/edx-platform/pkg/constants"
)

// App wires the search form, the filter bar and the result collection to a view.
//
//	form search       -> bar ChangeQueryFilter
//	bar search        -> collection PerformSearch
//	bar clear         -> form ClearSearch, collection PerformSearch("")
//	collection search -> view RenderResults / not found message
//	collection next   -> view AppendResults
//	collection error  -> error message
type App struct {
	form    *Form
	bar     *filterbar.Bar
	results *Collection
	view    View

	mu            sync.Mutex
	ctx           context.Context
	unsubscribers []func()
}

// NewApp builds the discovery components around fetcher and view
func NewApp(fetcher PageFetcher, view View, opts ...CollectionOption) *App {
	a := &App{
		form:    NewForm(view),
		bar:     filterbar.New(filterbar.WithRenderer(view)),
		results: NewCollection(fetcher, opts...),
		view:    view,
		ctx:     context.Background(),
	}

	a.unsubscribers = []func(){
		a.form.Subscribe(event.TypeFormSearch, a.onFormSearch),
		a.bar.Subscribe(event.TypeFilterSearch, a.onFilterSearch),
		a.bar.Subscribe(event.TypeFilterClear, a.onFilterClear),
		a.results.Subscribe(event.TypeResultsSearch, a.onResultsSearch),
		a.results.Subscribe(event.TypeResultsNext, a.onResultsNext),
		a.results.Subscribe(event.TypeResultsError, a.onResultsError),
	}
	return a
}

// Start runs the initial search over all courses. ctx is used for every
// request issued by the app until the next Start.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	a.ctx = ctx
	a.mu.Unlock()

	a.form.ShowLoadingIndicator()
	return ignoreSuperseded(a.results.PerformSearch(ctx, ""))
}

// Close detaches the app from its components
func (a *App) Close() {
	for _, unsubscribe := range a.unsubscribers {
		unsubscribe()
	}
}

// Search submits the search form with input
func (a *App) Search(input string) {
	a.form.Submit(input)
}

// SelectFacet adds the facet value as a filter
func (a *App) SelectFacet(facet, value string) {
	a.bar.AddFilter(model.Filter{Type: facet, Query: value})
}

// RemoveFilter clears one active filter
func (a *App) RemoveFilter(ref model.Filter) bool {
	return a.bar.ClearFilter(ref)
}

// ClearAll clears every active filter
func (a *App) ClearAll(ev filterbar.UIEvent) {
	a.bar.ClearAll(ev)
}

// ScrolledToBottom loads the next page when one exists and none is loading.
// It reports whether a page request was made.
func (a *App) ScrolledToBottom() (bool, error) {
	if !a.results.HasNextPage() || a.results.Loading() {
		return false, nil
	}
	a.form.ShowLoadingIndicator()
	err := a.results.LoadNextPage(a.context())
	if errors.Is(err, ErrPageLoading) {
		return false, nil
	}
	return true, ignoreSuperseded(err)
}

// Form returns the search form driving the bar
func (a *App) Form() *Form { return a.form }

// Bar returns the filter bar holding the active term and facet filters
func (a *App) Bar() *filterbar.Bar { return a.bar }

// Collection returns the paged results of the current search
func (a *App) Collection() *Collection { return a.results }

func (a *App) context() context.Context {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ctx
}

func (a *App) onFormSearch(e event.Event) {
	term := e.(event.FormSearch).Term
	a.form.ShowLoadingIndicator()
	if term == "" {
		// an empty query keeps the filter bar as is
		a.onFilterSearch(event.FilterSearch{Term: a.bar.GetSearchTerm(), Filters: a.bar.Filters()})
		return
	}
	a.bar.ChangeQueryFilter(term)
}

func (a *App) onFilterSearch(e event.Event) {
	fs := e.(event.FilterSearch)
	a.form.ShowLoadingIndicator()
	err := a.results.PerformSearch(a.context(), fs.Term, fs.FacetFilters(constants.SearchStringFilterType)...)
	a.logRequestError(err)
}

func (a *App) onFilterClear(event.Event) {
	a.form.ClearSearch()
	a.form.ShowLoadingIndicator()
	err := a.results.PerformSearch(a.context(), "")
	a.logRequestError(err)
}

func (a *App) onResultsSearch(e event.Event) {
	rs := e.(event.ResultsSearch)
	if len(rs.Latest) == 0 {
		a.form.ShowNotFoundMessage(rs.Term)
	} else {
		a.view.RenderResults(rs.Latest)
		a.form.ShowFoundMessage(rs.Total)
	}
	a.view.RenderFacets(rs.Facets)
	a.form.HideLoadingIndicator()
}

func (a *App) onResultsNext(e event.Event) {
	a.view.AppendResults(e.(event.ResultsNext).Latest)
	a.form.HideLoadingIndicator()
}

func (a *App) onResultsError(e event.Event) {
	a.form.ShowErrorMessage(e.(event.ResultsError).Err)
	a.form.HideLoadingIndicator()
}

func (a *App) logRequestError(err error) {
	if err = ignoreSuperseded(err); err != nil {
		slog.DebugContext(a.context(), "discovery request failed", "error", err)
	}
}

func ignoreSuperseded(err error) error {
	if errors.Is(err, ErrSuperseded) {
		return nil
	}
	return err
}

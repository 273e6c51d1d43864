// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package filterbar

import (
	"log/slog"
	"sync"

	"github.com/yiakwy/edx-platform/internal/domain/model"
	"github.com/yiakwy/edx-platform/internal/event"
	"github.com/yiakwy/edx-platform/pkg/constants"
)

// UIEvent is the user interaction that triggered a bar operation
type UIEvent interface {
	PreventDefault()
}

// Renderer draws the filter bar
type Renderer interface {
	RenderFilterBar(filters []model.Filter, visible bool)
}

// Option configures a Bar
type Option func(*Bar)

// WithRenderer sets the renderer called after every change of the filter set
func WithRenderer(r Renderer) Option {
	return func(b *Bar) {
		b.renderer = r
	}
}

// WithBus publishes the bar events on the given bus instead of a private one
func WithBus(bus *event.Bus) Option {
	return func(b *Bar) {
		b.bus = bus
	}
}

// Bar owns the ordered set of active filters.
// It emits event.FilterSearch when the set changes and event.FilterClear
// when no filters remain.
type Bar struct {
	mu       sync.Mutex
	filters  []model.Filter
	visible  bool
	renderer Renderer
	bus      *event.Bus
}

// New creates an empty, hidden filter bar
func New(opts ...Option) *Bar {
	b := &Bar{}
	for _, opt := range opts {
		opt(b)
	}
	if b.bus == nil {
		b.bus = event.New()
	}
	return b
}

// Subscribe registers a handler for one of the bar events
func (b *Bar) Subscribe(t event.Type, h event.Handler) func() {
	return b.bus.Subscribe(t, h)
}

// AddFilter appends a filter and emits a search with the full filter set
func (b *Bar) AddFilter(f model.Filter) {
	b.mu.Lock()
	b.filters = append(b.filters, f)
	b.visible = true
	e := b.searchEventLocked()
	b.renderLocked()
	b.mu.Unlock()

	slog.Debug("filter added", "type", f.Type, "query", f.Query)
	b.bus.Publish(e)
}

// ChangeQueryFilter replaces the free-text filter with term.
// An empty term is ignored.
func (b *Bar) ChangeQueryFilter(term string) {
	if term == "" {
		return
	}
	b.mu.Lock()
	if i := b.queryIndexLocked(); i >= 0 {
		b.filters = append(b.filters[:i:i], b.filters[i+1:]...)
	}
	b.mu.Unlock()

	b.AddFilter(model.Filter{Type: constants.SearchStringFilterType, Query: term})
}

// ClearFilter removes the first filter matching ref by (type, query).
// It emits a clear when the set becomes empty and a search otherwise,
// and reports whether a filter was removed.
func (b *Bar) ClearFilter(ref model.Filter) bool {
	b.mu.Lock()
	removed := false
	for i, f := range b.filters {
		if f.Equal(ref) {
			b.filters = append(b.filters[:i:i], b.filters[i+1:]...)
			removed = true
			break
		}
	}

	var e event.Event
	if len(b.filters) == 0 {
		b.visible = false
		e = event.FilterClear{}
	} else {
		e = b.searchEventLocked()
	}
	b.renderLocked()
	b.mu.Unlock()

	slog.Debug("filter cleared", "type", ref.Type, "query", ref.Query, "removed", removed)
	b.bus.Publish(e)
	return removed
}

// ClearFilters empties the filter set and emits a clear
func (b *Bar) ClearFilters() {
	b.mu.Lock()
	b.filters = nil
	b.visible = false
	b.renderLocked()
	b.mu.Unlock()

	b.bus.Publish(event.FilterClear{})
}

// ClearAll is ClearFilters triggered by a UI event, whose default action is prevented
func (b *Bar) ClearAll(ev UIEvent) {
	if ev != nil {
		ev.PreventDefault()
	}
	b.ClearFilters()
}

// GetSearchTerm returns the free-text filter query, or "" when none is active
func (b *Bar) GetSearchTerm() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.searchTermLocked()
}

// Filters returns a copy of the active filters in insertion order
func (b *Bar) Filters() []model.Filter {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.copyLocked()
}

// Visible reports whether the bar is shown
func (b *Bar) Visible() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.visible
}

func (b *Bar) queryIndexLocked() int {
	for i, f := range b.filters {
		if f.Type == constants.SearchStringFilterType {
			return i
		}
	}
	return -1
}

func (b *Bar) searchTermLocked() string {
	if i := b.queryIndexLocked(); i >= 0 {
		return b.filters[i].Query
	}
	return ""
}

func (b *Bar) copyLocked() []model.Filter {
	out := make([]model.Filter, len(b.filters))
	copy(out, b.filters)
	return out
}

func (b *Bar) searchEventLocked() event.FilterSearch {
	return event.FilterSearch{
		Term:    b.searchTermLocked(),
		Filters: b.copyLocked(),
	}
}

func (b *Bar) renderLocked() {
	if b.renderer != nil {
		b.renderer.RenderFilterBar(b.copyLocked(), b.visible)
	}
}

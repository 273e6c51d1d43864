// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package event

import "github.com/yiakwy/edx-platform/internal/domain/model"

// Type represents the type of event
type Type string

// Event types
const (
	// TypeFormSearch is emitted by the search form when a term is submitted
	TypeFormSearch Type = "form:search"
	// TypeFilterSearch is emitted by the filter bar when its filter set changes
	TypeFilterSearch Type = "filters:search"
	// TypeFilterClear is emitted by the filter bar when no filters remain
	TypeFilterClear Type = "filters:clear"
	// TypeResultsSearch is emitted by the result collection when a first page arrives
	TypeResultsSearch Type = "results:search"
	// TypeResultsNext is emitted by the result collection when a next page arrives
	TypeResultsNext Type = "results:next"
	// TypeResultsError is emitted by the result collection when a request fails
	TypeResultsError Type = "results:error"
)

// Event is the interface for all events
type Event interface {
	Type() Type
}

// FormSearch carries the trimmed term submitted in the search form
type FormSearch struct {
	Term string
}

func (e FormSearch) Type() Type { return TypeFormSearch }

// FilterSearch carries the effective search term and the full filter set
type FilterSearch struct {
	Term    string
	Filters []model.Filter
}

func (e FilterSearch) Type() Type { return TypeFilterSearch }

// FacetFilters returns the filters that are not the free-text slot
func (e FilterSearch) FacetFilters(searchStringType string) []model.Filter {
	facets := make([]model.Filter, 0, len(e.Filters))
	for _, f := range e.Filters {
		if f.Type != searchStringType {
			facets = append(facets, f)
		}
	}
	return facets
}

// FilterClear is emitted when the filter set becomes empty
type FilterClear struct{}

func (e FilterClear) Type() Type { return TypeFilterClear }

// ResultsSearch is emitted when the first page of a search has been processed
type ResultsSearch struct {
	Term   string
	Total  int
	Latest []model.Course
	Facets map[string]model.FacetResult
}

func (e ResultsSearch) Type() Type { return TypeResultsSearch }

// ResultsNext is emitted when a further page has been appended
type ResultsNext struct {
	PageIndex int
	Latest    []model.Course
}

func (e ResultsNext) Type() Type { return TypeResultsNext }

// ResultsError is emitted when a search or next-page request fails
type ResultsError struct {
	Err error
}

func (e ResultsError) Type() Type { return TypeResultsError }

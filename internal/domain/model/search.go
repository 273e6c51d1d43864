// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

// Filter is one active filter entry. Type is a facet name or "search_string".
type Filter struct {
	Type  string `json:"type"`
	Query string `json:"query"`
}

// Equal reports whether both filters have the same (type, query) identity
func (f Filter) Equal(other Filter) bool {
	return f.Type == other.Type && f.Query == other.Query
}

// SearchRequest is the payload of a single course discovery page request
type SearchRequest struct {
	SearchString string
	PageSize     int
	PageIndex    int
	// Facet filters, sent as one form field per entry
	Filters []Filter
}

// SearchResponse is the body returned by the course discovery endpoint
type SearchResponse struct {
	Total             int                    `json:"total"`
	Results           []ResultEnvelope       `json:"results"`
	Facets            map[string]FacetResult `json:"facets,omitempty"`
	AccessDeniedCount int                    `json:"access_denied_count,omitempty"`
}

// ResultEnvelope wraps a course in the response results list
type ResultEnvelope struct {
	Data Course `json:"data"`
}

// Courses returns the result payloads in response order
func (r *SearchResponse) Courses() []Course {
	if r == nil {
		return nil
	}
	courses := make([]Course, 0, len(r.Results))
	for _, result := range r.Results {
		courses = append(courses, result.Data)
	}
	return courses
}

// FacetResult holds the value counts of one facet
type FacetResult struct {
	Terms map[string]int `json:"terms"`
	Total int            `json:"total"`
	Other int            `json:"other"`
}

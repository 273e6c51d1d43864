// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

// SearchCriteria encapsulates all possible search parameters
type SearchCriteria struct {
	// Free text matched against the course title, overview, org and number
	SearchString string
	// Facet filters keyed by facet name; values of one facet are OR-ed
	Filters map[string][]string
	// PageSize for pagination
	PageSize int
	// PageIndex is the 0-based page to return
	PageIndex int
	// PublicOnly indicates if only public courses should be returned
	PublicOnly bool
}

// SearchResult contains the results of a course search
type SearchResult struct {
	// Courses found on the requested page
	Documents []CourseDocument
	// Total number of matching courses
	Total int
	// Facet counts over all matching courses
	Facets map[string]FacetResult
	// AccessDenied is the number of documents on this page removed by access control
	AccessDenied int
	// Cache control header
	CacheControl *string
}

// AccessCheckResult maps relation tuples to their "true"/"false" verdict
type AccessCheckResult map[string]string

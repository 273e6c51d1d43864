// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

const (
	// DefaultPageSize is the default number of results per page for course discovery
	DefaultPageSize = 20

	// MaxPageSize is the largest page the search endpoint will serve
	MaxPageSize = 100

	// MaxResultWindow bounds offset plus page size, matching the default
	// index.max_result_window of OpenSearch
	MaxResultWindow = 10000

	// SearchStringFilterType is the filter type holding the free-text search term
	SearchStringFilterType = "search_string"
)

// Form field names of the course discovery request.
const (
	SearchStringField = "search_string"
	PageSizeField     = "page_size"
	PageIndexField    = "page_index"
)

// FacetFields are the course fields that can be used as facet filters.
var FacetFields = []string{"org", "modes", "language"}

// IsFacetField reports whether name is one of FacetFields.
func IsFacetField(name string) bool {
	for _, f := range FacetFields {
		if f == name {
			return true
		}
	}
	return false
}

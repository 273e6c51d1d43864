// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package discovery

import "github.com/yiakwy/edx-platform/internal/domain/model"

// View renders the discovery page
type View interface {
	FormRenderer

	// RenderResults replaces the listed results
	RenderResults(courses []model.Course)
	// AppendResults adds a further page to the listed results
	AppendResults(courses []model.Course)
	// RenderFacets draws the facet counts of the current search
	RenderFacets(facets map[string]model.FacetResult)
	// RenderFilterBar draws the active filters
	RenderFilterBar(filters []model.Filter, visible bool)
}

// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/yiakwy/edx-platform/internal/domain/model"
)

// CourseSearcher defines the behavior for course search operations
// This abstraction allows different search implementations (OpenSearch, bleve, etc.)
// without the domain layer knowing about specific implementations
type CourseSearcher interface {
	// QueryCourses searches for courses based on the provided criteria
	QueryCourses(ctx context.Context, criteria model.SearchCriteria) (*model.SearchResult, error)

	// IsReady checks if the search service is ready
	IsReady(ctx context.Context) error
}

// CourseIndexer is implemented by searchers that index catalog documents themselves
type CourseIndexer interface {
	// Reindex replaces the indexed documents
	Reindex(ctx context.Context, docs []model.CourseDocument) error
}

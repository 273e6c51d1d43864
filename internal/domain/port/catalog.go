// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/yiakwy/edx-platform/internal/domain/model"
)

// CatalogStore persists the course catalog
type CatalogStore interface {
	// UpsertCourses inserts or replaces the given documents by course id
	UpsertCourses(ctx context.Context, docs []model.CourseDocument) error

	// ListCourses returns all stored documents ordered by course id
	ListCourses(ctx context.Context) ([]model.CourseDocument, error)

	// Close releases the underlying storage
	Close() error
}

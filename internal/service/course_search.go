// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yiakwy/edx-platform/internal/domain/model"
	"github.com/yiakwy/edx-platform/internal/domain/port"
	"github.com/yiakwy/edx-platform/pkg/constants"
	"github.com/yiakwy/edx-platform/pkg/errors"
	"github.com/yiakwy/edx-platform/pkg/paging"
)

const accessCheckTimeout = 15 * time.Second

// CourseSearcher defines the interface for course search operations
type CourseSearcher interface {
	// QueryCourses searches for courses visible to the principal in ctx
	QueryCourses(ctx context.Context, criteria model.SearchCriteria) (*model.SearchResult, error)

	// IsReady checks if the search service is ready
	IsReady(ctx context.Context) error
}

// CourseSearch handles course discovery business operations
// It depends on abstractions (interfaces) rather than concrete implementations
type CourseSearch struct {
	courseSearcher port.CourseSearcher
	accessChecker  port.AccessControlChecker
}

// QueryCourses performs course search with business logic validation
func (s *CourseSearch) QueryCourses(ctx context.Context, criteria model.SearchCriteria) (*model.SearchResult, error) {

	slog.DebugContext(ctx, "starting course search",
		"search_string", criteria.SearchString,
		"filters", criteria.Filters,
		"page_index", criteria.PageIndex,
		"page_size", criteria.PageSize,
	)

	if err := paging.Validate(criteria.PageIndex, criteria.PageSize); err != nil {
		slog.ErrorContext(ctx, "search criteria validation failed", "error", err)
		return nil, err
	}
	for facet := range criteria.Filters {
		if !constants.IsFacetField(facet) {
			return nil, errors.NewValidation(fmt.Sprintf("unknown facet %q", facet))
		}
	}

	// Grab the principal which was stored into the context by the security handler.
	principal, ok := ctx.Value(constants.PrincipalContextID).(string)
	if !ok || principal == "" {
		// This should not happen; the Auther always sets this or errors.
		return nil, errors.NewValidation("missing principal in context")
	}
	if principal == constants.AnonymousPrincipal {
		// Anonymous viewers only see public courses; the searcher applies the
		// filter so no access check is needed.
		slog.DebugContext(ctx, "anonymous user detected, applying public-only filter")
		criteria.PublicOnly = true
	}

	result, err := s.courseSearcher.QueryCourses(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("search operation failed: %w", err)
	}

	slog.DebugContext(ctx, "checking access control for courses",
		"course_count", len(result.Documents),
	)

	message := s.BuildMessage(ctx, principal, result.Documents)

	checked, errCheckAccess := s.CheckAccess(ctx, principal, result.Documents, message)
	if errCheckAccess != nil {
		return nil, errors.NewServiceUnavailable("access control check failed", errCheckAccess)
	}

	searchResult := &model.SearchResult{
		Documents:    checked,
		Total:        result.Total,
		Facets:       result.Facets,
		AccessDenied: len(result.Documents) - len(checked),
	}

	slog.DebugContext(ctx, "course search completed",
		"query_count", len(result.Documents),
		"response_after_access_check", len(searchResult.Documents),
		"access_denied", searchResult.AccessDenied,
	)

	if principal == constants.AnonymousPrincipal {
		// Set a cache control header for anonymous users.
		cacheControl := constants.AnonymousCacheControlHeader
		searchResult.CacheControl = &cacheControl
	}

	return searchResult, nil
}

// BuildMessage marks the documents that need an access check and returns the
// relation tuples to check, one per line
func (s *CourseSearch) BuildMessage(ctx context.Context, principal string, docs []model.CourseDocument) []byte {

	// avoid duplicate tuples in the message
	seen := make(map[string]struct{}, len(docs))

	// estimate the size of each line in the access check message
	message := make([]byte, 0, 80*len(docs))
	for idx := range docs {
		if docs[idx].Public {
			docs[idx].NeedCheck = false
			continue
		}
		docs[idx].NeedCheck = true

		if docs[idx].AccessCheckObject == "" || docs[idx].AccessCheckRelation == "" {
			// Unable to perform access check without these fields.
			slog.WarnContext(ctx, "course missing access control information, skipping",
				"course_id", docs[idx].ID,
			)
			continue
		}

		key := relationKey(docs[idx], principal)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		message = append(message, key...)
		message = append(message, '\n')
	}
	return message
}

// CheckAccess returns the documents the principal may see, in their original order
func (s *CourseSearch) CheckAccess(ctx context.Context, principal string, docs []model.CourseDocument, message []byte) ([]model.CourseDocument, error) {

	var responses model.AccessCheckResult
	if len(message) > 0 {

		slog.DebugContext(ctx, "performing access control checks",
			"message", string(message),
		)

		// Trim trailing newline.
		message = message[:len(message)-1]
		result, err := s.accessChecker.CheckAccess(ctx, constants.AccessCheckSubject, message, accessCheckTimeout)
		if err != nil {
			slog.ErrorContext(ctx, "access control check failed",
				"error", err,
				"message", string(message),
			)
			return nil, fmt.Errorf("access control check failed: %w", err)
		}
		responses = result
	}

	visible := make([]model.CourseDocument, 0, len(docs))
	for _, doc := range docs {
		if !doc.NeedCheck {
			visible = append(visible, doc)
			continue
		}
		if doc.AccessCheckObject == "" || doc.AccessCheckRelation == "" {
			continue
		}
		if allowed, ok := responses[relationKey(doc, principal)]; ok && allowed == "true" {
			visible = append(visible, doc)
		}
	}

	return visible, nil
}

// IsReady checks the searcher and the access checker
func (s *CourseSearch) IsReady(ctx context.Context) error {
	if err := s.courseSearcher.IsReady(ctx); err != nil {
		return err
	}

	if err := s.accessChecker.IsReady(ctx); err != nil {
		return err
	}

	return nil
}

func relationKey(doc model.CourseDocument, principal string) string {
	return doc.AccessCheckObject + "#" + doc.AccessCheckRelation + "@user:" + principal
}

// NewCourseSearch creates a new CourseSearch instance
func NewCourseSearch(courseSearcher port.CourseSearcher, accessChecker port.AccessControlChecker) CourseSearcher {
	return &CourseSearch{
		courseSearcher: courseSearcher,
		accessChecker:  accessChecker,
	}
}

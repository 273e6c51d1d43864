// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/yiakwy/edx-platform/internal/domain/model"
	"github.com/yiakwy/edx-platform/internal/domain/port"
	usecase "github.com/yiakwy/edx-platform/internal/service"
	"github.com/yiakwy/edx-platform/pkg/constants"
	"github.com/yiakwy/edx-platform/pkg/errors"
	"github.com/yiakwy/edx-platform/pkg/log"
)

// discovery-svc service implementation using clean architecture.
type DiscoverySvc struct {
	courseService usecase.CourseSearcher
	auth          port.Authenticator
}

// SearchResult is the response of SearchCourses
type SearchResult struct {
	Body         *model.SearchResponse
	CacheControl *string
}

// Authenticate stores the viewer principal into the context. Requests
// without an Authorization header are served as the anonymous principal.
func (s *DiscoverySvc) Authenticate(ctx context.Context, authorization string) (context.Context, error) {

	principal := constants.AnonymousPrincipal

	if authorization != "" {
		token, ok := strings.CutPrefix(authorization, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return ctx, unauthorized{errors.NewValidation("authorization header must be a bearer token")}
		}

		// Parse the Heimdall-authorized principal from the token.
		parsed, err := s.auth.ParsePrincipal(ctx, strings.TrimSpace(token), slog.Default())
		if err != nil {
			return ctx, unauthorized{err}
		}
		principal = parsed
	}

	// Log the principal for debugging purposes in all logs for this request.
	ctx = log.AppendCtx(ctx, slog.String(constants.PrincipalAttribute, principal))

	// Return a new context containing the principal as a value.
	return context.WithValue(ctx, constants.PrincipalContextID, principal), nil
}

// SearchCourses runs one course discovery page request
func (s *DiscoverySvc) SearchCourses(ctx context.Context, form url.Values) (*SearchResult, error) {

	slog.DebugContext(ctx, "discoverySvc.search-courses",
		"search_string", form.Get(constants.SearchStringField),
	)

	criteria, errCriteria := formToCriteria(ctx, form)
	if errCriteria != nil {
		return nil, wrapError(ctx, errCriteria)
	}

	result, errQuery := s.courseService.QueryCourses(ctx, criteria)
	if errQuery != nil {
		return nil, wrapError(ctx, errQuery)
	}

	return &SearchResult{
		Body:         domainResultToResponse(result),
		CacheControl: result.CacheControl,
	}, nil
}

// Check if the service is able to take inbound requests.
func (s *DiscoverySvc) Readyz(ctx context.Context) ([]byte, error) {
	if err := s.courseService.IsReady(ctx); err != nil {
		slog.ErrorContext(ctx, "discoverySvc.readyz failed", "error", err)
		return nil, wrapError(ctx, errors.NewServiceUnavailable("service not ready", err))
	}
	return []byte("OK\n"), nil
}

// Check if the service is alive.
func (s *DiscoverySvc) Livez(ctx context.Context) []byte {
	// This always returns as long as the service is still running. As this
	// endpoint is expected to be used as a Kubernetes liveness check, this
	// service must likewise self-detect non-recoverable errors and
	// self-terminate.
	return []byte("OK\n")
}

// NewDiscoverySvc returns the discovery-svc service implementation.
func NewDiscoverySvc(courseSearcher port.CourseSearcher,
	accessControlChecker port.AccessControlChecker,
	auth port.Authenticator,
) *DiscoverySvc {
	return &DiscoverySvc{
		courseService: usecase.NewCourseSearch(courseSearcher, accessControlChecker),
		auth:          auth,
	}
}

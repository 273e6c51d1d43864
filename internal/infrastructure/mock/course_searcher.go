// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/yiakwy/edx-platform/internal/domain/model"
	"github.com/yiakwy/edx-platform/pkg/constants"
	"github.com/yiakwy/edx-platform/pkg/paging"
)

// MockCourseSearcher is a mock implementation of CourseSearcher for testing
// and local runs. Matching is a case-insensitive substring search.
type MockCourseSearcher struct {
	mu           sync.RWMutex
	courses      []model.CourseDocument
	queryError   error
	isReadyError error
}

// NewMockCourseSearcher creates a new mock searcher with some sample data
func NewMockCourseSearcher() *MockCourseSearcher {
	return &MockCourseSearcher{
		courses: SampleCourses(),
	}
}

// SampleCourses returns the courses the mock searcher starts with
func SampleCourses() []model.CourseDocument {
	return []model.CourseDocument{
		{
			Course: model.Course{
				ID:              "edX/DemoX/Demo_Course",
				Course:          "edX/DemoX/Demo_Course",
				Org:             "edX",
				Number:          "DemoX",
				Start:           "1970-01-01T05:00:00+00:00",
				EnrollmentStart: "2015-04-21T00:00:00+00:00",
				ImageURL:        "/c4x/edX/DemoX/asset/images_course_image.jpg",
				Modes:           []string{"honor"},
				Language:        "en",
				Content: model.CourseContent{
					DisplayName: "edX Demonstration Course",
					Number:      "DemoX",
					Overview:    "About This Course Include your long course description here.",
				},
			},
			Public: true,
		},
		{
			Course: model.Course{
				ID:       "MITx/6.002x/2013_Spring",
				Course:   "MITx/6.002x/2013_Spring",
				Org:      "MITx",
				Number:   "6.002x",
				Start:    "2013-03-04T00:00:00+00:00",
				Modes:    []string{"honor", "verified"},
				Language: "en",
				Content: model.CourseContent{
					DisplayName: "Circuits and Electronics",
					Number:      "6.002x",
					Overview:    "Introduction to lumped circuit abstraction.",
				},
			},
			Public: true,
		},
		{
			Course: model.Course{
				ID:       "HarvardX/CS50x/2014_T1",
				Course:   "HarvardX/CS50x/2014_T1",
				Org:      "HarvardX",
				Number:   "CS50x",
				Start:    "2014-01-01T00:00:00+00:00",
				Modes:    []string{"verified"},
				Language: "en",
				Content: model.CourseContent{
					DisplayName: "Introduction to Computer Science",
					Number:      "CS50x",
					Overview:    "An introduction to the intellectual enterprises of computer science.",
				},
			},
			Public:              false,
			AccessCheckObject:   "course:HarvardX/CS50x/2014_T1",
			AccessCheckRelation: "viewer",
		},
		{
			Course: model.Course{
				ID:       "edX/Staff101/Internal",
				Course:   "edX/Staff101/Internal",
				Org:      "edX",
				Number:   "Staff101",
				Modes:    []string{"audit"},
				Language: "fr",
				Content: model.CourseContent{
					DisplayName: "Staff Onboarding",
					Number:      "Staff101",
				},
			},
			Public: false,
			// Empty to simulate missing access control info
			AccessCheckObject:   "",
			AccessCheckRelation: "",
		},
	}
}

// QueryCourses implements the CourseSearcher interface with mock data
func (m *MockCourseSearcher) QueryCourses(ctx context.Context, criteria model.SearchCriteria) (*model.SearchResult, error) {
	slog.DebugContext(ctx, "executing mock search", "criteria", criteria)

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.queryError != nil {
		return nil, m.queryError
	}

	matched := make([]model.CourseDocument, 0, len(m.courses))
	for _, doc := range m.courses {
		if criteria.PublicOnly && !doc.Public {
			continue
		}
		if !MatchesText(doc.Course, criteria.SearchString) || !MatchesFilters(doc.Course, criteria.Filters) {
			continue
		}
		matched = append(matched, doc)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	result := &model.SearchResult{
		Total:  len(matched),
		Facets: CountFacets(matched),
	}

	start := paging.Offset(criteria.PageIndex, criteria.PageSize)
	if start < len(matched) {
		end := start + criteria.PageSize
		if criteria.PageSize <= 0 || end > len(matched) {
			end = len(matched)
		}
		result.Documents = append(result.Documents, matched[start:end]...)
	}

	slog.DebugContext(ctx, "mock search completed",
		"total", result.Total,
		"page_results", len(result.Documents),
	)

	return result, nil
}

// IsReady implements the CourseSearcher interface
func (m *MockCourseSearcher) IsReady(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.isReadyError
}

// Reindex replaces the searchable courses
func (m *MockCourseSearcher) Reindex(ctx context.Context, docs []model.CourseDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.courses = append([]model.CourseDocument(nil), docs...)
	return nil
}

// AddCourse adds a course to the mock data
func (m *MockCourseSearcher) AddCourse(doc model.CourseDocument) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.courses = append(m.courses, doc)
}

// ClearCourses removes all courses from the mock data
func (m *MockCourseSearcher) ClearCourses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.courses = nil
}

// CourseCount returns the number of indexed courses
func (m *MockCourseSearcher) CourseCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.courses)
}

// SetQueryError makes QueryCourses fail with err
func (m *MockCourseSearcher) SetQueryError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryError = err
}

// SetIsReadyError makes IsReady fail with err
func (m *MockCourseSearcher) SetIsReadyError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isReadyError = err
}

// MatchesText reports whether every word of text occurs in the course title,
// overview, org or number
func MatchesText(c model.Course, text string) bool {
	haystack := strings.ToLower(strings.Join([]string{
		c.Content.DisplayName, c.Content.Overview, c.Content.Number, c.Org, c.Number, c.ID,
	}, " "))
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if !strings.Contains(haystack, word) {
			return false
		}
	}
	return true
}

// MatchesFilters reports whether the course has one of the requested values
// for every filtered facet
func MatchesFilters(c model.Course, filters map[string][]string) bool {
	for facet, wanted := range filters {
		if len(wanted) == 0 {
			continue
		}
		if !containsAny(c.FacetValues(facet), wanted) {
			return false
		}
	}
	return true
}

// CountFacets counts the facet values of the given documents
func CountFacets(docs []model.CourseDocument) map[string]model.FacetResult {
	facets := make(map[string]model.FacetResult, len(constants.FacetFields))
	for _, facet := range constants.FacetFields {
		result := model.FacetResult{Terms: map[string]int{}}
		for _, doc := range docs {
			values := doc.FacetValues(facet)
			for _, v := range values {
				result.Terms[v]++
			}
			result.Total += len(values)
		}
		facets[facet] = result
	}
	return facets
}

func containsAny(values, wanted []string) bool {
	for _, v := range values {
		for _, w := range wanted {
			if v == w {
				return true
			}
		}
	}
	return false
}

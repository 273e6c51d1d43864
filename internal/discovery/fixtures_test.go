// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package discovery

import (
	"context"
	"sync"

	"github.com/yiakwy/edx-platform/internal/domain/model"
	"github.com/yiakwy/edx-platform/internal/event"
)

func demoCourse() model.Course {
	return model.Course{
		ID:              "edX/DemoX/Demo_Course",
		Course:          "edX/DemoX/Demo_Course",
		Org:             "edX",
		Number:          "DemoX",
		Start:           "1970-01-01T05:00:00+00:00",
		EnrollmentStart: "2015-04-21T00:00:00+00:00",
		ImageURL:        "/c4x/edX/DemoX/asset/images_course_image.jpg",
		Modes:           []string{"honor"},
		Content: model.CourseContent{
			DisplayName: "edX Demonstration Course",
			Number:      "DemoX",
			Overview:    " About This Course Include your long course description here.",
		},
	}
}

func responseOf(total int, courses ...model.Course) *model.SearchResponse {
	resp := &model.SearchResponse{Total: total}
	for _, c := range courses {
		resp.Results = append(resp.Results, model.ResultEnvelope{Data: c})
	}
	return resp
}

type fetchResult struct {
	resp *model.SearchResponse
	err  error
}

// fakeFetcher answers requests from a queue; when the queue is empty the
// last result is repeated.
type fakeFetcher struct {
	mu       sync.Mutex
	results  []fetchResult
	last     fetchResult
	requests []model.SearchRequest
}

func (f *fakeFetcher) respond(resp *model.SearchResponse, err error) *fakeFetcher {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, fetchResult{resp: resp, err: err})
	return f
}

func (f *fakeFetcher) FetchPage(_ context.Context, req model.SearchRequest) (*model.SearchResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if len(f.results) > 0 {
		f.last = f.results[0]
		f.results = f.results[1:]
	}
	return f.last.resp, f.last.err
}

func (f *fakeFetcher) lastRequest() model.SearchRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

type collectionSpy struct {
	searches []event.ResultsSearch
	nexts    []event.ResultsNext
	errors   []error
}

func spyOn(c *Collection) *collectionSpy {
	s := &collectionSpy{}
	c.Subscribe(event.TypeResultsSearch, func(e event.Event) { s.searches = append(s.searches, e.(event.ResultsSearch)) })
	c.Subscribe(event.TypeResultsNext, func(e event.Event) { s.nexts = append(s.nexts, e.(event.ResultsNext)) })
	c.Subscribe(event.TypeResultsError, func(e event.Event) { s.errors = append(s.errors, e.(event.ResultsError).Err) })
	return s
}

type fakeView struct {
	mu       sync.Mutex
	listed   []model.Course
	facets   map[string]model.FacetResult
	filters  []model.Filter
	barShown bool
	message  Message
	loading  bool
}

func (v *fakeView) RenderResults(courses []model.Course) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.listed = append([]model.Course(nil), courses...)
}

func (v *fakeView) AppendResults(courses []model.Course) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.listed = append(v.listed, courses...)
}

func (v *fakeView) RenderFacets(facets map[string]model.FacetResult) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.facets = facets
}

func (v *fakeView) RenderFilterBar(filters []model.Filter, visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filters = filters
	v.barShown = visible
}

func (v *fakeView) RenderMessage(msg Message) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.message = msg
}

func (v *fakeView) RenderLoading(loading bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = loading
}

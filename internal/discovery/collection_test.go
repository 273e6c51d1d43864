// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package discovery

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yiakwy/edx-platform/internal/domain/model"
)

func TestCollectionPerformSearch(t *testing.T) {
	fetcher := (&fakeFetcher{}).respond(responseOf(365, demoCourse()), nil)
	collection := NewCollection(fetcher)
	spy := spyOn(collection)

	err := collection.PerformSearch(context.Background(), "demo")

	require.NoError(t, err)
	assert.Len(t, spy.searches, 1)
	assert.Empty(t, spy.errors)
	assert.Equal(t, 365, collection.TotalCount())
	assert.Equal(t, []model.Course{demoCourse()}, collection.LatestModels())
	assert.Equal(t, 0, collection.PageIndex())
	assert.Equal(t, model.SearchRequest{
		SearchString: "demo",
		PageSize:     20,
		PageIndex:    0,
	}, fetcher.lastRequest())
	assert.Equal(t, "demo", spy.searches[0].Term)
}

func TestCollectionErrors(t *testing.T) {
	fetcher := (&fakeFetcher{}).respond(nil, errors.New("status 404"))
	collection := NewCollection(fetcher)
	spy := spyOn(collection)

	err := collection.PerformSearch(context.Background(), "search string")
	assert.Error(t, err)
	assert.Empty(t, spy.searches)
	assert.Len(t, spy.errors, 1)

	err = collection.LoadNextPage(context.Background())
	assert.Error(t, err)
	assert.Empty(t, spy.searches)
	assert.Empty(t, spy.nexts)
	assert.Len(t, spy.errors, 2)
	assert.Equal(t, 0, collection.PageIndex())
	assert.False(t, collection.Loading())
}

func TestCollectionLoadNextPageWithoutSearch(t *testing.T) {
	fetcher := (&fakeFetcher{}).respond(responseOf(35), nil)
	collection := NewCollection(fetcher)
	spy := spyOn(collection)

	err := collection.LoadNextPage(context.Background())

	require.NoError(t, err)
	assert.Len(t, spy.nexts, 1)
	assert.Empty(t, spy.errors)
	assert.Equal(t, 1, collection.PageIndex())
	assert.Equal(t, 35, collection.TotalCount())
}

func TestCollectionPagingParameters(t *testing.T) {
	fetcher := (&fakeFetcher{}).respond(responseOf(52), nil)
	collection := NewCollection(fetcher, WithPageSize(10))
	ctx := context.Background()

	require.NoError(t, collection.PerformSearch(ctx, "search string", model.Filter{Type: "org", Query: "edX"}))
	require.NoError(t, collection.LoadNextPage(ctx))
	require.NoError(t, collection.LoadNextPage(ctx))

	assert.Equal(t, model.SearchRequest{
		SearchString: "search string",
		PageSize:     10,
		PageIndex:    2,
		Filters:      []model.Filter{{Type: "org", Query: "edX"}},
	}, fetcher.lastRequest())
	assert.Equal(t, 2, collection.PageIndex())
}

func TestCollectionAccumulatesPages(t *testing.T) {
	second := demoCourse()
	second.ID = "MITx/6.002x/2013_Spring"
	fetcher := (&fakeFetcher{}).
		respond(responseOf(2, demoCourse()), nil).
		respond(responseOf(2, second), nil)
	collection := NewCollection(fetcher, WithPageSize(1))
	spy := spyOn(collection)
	ctx := context.Background()

	require.NoError(t, collection.PerformSearch(ctx, ""))
	assert.True(t, collection.HasNextPage())

	require.NoError(t, collection.LoadNextPage(ctx))
	assert.Equal(t, []model.Course{demoCourse(), second}, collection.Accumulated())
	assert.Equal(t, []model.Course{second}, collection.LatestModels())
	assert.Equal(t, 2, collection.Len())
	assert.False(t, collection.HasNextPage())
	if assert.Len(t, spy.nexts, 1) {
		assert.Equal(t, 1, spy.nexts[0].PageIndex)
		assert.Equal(t, []model.Course{second}, spy.nexts[0].Latest)
	}
}

func TestCollectionHasNextPage(t *testing.T) {
	tests := []struct {
		name     string
		response *model.SearchResponse
		expected bool
	}{
		{
			name:     "more results than loaded",
			response: responseOf(365, demoCourse()),
			expected: true,
		},
		{
			name:     "all results loaded",
			response: responseOf(1, demoCourse()),
			expected: false,
		},
		{
			name:     "access denied results reduce the total",
			response: &model.SearchResponse{Total: 2, AccessDeniedCount: 1, Results: []model.ResultEnvelope{{Data: demoCourse()}}},
			expected: false,
		},
		{
			name:     "empty object response",
			response: &model.SearchResponse{},
			expected: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			collection := NewCollection((&fakeFetcher{}).respond(tc.response, nil))
			require.NoError(t, collection.PerformSearch(context.Background(), "demo"))
			assert.Equal(t, tc.expected, collection.HasNextPage())
		})
	}
}

func TestCollectionAccessDeniedAccumulates(t *testing.T) {
	fetcher := (&fakeFetcher{}).respond(&model.SearchResponse{Total: 35, AccessDeniedCount: 5}, nil)
	collection := NewCollection(fetcher)
	ctx := context.Background()

	require.NoError(t, collection.PerformSearch(ctx, "search string"))
	assert.Equal(t, 5, collection.AccessDeniedCount())
	require.NoError(t, collection.LoadNextPage(ctx))
	assert.Equal(t, 10, collection.AccessDeniedCount())

	require.NoError(t, collection.PerformSearch(ctx, "other"))
	assert.Equal(t, 5, collection.AccessDeniedCount())
}

func TestCollectionHasNextPageCountsPages(t *testing.T) {
	fetcher := (&fakeFetcher{}).respond(&model.SearchResponse{Total: 35, AccessDeniedCount: 5}, nil)
	collection := NewCollection(fetcher)
	ctx := context.Background()

	require.NoError(t, collection.PerformSearch(ctx, "search string"))
	assert.True(t, collection.HasNextPage())

	require.NoError(t, collection.LoadNextPage(ctx))
	assert.Equal(t, 0, collection.Len())
	assert.False(t, collection.HasNextPage())
}

func TestCollectionResetsStateOnNewSearch(t *testing.T) {
	fetcher := (&fakeFetcher{}).respond(responseOf(365, demoCourse()), nil)
	collection := NewCollection(fetcher)
	ctx := context.Background()
	require.NoError(t, collection.PerformSearch(ctx, "demo"))
	require.NoError(t, collection.LoadNextPage(ctx))

	block := make(chan struct{})
	observed := make(chan [4]int, 1)
	collection.fetcher = PageFetcherFunc(func(ctx context.Context, req model.SearchRequest) (*model.SearchResponse, error) {
		observed <- [4]int{collection.Len(), collection.PageIndex(), collection.TotalCount(), len(collection.LatestModels())}
		<-block
		return responseOf(0), nil
	})

	done := make(chan error, 1)
	go func() { done <- collection.PerformSearch(ctx, "search string") }()

	assert.Equal(t, [4]int{0, 0, 0, 0}, <-observed)
	close(block)
	assert.NoError(t, <-done)
}

func TestCollectionFailedNextPageKeepsState(t *testing.T) {
	fetcher := (&fakeFetcher{}).
		respond(responseOf(365, demoCourse()), nil).
		respond(nil, errors.New("connection refused"))
	collection := NewCollection(fetcher)
	spy := spyOn(collection)
	ctx := context.Background()

	require.NoError(t, collection.PerformSearch(ctx, "demo"))
	assert.Error(t, collection.LoadNextPage(ctx))

	assert.Equal(t, 0, collection.PageIndex())
	assert.Equal(t, 1, collection.Len())
	assert.Equal(t, 365, collection.TotalCount())
	assert.Len(t, spy.errors, 1)
	assert.True(t, collection.HasNextPage())
}

func TestCollectionDiscardsStaleSearch(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	old := demoCourse()
	old.ID = "old"

	fetcher := PageFetcherFunc(func(ctx context.Context, req model.SearchRequest) (*model.SearchResponse, error) {
		if req.SearchString == "old" {
			close(started)
			<-release
			return responseOf(99, old), nil
		}
		return responseOf(1, demoCourse()), nil
	})
	collection := NewCollection(fetcher)
	spy := spyOn(collection)
	ctx := context.Background()

	oldDone := make(chan error, 1)
	go func() { oldDone <- collection.PerformSearch(ctx, "old") }()
	<-started

	require.NoError(t, collection.PerformSearch(ctx, "new"))
	close(release)

	select {
	case err := <-oldDone:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(5 * time.Second):
		t.Fatal("stale search did not return")
	}

	assert.Equal(t, "new", collection.Term())
	assert.Equal(t, 1, collection.TotalCount())
	assert.Equal(t, []model.Course{demoCourse()}, collection.Accumulated())
	assert.Len(t, spy.searches, 1)
}

func TestCollectionNextPageInFlightGuard(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	fetcher := PageFetcherFunc(func(ctx context.Context, req model.SearchRequest) (*model.SearchResponse, error) {
		if req.PageIndex == 1 {
			close(started)
			<-release
		}
		return responseOf(100, demoCourse()), nil
	})
	collection := NewCollection(fetcher)
	ctx := context.Background()
	require.NoError(t, collection.PerformSearch(ctx, "demo"))

	firstDone := make(chan error, 1)
	go func() { firstDone <- collection.LoadNextPage(ctx) }()
	<-started

	assert.True(t, collection.Loading())
	assert.ErrorIs(t, collection.LoadNextPage(ctx), ErrPageLoading)

	close(release)
	assert.NoError(t, <-firstDone)
	assert.False(t, collection.Loading())
	assert.Equal(t, 1, collection.PageIndex())
}

func TestCollectionFirstPageInFlightGuard(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var mu sync.Mutex
	var requested []int
	fetcher := PageFetcherFunc(func(ctx context.Context, req model.SearchRequest) (*model.SearchResponse, error) {
		mu.Lock()
		requested = append(requested, req.PageIndex)
		mu.Unlock()
		if req.PageIndex == 0 {
			close(started)
			<-release
		}
		return responseOf(100, demoCourse()), nil
	})
	collection := NewCollection(fetcher)
	spy := spyOn(collection)
	ctx := context.Background()

	searchDone := make(chan error, 1)
	go func() { searchDone <- collection.PerformSearch(ctx, "demo") }()
	<-started

	assert.True(t, collection.Loading())
	assert.ErrorIs(t, collection.LoadNextPage(ctx), ErrPageLoading)

	close(release)
	require.NoError(t, <-searchDone)
	assert.False(t, collection.Loading())

	require.NoError(t, collection.LoadNextPage(ctx))
	assert.Equal(t, 1, collection.PageIndex())
	assert.Equal(t, []model.Course{demoCourse(), demoCourse()}, collection.Accumulated())
	assert.Len(t, spy.searches, 1)
	assert.Len(t, spy.nexts, 1)
	mu.Lock()
	assert.Equal(t, []int{0, 1}, requested)
	mu.Unlock()
}

func TestCollectionFailedSearchClearsLoading(t *testing.T) {
	fetcher := (&fakeFetcher{}).
		respond(nil, errors.New("connection refused")).
		respond(responseOf(100, demoCourse()), nil)
	collection := NewCollection(fetcher)
	ctx := context.Background()

	assert.Error(t, collection.PerformSearch(ctx, "demo"))
	assert.False(t, collection.Loading())
	assert.NoError(t, collection.LoadNextPage(ctx))
}

func TestCollectionDiscardsStaleNextPage(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	fetcher := PageFetcherFunc(func(ctx context.Context, req model.SearchRequest) (*model.SearchResponse, error) {
		if req.PageIndex == 1 {
			close(started)
			<-release
		}
		return responseOf(100, demoCourse()), nil
	})
	collection := NewCollection(fetcher)
	spy := spyOn(collection)
	ctx := context.Background()
	require.NoError(t, collection.PerformSearch(ctx, "demo"))

	nextDone := make(chan error, 1)
	go func() { nextDone <- collection.LoadNextPage(ctx) }()
	<-started

	require.NoError(t, collection.PerformSearch(ctx, "physics"))
	assert.False(t, collection.Loading())
	close(release)

	assert.ErrorIs(t, <-nextDone, ErrSuperseded)
	assert.Equal(t, 0, collection.PageIndex())
	assert.Equal(t, 1, collection.Len())
	assert.Empty(t, spy.nexts)
}

func TestCollectionFacetsFollowLatestResponse(t *testing.T) {
	facets := map[string]model.FacetResult{
		"org": {Terms: map[string]int{"edX": 3}, Total: 3},
	}
	fetcher := (&fakeFetcher{}).
		respond(&model.SearchResponse{Total: 40, Facets: facets, Results: []model.ResultEnvelope{{Data: demoCourse()}}}, nil).
		respond(responseOf(40, demoCourse()), nil)
	collection := NewCollection(fetcher)
	spy := spyOn(collection)
	ctx := context.Background()

	require.NoError(t, collection.PerformSearch(ctx, ""))
	assert.Equal(t, facets, spy.searches[0].Facets)

	require.NoError(t, collection.LoadNextPage(ctx))
	assert.Equal(t, facets, collection.Facets())
}

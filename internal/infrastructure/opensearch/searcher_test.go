// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package opensearch

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yiakwy/edx-platform/internal/domain/model"
)

// MockOpenSearchClient is a mock implementation of OpenSearchClientRetriever
type MockOpenSearchClient struct {
	searchResponse *SearchResponse
	searchError    error
	pingError      error
	lastQuery      []byte
}

func NewMockOpenSearchClient() *MockOpenSearchClient {
	return &MockOpenSearchClient{}
}

func (m *MockOpenSearchClient) Search(ctx context.Context, index string, query []byte) (*SearchResponse, error) {
	m.lastQuery = query
	if m.searchError != nil {
		return nil, m.searchError
	}
	return m.searchResponse, nil
}

func (m *MockOpenSearchClient) Ping(ctx context.Context) error {
	return m.pingError
}

func (m *MockOpenSearchClient) SetSearchResponse(response *SearchResponse) {
	m.searchResponse = response
}

func (m *MockOpenSearchClient) SetSearchError(err error) {
	m.searchError = err
}

func demoSource() []byte {
	return mustMarshal(map[string]any{
		"public": true,
		"data": map[string]any{
			"id":     "edX/DemoX/Demo_Course",
			"course": "edX/DemoX/Demo_Course",
			"org":    "edX",
			"number": "DemoX",
			"modes":  []string{"honor"},
			"content": map[string]any{
				"display_name": "edX Demonstration Course",
				"number":       "DemoX",
			},
		},
	})
}

func TestOpenSearchSearcherQueryCourses(t *testing.T) {
	tests := []struct {
		name           string
		criteria       model.SearchCriteria
		setupMock      func(*MockOpenSearchClient)
		expectedError  bool
		expectedCount  int
		expectedTotal  int
		expectedErrMsg string
	}{
		{
			name:     "successful search with single result",
			criteria: model.SearchCriteria{SearchString: "demo", PageSize: 20},
			setupMock: func(mock *MockOpenSearchClient) {
				mock.SetSearchResponse(&SearchResponse{
					Hits: Hits{
						Total: Total{Value: 365},
						Hits:  []Hit{{ID: "edX/DemoX/Demo_Course", Score: 1.5, Source: demoSource()}},
					},
				})
			},
			expectedCount: 1,
			expectedTotal: 365,
		},
		{
			name:     "malformed hits are skipped",
			criteria: model.SearchCriteria{PageSize: 20},
			setupMock: func(mock *MockOpenSearchClient) {
				mock.SetSearchResponse(&SearchResponse{
					Hits: Hits{
						Total: Total{Value: 2},
						Hits: []Hit{
							{ID: "bad", Source: json.RawMessage(`{"data": "not an object"}`)},
							{ID: "edX/DemoX/Demo_Course", Source: demoSource()},
						},
					},
				})
			},
			expectedCount: 1,
			expectedTotal: 2,
		},
		{
			name:     "page index past the result window",
			criteria: model.SearchCriteria{PageIndex: 1e17, PageSize: 100},
			setupMock: func(mock *MockOpenSearchClient) {
				mock.SetSearchError(errors.New("search must not be sent"))
			},
			expectedError:  true,
			expectedErrMsg: "invalid page index",
		},
		{
			name:     "search error",
			criteria: model.SearchCriteria{PageSize: 20},
			setupMock: func(mock *MockOpenSearchClient) {
				mock.SetSearchError(errors.New("connection refused"))
			},
			expectedError:  true,
			expectedErrMsg: "opensearch search failed",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertion := assert.New(t)
			mockClient := NewMockOpenSearchClient()
			tc.setupMock(mockClient)
			searcher := &OpenSearchSearcher{client: mockClient, index: "courses"}

			result, err := searcher.QueryCourses(context.Background(), tc.criteria)

			if tc.expectedError {
				assertion.Error(err)
				assertion.Contains(err.Error(), tc.expectedErrMsg)
				assertion.Nil(result)
				return
			}
			assertion.NoError(err)
			assertion.Len(result.Documents, tc.expectedCount)
			assertion.Equal(tc.expectedTotal, result.Total)
		})
	}
}

func TestOpenSearchSearcherRender(t *testing.T) {
	searcher := &OpenSearchSearcher{}

	tests := []struct {
		name     string
		criteria model.SearchCriteria
		check    func(t *testing.T, query map[string]any)
	}{
		{
			name:     "match all with paging",
			criteria: model.SearchCriteria{PageSize: 20, PageIndex: 2},
			check: func(t *testing.T, query map[string]any) {
				assert.Equal(t, float64(40), query["from"])
				assert.Equal(t, float64(20), query["size"])
				must := query["query"].(map[string]any)["bool"].(map[string]any)["must"].([]any)
				assert.Contains(t, must[0], "match_all")
				filter := query["query"].(map[string]any)["bool"].(map[string]any)["filter"].([]any)
				assert.Empty(t, filter)
			},
		},
		{
			name: "text, public only and facet filters",
			criteria: model.SearchCriteria{
				SearchString: `say "hello"`,
				PageSize:     10,
				PublicOnly:   true,
				Filters:      map[string][]string{"org": {"edX", "MITx"}, "language": {"en"}},
			},
			check: func(t *testing.T, query map[string]any) {
				boolQuery := query["query"].(map[string]any)["bool"].(map[string]any)
				must := boolQuery["must"].([]any)
				multiMatch := must[0].(map[string]any)["multi_match"].(map[string]any)
				assert.Equal(t, `say "hello"`, multiMatch["query"])

				filter := boolQuery["filter"].([]any)
				if assert.Len(t, filter, 3) {
					assert.Equal(t, map[string]any{"term": map[string]any{"public": true}}, filter[0])
					assert.Equal(t, map[string]any{"terms": map[string]any{"data.language": []any{"en"}}}, filter[1])
					assert.Equal(t, map[string]any{"terms": map[string]any{"data.org": []any{"edX", "MITx"}}}, filter[2])
				}
			},
		},
		{
			name:     "facet aggregations",
			criteria: model.SearchCriteria{PageSize: 20},
			check: func(t *testing.T, query map[string]any) {
				aggs := query["aggs"].(map[string]any)
				assert.Len(t, aggs, 3)
				org := aggs["org"].(map[string]any)["terms"].(map[string]any)
				assert.Equal(t, "data.org", org["field"])
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rendered, err := searcher.Render(context.Background(), tc.criteria)
			assert.NoError(t, err)

			var query map[string]any
			if assert.NoError(t, json.Unmarshal(rendered, &query)) {
				tc.check(t, query)
			}
		})
	}
}

func TestOpenSearchSearcherConvertResponse(t *testing.T) {
	searcher := &OpenSearchSearcher{}
	response := &SearchResponse{
		Hits: Hits{
			Total: Total{Value: 3},
			Hits: []Hit{
				{ID: "edX/DemoX/Demo_Course", Source: demoSource()},
				{ID: "from-hit-id", Source: json.RawMessage(`{"public": false, "access_check_object": "course:x", "access_check_relation": "viewer", "data": {"org": "MITx"}}`)},
				{ID: "empty"},
			},
		},
		Aggregations: map[string]TermsAggregation{
			"org": {
				SumOtherDocCount: 4,
				Buckets: []AggregationBucket{
					{Key: "edX", DocCount: 10},
					{Key: "MITx", DocCount: 6},
				},
			},
		},
	}

	result := searcher.convertResponse(context.Background(), response)

	assert.Equal(t, 3, result.Total)
	if assert.Len(t, result.Documents, 2) {
		demo := result.Documents[0]
		assert.True(t, demo.Public)
		assert.Equal(t, "edX Demonstration Course", demo.Content.DisplayName)
		assert.Equal(t, []string{"honor"}, demo.Modes)

		private := result.Documents[1]
		assert.Equal(t, "from-hit-id", private.ID)
		assert.False(t, private.Public)
		assert.Equal(t, "course:x", private.AccessCheckObject)
		assert.Equal(t, "viewer", private.AccessCheckRelation)
	}
	assert.Equal(t, model.FacetResult{
		Terms: map[string]int{"edX": 10, "MITx": 6},
		Total: 20,
		Other: 4,
	}, result.Facets["org"])
}

func TestOpenSearchSearcherIsReady(t *testing.T) {
	mockClient := NewMockOpenSearchClient()
	searcher := &OpenSearchSearcher{client: mockClient, index: "courses"}
	assert.NoError(t, searcher.IsReady(context.Background()))

	mockClient.pingError = errors.New("cluster down")
	assert.Error(t, searcher.IsReady(context.Background()))
}

func TestNewSearcher(t *testing.T) {
	tests := []struct {
		name           string
		config         Config
		expectedError  bool
		expectedErrMsg string
	}{
		{
			name:   "valid configuration",
			config: Config{URL: "http://localhost:9200", Index: "courses"},
		},
		{
			name:           "missing URL",
			config:         Config{Index: "courses"},
			expectedError:  true,
			expectedErrMsg: "opensearch URL is required",
		},
		{
			name:           "missing index",
			config:         Config{URL: "http://localhost:9200"},
			expectedError:  true,
			expectedErrMsg: "opensearch index is required",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertion := assert.New(t)
			searcher, err := NewSearcher(context.Background(), tc.config)

			if tc.expectedError {
				assertion.Error(err)
				assertion.Contains(err.Error(), tc.expectedErrMsg)
				assertion.Nil(searcher)
				return
			}

			assertion.NoError(err)
			assertion.IsType(&OpenSearchSearcher{}, searcher)
		})
	}
}

// Helper function to marshal JSON without error handling for test setup
func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sort"
	"strconv"
	"text/template"
	"time"

	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"

	"github.com/yiakwy/edx-platform/internal/domain/model"
	"github.com/yiakwy/edx-platform/internal/domain/port"
	"github.com/yiakwy/edx-platform/pkg/constants"
	"github.com/yiakwy/edx-platform/pkg/paging"
)

const facetSize = 50

var queryCourseTemplate = template.Must(
	template.New("queryCourse").
		Funcs(template.FuncMap{
			"quote": strconv.Quote,
			"json": func(v any) (string, error) {
				b, err := json.Marshal(v)
				return string(b), err
			},
		}).
		Parse(queryCourseSource))

// OpenSearchSearcher implements the CourseSearcher interface for OpenSearch
type OpenSearchSearcher struct {
	client OpenSearchClientRetriever
	index  string
}

// OpenSearchClientRetriever defines the interface for OpenSearch operations
// This allows for easy mocking and testing
type OpenSearchClientRetriever interface {
	Search(ctx context.Context, index string, query []byte) (*SearchResponse, error)
	Ping(ctx context.Context) error
}

// QueryCourses implements the CourseSearcher interface
func (os *OpenSearchSearcher) QueryCourses(ctx context.Context, criteria model.SearchCriteria) (*model.SearchResult, error) {
	slog.DebugContext(ctx, "executing opensearch query for criteria",
		"criteria", criteria,
	)

	if err := paging.Validate(criteria.PageIndex, criteria.PageSize); err != nil {
		return nil, err
	}

	// Render the appropriate query template
	query, err := os.Render(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to render query: %w", err)
	}

	// Execute the search
	response, err := os.client.Search(ctx, os.index, query)
	if err != nil {
		return nil, fmt.Errorf("opensearch search failed: %w", err)
	}

	// Convert response to domain objects
	result := os.convertResponse(ctx, response)

	slog.DebugContext(ctx, "opensearch search completed",
		"results_count", len(result.Documents),
		"total", result.Total,
	)
	return result, nil
}

// IsReady checks the cluster answers a ping
func (os *OpenSearchSearcher) IsReady(ctx context.Context) error {
	return os.client.Ping(ctx)
}

// Render generates the OpenSearch query based on the provided search criteria
func (os *OpenSearchSearcher) Render(ctx context.Context, criteria model.SearchCriteria) ([]byte, error) {
	var buf bytes.Buffer
	if err := queryCourseTemplate.Execute(&buf, newQueryData(criteria)); err != nil {
		slog.ErrorContext(ctx, "failed to render query template", "error", err)
		return nil, err
	}
	query := json.RawMessage(buf.Bytes())

	parsed, err := json.Marshal(query)
	if err != nil {
		slog.ErrorContext(ctx, "failed to marshal rendered query", "error", err)
		return nil, err
	}
	return parsed, nil
}

func newQueryData(criteria model.SearchCriteria) queryData {
	data := queryData{
		SearchString: criteria.SearchString,
		PublicOnly:   criteria.PublicOnly,
		FacetSize:    facetSize,
		From:         paging.Offset(criteria.PageIndex, criteria.PageSize),
		Size:         criteria.PageSize,
	}

	// stable order so identical criteria render identical queries
	names := make([]string, 0, len(criteria.Filters))
	for name, values := range criteria.Filters {
		if len(values) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		data.Filters = append(data.Filters, facetFilter{
			Field:  facetField(name),
			Values: criteria.Filters[name],
		})
	}

	for _, name := range constants.FacetFields {
		data.Facets = append(data.Facets, facetAggregation{Name: name, Field: facetField(name)})
	}
	return data
}

func facetField(name string) string {
	return "data." + name
}

// convertResponse converts OpenSearch response to domain objects
func (os *OpenSearchSearcher) convertResponse(ctx context.Context, response *SearchResponse) *model.SearchResult {

	result := &model.SearchResult{
		Documents: make([]model.CourseDocument, 0, len(response.Hits.Hits)),
		Total:     response.Hits.Total.Value,
		Facets:    convertAggregations(response.Aggregations),
	}

	for _, hit := range response.Hits.Hits {
		doc, err := os.convertHit(hit)
		if err != nil {
			// Log error but continue processing other hits
			slog.ErrorContext(ctx, "failed to convert hit", "hit_id", hit.ID, "error", err)
			continue
		}
		result.Documents = append(result.Documents, doc)
	}

	return result
}

// convertHit converts a single OpenSearch hit to a course document
func (os *OpenSearchSearcher) convertHit(hit Hit) (model.CourseDocument, error) {
	var doc model.CourseDocument
	if len(hit.Source) == 0 {
		return doc, fmt.Errorf("hit has no source")
	}
	if err := json.Unmarshal(hit.Source, &doc); err != nil {
		return doc, fmt.Errorf("failed to unmarshal source data: %w", err)
	}
	if doc.ID == "" {
		doc.ID = hit.ID
	}
	return doc, nil
}

func convertAggregations(aggs map[string]TermsAggregation) map[string]model.FacetResult {
	if len(aggs) == 0 {
		return nil
	}
	facets := make(map[string]model.FacetResult, len(aggs))
	for name, agg := range aggs {
		result := model.FacetResult{
			Terms: make(map[string]int, len(agg.Buckets)),
			Other: int(agg.SumOtherDocCount),
		}
		for _, bucket := range agg.Buckets {
			result.Terms[bucket.Key] = int(bucket.DocCount)
			result.Total += int(bucket.DocCount)
		}
		result.Total += result.Other
		facets[name] = result
	}
	return facets
}

// NewSearcher returns a new OpenSearchSearcher implementation
func NewSearcher(ctx context.Context, config Config) (port.CourseSearcher, error) {

	if config.URL == "" {
		slog.ErrorContext(ctx, "opensearch URL is required")
		return nil, fmt.Errorf("opensearch URL is required")
	}
	if config.Index == "" {
		slog.ErrorContext(ctx, "opensearch index is required")
		return nil, fmt.Errorf("opensearch index is required")
	}

	opensearchClient, errOpensearchClient := opensearchapi.NewClient(opensearchapi.Config{
		Client: opensearch.Config{
			Addresses: []string{config.URL},
			Transport: &http.Transport{
				MaxIdleConnsPerHost:   10,
				ResponseHeaderTimeout: time.Second,
				DialContext:           (&net.Dialer{Timeout: 3 * time.Second}).DialContext,
			},
		},
	})
	if errOpensearchClient != nil {
		slog.ErrorContext(ctx, "failed to create OpenSearch client", "error", errOpensearchClient)
		return nil, fmt.Errorf("failed to create OpenSearch client: %w", errOpensearchClient)
	}

	return &OpenSearchSearcher{
		client: &httpClient{
			client: opensearchClient,
		},
		index: config.Index,
	}, nil
}

// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package bleve provides an embedded, in-memory course searcher built on Bleve.
package bleve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	blevesearch "github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	blevequery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/yiakwy/edx-platform/internal/domain/model"
	"github.com/yiakwy/edx-platform/pkg/constants"
	"github.com/yiakwy/edx-platform/pkg/paging"
)

const (
	facetSize = 50

	fieldTitle    = "title"
	fieldOverview = "overview"
	fieldNumber   = "number"
	fieldOrgText  = "org_text"
	fieldPublic   = "public"
)

// indexedCourse is the flattened form of a course stored in the index
type indexedCourse struct {
	Title    string   `json:"title"`
	Overview string   `json:"overview"`
	Number   string   `json:"number"`
	OrgText  string   `json:"org_text"`
	Org      string   `json:"org"`
	Modes    []string `json:"modes"`
	Language string   `json:"language"`
	Public   bool     `json:"public"`
}

// Searcher implements the CourseSearcher and CourseIndexer interfaces over an
// in-memory Bleve index. Reindex builds a new index and swaps it in.
type Searcher struct {
	mu      sync.RWMutex
	index   blevesearch.Index
	courses map[string]model.CourseDocument
}

// NewSearcher creates a searcher holding docs
func NewSearcher(ctx context.Context, docs []model.CourseDocument) (*Searcher, error) {
	s := &Searcher{}
	if err := s.Reindex(ctx, docs); err != nil {
		return nil, err
	}
	return s, nil
}

func newIndexMapping() mapping.IndexMapping {
	im := blevesearch.NewIndexMapping()

	docMapping := blevesearch.NewDocumentMapping()
	// standard analyzer lowercases and tokenizes without stemming
	textFieldMapping := blevesearch.NewTextFieldMapping()
	textFieldMapping.Analyzer = standard.Name
	for _, field := range []string{fieldTitle, fieldOverview, fieldNumber, fieldOrgText} {
		docMapping.AddFieldMappingsAt(field, textFieldMapping)
	}
	keywordFieldMapping := blevesearch.NewKeywordFieldMapping()
	for _, field := range constants.FacetFields {
		docMapping.AddFieldMappingsAt(field, keywordFieldMapping)
	}
	docMapping.AddFieldMappingsAt(fieldPublic, blevesearch.NewBooleanFieldMapping())

	im.AddDocumentMapping("course", docMapping)
	im.DefaultType = "course"
	im.DefaultMapping = docMapping
	return im
}

func toIndexed(doc model.CourseDocument) indexedCourse {
	return indexedCourse{
		Title:    doc.DisplayName(),
		Overview: doc.Content.Overview,
		Number:   doc.Number,
		OrgText:  doc.Org,
		Org:      doc.Org,
		Modes:    doc.Modes,
		Language: doc.Language,
		Public:   doc.Public,
	}
}

// Reindex replaces the indexed courses
func (s *Searcher) Reindex(ctx context.Context, docs []model.CourseDocument) error {
	index, err := blevesearch.NewMemOnly(newIndexMapping())
	if err != nil {
		return fmt.Errorf("failed to create Bleve index: %w", err)
	}

	courses := make(map[string]model.CourseDocument, len(docs))
	batch := index.NewBatch()
	for _, doc := range docs {
		if doc.ID == "" {
			slog.WarnContext(ctx, "skipping course without id", "display_name", doc.DisplayName())
			continue
		}
		if err := batch.Index(doc.ID, toIndexed(doc)); err != nil {
			_ = index.Close()
			return fmt.Errorf("failed to index course %s: %w", doc.ID, err)
		}
		courses[doc.ID] = doc
	}
	if err := index.Batch(batch); err != nil {
		_ = index.Close()
		return fmt.Errorf("failed to apply Bleve batch: %w", err)
	}

	s.mu.Lock()
	old := s.index
	s.index = index
	s.courses = courses
	s.mu.Unlock()

	if old != nil {
		if err := old.Close(); err != nil {
			slog.WarnContext(ctx, "failed to close previous Bleve index", "error", err)
		}
	}

	slog.InfoContext(ctx, "bleve index rebuilt", "courses", len(courses))
	return nil
}

// QueryCourses implements the CourseSearcher interface
func (s *Searcher) QueryCourses(ctx context.Context, criteria model.SearchCriteria) (*model.SearchResult, error) {
	slog.DebugContext(ctx, "executing bleve query for criteria", "criteria", criteria)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.index == nil {
		return nil, errors.New("bleve index not initialized")
	}

	size := criteria.PageSize
	if size <= 0 {
		size = constants.DefaultPageSize
	}
	if err := paging.Validate(criteria.PageIndex, size); err != nil {
		return nil, err
	}
	req := blevesearch.NewSearchRequestOptions(buildQuery(criteria), size,
		paging.Offset(criteria.PageIndex, size), false)
	if criteria.SearchString == "" {
		// filter clauses score too, so unranked listings sort by id alone
		req.SortBy([]string{"_id"})
	} else {
		req.SortBy([]string{"-_score", "_id"})
	}
	for _, facet := range constants.FacetFields {
		req.AddFacet(facet, blevesearch.NewFacetRequest(facet, facetSize))
	}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	result := &model.SearchResult{
		Documents: make([]model.CourseDocument, 0, len(res.Hits)),
		Total:     int(res.Total),
	}
	for _, hit := range res.Hits {
		doc, ok := s.courses[hit.ID]
		if !ok {
			slog.ErrorContext(ctx, "bleve hit without stored course", "hit_id", hit.ID)
			continue
		}
		result.Documents = append(result.Documents, doc)
	}

	facets, err := convertFacets(res.Facets)
	if err != nil {
		return nil, err
	}
	result.Facets = facets

	slog.DebugContext(ctx, "bleve search completed",
		"results_count", len(result.Documents),
		"total", result.Total,
	)
	return result, nil
}

// IsReady implements the CourseSearcher interface
func (s *Searcher) IsReady(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.index == nil {
		return errors.New("bleve index not initialized")
	}
	return nil
}

// Close releases the index
func (s *Searcher) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index == nil {
		return nil
	}
	err := s.index.Close()
	s.index = nil
	return err
}

func buildQuery(criteria model.SearchCriteria) blevequery.Query {
	var must []blevequery.Query

	if criteria.SearchString != "" {
		must = append(must, textQuery(criteria.SearchString))
	}

	if criteria.PublicOnly {
		public := blevesearch.NewBoolFieldQuery(true)
		public.SetField(fieldPublic)
		must = append(must, public)
	}

	for _, facet := range constants.FacetFields {
		values := criteria.Filters[facet]
		if len(values) == 0 {
			continue
		}
		terms := make([]blevequery.Query, 0, len(values))
		for _, value := range values {
			term := blevesearch.NewTermQuery(value)
			term.SetField(facet)
			terms = append(terms, term)
		}
		must = append(must, blevesearch.NewDisjunctionQuery(terms...))
	}

	if len(must) == 0 {
		return blevesearch.NewMatchAllQuery()
	}
	return blevesearch.NewConjunctionQuery(must...)
}

func textQuery(text string) blevequery.Query {
	boosts := []struct {
		field string
		boost float64
	}{
		{fieldTitle, 3},
		{fieldOverview, 1},
		{fieldOrgText, 2},
		{fieldNumber, 2},
	}
	fields := make([]blevequery.Query, 0, len(boosts))
	for _, b := range boosts {
		mq := blevesearch.NewMatchQuery(text)
		mq.SetField(b.field)
		mq.SetBoost(b.boost)
		fields = append(fields, mq)
	}
	return blevesearch.NewDisjunctionQuery(fields...)
}

// facetResult mirrors the JSON form of a Bleve facet result
type facetResult struct {
	Total   int `json:"total"`
	Missing int `json:"missing"`
	Other   int `json:"other"`
	Terms   []struct {
		Term  string `json:"term"`
		Count int    `json:"count"`
	} `json:"terms"`
}

func convertFacets(results any) (map[string]model.FacetResult, error) {
	raw, err := json.Marshal(results)
	if err != nil {
		return nil, fmt.Errorf("failed to encode bleve facets: %w", err)
	}
	var decoded map[string]facetResult
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode bleve facets: %w", err)
	}

	facets := make(map[string]model.FacetResult, len(decoded))
	for name, f := range decoded {
		result := model.FacetResult{
			Terms: make(map[string]int, len(f.Terms)),
			Total: f.Total,
			Other: f.Other,
		}
		for _, term := range f.Terms {
			result.Terms[term.Term] = term.Count
		}
		facets[name] = result
	}
	return facets, nil
}

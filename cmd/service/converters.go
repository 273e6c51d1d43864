// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/yiakwy/edx-platform/internal/domain/model"
	"github.com/yiakwy/edx-platform/pkg/constants"
	"github.com/yiakwy/edx-platform/pkg/errors"
	"github.com/yiakwy/edx-platform/pkg/paging"
)

// formToCriteria converts the submitted discovery form to domain search criteria.
// Fields named after a facet become facet filters; other fields are ignored.
func formToCriteria(ctx context.Context, form url.Values) (model.SearchCriteria, error) {

	criteria := model.SearchCriteria{
		SearchString: strings.TrimSpace(form.Get(constants.SearchStringField)),
		PageSize:     constants.DefaultPageSize,
	}

	var err error
	if criteria.PageSize, err = intField(form, constants.PageSizeField, constants.DefaultPageSize); err != nil {
		return criteria, err
	}
	if criteria.PageIndex, err = intField(form, constants.PageIndexField, 0); err != nil {
		return criteria, err
	}
	if err := paging.Validate(criteria.PageIndex, criteria.PageSize); err != nil {
		return criteria, err
	}

	for _, facet := range constants.FacetFields {
		var values []string
		for _, v := range form[facet] {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}
		if criteria.Filters == nil {
			criteria.Filters = make(map[string][]string)
		}
		criteria.Filters[facet] = values
	}

	slog.DebugContext(ctx, "converted form to criteria",
		"search_string", criteria.SearchString,
		"filters", criteria.Filters,
		"page_index", criteria.PageIndex,
		"page_size", criteria.PageSize,
	)
	return criteria, nil
}

func intField(form url.Values, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(form.Get(name))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.NewValidation(fmt.Sprintf("%s must be an integer", name), err)
	}
	return n, nil
}

// domainResultToResponse converts the domain search result to the response body
func domainResultToResponse(result *model.SearchResult) *model.SearchResponse {
	response := &model.SearchResponse{
		Total:             result.Total,
		Results:           make([]model.ResultEnvelope, len(result.Documents)),
		Facets:            result.Facets,
		AccessDeniedCount: result.AccessDenied,
	}

	for i, doc := range result.Documents {
		response.Results[i] = model.ResultEnvelope{Data: doc.Course}
	}

	return response
}

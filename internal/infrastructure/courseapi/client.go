// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package courseapi

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/yiakwy/edx-platform/internal/domain/model"
	"github.com/yiakwy/edx-platform/pkg/constants"
	"github.com/yiakwy/edx-platform/pkg/errors"
	"github.com/yiakwy/edx-platform/pkg/httpclient"
)

// Client fetches course discovery pages over HTTP
type Client struct {
	config     Config
	httpClient *httpclient.Client
}

// FetchPage posts the search form for one page and decodes the response
func (c *Client) FetchPage(ctx context.Context, req model.SearchRequest) (*model.SearchResponse, error) {
	values := EncodeRequest(req)

	slog.DebugContext(ctx, "requesting course discovery page",
		"url", c.config.SearchURL(),
		"search_string", req.SearchString,
		"page_index", req.PageIndex,
	)

	headers := map[string]string{}
	if c.config.Token != "" {
		headers["Authorization"] = fmt.Sprintf("Bearer %s", c.config.Token)
	}

	resp, err := c.httpClient.PostForm(ctx, c.config.SearchURL(), values, headers)
	if err != nil {
		var statusErr *httpclient.StatusError
		if stderrors.As(err, &statusErr) {
			return nil, errors.FromStatus(statusErr.StatusCode, err)
		}
		return nil, errors.NewUnexpected("request failed", err)
	}

	return DecodeResponse(resp.Body)
}

// IsReady checks if the discovery service answers its liveness probe
func (c *Client) IsReady(ctx context.Context) error {
	resp, err := c.httpClient.Request(ctx, http.MethodGet, c.config.BaseURL+"/livez", nil, nil)
	if err != nil {
		return errors.NewServiceUnavailable("course discovery service is not reachable", err)
	}
	if resp.StatusCode != http.StatusOK {
		return errors.NewServiceUnavailable("course discovery service is not ready", fmt.Errorf("status code: %d", resp.StatusCode))
	}
	return nil
}

// EncodeRequest builds the form body of a page request.
// Each facet filter becomes one field named after its facet.
func EncodeRequest(req model.SearchRequest) url.Values {
	values := url.Values{}
	values.Set(constants.SearchStringField, req.SearchString)
	values.Set(constants.PageSizeField, strconv.Itoa(req.PageSize))
	values.Set(constants.PageIndexField, strconv.Itoa(req.PageIndex))
	for _, f := range req.Filters {
		if f.Type == constants.SearchStringFilterType {
			continue
		}
		values.Add(f.Type, f.Query)
	}
	return values
}

// DecodeResponse parses a discovery response body. An empty object means
// zero results; an empty or malformed body is an error.
func DecodeResponse(body []byte) (*model.SearchResponse, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.NewUnexpected("empty response body")
	}
	var resp model.SearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.NewUnexpected("failed to decode response", err)
	}
	return &resp, nil
}

// NewClient creates a new course discovery API client
func NewClient(config Config) *Client {
	httpConfig := httpclient.Config{
		Timeout:      config.Timeout,
		MaxRetries:   config.MaxRetries,
		RetryDelay:   config.RetryDelay,
		RetryBackoff: true,
	}.WithDefaults()

	return &Client{
		config:     config,
		httpClient: httpclient.NewClient(httpConfig),
	}
}

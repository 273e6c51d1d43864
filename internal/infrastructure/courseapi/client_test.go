// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package courseapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yiakwy/edx-platform/internal/domain/model"
	"github.com/yiakwy/edx-platform/pkg/errors"
)

const demoResponse = `{
  "total": 365,
  "results": [
    {
      "data": {
        "modes": ["honor"],
        "course": "edX/DemoX/Demo_Course",
        "enrollment_start": "2015-04-21T00:00:00+00:00",
        "number": "DemoX",
        "content": {
          "overview": " About This Course Include your long course description here.",
          "display_name": "edX Demonstration Course",
          "number": "DemoX"
        },
        "start": "1970-01-01T05:00:00+00:00",
        "image_url": "/c4x/edX/DemoX/asset/images_course_image.jpg",
        "org": "edX",
        "id": "edX/DemoX/Demo_Course"
      }
    }
  ]
}`

func testClient(baseURL string) *Client {
	return NewClient(Config{
		BaseURL:    baseURL,
		Timeout:    5 * time.Second,
		MaxRetries: 1,
		RetryDelay: 10 * time.Millisecond,
	})
}

func TestClientFetchPage(t *testing.T) {
	var form url.Values
	var contentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/search/course_discovery/", r.URL.Path)
		contentType = r.Header.Get("Content-Type")
		assert.NoError(t, r.ParseForm())
		form = r.PostForm
		_, _ = w.Write([]byte(demoResponse))
	}))
	defer server.Close()

	resp, err := testClient(server.URL).FetchPage(context.Background(), model.SearchRequest{
		SearchString: "demo",
		PageSize:     20,
		PageIndex:    2,
		Filters:      []model.Filter{{Type: "org", Query: "edX"}, {Type: "modes", Query: "honor"}},
	})

	require.NoError(t, err)
	assert.Equal(t, "application/x-www-form-urlencoded", contentType)
	assert.Equal(t, "demo", form.Get("search_string"))
	assert.Equal(t, "20", form.Get("page_size"))
	assert.Equal(t, "2", form.Get("page_index"))
	assert.Equal(t, "edX", form.Get("org"))
	assert.Equal(t, "honor", form.Get("modes"))
	assert.Equal(t, 365, resp.Total)
	if assert.Len(t, resp.Results, 1) {
		course := resp.Results[0].Data
		assert.Equal(t, "edX/DemoX/Demo_Course", course.ID)
		assert.Equal(t, "edX Demonstration Course", course.Content.DisplayName)
		assert.Equal(t, []string{"honor"}, course.Modes)
	}
}

func TestClientFetchPageErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		assertType func(t *testing.T, err error)
	}{
		{
			name:   "not found",
			status: http.StatusNotFound,
			assertType: func(t *testing.T, err error) {
				assert.IsType(t, errors.NotFound{}, err)
			},
		},
		{
			name:   "bad request",
			status: http.StatusBadRequest,
			body:   `{"message":"invalid page size"}`,
			assertType: func(t *testing.T, err error) {
				assert.IsType(t, errors.Validation{}, err)
			},
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			assertType: func(t *testing.T, err error) {
				assert.IsType(t, errors.Unexpected{}, err)
			},
		},
		{
			name:   "service unavailable",
			status: http.StatusServiceUnavailable,
			assertType: func(t *testing.T, err error) {
				assert.IsType(t, errors.ServiceUnavailable{}, err)
			},
		},
		{
			name:   "empty body",
			status: http.StatusOK,
			assertType: func(t *testing.T, err error) {
				assert.IsType(t, errors.Unexpected{}, err)
			},
		},
		{
			name:   "malformed body",
			status: http.StatusOK,
			body:   `{"total": "many"`,
			assertType: func(t *testing.T, err error) {
				assert.IsType(t, errors.Unexpected{}, err)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			resp, err := testClient(server.URL).FetchPage(context.Background(), model.SearchRequest{PageSize: 20})

			assert.Nil(t, resp)
			require.Error(t, err)
			tc.assertType(t, err)
		})
	}
}

func TestClientFetchPageEmptyObject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	resp, err := testClient(server.URL).FetchPage(context.Background(), model.SearchRequest{PageSize: 20})

	require.NoError(t, err)
	assert.Equal(t, 0, resp.Total)
	assert.Empty(t, resp.Courses())
}

func TestClientSendsToken(t *testing.T) {
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Token: "abc"})
	_, err := client.FetchPage(context.Background(), model.SearchRequest{PageSize: 20})

	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", auth)
}

func TestClientIsReady(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/livez" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("OK"))
	}))
	defer server.Close()

	assert.NoError(t, testClient(server.URL).IsReady(context.Background()))
	assert.Error(t, testClient("http://127.0.0.1:1").IsReady(context.Background()))
}

func TestEncodeRequestSkipsSearchStringFilter(t *testing.T) {
	values := EncodeRequest(model.SearchRequest{
		SearchString: "demo",
		PageSize:     20,
		Filters:      []model.Filter{{Type: "search_string", Query: "demo"}, {Type: "org", Query: "MITx"}, {Type: "org", Query: "edX"}},
	})

	assert.Equal(t, []string{"demo"}, values["search_string"])
	assert.Equal(t, []string{"MITx", "edX"}, values["org"])
	assert.Equal(t, "0", values.Get("page_index"))
}

func TestNewConfig(t *testing.T) {
	config, err := NewConfig("http://example.org/", "", "2s", -1, "")
	require.NoError(t, err)
	assert.Equal(t, "http://example.org", config.BaseURL)
	assert.Equal(t, 2*time.Second, config.Timeout)
	assert.Equal(t, 2, config.MaxRetries)
	assert.Equal(t, "http://example.org/search/course_discovery/", config.SearchURL())

	_, err = NewConfig("not a url", "", "", 0, "")
	assert.Error(t, err)

	_, err = NewConfig("", "", "soon", 0, "")
	assert.Error(t, err)
}

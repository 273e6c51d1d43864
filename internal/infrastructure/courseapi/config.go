// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package courseapi

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/yiakwy/edx-platform/pkg/constants"
)

var defaultBaseURL = "http://localhost:8080"

// Config holds the configuration for the course discovery API client
type Config struct {
	// BaseURL is the scheme and host of the discovery service (default: http://localhost:8080)
	BaseURL string

	// Token is sent as a bearer token when set
	Token string

	// Timeout is the HTTP client timeout for API requests
	Timeout time.Duration

	// MaxRetries is the maximum number of retry attempts for failed requests
	MaxRetries int

	// RetryDelay is the delay between retry attempts
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		BaseURL:    defaultBaseURL,
		Timeout:    10 * time.Second,
		MaxRetries: 2,
		RetryDelay: 500 * time.Millisecond,
	}
}

// NewConfig creates a new client configuration with the provided parameters
func NewConfig(baseURL, token, timeout string, maxRetries int, retryDelay string) (Config, error) {
	config := DefaultConfig()
	config.Token = token

	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return Config{}, fmt.Errorf("invalid base URL %q", baseURL)
		}
		config.BaseURL = strings.TrimRight(baseURL, "/")
	}

	if timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return Config{}, fmt.Errorf("invalid timeout duration: %w", err)
		}
		config.Timeout = d
	}

	if maxRetries >= 0 {
		config.MaxRetries = maxRetries
	}

	if retryDelay != "" {
		d, err := time.ParseDuration(retryDelay)
		if err != nil {
			return Config{}, fmt.Errorf("invalid retry delay duration: %w", err)
		}
		config.RetryDelay = d
	}

	return config, nil
}

// SearchURL returns the course discovery endpoint URL
func (c Config) SearchURL() string {
	return strings.TrimRight(c.BaseURL, "/") + constants.CourseDiscoveryPath
}

// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/yiakwy/edx-platform/pkg/errors"
)

// HTTPError is an error with the status and body sent to the client
type HTTPError struct {
	Status  int    `json:"-"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// unauthorized marks token validation failures
type unauthorized struct {
	err error
}

func (u unauthorized) Error() string {
	return u.err.Error()
}

func (u unauthorized) Unwrap() error {
	return u.err
}

func wrapError(ctx context.Context, err error) *HTTPError {

	f := func(err error) *HTTPError {
		if err == nil {
			return &HTTPError{
				Status:  http.StatusInternalServerError,
				Name:    "internal_server_error",
				Message: "unknown error",
			}
		}

		switch e := err.(type) {
		case *HTTPError:
			return e
		case unauthorized:
			return &HTTPError{
				Status:  http.StatusUnauthorized,
				Name:    "unauthorized",
				Message: e.Error(),
			}
		case errors.Validation:
			return &HTTPError{
				Status:  http.StatusBadRequest,
				Name:    "bad_request",
				Message: e.Error(),
			}
		case errors.NotFound:
			return &HTTPError{
				Status:  http.StatusNotFound,
				Name:    "not_found",
				Message: e.Error(),
			}
		case errors.ServiceUnavailable:
			return &HTTPError{
				Status:  http.StatusServiceUnavailable,
				Name:    "service_unavailable",
				Message: e.Error(),
			}
		default:
			return &HTTPError{
				Status:  http.StatusInternalServerError,
				Name:    "internal_server_error",
				Message: err.Error(),
			}
		}
	}

	slog.ErrorContext(ctx, "request failed",
		"error", err,
	)
	return f(err)
}

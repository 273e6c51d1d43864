// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package errors

import (
	"errors"
	"net/http"
)

// Unexpected is a failure on the discovery side that the caller cannot fix
// by changing the request, such as an undecodable search response.
type Unexpected struct {
	base
}

// Error returns the message followed by the joined causes.
func (e Unexpected) Error() string {
	return e.error()
}

// NewUnexpected wraps the causes of a failed search under message.
func NewUnexpected(message string, err ...error) Unexpected {
	return Unexpected{base: base{message: message, err: errors.Join(err...)}}
}

// ServiceUnavailable reports that a search dependency (the course index,
// the access checker or the upstream discovery endpoint) cannot answer yet.
type ServiceUnavailable struct {
	base
}

// Error returns the message followed by the joined causes.
func (e ServiceUnavailable) Error() string {
	return e.error()
}

// NewServiceUnavailable wraps the causes of an unreachable dependency under message.
func NewServiceUnavailable(message string, err ...error) ServiceUnavailable {
	return ServiceUnavailable{base: base{message: message, err: errors.Join(err...)}}
}

// FromStatus maps a non-2xx status answered by the course discovery endpoint
// to the matching error type, keeping err as the cause.
func FromStatus(status int, err error) error {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return NewValidation("course discovery rejected the search request", err)
	case http.StatusNotFound:
		return NewNotFound("course discovery endpoint not found", err)
	case http.StatusServiceUnavailable:
		return NewServiceUnavailable("course discovery unavailable", err)
	default:
		return NewUnexpected("course discovery answered an unexpected status", err)
	}
}

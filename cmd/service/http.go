// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"net/http"

	goahttp "goa.design/goa/v3/http"

	"github.com/yiakwy/edx-platform/pkg/constants"
	"github.com/yiakwy/edx-platform/pkg/errors"
)

// maxFormBytes bounds the discovery form body
const maxFormBytes = 64 << 10

// Mount registers the discovery-svc endpoints on mux.
func Mount(mux goahttp.Muxer, svc *DiscoverySvc) {
	mux.Handle(http.MethodPost, constants.CourseDiscoveryPath, svc.handleSearchCourses)
	mux.Handle(http.MethodGet, "/livez", svc.handleLivez)
	mux.Handle(http.MethodGet, "/readyz", svc.handleReadyz)
}

func (s *DiscoverySvc) handleSearchCourses(w http.ResponseWriter, r *http.Request) {
	ctx, err := s.Authenticate(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		encodeError(ctx, w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		encodeError(ctx, w, errors.NewValidation("invalid form body", err))
		return
	}

	result, err := s.SearchCourses(ctx, r.PostForm)
	if err != nil {
		encodeError(ctx, w, err)
		return
	}

	if result.CacheControl != nil {
		w.Header().Set("Cache-Control", *result.CacheControl)
	}
	encodeResponse(ctx, w, http.StatusOK, result.Body)
}

func (s *DiscoverySvc) handleLivez(w http.ResponseWriter, r *http.Request) {
	writeText(r.Context(), w, http.StatusOK, s.Livez(r.Context()))
}

func (s *DiscoverySvc) handleReadyz(w http.ResponseWriter, r *http.Request) {
	body, err := s.Readyz(r.Context())
	if err != nil {
		encodeError(r.Context(), w, err)
		return
	}
	writeText(r.Context(), w, http.StatusOK, body)
}

func encodeResponse(ctx context.Context, w http.ResponseWriter, status int, body any) {
	enc := goahttp.ResponseEncoder(ctx, w)
	w.WriteHeader(status)
	if err := enc.Encode(body); err != nil {
		slog.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func encodeError(ctx context.Context, w http.ResponseWriter, err error) {
	httpErr, ok := err.(*HTTPError)
	if !ok {
		httpErr = wrapError(ctx, err)
	}
	encodeResponse(ctx, w, httpErr.Status, httpErr)
}

func writeText(ctx context.Context, w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		slog.ErrorContext(ctx, "failed to write response", "error", err)
	}
}

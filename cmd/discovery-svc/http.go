// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"goa.design/clue/debug"
	goahttp "goa.design/goa/v3/http"

	"github.com/yiakwy/edx-platform/cmd/service"
	"github.com/yiakwy/edx-platform/internal/middleware"
)

// newHandler builds the service HTTP handler. Debug mode mounts the pprof
// and log level endpoints and logs request and response bodies.
func newHandler(svc *service.DiscoverySvc, dbg bool) http.Handler {

	mux := goahttp.NewMuxer()
	if dbg {
		// Mount pprof handlers for memory profiling under /debug/pprof.
		debug.MountPprofHandlers(debug.Adapt(mux))
		// Mount /debug endpoint to enable or disable debug logs at runtime.
		debug.MountDebugLogEnabler(debug.Adapt(mux))
	}

	service.Mount(mux, svc)

	var handler http.Handler = mux

	// Add RequestID middleware first
	handler = middleware.RequestIDMiddleware()(handler)

	if dbg {
		// Log query and response bodies if debug logs are enabled.
		handler = debug.HTTP()(handler)
	}

	return handler
}

// handleHTTPServer starts an HTTP server on the given address. It shuts
// down the server once ctx is canceled.
func handleHTTPServer(ctx context.Context, host string, handler http.Handler, wg *sync.WaitGroup, errc chan error) {

	srv := &http.Server{Addr: host, Handler: handler, ReadHeaderTimeout: time.Second * 60}

	wg.Add(1)
	go func() {
		defer wg.Done()

		// Start HTTP server in a separate goroutine.
		go func() {
			slog.InfoContext(ctx, "HTTP server listening", "host", host)
			errc <- srv.ListenAndServe()
		}()

		<-ctx.Done()
		slog.InfoContext(ctx, "shutting down HTTP server", "host", host)

		// Shutdown gracefully with a 30s timeout.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "failed to shutdown HTTP server", "error", err)
		}
	}()
}

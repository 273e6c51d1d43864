// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/yiakwy/edx-platform/cmd/service"
	"github.com/yiakwy/edx-platform/internal/config"
	logging "github.com/yiakwy/edx-platform/pkg/log"
)

const (
	// gracefulShutdownSeconds should be higher than NATS client
	// request timeout, and lower than the pod or liveness probe's
	// terminationGracePeriodSeconds.
	gracefulShutdownSeconds = 25
)

func init() {
	// slog is the standard library logger, we use it to log errors and
	logging.InitStructureLogConfig()
}

func main() {
	var (
		dbgF       = flag.Bool("d", false, "enable debug logging")
		port       = flag.String("p", "", "listen port (overrides the config file)")
		bind       = flag.String("bind", "", "interface to bind on (overrides the config file)")
		configPath = flag.String("config", os.Getenv("DISCOVERY_CONFIG"), "path to the YAML config file")
	)
	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	if err := run(*configPath, *bind, *port, *dbgF); err != nil {
		slog.Error("discovery service failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, bind, port string, dbg bool) error {
	ctx := context.Background()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if bind != "" {
		cfg.Server.Bind = bind
	}
	if port != "" {
		cfg.Server.Port = port
	}

	slog.InfoContext(ctx, "Starting course discovery service",
		"bind", cfg.Server.Bind,
		"http-port", cfg.Server.Port,
		"search-source", cfg.Search.Source,
		"access-control-source", cfg.AccessControl.Source,
		"graceful-shutdown-seconds", gracefulShutdownSeconds,
	)

	searcher, err := service.SearcherImpl(ctx, cfg.Search)
	if err != nil {
		return err
	}
	accessControlChecker, err := service.AccessControlCheckerImpl(ctx, cfg.AccessControl)
	if err != nil {
		return err
	}
	authService, err := service.AuthServiceImpl(ctx, cfg.Auth)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	catalog, err := service.CatalogImpl(ctx, cfg.Catalog, searcher.Indexer)
	if err != nil {
		_ = accessControlChecker.Close()
		return err
	}

	discoverySvc := service.NewDiscoverySvc(searcher, accessControlChecker, authService)

	// Create channel used by both the signal handler and server goroutines
	// to notify the main goroutine when to stop the server.
	errc := make(chan error)

	// Setup interrupt handler. This optional step configures the process so
	// that SIGINT and SIGTERM signals cause the services to stop gracefully.
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		errc <- fmt.Errorf("%s", <-c)
	}()

	var wg sync.WaitGroup
	handleHTTPServer(ctx, cfg.Server.Addr(), newHandler(discoverySvc, dbg), &wg, errc)

	// Wait for signal.
	slog.InfoContext(ctx, "received shutdown signal, stopping servers",
		"signal", <-errc,
	)

	// Send cancellation signal to the goroutines.
	cancel()

	// Create a timeout context for graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownSeconds*time.Second)
	defer shutdownCancel()

	// Gracefully close the access control checker and the catalog
	go func() {
		slog.InfoContext(shutdownCtx, "closing access control checker")
		if err := accessControlChecker.Close(); err != nil {
			slog.ErrorContext(shutdownCtx, "failed to close access control checker", "error", err)
		}
		if err := catalog.Close(); err != nil {
			slog.ErrorContext(shutdownCtx, "failed to close catalog", "error", err)
		}
	}()

	// Wait for all goroutines to finish with timeout
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.InfoContext(shutdownCtx, "graceful shutdown completed")
	case <-shutdownCtx.Done():
		slog.WarnContext(shutdownCtx, "graceful shutdown timed out")
	}

	slog.InfoContext(shutdownCtx, "exited")
	return nil
}

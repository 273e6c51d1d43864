// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yiakwy/edx-platform/internal/catalog"
	"github.com/yiakwy/edx-platform/internal/config"
	"github.com/yiakwy/edx-platform/internal/domain/port"
	"github.com/yiakwy/edx-platform/internal/infrastructure/auth"
	"github.com/yiakwy/edx-platform/internal/infrastructure/bleve"
	"github.com/yiakwy/edx-platform/internal/infrastructure/mock"
	"github.com/yiakwy/edx-platform/internal/infrastructure/nats"
	"github.com/yiakwy/edx-platform/internal/infrastructure/opensearch"
	"github.com/yiakwy/edx-platform/internal/infrastructure/sqlite"
)

// Searcher is a course searcher, optionally able to rebuild its index
// from the catalog.
type Searcher struct {
	port.CourseSearcher
	// Indexer is nil for backends indexed outside this service
	Indexer port.CourseIndexer
}

// SearcherImpl injects the course searcher implementation
func SearcherImpl(ctx context.Context, cfg config.SearchConfig) (Searcher, error) {

	switch cfg.Source {
	case config.SearchSourceMock:
		// The mock serves its sample catalog and ignores the store.
		slog.InfoContext(ctx, "initializing mock course searcher")
		return Searcher{CourseSearcher: mock.NewMockCourseSearcher()}, nil

	case config.SearchSourceBleve:
		slog.InfoContext(ctx, "initializing bleve course searcher")
		searcher, err := bleve.NewSearcher(ctx, nil)
		if err != nil {
			return Searcher{}, fmt.Errorf("failed to initialize bleve searcher: %w", err)
		}
		return Searcher{CourseSearcher: searcher, Indexer: searcher}, nil

	case config.SearchSourceOpenSearch:
		slog.InfoContext(ctx, "initializing opensearch course searcher",
			"url", cfg.OpenSearchURL,
			"index", cfg.OpenSearchIndex,
		)
		searcher, err := opensearch.NewSearcher(ctx, opensearch.Config{
			URL:   cfg.OpenSearchURL,
			Index: cfg.OpenSearchIndex,
		})
		if err != nil {
			return Searcher{}, fmt.Errorf("failed to initialize OpenSearch searcher: %w", err)
		}
		return Searcher{CourseSearcher: searcher}, nil

	default:
		return Searcher{}, fmt.Errorf("unsupported search implementation: %s", cfg.Source)
	}
}

// AccessControlCheckerImpl injects the access control checker implementation
func AccessControlCheckerImpl(ctx context.Context, cfg config.AccessControlConfig) (port.AccessControlChecker, error) {

	switch cfg.Source {
	case config.AccessControlSourceMock:
		slog.InfoContext(ctx, "initializing mock access control checker")
		return mock.NewMockAccessControlChecker(), nil

	case config.AccessControlSourceNATS:
		slog.InfoContext(ctx, "initializing NATS access control checker",
			"url", cfg.NATSURL,
		)
		checker, err := nats.NewAccessControlChecker(ctx, nats.Config{
			URL:           cfg.NATSURL,
			Timeout:       cfg.NATSTimeout,
			MaxReconnect:  cfg.NATSMaxReconnect,
			ReconnectWait: cfg.NATSReconnectWait,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize NATS access control checker: %w", err)
		}
		return checker, nil

	default:
		return nil, fmt.Errorf("unsupported access control implementation: %s", cfg.Source)
	}
}

// AuthServiceImpl injects the viewer authenticator. A configured mock
// principal disables JWT validation.
func AuthServiceImpl(ctx context.Context, cfg config.AuthConfig) (port.Authenticator, error) {
	if cfg.MockLocalPrincipal != "" {
		slog.WarnContext(ctx, "JWT validation is disabled, using mock principal",
			"principal", cfg.MockLocalPrincipal,
		)
		return mock.NewMockAuthServiceFor(cfg.MockLocalPrincipal), nil
	}

	authenticator, err := auth.NewJWTAuth(auth.JWTAuthConfig{
		JWKSURL:  cfg.JWKSURL,
		Audience: cfg.Audience,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT authentication: %w", err)
	}
	return authenticator, nil
}

// Catalog owns the catalog store and the optional seed file watcher.
type Catalog struct {
	Store   *sqlite.CatalogStore
	Syncer  *catalog.Syncer
	watcher *catalog.Watcher
}

// CatalogImpl opens the catalog store, loads the seed file and rebuilds
// the search index from the stored catalog.
func CatalogImpl(ctx context.Context, cfg config.CatalogConfig, indexer port.CourseIndexer) (*Catalog, error) {

	store, err := sqlite.NewCatalogStore(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog store: %w", err)
	}

	c := &Catalog{
		Store:  store,
		Syncer: catalog.NewSyncer(store, indexer),
	}

	if cfg.SeedPath != "" {
		if err := c.Syncer.SyncFile(ctx, cfg.SeedPath); err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to load catalog seed: %w", err)
		}
	} else if err := c.Syncer.Rebuild(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to rebuild search index: %w", err)
	}

	if cfg.Watch && cfg.SeedPath != "" {
		c.watcher, err = catalog.Watch(ctx, cfg.SeedPath, c.Syncer)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to watch catalog seed: %w", err)
		}
	}

	return c, nil
}

// Close stops the watcher and closes the store
func (c *Catalog) Close() error {
	if c.watcher != nil {
		c.watcher.Stop()
	}
	return c.Store.Close()
}

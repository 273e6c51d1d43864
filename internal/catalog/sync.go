// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yiakwy/edx-platform/internal/domain/port"
)

// Syncer copies the seed file into the store and reindexes the searcher
type Syncer struct {
	store   port.CatalogStore
	indexer port.CourseIndexer
}

// NewSyncer creates a Syncer. indexer may be nil when the searcher indexes
// documents on its own.
func NewSyncer(store port.CatalogStore, indexer port.CourseIndexer) *Syncer {
	return &Syncer{store: store, indexer: indexer}
}

// SyncFile loads the seed at path, upserts its courses and rebuilds the index
func (s *Syncer) SyncFile(ctx context.Context, path string) error {
	docs, err := LoadSeed(path)
	if err != nil {
		return err
	}
	if err := s.store.UpsertCourses(ctx, docs); err != nil {
		return fmt.Errorf("failed to store catalog seed: %w", err)
	}
	slog.InfoContext(ctx, "catalog seed loaded", "path", path, "courses", len(docs))
	return s.Rebuild(ctx)
}

// Rebuild reindexes every stored course
func (s *Syncer) Rebuild(ctx context.Context) error {
	if s.indexer == nil {
		return nil
	}
	docs, err := s.store.ListCourses(ctx)
	if err != nil {
		return fmt.Errorf("failed to list catalog: %w", err)
	}
	if err := s.indexer.Reindex(ctx, docs); err != nil {
		return fmt.Errorf("failed to reindex catalog: %w", err)
	}
	slog.DebugContext(ctx, "catalog reindexed", "courses", len(docs))
	return nil
}

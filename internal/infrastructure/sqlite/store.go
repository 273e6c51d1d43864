// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package sqlite persists the course catalog in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/yiakwy/edx-platform/internal/domain/model"
	"github.com/yiakwy/edx-platform/internal/domain/port"
)

// CatalogStore implements port.CatalogStore using SQLite.
type CatalogStore struct {
	db *sql.DB
}

// NewCatalogStore opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewCatalogStore(ctx context.Context, dbPath string) (*CatalogStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection keeps :memory: databases shared between calls
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.InfoContext(ctx, "catalog store opened", "path", dbPath)

	return &CatalogStore{db: db}, nil
}

var _ port.CatalogStore = (*CatalogStore)(nil)

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS courses (
		id TEXT PRIMARY KEY,
		org TEXT NOT NULL DEFAULT '',
		public INTEGER NOT NULL DEFAULT 0,
		access_check_object TEXT NOT NULL DEFAULT '',
		access_check_relation TEXT NOT NULL DEFAULT '',
		data TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_courses_org ON courses(org);
	`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// UpsertCourses inserts or replaces the given documents by course id in one transaction.
func (s *CatalogStore) UpsertCourses(ctx context.Context, docs []model.CourseDocument) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO courses (id, org, public, access_check_object, access_check_relation, data, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			org = excluded.org,
			public = excluded.public,
			access_check_object = excluded.access_check_object,
			access_check_relation = excluded.access_check_relation,
			data = excluded.data,
			updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, doc := range docs {
		if doc.ID == "" {
			return fmt.Errorf("course without id: %q", doc.DisplayName())
		}
		data, err := json.Marshal(doc.Course)
		if err != nil {
			return fmt.Errorf("failed to marshal course %s: %w", doc.ID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			doc.ID, doc.Org, doc.Public, doc.AccessCheckObject, doc.AccessCheckRelation, string(data), now,
		); err != nil {
			return fmt.Errorf("failed to upsert course %s: %w", doc.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit courses: %w", err)
	}

	slog.DebugContext(ctx, "courses upserted", "count", len(docs))
	return nil
}

// ListCourses returns all stored documents ordered by course id.
func (s *CatalogStore) ListCourses(ctx context.Context) ([]model.CourseDocument, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, public, access_check_object, access_check_relation, data
		 FROM courses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var docs []model.CourseDocument
	for rows.Next() {
		var (
			doc  model.CourseDocument
			id   string
			data string
		)
		if err := rows.Scan(&id, &doc.Public, &doc.AccessCheckObject, &doc.AccessCheckRelation, &data); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		if err := json.Unmarshal([]byte(data), &doc.Course); err != nil {
			return nil, fmt.Errorf("failed to unmarshal course %s: %w", id, err)
		}
		doc.ID = id
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Close closes the database.
func (s *CatalogStore) Close() error {
	return s.db.Close()
}

// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yiakwy/edx-platform/internal/domain/model"
	"github.com/yiakwy/edx-platform/internal/infrastructure/mock"
)

func newTestStore(t *testing.T) *CatalogStore {
	t.Helper()
	store, err := NewCatalogStore(context.Background(), filepath.Join(t.TempDir(), "db", "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestCatalogStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	docs := mock.SampleCourses()
	require.NoError(t, store.UpsertCourses(ctx, docs))

	listed, err := store.ListCourses(ctx)
	require.NoError(t, err)
	require.Len(t, listed, len(docs))

	byID := make(map[string]model.CourseDocument, len(listed))
	for _, doc := range listed {
		byID[doc.ID] = doc
	}
	for _, want := range docs {
		if diff := cmp.Diff(want, byID[want.ID]); diff != "" {
			t.Errorf("course %s mismatch (-want +got):\n%s", want.ID, diff)
		}
	}

	// ordered by id
	assert.Equal(t, "HarvardX/CS50x/2014_T1", listed[0].ID)
	assert.Equal(t, "edX/Staff101/Internal", listed[len(listed)-1].ID)
}

func TestCatalogStoreUpsertReplaces(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := mock.SampleCourses()[0]
	require.NoError(t, store.UpsertCourses(ctx, []model.CourseDocument{doc}))

	doc.Content.DisplayName = "Renamed"
	doc.Public = false
	doc.AccessCheckObject = "course:" + doc.ID
	doc.AccessCheckRelation = "viewer"
	require.NoError(t, store.UpsertCourses(ctx, []model.CourseDocument{doc}))

	listed, err := store.ListCourses(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Renamed", listed[0].DisplayName())
	assert.False(t, listed[0].Public)
	assert.Equal(t, "viewer", listed[0].AccessCheckRelation)
}

func TestCatalogStoreRejectsMissingID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	valid := mock.SampleCourses()[0]
	err := store.UpsertCourses(ctx, []model.CourseDocument{valid, {}})
	assert.Error(t, err)

	// the batch is rolled back as a whole
	listed, err := store.ListCourses(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestCatalogStoreEmpty(t *testing.T) {
	store := newTestStore(t)
	listed, err := store.ListCourses(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, listed)
}

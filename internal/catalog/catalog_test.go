package catalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/datacat/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "state", "catalog.db"))
	require.NoError(t, err, "Open should create parent directories")
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndList(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	entry := Entry{
		ID:             "run1",
		Variant:        models.VariantRawMeasurement,
		OutputPath:     "/out/run1.json",
		RunID:          "run-a",
		GenerationDate: "20240101 12:30:00",
		WrittenAt:      time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Record(ctx, entry))

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "run1", entries[0].ID)
	assert.Equal(t, models.VariantRawMeasurement, entries[0].Variant)
	assert.Equal(t, "/out/run1.json", entries[0].OutputPath)
	assert.Equal(t, "20240101 12:30:00", entries[0].GenerationDate)
}

func TestRecordUpserts(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := Entry{ID: "run1", Variant: models.VariantRawMeasurement, OutputPath: "/out/run1.json", RunID: "run-a", WrittenAt: time.Now().UTC()}
	require.NoError(t, store.Record(ctx, first))

	second := first
	second.RunID = "run-b"
	require.NoError(t, store.Record(ctx, second))

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1, "re-recording the same descriptor must not duplicate rows")
	assert.Equal(t, "run-b", entries[0].RunID)
}

func TestListOrderNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	older := Entry{ID: "a", Variant: models.VariantDualStream, OutputPath: "/out/a.json", RunID: "r", WrittenAt: time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)}
	newer := Entry{ID: "b", Variant: models.VariantDualStream, OutputPath: "/out/b.json", RunID: "r", WrittenAt: time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, store.Record(ctx, older))
	require.NoError(t, store.Record(ctx, newer))

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "b", entries[0].ID)
}

func TestListEmpty(t *testing.T) {
	store := openTestStore(t)

	entries, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

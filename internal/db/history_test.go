package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesavant42/salesview/internal/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := New(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestExportHistory(t *testing.T) {
	d := openTestDB(t)
	base := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)

	require.NoError(t, d.RecordExport(models.ExportRecord{
		ID: "a", Filename: "visible_data.csv", Format: "csv", RowCount: 3, Query: "platform=Web", CreatedAt: base,
	}))
	require.NoError(t, d.RecordExport(models.ExportRecord{
		ID: "b", Filename: "visible_data.xlsx", Format: "xlsx", RowCount: 1, CreatedAt: base.Add(time.Minute),
	}))

	all, err := d.ListExports(0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "b", all[0].ID, "newest first")
	assert.Equal(t, "a", all[1].ID)
	assert.Equal(t, "platform=Web", all[1].Query)
	assert.Equal(t, 3, all[1].RowCount)
	assert.True(t, base.Equal(all[1].CreatedAt))

	one, err := d.ListExports(1)
	require.NoError(t, err)
	assert.Len(t, one, 1)
}

func TestImportHistory(t *testing.T) {
	d := openTestDB(t)

	id1, err := d.RecordImport(models.ImportRecord{Files: "amazon.csv", Succeeded: true, Message: models.ImportSucceededMessage})
	require.NoError(t, err)
	id2, err := d.RecordImport(models.ImportRecord{Files: "bad.csv", Message: "Platform column not found in bad.csv"})
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	got, err := d.ListImports(10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "bad.csv", got[0].Files)
	assert.False(t, got[0].Succeeded)
	assert.True(t, got[1].Succeeded)
	assert.False(t, got[1].CreatedAt.IsZero())
}

func TestNewReopensExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	d, err := New(path)
	require.NoError(t, err)
	require.NoError(t, d.RecordExport(models.ExportRecord{ID: "x", Filename: "visible_data.csv", Format: "csv", RowCount: 1}))
	require.NoError(t, d.Close())

	d, err = New(path)
	require.NoError(t, err)
	defer d.Close()

	got, err := d.ListExports(0)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

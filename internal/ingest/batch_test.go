// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/academic-metrics/internal/diag"
	"github.com/pdiddy/academic-metrics/pkg/types"
)

const recordArrayJSON = `[
  {
    "id": "10.1145/1111111.2222222",
    "title": "First",
    "citations": 5,
    "authors": [{"name": "John Smith", "department": "Computer Science"}],
    "categories": [["Physical Sciences", "Computer Science"]]
  },
  {
    "id": "10.1145/3333333.4444444",
    "title": "Second",
    "citations": 2,
    "authors": [{"name": "Alice Wong"}],
    "categories": [["Physical Sciences", "Mathematics"]]
  }
]`

const singleRecordJSON = `{
  "id": "doi:10.1038/s41586-020-2649-2",
  "title": "Third",
  "citations": 0,
  "authors": [{"name": "Jane Doe"}],
  "categories": [["Social Sciences"]]
}`

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDirReadsArraysAndSingleObjects(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, "batch.json", recordArrayJSON)
	writeInput(t, dir, "single.json", singleRecordJSON)
	writeInput(t, dir, "notes.txt", "not a record")

	warnings := diag.NewCollector()
	records, summary, err := LoadDir(dir, warnings)
	require.NoError(t, err)

	assert.Len(t, records, 3)
	assert.Equal(t, 3, summary.Loaded)
	assert.Zero(t, summary.FilesFailed)
	assert.Zero(t, warnings.Len())
}

func TestLoadDirContinuesPastBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, "good.json", singleRecordJSON)
	writeInput(t, dir, "broken.json", "{ not json")

	warnings := diag.NewCollector()
	records, summary, err := LoadDir(dir, warnings)
	require.NoError(t, err)

	assert.Len(t, records, 1)
	assert.Equal(t, 1, summary.FilesFailed)
	assert.Equal(t, 1, warnings.Count(diag.KindFileLoad))
}

func TestLoadDirMissingDirectoryIsAnError(t *testing.T) {
	_, _, err := LoadDir(filepath.Join(t.TempDir(), "absent"), diag.NewCollector())
	assert.Error(t, err)
}

func TestNormalizeIDs(t *testing.T) {
	records := []types.ClassifiedRecord{
		{ID: "DOI:10.1145/1111111.2222222"},
		{ID: "arXiv:2301.07041"},
		{ID: "internal-id-9000"},
		{ID: ""},
	}
	NormalizeIDs(records)

	assert.Equal(t, "10.1145/1111111.2222222", records[0].ID)
	assert.Equal(t, "2301.07041", records[1].ID)
	assert.Equal(t, "internal-id-9000", records[2].ID)
	assert.Empty(t, records[3].ID, "missing identifiers stay missing for the malformed check")
}

func TestFilterKnownDropsStoredRecords(t *testing.T) {
	records := []types.ClassifiedRecord{
		{ID: "a1"}, {ID: "a2"}, {ID: "a3"},
	}
	known := types.NewStringSet("a2")

	var summary LoadSummary
	kept := FilterKnown(records, known, &summary)

	require.Len(t, kept, 2)
	assert.Equal(t, "a1", kept[0].ID)
	assert.Equal(t, "a3", kept[1].ID)
	assert.Equal(t, 1, summary.FilteredKnown)
}

func TestFilterKnownEmptySetIsPassthrough(t *testing.T) {
	records := []types.ClassifiedRecord{{ID: "a1"}}
	var summary LoadSummary
	kept := FilterKnown(records, types.NewStringSet(), &summary)
	assert.Len(t, kept, 1)
	assert.Zero(t, summary.FilteredKnown)
}

func TestSplitWritesOneFilePerRecord(t *testing.T) {
	dir := t.TempDir()
	src := writeInput(t, dir, "crossref-2024.json", recordArrayJSON)
	outDir := filepath.Join(dir, "split")

	n, err := Split(src, outDir)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	first, err := LoadFile(filepath.Join(outDir, "crossref-2024-0001.json"))
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "10.1145/1111111.2222222", first[0].ID)
	assert.Equal(t, "First", first[0].Title)

	second, err := LoadFile(filepath.Join(outDir, "crossref-2024-0002.json"))
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "Second", second[0].Title)
}

func TestSplitRejectsEmptyInput(t *testing.T) {
	dir := t.TempDir()
	src := writeInput(t, dir, "empty.json", "[]")

	_, err := Split(src, filepath.Join(dir, "split"))
	assert.Error(t, err)
}

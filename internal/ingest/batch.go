// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest loads classified publication record batches from JSON
// files, normalizes their identifiers, and pre-filters records already
// known to the document store. See docs/ARCHITECTURE § Ingest.
package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/academic-metrics/internal/diag"
	"github.com/pdiddy/academic-metrics/pkg/types"
)

// LoadSummary holds counts from one batch load.
type LoadSummary struct {
	// Loaded is the number of records read from input files.
	Loaded int

	// FilesFailed is the number of input files skipped as unreadable or
	// unparseable.
	FilesFailed int

	// FilteredKnown is the number of records dropped because their
	// identifier was already in the store.
	FilteredKnown int
}

// LoadDir reads every .json file in dir. A file may hold either a single
// record object or an array of records. File-level failures are warnings,
// not aborts: the rest of the batch still loads.
func LoadDir(dir string, warnings *diag.Collector) ([]types.ClassifiedRecord, LoadSummary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, LoadSummary{}, fmt.Errorf("reading input directory %s: %w", dir, err)
	}

	var records []types.ClassifiedRecord
	var summary LoadSummary
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		batch, err := LoadFile(path)
		if err != nil {
			warnings.Add(diag.KindFileLoad, path, "%v", err)
			summary.FilesFailed++
			continue
		}
		records = append(records, batch...)
	}
	summary.Loaded = len(records)
	return records, summary, nil
}

// LoadFile reads one JSON file containing a record array or a single
// record object.
func LoadFile(path string) ([]types.ClassifiedRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	trimmed := strings.TrimLeftFunc(string(data), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if strings.HasPrefix(trimmed, "[") {
		var records []types.ClassifiedRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return records, nil
	}

	var rec types.ClassifiedRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return []types.ClassifiedRecord{rec}, nil
}

// NormalizeIDs rewrites each record's identifier to its normalized form
// (lowercased DOI, bare arXiv ID). Unrecognized identifier formats pass
// through unchanged; the aggregation core treats only a missing
// identifier as malformed.
func NormalizeIDs(records []types.ClassifiedRecord) {
	for i := range records {
		if records[i].ID == "" {
			continue
		}
		_, normalized := Classify(records[i].ID)
		records[i].ID = normalized
	}
}

// FilterKnown drops records whose identifier is already present in known,
// so previously stored articles never reach the aggregation core. The
// core's own per-category duplicate guard remains as a second layer.
func FilterKnown(records []types.ClassifiedRecord, known types.StringSet, summary *LoadSummary) []types.ClassifiedRecord {
	if len(known) == 0 {
		return records
	}
	kept := records[:0]
	for _, rec := range records {
		if known.Has(rec.ID) {
			summary.FilteredKnown++
			continue
		}
		kept = append(kept, rec)
	}
	return kept
}

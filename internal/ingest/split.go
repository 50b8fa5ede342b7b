// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Split reads a combined JSON array file and writes one file per record
// into outDir, named <stem>-0001.json onward. Returns the number of files
// written. Existing files with the same names are overwritten.
func Split(path, outDir string) (int, error) {
	records, err := LoadFile(path)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, fmt.Errorf("%s contains no records to split", path)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, fmt.Errorf("creating split directory %s: %w", outDir, err)
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for i, rec := range records {
		data, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return i, fmt.Errorf("marshaling record %d: %w", i+1, err)
		}
		name := fmt.Sprintf("%s-%04d.json", stem, i+1)
		if err := os.WriteFile(filepath.Join(outDir, name), data, 0o644); err != nil {
			return i, fmt.Errorf("writing %s: %w", name, err)
		}
	}
	return len(records), nil
}

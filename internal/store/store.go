// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists finished aggregates in a SQLite document store
// and supplies the set of already-known article identifiers used to
// pre-filter incoming batches. See docs/ARCHITECTURE § Document Store.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/academic-metrics/pkg/types"
)

const dbFile = "metrics.db"

// Store manages the aggregate document database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the SQLite database at DataDir/metrics.db,
// creating the schema if it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	path := filepath.Join(cfg.DataDir, dbFile)
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS articles (
			id TEXT PRIMARY KEY,
			title TEXT,
			doc TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			key TEXT PRIMARY KEY,
			doc TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS faculty (
			name TEXT PRIMARY KEY,
			doc TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// KnownIDs returns every stored article identifier. The ingest layer uses
// this set to drop records already processed in a previous run.
func (s *Store) KnownIDs(ctx context.Context) (types.StringSet, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM articles`)
	if err != nil {
		return nil, fmt.Errorf("querying known identifiers: %w", err)
	}
	defer rows.Close()

	known := types.NewStringSet()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning identifier: %w", err)
		}
		known.Add(id)
	}
	return known, rows.Err()
}

// SaveSummary holds counts from one aggregate write.
type SaveSummary struct {
	Articles   int
	Categories int
	Faculty    int
}

// SaveAggregates upserts category, article, and global faculty documents
// in a single transaction. Documents are stored as JSON keyed by category
// path, article identifier, and canonical faculty name respectively.
func (s *Store) SaveAggregates(
	ctx context.Context,
	categories map[string]*types.CategoryInfo,
	articles map[string]map[string]*types.ArticleDetail,
	faculty map[string]*types.GlobalFacultyStats,
) (SaveSummary, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SaveSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var summary SaveSummary

	for key, info := range categories {
		if err := upsert(tx, `INSERT OR REPLACE INTO categories (key, doc) VALUES (?, ?)`, info, key); err != nil {
			return summary, fmt.Errorf("saving category %q: %w", key, err)
		}
		summary.Categories++
	}

	seen := types.NewStringSet()
	for _, perCategory := range articles {
		for id, detail := range perCategory {
			if seen.Has(id) {
				continue
			}
			seen.Add(id)
			doc, err := json.Marshal(detail)
			if err != nil {
				return summary, fmt.Errorf("marshaling article %q: %w", id, err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT OR REPLACE INTO articles (id, title, doc) VALUES (?, ?, ?)`,
				id, detail.Title, string(doc)); err != nil {
				return summary, fmt.Errorf("saving article %q: %w", id, err)
			}
			summary.Articles++
		}
	}

	for name, stats := range faculty {
		if err := upsert(tx, `INSERT OR REPLACE INTO faculty (name, doc) VALUES (?, ?)`, stats, name); err != nil {
			return summary, fmt.Errorf("saving faculty %q: %w", name, err)
		}
		summary.Faculty++
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing aggregates: %w", err)
	}
	return summary, nil
}

func upsert(tx *sql.Tx, query string, doc any, key string) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling document: %w", err)
	}
	_, err = tx.Exec(query, key, string(data))
	return err
}

// Counts returns the number of stored articles, categories, and faculty.
func (s *Store) Counts(ctx context.Context) (articles, categories, faculty int, err error) {
	for _, q := range []struct {
		table string
		dest  *int
	}{
		{"articles", &articles},
		{"categories", &categories},
		{"faculty", &faculty},
	} {
		if err = s.db.QueryRowContext(ctx, `SELECT count(*) FROM `+q.table).Scan(q.dest); err != nil {
			return 0, 0, 0, fmt.Errorf("counting %s: %w", q.table, err)
		}
	}
	return articles, categories, faculty, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export serializes finished aggregates into the five output
// datasets consumed by the site: category data, per-category faculty
// stats, article stats, the title-keyed article citation map, and global
// faculty stats. See docs/ARCHITECTURE § Export.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/academic-metrics/pkg/types"
)

// Output file names.
const (
	CategoryFile      = "processed_category_data"
	FacultyFile       = "processed_faculty_stats_data"
	ArticleFile       = "processed_article_stats_data"
	ArticleObjectFile = "processed_article_stats_obj_data"
	GlobalFacultyFile = "processed_global_faculty_stats_data"
)

// Aggregates bundles the finished maps exposed by the aggregation core.
type Aggregates struct {
	Categories    map[string]*types.CategoryInfo
	FacultyStats  map[string]map[string]*types.FacultyStats
	Articles      map[string]map[string]*types.ArticleDetail
	ArticleObject *types.ArticleStatsObject
	GlobalFaculty map[string]*types.GlobalFacultyStats
}

// CategoryEntry is the cleaned per-category output shape: derived counts
// and citation totals only, with the backing sets and raw citation list
// left out.
type CategoryEntry struct {
	URL             string  `json:"url" yaml:"url"`
	CategoryName    string  `json:"category_name" yaml:"category_name"`
	FacultyCount    int     `json:"faculty_count" yaml:"faculty_count"`
	DepartmentCount int     `json:"department_count" yaml:"department_count"`
	ArticleCount    int     `json:"article_count" yaml:"article_count"`
	CitationCount   int     `json:"citation_count" yaml:"citation_count"`
	CitationAverage float64 `json:"citation_average" yaml:"citation_average"`
}

// FacultyEntry is one flattened per-category faculty stats row.
type FacultyEntry struct {
	Name           string   `json:"name" yaml:"name"`
	Category       string   `json:"category" yaml:"category"`
	ArticleCount   int      `json:"article_count" yaml:"article_count"`
	TotalCitations int      `json:"total_citations" yaml:"total_citations"`
	Articles       []string `json:"articles" yaml:"articles"`
}

// GlobalFacultyEntry is one cross-category faculty stats row.
type GlobalFacultyEntry struct {
	Name           string   `json:"name" yaml:"name"`
	ArticleCount   int      `json:"article_count" yaml:"article_count"`
	TotalCitations int      `json:"total_citations" yaml:"total_citations"`
	Articles       []string `json:"articles" yaml:"articles"`
	Categories     []string `json:"categories" yaml:"categories"`
	Departments    []string `json:"departments" yaml:"departments"`
}

// Writer serializes aggregates per the output configuration.
type Writer struct {
	cfg types.OutputConfig
}

// NewWriter returns a Writer for cfg. Format defaults to json.
func NewWriter(cfg types.OutputConfig) *Writer {
	if cfg.Format == "" {
		cfg.Format = "json"
	}
	return &Writer{cfg: cfg}
}

// WriteAll writes the five output datasets and returns the written paths.
func (w *Writer) WriteAll(agg Aggregates) ([]string, error) {
	if err := os.MkdirAll(w.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	datasets := []struct {
		name  string
		build func() any
	}{
		{CategoryFile, func() any { return CategoryEntries(agg.Categories) }},
		{FacultyFile, func() any { return FacultyEntries(agg.FacultyStats) }},
		{ArticleFile, func() any { return ArticleEntries(agg.Articles) }},
		{ArticleObjectFile, func() any { return ArticleCitationEntries(agg.ArticleObject) }},
		{GlobalFacultyFile, func() any { return GlobalFacultyEntries(agg.GlobalFaculty) }},
	}

	paths := make([]string, 0, len(datasets))
	for _, ds := range datasets {
		path, err := w.write(ds.name, ds.build())
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (w *Writer) write(name string, entries any) (string, error) {
	switch w.cfg.Format {
	case "json":
		path := filepath.Join(w.cfg.OutputDir, name+".json")
		return path, w.writeJSON(path, entries)
	case "yaml":
		path := filepath.Join(w.cfg.OutputDir, name+".yaml")
		data, err := yaml.Marshal(entries)
		if err != nil {
			return path, fmt.Errorf("marshaling YAML: %w", err)
		}
		return path, os.WriteFile(path, data, 0o644)
	default:
		return "", fmt.Errorf("unsupported format %q: use json or yaml", w.cfg.Format)
	}
}

// writeJSON writes entries as an indented JSON array. In extend mode the
// new entries are appended to the existing file's array.
func (w *Writer) writeJSON(path string, entries any) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}

	var merged []json.RawMessage
	if w.cfg.Extend {
		if existing, err := os.ReadFile(path); err == nil {
			if err := json.Unmarshal(existing, &merged); err != nil {
				return fmt.Errorf("parsing existing %s for extend: %w", path, err)
			}
		}
	}

	var fresh []json.RawMessage
	if err := json.Unmarshal(data, &fresh); err != nil {
		return fmt.Errorf("re-reading marshaled entries: %w", err)
	}
	merged = append(merged, fresh...)

	out, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling output: %w", err)
	}
	return os.WriteFile(path, out, 0o644)
}

// CategoryEntries builds cleaned category rows in key order, assigning
// URL slugs as a side effect.
func CategoryEntries(categories map[string]*types.CategoryInfo) []CategoryEntry {
	entries := make([]CategoryEntry, 0, len(categories))
	for _, key := range sortedKeys(categories) {
		info := categories[key]
		info.URL = Slug(info.Name)
		entries = append(entries, CategoryEntry{
			URL:             info.URL,
			CategoryName:    info.Name,
			FacultyCount:    info.FacultyCount,
			DepartmentCount: info.DepartmentCount,
			ArticleCount:    info.ArticleCount,
			CitationCount:   info.CitationTotal(),
			CitationAverage: info.CitationAverage(),
		})
	}
	return entries
}

// FacultyEntries flattens per-category faculty stats into one row per
// (category, canonical name) pair.
func FacultyEntries(stats map[string]map[string]*types.FacultyStats) []FacultyEntry {
	var entries []FacultyEntry
	for _, key := range sortedKeys(stats) {
		perCategory := stats[key]
		for _, name := range sortedKeys(perCategory) {
			fs := perCategory[name]
			entries = append(entries, FacultyEntry{
				Name:           fs.Name,
				Category:       fs.Category,
				ArticleCount:   fs.ArticleCount,
				TotalCitations: fs.TotalCitations,
				Articles:       fs.Files.Sorted(),
			})
		}
	}
	return entries
}

// ArticleEntries flattens per-category article details.
func ArticleEntries(articles map[string]map[string]*types.ArticleDetail) []types.ArticleDetail {
	var entries []types.ArticleDetail
	for _, key := range sortedKeys(articles) {
		perCategory := articles[key]
		for _, id := range sortedKeys(perCategory) {
			entries = append(entries, *perCategory[id])
		}
	}
	return entries
}

// ArticleCitationEntries flattens the title-keyed citation map, assigning
// each entry a deterministic URL identifier derived from its title.
func ArticleCitationEntries(obj *types.ArticleStatsObject) []types.ArticleCitationEntry {
	if obj == nil {
		return nil
	}
	titles := sortedKeys(obj.CitationMap)
	entries := make([]types.ArticleCitationEntry, 0, len(titles))
	for _, title := range titles {
		entry := *obj.CitationMap[title]
		entry.URL = ArticleURL(title)
		entries = append(entries, entry)
	}
	return entries
}

// GlobalFacultyEntries builds cross-category faculty rows.
func GlobalFacultyEntries(faculty map[string]*types.GlobalFacultyStats) []GlobalFacultyEntry {
	entries := make([]GlobalFacultyEntry, 0, len(faculty))
	for _, name := range sortedKeys(faculty) {
		gf := faculty[name]
		entries = append(entries, GlobalFacultyEntry{
			Name:           gf.Name,
			ArticleCount:   gf.ArticleCount,
			TotalCitations: gf.TotalCitations,
			Articles:       gf.Files.Sorted(),
			Categories:     gf.Categories.Sorted(),
			Departments:    gf.Departments.Sorted(),
		})
	}
	return entries
}

var slugPattern = regexp.MustCompile(`[^A-Za-z0-9-]+`)
var hyphenRuns = regexp.MustCompile(`-+`)

// Slug converts a category name to a URL-safe slug: disallowed characters
// become hyphens, runs collapse, and leading/trailing hyphens are trimmed.
func Slug(name string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	slug = hyphenRuns.ReplaceAllString(slug, "-")
	for len(slug) > 0 && slug[0] == '-' {
		slug = slug[1:]
	}
	for len(slug) > 0 && slug[len(slug)-1] == '-' {
		slug = slug[:len(slug)-1]
	}
	return slug
}

// ArticleURL returns a stable identifier for an article title: a v5
// (SHA1, URL-namespace) UUID, identical across runs for the same title.
func ArticleURL(title string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(title)).String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

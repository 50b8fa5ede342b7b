// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdiddy/academic-metrics/pkg/types"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Computer Science", "computer-science"},
		{"Physical Sciences > Computer Science", "physical-sciences-computer-science"},
		{"Economics & Finance (Applied)", "economics-finance-applied"},
		{"---Already--Hyphenated---", "already-hyphenated"},
		{"Électronique", "lectronique"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestArticleURLIsDeterministic(t *testing.T) {
	a := ArticleURL("A Study of Things")
	b := ArticleURL("A Study of Things")
	c := ArticleURL("A Study of Other Things")

	if a != b {
		t.Errorf("same title produced different URLs: %q vs %q", a, b)
	}
	if a == c {
		t.Errorf("different titles produced the same URL: %q", a)
	}
	if len(a) != 36 {
		t.Errorf("URL %q is not a UUID string", a)
	}
}

func testAggregates(t *testing.T) Aggregates {
	t.Helper()

	info, err := types.NewCategoryInfo("Physical Sciences > Computer Science")
	if err != nil {
		t.Fatal(err)
	}
	info.ArticleCount = 2
	info.Citations = []int{5, 3}
	info.FacultyCount = 1
	info.DepartmentCount = 1
	info.Files.Add("a1")
	info.Files.Add("a2")
	info.Faculty.Add("John Smith")

	fs, err := types.NewFacultyStats("John Smith", info.Name)
	if err != nil {
		t.Fatal(err)
	}
	fs.ArticleCount = 2
	fs.TotalCitations = 8
	fs.Files.Add("a1")
	fs.Files.Add("a2")

	detail, err := types.NewArticleDetail(types.ClassifiedRecord{
		ID: "a1", Title: "First", Citations: 5,
		Authors: []types.RecordAuthor{{Name: "John Smith"}},
	}, info.Name)
	if err != nil {
		t.Fatal(err)
	}

	obj := types.NewArticleStatsObject()
	obj.CitationMap["First"] = &types.ArticleCitationEntry{Title: "First", ID: "a1", Citations: 5}

	global, err := types.NewGlobalFacultyStats("John Smith")
	if err != nil {
		t.Fatal(err)
	}
	global.ArticleCount = 2
	global.TotalCitations = 8
	global.Categories.Add(info.Name)

	return Aggregates{
		Categories:    map[string]*types.CategoryInfo{info.Name: info},
		FacultyStats:  map[string]map[string]*types.FacultyStats{info.Name: {"John Smith": fs}},
		Articles:      map[string]map[string]*types.ArticleDetail{info.Name: {"a1": detail}},
		ArticleObject: obj,
		GlobalFaculty: map[string]*types.GlobalFacultyStats{"John Smith": global},
	}
}

func TestWriteAllProducesFiveDatasets(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(types.OutputConfig{OutputDir: dir})

	paths, err := w.WriteAll(testAggregates(t))
	if err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	if len(paths) != 5 {
		t.Fatalf("paths = %d, want 5", len(paths))
	}
	for _, name := range []string{
		CategoryFile, FacultyFile, ArticleFile, ArticleObjectFile, GlobalFacultyFile,
	} {
		if _, err := os.Stat(filepath.Join(dir, name+".json")); err != nil {
			t.Errorf("missing output %s.json: %v", name, err)
		}
	}
}

func TestCategoryEntriesAreCleaned(t *testing.T) {
	agg := testAggregates(t)
	entries := CategoryEntries(agg.Categories)
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}

	e := entries[0]
	if e.URL != "physical-sciences-computer-science" {
		t.Errorf("url = %q", e.URL)
	}
	if e.CitationCount != 8 {
		t.Errorf("citation_count = %d, want 8", e.CitationCount)
	}
	if e.CitationAverage != 4 {
		t.Errorf("citation_average = %v, want 4", e.CitationAverage)
	}

	// The cleaned row must not carry the backing sets.
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	var asMap map[string]any
	if err := json.Unmarshal(data, &asMap); err != nil {
		t.Fatal(err)
	}
	for _, forbidden := range []string{"files", "faculty", "titles", "citations"} {
		if _, ok := asMap[forbidden]; ok {
			t.Errorf("cleaned entry still carries %q", forbidden)
		}
	}

	// Slug assignment is a side effect on the aggregate itself.
	info := agg.Categories["Physical Sciences > Computer Science"]
	if info.URL != e.URL {
		t.Errorf("aggregate URL = %q, want slug assigned", info.URL)
	}
}

func TestArticleCitationEntriesAssignURLs(t *testing.T) {
	agg := testAggregates(t)
	entries := ArticleCitationEntries(agg.ArticleObject)
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].URL != ArticleURL("First") {
		t.Errorf("url = %q, want title-derived UUID", entries[0].URL)
	}
}

func TestWriteJSONExtendAppendsToExistingFile(t *testing.T) {
	dir := t.TempDir()

	first := NewWriter(types.OutputConfig{OutputDir: dir})
	if _, err := first.WriteAll(testAggregates(t)); err != nil {
		t.Fatalf("first WriteAll: %v", err)
	}

	second := NewWriter(types.OutputConfig{OutputDir: dir, Extend: true})
	if _, err := second.WriteAll(testAggregates(t)); err != nil {
		t.Fatalf("extend WriteAll: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, CategoryFile+".json"))
	if err != nil {
		t.Fatal(err)
	}
	var rows []CategoryEntry
	if err := json.Unmarshal(data, &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Errorf("rows = %d, want the original plus the extension", len(rows))
	}
}

func TestWriteAllYAMLFormat(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(types.OutputConfig{OutputDir: dir, Format: "yaml"})

	paths, err := w.WriteAll(testAggregates(t))
	if err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	for _, path := range paths {
		if filepath.Ext(path) != ".yaml" {
			t.Errorf("path %q, want .yaml extension", path)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing output %s: %v", path, err)
		}
	}
}

func TestWriterRejectsUnknownFormat(t *testing.T) {
	w := NewWriter(types.OutputConfig{OutputDir: t.TempDir(), Format: "xml"})
	if _, err := w.WriteAll(testAggregates(t)); err == nil {
		t.Error("WriteAll with unknown format = nil, want error")
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestStringSetJSONRoundTrip(t *testing.T) {
	s := NewStringSet("b", "a", "c")

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `["a","b","c"]` {
		t.Errorf("marshal = %s, want sorted array", data)
	}

	var back StringSet
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back.Sorted(), s.Sorted()) {
		t.Errorf("round trip = %v, want %v", back.Sorted(), s.Sorted())
	}
}

func TestStringSetCloneIsIndependent(t *testing.T) {
	s := NewStringSet("a")
	c := s.Clone()
	c.Add("b")

	if s.Has("b") {
		t.Error("mutation of the clone reached the original")
	}
}

func TestCategoryPathKeyAndLeaf(t *testing.T) {
	p := CategoryPath{"Physical Sciences", "Computer Science"}
	if p.Key() != "Physical Sciences > Computer Science" {
		t.Errorf("Key() = %q", p.Key())
	}
	if p.Leaf() != "Computer Science" {
		t.Errorf("Leaf() = %q", p.Leaf())
	}
	if (CategoryPath{}).Leaf() != "" {
		t.Error("empty path Leaf() should be empty")
	}
}

func TestCategoryPathValid(t *testing.T) {
	tests := []struct {
		path CategoryPath
		want bool
	}{
		{CategoryPath{"Physical Sciences"}, true},
		{CategoryPath{"Physical Sciences", "Computer Science"}, true},
		{CategoryPath{}, false},
		{nil, false},
		{CategoryPath{"Physical Sciences", ""}, false},
		{CategoryPath{"  "}, false},
	}
	for _, tt := range tests {
		if got := tt.path.Valid(); got != tt.want {
			t.Errorf("Valid(%v) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestBuildersRequireNames(t *testing.T) {
	if _, err := NewCategoryInfo(""); err == nil {
		t.Error("NewCategoryInfo(\"\") = nil error")
	}
	if _, err := NewFacultyStats("", "CS"); err == nil {
		t.Error("NewFacultyStats without name = nil error")
	}
	if _, err := NewFacultyStats("John Smith", ""); err == nil {
		t.Error("NewFacultyStats without category = nil error")
	}
	if _, err := NewGlobalFacultyStats(""); err == nil {
		t.Error("NewGlobalFacultyStats(\"\") = nil error")
	}
	if _, err := NewArticleDetail(ClassifiedRecord{}, "CS"); err == nil {
		t.Error("NewArticleDetail without identifier = nil error")
	}
}

func TestCategoryInfoCitationMath(t *testing.T) {
	info, err := NewCategoryInfo("CS")
	if err != nil {
		t.Fatal(err)
	}
	if info.CitationAverage() != 0 {
		t.Errorf("empty average = %v, want 0", info.CitationAverage())
	}

	info.Citations = []int{5, 3, 1}
	if info.CitationTotal() != 9 {
		t.Errorf("total = %d, want 9", info.CitationTotal())
	}
	if info.CitationAverage() != 3 {
		t.Errorf("average = %v, want 3", info.CitationAverage())
	}
}

func TestFacultyStatsMergeSelfIsNoOp(t *testing.T) {
	fs, err := NewFacultyStats("John Smith", "CS")
	if err != nil {
		t.Fatal(err)
	}
	fs.ArticleCount = 2
	fs.TotalCitations = 8
	fs.Files.Add("a1")

	fs.Merge(fs)

	if fs.ArticleCount != 2 || fs.TotalCitations != 8 {
		t.Errorf("self-merge changed counts: %+v", fs)
	}
}

func TestResolverConfigDefaults(t *testing.T) {
	cfg := ResolverConfig{}.Defaults()
	if cfg.AcceptScore != 0.90 || cfg.ReviewScore != 0.75 {
		t.Errorf("defaults = %+v", cfg)
	}

	custom := ResolverConfig{AcceptScore: 0.95, ReviewScore: 0.80}.Defaults()
	if custom.AcceptScore != 0.95 || custom.ReviewScore != 0.80 {
		t.Errorf("explicit thresholds overridden: %+v", custom)
	}
}

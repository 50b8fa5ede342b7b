// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"reflect"
	"testing"

	"github.com/pdiddy/academic-metrics/internal/diag"
	"github.com/pdiddy/academic-metrics/pkg/types"
)

// fixedResolution builds a Resolution from an explicit variant→canonical map.
func fixedResolution(mapping map[string]string) Resolution {
	res := Resolution{
		canonical:  mapping,
		variations: make(map[string]types.NameVariation),
	}
	groups := make(map[string]types.StringSet)
	for variant, canonical := range mapping {
		if groups[canonical] == nil {
			groups[canonical] = types.NewStringSet(canonical)
		}
		groups[canonical].Add(variant)
	}
	for canonical, variants := range groups {
		if len(variants) > 1 {
			res.variations[canonical] = types.NameVariation{
				CanonicalName: canonical,
				Variations:    variants,
				Basis:         "test",
			}
		}
	}
	return res
}

func buildAggregates(t *testing.T, records []types.ClassifiedRecord) *Processor {
	t.Helper()
	p := NewProcessor(diag.NewCollector(), nil)
	summary := p.Process(records)
	if summary.Malformed != 0 {
		t.Fatalf("fixture records malformed: %+v", summary)
	}
	return p
}

func TestRefinerMergesVariantsAndConservesTotals(t *testing.T) {
	p := buildAggregates(t, []types.ClassifiedRecord{
		record("a1", "T1", 5, []string{"CS"}, author("J. Smith", "Computer Science")),
		record("a2", "T2", 3, []string{"CS"}, author("John Smith", "Computer Science")),
	})
	res := fixedResolution(map[string]string{
		"J. Smith":   "John Smith",
		"John Smith": "John Smith",
	})

	stats := p.FacultyStats()
	preCitations := stats["CS"]["J. Smith"].TotalCitations + stats["CS"]["John Smith"].TotalCitations
	preFiles := types.NewStringSet()
	preFiles.Union(stats["CS"]["J. Smith"].Files)
	preFiles.Union(stats["CS"]["John Smith"].Files)

	Refiner{}.Apply(res, p.CategoryData(), stats, p.GlobalFacultyStats())

	if _, ok := stats["CS"]["J. Smith"]; ok {
		t.Errorf("variant key survived the merge")
	}
	merged := stats["CS"]["John Smith"]
	if merged == nil {
		t.Fatal("canonical entry missing after merge")
	}
	if merged.ArticleCount != 2 {
		t.Errorf("article_count = %d, want 2", merged.ArticleCount)
	}
	if merged.TotalCitations != preCitations {
		t.Errorf("citations = %d, want conserved total %d", merged.TotalCitations, preCitations)
	}
	if !reflect.DeepEqual(merged.Files.Sorted(), preFiles.Sorted()) {
		t.Errorf("files = %v, want union %v", merged.Files.Sorted(), preFiles.Sorted())
	}
}

func TestRefinerRenamesInPlaceWhenCanonicalAbsent(t *testing.T) {
	p := buildAggregates(t, []types.ClassifiedRecord{
		record("a1", "T1", 5, []string{"CS"}, author("J. Smith", "")),
	})
	res := fixedResolution(map[string]string{"J. Smith": "John Smith"})

	Refiner{}.Apply(res, p.CategoryData(), p.FacultyStats(), p.GlobalFacultyStats())

	entry := p.FacultyStats()["CS"]["John Smith"]
	if entry == nil {
		t.Fatal("renamed entry missing")
	}
	if entry.Name != "John Smith" {
		t.Errorf("entry name = %q, want canonical", entry.Name)
	}
	if entry.ArticleCount != 1 || entry.TotalCitations != 5 {
		t.Errorf("rename altered counts: %+v", entry)
	}
}

func TestRefinerRewritesCategoryFacultySets(t *testing.T) {
	p := buildAggregates(t, []types.ClassifiedRecord{
		record("a1", "T1", 5, []string{"CS"}, author("J. Smith", "")),
		record("a2", "T2", 3, []string{"CS"}, author("John Smith", "")),
	})
	res := fixedResolution(map[string]string{
		"J. Smith":   "John Smith",
		"John Smith": "John Smith",
	})

	Refiner{}.Apply(res, p.CategoryData(), p.FacultyStats(), p.GlobalFacultyStats())

	faculty := p.CategoryData()["CS"].Faculty
	if len(faculty) != 1 || !faculty.Has("John Smith") {
		t.Errorf("faculty set = %v, want only the canonical name", faculty.Sorted())
	}
}

func TestRefinerMergesGlobalAcrossCategories(t *testing.T) {
	p := buildAggregates(t, []types.ClassifiedRecord{
		record("a1", "T1", 5, []string{"CS"}, author("J. Smith", "Computer Science")),
		record("a2", "T2", 3, []string{"Math"}, author("John Smith", "Mathematics")),
	})
	res := fixedResolution(map[string]string{
		"J. Smith":   "John Smith",
		"John Smith": "John Smith",
	})

	Refiner{}.Apply(res, p.CategoryData(), p.FacultyStats(), p.GlobalFacultyStats())

	global := p.GlobalFacultyStats()
	if _, ok := global["J. Smith"]; ok {
		t.Errorf("variant key survived the global merge")
	}
	merged := global["John Smith"]
	if merged == nil {
		t.Fatal("canonical global entry missing")
	}
	if merged.ArticleCount != 2 || merged.TotalCitations != 8 {
		t.Errorf("global merged = %+v, want 2 articles / 8 citations", merged)
	}
	if len(merged.Categories) != 2 {
		t.Errorf("global categories = %v, want union across categories", merged.Categories.Sorted())
	}
	if len(merged.Departments) != 2 {
		t.Errorf("global departments = %v, want union", merged.Departments.Sorted())
	}
}

func TestRefinerIsIdempotent(t *testing.T) {
	p := buildAggregates(t, []types.ClassifiedRecord{
		record("a1", "T1", 5, []string{"CS"}, author("J. Smith", "")),
		record("a2", "T2", 3, []string{"CS"}, author("John Smith", "")),
	})
	res := fixedResolution(map[string]string{
		"J. Smith":   "John Smith",
		"John Smith": "John Smith",
	})

	r := Refiner{}
	r.Apply(res, p.CategoryData(), p.FacultyStats(), p.GlobalFacultyStats())

	snapshot := *p.FacultyStats()["CS"]["John Smith"]
	globalSnapshot := *p.GlobalFacultyStats()["John Smith"]

	r.Apply(res, p.CategoryData(), p.FacultyStats(), p.GlobalFacultyStats())

	after := p.FacultyStats()["CS"]["John Smith"]
	if after.ArticleCount != snapshot.ArticleCount || after.TotalCitations != snapshot.TotalCitations {
		t.Errorf("second apply changed faculty stats: %+v vs %+v", after, snapshot)
	}
	globalAfter := p.GlobalFacultyStats()["John Smith"]
	if globalAfter.ArticleCount != globalSnapshot.ArticleCount ||
		globalAfter.TotalCitations != globalSnapshot.TotalCitations {
		t.Errorf("second apply changed global stats: %+v vs %+v", globalAfter, globalSnapshot)
	}
	if len(p.CategoryData()["CS"].Faculty) != 1 {
		t.Errorf("second apply changed the faculty set")
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// FacultyStats accumulates one faculty member's statistics within a single
// category. Entries are created on first sighting of a (category, name)
// pair and later merged, never replaced, when name resolution collapses
// two spellings into one identity.
type FacultyStats struct {
	// Name is the faculty display name. After refinement this is always
	// a canonical name.
	Name string `json:"name" yaml:"name"`

	// Category is the owning category path key.
	Category string `json:"category" yaml:"category"`

	// ArticleCount is the number of contributions in this category.
	ArticleCount int `json:"article_count" yaml:"article_count"`

	// TotalCitations sums citation counts over the contributions.
	TotalCitations int `json:"total_citations" yaml:"total_citations"`

	// Files is the set of contributing article identifiers.
	Files StringSet `json:"files" yaml:"files"`
}

// NewFacultyStats builds a FacultyStats entry. Name and category are required.
func NewFacultyStats(name, category string) (*FacultyStats, error) {
	if name == "" {
		return nil, fmt.Errorf("faculty name is required")
	}
	if category == "" {
		return nil, fmt.Errorf("category is required")
	}
	return &FacultyStats{
		Name:     name,
		Category: category,
		Files:    NewStringSet(),
	}, nil
}

// Merge folds other into f: counts sum, article-identifier sets union.
// Merging an entry into itself is a no-op.
func (f *FacultyStats) Merge(other *FacultyStats) {
	if f == other {
		return
	}
	f.ArticleCount += other.ArticleCount
	f.TotalCitations += other.TotalCitations
	f.Files.Union(other.Files)
}

// GlobalFacultyStats accumulates one faculty member's statistics across
// all categories.
type GlobalFacultyStats struct {
	Name           string `json:"name" yaml:"name"`
	ArticleCount   int    `json:"article_count" yaml:"article_count"`
	TotalCitations int    `json:"total_citations" yaml:"total_citations"`

	// Files is the set of contributing article identifiers across
	// every category.
	Files StringSet `json:"files" yaml:"files"`

	// Categories is the set of category path keys the member appears in.
	Categories StringSet `json:"categories" yaml:"categories"`

	// Departments is the set of department affiliations observed.
	Departments StringSet `json:"departments" yaml:"departments"`
}

// NewGlobalFacultyStats builds a GlobalFacultyStats entry.
func NewGlobalFacultyStats(name string) (*GlobalFacultyStats, error) {
	if name == "" {
		return nil, fmt.Errorf("faculty name is required")
	}
	return &GlobalFacultyStats{
		Name:        name,
		Files:       NewStringSet(),
		Categories:  NewStringSet(),
		Departments: NewStringSet(),
	}, nil
}

// Merge folds other into g: counts sum, all sets union.
func (g *GlobalFacultyStats) Merge(other *GlobalFacultyStats) {
	if g == other {
		return
	}
	g.ArticleCount += other.ArticleCount
	g.TotalCitations += other.TotalCitations
	g.Files.Union(other.Files)
	g.Categories.Union(other.Categories)
	g.Departments.Union(other.Departments)
}

// NameVariation records one resolved identity: the canonical spelling, the
// variant spellings that collapsed into it, and the decision basis that
// produced the grouping. Immutable after resolution.
type NameVariation struct {
	// CanonicalName is the representative spelling for the identity.
	CanonicalName string `json:"canonical_name" yaml:"canonical_name"`

	// Variations is the set of spellings judged to denote this person,
	// including the canonical spelling itself.
	Variations StringSet `json:"variations" yaml:"variations"`

	// Basis names the matching rule(s) or similarity score(s) behind
	// the grouping, for manual review.
	Basis string `json:"basis" yaml:"basis"`
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// CategoryInfo accumulates the statistics for one distinct category path.
// FacultyCount and DepartmentCount are derived fields: they must only ever
// be recomputed from the cardinality of Faculty and Departments, never
// assigned directly by aggregation or merge code.
type CategoryInfo struct {
	// Name is the category path key (labels joined by CategoryPathSeparator).
	Name string `json:"category_name" yaml:"category_name"`

	// URL is the URL-safe slug derived from Name at export time.
	URL string `json:"url" yaml:"url"`

	// ArticleCount is the number of distinct articles contributing to
	// this category.
	ArticleCount int `json:"article_count" yaml:"article_count"`

	// Citations holds one citation count per contributing article, in
	// processing order. Sums and averages derive from it.
	Citations []int `json:"citations" yaml:"citations"`

	// Files is the set of contributing article identifiers. It doubles
	// as the duplicate guard: a record already present here contributes
	// nothing further to this category.
	Files StringSet `json:"files" yaml:"files"`

	// Faculty is the set of distinct faculty display names observed.
	Faculty StringSet `json:"faculty" yaml:"faculty"`

	// Departments is the set of distinct department names observed.
	Departments StringSet `json:"departments" yaml:"departments"`

	// Titles is the set of contributing article titles.
	Titles StringSet `json:"titles" yaml:"titles"`

	// FacultyCount is |Faculty| as of the last tracker recompute.
	FacultyCount int `json:"faculty_count" yaml:"faculty_count"`

	// DepartmentCount is |Departments| as of the last tracker recompute.
	DepartmentCount int `json:"department_count" yaml:"department_count"`
}

// NewCategoryInfo builds a CategoryInfo with initialized sets. The name is
// required; aggregates are never constructed field-by-field after the fact.
func NewCategoryInfo(name string) (*CategoryInfo, error) {
	if name == "" {
		return nil, fmt.Errorf("category name is required")
	}
	return &CategoryInfo{
		Name:        name,
		Files:       NewStringSet(),
		Faculty:     NewStringSet(),
		Departments: NewStringSet(),
		Titles:      NewStringSet(),
	}, nil
}

// CitationTotal returns the sum of per-article citation counts.
func (c *CategoryInfo) CitationTotal() int {
	total := 0
	for _, n := range c.Citations {
		total += n
	}
	return total
}

// CitationAverage returns the mean citation count per contributing
// article, or 0 when the category has no articles.
func (c *CategoryInfo) CitationAverage() float64 {
	if len(c.Citations) == 0 {
		return 0
	}
	return float64(c.CitationTotal()) / float64(len(c.Citations))
}

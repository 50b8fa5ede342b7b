// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model for the academic-metrics
// pipeline: classified input records, category and faculty aggregates,
// and per-stage configuration.
package types

import "strings"

// CategoryPathSeparator joins taxonomy labels into a category key.
const CategoryPathSeparator = " > "

// CategoryPath is an ordered sequence of taxonomy labels from root to leaf.
type CategoryPath []string

// Key returns the canonical string form of the path, used as the map key
// for all per-category aggregates.
func (p CategoryPath) Key() string {
	return strings.Join(p, CategoryPathSeparator)
}

// Leaf returns the most specific label, or "" for an empty path.
func (p CategoryPath) Leaf() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Valid reports whether the path is non-empty and contains no blank labels.
func (p CategoryPath) Valid() bool {
	if len(p) == 0 {
		return false
	}
	for _, label := range p {
		if strings.TrimSpace(label) == "" {
			return false
		}
	}
	return true
}

// RecordAuthor is one author entry on a classified record. Department is
// the author's affiliation as supplied by the acquisition layer; it may
// be empty.
type RecordAuthor struct {
	Name       string `json:"name" yaml:"name"`
	Department string `json:"department,omitempty" yaml:"department,omitempty"`
}

// ClassifiedRecord is one publication as delivered by the classification
// layer: identifier and metadata plus the taxonomy categories already
// assigned to it. The aggregation core consumes these; it never builds them.
type ClassifiedRecord struct {
	// ID is the bibliographic identifier (typically a DOI), unique per record.
	ID string `json:"id" yaml:"id"`

	// Title is the publication title.
	Title string `json:"title" yaml:"title"`

	// Citations is the citation count at classification time. Never negative.
	Citations int `json:"citations" yaml:"citations"`

	// Authors lists the record's authors in publication order.
	Authors []RecordAuthor `json:"authors" yaml:"authors"`

	// Categories lists the taxonomy paths assigned by the classifier.
	Categories []CategoryPath `json:"categories" yaml:"categories"`

	// Year is the publication year.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`
}

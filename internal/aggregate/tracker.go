// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"errors"
	"fmt"

	"github.com/pdiddy/academic-metrics/pkg/types"
)

// ErrInvariant marks a derived count that disagrees with its backing set.
// This is a programming-error class: it indicates a bug in merge logic,
// not malformed input, and aborts the run.
var ErrInvariant = errors.New("derived count invariant violated")

// Tracker keeps each category's derived faculty and department counts
// equal to the cardinality of the underlying sets. Counts are only ever
// recomputed here, never incremented inside the fold, so a later merge
// that shrinks a set cannot leave a stale count behind.
type Tracker struct {
	categoryData map[string]*types.CategoryInfo
	facultyStats map[string]map[string]*types.FacultyStats
}

// NewTracker returns a Tracker over the processor's maps.
func NewTracker(categoryData map[string]*types.CategoryInfo, facultyStats map[string]map[string]*types.FacultyStats) *Tracker {
	return &Tracker{categoryData: categoryData, facultyStats: facultyStats}
}

// UpdateFacultyCount recomputes every category's faculty count from its
// faculty set.
func (t *Tracker) UpdateFacultyCount() {
	for _, info := range t.categoryData {
		info.FacultyCount = len(info.Faculty)
	}
}

// UpdateDepartmentCount recomputes every category's department count from
// its department set.
func (t *Tracker) UpdateDepartmentCount() {
	for _, info := range t.categoryData {
		info.DepartmentCount = len(info.Departments)
	}
}

// Verify cross-checks every derived count against its backing set and
// every faculty-stats key against its category's faculty set. Any
// mismatch is fatal to the run.
func (t *Tracker) Verify() error {
	for _, key := range sortedKeys(t.categoryData) {
		info := t.categoryData[key]
		if info.FacultyCount != len(info.Faculty) {
			return fmt.Errorf("%w: category %q faculty_count=%d but |faculty|=%d",
				ErrInvariant, key, info.FacultyCount, len(info.Faculty))
		}
		if info.DepartmentCount != len(info.Departments) {
			return fmt.Errorf("%w: category %q department_count=%d but |departments|=%d",
				ErrInvariant, key, info.DepartmentCount, len(info.Departments))
		}
		if info.ArticleCount != len(info.Files) {
			return fmt.Errorf("%w: category %q article_count=%d but |files|=%d",
				ErrInvariant, key, info.ArticleCount, len(info.Files))
		}
		for name := range t.facultyStats[key] {
			if !info.Faculty.Has(name) {
				return fmt.Errorf("%w: category %q has stats for %q absent from its faculty set",
					ErrInvariant, key, name)
			}
		}
	}
	return nil
}

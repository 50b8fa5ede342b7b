// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import "github.com/pdiddy/academic-metrics/pkg/types"

// Refiner applies a Resolution back onto already-built aggregates,
// collapsing all variant entries into one entry per real person. It must
// run with exclusive write access: a reader mid-merge would observe a
// variant key already deleted with its target not yet merged. Applying
// the same Resolution twice is a no-op.
type Refiner struct{}

// Apply merges variant faculty entries into their canonical entries for
// every category, rewrites category faculty sets to canonical names, and
// performs the same merge on the global faculty statistics.
func (Refiner) Apply(
	res Resolution,
	categoryData map[string]*types.CategoryInfo,
	facultyStats map[string]map[string]*types.FacultyStats,
	globalFaculty map[string]*types.GlobalFacultyStats,
) {
	for _, key := range sortedKeys(categoryData) {
		refineCategory(res, categoryData[key], facultyStats[key])
	}
	refineGlobal(res, globalFaculty)
}

func refineCategory(res Resolution, info *types.CategoryInfo, stats map[string]*types.FacultyStats) {
	for _, name := range sortedKeys(stats) {
		canonical := res.CanonicalFor(name)
		if canonical == name {
			continue
		}
		entry := stats[name]
		if target, ok := stats[canonical]; ok {
			target.Merge(entry)
		} else {
			// No canonical entry in this category yet: rename in place.
			entry.Name = canonical
			stats[canonical] = entry
		}
		delete(stats, name)
	}

	// Rebuild the faculty set over canonical names so the next count
	// recompute reflects distinct people, not distinct spellings.
	refined := types.NewStringSet()
	for name := range info.Faculty {
		refined.Add(res.CanonicalFor(name))
	}
	info.Faculty = refined
}

// refineGlobal merges variants across the whole run, independent of the
// per-category merges: the union here spans categories as well as
// spellings.
func refineGlobal(res Resolution, globalFaculty map[string]*types.GlobalFacultyStats) {
	for _, name := range sortedKeys(globalFaculty) {
		canonical := res.CanonicalFor(name)
		if canonical == name {
			continue
		}
		entry := globalFaculty[name]
		if target, ok := globalFaculty[canonical]; ok {
			target.Merge(entry)
		} else {
			entry.Name = canonical
			globalFaculty[canonical] = entry
		}
		delete(globalFaculty, name)
	}
}

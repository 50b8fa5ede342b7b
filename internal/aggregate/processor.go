// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate folds classified publication records into per-category
// and global statistics, resolves near-duplicate faculty names into
// canonical identities, and refines the aggregates once identities are
// known. See docs/ARCHITECTURE § Aggregation Core.
package aggregate

import (
	"sort"

	"github.com/pdiddy/academic-metrics/internal/diag"
	"github.com/pdiddy/academic-metrics/internal/taxonomy"
	"github.com/pdiddy/academic-metrics/pkg/types"
)

// BatchSummary holds counts from one aggregation pass.
type BatchSummary struct {
	// Processed is the number of records folded into the aggregates.
	Processed int

	// Malformed is the number of records excluded for missing a
	// required field.
	Malformed int

	// Duplicates is the number of per-category contributions skipped
	// because the article identifier was already present.
	Duplicates int
}

// Total returns the number of records seen.
func (s BatchSummary) Total() int {
	return s.Processed + s.Malformed
}

// Processor folds ClassifiedRecords into category_data, per-category
// faculty stats, global faculty stats, and article stats. It exclusively
// owns these maps during the fold phase; the refiner later mutates them
// in place under a single-writer assumption.
type Processor struct {
	warnings *diag.Collector
	tax      *taxonomy.Taxonomy

	categoryData  map[string]*types.CategoryInfo
	facultyStats  map[string]map[string]*types.FacultyStats
	globalFaculty map[string]*types.GlobalFacultyStats
	articleStats  map[string]map[string]*types.ArticleDetail
	articleObject *types.ArticleStatsObject

	// vocabulary is every distinct faculty display name observed across
	// all categories. It is the resolver's input.
	vocabulary types.StringSet
}

// NewProcessor returns a Processor reporting diagnostics to warnings.
// tax may be nil, in which case category paths are not vocabulary-checked.
func NewProcessor(warnings *diag.Collector, tax *taxonomy.Taxonomy) *Processor {
	return &Processor{
		warnings:      warnings,
		tax:           tax,
		categoryData:  make(map[string]*types.CategoryInfo),
		facultyStats:  make(map[string]map[string]*types.FacultyStats),
		globalFaculty: make(map[string]*types.GlobalFacultyStats),
		articleStats:  make(map[string]map[string]*types.ArticleDetail),
		articleObject: types.NewArticleStatsObject(),
		vocabulary:    types.NewStringSet(),
	}
}

// Process folds each record into the aggregates, exactly once per record.
// Malformed records are reported and skipped; the batch never aborts on a
// single bad record.
func (p *Processor) Process(records []types.ClassifiedRecord) BatchSummary {
	var summary BatchSummary
	for _, rec := range records {
		if reason := validateRecord(rec); reason != "" {
			p.warnings.Add(diag.KindMalformedRecord, rec.ID, "%s", reason)
			summary.Malformed++
			continue
		}
		summary.Duplicates += p.processRecord(rec)
		summary.Processed++
	}
	return summary
}

// validateRecord returns a reason string for exclusion, or "" if the
// record is well-formed.
func validateRecord(rec types.ClassifiedRecord) string {
	switch {
	case rec.ID == "":
		return "record has no identifier"
	case len(rec.Categories) == 0:
		return "record has no category tags"
	case len(rec.Authors) == 0:
		return "record has no authors"
	case rec.Citations < 0:
		return "record has a negative citation count"
	}
	return ""
}

// processRecord applies one record to every tagged category. Returns the
// number of per-category contributions skipped by the duplicate guard.
func (p *Processor) processRecord(rec types.ClassifiedRecord) int {
	skipped := 0
	for _, path := range rec.Categories {
		if !path.Valid() {
			p.warnings.Add(diag.KindMalformedRecord, rec.ID,
				"category path %q contains empty labels", path.Key())
			continue
		}
		if p.tax != nil && !p.tax.Contains(path) {
			p.warnings.Add(diag.KindUnknownCategory, rec.ID,
				"category %q is not in the taxonomy", path.Key())
		}

		key := path.Key()
		info := p.categoryInfo(key)

		// Duplicate guard: a record already counted in this category
		// contributes nothing further to it, so reprocessing a batch
		// (e.g. after a retry) cannot double count.
		if info.Files.Has(rec.ID) {
			skipped++
			continue
		}

		info.ArticleCount++
		info.Citations = append(info.Citations, rec.Citations)
		info.Files.Add(rec.ID)
		if rec.Title != "" {
			info.Titles.Add(rec.Title)
		}

		for _, author := range rec.Authors {
			info.Faculty.Add(author.Name)
			if author.Department != "" {
				info.Departments.Add(author.Department)
			}
			p.vocabulary.Add(author.Name)
			p.addFacultyContribution(key, author, rec)
		}

		p.addArticleDetail(key, rec)
	}

	if entry, ok := p.articleObject.CitationMap[rec.Title]; !ok && rec.Title != "" {
		p.articleObject.CitationMap[rec.Title] = &types.ArticleCitationEntry{
			Title:     rec.Title,
			ID:        rec.ID,
			Citations: rec.Citations,
		}
	} else if ok && entry.ID != rec.ID {
		// Distinct identifier under the same title; keep the first entry.
		p.warnings.Add(diag.KindMalformedRecord, rec.ID,
			"title %q already recorded under identifier %s", rec.Title, entry.ID)
	}

	return skipped
}

func (p *Processor) categoryInfo(key string) *types.CategoryInfo {
	if info, ok := p.categoryData[key]; ok {
		return info
	}
	info, err := types.NewCategoryInfo(key)
	if err != nil {
		// key is a validated path join, never empty.
		panic(err)
	}
	p.categoryData[key] = info
	return info
}

func (p *Processor) addFacultyContribution(key string, author types.RecordAuthor, rec types.ClassifiedRecord) {
	perCategory, ok := p.facultyStats[key]
	if !ok {
		perCategory = make(map[string]*types.FacultyStats)
		p.facultyStats[key] = perCategory
	}

	entry, ok := perCategory[author.Name]
	if !ok {
		var err error
		entry, err = types.NewFacultyStats(author.Name, key)
		if err != nil {
			panic(err)
		}
		perCategory[author.Name] = entry
	}
	entry.ArticleCount++
	entry.TotalCitations += rec.Citations
	entry.Files.Add(rec.ID)

	global, ok := p.globalFaculty[author.Name]
	if !ok {
		var err error
		global, err = types.NewGlobalFacultyStats(author.Name)
		if err != nil {
			panic(err)
		}
		p.globalFaculty[author.Name] = global
	}
	// Global counts are per article, not per (article, category): only
	// the first category sighting of an identifier increments them.
	if !global.Files.Has(rec.ID) {
		global.ArticleCount++
		global.TotalCitations += rec.Citations
		global.Files.Add(rec.ID)
	}
	global.Categories.Add(key)
	if author.Department != "" {
		global.Departments.Add(author.Department)
	}
}

func (p *Processor) addArticleDetail(key string, rec types.ClassifiedRecord) {
	perCategory, ok := p.articleStats[key]
	if !ok {
		perCategory = make(map[string]*types.ArticleDetail)
		p.articleStats[key] = perCategory
	}
	detail, err := types.NewArticleDetail(rec, key)
	if err != nil {
		panic(err)
	}
	perCategory[rec.ID] = detail
}

// CategoryData returns the per-category aggregates keyed by category path.
func (p *Processor) CategoryData() map[string]*types.CategoryInfo {
	return p.categoryData
}

// FacultyStats returns per-category faculty statistics keyed by category
// path, then faculty display name.
func (p *Processor) FacultyStats() map[string]map[string]*types.FacultyStats {
	return p.facultyStats
}

// GlobalFacultyStats returns cross-category faculty statistics keyed by
// faculty display name.
func (p *Processor) GlobalFacultyStats() map[string]*types.GlobalFacultyStats {
	return p.globalFaculty
}

// ArticleStats returns per-category article details keyed by category
// path, then article identifier.
func (p *Processor) ArticleStats() map[string]map[string]*types.ArticleDetail {
	return p.articleStats
}

// ArticleStatsObject returns the run-wide title-keyed citation map.
func (p *Processor) ArticleStatsObject() *types.ArticleStatsObject {
	return p.articleObject
}

// Vocabulary returns the distinct faculty display names observed, sorted.
func (p *Processor) Vocabulary() []string {
	return p.vocabulary.Sorted()
}

// sortedKeys returns m's keys in lexicographic order. Merge and recompute
// passes iterate in this order so runs are deterministic.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

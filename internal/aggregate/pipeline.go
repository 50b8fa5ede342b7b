// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"errors"
	"fmt"

	"github.com/pdiddy/academic-metrics/internal/diag"
	"github.com/pdiddy/academic-metrics/internal/taxonomy"
	"github.com/pdiddy/academic-metrics/pkg/types"
)

// ErrPhase marks a pipeline operation invoked out of order.
var ErrPhase = errors.New("pipeline phase violation")

// Phase is the pipeline's processing state. The fold-then-refine shape is
// an explicit state machine so refinement cannot run before the raw pass
// has seen the whole batch.
type Phase int

const (
	// PhaseInit precedes any processing.
	PhaseInit Phase = iota

	// PhaseRaw means the batch has been folded and raw-spelling counts
	// computed, but identities are unresolved.
	PhaseRaw

	// PhaseRefined means name resolution and refinement have completed;
	// aggregates are final.
	PhaseRefined
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseRaw:
		return "raw"
	case PhaseRefined:
		return "refined"
	default:
		return "unknown"
	}
}

// Pipeline sequences the aggregation core: fold, raw recompute, name
// resolution, refinement, final recompute, invariant verification. It is
// a single-run object; construct a new one per batch.
type Pipeline struct {
	processor *Processor
	resolver  *Resolver
	tracker   *Tracker
	refiner   Refiner
	warnings  *diag.Collector

	phase      Phase
	resolution Resolution
}

// NewPipeline builds a pipeline with the given resolver policy. tax may
// be nil to skip vocabulary checks.
func NewPipeline(cfg types.ResolverConfig, tax *taxonomy.Taxonomy) *Pipeline {
	warnings := diag.NewCollector()
	processor := NewProcessor(warnings, tax)
	return &Pipeline{
		processor: processor,
		resolver:  NewResolver(cfg, warnings),
		tracker:   NewTracker(processor.CategoryData(), processor.FacultyStats()),
		warnings:  warnings,
	}
}

// Run executes the full sequence over one batch and returns the fold
// summary. Malformed records are diagnostics, not errors; the only error
// class surfacing here is an invariant violation, which aborts the run.
func (p *Pipeline) Run(records []types.ClassifiedRecord) (BatchSummary, error) {
	summary, err := p.ProcessRaw(records)
	if err != nil {
		return summary, err
	}
	if err := p.Refine(); err != nil {
		return summary, err
	}
	return summary, nil
}

// ProcessRaw folds the batch and computes raw-spelling counts. It may be
// called exactly once, before Refine.
func (p *Pipeline) ProcessRaw(records []types.ClassifiedRecord) (BatchSummary, error) {
	if p.phase != PhaseInit {
		return BatchSummary{}, fmt.Errorf("%w: raw pass already ran (phase %s)", ErrPhase, p.phase)
	}
	summary := p.processor.Process(records)

	// Counts over raw spellings; recomputed again after refinement.
	p.tracker.UpdateFacultyCount()
	p.tracker.UpdateDepartmentCount()

	p.phase = PhaseRaw
	return summary, nil
}

// Refine resolves name identities over the observed vocabulary, merges
// variant statistics, and recomputes final counts. Requires ProcessRaw to
// have completed: duplicate names cannot be resolved until the whole
// batch has been seen.
func (p *Pipeline) Refine() error {
	switch p.phase {
	case PhaseInit:
		return fmt.Errorf("%w: refinement requested before the raw pass completed", ErrPhase)
	case PhaseRefined:
		return fmt.Errorf("%w: refinement already ran", ErrPhase)
	}

	p.resolution = p.resolver.Resolve(p.processor.Vocabulary())
	p.refiner.Apply(p.resolution,
		p.processor.CategoryData(),
		p.processor.FacultyStats(),
		p.processor.GlobalFacultyStats())

	// Final counts: distinct people, not distinct spellings.
	p.tracker.UpdateFacultyCount()
	p.tracker.UpdateDepartmentCount()
	if err := p.tracker.Verify(); err != nil {
		return err
	}

	p.phase = PhaseRefined
	return nil
}

// Phase returns the pipeline's current state.
func (p *Pipeline) Phase() Phase {
	return p.phase
}

// Resolution returns the identity mapping built during refinement.
func (p *Pipeline) Resolution() Resolution {
	return p.resolution
}

// Warnings returns the run's diagnostic collector.
func (p *Pipeline) Warnings() *diag.Collector {
	return p.warnings
}

// CategoryData exposes per-category aggregates for serialization.
func (p *Pipeline) CategoryData() map[string]*types.CategoryInfo {
	return p.processor.CategoryData()
}

// FacultyStats exposes per-category faculty statistics for serialization.
func (p *Pipeline) FacultyStats() map[string]map[string]*types.FacultyStats {
	return p.processor.FacultyStats()
}

// GlobalFacultyStats exposes cross-category faculty statistics.
func (p *Pipeline) GlobalFacultyStats() map[string]*types.GlobalFacultyStats {
	return p.processor.GlobalFacultyStats()
}

// ArticleStats exposes per-category article details.
func (p *Pipeline) ArticleStats() map[string]map[string]*types.ArticleDetail {
	return p.processor.ArticleStats()
}

// ArticleStatsObject exposes the title-keyed citation map.
func (p *Pipeline) ArticleStatsObject() *types.ArticleStatsObject {
	return p.processor.ArticleStatsObject()
}

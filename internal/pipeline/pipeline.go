// Package pipeline sequences the clustering stages: feature building, grid
// search, labeling and content filtering. Every stage receives immutable
// upstream output and produces a new artifact; nothing is mutated in place.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pbaille/wordtier/internal/config"
	"github.com/pbaille/wordtier/internal/domain"
	"github.com/pbaille/wordtier/internal/features"
	"github.com/pbaille/wordtier/internal/frequency"
	"github.com/pbaille/wordtier/internal/gridsearch"
	"github.com/pbaille/wordtier/internal/labeling"
	"github.com/pbaille/wordtier/internal/wordfilter"
)

// Result is everything a successful run produces.
type Result struct {
	Labeled  []domain.LabeledWord
	Removals []domain.Removal
	Summary  domain.Summary
}

// Pipeline wires the core to its collaborators.
type Pipeline struct {
	cfg    config.Config
	lookup frequency.Lookup
	filter *wordfilter.Filter
}

// New builds a pipeline from a validated config and its collaborators.
func New(cfg config.Config, lookup frequency.Lookup, filter *wordfilter.Filter) *Pipeline {
	return &Pipeline{cfg: cfg, lookup: lookup, filter: filter}
}

// Run clusters a cleaned word batch into difficulty tiers. It fails without
// partial output when the features are invalid or no acceptable clustering
// exists; both invalidate every downstream artifact.
func (p *Pipeline) Run(ctx context.Context, records []domain.WordRecord) (*Result, error) {
	annotated := frequency.Annotate(p.lookup, records)
	slog.Info("annotated word batch", "words", len(annotated))

	matrix, err := features.Build(annotated, features.Options{
		Epsilon:         p.cfg.Epsilon,
		FallbackLogFreq: p.cfg.FallbackLogFreq,
	})
	if err != nil {
		return nil, fmt.Errorf("feature builder: %w", err)
	}

	trial, err := gridsearch.Search(ctx, matrix, gridsearch.Options{
		GridMin:       p.cfg.Grid.Min,
		GridStep:      p.cfg.Grid.Step,
		GridSteps:     p.cfg.Grid.Steps(),
		MinSilhouette: p.cfg.MinSilhouette,
		Clusters:      p.cfg.Clusters,
		Seed:          p.cfg.Seed,
		Workers:       p.cfg.Workers,
	})
	if err != nil {
		return nil, fmt.Errorf("grid search: %w", err)
	}

	ranks, err := labeling.RankClusters(matrix.FrequencyLog, trial.Assignment, p.cfg.Clusters)
	if err != nil {
		return nil, fmt.Errorf("cluster labeler: %w", err)
	}
	labeled, err := labeling.Apply(annotated, trial.Assignment, ranks)
	if err != nil {
		return nil, fmt.Errorf("cluster labeler: %w", err)
	}

	kept, removals := p.filter.Apply(labeled)
	slog.Info("content filter applied", "kept", len(kept), "removed", len(removals))

	counts := make(map[domain.Rank]int, p.cfg.Clusters)
	for _, lw := range kept {
		counts[lw.Rank]++
	}

	return &Result{
		Labeled:  kept,
		Removals: removals,
		Summary: domain.Summary{
			NumClusters: p.cfg.Clusters,
			RankCounts:  counts,
			Weights:     trial.Weights,
			Silhouette:  trial.Silhouette,
			TotalWords:  len(kept),
			Removed:     len(removals),
		},
	}, nil
}

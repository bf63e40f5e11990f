// Package gridsearch finds the weight triple whose clustering of the
// feature matrix separates best. It is structured as generate -> filter ->
// map -> reduce: candidate triples are enumerated over the discrete grid,
// non-dominant triples are rejected before any work is spent on them,
// surviving trials run independently on a worker pool, and the reduction
// applies a total order so the winner does not depend on evaluation order.
package gridsearch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"github.com/pbaille/wordtier/internal/cluster"
	"github.com/pbaille/wordtier/internal/domain"
	"github.com/pbaille/wordtier/internal/features"
)

// ErrNoAcceptableClustering indicates no dominant weight triple produced a
// silhouette score above the acceptance threshold. The caller must surface
// this: substituting a default clustering would label difficulty with no
// statistical backing.
var ErrNoAcceptableClustering = errors.New("gridsearch: no weight combination produced an acceptable clustering")

// Options configures a search. All values come from the pipeline config;
// GridSteps is the axis length the config derives from its grid bounds.
type Options struct {
	GridMin   float64
	GridStep  float64
	GridSteps int

	// MinSilhouette is the acceptance threshold: a trial survives only if
	// its score is strictly greater.
	MinSilhouette float64

	Clusters int
	Seed     int64

	// Workers bounds parallel trial evaluation; 0 means GOMAXPROCS.
	Workers int
}

// Search runs the grid search over the feature matrix and returns the best
// accepted trial.
func Search(ctx context.Context, m *features.Matrix, opts Options) (domain.TrialResult, error) {
	candidates := enumerate(opts)
	slog.Info("grid search starting",
		"candidates", len(candidates),
		"clusters", opts.Clusters,
		"threshold", opts.MinSilhouette)

	accepted, err := evaluate(ctx, m, candidates, opts)
	if err != nil {
		return domain.TrialResult{}, err
	}
	if len(accepted) == 0 {
		return domain.TrialResult{}, ErrNoAcceptableClustering
	}

	best := reduce(accepted)
	slog.Info("grid search selected weights",
		"submission", best.Weights.Submission,
		"frequency", best.Weights.Frequency,
		"spelling", best.Weights.Spelling,
		"silhouette", best.Silhouette,
		"accepted_trials", len(accepted))
	return best, nil
}

// enumerate generates every dominant triple on the grid. Axis values are
// derived from integer step indices so repeated runs enumerate bitwise
// identical floats.
func enumerate(opts Options) []domain.WeightTriple {
	axis := make([]float64, opts.GridSteps)
	for i := range axis {
		axis[i] = opts.GridMin + float64(i)*opts.GridStep
	}

	var triples []domain.WeightTriple
	for _, sub := range axis {
		for _, freq := range axis {
			for _, spell := range axis {
				w := domain.WeightTriple{Submission: sub, Frequency: freq, Spelling: spell}
				if w.FrequencyDominates() {
					triples = append(triples, w)
				}
			}
		}
	}
	return triples
}

// evaluate runs one clustering trial per candidate across a fixed set of
// workers and returns the trials that beat the threshold, in no particular
// order. Worker w handles every workers-th candidate; the accepted slice is
// the only shared mutable state and is guarded by a mutex.
func evaluate(ctx context.Context, m *features.Matrix, candidates []domain.WeightTriple, opts Options) ([]domain.TrialResult, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(candidates) {
		workers = len(candidates)
	}

	var (
		mu       sync.Mutex
		accepted []domain.TrialResult
		firstErr error
		wg       sync.WaitGroup
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			for i := offset; i < len(candidates); i += workers {
				if ctx.Err() != nil {
					return
				}
				trial, err := runTrial(m, candidates[i], opts)

				mu.Lock()
				if err != nil {
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					return
				}
				if complete(trial.Assignment, opts.Clusters) && trial.Silhouette > opts.MinSilhouette {
					accepted = append(accepted, trial)
				}
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return accepted, nil
}

// runTrial clusters the weighted matrix for one triple. Each trial builds
// its own weighted matrix and rand source, so trials share nothing mutable.
func runTrial(m *features.Matrix, weights domain.WeightTriple, opts Options) (domain.TrialResult, error) {
	weighted := m.Weighted(weights)

	assignment, err := cluster.KMeans(weighted, opts.Clusters, opts.Seed)
	if err != nil {
		return domain.TrialResult{}, fmt.Errorf("trial %+v: %w", weights, err)
	}

	return domain.TrialResult{
		Weights:    weights,
		Assignment: assignment,
		Silhouette: cluster.Silhouette(weighted, assignment),
	}, nil
}

// complete reports whether every cluster has at least one member. K-means
// can leave a cluster empty when the data collapses to fewer distinct points
// than clusters, and such a partition can still score a perfect silhouette.
// It cannot fill every difficulty tier, so it never qualifies.
func complete(assignment []int, k int) bool {
	seen := make([]bool, k)
	filled := 0
	for _, c := range assignment {
		if !seen[c] {
			seen[c] = true
			filled++
		}
	}
	return filled == k
}

// reduce selects the winner under the total order: silhouette descending,
// then lexicographically smallest triple. Sorting the accepted set makes
// the choice independent of trial completion order.
func reduce(accepted []domain.TrialResult) domain.TrialResult {
	sort.Slice(accepted, func(i, j int) bool {
		if accepted[i].Silhouette != accepted[j].Silhouette {
			return accepted[i].Silhouette > accepted[j].Silhouette
		}
		return accepted[i].Weights.Less(accepted[j].Weights)
	})
	return accepted[0]
}

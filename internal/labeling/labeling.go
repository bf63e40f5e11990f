// Package labeling converts opaque k-means cluster ids into difficulty
// ranks. Cluster numbering carries no meaning of its own, so the mapping is
// computed fresh from each clustering result and never cached across runs.
package labeling

import (
	"errors"
	"fmt"
	"sort"

	"github.com/pbaille/wordtier/internal/domain"
)

// ErrAssignmentMismatch indicates the cluster assignment does not line up
// with the word batch it is supposed to label.
var ErrAssignmentMismatch = errors.New("labeling: assignment does not match word batch")

// ErrEmptyCluster indicates a cluster with no members. Ranking one would
// hand out a difficulty tier that no word carries.
var ErrEmptyCluster = errors.New("labeling: cluster has no members")

// RankClusters maps each raw cluster id to a difficulty rank by its mean
// log real-world frequency: common words are easy, so the highest-mean
// cluster becomes Easy and the lowest Hard. Equal means are broken by
// ascending cluster id, which makes the mapping total and reproducible.
func RankClusters(frequencyLog []float64, assignment []int, k int) (map[int]domain.Rank, error) {
	if len(frequencyLog) != len(assignment) {
		return nil, fmt.Errorf("%w: %d frequencies, %d assignments",
			ErrAssignmentMismatch, len(frequencyLog), len(assignment))
	}

	sums := make([]float64, k)
	counts := make([]int, k)
	for i, c := range assignment {
		if c < 0 || c >= k {
			return nil, fmt.Errorf("%w: cluster id %d out of range [0, %d)", ErrAssignmentMismatch, c, k)
		}
		sums[c] += frequencyLog[i]
		counts[c]++
	}

	type clusterMean struct {
		id   int
		mean float64
	}
	means := make([]clusterMean, k)
	for c := 0; c < k; c++ {
		if counts[c] == 0 {
			return nil, fmt.Errorf("%w: cluster %d", ErrEmptyCluster, c)
		}
		means[c] = clusterMean{id: c, mean: sums[c] / float64(counts[c])}
	}

	sort.Slice(means, func(i, j int) bool {
		if means[i].mean != means[j].mean {
			return means[i].mean > means[j].mean
		}
		return means[i].id < means[j].id
	})

	ranks := make(map[int]domain.Rank, k)
	for position, cm := range means {
		ranks[cm.id] = domain.Rank(position)
	}
	return ranks, nil
}

// Apply attaches rank and raw cluster id to each word, producing the
// labeled batch in input order. The input records are copied, not mutated.
func Apply(records []domain.WordRecord, assignment []int, ranks map[int]domain.Rank) ([]domain.LabeledWord, error) {
	if len(records) != len(assignment) {
		return nil, fmt.Errorf("%w: %d words, %d assignments",
			ErrAssignmentMismatch, len(records), len(assignment))
	}

	labeled := make([]domain.LabeledWord, len(records))
	for i, rec := range records {
		rank, ok := ranks[assignment[i]]
		if !ok {
			return nil, fmt.Errorf("%w: no rank for cluster %d", ErrAssignmentMismatch, assignment[i])
		}
		labeled[i] = domain.LabeledWord{
			WordRecord: rec,
			Cluster:    assignment[i],
			Rank:       rank,
		}
	}
	return labeled, nil
}

package labeling_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/wordtier/internal/domain"
	"github.com/pbaille/wordtier/internal/labeling"
)

// TestRankClusters_DescendingFrequency verifies the highest-mean cluster
// becomes Easy and the lowest Hard, regardless of raw cluster numbering.
func TestRankClusters_DescendingFrequency(t *testing.T) {
	// Cluster 2 has the highest mean log frequency, cluster 0 the lowest.
	frequencyLog := []float64{2, 2, 8, 8, 14, 14}
	assignment := []int{0, 0, 1, 1, 2, 2}

	ranks, err := labeling.RankClusters(frequencyLog, assignment, 3)
	require.NoError(t, err)

	assert.Equal(t, domain.Easy, ranks[2])
	assert.Equal(t, domain.Medium, ranks[1])
	assert.Equal(t, domain.Hard, ranks[0])
}

// TestRankClusters_TieBreakByClusterID verifies that equal means are broken
// by ascending raw cluster id.
func TestRankClusters_TieBreakByClusterID(t *testing.T) {
	frequencyLog := []float64{5, 5, 5, 5, 1, 1}
	assignment := []int{1, 1, 0, 0, 2, 2} // clusters 0 and 1 tie on mean 5

	ranks, err := labeling.RankClusters(frequencyLog, assignment, 3)
	require.NoError(t, err)

	assert.Equal(t, domain.Easy, ranks[0], "tied clusters rank by ascending id")
	assert.Equal(t, domain.Medium, ranks[1])
	assert.Equal(t, domain.Hard, ranks[2])
}

// TestRankClusters_ProducesAllRanks verifies a successful 3-way clustering
// always yields exactly the three distinct ranks.
func TestRankClusters_ProducesAllRanks(t *testing.T) {
	frequencyLog := []float64{13.8, 10.8, 1.6}
	assignment := []int{1, 2, 0}

	ranks, err := labeling.RankClusters(frequencyLog, assignment, 3)
	require.NoError(t, err)
	require.Len(t, ranks, 3)

	seen := make(map[domain.Rank]bool)
	for _, rank := range ranks {
		seen[rank] = true
	}
	assert.Equal(t, map[domain.Rank]bool{domain.Easy: true, domain.Medium: true, domain.Hard: true}, seen)
}

// TestRankClusters_RejectsMismatch verifies length and range validation.
func TestRankClusters_RejectsMismatch(t *testing.T) {
	_, err := labeling.RankClusters([]float64{1, 2}, []int{0}, 3)
	assert.ErrorIs(t, err, labeling.ErrAssignmentMismatch)

	_, err = labeling.RankClusters([]float64{1, 2}, []int{0, 5}, 3)
	assert.ErrorIs(t, err, labeling.ErrAssignmentMismatch)
}

// TestRankClusters_RejectsEmptyCluster verifies a partition that never uses
// one of its clusters is an error: ranking the empty cluster would create a
// tier no word carries and shift every other word's tier.
func TestRankClusters_RejectsEmptyCluster(t *testing.T) {
	frequencyLog := []float64{13.8, 13.8, 1.6, 1.6}
	assignment := []int{0, 0, 1, 1} // cluster 2 has no members

	_, err := labeling.RankClusters(frequencyLog, assignment, 3)
	assert.ErrorIs(t, err, labeling.ErrEmptyCluster)
}

// TestApply_LabelsInInputOrder verifies rank attachment preserves order and
// leaves the input untouched.
func TestApply_LabelsInInputOrder(t *testing.T) {
	records := []domain.WordRecord{
		{Word: "THE", Lemma: "THE"},
		{Word: "CAT", Lemma: "CAT"},
		{Word: "FJORD", Lemma: "FJORD"},
	}
	assignment := []int{2, 1, 0}
	ranks := map[int]domain.Rank{2: domain.Easy, 1: domain.Medium, 0: domain.Hard}

	labeled, err := labeling.Apply(records, assignment, ranks)
	require.NoError(t, err)
	require.Len(t, labeled, 3)

	assert.Equal(t, "THE", labeled[0].Word)
	assert.Equal(t, domain.Easy, labeled[0].Rank)
	assert.Equal(t, 2, labeled[0].Cluster)
	assert.Equal(t, domain.Medium, labeled[1].Rank)
	assert.Equal(t, domain.Hard, labeled[2].Rank)
}

// TestApply_RejectsUnmappedCluster verifies an assignment pointing at a
// cluster with no rank is an error, not a silent default.
func TestApply_RejectsUnmappedCluster(t *testing.T) {
	records := []domain.WordRecord{{Word: "THE", Lemma: "THE"}}
	_, err := labeling.Apply(records, []int{7}, map[int]domain.Rank{0: domain.Easy})
	assert.ErrorIs(t, err, labeling.ErrAssignmentMismatch)
}

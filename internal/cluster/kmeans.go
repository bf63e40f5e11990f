// Package cluster implements k-means partitioning and silhouette scoring
// over gonum matrices. Both are deterministic for a fixed seed, which the
// grid search relies on to make parallel and sequential runs identical.
package cluster

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// ErrTooFewPoints indicates fewer points than requested clusters.
var ErrTooFewPoints = errors.New("cluster: fewer points than clusters")

const (
	maxIterations = 100
	tolerance     = 1e-6
)

// KMeans partitions the rows of data into k clusters. Centroids are seeded
// with k-means++ from a rand source built on seed, so the same data, k and
// seed always produce the same assignment.
func KMeans(data *mat.Dense, k int, seed int64) ([]int, error) {
	n, dim := data.Dims()
	if n < k {
		return nil, fmt.Errorf("%w: %d points, k=%d", ErrTooFewPoints, n, k)
	}

	rng := rand.New(rand.NewSource(seed))
	centroids := seedCentroids(data, k, rng)
	assignments := make([]int, n)

	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i := 0; i < n; i++ {
			best := nearestCentroid(data.RawRowView(i), centroids)
			if best != assignments[i] {
				assignments[i] = best
				changed = true
			}
		}

		next := updateCentroids(data, assignments, centroids, k, dim)
		shift := centroidShift(centroids, next)
		centroids = next

		if !changed || shift < tolerance {
			break
		}
	}

	return assignments, nil
}

// seedCentroids picks k initial centroids with k-means++: the first is a
// uniform random row, each next is drawn with probability proportional to
// its squared distance from the nearest centroid chosen so far.
func seedCentroids(data *mat.Dense, k int, rng *rand.Rand) [][]float64 {
	n, dim := data.Dims()
	centroids := make([][]float64, 0, k)

	first := make([]float64, dim)
	copy(first, data.RawRowView(rng.Intn(n)))
	centroids = append(centroids, first)

	dists := make([]float64, n)
	for len(centroids) < k {
		total := 0.0
		for i := 0; i < n; i++ {
			d := math.Inf(1)
			row := data.RawRowView(i)
			for _, c := range centroids {
				if sq := squaredDistance(row, c); sq < d {
					d = sq
				}
			}
			dists[i] = d
			total += d
		}

		var idx int
		if total == 0 {
			// All points coincide with a centroid; any choice is equivalent.
			idx = rng.Intn(n)
		} else {
			target := rng.Float64() * total
			acc := 0.0
			for i := 0; i < n; i++ {
				acc += dists[i]
				if acc >= target {
					idx = i
					break
				}
			}
		}

		next := make([]float64, dim)
		copy(next, data.RawRowView(idx))
		centroids = append(centroids, next)
	}

	return centroids
}

func nearestCentroid(row []float64, centroids [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		if d := squaredDistance(row, centroid); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// updateCentroids recomputes each centroid as the mean of its members.
// Empty clusters keep their previous centroid rather than collapsing.
func updateCentroids(data *mat.Dense, assignments []int, prev [][]float64, k, dim int) [][]float64 {
	sums := make([][]float64, k)
	counts := make([]int, k)
	for c := range sums {
		sums[c] = make([]float64, dim)
	}

	n, _ := data.Dims()
	for i := 0; i < n; i++ {
		c := assignments[i]
		counts[c]++
		row := data.RawRowView(i)
		for j, v := range row {
			sums[c][j] += v
		}
	}

	next := make([][]float64, k)
	for c := range next {
		next[c] = make([]float64, dim)
		if counts[c] == 0 {
			copy(next[c], prev[c])
			continue
		}
		for j := range next[c] {
			next[c][j] = sums[c][j] / float64(counts[c])
		}
	}
	return next
}

func centroidShift(a, b [][]float64) float64 {
	shift := 0.0
	for c := range a {
		shift += math.Sqrt(squaredDistance(a[c], b[c]))
	}
	return shift
}

func squaredDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

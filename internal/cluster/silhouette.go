package cluster

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Silhouette returns the mean silhouette coefficient of the partition in
// [-1, 1]. For each point, a is the mean distance to its own cluster and b
// the lowest mean distance to any other cluster; the coefficient is
// (b-a)/max(a,b). Points in singleton clusters score 0, so a degenerate
// partition cannot pass an acceptance threshold on the strength of
// one-point clusters.
func Silhouette(data *mat.Dense, assignments []int) float64 {
	n, _ := data.Dims()
	if n == 0 {
		return 0
	}

	clusters := make(map[int][]int)
	for i, c := range assignments {
		clusters[c] = append(clusters[c], i)
	}
	if len(clusters) < 2 {
		return 0
	}

	total := 0.0
	for i := 0; i < n; i++ {
		own := assignments[i]
		if len(clusters[own]) < 2 {
			continue // singleton scores 0
		}

		row := data.RawRowView(i)

		a := 0.0
		for _, j := range clusters[own] {
			if j != i {
				a += math.Sqrt(squaredDistance(row, data.RawRowView(j)))
			}
		}
		a /= float64(len(clusters[own]) - 1)

		b := math.Inf(1)
		for c, members := range clusters {
			if c == own {
				continue
			}
			d := 0.0
			for _, j := range members {
				d += math.Sqrt(squaredDistance(row, data.RawRowView(j)))
			}
			d /= float64(len(members))
			if d < b {
				b = d
			}
		}

		if m := math.Max(a, b); m > 0 {
			total += (b - a) / m
		}
	}

	return total / float64(n)
}

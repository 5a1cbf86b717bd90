package ml

import (
	"errors"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var errPCAFailed = errors.New("principal component decomposition failed")

// kMeansRestarts is how many random initializations each k gets; the best
// inertia wins.
const kMeansRestarts = 10

// kmeans runs Lloyd's algorithm with restarts and returns the best labeling.
func kmeans(X [][]float64, k int, seed int64) []int {
	rng := rand.New(rand.NewSource(seed))

	bestLabels := make([]int, len(X))
	bestInertia := math.Inf(1)
	for restart := 0; restart < kMeansRestarts; restart++ {
		labels, inertia := kmeansOnce(X, k, rng)
		if inertia < bestInertia {
			bestInertia = inertia
			copy(bestLabels, labels)
		}
	}
	return bestLabels
}

func kmeansOnce(X [][]float64, k int, rng *rand.Rand) ([]int, float64) {
	dims := len(X[0])

	// Initialize centroids on distinct random samples.
	centroids := make([][]float64, k)
	for i, p := range rng.Perm(len(X))[:k] {
		centroids[i] = append([]float64(nil), X[p]...)
	}

	labels := make([]int, len(X))
	const maxIterations = 300
	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, x := range X {
			best, bestDist := 0, math.Inf(1)
			for c, centroid := range centroids {
				if d := squaredDistance(x, centroid); d < bestDist {
					best, bestDist = c, d
				}
			}
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		counts := make([]int, k)
		next := make([][]float64, k)
		for c := range next {
			next[c] = make([]float64, dims)
		}
		for i, x := range X {
			counts[labels[i]]++
			for d, v := range x {
				next[labels[i]][d] += v
			}
		}
		for c := range next {
			if counts[c] == 0 {
				// Re-seed an empty cluster on a random sample.
				next[c] = append([]float64(nil), X[rng.Intn(len(X))]...)
				continue
			}
			for d := range next[c] {
				next[c][d] /= float64(counts[c])
			}
		}
		centroids = next
	}

	inertia := 0.0
	for i, x := range X {
		inertia += squaredDistance(x, centroids[labels[i]])
	}
	return labels, inertia
}

// silhouetteScore is the mean silhouette coefficient over all samples.
func silhouetteScore(X [][]float64, labels []int, k int) float64 {
	if k < 2 {
		return math.NaN()
	}
	counts := make([]int, k)
	for _, l := range labels {
		counts[l]++
	}

	total, scored := 0.0, 0
	for i, x := range X {
		// Mean distance to every cluster.
		sums := make([]float64, k)
		for j, other := range X {
			if i == j {
				continue
			}
			sums[labels[j]] += math.Sqrt(squaredDistance(x, other))
		}

		own := labels[i]
		if counts[own] < 2 {
			continue
		}
		a := sums[own] / float64(counts[own]-1)

		b := math.Inf(1)
		for c := 0; c < k; c++ {
			if c == own || counts[c] == 0 {
				continue
			}
			if m := sums[c] / float64(counts[c]); m < b {
				b = m
			}
		}
		if math.IsInf(b, 1) {
			continue
		}

		if max := math.Max(a, b); max > 0 {
			total += (b - a) / max
		}
		scored++
	}
	if scored == 0 {
		return math.NaN()
	}
	return total / float64(scored)
}

// chooseClusterCount scans k in [2, maxK] and keeps the k with the best
// silhouette score.
func chooseClusterCount(X [][]float64, maxK int, seed int64) (int, []int, float64) {
	bestK, bestScore := 2, math.Inf(-1)
	var bestLabels []int

	for k := 2; k <= maxK && k < len(X); k++ {
		labels := kmeans(X, k, seed)
		score := silhouetteScore(X, labels, k)
		if !math.IsNaN(score) && score > bestScore {
			bestK, bestScore = k, score
			bestLabels = labels
		}
	}
	if bestLabels == nil {
		bestLabels = kmeans(X, bestK, seed)
		bestScore = math.NaN()
	}
	return bestK, bestLabels, bestScore
}

// principalComponents projects X onto its first two principal components for
// the cluster chart.
func principalComponents(X [][]float64) ([][]float64, error) {
	rows, cols := len(X), len(X[0])
	m := mat.NewDense(rows, cols, nil)
	for r, x := range X {
		m.SetRow(r, x)
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(m, nil); !ok {
		return nil, errPCAFailed
	}

	var vectors mat.Dense
	pc.VectorsTo(&vectors)

	components := 2
	if cols < components {
		components = cols
	}
	var projected mat.Dense
	projected.Mul(m, vectors.Slice(0, cols, 0, components))

	out := make([][]float64, rows)
	for r := range out {
		out[r] = make([]float64, 2)
		out[r][0] = projected.At(r, 0)
		if components > 1 {
			out[r][1] = projected.At(r, 1)
		}
	}
	return out, nil
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

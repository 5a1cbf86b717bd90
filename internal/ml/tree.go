package ml

import (
	"math"
	"sort"
)

// treeNode is one node of a regression tree. Leaves carry the mean target of
// the samples that reached them.
type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	value     float64
	leaf      bool
}

// regressionTree is a CART regressor splitting on variance reduction.
type regressionTree struct {
	root       *treeNode
	nFeatures  int
	importance []float64
}

type treeConfig struct {
	maxDepth        int
	minSamplesSplit int
}

// fitTree grows a tree over the sample indices idx. importance accumulates
// the total weighted impurity decrease per feature.
func fitTree(X [][]float64, y []float64, idx []int, cfg treeConfig) *regressionTree {
	t := &regressionTree{
		nFeatures:  len(X[0]),
		importance: make([]float64, len(X[0])),
	}
	t.root = t.grow(X, y, idx, 0, cfg, len(idx))
	return t
}

func (t *regressionTree) grow(X [][]float64, y []float64, idx []int, depth int, cfg treeConfig, total int) *treeNode {
	mean, variance := meanVariance(y, idx)
	if depth >= cfg.maxDepth || len(idx) < cfg.minSamplesSplit || variance == 0 {
		return &treeNode{leaf: true, value: mean}
	}

	feature, threshold, gain := t.bestSplit(X, y, idx, variance)
	if feature < 0 {
		return &treeNode{leaf: true, value: mean}
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &treeNode{leaf: true, value: mean}
	}

	t.importance[feature] += gain * float64(len(idx)) / float64(total)

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      t.grow(X, y, left, depth+1, cfg, total),
		right:     t.grow(X, y, right, depth+1, cfg, total),
	}
}

// bestSplit scans every feature for the threshold with the largest variance
// reduction. Candidate thresholds are midpoints between consecutive distinct
// sorted values; running sums make each feature scan linear after the sort.
func (t *regressionTree) bestSplit(X [][]float64, y []float64, idx []int, parentVariance float64) (int, float64, float64) {
	n := float64(len(idx))
	bestFeature, bestThreshold, bestGain := -1, 0.0, 0.0

	order := make([]int, len(idx))
	for f := 0; f < t.nFeatures; f++ {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool { return X[order[a]][f] < X[order[b]][f] })

		var sumLeft, sumSqLeft float64
		sumRight, sumSqRight := 0.0, 0.0
		for _, i := range order {
			sumRight += y[i]
			sumSqRight += y[i] * y[i]
		}

		for k := 0; k < len(order)-1; k++ {
			i := order[k]
			sumLeft += y[i]
			sumSqLeft += y[i] * y[i]
			sumRight -= y[i]
			sumSqRight -= y[i] * y[i]

			v, next := X[i][f], X[order[k+1]][f]
			if v == next {
				continue
			}

			nl, nr := float64(k+1), n-float64(k+1)
			varLeft := sumSqLeft/nl - (sumLeft/nl)*(sumLeft/nl)
			varRight := sumSqRight/nr - (sumRight/nr)*(sumRight/nr)
			gain := parentVariance - (nl*varLeft+nr*varRight)/n
			if gain > bestGain {
				bestFeature = f
				bestThreshold = (v + next) / 2
				bestGain = gain
			}
		}
	}
	return bestFeature, bestThreshold, bestGain
}

// predict walks one sample to its leaf.
func (t *regressionTree) predict(x []float64) float64 {
	node := t.root
	for !node.leaf {
		if x[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.value
}

func meanVariance(y []float64, idx []int) (float64, float64) {
	if len(idx) == 0 {
		return 0, 0
	}
	var sum, sumSq float64
	for _, i := range idx {
		sum += y[i]
		sumSq += y[i] * y[i]
	}
	n := float64(len(idx))
	mean := sum / n
	variance := sumSq/n - mean*mean
	if variance < 0 {
		variance = 0
	}
	return mean, variance
}

// allIndices is the identity sample set 0..n-1.
func allIndices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// normalizeImportances scales a raw importance vector to sum to one.
func normalizeImportances(raw []float64) []float64 {
	total := 0.0
	for _, v := range raw {
		total += v
	}
	out := make([]float64, len(raw))
	if total == 0 || math.IsNaN(total) {
		return out
	}
	for i, v := range raw {
		out[i] = v / total
	}
	return out
}

package ml

import (
	"math/rand"
)

// RandomForest averages bootstrap-trained regression trees.
type RandomForest struct {
	NumTrees int
	MaxDepth int
	Seed     int64

	trees []*regressionTree
}

// NewRandomForest uses the regressor defaults: 200 trees of depth 15.
func NewRandomForest() *RandomForest {
	return &RandomForest{NumTrees: 200, MaxDepth: 15, Seed: 42}
}

// Fit trains the ensemble, one bootstrap sample per tree.
func (rf *RandomForest) Fit(X [][]float64, y []float64) {
	rng := rand.New(rand.NewSource(rf.Seed))
	cfg := treeConfig{maxDepth: rf.MaxDepth, minSamplesSplit: 2}

	rf.trees = make([]*regressionTree, rf.NumTrees)
	for t := 0; t < rf.NumTrees; t++ {
		sample := make([]int, len(X))
		for i := range sample {
			sample[i] = rng.Intn(len(X))
		}
		rf.trees[t] = fitTree(X, y, sample, cfg)
	}
}

// Predict averages the per-tree predictions.
func (rf *RandomForest) Predict(X [][]float64) []float64 {
	preds := make([]float64, len(X))
	for i, x := range X {
		sum := 0.0
		for _, t := range rf.trees {
			sum += t.predict(x)
		}
		preds[i] = sum / float64(len(rf.trees))
	}
	return preds
}

// FeatureImportances averages the per-tree impurity decreases, normalized to
// sum to one.
func (rf *RandomForest) FeatureImportances() []float64 {
	if len(rf.trees) == 0 {
		return nil
	}
	raw := make([]float64, rf.trees[0].nFeatures)
	for _, t := range rf.trees {
		for f, v := range normalizeImportances(t.importance) {
			raw[f] += v
		}
	}
	return normalizeImportances(raw)
}

// clone returns an untrained copy for cross-validation refits.
func (rf *RandomForest) clone() regressor {
	return &RandomForest{NumTrees: rf.NumTrees, MaxDepth: rf.MaxDepth, Seed: rf.Seed}
}

package ml

// GradientBoosting fits shallow regression trees to the running residuals.
type GradientBoosting struct {
	NumTrees     int
	MaxDepth     int
	LearningRate float64

	initial float64
	trees   []*regressionTree
}

// NewGradientBoosting uses the regressor defaults: 200 trees of depth 5 at a
// 0.1 learning rate.
func NewGradientBoosting() *GradientBoosting {
	return &GradientBoosting{NumTrees: 200, MaxDepth: 5, LearningRate: 0.1}
}

// Fit boosts from the target mean, each tree trained on what the previous
// ensemble still gets wrong.
func (gb *GradientBoosting) Fit(X [][]float64, y []float64) {
	idx := allIndices(len(X))
	gb.initial, _ = meanVariance(y, idx)
	cfg := treeConfig{maxDepth: gb.MaxDepth, minSamplesSplit: 2}

	residuals := make([]float64, len(y))
	current := make([]float64, len(y))
	for i := range current {
		current[i] = gb.initial
	}

	gb.trees = make([]*regressionTree, 0, gb.NumTrees)
	for t := 0; t < gb.NumTrees; t++ {
		for i := range residuals {
			residuals[i] = y[i] - current[i]
		}
		tree := fitTree(X, residuals, idx, cfg)
		gb.trees = append(gb.trees, tree)
		for i, x := range X {
			current[i] += gb.LearningRate * tree.predict(x)
		}
	}
}

// Predict sums the scaled tree outputs over the initial estimate.
func (gb *GradientBoosting) Predict(X [][]float64) []float64 {
	preds := make([]float64, len(X))
	for i, x := range X {
		p := gb.initial
		for _, t := range gb.trees {
			p += gb.LearningRate * t.predict(x)
		}
		preds[i] = p
	}
	return preds
}

func (gb *GradientBoosting) clone() regressor {
	return &GradientBoosting{NumTrees: gb.NumTrees, MaxDepth: gb.MaxDepth, LearningRate: gb.LearningRate}
}

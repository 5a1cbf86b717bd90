package ml

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syntheticRegression builds a noisy linear target over two informative
// features plus one pure-noise feature.
func syntheticRegression(n int, seed int64) ([][]float64, []float64) {
	rng := rand.New(rand.NewSource(seed))
	X := make([][]float64, n)
	y := make([]float64, n)
	for i := range X {
		a := rng.Float64() * 10
		b := rng.Float64() * 5
		noise := rng.NormFloat64() * 0.1
		X[i] = []float64{a, b, rng.Float64()}
		y[i] = 2*a - 3*b + noise
	}
	return X, y
}

func TestRegressionTreeFitsTrainingData(t *testing.T) {
	X, y := syntheticRegression(200, 1)
	tree := fitTree(X, y, allIndices(len(X)), treeConfig{maxDepth: 15, minSamplesSplit: 2})

	preds := make([]float64, len(X))
	for i, x := range X {
		preds[i] = tree.predict(x)
	}
	assert.Greater(t, RSquared(y, preds), 0.99)
}

func TestRegressionTreeConstantTarget(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {4}}
	y := []float64{7, 7, 7, 7}
	tree := fitTree(X, y, allIndices(4), treeConfig{maxDepth: 5, minSamplesSplit: 2})

	assert.InDelta(t, 7, tree.predict([]float64{2.5}), 1e-9)
	assert.True(t, tree.root.leaf)
}

func TestRandomForestGeneralizes(t *testing.T) {
	X, y := syntheticRegression(300, 2)
	XTrain, XTest, yTrain, yTest := chronologicalSplit(X, y, 0.8)

	rf := NewRandomForest()
	rf.NumTrees = 30
	rf.Fit(XTrain, yTrain)

	assert.Greater(t, RSquared(yTest, rf.Predict(XTest)), 0.9)
}

func TestRandomForestImportancesFavorInformativeFeatures(t *testing.T) {
	X, y := syntheticRegression(300, 3)
	rf := NewRandomForest()
	rf.NumTrees = 30
	rf.Fit(X, y)

	imp := rf.FeatureImportances()
	require.Len(t, imp, 3)

	sum := imp[0] + imp[1] + imp[2]
	assert.InDelta(t, 1.0, sum, 1e-9)
	// The noise feature carries almost no importance.
	assert.Greater(t, imp[0], imp[2])
	assert.Greater(t, imp[1], imp[2])
	assert.Less(t, imp[2], 0.05)
}

func TestGradientBoostingGeneralizes(t *testing.T) {
	X, y := syntheticRegression(300, 4)
	XTrain, XTest, yTrain, yTest := chronologicalSplit(X, y, 0.8)

	gb := NewGradientBoosting()
	gb.NumTrees = 100
	gb.Fit(XTrain, yTrain)

	assert.Greater(t, RSquared(yTest, gb.Predict(XTest)), 0.9)
}

func TestGradientBoostingBeatsMeanBaseline(t *testing.T) {
	X, y := syntheticRegression(200, 5)
	gb := NewGradientBoosting()
	gb.NumTrees = 50
	gb.Fit(X, y)

	preds := gb.Predict(X)
	baseline := make([]float64, len(y))
	mean, _ := meanVariance(y, allIndices(len(y)))
	for i := range baseline {
		baseline[i] = mean
	}
	assert.Less(t, RMSE(y, preds), RMSE(y, baseline))
}

func TestNormalizeImportancesZeroTotal(t *testing.T) {
	out := normalizeImportances([]float64{0, 0})
	assert.Equal(t, []float64{0, 0}, out)
}

func TestMeanVariance(t *testing.T) {
	y := []float64{1, 2, 3, 4}
	mean, variance := meanVariance(y, allIndices(4))
	assert.InDelta(t, 2.5, mean, 1e-9)
	assert.InDelta(t, 1.25, variance, 1e-9)

	_, v := meanVariance(nil, nil)
	assert.True(t, v == 0 && !math.IsNaN(v))
}

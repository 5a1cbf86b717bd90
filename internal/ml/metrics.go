package ml

import (
	"math"
)

// regressor is the shared fit/predict surface of the two tree ensembles.
type regressor interface {
	Fit(X [][]float64, y []float64)
	Predict(X [][]float64) []float64
	clone() regressor
}

// RSquared is the coefficient of determination of predictions against truth.
func RSquared(actual, predicted []float64) float64 {
	if len(actual) == 0 {
		return math.NaN()
	}
	mean := 0.0
	for _, v := range actual {
		mean += v
	}
	mean /= float64(len(actual))

	var ssRes, ssTot float64
	for i, v := range actual {
		d := v - predicted[i]
		ssRes += d * d
		m := v - mean
		ssTot += m * m
	}
	if ssTot == 0 {
		return math.NaN()
	}
	return 1 - ssRes/ssTot
}

// RMSE is the root mean squared prediction error.
func RMSE(actual, predicted []float64) float64 {
	if len(actual) == 0 {
		return math.NaN()
	}
	var sum float64
	for i, v := range actual {
		d := v - predicted[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(actual)))
}

// chronologicalSplit cuts the ordered samples at the given train fraction.
// Time-ordered data is never shuffled: the model trains on the past and is
// scored on the future.
func chronologicalSplit(X [][]float64, y []float64, trainFraction float64) (XTrain, XTest [][]float64, yTrain, yTest []float64) {
	split := int(float64(len(X)) * trainFraction)
	return X[:split], X[split:], y[:split], y[split:]
}

// crossValRSquared scores k contiguous folds: each fold is held out in turn
// and the model refits on the rest. Returns the mean R² across folds with at
// least one sample.
func crossValRSquared(model regressor, X [][]float64, y []float64, k int) float64 {
	if k < 2 || len(X) < k {
		return math.NaN()
	}

	foldSize := len(X) / k
	var scores []float64
	for fold := 0; fold < k; fold++ {
		start := fold * foldSize
		end := start + foldSize
		if fold == k-1 {
			end = len(X)
		}

		var XTrain [][]float64
		var yTrain []float64
		XTrain = append(XTrain, X[:start]...)
		XTrain = append(XTrain, X[end:]...)
		yTrain = append(yTrain, y[:start]...)
		yTrain = append(yTrain, y[end:]...)
		if len(XTrain) == 0 || end == start {
			continue
		}

		m := model.clone()
		m.Fit(XTrain, yTrain)
		score := RSquared(y[start:end], m.Predict(X[start:end]))
		if !math.IsNaN(score) {
			scores = append(scores, score)
		}
	}
	if len(scores) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}

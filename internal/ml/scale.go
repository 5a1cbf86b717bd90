package ml

import (
	"gonum.org/v1/gonum/stat"
)

// standardScale centers each column to mean zero and unit standard deviation.
// Constant columns scale to zero rather than dividing by zero.
func standardScale(X [][]float64) [][]float64 {
	if len(X) == 0 {
		return nil
	}
	cols := len(X[0])
	column := make([]float64, len(X))

	means := make([]float64, cols)
	stds := make([]float64, cols)
	for c := 0; c < cols; c++ {
		for r := range X {
			column[r] = X[r][c]
		}
		mean, std := stat.MeanStdDev(column, nil)
		means[c] = mean
		stds[c] = std
	}

	scaled := make([][]float64, len(X))
	for r := range X {
		scaled[r] = make([]float64, cols)
		for c := 0; c < cols; c++ {
			if stds[c] == 0 {
				continue
			}
			scaled[r][c] = (X[r][c] - means[c]) / stds[c]
		}
	}
	return scaled
}

package ml

import (
	"fmt"
	"math"
)

// Decomposition splits a monthly series into trend, seasonal and residual
// components, observed = trend + seasonal + residual. Trend and residual are
// NaN for the half-window at each end where the centered average is
// undefined.
type Decomposition struct {
	Months   []string
	Observed []float64
	Trend    []float64
	Seasonal []float64
	Residual []float64
}

// seasonalPeriod is the cycle length of a monthly series.
const seasonalPeriod = 12

// decomposeAdditive performs classical additive decomposition: a centered
// 2x12 moving-average trend, seasonal indices from the mean detrended value
// per calendar position, residual as the remainder.
func decomposeAdditive(months []string, observed []float64) (*Decomposition, error) {
	n := len(observed)
	if n < 2*seasonalPeriod {
		return nil, fmt.Errorf("series too short for seasonal decomposition: %d observations, need %d", n, 2*seasonalPeriod)
	}

	trend := centeredMovingAverage(observed, seasonalPeriod)

	// Seasonal index per position in the cycle, from detrended values.
	sums := make([]float64, seasonalPeriod)
	counts := make([]int, seasonalPeriod)
	for i := 0; i < n; i++ {
		if math.IsNaN(trend[i]) {
			continue
		}
		pos := i % seasonalPeriod
		sums[pos] += observed[i] - trend[i]
		counts[pos]++
	}

	indices := make([]float64, seasonalPeriod)
	var indexMean float64
	for pos := range indices {
		if counts[pos] > 0 {
			indices[pos] = sums[pos] / float64(counts[pos])
		}
		indexMean += indices[pos]
	}
	indexMean /= seasonalPeriod
	// Center the indices so the seasonal component sums to zero per cycle.
	for pos := range indices {
		indices[pos] -= indexMean
	}

	seasonal := make([]float64, n)
	residual := make([]float64, n)
	for i := 0; i < n; i++ {
		seasonal[i] = indices[i%seasonalPeriod]
		if math.IsNaN(trend[i]) {
			residual[i] = math.NaN()
		} else {
			residual[i] = observed[i] - trend[i] - seasonal[i]
		}
	}

	return &Decomposition{
		Months:   months,
		Observed: observed,
		Trend:    trend,
		Seasonal: seasonal,
		Residual: residual,
	}, nil
}

// centeredMovingAverage computes the 2xM average for even M: a window of M+1
// values with half weight on the endpoints.
func centeredMovingAverage(values []float64, period int) []float64 {
	n := len(values)
	out := make([]float64, n)
	half := period / 2

	for i := 0; i < n; i++ {
		if i < half || i+half >= n {
			out[i] = math.NaN()
			continue
		}
		sum := values[i-half]/2 + values[i+half]/2
		for j := i - half + 1; j < i+half; j++ {
			sum += values[j]
		}
		out[i] = sum / float64(period)
	}
	return out
}

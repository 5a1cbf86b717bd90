package ml

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syntheticSeries builds months of trend + seasonal signal.
func syntheticSeries(n int) ([]string, []float64) {
	months := make([]string, n)
	values := make([]float64, n)
	seasonal := []float64{1.2, 0.8, 0.3, -0.2, -0.6, -0.9, -1.0, -0.7, -0.3, 0.1, 0.5, 0.8}
	for i := 0; i < n; i++ {
		months[i] = fmt.Sprintf("%04d-%02d", 2017+i/12, i%12+1)
		values[i] = 3.0 + 0.02*float64(i) + seasonal[i%12]
	}
	return months, values
}

func TestDecomposeAdditiveRecoversComponents(t *testing.T) {
	months, values := syntheticSeries(48)
	d, err := decomposeAdditive(months, values)
	require.NoError(t, err)
	require.Len(t, d.Trend, 48)

	// Edges of the centered window are undefined.
	assert.True(t, math.IsNaN(d.Trend[0]))
	assert.True(t, math.IsNaN(d.Trend[47]))
	assert.False(t, math.IsNaN(d.Trend[24]))

	// Trend tracks the underlying slope away from the edges.
	assert.InDelta(t, 3.0+0.02*24, d.Trend[24], 0.05)

	// Seasonal indices repeat with period 12 and sum to zero over a cycle.
	var cycle float64
	for i := 0; i < seasonalPeriod; i++ {
		cycle += d.Seasonal[i]
		assert.InDelta(t, d.Seasonal[i], d.Seasonal[i+seasonalPeriod], 1e-9)
	}
	assert.InDelta(t, 0, cycle, 1e-9)

	// Where the trend is defined, components add back to the observation.
	for i := range values {
		if math.IsNaN(d.Trend[i]) {
			assert.True(t, math.IsNaN(d.Residual[i]))
			continue
		}
		sum := d.Trend[i] + d.Seasonal[i] + d.Residual[i]
		assert.InDelta(t, values[i], sum, 1e-9, "month %d", i)
	}

	// A clean synthetic signal leaves almost no residual.
	for i := 10; i < 38; i++ {
		assert.InDelta(t, 0, d.Residual[i], 0.05, "month %d", i)
	}
}

func TestDecomposeAdditiveTooShort(t *testing.T) {
	months, values := syntheticSeries(18)
	_, err := decomposeAdditive(months, values)
	assert.Error(t, err)
}

func TestCenteredMovingAverageFlatSeries(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		values[i] = 5
	}
	trend := centeredMovingAverage(values, 12)
	assert.True(t, math.IsNaN(trend[5]))
	assert.InDelta(t, 5, trend[6], 1e-9)
	assert.InDelta(t, 5, trend[23], 1e-9)
	assert.True(t, math.IsNaN(trend[24]))
}

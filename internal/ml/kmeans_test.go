package ml

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoBlobs samples two well-separated gaussian clusters.
func twoBlobs(n int, seed int64) ([][]float64, []int) {
	rng := rand.New(rand.NewSource(seed))
	X := make([][]float64, 0, 2*n)
	truth := make([]int, 0, 2*n)
	for i := 0; i < n; i++ {
		X = append(X, []float64{rng.NormFloat64() * 0.3, rng.NormFloat64() * 0.3})
		truth = append(truth, 0)
	}
	for i := 0; i < n; i++ {
		X = append(X, []float64{10 + rng.NormFloat64()*0.3, 10 + rng.NormFloat64()*0.3})
		truth = append(truth, 1)
	}
	return X, truth
}

func TestKMeansSeparatesBlobs(t *testing.T) {
	X, truth := twoBlobs(20, 1)
	labels := kmeans(X, 2, 42)

	// Labels agree with the ground truth up to permutation.
	for i := 1; i < len(labels); i++ {
		sameTruth := truth[i] == truth[0]
		sameLabel := labels[i] == labels[0]
		assert.Equal(t, sameTruth, sameLabel, "sample %d", i)
	}
}

func TestSilhouetteHighForSeparatedClusters(t *testing.T) {
	X, _ := twoBlobs(20, 2)
	labels := kmeans(X, 2, 42)
	assert.Greater(t, silhouetteScore(X, labels, 2), 0.9)
}

func TestChooseClusterCountFindsTwoBlobs(t *testing.T) {
	X, _ := twoBlobs(15, 3)
	k, labels, score := chooseClusterCount(X, 9, 42)
	assert.Equal(t, 2, k)
	assert.Len(t, labels, len(X))
	assert.Greater(t, score, 0.9)
}

func TestStandardScale(t *testing.T) {
	X := [][]float64{{1, 100, 7}, {2, 200, 7}, {3, 300, 7}}
	scaled := standardScale(X)
	require.Len(t, scaled, 3)

	for c := 0; c < 3; c++ {
		var sum float64
		for r := range scaled {
			sum += scaled[r][c]
		}
		assert.InDelta(t, 0, sum, 1e-9, "column %d mean", c)
	}
	// Constant column stays zero instead of dividing by zero.
	assert.Equal(t, 0.0, scaled[0][2])
	assert.Equal(t, 0.0, scaled[2][2])
}

func TestPrincipalComponents(t *testing.T) {
	X, _ := twoBlobs(10, 4)
	coords, err := principalComponents(X)
	require.NoError(t, err)
	require.Len(t, coords, len(X))
	require.Len(t, coords[0], 2)

	// The first component separates the blobs.
	firstBlob := coords[0][0]
	secondBlob := coords[len(coords)-1][0]
	assert.Greater(t, math.Abs(firstBlob-secondBlob), 1.0)
}

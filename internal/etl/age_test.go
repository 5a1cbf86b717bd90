package etl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgeGroupDimension(t *testing.T) {
	dims := AgeGroupDimension()
	require.Len(t, dims, 6)
	assert.Equal(t, "15-19세", dims[0].Name)
	assert.Equal(t, "60세이상", dims[5].Name)
}

func TestExtractAgeEmployment(t *testing.T) {
	path := writeCSV(t, t.TempDir(), AgeFilePrefix+"20251117204725.csv", ageFixture, false)

	facts, err := ExtractAgeEmployment(path, discardLogger())
	require.NoError(t, err)

	// The 15 - 29세 aggregate band overlaps the base bands and is dropped.
	require.Len(t, facts, 2)
	assert.Equal(t, 1, facts[0].AgeGroupID)
	assert.Equal(t, int64(45000), facts[0].EmployedCount)
	assert.Equal(t, 6, facts[1].AgeGroupID)
	assert.Equal(t, int64(820000), facts[1].EmployedCount)
}

func TestExtractAgeEmploymentEmptyPath(t *testing.T) {
	facts, err := ExtractAgeEmployment("", discardLogger())
	require.NoError(t, err)
	assert.Nil(t, facts)
}

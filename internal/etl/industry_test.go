package etl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractIndustryEmployment(t *testing.T) {
	path := writeCP949CSV(t, t.TempDir(), IndustryFile, industryFixture)

	facts, industries, err := ExtractIndustryEmployment(path, discardLogger())
	require.NoError(t, err)

	// Seoul section rows only: the 광공업 roll-up has no KSIC letter, the
	// 실업자 row fails the item filter, and 전국 contributes no facts.
	require.Len(t, facts, 4)
	for _, f := range facts {
		assert.Equal(t, 11, f.RegionID)
	}

	type key struct {
		code string
		ym   string
	}
	byKey := make(map[key]int64, len(facts))
	for _, f := range facts {
		byKey[key{f.IndustryCode, f.YearMonth}] = f.EmployedPersons
	}
	assert.Equal(t, int64(10000), byKey[key{"A", "2017-01"}])
	assert.Equal(t, int64(11000), byKey[key{"A", "2017-02"}])
	assert.Equal(t, int64(450000), byKey[key{"C", "2017-01"}])
	assert.Equal(t, int64(455000), byKey[key{"C", "2017-02"}])

	// 전국 rows still contribute to the dimension.
	require.Len(t, industries, 3)
	assert.Equal(t, "A", industries[0].Code)
	assert.Equal(t, "농업, 임업 및 어업", industries[0].Name)
	assert.Equal(t, "C", industries[1].Code)
	assert.Equal(t, "제조업", industries[1].Name)
	assert.Equal(t, "F", industries[2].Code)
	assert.Equal(t, "건설업", industries[2].Name)
}

func TestExtractIndustryEmploymentSkipsRollupCategories(t *testing.T) {
	fixture := `시도별,산업별,항목,단위,2020.01
서울특별시,광공업,취업자,천명,460
서울특별시,사회간접자본 및 기타서비스업,취업자,천명,4000
서울특별시,W 기타,취업자,천명,5
`
	path := writeCP949CSV(t, t.TempDir(), IndustryFile, fixture)

	facts, industries, err := ExtractIndustryEmployment(path, discardLogger())
	require.NoError(t, err)
	// Roll-ups carry no section letter and letters past U are out of range.
	assert.Empty(t, facts)
	assert.Empty(t, industries)
}

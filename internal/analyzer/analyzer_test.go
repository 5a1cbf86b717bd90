package analyzer

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laborcli/internal/warehouse"
	"laborcli/pkg/contracts/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// openLoadedStore builds a small but fully joined warehouse.
func openLoadedStore(t *testing.T) *warehouse.Store {
	t.Helper()
	s, err := warehouse.Open(filepath.Join(t.TempDir(), "warehouse.db"), discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	ds := &domain.Dataset{
		Regions: []domain.Region{
			{ID: 11, Name: "서울특별시"},
			{ID: 26, Name: "부산광역시"},
		},
		Industries: []domain.Industry{
			{Code: "A", Name: "농업, 임업 및 어업"},
			{Code: "C", Name: "제조업"},
		},
		EducationLevels: []domain.EducationLevel{
			{ID: 3, Name: "고졸"},
			{ID: 4, Name: "대졸이상"},
		},
		AgeGroups: []domain.AgeGroup{
			{ID: 1, Name: "15-19세"},
			{ID: 2, Name: "20-29세"},
			{ID: 3, Name: "30-39세"},
		},
		Unemployment: []domain.UnemploymentMonthly{
			{RegionID: 11, YearMonth: "2023-01", UnemploymentRate: 4.3, UnemploymentLevel: 230000, LaborForce: 5330000, EmployedPersons: 5100000},
			{RegionID: 26, YearMonth: "2023-01", UnemploymentRate: 3.9, UnemploymentLevel: 70000, LaborForce: 1720000, EmployedPersons: 1650000},
			{RegionID: 11, YearMonth: "2024-01", UnemploymentRate: 3.8, UnemploymentLevel: math.NaN(), LaborForce: 5340000, EmployedPersons: 5150000},
			{RegionID: 26, YearMonth: "2024-01", UnemploymentRate: 4.2, UnemploymentLevel: 72000, LaborForce: 1700000, EmployedPersons: 1630000},
		},
		IndustryEmployment: []domain.IndustryEmploymentMonthly{
			{RegionID: 11, IndustryCode: "A", YearMonth: "2023-01", EmployedPersons: 10000},
			{RegionID: 11, IndustryCode: "C", YearMonth: "2023-01", EmployedPersons: 450000},
			{RegionID: 11, IndustryCode: "A", YearMonth: "2024-01", EmployedPersons: 9000},
			{RegionID: 11, IndustryCode: "C", YearMonth: "2024-01", EmployedPersons: 470000},
		},
		Population: []domain.PopulationMonthly{
			{RegionID: 11, YearMonth: "2023-01", TotalPopulation: 9800000},
			{RegionID: 26, YearMonth: "2023-01", TotalPopulation: 3300000},
			{RegionID: 11, YearMonth: "2024-01", TotalPopulation: 9750000},
			{RegionID: 26, YearMonth: "2024-01", TotalPopulation: 3280000},
		},
		Insurance: []domain.InsuranceMonthly{
			{RegionID: 11, YearMonth: "2024-01", InsuredCount: 3400000, NewInsured: 30000, TerminatedInsured: 28000},
			{RegionID: 26, YearMonth: "2024-01", InsuredCount: 1100000, NewInsured: 9000, TerminatedInsured: 11000},
		},
		EducationEmployment: []domain.EducationEmploymentMonthly{
			{RegionID: 11, EducationID: 3, YearMonth: "2024-01", EmployedCount: 1900000},
			{RegionID: 11, EducationID: 4, YearMonth: "2024-01", EmployedCount: 2600000},
		},
		AgeEmployment: []domain.AgeEmploymentMonthly{
			{RegionID: 11, AgeGroupID: 1, YearMonth: "2024-01", EmployedCount: 45000},
			{RegionID: 11, AgeGroupID: 2, YearMonth: "2024-01", EmployedCount: 900000},
			{RegionID: 11, AgeGroupID: 3, YearMonth: "2024-01", EmployedCount: 1200000},
		},
	}
	require.NoError(t, s.ReplaceAll(context.Background(), ds))
	return s
}

func TestParseInsightQueries(t *testing.T) {
	queries, err := parseInsightQueries(insightsSQL)
	require.NoError(t, err)
	require.Len(t, queries, 15)

	for n := 1; n <= 15; n++ {
		q, ok := queries[n]
		require.True(t, ok, "insight %d missing", n)
		assert.NotEmpty(t, q.Title)
		assert.NotEmpty(t, q.SQL)
		assert.NotContains(t, q.SQL, "[insight")
	}

	assert.Equal(t, "Regional unemployment ranking, latest month", queries[1].Title)
}

func TestParseInsightQueriesRejectsDuplicates(t *testing.T) {
	src := "-- [insight 1] a\nSELECT 1;\n-- [insight 1] b\nSELECT 2;\n"
	_, err := parseInsightQueries(src)
	assert.Error(t, err)
}

func TestParseInsightQueriesNoMarkers(t *testing.T) {
	_, err := parseInsightQueries("SELECT 1;")
	assert.Error(t, err)
}

func TestRunBaseInsights(t *testing.T) {
	s := openLoadedStore(t)
	a := New(s.DB(), discardLogger())

	insights, err := a.Run(context.Background(), BaseInsights)
	require.NoError(t, err)
	require.Len(t, insights, 8)

	// Ranking for the latest month: Busan first on 4.2, Seoul on 3.8.
	ranking := insights[0]
	require.False(t, ranking.Empty())
	assert.Equal(t, []string{"region_name", "year_month", "unemployment_rate"}, ranking.Columns)
	require.Len(t, ranking.Rows, 2)
	assert.Equal(t, "부산광역시", ranking.Rows[0][0])
	assert.Equal(t, "2024-01", ranking.Rows[0][1])
	assert.Equal(t, "서울특별시", ranking.Rows[1][0])

	// Yearly averages cover both observed years.
	yearly := insights[1]
	require.Len(t, yearly.Rows, 2)
	assert.Equal(t, "2023", yearly.Rows[0][0])
	assert.Equal(t, "2024", yearly.Rows[1][0])
}

func TestRunSupplementalInsights(t *testing.T) {
	s := openLoadedStore(t)
	a := New(s.DB(), discardLogger())

	insights, err := a.Run(context.Background(), SupplementalInsights)
	require.NoError(t, err)
	require.Len(t, insights, 7)

	for _, insight := range insights {
		assert.False(t, insight.Empty(), "insight %d returned no rows", insight.Number)
	}

	// Youth share: (45000+900000) / 2145000.
	var youth Insight
	for _, insight := range insights {
		if insight.Number == 11 {
			youth = insight
		}
	}
	require.Len(t, youth.Rows, 1)
	assert.Equal(t, "서울특별시", youth.Rows[0][0])
	assert.Equal(t, "44.1", youth.Rows[0][3])
}

func TestRunUnknownInsight(t *testing.T) {
	s := openLoadedStore(t)
	a := New(s.DB(), discardLogger())

	_, err := a.Run(context.Background(), []int{99})
	assert.Error(t, err)
}

func TestBasicStatistics(t *testing.T) {
	s := openLoadedStore(t)
	a := New(s.DB(), discardLogger())

	stats, err := a.BasicStatistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.UnemploymentRows)
	assert.Equal(t, 4, stats.EmploymentRows)
	assert.Equal(t, 2, stats.Industries)
	assert.Equal(t, 2, stats.Regions)
	assert.Equal(t, 2, stats.InsuranceRows)
	assert.Equal(t, 2, stats.EducationRows)
	assert.Equal(t, 3, stats.AgeRows)
}

func TestRenderInsightsCapsRows(t *testing.T) {
	rows := make([][]string, 25)
	for i := range rows {
		rows[i] = []string{"r", "v"}
	}
	insights := []Insight{{Number: 1, Title: "big", Columns: []string{"a", "b"}, Rows: rows}}

	var buf bytes.Buffer
	RenderInsights(&buf, "Analysis", insights)
	out := buf.String()
	assert.Contains(t, out, "[insight 1] big")
	assert.Contains(t, out, "showing 10 of 25 rows")
}

func TestRenderInsightsEmptyResult(t *testing.T) {
	var buf bytes.Buffer
	RenderInsights(&buf, "Analysis", []Insight{{Number: 9, Title: "none"}})
	assert.Contains(t, buf.String(), "no data or query failed")
}

func TestRenderStatistics(t *testing.T) {
	var buf bytes.Buffer
	RenderStatistics(&buf, Statistics{UnemploymentRows: 12, Regions: 17})
	out := buf.String()
	assert.Contains(t, out, "unemployment rows:        12")
	assert.Contains(t, out, "regions:                  17")
}

package warehouse

import (
	"context"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laborcli/pkg/contracts/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testDataset() *domain.Dataset {
	return &domain.Dataset{
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
		},
		Unemployment: []domain.UnemploymentMonthly{
			{RegionID: 11, YearMonth: "2017-01", UnemploymentRate: 4.3, UnemploymentLevel: 230000, LaborForce: 5330000, EmployedPersons: 5100000},
			{RegionID: 11, YearMonth: "2017-02", UnemploymentRate: 4.1, UnemploymentLevel: math.NaN(), LaborForce: math.NaN(), EmployedPersons: math.NaN()},
			{RegionID: 26, YearMonth: "2017-01", UnemploymentRate: 3.9, UnemploymentLevel: 70000, LaborForce: 1720000, EmployedPersons: 1650000},
		},
		IndustryEmployment: []domain.IndustryEmploymentMonthly{
			{RegionID: 11, IndustryCode: "A", YearMonth: "2017-01", EmployedPersons: 10000},
			{RegionID: 11, IndustryCode: "C", YearMonth: "2017-01", EmployedPersons: 450000},
		},
		Population: []domain.PopulationMonthly{
			{RegionID: 11, YearMonth: "2017-01", TotalPopulation: 9800000},
		},
		Insurance: []domain.InsuranceMonthly{
			{RegionID: 11, YearMonth: "2017-01", InsuredCount: 3400000, NewInsured: 30000, TerminatedInsured: 0},
		},
		EducationEmployment: []domain.EducationEmploymentMonthly{
			{RegionID: 11, EducationID: 3, YearMonth: "2017-01", EmployedCount: 1900000},
			{RegionID: 11, EducationID: 4, YearMonth: "2017-01", EmployedCount: 2600000},
		},
		AgeEmployment: []domain.AgeEmploymentMonthly{
			{RegionID: 11, AgeGroupID: 1, YearMonth: "2017-01", EmployedCount: 45000},
		},
	}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "warehouse.db"), discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func countRows(t *testing.T, s *Store, table string) int {
	t.Helper()
	var n int
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestReplaceAllLoadsEverything(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.ReplaceAll(context.Background(), testDataset()))

	assert.Equal(t, 2, countRows(t, s, "dim_region"))
	assert.Equal(t, 2, countRows(t, s, "dim_industry"))
	assert.Equal(t, 2, countRows(t, s, "dim_education"))
	assert.Equal(t, 2, countRows(t, s, "dim_age_group"))
	assert.Equal(t, 3, countRows(t, s, "fact_unemployment_monthly"))
	assert.Equal(t, 2, countRows(t, s, "fact_employment_by_industry_monthly"))
	assert.Equal(t, 1, countRows(t, s, "fact_population_monthly"))
	assert.Equal(t, 1, countRows(t, s, "fact_employment_insurance"))
	assert.Equal(t, 2, countRows(t, s, "fact_employment_by_education"))
	assert.Equal(t, 1, countRows(t, s, "fact_employment_by_age"))
}

func TestReplaceAllIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ds := testDataset()
	require.NoError(t, s.ReplaceAll(context.Background(), ds))
	require.NoError(t, s.ReplaceAll(context.Background(), ds))

	assert.Equal(t, 2, countRows(t, s, "dim_region"))
	assert.Equal(t, 3, countRows(t, s, "fact_unemployment_monthly"))
}

func TestReplaceAllStoresUnobservedMeasuresAsNull(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.ReplaceAll(context.Background(), testDataset()))

	var nullCount int
	require.NoError(t, s.DB().QueryRow(
		`SELECT COUNT(*) FROM fact_unemployment_monthly
		 WHERE year_month = '2017-02' AND employed_persons IS NULL AND labor_force IS NULL`).Scan(&nullCount))
	assert.Equal(t, 1, nullCount)

	var rate float64
	require.NoError(t, s.DB().QueryRow(
		`SELECT unemployment_rate FROM fact_unemployment_monthly
		 WHERE region_id = 11 AND year_month = '2017-02'`).Scan(&rate))
	assert.InDelta(t, 4.1, rate, 1e-9)
}

func TestReplaceAllRestoresForeignKeyEnforcement(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.ReplaceAll(context.Background(), testDataset()))

	// An orphan fact must now be rejected.
	_, err := s.DB().Exec(
		`INSERT INTO fact_population_monthly (region_id, year_month, total_population) VALUES (99, '2017-01', 1)`)
	assert.Error(t, err)
}

func TestFactsJoinToDimensions(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.ReplaceAll(context.Background(), testDataset()))

	var n int
	require.NoError(t, s.DB().QueryRow(
		`SELECT COUNT(*)
		 FROM fact_employment_by_industry_monthly f
		 JOIN dim_region r ON r.region_id = f.region_id
		 JOIN dim_industry i ON i.industry_code = f.industry_code`).Scan(&n))
	assert.Equal(t, 2, n)
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "nested", "warehouse.db")
	s, err := Open(path, discardLogger())
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, 0, countRows(t, s, "dim_region"))
}

package ml

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math"
)

// featureQuery assembles the modeling dataset. Youth employment sums age
// bands 1 and 2 (ages 15-29). Insurance, youth and education joins are LEFT
// because those facts only exist where the supplemental exports were loaded;
// their derived rates come back NULL and the models drop incomplete rows.
const featureQuery = `
WITH youth_employment AS (
    SELECT region_id, year_month,
        SUM(CASE WHEN age_group_id IN (1, 2) THEN employed_count ELSE 0 END) AS youth_employed,
        SUM(employed_count) AS total_employed_by_age
    FROM fact_employment_by_age
    GROUP BY region_id, year_month
),
education_stats AS (
    SELECT region_id, year_month,
        SUM(CASE WHEN education_id = 4 THEN employed_count ELSE 0 END) AS college_employed,
        SUM(employed_count) AS total_employed_by_edu
    FROM fact_employment_by_education
    GROUP BY region_id, year_month
)
SELECT
    u.region_id, r.region_name, u.year_month, u.unemployment_rate,
    p.total_population,
    CAST(u.labor_force AS FLOAT) / p.total_population AS labor_force_ratio,
    CAST(u.employed_persons AS FLOAT) / p.total_population AS employment_ratio,
    CAST(i.insured_count AS FLOAT) / u.employed_persons AS insurance_coverage_rate,
    CAST(y.youth_employed AS FLOAT) / y.total_employed_by_age AS youth_employment_rate,
    CAST(e.college_employed AS FLOAT) / e.total_employed_by_edu AS college_employment_rate,
    CAST(i.new_insured + i.terminated_insured AS FLOAT) / i.insured_count AS turnover_rate,
    CAST(SUBSTR(u.year_month, 1, 4) AS INTEGER) AS year,
    CAST(SUBSTR(u.year_month, 6, 2) AS INTEGER) AS month
FROM fact_unemployment_monthly u
JOIN dim_region r ON r.region_id = u.region_id
JOIN fact_population_monthly p ON p.region_id = u.region_id AND p.year_month = u.year_month
LEFT JOIN fact_employment_insurance i ON i.region_id = u.region_id AND i.year_month = u.year_month
LEFT JOIN youth_employment y ON y.region_id = u.region_id AND y.year_month = u.year_month
LEFT JOIN education_stats e ON e.region_id = u.region_id AND e.year_month = u.year_month
WHERE u.unemployment_rate IS NOT NULL AND p.total_population > 0
ORDER BY u.year_month, u.region_id`

// FeatureNames lists the model inputs in column order.
var FeatureNames = []string{
	"total_population",
	"labor_force_ratio",
	"employment_ratio",
	"year",
	"month",
	"region_id",
	"insurance_coverage_rate",
	"youth_employment_rate",
	"college_employment_rate",
	"turnover_rate",
}

// FeatureRow is one (region, month) observation. Rates derived from the
// supplemental facts are NaN where those facts are absent.
type FeatureRow struct {
	RegionID              int
	RegionName            string
	YearMonth             string
	UnemploymentRate      float64
	TotalPopulation       float64
	LaborForceRatio       float64
	EmploymentRatio       float64
	InsuranceCoverageRate float64
	YouthEmploymentRate   float64
	CollegeEmploymentRate float64
	TurnoverRate          float64
	Year                  int
	Month                 int
}

// Features returns the model input vector in FeatureNames order.
func (r FeatureRow) Features() []float64 {
	return []float64{
		r.TotalPopulation,
		r.LaborForceRatio,
		r.EmploymentRatio,
		float64(r.Year),
		float64(r.Month),
		float64(r.RegionID),
		r.InsuranceCoverageRate,
		r.YouthEmploymentRate,
		r.CollegeEmploymentRate,
		r.TurnoverRate,
	}
}

// Complete reports whether every feature is observed.
func (r FeatureRow) Complete() bool {
	for _, v := range r.Features() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// LoadDataset runs the feature query. Rows stay in (year_month, region)
// order, which the chronological split depends on.
func LoadDataset(ctx context.Context, db *sql.DB, logger *slog.Logger) ([]FeatureRow, error) {
	rows, err := db.QueryContext(ctx, featureQuery)
	if err != nil {
		return nil, fmt.Errorf("query feature dataset: %w", err)
	}
	defer rows.Close()

	var dataset []FeatureRow
	for rows.Next() {
		var (
			r                                FeatureRow
			laborRatio, employmentRatio      sql.NullFloat64
			coverage, youthRate, collegeRate sql.NullFloat64
			turnover                         sql.NullFloat64
		)
		if err := rows.Scan(
			&r.RegionID, &r.RegionName, &r.YearMonth, &r.UnemploymentRate,
			&r.TotalPopulation,
			&laborRatio, &employmentRatio,
			&coverage, &youthRate, &collegeRate, &turnover,
			&r.Year, &r.Month,
		); err != nil {
			return nil, fmt.Errorf("scan feature row: %w", err)
		}
		r.LaborForceRatio = floatOrNaN(laborRatio)
		r.EmploymentRatio = floatOrNaN(employmentRatio)
		r.InsuranceCoverageRate = floatOrNaN(coverage)
		r.YouthEmploymentRate = floatOrNaN(youthRate)
		r.CollegeEmploymentRate = floatOrNaN(collegeRate)
		r.TurnoverRate = floatOrNaN(turnover)
		dataset = append(dataset, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read feature dataset: %w", err)
	}

	logger.Info("feature dataset loaded",
		slog.Int("rows", len(dataset)),
		slog.Int("features", len(FeatureNames)))
	return dataset, nil
}

// designMatrix keeps complete rows only and splits them into inputs and
// target.
func designMatrix(dataset []FeatureRow) (X [][]float64, y []float64) {
	for _, r := range dataset {
		if !r.Complete() {
			continue
		}
		X = append(X, r.Features())
		y = append(y, r.UnemploymentRate)
	}
	return X, y
}

func floatOrNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

// Package analyzer runs the embedded SQL analysis queries against the
// warehouse and renders the results.
package analyzer

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
)

// BaseInsights and SupplementalInsights number the query groups: the base
// facts always load, the supplemental facts only when their exports were
// present.
var (
	BaseInsights         = []int{1, 2, 3, 4, 5, 6, 7, 8}
	SupplementalInsights = []int{9, 10, 11, 12, 13, 14, 15}
)

// Insight is one executed query with its result grid.
type Insight struct {
	Number  int
	Title   string
	Columns []string
	Rows    [][]string
}

// Empty reports whether the query returned no rows (or failed).
func (i Insight) Empty() bool { return len(i.Rows) == 0 }

// Statistics summarizes warehouse row counts.
type Statistics struct {
	UnemploymentRows int
	EmploymentRows   int
	Industries       int
	Regions          int
	InsuranceRows    int
	EducationRows    int
	AgeRows          int
}

// Analyzer executes the embedded insight queries.
type Analyzer struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates an Analyzer over an open warehouse handle.
func New(db *sql.DB, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{db: db, logger: logger}
}

// Run executes the numbered insight queries in order. A failing query is
// logged and reported as an empty insight; the stage never aborts on a single
// bad query.
func (a *Analyzer) Run(ctx context.Context, numbers []int) ([]Insight, error) {
	queries, err := parseInsightQueries(insightsSQL)
	if err != nil {
		return nil, fmt.Errorf("parse insight queries: %w", err)
	}

	sorted := make([]int, len(numbers))
	copy(sorted, numbers)
	sort.Ints(sorted)

	insights := make([]Insight, 0, len(sorted))
	for _, n := range sorted {
		q, ok := queries[n]
		if !ok {
			return nil, fmt.Errorf("insight %d is not defined", n)
		}

		insight := Insight{Number: q.Number, Title: q.Title}
		columns, rows, err := a.runQuery(ctx, q.SQL)
		if err != nil {
			a.logger.Error("insight query failed",
				slog.Int("insight", q.Number),
				slog.String("title", q.Title),
				slog.String("error", err.Error()))
		} else {
			insight.Columns = columns
			insight.Rows = rows
			a.logger.Info("insight query complete",
				slog.Int("insight", q.Number),
				slog.Int("rows", len(rows)))
		}
		insights = append(insights, insight)
	}
	return insights, nil
}

// runQuery executes one query and stringifies the grid. Column shapes differ
// per insight, so scanning goes through sql.NullString.
func (a *Analyzer) runQuery(ctx context.Context, query string) ([]string, [][]string, error) {
	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var grid [][]string
	for rows.Next() {
		cells := make([]sql.NullString, len(columns))
		dest := make([]any, len(columns))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, nil, err
		}

		record := make([]string, len(columns))
		for i, c := range cells {
			if c.Valid {
				record[i] = c.String
			} else {
				record[i] = "NULL"
			}
		}
		grid = append(grid, record)
	}
	return columns, grid, rows.Err()
}

const statisticsQuery = `
SELECT
    (SELECT COUNT(*) FROM fact_unemployment_monthly) AS unemployment_rows,
    (SELECT COUNT(*) FROM fact_employment_by_industry_monthly) AS employment_rows,
    (SELECT COUNT(*) FROM dim_industry) AS industries,
    (SELECT COUNT(*) FROM dim_region) AS regions,
    (SELECT COUNT(*) FROM fact_employment_insurance) AS insurance_rows,
    (SELECT COUNT(*) FROM fact_employment_by_education) AS education_rows,
    (SELECT COUNT(*) FROM fact_employment_by_age) AS age_rows`

// BasicStatistics reports warehouse row counts in a single round trip.
func (a *Analyzer) BasicStatistics(ctx context.Context) (Statistics, error) {
	var s Statistics
	err := a.db.QueryRowContext(ctx, statisticsQuery).Scan(
		&s.UnemploymentRows, &s.EmploymentRows, &s.Industries, &s.Regions,
		&s.InsuranceRows, &s.EducationRows, &s.AgeRows)
	if err != nil {
		return Statistics{}, fmt.Errorf("query basic statistics: %w", err)
	}
	return s, nil
}

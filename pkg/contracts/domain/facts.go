package domain

import "math"

// UnemploymentMonthly is one row of the monthly labor-force survey for a
// region. Measures that were absent from the source pivot are NaN and load
// as NULL.
type UnemploymentMonthly struct {
	RegionID          int     `json:"region_id" db:"region_id"`
	YearMonth         string  `json:"year_month" db:"year_month"`
	UnemploymentRate  float64 `json:"unemployment_rate" db:"unemployment_rate"`
	UnemploymentLevel float64 `json:"unemployment_level" db:"unemployment_level"`
	LaborForce        float64 `json:"labor_force" db:"labor_force"`
	EmployedPersons   float64 `json:"employed_persons" db:"employed_persons"`
}

// HasAnyMeasure reports whether at least one measure survived the pivot.
func (u UnemploymentMonthly) HasAnyMeasure() bool {
	return !math.IsNaN(u.UnemploymentRate) || !math.IsNaN(u.UnemploymentLevel) ||
		!math.IsNaN(u.LaborForce) || !math.IsNaN(u.EmployedPersons)
}

// IndustryEmploymentMonthly is employed persons for one (region, KSIC
// section, month) cell, in persons.
type IndustryEmploymentMonthly struct {
	RegionID        int    `json:"region_id" db:"region_id"`
	IndustryCode    string `json:"industry_code" db:"industry_code"`
	YearMonth       string `json:"year_month" db:"year_month"`
	EmployedPersons int64  `json:"employed_persons" db:"employed_persons"`
}

// PopulationMonthly is the resident-registration population of a region for
// one month.
type PopulationMonthly struct {
	RegionID        int    `json:"region_id" db:"region_id"`
	YearMonth       string `json:"year_month" db:"year_month"`
	TotalPopulation int64  `json:"total_pop" db:"total_pop"`
}

// InsuranceMonthly is the employment-insurance enrollment snapshot for a
// region: total insured persons, new enrollments (취득) and terminations
// (상실) during the month.
type InsuranceMonthly struct {
	RegionID          int    `json:"region_id" db:"region_id"`
	YearMonth         string `json:"year_month" db:"year_month"`
	InsuredCount      int64  `json:"insured_count" db:"insured_count"`
	NewInsured        int64  `json:"new_insured" db:"new_insured"`
	TerminatedInsured int64  `json:"terminated_insured" db:"terminated_insured"`
}

// EducationEmploymentMonthly is employed persons for one (region, education
// level, month) cell, in persons.
type EducationEmploymentMonthly struct {
	RegionID      int    `json:"region_id" db:"region_id"`
	EducationID   int    `json:"education_id" db:"education_id"`
	YearMonth     string `json:"year_month" db:"year_month"`
	EmployedCount int64  `json:"employed_count" db:"employed_count"`
}

// AgeEmploymentMonthly is employed persons for one (region, age band, month)
// cell, in persons.
type AgeEmploymentMonthly struct {
	RegionID      int    `json:"region_id" db:"region_id"`
	AgeGroupID    int    `json:"age_group_id" db:"age_group_id"`
	YearMonth     string `json:"year_month" db:"year_month"`
	EmployedCount int64  `json:"employed_count" db:"employed_count"`
}

// Dataset is the complete output of the ETL stage: every dimension and fact
// row set the warehouse load consumes.
type Dataset struct {
	Regions         []Region
	Industries      []Industry
	EducationLevels []EducationLevel
	AgeGroups       []AgeGroup

	Unemployment        []UnemploymentMonthly
	IndustryEmployment  []IndustryEmploymentMonthly
	Population          []PopulationMonthly
	Insurance           []InsuranceMonthly
	EducationEmployment []EducationEmploymentMonthly
	AgeEmployment       []AgeEmploymentMonthly
}

package warehouse

// Insert statements for the star schema. The delete list runs facts first so
// the schema stays consistent even when foreign key enforcement is left on.

const (
	insertRegion    = `INSERT INTO dim_region (region_id, region_name) VALUES (?, ?)`
	insertIndustry  = `INSERT INTO dim_industry (industry_code, industry_name) VALUES (?, ?)`
	insertEducation = `INSERT INTO dim_education (education_id, education_name) VALUES (?, ?)`
	insertAgeGroup  = `INSERT INTO dim_age_group (age_group_id, age_group_name) VALUES (?, ?)`

	insertUnemployment = `INSERT INTO fact_unemployment_monthly
		(region_id, year_month, unemployment_rate, unemployment_level, labor_force, employed_persons)
		VALUES (?, ?, ?, ?, ?, ?)`

	insertIndustryEmployment = `INSERT INTO fact_employment_by_industry_monthly
		(region_id, industry_code, year_month, employed_persons)
		VALUES (?, ?, ?, ?)`

	insertPopulation = `INSERT INTO fact_population_monthly
		(region_id, year_month, total_population)
		VALUES (?, ?, ?)`

	insertInsurance = `INSERT INTO fact_employment_insurance
		(region_id, year_month, insured_count, new_insured, terminated_insured)
		VALUES (?, ?, ?, ?, ?)`

	insertEducationEmployment = `INSERT INTO fact_employment_by_education
		(region_id, education_id, year_month, employed_count)
		VALUES (?, ?, ?, ?)`

	insertAgeEmployment = `INSERT INTO fact_employment_by_age
		(region_id, age_group_id, year_month, employed_count)
		VALUES (?, ?, ?, ?)`
)

// replaceOrder lists every table in delete order: facts before the dimensions
// they reference.
var replaceOrder = []string{
	"fact_unemployment_monthly",
	"fact_employment_by_industry_monthly",
	"fact_population_monthly",
	"fact_employment_insurance",
	"fact_employment_by_education",
	"fact_employment_by_age",
	"dim_region",
	"dim_industry",
	"dim_education",
	"dim_age_group",
}

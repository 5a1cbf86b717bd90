package domain

// Region is a first-level administrative division (시도) keyed by the
// Ministry of the Interior standard numeric code.
type Region struct {
	ID   int    `json:"region_id" db:"region_id"`
	Name string `json:"region_name" db:"region_name"`
}

// Industry is a KSIC top-level section (A-U).
type Industry struct {
	Code string `json:"industry_code" db:"industry_code"`
	Name string `json:"industry_name" db:"industry_name"`
}

// EducationLevel is an attained-education bracket (초졸이하 .. 대졸이상).
type EducationLevel struct {
	ID   int    `json:"education_id" db:"education_id"`
	Name string `json:"education_name" db:"education_name"`
}

// AgeGroup is one of the six mutually exclusive age bands. Aggregate bands
// published alongside them (15-24세, 15-29세, 15-64세) are intentionally not
// part of the dimension; keeping them would double count against the base
// bands.
type AgeGroup struct {
	ID   int    `json:"age_group_id" db:"age_group_id"`
	Name string `json:"age_group_name" db:"age_group_name"`
}

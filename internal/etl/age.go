package etl

import (
	"log/slog"
	"os"
	"sort"
	"strings"

	"laborcli/pkg/contracts/domain"
)

// AgeFilePrefix locates the age-band employment export (timestamp-suffixed,
// discovered by prefix like the education export).
const AgeFilePrefix = "행정구역_시도__연령별_취업자_"

var ageGroups = []domain.AgeGroup{
	{ID: 1, Name: "15-19세"},
	{ID: 2, Name: "20-29세"},
	{ID: 3, Name: "30-39세"},
	{ID: 4, Name: "40-49세"},
	{ID: 5, Name: "50-59세"},
	{ID: 6, Name: "60세이상"},
}

// ageGroupIDs maps the band labels as they appear in the export. Aggregate
// bands (15 - 24세, 15 - 29세, 15 - 64세) are deliberately absent: they
// overlap the base bands and would double count on aggregation.
var ageGroupIDs = map[string]int{
	"15 - 19세": 1,
	"20 - 29세": 2,
	"30 - 39세": 3,
	"40 - 49세": 4,
	"50 - 59세": 5,
	"60세이상":    6,
}

// AgeGroupDimension builds the static dim_age_group rows.
func AgeGroupDimension() []domain.AgeGroup {
	out := make([]domain.AgeGroup, len(ageGroups))
	copy(out, ageGroups)
	return out
}

// ExtractAgeEmployment parses employed persons by age band. Same melt as the
// education export; rows for aggregate bands fall out via the unmapped
// label. An empty path is tolerated.
func ExtractAgeEmployment(path string, logger *slog.Logger) ([]domain.AgeEmploymentMonthly, error) {
	if path == "" {
		logger.Warn("age employment export not found, continuing without it")
		return nil, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Warn("age employment export not found, continuing without it", slog.String("path", path))
		return nil, nil
	}

	rows, err := readCSV(path, EncodingUTF8)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, nil
	}

	header := rows[0]
	regionIdx := columnIndex(header, "시도별(1)")
	bandIdx := columnIndex(header, "연령계층별(1)")
	if regionIdx < 0 || bandIdx < 0 {
		logger.Warn("age employment export missing id columns", slog.String("path", path))
		return nil, nil
	}

	logger.Info("loaded age employment export",
		slog.Int("rows", len(rows)-1),
		slog.Int("columns", len(header)))

	var facts []domain.AgeEmploymentMonthly
	for _, row := range rows[1:] {
		if len(row) <= bandIdx {
			continue
		}
		regionID, ok := RegionID(row[regionIdx])
		if !ok {
			continue
		}
		ageGroupID, ok := ageGroupIDs[strings.TrimSpace(row[bandIdx])]
		if !ok {
			continue
		}

		for j, name := range header {
			if j == regionIdx || j == bandIdx || j >= len(row) {
				continue
			}
			ym, ok := normalizeYearMonth(name)
			if !ok {
				continue
			}
			value, ok := parseNumber(row[j])
			if !ok {
				continue
			}
			facts = append(facts, domain.AgeEmploymentMonthly{
				RegionID:      regionID,
				AgeGroupID:    ageGroupID,
				YearMonth:     ym,
				EmployedCount: int64(value * 1000),
			})
		}
	}

	sort.Slice(facts, func(i, j int) bool {
		a, b := facts[i], facts[j]
		if a.YearMonth != b.YearMonth {
			return a.YearMonth < b.YearMonth
		}
		if a.RegionID != b.RegionID {
			return a.RegionID < b.RegionID
		}
		return a.AgeGroupID < b.AgeGroupID
	})

	logger.Info("normalized age employment facts", slog.Int("rows", len(facts)))
	return facts, nil
}

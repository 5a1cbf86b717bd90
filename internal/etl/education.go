package etl

import (
	"log/slog"
	"os"
	"sort"
	"strings"

	"laborcli/pkg/contracts/domain"
)

// EducationFilePrefix locates the education-level employment export: the
// portal suffixes each download with an export timestamp, so discovery goes
// by prefix.
const EducationFilePrefix = "행정구역_시도__교육정도별_취업자_"

var educationLevels = []domain.EducationLevel{
	{ID: 1, Name: "초졸이하"},
	{ID: 2, Name: "중졸"},
	{ID: 3, Name: "고졸"},
	{ID: 4, Name: "대졸이상"},
}

var educationIDs = func() map[string]int {
	m := make(map[string]int, len(educationLevels))
	for _, e := range educationLevels {
		m[e.Name] = e.ID
	}
	return m
}()

// EducationDimension builds the static dim_education rows.
func EducationDimension() []domain.EducationLevel {
	out := make([]domain.EducationLevel, len(educationLevels))
	copy(out, educationLevels)
	return out
}

// ExtractEducationEmployment parses employed persons by education level.
// Straight wide-to-long melt: 시도별 and 교육정도별 identify the row, month
// columns carry values in thousands. An empty path (no export found) is
// tolerated.
func ExtractEducationEmployment(path string, logger *slog.Logger) ([]domain.EducationEmploymentMonthly, error) {
	if path == "" {
		logger.Warn("education employment export not found, continuing without it")
		return nil, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Warn("education employment export not found, continuing without it", slog.String("path", path))
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
	regionIdx := columnIndex(header, "시도별")
	levelIdx := columnIndex(header, "교육정도별")
	if regionIdx < 0 || levelIdx < 0 {
		logger.Warn("education employment export missing id columns", slog.String("path", path))
		return nil, nil
	}

	logger.Info("loaded education employment export",
		slog.Int("rows", len(rows)-1),
		slog.Int("columns", len(header)))

	var facts []domain.EducationEmploymentMonthly
	for _, row := range rows[1:] {
		if len(row) <= levelIdx {
			continue
		}
		regionID, ok := RegionID(row[regionIdx])
		if !ok {
			continue
		}
		educationID, ok := educationIDs[strings.TrimSpace(row[levelIdx])]
		if !ok {
			continue
		}

		for j, name := range header {
			if j == regionIdx || j == levelIdx || j >= len(row) {
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
			facts = append(facts, domain.EducationEmploymentMonthly{
				RegionID:      regionID,
				EducationID:   educationID,
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
		return a.EducationID < b.EducationID
	})

	logger.Info("normalized education employment facts", slog.Int("rows", len(facts)))
	return facts, nil
}

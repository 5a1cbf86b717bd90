package etl

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"laborcli/pkg/contracts/domain"
)

// IndustryFile is the industry employment export under the raw data dir.
// It is the one CP949-encoded source.
const IndustryFile = "employment_industry.csv"

// ksicSectionRe splits "A 농업, 임업 및 어업" into the KSIC section letter and
// the section name.
var ksicSectionRe = regexp.MustCompile(`^([A-Z])\s+(.+)$`)

// ExtractIndustryEmployment parses the industry employment export into fact
// rows plus the dim_industry dimension. Only KSIC top-level sections A-U are
// kept: the source mixes roll-up category names (광공업, 제조업, ...) in with
// the sections, and summing across both would count the same workers twice.
func ExtractIndustryEmployment(path string, logger *slog.Logger) ([]domain.IndustryEmploymentMonthly, []domain.Industry, error) {
	rows, err := readCSV(path, EncodingCP949)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("industry export %s has no data rows", path)
	}

	// Some vintages of this export suffix the month columns with " 월".
	header := make([]string, len(rows[0]))
	for i, c := range rows[0] {
		header[i] = strings.ReplaceAll(strings.TrimSpace(c), " 월", "")
	}

	regionIdx := columnIndex(header, "시도별")
	industryIdx := columnIndex(header, "산업별")
	itemIdx := columnIndex(header, "항목")
	unitIdx := columnIndex(header, "단위")
	if regionIdx < 0 || industryIdx < 0 || itemIdx < 0 || unitIdx < 0 {
		return nil, nil, fmt.Errorf("industry export %s missing id columns", path)
	}

	logger.Info("loaded industry export",
		slog.Int("rows", len(rows)-1),
		slog.Int("columns", len(header)))

	type monthColumn struct {
		index     int
		yearMonth string
	}
	var monthCols []monthColumn
	for j, name := range header {
		if j == regionIdx || j == industryIdx || j == itemIdx || j == unitIdx {
			continue
		}
		if ym, ok := normalizeYearMonth(name); ok {
			monthCols = append(monthCols, monthColumn{index: j, yearMonth: ym})
		}
	}

	var facts []domain.IndustryEmploymentMonthly
	sectionNames := make(map[string]string)

	for _, row := range rows[1:] {
		if len(row) <= unitIdx {
			continue
		}
		if !strings.Contains(row[itemIdx], "취업자") || !strings.Contains(row[unitIdx], "천명") {
			continue
		}

		regionID, regionOK := RegionID(row[regionIdx])

		m := ksicSectionRe.FindStringSubmatch(strings.TrimSpace(row[industryIdx]))
		if m == nil {
			continue
		}
		code, name := m[1], m[2]
		if code > "U" {
			continue
		}
		if _, seen := sectionNames[code]; !seen {
			sectionNames[code] = name
		}
		if !regionOK {
			continue
		}

		for _, mc := range monthCols {
			if mc.index >= len(row) {
				continue
			}
			value, ok := parseNumber(row[mc.index])
			if !ok {
				continue
			}
			facts = append(facts, domain.IndustryEmploymentMonthly{
				RegionID:        regionID,
				IndustryCode:    code,
				YearMonth:       mc.yearMonth,
				EmployedPersons: int64(value * 1000),
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
		return a.IndustryCode < b.IndustryCode
	})

	industries := make([]domain.Industry, 0, len(sectionNames))
	for code, name := range sectionNames {
		industries = append(industries, domain.Industry{Code: code, Name: name})
	}
	sort.Slice(industries, func(i, j int) bool { return industries[i].Code < industries[j].Code })

	logger.Info("normalized industry employment facts",
		slog.Int("rows", len(facts)),
		slog.Int("industries", len(industries)))
	return facts, industries, nil
}

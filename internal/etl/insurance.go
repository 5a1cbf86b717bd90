package etl

import (
	"log/slog"
	"os"
	"sort"
	"strings"

	"laborcli/pkg/contracts/domain"
)

// InsuranceFile is the employment-insurance enrollment export under the
// new-data dir.
const InsuranceFile = "고용보험_월별_피보험자현황.csv"

// ExtractInsurance parses the employment-insurance export. The layout is the
// most irregular of the sources: after the region column the header repeats
// a three-column group per month — <YYYY년MM월, 취득, 상실> — and the first
// body row is a secondary header. A missing input file is tolerated (the
// supplemental facts simply stay empty).
func ExtractInsurance(path string, logger *slog.Logger) ([]domain.InsuranceMonthly, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Warn("insurance export not found, continuing without it", slog.String("path", path))
		return nil, nil
	}

	rows, err := readCSV(path, EncodingUTF8)
	if err != nil {
		return nil, err
	}
	if len(rows) < 3 {
		logger.Warn("insurance export has no data rows", slog.String("path", path))
		return nil, nil
	}

	header := rows[0]
	logger.Info("loaded insurance export",
		slog.Int("rows", len(rows)-2),
		slog.Int("columns", len(header)))

	var facts []domain.InsuranceMonthly
	regionSet := make(map[int]struct{})

	// rows[1] is the repeated 피보험자/취득/상실 sub-header.
	for _, row := range rows[2:] {
		if len(row) == 0 {
			continue
		}
		regionName := strings.TrimSpace(row[0])
		if regionName == "총계" || regionName == "전국" {
			continue
		}
		regionID, ok := RegionID(regionName)
		if !ok {
			continue
		}

		for j, col := range header {
			col = strings.TrimSpace(col)
			if !strings.Contains(col, "년") || !strings.Contains(col, "월") {
				continue
			}
			// "2023년01월" → "2023-01"
			ym := strings.ReplaceAll(strings.ReplaceAll(col, "년", "-"), "월", "")
			if j+2 >= len(row) {
				continue
			}

			insured, ok := parseNumber(row[j])
			if !ok {
				continue
			}
			// 취득/상실 can legitimately be blank; treat as zero.
			newInsured, _ := parseNumber(row[j+1])
			terminated, _ := parseNumber(row[j+2])

			facts = append(facts, domain.InsuranceMonthly{
				RegionID:          regionID,
				YearMonth:         ym,
				InsuredCount:      int64(insured),
				NewInsured:        int64(newInsured),
				TerminatedInsured: int64(terminated),
			})
			regionSet[regionID] = struct{}{}
		}
	}

	sort.Slice(facts, func(i, j int) bool {
		if facts[i].YearMonth != facts[j].YearMonth {
			return facts[i].YearMonth < facts[j].YearMonth
		}
		return facts[i].RegionID < facts[j].RegionID
	})

	logger.Info("normalized insurance facts",
		slog.Int("rows", len(facts)),
		slog.Int("regions", len(regionSet)))
	return facts, nil
}

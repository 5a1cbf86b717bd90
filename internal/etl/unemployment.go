package etl

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"laborcli/pkg/contracts/domain"
)

// UnemploymentFile is the labor-force survey export under the raw data dir.
const UnemploymentFile = "unemployment.csv"

// thousandScaledMetrics are the 항목 values published in thousands of
// persons and scaled to persons.
var thousandScaledMetrics = map[string]bool{
	"경제활동인구 (천명)": true,
	"취업자 (천명)":    true,
	"실업자 (천명)":    true,
	"15세이상인구 (천명)": true,
}

// ExtractUnemployment parses the labor-force survey export. The source is
// wide twice over: regions spread across columns and metrics stacked in the
// 항목 column. Melting the regions long and pivoting the metrics back to
// columns yields one row per (region, month).
func ExtractUnemployment(path string, logger *slog.Logger) ([]domain.UnemploymentMonthly, error) {
	rows, err := readCSV(path, EncodingUTF8)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("unemployment export %s has no data rows", path)
	}

	header := rows[0]
	timeIdx := columnIndex(header, "시점")
	itemIdx := columnIndex(header, "항목")
	if timeIdx < 0 || itemIdx < 0 {
		return nil, fmt.Errorf("unemployment export %s missing 시점/항목 columns", path)
	}

	logger.Info("loaded unemployment export",
		slog.Int("rows", len(rows)-1),
		slog.Int("columns", len(header)))

	type cellKey struct {
		regionID  int
		yearMonth string
	}
	pivot := make(map[cellKey]*domain.UnemploymentMonthly)
	var order []cellKey

	for _, row := range rows[1:] {
		if len(row) <= timeIdx || len(row) <= itemIdx {
			continue
		}
		ym, ok := normalizeYearMonth(row[timeIdx])
		if !ok {
			continue
		}
		metric := strings.TrimSpace(row[itemIdx])

		for j, name := range header {
			if j == timeIdx || j == itemIdx || j >= len(row) {
				continue
			}
			regionID, ok := RegionID(name)
			if !ok {
				continue
			}
			value, ok := parseNumber(row[j])
			if !ok {
				continue
			}
			if thousandScaledMetrics[metric] {
				value *= 1000
			}

			key := cellKey{regionID: regionID, yearMonth: ym}
			rec, exists := pivot[key]
			if !exists {
				rec = &domain.UnemploymentMonthly{
					RegionID:          regionID,
					YearMonth:         ym,
					UnemploymentRate:  math.NaN(),
					UnemploymentLevel: math.NaN(),
					LaborForce:        math.NaN(),
					EmployedPersons:   math.NaN(),
				}
				pivot[key] = rec
				order = append(order, key)
			}

			// First value wins when a metric repeats for the same cell.
			switch metric {
			case "실업률 (%)":
				if math.IsNaN(rec.UnemploymentRate) {
					rec.UnemploymentRate = value
				}
			case "실업자 (천명)":
				if math.IsNaN(rec.UnemploymentLevel) {
					rec.UnemploymentLevel = value
				}
			case "경제활동인구 (천명)":
				if math.IsNaN(rec.LaborForce) {
					rec.LaborForce = value
				}
			case "취업자 (천명)":
				if math.IsNaN(rec.EmployedPersons) {
					rec.EmployedPersons = value
				}
			}
		}
	}

	facts := make([]domain.UnemploymentMonthly, 0, len(order))
	regionSet := make(map[int]struct{})
	for _, key := range order {
		rec := pivot[key]
		if !rec.HasAnyMeasure() {
			continue
		}
		facts = append(facts, *rec)
		regionSet[rec.RegionID] = struct{}{}
	}
	sort.Slice(facts, func(i, j int) bool {
		if facts[i].YearMonth != facts[j].YearMonth {
			return facts[i].YearMonth < facts[j].YearMonth
		}
		return facts[i].RegionID < facts[j].RegionID
	})

	logger.Info("normalized unemployment facts",
		slog.Int("rows", len(facts)),
		slog.Int("regions", len(regionSet)))
	return facts, nil
}

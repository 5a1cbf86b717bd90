package etl

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"laborcli/pkg/contracts/domain"
)

// PopulationFile is the resident-registration population export under the
// raw data dir.
const PopulationFile = "population.csv"

// populationMetric selects the measure kept from the metric header row.
const populationMetric = "총인구수 (명)"

// populationRegionColumn is the label of the region column in both header
// rows.
const populationRegionColumn = "행정구역(시군구)별"

// ExtractPopulation parses the population export. The file carries a two-row
// header: months on the first row (blank under merged cells), metric names
// on the second. Only the total-population metric is kept; the 전국 row is
// dropped.
func ExtractPopulation(path string, logger *slog.Logger) ([]domain.PopulationMonthly, error) {
	rows, err := readCSV(path, EncodingUTF8)
	if err != nil {
		return nil, err
	}
	if len(rows) < 3 {
		return nil, fmt.Errorf("population export %s has no data rows", path)
	}

	monthRow := make([]string, len(rows[0]))
	copy(monthRow, rows[0])
	metricRow := rows[1]

	// Forward-fill the month header across merged cells.
	for j := 1; j < len(monthRow); j++ {
		if strings.TrimSpace(monthRow[j]) == "" {
			monthRow[j] = monthRow[j-1]
		}
	}

	logger.Info("loaded population export",
		slog.Int("rows", len(rows)-2),
		slog.Int("columns", len(monthRow)))

	var facts []domain.PopulationMonthly
	for _, row := range rows[2:] {
		if len(row) == 0 {
			continue
		}
		regionName := strings.TrimSpace(row[0])
		if regionName == "전국" || regionName == populationRegionColumn {
			continue
		}
		regionID, ok := RegionID(regionName)
		if !ok {
			continue
		}

		for j := 1; j < len(row) && j < len(metricRow); j++ {
			if strings.TrimSpace(metricRow[j]) != populationMetric {
				continue
			}
			ym, ok := normalizeYearMonth(monthRow[j])
			if !ok {
				continue
			}
			value, ok := parseNumber(row[j])
			if !ok {
				continue
			}
			facts = append(facts, domain.PopulationMonthly{
				RegionID:        regionID,
				YearMonth:       ym,
				TotalPopulation: int64(value),
			})
		}
	}

	sort.Slice(facts, func(i, j int) bool {
		if facts[i].YearMonth != facts[j].YearMonth {
			return facts[i].YearMonth < facts[j].YearMonth
		}
		return facts[i].RegionID < facts[j].RegionID
	})

	logger.Info("normalized population facts", slog.Int("rows", len(facts)))
	return facts, nil
}

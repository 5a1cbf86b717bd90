package etl

import (
	"sort"
	"strings"

	"laborcli/pkg/contracts/domain"
)

// regionCodeTable maps first-level administrative regions (시도) to the
// Ministry of the Interior standard codes. The trailing entries alias the
// renamed special self-governing provinces onto their original codes; table
// order matters because the region dimension keeps the newest name per code.
var regionCodeTable = []domain.Region{
	{ID: 11, Name: "서울특별시"},
	{ID: 26, Name: "부산광역시"},
	{ID: 27, Name: "대구광역시"},
	{ID: 28, Name: "인천광역시"},
	{ID: 29, Name: "광주광역시"},
	{ID: 30, Name: "대전광역시"},
	{ID: 31, Name: "울산광역시"},
	{ID: 36, Name: "세종특별자치시"},
	{ID: 41, Name: "경기도"},
	{ID: 42, Name: "강원도"},
	{ID: 43, Name: "충청북도"},
	{ID: 44, Name: "충청남도"},
	{ID: 45, Name: "전라북도"},
	{ID: 46, Name: "전라남도"},
	{ID: 47, Name: "경상북도"},
	{ID: 48, Name: "경상남도"},
	{ID: 50, Name: "제주특별자치도"},
	{ID: 42, Name: "강원특별자치도"},
	{ID: 45, Name: "전북특별자치도"},
}

// regionAliases folds spelling variants used by individual exports onto the
// canonical name before the code lookup.
var regionAliases = map[string]string{
	"제주도": "제주특별자치도",
}

var regionCodes = func() map[string]int {
	m := make(map[string]int, len(regionCodeTable))
	for _, r := range regionCodeTable {
		m[r.Name] = r.ID
	}
	return m
}()

// RegionID resolves a region name from a source file to its standard code.
// National totals (전국, 계, 총계) and anything else outside the table report
// ok=false and are dropped by the extractors.
func RegionID(name string) (int, bool) {
	name = strings.TrimSpace(name)
	if canonical, ok := regionAliases[name]; ok {
		name = canonical
	}
	id, ok := regionCodes[name]
	return id, ok
}

// RegionDimension builds the dim_region rows. Codes shared by an old and a
// renamed province resolve to the newest name (42 is 강원특별자치도, not
// 강원도).
func RegionDimension() []domain.Region {
	newest := make(map[int]string, len(regionCodeTable))
	for _, r := range regionCodeTable {
		newest[r.ID] = r.Name
	}

	regions := make([]domain.Region, 0, len(newest))
	for id, name := range newest {
		regions = append(regions, domain.Region{ID: id, Name: name})
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i].ID < regions[j].ID })
	return regions
}

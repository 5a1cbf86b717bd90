// Package etl normalizes the heterogeneous statistics-office CSV exports
// into the star-schema row sets the warehouse loads.
//
// Each extractor owns one source layout: wide month-per-column sheets,
// two-row headers, repeating column triplets, and mixed encodings (UTF-8
// with BOM, CP949). The shared rules live in reader.go and region.go:
// date keys normalize to "YYYY-MM", measures published in thousands of
// persons scale to persons, and region names map onto the standard
// administrative codes with national totals dropped.
package etl

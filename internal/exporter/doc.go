// Package exporter writes the analysis results to files: an XLSX workbook
// with one sheet per insight and per-insight CSVs for spreadsheet-free
// consumers.
package exporter

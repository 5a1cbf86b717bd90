package etl

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// Encoding identifies the character encoding of a source CSV.
type Encoding int

const (
	// EncodingUTF8 is UTF-8, optionally with a BOM (the KOSIS portal writes
	// utf-8-sig).
	EncodingUTF8 Encoding = iota
	// EncodingCP949 is the Windows Korean code page some exports use.
	EncodingCP949
)

// readCSV reads an entire CSV file into memory. Rows may have ragged
// lengths; callers index defensively.
func readCSV(path string, enc Encoding) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if enc == EncodingCP949 {
		r = transform.NewReader(f, korean.EUCKR.NewDecoder())
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv %s: %w", path, err)
	}

	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\uFEFF")
	}
	return rows, nil
}

// parseNumber parses a numeric cell, tolerating thousands separators and
// surrounding whitespace. Empty and placeholder cells report ok=false.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" || s == "-" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// normalizeYearMonth converts period cells like "2017.1", "2017. 01" or
// "2017-1" into the canonical "YYYY-MM" key. Zero-padding the month keeps
// string ordering chronological ("2017-1" would sort after "2017-11").
func normalizeYearMonth(s string) (string, bool) {
	s = strings.TrimSpace(s)
	sep := "."
	if !strings.Contains(s, sep) {
		sep = "-"
	}
	parts := strings.SplitN(s, sep, 2)
	if len(parts) != 2 {
		return "", false
	}
	year := strings.TrimSpace(parts[0])
	month := strings.TrimSpace(parts[1])
	if len(year) != 4 || month == "" || len(month) > 2 {
		return "", false
	}
	if _, err := strconv.Atoi(year); err != nil {
		return "", false
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return "", false
	}
	return fmt.Sprintf("%s-%02d", year, m), true
}

// columnIndex returns the index of the named header column, or -1.
func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

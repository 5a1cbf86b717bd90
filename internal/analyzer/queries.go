package analyzer

import (
	_ "embed"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

//go:embed insights.sql
var insightsSQL string

// insightMarkerRe matches the "-- [insight N] title" block delimiters.
var insightMarkerRe = regexp.MustCompile(`(?m)^--\s*\[insight\s+(\d+)\]([^\n]*)$`)

// namedQuery is one delimited block of the embedded SQL file.
type namedQuery struct {
	Number int
	Title  string
	SQL    string
}

// parseInsightQueries splits src into blocks by marker. RE2 has no lookahead,
// so instead of matching "up to the next marker" each block is the slice of
// the file between consecutive marker positions.
func parseInsightQueries(src string) (map[int]namedQuery, error) {
	matches := insightMarkerRe.FindAllStringSubmatchIndex(src, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no insight markers found")
	}

	queries := make(map[int]namedQuery, len(matches))
	for i, m := range matches {
		number, err := strconv.Atoi(src[m[2]:m[3]])
		if err != nil {
			return nil, fmt.Errorf("bad insight number at offset %d: %w", m[0], err)
		}
		title := strings.TrimSpace(src[m[4]:m[5]])

		end := len(src)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		body := strings.TrimSpace(src[m[1]:end])
		body = strings.TrimSuffix(body, ";")
		if body == "" {
			return nil, fmt.Errorf("insight %d has an empty body", number)
		}
		if _, dup := queries[number]; dup {
			return nil, fmt.Errorf("insight %d defined twice", number)
		}
		queries[number] = namedQuery{Number: number, Title: title, SQL: body}
	}
	return queries, nil
}

package app

import (
	"fmt"
	"regexp"
	"strings"
)

const maxTracedQueryLength = 512

var queryWhitespaceRegex = regexp.MustCompile(`\s+`)

// formatDBQueryForTrace collapses whitespace and folds multi-row VALUES
// lists, which chunked fixture upserts make hundreds of tuples long.
func formatDBQueryForTrace(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	normalized := foldValueRows(queryWhitespaceRegex.ReplaceAllString(query, " "))
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	return normalized[:maxTracedQueryLength] + "..."
}

func foldValueRows(query string) string {
	idx := strings.Index(query, " VALUES (")
	if idx < 0 {
		return query
	}
	start := idx + len(" VALUES ")
	body := query[start:]

	depth, rows, end := 0, 0, -1
	firstEnd := -1
scan:
	for i, r := range body {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				rows++
				if firstEnd < 0 {
					firstEnd = i + 1
				}
				end = i + 1
			}
		case ',', ' ':
			continue
		default:
			if depth == 0 {
				break scan
			}
		}
	}
	if rows < 2 {
		return query
	}
	return fmt.Sprintf("%s%s /* +%d rows */%s", query[:start], body[:firstEnd], rows-1, body[end:])
}

package http

import (
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"sharkfin/internal/api"
)

// escape HTML-escapes text destined for a hand-built fragment.
func escape(s string) string {
	return template.HTMLEscapeString(s)
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// atoiDefault parses an integer, falling back on bad input.
func atoiDefault(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// isHTMX reports whether the request came from htmx, which changes how
// redirects are issued.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// filterKey builds a stable cache key for a transaction filter.
func filterKey(f api.TransactionFilter) string {
	return strings.Join([]string{
		f.AccountID, f.CategoryID, f.StartDate.String(), f.EndDate.String(), f.Search,
	}, "|")
}

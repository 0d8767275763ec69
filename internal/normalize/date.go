// Package normalize coerces the loosely formatted dates and amounts that
// come out of extraction into the shapes the accounting platform expects.
// Both normalizers degrade instead of failing: an unparseable date passes
// through unchanged, an unparseable amount becomes zero.
package normalize

import (
	"strings"
	"time"
)

// canonicalDate is the wire format the resource server accepts.
const canonicalDate = "2006-01-02"

// dateLayouts are tried in priority order; the first one that parses
// wins. Day and month are unpadded so both "4" and "04" are accepted.
// Ambiguous all-numeric inputs resolve day-first before month-first,
// matching the source market's convention.
var dateLayouts = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"2006-1-2",
	"2-1-2006",
	"2/1/2006",
	"1/2/2006",
	"2006/1/2",
}

// Date converts a human-readable date string to canonical YYYY-MM-DD.
// Empty input yields today's date. When no layout matches, the original
// string is returned unchanged and ok is false so the caller can log the
// fallback; canonical input round-trips to itself.
func Date(s string) (date string, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Now().Format(canonicalDate), true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(canonicalDate), true
		}
	}
	return s, false
}

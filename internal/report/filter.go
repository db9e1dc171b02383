// Package report builds document-store filters from user query parameters
// and assembles the report bundle backing the report pages and charts.
package report

import (
	"strings"
	"time"

	"paisa/internal/core"
	"paisa/internal/docstore"
)

// Query carries the raw report parameters exactly as they arrive from the
// query string. Empty strings mean "no constraint".
type Query struct {
	Month    string // full English month name, e.g. "March"
	Group    string // category or saving-mode value for equality matching
	FromDate string // "YYYY-MM-DD"
	ToDate   string // "YYYY-MM-DD"
}

// BuildFilter translates a Query into a store filter. Malformed month names
// and dates contribute no constraint rather than failing; an explicit
// from/to range is applied after the month and overwrites it. The month
// range is half-open over now's year; the explicit range is inclusive.
func BuildFilter(q Query, groupField string, now time.Time) docstore.Filter {
	var f docstore.Filter

	if from, to, ok := parseMonth(q.Month, now.Year()); ok {
		f.DateFrom = from
		f.DateTo = to
		f.DateToIncl = false
	}

	from, errFrom := core.ParseDate(q.FromDate)
	to, errTo := core.ParseDate(q.ToDate)
	if errFrom == nil && errTo == nil {
		f.DateFrom = from.ISO()
		f.DateTo = to.ISO()
		f.DateToIncl = true
	}

	if g := strings.TrimSpace(q.Group); g != "" {
		f.Equals = map[string]string{groupField: g}
	}

	return f
}

// parseMonth resolves a full month name to the half-open date range
// [first day of month, first day of next month) in the given year.
// December rolls over into January of the following year. Unparseable
// names report ok=false and are ignored by the caller.
func parseMonth(name string, year int) (from, to string, ok bool) {
	t, err := time.Parse("January", strings.TrimSpace(name))
	if err != nil {
		return "", "", false
	}
	start := time.Date(year, t.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, t.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	return start.Format(core.DateLayout), end.Format(core.DateLayout), true
}

// monthFilter is the always-on "at a glance" range for the real current
// month, independent of whatever the user is filtering on.
func monthFilter(now time.Time) docstore.Filter {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	return docstore.Filter{
		DateFrom: start.Format(core.DateLayout),
		DateTo:   end.Format(core.DateLayout),
	}
}

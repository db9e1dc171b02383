package report

import (
	"testing"
	"time"
)

var testNow = time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

func TestBuildFilterMonth(t *testing.T) {
	cases := []struct {
		month    string
		wantFrom string
		wantTo   string
	}{
		{"January", "2024-01-01", "2024-02-01"},
		{"March", "2024-03-01", "2024-04-01"},
		{"December", "2024-12-01", "2025-01-01"},
	}
	for _, tc := range cases {
		t.Run(tc.month, func(t *testing.T) {
			f := BuildFilter(Query{Month: tc.month}, "category", testNow)
			if f.DateFrom != tc.wantFrom || f.DateTo != tc.wantTo {
				t.Fatalf("range = [%s, %s), want [%s, %s)", f.DateFrom, f.DateTo, tc.wantFrom, tc.wantTo)
			}
			if f.DateToIncl {
				t.Fatalf("month range must exclude the first of the next month")
			}
		})
	}
}

func TestBuildFilterInvalidMonthIgnored(t *testing.T) {
	for _, month := range []string{"Marchuary", "13", "", "  "} {
		f := BuildFilter(Query{Month: month}, "category", testNow)
		if !f.IsZero() {
			t.Fatalf("month %q should contribute no constraint, got %+v", month, f)
		}
	}
}

func TestBuildFilterRangeOverridesMonth(t *testing.T) {
	q := Query{Month: "March", FromDate: "2024-01-01", ToDate: "2024-01-31"}
	f := BuildFilter(q, "category", testNow)
	if f.DateFrom != "2024-01-01" || f.DateTo != "2024-01-31" || !f.DateToIncl {
		t.Fatalf("explicit range must override the month: %+v", f)
	}

	// Identical to supplying the range alone.
	alone := BuildFilter(Query{FromDate: "2024-01-01", ToDate: "2024-01-31"}, "category", testNow)
	if f.DateFrom != alone.DateFrom || f.DateTo != alone.DateTo || f.DateToIncl != alone.DateToIncl {
		t.Fatalf("range+month %+v differs from range alone %+v", f, alone)
	}
}

func TestBuildFilterPartialRangeIgnored(t *testing.T) {
	q := Query{Month: "March", FromDate: "2024-01-01"}
	f := BuildFilter(q, "category", testNow)
	if f.DateFrom != "2024-03-01" {
		t.Fatalf("half a range must not override the month: %+v", f)
	}

	q = Query{FromDate: "2024-01-01", ToDate: "not-a-date"}
	if f := BuildFilter(q, "category", testNow); !f.IsZero() {
		t.Fatalf("malformed to_date should degrade to unfiltered: %+v", f)
	}
}

func TestBuildFilterGroupEquality(t *testing.T) {
	f := BuildFilter(Query{Group: "Food"}, "category", testNow)
	if f.Equals["category"] != "Food" {
		t.Fatalf("missing equality constraint: %+v", f)
	}
	f = BuildFilter(Query{Group: "FD"}, "saving_mode", testNow)
	if f.Equals["saving_mode"] != "FD" {
		t.Fatalf("group field not honored: %+v", f)
	}
	if f := BuildFilter(Query{Group: "  "}, "category", testNow); len(f.Equals) != 0 {
		t.Fatalf("blank group must not constrain: %+v", f)
	}
}

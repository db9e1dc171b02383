package core

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2024-03-05", true},
		{" 2024-12-31 ", true},
		{"2024-13-01", false},
		{"05/03/2024", false},
		{"", false},
	}
	for i, tc := range cases {
		d, err := ParseDate(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
		if tc.ok && d.ISO() != "2024-03-05" && d.ISO() != "2024-12-31" {
			t.Fatalf("case %d round-trip mismatch: %s", i, d.ISO())
		}
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		Amount:      Money{Cents: 10000},
		Category:    "Food",
		PaymentMode: "Cash",
		Date:        NewDate(2024, 3, 5),
		Time:        "12:30",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Expense{
		{Amount: Money{Cents: 100}, Category: "Food", Date: Date{Time: time.Time{}}},
		{Amount: Money{Cents: 0}, Category: "Food", Date: NewDate(2024, 3, 5)},
		{Amount: Money{Cents: 100}, Category: " ", Date: NewDate(2024, 3, 5)},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestSavingValidate(t *testing.T) {
	good := Saving{
		Amount:     Money{Cents: 5000},
		SavingMode: "FD",
		Date:       NewDate(2024, 3, 10),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Saving{Amount: Money{Cents: 5000}, Date: NewDate(2024, 3, 10)}).Validate(); err == nil {
		t.Fatalf("expected error for empty saving mode")
	}
}

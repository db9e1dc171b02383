package core

import (
	"errors"
	"strings"
	"time"
)

const (
	// DateLayout is the wire format for calendar dates across the app:
	// form fields, query parameters and stored documents all use it.
	DateLayout = "2006-01-02"

	// TimeLayout is the free-text time-of-day format on expenses.
	TimeLayout = "15:04"
)

type (
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Expense is a single spending record. Time is optional on input and
	// defaulted to the current wall-clock time at creation.
	Expense struct {
		ID          string
		Amount      Money
		Category    string
		PaymentMode string
		Date        Date
		Time        string // "HH:MM"
		Note        string
	}

	// Saving is structurally parallel to Expense, with SavingMode taking
	// the place of Category+PaymentMode and no time-of-day attribute.
	Saving struct {
		ID         string
		Amount     Money
		SavingMode string
		Date       Date
		Note       string
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrEmptyCategory   = errors.New("empty category")
	ErrEmptySavingMode = errors.New("empty saving mode")
)

// NewDate creates a Date at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// ISO renders the date back to "YYYY-MM-DD".
func (d Date) ISO() string {
	return d.Format(DateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (s Saving) Validate() error {
	if err := s.Date.Validate(); err != nil {
		return err
	}
	if err := s.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(s.SavingMode) == "" {
		return ErrEmptySavingMode
	}
	return nil
}

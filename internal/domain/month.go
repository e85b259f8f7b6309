package domain

import (
	"fmt"
	"time"
)

// Period identifies a calendar month
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// NewPeriod validates and builds a Period
func NewPeriod(year, month int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, ErrInvalidPeriod
	}
	if year < 2000 || year > 2100 {
		return Period{}, ErrInvalidPeriod
	}
	return Period{Year: year, Month: month}, nil
}

// PeriodOf returns the period containing t
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: int(t.Month())}
}

// ParsePeriod parses a "YYYY-MM" string
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	return NewPeriod(t.Year(), int(t.Month()))
}

// Previous returns the period before p
func (p Period) Previous() Period {
	if p.Month == 1 {
		return Period{Year: p.Year - 1, Month: 12}
	}
	return Period{Year: p.Year, Month: p.Month - 1}
}

// Next returns the period after p
func (p Period) Next() Period {
	if p.Month == 12 {
		return Period{Year: p.Year + 1, Month: 1}
	}
	return Period{Year: p.Year, Month: p.Month + 1}
}

// Before reports whether p is strictly earlier than o
func (p Period) Before(o Period) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Month < o.Month
}

// After reports whether p is strictly later than o
func (p Period) After(o Period) bool {
	return o.Before(p)
}

// IsZero reports whether p is unset
func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

// Key is the snapshot key for the period, e.g. "2025_03"
func (p Period) Key() string {
	return fmt.Sprintf("%d_%02d", p.Year, p.Month)
}

// String formats the period as "YYYY-MM"
func (p Period) String() string {
	return fmt.Sprintf("%d-%02d", p.Year, p.Month)
}

// Bounds returns the first and last day of the period
func (p Period) Bounds() (time.Time, time.Time) {
	start := time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

// Contains reports whether t falls in the period
func (p Period) Contains(t time.Time) bool {
	return t.Year() == p.Year && int(t.Month()) == p.Month
}

// MonthsBetween returns the number of months from p to o (negative if o is earlier)
func (p Period) MonthsBetween(o Period) int {
	return (o.Year-p.Year)*12 + (o.Month - p.Month)
}

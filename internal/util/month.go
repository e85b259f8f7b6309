package util

import "time"

// LastDayOfMonth returns the number of days in the given month
func LastDayOfMonth(year int, month time.Month) int {
	// Day 0 of next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsLastDayOfMonth reports whether t falls on the final calendar day of its month
func IsLastDayOfMonth(t time.Time) bool {
	return t.Day() == LastDayOfMonth(t.Year(), t.Month())
}

// ParseDate accepts the date layouts found in ledger records
func ParseDate(s string) (time.Time, error) {
	var err error
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

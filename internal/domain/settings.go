package domain

import (
	"context"
	"strings"
)

type Settings struct {
	Categories   []string `json:"categories"`
	ExpenseTypes []string `json:"expenseTypes"`
}

// DefaultSettings is seeded the first time settings are read
func DefaultSettings() *Settings {
	return &Settings{
		Categories:   []string{"Food", "Transport", "Housing", "Entertainment", "Health", "Education", "Other"},
		ExpenseTypes: []string{"Necessary", "Unnecessary", "Emergency", "Luxury"},
	}
}

// NormalizeNames trims entries and drops empty and case-insensitive duplicates, keeping order
func NormalizeNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[strings.ToLower(n)] {
			continue
		}
		seen[strings.ToLower(n)] = true
		out = append(out, n)
	}
	return out
}

// ContainsName reports whether names holds name, ignoring case and surrounding space
func ContainsName(names []string, name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, n := range names {
		if strings.ToLower(strings.TrimSpace(n)) == name {
			return true
		}
	}
	return false
}

type SettingsRepository interface {
	Get(ctx context.Context) (*Settings, error)
	Put(ctx context.Context, settings *Settings) error
}

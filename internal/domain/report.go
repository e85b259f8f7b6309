package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyReport is the frozen snapshot of a period's reconciled figures
type MonthlyReport struct {
	Year              int             `json:"year"`
	Month             int             `json:"month"`
	TotalExpenses     decimal.Decimal `json:"totalExpenses"`
	TotalIncome       decimal.Decimal `json:"totalIncome"`
	NaiveSavings      decimal.Decimal `json:"naiveSavings"`
	RealSavings       decimal.Decimal `json:"realSavings"`
	EndOfMonthBalance decimal.Decimal `json:"endOfMonthBalance"`
	GeneratedAt       time.Time       `json:"generatedAt"`
	// ReconciliationIncomplete is set when the period had no anchored opening
	// or closing balance; RealSavings is then zero
	ReconciliationIncomplete bool `json:"reconciliationIncomplete,omitempty"`
	// EndBalanceApproximate is set when EndOfMonthBalance is the live balance
	// standing in for an unresolvable past period
	EndBalanceApproximate bool `json:"endBalanceApproximate,omitempty"`
}

// Period returns the period the report covers
func (r *MonthlyReport) Period() Period {
	return Period{Year: r.Year, Month: r.Month}
}

type ReportRepository interface {
	// Get returns ErrReportNotFound when no snapshot exists for the period
	Get(ctx context.Context, period Period) (*MonthlyReport, error)
	// GetAll returns every snapshot ordered by (year, month) ascending
	GetAll(ctx context.Context) ([]*MonthlyReport, error)
	// Put stores the whole report under reports/{year}_{MM}, replacing any previous one
	Put(ctx context.Context, report *MonthlyReport) error
}

// BalanceSource tells where a reconciled balance came from
type BalanceSource string

const (
	BalanceSourceLive          BalanceSource = "live"
	BalanceSourceSnapshot      BalanceSource = "snapshot"
	BalanceSourceReconstructed BalanceSource = "reconstructed"
	BalanceSourceOpening       BalanceSource = "opening"
	// BalanceSourceApproximate is the live balance used for a past period with no anchor
	BalanceSourceApproximate BalanceSource = "approximate"
	BalanceSourceUnresolved  BalanceSource = "unresolved"
)

// Authoritative reports whether the source is exact for its period
func (s BalanceSource) Authoritative() bool {
	switch s {
	case BalanceSourceLive, BalanceSourceSnapshot, BalanceSourceReconstructed, BalanceSourceOpening:
		return true
	}
	return false
}

// ResolvedBalance is a balance at a period boundary together with its provenance
type ResolvedBalance struct {
	Amount decimal.Decimal `json:"amount"`
	Source BalanceSource   `json:"source"`
	// Degraded is set by the standalone resolvers when part of the ledger
	// could not be read and cached or empty data was used
	Degraded bool `json:"degraded,omitempty"`
}

// Reconciliation is the real-savings result for one period
type Reconciliation struct {
	Period       Period          `json:"period"`
	StartBalance ResolvedBalance `json:"startBalance"`
	EndBalance   ResolvedBalance `json:"endBalance"`
	NaiveSavings decimal.Decimal `json:"naiveSavings"`
	RealSavings  decimal.Decimal `json:"realSavings"`
	// FromSnapshot is set when RealSavings is the stored snapshot value
	FromSnapshot bool `json:"fromSnapshot"`
	// Incomplete is set when either boundary could not be resolved exactly,
	// or the stored snapshot was written that way
	Incomplete bool     `json:"reconciliationIncomplete"`
	Degraded   bool     `json:"degraded"`
	Warnings   []string `json:"warnings,omitempty"`
}

// AccumulatedSavings is the year-to-date sum of real savings
type AccumulatedSavings struct {
	Year         int             `json:"year"`
	ThroughMonth int             `json:"throughMonth"`
	Total        decimal.Decimal `json:"total"`
	Incomplete   bool            `json:"reconciliationIncomplete"`
	Degraded     bool            `json:"degraded"`
	Warnings     []string        `json:"warnings,omitempty"`
}

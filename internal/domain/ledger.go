package domain

import "context"

// LedgerStore is the remote hierarchical key-value store holding the ledger.
// Paths are slash separated, e.g. "accounts/-Nx1" or "reports/2025_03".
type LedgerStore interface {
	// Get returns the JSON value at path. Reading a collection path returns an
	// object keyed by child name. found is false when nothing is stored there.
	Get(ctx context.Context, path string) (value []byte, found bool, err error)
	// Set replaces the value at path, including any children
	Set(ctx context.Context, path string, value []byte) error
	// Append stores value under a newly generated child key of path and returns the key
	Append(ctx context.Context, path string, value []byte) (string, error)
	// Delete removes path and its children. Deleting a missing path is not an error.
	Delete(ctx context.Context, path string) error
}

// Collection names, relative to the ledger namespace
const (
	CollectionAccounts     = "accounts"
	CollectionTransactions = "transactions"
	CollectionRecurring    = "recurring_expenses"
	CollectionReports      = "reports"
	CollectionGoals        = "goals"
	CollectionSettings     = "settings"
)

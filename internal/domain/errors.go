package domain

import "errors"

// Domain errors
var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrLedgerUnavailable = errors.New("ledger store unavailable")
	// ErrLedgerRejected is a permanent refusal by the ledger backend, such as
	// bad credentials or a malformed path
	ErrLedgerRejected = errors.New("ledger store rejected the request")

	ErrAccountNotFound     = errors.New("account not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrRecurringNotFound   = errors.New("recurring expense not found")
	ErrReportNotFound      = errors.New("monthly report not found")

	ErrAccountNameExists = errors.New("an account with this name already exists")
	ErrRecurringExists   = errors.New("a recurring expense with this description already exists")
	ErrCategoryExists    = errors.New("category already exists")
	ErrExpenseTypeExists = errors.New("expense type already exists")

	ErrNameRequired       = errors.New("name is required")
	ErrNameTooLong        = errors.New("name exceeds maximum length")
	ErrConceptRequired    = errors.New("concept is required")
	ErrCategoryRequired   = errors.New("category is required")
	ErrAmountNotPositive  = errors.New("amount must be greater than zero")
	ErrNegativeAmount     = errors.New("amount cannot be negative")
	ErrFutureDate         = errors.New("date cannot be in the future")
	ErrInvalidKind        = errors.New("invalid transaction kind")
	ErrInvalidPeriodicity = errors.New("invalid periodicity")
	ErrInvalidPeriod      = errors.New("invalid period")
	ErrFuturePeriod       = errors.New("period is in the future")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInvalidLedgerPath  = errors.New("invalid ledger path")
	ErrUnsupportedFormat  = errors.New("unsupported export format")
	ErrReportWriteFailed  = errors.New("monthly report could not be stored")
)

// Validation constants
const (
	MaxNameLength    = 255
	MaxConceptLength = 255
)

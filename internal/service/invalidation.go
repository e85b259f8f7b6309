package service

// Cache keys. Collection keys hold the raw records; summary and analysis
// hold values derived from several collections.
const (
	KeyAccounts     = "accounts"
	KeyTransactions = "transactions"
	KeyRecurring    = "recurring"
	KeyReports      = "reports"
	KeyGoals        = "goals"
	KeySettings     = "settings"
	KeySummary      = "summary"
	KeyAnalysis     = "analysis"
)

// invalidationTable lists, per written collection, every key that must be
// dropped: the collection itself and the derived entries computed from it.
var invalidationTable = map[string][]string{
	KeyAccounts:     {KeyAccounts, KeySummary, KeyAnalysis},
	KeyTransactions: {KeyTransactions, KeySummary, KeyAnalysis},
	KeyRecurring:    {KeyRecurring, KeySummary},
	KeyReports:      {KeyReports, KeySummary, KeyAnalysis},
	KeyGoals:        {KeyGoals, KeySummary},
	KeySettings:     {KeySettings},
}

// DependentKeys returns the keys invalidated by a write to collection
func DependentKeys(collection string) []string {
	if keys, ok := invalidationTable[collection]; ok {
		return keys
	}
	return []string{collection}
}

// Invalidate drops the cache entries affected by a write to collection
func (l *Ledger) Invalidate(collection string) {
	l.cache.Invalidate(DependentKeys(collection)...)
}

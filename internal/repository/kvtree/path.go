// Package kvtree holds the path and tree helpers shared by the flat
// key-value ledger backends.
package kvtree

import (
	"fmt"
	"strings"

	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
)

// Clean normalizes a ledger path and rejects segments the Realtime Database
// would refuse
func Clean(path string) (string, error) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty path", domain.ErrInvalidLedgerPath)
	}
	for _, seg := range strings.Split(trimmed, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return "", fmt.Errorf("%w: %q", domain.ErrInvalidLedgerPath, path)
		}
		if strings.ContainsAny(seg, ".$#[]") {
			return "", fmt.Errorf("%w: %q", domain.ErrInvalidLedgerPath, path)
		}
	}
	return trimmed, nil
}

// Join joins path segments with "/"
func Join(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s = strings.Trim(s, "/"); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}

// IsWithin reports whether path equals base or is one of its descendants
func IsWithin(path, base string) bool {
	return path == base || strings.HasPrefix(path, base+"/")
}

// IsAncestor reports whether candidate is a strict ancestor of path
func IsAncestor(candidate, path string) bool {
	return strings.HasPrefix(path, candidate+"/")
}

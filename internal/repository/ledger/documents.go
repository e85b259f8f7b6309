// Package ledger maps domain records onto ledger store documents.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	"github.com/dafibh/finanzas/finanzas-backend/internal/repository/kvtree"
	"github.com/rs/zerolog/log"
)

func getDoc[D any](ctx context.Context, store domain.LedgerStore, path string) (*D, bool, error) {
	raw, found, err := store.Get(ctx, path)
	if err != nil || !found {
		return nil, false, err
	}
	var doc D
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", path, err)
	}
	return &doc, true, nil
}

// getCollection decodes every child of path. Children that fail to decode are
// logged and skipped so one bad record does not hide the rest of the ledger.
func getCollection[D any](ctx context.Context, store domain.LedgerStore, path string) (map[string]D, error) {
	raw, found, err := store.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if !found {
		return map[string]D{}, nil
	}

	var children map[string]json.RawMessage
	if err := json.Unmarshal(raw, &children); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	out := make(map[string]D, len(children))
	for key, child := range children {
		if string(child) == "null" {
			continue
		}
		var doc D
		if err := json.Unmarshal(child, &doc); err != nil {
			log.Warn().Err(err).Str("path", kvtree.Join(path, key)).Msg("Skipping malformed ledger record")
			continue
		}
		out[key] = doc
	}
	return out, nil
}

func putDoc(ctx context.Context, store domain.LedgerStore, path string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return store.Set(ctx, path, raw)
}

func appendDoc(ctx context.Context, store domain.LedgerStore, path string, doc any) (string, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", path, err)
	}
	return store.Append(ctx, path, raw)
}

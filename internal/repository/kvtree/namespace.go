package kvtree

import (
	"context"

	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
)

// Namespaced prefixes every path of an underlying store with a fixed namespace
type Namespaced struct {
	store     domain.LedgerStore
	namespace string
}

// WithNamespace wraps store so that all paths live under namespace.
// An empty namespace returns store unchanged.
func WithNamespace(store domain.LedgerStore, namespace string) domain.LedgerStore {
	if Join(namespace) == "" {
		return store
	}
	return &Namespaced{store: store, namespace: Join(namespace)}
}

func (n *Namespaced) resolve(path string) (string, error) {
	clean, err := Clean(path)
	if err != nil {
		return "", err
	}
	return Join(n.namespace, clean), nil
}

func (n *Namespaced) Get(ctx context.Context, path string) ([]byte, bool, error) {
	full, err := n.resolve(path)
	if err != nil {
		return nil, false, err
	}
	return n.store.Get(ctx, full)
}

func (n *Namespaced) Set(ctx context.Context, path string, value []byte) error {
	full, err := n.resolve(path)
	if err != nil {
		return err
	}
	return n.store.Set(ctx, full, value)
}

func (n *Namespaced) Append(ctx context.Context, path string, value []byte) (string, error) {
	full, err := n.resolve(path)
	if err != nil {
		return "", err
	}
	return n.store.Append(ctx, full, value)
}

func (n *Namespaced) Delete(ctx context.Context, path string) error {
	full, err := n.resolve(path)
	if err != nil {
		return err
	}
	return n.store.Delete(ctx, full)
}

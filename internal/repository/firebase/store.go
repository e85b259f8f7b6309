// Package firebase talks to a Firebase Realtime Database over its REST API.
package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dafibh/finanzas/finanzas-backend/internal/config"
	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	"github.com/dafibh/finanzas/finanzas-backend/internal/repository/kvtree"
)

const defaultTimeout = 10 * time.Second

// Store implements domain.LedgerStore against {base}/{path}.json
type Store struct {
	baseURL   string
	authToken string
	client    *http.Client
}

// NewStore creates a Store. A nil client gets a 10s timeout.
func NewStore(cfg config.FirebaseConfig, client *http.Client) *Store {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Store{baseURL: cfg.URL, authToken: cfg.AuthToken, client: client}
}

func (s *Store) url(path string) string {
	u := s.baseURL + "/" + path + ".json"
	if s.authToken != "" {
		u += "?auth=" + url.QueryEscape(s.authToken)
	}
	return u
}

func (s *Store) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.url(path), reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLedgerUnavailable, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", domain.ErrLedgerUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrLedgerUnavailable, path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s %s returned %d", statusError(resp.StatusCode), method, path, resp.StatusCode)
	}
	return data, nil
}

// statusError classifies a failed response. Server errors, timeouts and
// throttling are transient; any other status means the request itself or
// the credentials are wrong and retrying will not help.
func statusError(code int) error {
	switch {
	case code >= http.StatusInternalServerError,
		code == http.StatusRequestTimeout,
		code == http.StatusTooManyRequests:
		return domain.ErrLedgerUnavailable
	}
	return domain.ErrLedgerRejected
}

// Get reads path. The database answers "null" for a missing path.
func (s *Store) Get(ctx context.Context, path string) ([]byte, bool, error) {
	path, err := kvtree.Clean(path)
	if err != nil {
		return nil, false, err
	}
	data, err := s.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, false, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, false, nil
	}
	return data, true, nil
}

// Set writes value at path with PUT
func (s *Store) Set(ctx context.Context, path string, value []byte) error {
	path, err := kvtree.Clean(path)
	if err != nil {
		return err
	}
	_, err = s.do(ctx, http.MethodPut, path, value)
	return err
}

// Append POSTs value and returns the generated push key
func (s *Store) Append(ctx context.Context, path string, value []byte) (string, error) {
	path, err := kvtree.Clean(path)
	if err != nil {
		return "", err
	}
	data, err := s.do(ctx, http.MethodPost, path, value)
	if err != nil {
		return "", err
	}

	var resp struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &resp); err != nil || resp.Name == "" {
		return "", fmt.Errorf("%w: push to %s returned no key", domain.ErrLedgerUnavailable, path)
	}
	return resp.Name, nil
}

// Delete removes path
func (s *Store) Delete(ctx context.Context, path string) error {
	path, err := kvtree.Clean(path)
	if err != nil {
		return err
	}
	_, err = s.do(ctx, http.MethodDelete, path, nil)
	return err
}

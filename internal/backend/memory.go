package backend

import (
	"context"
	"sync"

	"fintrack/internal/core"
)

// MemoryStore keeps everything in process memory. It backs local-only runs
// and tests; state disappears with the process.
type MemoryStore struct {
	mu    sync.Mutex
	txs   map[string]map[string]core.Transaction // userID -> id -> transaction
	prefs map[string]map[string]string
}

var _ Backend = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		txs:   make(map[string]map[string]core.Transaction),
		prefs: make(map[string]map[string]string),
	}
}

func (m *MemoryStore) LoadTransactions(_ context.Context, userID string) ([]core.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]core.Transaction, 0, len(m.txs[userID]))
	for _, tx := range m.txs[userID] {
		out = append(out, tx)
	}
	return out, nil
}

func (m *MemoryStore) SaveTransaction(_ context.Context, userID string, tx core.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.txs[userID] == nil {
		m.txs[userID] = make(map[string]core.Transaction)
	}
	m.txs[userID][tx.ID] = tx
	return nil
}

func (m *MemoryStore) DeleteTransaction(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.txs[userID], id)
	return nil
}

func (m *MemoryStore) ClearTransactions(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.txs, userID)
	return nil
}

func (m *MemoryStore) SavePreference(_ context.Context, userID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.prefs[userID] == nil {
		m.prefs[userID] = make(map[string]string)
	}
	m.prefs[userID][key] = value
	return nil
}

func (m *MemoryStore) LoadPreference(_ context.Context, userID, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.prefs[userID][key], nil
}

// Package memory is an in-process spreadsheet mirror used in development and
// tests where no Google credentials exist.
package memory

import (
	"context"
	"fmt"
	"sync"

	"fintrack/internal/core"
	ports "fintrack/internal/sheets"
)

type row struct {
	userID string
	tx     core.Transaction
}

type Store struct {
	mu   sync.Mutex
	rows []row
}

var (
	_ ports.TransactionWriter  = (*Store)(nil)
	_ ports.TransactionDeleter = (*Store)(nil)
)

func New() *Store {
	return &Store{}
}

// Append stores the transaction and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, userID string, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row{userID: userID, tx: tx})
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// Delete removes a mirrored transaction by id. Missing ids are a no-op.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.rows {
		if r.tx.ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

// Transactions returns a copy of the mirrored transactions, in append order.
func (s *Store) Transactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, 0, len(s.rows))
	for _, r := range s.rows {
		out = append(out, r.tx)
	}
	return out
}

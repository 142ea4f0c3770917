// Package store implements the transaction store: the single owner of each
// user's canonical transaction set. State lives in memory and is treated as
// authoritative the moment a mutation is accepted; the injected backend is
// written to asynchronously, fire-and-forget. The aggregation engine only
// ever sees immutable snapshots taken from here.
package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/backend"
	"fintrack/internal/core"
)

// Preference keys persisted through the backend.
const (
	PrefPeriod = "period"
	PrefTheme  = "theme"
)

const persistTimeout = 10 * time.Second

// SyncPublisher notifies the background worker about accepted mutations.
// Publishing is best-effort: a failure is logged and the mutation stands.
type SyncPublisher interface {
	PublishTransactionSync(ctx context.Context, userID, id string) error
	PublishTransactionDelete(ctx context.Context, userID, id string) error
}

// Store holds per-user transaction sets on top of a storage backend selected
// at startup. There is exactly one logical writer per user (the active
// session), so a single mutex around the maps is all the locking needed.
type Store struct {
	mu        sync.Mutex
	users     map[string][]core.Transaction
	loaded    map[string]bool
	backend   backend.Backend
	publisher SyncPublisher
	catalog   *core.Catalog

	wg sync.WaitGroup // in-flight persistence writes
}

func New(b backend.Backend, publisher SyncPublisher, catalog *core.Catalog) *Store {
	if catalog == nil {
		catalog = core.DefaultCatalog()
	}
	return &Store{
		users:     make(map[string][]core.Transaction),
		loaded:    make(map[string]bool),
		backend:   b,
		publisher: publisher,
		catalog:   catalog,
	}
}

// Catalog returns the immutable category catalog.
func (s *Store) Catalog() *core.Catalog {
	return s.catalog
}

// List returns a display-ordered copy of the user's transactions: date
// descending, createdAt descending within a day.
func (s *Store) List(ctx context.Context, userID string) ([]core.Transaction, error) {
	snapshot, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return core.SortForDisplay(snapshot), nil
}

// Report runs the aggregation engine over an immutable snapshot of the user's
// transaction set. Aggregation is total: it cannot fail for any stored data.
func (s *Store) Report(ctx context.Context, userID string, p core.Period, now time.Time) (core.Report, error) {
	snapshot, err := s.snapshot(ctx, userID)
	if err != nil {
		return core.Report{}, err
	}
	return core.BuildReport(snapshot, p, now, s.catalog), nil
}

// Add validates and records a new transaction. The amount's sign is ignored:
// the magnitude is stored and the type carries the direction. A zero date
// defaults to today. The in-memory set is updated first; the backend write
// follows asynchronously and its failure never rolls the mutation back.
func (s *Store) Add(ctx context.Context, userID string, amount int64, typ core.TransactionType, categoryID, description string, date core.Date) (core.Transaction, error) {
	if amount == 0 {
		return core.Transaction{}, core.ErrInvalidAmount
	}
	if amount < 0 {
		amount = -amount
	}
	if date.IsZero() {
		date = core.DateOf(time.Now())
	}

	tx := core.Transaction{
		ID:          uuid.NewString(),
		Amount:      amount,
		Type:        typ,
		CategoryID:  categoryID,
		Description: description,
		Date:        date,
		CreatedAt:   time.Now().UTC(),
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	if _, err := s.snapshot(ctx, userID); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	s.users[userID] = append(s.users[userID], tx)
	s.mu.Unlock()

	s.persistAsync("add", userID, func(ctx context.Context) error {
		if err := s.backend.SaveTransaction(ctx, userID, tx); err != nil {
			return err
		}
		s.publishSync(ctx, userID, tx.ID)
		return nil
	})

	slog.InfoContext(ctx, "Transaction recorded",
		"transaction_id", tx.ID,
		"user_id", userID,
		"tx_type", string(tx.Type),
		"category_id", tx.CategoryID,
		"amount", tx.Amount,
		"tx_date", tx.Date.String())
	return tx, nil
}

// Delete removes a transaction by id. Unknown ids are a no-op, not an error.
func (s *Store) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.snapshot(ctx, userID); err != nil {
		return err
	}

	s.mu.Lock()
	txs := s.users[userID]
	removed := false
	for i, tx := range txs {
		if tx.ID == id {
			s.users[userID] = append(txs[:i:i], txs[i+1:]...)
			removed = true
			break
		}
	}
	s.mu.Unlock()

	if !removed {
		return nil
	}

	s.persistAsync("delete", userID, func(ctx context.Context) error {
		if err := s.backend.DeleteTransaction(ctx, userID, id); err != nil {
			return err
		}
		s.publishDelete(ctx, userID, id)
		return nil
	})

	slog.InfoContext(ctx, "Transaction deleted", "transaction_id", id, "user_id", userID)
	return nil
}

// Clear drops the user's entire transaction set.
func (s *Store) Clear(ctx context.Context, userID string) error {
	s.mu.Lock()
	s.users[userID] = nil
	s.loaded[userID] = true
	s.mu.Unlock()

	s.persistAsync("clear", userID, func(ctx context.Context) error {
		return s.backend.ClearTransactions(ctx, userID)
	})

	slog.InfoContext(ctx, "Transactions cleared", "user_id", userID)
	return nil
}

// Seed replaces the user's transaction set with generated demo data.
func (s *Store) Seed(ctx context.Context, userID string, txs []core.Transaction) error {
	replacement := make([]core.Transaction, len(txs))
	copy(replacement, txs)

	s.mu.Lock()
	s.users[userID] = replacement
	s.loaded[userID] = true
	s.mu.Unlock()

	s.persistAsync("seed", userID, func(ctx context.Context) error {
		if err := s.backend.ClearTransactions(ctx, userID); err != nil {
			return err
		}
		for _, tx := range replacement {
			if err := s.backend.SaveTransaction(ctx, userID, tx); err != nil {
				return err
			}
			s.publishSync(ctx, userID, tx.ID)
		}
		return nil
	})

	slog.InfoContext(ctx, "Demo data seeded", "user_id", userID, "count", len(replacement))
	return nil
}

// SetPreference stores a UI preference (selected period, theme). Preferences
// are written through the same fire-and-forget path as transactions.
func (s *Store) SetPreference(ctx context.Context, userID, key, value string) {
	s.persistAsync("preference", userID, func(ctx context.Context) error {
		return s.backend.SavePreference(ctx, userID, key, value)
	})
}

// GetPreference reads a stored preference, or "" when unset.
func (s *Store) GetPreference(ctx context.Context, userID, key string) (string, error) {
	return s.backend.LoadPreference(ctx, userID, key)
}

// Wait blocks until all in-flight persistence writes have finished. Called on
// shutdown and by tests.
func (s *Store) Wait() {
	s.wg.Wait()
}

// snapshot returns a copy of the user's transactions, loading them from the
// backend on first touch. A load failure surfaces only when there is no
// in-memory state to fall back on.
func (s *Store) snapshot(ctx context.Context, userID string) ([]core.Transaction, error) {
	s.mu.Lock()
	if s.loaded[userID] {
		defer s.mu.Unlock()
		return copyTransactions(s.users[userID]), nil
	}
	s.mu.Unlock()

	txs, err := s.backend.LoadTransactions(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded[userID] {
		s.users[userID] = txs
		s.loaded[userID] = true
	}
	return copyTransactions(s.users[userID]), nil
}

func (s *Store) persistAsync(op, userID string, fn func(context.Context) error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			// The in-memory state already accepted the mutation; a failed
			// write is logged, not retried, and never surfaced.
			slog.Error("Persistence write failed",
				"operation", op,
				"user_id", userID,
				"error", err)
		}
	}()
}

func (s *Store) publishSync(ctx context.Context, userID, id string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionSync(ctx, userID, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"transaction_id", id, "user_id", userID, "error", err)
	}
}

func (s *Store) publishDelete(ctx context.Context, userID, id string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionDelete(ctx, userID, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete message",
			"transaction_id", id, "user_id", userID, "error", err)
	}
}

func copyTransactions(txs []core.Transaction) []core.Transaction {
	out := make([]core.Transaction, len(txs))
	copy(out, txs)
	return out
}

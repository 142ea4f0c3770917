// Package backend defines the storage capability object the transaction store
// is built on. The concrete backend is selected once at startup by the
// factory; nothing else in the process knows or caches which one is active.
package backend

import (
	"context"

	"fintrack/internal/core"
)

// Backend persists per-user transaction sets and UI preferences. The store
// treats its in-memory state as authoritative; backend writes happen after the
// fact and their failures are logged, not surfaced.
type Backend interface {
	// LoadTransactions returns the persisted transaction set for a user.
	LoadTransactions(ctx context.Context, userID string) ([]core.Transaction, error)

	// SaveTransaction persists one transaction record.
	SaveTransaction(ctx context.Context, userID string, tx core.Transaction) error

	// DeleteTransaction removes a transaction by id. Unknown ids are a no-op.
	DeleteTransaction(ctx context.Context, userID, id string) error

	// ClearTransactions removes a user's entire transaction set.
	ClearTransactions(ctx context.Context, userID string) error

	// SavePreference stores a UI preference value (selected period, theme).
	SavePreference(ctx context.Context, userID, key, value string) error

	// LoadPreference returns a stored preference, or "" when unset.
	LoadPreference(ctx context.Context, userID, key string) (string, error)
}

// CleanupFunc releases a backend's resources on shutdown.
type CleanupFunc func() error

// Result contains the backend instance and optional cleanup function.
type Result struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Type selects a backend implementation.
type Type string

const (
	MemoryBackend Type = "memory"
	SQLiteBackend Type = "sqlite"
)

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case MemoryBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// Config holds configuration for backend creation.
type Config struct {
	Type Type

	// SQLite specific
	SQLiteDBPath string
}

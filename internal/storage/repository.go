// Package storage implements the SQLite-backed persistence layer: the durable
// copy of each user's transaction set, UI preferences, and the sync queue the
// background worker drains.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

// Sync status values for the worker queue.
const (
	SyncPending = "pending"
	SyncDone    = "synced"
	SyncError   = "error"
)

// ErrNotFound is returned when a transaction id has no row.
var ErrNotFound = errors.New("transaction not found")

type SQLiteRepository struct {
	db *sql.DB
}

// PendingTransaction is the minimal row shape the sync worker needs to drain
// the queue.
type PendingTransaction struct {
	ID        string
	UserID    string
	CreatedAt time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadTransactions returns every stored transaction for a user, newest date
// first.
func (r *SQLiteRepository) LoadTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, amount, type, category_id, description, tx_date, created_at
		FROM transactions
		WHERE user_id = ?
		ORDER BY tx_date DESC, created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

// SaveTransaction upserts one record and resets its sync status so the worker
// picks it up again.
func (r *SQLiteRepository) SaveTransaction(ctx context.Context, userID string, tx core.Transaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, amount, type, category_id, description, tx_date, created_at, sync_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			amount = excluded.amount,
			type = excluded.type,
			category_id = excluded.category_id,
			description = excluded.description,
			tx_date = excluded.tx_date,
			sync_status = excluded.sync_status`,
		tx.ID, userID, tx.Amount, string(tx.Type), tx.CategoryID, tx.Description,
		tx.Date.String(), tx.CreatedAt.UTC().Format(time.RFC3339Nano), SyncPending)
	if err != nil {
		return fmt.Errorf("save transaction: %w", err)
	}

	slog.DebugContext(ctx, "Transaction saved to SQLite",
		"transaction_id", tx.ID,
		"user_id", userID,
		"amount", tx.Amount,
		"tx_type", string(tx.Type))
	return nil
}

// DeleteTransaction removes a row by id. Deleting a missing id is a no-op.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE user_id = ? AND id = ?`, userID, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

// ClearTransactions drops a user's entire transaction set.
func (r *SQLiteRepository) ClearTransactions(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}
	return nil
}

// SavePreference upserts a UI preference value.
func (r *SQLiteRepository) SavePreference(ctx context.Context, userID, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO preferences (user_id, key, value) VALUES (?, ?, ?)
		ON CONFLICT(user_id, key) DO UPDATE SET value = excluded.value`,
		userID, key, value)
	if err != nil {
		return fmt.Errorf("save preference: %w", err)
	}
	return nil
}

// LoadPreference returns a stored preference, or "" when unset.
func (r *SQLiteRepository) LoadPreference(ctx context.Context, userID, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE user_id = ? AND key = ?`, userID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load preference: %w", err)
	}
	return value, nil
}

// GetTransaction fetches one transaction by id for the sync worker.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, string, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, amount, type, category_id, description, tx_date, created_at, user_id
		FROM transactions WHERE id = ?`, id)

	var (
		tx                        core.Transaction
		typ, date, created, owner string
	)
	err := row.Scan(&tx.ID, &tx.Amount, &typ, &tx.CategoryID, &tx.Description, &date, &created, &owner)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, "", ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, "", fmt.Errorf("get transaction: %w", err)
	}
	if err := fillParsedFields(&tx, typ, date, created); err != nil {
		return core.Transaction{}, "", err
	}
	return tx, owner, nil
}

// GetPendingSync returns up to limit transactions still waiting to be
// mirrored, oldest first.
func (r *SQLiteRepository) GetPendingSync(ctx context.Context, limit int) ([]PendingTransaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, created_at
		FROM transactions
		WHERE sync_status = ?
		ORDER BY created_at ASC
		LIMIT ?`, SyncPending, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending transactions: %w", err)
	}
	defer rows.Close()

	var pending []PendingTransaction
	for rows.Next() {
		var p PendingTransaction
		var created string
		if err := rows.Scan(&p.ID, &p.UserID, &created); err != nil {
			return nil, fmt.Errorf("scan pending transaction: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
			p.CreatedAt = t
		}
		pending = append(pending, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending transactions: %w", err)
	}
	return pending, nil
}

// MarkSynced records a successful mirror of a transaction.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET sync_status = ?, synced_at = ? WHERE id = ?`,
		SyncDone, time.Now().UTC().Format(time.RFC3339Nano), id); err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}

	slog.InfoContext(ctx, "Transaction marked as synced", "transaction_id", id)
	return nil
}

// MarkSyncError flags a transaction whose mirror attempt failed.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET sync_status = ? WHERE id = ?`, SyncError, id); err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}

	slog.WarnContext(ctx, "Transaction marked with sync error", "transaction_id", id)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		tx                 core.Transaction
		typ, date, created string
	)
	if err := row.Scan(&tx.ID, &tx.Amount, &typ, &tx.CategoryID, &tx.Description, &date, &created); err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	if err := fillParsedFields(&tx, typ, date, created); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

func fillParsedFields(tx *core.Transaction, typ, date, created string) error {
	tx.Type = core.TransactionType(typ)

	parsedDate, err := core.ParseDate(date)
	if err != nil {
		return fmt.Errorf("parse stored date %q: %w", date, err)
	}
	tx.Date = parsedDate

	createdAt, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return fmt.Errorf("parse stored created_at %q: %w", created, err)
	}
	tx.CreatedAt = createdAt
	return nil
}

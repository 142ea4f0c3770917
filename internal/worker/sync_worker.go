// Package worker mirrors durable transactions into the spreadsheet export.
// Messages from the sync queue drive the normal path; the pending-row scan is
// the backstop for messages that never arrived.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/sheets"
	"fintrack/internal/storage"
)

type SyncWorker struct {
	storage   *storage.SQLiteRepository
	writer    sheets.TransactionWriter
	deleter   sheets.TransactionDeleter
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, writer sheets.TransactionWriter, deleter sheets.TransactionDeleter, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		writer:    writer,
		deleter:   deleter,
		batchSize: batchSize,
	}
}

// HandleMessage dispatches one queue message by kind.
func (w *SyncWorker) HandleMessage(ctx context.Context, msg *amqp.SyncMessage) error {
	switch msg.Kind {
	case amqp.KindSync:
		return w.HandleSyncMessage(ctx, msg)
	case amqp.KindDelete:
		return w.HandleDeleteMessage(ctx, msg)
	default:
		// Unknown kinds are dropped, not requeued.
		slog.WarnContext(ctx, "Ignoring message with unknown kind",
			"kind", msg.Kind, "transaction_id", msg.TransactionID)
		return nil
	}
}

// HandleSyncMessage mirrors one transaction to the spreadsheet. The message
// only carries identifiers; the row is fetched fresh from the database.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.SyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"transaction_id", msg.TransactionID,
		"user_id", msg.UserID)

	tx, userID, err := w.storage.GetTransaction(ctx, msg.TransactionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Deleted before the worker got to it. Nothing to mirror.
			slog.InfoContext(ctx, "Transaction gone before sync, skipping",
				"transaction_id", msg.TransactionID)
			return nil
		}
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	return w.mirrorTransaction(ctx, userID, tx.ID, tx)
}

// HandleDeleteMessage removes a mirrored transaction from the spreadsheet.
func (w *SyncWorker) HandleDeleteMessage(ctx context.Context, msg *amqp.SyncMessage) error {
	slog.InfoContext(ctx, "Processing delete message",
		"transaction_id", msg.TransactionID,
		"user_id", msg.UserID)

	if w.deleter == nil {
		slog.WarnContext(ctx, "No deleter configured, skipping spreadsheet deletion",
			"transaction_id", msg.TransactionID)
		return nil
	}

	if err := w.deleter.Delete(ctx, msg.TransactionID); err != nil {
		return fmt.Errorf("delete from spreadsheet: %w", err)
	}

	slog.InfoContext(ctx, "Transaction deleted from spreadsheet",
		"transaction_id", msg.TransactionID)
	return nil
}

// ProcessPending mirrors transactions still marked pending. This is the
// backstop for lost queue messages.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	return w.drainPending(ctx, w.batchSize)
}

// StartupSyncCheck drains a larger pending batch once at worker startup to
// recover from downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	return w.drainPending(ctx, w.batchSize*5)
}

func (w *SyncWorker) drainPending(ctx context.Context, limit int) error {
	pending, err := w.storage.GetPendingSync(ctx, limit)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	synced := 0
	failed := 0
	for _, p := range pending {
		tx, userID, err := w.storage.GetTransaction(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to load pending transaction",
				"transaction_id", p.ID, "error", err)
			if markErr := w.storage.MarkSyncError(ctx, p.ID); markErr != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error",
					"transaction_id", p.ID, "error", markErr)
			}
			failed++
			continue
		}

		if err := w.mirrorTransaction(ctx, userID, p.ID, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to sync pending transaction",
				"transaction_id", p.ID, "error", err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Pending sync pass completed",
		"total", len(pending), "synced", synced, "errors", failed)
	return nil
}

func (w *SyncWorker) mirrorTransaction(ctx context.Context, userID, id string, tx core.Transaction) error {
	ref, err := w.writer.Append(ctx, userID, tx)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error",
				"transaction_id", id, "error", markErr)
		}
		return fmt.Errorf("append to spreadsheet: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, id); err != nil {
		// The mirror write itself succeeded.
		slog.ErrorContext(ctx, "Failed to mark as synced",
			"transaction_id", id, "error", err)
	}

	slog.InfoContext(ctx, "Transaction synced",
		"transaction_id", id,
		"user_id", userID,
		"sheets_ref", ref,
		"amount", tx.Amount)
	return nil
}

package worker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/sheets/memory"
	"fintrack/internal/storage"
)

func newTestRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repo: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testTransaction(id string) core.Transaction {
	return core.Transaction{
		ID:          id,
		Amount:      1500,
		Type:        core.Expense,
		CategoryID:  "food",
		Description: "Пятёрочка",
		Date:        core.NewDate(2024, 6, 1),
		CreatedAt:   time.Now().UTC(),
	}
}

func TestHandleSyncMessageMirrorsTransaction(t *testing.T) {
	repo := newTestRepo(t)
	mirror := memory.New()
	w := NewSyncWorker(repo, mirror, mirror, 10)
	ctx := context.Background()

	tx := testTransaction("tx-1")
	if err := repo.SaveTransaction(ctx, "u1", tx); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := w.HandleSyncMessage(ctx, amqp.NewSyncMessage("u1", "tx-1")); err != nil {
		t.Fatalf("handle: %v", err)
	}

	mirrored := mirror.Transactions()
	if len(mirrored) != 1 || mirrored[0].ID != "tx-1" {
		t.Fatalf("mirror = %+v", mirrored)
	}

	// The row must no longer be pending.
	pending, err := repo.GetPendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("still pending: %+v", pending)
	}
}

func TestHandleSyncMessageSkipsMissingTransaction(t *testing.T) {
	repo := newTestRepo(t)
	mirror := memory.New()
	w := NewSyncWorker(repo, mirror, mirror, 10)

	// Deleted before the worker got to it: not an error, nothing mirrored.
	if err := w.HandleSyncMessage(context.Background(), amqp.NewSyncMessage("u1", "gone")); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got := mirror.Transactions(); len(got) != 0 {
		t.Fatalf("mirror = %+v", got)
	}
}

func TestHandleDeleteMessageRemovesMirroredRow(t *testing.T) {
	repo := newTestRepo(t)
	mirror := memory.New()
	w := NewSyncWorker(repo, mirror, mirror, 10)
	ctx := context.Background()

	if _, err := mirror.Append(ctx, "u1", testTransaction("tx-1")); err != nil {
		t.Fatalf("append: %v", err)
	}

	if err := w.HandleDeleteMessage(ctx, amqp.NewDeleteMessage("u1", "tx-1")); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got := mirror.Transactions(); len(got) != 0 {
		t.Fatalf("mirror = %+v", got)
	}

	// Replays are idempotent.
	if err := w.HandleDeleteMessage(ctx, amqp.NewDeleteMessage("u1", "tx-1")); err != nil {
		t.Fatalf("replay: %v", err)
	}
}

func TestHandleMessageIgnoresUnknownKind(t *testing.T) {
	repo := newTestRepo(t)
	mirror := memory.New()
	w := NewSyncWorker(repo, mirror, mirror, 10)

	msg := &amqp.SyncMessage{Kind: "rename", TransactionID: "tx-1"}
	if err := w.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("unknown kind should be dropped, got %v", err)
	}
}

func TestProcessPendingDrainsQueue(t *testing.T) {
	repo := newTestRepo(t)
	mirror := memory.New()
	w := NewSyncWorker(repo, mirror, mirror, 10)
	ctx := context.Background()

	for _, id := range []string{"tx-1", "tx-2", "tx-3"} {
		if err := repo.SaveTransaction(ctx, "u1", testTransaction(id)); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	if err := w.ProcessPending(ctx); err != nil {
		t.Fatalf("process pending: %v", err)
	}

	if got := mirror.Transactions(); len(got) != 3 {
		t.Fatalf("mirrored %d rows, want 3", len(got))
	}
	pending, _ := repo.GetPendingSync(ctx, 10)
	if len(pending) != 0 {
		t.Fatalf("still pending: %+v", pending)
	}
}

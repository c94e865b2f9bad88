// Package worker snapshots the expense store to a backup transport.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"kharcha/internal/amqp"
	"kharcha/internal/backup"
	"kharcha/internal/core"
	"kharcha/internal/store"
)

// Snapshot is the JSON document uploaded to the backup transport.
type Snapshot struct {
	SnapshotID string         `json:"snapshot_id"`
	TakenAt    time.Time      `json:"taken_at"`
	Reason     string         `json:"reason"`
	Count      int            `json:"count"`
	Expenses   []core.Expense `json:"expenses"`
}

// BackupWorker snapshots all expenses and uploads them on request.
type BackupWorker struct {
	store     store.ExpenseStore
	transport backup.Transport
	fileName  string
	now       func() time.Time
}

func NewBackupWorker(st store.ExpenseStore, transport backup.Transport, fileName string) *BackupWorker {
	return &BackupWorker{
		store:     st,
		transport: transport,
		fileName:  fileName,
		now:       time.Now,
	}
}

// HandleBackupRequest processes a single backup request message from AMQP
func (w *BackupWorker) HandleBackupRequest(ctx context.Context, msg *amqp.BackupRequestMessage) error {
	slog.InfoContext(ctx, "Processing backup request",
		"snapshot_id", msg.SnapshotID,
		"reason", msg.Reason)

	return w.snapshot(ctx, msg.SnapshotID, msg.Reason)
}

// RunScheduled takes a snapshot every interval until ctx is done.
func (w *BackupWorker) RunScheduled(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "Started scheduled backups", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping scheduled backups", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			msg := amqp.NewBackupRequestMessage(0, amqp.ReasonScheduled)
			if err := w.snapshot(ctx, msg.SnapshotID, msg.Reason); err != nil {
				slog.ErrorContext(ctx, "Scheduled backup failed", "error", err)
			}
		}
	}
}

func (w *BackupWorker) snapshot(ctx context.Context, snapshotID, reason string) error {
	expenses, err := w.store.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list expenses: %w", err)
	}

	snap := Snapshot{
		SnapshotID: snapshotID,
		TakenAt:    w.now(),
		Reason:     reason,
		Count:      len(expenses),
		Expenses:   expenses,
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := w.transport.Upload(ctx, w.fileName, data); err != nil {
		return fmt.Errorf("upload snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot uploaded",
		"snapshot_id", snapshotID,
		"reason", reason,
		"count", len(expenses))

	return nil
}

// Restore downloads the latest snapshot and loads it into the store,
// replacing current contents.
func (w *BackupWorker) Restore(ctx context.Context) (int, error) {
	data, err := w.transport.Download(ctx, w.fileName)
	if err != nil {
		return 0, fmt.Errorf("download snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return 0, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	if err := w.store.DeleteAll(ctx); err != nil {
		return 0, fmt.Errorf("clear store: %w", err)
	}

	for _, e := range snap.Expenses {
		e.ID = 0
		if _, err := w.store.Insert(ctx, e); err != nil {
			return 0, fmt.Errorf("restore expense %q: %w", e.Description, err)
		}
	}

	slog.InfoContext(ctx, "Snapshot restored",
		"snapshot_id", snap.SnapshotID,
		"count", len(snap.Expenses))

	return len(snap.Expenses), nil
}

package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"kharcha/internal/amqp"
	"kharcha/internal/backup"
	"kharcha/internal/core"
	"kharcha/internal/store/memory"
)

type fakeTransport struct {
	files   map[string][]byte
	uploads int
	failUp  error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{files: make(map[string][]byte)}
}

func (f *fakeTransport) Upload(_ context.Context, name string, data []byte) error {
	if f.failUp != nil {
		return f.failUp
	}
	f.uploads++
	f.files[name] = data
	return nil
}

func (f *fakeTransport) Download(_ context.Context, name string) ([]byte, error) {
	data, ok := f.files[name]
	if !ok {
		return nil, backup.ErrSnapshotNotFound
	}
	return data, nil
}

func seedStore(t *testing.T) *memory.Store {
	t.Helper()
	st := memory.New()
	for _, e := range []core.Expense{
		{Date: "2024-06-10", Category: "Food", Amount: 120, Description: "lunch", PaymentMode: "UPI"},
		{Date: "2024-06-11", Category: "Transport", Amount: 45, Description: "metro", PaymentMode: "Cash"},
	} {
		if _, err := st.Insert(context.Background(), e); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return st
}

func TestHandleBackupRequest(t *testing.T) {
	st := seedStore(t)
	tr := newFakeTransport()
	w := NewBackupWorker(st, tr, "expenses.json")
	w.now = func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }

	msg := amqp.NewBackupRequestMessage(1, amqp.ReasonExpenseCreated)
	if err := w.HandleBackupRequest(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}

	data, ok := tr.files["expenses.json"]
	if !ok {
		t.Fatal("expected snapshot to be uploaded")
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if snap.SnapshotID != msg.SnapshotID {
		t.Fatalf("expected snapshot id %q, got %q", msg.SnapshotID, snap.SnapshotID)
	}
	if snap.Count != 2 || len(snap.Expenses) != 2 {
		t.Fatalf("expected 2 expenses, got count=%d len=%d", snap.Count, len(snap.Expenses))
	}
	if snap.Reason != amqp.ReasonExpenseCreated {
		t.Fatalf("unexpected reason %q", snap.Reason)
	}
}

func TestHandleBackupRequestUploadFailure(t *testing.T) {
	st := seedStore(t)
	tr := newFakeTransport()
	tr.failUp = errors.New("drive unavailable")
	w := NewBackupWorker(st, tr, "expenses.json")

	msg := amqp.NewBackupRequestMessage(0, amqp.ReasonScheduled)
	if err := w.HandleBackupRequest(context.Background(), msg); err == nil {
		t.Fatal("expected upload error to propagate")
	}
}

func TestRunScheduledStopsOnContext(t *testing.T) {
	st := seedStore(t)
	tr := newFakeTransport()
	w := NewBackupWorker(st, tr, "expenses.json")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.RunScheduled(ctx, 10*time.Millisecond) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}

	if tr.uploads == 0 {
		t.Fatal("expected at least one scheduled upload")
	}
}

func TestRestore(t *testing.T) {
	st := seedStore(t)
	tr := newFakeTransport()
	w := NewBackupWorker(st, tr, "expenses.json")

	msg := amqp.NewBackupRequestMessage(0, amqp.ReasonScheduled)
	if err := w.HandleBackupRequest(context.Background(), msg); err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	// Wipe the store, then restore from the snapshot.
	if err := st.DeleteAll(context.Background()); err != nil {
		t.Fatalf("clear: %v", err)
	}

	n, err := w.Restore(context.Background())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 restored expenses, got %d", n)
	}

	all, _ := st.ListAll(context.Background())
	if len(all) != 2 {
		t.Fatalf("expected 2 expenses in store, got %d", len(all))
	}
	if all[0].Description != "lunch" || all[1].Description != "metro" {
		t.Fatalf("unexpected restored expenses: %+v", all)
	}
}

func TestRestoreMissingSnapshot(t *testing.T) {
	st := seedStore(t)
	tr := newFakeTransport()
	w := NewBackupWorker(st, tr, "expenses.json")

	if _, err := w.Restore(context.Background()); !errors.Is(err, backup.ErrSnapshotNotFound) {
		t.Fatalf("expected ErrSnapshotNotFound, got %v", err)
	}
}

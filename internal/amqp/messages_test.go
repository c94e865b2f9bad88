package amqp

import (
	"testing"
	"time"
)

func TestNewBackupRequestMessage(t *testing.T) {
	msg := NewBackupRequestMessage(42, ReasonExpenseCreated)

	if msg.SnapshotID == "" {
		t.Fatal("expected snapshot id to be set")
	}
	if msg.ExpenseID != 42 {
		t.Fatalf("expected expense id 42, got %d", msg.ExpenseID)
	}
	if msg.Reason != ReasonExpenseCreated {
		t.Fatalf("expected reason %q, got %q", ReasonExpenseCreated, msg.Reason)
	}
	if time.Since(msg.Timestamp) > time.Minute {
		t.Fatalf("timestamp too old: %v", msg.Timestamp)
	}

	other := NewBackupRequestMessage(0, ReasonScheduled)
	if other.SnapshotID == msg.SnapshotID {
		t.Fatal("expected unique snapshot ids")
	}
}

func TestBackupRequestMessageRoundTrip(t *testing.T) {
	msg := NewBackupRequestMessage(7, ReasonExpenseDeleted)

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := BackupRequestMessageFromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.SnapshotID != msg.SnapshotID || got.ExpenseID != 7 || got.Reason != ReasonExpenseDeleted {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestBackupRequestMessageFromJSONInvalid(t *testing.T) {
	if _, err := BackupRequestMessageFromJSON([]byte("not json")); err == nil {
		t.Fatal("expected error for invalid payload")
	}
}

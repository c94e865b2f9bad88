package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Backup reasons carried on a backup request message.
const (
	ReasonExpenseCreated = "expense_created"
	ReasonExpenseUpdated = "expense_updated"
	ReasonExpenseDeleted = "expense_deleted"
	ReasonExpenseCleared = "expenses_cleared"
	ReasonScheduled      = "scheduled"
)

// BackupRequestMessage asks the worker to snapshot the expense store.
// It carries only identifiers, the worker fetches the data itself.
type BackupRequestMessage struct {
	SnapshotID string    `json:"snapshot_id"`
	ExpenseID  int64     `json:"expense_id,omitempty"`
	Reason     string    `json:"reason"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewBackupRequestMessage creates a backup request for the given reason.
// expenseID is 0 for whole-store events like scheduled snapshots.
func NewBackupRequestMessage(expenseID int64, reason string) *BackupRequestMessage {
	return &BackupRequestMessage{
		SnapshotID: uuid.New().String(),
		ExpenseID:  expenseID,
		Reason:     reason,
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *BackupRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BackupRequestMessageFromJSON creates a message from JSON bytes
func BackupRequestMessageFromJSON(data []byte) (*BackupRequestMessage, error) {
	var msg BackupRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

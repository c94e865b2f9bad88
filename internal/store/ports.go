// Package store defines the port the rest of the application uses to reach
// expense persistence. Analysis only ever needs full enumeration; every
// filter runs inside synthesized SQL against an in-memory copy, so the port
// stays deliberately narrow.
package store

import (
	"context"
	"errors"

	"kharcha/internal/core"
)

// ErrNotFound is returned by Update and Delete for unknown ids.
var ErrNotFound = errors.New("expense not found")

// ExpenseStore is the durable keyed collection of expense records.
type ExpenseStore interface {
	// Insert stores e, assigns its id and created_at, and returns the id.
	Insert(ctx context.Context, e core.Expense) (int64, error)
	// ListAll enumerates every record, newest insertion last.
	ListAll(ctx context.Context) ([]core.Expense, error)
	// Update rewrites the mutable fields of the record with e.ID.
	// created_at and id are immutable.
	Update(ctx context.Context, e core.Expense) error
	// Delete removes a record by id.
	Delete(ctx context.Context, id int64) error
	// DeleteAll clears the store.
	DeleteAll(ctx context.Context) error
	// Close releases any underlying resources.
	Close() error
}

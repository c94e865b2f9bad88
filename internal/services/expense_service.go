// Package services orchestrates expense operations across storage, AMQP
// and the Gemini client.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"kharcha/internal/amqp"
	"kharcha/internal/core"
	"kharcha/internal/store"
)

// BackupPublisher publishes backup request messages.
type BackupPublisher interface {
	PublishBackupRequest(ctx context.Context, expenseID int64, reason string) error
	Close() error
}

// ExpenseService wraps the expense store and notifies the backup worker
// about mutations.
type ExpenseService struct {
	store     store.ExpenseStore
	publisher BackupPublisher
}

func NewExpenseService(st store.ExpenseStore, publisher BackupPublisher) *ExpenseService {
	return &ExpenseService{
		store:     st,
		publisher: publisher,
	}
}

// CreateExpense saves an expense and publishes a backup request
func (s *ExpenseService) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	id, err := s.store.Insert(ctx, e)
	if err != nil {
		return 0, fmt.Errorf("save expense: %w", err)
	}

	// Backup is best effort, the expense is already saved locally
	s.publish(ctx, id, amqp.ReasonExpenseCreated)

	return id, nil
}

// ListExpenses returns every stored expense
func (s *ExpenseService) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	expenses, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

// UpdateExpense replaces an existing expense and publishes a backup request
func (s *ExpenseService) UpdateExpense(ctx context.Context, e core.Expense) error {
	if err := s.store.Update(ctx, e); err != nil {
		return fmt.Errorf("update expense: %w", err)
	}

	s.publish(ctx, e.ID, amqp.ReasonExpenseUpdated)

	return nil
}

// DeleteExpense removes an expense and publishes a backup request
func (s *ExpenseService) DeleteExpense(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	s.publish(ctx, id, amqp.ReasonExpenseDeleted)

	return nil
}

// ClearExpenses removes all expenses and publishes a backup request
func (s *ExpenseService) ClearExpenses(ctx context.Context) error {
	if err := s.store.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}

	s.publish(ctx, 0, amqp.ReasonExpenseCleared)

	return nil
}

// Summarize groups all stored expenses by period
func (s *ExpenseService) Summarize(ctx context.Context, g core.Granularity) ([]core.PeriodTotal, error) {
	expenses, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return core.Summarize(expenses, g), nil
}

func (s *ExpenseService) publish(ctx context.Context, id int64, reason string) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "Backup publisher not available, skipping message", "reason", reason)
		return
	}

	if err := s.publisher.PublishBackupRequest(ctx, id, reason); err != nil {
		slog.ErrorContext(ctx, "Failed to publish backup request",
			"expense_id", id, "reason", reason, "error", err)
	}
}

// Close closes both the store and the AMQP connection
func (s *ExpenseService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %v", errs)
	}

	return nil
}

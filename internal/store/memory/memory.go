// Package memory is an in-process ExpenseStore used for development and
// tests.
package memory

import (
	"context"
	"sync"
	"time"

	"kharcha/internal/core"
	"kharcha/internal/store"
)

type Store struct {
	mu     sync.Mutex
	items  []core.Expense
	nextID int64
	now    func() time.Time
}

func New() *Store {
	return &Store{nextID: 1, now: time.Now}
}

func (s *Store) Insert(_ context.Context, e core.Expense) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	e.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.nextID
	s.nextID++
	e.CreatedAt = s.now().Format(core.DateLayout)
	s.items = append(s.items, e)
	return e.ID, nil
}

func (s *Store) ListAll(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *Store) Update(_ context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	e.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == e.ID {
			e.CreatedAt = s.items[i].CreatedAt // immutable
			s.items[i] = e
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	return nil
}

func (s *Store) Close() error { return nil }

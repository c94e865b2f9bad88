package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"kharcha/internal/core"
	"kharcha/internal/store"
)

func newTestStore() *Store {
	s := New()
	s.now = func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }
	return s
}

func sample() core.Expense {
	return core.Expense{
		Date:        "2024-06-10",
		Category:    "Food",
		Amount:      120,
		Description: "lunch",
		PaymentMode: "UPI",
	}
}

func TestInsertAssignsIDAndCreatedAt(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	id, err := s.Insert(ctx, sample())
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id != 1 {
		t.Fatalf("expected id 1, got %d", id)
	}

	id2, err := s.Insert(ctx, sample())
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id2 != 2 {
		t.Fatalf("expected id 2, got %d", id2)
	}

	all, err := s.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(all))
	}
	if all[0].CreatedAt != "2024-06-15" {
		t.Fatalf("expected created_at 2024-06-15, got %q", all[0].CreatedAt)
	}
}

func TestInsertRejectsInvalid(t *testing.T) {
	s := newTestStore()
	e := sample()
	e.Description = ""
	if _, err := s.Insert(context.Background(), e); !errors.Is(err, core.ErrEmptyDescription) {
		t.Fatalf("expected ErrEmptyDescription, got %v", err)
	}
}

func TestListAllReturnsCopy(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	if _, err := s.Insert(ctx, sample()); err != nil {
		t.Fatalf("insert: %v", err)
	}

	all, _ := s.ListAll(ctx)
	all[0].Amount = 9999

	again, _ := s.ListAll(ctx)
	if again[0].Amount != 120 {
		t.Fatalf("store mutated through returned slice: %v", again[0].Amount)
	}
}

func TestUpdate(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	id, _ := s.Insert(ctx, sample())

	updated := sample()
	updated.ID = id
	updated.Amount = 300
	updated.CreatedAt = "1999-01-01" // must be ignored
	if err := s.Update(ctx, updated); err != nil {
		t.Fatalf("update: %v", err)
	}

	all, _ := s.ListAll(ctx)
	if all[0].Amount != 300 {
		t.Fatalf("expected amount 300, got %v", all[0].Amount)
	}
	if all[0].CreatedAt != "2024-06-15" {
		t.Fatalf("created_at changed on update: %q", all[0].CreatedAt)
	}
}

func TestUpdateMissing(t *testing.T) {
	s := newTestStore()
	e := sample()
	e.ID = 42
	if err := s.Update(context.Background(), e); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	id, _ := s.Insert(ctx, sample())
	if _, err := s.Insert(ctx, sample()); err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	all, _ := s.ListAll(ctx)
	if len(all) != 1 {
		t.Fatalf("expected 1 expense, got %d", len(all))
	}
	if err := s.Delete(ctx, id); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteAll(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := s.Insert(ctx, sample()); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	if err := s.DeleteAll(ctx); err != nil {
		t.Fatalf("delete all: %v", err)
	}
	all, _ := s.ListAll(ctx)
	if len(all) != 0 {
		t.Fatalf("expected empty store, got %d", len(all))
	}
}

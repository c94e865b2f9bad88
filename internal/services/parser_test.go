package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type fakeCompletion struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeCompletion) Complete(_ context.Context, prompt, _ string) (string, error) {
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func fixedParser(client *fakeCompletion) *ExpenseParser {
	p := NewExpenseParser(client)
	p.now = func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }
	return p
}

func TestParsePromptContents(t *testing.T) {
	client := &fakeCompletion{reply: `{"description": "Tea", "amount": 20, "category": "Food", "date": "2024-06-14", "paymentMode": "UPI"}`}
	p := fixedParser(client)

	if _, err := p.Parse(context.Background(), "tea 20 yesterday", "key"); err != nil {
		t.Fatalf("parse: %v", err)
	}

	for _, want := range []string{
		"tea 20 yesterday",
		"2024-06-15", // today
		"2024-06-14", // yesterday example
		"Food, Transport, Shopping, Utilities, Entertainment, Health, Education, Other",
		"UPI, Credit Card, Debit Card, Cash",
	} {
		if !strings.Contains(client.prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestParseCleanExpense(t *testing.T) {
	client := &fakeCompletion{reply: `{"description": "Uber to office", "amount": 150, "category": "Transport", "date": "2024-01-02", "paymentMode": "Cash"}`}
	p := fixedParser(client)

	e, err := p.Parse(context.Background(), "uber to office 150 on 2nd jan, cash", "key")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if e.Description != "Uber to office" || e.Amount != 150 || e.Category != "Transport" ||
		e.Date != "2024-01-02" || e.PaymentMode != "Cash" {
		t.Fatalf("unexpected expense: %+v", e)
	}
	if e.ID != 0 {
		t.Fatalf("draft must not carry an id, got %d", e.ID)
	}
}

func TestParseFencedReply(t *testing.T) {
	client := &fakeCompletion{reply: "```json\n{\"description\": \"Tea\", \"amount\": 20, \"category\": \"Food\", \"date\": \"2024-06-15\"}\n```"}
	p := fixedParser(client)

	e, err := p.Parse(context.Background(), "tea 20", "key")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if e.Description != "Tea" || e.Amount != 20 {
		t.Fatalf("unexpected expense: %+v", e)
	}
	if e.PaymentMode != "UPI" {
		t.Fatalf("expected default payment mode UPI, got %q", e.PaymentMode)
	}
}

func TestParseDefaults(t *testing.T) {
	// Unknown category falls back to Other, missing date to today, string
	// amount is tolerated.
	client := &fakeCompletion{reply: `{"description": "Mystery", "amount": "99.5", "category": "Stuff"}`}
	p := fixedParser(client)

	e, err := p.Parse(context.Background(), "mystery 99.5", "key")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if e.Category != "Other" {
		t.Fatalf("expected category Other, got %q", e.Category)
	}
	if e.Date != "2024-06-15" {
		t.Fatalf("expected today's date, got %q", e.Date)
	}
	if e.Amount != 99.5 {
		t.Fatalf("expected amount 99.5, got %v", e.Amount)
	}
}

func TestParseEmptyText(t *testing.T) {
	p := fixedParser(&fakeCompletion{})
	if _, err := p.Parse(context.Background(), "   ", "key"); err == nil {
		t.Fatal("expected error for empty text")
	}
}

func TestParseClientError(t *testing.T) {
	client := &fakeCompletion{err: errors.New("network is down")}
	p := fixedParser(client)

	if _, err := p.Parse(context.Background(), "tea 20", "key"); err == nil {
		t.Fatal("expected client error to propagate")
	}
}

func TestParseInvalidJSON(t *testing.T) {
	client := &fakeCompletion{reply: "sorry, I could not parse that"}
	p := fixedParser(client)

	if _, err := p.Parse(context.Background(), "tea 20", "key"); !errors.Is(err, ErrUnparsableExpense) {
		t.Fatalf("expected ErrUnparsableExpense, got %v", err)
	}
}

func TestParseMissingDescription(t *testing.T) {
	client := &fakeCompletion{reply: `{"description": "", "amount": 20, "category": "Food", "date": "2024-06-15"}`}
	p := fixedParser(client)

	if _, err := p.Parse(context.Background(), "20", "key"); !errors.Is(err, ErrUnparsableExpense) {
		t.Fatalf("expected ErrUnparsableExpense, got %v", err)
	}
}

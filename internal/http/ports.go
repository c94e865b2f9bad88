package http

import (
	"context"

	"kharcha/internal/analysis"
	"kharcha/internal/core"
)

// Analyzer runs a natural-language question against a set of expenses.
type Analyzer interface {
	Analyze(ctx context.Context, question, apiKey string, records []core.Expense) (*analysis.Analysis, error)
}

// ExpenseParser turns free-form text into an expense draft.
type ExpenseParser interface {
	Parse(ctx context.Context, text, apiKey string) (core.Expense, error)
}

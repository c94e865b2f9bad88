// Package analysis implements the natural-language analysis pipeline:
// question -> synthesized SQL -> in-memory execution -> normalized result.
package analysis

import (
	"context"
	"log/slog"

	"kharcha/internal/core"
)

// Analysis is the outcome of one pipeline run. SQL is always populated so
// the generated statement can be shown to the user for transparency.
type Analysis struct {
	SQL    string `json:"sql"`
	Result Result `json:"result"`
}

// Analyzer wires the synthesizer, executor and normalizer into one request
// path. None of the failure modes are recovered here: each propagates as its
// distinct type so the caller can choose per-kind messaging.
type Analyzer struct {
	synth *Synthesizer
	exec  *Executor
}

func NewAnalyzer(client CompletionClient, exec *Executor) *Analyzer {
	return &Analyzer{synth: NewSynthesizer(client), exec: exec}
}

// Analyze runs the full pipeline over records. The completion call is the
// only slow step; ctx cancellation aborts it, and an aborted synthesis never
// reaches execution.
func (a *Analyzer) Analyze(ctx context.Context, question, apiKey string, records []core.Expense) (*Analysis, error) {
	query, err := a.synth.Synthesize(ctx, question, apiKey)
	if err != nil {
		return nil, err
	}

	rs, err := a.exec.Run(ctx, records, query)
	if err != nil {
		// The SQL was produced; hand it back with the failure so the caller
		// can still display it.
		return &Analysis{SQL: query}, err
	}

	result := Normalize(rs)
	slog.InfoContext(ctx, "Analysis completed",
		"sql", query,
		"kind", result.Kind,
		"records", len(records),
		"rows", len(rs.Rows))

	return &Analysis{SQL: query, Result: result}, nil
}

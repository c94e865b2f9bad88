package analysis

import "sort"

// The model is free to alias aggregates however it likes, and a single row
// may arrive as a keyed record or a bare scalar. Normalize collapses every
// shape into one tagged variant so no downstream consumer needs to know
// which happened, while preserving the difference between "no rows matched"
// and "an aggregate legitimately evaluated to zero or null".

type ResultKind string

const (
	ResultNone   ResultKind = "none"
	ResultScalar ResultKind = "scalar"
	ResultRows   ResultKind = "rows"
)

// Result is the normalized query outcome. Exactly one of Value or Rows is
// meaningful, selected by Kind.
type Result struct {
	Kind    ResultKind       `json:"kind"`
	Value   any              `json:"value,omitempty"`
	Columns []string         `json:"columns,omitempty"`
	Rows    []map[string]any `json:"rows,omitempty"`
}

// Normalize reduces a raw row-set to a display-ready result:
//
//   - no rows        -> none
//   - one row        -> scalar of the row's first column (or the bare value),
//     where SQL NULL becomes 0
//   - multiple rows  -> rows passed through, column order preserved
func Normalize(rs *RowSet) Result {
	if rs == nil || len(rs.Rows) == 0 {
		return Result{Kind: ResultNone}
	}

	if len(rs.Rows) == 1 {
		switch row := rs.Rows[0].(type) {
		case map[string]any:
			return Result{Kind: ResultScalar, Value: scalarOrZero(firstValue(row, rs.Columns))}
		default:
			return Result{Kind: ResultScalar, Value: scalarOrZero(row)}
		}
	}

	out := Result{Kind: ResultRows, Columns: rs.Columns}
	out.Rows = make([]map[string]any, 0, len(rs.Rows))
	for _, r := range rs.Rows {
		if m, ok := r.(map[string]any); ok {
			out.Rows = append(out.Rows, m)
			continue
		}
		out.Rows = append(out.Rows, map[string]any{"value": r})
	}
	return out
}

func scalarOrZero(v any) any {
	if v == nil {
		return 0
	}
	return v
}

// firstValue picks the row's first column. Column order from the statement
// wins; without it (e.g. hand-built row-sets in tests) a single-key map is
// unambiguous and larger maps fall back to sorted key order so the choice
// stays deterministic.
func firstValue(row map[string]any, cols []string) any {
	if len(cols) > 0 {
		if v, ok := row[cols[0]]; ok {
			return v
		}
	}
	if len(row) == 1 {
		for _, v := range row {
			return v
		}
	}
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return nil
	}
	return row[keys[0]]
}

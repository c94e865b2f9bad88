package analysis

import (
	"reflect"
	"testing"
)

func TestNormalizeEmpty(t *testing.T) {
	for _, rs := range []*RowSet{nil, {}, {Columns: []string{"amount"}}} {
		got := Normalize(rs)
		if got.Kind != ResultNone {
			t.Fatalf("got kind %q, want none", got.Kind)
		}
	}
}

func TestNormalizeSingleAggregateNull(t *testing.T) {
	rs := &RowSet{
		Columns: []string{"total_spent"},
		Rows:    []any{map[string]any{"total_spent": nil}},
	}
	got := Normalize(rs)
	if got.Kind != ResultScalar || got.Value != 0 {
		t.Fatalf("null aggregate: got %+v, want scalar 0", got)
	}
}

func TestNormalizeSingleAggregateValue(t *testing.T) {
	rs := &RowSet{
		Columns: []string{"total_spent"},
		Rows:    []any{map[string]any{"total_spent": 450.5}},
	}
	got := Normalize(rs)
	if got.Kind != ResultScalar || got.Value != 450.5 {
		t.Fatalf("got %+v, want scalar 450.5", got)
	}
}

func TestNormalizeAliasDoesNotMatter(t *testing.T) {
	// Whatever alias the model chose, the first column's value wins.
	rs := &RowSet{
		Columns: []string{"sum_amt", "extra"},
		Rows:    []any{map[string]any{"sum_amt": 12.0, "extra": "x"}},
	}
	got := Normalize(rs)
	if got.Kind != ResultScalar || got.Value != 12.0 {
		t.Fatalf("got %+v, want scalar 12", got)
	}
}

func TestNormalizeBareScalarRow(t *testing.T) {
	got := Normalize(&RowSet{Rows: []any{250}})
	if got.Kind != ResultScalar || got.Value != 250 {
		t.Fatalf("got %+v, want scalar 250", got)
	}

	got = Normalize(&RowSet{Rows: []any{nil}})
	if got.Kind != ResultScalar || got.Value != 0 {
		t.Fatalf("nil scalar: got %+v, want scalar 0", got)
	}
}

func TestNormalizeMultipleRows(t *testing.T) {
	rows := []any{
		map[string]any{"date": "2024-01-02", "amount": 100.0},
		map[string]any{"date": "2024-01-05", "amount": 50.0},
	}
	rs := &RowSet{Columns: []string{"date", "amount"}, Rows: rows}
	got := Normalize(rs)
	if got.Kind != ResultRows {
		t.Fatalf("got kind %q, want rows", got.Kind)
	}
	if len(got.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(got.Rows))
	}
	want := map[string]any{"date": "2024-01-02", "amount": 100.0}
	if !reflect.DeepEqual(got.Rows[0], want) {
		t.Fatalf("row passed through changed: %+v", got.Rows[0])
	}
	if !reflect.DeepEqual(got.Columns, []string{"date", "amount"}) {
		t.Fatalf("column order lost: %v", got.Columns)
	}
}

func TestNormalizeSingleRowWithoutColumnHints(t *testing.T) {
	// No column metadata: a single-key map is unambiguous.
	got := Normalize(&RowSet{Rows: []any{map[string]any{"count": int64(3)}}})
	if got.Kind != ResultScalar || got.Value != int64(3) {
		t.Fatalf("got %+v, want scalar 3", got)
	}
}

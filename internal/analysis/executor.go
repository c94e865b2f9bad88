package analysis

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"kharcha/internal/core"

	_ "modernc.org/sqlite"
)

// RowSet is the raw result of a query: column names in statement order plus
// one entry per row. Rows are normally map[string]any keyed by column name;
// the normalizer also tolerates bare scalar entries.
type RowSet struct {
	Columns []string
	Rows    []any
}

// Executor runs sanitized SELECT statements against an in-memory SQLite
// table rebuilt from the full record set on every call. The dataset is a
// personal expense history, so reloading everything per query is cheap and
// guarantees each query sees a consistent, current snapshot with no
// cache-invalidation logic.
//
// Each Executor owns its own engine handle; there is no package-level engine
// state, so independent instances (e.g. in tests) never interfere.
type Executor struct {
	db *sql.DB
	mu sync.Mutex
}

const createTableStmt = `CREATE TABLE IF NOT EXISTS expenses (
	id INTEGER,
	date TEXT,
	category TEXT,
	amount REAL,
	description TEXT,
	created_at TEXT
)`

func NewExecutor() (*Executor, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open in-memory sqlite: %w", err)
	}
	// Every pooled connection would get its own :memory: database; pin the
	// pool to one connection so all statements see the same table.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping in-memory sqlite: %w", err)
	}
	return &Executor{db: db}, nil
}

func (e *Executor) Close() error {
	if e.db != nil {
		return e.db.Close()
	}
	return nil
}

// Run rebuilds the expenses table from records and executes query against it.
// Rebuild and query run as one atomic unit under the executor's lock, so a
// concurrent caller can never observe a half-loaded table.
func (e *Executor) Run(ctx context.Context, records []core.Expense, query string) (*RowSet, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.reload(ctx, records); err != nil {
		return nil, err
	}

	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &QueryExecutionError{SQL: query, Err: err}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &QueryExecutionError{SQL: query, Err: err}
	}

	rs := &RowSet{Columns: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &QueryExecutionError{SQL: query, Err: err}
		}
		row := make(map[string]any, len(cols))
		for i, c := range cols {
			row[c] = normalizeValue(values[i])
		}
		rs.Rows = append(rs.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryExecutionError{SQL: query, Err: err}
	}
	return rs, nil
}

// reload recreates the table idempotently and bulk-inserts records
// positionally in declared column order.
func (e *Executor) reload(ctx context.Context, records []core.Expense) error {
	if _, err := e.db.ExecContext(ctx, createTableStmt); err != nil {
		return fmt.Errorf("create expenses table: %w", err)
	}
	if _, err := e.db.ExecContext(ctx, "DELETE FROM expenses"); err != nil {
		return fmt.Errorf("truncate expenses table: %w", err)
	}

	stmt, err := e.db.PrepareContext(ctx, "INSERT INTO expenses VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		// An unassigned id goes in as NULL, never coerced to 0.
		var id any
		if r.ID != 0 {
			id = r.ID
		}
		if _, err := stmt.ExecContext(ctx, id, r.Date, r.Category, r.Amount, r.Description, r.CreatedAt); err != nil {
			return fmt.Errorf("insert expense row: %w", err)
		}
	}
	return nil
}

// normalizeValue converts driver byte slices to strings so results are
// JSON-friendly and comparable in tests.
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

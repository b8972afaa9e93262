package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// simpleRow adapts a scan function to pgx.Row.
type simpleRow struct {
	scan func(dest ...any) error
}

func (r simpleRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

// testRowsBase supplies the pgx.Rows methods tests never exercise.
type testRowsBase struct{}

func (testRowsBase) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }

func (testRowsBase) Conn() *pgx.Conn { return nil }

func (testRowsBase) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (testRowsBase) Values() ([]any, error) {
	return nil, fmt.Errorf("values not supported in test rows")
}

func (testRowsBase) RawValues() [][]byte { return nil }

// scanFuncRows is a pgx.Rows over a list of scan functions, one per row.
type scanFuncRows struct {
	testRowsBase
	scans []func(dest ...any) error
	idx   int
}

func (r *scanFuncRows) Next() bool {
	if r.idx >= len(r.scans) {
		return false
	}
	r.idx++
	return true
}

func (r *scanFuncRows) Scan(dest ...any) error {
	if r.idx == 0 || r.idx > len(r.scans) {
		return pgx.ErrNoRows
	}
	return r.scans[r.idx-1](dest...)
}

func (r *scanFuncRows) Err() error { return nil }

func (r *scanFuncRows) Close() {}

// fakeSQL is an infra.SQLExecutor serving canned responses per query text.
type fakeSQL struct {
	rowByQuery  map[string]simpleRow
	rowsByQuery map[string][]func(dest ...any) error
	calls       []string
}

func (f *fakeSQL) Exec(_ context.Context, query string, _ ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, query)
	return pgconn.CommandTag{}, nil
}

func (f *fakeSQL) QueryRow(_ context.Context, query string, _ ...any) pgx.Row {
	f.calls = append(f.calls, query)
	if row, ok := f.rowByQuery[query]; ok {
		return row
	}
	return simpleRow{}
}

func (f *fakeSQL) Query(_ context.Context, query string, _ ...any) (pgx.Rows, error) {
	f.calls = append(f.calls, query)
	scans, ok := f.rowsByQuery[query]
	if !ok {
		return nil, fmt.Errorf("unexpected query: %s", query)
	}
	return &scanFuncRows{scans: scans}, nil
}

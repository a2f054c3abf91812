package pgrepo

import (
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
)

// fakeRow отдает заранее заданные значения в Scan. Типы значений должны совпадать с типами приемников.
type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("fakeRow: want %d destinations, got %d", len(r.values), len(dest))
	}
	for i, d := range dest {
		target := reflect.ValueOf(d).Elem()
		if r.values[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		target.Set(reflect.ValueOf(r.values[i]))
	}
	return nil
}

type fakeRows struct {
	pgx.Rows
	rows   []fakeRow
	pos    int
	closed bool
}

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error { return r.rows[r.pos-1].Scan(dest...) }
func (r *fakeRows) Err() error             { return nil }
func (r *fakeRows) Close()                 { r.closed = true }

type fakeBatchResults struct {
	pgx.BatchResults
	rows     []fakeRow
	pos      int
	closeErr error
	closed   bool
}

func (b *fakeBatchResults) QueryRow() pgx.Row {
	row := b.rows[b.pos]
	b.pos++
	return row
}

func (b *fakeBatchResults) Close() error {
	b.closed = true
	return b.closeErr
}

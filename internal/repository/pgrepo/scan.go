package pgrepo

import "github.com/jackc/pgx/v5"

// rowScanner общий интерфейс для pgx.Row и pgx.CollectableRow.
type rowScanner interface {
	Scan(dest ...any) error
}

// collect собирает все строки выборки функцией scan.
func collect[T any](rows pgx.Rows, scan func(rowScanner) (T, error)) ([]T, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (T, error) { //nolint:wrapcheck
		return scan(row)
	})
}

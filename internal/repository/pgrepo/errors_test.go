package pgrepo

import (
	"errors"
	"math"
	"testing"

	"github.com/fsdevblog/groph-market/internal/domain"
	"github.com/fsdevblog/groph-market/internal/repository/repoargs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertErr(t *testing.T) {
	require.NoError(t, convertErr(nil, "noop"))

	cases := []struct {
		name    string
		err     error
		wantErr error
	}{
		{name: "no rows", err: pgx.ErrNoRows, wantErr: domain.ErrRecordNotFound},
		{name: "unique", err: &pgconn.PgError{Code: uniqueViolationCode}, wantErr: domain.ErrDuplicateKey},
		{name: "foreign key", err: &pgconn.PgError{Code: foreignKeyViolationCode}, wantErr: domain.ErrConflict},
		{name: "check", err: &pgconn.PgError{Code: checkViolationCode}, wantErr: domain.ErrConflict},
		{name: "other pg error", err: &pgconn.PgError{Code: "42P01"}, wantErr: domain.ErrUnknown},
		{name: "plain error", err: errors.New("connection reset"), wantErr: domain.ErrUnknown},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := convertErr(c.err, "doing %s", "things")
			require.ErrorIs(t, err, c.wantErr)
			assert.Contains(t, err.Error(), "[repository/doing things]")
		})
	}
}

func TestLimitOffset(t *testing.T) {
	limit, offset, err := limitOffset(repoargs.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, int32(defaultListLimit), limit)
	assert.Equal(t, int32(0), offset)

	limit, offset, err = limitOffset(repoargs.Pagination{Limit: 10_000, Offset: 20})
	require.NoError(t, err)
	assert.Equal(t, int32(maxListLimit), limit)
	assert.Equal(t, int32(20), offset)

	_, _, err = limitOffset(repoargs.Pagination{Limit: 10, Offset: uint(math.MaxInt32) + 1})
	require.Error(t, err)
}

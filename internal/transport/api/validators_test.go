package api

import (
	"testing"

	"github.com/fsdevblog/groph-market/internal/transport/api/testutils"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidators(t *testing.T) {
	require.NoError(t, registerValidators())
	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)

	type params struct {
		Name   string              `binding:"max_bytes=8"`
		Price  decimal.Decimal     `binding:"decimal_gte0"`
		Amount decimal.NullDecimal `binding:"decimal_gte0"`
	}

	cases := []struct {
		name    string
		params  params
		wantErr bool
	}{
		{name: "ok", params: params{Name: "mug", Price: decimal.NewFromInt(1)}},
		{name: "zero price and null amount", params: params{Name: "mug"}},
		// 2 руны, но 8 байт.
		{name: "bytes on the edge", params: params{Name: testutils.MultiByteString(2)}},
		{name: "too many bytes", params: params{Name: testutils.MultiByteString(3)}, wantErr: true},
		{name: "negative price", params: params{Price: decimal.NewFromInt(-1)}, wantErr: true},
		{
			name:    "negative amount",
			params:  params{Amount: decimal.NewNullDecimal(decimal.RequireFromString("-0.01"))},
			wantErr: true,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := v.Struct(c.params)
			if c.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

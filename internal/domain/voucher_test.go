package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoucherIsUsable(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	cases := []struct {
		name    string
		voucher Voucher
		want    bool
	}{
		{name: "active without expiry", voucher: Voucher{IsActive: true}, want: true},
		{name: "active not expired", voucher: Voucher{IsActive: true, ExpiresAt: &future}, want: true},
		{name: "active expired", voucher: Voucher{IsActive: true, ExpiresAt: &past}},
		{name: "expires right now", voucher: Voucher{IsActive: true, ExpiresAt: &now}},
		{name: "inactive", voucher: Voucher{IsActive: false}},
		{name: "inactive not expired", voucher: Voucher{IsActive: false, ExpiresAt: &future}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.voucher.IsUsable(now))
		})
	}
}

func TestVoucherDiscount(t *testing.T) {
	cases := []struct {
		name         string
		voucher      Voucher
		total        string
		wantDiscount string
		wantAfter    string
	}{
		{
			name:         "percent",
			voucher:      Voucher{DiscountPercent: decimal.NewNullDecimal(decimal.NewFromInt(20))},
			total:        "20000",
			wantDiscount: "4000",
			wantAfter:    "16000",
		},
		{
			name:         "percent rounds to cents",
			voucher:      Voucher{DiscountPercent: decimal.NewNullDecimal(decimal.RequireFromString("12.5"))},
			total:        "10.01",
			wantDiscount: "1.25",
			wantAfter:    "8.76",
		},
		{
			name:         "fixed amount",
			voucher:      Voucher{DiscountAmount: decimal.NewNullDecimal(decimal.NewFromInt(150))},
			total:        "1000",
			wantDiscount: "150",
			wantAfter:    "850",
		},
		{
			name:         "amount above total floors at zero",
			voucher:      Voucher{DiscountAmount: decimal.NewNullDecimal(decimal.NewFromInt(500))},
			total:        "120",
			wantDiscount: "500",
			wantAfter:    "0",
		},
		{
			name: "percent wins over amount",
			voucher: Voucher{
				DiscountPercent: decimal.NewNullDecimal(decimal.NewFromInt(10)),
				DiscountAmount:  decimal.NewNullDecimal(decimal.NewFromInt(999)),
			},
			total:        "200",
			wantDiscount: "20",
			wantAfter:    "180",
		},
		{
			name:         "no discount",
			voucher:      Voucher{},
			total:        "99.99",
			wantDiscount: "0",
			wantAfter:    "99.99",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			total := decimal.RequireFromString(c.total)
			discount := c.voucher.Discount(total)
			assert.True(t, decimal.RequireFromString(c.wantDiscount).Equal(discount), "discount %s", discount)
			after := ApplyDiscount(total, discount)
			assert.True(t, decimal.RequireFromString(c.wantAfter).Equal(after), "after %s", after)
		})
	}
}

func TestValidateDiscount(t *testing.T) {
	p := func(s string) decimal.NullDecimal { return decimal.NewNullDecimal(decimal.RequireFromString(s)) }
	none := decimal.NullDecimal{}

	require.NoError(t, ValidateDiscount(p("20"), none))
	require.NoError(t, ValidateDiscount(p("100"), none))
	require.NoError(t, ValidateDiscount(none, p("5.50")))

	for name, args := range map[string][2]decimal.NullDecimal{
		"both":            {p("10"), p("10")},
		"none":            {none, none},
		"zero percent":    {p("0"), none},
		"percent over":    {p("100.01"), none},
		"negative amount": {none, p("-1")},
		"negative pct":    {p("-5"), none},
	} {
		t.Run(name, func(t *testing.T) {
			err := ValidateDiscount(args[0], args[1])
			require.ErrorIs(t, err, ErrVoucherDiscount)
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestActorCanManage(t *testing.T) {
	assert.True(t, Actor{UserID: 1, Role: RoleAdmin}.CanManage(42))
	assert.True(t, Actor{UserID: 42, Role: RoleVendor}.CanManage(42))
	assert.False(t, Actor{UserID: 7, Role: RoleVendor}.CanManage(42))
	assert.False(t, Actor{UserID: 42, Role: RoleCustomer}.CanManage(42))
}

func TestParseRegistrationRole(t *testing.T) {
	role, err := ParseRegistrationRole("")
	require.NoError(t, err)
	assert.Equal(t, RoleCustomer, role)

	role, err = ParseRegistrationRole("vendor")
	require.NoError(t, err)
	assert.Equal(t, RoleVendor, role)

	_, err = ParseRegistrationRole("admin")
	require.ErrorIs(t, err, ErrValidation)
}

package repoargs

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateVoucher struct {
	Code            string
	VendorID        int64
	DiscountPercent decimal.NullDecimal
	DiscountAmount  decimal.NullDecimal
	IsActive        bool
	ExpiresAt       *time.Time
}

// UpdateVoucher заменяет все изменяемые поля ваучера. Владелец ваучера не меняется.
type UpdateVoucher struct {
	Code            string
	DiscountPercent decimal.NullDecimal
	DiscountAmount  decimal.NullDecimal
	IsActive        bool
	ExpiresAt       *time.Time
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const moneyPlaces = 2

var hundred = decimal.NewFromInt(100)

type Voucher struct {
	ID              int64
	CreatedAt       time.Time
	Code            string
	VendorID        int64
	DiscountPercent decimal.NullDecimal
	DiscountAmount  decimal.NullDecimal
	IsActive        bool
	ExpiresAt       *time.Time
}

// IsUsable ваучер действует, пока он активен и срок его действия не истек. Неактивный и просроченный ваучеры
// неотличимы для вызывающего кода.
func (v *Voucher) IsUsable(now time.Time) bool {
	if !v.IsActive {
		return false
	}
	return v.ExpiresAt == nil || now.Before(*v.ExpiresAt)
}

// Discount считает скидку для суммы total. Процент имеет приоритет над фиксированной суммой.
func (v *Voucher) Discount(total decimal.Decimal) decimal.Decimal {
	if v.DiscountPercent.Valid && !v.DiscountPercent.Decimal.IsZero() {
		return total.Mul(v.DiscountPercent.Decimal).Div(hundred).Round(moneyPlaces)
	}
	if v.DiscountAmount.Valid {
		return v.DiscountAmount.Decimal.Round(moneyPlaces)
	}
	return decimal.Zero
}

// ValidateDiscount ровно один вид скидки: процент в (0, 100] или положительная сумма.
func ValidateDiscount(percent, amount decimal.NullDecimal) error {
	hasPercent := percent.Valid && !percent.Decimal.IsZero()
	hasAmount := amount.Valid && !amount.Decimal.IsZero()
	switch {
	case hasPercent == hasAmount:
		return ErrVoucherDiscount
	case hasPercent:
		if percent.Decimal.IsNegative() || percent.Decimal.GreaterThan(hundred) {
			return ErrVoucherDiscount
		}
	case hasAmount:
		if amount.Decimal.IsNegative() {
			return ErrVoucherDiscount
		}
	}
	return nil
}

// ApplyDiscount итоговая сумма после скидки, не меньше нуля.
func ApplyDiscount(total, discount decimal.Decimal) decimal.Decimal {
	after := total.Sub(discount)
	if after.IsNegative() {
		return decimal.Zero
	}
	return after.Round(moneyPlaces)
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type DirectionType string

const (
	DirectionDebit  DirectionType = "debit"
	DirectionCredit DirectionType = "credit"
)

type User struct {
	ID                int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Email             string
	Username          string
	EncryptedPassword string
	Role              UserRole
}

type Product struct {
	ID            int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
	VendorID      int64
	Name          string
	Slug          string
	Description   string
	Price         decimal.Decimal
	StockQuantity int64
}

// Order заголовок заказа. TotalAmount хранит сумму после применения скидки, она никогда не бывает меньше нуля.
type Order struct {
	ID          int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	UserID      int64
	TotalAmount decimal.Decimal
	Status      OrderStatus
	VoucherID   *int64
}

// OrderItem строка заказа. Цена и вендор фиксируются на момент создания заказа и больше не меняются.
type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	VendorID  int64
	Quantity  int64
	UnitPrice decimal.Decimal
}

// LineTotal стоимость строки: количество * цена за единицу.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

type BalanceTransaction struct {
	ID        int64
	CreatedAt time.Time
	UserID    int64
	Direction DirectionType
	Amount    decimal.Decimal
}

// Cart корзина покупателя, у пользователя она одна.
type Cart struct {
	ID        int64
	CreatedAt time.Time
	UserID    int64
}

type CartItem struct {
	ID        int64
	CartID    int64
	ProductID int64
	Quantity  int64
	AddedAt   time.Time
}

// Category категория товаров. ParentID nil у категорий верхнего уровня.
type Category struct {
	ID        int64
	CreatedAt time.Time
	UpdatedAt time.Time
	VendorID  int64
	ParentID  *int64
	Name      string
	Slug      string
	ImageURL  string
}

type Feedback struct {
	ID        int64
	CreatedAt time.Time
	UserID    int64
	ProductID int64
	Rating    int
	Comment   string
}

type WishlistItem struct {
	ID        int64
	AddedAt   time.Time
	UserID    int64
	ProductID int64
	VendorID  int64
}

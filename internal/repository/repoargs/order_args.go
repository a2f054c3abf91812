package repoargs

import (
	"github.com/fsdevblog/groph-market/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateOrder struct {
	UserID      int64
	TotalAmount decimal.Decimal
	Status      domain.OrderStatus
	VoucherID   *int64
}

type CreateOrderItem struct {
	OrderID   int64
	ProductID int64
	VendorID  int64
	Quantity  int64
	UnitPrice decimal.Decimal
}

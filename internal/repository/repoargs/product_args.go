package repoargs

import "github.com/shopspring/decimal"

type CreateProduct struct {
	VendorID      int64
	Name          string
	Slug          string
	Description   string
	Price         decimal.Decimal
	StockQuantity int64
}

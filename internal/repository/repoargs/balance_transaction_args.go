package repoargs

import (
	"github.com/fsdevblog/groph-market/internal/domain"
	"github.com/shopspring/decimal"
)

type BalanceTransactionCreate struct {
	UserID    int64
	Direction domain.DirectionType
	Amount    decimal.Decimal
}

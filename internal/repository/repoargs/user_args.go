package repoargs

import (
	"github.com/fsdevblog/groph-market/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateUser struct {
	Email    string
	Username string
	Password string
	Role     domain.UserRole
}

type BalanceAggregation struct {
	DebitAmount  decimal.Decimal
	CreditAmount decimal.Decimal
}

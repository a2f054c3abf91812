package service

import (
	"context"
	"fmt"

	"github.com/fsdevblog/groph-market/internal/domain"
	"github.com/fsdevblog/groph-market/internal/repository/repoargs"
	"github.com/fsdevblog/groph-market/pkg/uow"
	"github.com/shopspring/decimal"
)

type BalanceTransactionService struct {
	uow          uow.UOW
	blRepo       BalanceTransactionRepository
	maxTopUpSize decimal.Decimal
}

func NewBalanceTransactionService(u uow.UOW, maxTopUp decimal.Decimal) (*BalanceTransactionService, error) {
	rName := uow.RepositoryName(repoargs.BalanceTransactionRepoName)
	blRepo, blRepoErr := uow.GetRepositoryAs[BalanceTransactionRepository](u, rName)
	if blRepoErr != nil {
		return nil, blRepoErr //nolint:wrapcheck
	}
	return &BalanceTransactionService{
		uow:          u,
		blRepo:       blRepo,
		maxTopUpSize: maxTopUp,
	}, nil
}

type UserBalance struct {
	UserID    int64
	Current   decimal.Decimal
	Withdrawn decimal.Decimal
}

// GetUserBalance текущий баланс: сумма поступлений минус сумма списаний.
func (b *BalanceTransactionService) GetUserBalance(ctx context.Context, userID int64) (*UserBalance, error) {
	agg, err := b.blRepo.GetUserBalance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("getting user balance: %w", err)
	}
	return &UserBalance{
		UserID:    userID,
		Current:   agg.DebitAmount.Sub(agg.CreditAmount),
		Withdrawn: agg.CreditAmount,
	}, nil
}

// TopUp пополняет баланс на amount. Сумма должна быть положительной и не больше лимита одного пополнения,
// если лимит задан.
func (b *BalanceTransactionService) TopUp(
	ctx context.Context,
	userID int64,
	amount decimal.Decimal,
) (*domain.BalanceTransaction, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("top up: %w",
			domain.NewKindError(domain.ErrValidation, "top up amount must be greater than zero"))
	}
	if b.maxTopUpSize.IsPositive() && amount.GreaterThan(b.maxTopUpSize) {
		return nil, fmt.Errorf("top up: %w", domain.NewKindError(
			domain.ErrValidation,
			fmt.Sprintf("top up amount must not exceed %s", b.maxTopUpSize.StringFixed(moneyPlaces)),
		))
	}

	transaction, err := b.blRepo.Create(ctx, repoargs.BalanceTransactionCreate{
		UserID:    userID,
		Direction: domain.DirectionDebit,
		Amount:    amount.Round(moneyPlaces),
	})
	if err != nil {
		return nil, fmt.Errorf("top up: %w", err)
	}
	return transaction, nil
}

// History все движения по балансу пользователя, новые сверху.
func (b *BalanceTransactionService) History(ctx context.Context, userID int64) ([]domain.BalanceTransaction, error) {
	transactions, err := b.blRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("getting balance history: %w", err)
	}
	return transactions, nil
}

package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-market/internal/domain"
	"github.com/fsdevblog/groph-market/internal/repository/repoargs"
	"github.com/fsdevblog/groph-market/pkg/uow"
)

const balanceTransactionColumns = `id, created_at, user_id, direction::text, amount`

const (
	createBalanceTransactionSQL = `INSERT INTO balance_transactions (user_id, direction, amount)
		VALUES ($1, $2::text::balance_direction, $3)
		RETURNING ` + balanceTransactionColumns

	getUserBalanceSQL = `SELECT
			COALESCE(SUM(amount) FILTER (WHERE direction = 'debit'), 0),
			COALESCE(SUM(amount) FILTER (WHERE direction = 'credit'), 0)
		FROM balance_transactions WHERE user_id = $1`

	getBalanceTransactionsByUserIDSQL = `SELECT ` + balanceTransactionColumns + `
		FROM balance_transactions WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
)

type BalanceTransactionRepository struct {
	conn uow.DBTX
}

func NewBalanceTransactionRepository(conn uow.DBTX) *BalanceTransactionRepository {
	return &BalanceTransactionRepository{conn: conn}
}

func (b *BalanceTransactionRepository) Create(
	ctx context.Context,
	args repoargs.BalanceTransactionCreate,
) (*domain.BalanceTransaction, error) {
	row := b.conn.QueryRow(ctx, createBalanceTransactionSQL, args.UserID, string(args.Direction), args.Amount)
	transaction, err := scanBalanceTransaction(row)
	if err != nil {
		return nil, convertErr(err, "creating %s balance transaction for user `%d`", args.Direction, args.UserID)
	}
	return &transaction, nil
}

// GetUserBalance суммы поступлений и списаний пользователя. Для пользователя без транзакций обе суммы нулевые.
func (b *BalanceTransactionRepository) GetUserBalance(
	ctx context.Context,
	userID int64,
) (*repoargs.BalanceAggregation, error) {
	var agg repoargs.BalanceAggregation
	if err := b.conn.QueryRow(ctx, getUserBalanceSQL, userID).Scan(&agg.DebitAmount, &agg.CreditAmount); err != nil {
		return nil, convertErr(err, "getting balance of user `%d`", userID)
	}
	return &agg, nil
}

func (b *BalanceTransactionRepository) GetByUserID(
	ctx context.Context,
	userID int64,
) ([]domain.BalanceTransaction, error) {
	rows, err := b.conn.Query(ctx, getBalanceTransactionsByUserIDSQL, userID)
	if err != nil {
		return nil, convertErr(err, "getting balance transactions of user `%d`", userID)
	}
	transactions, err := collect(rows, scanBalanceTransaction)
	if err != nil {
		return nil, convertErr(err, "getting balance transactions of user `%d`", userID)
	}
	return transactions, nil
}

func scanBalanceTransaction(row rowScanner) (domain.BalanceTransaction, error) {
	var (
		transaction domain.BalanceTransaction
		direction   string
	)
	err := row.Scan(&transaction.ID, &transaction.CreatedAt, &transaction.UserID, &direction, &transaction.Amount)
	transaction.Direction = domain.DirectionType(direction)
	return transaction, err
}

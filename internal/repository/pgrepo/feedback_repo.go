package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-market/internal/domain"
	"github.com/fsdevblog/groph-market/internal/repository/repoargs"
	"github.com/fsdevblog/groph-market/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const feedbackColumns = `id, created_at, user_id, product_id, rating, comment`

const (
	createFeedbackSQL = `INSERT INTO feedback (user_id, product_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + feedbackColumns

	getFeedbackByIDSQL = `SELECT ` + feedbackColumns + ` FROM feedback WHERE id = $1`

	listFeedbackSQL = `SELECT ` + feedbackColumns + ` FROM feedback ORDER BY id LIMIT $1 OFFSET $2`

	listFeedbackByProductSQL = `SELECT ` + feedbackColumns + ` FROM feedback
		WHERE product_id = $1 ORDER BY created_at DESC, id DESC`

	listFeedbackByUserSQL = `SELECT ` + feedbackColumns + ` FROM feedback
		WHERE user_id = $1 ORDER BY created_at DESC, id DESC`

	deleteFeedbackSQL = `DELETE FROM feedback WHERE id = $1`

	// купленным считается товар из доставленного или выполненного заказа.
	hasPurchasedSQL = `SELECT EXISTS (
		SELECT 1 FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.user_id = $1 AND oi.product_id = $2 AND o.status IN ('delivered', 'completed')
	)`
)

type FeedbackRepository struct {
	conn uow.DBTX
}

func NewFeedbackRepository(conn uow.DBTX) *FeedbackRepository {
	return &FeedbackRepository{conn: conn}
}

func (f *FeedbackRepository) Create(ctx context.Context, args repoargs.CreateFeedback) (*domain.Feedback, error) {
	row := f.conn.QueryRow(ctx, createFeedbackSQL, args.UserID, args.ProductID, args.Rating, args.Comment)
	feedback, err := scanFeedback(row)
	if err != nil {
		return nil, convertErr(err, "creating feedback for product `%d`", args.ProductID)
	}
	return &feedback, nil
}

func (f *FeedbackRepository) GetByID(ctx context.Context, id int64) (*domain.Feedback, error) {
	feedback, err := scanFeedback(f.conn.QueryRow(ctx, getFeedbackByIDSQL, id))
	if err != nil {
		return nil, convertErr(err, "getting feedback by id `%d`", id)
	}
	return &feedback, nil
}

func (f *FeedbackRepository) List(ctx context.Context, page repoargs.Pagination) ([]domain.Feedback, error) {
	limit, offset, err := limitOffset(page)
	if err != nil {
		return nil, convertErr(err, "converting pagination")
	}
	return f.query(ctx, "listing feedback", listFeedbackSQL, limit, offset)
}

func (f *FeedbackRepository) ListByProduct(ctx context.Context, productID int64) ([]domain.Feedback, error) {
	return f.query(ctx, "listing feedback of product", listFeedbackByProductSQL, productID)
}

func (f *FeedbackRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Feedback, error) {
	return f.query(ctx, "listing feedback of user", listFeedbackByUserSQL, userID)
}

func (f *FeedbackRepository) Delete(ctx context.Context, id int64) error {
	tag, err := f.conn.Exec(ctx, deleteFeedbackSQL, id)
	if err != nil {
		return convertErr(err, "deleting feedback `%d`", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "deleting feedback `%d`", id)
	}
	return nil
}

// HasPurchased сообщает, есть ли товар productID в доставленных или выполненных заказах пользователя.
func (f *FeedbackRepository) HasPurchased(ctx context.Context, userID, productID int64) (bool, error) {
	var purchased bool
	if err := f.conn.QueryRow(ctx, hasPurchasedSQL, userID, productID).Scan(&purchased); err != nil {
		return false, convertErr(err, "checking purchase of product `%d` by user `%d`", productID, userID)
	}
	return purchased, nil
}

func (f *FeedbackRepository) query(ctx context.Context, op, sql string, args ...any) ([]domain.Feedback, error) {
	rows, err := f.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, convertErr(err, op)
	}
	feedback, err := collect(rows, scanFeedback)
	if err != nil {
		return nil, convertErr(err, op)
	}
	return feedback, nil
}

func scanFeedback(row rowScanner) (domain.Feedback, error) {
	var feedback domain.Feedback
	err := row.Scan(
		&feedback.ID, &feedback.CreatedAt, &feedback.UserID, &feedback.ProductID, &feedback.Rating, &feedback.Comment,
	)
	return feedback, err
}

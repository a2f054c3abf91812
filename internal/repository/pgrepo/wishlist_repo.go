package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-market/internal/domain"
	"github.com/fsdevblog/groph-market/internal/repository/repoargs"
	"github.com/fsdevblog/groph-market/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const wishlistColumns = `id, added_at, user_id, product_id, vendor_id`

const (
	addWishlistItemSQL = `INSERT INTO wishlist_items (user_id, product_id, vendor_id)
		VALUES ($1, $2, $3)
		RETURNING ` + wishlistColumns

	listWishlistSQL = `SELECT ` + wishlistColumns + ` FROM wishlist_items WHERE user_id = $1 ORDER BY added_at, id`

	removeWishlistItemSQL = `DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2`

	clearWishlistSQL = `DELETE FROM wishlist_items WHERE user_id = $1`
)

type WishlistRepository struct {
	conn uow.DBTX
}

func NewWishlistRepository(conn uow.DBTX) *WishlistRepository {
	return &WishlistRepository{conn: conn}
}

// Add добавляет товар в избранное. Повторное добавление приходит как domain.ErrDuplicateKey.
func (w *WishlistRepository) Add(ctx context.Context, args repoargs.AddWishlistItem) (*domain.WishlistItem, error) {
	row := w.conn.QueryRow(ctx, addWishlistItemSQL, args.UserID, args.ProductID, args.VendorID)
	item, err := scanWishlistItem(row)
	if err != nil {
		return nil, convertErr(err, "adding product `%d` to wishlist of user `%d`", args.ProductID, args.UserID)
	}
	return &item, nil
}

func (w *WishlistRepository) ListByUser(ctx context.Context, userID int64) ([]domain.WishlistItem, error) {
	rows, err := w.conn.Query(ctx, listWishlistSQL, userID)
	if err != nil {
		return nil, convertErr(err, "listing wishlist of user `%d`", userID)
	}
	items, err := collect(rows, scanWishlistItem)
	if err != nil {
		return nil, convertErr(err, "listing wishlist of user `%d`", userID)
	}
	return items, nil
}

func (w *WishlistRepository) Remove(ctx context.Context, userID, productID int64) error {
	tag, err := w.conn.Exec(ctx, removeWishlistItemSQL, userID, productID)
	if err != nil {
		return convertErr(err, "removing product `%d` from wishlist of user `%d`", productID, userID)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "removing product `%d` from wishlist of user `%d`", productID, userID)
	}
	return nil
}

func (w *WishlistRepository) Clear(ctx context.Context, userID int64) error {
	if _, err := w.conn.Exec(ctx, clearWishlistSQL, userID); err != nil {
		return convertErr(err, "clearing wishlist of user `%d`", userID)
	}
	return nil
}

func scanWishlistItem(row rowScanner) (domain.WishlistItem, error) {
	var item domain.WishlistItem
	err := row.Scan(&item.ID, &item.AddedAt, &item.UserID, &item.ProductID, &item.VendorID)
	return item, err
}

package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-market/internal/domain"
	"github.com/fsdevblog/groph-market/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const (
	cartColumns     = `id, created_at, user_id`
	cartItemColumns = `id, cart_id, product_id, quantity, added_at`
)

const (
	// no-op UPDATE нужен, чтобы RETURNING вернул уже существующую корзину.
	getOrCreateCartSQL = `INSERT INTO carts (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING ` + cartColumns

	getCartByUserIDSQL = `SELECT ` + cartColumns + ` FROM carts WHERE user_id = $1`

	addCartItemSQL = `INSERT INTO cart_items (cart_id, product_id, quantity) VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_id) DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING ` + cartItemColumns

	getCartItemsSQL = `SELECT ` + cartItemColumns + ` FROM cart_items WHERE cart_id = $1 ORDER BY id`

	getCartItemSQL = `SELECT ` + cartItemColumns + ` FROM cart_items WHERE id = $1`

	updateCartItemQuantitySQL = `UPDATE cart_items SET quantity = $2 WHERE id = $1 RETURNING ` + cartItemColumns

	deleteCartItemSQL = `DELETE FROM cart_items WHERE id = $1`

	clearCartSQL = `DELETE FROM cart_items WHERE cart_id = $1`
)

type CartRepository struct {
	conn uow.DBTX
}

func NewCartRepository(conn uow.DBTX) *CartRepository {
	return &CartRepository{conn: conn}
}

// GetOrCreate возвращает корзину пользователя, создавая её при первом обращении.
func (c *CartRepository) GetOrCreate(ctx context.Context, userID int64) (*domain.Cart, error) {
	cart, err := scanCart(c.conn.QueryRow(ctx, getOrCreateCartSQL, userID))
	if err != nil {
		return nil, convertErr(err, "getting or creating cart of user `%d`", userID)
	}
	return &cart, nil
}

func (c *CartRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Cart, error) {
	cart, err := scanCart(c.conn.QueryRow(ctx, getCartByUserIDSQL, userID))
	if err != nil {
		return nil, convertErr(err, "getting cart of user `%d`", userID)
	}
	return &cart, nil
}

// AddItem добавляет товар в корзину. Если товар уже лежит в корзине, количество суммируется.
func (c *CartRepository) AddItem(ctx context.Context, cartID, productID, quantity int64) (*domain.CartItem, error) {
	item, err := scanCartItem(c.conn.QueryRow(ctx, addCartItemSQL, cartID, productID, quantity))
	if err != nil {
		return nil, convertErr(err, "adding product `%d` to cart `%d`", productID, cartID)
	}
	return &item, nil
}

func (c *CartRepository) GetItems(ctx context.Context, cartID int64) ([]domain.CartItem, error) {
	rows, err := c.conn.Query(ctx, getCartItemsSQL, cartID)
	if err != nil {
		return nil, convertErr(err, "getting items of cart `%d`", cartID)
	}
	items, err := collect(rows, scanCartItem)
	if err != nil {
		return nil, convertErr(err, "getting items of cart `%d`", cartID)
	}
	return items, nil
}

func (c *CartRepository) GetItem(ctx context.Context, id int64) (*domain.CartItem, error) {
	item, err := scanCartItem(c.conn.QueryRow(ctx, getCartItemSQL, id))
	if err != nil {
		return nil, convertErr(err, "getting cart item `%d`", id)
	}
	return &item, nil
}

func (c *CartRepository) UpdateItemQuantity(ctx context.Context, id, quantity int64) (*domain.CartItem, error) {
	item, err := scanCartItem(c.conn.QueryRow(ctx, updateCartItemQuantitySQL, id, quantity))
	if err != nil {
		return nil, convertErr(err, "updating quantity of cart item `%d`", id)
	}
	return &item, nil
}

func (c *CartRepository) DeleteItem(ctx context.Context, id int64) error {
	tag, err := c.conn.Exec(ctx, deleteCartItemSQL, id)
	if err != nil {
		return convertErr(err, "deleting cart item `%d`", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "deleting cart item `%d`", id)
	}
	return nil
}

// Clear удаляет все строки корзины. Пустая корзина ошибкой не считается.
func (c *CartRepository) Clear(ctx context.Context, cartID int64) error {
	if _, err := c.conn.Exec(ctx, clearCartSQL, cartID); err != nil {
		return convertErr(err, "clearing cart `%d`", cartID)
	}
	return nil
}

func scanCart(row rowScanner) (domain.Cart, error) {
	var cart domain.Cart
	err := row.Scan(&cart.ID, &cart.CreatedAt, &cart.UserID)
	return cart, err
}

func scanCartItem(row rowScanner) (domain.CartItem, error) {
	var item domain.CartItem
	err := row.Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.AddedAt)
	return item, err
}

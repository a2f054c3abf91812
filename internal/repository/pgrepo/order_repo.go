package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-market/internal/domain"
	"github.com/fsdevblog/groph-market/internal/repository/repoargs"
	"github.com/fsdevblog/groph-market/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const (
	orderColumns     = `id, created_at, updated_at, user_id, total_amount, status::text, voucher_id`
	orderItemColumns = `id, order_id, product_id, vendor_id, quantity, unit_price`
)

const (
	createOrderSQL = `INSERT INTO orders (user_id, total_amount, status, voucher_id)
		VALUES ($1, $2, $3::text::order_status, $4)
		RETURNING ` + orderColumns

	createOrderItemSQL = `INSERT INTO order_items (order_id, product_id, vendor_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + orderItemColumns

	getOrderByIDSQL = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	getOrderByIDForUpdateSQL = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`

	getOrdersByUserIDSQL = `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id DESC`

	getOrderItemsSQL = `SELECT ` + orderItemColumns + ` FROM order_items WHERE order_id = $1 ORDER BY id`

	updateOrderStatusSQL = `UPDATE orders SET status = $2::text::order_status, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + orderColumns

	deleteOrderItemsSQL = `DELETE FROM order_items WHERE order_id = $1`

	deleteOrderSQL = `DELETE FROM orders WHERE id = $1 RETURNING ` + orderColumns
)

type OrderRepository struct {
	conn uow.DBTX
}

func NewOrderRepository(conn uow.DBTX) *OrderRepository {
	return &OrderRepository{conn: conn}
}

func (o *OrderRepository) CreateOrder(ctx context.Context, args repoargs.CreateOrder) (*domain.Order, error) {
	row := o.conn.QueryRow(ctx, createOrderSQL, args.UserID, args.TotalAmount, string(args.Status), args.VoucherID)
	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "creating order for user `%d`", args.UserID)
	}
	return &order, nil
}

// CreateOrderItems вставляет строки заказа одним батчем. Результат в том же порядке, что и items.
func (o *OrderRepository) CreateOrderItems(
	ctx context.Context,
	items []repoargs.CreateOrderItem,
) (result []domain.OrderItem, err error) {
	if len(items) == 0 {
		return []domain.OrderItem{}, nil
	}

	batch := new(pgx.Batch)
	for _, item := range items {
		batch.Queue(createOrderItemSQL, item.OrderID, item.ProductID, item.VendorID, item.Quantity, item.UnitPrice)
	}

	br := o.conn.SendBatch(ctx, batch)
	defer func() {
		if closeErr := br.Close(); closeErr != nil && err == nil {
			result, err = nil, convertErr(closeErr, "closing order items batch")
		}
	}()

	result = make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		created, scanErr := scanOrderItem(br.QueryRow())
		if scanErr != nil {
			return nil, convertErr(scanErr,
				"creating item of order `%d` with product `%d`", item.OrderID, item.ProductID)
		}
		result = append(result, created)
	}
	return result, nil
}

func (o *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := scanOrder(o.conn.QueryRow(ctx, getOrderByIDSQL, id))
	if err != nil {
		return nil, convertErr(err, "getting order by id `%d`", id)
	}
	return &order, nil
}

// GetByIDForUpdate читает заказ с блокировкой строки до конца транзакции.
func (o *OrderRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := scanOrder(o.conn.QueryRow(ctx, getOrderByIDForUpdateSQL, id))
	if err != nil {
		return nil, convertErr(err, "getting order for update by id `%d`", id)
	}
	return &order, nil
}

// GetByUserID Возвращает список заказов по id юзера, отсортированный по дате создания по убыванию.
func (o *OrderRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error) {
	rows, err := o.conn.Query(ctx, getOrdersByUserIDSQL, userID)
	if err != nil {
		return nil, convertErr(err, "getting orders by userID `%d`", userID)
	}
	orders, err := collect(rows, scanOrder)
	if err != nil {
		return nil, convertErr(err, "getting orders by userID `%d`", userID)
	}
	return orders, nil
}

// GetItems возвращает строки заказа в порядке их id.
func (o *OrderRepository) GetItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	rows, err := o.conn.Query(ctx, getOrderItemsSQL, orderID)
	if err != nil {
		return nil, convertErr(err, "getting items of order `%d`", orderID)
	}
	items, err := collect(rows, scanOrderItem)
	if err != nil {
		return nil, convertErr(err, "getting items of order `%d`", orderID)
	}
	return items, nil
}

func (o *OrderRepository) UpdateStatus(
	ctx context.Context,
	id int64,
	status domain.OrderStatus,
) (*domain.Order, error) {
	order, err := scanOrder(o.conn.QueryRow(ctx, updateOrderStatusSQL, id, string(status)))
	if err != nil {
		return nil, convertErr(err, "updating status of order `%d` to `%s`", id, status)
	}
	return &order, nil
}

func (o *OrderRepository) DeleteItems(ctx context.Context, orderID int64) error {
	if _, err := o.conn.Exec(ctx, deleteOrderItemsSQL, orderID); err != nil {
		return convertErr(err, "deleting items of order `%d`", orderID)
	}
	return nil
}

// Delete удаляет заголовок заказа и возвращает удаленную запись.
func (o *OrderRepository) Delete(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := scanOrder(o.conn.QueryRow(ctx, deleteOrderSQL, id))
	if err != nil {
		return nil, convertErr(err, "deleting order `%d`", id)
	}
	return &order, nil
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var (
		order  domain.Order
		status string
	)
	err := row.Scan(
		&order.ID, &order.CreatedAt, &order.UpdatedAt, &order.UserID,
		&order.TotalAmount, &status, &order.VoucherID,
	)
	order.Status = domain.OrderStatus(status)
	return order, err
}

func scanOrderItem(row rowScanner) (domain.OrderItem, error) {
	var item domain.OrderItem
	err := row.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.VendorID, &item.Quantity, &item.UnitPrice)
	return item, err
}

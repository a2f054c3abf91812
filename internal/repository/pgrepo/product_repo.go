package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-market/internal/domain"
	"github.com/fsdevblog/groph-market/internal/repository/repoargs"
	"github.com/fsdevblog/groph-market/pkg/uow"
)

const productColumns = `id, created_at, updated_at, vendor_id, name, slug, description, price, stock_quantity`

const (
	createProductSQL = `INSERT INTO products (vendor_id, name, slug, description, price, stock_quantity)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + productColumns

	getProductByIDSQL = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	getProductByIDForUpdateSQL = `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`

	getProductsByIDsSQL = `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1) ORDER BY id`

	listProductsSQL = `SELECT ` + productColumns + ` FROM products ORDER BY id LIMIT $1 OFFSET $2`

	updateProductStockSQL = `UPDATE products SET stock_quantity = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + productColumns

	// decrementProductStockSQL списывает остаток только если его хватает, поэтому счетчик не уходит в минус.
	decrementProductStockSQL = `UPDATE products SET stock_quantity = stock_quantity - $2, updated_at = NOW()
		WHERE id = $1 AND stock_quantity >= $2
		RETURNING ` + productColumns
)

type ProductRepository struct {
	conn uow.DBTX
}

func NewProductRepository(conn uow.DBTX) *ProductRepository {
	return &ProductRepository{conn: conn}
}

func (p *ProductRepository) Create(ctx context.Context, args repoargs.CreateProduct) (*domain.Product, error) {
	row := p.conn.QueryRow(ctx, createProductSQL,
		args.VendorID, args.Name, args.Slug, args.Description, args.Price, args.StockQuantity,
	)
	product, err := scanProduct(row)
	if err != nil {
		return nil, convertErr(err, "creating product `%s`", args.Slug)
	}
	return &product, nil
}

func (p *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := scanProduct(p.conn.QueryRow(ctx, getProductByIDSQL, id))
	if err != nil {
		return nil, convertErr(err, "getting product by id `%d`", id)
	}
	return &product, nil
}

// GetByIDForUpdate читает товар и блокирует строку до конца транзакции. Вне транзакции блокировка
// снимается сразу после запроса.
func (p *ProductRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := scanProduct(p.conn.QueryRow(ctx, getProductByIDForUpdateSQL, id))
	if err != nil {
		return nil, convertErr(err, "getting product for update by id `%d`", id)
	}
	return &product, nil
}

// GetByIDs возвращает найденные товары по списку id. Отсутствующие id пропускаются.
func (p *ProductRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Product, error) {
	rows, err := p.conn.Query(ctx, getProductsByIDsSQL, ids)
	if err != nil {
		return nil, convertErr(err, "getting products by ids `%v`", ids)
	}
	products, err := collect(rows, scanProduct)
	if err != nil {
		return nil, convertErr(err, "getting products by ids `%v`", ids)
	}
	return products, nil
}

func (p *ProductRepository) List(ctx context.Context, page repoargs.Pagination) ([]domain.Product, error) {
	limit, offset, err := limitOffset(page)
	if err != nil {
		return nil, convertErr(err, "converting pagination")
	}
	rows, err := p.conn.Query(ctx, listProductsSQL, limit, offset)
	if err != nil {
		return nil, convertErr(err, "listing products")
	}
	products, err := collect(rows, scanProduct)
	if err != nil {
		return nil, convertErr(err, "listing products")
	}
	return products, nil
}

func (p *ProductRepository) UpdateStock(ctx context.Context, id int64, stock int64) (*domain.Product, error) {
	product, err := scanProduct(p.conn.QueryRow(ctx, updateProductStockSQL, id, stock))
	if err != nil {
		return nil, convertErr(err, "updating stock of product `%d`", id)
	}
	return &product, nil
}

// DecrementStock уменьшает остаток на quantity. Если товара нет или остатка не хватает, возвращает
// ошибку domain.ErrRecordNotFound.
func (p *ProductRepository) DecrementStock(ctx context.Context, id int64, quantity int64) (*domain.Product, error) {
	product, err := scanProduct(p.conn.QueryRow(ctx, decrementProductStockSQL, id, quantity))
	if err != nil {
		return nil, convertErr(err, "decrementing stock of product `%d` by %d", id, quantity)
	}
	return &product, nil
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var product domain.Product
	err := row.Scan(
		&product.ID, &product.CreatedAt, &product.UpdatedAt, &product.VendorID,
		&product.Name, &product.Slug, &product.Description, &product.Price, &product.StockQuantity,
	)
	return product, err
}

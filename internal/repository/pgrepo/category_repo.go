package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-market/internal/domain"
	"github.com/fsdevblog/groph-market/internal/repository/repoargs"
	"github.com/fsdevblog/groph-market/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const categoryColumns = `id, created_at, updated_at, vendor_id, parent_id, name, slug, image_url`

const (
	createCategorySQL = `INSERT INTO categories (vendor_id, parent_id, name, slug, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + categoryColumns

	getCategoryByIDSQL = `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`

	listCategoriesSQL = `SELECT ` + categoryColumns + ` FROM categories ORDER BY id LIMIT $1 OFFSET $2`

	updateCategorySQL = `UPDATE categories
		SET parent_id = $2, name = $3, slug = $4, image_url = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + categoryColumns

	deleteCategorySQL = `DELETE FROM categories WHERE id = $1`

	assignProductCategorySQL = `INSERT INTO product_categories (product_id, category_id) VALUES ($1, $2)`

	unassignProductCategorySQL = `DELETE FROM product_categories WHERE product_id = $1 AND category_id = $2`

	getCategoriesByProductSQL = `SELECT c.id, c.created_at, c.updated_at, c.vendor_id, c.parent_id,
			c.name, c.slug, c.image_url
		FROM categories c
		JOIN product_categories pc ON pc.category_id = c.id
		WHERE pc.product_id = $1
		ORDER BY c.id`
)

type CategoryRepository struct {
	conn uow.DBTX
}

func NewCategoryRepository(conn uow.DBTX) *CategoryRepository {
	return &CategoryRepository{conn: conn}
}

func (r *CategoryRepository) Create(ctx context.Context, args repoargs.CreateCategory) (*domain.Category, error) {
	row := r.conn.QueryRow(ctx, createCategorySQL, args.VendorID, args.ParentID, args.Name, args.Slug, args.ImageURL)
	category, err := scanCategory(row)
	if err != nil {
		return nil, convertErr(err, "creating category `%s`", args.Slug)
	}
	return &category, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	category, err := scanCategory(r.conn.QueryRow(ctx, getCategoryByIDSQL, id))
	if err != nil {
		return nil, convertErr(err, "getting category by id `%d`", id)
	}
	return &category, nil
}

func (r *CategoryRepository) List(ctx context.Context, page repoargs.Pagination) ([]domain.Category, error) {
	limit, offset, err := limitOffset(page)
	if err != nil {
		return nil, convertErr(err, "converting pagination")
	}
	rows, err := r.conn.Query(ctx, listCategoriesSQL, limit, offset)
	if err != nil {
		return nil, convertErr(err, "listing categories")
	}
	categories, err := collect(rows, scanCategory)
	if err != nil {
		return nil, convertErr(err, "listing categories")
	}
	return categories, nil
}

func (r *CategoryRepository) Update(
	ctx context.Context,
	id int64,
	args repoargs.UpdateCategory,
) (*domain.Category, error) {
	row := r.conn.QueryRow(ctx, updateCategorySQL, id, args.ParentID, args.Name, args.Slug, args.ImageURL)
	category, err := scanCategory(row)
	if err != nil {
		return nil, convertErr(err, "updating category `%d`", id)
	}
	return &category, nil
}

// Delete удаляет категорию. Дочерние категории становятся категориями верхнего уровня.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn.Exec(ctx, deleteCategorySQL, id)
	if err != nil {
		return convertErr(err, "deleting category `%d`", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "deleting category `%d`", id)
	}
	return nil
}

// AssignProduct привязывает товар к категории. Повторная привязка приходит как domain.ErrDuplicateKey.
func (r *CategoryRepository) AssignProduct(ctx context.Context, productID, categoryID int64) error {
	if _, err := r.conn.Exec(ctx, assignProductCategorySQL, productID, categoryID); err != nil {
		return convertErr(err, "assigning category `%d` to product `%d`", categoryID, productID)
	}
	return nil
}

func (r *CategoryRepository) UnassignProduct(ctx context.Context, productID, categoryID int64) error {
	tag, err := r.conn.Exec(ctx, unassignProductCategorySQL, productID, categoryID)
	if err != nil {
		return convertErr(err, "removing category `%d` from product `%d`", categoryID, productID)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "removing category `%d` from product `%d`", categoryID, productID)
	}
	return nil
}

func (r *CategoryRepository) GetByProductID(ctx context.Context, productID int64) ([]domain.Category, error) {
	rows, err := r.conn.Query(ctx, getCategoriesByProductSQL, productID)
	if err != nil {
		return nil, convertErr(err, "getting categories of product `%d`", productID)
	}
	categories, err := collect(rows, scanCategory)
	if err != nil {
		return nil, convertErr(err, "getting categories of product `%d`", productID)
	}
	return categories, nil
}

func scanCategory(row rowScanner) (domain.Category, error) {
	var category domain.Category
	err := row.Scan(
		&category.ID, &category.CreatedAt, &category.UpdatedAt, &category.VendorID, &category.ParentID,
		&category.Name, &category.Slug, &category.ImageURL,
	)
	return category, err
}

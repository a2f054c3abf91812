package service

import (
	"context"
	"fmt"

	"github.com/fsdevblog/groph-market/internal/domain"
	"github.com/fsdevblog/groph-market/internal/repository/repoargs"
	"github.com/fsdevblog/groph-market/pkg/uow"
	"github.com/shopspring/decimal"
)

type ProductService struct {
	uow         uow.UOW
	productRepo ProductRepository
}

func NewProductService(u uow.UOW) (*ProductService, error) {
	productRepo, err := uow.GetRepositoryAs[ProductRepository](u, uow.RepositoryName(repoargs.ProductRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &ProductService{
		uow:         u,
		productRepo: productRepo,
	}, nil
}

type CreateProductArgs struct {
	Name          string
	Description   string
	Price         decimal.Decimal
	StockQuantity int64
}

// Create добавляет товар в каталог вендора actor. Создавать товары могут только вендоры.
func (p *ProductService) Create(
	ctx context.Context,
	actor domain.Actor,
	args CreateProductArgs,
) (*domain.Product, error) {
	if !actor.IsVendor() {
		return nil, fmt.Errorf("creating product: %w", domain.ErrVendorOnly)
	}
	if args.Price.IsNegative() || args.StockQuantity < 0 {
		return nil, fmt.Errorf("creating product: %w", domain.ErrNegativeAmount)
	}

	product, err := p.productRepo.Create(ctx, repoargs.CreateProduct{
		VendorID:      actor.UserID,
		Name:          args.Name,
		Slug:          productSlug(args.Name, actor.UserID),
		Description:   args.Description,
		Price:         args.Price.Round(moneyPlaces),
		StockQuantity: args.StockQuantity,
	})
	if err != nil {
		return nil, fmt.Errorf("creating product: %w", err)
	}
	return product, nil
}

func (p *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := p.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting product: %w", productLookupErr(id, err))
	}
	return product, nil
}

func (p *ProductService) List(ctx context.Context, page repoargs.Pagination) ([]domain.Product, error) {
	products, err := p.productRepo.List(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return products, nil
}

// UpdateStock выставляет остаток товара. Менять остаток может вендор-владелец или админ.
func (p *ProductService) UpdateStock(
	ctx context.Context,
	actor domain.Actor,
	productID int64,
	stock int64,
) (*domain.Product, error) {
	if stock < 0 {
		return nil, fmt.Errorf("updating stock: %w", domain.ErrNegativeAmount)
	}

	var updated *domain.Product
	txErr := p.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		repo, repoErr := uow.GetAs[ProductRepository](tx, uow.RepositoryName(repoargs.ProductRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}
		product, err := repo.GetByIDForUpdate(c, productID)
		if err != nil {
			return productLookupErr(productID, err)
		}
		if !actor.CanManage(product.VendorID) {
			return domain.ErrNotOwner
		}
		updated, err = repo.UpdateStock(c, productID, stock)
		return err //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("updating stock: %w", txErr)
	}
	return updated, nil
}

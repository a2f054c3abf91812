package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fsdevblog/groph-market/internal/domain"
	"github.com/fsdevblog/groph-market/internal/repository/repoargs"
	"github.com/fsdevblog/groph-market/pkg/uow"
)

type CategoryService struct {
	uow          uow.UOW
	categoryRepo CategoryRepository
	productRepo  ProductRepository
}

func NewCategoryService(u uow.UOW) (*CategoryService, error) {
	categoryRepo, err := uow.GetRepositoryAs[CategoryRepository](u, uow.RepositoryName(repoargs.CategoryRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	productRepo, err := uow.GetRepositoryAs[ProductRepository](u, uow.RepositoryName(repoargs.ProductRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &CategoryService{
		uow:          u,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}, nil
}

type CategoryArgs struct {
	Name     string
	ParentID *int64
	ImageURL string
}

func (a CategoryArgs) validate() (string, error) {
	name := strings.TrimSpace(a.Name)
	if name == "" {
		return "", domain.NewKindError(domain.ErrValidation, "category name must not be empty")
	}
	return name, nil
}

// Create создает категорию от имени actor, он же становится её владельцем.
func (s *CategoryService) Create(ctx context.Context, actor domain.Actor, args CategoryArgs) (*domain.Category, error) {
	if !actor.IsVendor() && !actor.IsAdmin() {
		return nil, fmt.Errorf("creating category: %w", domain.ErrVendorOnly)
	}
	name, validErr := args.validate()
	if validErr != nil {
		return nil, fmt.Errorf("creating category: %w", validErr)
	}

	var category *domain.Category
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		repo, repoErr := uow.GetAs[CategoryRepository](tx, uow.RepositoryName(repoargs.CategoryRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}
		if parentErr := checkParentCategory(c, repo, args.ParentID, 0); parentErr != nil {
			return parentErr
		}
		var err error
		category, err = repo.Create(c, repoargs.CreateCategory{
			VendorID: actor.UserID,
			ParentID: args.ParentID,
			Name:     name,
			Slug:     categorySlug(name, actor.UserID),
			ImageURL: strings.TrimSpace(args.ImageURL),
		})
		return err //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("creating category: %w", txErr)
	}
	return category, nil
}

func (s *CategoryService) Get(ctx context.Context, id int64) (*domain.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting category: %w", categoryLookupErr(err))
	}
	return category, nil
}

func (s *CategoryService) List(ctx context.Context, page repoargs.Pagination) ([]domain.Category, error) {
	categories, err := s.categoryRepo.List(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return categories, nil
}

// Update меняет название, родителя и картинку категории. Slug пересчитывается от нового названия.
func (s *CategoryService) Update(
	ctx context.Context,
	actor domain.Actor,
	id int64,
	args CategoryArgs,
) (*domain.Category, error) {
	name, validErr := args.validate()
	if validErr != nil {
		return nil, fmt.Errorf("updating category: %w", validErr)
	}

	var updated *domain.Category
	update := func(c context.Context, repo CategoryRepository, cat *domain.Category) error {
		if parentErr := checkParentCategory(c, repo, args.ParentID, id); parentErr != nil {
			return parentErr
		}
		var err error
		updated, err = repo.Update(c, id, repoargs.UpdateCategory{
			ParentID: args.ParentID,
			Name:     name,
			Slug:     categorySlug(name, cat.VendorID),
			ImageURL: strings.TrimSpace(args.ImageURL),
		})
		return err //nolint:wrapcheck
	}
	if txErr := s.withOwnedCategory(ctx, actor, id, update); txErr != nil {
		return nil, fmt.Errorf("updating category: %w", txErr)
	}
	return updated, nil
}

func (s *CategoryService) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	del := func(c context.Context, repo CategoryRepository, _ *domain.Category) error {
		return repo.Delete(c, id) //nolint:wrapcheck
	}
	if txErr := s.withOwnedCategory(ctx, actor, id, del); txErr != nil {
		return fmt.Errorf("deleting category: %w", txErr)
	}
	return nil
}

// AssignProduct привязывает товар к категории. Привязывать может вендор-владелец товара или админ.
func (s *CategoryService) AssignProduct(ctx context.Context, actor domain.Actor, productID, categoryID int64) error {
	assign := func(c context.Context, repo CategoryRepository) error {
		if err := repo.AssignProduct(c, productID, categoryID); err != nil {
			if errors.Is(err, domain.ErrDuplicateKey) {
				return domain.ErrCategoryAssigned
			}
			return err //nolint:wrapcheck
		}
		return nil
	}
	if txErr := s.withManagedProduct(ctx, actor, productID, categoryID, assign); txErr != nil {
		return fmt.Errorf("assigning category: %w", txErr)
	}
	return nil
}

func (s *CategoryService) RemoveProduct(ctx context.Context, actor domain.Actor, productID, categoryID int64) error {
	unassign := func(c context.Context, repo CategoryRepository) error {
		return categoryLookupErr(repo.UnassignProduct(c, productID, categoryID))
	}
	if txErr := s.withManagedProduct(ctx, actor, productID, categoryID, unassign); txErr != nil {
		return fmt.Errorf("removing category: %w", txErr)
	}
	return nil
}

// ProductCategories возвращает категории товара в порядке их создания.
func (s *CategoryService) ProductCategories(ctx context.Context, productID int64) ([]domain.Category, error) {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return nil, fmt.Errorf("getting product categories: %w", productLookupErr(productID, err))
	}
	categories, err := s.categoryRepo.GetByProductID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("getting product categories: %w", err)
	}
	return categories, nil
}

// withOwnedCategory выполняет fn в транзакции, если актор может управлять категорией id.
func (s *CategoryService) withOwnedCategory(
	ctx context.Context,
	actor domain.Actor,
	id int64,
	fn func(c context.Context, repo CategoryRepository, category *domain.Category) error,
) error {
	return s.uow.Do(ctx, func(c context.Context, tx uow.TX) error { //nolint:wrapcheck
		repo, repoErr := uow.GetAs[CategoryRepository](tx, uow.RepositoryName(repoargs.CategoryRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}
		category, err := repo.GetByID(c, id)
		if err != nil {
			return categoryLookupErr(err)
		}
		if !actor.CanManage(category.VendorID) {
			return domain.ErrCategoryOwner
		}
		return fn(c, repo, category)
	})
}

// withManagedProduct выполняет fn в транзакции, если категория существует, а актор может управлять товаром.
func (s *CategoryService) withManagedProduct(
	ctx context.Context,
	actor domain.Actor,
	productID int64,
	categoryID int64,
	fn func(c context.Context, repo CategoryRepository) error,
) error {
	return s.uow.Do(ctx, func(c context.Context, tx uow.TX) error { //nolint:wrapcheck
		repo, repoErr := uow.GetAs[CategoryRepository](tx, uow.RepositoryName(repoargs.CategoryRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}
		productRepo, repoErr := uow.GetAs[ProductRepository](tx, uow.RepositoryName(repoargs.ProductRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}
		product, err := productRepo.GetByID(c, productID)
		if err != nil {
			return productLookupErr(productID, err)
		}
		if !actor.CanManage(product.VendorID) {
			return domain.ErrNotOwner
		}
		if _, catErr := repo.GetByID(c, categoryID); catErr != nil {
			return categoryLookupErr(catErr)
		}
		return fn(c, repo)
	})
}

// checkParentCategory родитель должен существовать и не совпадать с самой категорией selfID.
func checkParentCategory(ctx context.Context, repo CategoryRepository, parentID *int64, selfID int64) error {
	if parentID == nil {
		return nil
	}
	if *parentID == selfID {
		return domain.ErrCategoryParent
	}
	if _, err := repo.GetByID(ctx, *parentID); err != nil {
		return categoryLookupErr(err)
	}
	return nil
}

func categoryLookupErr(err error) error {
	if errors.Is(err, domain.ErrRecordNotFound) {
		return domain.ErrCategoryNotFound
	}
	return err
}

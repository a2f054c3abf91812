package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fsdevblog/groph-market/internal/domain"
	"github.com/fsdevblog/groph-market/internal/repository/repoargs"
	"github.com/fsdevblog/groph-market/pkg/uow"
)

type WishlistService struct {
	wishlistRepo WishlistRepository
	productRepo  ProductRepository
}

func NewWishlistService(u uow.UOW) (*WishlistService, error) {
	wishlistRepo, err := uow.GetRepositoryAs[WishlistRepository](u, uow.RepositoryName(repoargs.WishlistRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	productRepo, err := uow.GetRepositoryAs[ProductRepository](u, uow.RepositoryName(repoargs.ProductRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &WishlistService{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
	}, nil
}

func (s *WishlistService) List(ctx context.Context, userID int64) ([]domain.WishlistItem, error) {
	items, err := s.wishlistRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing wishlist: %w", err)
	}
	return items, nil
}

// Add добавляет товар в избранное пользователя, вендор берется из товара.
func (s *WishlistService) Add(ctx context.Context, userID, productID int64) (*domain.WishlistItem, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("adding to wishlist: %w", productLookupErr(productID, err))
	}
	item, err := s.wishlistRepo.Add(ctx, repoargs.AddWishlistItem{
		UserID:    userID,
		ProductID: product.ID,
		VendorID:  product.VendorID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, fmt.Errorf("adding to wishlist: %w", domain.ErrWishlistDuplicate)
		}
		return nil, fmt.Errorf("adding to wishlist: %w", err)
	}
	return item, nil
}

// Remove убирает товар productID из избранного пользователя.
func (s *WishlistService) Remove(ctx context.Context, userID, productID int64) error {
	if err := s.wishlistRepo.Remove(ctx, userID, productID); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return fmt.Errorf("removing from wishlist: %w", domain.ErrWishlistItemNotFound)
		}
		return fmt.Errorf("removing from wishlist: %w", err)
	}
	return nil
}

func (s *WishlistService) Clear(ctx context.Context, userID int64) error {
	if err := s.wishlistRepo.Clear(ctx, userID); err != nil {
		return fmt.Errorf("clearing wishlist: %w", err)
	}
	return nil
}

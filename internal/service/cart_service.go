package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fsdevblog/groph-market/internal/domain"
	"github.com/fsdevblog/groph-market/internal/repository/repoargs"
	"github.com/fsdevblog/groph-market/pkg/uow"
)

// CartService управляет корзиной покупателя. Оформление заказа из корзины выполняет OrderService.CreateFromCart.
type CartService struct {
	uow      uow.UOW
	cartRepo CartRepository
}

func NewCartService(u uow.UOW) (*CartService, error) {
	cartRepo, err := uow.GetRepositoryAs[CartRepository](u, uow.RepositoryName(repoargs.CartRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &CartService{
		uow:      u,
		cartRepo: cartRepo,
	}, nil
}

type CartContents struct {
	Cart  *domain.Cart
	Items []domain.CartItem
}

// Get возвращает корзину пользователя с её строками. Корзина создается при первом обращении.
func (s *CartService) Get(ctx context.Context, userID int64) (*CartContents, error) {
	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("getting cart: %w", err)
	}
	items, err := s.cartRepo.GetItems(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("getting cart: %w", err)
	}
	return &CartContents{Cart: cart, Items: items}, nil
}

// AddItem кладет товар в корзину. Если товар уже в корзине, количество прибавляется к имеющемуся.
// Остаток проверяется только при оформлении заказа.
func (s *CartService) AddItem(ctx context.Context, userID, productID, quantity int64) (*domain.CartItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("adding cart item: %w", domain.ErrInvalidQuantity)
	}

	var item *domain.CartItem
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		cartRepo, repoErr := uow.GetAs[CartRepository](tx, uow.RepositoryName(repoargs.CartRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}
		productRepo, repoErr := uow.GetAs[ProductRepository](tx, uow.RepositoryName(repoargs.ProductRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}

		if _, productErr := productRepo.GetByID(c, productID); productErr != nil {
			return productLookupErr(productID, productErr)
		}
		cart, cartErr := cartRepo.GetOrCreate(c, userID)
		if cartErr != nil {
			return cartErr //nolint:wrapcheck
		}
		var addErr error
		item, addErr = cartRepo.AddItem(c, cart.ID, productID, quantity)
		return addErr //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("adding cart item: %w", txErr)
	}
	return item, nil
}

// UpdateItem выставляет количество в строке корзины.
func (s *CartService) UpdateItem(ctx context.Context, userID, itemID, quantity int64) (*domain.CartItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("updating cart item: %w", domain.ErrInvalidQuantity)
	}

	var updated *domain.CartItem
	txErr := s.withOwnedCartItem(ctx, userID, itemID, func(c context.Context, repo CartRepository) error {
		var err error
		updated, err = repo.UpdateItemQuantity(c, itemID, quantity)
		return err //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("updating cart item: %w", txErr)
	}
	return updated, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID int64) error {
	txErr := s.withOwnedCartItem(ctx, userID, itemID, func(c context.Context, repo CartRepository) error {
		return repo.DeleteItem(c, itemID) //nolint:wrapcheck
	})
	if txErr != nil {
		return fmt.Errorf("removing cart item: %w", txErr)
	}
	return nil
}

// Clear удаляет все строки корзины. Отсутствие корзины ошибкой не считается.
func (s *CartService) Clear(ctx context.Context, userID int64) error {
	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("clearing cart: %w", err)
	}
	if clearErr := s.cartRepo.Clear(ctx, cart.ID); clearErr != nil {
		return fmt.Errorf("clearing cart: %w", clearErr)
	}
	return nil
}

// withOwnedCartItem выполняет fn в транзакции, если строка itemID лежит в корзине пользователя userID.
func (s *CartService) withOwnedCartItem(
	ctx context.Context,
	userID int64,
	itemID int64,
	fn func(c context.Context, repo CartRepository) error,
) error {
	return s.uow.Do(ctx, func(c context.Context, tx uow.TX) error { //nolint:wrapcheck
		repo, repoErr := uow.GetAs[CartRepository](tx, uow.RepositoryName(repoargs.CartRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}
		item, err := repo.GetItem(c, itemID)
		if err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				return domain.ErrCartItemNotFound
			}
			return err //nolint:wrapcheck
		}
		cart, err := repo.GetByUserID(c, userID)
		if err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				return domain.ErrCartItemOwner
			}
			return err //nolint:wrapcheck
		}
		if item.CartID != cart.ID {
			return domain.ErrCartItemOwner
		}
		return fn(c, repo)
	})
}

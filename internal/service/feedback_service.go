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

const (
	minRating = 1
	maxRating = 5
)

type FeedbackService struct {
	uow          uow.UOW
	feedbackRepo FeedbackRepository
	productRepo  ProductRepository
}

func NewFeedbackService(u uow.UOW) (*FeedbackService, error) {
	feedbackRepo, err := uow.GetRepositoryAs[FeedbackRepository](u, uow.RepositoryName(repoargs.FeedbackRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	productRepo, err := uow.GetRepositoryAs[ProductRepository](u, uow.RepositoryName(repoargs.ProductRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &FeedbackService{
		uow:          u,
		feedbackRepo: feedbackRepo,
		productRepo:  productRepo,
	}, nil
}

type CreateFeedbackArgs struct {
	ProductID int64
	Rating    int
	Comment   string
}

// Create оставляет отзыв на товар. Отзыв можно оставить только на товар из доставленного
// или выполненного заказа пользователя.
func (s *FeedbackService) Create(ctx context.Context, userID int64, args CreateFeedbackArgs) (*domain.Feedback, error) {
	if args.Rating < minRating || args.Rating > maxRating {
		return nil, fmt.Errorf("creating feedback: %w", domain.ErrInvalidRating)
	}

	var feedback *domain.Feedback
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		repo, repoErr := uow.GetAs[FeedbackRepository](tx, uow.RepositoryName(repoargs.FeedbackRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}
		productRepo, repoErr := uow.GetAs[ProductRepository](tx, uow.RepositoryName(repoargs.ProductRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}

		if _, productErr := productRepo.GetByID(c, args.ProductID); productErr != nil {
			return productLookupErr(args.ProductID, productErr)
		}
		purchased, err := repo.HasPurchased(c, userID, args.ProductID)
		if err != nil {
			return err //nolint:wrapcheck
		}
		if !purchased {
			return domain.ErrFeedbackNotPurchased
		}
		feedback, err = repo.Create(c, repoargs.CreateFeedback{
			UserID:    userID,
			ProductID: args.ProductID,
			Rating:    args.Rating,
			Comment:   strings.TrimSpace(args.Comment),
		})
		return err //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("creating feedback: %w", txErr)
	}
	return feedback, nil
}

func (s *FeedbackService) List(ctx context.Context, page repoargs.Pagination) ([]domain.Feedback, error) {
	feedback, err := s.feedbackRepo.List(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("listing feedback: %w", err)
	}
	return feedback, nil
}

// ListByProduct возвращает отзывы на товар, новые первыми.
func (s *FeedbackService) ListByProduct(ctx context.Context, productID int64) ([]domain.Feedback, error) {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return nil, fmt.Errorf("listing product feedback: %w", productLookupErr(productID, err))
	}
	feedback, err := s.feedbackRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("listing product feedback: %w", err)
	}
	return feedback, nil
}

func (s *FeedbackService) ListByUser(ctx context.Context, userID int64) ([]domain.Feedback, error) {
	feedback, err := s.feedbackRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing user feedback: %w", err)
	}
	return feedback, nil
}

// Delete удаляет отзыв. Удалить может автор отзыва или админ.
func (s *FeedbackService) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		repo, repoErr := uow.GetAs[FeedbackRepository](tx, uow.RepositoryName(repoargs.FeedbackRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}
		feedback, err := repo.GetByID(c, id)
		if err != nil {
			return feedbackLookupErr(err)
		}
		if !actor.IsAdmin() && feedback.UserID != actor.UserID {
			return domain.ErrFeedbackOwner
		}
		return repo.Delete(c, id) //nolint:wrapcheck
	})
	if txErr != nil {
		return fmt.Errorf("deleting feedback: %w", txErr)
	}
	return nil
}

func feedbackLookupErr(err error) error {
	if errors.Is(err, domain.ErrRecordNotFound) {
		return domain.ErrFeedbackNotFound
	}
	return err
}

package service

import (
	"context"
	"testing"

	"github.com/fsdevblog/groph-market/internal/domain"
	"github.com/fsdevblog/groph-market/internal/repository/repoargs"
	"github.com/fsdevblog/groph-market/internal/service/mocks"
	"github.com/fsdevblog/groph-market/pkg/uow"
	uowmocks "github.com/fsdevblog/groph-market/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type FeedbackServiceTestSuite struct {
	suite.Suite
	mockUOW          *uowmocks.MockUOW
	mockTX           *uowmocks.MockTX
	mockFeedbackRepo *mocks.MockFeedbackRepository
	mockProductRepo  *mocks.MockProductRepository
	feedbackService  *FeedbackService
}

func TestFeedbackServiceSuite(t *testing.T) {
	suite.Run(t, new(FeedbackServiceTestSuite))
}

func (s *FeedbackServiceTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(mockCtrl)
	s.mockTX = uowmocks.NewMockTX(mockCtrl)
	s.mockFeedbackRepo = mocks.NewMockFeedbackRepository(mockCtrl)
	s.mockProductRepo = mocks.NewMockProductRepository(mockCtrl)

	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.FeedbackRepoName)).
		Return(s.mockFeedbackRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.ProductRepoName)).
		Return(s.mockProductRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.FeedbackRepoName)).
		Return(s.mockFeedbackRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.ProductRepoName)).
		Return(s.mockProductRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(ctx, s.mockTX)
		}).AnyTimes()

	feedbackService, err := NewFeedbackService(s.mockUOW)
	s.Require().NoError(err)
	s.feedbackService = feedbackService
}

func (s *FeedbackServiceTestSuite) TestCreate() {
	s.mockProductRepo.EXPECT().GetByID(gomock.Any(), int64(5)).Return(product(5, 7, 1), nil)
	s.mockFeedbackRepo.EXPECT().HasPurchased(gomock.Any(), int64(10), int64(5)).Return(true, nil)
	s.mockFeedbackRepo.EXPECT().Create(gomock.Any(), repoargs.CreateFeedback{
		UserID:    10,
		ProductID: 5,
		Rating:    4,
		Comment:   "solid mug",
	}).Return(&domain.Feedback{ID: 1, UserID: 10, ProductID: 5, Rating: 4}, nil)

	feedback, err := s.feedbackService.Create(s.T().Context(), 10, CreateFeedbackArgs{
		ProductID: 5,
		Rating:    4,
		Comment:   " solid mug ",
	})
	s.Require().NoError(err)
	s.Equal(int64(1), feedback.ID)
}

// TestCreateRequiresPurchase без доставленного или выполненного заказа отзыв не создается.
func (s *FeedbackServiceTestSuite) TestCreateRequiresPurchase() {
	s.mockProductRepo.EXPECT().GetByID(gomock.Any(), int64(5)).Return(product(5, 7, 1), nil)
	s.mockFeedbackRepo.EXPECT().HasPurchased(gomock.Any(), int64(10), int64(5)).Return(false, nil)
	s.mockFeedbackRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	_, err := s.feedbackService.Create(s.T().Context(), 10, CreateFeedbackArgs{ProductID: 5, Rating: 5})
	s.Require().ErrorIs(err, domain.ErrFeedbackNotPurchased)
	s.Require().ErrorIs(err, domain.ErrForbidden)
}

func (s *FeedbackServiceTestSuite) TestCreateValidation() {
	for _, rating := range []int{0, 6, -1} {
		_, err := s.feedbackService.Create(s.T().Context(), 10, CreateFeedbackArgs{ProductID: 5, Rating: rating})
		s.Require().ErrorIs(err, domain.ErrInvalidRating, "rating %d", rating)
	}

	s.mockProductRepo.EXPECT().GetByID(gomock.Any(), int64(404)).Return(nil, domain.ErrRecordNotFound)
	_, err := s.feedbackService.Create(s.T().Context(), 10, CreateFeedbackArgs{ProductID: 404, Rating: 3})
	var notFound *domain.ProductNotFoundError
	s.Require().ErrorAs(err, &notFound)
}

func (s *FeedbackServiceTestSuite) TestListByProduct() {
	s.mockProductRepo.EXPECT().GetByID(gomock.Any(), int64(5)).Return(product(5, 7, 1), nil)
	s.mockFeedbackRepo.EXPECT().ListByProduct(gomock.Any(), int64(5)).
		Return([]domain.Feedback{{ID: 2}, {ID: 1}}, nil)

	feedback, err := s.feedbackService.ListByProduct(s.T().Context(), 5)
	s.Require().NoError(err)
	s.Len(feedback, 2)
}

func (s *FeedbackServiceTestSuite) TestDelete() {
	author := domain.Actor{UserID: 10, Role: domain.RoleCustomer}

	s.Run("author", func() {
		s.mockFeedbackRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(&domain.Feedback{ID: 1, UserID: 10}, nil)
		s.mockFeedbackRepo.EXPECT().Delete(gomock.Any(), int64(1)).Return(nil)
		s.Require().NoError(s.feedbackService.Delete(s.T().Context(), author, 1))
	})

	s.Run("other user", func() {
		s.mockFeedbackRepo.EXPECT().GetByID(gomock.Any(), int64(2)).Return(&domain.Feedback{ID: 2, UserID: 11}, nil)
		s.mockFeedbackRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).Times(0)
		s.Require().ErrorIs(s.feedbackService.Delete(s.T().Context(), author, 2), domain.ErrFeedbackOwner)
	})

	s.Run("admin", func() {
		admin := domain.Actor{UserID: 1, Role: domain.RoleAdmin}
		s.mockFeedbackRepo.EXPECT().GetByID(gomock.Any(), int64(2)).Return(&domain.Feedback{ID: 2, UserID: 11}, nil)
		s.mockFeedbackRepo.EXPECT().Delete(gomock.Any(), int64(2)).Return(nil)
		s.Require().NoError(s.feedbackService.Delete(s.T().Context(), admin, 2))
	})

	s.Run("missing", func() {
		s.mockFeedbackRepo.EXPECT().GetByID(gomock.Any(), int64(404)).Return(nil, domain.ErrRecordNotFound)
		s.Require().ErrorIs(s.feedbackService.Delete(s.T().Context(), author, 404), domain.ErrFeedbackNotFound)
	})
}

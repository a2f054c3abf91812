package api

import (
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/fsdevblog/groph-market/internal/domain"
	"github.com/fsdevblog/groph-market/internal/logger"
	"github.com/fsdevblog/groph-market/internal/transport/api/mocks"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type WishlistHandlerTestSuite struct {
	suite.Suite
	router              *gin.Engine
	mockWishlistService *mocks.MockWishlistServicer
	token               string
}

func TestWishlistHandlerSuite(t *testing.T) {
	suite.Run(t, new(WishlistHandlerTestSuite))
}

func (s *WishlistHandlerTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())
	s.mockWishlistService = mocks.NewMockWishlistServicer(mockCtrl)

	router, err := New(RouterArgs{
		Logger:          logger.New(io.Discard),
		WishlistService: s.mockWishlistService,
		JWTSecretKey:    testJWTSecret,
	})
	s.Require().NoError(err)
	s.router = router

	s.token = mustToken(s.T(), customerID, domain.RoleCustomer)
}

func (s *WishlistHandlerTestSuite) TestIndex() {
	s.mockWishlistService.EXPECT().List(gomock.Any(), customerID).
		Return([]domain.WishlistItem{{ID: 1, UserID: customerID, ProductID: 5, VendorID: vendorID}}, nil)

	res, err := jsonRequest(s.router, http.MethodGet, RouteGroup+WishlistRoute, nil, s.token)
	s.Require().NoError(err)
	s.Equal(http.StatusOK, res.StatusCode)

	var body []WishlistItemResponse
	decodeJSON(s.T(), res, &body)
	s.Require().Len(body, 1)
	s.Equal(vendorID, body[0].VendorID)
}

func (s *WishlistHandlerTestSuite) TestAdd() {
	s.mockWishlistService.EXPECT().Add(gomock.Any(), customerID, int64(5)).
		Return(&domain.WishlistItem{ID: 1, ProductID: 5, VendorID: vendorID}, nil)
	s.mockWishlistService.EXPECT().Add(gomock.Any(), customerID, int64(6)).
		Return(nil, fmt.Errorf("adding to wishlist: %w", domain.ErrWishlistDuplicate))

	cases := []struct {
		name       string
		payload    any
		wantStatus int
		wantError  string
	}{
		{name: "ok", payload: AddWishlistParams{ProductID: 5}, wantStatus: http.StatusCreated},
		{
			name:       "duplicate",
			payload:    AddWishlistParams{ProductID: 6},
			wantStatus: http.StatusConflict,
			wantError:  "product is already in the wishlist",
		},
		{name: "no product", payload: AddWishlistParams{}, wantStatus: http.StatusUnprocessableEntity},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			res, err := jsonRequest(s.router, http.MethodPost, RouteGroup+WishlistRoute, t.payload, s.token)
			s.Require().NoError(err)
			s.Equal(t.wantStatus, res.StatusCode)

			body := map[string]any{}
			decodeJSON(s.T(), res, &body)
			if t.wantError != "" {
				s.Equal(t.wantError, body["error"])
			}
		})
	}
}

func (s *WishlistHandlerTestSuite) TestRemoveAndClear() {
	s.mockWishlistService.EXPECT().Remove(gomock.Any(), customerID, int64(9)).
		Return(fmt.Errorf("removing from wishlist: %w", domain.ErrWishlistItemNotFound))
	s.mockWishlistService.EXPECT().Remove(gomock.Any(), customerID, int64(5)).Return(nil)
	s.mockWishlistService.EXPECT().Clear(gomock.Any(), customerID).Return(nil)

	res, err := jsonRequest(s.router, http.MethodDelete, RouteGroup+"/wishlist/9", nil, s.token)
	s.Require().NoError(err)
	s.Equal(http.StatusNotFound, res.StatusCode)
	body := map[string]any{}
	decodeJSON(s.T(), res, &body)
	s.Equal("product is not in the wishlist", body["error"])

	res, err = jsonRequest(s.router, http.MethodDelete, RouteGroup+"/wishlist/5", nil, s.token)
	s.Require().NoError(err)
	res.Body.Close()
	s.Equal(http.StatusNoContent, res.StatusCode)

	res, err = jsonRequest(s.router, http.MethodDelete, RouteGroup+WishlistRoute, nil, s.token)
	s.Require().NoError(err)
	res.Body.Close()
	s.Equal(http.StatusNoContent, res.StatusCode)
}

package api

import (
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/fsdevblog/groph-market/internal/domain"
	"github.com/fsdevblog/groph-market/internal/logger"
	"github.com/fsdevblog/groph-market/internal/service"
	"github.com/fsdevblog/groph-market/internal/transport/api/mocks"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type CartHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockCartService *mocks.MockCartServicer
	customerToken   string
	vendorToken     string
}

func TestCartHandlerSuite(t *testing.T) {
	suite.Run(t, new(CartHandlerTestSuite))
}

func (s *CartHandlerTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())
	s.mockCartService = mocks.NewMockCartServicer(mockCtrl)

	router, err := New(RouterArgs{
		Logger:       logger.New(io.Discard),
		CartService:  s.mockCartService,
		JWTSecretKey: testJWTSecret,
	})
	s.Require().NoError(err)
	s.router = router

	s.customerToken = mustToken(s.T(), customerID, domain.RoleCustomer)
	s.vendorToken = mustToken(s.T(), vendorID, domain.RoleVendor)
}

func (s *CartHandlerTestSuite) TestShow() {
	s.mockCartService.EXPECT().Get(gomock.Any(), customerID).Return(&service.CartContents{
		Cart:  &domain.Cart{ID: 4, UserID: customerID},
		Items: []domain.CartItem{{ID: 1, CartID: 4, ProductID: 5, Quantity: 2}},
	}, nil)

	res, err := jsonRequest(s.router, http.MethodGet, RouteGroup+CartRoute, nil, s.customerToken)
	s.Require().NoError(err)
	s.Equal(http.StatusOK, res.StatusCode)

	var body CartResponse
	decodeJSON(s.T(), res, &body)
	s.Equal(int64(4), body.ID)
	s.Require().Len(body.Items, 1)
	s.Equal(int64(2), body.Items[0].Quantity)
}

func (s *CartHandlerTestSuite) TestCustomerOnly() {
	res, err := jsonRequest(s.router, http.MethodGet, RouteGroup+CartRoute, nil, s.vendorToken)
	s.Require().NoError(err)
	res.Body.Close()
	s.Equal(http.StatusForbidden, res.StatusCode)
}

func (s *CartHandlerTestSuite) TestAddItem() {
	s.mockCartService.EXPECT().AddItem(gomock.Any(), customerID, int64(5), int64(2)).
		Return(&domain.CartItem{ID: 1, CartID: 4, ProductID: 5, Quantity: 2}, nil)
	s.mockCartService.EXPECT().AddItem(gomock.Any(), customerID, int64(5), int64(0)).
		Return(nil, fmt.Errorf("adding cart item: %w", domain.ErrInvalidQuantity))
	s.mockCartService.EXPECT().AddItem(gomock.Any(), customerID, int64(404), int64(1)).
		Return(nil, fmt.Errorf("adding cart item: %w", &domain.ProductNotFoundError{ProductID: 404}))

	cases := []struct {
		name       string
		payload    any
		wantStatus int
		wantError  string
	}{
		{name: "ok", payload: AddCartItemParams{ProductID: 5, Quantity: 2}, wantStatus: http.StatusCreated},
		{
			name:       "zero quantity",
			payload:    AddCartItemParams{ProductID: 5},
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "quantity must be greater than zero",
		},
		{
			name:       "unknown product",
			payload:    AddCartItemParams{ProductID: 404, Quantity: 1},
			wantStatus: http.StatusNotFound,
			wantError:  "product 404 not found",
		},
		{name: "no product", payload: AddCartItemParams{Quantity: 1}, wantStatus: http.StatusUnprocessableEntity},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			res, err := jsonRequest(s.router, http.MethodPost, RouteGroup+CartItemsRoute, t.payload, s.customerToken)
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

func (s *CartHandlerTestSuite) TestUpdateAndRemoveItem() {
	s.mockCartService.EXPECT().UpdateItem(gomock.Any(), customerID, int64(1), int64(3)).
		Return(&domain.CartItem{ID: 1, Quantity: 3}, nil)
	s.mockCartService.EXPECT().RemoveItem(gomock.Any(), customerID, int64(2)).
		Return(fmt.Errorf("removing cart item: %w", domain.ErrCartItemOwner))
	s.mockCartService.EXPECT().RemoveItem(gomock.Any(), customerID, int64(1)).Return(nil)

	res, err := jsonRequest(s.router, http.MethodPatch, RouteGroup+"/cart/items/1",
		UpdateCartItemParams{Quantity: 3}, s.customerToken)
	s.Require().NoError(err)
	s.Equal(http.StatusOK, res.StatusCode)
	var item CartItemResponse
	decodeJSON(s.T(), res, &item)
	s.Equal(int64(3), item.Quantity)

	res, err = jsonRequest(s.router, http.MethodDelete, RouteGroup+"/cart/items/2", nil, s.customerToken)
	s.Require().NoError(err)
	s.Equal(http.StatusForbidden, res.StatusCode)
	body := map[string]any{}
	decodeJSON(s.T(), res, &body)
	s.Equal("cart item belongs to another user", body["error"])

	res, err = jsonRequest(s.router, http.MethodDelete, RouteGroup+"/cart/items/1", nil, s.customerToken)
	s.Require().NoError(err)
	res.Body.Close()
	s.Equal(http.StatusNoContent, res.StatusCode)
}

func (s *CartHandlerTestSuite) TestClear() {
	s.mockCartService.EXPECT().Clear(gomock.Any(), customerID).Return(nil)

	res, err := jsonRequest(s.router, http.MethodDelete, RouteGroup+CartRoute, nil, s.customerToken)
	s.Require().NoError(err)
	res.Body.Close()
	s.Equal(http.StatusNoContent, res.StatusCode)
}

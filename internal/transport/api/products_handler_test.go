package api

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/fsdevblog/groph-market/internal/domain"
	"github.com/fsdevblog/groph-market/internal/logger"
	"github.com/fsdevblog/groph-market/internal/service"
	"github.com/fsdevblog/groph-market/internal/transport/api/mocks"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ProductHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockProductService *mocks.MockProductServicer
	vendorToken        string
	customerToken      string
}

func TestProductHandlerSuite(t *testing.T) {
	suite.Run(t, new(ProductHandlerTestSuite))
}

func (s *ProductHandlerTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())
	s.mockProductService = mocks.NewMockProductServicer(mockCtrl)

	router, err := New(RouterArgs{
		Logger:         logger.New(io.Discard),
		ProductService: s.mockProductService,
		JWTSecretKey:   testJWTSecret,
	})
	s.Require().NoError(err)
	s.router = router
	s.vendorToken = mustToken(s.T(), vendorID, domain.RoleVendor)
	s.customerToken = mustToken(s.T(), customerID, domain.RoleCustomer)
}

func (s *ProductHandlerTestSuite) TestCreate() {
	s.mockProductService.EXPECT().
		Create(gomock.Any(), domain.Actor{UserID: vendorID, Role: domain.RoleVendor}, gomock.Any()).
		DoAndReturn(func(_ context.Context, actor domain.Actor, args service.CreateProductArgs) (*domain.Product, error) {
			return &domain.Product{
				ID:            1,
				VendorID:      actor.UserID,
				Name:          args.Name,
				Slug:          "red-chair",
				Price:         args.Price,
				StockQuantity: args.StockQuantity,
			}, nil
		})

	cases := []struct {
		name       string
		params     CreateProductParams
		token      string
		wantStatus int
	}{
		{
			name:       "vendor",
			params:     CreateProductParams{Name: "Red chair", Price: decimal.RequireFromString("99.90"), StockQuantity: 3},
			token:      s.vendorToken,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "customer",
			params:     CreateProductParams{Name: "Red chair", Price: decimal.NewFromInt(1)},
			token:      s.customerToken,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "negative price",
			params:     CreateProductParams{Name: "Red chair", Price: decimal.NewFromInt(-1)},
			token:      s.vendorToken,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "negative stock",
			params:     CreateProductParams{Name: "Red chair", StockQuantity: -1},
			token:      s.vendorToken,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "no name",
			params:     CreateProductParams{Price: decimal.NewFromInt(1)},
			token:      s.vendorToken,
			wantStatus: http.StatusUnprocessableEntity,
		},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			res, err := jsonRequest(s.router, http.MethodPost, RouteGroup+ProductsRoute, t.params, t.token)
			s.Require().NoError(err)
			s.Equal(t.wantStatus, res.StatusCode)

			if t.wantStatus == http.StatusCreated {
				var body ProductResponse
				decodeJSON(s.T(), res, &body)
				s.Equal(vendorID, body.VendorID)
				s.Equal("red-chair", body.Slug)
				s.True(decimal.RequireFromString("99.9").Equal(body.Price))
			} else {
				res.Body.Close()
			}
		})
	}
}

func (s *ProductHandlerTestSuite) TestShowAndIndex() {
	s.mockProductService.EXPECT().Get(gomock.Any(), int64(1)).Return(&domain.Product{ID: 1, Name: "Lamp"}, nil)
	s.mockProductService.EXPECT().Get(gomock.Any(), int64(2)).Return(nil, &domain.ProductNotFoundError{ProductID: 2})
	s.mockProductService.EXPECT().List(gomock.Any(), gomock.Any()).
		Return([]domain.Product{{ID: 1}, {ID: 2}, {ID: 3}}, nil)

	res, err := jsonRequest(s.router, http.MethodGet, RouteGroup+"/products/1", nil, s.customerToken)
	s.Require().NoError(err)
	var product ProductResponse
	decodeJSON(s.T(), res, &product)
	s.Equal(http.StatusOK, res.StatusCode)
	s.Equal("Lamp", product.Name)

	res, err = jsonRequest(s.router, http.MethodGet, RouteGroup+"/products/2", nil, s.customerToken)
	s.Require().NoError(err)
	body := map[string]any{}
	decodeJSON(s.T(), res, &body)
	s.Equal(http.StatusNotFound, res.StatusCode)
	s.Equal("product 2 not found", body["error"])

	res, err = jsonRequest(s.router, http.MethodGet, RouteGroup+ProductsRoute, nil, s.customerToken)
	s.Require().NoError(err)
	var products []ProductResponse
	decodeJSON(s.T(), res, &products)
	s.Len(products, 3)
}

func (s *ProductHandlerTestSuite) TestUpdateStock() {
	actor := domain.Actor{UserID: vendorID, Role: domain.RoleVendor}
	s.mockProductService.EXPECT().UpdateStock(gomock.Any(), actor, int64(1), int64(0)).
		Return(&domain.Product{ID: 1, VendorID: vendorID, StockQuantity: 0}, nil)
	s.mockProductService.EXPECT().UpdateStock(gomock.Any(), actor, int64(2), int64(5)).
		Return(nil, domain.ErrNotOwner)

	zero, five, negative := int64(0), int64(5), int64(-3)
	cases := []struct {
		name       string
		url        string
		stock      *int64
		token      string
		wantStatus int
	}{
		{name: "zero stock", url: "/products/1/stock", stock: &zero, token: s.vendorToken, wantStatus: http.StatusOK},
		{name: "foreign product", url: "/products/2/stock", stock: &five, token: s.vendorToken, wantStatus: http.StatusForbidden},
		{name: "negative", url: "/products/1/stock", stock: &negative, token: s.vendorToken,
			wantStatus: http.StatusUnprocessableEntity},
		{name: "missing stock", url: "/products/1/stock", token: s.vendorToken, wantStatus: http.StatusUnprocessableEntity},
		{name: "customer", url: "/products/1/stock", stock: &five, token: s.customerToken, wantStatus: http.StatusForbidden},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			res, err := jsonRequest(s.router, http.MethodPatch, RouteGroup+t.url,
				UpdateStockParams{StockQuantity: t.stock}, t.token)
			s.Require().NoError(err)
			defer res.Body.Close()
			s.Equal(t.wantStatus, res.StatusCode)
		})
	}
}

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
	"github.com/fsdevblog/groph-market/internal/transport/api/testutils"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type CategoriesHandlerTestSuite struct {
	suite.Suite
	router              *gin.Engine
	mockCategoryService *mocks.MockCategoryServicer
	customerToken       string
	vendorToken         string
}

func TestCategoriesHandlerSuite(t *testing.T) {
	suite.Run(t, new(CategoriesHandlerTestSuite))
}

func (s *CategoriesHandlerTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())
	s.mockCategoryService = mocks.NewMockCategoryServicer(mockCtrl)

	router, err := New(RouterArgs{
		Logger:          logger.New(io.Discard),
		CategoryService: s.mockCategoryService,
		JWTSecretKey:    testJWTSecret,
	})
	s.Require().NoError(err)
	s.router = router

	s.customerToken = mustToken(s.T(), customerID, domain.RoleCustomer)
	s.vendorToken = mustToken(s.T(), vendorID, domain.RoleVendor)
}

func (s *CategoriesHandlerTestSuite) TestCreate() {
	vendor := domain.Actor{UserID: vendorID, Role: domain.RoleVendor}
	parentID := int64(2)
	s.mockCategoryService.EXPECT().
		Create(gomock.Any(), vendor, service.CategoryArgs{Name: "Mugs", ParentID: &parentID}).
		Return(&domain.Category{ID: 3, VendorID: vendorID, ParentID: &parentID, Name: "Mugs", Slug: "mugs-7"}, nil)

	cases := []struct {
		name       string
		payload    any
		token      string
		wantStatus int
	}{
		{
			name:       "ok",
			payload:    CategoryParams{Name: "Mugs", ParentID: &parentID},
			token:      s.vendorToken,
			wantStatus: http.StatusCreated,
		},
		{name: "customer", payload: CategoryParams{Name: "Mugs"}, token: s.customerToken, wantStatus: http.StatusForbidden},
		{name: "no name", payload: CategoryParams{}, token: s.vendorToken, wantStatus: http.StatusUnprocessableEntity},
		{
			name:       "long name",
			payload:    CategoryParams{Name: testutils.MultiByteString(121)},
			token:      s.vendorToken,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "bad image url",
			payload:    CategoryParams{Name: "Mugs", ImageURL: "not a url"},
			token:      s.vendorToken,
			wantStatus: http.StatusUnprocessableEntity,
		},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			res, err := jsonRequest(s.router, http.MethodPost, RouteGroup+CategoriesRoute, t.payload, t.token)
			s.Require().NoError(err)
			res.Body.Close()
			s.Equal(t.wantStatus, res.StatusCode)
		})
	}
}

func (s *CategoriesHandlerTestSuite) TestUpdateForeignCategory() {
	s.mockCategoryService.EXPECT().Update(gomock.Any(), gomock.Any(), int64(3), gomock.Any()).
		Return(nil, fmt.Errorf("updating category: %w", domain.ErrCategoryOwner))

	res, err := jsonRequest(s.router, http.MethodPut, RouteGroup+"/categories/3",
		CategoryParams{Name: "Cups"}, s.vendorToken)
	s.Require().NoError(err)
	s.Equal(http.StatusForbidden, res.StatusCode)

	body := map[string]any{}
	decodeJSON(s.T(), res, &body)
	s.Equal("category belongs to another vendor", body["error"])
}

func (s *CategoriesHandlerTestSuite) TestShowAndIndex() {
	s.mockCategoryService.EXPECT().Get(gomock.Any(), int64(404)).
		Return(nil, fmt.Errorf("getting category: %w", domain.ErrCategoryNotFound))
	s.mockCategoryService.EXPECT().List(gomock.Any(), gomock.Any()).
		Return([]domain.Category{{ID: 1}, {ID: 2}}, nil)

	res, err := jsonRequest(s.router, http.MethodGet, RouteGroup+"/categories/404", nil, s.customerToken)
	s.Require().NoError(err)
	res.Body.Close()
	s.Equal(http.StatusNotFound, res.StatusCode)

	res, err = jsonRequest(s.router, http.MethodGet, RouteGroup+CategoriesRoute, nil, s.customerToken)
	s.Require().NoError(err)
	s.Equal(http.StatusOK, res.StatusCode)
	var body []CategoryResponse
	decodeJSON(s.T(), res, &body)
	s.Len(body, 2)
}

func (s *CategoriesHandlerTestSuite) TestProductCategories() {
	vendor := domain.Actor{UserID: vendorID, Role: domain.RoleVendor}
	s.mockCategoryService.EXPECT().AssignProduct(gomock.Any(), vendor, int64(5), int64(3)).Return(nil)
	s.mockCategoryService.EXPECT().AssignProduct(gomock.Any(), vendor, int64(5), int64(4)).
		Return(fmt.Errorf("assigning category: %w", domain.ErrCategoryAssigned))
	s.mockCategoryService.EXPECT().RemoveProduct(gomock.Any(), vendor, int64(5), int64(3)).Return(nil)
	s.mockCategoryService.EXPECT().ProductCategories(gomock.Any(), int64(5)).
		Return([]domain.Category{{ID: 3}}, nil)

	res, err := jsonRequest(s.router, http.MethodPost, RouteGroup+"/products/5/categories",
		AssignCategoryParams{CategoryID: 3}, s.vendorToken)
	s.Require().NoError(err)
	res.Body.Close()
	s.Equal(http.StatusNoContent, res.StatusCode)

	res, err = jsonRequest(s.router, http.MethodPost, RouteGroup+"/products/5/categories",
		AssignCategoryParams{CategoryID: 4}, s.vendorToken)
	s.Require().NoError(err)
	s.Equal(http.StatusConflict, res.StatusCode)
	body := map[string]any{}
	decodeJSON(s.T(), res, &body)
	s.Equal("product already has this category", body["error"])

	res, err = jsonRequest(s.router, http.MethodDelete, RouteGroup+"/products/5/categories/3", nil, s.vendorToken)
	s.Require().NoError(err)
	res.Body.Close()
	s.Equal(http.StatusNoContent, res.StatusCode)

	res, err = jsonRequest(s.router, http.MethodDelete, RouteGroup+"/products/5/categories/x", nil, s.vendorToken)
	s.Require().NoError(err)
	res.Body.Close()
	s.Equal(http.StatusBadRequest, res.StatusCode)

	res, err = jsonRequest(s.router, http.MethodGet, RouteGroup+"/products/5/categories", nil, s.customerToken)
	s.Require().NoError(err)
	s.Equal(http.StatusOK, res.StatusCode)
	var categories []CategoryResponse
	decodeJSON(s.T(), res, &categories)
	s.Len(categories, 1)
}

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/fsdevblog/groph-market/internal/domain"
	"github.com/fsdevblog/groph-market/internal/logger"
	"github.com/fsdevblog/groph-market/internal/repository/repoargs"
	"github.com/fsdevblog/groph-market/internal/service"
	"github.com/fsdevblog/groph-market/internal/transport/api/mocks"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type AuthHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockUserService *mocks.MockUserServicer
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

func (s *AuthHandlerTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())
	s.mockUserService = mocks.NewMockUserServicer(mockCtrl)

	router, err := New(RouterArgs{
		Logger:       logger.New(io.Discard),
		UserService:  s.mockUserService,
		JWTSecretKey: testJWTSecret,
	})
	s.Require().NoError(err)
	s.router = router
}

func (s *AuthHandlerTestSuite) TestRegister() {
	validParams := UserRegisterParams{
		Email:    gofakeit.Email(),
		Username: gofakeit.Username(),
		Password: gofakeit.Password(true, true, true, false, false, 10),
		Role:     string(domain.RoleVendor),
	}
	duplicate := validParams
	duplicate.Email = "taken@example.com"

	s.mockUserService.EXPECT().
		Register(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args service.RegisterUserArgs) (*domain.User, string, error) {
			if args.Email == duplicate.Email {
				return nil, "", fmt.Errorf("creating user: %w", domain.ErrDuplicateKey)
			}
			s.Equal(validParams.Role, args.Role)
			return &domain.User{ID: 1, Email: args.Email, Username: args.Username, Role: domain.RoleVendor},
				"jwt-token", nil
		}).Times(2)

	cases := []struct {
		name       string
		params     any
		token      string
		wantStatus int
	}{
		{name: "all ok", params: validParams, wantStatus: http.StatusOK},
		{name: "duplicate email", params: duplicate, wantStatus: http.StatusConflict},
		{
			name:       "admin role",
			params:     UserRegisterParams{Email: "a@b.c", Username: "a", Password: "secret1", Role: "admin"},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{name: "invalid email", params: UserRegisterParams{Email: "nope", Username: "a", Password: "secret1"},
			wantStatus: http.StatusUnprocessableEntity},
		{name: "broken json", params: []byte(`{"email":`), wantStatus: http.StatusBadRequest},
		{
			name:       "already authorized",
			params:     validParams,
			token:      mustToken(s.T(), 1, domain.RoleCustomer),
			wantStatus: http.StatusUnauthorized,
		},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			res, err := jsonRequest(s.router, http.MethodPost, RouteGroup+RegisterRoute, t.params, t.token)
			s.Require().NoError(err)
			s.Equal(t.wantStatus, res.StatusCode)

			body := map[string]any{}
			decodeJSON(s.T(), res, &body)
			switch t.wantStatus {
			case http.StatusOK:
				s.Equal("Bearer jwt-token", res.Header.Get("Authorization"))
				s.Equal("jwt-token", body["token"])
			case http.StatusConflict:
				s.Equal("user with this email already exists", body["error"])
			}
		})
	}
}

func (s *AuthHandlerTestSuite) TestLogin() {
	s.mockUserService.EXPECT().
		Login(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args service.LoginUserArgs) (*domain.User, string, error) {
			switch args.Email {
			case "user@example.com":
				return &domain.User{ID: 1, Email: args.Email, Role: domain.RoleCustomer}, "jwt-token", nil
			case "unknown@example.com":
				return nil, "", fmt.Errorf("login: %w", domain.ErrRecordNotFound)
			case "wrong@example.com":
				return nil, "", fmt.Errorf("login: %w", domain.ErrPasswordMissMatch)
			default:
				return nil, "", errors.New("db is down")
			}
		}).Times(4)

	cases := []struct {
		name       string
		email      string
		wantStatus int
	}{
		{name: "all ok", email: "user@example.com", wantStatus: http.StatusOK},
		{name: "unknown user", email: "unknown@example.com", wantStatus: http.StatusUnauthorized},
		{name: "wrong password", email: "wrong@example.com", wantStatus: http.StatusUnauthorized},
		{name: "internal", email: "down@example.com", wantStatus: http.StatusInternalServerError},
		{name: "empty email", email: "", wantStatus: http.StatusBadRequest},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			res, err := jsonRequest(s.router, http.MethodPost, RouteGroup+LoginRoute,
				UserLoginParams{Email: t.email, Password: "secret"}, "")
			s.Require().NoError(err)
			defer res.Body.Close()
			s.Equal(t.wantStatus, res.StatusCode)
			if t.wantStatus == http.StatusOK {
				s.Equal("Bearer jwt-token", res.Header.Get("Authorization"))
			}
		})
	}
}

func (s *AuthHandlerTestSuite) TestMe() {
	s.mockUserService.EXPECT().GetByID(gomock.Any(), int64(5)).
		Return(&domain.User{ID: 5, Email: "me@example.com", Role: domain.RoleVendor}, nil)

	res, err := jsonRequest(s.router, http.MethodGet, RouteGroup+MeRoute, nil, mustToken(s.T(), 5, domain.RoleVendor))
	s.Require().NoError(err)
	s.Equal(http.StatusOK, res.StatusCode)

	var body struct {
		User UserResponse `json:"user"`
	}
	decodeJSON(s.T(), res, &body)
	s.Equal(int64(5), body.User.ID)
	s.Equal(domain.RoleVendor, body.User.Role)
}

func (s *AuthHandlerTestSuite) TestUsers() {
	s.mockUserService.EXPECT().
		List(gomock.Any(), repoargs.Pagination{Limit: 10, Offset: 20}).
		Return([]domain.User{{ID: 1}, {ID: 2}}, nil)

	cases := []struct {
		name       string
		url        string
		role       domain.UserRole
		wantStatus int
		wantLen    int
	}{
		{name: "admin", url: "/users?limit=10&offset=20", role: domain.RoleAdmin, wantStatus: http.StatusOK, wantLen: 2},
		{name: "vendor", url: "/users", role: domain.RoleVendor, wantStatus: http.StatusForbidden},
		{name: "limit too big", url: "/users?limit=1000", role: domain.RoleAdmin, wantStatus: http.StatusUnprocessableEntity},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			res, err := jsonRequest(s.router, http.MethodGet, RouteGroup+t.url, nil, mustToken(s.T(), 1, t.role))
			s.Require().NoError(err)
			s.Equal(t.wantStatus, res.StatusCode)
			if t.wantStatus == http.StatusOK {
				var body []UserResponse
				decodeJSON(s.T(), res, &body)
				s.Len(body, t.wantLen)
			} else {
				res.Body.Close()
			}
		})
	}
}

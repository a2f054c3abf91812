package service

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/fsdevblog/groph-market/internal/domain"
	"github.com/fsdevblog/groph-market/internal/repository/repoargs"
	"github.com/fsdevblog/groph-market/internal/service/mocks"
	"github.com/fsdevblog/groph-market/internal/service/tokens"
	"github.com/fsdevblog/groph-market/pkg/uow"
	uowmocks "github.com/fsdevblog/groph-market/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUOW      *uowmocks.MockUOW
	mockTX       *uowmocks.MockTX
	mockUserRepo *mocks.MockUserRepository
	mockPsswd    *mocks.MockPasswordHasher
	jwtSecret    []byte
	userService  *UserService
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (s *UserServiceTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(mockCtrl)
	s.mockUserRepo = mocks.NewMockUserRepository(mockCtrl)
	s.mockPsswd = mocks.NewMockPasswordHasher(mockCtrl)
	s.mockTX = uowmocks.NewMockTX(mockCtrl)

	s.jwtSecret = []byte("secret")

	// Мок получения репозитория из uow. Выполняется в инициализации сервиса.
	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()

	userService, servErr := NewUserService(s.mockUOW, s.jwtSecret, s.mockPsswd)
	s.Require().NoError(servErr)
	s.userService = userService.SetTokenExpire(time.Minute)
}

func (s *UserServiceTestSuite) TestLogin() {
	savedEmail := gofakeit.Email()
	argsOk := LoginUserArgs{Email: " " + savedEmail + " ", Password: gofakeit.Password(true, true, true, false, false, 12)}
	argsWrongEmail := LoginUserArgs{Email: "wrong@example.com", Password: argsOk.Password}
	argsWrongPass := LoginUserArgs{Email: savedEmail, Password: "wrong pass"}

	validHashPassword := "hash ok"
	savedUser := domain.User{
		ID:                1,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
		Email:             savedEmail,
		Username:          gofakeit.Username(),
		EncryptedPassword: validHashPassword,
		Role:              domain.RoleVendor,
	}

	s.mockPsswd.EXPECT().ComparePassword(argsOk.Password, validHashPassword).Return(true)
	s.mockPsswd.EXPECT().ComparePassword(argsWrongPass.Password, validHashPassword).Return(false)

	s.mockUserRepo.EXPECT().FindUserByEmail(gomock.Any(), savedEmail).Return(&savedUser, nil).Times(2)
	s.mockUserRepo.EXPECT().FindUserByEmail(gomock.Any(), argsWrongEmail.Email).
		Return(nil, domain.ErrRecordNotFound)

	cases := []struct {
		name    string
		args    LoginUserArgs
		wantErr error
	}{
		{name: "ok", args: argsOk},
		{name: "wrong email", args: argsWrongEmail, wantErr: domain.ErrRecordNotFound},
		{name: "wrong password", args: argsWrongPass, wantErr: domain.ErrPasswordMissMatch},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			user, tokenStr, err := s.userService.Login(s.T().Context(), t.args)
			s.Require().ErrorIs(err, t.wantErr)

			if t.wantErr == nil {
				s.Require().NotNil(user)
				s.NotEmpty(tokenStr)

				claims, tokenErr := tokens.ValidateUserJWT(tokenStr, s.jwtSecret)
				s.Require().NoError(tokenErr)
				s.Equal(savedUser.ID, claims.ID)
				s.Equal(domain.RoleVendor, claims.Role)
			} else {
				s.Nil(user)
				s.Empty(tokenStr)
			}
		})
	}
}

func (s *UserServiceTestSuite) TestRegister() {
	argsOk := RegisterUserArgs{
		Email:    gofakeit.Email(),
		Username: gofakeit.Username(),
		Password: gofakeit.Password(true, true, true, false, false, 12),
		Role:     "vendor",
	}
	argsDuplicate := RegisterUserArgs{
		Email:    gofakeit.Email(),
		Username: gofakeit.Username(),
		Password: argsOk.Password,
	}

	validHashedPassword := "hashedPassword"
	createdUser := domain.User{
		ID:                1,
		Email:             argsOk.Email,
		Username:          argsOk.Username,
		EncryptedPassword: validHashedPassword,
		Role:              domain.RoleVendor,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}

	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).MinTimes(1)

	s.mockPsswd.EXPECT().HashPassword(argsOk.Password).Return(validHashedPassword, nil).Times(2)

	s.mockUserRepo.EXPECT().
		CreateUser(gomock.Any(), gomock.Eq(repoargs.CreateUser{
			Email:    argsOk.Email,
			Username: argsOk.Username,
			Password: validHashedPassword,
			Role:     domain.RoleVendor,
		})).
		Return(&createdUser, nil)

	// пустая роль регистрирует покупателя.
	s.mockUserRepo.EXPECT().
		CreateUser(gomock.Any(), gomock.Eq(repoargs.CreateUser{
			Email:    argsDuplicate.Email,
			Username: argsDuplicate.Username,
			Password: validHashedPassword,
			Role:     domain.RoleCustomer,
		})).
		Return(nil, domain.ErrDuplicateKey)

	s.mockUOW.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(ctx, s.mockTX)
		}).Times(2)

	cases := []struct {
		name      string
		args      RegisterUserArgs
		wantErr   error
		wantUser  *domain.User
		wantToken bool
	}{
		{name: "ok", args: argsOk, wantUser: &createdUser, wantToken: true},
		{name: "duplicate email", args: argsDuplicate, wantErr: domain.ErrDuplicateKey},
		{
			name:    "admin role is not allowed",
			args:    RegisterUserArgs{Email: gofakeit.Email(), Password: "x", Role: "admin"},
			wantErr: domain.ErrValidation,
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			user, tokenStr, err := s.userService.Register(s.T().Context(), t.args)

			s.Require().ErrorIs(err, t.wantErr)
			s.Equal(t.wantUser, user)

			if t.wantToken {
				s.Require().NotEmpty(tokenStr)

				claims, tokenErr := tokens.ValidateUserJWT(tokenStr, s.jwtSecret)
				s.Require().NoError(tokenErr)
				s.Equal(user.ID, claims.ID)
			} else {
				s.Empty(tokenStr)
			}
		})
	}
}

func (s *UserServiceTestSuite) TestGetByID() {
	s.mockUserRepo.EXPECT().FindUserByID(gomock.Any(), int64(1)).Return(&domain.User{ID: 1}, nil)
	s.mockUserRepo.EXPECT().FindUserByID(gomock.Any(), int64(2)).Return(nil, domain.ErrRecordNotFound)

	user, err := s.userService.GetByID(s.T().Context(), 1)
	s.Require().NoError(err)
	s.Equal(int64(1), user.ID)

	_, err = s.userService.GetByID(s.T().Context(), 2)
	s.Require().ErrorIs(err, domain.ErrUserNotFound)

	msg, ok := domain.PublicMessage(err)
	s.True(ok)
	s.Equal("user not found", msg)
}

func (s *UserServiceTestSuite) TestList() {
	page := repoargs.Pagination{Limit: 10, Offset: 20}
	s.mockUserRepo.EXPECT().List(gomock.Any(), page).Return([]domain.User{{ID: 21}, {ID: 22}}, nil)

	users, err := s.userService.List(s.T().Context(), page)
	s.Require().NoError(err)
	s.Len(users, 2)
}

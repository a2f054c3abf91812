package service

import (
	"context"
	"testing"
	"time"

	"github.com/fsdevblog/groph-market/internal/domain"
	"github.com/fsdevblog/groph-market/internal/repository/repoargs"
	"github.com/fsdevblog/groph-market/internal/service/mocks"
	"github.com/fsdevblog/groph-market/pkg/uow"
	uowmocks "github.com/fsdevblog/groph-market/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type VoucherServiceTestSuite struct {
	suite.Suite
	mockUOW         *uowmocks.MockUOW
	mockTX          *uowmocks.MockTX
	mockVoucherRepo *mocks.MockVoucherRepository
	voucherService  *VoucherService
	vendor          domain.Actor
	admin           domain.Actor
}

func TestVoucherServiceSuite(t *testing.T) {
	suite.Run(t, new(VoucherServiceTestSuite))
}

func (s *VoucherServiceTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(mockCtrl)
	s.mockTX = uowmocks.NewMockTX(mockCtrl)
	s.mockVoucherRepo = mocks.NewMockVoucherRepository(mockCtrl)

	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.VoucherRepoName)).
		Return(s.mockVoucherRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.VoucherRepoName)).
		Return(s.mockVoucherRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(ctx, s.mockTX)
		}).AnyTimes()

	voucherService, err := NewVoucherService(s.mockUOW)
	s.Require().NoError(err)
	s.voucherService = voucherService

	s.vendor = domain.Actor{UserID: 7, Role: domain.RoleVendor}
	s.admin = domain.Actor{UserID: 1, Role: domain.RoleAdmin}
}

func percent(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

func (s *VoucherServiceTestSuite) TestCreate() {
	expires := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	s.mockVoucherRepo.EXPECT().
		Create(gomock.Any(), gomock.Eq(repoargs.CreateVoucher{
			Code:            "SUMMER20",
			VendorID:        7,
			DiscountPercent: decimal.NewNullDecimal(decimal.NewFromInt(20).Round(moneyPlaces)),
			IsActive:        true,
			ExpiresAt:       &expires,
		})).
		Return(&domain.Voucher{ID: 1, Code: "SUMMER20", VendorID: 7}, nil)
	s.mockVoucherRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.CreateVoucher) (*domain.Voucher, error) {
			s.Equal(int64(9), args.VendorID)
			return &domain.Voucher{ID: 2, VendorID: args.VendorID}, nil
		})

	cases := []struct {
		name    string
		actor   domain.Actor
		args    VoucherArgs
		wantErr error
	}{
		{
			name:  "vendor",
			actor: s.vendor,
			// VendorID вендора игнорируется, ваучер создается на него самого.
			args: VoucherArgs{
				Code: " SUMMER20 ", VendorID: 100, DiscountPercent: percent(20), IsActive: true, ExpiresAt: &expires,
			},
		},
		{
			name:  "admin for vendor",
			actor: s.admin,
			args:  VoucherArgs{Code: "ADMIN", VendorID: 9, DiscountAmount: percent(5)},
		},
		{
			name:    "admin without vendor",
			actor:   s.admin,
			args:    VoucherArgs{Code: "ADMIN", DiscountAmount: percent(5)},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "customer",
			actor:   domain.Actor{UserID: 3, Role: domain.RoleCustomer},
			args:    VoucherArgs{Code: "C", DiscountAmount: percent(5)},
			wantErr: domain.ErrVendorOnly,
		},
		{
			name:    "empty code",
			actor:   s.vendor,
			args:    VoucherArgs{Code: "  ", DiscountAmount: percent(5)},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "both discounts",
			actor:   s.vendor,
			args:    VoucherArgs{Code: "X", DiscountPercent: percent(5), DiscountAmount: percent(5)},
			wantErr: domain.ErrVoucherDiscount,
		},
		{
			name:    "no discount",
			actor:   s.vendor,
			args:    VoucherArgs{Code: "X"},
			wantErr: domain.ErrVoucherDiscount,
		},
		{
			name:    "percent over 100",
			actor:   s.vendor,
			args:    VoucherArgs{Code: "X", DiscountPercent: percent(101)},
			wantErr: domain.ErrVoucherDiscount,
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			voucher, err := s.voucherService.Create(s.T().Context(), t.actor, t.args)
			s.Require().ErrorIs(err, t.wantErr)
			if t.wantErr == nil {
				s.NotNil(voucher)
			} else {
				s.Nil(voucher)
			}
		})
	}
}

func (s *VoucherServiceTestSuite) TestUpdate() {
	voucher := &domain.Voucher{ID: 1, Code: "OLD", VendorID: 7, DiscountPercent: percent(10), IsActive: true}
	s.mockVoucherRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(voucher, nil).AnyTimes()
	s.mockVoucherRepo.EXPECT().GetByID(gomock.Any(), int64(404)).Return(nil, domain.ErrRecordNotFound)
	s.mockVoucherRepo.EXPECT().
		Update(gomock.Any(), int64(1), gomock.Any()).
		DoAndReturn(func(_ context.Context, id int64, args repoargs.UpdateVoucher) (*domain.Voucher, error) {
			// переход с процента на сумму обнуляет процент.
			s.False(args.DiscountPercent.Valid)
			s.True(args.DiscountAmount.Valid)
			return &domain.Voucher{ID: id, Code: args.Code, VendorID: 7, DiscountAmount: args.DiscountAmount}, nil
		}).Times(2)

	args := VoucherArgs{Code: "NEW", DiscountPercent: percent(0), DiscountAmount: percent(15), IsActive: true}

	cases := []struct {
		name    string
		actor   domain.Actor
		id      int64
		wantErr error
	}{
		{name: "owner", actor: s.vendor, id: 1},
		{name: "admin", actor: s.admin, id: 1},
		{name: "other vendor", actor: domain.Actor{UserID: 8, Role: domain.RoleVendor}, id: 1, wantErr: domain.ErrNotOwner},
		{name: "not found", actor: s.vendor, id: 404, wantErr: domain.ErrVoucherNotFound},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			updated, err := s.voucherService.Update(s.T().Context(), t.actor, t.id, args)
			s.Require().ErrorIs(err, t.wantErr)
			if t.wantErr == nil {
				s.Equal("NEW", updated.Code)
			}
		})
	}
}

func (s *VoucherServiceTestSuite) TestDeactivate() {
	s.mockVoucherRepo.EXPECT().GetByID(gomock.Any(), int64(1)).
		Return(&domain.Voucher{ID: 1, VendorID: 7, IsActive: true}, nil)
	s.mockVoucherRepo.EXPECT().Deactivate(gomock.Any(), int64(1)).
		Return(&domain.Voucher{ID: 1, VendorID: 7, IsActive: false}, nil)

	voucher, err := s.voucherService.Deactivate(s.T().Context(), s.vendor, 1)
	s.Require().NoError(err)
	s.False(voucher.IsActive)
}

func (s *VoucherServiceTestSuite) TestDelete() {
	s.mockVoucherRepo.EXPECT().GetByID(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id int64) (*domain.Voucher, error) {
			return &domain.Voucher{ID: id, VendorID: 7}, nil
		}).AnyTimes()
	s.mockVoucherRepo.EXPECT().IsUsedInOrders(gomock.Any(), int64(1)).Return(false, nil)
	s.mockVoucherRepo.EXPECT().IsUsedInOrders(gomock.Any(), int64(2)).Return(true, nil)
	s.mockVoucherRepo.EXPECT().Delete(gomock.Any(), int64(1)).Return(nil)
	s.mockVoucherRepo.EXPECT().Delete(gomock.Any(), int64(2)).Times(0)

	s.Require().NoError(s.voucherService.Delete(s.T().Context(), s.vendor, 1))

	err := s.voucherService.Delete(s.T().Context(), s.vendor, 2)
	s.Require().ErrorIs(err, domain.ErrVoucherInUse)
	s.Require().ErrorIs(err, domain.ErrConflict)

	err = s.voucherService.Delete(s.T().Context(), domain.Actor{UserID: 8, Role: domain.RoleVendor}, 3)
	s.Require().ErrorIs(err, domain.ErrNotOwner)
}

func (s *VoucherServiceTestSuite) TestGet() {
	s.mockVoucherRepo.EXPECT().GetByID(gomock.Any(), int64(404)).Return(nil, domain.ErrRecordNotFound)
	s.mockVoucherRepo.EXPECT().List(gomock.Any(), repoargs.Pagination{Limit: 5}).
		Return([]domain.Voucher{{ID: 1}}, nil)

	_, err := s.voucherService.Get(s.T().Context(), 404)
	s.Require().ErrorIs(err, domain.ErrVoucherNotFound)

	vouchers, err := s.voucherService.List(s.T().Context(), repoargs.Pagination{Limit: 5})
	s.Require().NoError(err)
	s.Len(vouchers, 1)
}

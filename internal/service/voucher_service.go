package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsdevblog/groph-market/internal/domain"
	"github.com/fsdevblog/groph-market/internal/repository/repoargs"
	"github.com/fsdevblog/groph-market/pkg/uow"
	"github.com/shopspring/decimal"
)

type VoucherService struct {
	uow         uow.UOW
	voucherRepo VoucherRepository
}

func NewVoucherService(u uow.UOW) (*VoucherService, error) {
	voucherRepo, err := uow.GetRepositoryAs[VoucherRepository](u, uow.RepositoryName(repoargs.VoucherRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &VoucherService{
		uow:         u,
		voucherRepo: voucherRepo,
	}, nil
}

// VoucherArgs поля ваучера. VendorID учитывается только когда ваучер создает админ.
type VoucherArgs struct {
	Code            string
	VendorID        int64
	DiscountPercent decimal.NullDecimal
	DiscountAmount  decimal.NullDecimal
	IsActive        bool
	ExpiresAt       *time.Time
}

func (a VoucherArgs) validate() (string, error) {
	code := strings.TrimSpace(a.Code)
	if code == "" {
		return "", domain.NewKindError(domain.ErrValidation, "voucher code must not be empty")
	}
	if err := domain.ValidateDiscount(a.DiscountPercent, a.DiscountAmount); err != nil {
		return "", err //nolint:wrapcheck
	}
	return code, nil
}

// Create создает ваучер. Вендор создает ваучер только для себя, админ обязан указать VendorID.
func (v *VoucherService) Create(ctx context.Context, actor domain.Actor, args VoucherArgs) (*domain.Voucher, error) {
	code, validErr := args.validate()
	if validErr != nil {
		return nil, fmt.Errorf("creating voucher: %w", validErr)
	}

	var vendorID int64
	switch {
	case actor.IsVendor():
		vendorID = actor.UserID
	case actor.IsAdmin():
		if args.VendorID <= 0 {
			return nil, fmt.Errorf("creating voucher: %w",
				domain.NewKindError(domain.ErrValidation, "vendor_id is required"))
		}
		vendorID = args.VendorID
	default:
		return nil, fmt.Errorf("creating voucher: %w", domain.ErrVendorOnly)
	}

	voucher, err := v.voucherRepo.Create(ctx, repoargs.CreateVoucher{
		Code:            code,
		VendorID:        vendorID,
		DiscountPercent: nullDecimalOrEmpty(args.DiscountPercent),
		DiscountAmount:  nullDecimalOrEmpty(args.DiscountAmount),
		IsActive:        args.IsActive,
		ExpiresAt:       args.ExpiresAt,
	})
	if err != nil {
		return nil, fmt.Errorf("creating voucher: %w", err)
	}
	return voucher, nil
}

func (v *VoucherService) Get(ctx context.Context, id int64) (*domain.Voucher, error) {
	voucher, err := v.voucherRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting voucher: %w", voucherLookupErr(err))
	}
	return voucher, nil
}

func (v *VoucherService) List(ctx context.Context, page repoargs.Pagination) ([]domain.Voucher, error) {
	vouchers, err := v.voucherRepo.List(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("listing vouchers: %w", err)
	}
	return vouchers, nil
}

// Update заменяет изменяемые поля ваучера. Доступно вендору-владельцу и админу.
func (v *VoucherService) Update(
	ctx context.Context,
	actor domain.Actor,
	id int64,
	args VoucherArgs,
) (*domain.Voucher, error) {
	code, validErr := args.validate()
	if validErr != nil {
		return nil, fmt.Errorf("updating voucher: %w", validErr)
	}

	var updated *domain.Voucher
	txErr := v.withOwnedVoucher(ctx, actor, id, func(c context.Context, repo VoucherRepository) error {
		var err error
		updated, err = repo.Update(c, id, repoargs.UpdateVoucher{
			Code:            code,
			DiscountPercent: nullDecimalOrEmpty(args.DiscountPercent),
			DiscountAmount:  nullDecimalOrEmpty(args.DiscountAmount),
			IsActive:        args.IsActive,
			ExpiresAt:       args.ExpiresAt,
		})
		return err //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("updating voucher: %w", txErr)
	}
	return updated, nil
}

// Deactivate выключает ваучер. После этого заказы с ним не создаются.
func (v *VoucherService) Deactivate(ctx context.Context, actor domain.Actor, id int64) (*domain.Voucher, error) {
	var updated *domain.Voucher
	txErr := v.withOwnedVoucher(ctx, actor, id, func(c context.Context, repo VoucherRepository) error {
		var err error
		updated, err = repo.Deactivate(c, id)
		return err //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("deactivating voucher: %w", txErr)
	}
	return updated, nil
}

// Delete удаляет ваучер. Ваучер, на который ссылается хотя бы один заказ, удалить нельзя: domain.ErrVoucherInUse.
func (v *VoucherService) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	txErr := v.withOwnedVoucher(ctx, actor, id, func(c context.Context, repo VoucherRepository) error {
		used, err := repo.IsUsedInOrders(c, id)
		if err != nil {
			return err //nolint:wrapcheck
		}
		if used {
			return domain.ErrVoucherInUse
		}
		return repo.Delete(c, id) //nolint:wrapcheck
	})
	if txErr != nil {
		return fmt.Errorf("deleting voucher: %w", txErr)
	}
	return nil
}

// withOwnedVoucher выполняет fn в транзакции, если актор может управлять ваучером id.
func (v *VoucherService) withOwnedVoucher(
	ctx context.Context,
	actor domain.Actor,
	id int64,
	fn func(c context.Context, repo VoucherRepository) error,
) error {
	return v.uow.Do(ctx, func(c context.Context, tx uow.TX) error { //nolint:wrapcheck
		repo, repoErr := uow.GetAs[VoucherRepository](tx, uow.RepositoryName(repoargs.VoucherRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}
		voucher, err := repo.GetByID(c, id)
		if err != nil {
			return voucherLookupErr(err)
		}
		if !actor.CanManage(voucher.VendorID) {
			return domain.ErrNotOwner
		}
		return fn(c, repo)
	})
}

// nullDecimalOrEmpty нулевое значение скидки хранится как NULL.
func nullDecimalOrEmpty(d decimal.NullDecimal) decimal.NullDecimal {
	if !d.Valid || d.Decimal.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d.Decimal.Round(moneyPlaces))
}

func voucherLookupErr(err error) error {
	if errors.Is(err, domain.ErrRecordNotFound) {
		return domain.ErrVoucherNotFound
	}
	return err
}

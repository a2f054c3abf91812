package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-market/internal/domain"
	"github.com/fsdevblog/groph-market/internal/repository/repoargs"
	"github.com/fsdevblog/groph-market/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const voucherColumns = `id, created_at, code, vendor_id, discount_percent, discount_amount, is_active, expires_at`

const (
	createVoucherSQL = `INSERT INTO vouchers (code, vendor_id, discount_percent, discount_amount, is_active, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + voucherColumns

	getVoucherByIDSQL = `SELECT ` + voucherColumns + ` FROM vouchers WHERE id = $1`

	findVoucherByCodeSQL = `SELECT ` + voucherColumns + ` FROM vouchers WHERE code = $1`

	listVouchersSQL = `SELECT ` + voucherColumns + ` FROM vouchers ORDER BY id LIMIT $1 OFFSET $2`

	updateVoucherSQL = `UPDATE vouchers
		SET code = $2, discount_percent = $3, discount_amount = $4, is_active = $5, expires_at = $6
		WHERE id = $1
		RETURNING ` + voucherColumns

	deactivateVoucherSQL = `UPDATE vouchers SET is_active = FALSE WHERE id = $1 RETURNING ` + voucherColumns

	deleteVoucherSQL = `DELETE FROM vouchers WHERE id = $1`

	voucherUsedInOrdersSQL = `SELECT EXISTS (SELECT 1 FROM orders WHERE voucher_id = $1)`
)

type VoucherRepository struct {
	conn uow.DBTX
}

func NewVoucherRepository(conn uow.DBTX) *VoucherRepository {
	return &VoucherRepository{conn: conn}
}

func (v *VoucherRepository) Create(ctx context.Context, args repoargs.CreateVoucher) (*domain.Voucher, error) {
	row := v.conn.QueryRow(ctx, createVoucherSQL,
		args.Code, args.VendorID, args.DiscountPercent, args.DiscountAmount, args.IsActive, args.ExpiresAt,
	)
	voucher, err := scanVoucher(row)
	if err != nil {
		return nil, convertErr(err, "creating voucher `%s`", args.Code)
	}
	return &voucher, nil
}

func (v *VoucherRepository) GetByID(ctx context.Context, id int64) (*domain.Voucher, error) {
	voucher, err := scanVoucher(v.conn.QueryRow(ctx, getVoucherByIDSQL, id))
	if err != nil {
		return nil, convertErr(err, "getting voucher by id `%d`", id)
	}
	return &voucher, nil
}

// FindByCode ищет ваучер по коду с точным совпадением, без проверки активности и срока действия.
func (v *VoucherRepository) FindByCode(ctx context.Context, code string) (*domain.Voucher, error) {
	voucher, err := scanVoucher(v.conn.QueryRow(ctx, findVoucherByCodeSQL, code))
	if err != nil {
		return nil, convertErr(err, "finding voucher by code `%s`", code)
	}
	return &voucher, nil
}

func (v *VoucherRepository) List(ctx context.Context, page repoargs.Pagination) ([]domain.Voucher, error) {
	limit, offset, err := limitOffset(page)
	if err != nil {
		return nil, convertErr(err, "converting pagination")
	}
	rows, err := v.conn.Query(ctx, listVouchersSQL, limit, offset)
	if err != nil {
		return nil, convertErr(err, "listing vouchers")
	}
	vouchers, err := collect(rows, scanVoucher)
	if err != nil {
		return nil, convertErr(err, "listing vouchers")
	}
	return vouchers, nil
}

func (v *VoucherRepository) Update(
	ctx context.Context,
	id int64,
	args repoargs.UpdateVoucher,
) (*domain.Voucher, error) {
	row := v.conn.QueryRow(ctx, updateVoucherSQL,
		id, args.Code, args.DiscountPercent, args.DiscountAmount, args.IsActive, args.ExpiresAt,
	)
	voucher, err := scanVoucher(row)
	if err != nil {
		return nil, convertErr(err, "updating voucher `%d`", id)
	}
	return &voucher, nil
}

func (v *VoucherRepository) Deactivate(ctx context.Context, id int64) (*domain.Voucher, error) {
	voucher, err := scanVoucher(v.conn.QueryRow(ctx, deactivateVoucherSQL, id))
	if err != nil {
		return nil, convertErr(err, "deactivating voucher `%d`", id)
	}
	return &voucher, nil
}

// Delete удаляет ваучер. Если на ваучер ссылаются заказы, база вернет нарушение внешнего ключа,
// оно придет как domain.ErrConflict.
func (v *VoucherRepository) Delete(ctx context.Context, id int64) error {
	tag, err := v.conn.Exec(ctx, deleteVoucherSQL, id)
	if err != nil {
		return convertErr(err, "deleting voucher `%d`", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "deleting voucher `%d`", id)
	}
	return nil
}

func (v *VoucherRepository) IsUsedInOrders(ctx context.Context, id int64) (bool, error) {
	var used bool
	if err := v.conn.QueryRow(ctx, voucherUsedInOrdersSQL, id).Scan(&used); err != nil {
		return false, convertErr(err, "checking orders of voucher `%d`", id)
	}
	return used, nil
}

func scanVoucher(row rowScanner) (domain.Voucher, error) {
	var voucher domain.Voucher
	err := row.Scan(
		&voucher.ID, &voucher.CreatedAt, &voucher.Code, &voucher.VendorID,
		&voucher.DiscountPercent, &voucher.DiscountAmount, &voucher.IsActive, &voucher.ExpiresAt,
	)
	return voucher, err
}

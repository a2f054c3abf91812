package api

import (
	"context"
	"net/http"
	"time"

	"github.com/fsdevblog/groph-market/internal/domain"
	"github.com/fsdevblog/groph-market/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type VouchersHandler struct {
	svs VoucherServicer
}

func NewVouchersHandler(svs VoucherServicer) *VouchersHandler {
	return &VouchersHandler{svs: svs}
}

type VoucherResponse struct {
	ID              int64               `json:"id"`
	Code            string              `json:"code"`
	VendorID        int64               `json:"vendor_id"`
	DiscountPercent decimal.NullDecimal `json:"discount_percent"`
	DiscountAmount  decimal.NullDecimal `json:"discount_amount"`
	IsActive        bool                `json:"is_active"`
	ExpiresAt       *time.Time          `json:"expires_at"`
	CreatedAt       time.Time           `json:"created_at"`
}

func newVoucherResponse(v *domain.Voucher) VoucherResponse {
	return VoucherResponse{
		ID:              v.ID,
		Code:            v.Code,
		VendorID:        v.VendorID,
		DiscountPercent: v.DiscountPercent,
		DiscountAmount:  v.DiscountAmount,
		IsActive:        v.IsActive,
		ExpiresAt:       v.ExpiresAt,
		CreatedAt:       v.CreatedAt,
	}
}

// VoucherParams тело запросов создания и изменения ваучера. IsActive по умолчанию true.
type VoucherParams struct {
	Code            string              `binding:"required,max_bytes=64"  json:"code"`
	VendorID        int64               `binding:"omitempty,gt=0"         json:"vendor_id"`
	DiscountPercent decimal.NullDecimal `binding:"decimal_gte0"           json:"discount_percent"`
	DiscountAmount  decimal.NullDecimal `binding:"decimal_gte0"           json:"discount_amount"`
	IsActive        *bool               `json:"is_active"`
	ExpiresAt       *time.Time          `json:"expires_at"`
}

func (p VoucherParams) toArgs() service.VoucherArgs {
	isActive := true
	if p.IsActive != nil {
		isActive = *p.IsActive
	}
	return service.VoucherArgs{
		Code:            p.Code,
		VendorID:        p.VendorID,
		DiscountPercent: p.DiscountPercent,
		DiscountAmount:  p.DiscountAmount,
		IsActive:        isActive,
		ExpiresAt:       p.ExpiresAt,
	}
}

// Index GET RouteGroup + VouchersRoute.
func (h *VouchersHandler) Index(c *gin.Context) {
	page, ok := bindPagination(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	vouchers, err := h.svs.List(ctx, page)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	response := make([]VoucherResponse, len(vouchers))
	for i := range vouchers {
		response[i] = newVoucherResponse(&vouchers[i])
	}
	c.JSON(http.StatusOK, response)
}

// Show GET RouteGroup + VoucherRoute.
func (h *VouchersHandler) Show(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	voucher, err := h.svs.Get(ctx, id)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newVoucherResponse(voucher))
}

// Create POST RouteGroup + VouchersRoute.
func (h *VouchersHandler) Create(c *gin.Context) {
	var params VoucherParams
	if !bindRequest(c, &params, c.ShouldBindJSON) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	voucher, err := h.svs.Create(ctx, getActor(c), params.toArgs())
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newVoucherResponse(voucher))
}

// Update PUT RouteGroup + VoucherRoute.
func (h *VouchersHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var params VoucherParams
	if !bindRequest(c, &params, c.ShouldBindJSON) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	voucher, err := h.svs.Update(ctx, getActor(c), id, params.toArgs())
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newVoucherResponse(voucher))
}

// Deactivate PATCH RouteGroup + VoucherDeactivateRoute.
func (h *VouchersHandler) Deactivate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	voucher, err := h.svs.Deactivate(ctx, getActor(c), id)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newVoucherResponse(voucher))
}

// Delete DELETE RouteGroup + VoucherRoute.
func (h *VouchersHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.svs.Delete(ctx, getActor(c), id); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.AbortWithStatus(http.StatusNoContent)
}

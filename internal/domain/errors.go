package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Базовые виды ошибок. Все ошибки домена разворачиваются (errors.Is) в один из них, по виду транспортный
// слой выбирает http статус.
var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrPasswordMissMatch = errors.New("password mismatch")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrUnknown           = errors.New("unknown error")

	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
)

var (
	ErrEmptyOrderItems       = NewKindError(ErrValidation, "no items to order")
	ErrInvalidQuantity       = NewKindError(ErrValidation, "quantity must be greater than zero")
	ErrNegativeAmount        = NewKindError(ErrValidation, "amount must not be negative")
	ErrPriceScale            = NewKindError(ErrValidation, "unit price must have at most 2 decimal places")
	ErrAmountTooLarge        = NewKindError(ErrValidation, "order total exceeds the maximum allowed amount")
	ErrEmptyCart             = NewKindError(ErrValidation, "cart is empty")
	ErrInvalidRating         = NewKindError(ErrValidation, "rating must be between 1 and 5")
	ErrCategoryParent        = NewKindError(ErrValidation, "category cannot be its own parent")
	ErrVoucherInvalid        = NewKindError(ErrValidation, "voucher is invalid or expired")
	ErrVoucherVendorMismatch = NewKindError(
		ErrValidation,
		"voucher can only be used for products from the issuing vendor",
	)
	ErrVoucherDiscount = NewKindError(
		ErrValidation,
		"voucher must define exactly one discount: percent in (0, 100] or a positive amount",
	)

	ErrOrderNotFound   = NewKindError(ErrRecordNotFound, "order not found")
	ErrVoucherNotFound = NewKindError(ErrRecordNotFound, "voucher not found")
	ErrUserNotFound    = NewKindError(ErrRecordNotFound, "user not found")

	ErrCartItemNotFound     = NewKindError(ErrRecordNotFound, "cart item not found")
	ErrCategoryNotFound     = NewKindError(ErrRecordNotFound, "category not found")
	ErrFeedbackNotFound     = NewKindError(ErrRecordNotFound, "feedback not found")
	ErrWishlistItemNotFound = NewKindError(ErrRecordNotFound, "product is not in the wishlist")

	ErrOrderClosed  = NewKindError(ErrConflict, "order is already closed")
	ErrVoucherInUse = NewKindError(ErrConflict, "voucher is referenced by orders and cannot be deleted")

	ErrCategoryAssigned  = NewKindError(ErrConflict, "product already has this category")
	ErrWishlistDuplicate = NewKindError(ErrConflict, "product is already in the wishlist")

	ErrVendorOnly = NewKindError(ErrForbidden, "only vendors can perform this action")
	ErrNotOwner   = NewKindError(ErrForbidden, "resource belongs to another vendor")
	ErrOrderOwner = NewKindError(ErrForbidden, "order belongs to another user")

	ErrOrderVendor          = NewKindError(ErrForbidden, "order has no products of this vendor")
	ErrCartItemOwner        = NewKindError(ErrForbidden, "cart item belongs to another user")
	ErrCategoryOwner        = NewKindError(ErrForbidden, "category belongs to another vendor")
	ErrFeedbackOwner        = NewKindError(ErrForbidden, "feedback belongs to another user")
	ErrFeedbackNotPurchased = NewKindError(ErrForbidden, "feedback is allowed only for purchased products")
)

// KindError ошибка с сообщением, пригодным для показа клиенту, и видом из базового набора.
type KindError interface {
	error
	Kind() error
}

type kindError struct {
	kind error
	msg  string
}

// NewKindError создает ошибку вида kind с сообщением msg.
func NewKindError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }
func (e *kindError) Kind() error   { return e.kind }

// PublicMessage ищет в цепочке err первую ошибку домена и возвращает её сообщение.
func PublicMessage(err error) (string, bool) {
	var ke KindError
	if errors.As(err, &ke) {
		return ke.Error(), true
	}
	return "", false
}

type InvalidStatusError struct {
	Status string
}

func (e *InvalidStatusError) Error() string {
	names := make([]string, 0, len(orderStatuses))
	for _, s := range orderStatuses {
		names = append(names, string(s))
	}
	return fmt.Sprintf("invalid status %q, valid statuses: %s", e.Status, strings.Join(names, ", "))
}

func (e *InvalidStatusError) Unwrap() error { return ErrValidation }
func (e *InvalidStatusError) Kind() error   { return ErrValidation }

type StatusTransitionError struct {
	From    OrderStatus
	To      OrderStatus
	Allowed []OrderStatus
}

func (e *StatusTransitionError) Error() string {
	allowed := make([]string, len(e.Allowed))
	for i, s := range e.Allowed {
		allowed[i] = string(s)
	}
	return fmt.Sprintf(
		"cannot change order status from %s to %s, allowed: %s",
		e.From, e.To, strings.Join(allowed, ", "),
	)
}

func (e *StatusTransitionError) Unwrap() error { return ErrConflict }
func (e *StatusTransitionError) Kind() error   { return ErrConflict }

type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

func (e *ProductNotFoundError) Unwrap() error { return ErrRecordNotFound }
func (e *ProductNotFoundError) Kind() error   { return ErrRecordNotFound }

const (
	StockReasonOutOfStock = "out of stock"
	StockReasonExceeds    = "requested quantity exceeds stock"
	StockReasonNotEnough  = "not enough stock"
)

// StockError нехватка остатка товара при создании или выполнении заказа.
type StockError struct {
	ProductID int64
	Requested int64
	Available int64
	Reason    string
}

func (e *StockError) Error() string {
	return fmt.Sprintf(
		"%s: product %d, requested %d, available %d",
		e.Reason, e.ProductID, e.Requested, e.Available,
	)
}

func (e *StockError) Unwrap() error { return ErrConflict }
func (e *StockError) Kind() error   { return ErrConflict }

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/fsdevblog/groph-market/internal/domain"
	"github.com/gin-gonic/gin"
)

type WishlistHandler struct {
	svs WishlistServicer
}

func NewWishlistHandler(svs WishlistServicer) *WishlistHandler {
	return &WishlistHandler{svs: svs}
}

type WishlistItemResponse struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	VendorID  int64     `json:"vendor_id"`
	AddedAt   time.Time `json:"added_at"`
}

func newWishlistItemResponse(item *domain.WishlistItem) WishlistItemResponse {
	return WishlistItemResponse{
		ID:        item.ID,
		ProductID: item.ProductID,
		VendorID:  item.VendorID,
		AddedAt:   item.AddedAt,
	}
}

type AddWishlistParams struct {
	ProductID int64 `binding:"required,gt=0" json:"product_id"`
}

// Index GET RouteGroup + WishlistRoute.
func (h *WishlistHandler) Index(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	items, err := h.svs.List(ctx, getUserIDFromContext(c))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	response := make([]WishlistItemResponse, len(items))
	for i := range items {
		response[i] = newWishlistItemResponse(&items[i])
	}
	c.JSON(http.StatusOK, response)
}

// Add POST RouteGroup + WishlistRoute.
func (h *WishlistHandler) Add(c *gin.Context) {
	var params AddWishlistParams
	if !bindRequest(c, &params, c.ShouldBindJSON) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	item, err := h.svs.Add(ctx, getUserIDFromContext(c), params.ProductID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newWishlistItemResponse(item))
}

// Remove DELETE RouteGroup + WishlistItemRoute. :id здесь id товара, а не строки избранного.
func (h *WishlistHandler) Remove(c *gin.Context) {
	productID, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.svs.Remove(ctx, getUserIDFromContext(c), productID); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.AbortWithStatus(http.StatusNoContent)
}

// Clear DELETE RouteGroup + WishlistRoute.
func (h *WishlistHandler) Clear(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.svs.Clear(ctx, getUserIDFromContext(c)); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.AbortWithStatus(http.StatusNoContent)
}

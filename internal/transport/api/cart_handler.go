package api

import (
	"context"
	"net/http"
	"time"

	"github.com/fsdevblog/groph-market/internal/domain"
	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	svs CartServicer
}

func NewCartHandler(svs CartServicer) *CartHandler {
	return &CartHandler{svs: svs}
}

type CartItemResponse struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	Quantity  int64     `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

type CartResponse struct {
	ID        int64              `json:"id"`
	UserID    int64              `json:"user_id"`
	CreatedAt time.Time          `json:"created_at"`
	Items     []CartItemResponse `json:"items"`
}

func newCartItemResponse(item *domain.CartItem) CartItemResponse {
	return CartItemResponse{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		AddedAt:   item.AddedAt,
	}
}

type AddCartItemParams struct {
	ProductID int64 `binding:"required,gt=0" json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type UpdateCartItemParams struct {
	Quantity int64 `json:"quantity"`
}

// Show GET RouteGroup + CartRoute.
func (h *CartHandler) Show(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	contents, err := h.svs.Get(ctx, getUserIDFromContext(c))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	response := CartResponse{
		ID:        contents.Cart.ID,
		UserID:    contents.Cart.UserID,
		CreatedAt: contents.Cart.CreatedAt,
		Items:     make([]CartItemResponse, len(contents.Items)),
	}
	for i := range contents.Items {
		response.Items[i] = newCartItemResponse(&contents.Items[i])
	}
	c.JSON(http.StatusOK, response)
}

// AddItem POST RouteGroup + CartItemsRoute. Нулевое количество проверяет сервис.
func (h *CartHandler) AddItem(c *gin.Context) {
	var params AddCartItemParams
	if !bindRequest(c, &params, c.ShouldBindJSON) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	item, err := h.svs.AddItem(ctx, getUserIDFromContext(c), params.ProductID, params.Quantity)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newCartItemResponse(item))
}

// UpdateItem PATCH RouteGroup + CartItemRoute.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var params UpdateCartItemParams
	if !bindRequest(c, &params, c.ShouldBindJSON) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	item, err := h.svs.UpdateItem(ctx, getUserIDFromContext(c), id, params.Quantity)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartItemResponse(item))
}

// RemoveItem DELETE RouteGroup + CartItemRoute.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.svs.RemoveItem(ctx, getUserIDFromContext(c), id); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.AbortWithStatus(http.StatusNoContent)
}

// Clear DELETE RouteGroup + CartRoute.
func (h *CartHandler) Clear(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.svs.Clear(ctx, getUserIDFromContext(c)); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.AbortWithStatus(http.StatusNoContent)
}

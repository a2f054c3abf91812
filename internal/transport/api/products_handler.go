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

type ProductsHandler struct {
	svs ProductServicer
}

func NewProductsHandler(svs ProductServicer) *ProductsHandler {
	return &ProductsHandler{svs: svs}
}

type ProductResponse struct {
	ID            int64           `json:"id"`
	VendorID      int64           `json:"vendor_id"`
	Name          string          `json:"name"`
	Slug          string          `json:"slug"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int64           `json:"stock_quantity"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func newProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		VendorID:      p.VendorID,
		Name:          p.Name,
		Slug:          p.Slug,
		Description:   p.Description,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// Index GET RouteGroup + ProductsRoute.
func (h *ProductsHandler) Index(c *gin.Context) {
	page, ok := bindPagination(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	products, err := h.svs.List(ctx, page)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	response := make([]ProductResponse, len(products))
	for i := range products {
		response[i] = newProductResponse(&products[i])
	}
	c.JSON(http.StatusOK, response)
}

// Show GET RouteGroup + ProductRoute.
func (h *ProductsHandler) Show(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	product, err := h.svs.Get(ctx, id)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProductResponse(product))
}

type CreateProductParams struct {
	Name          string          `binding:"required,max_bytes=255" json:"name"`
	Description   string          `binding:"max_bytes=4096"         json:"description"`
	Price         decimal.Decimal `binding:"decimal_gte0"           json:"price"`
	StockQuantity int64           `binding:"min=0"                  json:"stock_quantity"`
}

// Create POST RouteGroup + ProductsRoute. Товар создается в каталоге текущего вендора.
func (h *ProductsHandler) Create(c *gin.Context) {
	var params CreateProductParams
	if !bindRequest(c, &params, c.ShouldBindJSON) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	product, err := h.svs.Create(ctx, getActor(c), service.CreateProductArgs{
		Name:          params.Name,
		Description:   params.Description,
		Price:         params.Price,
		StockQuantity: params.StockQuantity,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newProductResponse(product))
}

type UpdateStockParams struct {
	StockQuantity *int64 `binding:"required,min=0" json:"stock_quantity"`
}

// UpdateStock PATCH RouteGroup + ProductStockRoute.
func (h *ProductsHandler) UpdateStock(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var params UpdateStockParams
	if !bindRequest(c, &params, c.ShouldBindJSON) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	product, err := h.svs.UpdateStock(ctx, getActor(c), id, *params.StockQuantity)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProductResponse(product))
}

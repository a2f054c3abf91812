package api

import (
	"context"
	"net/http"
	"time"

	"github.com/fsdevblog/groph-market/internal/domain"
	"github.com/fsdevblog/groph-market/internal/service"
	"github.com/gin-gonic/gin"
)

type CategoriesHandler struct {
	svs CategoryServicer
}

func NewCategoriesHandler(svs CategoryServicer) *CategoriesHandler {
	return &CategoriesHandler{svs: svs}
}

type CategoryResponse struct {
	ID        int64     `json:"id"`
	VendorID  int64     `json:"vendor_id"`
	ParentID  *int64    `json:"parent_id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newCategoryResponse(cat *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:        cat.ID,
		VendorID:  cat.VendorID,
		ParentID:  cat.ParentID,
		Name:      cat.Name,
		Slug:      cat.Slug,
		ImageURL:  cat.ImageURL,
		CreatedAt: cat.CreatedAt,
		UpdatedAt: cat.UpdatedAt,
	}
}

func newCategoriesResponse(categories []domain.Category) []CategoryResponse {
	response := make([]CategoryResponse, len(categories))
	for i := range categories {
		response[i] = newCategoryResponse(&categories[i])
	}
	return response
}

type CategoryParams struct {
	Name     string `binding:"required,max=120"              json:"name"`
	ParentID *int64 `binding:"omitempty,gt=0"                json:"parent_id"`
	ImageURL string `binding:"omitempty,url,max_bytes=255" json:"image_url"`
}

func (p CategoryParams) toArgs() service.CategoryArgs {
	return service.CategoryArgs{
		Name:     p.Name,
		ParentID: p.ParentID,
		ImageURL: p.ImageURL,
	}
}

type AssignCategoryParams struct {
	CategoryID int64 `binding:"required,gt=0" json:"category_id"`
}

// Index GET RouteGroup + CategoriesRoute.
func (h *CategoriesHandler) Index(c *gin.Context) {
	page, ok := bindPagination(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	categories, err := h.svs.List(ctx, page)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCategoriesResponse(categories))
}

// Show GET RouteGroup + CategoryRoute.
func (h *CategoriesHandler) Show(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	category, err := h.svs.Get(ctx, id)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCategoryResponse(category))
}

// Create POST RouteGroup + CategoriesRoute.
func (h *CategoriesHandler) Create(c *gin.Context) {
	var params CategoryParams
	if !bindRequest(c, &params, c.ShouldBindJSON) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	category, err := h.svs.Create(ctx, getActor(c), params.toArgs())
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newCategoryResponse(category))
}

// Update PUT RouteGroup + CategoryRoute.
func (h *CategoriesHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var params CategoryParams
	if !bindRequest(c, &params, c.ShouldBindJSON) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	category, err := h.svs.Update(ctx, getActor(c), id, params.toArgs())
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCategoryResponse(category))
}

// Delete DELETE RouteGroup + CategoryRoute.
func (h *CategoriesHandler) Delete(c *gin.Context) {
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

// ProductCategories GET RouteGroup + ProductCategoriesRoute.
func (h *CategoriesHandler) ProductCategories(c *gin.Context) {
	productID, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	categories, err := h.svs.ProductCategories(ctx, productID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCategoriesResponse(categories))
}

// AssignProduct POST RouteGroup + ProductCategoriesRoute.
func (h *CategoriesHandler) AssignProduct(c *gin.Context) {
	productID, ok := parseIDParam(c)
	if !ok {
		return
	}
	var params AssignCategoryParams
	if !bindRequest(c, &params, c.ShouldBindJSON) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.svs.AssignProduct(ctx, getActor(c), productID, params.CategoryID); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.AbortWithStatus(http.StatusNoContent)
}

// RemoveProduct DELETE RouteGroup + ProductCategoryRoute.
func (h *CategoriesHandler) RemoveProduct(c *gin.Context) {
	productID, ok := parseIDParam(c)
	if !ok {
		return
	}
	categoryID, ok := parsePositiveParam(c, "category_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.svs.RemoveProduct(ctx, getActor(c), productID, categoryID); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.AbortWithStatus(http.StatusNoContent)
}

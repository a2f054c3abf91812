package api

import (
	"context"
	"net/http"
	"time"

	"github.com/fsdevblog/groph-market/internal/domain"
	"github.com/fsdevblog/groph-market/internal/service"
	"github.com/gin-gonic/gin"
)

type FeedbackHandler struct {
	svs FeedbackServicer
}

func NewFeedbackHandler(svs FeedbackServicer) *FeedbackHandler {
	return &FeedbackHandler{svs: svs}
}

type FeedbackResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ProductID int64     `json:"product_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func newFeedbackResponse(f *domain.Feedback) FeedbackResponse {
	return FeedbackResponse{
		ID:        f.ID,
		UserID:    f.UserID,
		ProductID: f.ProductID,
		Rating:    f.Rating,
		Comment:   f.Comment,
		CreatedAt: f.CreatedAt,
	}
}

func newFeedbackListResponse(feedback []domain.Feedback) []FeedbackResponse {
	response := make([]FeedbackResponse, len(feedback))
	for i := range feedback {
		response[i] = newFeedbackResponse(&feedback[i])
	}
	return response
}

// CreateFeedbackParams диапазон рейтинга проверяет сервис.
type CreateFeedbackParams struct {
	ProductID int64  `binding:"required,gt=0" json:"product_id"`
	Rating    int    `json:"rating"`
	Comment   string `binding:"max_bytes=255" json:"comment"`
}

// Index GET RouteGroup + FeedbackRoute.
func (h *FeedbackHandler) Index(c *gin.Context) {
	page, ok := bindPagination(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	feedback, err := h.svs.List(ctx, page)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newFeedbackListResponse(feedback))
}

// Create POST RouteGroup + FeedbackRoute.
func (h *FeedbackHandler) Create(c *gin.Context) {
	var params CreateFeedbackParams
	if !bindRequest(c, &params, c.ShouldBindJSON) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	feedback, err := h.svs.Create(ctx, getUserIDFromContext(c), service.CreateFeedbackArgs{
		ProductID: params.ProductID,
		Rating:    params.Rating,
		Comment:   params.Comment,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newFeedbackResponse(feedback))
}

// ByProduct GET RouteGroup + ProductFeedbackRoute.
func (h *FeedbackHandler) ByProduct(c *gin.Context) {
	productID, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	feedback, err := h.svs.ListByProduct(ctx, productID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newFeedbackListResponse(feedback))
}

// Mine GET RouteGroup + UserFeedbackRoute.
func (h *FeedbackHandler) Mine(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	feedback, err := h.svs.ListByUser(ctx, getUserIDFromContext(c))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newFeedbackListResponse(feedback))
}

// Delete DELETE RouteGroup + FeedbackItemRoute.
func (h *FeedbackHandler) Delete(c *gin.Context) {
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

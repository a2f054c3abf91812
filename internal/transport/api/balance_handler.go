package api

import (
	"context"
	"net/http"
	"time"

	"github.com/fsdevblog/groph-market/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type BalanceHandler struct {
	svs BalanceServicer
}

func NewBalanceHandler(svs BalanceServicer) *BalanceHandler {
	return &BalanceHandler{
		svs: svs,
	}
}

type BalanceResponse struct {
	Current   decimal.Decimal `json:"current"`
	Withdrawn decimal.Decimal `json:"withdrawn"`
}

// Balance GET RouteGroup + BalanceRoute.
func (b *BalanceHandler) Balance(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	balance, err := b.svs.GetUserBalance(reqCtx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, &BalanceResponse{
		Current:   balance.Current,
		Withdrawn: balance.Withdrawn,
	})
}

type TopUpParams struct {
	Amount decimal.Decimal `binding:"decimal_gte0" json:"amount"`
}

type BalanceTransactionResponse struct {
	ID        int64                `json:"id"`
	Direction domain.DirectionType `json:"direction"`
	Amount    decimal.Decimal      `json:"amount"`
	CreatedAt string               `json:"processed_at"`
}

func newBalanceTransactionResponse(t *domain.BalanceTransaction) BalanceTransactionResponse {
	return BalanceTransactionResponse{
		ID:        t.ID,
		Direction: t.Direction,
		Amount:    t.Amount,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
	}
}

// TopUp POST RouteGroup + BalanceTopUpRoute. Пополнение баланса текущего пользователя.
func (b *BalanceHandler) TopUp(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params TopUpParams
	if !bindRequest(c, &params, c.ShouldBindJSON) {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	transaction, err := b.svs.TopUp(reqCtx, currentUserID, params.Amount)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newBalanceTransactionResponse(transaction))
}

// History GET RouteGroup + BalanceHistoryRoute. Все движения по балансу, новые сверху.
func (b *BalanceHandler) History(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)
	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	transactions, err := b.svs.History(reqCtx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}
	response := make([]BalanceTransactionResponse, len(transactions))
	for i := range transactions {
		response[i] = newBalanceTransactionResponse(&transactions[i])
	}

	c.JSON(http.StatusOK, response)
}

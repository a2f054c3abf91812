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

type OrdersHandler struct {
	orderSvs OrderServicer
}

func NewOrdersHandler(orderSvs OrderServicer) *OrdersHandler {
	return &OrdersHandler{
		orderSvs: orderSvs,
	}
}

type OrderResponse struct {
	ID          int64                `json:"id"`
	UserID      int64                `json:"user_id"`
	TotalAmount decimal.Decimal      `json:"total_amount"`
	Status      domain.OrderStatus   `json:"status"`
	VoucherID   *int64               `json:"voucher_id,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	Items       []OrderItemResponse  `json:"items,omitempty"`
	Allowed     []domain.OrderStatus `json:"allowed_statuses"`
}

type OrderItemResponse struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	VendorID  int64           `json:"vendor_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

func newOrderResponse(o *domain.Order, items []domain.OrderItem) OrderResponse {
	response := OrderResponse{
		ID:          o.ID,
		UserID:      o.UserID,
		TotalAmount: o.TotalAmount,
		Status:      o.Status,
		VoucherID:   o.VoucherID,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
		Allowed:     o.Status.AllowedNext(),
	}
	if len(items) > 0 {
		response.Items = make([]OrderItemResponse, len(items))
		for i, item := range items {
			response.Items[i] = OrderItemResponse{
				ID:        item.ID,
				ProductID: item.ProductID,
				VendorID:  item.VendorID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
				LineTotal: item.LineTotal(),
			}
		}
	}
	return response
}

type OrderItemParams struct {
	ProductID int64           `binding:"required,gt=0" json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `binding:"decimal_gte0"  json:"unit_price"`
}

// CreateOrderParams пустой список строк и нулевое количество проверяет сервис, чтобы клиент получил
// ошибку домена.
type CreateOrderParams struct {
	Items       []OrderItemParams `binding:"dive"         json:"items"`
	VoucherCode string            `binding:"max_bytes=64" json:"voucher_code"`
}

func (p CreateOrderParams) toArgs(userID int64) service.CreateOrderArgs {
	items := make([]service.CreateOrderItemArgs, len(p.Items))
	for i, item := range p.Items {
		items[i] = service.CreateOrderItemArgs{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}
	return service.CreateOrderArgs{
		UserID:      userID,
		Items:       items,
		VoucherCode: p.VoucherCode,
	}
}

// Create POST RouteGroup + OrdersRoute.
func (o *OrdersHandler) Create(c *gin.Context) {
	var params CreateOrderParams
	if !bindRequest(c, &params, c.ShouldBindJSON) {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, createErr := o.orderSvs.Create(reqCtx, params.toArgs(getUserIDFromContext(c)))
	if createErr != nil {
		abortWithServiceError(c, createErr)
		return
	}

	c.JSON(http.StatusCreated, newOrderResponse(order, nil))
}

type CheckoutParams struct {
	VoucherCode string `binding:"max_bytes=64" json:"voucher_code"`
}

// Checkout POST RouteGroup + CartCheckoutRoute. Создает заказ из корзины текущего пользователя.
// Тело запроса необязательно.
func (o *OrdersHandler) Checkout(c *gin.Context) {
	var params CheckoutParams
	if c.Request.ContentLength != 0 && !bindRequest(c, &params, c.ShouldBindJSON) {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, err := o.orderSvs.CreateFromCart(reqCtx, getUserIDFromContext(c), params.VoucherCode)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newOrderResponse(order, nil))
}

type OrderPreviewResponse struct {
	TotalBefore decimal.Decimal `json:"total_before"`
	Discount    decimal.Decimal `json:"discount"`
	TotalAfter  decimal.Decimal `json:"total_after"`
	VoucherID   *int64          `json:"voucher_id,omitempty"`
}

// Preview POST RouteGroup + OrderPreviewRoute. Расчет суммы заказа с ваучером без создания заказа.
func (o *OrdersHandler) Preview(c *gin.Context) {
	var params CreateOrderParams
	if !bindRequest(c, &params, c.ShouldBindJSON) {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	pricing, err := o.orderSvs.Preview(reqCtx, params.toArgs(getUserIDFromContext(c)))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	response := OrderPreviewResponse{
		TotalBefore: pricing.TotalBefore,
		Discount:    pricing.Discount,
		TotalAfter:  pricing.TotalAfter,
	}
	if pricing.Voucher != nil {
		response.VoucherID = &pricing.Voucher.ID
	}
	c.JSON(http.StatusOK, response)
}

// Index GET RouteGroup + OrdersRoute. Заказы текущего пользователя, новые сверху.
func (o *OrdersHandler) Index(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()
	orders, err := o.orderSvs.GetByUserID(reqCtx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).
			SetType(gin.ErrorTypePrivate)
		return
	}

	if len(orders) == 0 {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	var response = make([]OrderResponse, len(orders))
	for i := range orders {
		response[i] = newOrderResponse(&orders[i], nil)
	}

	c.JSON(http.StatusOK, response)
}

// Show GET RouteGroup + OrderRoute. Заказ со строками, доступен владельцу и админу.
func (o *OrdersHandler) Show(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, ok := o.ownOrder(reqCtx, c, id)
	if !ok {
		return
	}
	items, err := o.orderSvs.GetItems(reqCtx, order.ID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newOrderResponse(order, items))
}

type UpdateStatusParams struct {
	Status string `binding:"required,max_bytes=32" json:"status"`
}

// UpdateStatus PUT RouteGroup + OrderStatusRoute.
func (o *OrdersHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var params UpdateStatusParams
	if !bindRequest(c, &params, c.ShouldBindJSON) {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, err := o.orderSvs.UpdateStatus(reqCtx, getActor(c), id, params.Status)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newOrderResponse(order, nil))
}

// Delete DELETE RouteGroup + OrderRoute. Удалить заказ может владелец или админ.
func (o *OrdersHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if _, owned := o.ownOrder(reqCtx, c, id); !owned {
		return
	}
	deleted, err := o.orderSvs.Delete(reqCtx, id)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newOrderResponse(deleted, nil))
}

// ownOrder загружает заказ и проверяет, что текущий пользователь его владелец или админ.
func (o *OrdersHandler) ownOrder(ctx context.Context, c *gin.Context, id int64) (*domain.Order, bool) {
	order, err := o.orderSvs.Get(ctx, id)
	if err != nil {
		abortWithServiceError(c, err)
		return nil, false
	}
	actor := getActor(c)
	if !actor.IsAdmin() && order.UserID != actor.UserID {
		abortWithServiceError(c, domain.ErrOrderOwner)
		return nil, false
	}
	return order, true
}

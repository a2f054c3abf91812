package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/fsdevblog/groph-market/internal/domain"
	"github.com/fsdevblog/groph-market/internal/repository/repoargs"
	"github.com/fsdevblog/groph-market/pkg/uow"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	opCreateOrder   = "create"
	opCheckoutOrder = "checkout"
	opPreviewOrder  = "preview"
	opUpdateStatus  = "update_status"
	opDeleteOrder   = "delete"
)

// maxOrderAmount наибольшая сумма, которую вмещает NUMERIC(12,2).
var maxOrderAmount = decimal.RequireFromString("9999999999.99")

// OrderService реализует жизненный цикл заказа: создание с применением ваучера, смену статуса
// и удаление. Каждая изменяющая операция выполняется в одной транзакции.
type OrderService struct {
	uow         uow.UOW
	orderRepo   OrderRepository
	productRepo ProductRepository
	voucherRepo VoucherRepository
	recorder    OrderRecorder
	l           *logrus.Entry
	now         func() time.Time
}

func NewOrderService(u uow.UOW, l *logrus.Logger) (*OrderService, error) {
	orderRepo, err := uow.GetRepositoryAs[OrderRepository](u, uow.RepositoryName(repoargs.OrderRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	productRepo, err := uow.GetRepositoryAs[ProductRepository](u, uow.RepositoryName(repoargs.ProductRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	voucherRepo, err := uow.GetRepositoryAs[VoucherRepository](u, uow.RepositoryName(repoargs.VoucherRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &OrderService{
		uow:         u,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		voucherRepo: voucherRepo,
		recorder:    noopRecorder{},
		l: l.WithFields(logrus.Fields{
			"component": "service",
			"module":    "order",
		}),
		now: time.Now,
	}, nil
}

// SetRecorder устанавливает получателя событий для метрик.
func (o *OrderService) SetRecorder(r OrderRecorder) *OrderService {
	if r != nil {
		o.recorder = r
	}
	return o
}

// SetClock подменяет источник текущего времени, по нему проверяется срок действия ваучеров.
func (o *OrderService) SetClock(now func() time.Time) *OrderService {
	if now != nil {
		o.now = now
	}
	return o
}

type CreateOrderItemArgs struct {
	ProductID int64
	Quantity  int64
	UnitPrice decimal.Decimal
}

type CreateOrderArgs struct {
	UserID      int64
	Items       []CreateOrderItemArgs
	VoucherCode string
}

// OrderPricing расчет суммы заказа. Voucher nil, если ваучер не применялся.
type OrderPricing struct {
	TotalBefore decimal.Decimal
	Discount    decimal.Decimal
	TotalAfter  decimal.Decimal
	Voucher     *domain.Voucher
}

// Create создает заказ со строками в статусе pending.
//
// Алгоритм работы:
//  1. Проверяет строки (непустой список, количество > 0, цена >= 0 и не точнее копейки) и считает сумму
//     до скидки по ценам из запроса. Сумма не может превышать maxOrderAmount.
//  2. В транзакции применяет ваучер: он должен быть активен, не просрочен, а все товары заказа должны
//     принадлежать вендору ваучера.
//  3. Создает заголовок заказа с итоговой суммой, затем для каждой строки проверяет товар и его остаток
//     и вставляет строки, фиксируя цену и вендора товара.
//
// Остаток товара при создании не списывается. Любая ошибка откатывает транзакцию целиком.
func (o *OrderService) Create(ctx context.Context, args CreateOrderArgs) (*domain.Order, error) {
	totalBefore, validErr := validateOrderItems(args.Items)
	if validErr != nil {
		o.recorder.OrderFailed(opCreateOrder, validErr)
		return nil, fmt.Errorf("creating order: %w", validErr)
	}

	var order *domain.Order
	var pricing *OrderPricing
	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		var createErr error
		order, pricing, createErr = o.createInTx(c, tx, args, totalBefore)
		return createErr
	})

	if txErr != nil {
		o.recorder.OrderFailed(opCreateOrder, txErr)
		return nil, fmt.Errorf("creating order: %w", txErr)
	}

	o.recorder.OrderCreated()
	o.l.WithFields(logrus.Fields{
		"orderID":  order.ID,
		"userID":   order.UserID,
		"total":    order.TotalAmount.String(),
		"discount": pricing.Discount.String(),
	}).Info("order created")
	return order, nil
}

// CreateFromCart оформляет заказ из корзины пользователя. Цены строк берутся из текущих цен товаров,
// после создания заказа корзина очищается в той же транзакции.
func (o *OrderService) CreateFromCart(ctx context.Context, userID int64, voucherCode string) (*domain.Order, error) {
	var order *domain.Order
	var pricing *OrderPricing
	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		cartRepo, repoErr := uow.GetAs[CartRepository](tx, uow.RepositoryName(repoargs.CartRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}
		productRepo, repoErr := uow.GetAs[ProductRepository](tx, uow.RepositoryName(repoargs.ProductRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}

		cart, cartErr := cartRepo.GetByUserID(c, userID)
		if cartErr != nil {
			if errors.Is(cartErr, domain.ErrRecordNotFound) {
				return domain.ErrEmptyCart
			}
			return cartErr //nolint:wrapcheck
		}
		cartItems, itemsErr := cartRepo.GetItems(c, cart.ID)
		if itemsErr != nil {
			return itemsErr //nolint:wrapcheck
		}
		if len(cartItems) == 0 {
			return domain.ErrEmptyCart
		}

		args, argsErr := cartOrderArgs(c, productRepo, userID, voucherCode, cartItems)
		if argsErr != nil {
			return argsErr
		}
		totalBefore, validErr := validateOrderItems(args.Items)
		if validErr != nil {
			return validErr
		}

		var createErr error
		order, pricing, createErr = o.createInTx(c, tx, args, totalBefore)
		if createErr != nil {
			return createErr
		}
		return cartRepo.Clear(c, cart.ID) //nolint:wrapcheck
	})

	if txErr != nil {
		o.recorder.OrderFailed(opCheckoutOrder, txErr)
		return nil, fmt.Errorf("checking out cart: %w", txErr)
	}

	o.recorder.OrderCreated()
	o.l.WithFields(logrus.Fields{
		"orderID":  order.ID,
		"userID":   order.UserID,
		"total":    order.TotalAmount.String(),
		"discount": pricing.Discount.String(),
	}).Info("order created from cart")
	return order, nil
}

// createInTx применяет ваучер, создает заголовок заказа и строки внутри открытой транзакции tx.
func (o *OrderService) createInTx(
	ctx context.Context,
	tx uow.TX,
	args CreateOrderArgs,
	totalBefore decimal.Decimal,
) (*domain.Order, *OrderPricing, error) {
	orderRepo, repoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
	if repoErr != nil {
		return nil, nil, repoErr //nolint:wrapcheck
	}
	productRepo, repoErr := uow.GetAs[ProductRepository](tx, uow.RepositoryName(repoargs.ProductRepoName))
	if repoErr != nil {
		return nil, nil, repoErr //nolint:wrapcheck
	}
	voucherRepo, repoErr := uow.GetAs[VoucherRepository](tx, uow.RepositoryName(repoargs.VoucherRepoName))
	if repoErr != nil {
		return nil, nil, repoErr //nolint:wrapcheck
	}

	pricing, priceErr := o.price(ctx, productRepo, voucherRepo, args, totalBefore)
	if priceErr != nil {
		return nil, nil, priceErr
	}

	var voucherID *int64
	if pricing.Voucher != nil {
		id := pricing.Voucher.ID
		voucherID = &id
	}
	created, createErr := orderRepo.CreateOrder(ctx, repoargs.CreateOrder{
		UserID:      args.UserID,
		TotalAmount: pricing.TotalAfter,
		Status:      domain.OrderStatusPending,
		VoucherID:   voucherID,
	})
	if createErr != nil {
		return nil, nil, createErr //nolint:wrapcheck
	}

	items := make([]repoargs.CreateOrderItem, 0, len(args.Items))
	for _, line := range args.Items {
		product, productErr := productRepo.GetByID(ctx, line.ProductID)
		if productErr != nil {
			return nil, nil, productLookupErr(line.ProductID, productErr)
		}
		if stockErr := checkStockForOrder(product, line.Quantity); stockErr != nil {
			return nil, nil, stockErr
		}
		items = append(items, repoargs.CreateOrderItem{
			OrderID:   created.ID,
			ProductID: product.ID,
			VendorID:  product.VendorID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	if _, itemsErr := orderRepo.CreateOrderItems(ctx, items); itemsErr != nil {
		return nil, nil, itemsErr //nolint:wrapcheck
	}
	return created, pricing, nil
}

// cartOrderArgs превращает строки корзины в строки заказа по текущим ценам товаров.
func cartOrderArgs(
	ctx context.Context,
	productRepo ProductRepository,
	userID int64,
	voucherCode string,
	cartItems []domain.CartItem,
) (CreateOrderArgs, error) {
	ids := make([]int64, 0, len(cartItems))
	for _, item := range cartItems {
		ids = append(ids, item.ProductID)
	}
	products, err := productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return CreateOrderArgs{}, err //nolint:wrapcheck
	}
	priceByProduct := make(map[int64]decimal.Decimal, len(products))
	for _, p := range products {
		priceByProduct[p.ID] = p.Price
	}

	args := CreateOrderArgs{
		UserID:      userID,
		VoucherCode: voucherCode,
		Items:       make([]CreateOrderItemArgs, 0, len(cartItems)),
	}
	for _, item := range cartItems {
		unitPrice, ok := priceByProduct[item.ProductID]
		if !ok {
			return CreateOrderArgs{}, &domain.ProductNotFoundError{ProductID: item.ProductID}
		}
		args.Items = append(args.Items, CreateOrderItemArgs{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: unitPrice,
		})
	}
	return args, nil
}

// Preview считает сумму заказа и скидку по тем же правилам, что и Create, ничего не записывая.
func (o *OrderService) Preview(ctx context.Context, args CreateOrderArgs) (*OrderPricing, error) {
	totalBefore, validErr := validateOrderItems(args.Items)
	if validErr != nil {
		o.recorder.OrderFailed(opPreviewOrder, validErr)
		return nil, fmt.Errorf("previewing order: %w", validErr)
	}
	pricing, err := o.price(ctx, o.productRepo, o.voucherRepo, args, totalBefore)
	if err != nil {
		o.recorder.OrderFailed(opPreviewOrder, err)
		return nil, fmt.Errorf("previewing order: %w", err)
	}
	return pricing, nil
}

// UpdateStatus переводит заказ в статус status (без учета регистра) по таблице переходов.
// При переходе в completed списывает остатки всех товаров заказа в той же транзакции, что и смена статуса.
// Вендор может менять статус только тех заказов, в которых есть его товары, админ любых.
func (o *OrderService) UpdateStatus(
	ctx context.Context,
	actor domain.Actor,
	orderID int64,
	status string,
) (*domain.Order, error) {
	next, parseErr := domain.ParseOrderStatus(status)
	if parseErr != nil {
		o.recorder.OrderFailed(opUpdateStatus, parseErr)
		return nil, fmt.Errorf("updating order status: %w", parseErr)
	}

	var updated *domain.Order
	var from domain.OrderStatus
	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		orderRepo, repoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}

		order, orderErr := orderRepo.GetByIDForUpdate(c, orderID)
		if orderErr != nil {
			return orderLookupErr(orderErr)
		}
		if !actor.IsAdmin() {
			if vendorErr := checkOrderVendor(c, orderRepo, order.ID, actor.UserID); vendorErr != nil {
				return vendorErr
			}
		}
		if trErr := order.Status.Transition(next); trErr != nil {
			return trErr //nolint:wrapcheck
		}
		from = order.Status

		if next == domain.OrderStatusCompleted {
			productRepo, productRepoErr :=
				uow.GetAs[ProductRepository](tx, uow.RepositoryName(repoargs.ProductRepoName))
			if productRepoErr != nil {
				return productRepoErr //nolint:wrapcheck
			}
			if consumeErr := consumeStock(c, orderRepo, productRepo, order.ID); consumeErr != nil {
				return consumeErr
			}
		}

		var updErr error
		updated, updErr = orderRepo.UpdateStatus(c, order.ID, next)
		return updErr //nolint:wrapcheck
	})

	if txErr != nil {
		o.recorder.OrderFailed(opUpdateStatus, txErr)
		return nil, fmt.Errorf("updating order status: %w", txErr)
	}

	o.recorder.StatusChanged(from, next)
	o.l.WithFields(logrus.Fields{
		"orderID": updated.ID,
		"from":    from,
		"to":      next,
	}).Info("order status changed")
	return updated, nil
}

// Delete удаляет заказ вместе со строками. Остатки товаров не восстанавливаются.
func (o *OrderService) Delete(ctx context.Context, orderID int64) (*domain.Order, error) {
	var deleted *domain.Order
	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		orderRepo, repoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}
		if _, orderErr := orderRepo.GetByIDForUpdate(c, orderID); orderErr != nil {
			return orderLookupErr(orderErr)
		}
		if itemsErr := orderRepo.DeleteItems(c, orderID); itemsErr != nil {
			return itemsErr //nolint:wrapcheck
		}
		var delErr error
		deleted, delErr = orderRepo.Delete(c, orderID)
		return delErr //nolint:wrapcheck
	})
	if txErr != nil {
		o.recorder.OrderFailed(opDeleteOrder, txErr)
		return nil, fmt.Errorf("deleting order: %w", txErr)
	}

	o.l.WithField("orderID", deleted.ID).Info("order deleted")
	return deleted, nil
}

// Get возвращает заказ по id или domain.ErrOrderNotFound.
func (o *OrderService) Get(ctx context.Context, orderID int64) (*domain.Order, error) {
	order, err := o.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("getting order: %w", orderLookupErr(err))
	}
	return order, nil
}

// GetByUserID Возвращает заказы от userID отсортированные по дате создания по убыванию.
func (o *OrderService) GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error) {
	orders, err := o.orderRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return orders, nil
}

// GetItems возвращает строки заказа в порядке их создания.
func (o *OrderService) GetItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	items, err := o.orderRepo.GetItems(ctx, orderID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return items, nil
}

// price применяет ваучер из args к сумме totalBefore.
func (o *OrderService) price(
	ctx context.Context,
	productRepo ProductRepository,
	voucherRepo VoucherRepository,
	args CreateOrderArgs,
	totalBefore decimal.Decimal,
) (*OrderPricing, error) {
	pricing := &OrderPricing{
		TotalBefore: totalBefore,
		Discount:    decimal.Zero,
		TotalAfter:  domain.ApplyDiscount(totalBefore, decimal.Zero),
	}
	if args.VoucherCode == "" {
		return pricing, nil
	}

	voucher, err := voucherRepo.FindByCode(ctx, args.VoucherCode)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrVoucherInvalid
		}
		return nil, err //nolint:wrapcheck
	}
	// неактивный и просроченный ваучеры дают одну и ту же ошибку.
	if !voucher.IsUsable(o.now()) {
		return nil, domain.ErrVoucherInvalid
	}
	if vendorErr := checkVoucherVendor(ctx, productRepo, voucher, args.Items); vendorErr != nil {
		return nil, vendorErr
	}

	pricing.Voucher = voucher
	pricing.Discount = voucher.Discount(totalBefore)
	pricing.TotalAfter = domain.ApplyDiscount(totalBefore, pricing.Discount)
	return pricing, nil
}

// checkVoucherVendor все товары заказа должны принадлежать ровно одному вендору, и это вендор ваучера.
func checkVoucherVendor(
	ctx context.Context,
	productRepo ProductRepository,
	voucher *domain.Voucher,
	items []CreateOrderItemArgs,
) error {
	ids := uniqueProductIDs(items)
	products, err := productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return err //nolint:wrapcheck
	}
	vendorByProduct := make(map[int64]int64, len(products))
	for _, p := range products {
		vendorByProduct[p.ID] = p.VendorID
	}

	vendors := make(map[int64]struct{}, 1)
	for _, id := range ids {
		vendorID, ok := vendorByProduct[id]
		if !ok {
			return &domain.ProductNotFoundError{ProductID: id}
		}
		vendors[vendorID] = struct{}{}
	}
	if _, ok := vendors[voucher.VendorID]; !ok || len(vendors) != 1 {
		return domain.ErrVoucherVendorMismatch
	}
	return nil
}

func checkOrderVendor(ctx context.Context, orderRepo OrderRepository, orderID, vendorID int64) error {
	items, err := orderRepo.GetItems(ctx, orderID)
	if err != nil {
		return err //nolint:wrapcheck
	}
	for _, item := range items {
		if item.VendorID == vendorID {
			return nil
		}
	}
	return domain.ErrOrderVendor
}

// consumeStock списывает остатки товаров заказа. Строки с одним товаром суммируются, товары блокируются
// в порядке возрастания id, чтобы параллельные завершения заказов не блокировали друг друга крест-накрест.
func consumeStock(
	ctx context.Context,
	orderRepo OrderRepository,
	productRepo ProductRepository,
	orderID int64,
) error {
	items, err := orderRepo.GetItems(ctx, orderID)
	if err != nil {
		return err //nolint:wrapcheck
	}

	required := make(map[int64]int64, len(items))
	for _, item := range items {
		required[item.ProductID] += item.Quantity
	}
	productIDs := make([]int64, 0, len(required))
	for id := range required {
		productIDs = append(productIDs, id)
	}
	slices.Sort(productIDs)

	for _, productID := range productIDs {
		quantity := required[productID]
		product, productErr := productRepo.GetByIDForUpdate(ctx, productID)
		if productErr != nil {
			return productLookupErr(productID, productErr)
		}
		if product.StockQuantity < quantity {
			return &domain.StockError{
				ProductID: productID,
				Requested: quantity,
				Available: product.StockQuantity,
				Reason:    domain.StockReasonNotEnough,
			}
		}
		if _, decErr := productRepo.DecrementStock(ctx, productID, quantity); decErr != nil {
			if errors.Is(decErr, domain.ErrRecordNotFound) {
				return &domain.StockError{
					ProductID: productID,
					Requested: quantity,
					Available: product.StockQuantity,
					Reason:    domain.StockReasonNotEnough,
				}
			}
			return decErr //nolint:wrapcheck
		}
	}
	return nil
}

// validateOrderItems проверяет строки заказа и возвращает сумму до скидки. Цена строки хранится
// с точностью до копейки, поэтому сумма заказа всегда совпадает с суммой сохраненных строк.
func validateOrderItems(items []CreateOrderItemArgs) (decimal.Decimal, error) {
	if len(items) == 0 {
		return decimal.Zero, domain.ErrEmptyOrderItems
	}
	total := decimal.Zero
	for _, item := range items {
		if item.Quantity <= 0 {
			return decimal.Zero, domain.ErrInvalidQuantity
		}
		if item.UnitPrice.IsNegative() {
			return decimal.Zero, domain.ErrNegativeAmount
		}
		if !item.UnitPrice.Equal(item.UnitPrice.Round(moneyPlaces)) {
			return decimal.Zero, domain.ErrPriceScale
		}
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(item.Quantity)))
		if total.GreaterThan(maxOrderAmount) {
			return decimal.Zero, domain.ErrAmountTooLarge
		}
	}
	return total, nil
}

func checkStockForOrder(product *domain.Product, quantity int64) error {
	switch {
	case product.StockQuantity <= 0:
		return &domain.StockError{
			ProductID: product.ID,
			Requested: quantity,
			Available: product.StockQuantity,
			Reason:    domain.StockReasonOutOfStock,
		}
	case quantity > product.StockQuantity:
		return &domain.StockError{
			ProductID: product.ID,
			Requested: quantity,
			Available: product.StockQuantity,
			Reason:    domain.StockReasonExceeds,
		}
	}
	return nil
}

func uniqueProductIDs(items []CreateOrderItemArgs) []int64 {
	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

func productLookupErr(productID int64, err error) error {
	if errors.Is(err, domain.ErrRecordNotFound) {
		return &domain.ProductNotFoundError{ProductID: productID}
	}
	return err
}

func orderLookupErr(err error) error {
	if errors.Is(err, domain.ErrRecordNotFound) {
		return domain.ErrOrderNotFound
	}
	return err
}

type noopRecorder struct{}

func (noopRecorder) OrderCreated()                         {}
func (noopRecorder) StatusChanged(_, _ domain.OrderStatus) {}
func (noopRecorder) OrderFailed(_ string, _ error)         {}

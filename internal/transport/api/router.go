package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fsdevblog/groph-market/internal/domain"
	"github.com/fsdevblog/groph-market/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	DefaultServiceTimeout = 3 * time.Second
)

const (
	RouteGroup             = "/api"
	RegisterRoute          = "/user/register"
	LoginRoute             = "/user/login"
	MeRoute                = "/user/me"
	UsersRoute             = "/users"
	BalanceRoute           = "/user/balance"
	BalanceTopUpRoute      = "/user/balance/topup"
	BalanceHistoryRoute    = "/user/balance/history"
	ProductsRoute          = "/products"
	ProductRoute           = "/products/:id"
	ProductStockRoute      = "/products/:id/stock"
	VouchersRoute          = "/vouchers"
	VoucherRoute           = "/vouchers/:id"
	VoucherDeactivateRoute = "/vouchers/:id/deactivate"
	OrdersRoute            = "/orders"
	OrderPreviewRoute      = "/orders/preview"
	OrderRoute             = "/orders/:id"
	OrderStatusRoute       = "/orders/:id/status"
	CartRoute              = "/cart"
	CartItemsRoute         = "/cart/items"
	CartItemRoute          = "/cart/items/:id"
	CartCheckoutRoute      = "/cart/checkout"
	CategoriesRoute        = "/categories"
	CategoryRoute          = "/categories/:id"
	ProductCategoriesRoute = "/products/:id/categories"
	ProductCategoryRoute   = "/products/:id/categories/:category_id"
	FeedbackRoute          = "/feedback"
	FeedbackItemRoute      = "/feedback/:id"
	ProductFeedbackRoute   = "/products/:id/feedback"
	UserFeedbackRoute      = "/user/feedback"
	WishlistRoute          = "/wishlist"
	WishlistItemRoute      = "/wishlist/:id"

	MetricsRoute = "/metrics"
	HealthRoute  = "/healthz"
)

type RouterArgs struct {
	Logger          *logrus.Logger
	UserService     UserServicer
	OrderService    OrderServicer
	ProductService  ProductServicer
	VoucherService  VoucherServicer
	BlService       BalanceServicer
	CartService     CartServicer
	CategoryService CategoryServicer
	FeedbackService FeedbackServicer
	WishlistService WishlistServicer
	JWTSecretKey    []byte
	// Metrics, MetricsHandler и HealthCheck необязательны.
	Metrics        middlewares.HTTPObserver
	MetricsHandler http.Handler
	HealthCheck    func(ctx context.Context) error
}

func New(args RouterArgs) (*gin.Engine, error) {
	if err := registerValidators(); err != nil {
		return nil, fmt.Errorf("router: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	if args.Metrics != nil {
		r.Use(middlewares.Metrics(args.Metrics))
	}
	r.Use(middlewares.Errors())

	if args.MetricsHandler != nil {
		r.GET(MetricsRoute, gin.WrapH(args.MetricsHandler))
	}
	if args.HealthCheck != nil {
		r.GET(HealthRoute, healthHandler(args.HealthCheck))
	}

	authHandler := NewAuthHandler(args.UserService)
	ordersHandler := NewOrdersHandler(args.OrderService)
	productsHandler := NewProductsHandler(args.ProductService)
	vouchersHandler := NewVouchersHandler(args.VoucherService)
	balanceHandler := NewBalanceHandler(args.BlService)
	cartHandler := NewCartHandler(args.CartService)
	categoriesHandler := NewCategoriesHandler(args.CategoryService)
	feedbackHandler := NewFeedbackHandler(args.FeedbackService)
	wishlistHandler := NewWishlistHandler(args.WishlistService)

	vendorOrAdmin := middlewares.RoleRequired(domain.RoleVendor, domain.RoleAdmin)
	customerOnly := middlewares.RoleRequired(domain.RoleCustomer)

	api := r.Group(RouteGroup)

	api.POST(RegisterRoute, middlewares.NonAuthRequired(args.JWTSecretKey), authHandler.Register)
	api.POST(LoginRoute, middlewares.NonAuthRequired(args.JWTSecretKey), authHandler.Login)

	api.Use(middlewares.AuthRequired(args.JWTSecretKey))
	// ниже все роуты группы требуют авторизованного пользователя.
	api.GET(MeRoute, authHandler.Me)
	api.GET(UsersRoute, middlewares.RoleRequired(domain.RoleAdmin), authHandler.Users)

	api.GET(BalanceRoute, balanceHandler.Balance)
	api.POST(BalanceTopUpRoute, balanceHandler.TopUp)
	api.GET(BalanceHistoryRoute, balanceHandler.History)

	api.GET(ProductsRoute, productsHandler.Index)
	api.GET(ProductRoute, productsHandler.Show)
	api.POST(ProductsRoute, middlewares.RoleRequired(domain.RoleVendor), productsHandler.Create)
	api.PATCH(ProductStockRoute, vendorOrAdmin, productsHandler.UpdateStock)

	api.GET(VouchersRoute, vouchersHandler.Index)
	api.GET(VoucherRoute, vouchersHandler.Show)
	api.POST(VouchersRoute, vendorOrAdmin, vouchersHandler.Create)
	api.PUT(VoucherRoute, vendorOrAdmin, vouchersHandler.Update)
	api.PATCH(VoucherDeactivateRoute, vendorOrAdmin, vouchersHandler.Deactivate)
	api.DELETE(VoucherRoute, vendorOrAdmin, vouchersHandler.Delete)

	api.POST(OrdersRoute, ordersHandler.Create)
	api.POST(OrderPreviewRoute, ordersHandler.Preview)
	api.GET(OrdersRoute, ordersHandler.Index)
	api.GET(OrderRoute, ordersHandler.Show)
	api.PUT(OrderStatusRoute, vendorOrAdmin, ordersHandler.UpdateStatus)
	api.DELETE(OrderRoute, ordersHandler.Delete)

	cart := api.Group("", customerOnly)
	cart.GET(CartRoute, cartHandler.Show)
	cart.DELETE(CartRoute, cartHandler.Clear)
	cart.POST(CartItemsRoute, cartHandler.AddItem)
	cart.PATCH(CartItemRoute, cartHandler.UpdateItem)
	cart.DELETE(CartItemRoute, cartHandler.RemoveItem)
	cart.POST(CartCheckoutRoute, ordersHandler.Checkout)

	api.GET(CategoriesRoute, categoriesHandler.Index)
	api.GET(CategoryRoute, categoriesHandler.Show)
	api.POST(CategoriesRoute, vendorOrAdmin, categoriesHandler.Create)
	api.PUT(CategoryRoute, vendorOrAdmin, categoriesHandler.Update)
	api.DELETE(CategoryRoute, vendorOrAdmin, categoriesHandler.Delete)
	api.GET(ProductCategoriesRoute, categoriesHandler.ProductCategories)
	api.POST(ProductCategoriesRoute, vendorOrAdmin, categoriesHandler.AssignProduct)
	api.DELETE(ProductCategoryRoute, vendorOrAdmin, categoriesHandler.RemoveProduct)

	api.GET(FeedbackRoute, feedbackHandler.Index)
	api.POST(FeedbackRoute, feedbackHandler.Create)
	api.DELETE(FeedbackItemRoute, feedbackHandler.Delete)
	api.GET(ProductFeedbackRoute, feedbackHandler.ByProduct)
	api.GET(UserFeedbackRoute, feedbackHandler.Mine)

	api.GET(WishlistRoute, wishlistHandler.Index)
	api.POST(WishlistRoute, wishlistHandler.Add)
	api.DELETE(WishlistRoute, wishlistHandler.Clear)
	api.DELETE(WishlistItemRoute, wishlistHandler.Remove)
	return r, nil
}

func healthHandler(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
		defer cancel()

		if err := check(ctx); err != nil {
			_ = c.Error(err).SetType(gin.ErrorTypePrivate)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

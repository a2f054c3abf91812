package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/fsdevblog/groph-market/internal/domain"
	"github.com/fsdevblog/groph-market/internal/repository/repoargs"
	"github.com/fsdevblog/groph-market/internal/service"
	"github.com/shopspring/decimal"
)

// UserServicer интерфейс исключительно для моков.
type UserServicer interface {
	Register(ctx context.Context, args service.RegisterUserArgs) (*domain.User, string, error)
	Login(ctx context.Context, args service.LoginUserArgs) (*domain.User, string, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, page repoargs.Pagination) ([]domain.User, error)
}

type OrderServicer interface {
	Create(ctx context.Context, args service.CreateOrderArgs) (*domain.Order, error)
	Preview(ctx context.Context, args service.CreateOrderArgs) (*service.OrderPricing, error)
	Get(ctx context.Context, orderID int64) (*domain.Order, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error)
	GetItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error)
	CreateFromCart(ctx context.Context, userID int64, voucherCode string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, actor domain.Actor, orderID int64, status string) (*domain.Order, error)
	Delete(ctx context.Context, orderID int64) (*domain.Order, error)
}

type ProductServicer interface {
	Create(ctx context.Context, actor domain.Actor, args service.CreateProductArgs) (*domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, page repoargs.Pagination) ([]domain.Product, error)
	UpdateStock(ctx context.Context, actor domain.Actor, productID int64, stock int64) (*domain.Product, error)
}

type VoucherServicer interface {
	Create(ctx context.Context, actor domain.Actor, args service.VoucherArgs) (*domain.Voucher, error)
	Get(ctx context.Context, id int64) (*domain.Voucher, error)
	List(ctx context.Context, page repoargs.Pagination) ([]domain.Voucher, error)
	Update(ctx context.Context, actor domain.Actor, id int64, args service.VoucherArgs) (*domain.Voucher, error)
	Deactivate(ctx context.Context, actor domain.Actor, id int64) (*domain.Voucher, error)
	Delete(ctx context.Context, actor domain.Actor, id int64) error
}

type BalanceServicer interface {
	GetUserBalance(ctx context.Context, userID int64) (*service.UserBalance, error)
	TopUp(ctx context.Context, userID int64, amount decimal.Decimal) (*domain.BalanceTransaction, error)
	History(ctx context.Context, userID int64) ([]domain.BalanceTransaction, error)
}

type CartServicer interface {
	Get(ctx context.Context, userID int64) (*service.CartContents, error)
	AddItem(ctx context.Context, userID, productID, quantity int64) (*domain.CartItem, error)
	UpdateItem(ctx context.Context, userID, itemID, quantity int64) (*domain.CartItem, error)
	RemoveItem(ctx context.Context, userID, itemID int64) error
	Clear(ctx context.Context, userID int64) error
}

type CategoryServicer interface {
	Create(ctx context.Context, actor domain.Actor, args service.CategoryArgs) (*domain.Category, error)
	Get(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context, page repoargs.Pagination) ([]domain.Category, error)
	Update(ctx context.Context, actor domain.Actor, id int64, args service.CategoryArgs) (*domain.Category, error)
	Delete(ctx context.Context, actor domain.Actor, id int64) error
	AssignProduct(ctx context.Context, actor domain.Actor, productID, categoryID int64) error
	RemoveProduct(ctx context.Context, actor domain.Actor, productID, categoryID int64) error
	ProductCategories(ctx context.Context, productID int64) ([]domain.Category, error)
}

type FeedbackServicer interface {
	Create(ctx context.Context, userID int64, args service.CreateFeedbackArgs) (*domain.Feedback, error)
	List(ctx context.Context, page repoargs.Pagination) ([]domain.Feedback, error)
	ListByProduct(ctx context.Context, productID int64) ([]domain.Feedback, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Feedback, error)
	Delete(ctx context.Context, actor domain.Actor, id int64) error
}

type WishlistServicer interface {
	List(ctx context.Context, userID int64) ([]domain.WishlistItem, error)
	Add(ctx context.Context, userID, productID int64) (*domain.WishlistItem, error)
	Remove(ctx context.Context, userID, productID int64) error
	Clear(ctx context.Context, userID int64) error
}

package service

import (
	"context"

	"github.com/fsdevblog/groph-market/internal/domain"
	"github.com/fsdevblog/groph-market/internal/repository/repoargs"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type PasswordHasher interface {
	HashPassword(password string) (string, error)
	ComparePassword(password string, hashedPassword string) bool
}

// OrderRecorder принимает события жизненного цикла заказов для метрик.
type OrderRecorder interface {
	OrderCreated()
	StatusChanged(from, to domain.OrderStatus)
	OrderFailed(operation string, err error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user repoargs.CreateUser) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, page repoargs.Pagination) ([]domain.User, error)
}

type ProductRepository interface {
	Create(ctx context.Context, args repoargs.CreateProduct) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Product, error)
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Product, error)
	List(ctx context.Context, page repoargs.Pagination) ([]domain.Product, error)
	UpdateStock(ctx context.Context, id int64, stock int64) (*domain.Product, error)
	DecrementStock(ctx context.Context, id int64, quantity int64) (*domain.Product, error)
}

type VoucherRepository interface {
	Create(ctx context.Context, args repoargs.CreateVoucher) (*domain.Voucher, error)
	GetByID(ctx context.Context, id int64) (*domain.Voucher, error)
	FindByCode(ctx context.Context, code string) (*domain.Voucher, error)
	List(ctx context.Context, page repoargs.Pagination) ([]domain.Voucher, error)
	Update(ctx context.Context, id int64, args repoargs.UpdateVoucher) (*domain.Voucher, error)
	Deactivate(ctx context.Context, id int64) (*domain.Voucher, error)
	Delete(ctx context.Context, id int64) error
	IsUsedInOrders(ctx context.Context, id int64) (bool, error)
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, args repoargs.CreateOrder) (*domain.Order, error)
	CreateOrderItems(ctx context.Context, items []repoargs.CreateOrderItem) ([]domain.OrderItem, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Order, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error)
	GetItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error)
	DeleteItems(ctx context.Context, orderID int64) error
	Delete(ctx context.Context, id int64) (*domain.Order, error)
}

type BalanceTransactionRepository interface {
	Create(ctx context.Context, transaction repoargs.BalanceTransactionCreate) (*domain.BalanceTransaction, error)
	GetUserBalance(ctx context.Context, userID int64) (*repoargs.BalanceAggregation, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.BalanceTransaction, error)
}

type CartRepository interface {
	GetOrCreate(ctx context.Context, userID int64) (*domain.Cart, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Cart, error)
	AddItem(ctx context.Context, cartID, productID, quantity int64) (*domain.CartItem, error)
	GetItems(ctx context.Context, cartID int64) ([]domain.CartItem, error)
	GetItem(ctx context.Context, id int64) (*domain.CartItem, error)
	UpdateItemQuantity(ctx context.Context, id, quantity int64) (*domain.CartItem, error)
	DeleteItem(ctx context.Context, id int64) error
	Clear(ctx context.Context, cartID int64) error
}

type CategoryRepository interface {
	Create(ctx context.Context, args repoargs.CreateCategory) (*domain.Category, error)
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context, page repoargs.Pagination) ([]domain.Category, error)
	Update(ctx context.Context, id int64, args repoargs.UpdateCategory) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
	AssignProduct(ctx context.Context, productID, categoryID int64) error
	UnassignProduct(ctx context.Context, productID, categoryID int64) error
	GetByProductID(ctx context.Context, productID int64) ([]domain.Category, error)
}

type FeedbackRepository interface {
	Create(ctx context.Context, args repoargs.CreateFeedback) (*domain.Feedback, error)
	GetByID(ctx context.Context, id int64) (*domain.Feedback, error)
	List(ctx context.Context, page repoargs.Pagination) ([]domain.Feedback, error)
	ListByProduct(ctx context.Context, productID int64) ([]domain.Feedback, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Feedback, error)
	Delete(ctx context.Context, id int64) error
	HasPurchased(ctx context.Context, userID, productID int64) (bool, error)
}

type WishlistRepository interface {
	Add(ctx context.Context, args repoargs.AddWishlistItem) (*domain.WishlistItem, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.WishlistItem, error)
	Remove(ctx context.Context, userID, productID int64) error
	Clear(ctx context.Context, userID int64) error
}

package service

import (
	"fmt"
	"time"

	"github.com/fsdevblog/groph-market/internal/service/psswd"
	"github.com/fsdevblog/groph-market/pkg/uow"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type AppServices struct {
	UserService     *UserService
	OrderService    *OrderService
	ProductService  *ProductService
	VoucherService  *VoucherService
	BlService       *BalanceTransactionService
	CartService     *CartService
	CategoryService *CategoryService
	FeedbackService *FeedbackService
	WishlistService *WishlistService
}

type FactoryArgs struct {
	JWTSecret      []byte
	JWTTokenExpire time.Duration
	MaxTopUpAmount decimal.Decimal
	OrderRecorder  OrderRecorder
	Logger         *logrus.Logger
}

func Factory(unitOfWork uow.UOW, args FactoryArgs) (*AppServices, error) {
	userService, userServiceErr := NewUserService(unitOfWork, args.JWTSecret, psswd.New(bcrypt.DefaultCost))
	if userServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", userServiceErr.Error())
	}
	userService.SetTokenExpire(args.JWTTokenExpire)

	orderService, orderServiceErr := NewOrderService(unitOfWork, args.Logger)
	if orderServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", orderServiceErr.Error())
	}
	orderService.SetRecorder(args.OrderRecorder)

	productService, productServiceErr := NewProductService(unitOfWork)
	if productServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", productServiceErr.Error())
	}

	voucherService, voucherServiceErr := NewVoucherService(unitOfWork)
	if voucherServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", voucherServiceErr.Error())
	}

	blService, blServiceErr := NewBalanceTransactionService(unitOfWork, args.MaxTopUpAmount)
	if blServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", blServiceErr.Error())
	}

	cartService, cartServiceErr := NewCartService(unitOfWork)
	if cartServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", cartServiceErr.Error())
	}

	categoryService, categoryServiceErr := NewCategoryService(unitOfWork)
	if categoryServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", categoryServiceErr.Error())
	}

	feedbackService, feedbackServiceErr := NewFeedbackService(unitOfWork)
	if feedbackServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", feedbackServiceErr.Error())
	}

	wishlistService, wishlistServiceErr := NewWishlistService(unitOfWork)
	if wishlistServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", wishlistServiceErr.Error())
	}

	return &AppServices{
		UserService:     userService,
		OrderService:    orderService,
		ProductService:  productService,
		VoucherService:  voucherService,
		BlService:       blService,
		CartService:     cartService,
		CategoryService: categoryService,
		FeedbackService: feedbackService,
		WishlistService: wishlistService,
	}, nil
}

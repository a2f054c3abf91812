package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsdevblog/groph-market/internal/config"
	"github.com/fsdevblog/groph-market/internal/metrics"
	"github.com/fsdevblog/groph-market/internal/repository/pgrepo"
	"github.com/fsdevblog/groph-market/internal/repository/repoargs"
	"github.com/fsdevblog/groph-market/internal/service"
	"github.com/fsdevblog/groph-market/internal/transport/api"
	"github.com/fsdevblog/groph-market/pkg/uow"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	// driver for migration applying postgres.
	_ "github.com/golang-migrate/migrate/v4/database/postgres" //nolint:revive
	// driver to get migrations from files (*.sql in our case).
	_ "github.com/golang-migrate/migrate/v4/source/file" //nolint:revive
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
)

type App struct {
	Config *config.Config
	Logger *logrus.Logger
}

func New(conf *config.Config, l *logrus.Logger) *App {
	return &App{
		Config: conf,
		Logger: l,
	}
}

// Run поднимает приложение и блокируется до сигнала SIGINT/SIGTERM или ошибки http сервера.
// При сигнале сервер останавливается, дожидаясь завершения текущих запросов, и возвращается context.Canceled.
func (a *App) Run() error {
	notifyCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.Logger.Infof("Starting app with config: %s", a.Config)
	conn, connErr := pgrepo.Connect(notifyCtx, pgrepo.ConnectArgs{
		DSN:           a.Config.DatabaseDSN,
		MigrationsDir: a.Config.MigrationsDir,
	}, a.Logger)
	if connErr != nil {
		return fmt.Errorf("app run: %w", connErr)
	}
	defer conn.Close()

	unitOfWork, uowErr := initUOW(conn)
	if uowErr != nil {
		return fmt.Errorf("app run: %s", uowErr.Error())
	}

	appMetrics := metrics.New()

	services, sErr := service.Factory(unitOfWork, service.FactoryArgs{
		JWTSecret:      []byte(a.Config.JWTUserSecret),
		JWTTokenExpire: a.Config.JWTTokenTTL,
		MaxTopUpAmount: a.Config.MaxTopUpAmount,
		OrderRecorder:  appMetrics,
		Logger:         a.Logger,
	})
	if sErr != nil {
		return fmt.Errorf("app run: %s", sErr.Error())
	}

	if a.Logger.IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router, rErr := api.New(api.RouterArgs{
		Logger:          a.Logger,
		UserService:     services.UserService,
		OrderService:    services.OrderService,
		ProductService:  services.ProductService,
		VoucherService:  services.VoucherService,
		BlService:       services.BlService,
		CartService:     services.CartService,
		CategoryService: services.CategoryService,
		FeedbackService: services.FeedbackService,
		WishlistService: services.WishlistService,
		JWTSecretKey:    []byte(a.Config.JWTUserSecret),
		Metrics:         appMetrics,
		MetricsHandler:  appMetrics.Handler(),
		HealthCheck:     conn.Ping,
	})
	if rErr != nil {
		return fmt.Errorf("app run: %w", rErr)
	}

	srv := &http.Server{
		Addr:              a.Config.RunAddress,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gCtx := errgroup.WithContext(notifyCtx)
	g.Go(func() error {
		a.Logger.Infof("listening on %s", a.Config.RunAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err //nolint:wrapcheck
	}
	return notifyCtx.Err() //nolint:wrapcheck
}

func initUOW(conn uow.Pool) (*uow.UnitOfWork, error) {
	// остатки и статусы заказов защищены блокировками строк (FOR UPDATE), их хватает на read committed.
	unitOfWork := uow.NewUnitOfWork(conn).SetTxOptions(pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})

	factories := []struct {
		name    repoargs.RepositoryName
		factory uow.RepositoryFactory
	}{
		{
			name:    repoargs.UserRepoName,
			factory: func(dbtx uow.DBTX) uow.Repository { return pgrepo.NewUserRepository(dbtx) },
		},
		{
			name:    repoargs.ProductRepoName,
			factory: func(dbtx uow.DBTX) uow.Repository { return pgrepo.NewProductRepository(dbtx) },
		},
		{
			name:    repoargs.VoucherRepoName,
			factory: func(dbtx uow.DBTX) uow.Repository { return pgrepo.NewVoucherRepository(dbtx) },
		},
		{
			name:    repoargs.OrderRepoName,
			factory: func(dbtx uow.DBTX) uow.Repository { return pgrepo.NewOrderRepository(dbtx) },
		},
		{
			name:    repoargs.BalanceTransactionRepoName,
			factory: func(dbtx uow.DBTX) uow.Repository { return pgrepo.NewBalanceTransactionRepository(dbtx) },
		},
		{
			name:    repoargs.CartRepoName,
			factory: func(dbtx uow.DBTX) uow.Repository { return pgrepo.NewCartRepository(dbtx) },
		},
		{
			name:    repoargs.CategoryRepoName,
			factory: func(dbtx uow.DBTX) uow.Repository { return pgrepo.NewCategoryRepository(dbtx) },
		},
		{
			name:    repoargs.FeedbackRepoName,
			factory: func(dbtx uow.DBTX) uow.Repository { return pgrepo.NewFeedbackRepository(dbtx) },
		},
		{
			name:    repoargs.WishlistRepoName,
			factory: func(dbtx uow.DBTX) uow.Repository { return pgrepo.NewWishlistRepository(dbtx) },
		},
	}

	for _, f := range factories {
		if regErr := unitOfWork.Register(uow.RepositoryName(f.name), f.factory); regErr != nil {
			return nil, fmt.Errorf("init UOW: %s", regErr.Error())
		}
	}
	return unitOfWork, nil
}

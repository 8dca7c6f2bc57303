package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/angelmondragon/scootershop-backend/api/routes"
	"github.com/angelmondragon/scootershop-backend/internal/auth"
	"github.com/angelmondragon/scootershop-backend/internal/checkout"
	"github.com/angelmondragon/scootershop-backend/internal/orders"
	productsvc "github.com/angelmondragon/scootershop-backend/internal/products"
	"github.com/angelmondragon/scootershop-backend/internal/siteconfig"
	"github.com/angelmondragon/scootershop-backend/internal/uploads"
	"github.com/angelmondragon/scootershop-backend/internal/users"
	"github.com/angelmondragon/scootershop-backend/pkg/auth/session"
	"github.com/angelmondragon/scootershop-backend/pkg/config"
	"github.com/angelmondragon/scootershop-backend/pkg/db"
	"github.com/angelmondragon/scootershop-backend/pkg/logger"
	"github.com/angelmondragon/scootershop-backend/pkg/metrics"
	"github.com/angelmondragon/scootershop-backend/pkg/migrate"
	"github.com/angelmondragon/scootershop-backend/pkg/payments"
	"github.com/angelmondragon/scootershop-backend/pkg/payments/mercadopago"
	"github.com/angelmondragon/scootershop-backend/pkg/payments/midtrans"
	"github.com/angelmondragon/scootershop-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeRun(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() {
			err = multierr.Append(err, redisClient.Close())
		}()
	} else {
		logg.Warn(ctx, "redis not configured, auth rate limiting and checkout idempotency disabled")
	}

	sessionManager, err := session.NewManager(session.NewRepository(dbClient.DB()), cfg.Session)
	if err != nil {
		return err
	}

	store, err := uploads.NewStore(cfg.Uploads)
	if err != nil {
		return err
	}

	provider, err := newPaymentProvider(ctx, cfg.Payments, logg)
	if err != nil {
		return err
	}

	userRepo := users.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())

	svcs, err := buildServices(cfg, logg, serviceDeps{
		users:    userRepo,
		orders:   ordersRepo,
		sessions: sessionManager,
		store:    store,
		provider: provider,
		client:   dbClient,
	})
	if err != nil {
		return err
	}

	handler := routes.NewRouter(cfg, logg, routes.Dependencies{
		DB:             dbClient,
		Redis:          redisClient,
		Sessions:       sessionManager,
		HTTPMetrics:    metrics.NewHTTPMetrics(prometheus.DefaultRegisterer),
		MetricsHandler: promhttp.Handler(),
	}, svcs)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"provider": provider.Name(),
		"db":       cfg.DB.Driver,
	})
	logg.Info(logCtx, "starting api server")

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

type serviceDeps struct {
	users    *users.Repository
	orders   orders.Repository
	sessions *session.Manager
	store    *uploads.Store
	provider payments.Provider
	client   *db.Client
}

func buildServices(cfg *config.Config, logg *logger.Logger, deps serviceDeps) (routes.Services, error) {
	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       deps.users,
		SessionManager: deps.sessions,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return routes.Services{}, err
	}

	productService, err := productsvc.NewService(productsvc.ServiceParams{
		Repo:    productsvc.NewRepository(deps.client.DB()),
		Uploads: deps.store,
		Logger:  logg,
	})
	if err != nil {
		return routes.Services{}, err
	}

	usersService, err := users.NewService(deps.users)
	if err != nil {
		return routes.Services{}, err
	}

	siteConfigService, err := siteconfig.NewService(siteconfig.NewRepository(deps.client.DB()), deps.store, logg)
	if err != nil {
		return routes.Services{}, err
	}

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Sessions: deps.sessions,
		Provider: deps.provider,
		Orders:   deps.orders,
		Logger:   logg,
		Metrics:  metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer),
		Payments: cfg.Payments,
		Checkout: cfg.Checkout,
	})
	if err != nil {
		return routes.Services{}, err
	}

	ordersService, err := orders.NewService(deps.orders, time.Local)
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Auth:       authService,
		Products:   productService,
		Users:      usersService,
		SiteConfig: siteConfigService,
		Checkout:   checkoutService,
		Orders:     ordersService,
	}, nil
}

func newPaymentProvider(ctx context.Context, cfg config.PaymentsConfig, logg *logger.Logger) (payments.Provider, error) {
	switch cfg.NormalizedProvider() {
	case config.PaymentsProviderMidtrans:
		client, err := midtrans.NewClient(ctx, cfg, logg)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		client, err := mercadopago.NewClient(ctx, cfg, logg)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

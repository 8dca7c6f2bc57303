package routes

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/scootershop-backend/api/controllers"
	"github.com/angelmondragon/scootershop-backend/api/middleware"
	"github.com/angelmondragon/scootershop-backend/api/responses"
	"github.com/angelmondragon/scootershop-backend/internal/auth"
	checkoutsvc "github.com/angelmondragon/scootershop-backend/internal/checkout"
	"github.com/angelmondragon/scootershop-backend/internal/orders"
	productsvc "github.com/angelmondragon/scootershop-backend/internal/products"
	"github.com/angelmondragon/scootershop-backend/internal/siteconfig"
	"github.com/angelmondragon/scootershop-backend/internal/uploads"
	"github.com/angelmondragon/scootershop-backend/internal/users"
	"github.com/angelmondragon/scootershop-backend/pkg/auth/session"
	"github.com/angelmondragon/scootershop-backend/pkg/config"
	"github.com/angelmondragon/scootershop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/scootershop-backend/pkg/errors"
	"github.com/angelmondragon/scootershop-backend/pkg/logger"
	"github.com/angelmondragon/scootershop-backend/pkg/metrics"
	"github.com/angelmondragon/scootershop-backend/pkg/redis"
)

// Services groups the domain services mounted under /api.
type Services struct {
	Auth       auth.Service
	Products   productsvc.Service
	Users      users.Service
	SiteConfig siteconfig.Service
	Checkout   checkoutsvc.Service
	Orders     orders.Service
}

// Dependencies are the infrastructure handles the router needs. Redis is optional:
// without it auth rate limiting and checkout idempotency are disabled.
type Dependencies struct {
	DB             controllers.Pinger
	Redis          *redis.Client
	Sessions       session.Resolver
	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies, svcs Services) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.AllowedOrigins()),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.Session(deps.Sessions, logg),
	)

	readiness := []controllers.ReadinessCheck{{Name: "db", Pinger: deps.DB}}
	if deps.Redis != nil {
		readiness = append(readiness, controllers.ReadinessCheck{Name: "redis", Pinger: deps.Redis})
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness...))
	})

	if cfg.Metrics.Enabled && deps.MetricsHandler != nil {
		r.Handle(metricsPath(cfg.Metrics.Path), deps.MetricsHandler)
	}

	rateLimit := func(policy middleware.AuthRateLimitPolicy) func(http.Handler) http.Handler {
		if deps.Redis == nil {
			return middleware.AuthRateLimit(policy, nil, logg)
		}
		return middleware.AuthRateLimit(policy, deps.Redis, logg)
	}
	idempotency := middleware.Idempotency(nil, cfg.Checkout.IdempotencyTTL, logg)
	if deps.Redis != nil {
		idempotency = middleware.Idempotency(deps.Redis, cfg.Checkout.IdempotencyTTL, logg)
	}

	admin := func(r chi.Router) chi.Router {
		if cfg.FeatureFlags.AdminAuth {
			return r.With(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
		}
		return r
	}

	maxUpload := cfg.Uploads.MaxBytes

	r.Route("/api", func(r chi.Router) {
		r.NotFound(func(w http.ResponseWriter, req *http.Request) {
			responses.WriteError(req.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
		})

		r.With(rateLimit(middleware.RegisterPolicy(cfg.AuthRateLimit))).Post("/register", controllers.AuthRegister(svcs.Auth, logg))
		r.With(rateLimit(middleware.LoginPolicy(cfg.AuthRateLimit))).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(svcs.Auth, logg))

		r.Get("/produtos", controllers.ProductsList(svcs.Products, logg))
		admin(r).Post("/produtos", controllers.ProductsCreate(svcs.Products, maxUpload, logg))
		admin(r).Delete("/produtos/{id}", controllers.ProductsDelete(svcs.Products, logg))

		admin(r).Get("/users", controllers.UsersList(svcs.Users, logg))
		admin(r).Put("/users/{id}/role", controllers.UsersSetRole(svcs.Users, logg))
		admin(r).Delete("/users/{id}", controllers.UsersDelete(svcs.Users, logg))

		r.Get("/config/banner", controllers.BannerGet(svcs.SiteConfig, logg))
		admin(r).Post("/config/banner", controllers.BannerSet(svcs.SiteConfig, maxUpload, logg))

		r.With(idempotency).Post("/checkout", controllers.Checkout(svcs.Checkout, logg))
		admin(r).Get("/pedidos", controllers.OrdersList(svcs.Orders, logg))
	})

	if dir := strings.TrimSpace(cfg.Uploads.Dir); dir != "" {
		r.Handle(uploads.PublicPrefix+"*", http.StripPrefix(uploads.PublicPrefix, http.FileServer(http.Dir(dir))))
	}
	if dir := strings.TrimSpace(cfg.App.PublicDir); dir != "" {
		r.Handle("/*", http.FileServer(http.Dir(dir)))
	}

	return r
}

func metricsPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return "/metrics"
	}
	if !strings.HasPrefix(path, "/") {
		return "/" + path
	}
	return path
}

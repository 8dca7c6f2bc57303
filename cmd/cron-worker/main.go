package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/angelmondragon/scootershop-backend/internal/cron"
	productsvc "github.com/angelmondragon/scootershop-backend/internal/products"
	"github.com/angelmondragon/scootershop-backend/internal/siteconfig"
	"github.com/angelmondragon/scootershop-backend/internal/uploads"
	"github.com/angelmondragon/scootershop-backend/pkg/auth/session"
	"github.com/angelmondragon/scootershop-backend/pkg/config"
	"github.com/angelmondragon/scootershop-backend/pkg/db"
	"github.com/angelmondragon/scootershop-backend/pkg/logger"
	"github.com/angelmondragon/scootershop-backend/pkg/metrics"
	"github.com/angelmondragon/scootershop-backend/pkg/migrate"
	"github.com/angelmondragon/scootershop-backend/pkg/redis"
)

const (
	lockName       = "cron-worker"
	defaultLockTTL = 30 * time.Minute
)

func main() {
	once := flag.Bool("once", false, "run a single cycle and exit")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	if err := run(cfg, logg, *once); err != nil {
		logg.Error(context.Background(), "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger, once bool) (err error) {
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

	var lock cron.Lock = cron.NewLocalLock()
	if cfg.Redis.Enabled() {
		var redisClient *redis.Client
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() {
			err = multierr.Append(err, redisClient.Close())
		}()
		var redisLock *cron.RedisLock
		redisLock, err = cron.NewRedisLock(redisClient, redisClient.LockKey(lockKey(cfg.App.Env)), lockTTL(cfg.Session))
		if err != nil {
			return err
		}
		lock = redisLock
	} else {
		logg.Warn(ctx, "redis not configured, using in-process cron lock")
	}

	sessionManager, err := session.NewManager(session.NewRepository(dbClient.DB()), cfg.Session)
	if err != nil {
		return err
	}
	store, err := uploads.NewStore(cfg.Uploads)
	if err != nil {
		return err
	}

	sessionJob, err := cron.NewSessionCleanupJob(cron.SessionCleanupJobParams{
		Logger:   logg,
		Sessions: sessionManager,
	})
	if err != nil {
		return err
	}
	uploadJob, err := cron.NewUploadCleanupJob(cron.UploadCleanupJobParams{
		Logger: logg,
		Store:  store,
		Sources: []cron.ReferenceSource{
			productsvc.NewRepository(dbClient.DB()),
			siteconfig.NewRepository(dbClient.DB()),
		},
	})
	if err != nil {
		return err
	}

	registry := cron.NewRegistry()
	for _, job := range []cron.Job{sessionJob, uploadJob} {
		if err := registry.Register(job); err != nil {
			return err
		}
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Session.CleanupInterval,
	})
	if err != nil {
		return err
	}

	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})

	if once {
		report, err := service.RunOnce(ctx)
		if err != nil {
			return err
		}
		if len(report.Failed) > 0 {
			return fmt.Errorf("cron jobs failed: %v", report.Failed)
		}
		return nil
	}

	logg.Info(ctx, "starting cron worker")
	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logg.Info(ctx, "cron worker shutting down gracefully")
	return nil
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return lockName + ":" + env
}

// lockTTL is half the cycle interval.
func lockTTL(cfg config.SessionConfig) time.Duration {
	if cfg.CleanupInterval <= 0 {
		return defaultLockTTL
	}
	return cfg.CleanupInterval / 2
}

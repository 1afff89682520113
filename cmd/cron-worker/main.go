package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/levelup-gaming/levelup-backend/internal/cart"
	"github.com/levelup-gaming/levelup-backend/internal/cron"
	"github.com/levelup-gaming/levelup-backend/internal/loyalty"
	"github.com/levelup-gaming/levelup-backend/internal/products"
	"github.com/levelup-gaming/levelup-backend/internal/users"
	"github.com/levelup-gaming/levelup-backend/pkg/config"
	"github.com/levelup-gaming/levelup-backend/pkg/db"
	"github.com/levelup-gaming/levelup-backend/pkg/logger"
	"github.com/levelup-gaming/levelup-backend/pkg/metrics"
	"github.com/levelup-gaming/levelup-backend/pkg/migrate"
	"github.com/levelup-gaming/levelup-backend/pkg/redis"
)

const lockKeyFormat = "levelup:cron-worker:lock:%s:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	conn := dbClient.DB()
	userRepo := users.NewRepository(conn)
	productRepo := products.NewRepository(conn)

	loyaltyService, err := loyalty.NewService(loyalty.NewRepository(conn))
	if err != nil {
		logg.Error(context.Background(), "failed to create loyalty service", err)
		os.Exit(1)
	}
	cartService, err := cart.NewService(cart.NewRepository(conn), productRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}
	userService, err := users.NewService(userRepo, users.NewAddressRepository(conn), users.NewCardRepository(conn), loyaltyService, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	jobMetrics := metrics.NewJobMetrics(prometheus.DefaultRegisterer)

	cartExpiryJob, err := cron.NewCartExpiryJob(cron.CartExpiryJobParams{
		Logger: logg,
		Carts:  cartService,
		TTL:    cfg.Cron.CartTTL,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart expiry job", err)
		os.Exit(1)
	}

	loyaltyAuditJob, err := cron.NewLoyaltyAuditJob(cron.LoyaltyAuditJobParams{
		Logger: logg,
		Users:  userRepo,
		Audit:  userService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create loyalty audit job", err)
		os.Exit(1)
	}

	// One service per cadence; each holds its own lock so a slow sweep
	// on one schedule never blocks the other.
	cartExpiryService, err := buildService(cfg, logg, redisClient, jobMetrics, "cart-expiry", cfg.Cron.CartExpiryInterval, cartExpiryJob)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart expiry schedule", err)
		os.Exit(1)
	}
	loyaltyAuditService, err := buildService(cfg, logg, redisClient, jobMetrics, "loyalty-audit", cfg.Cron.LoyaltyAuditInterval, loyaltyAuditJob)
	if err != nil {
		logg.Error(context.Background(), "failed to create loyalty audit schedule", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithField(ctx, "env", cfg.App.Env)
	logg.Info(ctx, "starting cron worker")

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs error
	)
	for _, svc := range []*cron.Service{cartExpiryService, loyaltyAuditService} {
		wg.Add(1)
		go func(svc *cron.Service) {
			defer wg.Done()
			if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
			}
		}(svc)
	}
	wg.Wait()

	if errs != nil {
		logg.Error(ctx, "cron worker stopped unexpectedly", errs)
		os.Exit(1)
	}
	logg.Info(ctx, "cron worker shutting down gracefully")
}

func buildService(cfg *config.Config, logg *logger.Logger, redisClient *redis.Client, jobMetrics *metrics.JobMetrics, name string, interval time.Duration, job cron.Job) (*cron.Service, error) {
	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env, name), 0)
	if err != nil {
		return nil, err
	}
	return cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(job),
		Lock:     lock,
		Metrics:  jobMetrics,
		Interval: interval,
	})
}

func lockKey(env, schedule string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env, schedule)
}

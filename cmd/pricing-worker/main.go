package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/catalog-pricing/internal/cron"
	"github.com/angelmondragon/catalog-pricing/internal/discounts"
	"github.com/angelmondragon/catalog-pricing/internal/pricing"
	"github.com/angelmondragon/catalog-pricing/pkg/config"
	"github.com/angelmondragon/catalog-pricing/pkg/db"
	"github.com/angelmondragon/catalog-pricing/pkg/instance"
	"github.com/angelmondragon/catalog-pricing/pkg/logger"
	"github.com/angelmondragon/catalog-pricing/pkg/metrics"
	"github.com/angelmondragon/catalog-pricing/pkg/migrate"
	"github.com/angelmondragon/catalog-pricing/pkg/redis"
)

const serviceName = "pricing-worker"

func main() {
	once := flag.Bool("once", false, "run the recompute job a single time and exit")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: serviceName})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = serviceName

	logg = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	pricingService, err := pricing.NewService(pricing.ServiceParams{
		Repository: pricing.NewRepository(dbClient.DB()),
		Discounts:  discounts.NewRepository(dbClient.DB()),
		Logger:     logg,
		Metrics:    metrics.NewPricingMetrics(prometheus.DefaultRegisterer),
		BatchSize:  cfg.Pricing.BatchSize,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing service", err)
		os.Exit(1)
	}

	recomputeJob, err := cron.NewRecomputeJob(cron.RecomputeJobParams{
		Logger:  logg,
		Service: pricingService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create recompute job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(cron.RecomputeJobName), cfg.Pricing.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create worker lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(recomputeJob),
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Pricing.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create worker service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
		"instance":    instance.ID(),
		"interval":    cfg.Pricing.Interval.String(),
		"batch_size":  cfg.Pricing.BatchSize,
	})

	if *once {
		logg.Info(ctx, "running single discounted price recompute")
		if err := service.RunOnce(ctx); err != nil {
			logg.Error(ctx, "recompute failed", err)
			os.Exit(1)
		}
		return
	}

	logg.Info(ctx, "starting pricing worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "pricing worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "pricing worker shutting down gracefully")
}

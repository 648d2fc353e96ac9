package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/angelmondragon/catalog-pricing/internal/discounts"
	"github.com/angelmondragon/catalog-pricing/internal/pricing"
	"github.com/angelmondragon/catalog-pricing/pkg/config"
	"github.com/angelmondragon/catalog-pricing/pkg/db"
	"github.com/angelmondragon/catalog-pricing/pkg/logger"
	"github.com/angelmondragon/catalog-pricing/pkg/metrics"
	"github.com/angelmondragon/catalog-pricing/pkg/migrate"
)

const serviceName = "pricing-cli"

// runtime carries what every subcommand needs once the environment is loaded.
type runtime struct {
	cfg  *config.Config
	logg *logger.Logger
}

// serviceFactory opens the pricing service; the returned func releases its resources.
type serviceFactory func(ctx context.Context, rt *runtime) (pricing.Service, func(), error)

func newRootCmd(factory serviceFactory) *cobra.Command {
	rt := &runtime{}
	root := &cobra.Command{
		Use:           "pricing",
		Short:         "Recompute denormalized discounted product prices",
		Long:          "One-shot entry points for refreshing the discounted price stored on product channel listings.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.load(cmd.ErrOrStderr())
		},
	}

	root.AddCommand(
		newProductCmd(rt, factory),
		newProductsCmd(rt, factory),
		newCataloguesCmd(rt, factory),
		newDiscountCmd(rt, factory),
		newTokenCmd(rt),
	)
	return root
}

func (rt *runtime) load(logOut io.Writer) error {
	logg := logger.New(logger.Options{ServiceName: serviceName, Output: logOut})
	if err := godotenv.Load(); err != nil {
		logg.Debug(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.Service.Kind = serviceName

	rt.cfg = cfg
	rt.logg = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Output:      logOut,
	})
	return nil
}

func openService(ctx context.Context, rt *runtime) (pricing.Service, func(), error) {
	dbClient, err := db.New(ctx, rt.cfg.DB, rt.logg)
	if err != nil {
		return nil, nil, fmt.Errorf("bootstrap database: %w", err)
	}
	closeDB := func() {
		if err := dbClient.Close(); err != nil {
			rt.logg.Error(context.Background(), "error closing database", err)
		}
	}

	if err := migrate.MaybeRunDev(ctx, rt.cfg, rt.logg, dbClient); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("run dev migrations: %w", err)
	}

	svc, err := pricing.NewService(pricing.ServiceParams{
		Repository: pricing.NewRepository(dbClient.DB()),
		Discounts:  discounts.NewRepository(dbClient.DB()),
		Logger:     rt.logg,
		Metrics:    metrics.NewPricingMetrics(nil),
		BatchSize:  rt.cfg.Pricing.BatchSize,
	})
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	return svc, closeDB, nil
}

func withService(cmd *cobra.Command, rt *runtime, factory serviceFactory, fn func(context.Context, pricing.Service) (pricing.RunStats, error)) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc, release, err := factory(ctx, rt)
	if err != nil {
		return err
	}
	defer release()

	stats, err := fn(ctx, svc)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), stats)
}

func printJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

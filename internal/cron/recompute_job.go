package cron

import (
	"context"
	"fmt"

	"github.com/angelmondragon/catalog-pricing/internal/pricing"
	"github.com/angelmondragon/catalog-pricing/pkg/logger"
)

// RecomputeJobName identifies the full-catalogue discounted price job.
const RecomputeJobName = "recompute_discounted_prices"

type RecomputeJobParams struct {
	Logger  *logger.Logger
	Service productsUpdater
}

type productsUpdater interface {
	UpdateProducts(ctx context.Context, set pricing.ProductSet, opts ...pricing.Option) (pricing.RunStats, error)
}

// NewRecomputeJob builds the job that refreshes every product's discounted prices.
func NewRecomputeJob(params RecomputeJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Service == nil {
		return nil, fmt.Errorf("pricing service required")
	}
	return &recomputeJob{
		logg:    params.Logger,
		service: params.Service,
	}, nil
}

type recomputeJob struct {
	logg    *logger.Logger
	service productsUpdater
}

func (j *recomputeJob) Name() string { return RecomputeJobName }

func (j *recomputeJob) Run(ctx context.Context) error {
	stats, err := j.service.UpdateProducts(ctx, pricing.AllProducts())
	if err != nil {
		return fmt.Errorf("recompute discounted prices: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"batches":          stats.Batches,
		"products":         stats.Products,
		"listings_updated": stats.ListingsUpdated,
		"listings_skipped": stats.ListingsSkipped,
	})
	j.logg.Info(logCtx, "discounted price recompute complete")
	return nil
}

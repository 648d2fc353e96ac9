package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/catalog-pricing/internal/discounts"
	"github.com/angelmondragon/catalog-pricing/pkg/db/models"
	pkgerrors "github.com/angelmondragon/catalog-pricing/pkg/errors"
	"github.com/angelmondragon/catalog-pricing/pkg/logger"
	"github.com/angelmondragon/catalog-pricing/pkg/metrics"
)

// Service recomputes the denormalized discounted price of product channel listings.
type Service interface {
	UpdateProduct(ctx context.Context, productID int64, opts ...Option) (RunStats, error)
	UpdateProducts(ctx context.Context, set ProductSet, opts ...Option) (RunStats, error)
	UpdateCatalogues(ctx context.Context, filter CatalogueFilter, opts ...Option) (RunStats, error)
	UpdateDiscount(ctx context.Context, saleID int64, opts ...Option) (RunStats, error)
}

// Store is the persistence surface the service needs.
type Store interface {
	LoadProduct(ctx context.Context, id int64) (*models.Product, error)
	ProductBatch(ctx context.Context, set ProductSet, before *int64, limit int) ([]models.Product, error)
	PricedVariantListings(ctx context.Context, productID int64) ([]models.ProductVariantChannelListing, error)
	BulkUpdateDiscountedPrices(ctx context.Context, listings []*models.ProductChannelListing) (int64, error)
}

// DiscountSource fetches active discounts and the catalogue a discount targets.
type DiscountSource interface {
	discounts.Fetcher
	CatalogueIDs(ctx context.Context, saleID int64) (discounts.CatalogueIDs, error)
}

// RunStats summarizes one recomputation.
type RunStats struct {
	Batches         int `json:"batches"`
	Products        int `json:"products"`
	ListingsUpdated int `json:"listings_updated"`
	ListingsSkipped int `json:"listings_skipped"`
}

// Option adjusts a single run.
type Option func(*runOptions)

type runOptions struct {
	discounts []discounts.DiscountInfo
	supplied  bool
}

// WithDiscounts runs against the given snapshot instead of fetching active
// discounts. An empty snapshot means no discount applies.
func WithDiscounts(snapshot []discounts.DiscountInfo) Option {
	return func(o *runOptions) {
		o.discounts = snapshot
		o.supplied = true
	}
}

// ServiceParams wires the service dependencies.
type ServiceParams struct {
	Repository Store
	Discounts  DiscountSource
	Evaluator  discounts.Evaluator
	Logger     *logger.Logger
	Metrics    *metrics.PricingMetrics
	BatchSize  int
	Clock      func() time.Time
}

type service struct {
	repo      Store
	discounts DiscountSource
	updater   *productUpdater
	logg      *logger.Logger
	metrics   *metrics.PricingMetrics
	batchSize int
	now       func() time.Time
}

// NewService validates params and builds the pricing service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repository == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "pricing repository required")
	}
	if params.Discounts == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "discount source required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	evaluator := params.Evaluator
	if evaluator == nil {
		evaluator = discounts.DefaultEvaluator
	}
	batchSize := params.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &service{
		repo:      params.Repository,
		discounts: params.Discounts,
		updater: &productUpdater{
			prices:    params.Repository,
			evaluator: evaluator,
			logg:      params.Logger,
			metrics:   params.Metrics,
		},
		logg:      params.Logger,
		metrics:   params.Metrics,
		batchSize: batchSize,
		now:       clock,
	}, nil
}

func (s *service) UpdateProduct(ctx context.Context, productID int64, opts ...Option) (RunStats, error) {
	if productID <= 0 {
		return RunStats{}, pkgerrors.New(pkgerrors.CodeValidation, "product id must be positive")
	}
	ctx = s.startRun(ctx, "product", map[string]any{"product_id": productID})

	var stats RunStats
	snapshot, err := s.snapshot(ctx, opts)
	if err != nil {
		return stats, err
	}
	product, err := s.repo.LoadProduct(ctx, productID)
	if err != nil {
		return stats, err
	}
	if err := s.processBatch(ctx, []models.Product{*product}, snapshot, &stats); err != nil {
		return stats, err
	}
	s.completeRun(ctx, stats)
	return stats, nil
}

func (s *service) UpdateProducts(ctx context.Context, set ProductSet, opts ...Option) (RunStats, error) {
	ctx = s.startRun(ctx, "products", nil)
	return s.run(ctx, set, opts)
}

func (s *service) UpdateCatalogues(ctx context.Context, filter CatalogueFilter, opts ...Option) (RunStats, error) {
	if err := filter.Validate(); err != nil {
		return RunStats{}, err
	}
	if filter.IsEmpty() {
		s.logg.Info(s.logg.WithField(ctx, "event", "pricing.run.noop"), "no catalogue ids supplied; nothing to recompute")
		return RunStats{}, nil
	}
	ctx = s.startRun(ctx, "catalogues", map[string]any{
		"product_ids":    len(filter.ProductIDs),
		"category_ids":   len(filter.CategoryIDs),
		"collection_ids": len(filter.CollectionIDs),
		"variant_ids":    len(filter.VariantIDs),
	})
	return s.run(ctx, filter.Scope(), opts)
}

func (s *service) UpdateDiscount(ctx context.Context, saleID int64, opts ...Option) (RunStats, error) {
	if saleID <= 0 {
		return RunStats{}, pkgerrors.New(pkgerrors.CodeValidation, "discount id must be positive")
	}
	ids, err := s.discounts.CatalogueIDs(ctx, saleID)
	if err != nil {
		return RunStats{}, err
	}
	ctx = s.logg.WithField(ctx, "sale_id", saleID)
	return s.UpdateCatalogues(ctx, CatalogueFilter{
		ProductIDs:    ids.ProductIDs,
		CategoryIDs:   ids.CategoryIDs,
		CollectionIDs: ids.CollectionIDs,
		VariantIDs:    ids.VariantIDs,
	}, opts...)
}

func (s *service) run(ctx context.Context, set ProductSet, opts []Option) (RunStats, error) {
	var stats RunStats
	snapshot, err := s.snapshot(ctx, opts)
	if err != nil {
		return stats, err
	}

	iter := NewBatchIterator(s.repo, set, s.batchSize)
	for {
		batch, err := iter.Next(ctx)
		if err != nil {
			return stats, err
		}
		if batch == nil {
			break
		}
		if err := s.processBatch(ctx, batch, snapshot, &stats); err != nil {
			return stats, err
		}
	}
	s.completeRun(ctx, stats)
	return stats, nil
}

// processBatch stages every product of the page and writes the changes once.
func (s *service) processBatch(ctx context.Context, batch []models.Product, snapshot []discounts.DiscountInfo, stats *RunStats) error {
	var staged []*models.ProductChannelListing
	skipped := 0
	for i := range batch {
		listings, n, err := s.updater.stage(ctx, &batch[i], snapshot)
		if err != nil {
			return err
		}
		staged = append(staged, listings...)
		skipped += n
	}
	if _, err := s.repo.BulkUpdateDiscountedPrices(ctx, staged); err != nil {
		return err
	}

	stats.Batches++
	stats.Products += len(batch)
	stats.ListingsUpdated += len(staged)
	stats.ListingsSkipped += skipped
	s.metrics.ObserveBatch(len(batch), len(staged))

	var lastID int64
	if len(batch) > 0 {
		lastID = batch[len(batch)-1].ID
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"event":            "pricing.batch.written",
		"batch":            stats.Batches,
		"products":         len(batch),
		"listings_updated": len(staged),
		"listings_skipped": skipped,
		"last_product_id":  lastID,
	}), "discounted price batch written")
	return nil
}

// snapshot resolves the discounts used for the whole run.
func (s *service) snapshot(ctx context.Context, opts []Option) ([]discounts.DiscountInfo, error) {
	var o runOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.supplied {
		return o.discounts, nil
	}
	active, err := s.discounts.FetchActive(ctx, s.now().UTC())
	if err != nil {
		return nil, err
	}
	return active, nil
}

func (s *service) startRun(ctx context.Context, scope string, fields map[string]any) context.Context {
	ctx = s.logg.WithRunID(ctx, uuid.NewString())
	ctx = s.logg.WithField(ctx, "scope", scope)
	logCtx := s.logg.WithField(ctx, "event", "pricing.run.start")
	if len(fields) > 0 {
		logCtx = s.logg.WithFields(logCtx, fields)
	}
	s.logg.Info(logCtx, "discounted price recomputation started")
	return ctx
}

func (s *service) completeRun(ctx context.Context, stats RunStats) {
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"event":            "pricing.run.complete",
		"batches":          stats.Batches,
		"products":         stats.Products,
		"listings_updated": stats.ListingsUpdated,
		"listings_skipped": stats.ListingsSkipped,
	}), "discounted price recomputation complete")
}

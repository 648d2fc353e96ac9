package pricing

import (
	"context"

	"github.com/angelmondragon/catalog-pricing/internal/discounts"
	"github.com/angelmondragon/catalog-pricing/pkg/db/models"
	pkgerrors "github.com/angelmondragon/catalog-pricing/pkg/errors"
	"github.com/angelmondragon/catalog-pricing/pkg/logger"
	"github.com/angelmondragon/catalog-pricing/pkg/metrics"
)

const (
	skipCurrencyMismatch = "currency_mismatch"
	skipEmptyPrices      = "empty_prices"
)

type productUpdater struct {
	prices    variantPriceReader
	evaluator discounts.Evaluator
	logg      *logger.Logger
	metrics   *metrics.PricingMetrics
}

// stage recomputes every channel listing of the product and returns the ones
// whose stored discounted price differs. Listings in channels without a priced
// variant are left alone. The returned listings point into product.ChannelListings.
func (u *productUpdater) stage(ctx context.Context, product *models.Product, snapshot []discounts.DiscountInfo) ([]*models.ProductChannelListing, int, error) {
	collectionIDs := product.CollectionIDs()
	channelPrices, err := aggregateChannelPrices(ctx, u.prices, product.ID)
	if err != nil {
		return nil, 0, err
	}

	var (
		staged  []*models.ProductChannelListing
		skipped int
	)
	for i := range product.ChannelListings {
		listing := &product.ChannelListings[i]
		prices, ok := channelPrices[listing.ChannelID]
		if !ok {
			continue
		}
		if len(prices) == 0 {
			u.skip(ctx, listing, skipEmptyPrices, nil)
			skipped++
			continue
		}

		price, err := selectDiscountedPrice(u.evaluator, prices, *product, collectionIDs, snapshot, listing.ChannelID)
		if err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeCurrencyMismatch) {
				u.skip(ctx, listing, skipCurrencyMismatch, err)
				skipped++
				continue
			}
			return nil, 0, err
		}
		if price.Currency != listing.Currency {
			u.skip(ctx, listing, skipCurrencyMismatch, nil)
			skipped++
			continue
		}

		if current := listing.DiscountedPrice(); current != nil && current.Equal(price) {
			continue
		}
		listing.SetDiscountedPrice(price)
		staged = append(staged, listing)
	}
	return staged, skipped, nil
}

func (u *productUpdater) skip(ctx context.Context, listing *models.ProductChannelListing, reason string, err error) {
	fields := map[string]any{
		"event":      "pricing.listing.skipped",
		"reason":     reason,
		"product_id": listing.ProductID,
		"channel_id": listing.ChannelID,
		"currency":   listing.Currency,
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	u.logg.Warn(u.logg.WithFields(ctx, fields), "discounted price left unchanged")
	u.metrics.IncSkipped(reason)
}

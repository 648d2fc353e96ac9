package pricing

import (
	"context"

	"github.com/angelmondragon/catalog-pricing/pkg/db/models"
	"github.com/angelmondragon/catalog-pricing/pkg/types"
)

type variantPriceReader interface {
	PricedVariantListings(ctx context.Context, productID int64) ([]models.ProductVariantChannelListing, error)
}

// ChannelPrices maps a channel id to the variant prices listed in it. Channels
// without a priced variant have no key.
type ChannelPrices map[int64][]types.Money

// aggregateChannelPrices groups a product's priced variant listings by channel.
func aggregateChannelPrices(ctx context.Context, reader variantPriceReader, productID int64) (ChannelPrices, error) {
	listings, err := reader.PricedVariantListings(ctx, productID)
	if err != nil {
		return nil, err
	}
	prices := make(ChannelPrices)
	for _, listing := range listings {
		price, ok := listing.Price()
		if !ok {
			continue
		}
		prices[listing.ChannelID] = append(prices[listing.ChannelID], price)
	}
	return prices, nil
}

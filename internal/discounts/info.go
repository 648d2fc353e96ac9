package discounts

import (
	"context"
	"time"

	"github.com/angelmondragon/catalog-pricing/pkg/db/models"
	"github.com/angelmondragon/catalog-pricing/pkg/types"
)

// DiscountInfo is a read-only snapshot of one sale and the catalogue it targets.
type DiscountInfo struct {
	Sale            models.Sale
	ChannelListings map[int64]models.SaleChannelListing
	ProductIDs      types.IDSet
	CategoryIDs     types.IDSet
	CollectionIDs   types.IDSet
	VariantIDs      types.IDSet
}

// NewDiscountInfo indexes a sale's channel listings by channel.
func NewDiscountInfo(sale models.Sale, productIDs, categoryIDs, collectionIDs, variantIDs []int64) DiscountInfo {
	listings := make(map[int64]models.SaleChannelListing, len(sale.ChannelListings))
	for _, listing := range sale.ChannelListings {
		listings[listing.ChannelID] = listing
	}
	return DiscountInfo{
		Sale:            sale,
		ChannelListings: listings,
		ProductIDs:      types.NewIDSet(productIDs...),
		CategoryIDs:     types.NewIDSet(categoryIDs...),
		CollectionIDs:   types.NewIDSet(collectionIDs...),
		VariantIDs:      types.NewIDSet(variantIDs...),
	}
}

// AppliesTo reports whether the sale targets the product directly, through its
// category, or through one of its collections.
func (d DiscountInfo) AppliesTo(product models.Product, collectionIDs []int64) bool {
	if d.ProductIDs.Has(product.ID) {
		return true
	}
	if product.CategoryID != nil && d.CategoryIDs.Has(*product.CategoryID) {
		return true
	}
	return d.CollectionIDs.HasAny(collectionIDs)
}

// CatalogueIDs lists the identifiers a sale is attached to.
type CatalogueIDs struct {
	ProductIDs    []int64
	CategoryIDs   []int64
	CollectionIDs []int64
	VariantIDs    []int64
}

// Fetcher loads the discounts active at an instant.
type Fetcher interface {
	FetchActive(ctx context.Context, now time.Time) ([]DiscountInfo, error)
}

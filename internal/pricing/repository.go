package pricing

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/catalog-pricing/internal/repo"
	"github.com/angelmondragon/catalog-pricing/pkg/db/models"
)

// Repository reads catalogue rows and writes denormalized discounted prices.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// LoadProduct fetches one product with its channel listings and collections.
func (r *Repository) LoadProduct(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := r.DB(ctx).
		Preload("ChannelListings").
		Preload("Collections").
		First(&product, "id = ?", id).
		Error
	if err != nil {
		return nil, r.QueryError(err, "load product", fmt.Sprintf("product %d not found", id))
	}
	return &product, nil
}

// PricedVariantListings returns the variant channel listings of a product that carry a price.
func (r *Repository) PricedVariantListings(ctx context.Context, productID int64) ([]models.ProductVariantChannelListing, error) {
	var rows []models.ProductVariantChannelListing
	err := r.DB(ctx).
		Joins("JOIN product_variants pv ON pv.id = product_variant_channel_listings.variant_id").
		Where("pv.product_id = ?", productID).
		Where("product_variant_channel_listings.price_amount IS NOT NULL").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.QueryError(err, fmt.Sprintf("list variant prices (product_id=%d)", productID), "")
	}
	return rows, nil
}

// ProductBatch returns up to limit products of the set in descending id order,
// restricted to ids below before when a cursor is given.
func (r *Repository) ProductBatch(ctx context.Context, set ProductSet, before *int64, limit int) ([]models.Product, error) {
	qb := r.DB(ctx).Model(&models.Product{})
	if set != nil {
		qb = qb.Scopes(set)
	}
	if before != nil {
		qb = qb.Where("products.id < ?", *before)
	}

	var products []models.Product
	err := qb.
		Preload("ChannelListings").
		Preload("Collections").
		Order("products.id DESC").
		Limit(limit).
		Find(&products).
		Error
	if err != nil {
		return nil, r.QueryError(err, "list product batch", "")
	}
	return products, nil
}

// BulkUpdateDiscountedPrices writes only discounted_price_amount for the given
// listings in a single statement.
func (r *Repository) BulkUpdateDiscountedPrices(ctx context.Context, listings []*models.ProductChannelListing) (int64, error) {
	if len(listings) == 0 {
		return 0, nil
	}

	var expr strings.Builder
	args := make([]any, 0, len(listings)*2)
	ids := make([]int64, 0, len(listings))
	expr.WriteString("CASE id")
	for _, listing := range listings {
		expr.WriteString(" WHEN ? THEN CAST(? AS NUMERIC(12,3))")
		args = append(args, listing.ID, listing.DiscountedPriceAmount.Decimal.String())
		ids = append(ids, listing.ID)
	}
	expr.WriteString(" END")

	res := r.DB(ctx).
		Model(&models.ProductChannelListing{}).
		Where("id IN ?", ids).
		UpdateColumn("discounted_price_amount", gorm.Expr(expr.String(), args...))
	if res.Error != nil {
		return 0, r.QueryError(res.Error, fmt.Sprintf("bulk update discounted prices (%d listings)", len(listings)), "")
	}
	return res.RowsAffected, nil
}

package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/catalog-pricing/pkg/types"
)

// ProductVariant is a purchasable version of a product.
type ProductVariant struct {
	ID              int64                          `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID       int64                          `gorm:"column:product_id;not null;index"`
	SKU             string                         `gorm:"column:sku;not null;uniqueIndex"`
	Name            string                         `gorm:"column:name"`
	ChannelListings []ProductVariantChannelListing `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time                      `gorm:"column:created_at;autoCreateTime"`
}

// ProductVariantChannelListing carries a variant's optional price in one channel.
type ProductVariantChannelListing struct {
	ID          int64               `gorm:"column:id;primaryKey;autoIncrement"`
	VariantID   int64               `gorm:"column:variant_id;not null;uniqueIndex:idx_variant_channel_listing"`
	ChannelID   int64               `gorm:"column:channel_id;not null;uniqueIndex:idx_variant_channel_listing"`
	Currency    string              `gorm:"column:currency;not null"`
	PriceAmount decimal.NullDecimal `gorm:"column:price_amount;type:numeric(12,3)"`
}

// Price returns the listing price and whether one is set.
func (l ProductVariantChannelListing) Price() (types.Money, bool) {
	if !l.PriceAmount.Valid {
		return types.Money{}, false
	}
	return types.NewMoney(l.PriceAmount.Decimal, l.Currency), true
}

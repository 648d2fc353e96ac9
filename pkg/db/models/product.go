package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/catalog-pricing/pkg/types"
)

// Product is the catalogue entry whose per-channel discounted price is denormalized.
type Product struct {
	ID              int64                   `gorm:"column:id;primaryKey;autoIncrement"`
	Name            string                  `gorm:"column:name;not null"`
	Slug            string                  `gorm:"column:slug;not null;uniqueIndex"`
	CategoryID      *int64                  `gorm:"column:category_id;index"`
	Category        *Category               `gorm:"foreignKey:CategoryID"`
	ChannelListings []ProductChannelListing `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Collections     []Collection            `gorm:"many2many:collection_products"`
	Variants        []ProductVariant        `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

// CollectionIDs returns the ids of the preloaded collections.
func (p Product) CollectionIDs() []int64 {
	ids := make([]int64, 0, len(p.Collections))
	for _, collection := range p.Collections {
		ids = append(ids, collection.ID)
	}
	return ids
}

// ProductChannelListing binds a product to a channel and stores its discounted price.
type ProductChannelListing struct {
	ID                    int64               `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID             int64               `gorm:"column:product_id;not null;uniqueIndex:idx_product_channel_listing"`
	ChannelID             int64               `gorm:"column:channel_id;not null;uniqueIndex:idx_product_channel_listing"`
	Channel               *Channel            `gorm:"foreignKey:ChannelID"`
	Currency              string              `gorm:"column:currency;not null"`
	DiscountedPriceAmount decimal.NullDecimal `gorm:"column:discounted_price_amount;type:numeric(12,3)"`
	IsPublished           bool                `gorm:"column:is_published;not null"`
	UpdatedAt             time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// DiscountedPrice returns the stored value or nil when it was never computed.
func (l ProductChannelListing) DiscountedPrice() *types.Money {
	if !l.DiscountedPriceAmount.Valid {
		return nil
	}
	price := types.NewMoney(l.DiscountedPriceAmount.Decimal, l.Currency)
	return &price
}

// SetDiscountedPrice replaces the in-memory discounted amount.
func (l *ProductChannelListing) SetDiscountedPrice(price types.Money) {
	l.DiscountedPriceAmount = decimal.NullDecimal{Decimal: price.Amount, Valid: true}
}

package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/catalog-pricing/pkg/enums"
)

// Sale is a catalogue discount scoped to products, categories, collections and variants.
type Sale struct {
	ID              int64                `gorm:"column:id;primaryKey;autoIncrement"`
	Name            string               `gorm:"column:name;not null"`
	Type            enums.SaleType       `gorm:"column:type;not null"`
	StartDate       time.Time            `gorm:"column:start_date;not null"`
	EndDate         *time.Time           `gorm:"column:end_date"`
	ChannelListings []SaleChannelListing `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	Products        []Product            `gorm:"many2many:sale_products"`
	Categories      []Category           `gorm:"many2many:sale_categories"`
	Collections     []Collection         `gorm:"many2many:sale_collections"`
	Variants        []ProductVariant     `gorm:"many2many:sale_variants;joinReferences:VariantID"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// IsActiveAt reports whether the sale runs at the given instant.
func (s Sale) IsActiveAt(now time.Time) bool {
	if now.Before(s.StartDate) {
		return false
	}
	return s.EndDate == nil || !now.After(*s.EndDate)
}

// SaleChannelListing holds a sale's value in one channel's currency.
type SaleChannelListing struct {
	ID            int64           `gorm:"column:id;primaryKey;autoIncrement"`
	SaleID        int64           `gorm:"column:sale_id;not null;uniqueIndex:idx_sale_channel_listing"`
	ChannelID     int64           `gorm:"column:channel_id;not null;uniqueIndex:idx_sale_channel_listing"`
	Currency      string          `gorm:"column:currency;not null"`
	DiscountValue decimal.Decimal `gorm:"column:discount_value;type:numeric(12,3);not null"`
}

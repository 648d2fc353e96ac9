// Package dbtest opens isolated in-memory SQLite catalogues for tests.
package dbtest

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/catalog-pricing/pkg/db/models"
	"github.com/angelmondragon/catalog-pricing/pkg/enums"
)

var seq atomic.Int64

// Open returns a migrated SQLite database private to the test.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := conn.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

// Catalog builds fixture rows with unique slugs.
type Catalog struct {
	t  *testing.T
	db *gorm.DB
	n  int
}

func NewCatalog(t *testing.T, db *gorm.DB) *Catalog {
	return &Catalog{t: t, db: db}
}

func (c *Catalog) slug(prefix string) string {
	c.n++
	return fmt.Sprintf("%s-%d", prefix, c.n)
}

func (c *Catalog) create(value any) {
	c.t.Helper()
	if err := c.db.Create(value).Error; err != nil {
		c.t.Fatalf("create %T: %v", value, err)
	}
}

func (c *Catalog) Channel(currency string) *models.Channel {
	c.t.Helper()
	slug := c.slug("channel")
	channel := &models.Channel{Name: slug, Slug: slug, CurrencyCode: currency, IsActive: true}
	c.create(channel)
	return channel
}

func (c *Catalog) Category() *models.Category {
	c.t.Helper()
	slug := c.slug("category")
	category := &models.Category{Name: slug, Slug: slug}
	c.create(category)
	return category
}

func (c *Catalog) Collection(products ...*models.Product) *models.Collection {
	c.t.Helper()
	slug := c.slug("collection")
	collection := &models.Collection{Name: slug, Slug: slug}
	c.create(collection)
	for _, product := range products {
		if err := c.db.Model(collection).Association("Products").Append(product); err != nil {
			c.t.Fatalf("attach product %d to collection: %v", product.ID, err)
		}
	}
	return collection
}

// Product creates a product, optionally in a category.
func (c *Catalog) Product(category *models.Category) *models.Product {
	c.t.Helper()
	slug := c.slug("product")
	product := &models.Product{Name: slug, Slug: slug}
	if category != nil {
		product.CategoryID = &category.ID
	}
	c.create(product)
	return product
}

// Listing publishes the product in the channel with an optional stored discounted price.
func (c *Catalog) Listing(product *models.Product, channel *models.Channel, discounted string) *models.ProductChannelListing {
	c.t.Helper()
	listing := &models.ProductChannelListing{
		ProductID:   product.ID,
		ChannelID:   channel.ID,
		Currency:    channel.CurrencyCode,
		IsPublished: true,
	}
	if discounted != "" {
		listing.DiscountedPriceAmount = decimal.NewNullDecimal(decimal.RequireFromString(discounted))
	}
	c.create(listing)
	return listing
}

// Variant creates a variant; prices maps a channel to its amount, "" meaning listed without a price.
func (c *Catalog) Variant(product *models.Product, prices map[*models.Channel]string) *models.ProductVariant {
	c.t.Helper()
	sku := c.slug("sku")
	variant := &models.ProductVariant{ProductID: product.ID, SKU: sku, Name: sku}
	c.create(variant)
	for channel, amount := range prices {
		listing := &models.ProductVariantChannelListing{
			VariantID: variant.ID,
			ChannelID: channel.ID,
			Currency:  channel.CurrencyCode,
		}
		if amount != "" {
			listing.PriceAmount = decimal.NewNullDecimal(decimal.RequireFromString(amount))
		}
		c.create(listing)
	}
	return variant
}

// SaleTargets lists what a fixture sale is attached to.
type SaleTargets struct {
	Products    []*models.Product
	Categories  []*models.Category
	Collections []*models.Collection
	Variants    []*models.ProductVariant
}

// Sale creates a sale active from an hour ago, valued per channel.
func (c *Catalog) Sale(saleType enums.SaleType, values map[*models.Channel]string, targets SaleTargets) *models.Sale {
	c.t.Helper()
	sale := &models.Sale{
		Name:      c.slug("sale"),
		Type:      saleType,
		StartDate: time.Now().UTC().Add(-time.Hour),
	}
	c.create(sale)
	for channel, value := range values {
		c.create(&models.SaleChannelListing{
			SaleID:        sale.ID,
			ChannelID:     channel.ID,
			Currency:      channel.CurrencyCode,
			DiscountValue: decimal.RequireFromString(value),
		})
	}
	c.attach(sale, "Products", targets.Products)
	c.attach(sale, "Categories", targets.Categories)
	c.attach(sale, "Collections", targets.Collections)
	c.attach(sale, "Variants", targets.Variants)
	return sale
}

func attachValues[T any](items []*T) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		out = append(out, item)
	}
	return out
}

func (c *Catalog) attach(sale *models.Sale, association string, items any) {
	c.t.Helper()
	var values []any
	switch typed := items.(type) {
	case []*models.Product:
		values = attachValues(typed)
	case []*models.Category:
		values = attachValues(typed)
	case []*models.Collection:
		values = attachValues(typed)
	case []*models.ProductVariant:
		values = attachValues(typed)
	}
	if len(values) == 0 {
		return
	}
	if err := c.db.Model(sale).Association(association).Append(values...); err != nil {
		c.t.Fatalf("attach %s to sale: %v", association, err)
	}
}

package pricing

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/catalog-pricing/pkg/db/models"
)

// DefaultBatchSize bounds how many products are held in memory per page.
const DefaultBatchSize = 500

// ProductSet narrows the products table to the products a run covers.
type ProductSet func(*gorm.DB) *gorm.DB

// AllProducts covers the whole catalogue.
func AllProducts() ProductSet {
	return func(db *gorm.DB) *gorm.DB { return db }
}

// ProductsByIDs covers an explicit list of products. An empty list matches nothing.
func ProductsByIDs(ids ...int64) ProductSet {
	return func(db *gorm.DB) *gorm.DB {
		if len(ids) == 0 {
			return db.Where("1 = 0")
		}
		return db.Where("products.id IN ?", ids)
	}
}

type batchReader interface {
	ProductBatch(ctx context.Context, set ProductSet, before *int64, limit int) ([]models.Product, error)
}

// BatchIterator pages through a product set in descending id order. The cursor
// is the smallest id of the previous page, so rows inserted mid-run with a
// larger id are never visited. It cannot be restarted.
type BatchIterator struct {
	reader batchReader
	set    ProductSet
	size   int
	cursor *int64
	done   bool
}

// NewBatchIterator builds an iterator; a non-positive size falls back to DefaultBatchSize.
func NewBatchIterator(reader batchReader, set ProductSet, size int) *BatchIterator {
	if size <= 0 {
		size = DefaultBatchSize
	}
	if set == nil {
		set = AllProducts()
	}
	return &BatchIterator{reader: reader, set: set, size: size}
}

// Next returns the next page, or (nil, nil) once the set is exhausted.
func (it *BatchIterator) Next(ctx context.Context) ([]models.Product, error) {
	if it.done {
		return nil, nil
	}
	products, err := it.reader.ProductBatch(ctx, it.set, it.cursor, it.size)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		it.done = true
		return nil, nil
	}
	last := products[len(products)-1].ID
	it.cursor = &last
	return products, nil
}

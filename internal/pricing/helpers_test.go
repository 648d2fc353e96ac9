package pricing

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/catalog-pricing/internal/discounts"
	"github.com/angelmondragon/catalog-pricing/pkg/db/models"
	"github.com/angelmondragon/catalog-pricing/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

// countingStore records bulk writes and can fail the nth one.
type countingStore struct {
	*Repository
	writes     int
	calls      int
	failOnCall int
	failErr    error
}

func (c *countingStore) BulkUpdateDiscountedPrices(ctx context.Context, listings []*models.ProductChannelListing) (int64, error) {
	c.calls++
	if c.failOnCall > 0 && c.calls == c.failOnCall {
		return 0, c.failErr
	}
	if len(listings) > 0 {
		c.writes++
	}
	return c.Repository.BulkUpdateDiscountedPrices(ctx, listings)
}

func newTestService(t *testing.T, db *gorm.DB, store Store, batchSize int) Service {
	t.Helper()
	if store == nil {
		store = NewRepository(db)
	}
	svc, err := NewService(ServiceParams{
		Repository: store,
		Discounts:  discounts.NewRepository(db),
		Logger:     testLogger(),
		BatchSize:  batchSize,
	})
	require.NoError(t, err)
	return svc
}

func discountedAmount(t *testing.T, db *gorm.DB, listingID int64) string {
	t.Helper()
	var listing models.ProductChannelListing
	require.NoError(t, db.First(&listing, "id = ?", listingID).Error)
	if !listing.DiscountedPriceAmount.Valid {
		return ""
	}
	return listing.DiscountedPriceAmount.Decimal.StringFixed(2)
}

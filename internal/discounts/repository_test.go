package discounts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/catalog-pricing/pkg/db/dbtest"
	"github.com/angelmondragon/catalog-pricing/pkg/db/models"
	"github.com/angelmondragon/catalog-pricing/pkg/enums"
	pkgerrors "github.com/angelmondragon/catalog-pricing/pkg/errors"
)

func TestRepositoryFetchActive(t *testing.T) {
	db := dbtest.Open(t)
	catalog := dbtest.NewCatalog(t, db)
	ctx := context.Background()

	channel := catalog.Channel("USD")
	category := catalog.Category()
	product := catalog.Product(category)
	other := catalog.Product(nil)
	collection := catalog.Collection(other)
	variant := catalog.Variant(other, map[*models.Channel]string{channel: "5.00"})

	active := catalog.Sale(enums.SaleTypePercentage, map[*models.Channel]string{channel: "20"}, dbtest.SaleTargets{
		Products:    []*models.Product{product},
		Categories:  []*models.Category{category},
		Collections: []*models.Collection{collection},
		Variants:    []*models.ProductVariant{variant},
	})

	ended := catalog.Sale(enums.SaleTypeFixed, map[*models.Channel]string{channel: "1"}, dbtest.SaleTargets{
		Products: []*models.Product{other},
	})
	past := time.Now().UTC().Add(-time.Minute)
	require.NoError(t, db.Model(&models.Sale{}).Where("id = ?", ended.ID).Update("end_date", past).Error)

	future := catalog.Sale(enums.SaleTypeFixed, nil, dbtest.SaleTargets{})
	require.NoError(t, db.Model(&models.Sale{}).Where("id = ?", future.ID).Update("start_date", time.Now().UTC().Add(time.Hour)).Error)

	repo := NewRepository(db)
	infos, err := repo.FetchActive(ctx, time.Now())
	require.NoError(t, err)
	require.Len(t, infos, 1)

	info := infos[0]
	assert.Equal(t, active.ID, info.Sale.ID)
	assert.True(t, info.ProductIDs.Has(product.ID))
	assert.True(t, info.CategoryIDs.Has(category.ID))
	assert.True(t, info.CollectionIDs.Has(collection.ID))
	assert.True(t, info.VariantIDs.Has(variant.ID))
	listing, ok := info.ChannelListings[channel.ID]
	require.True(t, ok)
	assert.Equal(t, "20", listing.DiscountValue.String())
}

func TestRepositoryFetchActiveEmpty(t *testing.T) {
	db := dbtest.Open(t)
	infos, err := NewRepository(db).FetchActive(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, infos)
	assert.NotNil(t, infos)
}

func TestRepositoryCatalogueIDs(t *testing.T) {
	db := dbtest.Open(t)
	catalog := dbtest.NewCatalog(t, db)

	category := catalog.Category()
	first := catalog.Product(nil)
	second := catalog.Product(nil)
	sale := catalog.Sale(enums.SaleTypePercentage, nil, dbtest.SaleTargets{
		Products:   []*models.Product{second, first},
		Categories: []*models.Category{category},
	})

	ids, err := NewRepository(db).CatalogueIDs(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{first.ID, second.ID}, ids.ProductIDs)
	assert.Equal(t, []int64{category.ID}, ids.CategoryIDs)
	assert.Empty(t, ids.CollectionIDs)
	assert.Empty(t, ids.VariantIDs)
}

func TestRepositoryCatalogueIDsUnknownSale(t *testing.T) {
	db := dbtest.Open(t)
	_, err := NewRepository(db).CatalogueIDs(context.Background(), 404)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

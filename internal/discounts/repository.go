package discounts

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/catalog-pricing/internal/repo"
	"github.com/angelmondragon/catalog-pricing/pkg/db/models"
)

type joinTable struct {
	name   string
	column string
}

var (
	saleProducts    = joinTable{name: "sale_products", column: "product_id"}
	saleCategories  = joinTable{name: "sale_categories", column: "category_id"}
	saleCollections = joinTable{name: "sale_collections", column: "collection_id"}
	saleVariants    = joinTable{name: "sale_variants", column: "variant_id"}
)

// Repository loads sales and the catalogue identifiers they target.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// FetchActive returns a snapshot of every sale running at now.
func (r *Repository) FetchActive(ctx context.Context, now time.Time) ([]DiscountInfo, error) {
	now = now.UTC()
	var sales []models.Sale
	err := r.DB(ctx).
		Preload("ChannelListings").
		Where("start_date <= ?", now).
		Where("end_date IS NULL OR end_date >= ?", now).
		Order("id ASC").
		Find(&sales).
		Error
	if err != nil {
		return nil, r.QueryError(err, "list active sales", "")
	}
	if len(sales) == 0 {
		return []DiscountInfo{}, nil
	}

	saleIDs := make([]int64, 0, len(sales))
	for _, sale := range sales {
		saleIDs = append(saleIDs, sale.ID)
	}

	products, err := r.targets(ctx, saleProducts, saleIDs)
	if err != nil {
		return nil, err
	}
	categories, err := r.targets(ctx, saleCategories, saleIDs)
	if err != nil {
		return nil, err
	}
	collections, err := r.targets(ctx, saleCollections, saleIDs)
	if err != nil {
		return nil, err
	}
	variants, err := r.targets(ctx, saleVariants, saleIDs)
	if err != nil {
		return nil, err
	}

	infos := make([]DiscountInfo, 0, len(sales))
	for _, sale := range sales {
		infos = append(infos, NewDiscountInfo(
			sale,
			products[sale.ID],
			categories[sale.ID],
			collections[sale.ID],
			variants[sale.ID],
		))
	}
	return infos, nil
}

// CatalogueIDs returns the identifiers attached to one sale.
func (r *Repository) CatalogueIDs(ctx context.Context, saleID int64) (CatalogueIDs, error) {
	var sale models.Sale
	if err := r.DB(ctx).Select("id").First(&sale, "id = ?", saleID).Error; err != nil {
		return CatalogueIDs{}, r.QueryError(err, "load sale", fmt.Sprintf("sale %d not found", saleID))
	}

	ids := []int64{saleID}
	var out CatalogueIDs
	for _, target := range []struct {
		table joinTable
		dest  *[]int64
	}{
		{saleProducts, &out.ProductIDs},
		{saleCategories, &out.CategoryIDs},
		{saleCollections, &out.CollectionIDs},
		{saleVariants, &out.VariantIDs},
	} {
		byID, err := r.targets(ctx, target.table, ids)
		if err != nil {
			return CatalogueIDs{}, err
		}
		*target.dest = byID[saleID]
	}
	return out, nil
}

func (r *Repository) targets(ctx context.Context, table joinTable, saleIDs []int64) (map[int64][]int64, error) {
	type row struct {
		SaleID   int64
		TargetID int64
	}
	var rows []row
	err := r.DB(ctx).
		Table(table.name).
		Select(fmt.Sprintf("sale_id, %s AS target_id", table.column)).
		Where("sale_id IN ?", saleIDs).
		Order(table.column).
		Scan(&rows).
		Error
	if err != nil {
		return nil, r.QueryError(err, "list "+table.name, "")
	}
	out := make(map[int64][]int64, len(saleIDs))
	for _, rw := range rows {
		out[rw.SaleID] = append(out[rw.SaleID], rw.TargetID)
	}
	return out, nil
}

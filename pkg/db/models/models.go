package models

// All lists the catalogue pricing models in dependency order for AutoMigrate.
func All() []any {
	return []any{
		&Channel{},
		&Category{},
		&Collection{},
		&Product{},
		&ProductChannelListing{},
		&ProductVariant{},
		&ProductVariantChannelListing{},
		&Sale{},
		&SaleChannelListing{},
	}
}

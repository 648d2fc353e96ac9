package models

import "time"

// Category groups products; a product belongs to at most one.
type Category struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;not null"`
	Slug      string    `gorm:"column:slug;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// Collection is a curated product set joined through collection_products.
type Collection struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;not null"`
	Slug      string    `gorm:"column:slug;not null;uniqueIndex"`
	Products  []Product `gorm:"many2many:collection_products"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

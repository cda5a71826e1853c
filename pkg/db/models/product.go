package models

import (
	"time"

	"github.com/angelmondragon/brandcorner-backend/pkg/types"
)

// Product is the catalog read model used for listing, cart snapshots and
// order line joins.
type Product struct {
	ID            string           `gorm:"column:id;primaryKey"`
	Name          string           `gorm:"column:name;not null"`
	Slug          *string          `gorm:"column:slug"`
	Brand         *string          `gorm:"column:brand"`
	CategoryName  *string          `gorm:"column:category_name"`
	CategorySlug  *string          `gorm:"column:category_slug"`
	Description   *string          `gorm:"column:description"`
	Compatibility *string          `gorm:"column:compatibility"`
	Features      types.StringList `gorm:"column:features;type:text;not null"`
	Images        types.StringList `gorm:"column:images;type:text;not null"`
	Sizes         types.IntList    `gorm:"column:sizes;type:text;not null"`
	Price         int              `gorm:"column:price;not null"`
	OfferPrice    *int             `gorm:"column:offer_price"`
	SoldOut       bool             `gorm:"column:sold_out;not null;default:false"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table name.
func (Product) TableName() string {
	return "products"
}

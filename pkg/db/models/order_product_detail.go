package models

import "github.com/google/uuid"

// OrderProductDetail snapshots one cart line at placement time. Rows are never
// updated after the order is written.
type OrderProductDetail struct {
	OrderID   uuid.UUID `gorm:"column:order_id;type:text;primaryKey"`
	Key       string    `gorm:"column:line_key;primaryKey"`
	Position  int       `gorm:"column:position;not null"`
	ProductID string    `gorm:"column:product_id;not null"`
	Name      string    `gorm:"column:name;not null"`
	Brand     *string   `gorm:"column:brand"`
	Quantity  int       `gorm:"column:quantity;not null"`
	Price     int       `gorm:"column:price;not null"`
	Image     *string   `gorm:"column:image"`
	Size      *int      `gorm:"column:size"`
}

// TableName pins the table name.
func (OrderProductDetail) TableName() string {
	return "order_product_details"
}

package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/brandcorner-backend/pkg/enums"
)

// Order is the persisted record of a completed checkout. The customer block is
// a denormalized copy taken at placement time.
type Order struct {
	ID            uuid.UUID `gorm:"column:id;type:text;primaryKey"`
	CartSessionID *string   `gorm:"column:cart_session_id"`

	Name     string `gorm:"column:name;not null"`
	Email    string `gorm:"column:email;not null"`
	Phone    string `gorm:"column:phone;not null"`
	Address  string `gorm:"column:address;not null"`
	District string `gorm:"column:district;not null"`
	State    string `gorm:"column:state;not null"`
	Pincode  string `gorm:"column:pincode;not null"`

	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	PaymentStatus enums.PaymentStatus `gorm:"column:payment_status;type:text;not null"`
	PaymentAmount int                 `gorm:"column:payment_amount;not null"`
	TransactionID *string             `gorm:"column:transaction_id"`
	PaymentID     *string             `gorm:"column:payment_id"`
	PaymentDate   *time.Time          `gorm:"column:payment_date"`

	ShippingCharge int                  `gorm:"column:shipping_charge;not null"`
	ShippingStatus enums.ShippingStatus `gorm:"column:shipping_status;type:text;not null"`

	Status     enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	TrackingID *string           `gorm:"column:tracking_id"`
	Notes      *string           `gorm:"column:notes"`
	OrderDate  time.Time         `gorm:"column:order_date;not null"`

	ProductDetails []OrderProductDetail `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table name.
func (Order) TableName() string {
	return "orders"
}

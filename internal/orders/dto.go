package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/brandcorner-backend/pkg/db/models"
	"github.com/angelmondragon/brandcorner-backend/pkg/enums"
)

// AddressInput is the postal address captured at checkout.
type AddressInput struct {
	Street   string `json:"street" validate:"required"`
	District string `json:"district" validate:"required"`
	State    string `json:"state" validate:"required"`
	Pincode  string `json:"pincode" validate:"required"`
}

// CustomerInput identifies who the order ships to.
type CustomerInput struct {
	Name    string       `json:"name" validate:"required"`
	Email   string       `json:"email" validate:"required"`
	Phone   string       `json:"phone" validate:"required"`
	Address AddressInput `json:"address"`
}

// ProductLineInput is the snapshot of one cart line.
type ProductLineInput struct {
	ProductID string `json:"productId" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Brand     string `json:"brand,omitempty"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
	Price     int    `json:"price" validate:"gte=0"`
	Image     string `json:"image,omitempty"`
	Size      *int   `json:"size,omitempty"`
}

// PaymentInput carries the payment choice and its initial settlement state.
type PaymentInput struct {
	Method        enums.PaymentMethod `json:"method" validate:"required"`
	Status        enums.PaymentStatus `json:"status" validate:"required"`
	Amount        int                 `json:"amount" validate:"gte=0"`
	TransactionID string              `json:"transactionId,omitempty"`
}

// ShippingInput carries the charge applied and the initial shipping state.
type ShippingInput struct {
	Charge int                  `json:"charge" validate:"gte=0"`
	Status enums.ShippingStatus `json:"status"`
}

// CreateOrderInput is everything needed to place an order.
type CreateOrderInput struct {
	Customer      CustomerInput      `json:"customer"`
	Products      []ProductLineInput `json:"products" validate:"required,min=1,dive"`
	Payment       PaymentInput       `json:"payment"`
	Shipping      ShippingInput      `json:"shipping"`
	Status        enums.OrderStatus  `json:"status,omitempty"`
	Notes         string             `json:"notes,omitempty"`
	CartSessionID string             `json:"-"`
}

// PaymentUpdate patches an existing order. Nil or empty fields are left as
// stored.
type PaymentUpdate struct {
	PaymentID     *string              `json:"paymentId"`
	PaymentStatus *enums.PaymentStatus `json:"paymentStatus"`
	PaymentDate   *time.Time           `json:"paymentDate"`
	Status        *enums.OrderStatus   `json:"status"`
	TrackingID    *string              `json:"trackingId"`
	Notes         *string              `json:"notes"`
}

// ProductRef is the live catalog view of a line's product.
type ProductRef struct {
	ID    string `json:"_id"`
	Name  string `json:"name,omitempty"`
	Brand string `json:"brand,omitempty"`
	Image string `json:"image,omitempty"`
	Price int    `json:"price"`
}

// ProductDetail is one order line: the stored snapshot plus the live product
// when it still exists in the catalog.
type ProductDetail struct {
	Key       string      `json:"key"`
	ProductID *ProductRef `json:"productId"`
	Name      string      `json:"name"`
	Brand     string      `json:"brand,omitempty"`
	Image     string      `json:"image,omitempty"`
	Quantity  int         `json:"quantity"`
	Price     int         `json:"price"`
	Size      *int        `json:"size,omitempty"`
}

// Order is the read projection returned to callers.
type Order struct {
	ID             uuid.UUID            `json:"_id"`
	CreatedAt      time.Time            `json:"_createdAt"`
	Name           string               `json:"name"`
	Email          string               `json:"email"`
	Phone          string               `json:"phone"`
	Address        string               `json:"address"`
	District       string               `json:"district"`
	State          string               `json:"state"`
	Pincode        string               `json:"pincode"`
	ProductDetails []ProductDetail      `json:"productDetails"`
	TrackingID     string               `json:"trackingId,omitempty"`
	Status         enums.OrderStatus    `json:"status"`
	PaymentMethod  enums.PaymentMethod  `json:"payment_method"`
	PaymentStatus  enums.PaymentStatus  `json:"payment_status"`
	PaymentAmount  int                  `json:"payment_amount"`
	TransactionID  string               `json:"transactionID,omitempty"`
	PaymentID      string               `json:"payment_id,omitempty"`
	PaymentDate    *time.Time           `json:"payment_date,omitempty"`
	ShippingCharge int                  `json:"shipping_charge"`
	ShippingStatus enums.ShippingStatus `json:"shipping_status"`
	OrderDate      time.Time            `json:"order_date"`
	Notes          string               `json:"notes,omitempty"`
}

// FromModel maps a stored order to its projection. Lines carry only the
// snapshot; the live product join is applied by the service.
func FromModel(m models.Order) Order {
	out := Order{
		ID:             m.ID,
		CreatedAt:      m.CreatedAt,
		Name:           m.Name,
		Email:          m.Email,
		Phone:          m.Phone,
		Address:        m.Address,
		District:       m.District,
		State:          m.State,
		Pincode:        m.Pincode,
		ProductDetails: make([]ProductDetail, 0, len(m.ProductDetails)),
		TrackingID:     deref(m.TrackingID),
		Status:         m.Status,
		PaymentMethod:  m.PaymentMethod,
		PaymentStatus:  m.PaymentStatus,
		PaymentAmount:  m.PaymentAmount,
		TransactionID:  deref(m.TransactionID),
		PaymentID:      deref(m.PaymentID),
		PaymentDate:    m.PaymentDate,
		ShippingCharge: m.ShippingCharge,
		ShippingStatus: m.ShippingStatus,
		OrderDate:      m.OrderDate,
		Notes:          deref(m.Notes),
	}
	for _, line := range m.ProductDetails {
		out.ProductDetails = append(out.ProductDetails, ProductDetail{
			Key:      line.Key,
			Name:     line.Name,
			Brand:    deref(line.Brand),
			Image:    deref(line.Image),
			Quantity: line.Quantity,
			Price:    line.Price,
			Size:     line.Size,
		})
	}
	return out
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

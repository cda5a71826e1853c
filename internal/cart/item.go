package cart

import (
	"github.com/angelmondragon/brandcorner-backend/internal/products"
)

// FreeProduct is a bundled gift snapshot attached to a cart line.
type FreeProduct struct {
	ID           string           `json:"_id"`
	Name         string           `json:"name"`
	Brand        string           `json:"brand,omitempty"`
	Images       []products.Image `json:"images"`
	SelectedSize *int             `json:"selectedSize,omitempty"`
}

// Item is one cart line. The JSON shape matches what storefront clients keep
// under the cart key.
type Item struct {
	ID            string             `json:"_id"`
	Name          string             `json:"name"`
	Brand         string             `json:"brand,omitempty"`
	Category      *products.Category `json:"category,omitempty"`
	Images        []products.Image   `json:"images"`
	Price         int                `json:"price"`
	OfferPrice    *int               `json:"offerPrice,omitempty"`
	Quantity      int                `json:"quantity,omitempty"`
	Compatibility string             `json:"compatibility,omitempty"`
	Features      []string           `json:"features,omitempty"`
	SelectedSize  *int               `json:"selectedSize,omitempty"`
	FreeProduct   *FreeProduct       `json:"freeProduct,omitempty"`
}

// UnitPrice is the offer price when set and non-zero, else the list price.
func (i Item) UnitPrice() int {
	if i.OfferPrice != nil && *i.OfferPrice > 0 {
		return *i.OfferPrice
	}
	return i.Price
}

// Qty treats a missing or zero quantity as one.
func (i Item) Qty() int {
	if i.Quantity <= 0 {
		return 1
	}
	return i.Quantity
}

// FirstImage returns the first image url or an empty string.
func (i Item) FirstImage() string {
	if len(i.Images) == 0 {
		return ""
	}
	return i.Images[0].Asset.URL
}

// ItemFromProduct snapshots a catalog product into a cart line.
func ItemFromProduct(p products.Product, quantity int, size *int) Item {
	item := Item{
		ID:            p.ID,
		Name:          p.Name,
		Brand:         p.Brand,
		Category:      p.Category,
		Images:        p.Images,
		Price:         p.Price,
		OfferPrice:    p.OfferPrice,
		Quantity:      quantity,
		Compatibility: p.Compatibility,
		Features:      p.Features,
		SelectedSize:  size,
	}
	if item.Images == nil {
		item.Images = []products.Image{}
	}
	return item
}

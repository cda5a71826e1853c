package products

import (
	"time"

	"github.com/angelmondragon/brandcorner-backend/pkg/db/models"
)

// Category is the name/slug pair a product is filed under.
type Category struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ImageAsset points at a hosted image.
type ImageAsset struct {
	URL string `json:"url"`
}

// Image wraps an image asset.
type Image struct {
	Asset ImageAsset `json:"asset"`
}

// Product is the storefront view of a catalog entry.
type Product struct {
	ID            string    `json:"_id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug,omitempty"`
	Brand         string    `json:"brand,omitempty"`
	Category      *Category `json:"category,omitempty"`
	Description   string    `json:"description,omitempty"`
	Compatibility string    `json:"compatibility,omitempty"`
	Features      []string  `json:"features,omitempty"`
	Images        []Image   `json:"images"`
	Sizes         []int     `json:"sizes,omitempty"`
	Price         int       `json:"price"`
	OfferPrice    *int      `json:"offerPrice,omitempty"`
	SoldOut       bool      `json:"soldOut"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// FirstImage returns the primary image url or an empty string.
func (p Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].Asset.URL
}

// ImagesFromURLs wraps plain urls in the image shape.
func ImagesFromURLs(urls []string) []Image {
	images := make([]Image, 0, len(urls))
	for _, url := range urls {
		if url == "" {
			continue
		}
		images = append(images, Image{Asset: ImageAsset{URL: url}})
	}
	return images
}

// FromModel maps a catalog row to its storefront view.
func FromModel(m models.Product) Product {
	p := Product{
		ID:            m.ID,
		Name:          m.Name,
		Slug:          deref(m.Slug),
		Brand:         deref(m.Brand),
		Description:   deref(m.Description),
		Compatibility: deref(m.Compatibility),
		Features:      []string(m.Features),
		Images:        ImagesFromURLs(m.Images),
		Sizes:         []int(m.Sizes),
		Price:         m.Price,
		OfferPrice:    m.OfferPrice,
		SoldOut:       m.SoldOut,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.CategoryName != nil || m.CategorySlug != nil {
		p.Category = &Category{Name: deref(m.CategoryName), Slug: deref(m.CategorySlug)}
	}
	return p
}

// ListResult is one page of the catalog listing.
type ListResult struct {
	Products   []Product `json:"products"`
	NextCursor string    `json:"next_cursor,omitempty"`
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

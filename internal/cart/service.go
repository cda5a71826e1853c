package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/brandcorner-backend/internal/products"
	pkgerrors "github.com/angelmondragon/brandcorner-backend/pkg/errors"
)

type productLoader interface {
	Get(ctx context.Context, id string) (*products.Product, error)
}

// Service exposes the guest cart operations.
type Service interface {
	List(ctx context.Context, sessionID string) ([]Item, error)
	Add(ctx context.Context, sessionID string, input AddInput) ([]Item, error)
	UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) ([]Item, error)
	Remove(ctx context.Context, sessionID, productID string) ([]Item, error)
	Clear(ctx context.Context, sessionID string) error
	Subscribe(ctx context.Context, sessionID string) (<-chan struct{}, error)
}

// AddInput selects a catalog product for the cart.
type AddInput struct {
	ProductID     string `json:"productId" validate:"required"`
	Quantity      int    `json:"quantity" validate:"omitempty,gte=1,lte=99"`
	SelectedSize  *int   `json:"selectedSize" validate:"omitempty,gt=0"`
	FreeProductID string `json:"freeProductId"`
}

type service struct {
	store    Store
	products productLoader
}

// NewService builds a cart service over the given store and catalog.
func NewService(store Store, catalog productLoader) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{store: store, products: catalog}, nil
}

func (s *service) List(ctx context.Context, sessionID string) ([]Item, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	items, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return items, nil
}

// Add snapshots the product into the cart. A product already in the cart has
// its quantity increased instead of being duplicated.
func (s *service) Add(ctx context.Context, sessionID string, input AddInput) ([]Item, error) {
	productID := strings.TrimSpace(input.ProductID)
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	quantity := input.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	items, err := s.List(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.SoldOut {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "product is sold out").
			WithDetails(map[string]any{"product_id": productID})
	}
	if input.SelectedSize != nil && len(product.Sizes) > 0 && !containsInt(product.Sizes, *input.SelectedSize) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "selected size is not available")
	}

	var free *FreeProduct
	if id := strings.TrimSpace(input.FreeProductID); id != "" {
		gift, err := s.products.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		free = &FreeProduct{ID: gift.ID, Name: gift.Name, Brand: gift.Brand, Images: gift.Images, SelectedSize: input.SelectedSize}
		if free.Images == nil {
			free.Images = []products.Image{}
		}
	}

	merged := false
	for i := range items {
		if items[i].ID != productID {
			continue
		}
		items[i].Quantity = items[i].Qty() + quantity
		if input.SelectedSize != nil {
			items[i].SelectedSize = input.SelectedSize
		}
		if free != nil {
			items[i].FreeProduct = free
		}
		merged = true
		break
	}
	if !merged {
		item := ItemFromProduct(*product, quantity, input.SelectedSize)
		item.FreeProduct = free
		items = append(items, item)
	}
	return s.save(ctx, sessionID, items)
}

// UpdateQuantity sets the quantity of a line. Quantities below one and unknown
// product ids leave the cart unchanged.
func (s *service) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) ([]Item, error) {
	items, err := s.List(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if quantity < 1 {
		return items, nil
	}
	for i := range items {
		if items[i].ID == productID {
			if items[i].Quantity == quantity {
				return items, nil
			}
			items[i].Quantity = quantity
			return s.save(ctx, sessionID, items)
		}
	}
	return items, nil
}

// Remove drops a line. Removing an absent product is a no-op.
func (s *service) Remove(ctx context.Context, sessionID, productID string) ([]Item, error) {
	items, err := s.List(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	kept := make([]Item, 0, len(items))
	for _, item := range items {
		if item.ID != productID {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return items, nil
	}
	return s.save(ctx, sessionID, kept)
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	if err := requireSession(sessionID); err != nil {
		return err
	}
	if err := s.store.Clear(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) Subscribe(ctx context.Context, sessionID string) (<-chan struct{}, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	ch, err := s.store.Subscribe(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "subscribe cart")
	}
	return ch, nil
}

func (s *service) save(ctx context.Context, sessionID string, items []Item) ([]Item, error) {
	if err := s.store.Set(ctx, sessionID, items); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return items, nil
}

func requireSession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "cart session required")
	}
	return nil
}

func containsInt(values []int, want int) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

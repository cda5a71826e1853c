package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/brandcorner-backend/internal/products"
	pkgerrors "github.com/angelmondragon/brandcorner-backend/pkg/errors"
)

func intPtr(v int) *int { return &v }

type stubCatalog struct {
	products map[string]products.Product
}

func (s stubCatalog) Get(_ context.Context, id string) (*products.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &p, nil
}

func newCatalog() stubCatalog {
	return stubCatalog{products: map[string]products.Product{
		"case": {
			ID:         "case",
			Name:       "Armor Case",
			Brand:      "Spigen",
			Category:   &products.Category{Name: "Cases", Slug: "cases"},
			Images:     []products.Image{{Asset: products.ImageAsset{URL: "https://cdn/case.jpg"}}},
			Sizes:      []int{6, 7},
			Price:      500,
			OfferPrice: intPtr(450),
		},
		"cable":    {ID: "cable", Name: "USB-C Cable", Price: 299},
		"guard":    {ID: "guard", Name: "Screen Guard", Price: 199},
		"sold-out": {ID: "sold-out", Name: "Old Charger", Price: 999, SoldOut: true},
	}}
}

func newTestService(t *testing.T) (Service, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	svc, err := NewService(store, newCatalog())
	require.NoError(t, err)
	return svc, store
}

func TestAddSnapshotsProduct(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	items, err := svc.Add(ctx, "s1", AddInput{ProductID: "case", SelectedSize: intPtr(7), FreeProductID: "guard"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	item := items[0]
	require.Equal(t, "Armor Case", item.Name)
	require.Equal(t, 1, item.Quantity)
	require.Equal(t, 450, item.UnitPrice())
	require.Equal(t, 7, *item.SelectedSize)
	require.Equal(t, "https://cdn/case.jpg", item.FirstImage())
	require.NotNil(t, item.FreeProduct)
	require.Equal(t, "guard", item.FreeProduct.ID)

	listed, err := svc.List(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, items, listed)
}

func TestAddMergesExistingProduct(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "s1", AddInput{ProductID: "case"})
	require.NoError(t, err)
	_, err = svc.Add(ctx, "s1", AddInput{ProductID: "cable"})
	require.NoError(t, err)
	items, err := svc.Add(ctx, "s1", AddInput{ProductID: "case", Quantity: 2})
	require.NoError(t, err)

	require.Len(t, items, 2)
	require.Equal(t, "case", items[0].ID)
	require.Equal(t, 3, items[0].Quantity)
	require.Equal(t, "cable", items[1].ID)
}

func TestAddRejections(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "s1", AddInput{ProductID: "sold-out"})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	_, err = svc.Add(ctx, "s1", AddInput{ProductID: "missing"})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.Add(ctx, "s1", AddInput{ProductID: "case", SelectedSize: intPtr(9)})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Add(ctx, "", AddInput{ProductID: "case"})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))

	items, err := svc.List(ctx, "s1")
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestUpdateQuantity(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Add(ctx, "s1", AddInput{ProductID: "case"})
	require.NoError(t, err)

	items, err := svc.UpdateQuantity(ctx, "s1", "case", 4)
	require.NoError(t, err)
	require.Equal(t, 4, items[0].Quantity)

	items, err = svc.UpdateQuantity(ctx, "s1", "case", 0)
	require.NoError(t, err)
	require.Equal(t, 4, items[0].Quantity)

	items, err = svc.UpdateQuantity(ctx, "s1", "ghost", 2)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestRemoveAndClear(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Add(ctx, "s1", AddInput{ProductID: "case"})
	require.NoError(t, err)
	_, err = svc.Add(ctx, "s1", AddInput{ProductID: "cable"})
	require.NoError(t, err)

	items, err := svc.Remove(ctx, "s1", "case")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "cable", items[0].ID)

	items, err = svc.Remove(ctx, "s1", "case")
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, svc.Clear(ctx, "s1"))
	items, err = svc.List(ctx, "s1")
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestMutationsNotifySubscribers(t *testing.T) {
	svc, _ := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, err := svc.Subscribe(ctx, "s1")
	require.NoError(t, err)

	_, err = svc.Add(context.Background(), "s1", AddInput{ProductID: "cable"})
	require.NoError(t, err)
	select {
	case <-updates:
	case <-time.After(time.Second):
		t.Fatal("expected notification after add")
	}

	require.NoError(t, svc.Clear(context.Background(), "s1"))
	select {
	case <-updates:
	case <-time.After(time.Second):
		t.Fatal("expected notification after clear")
	}
}

type brokenStore struct{ *MemoryStore }

func (brokenStore) Get(context.Context, string) ([]Item, error) {
	return nil, errors.New("redis down")
}

func TestStoreFailureIsDependencyError(t *testing.T) {
	svc, err := NewService(brokenStore{NewMemoryStore()}, newCatalog())
	require.NoError(t, err)
	_, err = svc.List(context.Background(), "s1")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))

	_, err = NewService(nil, newCatalog())
	require.Error(t, err)
}

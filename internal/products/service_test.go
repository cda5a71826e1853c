package products

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/brandcorner-backend/pkg/db/dbtest"
	"github.com/angelmondragon/brandcorner-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/brandcorner-backend/pkg/errors"
	"github.com/angelmondragon/brandcorner-backend/pkg/pagination"
)

func intPtr(v int) *int { return &v }

func newTestService(t *testing.T) (Service, Repository) {
	t.Helper()
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func caseInput(name string, price int, offer *int) UpsertInput {
	return UpsertInput{
		Name:       name,
		Brand:      "Spigen",
		Category:   &Category{Name: "Phone Cases", Slug: "phone-cases"},
		Features:   []string{"Drop tested"},
		Images:     []string{"https://cdn.brandcorner.co.in/" + name + ".jpg"},
		Sizes:      []int{6, 7},
		Price:      price,
		OfferPrice: offer,
	}
}

func TestUpsertAndGet(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Upsert(ctx, "p1", caseInput("armor", 500, intPtr(450)))
	require.NoError(t, err)
	require.Equal(t, "p1", created.ID)

	got, err := svc.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "armor", got.Name)
	require.Equal(t, "Spigen", got.Brand)
	require.Equal(t, &Category{Name: "Phone Cases", Slug: "phone-cases"}, got.Category)
	require.Equal(t, 450, *got.OfferPrice)
	require.Equal(t, []int{6, 7}, got.Sizes)
	require.Equal(t, "https://cdn.brandcorner.co.in/armor.jpg", got.FirstImage())

	updated := caseInput("armor-v2", 600, nil)
	updated.SoldOut = true
	_, err = svc.Upsert(ctx, "p1", updated)
	require.NoError(t, err)

	got, err = svc.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "armor-v2", got.Name)
	require.True(t, got.SoldOut)
	require.Nil(t, got.OfferPrice)
}

func TestUpsertValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, "p1", caseInput("x", 100, intPtr(150)))
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Upsert(ctx, "p1", UpsertInput{Price: 10})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Upsert(ctx, " ", caseInput("x", 100, nil))
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestGetMissingProduct(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Get(context.Background(), "nope")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestLookupSkipsMissingAndDuplicates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Upsert(ctx, "p1", caseInput("a", 100, nil))
	require.NoError(t, err)

	found, err := svc.Lookup(ctx, []string{"p1", "p1", "ghost", ""})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "a", found["p1"].Name)
}

func TestListPaginatesByCategory(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"p1", "p2", "p3"} {
		slug := "phone-cases"
		row := &models.Product{ID: id, Name: id, CategorySlug: &slug, Price: 100, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, repo.Upsert(ctx, row))
	}
	other := "chargers"
	require.NoError(t, repo.Upsert(ctx, &models.Product{ID: "c1", Name: "c1", CategorySlug: &other, Price: 100}))

	page, err := svc.List(ctx, ListInput{CategorySlug: "phone-cases", Pagination: pagination.Params{Limit: 2}})
	require.NoError(t, err)
	require.Len(t, page.Products, 2)
	require.Equal(t, "p3", page.Products[0].ID)
	require.Equal(t, "p2", page.Products[1].ID)
	require.NotEmpty(t, page.NextCursor)

	next, err := svc.List(ctx, ListInput{CategorySlug: "phone-cases", Pagination: pagination.Params{Limit: 2, Cursor: page.NextCursor}})
	require.NoError(t, err)
	require.Len(t, next.Products, 1)
	require.Equal(t, "p1", next.Products[0].ID)
	require.Empty(t, next.NextCursor)

	_, err = svc.List(ctx, ListInput{Pagination: pagination.Params{Cursor: "%%"}})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.List(ctx, ListInput{CategorySlug: "chargers", Pagination: pagination.Params{Limit: 2, Cursor: page.NextCursor}})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

type failingRepo struct{ Repository }

func (failingRepo) FindByID(context.Context, string) (*models.Product, error) {
	return nil, errors.New("connection reset")
}

func TestGetDependencyFailure(t *testing.T) {
	svc, err := NewService(failingRepo{})
	require.NoError(t, err)
	_, err = svc.Get(context.Background(), "p1")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))

	_, err = NewService(nil)
	require.Error(t, err)
}

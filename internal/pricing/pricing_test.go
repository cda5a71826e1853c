package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/brandcorner-backend/internal/cart"
	"github.com/angelmondragon/brandcorner-backend/internal/products"
	"github.com/angelmondragon/brandcorner-backend/pkg/enums"
)

func intPtr(v int) *int { return &v }

func discountedCase() []cart.Item {
	return []cart.Item{{
		ID:         "case-1",
		Name:       "Armor Case",
		Brand:      "Spigen",
		Category:   &products.Category{Name: "Cases", Slug: "cases"},
		Images:     []products.Image{{Asset: products.ImageAsset{URL: "https://cdn/case.jpg"}}},
		Price:      500,
		OfferPrice: intPtr(450),
		Quantity:   2,
	}}
}

func TestSubtotal(t *testing.T) {
	t.Parallel()
	items := []cart.Item{
		{ID: "a", Price: 500, OfferPrice: intPtr(450), Quantity: 2},
		{ID: "b", Price: 300},
		{ID: "c", Price: 200, OfferPrice: intPtr(0), Quantity: 3},
	}
	assert.Equal(t, 900+300+600, Subtotal(items))
	assert.Equal(t, 0, Subtotal(nil))
	assert.Equal(t, 6, Quantity(items))
	assert.Equal(t, 0, Quantity(nil))
}

func TestShippingCharge(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 80, ShippingCharge(enums.PaymentMethodOnline))
	assert.Equal(t, 100, ShippingCharge(enums.PaymentMethodCOD))
}

func TestTotal(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name     string
		subtotal int
		charge   int
		method   enums.PaymentMethod
		want     int
	}{
		{"online keeps charge", 900, 80, enums.PaymentMethodOnline, 980},
		{"online low charge", 900, 10, enums.PaymentMethodOnline, 910},
		{"cod floors to 100", 900, 80, enums.PaymentMethodCOD, 1000},
		{"cod keeps higher charge", 900, 150, enums.PaymentMethodCOD, 1050},
		{"empty cart", 0, 80, enums.PaymentMethodOnline, 80},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Total(tc.subtotal, tc.charge, tc.method))
		})
	}
}

func TestSummarizeOnline(t *testing.T) {
	t.Parallel()
	summary := Summarize(discountedCase(), enums.PaymentMethodOnline)

	assert.Equal(t, 900, summary.Subtotal)
	assert.Equal(t, 80, summary.ShippingCharge)
	assert.Equal(t, 980, summary.Total)
	assert.Equal(t, 2, summary.Quantity)
	assert.False(t, summary.FreeShipping)
	assert.Equal(t, 100, summary.AmountForFreeShipping)
	assert.Equal(t, 0, summary.CODSurcharge)
	assert.Equal(t, "Online Payment", summary.ShippingLabel)
	assert.Equal(t, "₹980", summary.TotalFormatted)
	assert.Equal(t, "Add ₹100 more for free shipping", summary.FreeShippingHint)
	assert.Empty(t, summary.CODNote)

	require.Len(t, summary.Lines, 1)
	line := summary.Lines[0]
	assert.Equal(t, 450, line.UnitPrice)
	assert.Equal(t, 900, line.LineTotal)
	assert.Equal(t, "Cases", line.Category)
	assert.Equal(t, "https://cdn/case.jpg", line.Image)
}

func TestSummarizeCOD(t *testing.T) {
	t.Parallel()
	summary := Summarize(discountedCase(), enums.PaymentMethodCOD)

	assert.Equal(t, 900, summary.Subtotal)
	assert.Equal(t, 100, summary.ShippingCharge)
	assert.Equal(t, 1000, summary.Total)
	assert.Equal(t, 20, summary.CODSurcharge)
	assert.Equal(t, "COD (+₹20)", summary.ShippingLabel)
	assert.Equal(t, "Cash on Delivery available with ₹20 additional charge", summary.CODNote)
}

func TestSummarizeFreeShippingIsDisplayOnly(t *testing.T) {
	t.Parallel()
	items := []cart.Item{{ID: "a", Price: 1200}}
	summary := Summarize(items, enums.PaymentMethodOnline)

	assert.True(t, summary.FreeShipping)
	assert.Equal(t, "FREE", summary.ShippingFormatted)
	assert.Equal(t, 0, summary.AmountForFreeShipping)
	assert.Empty(t, summary.FreeShippingHint)
	assert.Equal(t, 1280, summary.Total)
}

func TestSummarizeDefaultsUnknownMethodToOnline(t *testing.T) {
	t.Parallel()
	summary := Summarize(nil, enums.PaymentMethod("upi"))
	assert.Equal(t, enums.PaymentMethodOnline, summary.PaymentMethod)
	assert.Equal(t, 80, summary.Total)
	assert.NotNil(t, summary.Lines)
}

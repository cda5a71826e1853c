// Package pricing computes cart and order amounts in whole rupees.
package pricing

import (
	"github.com/angelmondragon/brandcorner-backend/internal/cart"
	"github.com/angelmondragon/brandcorner-backend/pkg/enums"
	"github.com/angelmondragon/brandcorner-backend/pkg/money"
)

const (
	// OnlineShippingCharge is the baseline delivery charge.
	OnlineShippingCharge = 80
	// CODSurcharge is added on top of the baseline for cash on delivery.
	CODSurcharge = 20
	// CODShippingCharge is the minimum charge applied to cash on delivery orders.
	CODShippingCharge = OnlineShippingCharge + CODSurcharge
	// FreeShippingThreshold is the subtotal at which the summary advertises free shipping.
	FreeShippingThreshold = 1000
)

// Subtotal sums unit price times quantity over the cart.
func Subtotal(items []cart.Item) int {
	total := 0
	for _, item := range items {
		total += item.UnitPrice() * item.Qty()
	}
	return total
}

// Quantity is the cart badge count.
func Quantity(items []cart.Item) int {
	total := 0
	for _, item := range items {
		total += item.Qty()
	}
	return total
}

// ShippingCharge returns the charge preset for a payment method.
func ShippingCharge(method enums.PaymentMethod) int {
	if method == enums.PaymentMethodCOD {
		return CODShippingCharge
	}
	return OnlineShippingCharge
}

// Total adds the shipping charge to the subtotal. Cash on delivery never
// charges less than CODShippingCharge.
func Total(subtotal, shippingCharge int, method enums.PaymentMethod) int {
	if method == enums.PaymentMethodCOD && shippingCharge < CODShippingCharge {
		shippingCharge = CODShippingCharge
	}
	return subtotal + shippingCharge
}

// Line is a display row of the order summary.
type Line struct {
	ProductID          string `json:"product_id"`
	Name               string `json:"name"`
	Brand              string `json:"brand,omitempty"`
	Category           string `json:"category,omitempty"`
	Image              string `json:"image,omitempty"`
	Quantity           int    `json:"quantity"`
	UnitPrice          int    `json:"unit_price"`
	LineTotal          int    `json:"line_total"`
	UnitPriceFormatted string `json:"unit_price_formatted"`
	LineTotalFormatted string `json:"line_total_formatted"`
}

// Summary is the order summary shown on the cart and checkout views.
//
// FreeShipping only changes presentation: Total still includes the shipping
// charge.
type Summary struct {
	Lines                 []Line              `json:"lines"`
	PaymentMethod         enums.PaymentMethod `json:"payment_method"`
	Quantity              int                 `json:"cart_quantity"`
	Subtotal              int                 `json:"subtotal"`
	ShippingCharge        int                 `json:"shipping_charge"`
	Total                 int                 `json:"total"`
	FreeShipping          bool                `json:"free_shipping"`
	AmountForFreeShipping int                 `json:"amount_needed_for_free_shipping"`
	CODSurcharge          int                 `json:"cod_surcharge"`
	SubtotalFormatted     string              `json:"subtotal_formatted"`
	ShippingFormatted     string              `json:"shipping_charge_formatted"`
	TotalFormatted        string              `json:"total_formatted"`
	ShippingLabel         string              `json:"shipping_label"`
	FreeShippingHint      string              `json:"free_shipping_hint,omitempty"`
	CODNote               string              `json:"cod_note,omitempty"`
}

// Summarize builds the display summary for a cart and payment method.
func Summarize(items []cart.Item, method enums.PaymentMethod) Summary {
	if !method.IsValid() {
		method = enums.PaymentMethodOnline
	}
	subtotal := Subtotal(items)
	charge := ShippingCharge(method)
	total := Total(subtotal, charge, method)

	summary := Summary{
		Lines:          make([]Line, 0, len(items)),
		PaymentMethod:  method,
		Quantity:       Quantity(items),
		Subtotal:       subtotal,
		ShippingCharge: charge,
		Total:          total,
		FreeShipping:   subtotal >= FreeShippingThreshold,
	}
	if !summary.FreeShipping {
		summary.AmountForFreeShipping = FreeShippingThreshold - subtotal
	}

	for _, item := range items {
		unit := item.UnitPrice()
		qty := item.Qty()
		line := Line{
			ProductID:          item.ID,
			Name:               item.Name,
			Brand:              item.Brand,
			Image:              item.FirstImage(),
			Quantity:           qty,
			UnitPrice:          unit,
			LineTotal:          unit * qty,
			UnitPriceFormatted: money.Format(unit),
			LineTotalFormatted: money.Format(unit * qty),
		}
		if item.Category != nil {
			line.Category = item.Category.Name
		}
		summary.Lines = append(summary.Lines, line)
	}

	summary.SubtotalFormatted = money.Format(subtotal)
	summary.TotalFormatted = money.Format(total)
	if summary.FreeShipping {
		summary.ShippingFormatted = "FREE"
	} else {
		summary.ShippingFormatted = money.Format(charge)
		summary.FreeShippingHint = "Add " + money.Format(summary.AmountForFreeShipping) + " more for free shipping"
	}
	if method == enums.PaymentMethodCOD {
		summary.CODSurcharge = CODSurcharge
		summary.ShippingLabel = "COD (" + money.FormatSurcharge(CODSurcharge) + ")"
		summary.CODNote = "Cash on Delivery available with " + money.Format(CODSurcharge) + " additional charge"
	} else {
		summary.ShippingLabel = "Online Payment"
	}
	return summary
}

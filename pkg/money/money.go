// Package money formats integer rupee amounts for display.
package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const rupeeSign = "₹"

var printer = message.NewPrinter(language.MustParse("en-IN"))

// Format renders amount in whole rupees with en-IN digit grouping, e.g. ₹1,000.
func Format(amount int) string {
	if amount < 0 {
		return "-" + rupeeSign + printer.Sprintf("%d", -amount)
	}
	return rupeeSign + printer.Sprintf("%d", amount)
}

// FormatSurcharge renders a positive adjustment such as the COD surcharge: +₹20.
func FormatSurcharge(amount int) string {
	return "+" + Format(amount)
}

package views

import (
	"html/template"

	"github.com/shopspring/decimal"

	"sharkfin/internal/core"
)

// FuncMap returns the helpers the page templates use.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"amount":      FormatAmount,
		"amountClass": AmountClass,
		"percent":     FormatPercent,
		"shortDate":   FormatDate,
	}
}

// FormatAmount renders a decimal with two fraction digits.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// AmountClass maps an amount's sign to a CSS class.
func AmountClass(d decimal.Decimal) string {
	switch {
	case d.IsNegative():
		return "amount-negative"
	case d.IsPositive():
		return "amount-positive"
	default:
		return "amount-zero"
	}
}

// FormatPercent renders a [0, 1] ratio as a whole percentage.
func FormatPercent(p float64) string {
	return decimal.NewFromFloat(p*100).StringFixed(0) + "%"
}

// FormatDate renders a date as the backend's YYYY-MM-DD, or a dash when
// unset.
func FormatDate(d core.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.String()
}

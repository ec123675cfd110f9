// Package format renders amounts for display in the request language.
package format

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/diewo77/go-quotes/quotetotals"
)

// CurrencySymbol is appended (fr) or prepended (en) to money amounts.
const CurrencySymbol = "€"

func printer(lang string) *message.Printer {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.French
	}
	return message.NewPrinter(tag)
}

// Amount formats d rounded to cents with the grouping and decimal separators
// of lang.
func Amount(lang string, d decimal.Decimal) string {
	f := d.Round(2).InexactFloat64()
	return printer(lang).Sprint(number.Decimal(f, number.Scale(2)))
}

// Money is Amount with the currency symbol placed the way lang expects.
func Money(lang string, d decimal.Decimal) string {
	s := Amount(lang, d)
	if lang == "en" {
		return CurrencySymbol + s
	}
	return s + " " + CurrencySymbol
}

// Totals is a quotation breakdown rendered as money strings.
type Totals struct {
	Subtotal string `json:"subtotal"`
	Discount string `json:"discount"`
	Net      string `json:"net_total"`
	Tax      string `json:"tax"`
	Gross    string `json:"gross_total"`
}

// FormatTotals renders every amount of t with Money.
func FormatTotals(lang string, t quotetotals.Totals) Totals {
	return Totals{
		Subtotal: Money(lang, t.Subtotal),
		Discount: Money(lang, t.Discount),
		Net:      Money(lang, t.Net),
		Tax:      Money(lang, t.Tax),
		Gross:    Money(lang, t.Gross),
	}
}

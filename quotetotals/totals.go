// Package quotetotals computes the monetary totals of a quotation: line totals,
// subtotal, discount, net total and tax.
//
// Amounts use exact decimal arithmetic. No function returns an error: negative
// or malformed inputs are clamped to zero, and a discount can never exceed the
// subtotal it applies to.
package quotetotals

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// DiscountKind selects how a DiscountRule value is interpreted.
type DiscountKind string

const (
	DiscountKindAmount     DiscountKind = "amount"
	DiscountKindPercentage DiscountKind = "percentage"
)

// Valid reports whether k is a known discount kind.
func (k DiscountKind) Valid() bool {
	return k == DiscountKindAmount || k == DiscountKindPercentage
}

// DiscountRule is a flat amount or a percentage discount on a subtotal.
type DiscountRule struct {
	Kind  DiscountKind    `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

// LineItem is one product or service row: unit cost times quantity.
// LineTotal loaded from storage is trusted as-is until the next edit.
type LineItem struct {
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Quantity  decimal.Decimal `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// NewLineItem builds a line item with its total computed.
func NewLineItem(unitCost, quantity decimal.Decimal) LineItem {
	return RecomputeLineTotal(LineItem{UnitCost: unitCost, Quantity: quantity})
}

// WithUnitCost returns a copy with a new unit cost and a recomputed total.
func (li LineItem) WithUnitCost(d decimal.Decimal) LineItem {
	li.UnitCost = d
	return RecomputeLineTotal(li)
}

// WithQuantity returns a copy with a new quantity and a recomputed total.
func (li LineItem) WithQuantity(d decimal.Decimal) LineItem {
	li.Quantity = d
	return RecomputeLineTotal(li)
}

// Clamp returns d, or zero when d is negative.
func Clamp(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// RecomputeLineTotal sets LineTotal to UnitCost * Quantity, both clamped to
// zero first. UnitCost and Quantity are returned as given.
func RecomputeLineTotal(item LineItem) LineItem {
	item.LineTotal = Clamp(item.UnitCost).Mul(Clamp(item.Quantity))
	return item
}

// Subtotal sums the line totals. An empty list yields zero.
func Subtotal(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.LineTotal)
	}
	return sum
}

// DiscountAmount returns the discount rule applies to subtotal, never more
// than subtotal and never negative. An unknown kind discounts nothing.
func DiscountAmount(subtotal decimal.Decimal, rule DiscountRule) decimal.Decimal {
	ceiling := Clamp(subtotal)
	value := Clamp(rule.Value)
	var d decimal.Decimal
	switch rule.Kind {
	case DiscountKindPercentage:
		d = subtotal.Mul(value).Div(hundred)
	case DiscountKindAmount:
		d = value
	default:
		return decimal.Zero
	}
	return decimal.Min(Clamp(d), ceiling)
}

// NetTotal returns subtotal minus discount, floored at zero.
func NetTotal(subtotal, discount decimal.Decimal) decimal.Decimal {
	return Clamp(subtotal.Sub(discount))
}

// TaxAmount returns net * ratePercent / 100. A negative rate counts as zero.
func TaxAmount(net, ratePercent decimal.Decimal) decimal.Decimal {
	return Clamp(net).Mul(Clamp(ratePercent)).Div(hundred)
}

// Totals is the full breakdown of a quotation.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Net      decimal.Decimal `json:"net_total"`
	Tax      decimal.Decimal `json:"tax"`
	Gross    decimal.Decimal `json:"gross_total"`
}

// Compute runs the whole pipeline over items whose totals are already set.
func Compute(items []LineItem, rule DiscountRule, taxRatePercent decimal.Decimal) Totals {
	sub := Subtotal(items)
	disc := DiscountAmount(sub, rule)
	net := NetTotal(sub, disc)
	tax := TaxAmount(net, taxRatePercent)
	return Totals{
		Subtotal: sub,
		Discount: disc,
		Net:      net,
		Tax:      tax,
		Gross:    net.Add(tax),
	}
}

// Round returns every amount of t rounded to cents.
func (t Totals) Round() Totals {
	return Totals{
		Subtotal: t.Subtotal.Round(2),
		Discount: t.Discount.Round(2),
		Net:      t.Net.Round(2),
		Tax:      t.Tax.Round(2),
		Gross:    t.Gross.Round(2),
	}
}

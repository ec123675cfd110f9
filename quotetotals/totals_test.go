package quotetotals

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "want %s, got %s", want, got)
}

func TestScenario_PercentageDiscount(t *testing.T) {
	items := []LineItem{
		NewLineItem(d("100"), d("2")),
		NewLineItem(d("50"), d("1")),
	}
	sub := Subtotal(items)
	assertDec(t, "250", sub)

	disc := DiscountAmount(sub, DiscountRule{Kind: DiscountKindPercentage, Value: d("10")})
	assertDec(t, "25", disc)
	assertDec(t, "225", NetTotal(sub, disc))
}

func TestRecomputeLineTotal(t *testing.T) {
	tests := []struct {
		name     string
		cost     string
		qty      string
		expected string
	}{
		{"simple", "19.99", "3", "59.97"},
		{"zero quantity", "10", "0", "0"},
		{"negative cost clamped", "-5", "2", "0"},
		{"negative quantity clamped", "5", "-2", "0"},
		{"both negative clamped", "-5", "-2", "0"},
		{"fractional quantity", "80", "1.5", "120"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := RecomputeLineTotal(LineItem{UnitCost: d(tt.cost), Quantity: d(tt.qty), LineTotal: d("999")})
			assertDec(t, tt.expected, item.LineTotal)
			want := Clamp(d(tt.cost)).Mul(Clamp(d(tt.qty)))
			assert.True(t, want.Equal(item.LineTotal))
		})
	}
}

func TestLineItem_Mutations(t *testing.T) {
	item := NewLineItem(d("10"), d("2"))
	item = item.WithQuantity(d("5"))
	assertDec(t, "50", item.LineTotal)
	item = item.WithUnitCost(d("3"))
	assertDec(t, "15", item.LineTotal)
}

func TestSubtotal_TrustsLoadedLineTotal(t *testing.T) {
	items := []LineItem{
		{UnitCost: d("10"), Quantity: d("1"), LineTotal: d("12")},
		NewLineItem(d("1"), d("1")),
	}
	assertDec(t, "13", Subtotal(items))
	assertDec(t, "0", Subtotal(nil))
}

func TestSubtotal_NoCentDrift(t *testing.T) {
	var items []LineItem
	for range 10 {
		items = append(items, NewLineItem(d("0.1"), d("1")))
	}
	assertDec(t, "1", Subtotal(items))
}

func TestDiscountAmount(t *testing.T) {
	tests := []struct {
		name     string
		subtotal string
		rule     DiscountRule
		expected string
	}{
		{"percentage", "200", DiscountRule{DiscountKindPercentage, d("15")}, "30"},
		{"percentage over 100 clamped", "200", DiscountRule{DiscountKindPercentage, d("150")}, "200"},
		{"amount", "200", DiscountRule{DiscountKindAmount, d("20")}, "20"},
		{"amount over subtotal clamped", "200", DiscountRule{DiscountKindAmount, d("500")}, "200"},
		{"negative amount treated as zero", "200", DiscountRule{DiscountKindAmount, d("-20")}, "0"},
		{"negative percentage treated as zero", "200", DiscountRule{DiscountKindPercentage, d("-20")}, "0"},
		{"unknown kind", "200", DiscountRule{"bogus", d("20")}, "0"},
		{"zero subtotal", "0", DiscountRule{DiscountKindAmount, d("20")}, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDec(t, tt.expected, DiscountAmount(d(tt.subtotal), tt.rule))
		})
	}
}

func TestDiscountNeverExceedsSubtotal(t *testing.T) {
	subtotals := []string{"0", "0.01", "1", "99.99", "250", "100000"}
	values := []string{"-10", "0", "0.5", "10", "100", "101", "1000000"}
	for _, s := range subtotals {
		for _, v := range values {
			for _, k := range []DiscountKind{DiscountKindAmount, DiscountKindPercentage} {
				sub := d(s)
				disc := DiscountAmount(sub, DiscountRule{Kind: k, Value: d(v)})
				assert.True(t, disc.LessThanOrEqual(sub), "sub=%s value=%s kind=%s", s, v, k)
				assert.False(t, disc.IsNegative())
				assert.False(t, NetTotal(sub, disc).IsNegative())
			}
		}
	}
}

func TestNetTotal_Floor(t *testing.T) {
	assertDec(t, "0", NetTotal(d("10"), d("20")))
	assertDec(t, "5", NetTotal(d("10"), d("5")))
}

func TestCompute(t *testing.T) {
	items := []LineItem{NewLineItem(d("100"), d("2")), NewLineItem(d("50"), d("1"))}
	tot := Compute(items, DiscountRule{Kind: DiscountKindAmount, Value: d("50")}, d("20"))
	assertDec(t, "250", tot.Subtotal)
	assertDec(t, "50", tot.Discount)
	assertDec(t, "200", tot.Net)
	assertDec(t, "40", tot.Tax)
	assertDec(t, "240", tot.Gross)
}

func TestTotals_Round(t *testing.T) {
	items := []LineItem{NewLineItem(d("10"), d("1"))}
	tot := Compute(items, DiscountRule{Kind: DiscountKindPercentage, Value: d("33.333")}, d("5.5")).Round()
	assertDec(t, "3.33", tot.Discount)
	assertDec(t, "6.67", tot.Net)
	assertDec(t, "0.37", tot.Tax)
}

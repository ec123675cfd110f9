package format

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/diewo77/go-quotes/quotetotals"
)

func TestAmount(t *testing.T) {
	d := decimal.RequireFromString("1234.5")
	if got := Amount("en", d); got != "1,234.50" {
		t.Fatalf("en: got %q", got)
	}
	if got := Amount("fr", d); !strings.HasSuffix(got, ",50") || !strings.HasPrefix(got, "1") {
		t.Fatalf("fr: got %q", got)
	}
	if got := Amount("en", decimal.RequireFromString("0.005")); got != "0.01" {
		t.Fatalf("rounding: got %q", got)
	}
}

func TestMoney(t *testing.T) {
	d := decimal.NewFromInt(12)
	if got := Money("en", d); got != "€12.00" {
		t.Fatalf("en: got %q", got)
	}
	if got := Money("fr", d); got != "12,00 €" {
		t.Fatalf("fr: got %q", got)
	}
}

func TestFormatTotals(t *testing.T) {
	tot := quotetotals.Compute(
		[]quotetotals.LineItem{quotetotals.NewLineItem(decimal.NewFromInt(100), decimal.NewFromInt(1))},
		quotetotals.DiscountRule{},
		decimal.NewFromInt(20),
	)
	got := FormatTotals("en", tot)
	if got.Gross != "€120.00" || got.Discount != "€0.00" {
		t.Fatalf("unexpected %+v", got)
	}
}

package quotetotals

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts form text into a non-negative amount. When both a comma
// and a dot appear, the last one is the decimal separator. A lone separator is
// a decimal one ("12,50", "12.5") unless it repeats ("2,000,000", "1.234.567").
// A single comma followed by exactly three digits after a non-zero integer
// part also groups thousands: "1,234" is 1234 but "0,125" is 0.125.
// Spaces (including no-break spaces) are ignored. Text that is not a number,
// and negative numbers, yield zero.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	s = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "").Replace(s)
	comma, dot := strings.LastIndex(s, ","), strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot > comma:
		// 1,234.50
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0 && dot >= 0:
		// 1.234,50
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case comma >= 0:
		s = normalizeSeparator(s, ",", true)
	case dot >= 0:
		s = normalizeSeparator(s, ".", false)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return Clamp(d)
}

// normalizeSeparator rewrites s, whose only separator is sep, to use a dot for
// decimals and nothing for thousands grouping.
func normalizeSeparator(s, sep string, groupSingle bool) string {
	i := strings.Index(s, sep)
	if strings.Count(s, sep) > 1 || groupSingle && isGrouping(s[:i], s[i+1:]) {
		return strings.ReplaceAll(s, sep, "")
	}
	return strings.Replace(s, sep, ".", 1)
}

func isGrouping(head, tail string) bool {
	head = strings.TrimLeft(head, "+-")
	if len(head) == 0 || len(head) > 3 || head[0] == '0' || len(tail) != 3 {
		return false
	}
	return isDigits(head) && isDigits(tail)
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// ParseQuantity is ParseAmount for quantities.
func ParseQuantity(s string) decimal.Decimal {
	return ParseAmount(s)
}

// FromFloat converts a float from a JSON payload, mapping NaN, infinities and
// negatives to zero.
func FromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return Clamp(decimal.NewFromFloat(f))
}

// ParseDiscountKind maps user text to a kind. "%", "percent" and "percentage"
// select DiscountKindPercentage; anything else is a flat amount.
func ParseDiscountKind(s string) DiscountKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "%", "percent", "percentage", "pct":
		return DiscountKindPercentage
	default:
		return DiscountKindAmount
	}
}

// ParseDiscount builds a DiscountRule from form text.
func ParseDiscount(kind, value string) DiscountRule {
	return DiscountRule{Kind: ParseDiscountKind(kind), Value: ParseAmount(value)}
}

// Normalize clamps every numeric field of a rule received as JSON.
func (s DiscountRule) Normalize() DiscountRule {
	if !s.Kind.Valid() {
		s.Kind = ParseDiscountKind(string(s.Kind))
	}
	s.Value = Clamp(s.Value)
	return s
}

// Amount is a decimal read from user input. It unmarshals from a JSON number
// or a string, with the same leniency as ParseAmount, and is never negative.
type Amount struct {
	decimal.Decimal
}

// NewAmount wraps d, clamped to zero.
func NewAmount(d decimal.Decimal) Amount { return Amount{Clamp(d)} }

func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		a.Decimal = decimal.Zero
		return nil
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = unq
	}
	a.Decimal = ParseAmount(s)
	return nil
}

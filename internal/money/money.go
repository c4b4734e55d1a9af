package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

const Symbol = "₹"

// Format renders an amount with the currency symbol, comma thousands grouping
// and at most two fraction digits. Trailing fraction zeros are dropped, so
// 10000 renders as ₹10,000 and 1234.5 as ₹1,234.5.
func Format(value decimal.Decimal) string {
	return Symbol + Group(value)
}

// Group renders the grouped number without a currency symbol. Negative
// values keep the sign after the symbol in Format (₹-5,000).
func Group(value decimal.Decimal) string {
	rounded := value.Round(2)
	negative := rounded.IsNegative()
	if negative {
		rounded = rounded.Neg()
	}
	text := rounded.String()
	whole, frac, _ := strings.Cut(text, ".")
	frac = strings.TrimRight(frac, "0")

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

func Sum[T any](items []T, amount func(T) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(amount(item))
	}
	return total
}

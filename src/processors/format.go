package processors

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/username/kuyumcu/backend/src/models"
)

// FormatMoney renders an amount with its currency symbol and tr-TR grouping:
// "." thousands, "," decimals, at most two fraction digits (half away from zero),
// trailing zeros dropped. Unknown currencies fall back to TL.
func FormatMoney(amount float64, currency string) string {
	symbol := "₺"
	switch strings.ToLower(currency) {
	case models.CurrencyUSD:
		symbol = "$"
	case models.CurrencyEUR:
		symbol = "€"
	}
	return symbol + FormatNumberTR(amount)
}

// FormatNumberTR formats a number the way tr-TR toLocaleString does with
// maximumFractionDigits=2.
func FormatNumberTR(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "∞"
	case math.IsInf(v, -1):
		return "-∞"
	}

	s := decimal.NewFromFloat(v).Round(2).String()
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteByte(',')
		b.WriteString(frac)
	}
	return b.String()
}

var (
	hundred = big.NewFloat(100)
	half    = big.NewFloat(0.5)
)

// FormatFixed2 renders v with exactly two decimals using JavaScript toFixed(2) rounding:
// the exact binary value is rounded, ties go away from zero.
func FormatFixed2(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}

	sign := ""
	if v < 0 {
		sign = "-"
	}
	// 256 bits hold |v|*100+0.5 exactly for every finite float64.
	f := new(big.Float).SetPrec(256).SetFloat64(math.Abs(v))
	f.Mul(f, hundred)
	f.Add(f, half)
	n, _ := f.Int(nil)

	digits := n.String()
	if len(digits) < 3 {
		digits = strings.Repeat("0", 3-len(digits)) + digits
	}
	return sign + digits[:len(digits)-2] + "." + digits[len(digits)-2:]
}

// FormatPlain renders a number the way JavaScript's default Number#toString does for
// ordinary magnitudes: shortest round-trip form, no exponent, no trailing zeros.
func FormatPlain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

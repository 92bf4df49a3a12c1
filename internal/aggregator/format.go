package aggregator

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatBRL formats d with "." as thousands separator, "," as decimal
// separator and exactly two decimals: 1234.5 -> "1.234,50". It does not
// depend on the host locale.
//
// Rounding is that of the nearest float64: 2.675 is stored as 2.67499...
// and renders "2,67". Values that round to zero never carry a minus sign.
func FormatBRL(d decimal.Decimal) string {
	fixed := strconv.FormatFloat(d.InexactFloat64(), 'f', 2, 64)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		fixed = fixed[1:]
		if fixed != "0.00" {
			sign = "-"
		}
	}

	intPart, frac, _ := strings.Cut(fixed, ".")
	return sign + groupThousands(intPart) + "," + frac
}

// groupThousands inserts a dot every three digits from the right.
func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

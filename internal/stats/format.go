package stats

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// NotAvailable is shown for trends without prior data.
const NotAvailable = "N/A"

// FormatAmount renders an amount with thousands separators and at most two
// decimals, e.g. 1234567.5 -> "1,234,567.5".
func FormatAmount(v float64) string {
	if !isFinite(v) {
		return NotAvailable
	}
	s := decimal.NewFromFloat(v).Round(2).String()

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, hasFrac := strings.Cut(s, ".")
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

// FormatPercent renders a percentage with one decimal.
func FormatPercent(v float64) string {
	if !isFinite(v) {
		return NotAvailable
	}
	return decimal.NewFromFloat(v).StringFixed(1) + "%"
}

// FormatTrend renders a trend the way the dashboard cards do: signed, one
// decimal, or N/A without prior data.
func FormatTrend(t Trend) string {
	if !t.HasPriorData() {
		return NotAvailable
	}
	if t.Percent > 0 && isFinite(t.Percent) {
		return "+" + FormatPercent(t.Percent)
	}
	return FormatPercent(t.Percent)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

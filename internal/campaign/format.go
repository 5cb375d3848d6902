package campaign

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders amounts for display using locale digit grouping. The
// separators come from the x/text printer for the locale; the digits come
// from the decimal itself so large on-chain totals keep every digit.
type Formatter struct {
	group   string
	decimal string
}

// NewFormatter returns a formatter for "en" or "id"; anything else falls
// back to English.
func NewFormatter(locale string) Formatter {
	tag := language.English
	if strings.EqualFold(strings.TrimSpace(locale), "id") {
		tag = language.Indonesian
	}
	return separatorsFor(message.NewPrinter(tag))
}

// separatorsFor reads the grouping and decimal symbols off a sample number.
func separatorsFor(p *message.Printer) Formatter {
	sample := []rune(p.Sprintf("%.1f", 1234.5))
	if len(sample) < 6 {
		return Formatter{group: ",", decimal: "."}
	}
	f := Formatter{group: ",", decimal: string(sample[len(sample)-2])}
	switch {
	case len(sample) == 7:
		f.group = string(sample[1])
	case f.decimal == ",":
		f.group = "."
	}
	return f
}

// USD formats a dollar amount with two decimals.
func (f Formatter) USD(d decimal.Decimal) string {
	return f.fixed(d, 2)
}

// Native formats a native token amount with four decimals.
func (f Formatter) Native(d decimal.Decimal) string {
	return f.fixed(d, 4)
}

// Percent formats a progress percentage with one decimal.
func (f Formatter) Percent(d decimal.Decimal) string {
	return f.fixed(d, 1)
}

func (f Formatter) fixed(d decimal.Decimal, places int32) string {
	raw := d.StringFixed(places)
	sign := ""
	if strings.HasPrefix(raw, "-") {
		sign, raw = "-", raw[1:]
	}
	whole, frac, _ := strings.Cut(raw, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteString(f.group)
		}
		b.WriteRune(digit)
	}
	if frac != "" {
		b.WriteString(f.decimal)
		b.WriteString(frac)
	}
	return b.String()
}

// ShortAddress abbreviates an address to its first six and last four characters.
func ShortAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}

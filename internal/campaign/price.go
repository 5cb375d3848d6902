// Package campaign derives display values and lifecycle state from raw
// campaign facts. Every function here is pure and safe for concurrent use.
package campaign

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseRate parses an exchange rate. Empty, malformed or negative input
// yields zero, which callers treat as an unknown price.
func ParseRate(raw string) decimal.Decimal {
	return ParseAmount(raw)
}

// ParseAmount parses a non-negative decimal string, clamping bad input to zero.
func ParseAmount(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// USDToNative converts a USD amount into native tokens at the given rate
// (USD per token). An unknown rate converts to zero.
func USDToNative(usd, rate decimal.Decimal) decimal.Decimal {
	if !rate.IsPositive() || usd.IsNegative() {
		return decimal.Zero
	}
	return usd.Div(rate)
}

// NativeToUSD converts a native token amount into USD at the given rate.
func NativeToUSD(native, rate decimal.Decimal) decimal.Decimal {
	if !rate.IsPositive() || native.IsNegative() {
		return decimal.Zero
	}
	return native.Mul(rate)
}

// QuoteContribution previews the USD value of a contribution typed in native
// tokens. Malformed or non-positive amounts quote as zero.
func QuoteContribution(amount string, rate decimal.Decimal) decimal.Decimal {
	native := ParseAmount(amount)
	if !native.IsPositive() {
		return decimal.Zero
	}
	return NativeToUSD(native, rate)
}

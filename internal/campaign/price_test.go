package campaign

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseRate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "plain", raw: "0.02", want: "0.02"},
		{name: "padded", raw: " 0.0213 ", want: "0.0213"},
		{name: "empty", raw: "", want: "0"},
		{name: "zero", raw: "0", want: "0"},
		{name: "malformed", raw: "abc", want: "0"},
		{name: "negative", raw: "-1.5", want: "0"},
		{name: "nan", raw: "NaN", want: "0"},
		{name: "inf", raw: "Inf", want: "0"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseRate(tc.raw)
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Fatalf("ParseRate(%q) = %s, want %s", tc.raw, got, tc.want)
			}
		})
	}
}

func TestUSDToNative(t *testing.T) {
	got := USDToNative(decimal.NewFromInt(1000), decimal.RequireFromString("0.02"))
	if !got.Equal(decimal.NewFromInt(50000)) {
		t.Fatalf("USDToNative = %s, want 50000", got)
	}
}

func TestConvertersSoftFailOnUnknownRate(t *testing.T) {
	for _, rate := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-3), ParseRate("garbage")} {
		if got := USDToNative(decimal.NewFromInt(1000), rate); !got.IsZero() {
			t.Fatalf("USDToNative with rate %s = %s, want 0", rate, got)
		}
		if got := NativeToUSD(decimal.NewFromInt(1000), rate); !got.IsZero() {
			t.Fatalf("NativeToUSD with rate %s = %s, want 0", rate, got)
		}
	}
}

func TestNativeToUSD(t *testing.T) {
	got := NativeToUSD(decimal.NewFromInt(25000), decimal.RequireFromString("0.02"))
	if !got.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("NativeToUSD = %s, want 500", got)
	}
}

func TestQuoteContribution(t *testing.T) {
	rate := decimal.RequireFromString("0.02")
	tests := []struct {
		amount string
		want   string
	}{
		{amount: "12.5", want: "0.25"},
		{amount: "", want: "0"},
		{amount: "-4", want: "0"},
		{amount: "ten", want: "0"},
	}
	for _, tc := range tests {
		if got := QuoteContribution(tc.amount, rate); !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("QuoteContribution(%q) = %s, want %s", tc.amount, got, tc.want)
		}
	}
	if got := QuoteContribution("12.5", decimal.Zero); !got.IsZero() {
		t.Fatalf("QuoteContribution with unknown rate = %s, want 0", got)
	}
}

package campaign

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatterPrecision(t *testing.T) {
	f := NewFormatter("en")
	if got := f.USD(decimal.RequireFromString("12.345")); got != "12.35" {
		t.Fatalf("USD = %q, want 12.35", got)
	}
	if got := f.Native(decimal.RequireFromString("0.5")); got != "0.5000" {
		t.Fatalf("Native = %q, want 0.5000", got)
	}
	if got := f.Percent(decimal.NewFromInt(50)); got != "50.0" {
		t.Fatalf("Percent = %q, want 50.0", got)
	}
}

func TestFormatterGrouping(t *testing.T) {
	tests := []struct {
		locale string
		format func(Formatter, decimal.Decimal) string
		in     string
		want   string
	}{
		{"en", Formatter.USD, "1234567.891", "1,234,567.89"},
		{"id", Formatter.USD, "1234567.891", "1.234.567,89"},
		{"en", Formatter.Native, "50000", "50,000.0000"},
		{"id", Formatter.Percent, "99.95", "100,0"},
		{"en", Formatter.USD, "999.999", "1,000.00"},
		{"en", Formatter.USD, "-1234.5", "-1,234.50"},
		{"fr", Formatter.USD, "1234", "1,234.00"},
	}
	for _, tc := range tests {
		got := tc.format(NewFormatter(tc.locale), decimal.RequireFromString(tc.in))
		if got != tc.want {
			t.Errorf("%s %s = %q, want %q", tc.locale, tc.in, got, tc.want)
		}
	}
}

func TestFormatterKeepsEveryDigit(t *testing.T) {
	// 20 integer digits plus 4 decimals overflow float64 precision.
	total := decimal.RequireFromString("12345678901234567890.1234")
	want := "12,345,678,901,234,567,890.1234"
	if got := NewFormatter("en").Native(total); got != want {
		t.Fatalf("Native = %q, want %q", got, want)
	}
}

func TestShortAddress(t *testing.T) {
	if got := ShortAddress(beneficiary); got != "0xAbCd...Ef01" {
		t.Fatalf("ShortAddress = %q, want 0xAbCd...Ef01", got)
	}
	if got := ShortAddress("0x1234"); got != "0x1234" {
		t.Fatalf("short input should be returned as is, got %q", got)
	}
}

package campaign

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		name   string
		raised string
		goal   string
		want   string
	}{
		{name: "half", raised: "25000", goal: "50000", want: "50"},
		{name: "exactly funded", raised: "50000", goal: "50000", want: "100"},
		{name: "overfunded caps", raised: "80000", goal: "50000", want: "100"},
		{name: "nothing raised", raised: "0", goal: "50000", want: "0"},
		{name: "zero goal", raised: "10", goal: "0", want: "0"},
		{name: "negative goal", raised: "10", goal: "-5", want: "0"},
		{name: "negative raised", raised: "-10", goal: "50", want: "0"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ProgressPercent(decimal.RequireFromString(tc.raised), decimal.RequireFromString(tc.goal))
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Fatalf("ProgressPercent(%s, %s) = %s, want %s", tc.raised, tc.goal, got, tc.want)
			}
		})
	}
}

func TestProgressPercentBounded(t *testing.T) {
	values := []int64{0, 1, 7, 99, 100, 101, 5000, 1 << 40}
	for _, r := range values {
		for _, g := range values {
			got := ProgressPercent(decimal.NewFromInt(r), decimal.NewFromInt(g))
			if got.IsNegative() || got.GreaterThan(hundred) {
				t.Fatalf("ProgressPercent(%d, %d) = %s out of range", r, g, got)
			}
			if g > 0 && r >= g && !got.Equal(hundred) {
				t.Fatalf("ProgressPercent(%d, %d) = %s, want 100", r, g, got)
			}
		}
	}
}

func TestGoalConversionScenario(t *testing.T) {
	rate := ParseRate("0.02")
	goal := USDToNative(ParseAmount("1000"), rate)
	if !goal.Equal(decimal.NewFromInt(50000)) {
		t.Fatalf("goal = %s, want 50000", goal)
	}
	got := ProgressPercent(ParseAmount("25000"), goal)
	if got.StringFixed(1) != "50.0" {
		t.Fatalf("progress = %s, want 50.0", got.StringFixed(1))
	}
}

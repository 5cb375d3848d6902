package campaign

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ProgressPercent returns raised/goal as a percentage in [0, 100]. A goal
// that is zero or unknown makes no progress claim.
func ProgressPercent(raised, goal decimal.Decimal) decimal.Decimal {
	if !goal.IsPositive() || !raised.IsPositive() {
		return decimal.Zero
	}
	pct := raised.Div(goal).Mul(hundred)
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}

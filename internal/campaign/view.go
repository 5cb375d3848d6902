package campaign

import (
	"time"

	"github.com/shopspring/decimal"

	"fledge/internal/domain"
)

// View bundles every value derived for one campaign card at one instant.
// It is rebuilt on each request and never stored.
type View struct {
	Facts       domain.CampaignFacts
	State       domain.CampaignState
	Label       string
	Eligibility domain.ActionEligibility
	Rate        decimal.Decimal
	GoalNative  decimal.Decimal
	RaisedUSD   decimal.Decimal
	Progress    decimal.Decimal
	Countdown   Countdown
	RateKnown   bool
}

// BuildView derives the display values for facts at rate and now.
func BuildView(facts domain.CampaignFacts, rate decimal.Decimal, now time.Time, viewer string) View {
	state, eligibility := Classify(facts, now, viewer)
	goalNative := USDToNative(facts.FundingGoalUSD, rate)
	return View{
		Facts:       facts,
		State:       state,
		Label:       StatusLabel(state),
		Eligibility: eligibility,
		Rate:        rate,
		GoalNative:  goalNative,
		RaisedUSD:   NativeToUSD(facts.TotalRaisedNative, rate),
		Progress:    ProgressPercent(facts.TotalRaisedNative, goalNative),
		Countdown:   DaysRemaining(facts.Deadline, now),
		RateKnown:   rate.IsPositive(),
	}
}

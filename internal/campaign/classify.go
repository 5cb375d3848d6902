package campaign

import (
	"strings"
	"time"

	"fledge/internal/domain"
)

// State resolves the lifecycle state. The raw flags overlap, so the order
// of the checks is significant: closed wins over goal reached, which wins
// over expiry.
func State(facts domain.CampaignFacts, now time.Time) domain.CampaignState {
	switch {
	case facts.CampaignClosed:
		return domain.StateClosed
	case facts.FundingGoalReached:
		return domain.StateGoalReached
	case DaysRemaining(facts.Deadline, now).Expired:
		return domain.StateExpired
	default:
		return domain.StateActive
	}
}

// Classify returns the campaign state and what viewer may do with it.
// viewer may be empty for anonymous callers.
func Classify(facts domain.CampaignFacts, now time.Time, viewer string) (domain.CampaignState, domain.ActionEligibility) {
	state := State(facts, now)
	return state, domain.ActionEligibility{
		CanContribute:  state == domain.StateActive,
		CanFinalize:    state == domain.StateGoalReached,
		CanWithdraw:    facts.FundingGoalReached && !facts.CampaignClosed && SameAddress(viewer, facts.Beneficiary),
		CanClaimRefund: facts.CampaignClosed && !facts.FundingGoalReached && facts.UserContribution != nil && facts.UserContribution.Sign() > 0,
	}
}

// SameAddress compares two hex addresses ignoring checksum casing.
func SameAddress(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	return strings.EqualFold(a, b)
}

// StatusLabel is the badge text shown for a state.
func StatusLabel(state domain.CampaignState) string {
	switch state {
	case domain.StateClosed:
		return "Closed"
	case domain.StateGoalReached:
		return "Goal Reached"
	case domain.StateExpired:
		return "Expired"
	default:
		return "Active"
	}
}

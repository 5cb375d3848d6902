package domain

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// CampaignState is the lifecycle bucket a campaign is displayed under.
type CampaignState string

const (
	StateActive      CampaignState = "active"
	StateGoalReached CampaignState = "goal_reached"
	StateExpired     CampaignState = "expired"
	StateClosed      CampaignState = "closed"
)

// CampaignFacts is an immutable snapshot of a campaign as mirrored from the chain.
type CampaignFacts struct {
	Address            string
	Title              string
	Beneficiary        string
	FundingGoalUSD     decimal.Decimal
	TotalRaisedNative  decimal.Decimal
	Deadline           time.Time
	FundingGoalReached bool
	CampaignClosed     bool
	// UserContribution is the viewer's contribution in wei. Nil when unknown.
	UserContribution *big.Int
}

// ActionEligibility lists the actions a viewer may take on a campaign.
type ActionEligibility struct {
	CanContribute  bool `json:"can_contribute"`
	CanFinalize    bool `json:"can_finalize"`
	CanWithdraw    bool `json:"can_withdraw"`
	CanClaimRefund bool `json:"can_claim_refund"`
}

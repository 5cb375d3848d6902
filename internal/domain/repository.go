package domain

import (
	"context"
	"math/big"
)

// CampaignDirectory lists the campaign addresses known to the factory contract.
type CampaignDirectory interface {
	CampaignAddresses(ctx context.Context) ([]string, error)
}

// CampaignFactsProvider loads the current facts of a single campaign.
type CampaignFactsProvider interface {
	CampaignFacts(ctx context.Context, address string) (*CampaignFacts, error)
}

// ContributionLedger reports how much a contributor has put into a campaign.
type ContributionLedger interface {
	Contribution(ctx context.Context, campaign, contributor string) (*big.Int, error)
}

// PriceProvider returns the native token price in USD as a decimal string.
type PriceProvider interface {
	Price(ctx context.Context) (string, error)
}

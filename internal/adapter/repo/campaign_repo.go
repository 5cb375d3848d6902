package repo

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"fledge/internal/campaign"
	"fledge/internal/domain"
	"fledge/internal/infra"
	"fledge/internal/sqlinline"
)

// CampaignRepositoryPG reads the indexer's campaign mirror in PostgreSQL.
type CampaignRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewCampaignRepository creates a new campaign repo.
func NewCampaignRepository(sql infra.SQLExecutor) *CampaignRepositoryPG {
	return &CampaignRepositoryPG{sql: sql}
}

// CampaignAddresses returns every known campaign address.
func (r *CampaignRepositoryPG) CampaignAddresses(ctx context.Context) ([]string, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListCampaignAddresses)
	if err != nil {
		return nil, feedError("list campaigns", err)
	}
	defer rows.Close()

	var addresses []string
	for rows.Next() {
		var address string
		if err := rows.Scan(&address); err != nil {
			return nil, feedError("scan campaign address", err)
		}
		addresses = append(addresses, address)
	}
	if err := rows.Err(); err != nil {
		return nil, feedError("list campaigns", err)
	}
	return addresses, nil
}

// CampaignFacts loads the facts of a single campaign. Out-of-range amounts
// are clamped to zero rather than rejected.
func (r *CampaignRepositoryPG) CampaignFacts(ctx context.Context, address string) (*domain.CampaignFacts, error) {
	var (
		facts    domain.CampaignFacts
		goal     string
		raised   string
		deadline int64
	)
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("campaign repo: empty campaign address: %w", domain.ErrInvalidInput)
	}
	err := r.sql.QueryRow(ctx, sqlinline.QSelectCampaignFacts, address).Scan(
		&facts.Address,
		&facts.Title,
		&facts.Beneficiary,
		&goal,
		&raised,
		&deadline,
		&facts.FundingGoalReached,
		&facts.CampaignClosed,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, fmt.Errorf("campaign repo: campaign %s: %w", address, domain.ErrNotFound)
		}
		return nil, feedError("load campaign "+address, err)
	}
	facts.FundingGoalUSD = campaign.ParseAmount(goal)
	facts.TotalRaisedNative = campaign.ParseAmount(raised)
	facts.Deadline = time.Unix(deadline, 0)
	return &facts, nil
}

// Contribution returns the total a contributor has sent to a campaign, in
// wei. An empty contributor yields nil.
func (r *CampaignRepositoryPG) Contribution(ctx context.Context, campaignAddress, contributor string) (*big.Int, error) {
	contributor = strings.TrimSpace(contributor)
	if contributor == "" {
		return nil, nil
	}
	var raw string
	err := r.sql.QueryRow(ctx, sqlinline.QSelectContribution, strings.TrimSpace(campaignAddress), contributor).Scan(&raw)
	if err != nil {
		if infra.IsNoRows(err) {
			return new(big.Int), nil
		}
		return nil, feedError("load contribution", err)
	}
	amount, ok := new(big.Int).SetString(strings.TrimSpace(raw), 10)
	if !ok || amount.Sign() < 0 {
		return new(big.Int), nil
	}
	return amount, nil
}

func feedError(op string, err error) error {
	return fmt.Errorf("campaign repo: %s: %w: %w", op, domain.ErrFeedUnavailable, err)
}

var (
	_ domain.CampaignDirectory     = (*CampaignRepositoryPG)(nil)
	_ domain.CampaignFactsProvider = (*CampaignRepositoryPG)(nil)
	_ domain.ContributionLedger    = (*CampaignRepositoryPG)(nil)
)

package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"fledge/internal/campaign"
	"fledge/internal/domain"
	"fledge/internal/middleware"
	"fledge/internal/scheduler"
)

type campaignResponse struct {
	Address          string                   `json:"address"`
	ShortAddress     string                   `json:"short_address"`
	Title            string                   `json:"title"`
	Beneficiary      string                   `json:"beneficiary"`
	State            domain.CampaignState     `json:"state"`
	Label            string                   `json:"label"`
	Bucket           scheduler.Bucket         `json:"bucket,omitempty"`
	Eligibility      domain.ActionEligibility `json:"eligibility"`
	FundingGoalUSD   string                   `json:"funding_goal_usd"`
	FundingGoal      string                   `json:"funding_goal_native"`
	TotalRaised      string                   `json:"total_raised_native"`
	TotalRaisedUSD   string                   `json:"total_raised_usd"`
	Progress         string                   `json:"progress_percent"`
	Deadline         int64                    `json:"deadline"`
	Countdown        campaign.Countdown       `json:"countdown"`
	UserContribution string                   `json:"user_contribution,omitempty"`
	RateKnown        bool                     `json:"rate_known"`
	Display          campaignDisplay          `json:"display"`
}

type campaignDisplay struct {
	Locale         string `json:"locale"`
	FundingGoalUSD string `json:"funding_goal_usd"`
	FundingGoal    string `json:"funding_goal_native"`
	TotalRaised    string `json:"total_raised_native"`
	TotalRaisedUSD string `json:"total_raised_usd"`
	Progress       string `json:"progress_percent"`
	Countdown      string `json:"countdown"`
}

// ListCampaigns returns the current active/completed partition.
func (a *App) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, a.Tracker.Scheduler().Partition())
}

// GetCampaign renders the derived view of one campaign, optionally from the
// perspective of the ?viewer= address.
func (a *App) GetCampaign(w http.ResponseWriter, r *http.Request) {
	address := strings.TrimSpace(chi.URLParam(r, "address"))
	if !validAddress(address) {
		a.error(w, http.StatusBadRequest, "invalid_address", "campaign address must be 0x followed by 40 hex characters")
		return
	}
	viewer := strings.TrimSpace(r.URL.Query().Get("viewer"))
	if viewer != "" && !validAddress(viewer) {
		a.error(w, http.StatusBadRequest, "invalid_viewer", "viewer must be 0x followed by 40 hex characters")
		return
	}

	ctx := r.Context()
	facts, err := a.loadFacts(ctx, address)
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		a.error(w, http.StatusBadRequest, "invalid_address", err.Error())
		return
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "campaign not found")
		return
	case err != nil:
		a.Logger.Warn().Err(err).Str("address", address).Msg("campaign facts unavailable")
		a.error(w, http.StatusServiceUnavailable, "feed_unavailable", "campaign data is temporarily unavailable")
		return
	}

	if viewer != "" && a.Campaigns != nil {
		contribution, err := a.Campaigns.Contribution(ctx, address, viewer)
		if err != nil {
			a.Logger.Warn().Err(err).Str("address", address).Str("viewer", viewer).Msg("contribution lookup failed")
		} else {
			facts.UserContribution = contribution
		}
	}

	view := campaign.BuildView(facts, a.Tracker.Rate(), a.now(), viewer)
	locale := middleware.LocaleFromContext(ctx)
	a.json(w, http.StatusOK, a.campaignResponse(view, locale))
}

// loadFacts prefers the live repository and falls back to the tracker's
// last snapshot while the repository is unavailable.
func (a *App) loadFacts(ctx context.Context, address string) (domain.CampaignFacts, error) {
	if a.Campaigns == nil {
		if facts, ok := a.Tracker.Facts(address); ok {
			return facts, nil
		}
		return domain.CampaignFacts{}, domain.ErrNotFound
	}
	facts, err := a.Campaigns.CampaignFacts(ctx, address)
	if err == nil {
		return *facts, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return domain.CampaignFacts{}, err
	}
	if cached, ok := a.Tracker.Facts(address); ok {
		a.Logger.Debug().Err(err).Str("address", address).Msg("serving cached campaign facts")
		return cached, nil
	}
	return domain.CampaignFacts{}, err
}

func (a *App) campaignResponse(v campaign.View, locale string) campaignResponse {
	f := campaign.NewFormatter(locale)
	resp := campaignResponse{
		Address:        v.Facts.Address,
		ShortAddress:   campaign.ShortAddress(v.Facts.Address),
		Title:          v.Facts.Title,
		Beneficiary:    v.Facts.Beneficiary,
		State:          v.State,
		Label:          v.Label,
		Bucket:         a.Tracker.Scheduler().BucketOf(v.Facts.Address),
		Eligibility:    v.Eligibility,
		FundingGoalUSD: v.Facts.FundingGoalUSD.String(),
		FundingGoal:    v.GoalNative.String(),
		TotalRaised:    v.Facts.TotalRaisedNative.String(),
		TotalRaisedUSD: v.RaisedUSD.String(),
		Progress:       v.Progress.String(),
		Deadline:       v.Facts.Deadline.Unix(),
		Countdown:      v.Countdown,
		RateKnown:      v.RateKnown,
		Display: campaignDisplay{
			Locale:         locale,
			FundingGoalUSD: f.USD(v.Facts.FundingGoalUSD),
			FundingGoal:    f.Native(v.GoalNative),
			TotalRaised:    f.Native(v.Facts.TotalRaisedNative),
			TotalRaisedUSD: f.USD(v.RaisedUSD),
			Progress:       f.Percent(v.Progress),
			Countdown:      v.Countdown.String(),
		},
	}
	if v.Facts.UserContribution != nil {
		resp.UserContribution = v.Facts.UserContribution.String()
	}
	return resp
}

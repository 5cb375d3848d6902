package handlers

import (
	"net/http"
	"strings"
	"time"

	"fledge/internal/campaign"
	"fledge/internal/middleware"
)

type priceResponse struct {
	Symbol    string `json:"symbol"`
	Rate      string `json:"rate"`
	Formatted string `json:"formatted"`
	Known     bool   `json:"known"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

type quoteResponse struct {
	Amount    string `json:"amount"`
	Rate      string `json:"rate"`
	USD       string `json:"usd"`
	Formatted string `json:"formatted"`
	Known     bool   `json:"known"`
}

// Price returns the last known native/USD rate. An unknown rate is reported
// as zero with known=false rather than as an error.
func (a *App) Price(w http.ResponseWriter, r *http.Request) {
	rate := a.Tracker.Rate()
	f := campaign.NewFormatter(middleware.LocaleFromContext(r.Context()))
	resp := priceResponse{
		Symbol:    a.Symbol,
		Rate:      rate.String(),
		Formatted: f.USD(rate),
		Known:     rate.IsPositive(),
	}
	if at := a.Tracker.RateUpdatedAt(); !at.IsZero() {
		resp.UpdatedAt = at.UTC().Format(time.RFC3339)
	}
	a.json(w, http.StatusOK, resp)
}

// Quote previews the USD value of a contribution of ?amount= native tokens.
func (a *App) Quote(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("amount"))
	if raw == "" {
		a.error(w, http.StatusBadRequest, "missing_amount", "amount query parameter is required")
		return
	}
	amount := campaign.ParseAmount(raw)
	rate := a.Tracker.Rate()
	usd := campaign.QuoteContribution(raw, rate)
	f := campaign.NewFormatter(middleware.LocaleFromContext(r.Context()))
	a.json(w, http.StatusOK, quoteResponse{
		Amount:    amount.String(),
		Rate:      rate.String(),
		USD:       usd.String(),
		Formatted: f.USD(usd),
		Known:     rate.IsPositive(),
	})
}

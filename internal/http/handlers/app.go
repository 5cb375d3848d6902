package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"time"

	"fledge/internal/domain"
	"fledge/internal/infra"
	"fledge/internal/tracker"
)

// CampaignReader is the live campaign lookup used by the detail endpoint.
type CampaignReader interface {
	domain.CampaignFactsProvider
	domain.ContributionLedger
}

// App holds the dependencies shared by every handler.
type App struct {
	Tracker   *tracker.Tracker
	Campaigns CampaignReader
	Symbol    string
	Logger    infra.Logger
	Now       func() time.Time
}

func NewApp(tr *tracker.Tracker, campaigns CampaignReader, symbol string, logger infra.Logger) *App {
	return &App{
		Tracker:   tr,
		Campaigns: campaigns,
		Symbol:    symbol,
		Logger:    infra.Component(logger, "http"),
		Now:       time.Now,
	}
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, errorBody{Error: errorDetail{Code: errCode, Message: message}})
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

var hexAddress = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

func validAddress(address string) bool {
	return hexAddress.MatchString(strings.TrimSpace(address))
}

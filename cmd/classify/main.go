package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"fledge/internal/adapter/repo"
	"fledge/internal/campaign"
	"fledge/internal/infra"
	"fledge/internal/providers/price"
	"fledge/internal/scheduler"
	"fledge/internal/tracker"
)

type campaignLine struct {
	Address     string `json:"address"`
	Title       string `json:"title"`
	State       string `json:"state"`
	Label       string `json:"label"`
	Progress    string `json:"progress_percent"`
	Countdown   string `json:"countdown"`
	RaisedUSD   string `json:"total_raised_usd"`
	GoalNative  string `json:"funding_goal_native"`
	CanWithdraw bool   `json:"can_withdraw,omitempty"`
}

type report struct {
	Rate      string              `json:"rate"`
	Partition scheduler.Partition `json:"partition"`
	Campaigns []campaignLine      `json:"campaigns"`
}

func main() {
	var (
		viewerFlag  string
		localeFlag  string
		timeoutFlag time.Duration
	)

	flag.StringVar(&viewerFlag, "viewer", "", "address to evaluate withdraw eligibility for")
	flag.StringVar(&localeFlag, "locale", "en", "display locale (en, id)")
	flag.DurationVar(&timeoutFlag, "timeout", 30*time.Second, "overall deadline for the refresh")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		exitWithError(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeoutFlag)
	defer cancel()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "classify").Logger()
	campaigns := repo.NewCampaignRepository(infra.NewSQLRunner(pool, logger))

	prices, err := price.NewClient(price.Options{BaseURL: cfg.PriceFeedURL, Symbol: cfg.PriceSymbol, Logger: &logger})
	if err != nil {
		exitWithError(err)
	}

	tr, err := tracker.New(tracker.Options{
		Directory:   campaigns,
		Facts:       campaigns,
		Prices:      prices,
		Logger:      &logger,
		Concurrency: cfg.FactsConcurrency,
	})
	if err != nil {
		exitWithError(err)
	}

	if err := tr.RefreshPrice(ctx); err != nil {
		logger.Warn().Err(err).Msg("price unavailable, USD values will be zero")
	}
	if err := tr.Refresh(ctx); err != nil {
		exitWithError(fmt.Errorf("failed to refresh campaigns: %w", err))
	}

	sched := tr.Scheduler()
	if pending := sched.Pending(); len(pending) > 0 {
		logger.Warn().Strs("campaigns", pending).Msg("some campaigns could not be classified")
	}

	now := time.Now()
	rate := tr.Rate()
	f := campaign.NewFormatter(localeFlag)
	out := report{Rate: rate.String(), Partition: sched.Partition(), Campaigns: []campaignLine{}}
	for _, address := range sched.Tracked() {
		facts, ok := tr.Facts(address)
		if !ok {
			continue
		}
		v := campaign.BuildView(facts, rate, now, strings.TrimSpace(viewerFlag))
		out.Campaigns = append(out.Campaigns, campaignLine{
			Address:     facts.Address,
			Title:       facts.Title,
			State:       string(v.State),
			Label:       v.Label,
			Progress:    f.Percent(v.Progress),
			Countdown:   v.Countdown.String(),
			RaisedUSD:   f.USD(v.RaisedUSD),
			GoalNative:  f.Native(v.GoalNative),
			CanWithdraw: v.Eligibility.CanWithdraw,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		exitWithError(fmt.Errorf("failed to encode report: %w", err))
	}
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

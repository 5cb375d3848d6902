// Package tracker drives the scheduler from the external campaign and price
// feeds. It is the only writer to the scheduler; failed fetches leave the
// last good state in place.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"fledge/internal/campaign"
	"fledge/internal/domain"
	"fledge/internal/infra"
	"fledge/internal/scheduler"
)

const (
	defaultPollInterval  = 15 * time.Second
	defaultPriceInterval = 30 * time.Second
	defaultConcurrency   = 4
)

// Options wires the tracker to its feeds.
type Options struct {
	Directory domain.CampaignDirectory
	Facts     domain.CampaignFactsProvider
	Prices    domain.PriceProvider
	Scheduler *scheduler.Scheduler
	Logger    *infra.Logger

	PollInterval  time.Duration
	PriceInterval time.Duration
	// EpochMaxAge forces a new epoch for an unchanged address set once the
	// current one is this old, so deadline expiry and on-chain changes are
	// eventually picked up. Zero disables it.
	EpochMaxAge time.Duration
	Concurrency int
	Now         func() time.Time
}

// Tracker keeps the scheduler, the latest rate and the latest facts in sync
// with the feeds.
type Tracker struct {
	directory domain.CampaignDirectory
	facts     domain.CampaignFactsProvider
	prices    domain.PriceProvider
	sched     *scheduler.Scheduler
	logger    infra.Logger

	pollInterval  time.Duration
	priceInterval time.Duration
	epochMaxAge   time.Duration
	concurrency   int
	now           func() time.Time

	mu           sync.RWMutex
	rate         decimal.Decimal
	rateAt       time.Time
	snapshots    map[string]domain.CampaignFacts
	epochStarted time.Time
}

// New validates opts and builds a tracker.
func New(opts Options) (*Tracker, error) {
	if opts.Directory == nil || opts.Facts == nil || opts.Prices == nil {
		return nil, errors.New("tracker: directory, facts and price providers are required")
	}
	sched := opts.Scheduler
	if sched == nil {
		sched = scheduler.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.DiscardLogger()
	}
	t := &Tracker{
		directory:     opts.Directory,
		facts:         opts.Facts,
		prices:        opts.Prices,
		sched:         sched,
		logger:        infra.Component(*logger, "tracker"),
		pollInterval:  opts.PollInterval,
		priceInterval: opts.PriceInterval,
		epochMaxAge:   opts.EpochMaxAge,
		concurrency:   opts.Concurrency,
		now:           opts.Now,
		snapshots:     make(map[string]domain.CampaignFacts),
	}
	if t.pollInterval <= 0 {
		t.pollInterval = defaultPollInterval
	}
	if t.priceInterval <= 0 {
		t.priceInterval = defaultPriceInterval
	}
	if t.concurrency <= 0 {
		t.concurrency = defaultConcurrency
	}
	if t.now == nil {
		t.now = time.Now
	}
	return t, nil
}

// Scheduler exposes the scheduler for readers.
func (t *Tracker) Scheduler() *scheduler.Scheduler {
	return t.sched
}

// Rate returns the last known rate; zero means unknown.
func (t *Tracker) Rate() decimal.Decimal {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rate
}

// RateUpdatedAt returns when the rate was last refreshed successfully.
func (t *Tracker) RateUpdatedAt() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rateAt
}

// Facts returns the last facts fetched for a tracked address.
func (t *Tracker) Facts(address string) (domain.CampaignFacts, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	facts, ok := t.snapshots[strings.ToLower(strings.TrimSpace(address))]
	return facts, ok
}

// Run refreshes on the configured cadences until ctx is cancelled.
func (t *Tracker) Run(ctx context.Context) error {
	t.logger.Info().
		Dur("poll_interval", t.pollInterval).
		Dur("price_interval", t.priceInterval).
		Msg("tracker: started")

	t.refreshPriceLogged(ctx)
	t.refreshLogged(ctx)

	poll := time.NewTicker(t.pollInterval)
	defer poll.Stop()
	price := time.NewTicker(t.priceInterval)
	defer price.Stop()

	for {
		select {
		case <-ctx.Done():
			t.logger.Info().Msg("tracker: stopped")
			return ctx.Err()
		case <-price.C:
			t.refreshPriceLogged(ctx)
		case <-poll.C:
			t.refreshLogged(ctx)
		}
	}
}

// Refresh reloads the address set, then classifies whatever is pending.
func (t *Tracker) Refresh(ctx context.Context) error {
	if err := t.RefreshAddresses(ctx); err != nil {
		return err
	}
	return t.RefreshFacts(ctx)
}

// RefreshAddresses reloads the tracked set. A changed set, or an epoch older
// than EpochMaxAge, starts a new epoch.
func (t *Tracker) RefreshAddresses(ctx context.Context) error {
	addresses, err := t.directory.CampaignAddresses(ctx)
	if err != nil {
		return fmt.Errorf("tracker: refresh addresses: %w", err)
	}
	now := t.now()
	changed := t.sched.Track(addresses)
	if !changed && t.epochExpired(now) {
		t.sched.Reset(addresses)
		changed = true
	}
	if !changed {
		return nil
	}

	tracked := make(map[string]struct{}, len(addresses))
	for _, address := range addresses {
		tracked[strings.ToLower(strings.TrimSpace(address))] = struct{}{}
	}
	t.mu.Lock()
	t.epochStarted = now
	for k := range t.snapshots {
		if _, ok := tracked[k]; !ok {
			delete(t.snapshots, k)
		}
	}
	t.mu.Unlock()

	t.logger.Info().
		Uint64("epoch", t.sched.Epoch()).
		Int("campaigns", len(tracked)).
		Msg("tracker: new epoch")
	return nil
}

// RefreshFacts fetches and classifies every address still pending in the
// current epoch. A failed fetch skips that address until the next pass.
func (t *Tracker) RefreshFacts(ctx context.Context) error {
	epoch := t.sched.Epoch()
	pending := t.sched.Pending()
	if len(pending) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.concurrency)
	for _, address := range pending {
		g.Go(func() error {
			facts, err := t.facts.CampaignFacts(gctx, address)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				t.logger.Warn().Err(err).Str("campaign", address).Msg("tracker: facts unavailable")
				return nil
			}
			t.apply(epoch, address, *facts)
			return nil
		})
	}
	return g.Wait()
}

// RefreshPrice updates the rate. A failed fetch keeps the last known rate;
// an unparseable value resets it to unknown.
func (t *Tracker) RefreshPrice(ctx context.Context) error {
	raw, err := t.prices.Price(ctx)
	if err != nil {
		return fmt.Errorf("tracker: refresh price: %w", err)
	}
	rate := campaign.ParseRate(raw)
	t.mu.Lock()
	t.rate = rate
	t.rateAt = t.now()
	t.mu.Unlock()
	if rate.IsZero() {
		t.logger.Warn().Str("raw", raw).Msg("tracker: price unknown")
	}
	return nil
}

func (t *Tracker) apply(epoch uint64, address string, facts domain.CampaignFacts) {
	delta, err := t.sched.ApplyInEpoch(epoch, address, facts, t.now())
	if err != nil {
		if errors.Is(err, domain.ErrStaleAddress) {
			t.logger.Debug().Err(err).Str("campaign", address).Msg("tracker: dropped stale result")
			return
		}
		t.logger.Error().Err(err).Str("campaign", address).Msg("tracker: apply failed")
		return
	}
	t.mu.Lock()
	t.snapshots[strings.ToLower(strings.TrimSpace(address))] = facts
	t.mu.Unlock()
	if delta.Moved() {
		t.logger.Info().
			Str("campaign", delta.Address).
			Str("state", string(delta.State)).
			Str("from", string(delta.From)).
			Str("to", string(delta.To)).
			Msg("tracker: campaign reclassified")
	}
}

func (t *Tracker) epochExpired(now time.Time) bool {
	if t.epochMaxAge <= 0 {
		return false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return !t.epochStarted.IsZero() && now.Sub(t.epochStarted) >= t.epochMaxAge
}

func (t *Tracker) refreshLogged(ctx context.Context) {
	if err := t.Refresh(ctx); err != nil && ctx.Err() == nil {
		t.logger.Warn().Err(err).Msg("tracker: refresh failed, keeping previous partition")
	}
}

func (t *Tracker) refreshPriceLogged(ctx context.Context) {
	if err := t.RefreshPrice(ctx); err != nil && ctx.Err() == nil {
		t.logger.Warn().Err(err).Msg("tracker: price refresh failed, keeping last rate")
	}
}

// Package scheduler keeps tracked campaigns partitioned into active and
// completed buckets as their facts arrive.
//
// Each address is classified at most once per epoch. An epoch ends when the
// tracked address set is reset, which clears the per-address classification
// but leaves every surviving address in its last bucket until it is
// classified again, so readers never see a campaign vanish or appear twice.
package scheduler

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"fledge/internal/campaign"
	"fledge/internal/domain"
)

// Bucket is one side of the partition.
type Bucket string

const (
	BucketNone      Bucket = ""
	BucketActive    Bucket = "active"
	BucketCompleted Bucket = "completed"
)

// Delta reports what a single facts update did to the partition.
type Delta struct {
	Address string
	State   domain.CampaignState
	From    Bucket
	To      Bucket
	// Deduped is set when the address was already classified this epoch and
	// the update was ignored.
	Deduped bool
}

// Moved reports whether the address changed bucket.
func (d Delta) Moved() bool {
	return !d.Deduped && d.From != d.To
}

// Partition is a sorted snapshot of both buckets.
type Partition struct {
	Epoch     uint64   `json:"epoch"`
	Active    []string `json:"active"`
	Completed []string `json:"completed"`
}

type entry struct {
	address    string
	bucket     Bucket
	state      domain.CampaignState
	classified bool
}

// Scheduler owns the partition and the per-epoch dedup memory.
type Scheduler struct {
	mu      sync.RWMutex
	epoch   uint64
	entries map[string]*entry
}

// New returns a scheduler tracking nothing.
func New() *Scheduler {
	return &Scheduler{entries: make(map[string]*entry)}
}

// Track replaces the tracked set and starts a new epoch, but only when the
// set differs from the current one (ignoring order and casing).
func (s *Scheduler) Track(addresses []string) bool {
	next := normalize(addresses)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sameSet(next) {
		return false
	}
	s.reset(next)
	return true
}

// Reset starts a new epoch unconditionally, making every address eligible
// for classification again.
func (s *Scheduler) Reset(addresses []string) {
	next := normalize(addresses)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset(next)
}

// OnFactsUpdate classifies address in the current epoch.
func (s *Scheduler) OnFactsUpdate(address string, facts domain.CampaignFacts, now time.Time) (Delta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(address, facts, now)
}

// ApplyInEpoch is OnFactsUpdate for results fetched during epoch. Results
// that outlived their epoch are rejected with domain.ErrStaleAddress.
func (s *Scheduler) ApplyInEpoch(epoch uint64, address string, facts domain.CampaignFacts, now time.Time) (Delta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		return Delta{Address: address}, fmt.Errorf("scheduler: epoch %d superseded by %d: %w", epoch, s.epoch, domain.ErrStaleAddress)
	}
	return s.apply(address, facts, now)
}

// Epoch returns the current epoch counter.
func (s *Scheduler) Epoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

// IsTracked reports whether address belongs to the tracked set.
func (s *Scheduler) IsTracked(address string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[key(address)]
	return ok
}

// State returns the state address was classified with in this epoch.
func (s *Scheduler) State(address string) (domain.CampaignState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key(address)]
	if !ok || !e.classified {
		return "", false
	}
	return e.state, true
}

// BucketOf returns the bucket address currently sits in, or BucketNone when
// it is not tracked.
func (s *Scheduler) BucketOf(address string) Bucket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.entries[key(address)]; ok {
		return e.bucket
	}
	return BucketNone
}

// Tracked returns every tracked address in display order.
func (s *Scheduler) Tracked() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.address)
	}
	slices.Sort(out)
	return out
}

// Pending returns the tracked addresses not yet classified this epoch.
func (s *Scheduler) Pending() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for _, e := range s.entries {
		if !e.classified {
			out = append(out, e.address)
		}
	}
	slices.Sort(out)
	return out
}

// Partition returns sorted copies of both buckets.
func (s *Scheduler) Partition() Partition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := Partition{Epoch: s.epoch, Active: []string{}, Completed: []string{}}
	for _, e := range s.entries {
		switch e.bucket {
		case BucketActive:
			p.Active = append(p.Active, e.address)
		case BucketCompleted:
			p.Completed = append(p.Completed, e.address)
		}
	}
	slices.Sort(p.Active)
	slices.Sort(p.Completed)
	return p
}

func (s *Scheduler) apply(address string, facts domain.CampaignFacts, now time.Time) (Delta, error) {
	e, ok := s.entries[key(address)]
	if !ok {
		return Delta{Address: address}, fmt.Errorf("scheduler: %s is not tracked: %w", address, domain.ErrStaleAddress)
	}
	if e.classified {
		return Delta{Address: e.address, State: e.state, From: e.bucket, To: e.bucket, Deduped: true}, nil
	}
	state := campaign.State(facts, now)
	to := BucketCompleted
	if state == domain.StateActive {
		to = BucketActive
	}
	delta := Delta{Address: e.address, State: state, From: e.bucket, To: to}
	e.bucket = to
	e.state = state
	e.classified = true
	return delta, nil
}

func (s *Scheduler) reset(next map[string]string) {
	s.epoch++
	entries := make(map[string]*entry, len(next))
	for k, address := range next {
		bucket := BucketActive
		if prev, ok := s.entries[k]; ok {
			bucket = prev.bucket
		}
		entries[k] = &entry{address: address, bucket: bucket}
	}
	s.entries = entries
}

func (s *Scheduler) sameSet(next map[string]string) bool {
	if len(next) != len(s.entries) {
		return false
	}
	for k := range next {
		if _, ok := s.entries[k]; !ok {
			return false
		}
	}
	return true
}

// normalize keys addresses case-insensitively, keeping the first spelling seen.
func normalize(addresses []string) map[string]string {
	out := make(map[string]string, len(addresses))
	for _, address := range addresses {
		address = strings.TrimSpace(address)
		if address == "" {
			continue
		}
		k := key(address)
		if _, ok := out[k]; !ok {
			out[k] = address
		}
	}
	return out
}

func key(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

package scheduler

import (
	"errors"
	"slices"
	"testing"
	"time"

	"fledge/internal/domain"
)

const (
	addrA = "0xAAAA000000000000000000000000000000000001"
	addrB = "0xBBBB000000000000000000000000000000000002"
	addrC = "0xCCCC000000000000000000000000000000000003"
)

var now = time.Unix(1_700_000_000, 0)

func activeFacts() domain.CampaignFacts {
	return domain.CampaignFacts{Deadline: now.Add(48 * time.Hour)}
}

func closedFacts() domain.CampaignFacts {
	return domain.CampaignFacts{Deadline: now.Add(48 * time.Hour), CampaignClosed: true}
}

func count(p Partition, address string) int {
	n := 0
	for _, a := range append(slices.Clone(p.Active), p.Completed...) {
		if a == address {
			n++
		}
	}
	return n
}

func TestTrackStartsEveryAddressActive(t *testing.T) {
	s := New()
	if !s.Track([]string{addrB, addrA}) {
		t.Fatalf("Track() = false for a new set")
	}
	p := s.Partition()
	if !slices.Equal(p.Active, []string{addrA, addrB}) || len(p.Completed) != 0 {
		t.Fatalf("unexpected partition %+v", p)
	}
	if got := s.Pending(); !slices.Equal(got, []string{addrA, addrB}) {
		t.Fatalf("Pending() = %v", got)
	}
}

func TestOnFactsUpdateDedupsWithinEpoch(t *testing.T) {
	s := New()
	s.Track([]string{addrA, addrB})

	d, err := s.OnFactsUpdate(addrA, closedFacts(), now)
	if err != nil {
		t.Fatalf("OnFactsUpdate: %v", err)
	}
	if d.State != domain.StateClosed || d.From != BucketActive || d.To != BucketCompleted || !d.Moved() {
		t.Fatalf("unexpected delta %+v", d)
	}

	d, err = s.OnFactsUpdate(addrA, activeFacts(), now)
	if err != nil {
		t.Fatalf("OnFactsUpdate: %v", err)
	}
	if !d.Deduped || d.Moved() {
		t.Fatalf("second update should be deduped, got %+v", d)
	}

	p := s.Partition()
	if count(p, addrA) != 1 {
		t.Fatalf("address A appears %d times in %+v", count(p, addrA), p)
	}
	if !slices.Equal(p.Completed, []string{addrA}) {
		t.Fatalf("Completed = %v, want [A]", p.Completed)
	}
	if state, ok := s.State(addrA); !ok || state != domain.StateClosed {
		t.Fatalf("State(A) = %q, %v", state, ok)
	}
}

func TestIdenticalFactsDoNotMoveAddress(t *testing.T) {
	s := New()
	s.Track([]string{addrA})
	first, _ := s.OnFactsUpdate(addrA, activeFacts(), now)
	second, _ := s.OnFactsUpdate(addrA, activeFacts(), now)
	if first.Moved() || second.Moved() {
		t.Fatalf("active facts should not move an active address: %+v %+v", first, second)
	}
	if p := s.Partition(); !slices.Equal(p.Active, []string{addrA}) || len(p.Completed) != 0 {
		t.Fatalf("unexpected partition %+v", p)
	}
}

func TestResetAllowsReclassification(t *testing.T) {
	s := New()
	s.Track([]string{addrA, addrB})
	if _, err := s.OnFactsUpdate(addrA, closedFacts(), now); err != nil {
		t.Fatalf("OnFactsUpdate: %v", err)
	}
	epoch := s.Epoch()

	if !s.Track([]string{addrA, addrB, addrC}) {
		t.Fatalf("Track() = false for a changed set")
	}
	if s.Epoch() != epoch+1 {
		t.Fatalf("epoch = %d, want %d", s.Epoch(), epoch+1)
	}
	if _, ok := s.State(addrA); ok {
		t.Fatalf("classification of A should be cleared on reset")
	}
	// A stays where it was until its new facts arrive.
	if p := s.Partition(); !slices.Equal(p.Completed, []string{addrA}) {
		t.Fatalf("Completed = %v before reclassification", p.Completed)
	}

	d, err := s.OnFactsUpdate(addrA, activeFacts(), now)
	if err != nil {
		t.Fatalf("OnFactsUpdate: %v", err)
	}
	if d.From != BucketCompleted || d.To != BucketActive || !d.Moved() {
		t.Fatalf("unexpected delta %+v", d)
	}
	p := s.Partition()
	if count(p, addrA) != 1 {
		t.Fatalf("address A appears %d times in %+v", count(p, addrA), p)
	}
	if !slices.Equal(p.Active, []string{addrA, addrB, addrC}) || len(p.Completed) != 0 {
		t.Fatalf("unexpected partition %+v", p)
	}
}

func TestTrackSameSetKeepsEpoch(t *testing.T) {
	s := New()
	s.Track([]string{addrA, addrB})
	s.OnFactsUpdate(addrA, closedFacts(), now)
	epoch := s.Epoch()

	if s.Track([]string{" " + addrB, "0xaaaa000000000000000000000000000000000001"}) {
		t.Fatalf("Track() = true for the same set in another order and casing")
	}
	if s.Epoch() != epoch {
		t.Fatalf("epoch changed from %d to %d", epoch, s.Epoch())
	}
	if _, ok := s.State(addrA); !ok {
		t.Fatalf("classification should survive an unchanged set")
	}
}

func TestResetUnconditionallyStartsEpoch(t *testing.T) {
	s := New()
	s.Track([]string{addrA})
	s.OnFactsUpdate(addrA, closedFacts(), now)
	epoch := s.Epoch()

	s.Reset([]string{addrA})
	if s.Epoch() != epoch+1 {
		t.Fatalf("epoch = %d, want %d", s.Epoch(), epoch+1)
	}
	if got := s.Pending(); !slices.Equal(got, []string{addrA}) {
		t.Fatalf("Pending() = %v, want [A]", got)
	}
}

func TestTrackDropsRemovedAddresses(t *testing.T) {
	s := New()
	s.Track([]string{addrA, addrB})
	s.OnFactsUpdate(addrB, closedFacts(), now)

	s.Track([]string{addrA})
	p := s.Partition()
	if count(p, addrB) != 0 {
		t.Fatalf("removed address still present: %+v", p)
	}
	if s.IsTracked(addrB) {
		t.Fatalf("IsTracked(B) = true after removal")
	}
}

func TestStaleAddressIsDropped(t *testing.T) {
	s := New()
	s.Track([]string{addrA})
	before := s.Partition()

	_, err := s.OnFactsUpdate(addrC, closedFacts(), now)
	if !errors.Is(err, domain.ErrStaleAddress) {
		t.Fatalf("err = %v, want ErrStaleAddress", err)
	}
	after := s.Partition()
	if !slices.Equal(before.Active, after.Active) || !slices.Equal(before.Completed, after.Completed) {
		t.Fatalf("partition changed: %+v -> %+v", before, after)
	}
}

func TestApplyInEpochRejectsOldEpoch(t *testing.T) {
	s := New()
	s.Track([]string{addrA})
	old := s.Epoch()
	s.Reset([]string{addrA})

	if _, err := s.ApplyInEpoch(old, addrA, closedFacts(), now); !errors.Is(err, domain.ErrStaleAddress) {
		t.Fatalf("err = %v, want ErrStaleAddress", err)
	}
	if _, ok := s.State(addrA); ok {
		t.Fatalf("stale result must not classify A")
	}
	if _, err := s.ApplyInEpoch(s.Epoch(), addrA, closedFacts(), now); err != nil {
		t.Fatalf("ApplyInEpoch current epoch: %v", err)
	}
}

func TestPartitionIsSorted(t *testing.T) {
	s := New()
	s.Track([]string{addrC, addrA, addrB})
	s.OnFactsUpdate(addrC, closedFacts(), now)
	s.OnFactsUpdate(addrA, closedFacts(), now)

	p := s.Partition()
	if !slices.Equal(p.Completed, []string{addrA, addrC}) {
		t.Fatalf("Completed = %v, want sorted [A C]", p.Completed)
	}
	if !slices.Equal(p.Active, []string{addrB}) {
		t.Fatalf("Active = %v, want [B]", p.Active)
	}
}

func TestExpiredAndGoalReachedAreCompleted(t *testing.T) {
	s := New()
	s.Track([]string{addrA, addrB})
	s.OnFactsUpdate(addrA, domain.CampaignFacts{Deadline: now.Add(-time.Second)}, now)
	s.OnFactsUpdate(addrB, domain.CampaignFacts{Deadline: now.Add(time.Hour), FundingGoalReached: true}, now)

	p := s.Partition()
	if !slices.Equal(p.Completed, []string{addrA, addrB}) {
		t.Fatalf("Completed = %v, want [A B]", p.Completed)
	}
}

func TestBucketOf(t *testing.T) {
	s := New()
	s.Track([]string{addrA, addrB})
	s.OnFactsUpdate(addrA, closedFacts(), now)

	if got := s.BucketOf("0xaaaa000000000000000000000000000000000001"); got != BucketCompleted {
		t.Fatalf("BucketOf(A) = %q, want completed", got)
	}
	if got := s.BucketOf(addrB); got != BucketActive {
		t.Fatalf("BucketOf(B) = %q, want active", got)
	}
	if got := s.BucketOf(addrC); got != BucketNone {
		t.Fatalf("BucketOf(C) = %q, want none", got)
	}
}

package campaign

import (
	"testing"
	"time"
)

func TestDaysRemaining(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	tests := []struct {
		name     string
		deadline time.Time
		want     Countdown
	}{
		{name: "one hour left", deadline: now.Add(time.Hour), want: Countdown{Days: 1}},
		{name: "exactly one day", deadline: now.Add(24 * time.Hour), want: Countdown{Days: 1}},
		{name: "one day and a second", deadline: now.Add(24*time.Hour + time.Second), want: Countdown{Days: 2}},
		{name: "ten days", deadline: now.Add(10 * 24 * time.Hour), want: Countdown{Days: 10}},
		{name: "boundary instant", deadline: now, want: Countdown{Days: 0, Expired: true}},
		{name: "one second past", deadline: now.Add(-time.Second), want: Countdown{Days: 0, Expired: true}},
		{name: "long past", deadline: now.Add(-90 * 24 * time.Hour), want: Countdown{Days: 0, Expired: true}},
		{name: "unset deadline", deadline: time.Time{}, want: Countdown{Days: 0, Expired: true}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := DaysRemaining(tc.deadline, now)
			if got != tc.want {
				t.Fatalf("DaysRemaining() = %+v, want %+v", got, tc.want)
			}
			if got.Days < 0 {
				t.Fatalf("negative days: %d", got.Days)
			}
			if got.Expired != (got.Days == 0) {
				t.Fatalf("expired=%v inconsistent with days=%d", got.Expired, got.Days)
			}
		})
	}
}

func TestCountdownString(t *testing.T) {
	tests := []struct {
		in   Countdown
		want string
	}{
		{Countdown{Days: 0, Expired: true}, "Campaign ended"},
		{Countdown{Days: 1}, "1 day left"},
		{Countdown{Days: 12}, "12 days left"},
	}
	for _, tc := range tests {
		if got := tc.in.String(); got != tc.want {
			t.Errorf("%+v.String() = %q, want %q", tc.in, got, tc.want)
		}
	}
}

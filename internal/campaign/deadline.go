package campaign

import (
	"fmt"
	"time"
)

const day = 24 * time.Hour

// Countdown is the whole number of days left before a deadline.
type Countdown struct {
	Days    int64 `json:"days"`
	Expired bool  `json:"expired"`
}

// DaysRemaining rounds the time left up to whole days. The deadline instant
// itself already counts as expired.
func DaysRemaining(deadline, now time.Time) Countdown {
	left := deadline.Sub(now)
	if left <= 0 {
		return Countdown{Days: 0, Expired: true}
	}
	days := int64(left / day)
	if left%day != 0 {
		days++
	}
	return Countdown{Days: days}
}

// String renders the countdown the way campaign cards show it.
func (c Countdown) String() string {
	if c.Expired {
		return "Campaign ended"
	}
	if c.Days == 1 {
		return "1 day left"
	}
	return fmt.Sprintf("%d days left", c.Days)
}

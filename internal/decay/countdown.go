package decay

import (
	"fmt"
	"time"
)

// Countdown is the time remaining until a stat's next decay, decomposed for
// display. Due is set when at least one full interval has already elapsed;
// the caller is expected to trigger an evaluation.
type Countdown struct {
	Days    int  `json:"days"`
	Hours   int  `json:"hours"`
	Minutes int  `json:"minutes"`
	Due     bool `json:"due"`
}

func (c Countdown) String() string {
	if c.Due {
		return "due"
	}
	return fmt.Sprintf("%dd %dh %dm", c.Days, c.Hours, c.Minutes)
}

// TimeUntilNext computes the remaining time before the pair's next decay at
// now. The second return is false when no setting exists or it is disabled.
func (s *Scheduler) TimeUntilNext(categoryID, statName string, now time.Time) (Countdown, bool) {
	s.mu.RLock()
	set, ok := s.settings[Key(categoryID, statName)]
	s.mu.RUnlock()
	if !ok || !set.Enabled || set.Interval <= 0 {
		return Countdown{}, false
	}

	remaining := set.Interval - now.Sub(set.LastDecayAt)
	if remaining <= 0 {
		return Countdown{Due: true}, true
	}
	return Countdown{
		Days:    int(remaining / (24 * time.Hour)),
		Hours:   int(remaining % (24 * time.Hour) / time.Hour),
		Minutes: int(remaining % time.Hour / time.Minute),
	}, true
}

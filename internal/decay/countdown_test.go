package decay

import (
	"testing"
	"time"
)

func TestTimeUntilNextDecomposition(t *testing.T) {
	s, _, clk, id := testScheduler(t)
	enableDecay(s, id, 1, 3*24*time.Hour, clk.Now())

	// 1 day, 5 hours, 30 minutes in.
	now := clk.Advance(29*time.Hour + 30*time.Minute)
	cd, ok := s.TimeUntilNext(id, "Strength", now)
	if !ok {
		t.Fatal("expected countdown")
	}
	if cd.Due {
		t.Fatal("not due yet")
	}
	if cd.Days != 1 || cd.Hours != 18 || cd.Minutes != 30 {
		t.Errorf("countdown = %+v, want 1d 18h 30m", cd)
	}
	if got := cd.String(); got != "1d 18h 30m" {
		t.Errorf("String() = %q", got)
	}
}

func TestTimeUntilNextOverdue(t *testing.T) {
	s, _, clk, id := testScheduler(t)
	enableDecay(s, id, 1, 24*time.Hour, clk.Now())

	now := clk.Advance(25 * time.Hour)
	cd, ok := s.TimeUntilNext(id, "Strength", now)
	if !ok {
		t.Fatal("expected countdown")
	}
	if !cd.Due {
		t.Error("expected overdue indicator")
	}
	if cd.String() != "due" {
		t.Errorf("String() = %q, want due", cd.String())
	}
}

func TestTimeUntilNextExactBoundaryIsDue(t *testing.T) {
	s, _, clk, id := testScheduler(t)
	enableDecay(s, id, 1, 24*time.Hour, clk.Now())

	now := clk.Advance(24 * time.Hour)
	cd, _ := s.TimeUntilNext(id, "Strength", now)
	if !cd.Due {
		t.Error("elapsed == interval must read as due")
	}
}

func TestTimeUntilNextAbsentOrDisabled(t *testing.T) {
	s, _, clk, id := testScheduler(t)
	if _, ok := s.TimeUntilNext(id, "Strength", clk.Now()); ok {
		t.Error("no setting: expected ok=false")
	}

	s.Add(Setting{CategoryID: id, StatName: "Strength", Points: 1, Interval: 24 * time.Hour, Enabled: false}, clk.Now())
	if _, ok := s.TimeUntilNext(id, "Strength", clk.Now()); ok {
		t.Error("disabled setting: expected ok=false")
	}
}

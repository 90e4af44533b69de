// Package decay schedules automatic point erosion for neglected stats.
//
// Each enabled (category, stat) pair carries a setting with a point amount,
// an interval, and the timestamp of the last applied decay. Evaluation is
// catch-up exact: all whole intervals elapsed since LastDecayAt are applied
// in a single step and the reference timestamp advances by exact interval
// multiples, never to "now", so evaluation jitter can not accumulate drift.
package decay

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// SettingKey identifies a decay setting by value. Structural equality makes
// it safe as a map key; the text form is only used in persisted snapshots.
type SettingKey struct {
	CategoryID string
	StatName   string
}

// Key builds the composite key for a (category, stat) pair.
func Key(categoryID, statName string) SettingKey {
	return SettingKey{CategoryID: categoryID, StatName: statName}
}

// keySep joins the text form. Category ids are engine-allocated (cat-N or
// migrated legacy words) and never contain it, so splitting on the first
// separator is unambiguous even when a stat name contains one.
const keySep = "/"

// MarshalText renders the stable storage form, independent of map iteration
// order and process restarts.
func (k SettingKey) MarshalText() ([]byte, error) {
	return []byte(k.CategoryID + keySep + k.StatName), nil
}

// UnmarshalText parses the storage form produced by MarshalText.
func (k *SettingKey) UnmarshalText(text []byte) error {
	catID, stat, ok := strings.Cut(string(text), keySep)
	if !ok {
		return fmt.Errorf("malformed decay setting key %q", text)
	}
	k.CategoryID = catID
	k.StatName = stat
	return nil
}

// Setting is the decay configuration and timer state for one stat.
type Setting struct {
	CategoryID  string        `json:"categoryId"`
	StatName    string        `json:"statName"`
	Points      int           `json:"points"`
	Interval    time.Duration `json:"interval"`
	Enabled     bool          `json:"enabled"`
	LastDecayAt time.Time     `json:"lastDecayAt"`
}

// Key returns the setting's composite key.
func (s *Setting) Key() SettingKey {
	return Key(s.CategoryID, s.StatName)
}

func (s *Setting) clone() *Setting {
	cp := *s
	return &cp
}

// SettingUpdate is a partial settings change; nil fields are left untouched.
type SettingUpdate struct {
	Points   *int
	Interval *time.Duration
	Enabled  *bool
}

// StatUpdater is the slice of the ledger the scheduler needs: applying a
// (negative) delta to one stat. Absent categories or stats are tolerated as
// no-ops on the ledger side; the timer still advances.
type StatUpdater interface {
	UpdateStat(categoryID, statName string, delta int)
}

// Scheduler owns all decay settings and applies due decay through the
// ledger. Like the ledger it publishes immutable states: mutations copy the
// settings map and clone only the touched setting.
type Scheduler struct {
	mu       sync.RWMutex
	ledger   StatUpdater
	settings map[SettingKey]*Setting
}

// New returns a scheduler applying decay through ledger.
func New(ledger StatUpdater) *Scheduler {
	return &Scheduler{
		ledger:   ledger,
		settings: make(map[SettingKey]*Setting),
	}
}

func (s *Scheduler) copySettings() map[SettingKey]*Setting {
	m := make(map[SettingKey]*Setting, len(s.settings))
	for k, v := range s.settings {
		m[k] = v
	}
	return m
}

// Add creates (or replaces) the setting for cfg's pair, starting its timer
// at now rather than at the zero time, so a freshly enabled stat never
// appears aeons overdue.
func (s *Scheduler) Add(cfg Setting, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := cfg.clone()
	set.LastDecayAt = now
	m := s.copySettings()
	m[set.Key()] = set
	s.settings = m
}

// Update merges the non-nil fields of upd into the setting. Flipping Enabled
// from false to true restarts the timer at now — time spent disabled never
// decays retroactively. Absent keys are a silent no-op; reports whether the
// setting existed.
func (s *Scheduler) Update(key SettingKey, upd SettingUpdate, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.settings[key]
	if !ok {
		return false
	}
	set := cur.clone()
	if upd.Points != nil {
		set.Points = *upd.Points
	}
	if upd.Interval != nil {
		set.Interval = *upd.Interval
	}
	if upd.Enabled != nil {
		if *upd.Enabled && !set.Enabled {
			set.LastDecayAt = now
		}
		set.Enabled = *upd.Enabled
	}
	m := s.copySettings()
	m[key] = set
	s.settings = m
	return true
}

// Remove deletes the setting. The ledger is never touched; removal is
// terminal for the timer only.
func (s *Scheduler) Remove(key SettingKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.settings[key]; !ok {
		return
	}
	m := s.copySettings()
	delete(m, key)
	s.settings = m
}

// Get returns a copy of the setting for the pair, or false if none exists.
func (s *Scheduler) Get(categoryID, statName string) (*Setting, bool) {
	s.mu.RLock()
	set, ok := s.settings[Key(categoryID, statName)]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return set.clone(), true
}

// Keys returns every setting key, in no particular order.
func (s *Scheduler) Keys() []SettingKey {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]SettingKey, 0, len(s.settings))
	for k := range s.settings {
		keys = append(keys, k)
	}
	return keys
}

// ResetTimer restarts the pair's interval at now. Called whenever an
// activity attributes points to the specific stat; disabled or absent
// settings are left alone.
func (s *Scheduler) ResetTimer(categoryID, statName string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := Key(categoryID, statName)
	cur, ok := s.settings[key]
	if !ok || !cur.Enabled {
		return
	}
	set := cur.clone()
	set.LastDecayAt = now
	m := s.copySettings()
	m[key] = set
	s.settings = m
}

// Evaluate applies every whole interval elapsed since LastDecayAt in one
// step: the stat loses points*periods and LastDecayAt advances by exactly
// periods*interval. Returns the total points removed (0 when nothing was
// due, the setting is disabled, or the key is absent). Immediately
// re-evaluating without advancing the clock is a no-op.
func (s *Scheduler) Evaluate(key SettingKey, now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.settings[key]
	if !ok || !cur.Enabled || cur.Interval <= 0 {
		return 0
	}

	elapsed := now.Sub(cur.LastDecayAt)
	periods := int(elapsed / cur.Interval)
	if periods < 1 {
		return 0
	}

	removed := cur.Points * periods
	s.ledger.UpdateStat(key.CategoryID, key.StatName, -removed)

	set := cur.clone()
	set.LastDecayAt = cur.LastDecayAt.Add(time.Duration(periods) * cur.Interval)
	m := s.copySettings()
	m[key] = set
	s.settings = m
	return removed
}

// EvaluateAll runs Evaluate for every setting and returns the total points
// removed across all of them.
func (s *Scheduler) EvaluateAll(now time.Time) int {
	total := 0
	for _, key := range s.Keys() {
		total += s.Evaluate(key, now)
	}
	return total
}

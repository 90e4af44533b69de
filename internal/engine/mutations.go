package engine

import (
	"github.com/jmccallister93/take-action/internal/decay"
	"github.com/jmccallister93/take-action/internal/ledger"
	"github.com/jmccallister93/take-action/internal/metrics"
)

// AddCategory stores a new category and returns its id.
func (e *Engine) AddCategory(data ledger.CategoryData) string {
	e.mu.Lock()
	id := e.ledger.AddCategory(data)
	e.mu.Unlock()
	e.persist()
	return id
}

// UpdateCategory merges a partial update; absent ids are a no-op.
func (e *Engine) UpdateCategory(id string, upd ledger.CategoryUpdate) {
	e.mu.Lock()
	e.ledger.UpdateCategory(id, upd)
	e.mu.Unlock()
	e.persist()
}

// DeleteCategory removes the category. Log entries and decay settings that
// reference it are deliberately left behind; every lookup against them is a
// tolerant no-op, and the settings stay individually removable.
func (e *Engine) DeleteCategory(id string) {
	e.mu.Lock()
	e.ledger.DeleteCategory(id)
	e.mu.Unlock()
	e.persist()
}

// AddStat appends a zero-valued stat to the category.
func (e *Engine) AddStat(categoryID, name string) {
	e.mu.Lock()
	e.ledger.AddStat(categoryID, name)
	e.mu.Unlock()
	e.persist()
}

// DeleteStat removes the named stat. Its decay setting, if any, stays and
// keeps ticking against nothing until explicitly removed.
func (e *Engine) DeleteStat(categoryID, name string) {
	e.mu.Lock()
	e.ledger.DeleteStat(categoryID, name)
	e.mu.Unlock()
	e.persist()
}

// UpdateStat adds delta to the named stat and recomputes the category score.
func (e *Engine) UpdateStat(categoryID, statName string, delta int) {
	e.mu.Lock()
	e.ledger.UpdateStat(categoryID, statName, delta)
	e.mu.Unlock()
	e.persist()
}

// LogActivity appends an activity and applies its points. Attributing to a
// specific stat restarts that stat's decay interval in full; category-level
// entries touch no timers.
func (e *Engine) LogActivity(description, categoryID string, targetStats []string, points int) *ledger.Entry {
	e.mu.Lock()
	entry := e.ledger.LogActivity(description, categoryID, targetStats, points)
	e.resetTimers(entry)
	e.mu.Unlock()

	metrics.ActivitiesLogged.Inc()
	e.persist()
	return entry
}

// EditActivity reverses the original attribution and applies the merged one.
// The stats named by the new attribution get their decay timers restarted.
func (e *Engine) EditActivity(id string, upd ledger.EntryUpdate) (*ledger.Entry, bool) {
	e.mu.Lock()
	entry, ok := e.ledger.EditActivity(id, upd)
	if ok {
		e.resetTimers(entry)
	}
	e.mu.Unlock()

	if ok {
		e.persist()
	}
	return entry, ok
}

// DeleteActivity removes the log entry. Its point contribution stays:
// deleting history is not the same as undoing it.
func (e *Engine) DeleteActivity(id string) {
	e.mu.Lock()
	e.ledger.DeleteActivity(id)
	e.mu.Unlock()
	e.persist()
}

// resetTimers restarts the decay interval for each specific stat the entry
// attributes points to. Caller holds e.mu.
func (e *Engine) resetTimers(entry *ledger.Entry) {
	if len(entry.TargetStats) == 0 {
		return
	}
	if cat, ok := e.ledger.Category(entry.CategoryID); ok {
		if len(entry.TargetStats) == 1 && entry.TargetStats[0] == cat.Name {
			return // category-level attribution, no per-stat timer involved
		}
	}
	now := e.clk.Now()
	for _, stat := range entry.TargetStats {
		e.decay.ResetTimer(entry.CategoryID, stat, now)
	}
}

// AddDecaySetting creates (or replaces) the setting for cfg's pair with its
// timer started at the current time.
func (e *Engine) AddDecaySetting(cfg decay.Setting) {
	e.mu.Lock()
	e.decay.Add(cfg, e.clk.Now())
	e.mu.Unlock()
	e.persist()
}

// UpdateDecaySetting merges a partial settings change. Enabling a disabled
// setting restarts its timer at the current time.
func (e *Engine) UpdateDecaySetting(key decay.SettingKey, upd decay.SettingUpdate) bool {
	e.mu.Lock()
	ok := e.decay.Update(key, upd, e.clk.Now())
	e.mu.Unlock()

	if ok {
		e.persist()
	}
	return ok
}

// RemoveDecaySetting deletes the setting without touching the ledger.
func (e *Engine) RemoveDecaySetting(key decay.SettingKey) {
	e.mu.Lock()
	e.decay.Remove(key)
	e.mu.Unlock()
	e.persist()
}

// EvaluateNow applies all due decay across every setting at the current time
// and returns the total points removed.
func (e *Engine) EvaluateNow() int {
	e.mu.Lock()
	removed := e.decay.EvaluateAll(e.clk.Now())
	e.mu.Unlock()

	metrics.DecayEvaluations.Inc()
	if removed > 0 {
		metrics.DecayPointsApplied.Add(float64(removed))
		e.persist()
	}
	return removed
}

// EvaluateStat applies due decay for a single pair, used when a settings
// view reports an overdue countdown.
func (e *Engine) EvaluateStat(categoryID, statName string) int {
	e.mu.Lock()
	removed := e.decay.Evaluate(decay.Key(categoryID, statName), e.clk.Now())
	e.mu.Unlock()

	if removed > 0 {
		metrics.DecayPointsApplied.Add(float64(removed))
		e.persist()
	}
	return removed
}

// TimeUntilNextDecay returns the countdown for a pair at the current time.
func (e *Engine) TimeUntilNextDecay(categoryID, statName string) (decay.Countdown, bool) {
	return e.decay.TimeUntilNext(categoryID, statName, e.clk.Now())
}

package ledger

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jmccallister93/take-action/internal/clock"
)

// Ledger owns categories, stats, and the activity log. Every mutation builds
// a fresh state that shares untouched categories with the previous one and
// then swaps it in, so a snapshot handed to a reader (or to the async saver)
// is never modified behind its back.
type Ledger struct {
	mu  sync.RWMutex
	clk clock.Clock
	st  *state
}

// state is immutable once published. Mutations copy the containers they
// touch and deep-copy only the touched category or entry.
type state struct {
	nextID     int
	categories map[string]*Category
	entries    []*Entry
}

func newState() *state {
	return &state{categories: make(map[string]*Category)}
}

// shallow returns a copy of s sharing all categories and the entry slice.
func (s *state) shallow() *state {
	cats := make(map[string]*Category, len(s.categories))
	for id, c := range s.categories {
		cats[id] = c
	}
	return &state{nextID: s.nextID, categories: cats, entries: s.entries}
}

// copyEntries replaces the shared entry slice with a private copy.
func (s *state) copyEntries() {
	entries := make([]*Entry, len(s.entries))
	copy(entries, s.entries)
	s.entries = entries
}

// New returns an empty ledger reading timestamps from clk.
func New(clk clock.Clock) *Ledger {
	return &Ledger{clk: clk, st: newState()}
}

// categoryLevel reports whether targets means "apply to the category score
// directly": an empty list, or exactly the singleton equal to the category's
// own name.
func categoryLevel(cat *Category, targets []string) bool {
	if len(targets) == 0 {
		return true
	}
	return len(targets) == 1 && targets[0] == cat.Name
}

// applyPoints attributes points to cat within s. The category must already be
// privately owned by s (cloned). Unknown stat names are skipped.
func applyPoints(cat *Category, targets []string, points int) {
	if categoryLevel(cat, targets) {
		cat.Score += points
		return
	}
	touched := false
	for _, name := range targets {
		if i := cat.statIndex(name); i >= 0 {
			cat.Stats[i].Value += points
			touched = true
		}
	}
	if touched {
		cat.Score = cat.StatSum()
	}
}

// ownCategory clones the category into s and returns the private copy,
// or nil if the id is absent.
func (s *state) ownCategory(id string) *Category {
	cat, ok := s.categories[id]
	if !ok {
		return nil
	}
	cp := cat.clone()
	s.categories[id] = cp
	return cp
}

// AddCategory stores a new category and returns its freshly allocated id.
// Ids are monotonic and never reused. When stats are provided the score is
// set to their sum, keeping the score invariant from the first snapshot.
func (l *Ledger) AddCategory(data CategoryData) string {
	l.mu.Lock()
	defer l.mu.Unlock()

	st := l.st.shallow()
	st.nextID++
	id := fmt.Sprintf("cat-%d", st.nextID)

	cat := &Category{
		ID:          id,
		Name:        data.Name,
		Description: data.Description,
		Score:       data.Score,
		Icon:        data.Icon,
		Gradient:    data.Gradient,
		Stats:       append([]Stat(nil), data.Stats...),
	}
	if len(cat.Stats) > 0 {
		cat.Score = cat.StatSum()
	}
	st.categories[id] = cat
	l.st = st
	return id
}

// UpdateCategory merges the non-nil fields of upd into the category.
// Absent ids are a silent no-op.
func (l *Ledger) UpdateCategory(id string, upd CategoryUpdate) {
	l.mu.Lock()
	defer l.mu.Unlock()

	st := l.st.shallow()
	cat := st.ownCategory(id)
	if cat == nil {
		return
	}
	if upd.Name != nil {
		cat.Name = *upd.Name
	}
	if upd.Description != nil {
		cat.Description = *upd.Description
	}
	if upd.Score != nil {
		cat.Score = *upd.Score
	}
	if upd.Icon != nil {
		cat.Icon = *upd.Icon
	}
	if upd.Gradient != nil {
		cat.Gradient = *upd.Gradient
	}
	if upd.Stats != nil {
		cat.Stats = append([]Stat(nil), (*upd.Stats)...)
		if len(cat.Stats) > 0 {
			cat.Score = cat.StatSum()
		}
	}
	l.st = st
}

// DeleteCategory removes the category and its stats. Log entries and decay
// settings referencing the id are left in place; lookups against them become
// tolerant no-ops.
func (l *Ledger) DeleteCategory(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.st.categories[id]; !ok {
		return
	}
	st := l.st.shallow()
	delete(st.categories, id)
	l.st = st
}

// AddStat appends a zero-valued stat to the category. No-op when the
// category is absent or the name already exists.
func (l *Ledger) AddStat(categoryID, name string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	st := l.st.shallow()
	cat := st.ownCategory(categoryID)
	if cat == nil || cat.statIndex(name) >= 0 {
		return
	}
	cat.Stats = append(cat.Stats, Stat{Name: name})
	cat.Score = cat.StatSum()
	l.st = st
}

// DeleteStat removes the named stat and recomputes the score from the
// remaining stats. No-op when the category or stat is absent.
func (l *Ledger) DeleteStat(categoryID, name string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	st := l.st.shallow()
	cat := st.ownCategory(categoryID)
	if cat == nil {
		return
	}
	i := cat.statIndex(name)
	if i < 0 {
		return
	}
	cat.Stats = append(cat.Stats[:i], cat.Stats[i+1:]...)
	if len(cat.Stats) > 0 {
		cat.Score = cat.StatSum()
	}
	l.st = st
}

// UpdateStat adds delta (which may be negative) to the named stat, then
// recomputes the category score as the sum of all stat values. Absent
// category or stat is a silent no-op. Values may go negative.
func (l *Ledger) UpdateStat(categoryID, statName string, delta int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	st := l.st.shallow()
	cat := st.ownCategory(categoryID)
	if cat == nil {
		return
	}
	i := cat.statIndex(statName)
	if i < 0 {
		return
	}
	cat.Stats[i].Value += delta
	cat.Score = cat.StatSum()
	l.st = st
}

// LogActivity appends a new entry stamped with the current time and applies
// its points per the attribution rule. The entry is recorded even when the
// category no longer exists (the log is append-only history); attribution is
// then a no-op. Returns the stored entry.
func (l *Ledger) LogActivity(description, categoryID string, targetStats []string, points int) *Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := &Entry{
		ID:          uuid.NewString(),
		Timestamp:   l.clk.Now(),
		Description: description,
		CategoryID:  categoryID,
		TargetStats: append([]string(nil), targetStats...),
		Points:      points,
	}

	st := l.st.shallow()
	st.copyEntries()
	st.entries = append(st.entries, entry)
	if cat := st.ownCategory(categoryID); cat != nil {
		applyPoints(cat, entry.TargetStats, entry.Points)
	}
	l.st = st
	return entry.clone()
}

// EditActivity reverses the original entry's attribution against the current
// live values, applies the merged attribution (upd fields falling back to the
// original), and replaces the stored entry. Absent ids are a silent no-op.
// Returns the merged entry and whether the edit happened.
func (l *Ledger) EditActivity(id string, upd EntryUpdate) (*Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := -1
	for i, e := range l.st.entries {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}

	st := l.st.shallow()
	st.copyEntries()
	orig := st.entries[idx]

	// Phase one: subtract what the original entry previously added.
	if cat := st.ownCategory(orig.CategoryID); cat != nil {
		applyPoints(cat, orig.TargetStats, -orig.Points)
	}

	merged := orig.clone()
	if upd.Description != nil {
		merged.Description = *upd.Description
	}
	if upd.CategoryID != nil {
		merged.CategoryID = *upd.CategoryID
	}
	if upd.TargetStats != nil {
		merged.TargetStats = append([]string(nil), (*upd.TargetStats)...)
	}
	if upd.Points != nil {
		merged.Points = *upd.Points
	}

	// Phase two: apply the new effective attribution.
	if cat := st.ownCategory(merged.CategoryID); cat != nil {
		applyPoints(cat, merged.TargetStats, merged.Points)
	}

	st.entries[idx] = merged
	l.st = st
	return merged.clone(), true
}

// DeleteActivity removes the entry from the log without reversing its point
// contribution. Absent ids are a silent no-op.
func (l *Ledger) DeleteActivity(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := -1
	for i, e := range l.st.entries {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	st := l.st.shallow()
	st.copyEntries()
	st.entries = append(st.entries[:idx], st.entries[idx+1:]...)
	l.st = st
}

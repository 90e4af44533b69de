package ledger

import (
	"sort"
	"strconv"
	"strings"
)

// Category returns a copy of the category, or false if the id is absent.
func (l *Ledger) Category(id string) (*Category, bool) {
	l.mu.RLock()
	st := l.st
	l.mu.RUnlock()

	cat, ok := st.categories[id]
	if !ok {
		return nil, false
	}
	return cat.clone(), true
}

// StatValue returns the named stat's current value, or false if the category
// or stat is absent.
func (l *Ledger) StatValue(categoryID, statName string) (int, bool) {
	l.mu.RLock()
	st := l.st
	l.mu.RUnlock()

	cat, ok := st.categories[categoryID]
	if !ok {
		return 0, false
	}
	i := cat.statIndex(statName)
	if i < 0 {
		return 0, false
	}
	return cat.Stats[i].Value, true
}

// Categories returns copies of all categories ordered by id. Ids carry a
// numeric suffix so "cat-10" sorts after "cat-9".
func (l *Ledger) Categories() []*Category {
	l.mu.RLock()
	st := l.st
	l.mu.RUnlock()

	out := make([]*Category, 0, len(st.categories))
	for _, c := range st.categories {
		out = append(out, c.clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return idLess(out[i].ID, out[j].ID)
	})
	return out
}

// Entry returns a copy of the log entry, or false if the id is absent.
func (l *Ledger) Entry(id string) (*Entry, bool) {
	l.mu.RLock()
	st := l.st
	l.mu.RUnlock()

	for _, e := range st.entries {
		if e.ID == id {
			return e.clone(), true
		}
	}
	return nil, false
}

// Entries returns copies of the activity log in insertion order.
func (l *Ledger) Entries() []*Entry {
	l.mu.RLock()
	st := l.st
	l.mu.RUnlock()

	out := make([]*Entry, len(st.entries))
	for i, e := range st.entries {
		out[i] = e.clone()
	}
	return out
}

// idLess orders ids numerically when both carry the cat-N form, falling back
// to plain string order for migrated legacy ids.
func idLess(a, b string) bool {
	na, oka := idNum(a)
	nb, okb := idNum(b)
	if oka && okb {
		return na < nb
	}
	if oka != okb {
		return okb // legacy ids sort first
	}
	return a < b
}

func idNum(id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, "cat-")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

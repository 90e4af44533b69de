package ledger

import "time"

// Stat is a named numeric sub-attribute of a category.
type Stat struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Gradient is the two-color display gradient carried by a category.
// The engine never interprets it; it round-trips through snapshots for the UI.
type Gradient struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// Category is a user-defined skill area with an aggregate score and zero or
// more stats. When Stats is non-empty, Score always equals the sum of the
// stat values; categories tracked without stats accumulate Score directly.
type Category struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Score       int      `json:"score"`
	Icon        string   `json:"icon,omitempty"`
	Gradient    Gradient `json:"gradient"`
	Stats       []Stat   `json:"stats"`
}

// StatSum returns the sum of all stat values.
func (c *Category) StatSum() int {
	sum := 0
	for _, s := range c.Stats {
		sum += s.Value
	}
	return sum
}

func (c *Category) statIndex(name string) int {
	for i := range c.Stats {
		if c.Stats[i].Name == name {
			return i
		}
	}
	return -1
}

func (c *Category) clone() *Category {
	cp := *c
	cp.Stats = make([]Stat, len(c.Stats))
	copy(cp.Stats, c.Stats)
	return &cp
}

// Entry is one activity in the append-only log. TargetStats decides
// attribution: empty, or the singleton equal to the category's name, means
// Points went straight onto the category score; otherwise every named stat
// received the full Points value.
type Entry struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
	CategoryID  string    `json:"categoryId"`
	TargetStats []string  `json:"targetStats"`
	Points      int       `json:"points"`
}

func (e *Entry) clone() *Entry {
	cp := *e
	cp.TargetStats = make([]string, len(e.TargetStats))
	copy(cp.TargetStats, e.TargetStats)
	return &cp
}

// CategoryData carries the caller-supplied fields for a new category.
type CategoryData struct {
	Name        string
	Description string
	Score       int
	Icon        string
	Gradient    Gradient
	Stats       []Stat
}

// CategoryUpdate is a partial category update; nil fields are left untouched.
type CategoryUpdate struct {
	Name        *string
	Description *string
	Score       *int
	Icon        *string
	Gradient    *Gradient
	Stats       *[]Stat
}

// EntryUpdate is a partial activity edit; nil fields fall back to the
// original entry's values.
type EntryUpdate struct {
	Description *string
	CategoryID  *string
	TargetStats *[]string
	Points      *int
}

package ledger

import (
	"testing"
	"time"

	"github.com/jmccallister93/take-action/internal/clock"
)

func testLedger(t *testing.T) (*Ledger, *clock.Manual) {
	t.Helper()
	clk := clock.NewManual(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	return New(clk), clk
}

func fitnessCategory(l *Ledger) string {
	return l.AddCategory(CategoryData{
		Name: "Fitness",
		Stats: []Stat{
			{Name: "Strength", Value: 10},
			{Name: "Endurance", Value: 4},
		},
	})
}

func TestAddCategoryAllocatesMonotonicIDs(t *testing.T) {
	l, _ := testLedger(t)

	a := l.AddCategory(CategoryData{Name: "Fitness"})
	b := l.AddCategory(CategoryData{Name: "Reading"})
	if a == b {
		t.Fatalf("ids collide: %q", a)
	}
	if a != "cat-1" || b != "cat-2" {
		t.Errorf("ids = %q, %q, want cat-1, cat-2", a, b)
	}

	l.DeleteCategory(b)
	c := l.AddCategory(CategoryData{Name: "Music"})
	if c != "cat-3" {
		t.Errorf("id after delete = %q, want cat-3 (never reused)", c)
	}
}

func TestAddCategoryScoreFromStats(t *testing.T) {
	l, _ := testLedger(t)

	id := fitnessCategory(l)
	cat, ok := l.Category(id)
	if !ok {
		t.Fatal("category not found")
	}
	if cat.Score != 14 {
		t.Errorf("score = %d, want 14 (sum of stats)", cat.Score)
	}
}

func TestUpdateStatKeepsScoreInvariant(t *testing.T) {
	l, _ := testLedger(t)
	id := fitnessCategory(l)

	deltas := []struct {
		stat  string
		delta int
	}{
		{"Strength", 3},
		{"Endurance", -2},
		{"Strength", -20}, // value goes negative, allowed
		{"Endurance", 7},
	}
	for _, d := range deltas {
		l.UpdateStat(id, d.stat, d.delta)
		cat, _ := l.Category(id)
		if cat.Score != cat.StatSum() {
			t.Fatalf("after %+v: score = %d, stat sum = %d", d, cat.Score, cat.StatSum())
		}
	}

	if v, _ := l.StatValue(id, "Strength"); v != -7 {
		t.Errorf("Strength = %d, want -7", v)
	}
}

func TestUpdateStatAbsentIsNoOp(t *testing.T) {
	l, _ := testLedger(t)
	id := fitnessCategory(l)

	before, _ := l.Category(id)
	l.UpdateStat("cat-999", "Strength", 5)
	l.UpdateStat(id, "Charisma", 5)
	after, _ := l.Category(id)

	if before.Score != after.Score {
		t.Errorf("score changed by no-op: %d -> %d", before.Score, after.Score)
	}
}

func TestLogActivityStatAttribution(t *testing.T) {
	l, _ := testLedger(t)
	id := fitnessCategory(l)

	// Each named stat receives the full points value, not a share.
	l.LogActivity("morning workout", id, []string{"Strength", "Endurance"}, 3)

	if v, _ := l.StatValue(id, "Strength"); v != 13 {
		t.Errorf("Strength = %d, want 13", v)
	}
	if v, _ := l.StatValue(id, "Endurance"); v != 7 {
		t.Errorf("Endurance = %d, want 7", v)
	}
	cat, _ := l.Category(id)
	if cat.Score != 20 {
		t.Errorf("score = %d, want 20", cat.Score)
	}
}

func TestLogActivityCategoryAttribution(t *testing.T) {
	l, _ := testLedger(t)
	id := fitnessCategory(l)

	// Empty target list: points land on the score, stats untouched.
	l.LogActivity("went outside", id, nil, 5)
	cat, _ := l.Category(id)
	if cat.Score != 19 {
		t.Errorf("score = %d, want 19", cat.Score)
	}
	if cat.StatSum() != 14 {
		t.Errorf("stat sum = %d, want 14 (untouched)", cat.StatSum())
	}

	// Singleton equal to the category name counts as category-level too.
	l.LogActivity("general fitness", id, []string{"Fitness"}, 2)
	cat, _ = l.Category(id)
	if cat.Score != 21 {
		t.Errorf("score = %d, want 21", cat.Score)
	}
}

func TestLogActivityOrphanCategory(t *testing.T) {
	l, clk := testLedger(t)

	entry := l.LogActivity("ghost", "cat-404", []string{"Strength"}, 3)
	if entry.ID == "" {
		t.Error("expected entry id")
	}
	if !entry.Timestamp.Equal(clk.Now()) {
		t.Errorf("timestamp = %v, want %v", entry.Timestamp, clk.Now())
	}
	if len(l.Entries()) != 1 {
		t.Error("entry should be logged even when the category is gone")
	}
}

func TestEditActivityRoundTrip(t *testing.T) {
	l, _ := testLedger(t)
	id := fitnessCategory(l)

	entry := l.LogActivity("lifting", id, []string{"Strength"}, 3)
	before, _ := l.Category(id)

	// Edit to category-level with different points, then edit back.
	newStats := []string{}
	newPoints := 8
	if _, ok := l.EditActivity(entry.ID, EntryUpdate{TargetStats: &newStats, Points: &newPoints}); !ok {
		t.Fatal("edit: entry not found")
	}

	origStats := []string{"Strength"}
	origPoints := 3
	if _, ok := l.EditActivity(entry.ID, EntryUpdate{TargetStats: &origStats, Points: &origPoints}); !ok {
		t.Fatal("edit back: entry not found")
	}

	after, _ := l.Category(id)
	if after.Score != before.Score {
		t.Errorf("score = %d, want %d after round trip", after.Score, before.Score)
	}
	if v, _ := l.StatValue(id, "Strength"); v != 13 {
		t.Errorf("Strength = %d, want 13 after round trip", v)
	}
}

func TestEditActivityPartialFallsBackToOriginal(t *testing.T) {
	l, _ := testLedger(t)
	id := fitnessCategory(l)

	entry := l.LogActivity("lifting", id, []string{"Strength"}, 3)

	// Only points change; target stats carry over from the original.
	points := 5
	merged, ok := l.EditActivity(entry.ID, EntryUpdate{Points: &points})
	if !ok {
		t.Fatal("entry not found")
	}
	if len(merged.TargetStats) != 1 || merged.TargetStats[0] != "Strength" {
		t.Errorf("targetStats = %v, want [Strength]", merged.TargetStats)
	}
	if merged.Description != "lifting" {
		t.Errorf("description = %q, want carried over", merged.Description)
	}
	if v, _ := l.StatValue(id, "Strength"); v != 15 {
		t.Errorf("Strength = %d, want 15 (10 + 3 - 3 + 5)", v)
	}
}

func TestEditActivityAbsentIsNoOp(t *testing.T) {
	l, _ := testLedger(t)
	id := fitnessCategory(l)
	l.LogActivity("lifting", id, []string{"Strength"}, 3)

	points := 100
	if _, ok := l.EditActivity("nope", EntryUpdate{Points: &points}); ok {
		t.Fatal("expected no-op for absent id")
	}
	if v, _ := l.StatValue(id, "Strength"); v != 13 {
		t.Errorf("Strength = %d, want 13", v)
	}
}

func TestDeleteActivityKeepsPoints(t *testing.T) {
	l, _ := testLedger(t)
	id := fitnessCategory(l)

	entry := l.LogActivity("lifting", id, []string{"Strength"}, 3)
	l.DeleteActivity(entry.ID)

	if len(l.Entries()) != 0 {
		t.Error("entry should be removed")
	}
	// Deleting history does not undo its points.
	if v, _ := l.StatValue(id, "Strength"); v != 13 {
		t.Errorf("Strength = %d, want 13", v)
	}
}

func TestUpdateCategoryMergesFields(t *testing.T) {
	l, _ := testLedger(t)
	id := fitnessCategory(l)

	name := "Health"
	icon := "heart"
	l.UpdateCategory(id, CategoryUpdate{Name: &name, Icon: &icon})

	cat, _ := l.Category(id)
	if cat.Name != "Health" || cat.Icon != "heart" {
		t.Errorf("merge failed: %+v", cat)
	}
	if len(cat.Stats) != 2 {
		t.Error("stats should be untouched")
	}

	l.UpdateCategory("cat-404", CategoryUpdate{Name: &name}) // silent no-op
}

func TestDeleteCategoryLeavesLogAlone(t *testing.T) {
	l, _ := testLedger(t)
	id := fitnessCategory(l)
	l.LogActivity("lifting", id, []string{"Strength"}, 3)

	l.DeleteCategory(id)

	if _, ok := l.Category(id); ok {
		t.Error("category should be gone")
	}
	if len(l.Entries()) != 1 {
		t.Error("log entries referencing the category stay")
	}
	// Mutations against the orphan are tolerant no-ops.
	l.UpdateStat(id, "Strength", 5)
	points := 9
	l.EditActivity(l.Entries()[0].ID, EntryUpdate{Points: &points})
}

func TestAddDeleteStat(t *testing.T) {
	l, _ := testLedger(t)
	id := fitnessCategory(l)

	l.AddStat(id, "Mobility")
	l.AddStat(id, "Mobility") // duplicate name, no-op
	cat, _ := l.Category(id)
	if len(cat.Stats) != 3 {
		t.Fatalf("stats = %d, want 3", len(cat.Stats))
	}

	l.DeleteStat(id, "Strength")
	cat, _ = l.Category(id)
	if len(cat.Stats) != 2 {
		t.Fatalf("stats = %d, want 2", len(cat.Stats))
	}
	if cat.Score != cat.StatSum() {
		t.Errorf("score = %d, want %d after stat delete", cat.Score, cat.StatSum())
	}
}

func TestSnapshotIsolation(t *testing.T) {
	l, _ := testLedger(t)
	id := fitnessCategory(l)

	// A snapshot taken before a mutation must not see it.
	before, _ := l.Category(id)
	entries := l.Entries()

	l.UpdateStat(id, "Strength", 100)
	l.LogActivity("lifting", id, []string{"Strength"}, 1)

	if v := before.Stats[0].Value; v != 10 {
		t.Errorf("old snapshot mutated: Strength = %d, want 10", v)
	}
	if len(entries) != 0 {
		t.Errorf("old entries slice grew to %d", len(entries))
	}
}

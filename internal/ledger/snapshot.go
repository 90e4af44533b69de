package ledger

import (
	"encoding/json"
	"fmt"
)

// Snapshot key names in the persistent store.
const (
	SheetKey = "characterSheet"
	LogKey   = "activityLog"
)

// legacySections are the top-level keys of the pre-rewrite characterSheet
// layout. Their presence on load triggers a one-time migration: any nested
// categories maps are extracted and merged, everything else is discarded.
var legacySections = []string{"physical", "mind", "social"}

// sheetDoc is the persisted characterSheet payload.
type sheetDoc struct {
	NextID     int                  `json:"nextId"`
	Categories map[string]*Category `json:"categories"`
}

// EncodeSheet serializes the current categories to the characterSheet payload.
func (l *Ledger) EncodeSheet() ([]byte, error) {
	l.mu.RLock()
	st := l.st
	l.mu.RUnlock()

	doc := sheetDoc{NextID: st.nextID, Categories: st.categories}
	return json.Marshal(doc)
}

// EncodeLog serializes the activity log in insertion order.
func (l *Ledger) EncodeLog() ([]byte, error) {
	l.mu.RLock()
	st := l.st
	l.mu.RUnlock()

	entries := st.entries
	if entries == nil {
		entries = []*Entry{}
	}
	return json.Marshal(entries)
}

// RestoreSheet replaces the category state from a characterSheet payload,
// migrating the legacy sectioned layout when detected.
func (l *Ledger) RestoreSheet(payload []byte) error {
	doc, err := decodeSheet(payload)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	st := l.st.shallow()
	st.categories = doc.Categories
	st.nextID = doc.NextID
	l.st = st
	return nil
}

// RestoreLog replaces the activity log from an activityLog payload.
// Order is preserved exactly as stored.
func (l *Ledger) RestoreLog(payload []byte) error {
	var entries []*Entry
	if err := json.Unmarshal(payload, &entries); err != nil {
		return fmt.Errorf("decode activity log: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	st := l.st.shallow()
	st.entries = entries
	l.st = st
	return nil
}

func decodeSheet(payload []byte) (sheetDoc, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return sheetDoc{}, fmt.Errorf("decode character sheet: %w", err)
	}

	legacy := false
	for _, section := range legacySections {
		if _, ok := raw[section]; ok {
			legacy = true
			break
		}
	}
	if legacy {
		return migrateLegacySheet(raw)
	}

	var doc sheetDoc
	if err := json.Unmarshal(payload, &doc); err != nil {
		return sheetDoc{}, fmt.Errorf("decode character sheet: %w", err)
	}
	if doc.Categories == nil {
		doc.Categories = make(map[string]*Category)
	}
	if doc.NextID == 0 {
		doc.NextID = maxCategoryNum(doc.Categories)
	}
	return doc, nil
}

// migrateLegacySheet merges the categories maps nested under the old
// physical/mind/social sections and drops the rest of each section.
func migrateLegacySheet(raw map[string]json.RawMessage) (sheetDoc, error) {
	doc := sheetDoc{Categories: make(map[string]*Category)}
	for _, section := range legacySections {
		blob, ok := raw[section]
		if !ok {
			continue
		}
		var nested struct {
			Categories map[string]*Category `json:"categories"`
		}
		if err := json.Unmarshal(blob, &nested); err != nil {
			return sheetDoc{}, fmt.Errorf("migrate legacy section %q: %w", section, err)
		}
		for id, cat := range nested.Categories {
			doc.Categories[id] = cat
		}
	}
	doc.NextID = maxCategoryNum(doc.Categories)
	return doc, nil
}

// maxCategoryNum finds the highest cat-N suffix so freshly allocated ids
// never collide with loaded ones.
func maxCategoryNum(cats map[string]*Category) int {
	max := 0
	for id := range cats {
		if n, ok := idNum(id); ok && n > max {
			max = n
		}
	}
	return max
}

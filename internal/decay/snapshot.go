package decay

import (
	"encoding/json"
	"fmt"
)

// SettingsKey is the snapshot key name in the persistent store.
const SettingsKey = "decaySettings"

// EncodeSettings serializes all settings as a map keyed by the stable text
// form of each composite key.
func (s *Scheduler) EncodeSettings() ([]byte, error) {
	s.mu.RLock()
	settings := s.settings
	s.mu.RUnlock()

	return json.Marshal(settings)
}

// RestoreSettings replaces all settings from a decaySettings payload.
func (s *Scheduler) RestoreSettings(payload []byte) error {
	var settings map[SettingKey]*Setting
	if err := json.Unmarshal(payload, &settings); err != nil {
		return fmt.Errorf("decode decay settings: %w", err)
	}
	if settings == nil {
		settings = make(map[SettingKey]*Setting)
	}
	// The map key is authoritative; realign the value fields with it in case
	// a hand-edited snapshot disagrees.
	for k, set := range settings {
		set.CategoryID = k.CategoryID
		set.StatName = k.StatName
	}

	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
	return nil
}

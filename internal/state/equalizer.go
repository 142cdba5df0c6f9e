package state

import (
	"database/sql"
	"encoding/json"
)

// EqualizerSettings returns the persisted equalizer state. Levels are padded
// or truncated to the requested band count so a device with a different
// number of bands still gets a usable slice.
func (m *Manager) EqualizerSettings(bands int) (bool, []int, error) {
	var enabled sql.NullInt64
	var levelsJSON sql.NullString
	err := m.db.QueryRow(`
		SELECT enabled, band_levels FROM equalizer_settings WHERE id = 1
	`).Scan(&enabled, &levelsJSON)
	if err == sql.ErrNoRows {
		return false, make([]int, bands), nil
	}
	if err != nil {
		return false, nil, err
	}

	var levels []int
	if levelsJSON.Valid && levelsJSON.String != "" {
		if err := json.Unmarshal([]byte(levelsJSON.String), &levels); err != nil {
			return false, nil, err
		}
	}
	if bands >= 0 {
		for len(levels) < bands {
			levels = append(levels, 0)
		}
		levels = levels[:bands]
	}
	return enabled.Valid && enabled.Int64 != 0, levels, nil
}

// SaveEqualizerSettings persists the equalizer enabled flag and band levels.
func (m *Manager) SaveEqualizerSettings(enabled bool, levels []int) error {
	b, err := json.Marshal(levels)
	if err != nil {
		return err
	}
	_, err = m.db.Exec(`
		INSERT INTO equalizer_settings (id, enabled, band_levels)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			enabled = excluded.enabled,
			band_levels = excluded.band_levels
	`, boolToInt(enabled), string(b))
	return err
}

package state

import (
	"database/sql"
	"time"

	"github.com/llehouerou/tempest/internal/db"
)

// Mark holds per-item playback timestamps used to decide what to resume
// and when a play last happened.
type Mark struct {
	ItemID         string
	LastPlayedAt   time.Time
	PausedAt       time.Time
	PausedPosition time.Duration
}

// SetLastPlayed records when an item was last started or resumed.
func (m *Manager) SetLastPlayed(itemID string, at time.Time) error {
	_, err := m.db.Exec(`
		INSERT INTO playback_marks (item_id, last_played_at)
		VALUES (?, ?)
		ON CONFLICT(item_id) DO UPDATE SET
			last_played_at = excluded.last_played_at
	`, itemID, at.UnixMilli())
	return err
}

// SetPaused records when and where an item was paused.
func (m *Manager) SetPaused(itemID string, at time.Time, position time.Duration) error {
	_, err := m.db.Exec(`
		INSERT INTO playback_marks (item_id, paused_at, paused_position_ms)
		VALUES (?, ?, ?)
		ON CONFLICT(item_id) DO UPDATE SET
			paused_at = excluded.paused_at,
			paused_position_ms = excluded.paused_position_ms
	`, itemID, at.UnixMilli(), position.Milliseconds())
	return err
}

// Mark returns the recorded timestamps for an item. The second return value
// is false when no mark exists.
func (m *Manager) Mark(itemID string) (Mark, bool, error) {
	var lastPlayed, pausedAt, pausedMs sql.NullInt64
	err := m.db.QueryRow(`
		SELECT last_played_at, paused_at, paused_position_ms
		FROM playback_marks
		WHERE item_id = ?
	`, itemID).Scan(&lastPlayed, &pausedAt, &pausedMs)
	if err == sql.ErrNoRows {
		return Mark{}, false, nil
	}
	if err != nil {
		return Mark{}, false, err
	}
	mk := Mark{ItemID: itemID}
	if lastPlayed.Valid {
		mk.LastPlayedAt = time.UnixMilli(lastPlayed.Int64)
	}
	if pausedAt.Valid {
		mk.PausedAt = time.UnixMilli(pausedAt.Int64)
	}
	mk.PausedPosition = time.Duration(db.NullInt64Value(pausedMs)) * time.Millisecond
	return mk, true, nil
}

package state

import (
	"time"

	"github.com/llehouerou/tempest/internal/queue"
)

// PlayRecord is one entry of the local listening chronology.
type PlayRecord struct {
	ItemID   string
	Title    string
	Artist   string
	Album    string
	PlayedAt time.Time
}

// SaveChronology appends a play to the local listening history.
func (m *Manager) SaveChronology(item queue.Item, playedAt time.Time) error {
	_, err := m.db.Exec(`
		INSERT INTO chronology (item_id, title, artist, album, played_at)
		VALUES (?, ?, ?, ?, ?)
	`, item.ID, item.Title, item.Artist, item.Album, playedAt.UnixMilli())
	return err
}

// RecentPlays returns the most recent chronology entries, newest first.
func (m *Manager) RecentPlays(limit int) ([]PlayRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := m.db.Query(`
		SELECT item_id, title, artist, album, played_at
		FROM chronology
		ORDER BY played_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []PlayRecord
	for rows.Next() {
		var r PlayRecord
		var playedAt int64
		if err := rows.Scan(&r.ItemID, &r.Title, &r.Artist, &r.Album, &playedAt); err != nil {
			return nil, err
		}
		r.PlayedAt = time.UnixMilli(playedAt)
		records = append(records, r)
	}
	return records, rows.Err()
}

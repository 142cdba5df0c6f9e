package state

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/llehouerou/tempest/internal/backend"
	"github.com/llehouerou/tempest/internal/db"
	"github.com/llehouerou/tempest/internal/queue"
)

// SaveQueue replaces the persisted queue with the given snapshot. The item
// list and the playhead are written in one transaction so a crash never
// leaves an index pointing into a half-written queue.
func (m *Manager) SaveQueue(snap queue.Snapshot) error {
	return db.WithTx(m.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM queue_items`); err != nil {
			return err
		}
		for i, it := range snap.Items {
			extras, err := encodeExtras(it.Extras)
			if err != nil {
				return err
			}
			_, err = tx.Exec(`
				INSERT INTO queue_items
					(position, item_id, uri, request_uri, title, artist, album,
					 artwork_id, media_type, mime_type, extras)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, i, it.ID, it.URI, it.RequestURI, it.Title, it.Artist, it.Album,
				it.ArtworkID, string(it.Type), it.MIMEType, extras)
			if err != nil {
				return err
			}
		}
		_, err := tx.Exec(`
			INSERT INTO queue_state (id, current_index, position_ms, play_when_ready)
			VALUES (1, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				current_index = excluded.current_index,
				position_ms = excluded.position_ms,
				play_when_ready = excluded.play_when_ready
		`, snap.Index, snap.Position.Milliseconds(), boolToInt(snap.PlayWhenReady))
		return err
	})
}

// SavePlayhead updates the persisted index and position without rewriting
// the item list.
func (m *Manager) SavePlayhead(index int, position time.Duration) error {
	_, err := m.db.Exec(`
		INSERT INTO queue_state (id, current_index, position_ms)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			current_index = excluded.current_index,
			position_ms = excluded.position_ms
	`, index, position.Milliseconds())
	return err
}

// Snapshot loads the persisted queue items in order.
func (m *Manager) Snapshot() ([]queue.Item, error) {
	rows, err := m.db.Query(`
		SELECT item_id, uri, request_uri, title, artist, album,
		       artwork_id, media_type, mime_type, extras
		FROM queue_items
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []queue.Item
	for rows.Next() {
		var it queue.Item
		var requestURI, title, artist, album, artworkID, mediaType, mimeType, extras sql.NullString
		if err := rows.Scan(&it.ID, &it.URI, &requestURI, &title, &artist, &album,
			&artworkID, &mediaType, &mimeType, &extras); err != nil {
			return nil, err
		}
		it.RequestURI = db.NullStringValue(requestURI)
		it.Title = db.NullStringValue(title)
		it.Artist = db.NullStringValue(artist)
		it.Album = db.NullStringValue(album)
		it.ArtworkID = db.NullStringValue(artworkID)
		it.Type = queue.MediaType(db.NullStringValue(mediaType))
		it.MIMEType = db.NullStringValue(mimeType)
		it.Extras, err = decodeExtras(db.NullStringValue(extras))
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// LastIndex returns the persisted playhead index, or 0 when no state exists.
func (m *Manager) LastIndex() (int, error) {
	var idx sql.NullInt64
	err := m.db.QueryRow(`SELECT current_index FROM queue_state WHERE id = 1`).Scan(&idx)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return int(db.NullInt64Value(idx)), nil
}

// LastPosition returns the persisted playhead position, or 0 when no state
// exists.
func (m *Manager) LastPosition() (time.Duration, error) {
	var ms sql.NullInt64
	err := m.db.QueryRow(`SELECT position_ms FROM queue_state WHERE id = 1`).Scan(&ms)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return time.Duration(db.NullInt64Value(ms)) * time.Millisecond, nil
}

// Modes returns the persisted shuffle and repeat modes.
func (m *Manager) Modes() (bool, backend.RepeatMode, error) {
	var shuffle, repeat sql.NullInt64
	err := m.db.QueryRow(`SELECT shuffle, repeat_mode FROM queue_state WHERE id = 1`).
		Scan(&shuffle, &repeat)
	if err == sql.ErrNoRows {
		return false, backend.RepeatOff, nil
	}
	if err != nil {
		return false, backend.RepeatOff, err
	}
	return db.NullInt64Value(shuffle) != 0,
		backend.RepeatMode(db.NullInt64Value(repeat)), nil
}

// SaveModes persists the shuffle and repeat modes.
func (m *Manager) SaveModes(shuffle bool, repeat backend.RepeatMode) error {
	_, err := m.db.Exec(`
		INSERT INTO queue_state (id, shuffle, repeat_mode)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			shuffle = excluded.shuffle,
			repeat_mode = excluded.repeat_mode
	`, boolToInt(shuffle), int(repeat))
	return err
}

func encodeExtras(extras map[string]string) (string, error) {
	if len(extras) == 0 {
		return "", nil
	}
	b, err := json.Marshal(extras)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeExtras(s string) (map[string]string, error) {
	if s == "" {
		return nil, nil
	}
	var extras map[string]string
	if err := json.Unmarshal([]byte(s), &extras); err != nil {
		return nil, err
	}
	return extras, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

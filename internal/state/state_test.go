package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/tempest/internal/backend"
	"github.com/llehouerou/tempest/internal/queue"
)

func openTestStore(t *testing.T) *Manager {
	t.Helper()
	m, err := OpenPath(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestQueueRoundTrip(t *testing.T) {
	m := openTestStore(t)

	items := []queue.Item{
		{
			ID:     "a",
			URI:    "https://music.example/rest/stream?id=1",
			Title:  "First",
			Artist: "Artist",
			Album:  "Album",
			Type:   queue.MediaTypeMusic,
			Extras: map[string]string{queue.ExtraID: "1"},
		},
		{
			ID:         "b",
			URI:        "http://radio.example/stream",
			RequestURI: "http://radio.example/stream.pls",
			Title:      "Station",
			Type:       queue.MediaTypeRadio,
		},
	}
	snap := queue.Snapshot{
		Items:         items,
		Index:         1,
		Position:      42 * time.Second,
		PlayWhenReady: true,
	}
	require.NoError(t, m.SaveQueue(snap))

	got, err := m.Snapshot()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
	assert.Equal(t, "1", got[0].Extras[queue.ExtraID])
	assert.Equal(t, "http://radio.example/stream.pls", got[1].RequestURI)
	assert.Equal(t, queue.MediaTypeRadio, got[1].Type)

	idx, err := m.LastIndex()
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	pos, err := m.LastPosition()
	require.NoError(t, err)
	assert.Equal(t, 42*time.Second, pos)
}

func TestQueueReplacedOnSave(t *testing.T) {
	m := openTestStore(t)

	first := queue.Snapshot{Items: []queue.Item{{ID: "a", URI: "u1"}, {ID: "b", URI: "u2"}}}
	require.NoError(t, m.SaveQueue(first))
	second := queue.Snapshot{Items: []queue.Item{{ID: "c", URI: "u3"}}}
	require.NoError(t, m.SaveQueue(second))

	got, err := m.Snapshot()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].ID)
}

func TestEmptyStoreDefaults(t *testing.T) {
	m := openTestStore(t)

	idx, err := m.LastIndex()
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	pos, err := m.LastPosition()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), pos)

	items, err := m.Snapshot()
	require.NoError(t, err)
	assert.Empty(t, items)

	shuffle, repeat, err := m.Modes()
	require.NoError(t, err)
	assert.False(t, shuffle)
	assert.Equal(t, backend.RepeatOff, repeat)
}

func TestSavePlayheadKeepsItems(t *testing.T) {
	m := openTestStore(t)

	snap := queue.Snapshot{Items: []queue.Item{{ID: "a", URI: "u"}}, Index: 0}
	require.NoError(t, m.SaveQueue(snap))
	require.NoError(t, m.SavePlayhead(0, 10*time.Second))

	items, err := m.Snapshot()
	require.NoError(t, err)
	assert.Len(t, items, 1)

	pos, err := m.LastPosition()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, pos)
}

func TestModesRoundTrip(t *testing.T) {
	m := openTestStore(t)

	require.NoError(t, m.SaveModes(true, backend.RepeatAll))

	shuffle, repeat, err := m.Modes()
	require.NoError(t, err)
	assert.True(t, shuffle)
	assert.Equal(t, backend.RepeatAll, repeat)
}

func TestMarksRoundTrip(t *testing.T) {
	m := openTestStore(t)

	played := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	paused := played.Add(3 * time.Minute)
	require.NoError(t, m.SetLastPlayed("a", played))
	require.NoError(t, m.SetPaused("a", paused, 90*time.Second))

	mk, ok, err := m.Mark("a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, mk.LastPlayedAt.Equal(played))
	assert.True(t, mk.PausedAt.Equal(paused))
	assert.Equal(t, 90*time.Second, mk.PausedPosition)

	_, ok, err = m.Mark("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestChronologyOrder(t *testing.T) {
	m := openTestStore(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		it := queue.Item{ID: id, Title: id}
		require.NoError(t, m.SaveChronology(it, base.Add(time.Duration(i)*time.Minute)))
	}

	records, err := m.RecentPlays(2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "c", records[0].ItemID)
	assert.Equal(t, "b", records[1].ItemID)
}

func TestEqualizerSettingsRoundTrip(t *testing.T) {
	m := openTestStore(t)

	enabled, levels, err := m.EqualizerSettings(5)
	require.NoError(t, err)
	assert.False(t, enabled)
	assert.Equal(t, []int{0, 0, 0, 0, 0}, levels)

	require.NoError(t, m.SaveEqualizerSettings(true, []int{1, -2, 3}))

	enabled, levels, err = m.EqualizerSettings(5)
	require.NoError(t, err)
	assert.True(t, enabled)
	assert.Equal(t, []int{1, -2, 3, 0, 0}, levels)

	enabled, levels, err = m.EqualizerSettings(2)
	require.NoError(t, err)
	assert.True(t, enabled)
	assert.Equal(t, []int{1, -2}, levels)
}

// Package queue defines the playable item model shared by backends and the
// session orchestrator.
package queue

import "github.com/google/uuid"

// MediaType classifies a queue item.
type MediaType string

const (
	MediaTypeMusic MediaType = "music"
	MediaTypeRadio MediaType = "radio"
)

// MIMETypeAudio is the canonical MIME type applied to every ingested item.
const MIMETypeAudio = "audio"

// Well-known extras keys.
const (
	ExtraURI         = "uri"
	ExtraID          = "id"
	ExtraAlbumID     = "albumId"
	ExtraArtistID    = "artistId"
	ExtraCoverID     = "coverArtId"
	ExtraStationName = "stationName"
	ExtraRadioArtist = "radioArtist"
	ExtraRadioTitle  = "radioTitle"
	ExtraSongLink    = "assetLinkSong"
	ExtraAlbumLink   = "assetLinkAlbum"
	ExtraArtistLink  = "assetLinkArtist"
)

// Item is an ordered queue element. Identity is its position in the queue
// plus its ID. Items are enriched in place (radio tag merge, URI remap);
// reordering always replaces the whole sequence instead.
type Item struct {
	ID         string
	URI        string // primary play URI
	RequestURI string // raw source URI as requested by the client
	Title      string
	Artist     string
	Album      string
	ArtworkID  string
	Type       MediaType
	MIMEType   string
	Extras     map[string]string
}

// NewID returns a fresh item identifier.
func NewID() string {
	return uuid.NewString()
}

// Extra returns the extras value for key, or "" if absent.
func (i Item) Extra(key string) string {
	if i.Extras == nil {
		return ""
	}
	return i.Extras[key]
}

// HasExtra reports whether key is present in the extras.
func (i Item) HasExtra(key string) bool {
	if i.Extras == nil {
		return false
	}
	_, ok := i.Extras[key]
	return ok
}

// WithExtra returns a copy of the item with key set in its extras.
func (i Item) WithExtra(key, value string) Item {
	c := i.Clone()
	if c.Extras == nil {
		c.Extras = make(map[string]string, 1)
	}
	c.Extras[key] = value
	return c
}

// Clone returns a deep copy of the item.
func (i Item) Clone() Item {
	c := i
	if i.Extras != nil {
		c.Extras = make(map[string]string, len(i.Extras))
		for k, v := range i.Extras {
			c.Extras[k] = v
		}
	}
	return c
}

// CloneItems returns a deep copy of a slice of items.
func CloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for n, it := range items {
		out[n] = it.Clone()
	}
	return out
}

package widget

import (
	"strings"

	"github.com/llehouerou/tempest/internal/queue"
)

// Deep-link scheme used when no web frontend is configured.
const linkScheme = "tempest://"

// SongLink returns a link to the song page for an item ID.
func SongLink(frontendURL, id string) string {
	return assetLink(frontendURL, "song", id)
}

// AlbumLink returns a link to the album page for an album ID.
func AlbumLink(frontendURL, id string) string {
	return assetLink(frontendURL, "album", id)
}

// ArtistLink returns a link to the artist page for an artist ID.
func ArtistLink(frontendURL, id string) string {
	return assetLink(frontendURL, "artist", id)
}

func assetLink(frontendURL, kind, id string) string {
	if id == "" {
		return ""
	}
	if frontendURL == "" {
		return linkScheme + kind + "/" + id
	}
	return strings.TrimRight(frontendURL, "/") + "/" + kind + "/" + id
}

// AnnotateLinks fills the asset-link extras for an item from its IDs. Links
// already present are left alone.
func AnnotateLinks(item queue.Item, frontendURL string) queue.Item {
	set := func(it queue.Item, key, link string) queue.Item {
		if link == "" || it.Extra(key) != "" {
			return it
		}
		return it.WithExtra(key, link)
	}
	out := item
	out = set(out, queue.ExtraSongLink, SongLink(frontendURL, item.Extra(queue.ExtraID)))
	out = set(out, queue.ExtraAlbumLink, AlbumLink(frontendURL, item.Extra(queue.ExtraAlbumID)))
	out = set(out, queue.ExtraArtistLink, ArtistLink(frontendURL, item.Extra(queue.ExtraArtistID)))
	return out
}

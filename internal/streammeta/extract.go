package streammeta

import "strings"

// Meta is an extracted (artist, title) pair. Either field may be empty.
type Meta struct {
	Artist string
	Title  string
}

// IsZero reports whether neither artist nor title is set.
func (m Meta) IsZero() bool {
	return m.Artist == "" && m.Title == ""
}

// Extract parses decoder-emitted frames into a Meta. Later frames override
// earlier ones field by field, matching decoder emission order.
func Extract(frames []Frame) Meta {
	var m Meta
	for _, f := range frames {
		switch e := f.(type) {
		case ICYFrame:
			if e.Title == "" {
				continue
			}
			artist, title := SplitStreamTitle(e.Title)
			if artist != "" {
				m.Artist = artist
			}
			if title != "" {
				m.Title = title
			}
		case ID3Frame:
			switch e.ID {
			case "TPE1":
				if strings.TrimSpace(e.Value) != "" {
					m.Artist = e.Value
				}
			case "TIT2":
				if strings.TrimSpace(e.Value) != "" {
					m.Title = e.Value
				}
			}
		case VorbisFrame:
			switch e.Key {
			case "ARTIST":
				if strings.TrimSpace(e.Value) != "" {
					m.Artist = e.Value
				}
			case "TITLE":
				if strings.TrimSpace(e.Value) != "" {
					m.Title = e.Value
				}
			}
		}
	}
	return m
}

// SplitStreamTitle splits a free-text stream title on the first " - "
// separator. With two non-empty parts the result is (artist, title);
// otherwise the whole string is treated as title-only.
func SplitStreamTitle(s string) (artist, title string) {
	parts := strings.SplitN(s, " - ", 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	return "", strings.TrimSpace(s)
}

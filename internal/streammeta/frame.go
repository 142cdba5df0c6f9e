// Package streammeta extracts (artist, title) metadata for streaming items
// from two independent sources: decoder-emitted metadata frames and an HTTP
// header probe against the stream URL.
package streammeta

// Frame is a decoder-emitted metadata entry. The concrete types mirror the
// three frame families found in audio streams.
type Frame interface {
	frame()
}

// ICYFrame is a free-text stream title ("Artist - Title" or just a title).
type ICYFrame struct {
	Title string
}

// ID3Frame is an ID3 text information frame (e.g. TPE1, TIT2).
type ID3Frame struct {
	ID    string
	Value string
}

// VorbisFrame is a Vorbis comment (e.g. ARTIST, TITLE).
type VorbisFrame struct {
	Key   string
	Value string
}

func (ICYFrame) frame()    {}
func (ID3Frame) frame()    {}
func (VorbisFrame) frame() {}

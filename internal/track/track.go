// Package track holds the metadata model shared by the readers, the playlist
// and the player.
package track

import (
	"path/filepath"
	"time"
)

const (
	// VGMSampleRate is the fixed sample clock of VGM sample counts.
	VGMSampleRate = 44100
	// Xid6TickRate is the tick clock of Xid6 length chunks.
	Xid6TickRate = 64000
)

// Localized is a text field that may carry an English and a Japanese form.
type Localized struct {
	English  string
	Japanese string
}

// String prefers the English form.
func (l Localized) String() string {
	if l.English != "" {
		return l.English
	}
	return l.Japanese
}

// Timing holds the VGM header sample counts.
type Timing struct {
	TotalSamples uint32
	LoopOffset   uint32
	LoopSamples  uint32
}

// Track represents one playable music item and its metadata.
type Track struct {
	// GD3 / ID666 text
	Title       Localized // Track name
	Game        Localized // Game name
	System      Localized // System name
	Author      Localized // Composer
	ReleaseDate string
	Converter   string // VGM converter or SPC dumper
	Notes       string

	// Timing from the VGM header, zero for other formats
	Timing Timing

	path      string
	format    Format
	temporary bool
	origin    *Track

	archive string
	entry   string
	members []*Track

	chunks []Chunk
}

// New creates a track for path. The format is derived here, once.
func New(path string) *Track {
	return &Track{
		path:   path,
		format: DetectFormat(path),
	}
}

// NewTemporary creates a track for a file synthesized from origin, such as a
// decompressed VGZ. The file at path is deleted after playback.
func NewTemporary(path string, origin *Track) *Track {
	t := New(path)
	t.temporary = true
	t.origin = origin
	if origin != nil {
		t.copyTags(origin)
	}
	return t
}

// NewMember creates a track for entry inside the archive at archivePath.
// Its path is archivePath joined with entry, so the format follows the entry.
func NewMember(archivePath, entry string) *Track {
	t := New(filepath.Join(archivePath, entry))
	t.archive = archivePath
	t.entry = entry
	return t
}

func (t *Track) copyTags(o *Track) {
	t.Title = o.Title
	t.Game = o.Game
	t.System = o.System
	t.Author = o.Author
	t.ReleaseDate = o.ReleaseDate
	t.Converter = o.Converter
	t.Notes = o.Notes
	t.Timing = o.Timing
	t.chunks = append([]Chunk(nil), o.chunks...)
}

// Path returns the filesystem location of the track.
func (t *Track) Path() string { return t.path }

// Format returns the container format.
func (t *Track) Format() Format { return t.format }

// IsTemporary reports whether Path was synthesized and must be deleted
// after playback.
func (t *Track) IsTemporary() bool { return t.temporary }

// Origin returns the track a temporary track was derived from.
func (t *Track) Origin() *Track { return t.origin }

// Archive returns the containing archive path for archive members.
func (t *Track) Archive() string { return t.archive }

// Entry returns the entry name inside Archive.
func (t *Track) Entry() string { return t.entry }

// IsMember reports whether the track lives inside an archive.
func (t *Track) IsMember() bool { return t.archive != "" }

// AddMember appends an archive member.
func (t *Track) AddMember(m *Track) {
	t.members = append(t.members, m)
}

// Members returns the archive members in entry order.
func (t *Track) Members() []*Track {
	return append([]*Track(nil), t.members...)
}

// AddChunk appends an Xid6 chunk.
func (t *Track) AddChunk(c Chunk) {
	t.chunks = append(t.chunks, c)
}

// Chunks returns the Xid6 chunks in file order.
func (t *Track) Chunks() []Chunk {
	return append([]Chunk(nil), t.chunks...)
}

// Chunk returns the first chunk with id.
func (t *Track) Chunk(id ChunkID) (Chunk, bool) {
	for _, c := range t.chunks {
		if c.ID() == id {
			return c, true
		}
	}
	return Chunk{}, false
}

// DisplayTitle returns the title, falling back to the file name.
func (t *Track) DisplayTitle() string {
	if s := t.Title.String(); s != "" {
		return s
	}
	name := filepath.Base(t.path)
	return name[:len(name)-len(filepath.Ext(name))]
}

// Duration returns the playing time of one pass through the track.
// VGM uses the header sample count; SPC sums the Xid6 intro, loop, end and
// fade lengths. Zero means unknown.
func (t *Track) Duration() time.Duration {
	if t.Timing.TotalSamples > 0 {
		return samplesToDuration(t.Timing.TotalSamples)
	}
	var ticks int64
	for _, id := range []ChunkID{ChunkIntroLength, ChunkLoopLength, ChunkEndLength, ChunkFadeLength} {
		if c, ok := t.Chunk(id); ok {
			v, _ := c.Int()
			ticks += int64(v)
		}
	}
	return time.Duration(ticks) * time.Second / Xid6TickRate
}

// LoopPoint returns where the loop begins, or zero for tracks without one.
func (t *Track) LoopPoint() time.Duration {
	if t.Timing.LoopSamples == 0 || t.Timing.LoopSamples > t.Timing.TotalSamples {
		return 0
	}
	return samplesToDuration(t.Timing.TotalSamples - t.Timing.LoopSamples)
}

// HasLoop reports whether the VGM header declares a loop.
func (t *Track) HasLoop() bool {
	return t.Timing.LoopSamples > 0
}

func samplesToDuration(samples uint32) time.Duration {
	return time.Duration(samples) * time.Second / VGMSampleRate
}

package track

import (
	"fmt"
	"strconv"
)

// ChunkID is the id byte of an Xid6 extended tag chunk.
type ChunkID uint8

// Known Xid6 chunk ids.
const (
	ChunkSongName      ChunkID = 0x01
	ChunkGameName      ChunkID = 0x02
	ChunkArtistName    ChunkID = 0x03
	ChunkDumperName    ChunkID = 0x04
	ChunkDumpDate      ChunkID = 0x05
	ChunkEmulator      ChunkID = 0x06
	ChunkComments      ChunkID = 0x07
	ChunkOSTTitle      ChunkID = 0x10
	ChunkOSTDisc       ChunkID = 0x11
	ChunkOSTTrack      ChunkID = 0x12
	ChunkPublisher     ChunkID = 0x13
	ChunkCopyrightYear ChunkID = 0x14
	ChunkIntroLength   ChunkID = 0x30
	ChunkLoopLength    ChunkID = 0x31
	ChunkEndLength     ChunkID = 0x32
	ChunkFadeLength    ChunkID = 0x33
	ChunkMutedChannels ChunkID = 0x34
	ChunkLoopCount     ChunkID = 0x35
	ChunkAmplification ChunkID = 0x36
)

// ChunkKind is how a chunk stores its value.
type ChunkKind int

const (
	// KindString chunks hold padded text after the 4-byte header.
	KindString ChunkKind = iota
	// KindInteger chunks hold a 32-bit integer after the header.
	KindInteger
	// KindLength chunks keep a signed 16-bit value inside the header itself.
	KindLength
)

func (k ChunkKind) String() string {
	switch k {
	case KindString:
		return "String"
	case KindInteger:
		return "Integer"
	case KindLength:
		return "Length"
	default:
		return "Unknown"
	}
}

type chunkInfo struct {
	kind ChunkKind
	desc string
}

var chunkTable = map[ChunkID]chunkInfo{
	ChunkSongName:      {KindString, "Song Name"},
	ChunkGameName:      {KindString, "Game Name"},
	ChunkArtistName:    {KindString, "Artist Name"},
	ChunkDumperName:    {KindString, "Dumper Name"},
	ChunkDumpDate:      {KindInteger, "Dumping Date"},
	ChunkEmulator:      {KindLength, "Emulator Used"},
	ChunkComments:      {KindString, "Comments"},
	ChunkOSTTitle:      {KindString, "Official Soundtrack Title"},
	ChunkOSTDisc:       {KindLength, "OST Disc Number"},
	ChunkOSTTrack:      {KindLength, "OST Track Number"},
	ChunkPublisher:     {KindString, "Publisher Name"},
	ChunkCopyrightYear: {KindLength, "Copyright Year"},
	ChunkIntroLength:   {KindInteger, "Introduction Length (ticks)"},
	ChunkLoopLength:    {KindInteger, "Loop Length (ticks)"},
	ChunkEndLength:     {KindInteger, "End Length (ticks)"},
	ChunkFadeLength:    {KindInteger, "Fade Length (ticks)"},
	ChunkMutedChannels: {KindLength, "Muted Channels"},
	ChunkLoopCount:     {KindLength, "Number of Times to Loop"},
	ChunkAmplification: {KindInteger, "Amplification Value (65536 = Normal)"},
}

// KindOf returns the fixed kind for id, or ErrUnknownChunkID.
func KindOf(id ChunkID) (ChunkKind, error) {
	info, ok := chunkTable[id]
	if !ok {
		return 0, fmt.Errorf("%w: 0x%02x", ErrUnknownChunkID, uint8(id))
	}
	return info.kind, nil
}

// String returns the description of the chunk id.
func (id ChunkID) String() string {
	if info, ok := chunkTable[id]; ok {
		return info.desc
	}
	return fmt.Sprintf("Unknown ID 0x%02x", uint8(id))
}

// Chunk is one Xid6 extended tag. The kind is fixed by the id at
// construction, and the value is either text or an integer depending on it.
type Chunk struct {
	id     ChunkID
	kind   ChunkKind
	length int
	text   string
	num    int32
}

// NewTextChunk builds a String-kind chunk.
func NewTextChunk(id ChunkID, length int, text string) (Chunk, error) {
	kind, err := KindOf(id)
	if err != nil {
		return Chunk{}, err
	}
	if kind != KindString {
		return Chunk{}, fmt.Errorf("chunk 0x%02x is %s, not String", uint8(id), kind)
	}
	return Chunk{id: id, kind: kind, length: length, text: text}, nil
}

// NewIntChunk builds an Integer- or Length-kind chunk.
func NewIntChunk(id ChunkID, length int, value int32) (Chunk, error) {
	kind, err := KindOf(id)
	if err != nil {
		return Chunk{}, err
	}
	if kind == KindString {
		return Chunk{}, fmt.Errorf("chunk 0x%02x is String, not numeric", uint8(id))
	}
	return Chunk{id: id, kind: kind, length: length, num: value}, nil
}

// ID returns the chunk id.
func (c Chunk) ID() ChunkID { return c.id }

// Kind returns the kind derived from the id.
func (c Chunk) Kind() ChunkKind { return c.kind }

// Length returns the declared data length before padding.
func (c Chunk) Length() int { return c.length }

// Text returns the value of a String chunk.
func (c Chunk) Text() (string, bool) {
	return c.text, c.kind == KindString
}

// Int returns the value of an Integer or Length chunk.
func (c Chunk) Int() (int32, bool) {
	return c.num, c.kind != KindString
}

// String renders the value as text regardless of kind.
func (c Chunk) String() string {
	if c.kind == KindString {
		return c.text
	}
	return strconv.FormatInt(int64(c.num), 10)
}

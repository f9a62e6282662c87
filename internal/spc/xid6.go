package spc

import (
	"errors"

	"golang.org/x/text/encoding"

	"github.com/dewi-tim/vgmlibrarian/internal/binary"
	"github.com/dewi-tim/vgmlibrarian/internal/track"
)

// chunkHeaderSize covers id, type hint and the 16-bit length or value.
const chunkHeaderSize = 4

// readXid6 decodes the chunk stream at the current position. A file that
// ends before the marker has no extended tags.
func readXid6(br *binary.Reader, t *track.Track, dec *encoding.Decoder) error {
	ok, err := br.ReadTag(xid6Marker, "xid6 marker")
	if errors.Is(err, binary.ErrShortRead) {
		return nil
	}
	if err != nil {
		return track.NewFormatError(track.StageXid6, xid6Offset, track.ErrTruncated, err)
	}
	if !ok {
		return nil
	}

	remaining, err := binary.ReadLE[int32](br, "xid6 size")
	if err != nil {
		return track.NewFormatError(track.StageXid6, xid6Offset+4, track.ErrTruncated, err)
	}

	// A chunk may overrun the declared size; the loop simply ends.
	for remaining > 0 {
		off := br.Offset()
		chunk, n, err := readChunk(br, dec)
		if err != nil {
			reason := track.ErrTruncated
			if errors.Is(err, track.ErrUnknownChunkID) {
				reason = track.ErrUnknownChunkID
			}
			return track.NewFormatError(track.StageXid6, off, reason, err)
		}
		t.AddChunk(chunk)
		remaining -= int32(n)
	}
	return nil
}

// readChunk decodes one chunk and returns the number of bytes it consumed.
// The type hint byte is ignored; the kind always comes from the id.
func readChunk(br *binary.Reader, dec *encoding.Decoder) (track.Chunk, int, error) {
	hdr, err := br.ReadBytes(chunkHeaderSize, "xid6 chunk header")
	if err != nil {
		return track.Chunk{}, 0, err
	}
	id := track.ChunkID(hdr[0])
	field := uint16(hdr[2]) | uint16(hdr[3])<<8

	kind, err := track.KindOf(id)
	if err != nil {
		return track.Chunk{}, 0, err
	}

	switch kind {
	case track.KindLength:
		c, err := track.NewIntChunk(id, 2, int32(int16(field)))
		return c, chunkHeaderSize, err

	case track.KindString:
		padded := pad4(int(field))
		raw, err := br.ReadBytes(padded, id.String())
		if err != nil {
			return track.Chunk{}, 0, err
		}
		c, err := track.NewTextChunk(id, int(field), decodeText(dec, raw))
		return c, chunkHeaderSize + padded, err

	default:
		v, err := binary.ReadLE[int32](br, id.String())
		if err != nil {
			return track.Chunk{}, 0, err
		}
		c, err := track.NewIntChunk(id, int(field), v)
		return c, chunkHeaderSize + 4, err
	}
}

// pad4 rounds n up to a multiple of four.
func pad4(n int) int {
	return (n + 3) &^ 3
}

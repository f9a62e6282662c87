package vgm

import (
	"bytes"
	encbinary "encoding/binary"
	"errors"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"

	"github.com/dewi-tim/vgmlibrarian/internal/binary"
	"github.com/dewi-tim/vgmlibrarian/internal/track"
)

// GD3Marker opens every GD3 block.
const GD3Marker = "Gd3 "

// gd3Version is written by EncodeGD3; ReadGD3 does not check it.
const gd3Version = 0x00000100

var errNulInField = errors.New("GD3 field contains a NUL character")

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// gd3Fields lists the track fields in GD3 storage order.
func gd3Fields(t *track.Track) []*string {
	return []*string{
		&t.Title.English,
		&t.Title.Japanese,
		&t.Game.English,
		&t.Game.Japanese,
		&t.System.English,
		&t.System.Japanese,
		&t.Author.English,
		&t.Author.Japanese,
		&t.ReleaseDate,
		&t.Converter,
		&t.Notes,
	}
}

// ReadGD3 decodes a GD3 block starting at the current position of r into t.
// The version and length fields are skipped; each of the eleven strings runs
// to its zero terminator.
func ReadGD3(r io.ReadSeeker, t *track.Track) error {
	br := binary.NewReader(r)
	start := br.Offset()

	ok, err := br.ReadTag(GD3Marker, "GD3 marker")
	if err != nil {
		return track.NewFormatError(track.StageGD3, start, track.ErrMissingGD3Marker, err)
	}
	if !ok {
		return track.NewFormatError(track.StageGD3, start, track.ErrMissingGD3Marker, nil)
	}

	if err := br.Skip(8, "GD3 version and length"); err != nil {
		return track.NewFormatError(track.StageGD3, start+4, track.ErrTruncated, err)
	}

	dec := utf16le.NewDecoder()
	for _, field := range gd3Fields(t) {
		off := br.Offset()
		raw, err := readUTF16Z(br)
		if err != nil {
			return track.NewFormatError(track.StageGD3, off, track.ErrTruncated, err)
		}
		text, err := dec.Bytes(raw)
		if err != nil {
			return track.NewFormatError(track.StageGD3, off, track.ErrTruncated, err)
		}
		*field = string(text)
	}
	return nil
}

// readUTF16Z reads 16-bit code units up to and including a zero unit and
// returns the bytes before it.
func readUTF16Z(br *binary.Reader) ([]byte, error) {
	var out []byte
	for {
		unit, err := br.ReadBytes(2, "GD3 string")
		if err != nil {
			return nil, err
		}
		if unit[0] == 0 && unit[1] == 0 {
			return out, nil
		}
		out = append(out, unit...)
	}
}

// EncodeGD3 builds a GD3 block holding the eleven text fields of t.
func EncodeGD3(t *track.Track) ([]byte, error) {
	enc := utf16le.NewEncoder()

	var payload bytes.Buffer
	for _, field := range gd3Fields(t) {
		if strings.ContainsRune(*field, 0) {
			return nil, errNulInField
		}
		b, err := enc.Bytes([]byte(*field))
		if err != nil {
			return nil, err
		}
		payload.Write(b)
		payload.Write([]byte{0, 0})
	}

	var out bytes.Buffer
	out.WriteString(GD3Marker)
	_ = encbinary.Write(&out, encbinary.LittleEndian, uint32(gd3Version))
	_ = encbinary.Write(&out, encbinary.LittleEndian, uint32(payload.Len()))
	out.Write(payload.Bytes())
	return out.Bytes(), nil
}

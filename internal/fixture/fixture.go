// Package fixture builds small synthetic VGM, VGZ and SPC images for tests.
package fixture

import (
	"bytes"
	encbinary "encoding/binary"

	"github.com/klauspost/compress/gzip"

	"github.com/dewi-tim/vgmlibrarian/internal/spc"
	"github.com/dewi-tim/vgmlibrarian/internal/track"
	"github.com/dewi-tim/vgmlibrarian/internal/vgm"
)

// Tags returns a track with all eleven GD3 fields filled from title.
func Tags(title string) *track.Track {
	t := track.New(title + ".vgm")
	t.Title = track.Localized{English: title, Japanese: title + " (JP)"}
	t.Game = track.Localized{English: "Game", Japanese: "ゲーム"}
	t.System = track.Localized{English: "Mega Drive"}
	t.Author = track.Localized{English: "Composer"}
	t.ReleaseDate = "1992"
	t.Converter = "Converter"
	t.Notes = "Notes"
	return t
}

// VGM builds a VGM image with a GD3 tag from tags, or without one when tags
// is nil.
func VGM(tags *track.Track, totalSamples, loopSamples uint32) []byte {
	header := make([]byte, 0x40)
	copy(header, vgm.Magic)
	encbinary.LittleEndian.PutUint32(header[0x18:], totalSamples)
	encbinary.LittleEndian.PutUint32(header[0x20:], loopSamples)
	if tags == nil {
		return header
	}

	gd3, err := vgm.EncodeGD3(tags)
	if err != nil {
		panic(err)
	}
	encbinary.LittleEndian.PutUint32(header[0x14:], uint32(len(header)-0x14))
	return append(header, gd3...)
}

// Gzip compresses data.
func Gzip(data []byte) []byte {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, _ = zw.Write(data)
	_ = zw.Close()
	return buf.Bytes()
}

// SPC builds a full-size SPC image with an ID666 title and game and no
// extended tags.
func SPC(title, game string) []byte {
	field := func(s string, n int) []byte {
		b := make([]byte, n)
		copy(b, s)
		return b
	}

	var b bytes.Buffer
	b.WriteString(spc.Signature)
	b.Write([]byte{26, 26, 26})
	b.Write(make([]byte, 10))
	b.Write(field(title, 32))
	b.Write(field(game, 32))
	b.Write(make([]byte, 0x10200-b.Len()))
	return b.Bytes()
}

// Package spc reads the ID666 and Xid6 tags of SNES SPC700 snapshots.
package spc

import (
	"bytes"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/dewi-tim/vgmlibrarian/internal/binary"
	"github.com/dewi-tim/vgmlibrarian/internal/track"
)

// Signature is the fixed text at offset 0 of every SPC file.
const Signature = "SNES-SPC700 Sound File Data v0.30"

// DefaultCharset decodes ID666 and Xid6 text. ASCII is a subset.
const DefaultCharset = "shift_jis"

const (
	tagMarker     = 26
	id666Skip     = 10
	xid6Offset    = 0x10200
	xid6Marker    = "xid6"
	headerOffset  = int64(len(Signature))
	presenceAt    = headerOffset + 2
	id666FieldsAt = presenceAt + 1 + id666Skip
)

// id666Layout is the fixed field order and width of the text tag.
var id666Layout = []struct {
	what  string
	width int
}{
	{"song title", 32},
	{"game title", 32},
	{"dumper", 16},
	{"comments", 32},
	{"dump date", 11},
	{"fade-out seconds", 3},
	{"fade-in milliseconds", 5},
	{"artist", 32},
}

type options struct {
	charset encoding.Encoding
}

// Option configures Read.
type Option func(*options)

// WithCharset sets the encoding of tag text.
func WithCharset(enc encoding.Encoding) Option {
	return func(o *options) {
		if enc != nil {
			o.charset = enc
		}
	}
}

// Charset looks up an encoding by its WHATWG name, such as "shift_jis" or
// "windows-1252".
func Charset(name string) (encoding.Encoding, error) {
	return htmlindex.Get(name)
}

func defaultOptions() options {
	enc, err := Charset(DefaultCharset)
	if err != nil {
		enc = encoding.Nop
	}
	return options{charset: enc}
}

// Read parses the SPC header at the start of r, its ID666 tag when present
// and the Xid6 chunk stream at 0x10200 when present.
func Read(r io.ReadSeeker, t *track.Track, opts ...Option) error {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	dec := o.charset.NewDecoder()
	br := binary.NewReader(r)

	sig, err := br.ReadBytes(len(Signature), "SPC signature")
	if err != nil {
		return track.NewFormatError(track.StageSPCHeader, 0, track.ErrBadSignature, err)
	}
	if string(sig) != Signature {
		return track.NewFormatError(track.StageSPCHeader, 0, track.ErrBadSignature, nil)
	}

	marks, err := br.ReadBytes(2, "header bytes")
	if err != nil {
		return track.NewFormatError(track.StageSPCHeader, headerOffset, track.ErrTruncated, err)
	}
	if marks[0] != tagMarker || marks[1] != tagMarker {
		return track.NewFormatError(track.StageSPCHeader, headerOffset, track.ErrBadHeaderBytes, nil)
	}

	presence, err := binary.ReadLE[uint8](br, "ID666 presence")
	if err != nil {
		return track.NewFormatError(track.StageSPCHeader, presenceAt, track.ErrTruncated, err)
	}
	if presence == tagMarker {
		if err := readID666(br, t, dec); err != nil {
			return track.NewFormatError(track.StageID666, id666FieldsAt, track.ErrTruncated, err)
		}
	}

	if err := br.SeekTo(xid6Offset, "extended tag area"); err != nil {
		return track.NewFormatError(track.StageXid6, xid6Offset, track.ErrTruncated, err)
	}
	return readXid6(br, t, dec)
}

func readID666(br *binary.Reader, t *track.Track, dec *encoding.Decoder) error {
	cr := binary.NewChainReader(br)
	cr.Skip(id666Skip, "ID666 reserved")

	values := make([]string, len(id666Layout))
	for i, f := range id666Layout {
		values[i] = decodeText(dec, cr.Bytes(f.width, f.what))
	}
	if err := cr.Err(); err != nil {
		return err
	}

	t.Title.English = values[0]
	t.Game.English = values[1]
	t.Converter = values[2]
	t.Notes = values[3]
	t.ReleaseDate = values[4]
	// fade lengths at 5 and 6 are not kept
	t.Author.English = values[7]
	return nil
}

// decodeText drops every zero byte, then decodes with dec.
func decodeText(dec *encoding.Decoder, raw []byte) string {
	raw = bytes.ReplaceAll(raw, []byte{0}, nil)
	if len(raw) == 0 {
		return ""
	}
	out, err := dec.Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(out)
}

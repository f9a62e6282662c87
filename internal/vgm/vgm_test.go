package vgm

import (
	"bytes"
	encbinary "encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dewi-tim/vgmlibrarian/internal/track"
)

// sampleTags returns a track with all eleven GD3 fields set.
func sampleTags() *track.Track {
	t := track.New("fixture.vgm")
	t.Title = track.Localized{English: "Green Hill Zone", Japanese: "グリーンヒルゾーン"}
	t.Game = track.Localized{English: "Sonic the Hedgehog", Japanese: "ソニック・ザ・ヘッジホッグ"}
	t.System = track.Localized{English: "Sega Mega Drive", Japanese: "セガメガドライブ"}
	t.Author = track.Localized{English: "Masato Nakamura", Japanese: "中村正人"}
	t.ReleaseDate = "1991/06/23"
	t.Converter = "ValleyBell"
	t.Notes = "Loops once."
	return t
}

// buildVGM assembles a 0x40-byte header, optional padding and a GD3 block.
func buildVGM(t *testing.T, tags *track.Track, total, loop uint32) []byte {
	t.Helper()

	header := make([]byte, 0x40)
	copy(header, Magic)
	encbinary.LittleEndian.PutUint32(header[0x18:], total)
	encbinary.LittleEndian.PutUint32(header[0x20:], loop)

	if tags == nil {
		return header
	}

	gd3, err := EncodeGD3(tags)
	require.NoError(t, err)

	// GD3 after 0x10 bytes of fake command data.
	gd3At := len(header) + 0x10
	encbinary.LittleEndian.PutUint32(header[0x14:], uint32(gd3At-0x14))

	out := append(header, make([]byte, 0x10)...)
	return append(out, gd3...)
}

func assertSameTags(t *testing.T, want, got *track.Track) {
	t.Helper()
	assert.Equal(t, want.Title, got.Title)
	assert.Equal(t, want.Game, got.Game)
	assert.Equal(t, want.System, got.System)
	assert.Equal(t, want.Author, got.Author)
	assert.Equal(t, want.ReleaseDate, got.ReleaseDate)
	assert.Equal(t, want.Converter, got.Converter)
	assert.Equal(t, want.Notes, got.Notes)
}

func TestRead(t *testing.T) {
	t.Parallel()

	want := sampleTags()
	data := buildVGM(t, want, 44100*90, 44100*60)

	got := track.New("a.vgm")
	require.NoError(t, Read(bytes.NewReader(data), got))

	assertSameTags(t, want, got)
	assert.Equal(t, 90*time.Second, got.Duration())
	assert.Equal(t, 30*time.Second, got.LoopPoint())
}

func TestReadNoGD3Tag(t *testing.T) {
	t.Parallel()

	data := buildVGM(t, nil, 44100, 0)

	got := track.New("a.vgm")
	err := Read(bytes.NewReader(data), got)
	require.ErrorIs(t, err, track.ErrNoGD3Tag)

	var fe *track.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, track.StageVGMHeader, fe.Stage)
	assert.False(t, errors.Is(err, track.ErrTruncated))
	assert.Equal(t, time.Second, got.Duration())
}

// countingReader records how many bytes were consumed.
type countingReader struct {
	*bytes.Reader
	read int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.Reader.Read(p)
	c.read += n
	return n, err
}

func TestReadMissingMagic(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		data []byte
	}{
		{"wrong ident", append([]byte("RIFF"), make([]byte, 0x40)...)},
		{"lower case", append([]byte("vgm "), make([]byte, 0x40)...)},
		{"short", []byte("Vg")},
		{"empty", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r := &countingReader{Reader: bytes.NewReader(tc.data)}
			err := Read(r, track.New("a.vgm"))
			require.ErrorIs(t, err, track.ErrMissingMagic)
			assert.LessOrEqual(t, r.read, 4)
		})
	}
}

func TestReadGD3Errors(t *testing.T) {
	t.Parallel()

	block, err := EncodeGD3(sampleTags())
	require.NoError(t, err)

	t.Run("bad marker", func(t *testing.T) {
		t.Parallel()
		bad := append([]byte("Gd4 "), block[4:]...)
		err := ReadGD3(bytes.NewReader(bad), track.New("a.vgm"))
		assert.ErrorIs(t, err, track.ErrMissingGD3Marker)
	})

	t.Run("truncated string", func(t *testing.T) {
		t.Parallel()
		err := ReadGD3(bytes.NewReader(block[:len(block)-3]), track.New("a.vgm"))
		require.ErrorIs(t, err, track.ErrTruncated)

		var fe *track.FormatError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, track.StageGD3, fe.Stage)
	})
}

func TestGD3RoundTrip(t *testing.T) {
	t.Parallel()

	want := sampleTags()
	block, err := EncodeGD3(want)
	require.NoError(t, err)

	got := track.New("b.vgm")
	r := bytes.NewReader(block)
	require.NoError(t, ReadGD3(r, got))
	assertSameTags(t, want, got)
	assert.Zero(t, r.Len(), "every terminator consumed")
}

func TestGD3EmptyFields(t *testing.T) {
	t.Parallel()

	block, err := EncodeGD3(track.New("empty.vgm"))
	require.NoError(t, err)
	assert.Len(t, block, 12+11*2)

	got := sampleTags()
	require.NoError(t, ReadGD3(bytes.NewReader(block), got))
	assert.Empty(t, got.Title.English)
	assert.Empty(t, got.Notes)
}

func TestEncodeGD3RejectsNul(t *testing.T) {
	t.Parallel()

	tags := track.New("x.vgm")
	tags.Notes = "a\x00b"
	_, err := EncodeGD3(tags)
	assert.Error(t, err)
}

func TestReadCompressedMatchesRaw(t *testing.T) {
	t.Parallel()

	raw := buildVGM(t, sampleTags(), 44100*5, 0)

	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	_, err := zw.Write(raw)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	viaGzip := track.New("a.vgz")
	require.NoError(t, ReadCompressed(bytes.NewReader(gz.Bytes()), viaGzip))

	inflated, err := Decompress(bytes.NewReader(gz.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, raw, inflated)

	direct := track.New("a.vgm")
	require.NoError(t, Read(bytes.NewReader(inflated), direct))

	assertSameTags(t, direct, viaGzip)
	assert.Equal(t, direct.Timing, viaGzip.Timing)
}

func TestReadCompressedBadStream(t *testing.T) {
	t.Parallel()

	err := ReadCompressed(bytes.NewReader([]byte("definitely not gzip")), track.New("a.vgz"))
	require.ErrorIs(t, err, track.ErrBadCompression)

	var fe *track.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, track.StageGzip, fe.Stage)
}

package spc

import (
	"bytes"
	encbinary "encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"

	"github.com/dewi-tim/vgmlibrarian/internal/binary"
	"github.com/dewi-tim/vgmlibrarian/internal/track"
)

// fixedField right-pads s with zero bytes to width.
func fixedField(s string, width int) []byte {
	b := make([]byte, width)
	copy(b, s)
	return b
}

// id666Block is the 10 reserved bytes followed by the eight text fields.
func id666Block(title, game, dumper, comments, date, artist string) []byte {
	var b bytes.Buffer
	b.Write(make([]byte, id666Skip))
	b.Write(fixedField(title, 32))
	b.Write(fixedField(game, 32))
	b.Write(fixedField(dumper, 16))
	b.Write(fixedField(comments, 32))
	b.Write(fixedField(date, 11))
	b.Write(fixedField("120", 3))
	b.Write(fixedField("10000", 5))
	b.Write(fixedField(artist, 32))
	return b.Bytes()
}

// buildSPC assembles a full-size SPC image with optional tag blocks.
func buildSPC(presence byte, id666 []byte, xid6 []byte) []byte {
	var b bytes.Buffer
	b.WriteString(Signature)
	b.Write([]byte{26, 26, presence})
	b.Write(id666)
	b.Write(make([]byte, xid6Offset-b.Len()))
	b.Write(xid6)
	return b.Bytes()
}

// xid6Block wraps chunk bytes with the marker and a declared size.
func xid6Block(size int32, chunks ...[]byte) []byte {
	var b bytes.Buffer
	b.WriteString(xid6Marker)
	_ = encbinary.Write(&b, encbinary.LittleEndian, size)
	for _, c := range chunks {
		b.Write(c)
	}
	return b.Bytes()
}

func lengthChunk(id byte, v uint16) []byte {
	return []byte{id, 0, byte(v), byte(v >> 8)}
}

func stringChunk(id byte, s string) []byte {
	b := []byte{id, 1, byte(len(s)), byte(len(s) >> 8)}
	return append(b, fixedField(s, pad4(len(s)))...)
}

func intChunk(id byte, declared uint16, v int32) []byte {
	b := []byte{id, 4, byte(declared), byte(declared >> 8)}
	return encbinary.LittleEndian.AppendUint32(b, uint32(v))
}

func concat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

func TestReadID666AndXid6(t *testing.T) {
	t.Parallel()

	chunks := [][]byte{
		stringChunk(0x01, "Title Theme"),
		intChunk(0x30, 4, 64000*60),
		intChunk(0x33, 4, 64000*10),
		lengthChunk(0x12, 3),
	}
	data := buildSPC(26,
		id666Block("Title Theme", "Super Metroid", "Dumper", "no comment", "04/19/1994", "Kenji Yamamoto"),
		xid6Block(int32(len(concat(chunks...))), chunks...))

	tr := track.New("a.spc")
	require.NoError(t, Read(bytes.NewReader(data), tr))

	assert.Equal(t, "Title Theme", tr.Title.English)
	assert.Equal(t, "Super Metroid", tr.Game.English)
	assert.Equal(t, "Dumper", tr.Converter)
	assert.Equal(t, "no comment", tr.Notes)
	assert.Equal(t, "04/19/1994", tr.ReleaseDate)
	assert.Equal(t, "Kenji Yamamoto", tr.Author.English)

	got := tr.Chunks()
	require.Len(t, got, 4)
	assert.Equal(t, track.ChunkSongName, got[0].ID())
	assert.Equal(t, "Title Theme", got[0].String())
	assert.Equal(t, track.KindLength, got[3].Kind())
	assert.Equal(t, "3", got[3].String())
	assert.Equal(t, 70*time.Second, tr.Duration())
}

func TestReadWithoutID666StillScansXid6(t *testing.T) {
	t.Parallel()

	chunk := stringChunk(0x02, "Game")
	// Garbage where ID666 would be must not be parsed.
	data := buildSPC(27, fixedField("NOT A TAG", 200), xid6Block(int32(len(chunk)), chunk))

	tr := track.New("a.spc")
	require.NoError(t, Read(bytes.NewReader(data), tr))

	assert.Empty(t, tr.Title.English)
	assert.Empty(t, tr.Game.English)
	assert.Empty(t, tr.Author.English)
	require.Len(t, tr.Chunks(), 1)
	text, ok := tr.Chunks()[0].Text()
	assert.True(t, ok)
	assert.Equal(t, "Game", text)
}

func TestReadWithoutXid6(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		tail []byte
	}{
		{"exact size", nil},
		{"partial marker", []byte("xi")},
		{"other marker", []byte("ABCDEFGH")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			data := buildSPC(26, id666Block("A", "B", "C", "D", "E", "F"), tc.tail)
			tr := track.New("a.spc")
			require.NoError(t, Read(bytes.NewReader(data), tr))
			assert.Equal(t, "A", tr.Title.English)
			assert.Empty(t, tr.Chunks())
		})
	}
}

func TestReadHeaderErrors(t *testing.T) {
	t.Parallel()

	good := buildSPC(26, id666Block("A", "B", "C", "D", "E", "F"), nil)

	badSig := append([]byte(nil), good...)
	badSig[0] = 'X'

	badBytes := append([]byte(nil), good...)
	badBytes[len(Signature)+1] = 27

	testCases := []struct {
		name   string
		data   []byte
		reason error
		stage  track.Stage
	}{
		{"bad signature", badSig, track.ErrBadSignature, track.StageSPCHeader},
		{"short signature", []byte("SNES"), track.ErrBadSignature, track.StageSPCHeader},
		{"bad header bytes", badBytes, track.ErrBadHeaderBytes, track.StageSPCHeader},
		{"truncated id666", good[:0x60], track.ErrTruncated, track.StageID666},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := Read(bytes.NewReader(tc.data), track.New("a.spc"))
			require.ErrorIs(t, err, tc.reason)

			var fe *track.FormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tc.stage, fe.Stage)
		})
	}
}

func TestUnknownChunkID(t *testing.T) {
	t.Parallel()

	chunk := lengthChunk(0x99, 1)
	data := buildSPC(26, id666Block("A", "B", "C", "D", "E", "F"), xid6Block(4, chunk))

	err := Read(bytes.NewReader(data), track.New("a.spc"))
	require.ErrorIs(t, err, track.ErrUnknownChunkID)

	var fe *track.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, track.StageXid6, fe.Stage)
	assert.Equal(t, int64(xid6Offset+8), fe.Offset)
}

func TestStringChunkConsumesPaddedLength(t *testing.T) {
	t.Parallel()

	raw := []byte{0x01, 0x00, 5, 0, 'H', 'e', 'l', 'l', 'o', 0, 0, 0, 0xEE}
	r := bytes.NewReader(raw)

	c, n, err := readChunk(binary.NewReader(r), defaultOptions().charset.NewDecoder())
	require.NoError(t, err)
	assert.Equal(t, 12, n)
	assert.Equal(t, 1, r.Len(), "sentinel byte left unread")
	assert.Equal(t, 5, c.Length())
	text, _ := c.Text()
	assert.Equal(t, "Hello", text)
}

func TestIntegerChunkConsumesEightBytes(t *testing.T) {
	t.Parallel()

	for _, declared := range []uint16{0, 2, 4, 0xFFFF} {
		raw := append(intChunk(0x36, declared, 65536), 0xEE)
		r := bytes.NewReader(raw)

		c, n, err := readChunk(binary.NewReader(r), defaultOptions().charset.NewDecoder())
		require.NoError(t, err)
		assert.Equal(t, 8, n, "declared %d", declared)
		assert.Equal(t, 1, r.Len())
		v, ok := c.Int()
		assert.True(t, ok)
		assert.Equal(t, int32(65536), v)
	}
}

func TestLengthChunkIsSigned(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		field uint16
		want  int32
	}{
		{"positive", 0x0001, 1},
		{"largest positive", 0x7FFF, 32767},
		{"minus one", 0xFFFF, -1},
		{"smallest", 0x8000, -32768},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r := bytes.NewReader(lengthChunk(0x14, tc.field))
			c, n, err := readChunk(binary.NewReader(r), defaultOptions().charset.NewDecoder())
			require.NoError(t, err)
			assert.Equal(t, 4, n)

			v, ok := c.Int()
			require.True(t, ok)
			assert.Equal(t, tc.want, v)
		})
	}
}

func TestNegativeRemainderEndsLoop(t *testing.T) {
	t.Parallel()

	// Declared size 4 but the first chunk takes 12 bytes; the second
	// chunk must not be read.
	data := buildSPC(26, id666Block("A", "B", "C", "D", "E", "F"),
		xid6Block(4, stringChunk(0x01, "Hello"), lengthChunk(0x99, 0)))

	tr := track.New("a.spc")
	require.NoError(t, Read(bytes.NewReader(data), tr))
	assert.Len(t, tr.Chunks(), 1)
}

func TestShiftJISText(t *testing.T) {
	t.Parallel()

	title, err := japanese.ShiftJIS.NewEncoder().String("ロックマンX")
	require.NoError(t, err)

	data := buildSPC(26, id666Block(title, "Rockman X", "C", "D", "E", "F"), nil)
	tr := track.New("a.spc")
	require.NoError(t, Read(bytes.NewReader(data), tr))
	assert.Equal(t, "ロックマンX", tr.Title.English)
	assert.Equal(t, "Rockman X", tr.Game.English)

	latin, err := Charset("windows-1252")
	require.NoError(t, err)
	tr = track.New("b.spc")
	data = buildSPC(26, id666Block("Caf\xe9", "B", "C", "D", "E", "F"), nil)
	require.NoError(t, Read(bytes.NewReader(data), tr, WithCharset(latin)))
	assert.Equal(t, "Café", tr.Title.English)
}

func TestCharsetUnknown(t *testing.T) {
	t.Parallel()

	_, err := Charset("klingon")
	assert.Error(t, err)
}

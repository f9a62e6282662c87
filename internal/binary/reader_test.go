package binary

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLE(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	buf.WriteByte(0x7f)
	_ = binary.Write(buf, binary.LittleEndian, uint16(513))
	_ = binary.Write(buf, binary.LittleEndian, uint32(67305985))
	_ = binary.Write(buf, binary.LittleEndian, int32(-2))

	r := NewReader(bytes.NewReader(buf.Bytes()))

	u8, err := ReadLE[uint8](r, "byte")
	require.NoError(t, err)
	assert.Equal(t, uint8(0x7f), u8)

	u16, err := ReadLE[uint16](r, "word")
	require.NoError(t, err)
	assert.Equal(t, uint16(513), u16)

	u32, err := ReadLE[uint32](r, "dword")
	require.NoError(t, err)
	assert.Equal(t, uint32(67305985), u32)

	i32, err := ReadLE[int32](r, "signed")
	require.NoError(t, err)
	assert.Equal(t, int32(-2), i32)

	assert.Equal(t, int64(11), r.Offset())
}

func TestReadBytesShort(t *testing.T) {
	t.Parallel()

	r := NewReader(bytes.NewReader([]byte{1, 2, 3}))
	got, err := r.ReadBytes(8, "GD3 header")
	require.ErrorIs(t, err, ErrShortRead)
	assert.Contains(t, err.Error(), "GD3 header")
	assert.Equal(t, []byte{1, 2, 3}, got)
}

func TestReadTag(t *testing.T) {
	t.Parallel()

	r := NewReader(bytes.NewReader([]byte("Vgm Gd3 ")))
	ok, err := r.ReadTag("Vgm ", "ident")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.ReadTag("Vgm ", "ident")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = r.ReadTag("Vgm ", "ident")
	assert.ErrorIs(t, err, ErrShortRead)
}

func TestSeekToAndSkip(t *testing.T) {
	t.Parallel()

	r := NewReader(bytes.NewReader(make([]byte, 32)))
	require.NoError(t, r.SeekTo(0x10, "header"))
	require.NoError(t, r.Skip(4, "pad"))
	assert.Equal(t, int64(0x14), r.Offset())
}

func TestChainReaderStopsAtFirstError(t *testing.T) {
	t.Parallel()

	cr := NewChainReader(NewReader(bytes.NewReader([]byte("abcdef"))))
	assert.Equal(t, []byte("abc"), cr.Bytes(3, "first"))
	cr.Skip(1, "gap")
	assert.Nil(t, cr.Bytes(5, "second"))
	assert.Nil(t, cr.Bytes(1, "third"))

	require.ErrorIs(t, cr.Err(), ErrShortRead)
	assert.Contains(t, cr.Err().Error(), "second")
}

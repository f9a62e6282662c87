// Package binary provides little-endian sequential reading over seekable
// streams, with the field being read named in every error.
package binary

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrShortRead is returned when the stream ends inside a field.
var ErrShortRead = errors.New("short read")

// Reader reads fields sequentially from an io.ReadSeeker.
type Reader struct {
	rs io.ReadSeeker
}

// NewReader wraps rs. Reads start at the current position of rs.
func NewReader(rs io.ReadSeeker) *Reader {
	return &Reader{rs: rs}
}

// Offset returns the current absolute position.
func (r *Reader) Offset() int64 {
	off, err := r.rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return -1
	}
	return off
}

// SeekTo moves to an absolute offset.
func (r *Reader) SeekTo(off int64, what string) error {
	if _, err := r.rs.Seek(off, io.SeekStart); err != nil {
		return fmt.Errorf("seek to %s at offset %#x: %w", what, off, err)
	}
	return nil
}

// Skip advances the position by n bytes.
func (r *Reader) Skip(n int64, what string) error {
	if _, err := r.rs.Seek(n, io.SeekCurrent); err != nil {
		return fmt.Errorf("skip %s (%d bytes): %w", what, n, err)
	}
	return nil
}

// ReadBytes reads exactly n bytes.
func (r *Reader) ReadBytes(n int, what string) ([]byte, error) {
	off := r.Offset()
	buf := make([]byte, n)
	got, err := io.ReadFull(r.rs, buf)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return buf[:got], fmt.Errorf("%s at offset %#x: got %d of %d bytes: %w",
				what, off, got, n, ErrShortRead)
		}
		return buf[:got], fmt.Errorf("failed to read %s at offset %#x: %w", what, off, err)
	}
	return buf, nil
}

// ReadTag reads a 4-byte identifier such as "Vgm " and reports whether it
// matches want.
func (r *Reader) ReadTag(want, what string) (bool, error) {
	buf, err := r.ReadBytes(len(want), what)
	if err != nil {
		return false, err
	}
	return string(buf) == want, nil
}

// ReadLE reads a little-endian value of type T and advances the position.
func ReadLE[T uint8 | uint16 | uint32 | int32](r *Reader, what string) (T, error) {
	var zero T
	var size int
	switch any(zero).(type) {
	case uint8:
		size = 1
	case uint16:
		size = 2
	case uint32, int32:
		size = 4
	}

	buf, err := r.ReadBytes(size, what)
	if err != nil {
		return zero, err
	}

	var val T
	switch any(zero).(type) {
	case uint8:
		val = T(buf[0])
	case uint16:
		val = T(binary.LittleEndian.Uint16(buf))
	case uint32, int32:
		val = T(binary.LittleEndian.Uint32(buf))
	}
	return val, nil
}

// ChainReader accumulates the first error so a run of fixed-width fields can
// be read without checking each one.
type ChainReader struct {
	*Reader
	err error
}

// NewChainReader creates a ChainReader over r.
func NewChainReader(r *Reader) *ChainReader {
	return &ChainReader{Reader: r}
}

// Bytes reads n bytes unless a previous read failed.
func (cr *ChainReader) Bytes(n int, what string) []byte {
	if cr.err != nil {
		return nil
	}
	buf, err := cr.Reader.ReadBytes(n, what)
	if err != nil {
		cr.err = err
		return nil
	}
	return buf
}

// Skip advances unless a previous read failed.
func (cr *ChainReader) Skip(n int64, what string) {
	if cr.err != nil {
		return
	}
	cr.err = cr.Reader.Skip(n, what)
}

// Err returns the first error encountered.
func (cr *ChainReader) Err() error {
	return cr.err
}

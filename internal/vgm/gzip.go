package vgm

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/dewi-tim/vgmlibrarian/internal/track"
)

// Decompress inflates a whole gzip stream into memory.
func Decompress(r io.Reader) ([]byte, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, track.NewFormatError(track.StageGzip, 0, track.ErrBadCompression, err)
	}
	defer zr.Close()

	buf, err := io.ReadAll(zr)
	if err != nil {
		return nil, track.NewFormatError(track.StageGzip, 0, track.ErrBadCompression, err)
	}
	return buf, nil
}

// ReadCompressed decompresses a VGZ stream and reads the VGM inside it.
func ReadCompressed(r io.Reader, t *track.Track) error {
	buf, err := Decompress(r)
	if err != nil {
		return err
	}
	return Read(bytes.NewReader(buf), t)
}

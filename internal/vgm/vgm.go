// Package vgm reads metadata from VGM streams, their GD3 tag and their
// gzip-compressed form.
package vgm

import (
	"io"

	"github.com/dewi-tim/vgmlibrarian/internal/binary"
	"github.com/dewi-tim/vgmlibrarian/internal/track"
)

// Magic is the file ident at offset 0 of every VGM stream.
const Magic = "Vgm "

// Header field offsets. Loop offset and loop samples follow total samples.
const (
	gd3OffsetField = 0x14
	totalSamplesAt = 0x18
)

// Read parses the VGM header at the start of r and the GD3 tag it points to,
// filling t. A header without a GD3 tag fails with track.ErrNoGD3Tag after
// t.Timing has been filled.
func Read(r io.ReadSeeker, t *track.Track) error {
	br := binary.NewReader(r)

	ok, err := br.ReadTag(Magic, "VGM ident")
	if err != nil {
		return track.NewFormatError(track.StageVGMHeader, 0, track.ErrMissingMagic, err)
	}
	if !ok {
		return track.NewFormatError(track.StageVGMHeader, 0, track.ErrMissingMagic, nil)
	}

	// Relative to the current position, past the ident.
	if err := br.Skip(gd3OffsetField-4, "VGM header"); err != nil {
		return track.NewFormatError(track.StageVGMHeader, 4, track.ErrTruncated, err)
	}
	rel, err := binary.ReadLE[int32](br, "GD3 offset")
	if err != nil {
		return track.NewFormatError(track.StageVGMHeader, gd3OffsetField, track.ErrTruncated, err)
	}

	timing, timingErr := readTiming(br)
	if rel == 0 {
		if timingErr == nil {
			t.Timing = timing
		}
		return track.NewFormatError(track.StageVGMHeader, gd3OffsetField, track.ErrNoGD3Tag, nil)
	}
	if timingErr != nil {
		return track.NewFormatError(track.StageVGMHeader, totalSamplesAt, track.ErrTruncated, timingErr)
	}
	t.Timing = timing

	// The offset is relative to the address of the field itself.
	gd3At := int64(gd3OffsetField) + int64(rel)
	if err := br.SeekTo(gd3At, "GD3 tag"); err != nil {
		return track.NewFormatError(track.StageGD3, gd3At, track.ErrMissingGD3Marker, err)
	}
	return ReadGD3(r, t)
}

func readTiming(br *binary.Reader) (track.Timing, error) {
	var tm track.Timing
	var err error
	if tm.TotalSamples, err = binary.ReadLE[uint32](br, "total samples"); err != nil {
		return tm, err
	}
	if tm.LoopOffset, err = binary.ReadLE[uint32](br, "loop offset"); err != nil {
		return tm, err
	}
	if tm.LoopSamples, err = binary.ReadLE[uint32](br, "loop samples"); err != nil {
		return tm, err
	}
	return tm, nil
}

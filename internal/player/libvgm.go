//go:build libvgm

package player

/*
#cgo CFLAGS: -I${SRCDIR}/../../libvgm
#cgo LDFLAGS: -L${SRCDIR}/../../libvgm/build -L${SRCDIR}/../../libvgm/build/bin -lvgm_wrapper -lvgm-player -lvgm-emu -lvgm-utils -lz -lstdc++ -lm -lpthread

#include "wrapper.h"
#include <stdlib.h>
*/
import "C"

import (
	"encoding/binary"
	"errors"
	"io"
	"sync"
	"time"
	"unsafe"
)

// Error codes returned by libvgm
var (
	ErrNullPointer = errors.New("libvgm: null pointer")
	ErrFileOpen    = errors.New("libvgm: failed to open file")
	ErrFileFormat  = errors.New("libvgm: unsupported file format")
	ErrMemory      = errors.New("libvgm: memory allocation failed")
	ErrState       = errors.New("libvgm: invalid state")
)

// codeToError converts a C error code to a Go error.
func codeToError(code C.int) error {
	switch code {
	case C.VGM_OK:
		return nil
	case C.VGM_ERR_NULLPTR:
		return ErrNullPointer
	case C.VGM_ERR_FILE:
		return ErrFileOpen
	case C.VGM_ERR_FORMAT:
		return ErrFileFormat
	case C.VGM_ERR_MEMORY:
		return ErrMemory
	case C.VGM_ERR_STATE:
		return ErrState
	default:
		return errors.New("libvgm: unknown error")
	}
}

// DefaultDecoder opens path with libvgm at the default sample rate.
func DefaultDecoder(path string) (Decoder, error) {
	return NewDecoderFactory(DefaultSampleRate)(path)
}

// NewDecoderFactory returns a factory rendering at sampleRate Hz.
func NewDecoderFactory(sampleRate int) DecoderFactory {
	return func(path string) (Decoder, error) {
		d, err := NewLibvgmDecoder(path, uint32(sampleRate))
		if err != nil {
			return nil, err
		}
		return d, nil
	}
}

// LibvgmDecoder renders VGM files through the libvgm C player.
type LibvgmDecoder struct {
	mu     sync.Mutex
	handle *C.VgmPlayer
	frames []int16
}

// NewLibvgmDecoder loads path and starts rendering at sampleRate Hz.
func NewLibvgmDecoder(path string, sampleRate uint32) (*LibvgmDecoder, error) {
	handle := C.vgm_player_create()
	if handle == nil {
		return nil, ErrMemory
	}
	C.vgm_player_set_sample_rate(handle, C.uint32_t(sampleRate))
	// Play the track once; the queue decides what comes next.
	C.vgm_player_set_loop_count(handle, 1)

	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	if err := codeToError(C.vgm_player_load(handle, cpath)); err != nil {
		C.vgm_player_destroy(handle)
		return nil, err
	}
	if err := codeToError(C.vgm_player_start(handle)); err != nil {
		C.vgm_player_destroy(handle)
		return nil, err
	}
	return &LibvgmDecoder{handle: handle}, nil
}

// Read fills p with interleaved 16-bit little-endian stereo frames.
func (d *LibvgmDecoder) Read(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.handle == nil {
		return 0, ErrNullPointer
	}
	if C.vgm_player_is_finished(d.handle) != 0 {
		return 0, io.EOF
	}

	frames := len(p) / 4
	if frames == 0 {
		return 0, nil
	}
	if cap(d.frames) < frames*2 {
		d.frames = make([]int16, frames*2)
	}
	buf := d.frames[:frames*2]

	rendered := int(C.vgm_player_render(d.handle, C.uint32_t(frames), (*C.int16_t)(unsafe.Pointer(&buf[0]))))
	for i, sample := range buf[:rendered*2] {
		binary.LittleEndian.PutUint16(p[i*2:], uint16(sample))
	}
	if rendered == 0 {
		return 0, io.EOF
	}
	return rendered * 4, nil
}

// Position returns the current render position.
func (d *LibvgmDecoder) Position() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.handle == nil {
		return 0
	}
	seconds := float64(C.vgm_player_get_position(d.handle))
	return time.Duration(seconds * float64(time.Second))
}

// Reset restarts rendering from the beginning.
func (d *LibvgmDecoder) Reset() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.handle == nil {
		return ErrNullPointer
	}
	C.vgm_player_reset(d.handle)
	return nil
}

// Close destroys the player and frees all resources.
func (d *LibvgmDecoder) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.handle != nil {
		C.vgm_player_destroy(d.handle)
		d.handle = nil
	}
	return nil
}

// Package player sequences queued tracks through a decoder and an audio sink.
package player

//go:generate $MOCKGEN -source=audio.go -destination=mocks/audio_mock.go

import (
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/dewi-tim/vgmlibrarian/internal/track"
)

// Errors returned by the controller and its collaborators.
var (
	ErrNoDecoder = errors.New("no decoder available for this build")
	ErrClosed    = errors.New("player closed")
)

// Decoder renders a track to 16-bit little-endian stereo PCM.
type Decoder interface {
	io.Reader
	// Position returns how far into the track rendering has got.
	Position() time.Duration
	// Reset restarts rendering from the beginning of the track.
	Reset() error
	Close() error
}

// Sink plays a decoder's output. Done is closed exactly once, when output has
// halted because the decoder ran out or Stop was called.
type Sink interface {
	Init(dec Decoder) error
	Play() error
	Pause() error
	Stop() error
	Done() <-chan struct{}
	Close() error
}

// DecoderFactory opens a decoder for the file at path.
type DecoderFactory func(path string) (Decoder, error)

// SinkFactory creates an unused sink.
type SinkFactory func() (Sink, error)

// PlayState represents the current playback state.
type PlayState int

const (
	// StateStopped indicates playback is stopped.
	StateStopped PlayState = iota
	// StatePlaying indicates playback is active.
	StatePlaying
	// StatePaused indicates playback is paused.
	StatePaused
)

// String returns a human-readable name for the play state.
func (s PlayState) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// PlaybackInfo is a snapshot of the controller.
type PlaybackInfo struct {
	State   PlayState
	Session uuid.UUID
	// Track is the queued track, never the temporary copy made for playback.
	Track *track.Track

	Position time.Duration
	Duration time.Duration
	Stopping bool
	Queued   int
	Loop     bool
}

// Progress returns the playback progress as a value between 0.0 and 1.0.
func (p *PlaybackInfo) Progress() float64 {
	if p.Duration == 0 {
		return 0.0
	}
	progress := float64(p.Position) / float64(p.Duration)
	if progress > 1.0 {
		return 1.0
	}
	if progress < 0.0 {
		return 0.0
	}
	return progress
}

// Remaining returns the remaining playback time.
func (p *PlaybackInfo) Remaining() time.Duration {
	remaining := p.Duration - p.Position
	if remaining < 0 {
		return 0
	}
	return remaining
}

// EventKind says what happened to a session.
type EventKind int

const (
	// EventStarted is sent when a new session begins output.
	EventStarted EventKind = iota
	// EventPaused is sent when output is suspended.
	EventPaused
	// EventResumed is sent when output continues after a pause.
	EventResumed
	// EventFinished is sent after a session has been released and its
	// temporary file removed.
	EventFinished
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventPaused:
		return "paused"
	case EventResumed:
		return "resumed"
	case EventFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Event reports a session transition to subscribers.
type Event struct {
	Kind    EventKind
	Session uuid.UUID
	Track   *track.Track
	// Stopped is true on EventFinished when Stop or Close ended the session.
	Stopped bool
	// Err is a non-fatal cleanup failure on EventFinished.
	Err error
}

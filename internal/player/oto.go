package player

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

const (
	// DefaultSampleRate is the output rate used when none is configured.
	DefaultSampleRate = 44100
	// DefaultBufferSize is the output buffer used when none is configured.
	DefaultBufferSize = 100 * time.Millisecond

	pollInterval = 50 * time.Millisecond
)

var errSinkNotReady = errors.New("sink not initialized")

// oto allows one context per process.
var (
	otoOnce sync.Once
	otoCtx  *oto.Context
	otoErr  error
)

func otoContext(sampleRate int, buffer time.Duration) (*oto.Context, error) {
	otoOnce.Do(func() {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   buffer,
		})
		if err != nil {
			otoErr = fmt.Errorf("init audio output: %w", err)
			return
		}
		<-ready
		otoCtx = ctx
	})
	return otoCtx, otoErr
}

// NewOtoSinkFactory returns a factory for sinks that play through the system
// audio device. The first sink's settings fix the device configuration.
func NewOtoSinkFactory(sampleRate int, buffer time.Duration) SinkFactory {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if buffer <= 0 {
		buffer = DefaultBufferSize
	}
	return func() (Sink, error) {
		ctx, err := otoContext(sampleRate, buffer)
		if err != nil {
			return nil, err
		}
		return &OtoSink{ctx: ctx, done: make(chan struct{})}, nil
	}
}

// OtoSink plays a decoder through an oto player. A monitor goroutine closes
// Done when the decoder is drained or Stop is called.
type OtoSink struct {
	ctx *oto.Context

	mu      sync.Mutex
	player  *oto.Player
	src     *eofReader
	paused  bool
	stopped bool

	done     chan struct{}
	doneOnce sync.Once
	quit     chan struct{}
}

// Init binds dec to a new oto player. It must be called once before Play.
func (s *OtoSink) Init(dec Decoder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.player != nil {
		return errors.New("sink already initialized")
	}
	s.src = &eofReader{r: dec}
	s.player = s.ctx.NewPlayer(s.src)
	s.quit = make(chan struct{})
	go s.monitor()
	return nil
}

// Play starts or resumes output.
func (s *OtoSink) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.player == nil {
		return errSinkNotReady
	}
	if s.stopped {
		return nil
	}
	s.paused = false
	s.player.Play()
	return nil
}

// Pause suspends output.
func (s *OtoSink) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.player == nil {
		return errSinkNotReady
	}
	s.paused = true
	s.player.Pause()
	return nil
}

// Stop halts output; Done closes shortly after.
func (s *OtoSink) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.player == nil {
		return errSinkNotReady
	}
	s.stopped = true
	s.player.Pause()
	return nil
}

// Done is closed once output has halted.
func (s *OtoSink) Done() <-chan struct{} {
	return s.done
}

// Close releases the oto player. The shared context stays open.
func (s *OtoSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.quit != nil {
		close(s.quit)
		s.quit = nil
	}
	s.finish()
	if s.player == nil {
		return nil
	}
	err := s.player.Close()
	s.player = nil
	return err
}

func (s *OtoSink) monitor() {
	s.mu.Lock()
	quit := s.quit
	s.mu.Unlock()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-quit:
			return
		case <-ticker.C:
			if s.drained() {
				s.mu.Lock()
				s.finish()
				s.mu.Unlock()
				return
			}
		}
	}
}

func (s *OtoSink) drained() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.player == nil || s.stopped {
		return true
	}
	return s.src.finished() && !s.paused && !s.player.IsPlaying()
}

func (s *OtoSink) finish() {
	s.doneOnce.Do(func() { close(s.done) })
}

// eofReader records when the wrapped reader has been drained.
type eofReader struct {
	r io.Reader

	mu  sync.Mutex
	eof bool
}

func (e *eofReader) Read(p []byte) (int, error) {
	n, err := e.r.Read(p)
	if err != nil {
		e.mu.Lock()
		e.eof = true
		e.mu.Unlock()
	}
	return n, err
}

func (e *eofReader) finished() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.eof
}

package player

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/afero"

	"github.com/dewi-tim/vgmlibrarian/internal/logger"
	"github.com/dewi-tim/vgmlibrarian/internal/playlist"
	"github.com/dewi-tim/vgmlibrarian/internal/track"
)

// subscriberBuffer is the event backlog per subscriber; further events are
// dropped until the subscriber catches up.
const subscriberBuffer = 16

// Controller owns the play queue and at most one active playback session.
//
// State moves Stopped -> Playing -> (Paused <-> Playing) -> Stopped. Each
// session is released by its own watcher goroutine when its sink signals
// completion, so a late completion of an old session never touches a newer
// one.
type Controller struct {
	mu sync.Mutex

	fs          afero.Fs
	queue       *playlist.Queue
	newDecoder  DecoderFactory
	newSink     SinkFactory
	tempDir     string
	autoAdvance bool

	state  PlayState
	active *session
	closed bool

	// Watcher goroutine control
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Subscribers for playback events
	subscribers map[chan Event]struct{}
	subMu       sync.RWMutex
}

// Option configures a Controller.
type Option func(*Controller)

// WithFs sets the filesystem used to read sources and write temporary files.
func WithFs(fs afero.Fs) Option {
	return func(c *Controller) { c.fs = fs }
}

// WithQueue shares an existing queue.
func WithQueue(q *playlist.Queue) Option {
	return func(c *Controller) { c.queue = q }
}

// WithTempDir sets where temporary tracks are written. Empty means the
// system default.
func WithTempDir(dir string) Option {
	return func(c *Controller) { c.tempDir = dir }
}

// WithAutoAdvance starts the next queued track whenever a track ends by
// itself.
func WithAutoAdvance(on bool) Option {
	return func(c *Controller) { c.autoAdvance = on }
}

// WithContext sets the parent context, used for logging and cancelled by
// Close.
func WithContext(ctx context.Context) Option {
	return func(c *Controller) { c.ctx = ctx }
}

// NewController creates a stopped controller that builds a fresh decoder and
// sink for every track.
func NewController(newDecoder DecoderFactory, newSink SinkFactory, opts ...Option) *Controller {
	c := &Controller{
		fs:          afero.NewOsFs(),
		newDecoder:  newDecoder,
		newSink:     newSink,
		ctx:         context.Background(),
		subscribers: make(map[chan Event]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.queue == nil {
		c.queue = playlist.New(false)
	}
	c.ctx, c.cancel = context.WithCancel(c.ctx)
	return c
}

// Queue returns the play queue.
func (c *Controller) Queue() *playlist.Queue {
	return c.queue
}

// Enqueue appends tracks to the queue without affecting playback.
func (c *Controller) Enqueue(tracks ...*track.Track) {
	c.queue.Enqueue(tracks...)
}

// Play resumes a paused session, or starts the next queued track when
// nothing is playing. It does nothing while a track is playing.
func (c *Controller) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.playLocked()
}

// playLocked starts or resumes playback (must be called with mu held).
func (c *Controller) playLocked() error {
	if c.closed {
		return ErrClosed
	}

	if s := c.active; s != nil && !s.stopping {
		switch c.state {
		case StatePaused:
			if err := s.sink.Play(); err != nil {
				return fmt.Errorf("resume: %w", err)
			}
			c.state = StatePlaying
			c.publish(Event{Kind: EventResumed, Session: s.id, Track: s.source})
			return nil
		case StatePlaying:
			return nil
		}
	}

	source, err := c.queue.Dequeue()
	if err != nil {
		return err
	}

	s, err := c.start(source)
	if err != nil {
		return err
	}

	c.active = s
	c.state = StatePlaying

	c.wg.Add(1)
	go c.watch(s)

	logger.InfoKV(s.ctx, "Playback started", "format", source.Format().String())
	c.publish(Event{Kind: EventStarted, Session: s.id, Track: source})
	return nil
}

// start materializes source and brings up a decoder and sink for it. On
// failure everything it created is released and any temporary file removed.
func (c *Controller) start(source *track.Track) (*session, error) {
	playable, err := c.materialize(source)
	if err != nil {
		return nil, err
	}

	sess := newSession(c.ctx, source, playable)
	if err := c.open(sess); err != nil {
		_ = sess.release()
		if rerr := c.removeTemp(sess); rerr != nil {
			logger.WarnKV(sess.ctx, "Failed to remove temporary file", "error", rerr)
		}
		return nil, err
	}
	return sess, nil
}

// open constructs the decoder and sink of s and starts the sink.
func (c *Controller) open(s *session) error {
	var err error
	if s.decoder, err = c.newDecoder(s.track.Path()); err != nil {
		return fmt.Errorf("open decoder: %w", err)
	}
	if s.sink, err = c.newSink(); err != nil {
		return fmt.Errorf("create sink: %w", err)
	}
	if err := s.sink.Init(s.decoder); err != nil {
		return fmt.Errorf("init sink: %w", err)
	}
	if err := s.sink.Play(); err != nil {
		return fmt.Errorf("start sink: %w", err)
	}
	return nil
}

// Pause toggles between Playing and Paused. It does nothing when stopped.
func (c *Controller) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.active
	if s == nil || s.stopping {
		return nil
	}

	switch c.state {
	case StatePlaying:
		if err := s.sink.Pause(); err != nil {
			return fmt.Errorf("pause: %w", err)
		}
		c.state = StatePaused
		c.publish(Event{Kind: EventPaused, Session: s.id, Track: s.source})
	case StatePaused:
		if err := s.sink.Play(); err != nil {
			return fmt.Errorf("resume: %w", err)
		}
		c.state = StatePlaying
		c.publish(Event{Kind: EventResumed, Session: s.id, Track: s.source})
	}
	return nil
}

// Stop asks the active sink to halt. The session is released, and the state
// becomes Stopped, once the sink reports completion.
func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.stopLocked()
}

func (c *Controller) stopLocked() error {
	s := c.active
	if s == nil || s.stopping {
		return nil
	}
	s.stopping = true
	if err := s.sink.Stop(); err != nil {
		return fmt.Errorf("stop: %w", err)
	}
	return nil
}

// Rewind restarts the current track from the beginning without changing
// state. It does nothing when no track is active.
func (c *Controller) Rewind() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil {
		return nil
	}
	if err := c.active.decoder.Reset(); err != nil {
		return fmt.Errorf("rewind: %w", err)
	}
	return nil
}

// Info returns a snapshot of the controller.
func (c *Controller) Info() PlaybackInfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	info := PlaybackInfo{
		State:  c.state,
		Queued: c.queue.Len(),
		Loop:   c.queue.Loop(),
	}
	if s := c.active; s != nil {
		info.Session = s.id
		info.Track = s.source
		info.Position = s.decoder.Position()
		info.Duration = s.source.Duration()
		info.Stopping = s.stopping
	}
	return info
}

// State returns the current playback state.
func (c *Controller) State() PlayState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// watch waits for the session's sink to finish and then releases it.
func (c *Controller) watch(s *session) {
	defer c.wg.Done()

	select {
	case <-s.sink.Done():
	case <-c.ctx.Done():
	}
	c.finish(s)
}

// finish runs once per session. It detaches the session if it is still the
// active one, releases the decoder and sink, deletes the temporary file and
// notifies subscribers.
func (c *Controller) finish(s *session) {
	c.mu.Lock()
	current := c.active == s
	if current {
		c.active = nil
		c.state = StateStopped
	}
	stopped := s.stopping
	advance := current && c.autoAdvance && !stopped && !c.closed
	c.mu.Unlock()

	var errs []error
	if err := s.release(); err != nil {
		logger.WarnKV(s.ctx, "Failed to release playback resources", "error", err)
		errs = append(errs, err)
	}
	if err := c.removeTemp(s); err != nil {
		logger.WarnKV(s.ctx, "Failed to remove temporary file", "error", err)
		errs = append(errs, err)
	}

	logger.InfoKV(s.ctx, "Playback finished", "stopped", stopped)
	c.publish(Event{
		Kind:    EventFinished,
		Session: s.id,
		Track:   s.source,
		Stopped: stopped,
		Err:     errors.Join(errs...),
	})

	if advance {
		if err := c.Play(); err != nil && !errors.Is(err, track.ErrQueueEmpty) && !errors.Is(err, ErrClosed) {
			logger.ErrorKV(c.ctx, "Failed to start next track", "error", err)
		}
	}
}

// Subscribe returns a channel that receives playback events.
func (c *Controller) Subscribe() <-chan Event {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if c.subscribers == nil {
		close(ch)
		return ch
	}
	c.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a subscription channel.
func (c *Controller) Unsubscribe(ch <-chan Event) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	for subCh := range c.subscribers {
		if subCh == ch {
			delete(c.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

func (c *Controller) publish(ev Event) {
	c.subMu.RLock()
	defer c.subMu.RUnlock()

	for ch := range c.subscribers {
		select {
		case ch <- ev:
		default:
			// Drop if channel is full
		}
	}
}

// Close stops playback, waits for every session to be released and closes
// all subscription channels.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	err := c.stopLocked()
	c.cancel()
	c.mu.Unlock()

	// Wait for watchers to exit before closing channels
	c.wg.Wait()

	c.subMu.Lock()
	for ch := range c.subscribers {
		close(ch)
	}
	c.subscribers = nil
	c.subMu.Unlock()

	return err
}

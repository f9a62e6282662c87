package player

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/dewi-tim/vgmlibrarian/internal/logger"
	"github.com/dewi-tim/vgmlibrarian/internal/track"
)

// session is one play cycle: a decoder and sink pair bound to one track.
type session struct {
	id     uuid.UUID
	ctx    context.Context
	source *track.Track // as dequeued
	track  *track.Track // what the decoder opened; temporary for VGZ and RSN

	decoder Decoder
	sink    Sink

	// stopping is set once Stop or Close has asked the sink to halt.
	// Guarded by the controller mutex.
	stopping bool

	releaseOnce sync.Once
	releaseErr  error
}

func newSession(ctx context.Context, source, playable *track.Track) *session {
	id := uuid.New()
	return &session{
		id:     id,
		ctx:    logger.WithKV(ctx, "session", id.String(), "path", source.Path()),
		source: source,
		track:  playable,
	}
}

// release closes the decoder and sink. Only the first call does anything.
func (s *session) release() error {
	s.releaseOnce.Do(func() {
		var errs []error
		if s.sink != nil {
			if err := s.sink.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		if s.decoder != nil {
			if err := s.decoder.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		s.releaseErr = errors.Join(errs...)
	})
	return s.releaseErr
}

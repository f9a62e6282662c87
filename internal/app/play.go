package app

import (
	"context"
	"errors"

	"github.com/dewi-tim/vgmlibrarian/internal/logger"
	"github.com/dewi-tim/vgmlibrarian/internal/player"
	"github.com/dewi-tim/vgmlibrarian/internal/track"
)

// Play queues every playable track under paths on ctrl and plays them in
// order until the queue drains, or until ctx ends. A track that fails to
// start is logged and skipped. ctrl must not auto-advance; Play drives it.
func (a *App) Play(ctx context.Context, ctrl *player.Controller, paths []string, recursive bool) error {
	files, err := a.scanner.Expand(paths, recursive)
	if err != nil {
		return err
	}

	tracks, failed := a.scanner.Collect(ctx, files, nil)
	for _, res := range failed {
		logger.WarnKV(ctx, "Skipping unreadable file", "path", res.Path, "error", res.Err)
	}
	if len(tracks) == 0 {
		return ErrNothingToPlay
	}

	events := ctrl.Subscribe()
	defer ctrl.Unsubscribe(events)

	ctrl.Enqueue(tracks...)
	logger.InfoKV(ctx, "Queued tracks", "count", len(tracks), "loop", ctrl.Queue().Loop())

	if done, err := playNext(ctx, ctrl); done || err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			logger.Infof(ctx, "Stopping playback")
			return ctrl.Stop()

		case ev, ok := <-events:
			if !ok {
				return nil
			}

			switch ev.Kind {
			case player.EventStarted:
				logger.InfoKV(ctx, "Now playing",
					"title", ev.Track.DisplayTitle(),
					"game", ev.Track.Game.String(),
					"length", formatLength(ev.Track.Duration()),
				)
			case player.EventFinished:
				if ev.Err != nil {
					logger.WarnKV(ctx, "Cleanup after playback failed", "error", ev.Err)
				}
				if ev.Stopped {
					return nil
				}
				if done, err := playNext(ctx, ctrl); done || err != nil {
					return err
				}
			}
		}
	}
}

// playNext starts the next queued track, skipping tracks that fail to
// start. It reports true once the queue has drained. A looping queue in which
// every track fails gives ErrNothingToPlay.
func playNext(ctx context.Context, ctrl *player.Controller) (bool, error) {
	queue := ctrl.Queue()
	for failures := 0; ; failures++ {
		if queue.Loop() && failures > queue.Len() {
			return true, ErrNothingToPlay
		}

		err := ctrl.Play()
		switch {
		case err == nil:
			return false, nil
		case errors.Is(err, track.ErrQueueEmpty):
			logger.Infof(ctx, "Queue finished")
			return true, nil
		case errors.Is(err, player.ErrClosed):
			return true, nil
		case ctx.Err() != nil:
			return true, nil
		}
		logger.ErrorKV(ctx, "Failed to start track", "error", err)
	}
}

package player

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPlaybackInfoProgress(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		position      time.Duration
		duration      time.Duration
		wantProgress  float64
		wantRemaining time.Duration
	}{
		{"unknown duration", time.Second, 0, 0, 0},
		{"halfway", 30 * time.Second, time.Minute, 0.5, 30 * time.Second},
		{"past the end", 2 * time.Minute, time.Minute, 1, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			info := PlaybackInfo{Position: tc.position, Duration: tc.duration}
			assert.InDelta(t, tc.wantProgress, info.Progress(), 1e-9)
			assert.Equal(t, tc.wantRemaining, info.Remaining())
		})
	}
}

func TestStateNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Stopped", StateStopped.String())
	assert.Equal(t, "Playing", StatePlaying.String())
	assert.Equal(t, "Paused", StatePaused.String())
	assert.Equal(t, "Unknown", PlayState(42).String())

	assert.Equal(t, "started", EventStarted.String())
	assert.Equal(t, "finished", EventFinished.String())
}

func TestDefaultDecoderWithoutLibvgm(t *testing.T) {
	t.Parallel()

	if _, err := DefaultDecoder("/music/a.vgm"); err != nil {
		assert.ErrorIs(t, err, ErrNoDecoder)
	}
}

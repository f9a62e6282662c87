package playlist

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dewi-tim/vgmlibrarian/internal/track"
)

func tracks(names ...string) []*track.Track {
	out := make([]*track.Track, len(names))
	for i, n := range names {
		out[i] = track.New(n)
	}
	return out
}

func paths(ts []*track.Track) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Path()
	}
	return out
}

func TestDequeueFIFO(t *testing.T) {
	t.Parallel()

	q := New(false)
	q.Enqueue(tracks("a.vgm", "b.vgz", "c.spc")...)

	for _, want := range []string{"a.vgm", "b.vgz", "c.spc"} {
		got, err := q.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, want, got.Path())
	}

	_, err := q.Dequeue()
	assert.ErrorIs(t, err, track.ErrQueueEmpty)
}

func TestDequeueLoop(t *testing.T) {
	t.Parallel()

	q := New(true)
	q.Enqueue(tracks("a.vgm", "b.vgm")...)

	var got []string
	for range 5 {
		tr, err := q.Dequeue()
		require.NoError(t, err)
		got = append(got, tr.Path())
	}
	assert.Equal(t, []string{"a.vgm", "b.vgm", "a.vgm", "b.vgm", "a.vgm"}, got)
	assert.Equal(t, 2, q.Len())

	_, err := New(true).Dequeue()
	assert.ErrorIs(t, err, track.ErrQueueEmpty)
}

func TestRemoveMoveClear(t *testing.T) {
	t.Parallel()

	q := New(false)
	q.Enqueue(tracks("a", "b", "c", "d")...)

	require.NoError(t, q.Remove(1))
	assert.Equal(t, []string{"a", "c", "d"}, paths(q.Entries()))
	assert.Error(t, q.Remove(3))
	assert.Error(t, q.Remove(-1))

	assert.True(t, q.Move(2, -1))
	assert.Equal(t, []string{"a", "d", "c"}, paths(q.Entries()))
	assert.False(t, q.Move(0, -1))
	assert.False(t, q.Move(2, 1))

	head, ok := q.Peek()
	require.True(t, ok)
	assert.Equal(t, "a", head.Path())

	q.Clear()
	assert.Zero(t, q.Len())
	_, ok = q.Peek()
	assert.False(t, ok)
}

func TestShuffleKeepsEntries(t *testing.T) {
	t.Parallel()

	q := New(false)
	q.Enqueue(tracks("a", "b", "c", "d", "e")...)
	q.Shuffle()
	assert.ElementsMatch(t, []string{"a", "b", "c", "d", "e"}, paths(q.Entries()))
}

func TestEntriesIsACopy(t *testing.T) {
	t.Parallel()

	q := New(false)
	q.Enqueue(tracks("a")...)
	entries := q.Entries()
	entries[0] = nil
	head, _ := q.Peek()
	assert.NotNil(t, head)
}

func TestConcurrentUse(t *testing.T) {
	t.Parallel()

	q := New(false)
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				q.Enqueue(track.New("x.vgm"))
				_, _ = q.Dequeue()
				_ = q.Entries()
			}
		}()
	}
	wg.Wait()
	assert.Zero(t, q.Len())

	q.SetLoop(true)
	assert.True(t, q.Loop())
}

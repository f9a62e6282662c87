// Package playlist provides the FIFO play queue shared by the player and the
// UI.
package playlist

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/dewi-tim/vgmlibrarian/internal/track"
)

// Queue is a FIFO of tracks. With loop enabled a dequeued track is appended
// again, so the queue cycles forever. Safe for concurrent use.
type Queue struct {
	mu     sync.Mutex
	tracks []*track.Track
	loop   bool
}

// New creates an empty queue.
func New(loop bool) *Queue {
	return &Queue{loop: loop}
}

// Enqueue appends tracks in order.
func (q *Queue) Enqueue(tracks ...*track.Track) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tracks = append(q.tracks, tracks...)
}

// Dequeue removes and returns the head of the queue, re-appending it when
// looping. An empty queue returns track.ErrQueueEmpty.
func (q *Queue) Dequeue() (*track.Track, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tracks) == 0 {
		return nil, track.ErrQueueEmpty
	}

	head := q.tracks[0]
	q.tracks[0] = nil
	q.tracks = q.tracks[1:]
	if q.loop {
		q.tracks = append(q.tracks, head)
	}
	return head, nil
}

// Peek returns the head without removing it.
func (q *Queue) Peek() (*track.Track, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tracks) == 0 {
		return nil, false
	}
	return q.tracks[0], true
}

// Len returns the number of queued tracks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tracks)
}

// Entries returns a copy of the queue in play order.
func (q *Queue) Entries() []*track.Track {
	q.mu.Lock()
	defer q.mu.Unlock()
	result := make([]*track.Track, len(q.tracks))
	copy(result, q.tracks)
	return result
}

// Remove deletes the entry at index i.
func (q *Queue) Remove(i int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if i < 0 || i >= len(q.tracks) {
		return fmt.Errorf("queue index %d out of range [0,%d)", i, len(q.tracks))
	}
	q.tracks = append(q.tracks[:i], q.tracks[i+1:]...)
	return nil
}

// Move swaps the entry at i with its neighbour at i+delta, where delta is
// -1 or +1. Out-of-range moves are ignored and report false.
func (q *Queue) Move(i, delta int) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	j := i + delta
	if i < 0 || i >= len(q.tracks) || j < 0 || j >= len(q.tracks) {
		return false
	}
	q.tracks[i], q.tracks[j] = q.tracks[j], q.tracks[i]
	return true
}

// Clear empties the queue.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tracks = nil
}

// Shuffle randomizes the queue order.
func (q *Queue) Shuffle() {
	q.mu.Lock()
	defer q.mu.Unlock()
	rand.Shuffle(len(q.tracks), func(i, j int) {
		q.tracks[i], q.tracks[j] = q.tracks[j], q.tracks[i]
	})
}

// SetLoop enables or disables looping.
func (q *Queue) SetLoop(loop bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.loop = loop
}

// Loop reports whether looping is enabled.
func (q *Queue) Loop() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.loop
}

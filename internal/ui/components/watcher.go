package components

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces bursts of filesystem events, such as a file
// being copied in, into one refresh.
const watchDebounce = 250 * time.Millisecond

// DirModifiedMsg is sent when the watched directory's contents change.
type DirModifiedMsg struct {
	Dir string
}

// DirWatcher follows one directory at a time for the browser.
type DirWatcher struct {
	watcher *fsnotify.Watcher

	mu  sync.Mutex
	dir string
}

// NewDirWatcher creates a watcher that is not yet following any directory.
func NewDirWatcher() (*DirWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &DirWatcher{watcher: w}, nil
}

// Watch switches the watcher to dir.
func (w *DirWatcher) Watch(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if dir == w.dir {
		return nil
	}
	if w.dir != "" {
		_ = w.watcher.Remove(w.dir)
	}
	if err := w.watcher.Add(dir); err != nil {
		w.dir = ""
		return err
	}
	w.dir = dir
	return nil
}

// Wait returns a command that blocks until the watched directory changes.
// The command yields nil once the watcher is closed.
func (w *DirWatcher) Wait() tea.Cmd {
	return func() tea.Msg {
		var timer <-chan time.Time
		for {
			select {
			case ev, ok := <-w.watcher.Events:
				if !ok {
					return nil
				}
				if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Write) {
					timer = time.After(watchDebounce)
				}
			case _, ok := <-w.watcher.Errors:
				if !ok {
					return nil
				}
			case <-timer:
				w.mu.Lock()
				dir := w.dir
				w.mu.Unlock()
				return DirModifiedMsg{Dir: dir}
			}
		}
	}
}

// Close stops watching.
func (w *DirWatcher) Close() error {
	return w.watcher.Close()
}

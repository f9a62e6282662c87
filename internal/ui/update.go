package ui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dewi-tim/vgmlibrarian/internal/library"
	"github.com/dewi-tim/vgmlibrarian/internal/logger"
	"github.com/dewi-tim/vgmlibrarian/internal/player"
	"github.com/dewi-tim/vgmlibrarian/internal/track"
	"github.com/dewi-tim/vgmlibrarian/internal/ui/components"
)

// Message types for the TUI.
type (
	// TickMsg is sent periodically to update the progress bar.
	TickMsg time.Time

	// PlayerEventMsg carries a controller event.
	PlayerEventMsg player.Event

	// TracksAddedMsg reports tracks read and ready to be queued.
	TracksAddedMsg struct {
		Tracks []*track.Track
		Failed int
	}

	// TrackInfoMsg carries the metadata of a highlighted file.
	TrackInfoMsg struct {
		Path  string
		Track *track.Track
		Err   error
	}

	// ErrorMsg reports a failed command.
	ErrorMsg struct {
		Err error
	}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.helpPopup.SetSize(msg.Width, msg.Height)
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.playback = m.ctrl.Info()
		m.queue.Refresh()
		cmds = append(cmds, tickCmd())

	case PlayerEventMsg:
		m.handlePlayerEvent(player.Event(msg))
		cmds = append(cmds, waitForEvent(m.events))

	case components.FileSelectedMsg:
		cmds = append(cmds, m.readTrack(msg.Path))

	case components.AddDirMsg:
		cmds = append(cmds, m.scanDir(msg.Path))

	case components.HighlightMsg:
		cmds = append(cmds, m.describe(msg.Path))

	case components.BrowserReadDirMsg:
		if msg.Err == nil && m.watcher != nil {
			if err := m.watcher.Watch(msg.Dir); err != nil {
				logger.WarnKV(m.ctx, "Failed to watch directory", "dir", msg.Dir, "error", err)
			}
		}
		var cmd tea.Cmd
		m.browser, cmd = m.browser.Update(msg)
		cmds = append(cmds, cmd)

	case components.DirModifiedMsg:
		if msg.Dir == m.browser.CurrentDir() {
			cmds = append(cmds, m.browser.Refresh())
		}
		cmds = append(cmds, m.watcher.Wait())

	case TracksAddedMsg:
		m.ctrl.Enqueue(msg.Tracks...)
		m.queue.Refresh()
		m.setStatus(fmt.Sprintf("Queued %d track(s)", len(msg.Tracks)))
		if msg.Failed > 0 {
			m.setError(fmt.Errorf("%d file(s) could not be read", msg.Failed))
		}

	case TrackInfoMsg:
		if entry := m.browser.SelectedEntry(); entry != nil && entry.Path == msg.Path {
			m.trackInfo.SetTrack(msg.Track, msg.Err)
		}

	case ErrorMsg:
		m.setError(msg.Err)
		m.playback = m.ctrl.Info()

	default:
		var cmd tea.Cmd
		m.browser, cmd = m.browser.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKeyMsg processes keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.helpPopup.Visible() {
		var cmd tea.Cmd
		m.helpPopup, cmd = m.helpPopup.Update(msg)
		return m, cmd
	}

	// Global key bindings (work regardless of focus)
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Help):
		m.helpPopup.Show()
		return m, nil

	case key.Matches(msg, m.keyMap.PlayPause):
		return m, m.togglePlayPause()

	case key.Matches(msg, m.keyMap.Stop):
		return m, m.control(m.ctrl.Stop)

	case key.Matches(msg, m.keyMap.Rewind):
		return m, m.control(m.ctrl.Rewind)

	case key.Matches(msg, m.keyMap.ToggleLoop):
		q := m.ctrl.Queue()
		q.SetLoop(!q.Loop())
		m.queue.Refresh()
		return m, nil

	case key.Matches(msg, m.keyMap.Shuffle):
		m.ctrl.Queue().Shuffle()
		m.queue.Refresh()
		return m, nil

	case key.Matches(msg, m.keyMap.TabFocus):
		if m.focus == FocusBrowser {
			m.focus = FocusQueue
			m.browser.Blur()
			m.queue.Focus()
		} else {
			m.focus = FocusBrowser
			m.queue.Blur()
			m.browser.Focus()
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case FocusBrowser:
		m.browser, cmd = m.browser.Update(msg)
	case FocusQueue:
		m.queue, cmd = m.queue.Update(msg)
	}

	return m, cmd
}

// togglePlayPause pauses a playing track, or otherwise plays.
func (m Model) togglePlayPause() tea.Cmd {
	if m.ctrl.State() == player.StatePlaying {
		return m.control(m.ctrl.Pause)
	}
	return m.control(m.ctrl.Play)
}

// control runs a controller operation off the UI goroutine.
func (m Model) control(op func() error) tea.Cmd {
	return func() tea.Msg {
		if err := op(); err != nil {
			return ErrorMsg{Err: err}
		}
		return nil
	}
}

// handlePlayerEvent applies a controller event to the model.
func (m *Model) handlePlayerEvent(ev player.Event) {
	m.playback = m.ctrl.Info()
	m.queue.Refresh()

	switch ev.Kind {
	case player.EventStarted:
		m.trackInfo.SetTrack(ev.Track, nil)
		m.setStatus("Playing " + ev.Track.DisplayTitle())
	case player.EventFinished:
		if ev.Err != nil {
			m.setError(ev.Err)
		}
	}
}

// readTrack reads one selected file and queues what it holds.
func (m Model) readTrack(path string) tea.Cmd {
	ctx, reader := m.ctx, m.reader
	return func() tea.Msg {
		t, err := reader.Read(ctx, path)
		if err != nil && (t == nil || !errors.Is(err, track.ErrNoGD3Tag)) {
			return ErrorMsg{Err: err}
		}
		return TracksAddedMsg{Tracks: library.Playable(t)}
	}
}

// scanDir reads every supported file in dir and queues the results.
func (m Model) scanDir(dir string) tea.Cmd {
	ctx, scanner := m.ctx, m.scanner
	return func() tea.Msg {
		paths, err := scanner.Files(dir, false)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		tracks, failed := scanner.Collect(ctx, paths, nil)
		for _, res := range failed {
			logger.WarnKV(ctx, "Skipping unreadable file", "path", res.Path, "error", res.Err)
		}
		return TracksAddedMsg{Tracks: tracks, Failed: len(failed)}
	}
}

// describe reads the metadata of a highlighted file for the info panel.
func (m Model) describe(path string) tea.Cmd {
	ctx, reader := m.ctx, m.reader
	return func() tea.Msg {
		t, err := reader.Read(ctx, path)
		return TrackInfoMsg{Path: path, Track: t, Err: err}
	}
}

func (m *Model) setError(err error) {
	if errors.Is(err, track.ErrQueueEmpty) {
		m.setStatus("Queue is empty")
		return
	}
	logger.WarnKV(m.ctx, "Command failed", "error", err)
	m.lastError = err.Error()
	m.status = ""
	m.errorTime = time.Now()
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.lastError = ""
	m.errorTime = time.Now()
}

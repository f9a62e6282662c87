package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"

	"github.com/dewi-tim/vgmlibrarian/internal/library"
	"github.com/dewi-tim/vgmlibrarian/internal/logger"
	"github.com/dewi-tim/vgmlibrarian/internal/metadata"
	"github.com/dewi-tim/vgmlibrarian/internal/player"
	"github.com/dewi-tim/vgmlibrarian/internal/ui/components"
)

// Focus represents which panel is currently focused.
type Focus int

const (
	FocusBrowser Focus = iota
	FocusQueue
)

// tickInterval is how often playback position is polled.
const tickInterval = 100 * time.Millisecond

// errorTimeout is how long a status message stays in the footer.
const errorTimeout = 5 * time.Second

// Options are the collaborators of the TUI.
type Options struct {
	Fs         afero.Fs
	Controller *player.Controller
	Reader     *metadata.Reader
	Scanner    *library.Scanner
	StartDir   string
	// Watch follows the browsed directory for changes.
	Watch bool
}

// Model is the main Bubbletea model for vgmlibrarian.
type Model struct {
	ctx context.Context

	// Window dimensions
	width  int
	height int

	// Focus management
	focus Focus

	ctrl    *player.Controller
	reader  *metadata.Reader
	scanner *library.Scanner
	events  <-chan player.Event
	watcher *components.DirWatcher

	// UI Components
	browser   components.Browser
	queue     components.QueuePanel
	trackInfo components.TrackInfo
	progress  components.ProgressBar
	helpPopup components.HelpPopup
	help      help.Model

	// Key bindings
	keyMap KeyMap

	// UI state
	quitting bool

	playback player.PlaybackInfo

	// Footer status
	lastError string
	status    string
	errorTime time.Time

	// Styles
	styles Styles
}

// New creates the model. The caller keeps ownership of the controller and
// closes it after the program exits.
func New(ctx context.Context, opts Options) Model {
	m := Model{
		ctx:       ctx,
		focus:     FocusBrowser,
		ctrl:      opts.Controller,
		reader:    opts.Reader,
		scanner:   opts.Scanner,
		events:    opts.Controller.Subscribe(),
		browser:   components.NewBrowser(opts.Fs, opts.StartDir),
		queue:     components.NewQueuePanel(opts.Controller.Queue()),
		trackInfo: components.NewTrackInfo(),
		progress:  components.NewProgressBar(),
		help:      help.New(),
		keyMap:    DefaultKeyMap(),
		styles:    DefaultStyles(),
		playback:  opts.Controller.Info(),
	}
	m.browser.Focus()
	m.helpPopup = components.NewHelpPopup(
		components.HelpSection{Title: "Player", KeyMap: m.keyMap},
		components.HelpSection{Title: "Browser", KeyMap: m.browser.KeyMap},
		components.HelpSection{Title: "Queue", KeyMap: m.queue.KeyMap()},
	)

	if opts.Watch {
		w, err := components.NewDirWatcher()
		if err != nil {
			logger.WarnKV(ctx, "Directory watching unavailable", "error", err)
		} else {
			m.watcher = w
		}
	}

	return m
}

// Init returns the initial command to run.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.browser.Init(),
		tickCmd(),
		waitForEvent(m.events),
	}
	if m.watcher != nil {
		cmds = append(cmds, m.watcher.Wait())
	}
	return tea.Batch(cmds...)
}

// Close releases what the model holds outside the controller.
func (m Model) Close() error {
	m.ctrl.Unsubscribe(m.events)
	if m.watcher != nil {
		return m.watcher.Close()
	}
	return nil
}

// tickCmd returns a command that ticks every 100ms for smooth progress updates.
func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// waitForEvent returns a command that delivers the next controller event.
func waitForEvent(events <-chan player.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return PlayerEventMsg(ev)
	}
}

// Width returns the current window width.
func (m Model) Width() int {
	return m.width
}

// Height returns the current window height.
func (m Model) Height() int {
	return m.height
}

// Focus returns the currently focused panel.
func (m Model) Focus() Focus {
	return m.focus
}

// Playback returns the last polled playback snapshot.
func (m Model) Playback() player.PlaybackInfo {
	return m.playback
}

// LastError returns the message shown in the footer, if any.
func (m Model) LastError() string {
	return m.lastError
}

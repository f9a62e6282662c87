package ui

import (
	"context"
	"errors"
	"testing"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dewi-tim/vgmlibrarian/internal/fixture"
	"github.com/dewi-tim/vgmlibrarian/internal/library"
	"github.com/dewi-tim/vgmlibrarian/internal/metadata"
	"github.com/dewi-tim/vgmlibrarian/internal/player"
	"github.com/dewi-tim/vgmlibrarian/internal/ui/components"
)

var errNoAudio = errors.New("no audio in tests")

func newTestModel(t *testing.T) Model {
	t.Helper()

	fs := afero.NewMemMapFs()
	files := map[string][]byte{
		"/music/intro.vgm":  fixture.VGM(fixture.Tags("Intro"), 44100, 0),
		"/music/stage.vgz":  fixture.Gzip(fixture.VGM(fixture.Tags("Stage"), 88200, 0)),
		"/music/broken.spc": []byte("junk"),
	}
	for name, data := range files {
		require.NoError(t, afero.WriteFile(fs, name, data, 0o644))
	}

	ctrl := player.NewController(
		func(string) (player.Decoder, error) { return nil, errNoAudio },
		func() (player.Sink, error) { return nil, errNoAudio },
		player.WithFs(fs),
	)
	t.Cleanup(func() { _ = ctrl.Close() })

	reader := metadata.NewReader(fs)
	m := New(context.Background(), Options{
		Fs:         fs,
		Controller: ctrl,
		Reader:     reader,
		Scanner:    library.NewScanner(reader, 2),
		StartDir:   "/music",
	})
	t.Cleanup(func() { _ = m.Close() })

	return m
}

// run executes cmd and everything it batches, collecting the messages.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, run(c)...)
		}
		return msgs
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// send feeds msg to the model and then every message its commands produce.
func send(m Model, msg tea.Msg) Model {
	next, cmd := m.Update(msg)
	m = next.(Model)
	for _, out := range run(cmd) {
		m = send(m, out)
	}
	return m
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestFileSelectedQueuesTrack(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m = send(m, components.FileSelectedMsg{Path: "/music/stage.vgz"})

	entries := m.ctrl.Queue().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "Stage", entries[0].DisplayTitle())
	assert.Equal(t, 1, m.queue.Len())
	assert.Empty(t, m.LastError())
}

func TestFileSelectedUnreadable(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m = send(m, components.FileSelectedMsg{Path: "/music/broken.spc"})

	assert.Zero(t, m.ctrl.Queue().Len())
	assert.NotEmpty(t, m.LastError())
}

func TestAddDirQueuesReadableFiles(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m = send(m, components.AddDirMsg{Path: "/music"})

	assert.Equal(t, 2, m.ctrl.Queue().Len())
	assert.Contains(t, m.LastError(), "1 file(s) could not be read")
}

func TestPlayWithEmptyQueue(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m = send(m, tea.KeyMsg{Type: tea.KeySpace})

	assert.Empty(t, m.LastError())
	assert.Equal(t, "Queue is empty", m.status)
	assert.Equal(t, player.StateStopped, m.Playback().State)
}

func TestPlayFailureIsReported(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m = send(m, components.FileSelectedMsg{Path: "/music/intro.vgm"})
	m = send(m, tea.KeyMsg{Type: tea.KeySpace})

	assert.Contains(t, m.LastError(), errNoAudio.Error())
	assert.Equal(t, player.StateStopped, m.Playback().State)
}

func TestQueueKeys(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m = send(m, components.AddDirMsg{Path: "/music"})

	m = send(m, keyRune('m'))
	assert.True(t, m.ctrl.Queue().Loop())
	assert.Contains(t, m.queue.Title(), "loop")

	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, FocusQueue, m.Focus())

	m = send(m, keyRune('d'))
	assert.Equal(t, 1, m.ctrl.Queue().Len())

	m = send(m, keyRune('D'))
	assert.Zero(t, m.ctrl.Queue().Len())

	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, FocusBrowser, m.Focus())
}

func TestHighlightShowsTrackInfo(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)

	entries, err := components.ReadDirFiltered(m.reader.Fs(), "/music", false)
	require.NoError(t, err)
	m = send(m, components.BrowserReadDirMsg{Dir: "/music", Entries: entries})

	selected := m.browser.SelectedEntry()
	require.NotNil(t, selected)
	assert.Equal(t, "/music/broken.spc", selected.Path)

	m = send(m, keyRune('j'))
	require.NotNil(t, m.trackInfo.Track())
	assert.Equal(t, "Intro", m.trackInfo.Track().DisplayTitle())
}

func TestHelpPopupCapturesKeys(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m = send(m, keyRune('?'))
	require.True(t, m.helpPopup.Visible())

	m = send(m, keyRune('m'))
	assert.False(t, m.ctrl.Queue().Loop())

	m = send(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.helpPopup.Visible())
}

func TestViewTooSmall(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m = send(m, tea.WindowSizeMsg{Width: 20, Height: 5})

	assert.Contains(t, m.View(), "Terminal too small")
}

func TestViewRendersPanels(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m = send(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = send(m, components.FileSelectedMsg{Path: "/music/intro.vgm"})

	view := m.View()
	assert.Contains(t, view, "Queue [1]")
	assert.Contains(t, view, "Stopped")
}

func TestHelpPopupListsEveryBinding(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	content := m.helpPopup.Content()

	for _, km := range []help.KeyMap{m.keyMap, m.browser.KeyMap, m.queue.KeyMap()} {
		for _, group := range km.FullHelp() {
			for _, b := range group {
				assert.Contains(t, content, b.Help().Desc)
			}
		}
	}
}

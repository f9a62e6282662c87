package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dewi-tim/vgmlibrarian/internal/playlist"
	"github.com/dewi-tim/vgmlibrarian/internal/track"
)

// QueueKeyMap defines keybindings for the queue panel.
type QueueKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Remove   key.Binding
	Clear    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
}

// DefaultQueueKeyMap returns the default keybindings for the queue panel.
func DefaultQueueKeyMap() QueueKeyMap {
	return QueueKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
		Remove: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "remove"),
		),
		Clear: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "clear"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn", "page down"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("K"),
			key.WithHelp("K", "move up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("J"),
			key.WithHelp("J", "move down"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k QueueKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Remove, k.MoveUp, k.MoveDown}
}

// FullHelp returns every queue binding, navigation first.
func (k QueueKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.PageUp, k.PageDown},
		{k.MoveUp, k.MoveDown, k.Remove, k.Clear},
	}
}

// QueuePanel shows the tracks waiting in a playlist.Queue and edits it.
// The queue itself is shared with the player; the panel only mirrors it.
type QueuePanel struct {
	table   table.Model
	queue   *playlist.Queue
	entries []*track.Track
	focused bool

	keyMap QueueKeyMap

	// Dimensions
	width  int
	height int
}

// NewQueuePanel creates a panel over q.
func NewQueuePanel(q *playlist.Queue) QueuePanel {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Time", Width: 6},
		{Title: "Title", Width: 20},
		{Title: "Game", Width: 15},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows([]table.Row{}),
		table.WithFocused(false),
		table.WithHeight(5),
	)

	s := table.DefaultStyles()
	s.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#A0A0A0")).
		Padding(0, 1)
	s.Cell = lipgloss.NewStyle().
		Padding(0, 1)
	s.Selected = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7571F9"))
	t.SetStyles(s)

	p := QueuePanel{
		table:  t,
		queue:  q,
		keyMap: DefaultQueueKeyMap(),
		width:  40,
		height: 10,
	}
	p.Refresh()
	return p
}

// Update handles messages for the queue panel.
func (p QueuePanel) Update(msg tea.Msg) (QueuePanel, tea.Cmd) {
	if !p.focused {
		return p, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	// Handle keys directly rather than passing them to the table
	switch {
	case key.Matches(keyMsg, p.keyMap.Up):
		p.table.MoveUp(1)
	case key.Matches(keyMsg, p.keyMap.Down):
		p.table.MoveDown(1)
	case key.Matches(keyMsg, p.keyMap.Top):
		p.table.GotoTop()
	case key.Matches(keyMsg, p.keyMap.Bottom):
		p.table.GotoBottom()
	case key.Matches(keyMsg, p.keyMap.PageUp):
		p.table.MoveUp(p.table.Height())
	case key.Matches(keyMsg, p.keyMap.PageDown):
		p.table.MoveDown(p.table.Height())

	case key.Matches(keyMsg, p.keyMap.Remove):
		if len(p.entries) > 0 {
			_ = p.queue.Remove(p.table.Cursor())
			p.Refresh()
		}
	case key.Matches(keyMsg, p.keyMap.Clear):
		p.queue.Clear()
		p.Refresh()
	case key.Matches(keyMsg, p.keyMap.MoveUp):
		p.move(-1)
	case key.Matches(keyMsg, p.keyMap.MoveDown):
		p.move(1)
	}

	return p, nil
}

func (p *QueuePanel) move(delta int) {
	idx := p.table.Cursor()
	if p.queue.Move(idx, delta) {
		p.Refresh()
		p.table.SetCursor(idx + delta)
	}
}

// View renders the queue.
func (p QueuePanel) View() string {
	if len(p.entries) == 0 {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A0A0A0")).
			Italic(true).
			Render("Queue is empty. Press enter on a file to add it.")
	}
	return p.table.View()
}

// Refresh reloads the rows from the queue. Call it after anything else
// changes the queue, such as the player dequeuing a track.
func (p *QueuePanel) Refresh() {
	savedCursor := p.table.Cursor()

	p.entries = p.queue.Entries()
	rows := make([]table.Row, len(p.entries))
	for i, t := range p.entries {
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			formatDuration(t.Duration()),
			t.DisplayTitle(),
			t.Game.String(),
		}
	}
	p.table.SetRows(rows)

	// Restore cursor position if still valid
	switch {
	case savedCursor >= 0 && savedCursor < len(rows):
		p.table.SetCursor(savedCursor)
	case len(rows) > 0:
		p.table.SetCursor(len(rows) - 1)
	}
}

// SetSize sets the size of the queue panel.
func (p *QueuePanel) SetSize(width, height int) {
	p.width = width
	p.height = height

	// Title: flexible, Game: ~30%
	availableWidth := max(width-6, 30) // Account for borders and padding

	numWidth := 4
	timeWidth := 6
	gameWidth := max(availableWidth*30/100, 8)
	titleWidth := max(availableWidth-numWidth-timeWidth-gameWidth, 10)

	p.table.SetColumns([]table.Column{
		{Title: "#", Width: numWidth},
		{Title: "Time", Width: timeWidth},
		{Title: "Title", Width: titleWidth},
		{Title: "Game", Width: gameWidth},
	})
	p.table.SetWidth(availableWidth)

	// Height minus header row and borders
	p.table.SetHeight(max(height-4, 1))
}

// Focus sets the panel to focused state.
func (p *QueuePanel) Focus() {
	p.focused = true
	p.table.Focus()
}

// Blur removes focus from the panel.
func (p *QueuePanel) Blur() {
	p.focused = false
	p.table.Blur()
}

// Focused returns whether the panel is focused.
func (p QueuePanel) Focused() bool {
	return p.focused
}

// Selected returns the highlighted track, or nil if the queue is empty.
func (p QueuePanel) Selected() *track.Track {
	idx := p.table.Cursor()
	if idx < 0 || idx >= len(p.entries) {
		return nil
	}
	return p.entries[idx]
}

// Len returns the number of queued tracks shown.
func (p QueuePanel) Len() int {
	return len(p.entries)
}

// Title returns the title for the queue panel.
func (p QueuePanel) Title() string {
	loop := ""
	if p.queue.Loop() {
		loop = " (loop)"
	}
	if len(p.entries) == 0 {
		return "Queue" + loop
	}
	return fmt.Sprintf("Queue [%d]%s", len(p.entries), loop)
}

// KeyMap returns the panel's keymap for help display.
func (p QueuePanel) KeyMap() QueueKeyMap {
	return p.keyMap
}

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpSection is one titled group of bindings in the help popup.
type HelpSection struct {
	Title  string
	KeyMap help.KeyMap
}

// HelpStyles contains styles for the help popup.
type HelpStyles struct {
	Border   lipgloss.Style
	Title    lipgloss.Style
	Category lipgloss.Style
	Key      lipgloss.Style
	Desc     lipgloss.Style
	Footer   lipgloss.Style
}

// DefaultHelpStyles returns the default help popup styles.
func DefaultHelpStyles() HelpStyles {
	return HelpStyles{
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7571F9")).
			Padding(0, 1),
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7571F9")).
			Bold(true),
		Category: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true),
		Key: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7571F9")).
			Bold(true),
		Desc: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")),
		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A0A0A0")).
			Italic(true),
	}
}

// HelpKeyMap defines key bindings for the help popup.
type HelpKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Close    key.Binding
}

// DefaultHelpKeyMap returns the default help popup key bindings.
func DefaultHelpKeyMap() HelpKeyMap {
	return HelpKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn", "page down"),
		),
		Close: key.NewBinding(
			key.WithKeys("?", "esc", "enter", "q"),
			key.WithHelp("?/esc", "close"),
		),
	}
}

// HelpPopup is a scrollable overlay listing the bindings of every section.
type HelpPopup struct {
	viewport viewport.Model
	sections []HelpSection
	visible  bool

	KeyMap HelpKeyMap
	Styles HelpStyles
}

// NewHelpPopup creates a help popup listing sections in order.
func NewHelpPopup(sections ...HelpSection) HelpPopup {
	vp := viewport.New(50, 20)
	vp.MouseWheelEnabled = true

	return HelpPopup{
		viewport: vp,
		sections: sections,
		KeyMap:   DefaultHelpKeyMap(),
		Styles:   DefaultHelpStyles(),
	}
}

// Update scrolls or closes the popup. It ignores messages while hidden.
func (h HelpPopup) Update(msg tea.Msg) (HelpPopup, tea.Cmd) {
	if !h.visible {
		return h, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, h.KeyMap.Close):
			h.visible = false
			return h, nil
		case key.Matches(msg, h.KeyMap.Up):
			h.viewport.ScrollUp(1)
		case key.Matches(msg, h.KeyMap.Down):
			h.viewport.ScrollDown(1)
		case key.Matches(msg, h.KeyMap.PageUp):
			h.viewport.PageUp()
		case key.Matches(msg, h.KeyMap.PageDown):
			h.viewport.PageDown()
		}
		return h, nil
	}

	var cmd tea.Cmd
	h.viewport, cmd = h.viewport.Update(msg)
	return h, cmd
}

// View renders the popup box, or nothing while hidden.
func (h HelpPopup) View() string {
	if !h.visible {
		return ""
	}

	innerWidth := h.viewport.Width
	center := lipgloss.NewStyle().Width(innerWidth).Align(lipgloss.Center)

	h.viewport.SetContent(h.Content())

	closeHelp := h.KeyMap.Close.Help()
	footer := h.Styles.Footer.Render("Press " + closeHelp.Key + " to " + closeHelp.Desc)

	return h.Styles.Border.Render(lipgloss.JoinVertical(lipgloss.Left,
		center.Render(h.Styles.Title.Render("Help")),
		h.viewport.View(),
		center.Render(footer),
	))
}

// Content lists every enabled binding, grouped by section.
func (h HelpPopup) Content() string {
	keyWidth := 0
	for _, s := range h.sections {
		for _, b := range bindings(s.KeyMap) {
			keyWidth = max(keyWidth, lipgloss.Width(b.Help().Key))
		}
	}

	var b strings.Builder
	for i, s := range h.sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(h.Styles.Category.Render(s.Title))
		b.WriteString("\n")

		for _, binding := range bindings(s.KeyMap) {
			hb := binding.Help()
			b.WriteString(h.Styles.Key.Width(keyWidth + 2).Render(hb.Key))
			b.WriteString(h.Styles.Desc.Render(hb.Desc))
			b.WriteString("\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// bindings flattens the full help of km, dropping disabled bindings.
func bindings(km help.KeyMap) []key.Binding {
	if km == nil {
		return nil
	}
	var out []key.Binding
	for _, group := range km.FullHelp() {
		for _, b := range group {
			if b.Enabled() && b.Help().Key != "" {
				out = append(out, b)
			}
		}
	}
	return out
}

// SetSize fits the popup to a screen of the given size.
func (h *HelpPopup) SetSize(width, height int) {
	// border, padding, title and footer
	h.viewport.Width = min(max(width*70/100, 40), 60) - 4
	h.viewport.Height = min(max(height*80/100, 15), 30) - 4
}

// Show makes the popup visible, scrolled to the top.
func (h *HelpPopup) Show() {
	h.visible = true
	h.viewport.GotoTop()
}

// Hide makes the popup invisible.
func (h *HelpPopup) Hide() {
	h.visible = false
}

// Visible returns whether the popup is visible.
func (h HelpPopup) Visible() bool {
	return h.visible
}

// Package ui is the vgmlibrarian terminal interface: a file browser, the
// play queue, the tags of the highlighted track and playback status.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dewi-tim/vgmlibrarian/internal/player"
)

// Colors used throughout the UI.
var (
	ColorPrimary   = lipgloss.Color("#7571F9")
	ColorMuted     = lipgloss.Color("#606060")
	ColorText      = lipgloss.Color("#FAFAFA")
	ColorTextMuted = lipgloss.Color("#A0A0A0")

	ColorPlaying = lipgloss.Color("#04B575")
	ColorPaused  = lipgloss.Color("#FFA500")
	ColorStopped = lipgloss.Color("#FF5555")
)

// Styles contains the styles of the top-level layout. Components carry
// their own.
type Styles struct {
	Title      lipgloss.Style
	TitleMuted lipgloss.Style

	TextMuted     lipgloss.Style
	TextBold      lipgloss.Style
	TextHighlight lipgloss.Style
	Error         lipgloss.Style

	StatusPlaying lipgloss.Style
	StatusPaused  lipgloss.Style
	StatusStopped lipgloss.Style
}

// DefaultStyles returns the default styles for the UI.
func DefaultStyles() Styles {
	bold := lipgloss.NewStyle().Bold(true)

	return Styles{
		Title:      bold.Foreground(ColorPrimary),
		TitleMuted: lipgloss.NewStyle().Foreground(ColorTextMuted),

		TextMuted:     lipgloss.NewStyle().Foreground(ColorTextMuted),
		TextBold:      bold.Foreground(ColorText),
		TextHighlight: bold.Foreground(ColorPrimary),
		Error:         bold.Foreground(ColorStopped),

		StatusPlaying: bold.Foreground(ColorPlaying),
		StatusPaused:  bold.Foreground(ColorPaused),
		StatusStopped: bold.Foreground(ColorStopped),
	}
}

// Status returns the style and icon for a playback state.
func (s Styles) Status(state player.PlayState) (lipgloss.Style, string) {
	switch state {
	case player.StatePlaying:
		return s.StatusPlaying, ">"
	case player.StatePaused:
		return s.StatusPaused, "||"
	default:
		return s.StatusStopped, "[]"
	}
}

// RenderPanel renders content under title inside a rounded border. width
// and height are the outer dimensions; content is cut or padded to fit.
func (s Styles) RenderPanel(title, content string, focused bool, width, height int) string {
	titleStyle, border := s.TitleMuted, ColorMuted
	if focused {
		titleStyle, border = s.Title, ColorPrimary
	}

	rows := max(height-3, 1)
	lines := strings.Split(content, "\n")
	if len(lines) > rows {
		lines = lines[:rows]
	}
	for len(lines) < rows {
		lines = append(lines, "")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(max(width-2, 1)).
		Height(max(height-2, 1)).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render(title),
			strings.Join(lines, "\n"),
		))
}

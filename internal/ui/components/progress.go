package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// ProgressBar draws elapsed time against track length.
type ProgressBar struct {
	elapsed  time.Duration
	duration time.Duration
	width    int

	// Styles
	TimeStyle   lipgloss.Style
	FilledStyle lipgloss.Style
	EmptyStyle  lipgloss.Style
	FilledChar  rune
	EmptyChar   rune
}

// NewProgressBar creates a new progress bar with default styling.
func NewProgressBar() ProgressBar {
	return ProgressBar{
		width:       40,
		FilledChar:  '█', // Full block
		EmptyChar:   '░', // Light shade
		TimeStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("#A0A0A0")),
		FilledStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#7571F9")),
		EmptyStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("#606060")),
	}
}

// SetWidth sets the total width available for the progress bar.
func (p *ProgressBar) SetWidth(width int) {
	p.width = width
}

// SetElapsed sets the current elapsed time.
func (p *ProgressBar) SetElapsed(d time.Duration) {
	p.elapsed = d
}

// SetDuration sets the total duration. Zero means unknown.
func (p *ProgressBar) SetDuration(d time.Duration) {
	p.duration = d
}

// View renders the progress bar with time display.
// Format: "01:23 █████░░░░░ 03:45"
func (p ProgressBar) View() string {
	var percent float64
	if p.duration > 0 {
		percent = min(max(float64(p.elapsed)/float64(p.duration), 0), 1)
	}

	elapsedStr := formatDuration(p.elapsed)
	durationStr := "--:--"
	if p.duration > 0 {
		durationStr = formatDuration(p.duration)
	}

	barWidth := max(p.width-len(elapsedStr)-len(durationStr)-2, 5) // 2 spaces

	filledWidth := int(float64(barWidth) * percent)
	emptyWidth := barWidth - filledWidth

	filled := p.FilledStyle.Render(strings.Repeat(string(p.FilledChar), filledWidth))
	empty := p.EmptyStyle.Render(strings.Repeat(string(p.EmptyChar), emptyWidth))

	return fmt.Sprintf("%s %s %s",
		p.TimeStyle.Render(elapsedStr),
		filled+empty,
		p.TimeStyle.Render(durationStr),
	)
}

// formatDuration formats a duration as MM:SS.
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	minutes := total / 60
	seconds := total % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

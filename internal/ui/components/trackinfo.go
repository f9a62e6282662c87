package components

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dewi-tim/vgmlibrarian/internal/track"
)

// TrackInfo renders every tag of one track.
type TrackInfo struct {
	track  *track.Track
	err    error
	width  int
	height int

	LabelStyle lipgloss.Style
	ValueStyle lipgloss.Style
	TitleStyle lipgloss.Style
	MutedStyle lipgloss.Style
	ErrorStyle lipgloss.Style
}

// NewTrackInfo creates an empty track info panel.
func NewTrackInfo() TrackInfo {
	return TrackInfo{
		width:      40,
		height:     8,
		LabelStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#A0A0A0")),
		ValueStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA")),
		TitleStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA")).Bold(true),
		MutedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#606060")),
		ErrorStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555")),
	}
}

// SetTrack shows t. err is shown alongside when reading was only partly
// successful, or alone when t is nil.
func (i *TrackInfo) SetTrack(t *track.Track, err error) {
	i.track = t
	i.err = err
}

// Track returns the track being shown.
func (i TrackInfo) Track() *track.Track {
	return i.track
}

// SetSize sets the panel dimensions.
func (i *TrackInfo) SetSize(width, height int) {
	i.width = width
	i.height = height
}

// Lines returns the rendered rows, one per populated field.
func (i TrackInfo) Lines() []string {
	if i.track == nil {
		if i.err != nil {
			return []string{i.ErrorStyle.Render(i.err.Error())}
		}
		return []string{
			i.MutedStyle.Render("No track selected"),
			i.MutedStyle.Render("Highlight a file in the browser"),
		}
	}

	t := i.track
	lines := []string{i.TitleStyle.Render(t.DisplayTitle())}

	add := func(label, value string) {
		if value == "" {
			return
		}
		lines = append(lines, fmt.Sprintf("%s %s",
			i.LabelStyle.Render(label+":"),
			i.ValueStyle.Render(value)))
	}

	add("Title (JP)", t.Title.Japanese)
	add("Game", t.Game.English)
	add("Game (JP)", t.Game.Japanese)
	add("System", t.System.English)
	add("System (JP)", t.System.Japanese)
	add("Author", t.Author.English)
	add("Author (JP)", t.Author.Japanese)
	add("Date", t.ReleaseDate)
	add("Converter", t.Converter)
	add("Notes", strings.ReplaceAll(t.Notes, "\n", " "))

	format := t.Format().String()
	if t.IsMember() {
		format += " in " + filepath.Base(t.Archive())
	}
	add("Format", format)

	if d := t.Duration(); d > 0 {
		length := formatDuration(d)
		if t.HasLoop() {
			length += " (loop from " + formatDuration(t.LoopPoint()) + ")"
		}
		add("Length", length)
	}

	if n := len(t.Members()); n > 0 {
		add("Tracks", fmt.Sprintf("%d", n))
	}

	for _, c := range t.Chunks() {
		add(c.ID().String(), c.String())
	}

	if i.err != nil {
		lines = append(lines, i.ErrorStyle.Render(i.err.Error()))
	}

	return lines
}

// View renders the panel.
func (i TrackInfo) View() string {
	lines := i.Lines()
	for n, line := range lines {
		if lipgloss.Width(line) > i.width {
			lines[n] = truncate(line, i.width)
		}
	}
	return constrainToHeight(strings.Join(lines, "\n"), i.height)
}

// truncate shortens a rendered line to width cells.
func truncate(s string, width int) string {
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}

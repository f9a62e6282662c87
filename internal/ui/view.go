package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

const (
	// Minimum dimensions
	minWidth  = 60
	minHeight = 15

	// Panel proportions
	libraryWidthPercent = 35

	// Status line, progress bar and border
	progressHeight = 4
)

// View renders the entire UI.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	// Handle small terminal
	if m.width < minWidth || m.height < minHeight {
		return m.renderTooSmall()
	}

	// Calculate layout dimensions
	libraryWidth := m.width * libraryWidthPercent / 100
	rightWidth := m.width - libraryWidth - 3 // 3 for spacing/borders

	// Build the main layout
	mainContent := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderLibrary(libraryWidth, m.height-4),
		" ",
		m.renderRightPane(rightWidth, m.height-4),
	)

	// Add footer
	footer := m.renderFooter()

	mainView := lipgloss.JoinVertical(lipgloss.Left, mainContent, footer)

	// Render help overlay if visible
	if m.helpPopup.Visible() {
		return m.renderHelpOverlay(mainView)
	}

	return mainView
}

// renderHelpOverlay renders the help popup on top of the main view.
func (m Model) renderHelpOverlay(mainView string) string {
	// Get the popup content
	popup := m.helpPopup.View()

	// Calculate popup dimensions
	popupLines := strings.Split(popup, "\n")
	popupHeight := len(popupLines)
	popupWidth := 0
	for _, line := range popupLines {
		if w := lipgloss.Width(line); w > popupWidth {
			popupWidth = w
		}
	}

	// Calculate position to center the popup
	mainLines := strings.Split(mainView, "\n")
	mainHeight := len(mainLines)

	startY := max((mainHeight-popupHeight)/2, 0)
	startX := max((m.width-popupWidth)/2, 0)

	// Create a new view with the popup overlaid
	result := make([]string, mainHeight)
	for i, line := range mainLines {
		// Ensure line is wide enough
		lineWidth := lipgloss.Width(line)
		if lineWidth < m.width {
			line = line + strings.Repeat(" ", m.width-lineWidth)
		}

		// Check if this line overlaps with the popup
		popupLineIdx := i - startY
		if popupLineIdx >= 0 && popupLineIdx < len(popupLines) {
			popupLine := popupLines[popupLineIdx]
			popupLineWidth := lipgloss.Width(popupLine)

			// Build the overlaid line
			// Left part (before popup)
			var newLine strings.Builder
			if startX > 0 {
				// Get characters before popup
				newLine.WriteString(truncateToWidth(line, startX))
			}
			// Popup content
			newLine.WriteString(popupLine)
			// Right part (after popup)
			rightStart := startX + popupLineWidth
			if rightStart < m.width {
				remaining := substringFromWidth(line, rightStart)
				newLine.WriteString(remaining)
			}
			result[i] = newLine.String()
		} else {
			result[i] = line
		}
	}

	return strings.Join(result, "\n")
}

// truncateToWidth truncates a string to fit within a given visual width.
func truncateToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	currentWidth := 0
	var result strings.Builder
	for _, r := range s {
		runeWidth := lipgloss.Width(string(r))
		if currentWidth+runeWidth > width {
			// Pad with spaces if needed
			for currentWidth < width {
				result.WriteRune(' ')
				currentWidth++
			}
			break
		}
		result.WriteRune(r)
		currentWidth += runeWidth
	}
	// Pad if string was too short
	for currentWidth < width {
		result.WriteRune(' ')
		currentWidth++
	}
	return result.String()
}

// substringFromWidth returns the portion of a string starting from a given visual width.
func substringFromWidth(s string, startWidth int) string {
	currentWidth := 0
	for i, r := range s {
		runeWidth := lipgloss.Width(string(r))
		if currentWidth >= startWidth {
			return s[i:]
		}
		currentWidth += runeWidth
	}
	return ""
}

// renderTooSmall renders a message when the terminal is too small.
func (m Model) renderTooSmall() string {
	msg := fmt.Sprintf("Terminal too small\nNeed at least %dx%d\nCurrent: %dx%d",
		minWidth, minHeight, m.width, m.height)
	return lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Render(msg)
}

// layout sizes the panels to the window.
func (m *Model) layout() {
	libraryWidth := m.width * libraryWidthPercent / 100
	rightWidth := m.width - libraryWidth - 3
	height := m.height - 4

	queueHeight, infoHeight := m.rightHeights(height)

	// Panel border (2) and title (1)
	m.browser.SetSize(libraryWidth-4, height-5)
	m.queue.SetSize(rightWidth-2, queueHeight)
	m.trackInfo.SetSize(rightWidth-6, infoHeight-1)
	m.progress.SetWidth(rightWidth - 6)
}

// rightHeights splits the right pane between the queue and the info panel.
func (m Model) rightHeights(height int) (queueHeight, infoHeight int) {
	queueHeight = height * 45 / 100
	infoHeight = height - queueHeight - progressHeight
	return queueHeight, infoHeight
}

// renderLibrary renders the left file browser panel.
func (m Model) renderLibrary(width, height int) string {
	focused := m.focus == FocusBrowser
	title := "Files: " + filepath.Base(m.browser.CurrentDir())
	return m.styles.RenderPanel(title, m.browser.View(), focused, width-2, height-2)
}

// renderRightPane renders the right side containing queue, track info, and progress.
func (m Model) renderRightPane(width, height int) string {
	queueHeight, infoHeight := m.rightHeights(height)

	queue := m.renderQueue(width, queueHeight)
	trackInfo := m.renderTrackInfo(width, infoHeight)
	progress := m.renderProgress(width)

	return lipgloss.JoinVertical(lipgloss.Left, queue, trackInfo, progress)
}

// renderQueue renders the queue panel.
func (m Model) renderQueue(width, height int) string {
	focused := m.focus == FocusQueue
	return m.styles.RenderPanel(m.queue.Title(), m.queue.View(), focused, width, height)
}

// renderTrackInfo renders the track information panel.
func (m Model) renderTrackInfo(width, height int) string {
	// No border for track info, just content
	style := lipgloss.NewStyle().
		Width(width - 4).
		Height(height - 1).
		Padding(0, 1)

	return style.Render(m.trackInfo.View())
}

// renderProgress renders the progress bar and playback status.
func (m Model) renderProgress(width int) string {
	content := strings.Builder{}

	statusStyle, statusIcon := m.styles.Status(m.playback.State)

	nowPlaying := ""
	if t := m.playback.Track; t != nil {
		nowPlaying = " " + m.styles.TextBold.Render(t.DisplayTitle())
		if game := t.Game.String(); game != "" {
			nowPlaying += m.styles.TextMuted.Render(" - " + game)
		}
	}

	content.WriteString(fmt.Sprintf("%s %s%s\n",
		statusStyle.Render(statusIcon),
		statusStyle.Render(m.playback.State.String()),
		nowPlaying))

	m.progress.SetElapsed(m.playback.Position)
	m.progress.SetDuration(m.playback.Duration)
	content.WriteString(m.progress.View())

	// Style the container
	style := lipgloss.NewStyle().
		Width(width - 4).
		Padding(0, 1).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ColorMuted)

	return style.Render(content.String())
}

// renderFooter renders the status line and key hints.
func (m Model) renderFooter() string {
	var content strings.Builder

	if time.Since(m.errorTime) < errorTimeout {
		switch {
		case m.lastError != "":
			content.WriteString(m.styles.Error.Render("Error: " + m.lastError))
			content.WriteString("  ")
		case m.status != "":
			content.WriteString(m.styles.TextHighlight.Render(m.status))
			content.WriteString("  ")
		}
	}

	var panel help.KeyMap = m.browser.KeyMap
	if m.focus == FocusQueue {
		panel = m.queue.KeyMap()
	}
	content.WriteString(m.help.ShortHelpView(panel.ShortHelp()))
	content.WriteString(m.help.Styles.ShortSeparator.Render(m.help.ShortSeparator))
	content.WriteString(m.help.View(m.keyMap))

	return content.String()
}

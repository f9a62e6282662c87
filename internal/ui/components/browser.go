// Package components provides UI components for vgmlibrarian.
package components

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"

	"github.com/dewi-tim/vgmlibrarian/internal/track"
)

// BrowserKeyMap defines key bindings for the browser.
type BrowserKeyMap struct {
	Up           key.Binding
	Down         key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	GoToTop      key.Binding
	GoToBottom   key.Binding
	Open         key.Binding
	Back         key.Binding
	AddDir       key.Binding
	ToggleHidden key.Binding
}

// DefaultBrowserKeyMap returns the default browser key bindings.
func DefaultBrowserKeyMap() BrowserKeyMap {
	return BrowserKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdown", "page down"),
		),
		GoToTop: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "top"),
		),
		GoToBottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "bottom"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter", "l", "right"),
			key.WithHelp("enter", "open/enqueue"),
		),
		Back: key.NewBinding(
			key.WithKeys("backspace", "h", "left"),
			key.WithHelp("backspace", "parent"),
		),
		AddDir: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "enqueue dir"),
		),
		ToggleHidden: key.NewBinding(
			key.WithKeys("."),
			key.WithHelp(".", "hidden"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k BrowserKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.AddDir}
}

// FullHelp returns every browser binding, navigation first.
func (k BrowserKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.GoToTop, k.GoToBottom},
		{k.Open, k.Back, k.AddDir, k.ToggleHidden},
	}
}

// FileEntry represents a file or directory in the browser.
type FileEntry struct {
	Name   string
	Path   string
	IsDir  bool
	Size   int64
	Format track.Format
}

// Browser is a file browser component for navigating and selecting music
// files.
type Browser struct {
	fs afero.Fs

	// Current directory
	currentDir string

	// File entries in the current directory
	entries []FileEntry

	// Selection state
	selected int
	min      int // First visible index
	max      int // Last visible index

	// Dimensions
	width  int
	height int

	// State
	focused    bool
	showHidden bool
	err        error

	// Key bindings
	KeyMap BrowserKeyMap

	// Styles
	Styles BrowserStyles
}

// BrowserStyles contains styles for the browser component.
type BrowserStyles struct {
	Cursor      lipgloss.Style
	Directory   lipgloss.Style
	File        lipgloss.Style
	Archive     lipgloss.Style
	Selected    lipgloss.Style
	SelectedDir lipgloss.Style
	Size        lipgloss.Style
	Muted       lipgloss.Style
	EmptyDir    lipgloss.Style
}

// DefaultBrowserStyles returns the default browser styles.
func DefaultBrowserStyles() BrowserStyles {
	return BrowserStyles{
		Cursor: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7571F9")).
			Bold(true),
		Directory: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#99CCFF")),
		File: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")),
		Archive: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EE6FF8")),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7571F9")).
			Bold(true),
		SelectedDir: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7571F9")).
			Bold(true),
		Size: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#606060")),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#606060")),
		EmptyDir: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A0A0A0")).
			Italic(true),
	}
}

// FileSelectedMsg is sent when a file is selected.
type FileSelectedMsg struct {
	Path string
}

// AddDirMsg asks for every supported file in a directory to be enqueued.
type AddDirMsg struct {
	Path string
}

// DirChangedMsg is sent when the directory changes.
type DirChangedMsg struct {
	Path string
}

// HighlightMsg is sent when the cursor lands on a file.
type HighlightMsg struct {
	Path string
}

// BrowserReadDirMsg is sent when directory contents are read.
type BrowserReadDirMsg struct {
	Dir     string
	Entries []FileEntry
	Err     error
}

// BrowserSelectNameMsg is sent to select a specific entry by name after navigating up.
type BrowserSelectNameMsg struct {
	Name string
}

// NewBrowser creates a new browser over fs starting at the given directory.
func NewBrowser(fs afero.Fs, startDir string) Browser {
	if startDir == "" {
		startDir, _ = os.UserHomeDir()
		if startDir == "" {
			startDir = "/"
		}
	}

	// Ensure the path is absolute
	absDir, err := filepath.Abs(startDir)
	if err == nil {
		startDir = absDir
	}

	return Browser{
		fs:         fs,
		currentDir: startDir,
		entries:    []FileEntry{},
		max:        10,
		width:      30,
		height:     10,
		KeyMap:     DefaultBrowserKeyMap(),
		Styles:     DefaultBrowserStyles(),
	}
}

// Init initializes the browser and returns a command to read the directory.
func (b Browser) Init() tea.Cmd {
	return b.readDir(b.currentDir)
}

// Refresh re-reads the current directory.
func (b Browser) Refresh() tea.Cmd {
	return b.readDir(b.currentDir)
}

// readDir returns a command to read a directory's contents.
func (b Browser) readDir(path string) tea.Cmd {
	fs, showHidden := b.fs, b.showHidden
	return func() tea.Msg {
		entries, err := ReadDirFiltered(fs, path, showHidden)
		return BrowserReadDirMsg{
			Dir:     path,
			Entries: entries,
			Err:     err,
		}
	}
}

// ReadDirFiltered lists the directories and supported music files in path,
// directories first, then alphabetically.
func ReadDirFiltered(fs afero.Fs, path string, showHidden bool) ([]FileEntry, error) {
	infos, err := afero.ReadDir(fs, path)
	if err != nil {
		return nil, err
	}

	var entries []FileEntry

	for _, info := range infos {
		name := info.Name()

		// Skip hidden files unless showHidden is true
		if !showHidden && strings.HasPrefix(name, ".") {
			continue
		}

		format := track.DetectFormat(name)
		if !info.IsDir() && format == track.FormatUnknown {
			continue
		}

		entries = append(entries, FileEntry{
			Name:   name,
			Path:   filepath.Join(path, name),
			IsDir:  info.IsDir(),
			Size:   info.Size(),
			Format: format,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})

	return entries, nil
}

// Update handles messages and updates the browser state.
func (b Browser) Update(msg tea.Msg) (Browser, tea.Cmd) {
	switch msg := msg.(type) {
	case BrowserReadDirMsg:
		if msg.Err != nil {
			b.err = msg.Err
			return b, nil
		}
		b.currentDir = msg.Dir
		b.entries = msg.Entries
		b.err = nil
		// Reset selection if needed
		if b.selected >= len(b.entries) {
			b.selected = max(len(b.entries)-1, 0)
		}
		b.updateViewport()
		return b, b.highlight()

	case BrowserSelectNameMsg:
		b.HandleSelectName(msg.Name)
		return b, b.highlight()

	case tea.KeyMsg:
		if !b.focused {
			return b, nil
		}
		return b.handleKeyMsg(msg)
	}

	return b, nil
}

// handleKeyMsg handles keyboard input when focused.
func (b Browser) handleKeyMsg(msg tea.KeyMsg) (Browser, tea.Cmd) {
	switch {
	case key.Matches(msg, b.KeyMap.Up):
		b.moveUp()
	case key.Matches(msg, b.KeyMap.Down):
		b.moveDown()
	case key.Matches(msg, b.KeyMap.PageUp):
		b.pageUp()
	case key.Matches(msg, b.KeyMap.PageDown):
		b.pageDown()
	case key.Matches(msg, b.KeyMap.GoToTop):
		b.goToTop()
	case key.Matches(msg, b.KeyMap.GoToBottom):
		b.goToBottom()

	case key.Matches(msg, b.KeyMap.Open):
		return b.openSelected()

	case key.Matches(msg, b.KeyMap.Back):
		return b.goToParent()

	case key.Matches(msg, b.KeyMap.AddDir):
		dir := b.currentDir
		if entry := b.SelectedEntry(); entry != nil && entry.IsDir {
			dir = entry.Path
		}
		return b, func() tea.Msg { return AddDirMsg{Path: dir} }

	case key.Matches(msg, b.KeyMap.ToggleHidden):
		b.showHidden = !b.showHidden
		return b, b.readDir(b.currentDir)

	default:
		return b, nil
	}

	return b, b.highlight()
}

// highlight reports the file under the cursor.
func (b Browser) highlight() tea.Cmd {
	entry := b.SelectedEntry()
	if entry == nil || entry.IsDir {
		return nil
	}
	path := entry.Path
	return func() tea.Msg { return HighlightMsg{Path: path} }
}

// moveUp moves selection up one item.
func (b *Browser) moveUp() {
	if b.selected > 0 {
		b.selected--
		if b.selected < b.min {
			b.min--
			b.max--
		}
	}
}

// moveDown moves selection down one item.
func (b *Browser) moveDown() {
	if b.selected < len(b.entries)-1 {
		b.selected++
		if b.selected > b.max {
			b.min++
			b.max++
		}
	}
}

// pageUp moves selection up one page.
func (b *Browser) pageUp() {
	visible := b.visibleCount()
	b.selected = max(b.selected-visible, 0)
	b.min = max(b.min-visible, 0)
	b.max = min(b.min+visible-1, len(b.entries)-1)
}

// pageDown moves selection down one page.
func (b *Browser) pageDown() {
	visible := b.visibleCount()
	b.selected = min(b.selected+visible, len(b.entries)-1)
	b.max = min(b.max+visible, len(b.entries)-1)
	b.min = max(b.max-visible+1, 0)
}

// goToTop moves selection to the first item.
func (b *Browser) goToTop() {
	b.selected = 0
	b.min = 0
	b.max = min(b.visibleCount()-1, len(b.entries)-1)
}

// goToBottom moves selection to the last item.
func (b *Browser) goToBottom() {
	b.selected = max(len(b.entries)-1, 0)
	b.max = len(b.entries) - 1
	b.min = max(b.max-b.visibleCount()+1, 0)
}

// openSelected enters the selected directory or selects the file.
func (b Browser) openSelected() (Browser, tea.Cmd) {
	entry := b.SelectedEntry()
	if entry == nil {
		return b, nil
	}

	if entry.IsDir {
		path := entry.Path
		b.selected = 0
		b.min = 0
		b.max = b.visibleCount() - 1
		return b, tea.Batch(
			b.readDir(path),
			func() tea.Msg { return DirChangedMsg{Path: path} },
		)
	}

	path := entry.Path
	return b, func() tea.Msg {
		return FileSelectedMsg{Path: path}
	}
}

// goToParent navigates to the parent directory.
func (b Browser) goToParent() (Browser, tea.Cmd) {
	parent := filepath.Dir(b.currentDir)
	if parent == b.currentDir {
		// Already at root
		return b, nil
	}

	currentName := filepath.Base(b.currentDir)
	b.selected = 0
	b.min = 0
	b.max = b.visibleCount() - 1

	return b, tea.Sequence(
		b.readDir(parent),
		func() tea.Msg { return DirChangedMsg{Path: parent} },
		// After reading, select the directory we came from
		func() tea.Msg { return BrowserSelectNameMsg{Name: currentName} },
	)
}

// HandleSelectName selects an entry by name (used after navigating up).
func (b *Browser) HandleSelectName(name string) {
	for i, entry := range b.entries {
		if entry.Name == name {
			b.selected = i
			b.updateViewport()
			return
		}
	}
}

// visibleCount returns the number of visible items.
func (b Browser) visibleCount() int {
	return max(b.height-2, 1) // Account for header line and padding
}

// updateViewport ensures the selected item is visible.
func (b *Browser) updateViewport() {
	visible := b.visibleCount()

	b.max = max(min(b.max, len(b.entries)-1), 0)
	b.min = b.max - visible + 1
	if b.min < 0 {
		b.min = 0
		b.max = min(visible-1, len(b.entries)-1)
	}

	// Adjust if selected is outside viewport
	if b.selected < b.min {
		b.min = b.selected
		b.max = min(b.min+visible-1, len(b.entries)-1)
	} else if b.selected > b.max {
		b.max = b.selected
		b.min = max(b.max-visible+1, 0)
	}
}

// View renders the browser.
func (b Browser) View() string {
	var s strings.Builder

	// Room for the cursor and a size column
	const cursorWidth, sizeWidth = 2, 9
	nameWidth := max(b.width-cursorWidth-sizeWidth, 5)

	// Show current directory (truncated if needed)
	dir := b.currentDir
	maxDirLen := max(b.width-2, 10)
	if len(dir) > maxDirLen {
		dir = "..." + dir[len(dir)-maxDirLen+3:]
	}
	s.WriteString(b.Styles.Muted.Render(dir))
	s.WriteRune('\n')

	if b.err != nil {
		s.WriteString(b.Styles.Muted.Render("Error: " + b.err.Error()))
		return constrainToHeight(s.String(), b.height)
	}

	if len(b.entries) == 0 {
		s.WriteString(b.Styles.EmptyDir.Render("(no music here)"))
		return constrainToHeight(s.String(), b.height)
	}

	// Only render visible items within min/max range
	for i := b.min; i <= b.max && i < len(b.entries); i++ {
		entry := b.entries[i]
		isSelected := i == b.selected

		cursor := "  "
		if isSelected {
			cursor = b.Styles.Cursor.Render("> ")
		}

		displayName := entry.Name
		if entry.IsDir {
			displayName = "[" + entry.Name + "]"
		}
		displayName = fitName(displayName, nameWidth, isSelected)

		var styledName string
		switch {
		case isSelected && entry.IsDir:
			styledName = b.Styles.SelectedDir.Render(displayName)
		case isSelected:
			styledName = b.Styles.Selected.Render(displayName)
		case entry.IsDir:
			styledName = b.Styles.Directory.Render(displayName)
		case entry.Format == track.FormatArchive:
			styledName = b.Styles.Archive.Render(displayName)
		default:
			styledName = b.Styles.File.Render(displayName)
		}

		line := cursor + styledName
		if !entry.IsDir {
			pad := max(nameWidth-lipgloss.Width(displayName), 0)
			line += strings.Repeat(" ", pad) + b.Styles.Size.Render(
				lipgloss.NewStyle().Width(sizeWidth).Align(lipgloss.Right).Render(humanize.Bytes(uint64(entry.Size))))
		}

		s.WriteString(line)
		s.WriteRune('\n')
	}

	return constrainToHeight(s.String(), b.height)
}

// fitName truncates or scrolls a name to fit within the given width.
// For selected items, it scrolls to show the end of long names.
// For non-selected items, it truncates with "..." suffix.
func fitName(name string, maxWidth int, isSelected bool) string {
	if len(name) <= maxWidth {
		return name
	}

	visibleLen := max(maxWidth-3, 1) // Account for "..."
	if isSelected {
		return "..." + name[len(name)-visibleLen:]
	}
	return name[:visibleLen] + "..."
}

// constrainToHeight truncates or pads content to exactly height lines.
func constrainToHeight(content string, height int) string {
	if height <= 0 {
		return content
	}

	// Remove trailing newline to avoid off-by-one in split
	content = strings.TrimSuffix(content, "\n")

	lines := strings.Split(content, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

// SetSize sets the browser dimensions.
func (b *Browser) SetSize(width, height int) {
	b.width = width
	b.height = height
	b.max = b.min + b.visibleCount() - 1
	b.updateViewport()
}

// Focus sets the browser as focused.
func (b *Browser) Focus() {
	b.focused = true
}

// Blur removes focus from the browser.
func (b *Browser) Blur() {
	b.focused = false
}

// IsFocused returns whether the browser is focused.
func (b Browser) IsFocused() bool {
	return b.focused
}

// CurrentDir returns the current directory path.
func (b Browser) CurrentDir() string {
	return b.currentDir
}

// SelectedEntry returns the currently selected entry, or nil if none.
func (b Browser) SelectedEntry() *FileEntry {
	if len(b.entries) == 0 || b.selected < 0 || b.selected >= len(b.entries) {
		return nil
	}
	entry := b.entries[b.selected]
	return &entry
}

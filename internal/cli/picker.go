package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// FileListModel - Interactive G-code file selection
// =============================================================================

// fileEntry is one selectable file in the picker.
type fileEntry struct {
	Name string // base name shown in the list
	Path string // full path returned on selection
	Size int64
}

// FileListModel is the bubbletea model for interactive G-code file selection.
// Space marks files, enter confirms the marked set (or the cursor line when
// nothing is marked).
type FileListModel struct {
	Files     []fileEntry
	Cursor    int
	Marked    map[int]bool
	Confirmed bool
	Height    int
	Offset    int
}

// NewFileListModel creates a new file list model.
func NewFileListModel(files []fileEntry) FileListModel {
	return FileListModel{
		Files:  files,
		Marked: make(map[int]bool),
		Height: 15,
	}
}

func (m FileListModel) Init() tea.Cmd {
	return nil
}

func (m FileListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Files)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ":
			if m.Marked[m.Cursor] {
				delete(m.Marked, m.Cursor)
			} else {
				m.Marked[m.Cursor] = true
			}
		case "a":
			if len(m.Marked) == len(m.Files) {
				m.Marked = make(map[int]bool)
			} else {
				for i := range m.Files {
					m.Marked[i] = true
				}
			}
		case "enter":
			if len(m.Files) == 0 {
				return m, tea.Quit
			}
			if len(m.Marked) == 0 {
				m.Marked[m.Cursor] = true
			}
			m.Confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m FileListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select G-code Files"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space mark  a all  ⏎ process  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Files) {
		end = len(m.Files)
	}

	for i := m.Offset; i < end; i++ {
		f := m.Files[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "> "
		}

		mark := "[ ]"
		if m.Marked[i] {
			mark = "[" + StyleSuccess.Render("x") + "]"
		}

		line := fmt.Sprintf("%s%s %-40s  %s", cursor, mark, f.Name, listDimStyle.Render(formatSize(f.Size)))

		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else if m.Marked[i] {
			b.WriteString(listNormalStyle.Render(line))
		} else {
			b.WriteString(listDimStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d marked", m.Cursor+1, len(m.Files), len(m.Marked))))

	return b.String()
}

// SelectedPaths returns the marked file paths in list order, or nil if the
// picker was cancelled.
func (m FileListModel) SelectedPaths() []string {
	if !m.Confirmed {
		return nil
	}
	var paths []string
	for i, f := range m.Files {
		if m.Marked[i] {
			paths = append(paths, f.Path)
		}
	}
	return paths
}

// =============================================================================
// Helpers
// =============================================================================

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/tmrview/pkg/render/text"
	"github.com/matzehuels/tmrview/pkg/tmr"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	minBrowserHeight = 5
	sentencePreview  = 48
)

// =============================================================================
// BrowserModel - Interactive interpretation browser
// =============================================================================

// BrowserModel is the bubbletea model behind "tmrview view". It starts on a
// table of interpretations; enter opens one as colored sentences and frame
// tables.
type BrowserModel struct {
	Outputs []tmr.Output
	Cursor  int
	Height  int
	Offset  int

	// Open is set while one interpretation is shown in full.
	Open   bool
	Scroll int

	pages []string
}

// NewBrowserModel creates a browser over outputs.
func NewBrowserModel(outputs []tmr.Output) BrowserModel {
	return BrowserModel{
		Outputs: outputs,
		Height:  15,
		pages:   make([]string, len(outputs)),
	}
}

func (m BrowserModel) Init() tea.Cmd {
	return nil
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Open {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, minBrowserHeight)
		m.Offset = clampOffset(m.Cursor, m.Offset, m.Height)
	}
	return m, nil
}

func (m BrowserModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "enter", "right", "l":
		if len(m.Outputs) > 0 {
			m.Open = true
			m.Scroll = 0
		}
	}
	return m, nil
}

func (m BrowserModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "left", "h", "backspace":
		m.Open = false
	case "up", "k":
		if m.Scroll > 0 {
			m.Scroll--
		}
	case "down", "j":
		if m.Scroll < m.maxScroll() {
			m.Scroll++
		}
	case "g":
		m.Scroll = 0
	case "G":
		m.Scroll = m.maxScroll()
	case "n":
		if m.Cursor < len(m.Outputs)-1 {
			m.moveCursor(1)
			m.Scroll = 0
		}
	case "p":
		if m.Cursor > 0 {
			m.moveCursor(-1)
			m.Scroll = 0
		}
	}
	return m, nil
}

func (m *BrowserModel) moveCursor(delta int) {
	next := m.Cursor + delta
	if next < 0 || next >= len(m.Outputs) {
		return
	}
	m.Cursor = next
	m.Offset = clampOffset(m.Cursor, m.Offset, m.Height)
}

// clampOffset scrolls a window of height rows so that cursor stays visible.
func clampOffset(cursor, offset, height int) int {
	if cursor < offset {
		return cursor
	}
	if cursor >= offset+height {
		return cursor - height + 1
	}
	return offset
}

// page returns the rendered interpretation under the cursor. Pages are
// rendered once and shared between model copies.
func (m BrowserModel) page() string {
	if m.pages[m.Cursor] == "" {
		m.pages[m.Cursor] = text.Output(m.Outputs[m.Cursor])
	}
	return m.pages[m.Cursor]
}

func (m BrowserModel) pageLines() []string {
	return strings.Split(m.page(), "\n")
}

func (m BrowserModel) maxScroll() int {
	return max(len(m.pageLines())-m.Height, 0)
}

func (m BrowserModel) View() string {
	if len(m.Outputs) == 0 {
		return StyleTitle.Render("No interpretations") + "\n" +
			listDimStyle.Render("q quit") + "\n"
	}
	if m.Open {
		return m.detailView()
	}
	return m.listView()
}

func (m BrowserModel) listView() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Interpretations"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Outputs))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		out := m.Outputs[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			string(out.SentenceID),
			strconv.Itoa(out.TMRIndex + 1),
			strconv.Itoa(len(out.Frames)),
			fmt.Sprintf("%.3g", out.TotalPreference),
			fmt.Sprintf("%.3g", out.TotalConfidence),
			truncate(sentenceText(out), sentencePreview),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Sentence", "TMR", "Frames", "Pref", "Conf", "Text").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col >= 3 && col <= 5 {
				return listDimStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Outputs))))

	return b.String()
}

func (m BrowserModel) detailView() string {
	var b strings.Builder

	b.WriteString(listDimStyle.Render(fmt.Sprintf("[%d/%d]  j/k scroll  n/p next/previous  esc back  q quit", m.Cursor+1, len(m.Outputs))))
	b.WriteString("\n\n")

	lines := m.pageLines()
	start := min(m.Scroll, len(lines))
	end := min(start+m.Height, len(lines))
	b.WriteString(strings.Join(lines[start:end], "\n"))
	b.WriteString("\n")

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// sentenceText rebuilds the plain text of an interpretation's sentences.
func sentenceText(out tmr.Output) string {
	var b strings.Builder
	for i, s := range out.Sentences {
		if i > 0 {
			b.WriteString(" ")
		}
		for _, w := range s.Words {
			b.WriteString(w.Token)
			b.WriteString(w.Spacing)
		}
		b.WriteString(s.Punct)
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

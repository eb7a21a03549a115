package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/neatscripts/neat/internal/editor"
)

var (
	viewerTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	viewerGutterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	viewerCursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	viewerFooterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	viewerFrameStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("8"))
)

// viewerModel is a read-only, scrollable view of one document.
type viewerModel struct {
	doc      *editor.Document
	cursor   editor.Point
	lines    []string
	viewport viewport.Model
	ready    bool
	width    int
	height   int
}

func newViewerModel(doc *editor.Document, sel editor.Range) *viewerModel {
	return &viewerModel{
		doc:    doc,
		cursor: sel.Normalized().Start,
		lines:  strings.Split(highlightSource(doc.Path, doc.Text), "\n"),
	}
}

func (m *viewerModel) Init() tea.Cmd { return nil }

func (m *viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "g", "home":
			m.viewport.GotoTop()
			return m, nil
		case "G", "end":
			m.viewport.GotoBottom()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// resize fits the viewport inside the frame, header and footer.
func (m *viewerModel) resize() {
	w := clampMin(m.width-2, 1)
	h := clampMin(m.height-4, 1)
	if !m.ready {
		m.viewport = viewport.New(w, h)
		m.ready = true
	} else {
		m.viewport.Width, m.viewport.Height = w, h
	}
	m.viewport.SetContent(m.body())
	m.scrollToCursor()
}

func (m *viewerModel) scrollToCursor() {
	line := m.cursor.Line
	if line < m.viewport.YOffset || line >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(line - m.viewport.Height/2)
	}
}

// body renders the highlighted lines with a line-number gutter. The cursor
// line's number is marked.
func (m *viewerModel) body() string {
	width := len(fmt.Sprint(len(m.lines)))
	var b strings.Builder
	for i, line := range m.lines {
		num := fmt.Sprintf("%*d ", width, i+1)
		if i == m.cursor.Line {
			b.WriteString(viewerCursorStyle.Render(num))
		} else {
			b.WriteString(viewerGutterStyle.Render(num))
		}
		b.WriteString(line)
		if i < len(m.lines)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m *viewerModel) header() string {
	title := m.doc.Path
	if m.doc.Dirty {
		title += " [modified]"
	}
	return viewerTitleStyle.Render(title)
}

func (m *viewerModel) footer() string {
	return viewerFooterStyle.Render(fmt.Sprintf("%s  %3.f%%  q quit  g/G top/bottom",
		m.cursor, m.viewport.ScrollPercent()*100))
}

func (m *viewerModel) View() string {
	if !m.ready {
		return "loading..."
	}
	content := m.header() + "\n" + m.viewport.View() + "\n" + m.footer()
	return viewerFrameStyle.Render(content)
}

func clampMin(v, min int) int {
	if v < min {
		return min
	}
	return v
}

// ViewDocument shows doc full-screen with syntax highlighting, scrolled to
// the selection, until the user quits.
func ViewDocument(doc *editor.Document, sel editor.Range) error {
	p := tea.NewProgram(newViewerModel(doc, sel), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

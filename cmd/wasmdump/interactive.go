package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/wasmkit/wasmdump"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	matchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type viewerModel struct {
	err      error
	filename string
	width    int
	rows     []string
	viewport viewport.Model
	search   textinput.Model
	matches  []int
	matchIdx int
	ready    bool
	state    viewerState
}

type viewerState int

const (
	stateViewing viewerState = iota
	stateSearching
	stateGotoOffset
)

func newViewerModel(filename string, width int) *viewerModel {
	search := textinput.New()
	search.Prompt = "/"
	search.Width = 40
	return &viewerModel{
		filename: filename,
		width:    width,
		search:   search,
	}
}

type reportMsg struct {
	err  error
	rows []string
}

func (m *viewerModel) Init() tea.Cmd {
	return m.loadReport
}

func (m *viewerModel) loadReport() tea.Msg {
	data, err := os.ReadFile(m.filename)
	if err != nil {
		return reportMsg{err: err}
	}
	report, err := wasmdump.Annotate(m.filename, data, wasmdump.Options{Width: m.width})
	if report == "" && err != nil {
		return reportMsg{err: err}
	}
	// A partial report is still worth scrolling through; it ends with
	// the error line.
	return reportMsg{rows: strings.Split(strings.TrimRight(report, "\n"), "\n")}
}

func (m *viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == stateSearching || m.state == stateGotoOffset {
			switch msg.String() {
			case "enter":
				if m.state == stateSearching {
					m.runSearch(m.search.Value())
				} else {
					m.gotoOffset(m.search.Value())
				}
				m.state = stateViewing
				m.search.Blur()
				return m, nil
			case "esc", "ctrl+c":
				m.state = stateViewing
				m.search.Blur()
				return m, nil
			}
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "/":
			m.state = stateSearching
			m.search.Prompt = "/"
			m.search.SetValue("")
			m.search.Focus()
			return m, textinput.Blink

		case ":":
			m.state = stateGotoOffset
			m.search.Prompt = "offset: 0x"
			m.search.SetValue("")
			m.search.Focus()
			return m, textinput.Blink

		case "n":
			m.nextMatch(1)

		case "N":
			m.nextMatch(-1)

		case "g", "home":
			m.viewport.GotoTop()

		case "G", "end":
			m.viewport.GotoBottom()
		}

	case reportMsg:
		m.err = msg.err
		m.rows = msg.rows
		if m.ready {
			m.viewport.SetContent(strings.Join(m.rows, "\n"))
		}
		return m, nil

	case tea.WindowSizeMsg:
		// Title and help rows frame the viewport.
		h := msg.Height - 2
		if h < 1 {
			h = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, h)
			m.viewport.SetContent(strings.Join(m.rows, "\n"))
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = h
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *viewerModel) runSearch(query string) {
	m.matches = nil
	m.matchIdx = 0
	if query == "" {
		return
	}
	for i, row := range m.rows {
		if strings.Contains(row, query) {
			m.matches = append(m.matches, i)
		}
	}
	if len(m.matches) > 0 {
		m.viewport.SetYOffset(m.matches[0])
	}
}

// gotoOffset scrolls to the first report row whose address column is at
// or past the given hex offset.
func (m *viewerModel) gotoOffset(value string) {
	target, err := strconv.ParseUint(strings.TrimPrefix(value, "0x"), 16, 32)
	if err != nil {
		return
	}
	for i, row := range m.rows {
		addr, rest, found := strings.Cut(row, ": ")
		if !found || rest == "" {
			continue
		}
		off, err := strconv.ParseUint(addr, 16, 32)
		if err != nil {
			continue
		}
		if off >= target {
			m.viewport.SetYOffset(i)
			return
		}
	}
}

func (m *viewerModel) nextMatch(dir int) {
	if len(m.matches) == 0 {
		return
	}
	m.matchIdx = (m.matchIdx + dir + len(m.matches)) % len(m.matches)
	m.viewport.SetYOffset(m.matches[m.matchIdx])
}

func (m *viewerModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if !m.ready || len(m.rows) == 0 {
		return "Loading module..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("wasmdump"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	switch m.state {
	case stateSearching, stateGotoOffset:
		b.WriteString(m.search.View())
	default:
		help := "↑/↓ scroll • / search • : goto offset • q quit"
		if len(m.matches) > 0 {
			help = matchStyle.Render(fmt.Sprintf("match %d/%d", m.matchIdx+1, len(m.matches))) +
				helpStyle.Render(" • n/N next/prev • ") + helpStyle.Render(help)
		} else {
			help = helpStyle.Render(help)
		}
		b.WriteString(help)
	}
	return b.String()
}

func runInteractive(filename string, width int) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("interactive mode needs a terminal")
	}
	p := tea.NewProgram(newViewerModel(filename, width), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

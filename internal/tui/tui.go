// Package tui is the interactive terminal chat interface. It renders the
// session manager's state and never owns conversation data itself; a
// submission runs as a command in its own goroutine and the view re-reads
// manager state when it resolves.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vakeel-dev/vakeel/pkg/chat"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("61")).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("78"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("215"))
)

// turnResolvedMsg signals that a Submit call returned.
type turnResolvedMsg struct{}

// Model is the bubbletea model for the chat interface.
type Model struct {
	mgr *chat.Manager

	input    textinput.Model
	viewport viewport.Model
	spin     spinner.Model

	width  int
	height int
	ready  bool
	status string
}

// New creates the chat interface over a session manager.
func New(mgr *chat.Manager) Model {
	input := textinput.New()
	input.Placeholder = "Ask a legal question, or /attach <file.pdf>"
	input.Prompt = "> "
	input.CharLimit = 4000
	input.SetValue(mgr.Draft())
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = statusStyle

	return Model{
		mgr:   mgr,
		input: input,
		spin:  spin,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		chromeHeight := 4 // header, tabs, status, input
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-chromeHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - chromeHeight
		}
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyCtrlN:
			// CreateSession clears the manager's compose state; mirror it.
			m.mgr.CreateSession()
			m.input.SetValue(m.mgr.Draft())
			m.status = ""
			m.refreshTranscript()
			return m, nil
		case tea.KeyTab:
			m.cycleSession(1)
			return m, nil
		case tea.KeyShiftTab:
			m.cycleSession(-1)
			return m, nil
		case tea.KeyEnter:
			return m.handleEnter()
		}

	case turnResolvedMsg:
		m.status = ""
		m.refreshTranscript()
		m.viewport.GotoBottom()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		if m.mgr.Busy() {
			m.refreshTranscript()
			m.viewport.GotoBottom()
			return m, cmd
		}
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	if _, ok := msg.(tea.KeyMsg); ok {
		// The manager owns compose state; keep its draft current so a new
		// session clears it and a reopened interface restores it.
		m.mgr.SetDraft(m.input.Value())
	}
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())

	if strings.HasPrefix(line, "/") {
		return m.handleCommand(line)
	}

	if m.mgr.Busy() {
		m.status = "still working on the previous question"
		return m, nil
	}
	if line == "" && m.mgr.StagedAttachment() == nil {
		return m, nil
	}

	m.input.SetValue("")
	m.status = "thinking"
	cmd := func() tea.Msg {
		m.mgr.Submit(context.Background(), line)
		return turnResolvedMsg{}
	}
	m.refreshAfterOptimistic()
	return m, tea.Batch(cmd, m.spin.Tick)
}

func (m Model) handleCommand(line string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(line)
	m.input.SetValue("")
	m.mgr.SetDraft("")

	switch fields[0] {
	case "/new":
		m.mgr.CreateSession()
		m.status = ""
		m.refreshTranscript()
	case "/switch":
		if len(fields) == 2 {
			if n, err := strconv.Atoi(fields[1]); err == nil {
				m.selectByNumber(n)
			}
		}
		m.refreshTranscript()
	case "/attach":
		if len(fields) < 2 {
			m.status = "usage: /attach <file.pdf>"
			break
		}
		path := strings.TrimSpace(strings.TrimPrefix(line, "/attach"))
		data, err := os.ReadFile(path)
		if err != nil {
			m.status = "could not read " + path
			break
		}
		m.mgr.StageAttachment(chat.Attachment{Name: filepath.Base(path), Data: data})
		m.status = "attached " + filepath.Base(path)
	case "/quit":
		return m, tea.Quit
	default:
		m.status = "unknown command " + fields[0]
	}
	return m, nil
}

func (m *Model) cycleSession(dir int) {
	sessions := m.mgr.Sessions()
	active := m.mgr.ActiveID()
	for i, s := range sessions {
		if s.ID == active {
			next := (i + dir + len(sessions)) % len(sessions)
			m.mgr.SelectSession(sessions[next].ID)
			break
		}
	}
	m.refreshTranscript()
}

func (m *Model) selectByNumber(n int) {
	sessions := m.mgr.Sessions()
	if n >= 1 && n <= len(sessions) {
		m.mgr.SelectSession(sessions[n-1].ID)
	}
}

// refreshAfterOptimistic polls once so the optimistic user message shows
// before the network call resolves. Submit appends it synchronously before
// dialing, but the Submit goroutine races this render; reading manager
// state here is cheap either way.
func (m *Model) refreshAfterOptimistic() {
	m.refreshTranscript()
	m.viewport.GotoBottom()
}

func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages())
}

func (m *Model) renderMessages() string {
	msgs := m.mgr.Messages(m.mgr.ActiveID())
	if len(msgs) == 0 {
		return dimStyle.Render("\n  Start by asking about a statute, a case, or attach a PDF for analysis.\n")
	}

	var b strings.Builder
	for _, msg := range msgs {
		switch {
		case msg.Role == chat.RoleUser:
			b.WriteString(userStyle.Render("You"))
		case msg.IsError:
			b.WriteString(errorStyle.Render("Vakeel"))
		default:
			b.WriteString(assistantStyle.Render("Vakeel"))
		}
		b.WriteString(dimStyle.Render("  " + msg.CreatedAt.Format("15:04:05")))
		if msg.LatencySeconds != nil {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  (%.1fs)", *msg.LatencySeconds)))
		}
		b.WriteString("\n")

		text := msg.Text
		if msg.IsError {
			text = errorStyle.Render(text)
		}
		b.WriteString(wrap(text, m.viewport.Width-2))
		b.WriteString("\n\n")
	}
	return b.String()
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	header := headerStyle.Render("vakeel — legal research assistant")

	var tabs []string
	active := m.mgr.ActiveID()
	for i, s := range m.mgr.Sessions() {
		label := fmt.Sprintf("%d:%s", i+1, s.Title)
		if s.ID == active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}

	status := ""
	if m.mgr.Busy() {
		status = m.spin.View() + statusStyle.Render(" researching...")
	} else if att := m.mgr.StagedAttachment(); att != nil {
		status = statusStyle.Render("attachment staged: " + att.Name)
	} else if m.status != "" {
		status = statusStyle.Render(m.status)
	}

	return strings.Join([]string{
		header,
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		m.viewport.View(),
		status,
		m.input.View(),
	}, "\n")
}

// wrap breaks text at width runes, preserving existing newlines. Cutting by
// rune keeps multibyte characters ("§", "₹") intact at the boundary.
func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		runes := []rune(line)
		for len(runes) > width {
			cut := -1
			for i := width; i >= 0; i-- {
				if runes[i] == ' ' {
					cut = i
					break
				}
			}
			if cut <= 0 {
				cut = width
			}
			out = append(out, string(runes[:cut]))
			for cut < len(runes) && runes[cut] == ' ' {
				cut++
			}
			runes = runes[cut:]
		}
		out = append(out, string(runes))
	}
	return strings.Join(out, "\n")
}

// Run starts the interactive interface and blocks until the user quits.
func Run(mgr *chat.Manager) error {
	p := tea.NewProgram(New(mgr), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

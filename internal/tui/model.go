// Package tui provides the interactive terminal front-end. It renders
// the raw character stream from the engine's passthrough channel in a
// viewport, with a single-line command input below and a status bar on
// top. Events keep flowing to whatever sinks are registered; the TUI
// is just another consumer of the core.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fonny-io/fonny/internal/repl"
)

var (
	statusConnectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("2")).
				Padding(0, 1)

	statusDisconnectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("1")).
				Padding(0, 1)

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// charsMsg carries a batch of characters drained from the passthrough
// channel.
type charsMsg string

// connectResultMsg reports the outcome of the connect attempt.
type connectResultMsg struct{ ok bool }

// Model is the Bubble Tea model for the REPL session.
type Model struct {
	engine   *repl.Engine
	endpoint string
	maxLines int

	viewport viewport.Model
	input    textinput.Model
	output   strings.Builder
	ready    bool
	errText  string
}

// NewModel creates a Model bound to the given engine. The endpoint is
// shown in the status bar; maxLines bounds the retained output.
func NewModel(engine *repl.Engine, endpoint string, maxLines int) *Model {
	input := textinput.New()
	input.Placeholder = "type a command, \"exit\" to quit"
	input.Focus()

	if maxLines <= 0 {
		maxLines = 1000
	}

	return &Model{
		engine:   engine,
		endpoint: endpoint,
		maxLines: maxLines,
		input:    input,
	}
}

// Init connects the transport and starts draining the character channel.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.connect(), m.waitForChars(), textinput.Blink)
}

// connect attempts to start the engine off the UI goroutine.
func (m *Model) connect() tea.Cmd {
	return func() tea.Msg {
		return connectResultMsg{ok: m.engine.Start()}
	}
}

// waitForChars blocks on the passthrough channel, then drains whatever
// else is immediately available so one message carries a whole burst.
func (m *Model) waitForChars() tea.Cmd {
	return func() tea.Msg {
		var sb strings.Builder
		r, ok := <-m.engine.Chars()
		if !ok {
			return nil
		}
		sb.WriteRune(r)
		for {
			select {
			case r := <-m.engine.Chars():
				sb.WriteRune(r)
			default:
				return charsMsg(sb.String())
			}
		}
	}
}

// Update handles Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout(msg.Width, msg.Height)
		return m, nil

	case connectResultMsg:
		if !msg.ok {
			m.errText = "connection failed, see the event log"
		}
		return m, nil

	case charsMsg:
		m.appendOutput(string(msg))
		return m, m.waitForChars()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.engine.Stop()
			return m, tea.Quit
		case tea.KeyEnter:
			return m, m.submit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit sends the current input line to the device.
func (m *Model) submit() tea.Cmd {
	command := m.input.Value()
	m.input.Reset()

	if strings.EqualFold(strings.TrimSpace(command), "exit") {
		m.engine.Stop()
		return tea.Quit
	}

	m.errText = ""
	if err := m.engine.SendCommand(command); err != nil {
		m.errText = err.Error()
	}
	return nil
}

// layout sizes the viewport to the window.
func (m *Model) layout(width, height int) {
	// Status bar, error line, and input each take one row.
	viewHeight := max(height-3, 1)
	if !m.ready {
		m.viewport = viewport.New(width, viewHeight)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = viewHeight
	}
	m.viewport.SetContent(m.output.String())
	m.viewport.GotoBottom()
	m.input.Width = width - 4
}

// appendOutput filters control characters and trims the buffer to the
// configured line count before re-rendering the viewport.
func (m *Model) appendOutput(chunk string) {
	for _, r := range chunk {
		// Keep newlines and printable characters; the device's colour
		// control sequences are not rendered here.
		if r == '\n' || r >= 32 {
			m.output.WriteRune(r)
		}
	}

	lines := strings.Split(m.output.String(), "\n")
	if len(lines) > m.maxLines {
		m.output.Reset()
		m.output.WriteString(strings.Join(lines[len(lines)-m.maxLines:], "\n"))
	}

	if m.ready {
		m.viewport.SetContent(m.output.String())
		m.viewport.GotoBottom()
	}
}

// View renders the status bar, output viewport, error line, and input.
func (m *Model) View() string {
	if !m.ready {
		return "starting..."
	}

	var status string
	if m.engine.Connected() {
		status = statusConnectedStyle.Render(fmt.Sprintf("connected %s", m.endpoint))
	} else {
		status = statusDisconnectedStyle.Render(fmt.Sprintf("disconnected %s", m.endpoint))
	}

	errLine := ""
	if m.errText != "" {
		errLine = errorStyle.Render(m.errText)
	}

	return fmt.Sprintf("%s\n%s\n%s\n%s", status, m.viewport.View(), errLine, m.input.View())
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(engine *repl.Engine, endpoint string, maxLines int) error {
	program := tea.NewProgram(NewModel(engine, endpoint, maxLines), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// Package tui implements the interactive terminal front end: a
// scrolling conversation viewport, a multi-line input box, and a
// status line tracking the orchestrator's current step, driven by
// bubbletea with glamour markdown rendering and lipgloss styling.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/onagent/onagent/agent"
	"github.com/onagent/onagent/internal/session"
)

var (
	dotStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#9E9BFF"})
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#888888", Dark: "#999999"})
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF6B6B"})
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#9E9BFF"}).Bold(true)
)

// streamDeltaMsg carries a raw token chunk into the update loop.
type streamDeltaMsg struct{ text string }

// stepMsg reports an orchestrator step transition.
type stepMsg struct {
	step agent.Step
	tool string
}

// runDoneMsg signals the orchestrator run finished.
type runDoneMsg struct{ result agent.RunResult }

// toolCallMsg announces a tool invocation for display.
type toolCallMsg struct{ name string }

// Model drives the interactive session.
type Model struct {
	runner    *agent.Runner
	store     *session.Store
	sessionID string

	chat     viewport.Model
	input    textarea.Model
	spin     spinner.Model
	renderer *glamour.TermRenderer

	transcript strings.Builder
	streaming  strings.Builder
	step       agent.Step
	statusTool string

	width, height int
	running       bool
	quitting      bool
	lastErr       error

	events chan tea.Msg
	cancel context.CancelFunc
}

// New constructs the initial model and its orchestrator Runner. cfg's
// OnToken/OnToolCall/OnStepChange fields are overwritten with bridges
// into the model's event channel; set every other field before calling.
// seed, if non-empty, preloads a resumed conversation's history.
func New(cfg agent.Config, store *session.Store, sessionID string, seed []agent.Message) (*Model, error) {
	input := textarea.New()
	input.Placeholder = "Send a message..."
	input.Focus()
	input.CharLimit = 0
	input.SetHeight(3)

	chat := viewport.New(80, 20)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = dotStyle

	renderer, _ := glamour.NewTermRenderer(glamour.WithAutoStyle())

	m := &Model{
		store:     store,
		sessionID: sessionID,
		chat:      chat,
		input:     input,
		spin:      sp,
		renderer:  renderer,
	}

	cfg.OnToken = func(chunk []byte) bool {
		m.send(streamDeltaMsg{text: string(chunk)})
		return true
	}
	cfg.OnToolCall = func(name string) {
		m.send(toolCallMsg{name: name})
	}
	cfg.OnStepChange = func(step agent.Step, tool string) {
		m.send(stepMsg{step: step, tool: tool})
	}

	runner, err := agent.New(cfg)
	if err != nil {
		return nil, err
	}
	runner.Seed(seed)
	m.runner = runner
	m.seedTranscript(seed)
	return m, nil
}

// seedTranscript renders a resumed session's prior turns into the
// scrollback before the first prompt is shown.
func (m *Model) seedTranscript(seed []agent.Message) {
	for _, msg := range seed {
		switch msg.Role {
		case agent.RoleUser:
			if msg.Content != "" {
				m.appendLine(fmt.Sprintf("> %s", msg.Content))
			}
		case agent.RoleAssistant:
			if msg.Content != "" {
				m.appendLine(m.renderMarkdown(msg.Content))
			}
		}
	}
	m.refresh()
}

// send delivers an event to the model's channel if one is active. The
// event is dropped silently when no channel is set (no run in flight)
// or when the channel's buffer is full.
func (m *Model) send(msg tea.Msg) {
	if m.events == nil {
		return
	}
	select {
	case m.events <- msg:
	default:
	}
}

// Run starts the full-screen program. It requires an attached TTY.
func Run(cfg agent.Config, store *session.Store, sessionID string, seed []agent.Message) error {
	if !term.IsTerminal(0) || !term.IsTerminal(1) {
		return errors.New("interactive mode requires a TTY")
	}
	m, err := New(cfg, store, sessionID, seed)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spin.Tick)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = typed.Width, typed.Height
		m.chat.Width = typed.Width
		m.chat.Height = typed.Height - 6
		m.input.SetWidth(typed.Width)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(typed)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(typed)
		return m, cmd

	case streamDeltaMsg:
		m.streaming.WriteString(typed.text)
		m.refresh()
		return m, m.listen()

	case stepMsg:
		m.step = typed.step
		m.statusTool = typed.tool
		return m, m.listen()

	case toolCallMsg:
		m.appendLine(dimStyle.Render(fmt.Sprintf("→ %s", typed.name)))
		return m, m.listen()

	case runDoneMsg:
		m.finish(typed.result)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+c":
		if m.running && m.cancel != nil {
			m.cancel()
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	case "enter":
		if key.Alt {
			m.input.InsertString("\n")
			return m, nil
		}
		return m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return m, cmd
}

func (m *Model) submit() (tea.Model, tea.Cmd) {
	if m.running {
		return m, nil
	}
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	m.input.SetValue("")
	m.appendLine(fmt.Sprintf("> %s", text))

	m.runner.AddUserMessage(text)
	m.running = true
	m.streaming.Reset()
	m.refresh()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.events = make(chan tea.Msg, 64)

	events := m.events
	cmd := func() tea.Msg {
		result := m.runner.Run(ctx)
		events <- runDoneMsg{result: result}
		return nil
	}
	return m, tea.Batch(cmd, m.listen())
}

func (m *Model) listen() tea.Cmd {
	if m.events == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-m.events
		if !ok {
			return nil
		}
		return msg
	}
}

func (m *Model) finish(result agent.RunResult) {
	m.running = false
	m.cancel = nil
	m.step = agent.StepNone

	text := result.Response
	if text == "" {
		text = m.streaming.String()
	}
	if text != "" {
		m.appendLine(m.renderMarkdown(text))
	}
	m.streaming.Reset()

	if result.Err != nil && result.Err != agent.ErrMaxIterations {
		m.lastErr = result.Err
		m.appendLine(errStyle.Render(result.Err.Error()))
	}

	if m.store != nil {
		for _, msg := range m.runner.Messages() {
			_ = m.store.AppendMessage(m.sessionID, msg)
		}
	}
	m.refresh()
}

func (m *Model) renderMarkdown(text string) string {
	if m.renderer == nil {
		return text
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

func (m *Model) appendLine(text string) {
	if m.transcript.Len() > 0 {
		m.transcript.WriteString("\n\n")
	}
	m.transcript.WriteString(text)
}

func (m *Model) refresh() {
	content := m.transcript.String()
	if m.running && m.streaming.Len() > 0 {
		if content != "" {
			content += "\n\n"
		}
		content += m.streaming.String()
	}
	m.chat.SetContent(content)
	m.chat.GotoBottom()
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Initializing..."
	}

	status := ""
	if m.running {
		status = statusStyle.Render(fmt.Sprintf("%s %s", m.spin.View(), m.stepLabel()))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.chat.View(),
		status,
		m.input.View(),
	)
}

func (m *Model) stepLabel() string {
	switch m.step {
	case agent.StepThinking:
		return "thinking"
	case agent.StepCallingTool:
		if m.statusTool != "" {
			return fmt.Sprintf("running %s", m.statusTool)
		}
		return "running tool"
	case agent.StepWaitingForResult:
		return "waiting for tool result"
	default:
		return "generating"
	}
}

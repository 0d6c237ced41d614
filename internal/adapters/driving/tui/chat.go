// Package tui provides the interactive chat interface built on Bubble Tea.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	transcriptBox  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBox       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	sourceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// answerMsg carries a started answer stream into the update loop.
type answerMsg struct {
	result *driving.AnswerResult
}

// tokenMsg is one token pulled off the stream.
type tokenMsg struct {
	token string
}

// streamDoneMsg signals the stream is exhausted.
type streamDoneMsg struct{}

// errMsg carries a pipeline or stream failure.
type errMsg struct {
	err     error
	sources []string
}

// Model is the Bubble Tea model for the chat session.
type Model struct {
	chat driving.ChatService
	opts domain.AnswerOptions

	input    textinput.Model
	viewport viewport.Model
	ready    bool

	history    []domain.ChatMessage
	transcript []string
	status     string

	stream    driven.TokenStream
	answer    strings.Builder
	sources   []string
	streaming bool
}

// New creates a chat model. The options apply to every question asked in
// the session.
func New(chat driving.ChatService, opts domain.AnswerOptions) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about the documentation"
	ti.Focus()
	ti.CharLimit = 0

	return Model{
		chat:     chat,
		opts:     opts,
		input:    ti,
		viewport: viewport.New(0, 0),
		status:   "Ready. Type a question and press Enter.",
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptBox.GetFrameSize()
		_, ih := inputBox.GetFrameSize()
		reserved := 2 + ih + th // title, status, box frames
		height := msg.Height - reserved
		if height < 3 {
			height = 3
		}
		m.viewport.Width = maxInt(20, msg.Width-4)
		m.viewport.Height = height
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter && !m.streaming {
			query := strings.TrimSpace(m.input.Value())
			if query != "" {
				return m.ask(query)
			}
			return m, nil
		}

	case answerMsg:
		m.stream = msg.result.Stream
		m.sources = msg.result.Sources
		m.answer.Reset()
		return m, pullToken(m.stream)

	case tokenMsg:
		m.answer.WriteString(msg.token)
		m.refreshViewport()
		return m, pullToken(m.stream)

	case streamDoneMsg:
		return m.finishAnswer()

	case errMsg:
		m.streaming = false
		m.stream = nil
		m.sources = msg.sources
		m.transcript = append(m.transcript, errorStyle.Render("Error: "+msg.err.Error()))
		if len(msg.sources) > 0 {
			m.transcript = append(m.transcript, sourceStyle.Render("Sources: "+strings.Join(msg.sources, ", ")))
		}
		m.status = "Something went wrong. Try again."
		m.refreshViewport()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	title := titleStyle.Render("docchat")
	transcript := transcriptBox.Render(m.viewport.View())
	input := inputBox.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return title + "\n" + transcript + "\n" + input + "\n" + status
}

// ask starts the answer pipeline for a submitted question.
func (m Model) ask(query string) (Model, tea.Cmd) {
	m.history = append(m.history, domain.ChatMessage{Role: domain.RoleUser, Content: query})
	m.transcript = append(m.transcript, userStyle.Render("You: ")+query)
	m.input.Reset()
	m.streaming = true
	m.status = "Thinking..."
	m.refreshViewport()

	chat := m.chat
	opts := m.opts
	history := m.history
	return m, func() tea.Msg {
		result, err := chat.Answer(context.Background(), query, history, opts)
		if err != nil {
			var sources []string
			if result != nil {
				sources = result.Sources
			}
			return errMsg{err: err, sources: sources}
		}
		return answerMsg{result: result}
	}
}

// finishAnswer commits the streamed answer to the transcript and history.
func (m Model) finishAnswer() (Model, tea.Cmd) {
	answer := m.answer.String()
	m.history = append(m.history, domain.ChatMessage{Role: domain.RoleAssistant, Content: answer})

	m.transcript = append(m.transcript, assistantStyle.Render("docchat: ")+answer)
	if len(m.sources) > 0 {
		m.transcript = append(m.transcript, sourceStyle.Render("Sources: "+strings.Join(m.sources, ", ")))
	}

	if m.stream != nil {
		m.stream.Close()
	}
	m.stream = nil
	m.streaming = false
	m.answer.Reset()
	m.status = fmt.Sprintf("%d exchanges. Ctrl+C to quit.", len(m.history)/2)
	m.refreshViewport()
	return m, nil
}

// refreshViewport re-renders the transcript, including any in-flight
// answer, and keeps the view pinned to the bottom.
func (m *Model) refreshViewport() {
	lines := make([]string, len(m.transcript))
	copy(lines, m.transcript)
	if m.streaming && m.answer.Len() > 0 {
		lines = append(lines, assistantStyle.Render("docchat: ")+m.answer.String())
	}
	if len(lines) == 0 {
		m.viewport.SetContent("Ask anything about the indexed documentation.")
	} else {
		m.viewport.SetContent(strings.Join(lines, "\n\n"))
	}
	m.viewport.GotoBottom()
}

// pullToken reads the next token off the stream as a command, keeping the
// UI responsive while the model generates.
func pullToken(stream driven.TokenStream) tea.Cmd {
	return func() tea.Msg {
		token, err := stream.Next()
		if errors.Is(err, io.EOF) {
			return streamDoneMsg{}
		}
		if err != nil {
			return errMsg{err: err}
		}
		return tokenMsg{token: token}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/promptdeck/internal/models"
	"github.com/diogo/promptdeck/internal/panel"
	"github.com/diogo/promptdeck/internal/render"
)

// conversationResultMsg carries the outcome of one conversation submission
type conversationResultMsg struct {
	reply panel.Reply
	err   error
}

// ConversationModel is the conversation page: a prompt field over a
// newest-first list of exchanges.
type ConversationModel struct {
	deps  Deps
	tool  models.Tool
	panel *panel.Conversation

	// UI components
	input    textinput.Model
	viewport viewport.Model

	// State
	loading     bool
	err         error
	feedback    string
	feedbackSeq int
	frame       int
	ready       bool
	embedded    bool

	width  int
	height int
}

// NewConversationModel creates a standalone conversation page
func NewConversationModel(deps Deps) ConversationModel {
	deps = deps.withDefaults()
	tool := models.ConversationTool

	return ConversationModel{
		deps:  deps,
		tool:  tool,
		panel: panel.NewConversation(deps.Client, deps.panelOptions()...),
		input: newPromptInput(tool),
	}
}

// Panel exposes the prompt panel backing the page
func (m ConversationModel) Panel() *panel.Conversation {
	return m.panel
}

// Init initializes the model
func (m ConversationModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model
func (m ConversationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.embedded {
				return m, goBack
			}
			return m, tea.Quit

		case "ctrl+y":
			if reply, ok := m.panel.LastReply(); ok {
				return m, copyCmd(m.deps.Clipboard, "reply", reply.Content)
			}
			return m, nil

		case "up", "down", "pgup", "pgdown":
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd

		case "enter":
			if m.loading {
				return m, nil
			}
			prompt := m.input.Value()
			if text := strings.TrimSpace(prompt); text == "/exit" || text == "/quit" {
				return m, tea.Quit
			}

			if err := panel.ValidatePrompt(prompt); err != nil {
				m.err = err
				return m, nil
			}

			m.loading = true
			m.err = nil
			m.feedback = ""
			m.frame = 0
			m.input.Blur()

			return m, tea.Batch(
				m.submit(prompt),
				animationTick(m.tool.ID),
			)
		}

	case conversationResultMsg:
		m.loading = false
		m.input.Focus()
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.input.Reset()
			m.updateViewport()
			m.viewport.GotoTop()
		}
		return m, textinput.Blink

	case clipboardMsg:
		if msg.err != nil {
			m.feedback = "Copy failed: " + msg.err.Error()
		} else {
			m.feedback = "Copied " + msg.what + " to clipboard"
		}
		m.feedbackSeq++
		return m, clearFeedback(2*time.Second, m.feedbackSeq)

	case feedbackClearMsg:
		if msg.seq == m.feedbackSeq {
			m.feedback = ""
		}

	case animationTickMsg:
		if msg.tool == m.tool.ID && m.loading {
			m.frame++
			cmds = append(cmds, animationTick(m.tool.ID))
		}

	case tea.MouseMsg:
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	// The field is disabled while a request is outstanding
	if !m.loading {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// submit runs the panel submission off the update loop
func (m ConversationModel) submit(prompt string) tea.Cmd {
	conv := m.panel
	return func() tea.Msg {
		reply, err := conv.Submit(submitContext(), prompt)
		return conversationResultMsg{reply: reply, err: err}
	}
}

func (m *ConversationModel) resize(width, height int) {
	m.width = width
	m.height = height

	headerHeight := 4
	inputHeight := 4
	statusHeight := 2
	padding := 2

	vpHeight := height - headerHeight - inputHeight - statusHeight - padding
	if vpHeight < 5 {
		vpHeight = 5
	}
	contentWidth := width - 4

	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
	}
	m.input.Width = contentWidth - 8
	m.updateViewport()
}

// View renders the page
func (m ConversationModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	sections := []string{renderHeader(m.tool, contentWidth)}

	var result string
	switch panel.ResolveView(m.loading, m.panel.Len()) {
	case panel.ViewLoading:
		result = renderEmpty(renderLoading(m.frame, "Genius is thinking..."), contentWidth-4, m.viewport.Height)
	case panel.ViewEmpty:
		result = renderEmpty(m.tool.EmptyLabel, contentWidth-4, m.viewport.Height)
	default:
		result = m.viewport.View()
	}
	sections = append(sections, resultAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(result))

	input := m.input.View()
	if m.loading {
		input = hintStyle.Render(m.input.Value())
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(input))

	sections = append(sections, m.renderStatusBar(contentWidth))

	if m.feedback != "" {
		sections = append(sections, feedbackStyle.Render("✓ "+m.feedback))
	}
	if m.err != nil {
		sections = append(sections, FormatError(m.err))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ConversationModel) renderStatusBar(width int) string {
	back := shortcut{"Esc", "Quit"}
	if m.embedded {
		back = shortcut{"Esc", "Back"}
	}
	bar := renderShortcuts(width, []shortcut{
		{"Enter", "Send"},
		{"Ctrl+Y", "Copy reply"},
		{"↑↓", "Scroll"},
		back,
	})
	return lipgloss.JoinVertical(lipgloss.Center, bar,
		lipgloss.PlaceHorizontal(width, lipgloss.Center, renderUsage(m.deps.Meter)))
}

// updateViewport re-renders the history, most recent exchange first
func (m *ConversationModel) updateViewport() {
	if !m.ready {
		return
	}

	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6
	opts := m.deps.Render.WithWidth(bubbleWidth - 4)

	for i, ex := range m.panel.Timeline() {
		if i > 0 {
			content.WriteString("\n")
		}

		if ex.Role == models.RoleUser {
			label := userLabelStyle.Render("● " + ex.Role.Label())
			bubble := userBubbleStyle.Width(bubbleWidth).Render(ex.Content)
			content.WriteString(label + "\n" + bubble)
		} else {
			label := assistantLabelStyle.Render("✦ " + ex.Role.Label())
			rendered, err := render.Markdown(ex.Content, opts)
			if err != nil {
				rendered = ex.Content
			}
			rendered = strings.TrimRight(rendered, "\n")
			bubble := assistantBubbleStyle.Width(bubbleWidth).Render(rendered)
			content.WriteString(label + "\n" + bubble)
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// RunConversation starts the conversation page on its own
func RunConversation(deps Deps) error {
	p := tea.NewProgram(
		NewConversationModel(deps),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}

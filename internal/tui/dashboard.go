package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/promptdeck/internal/models"
)

// DashboardModel is the tool picker. It hosts one page per tool and keeps
// them alive while the user moves between them, so each page keeps its
// history or track for the whole session.
type DashboardModel struct {
	deps   Deps
	tools  []models.Tool
	cursor int

	// active is the open page, empty while the picker is shown
	active models.ToolID

	conversation ConversationModel
	music        MusicModel

	width  int
	height int
	ready  bool
}

// NewDashboardModel creates the dashboard with both pages
func NewDashboardModel(deps Deps) DashboardModel {
	deps = deps.withDefaults()

	conv := NewConversationModel(deps)
	conv.embedded = true
	music := NewMusicModel(deps)
	music.embedded = true

	return DashboardModel{
		deps:         deps,
		tools:        models.Tools(),
		conversation: conv,
		music:        music,
	}
}

// Open starts the dashboard on the given tool's page
func (m DashboardModel) Open(id models.ToolID) DashboardModel {
	for i, t := range m.tools {
		if t.ID == id {
			m.cursor = i
			m.active = id
		}
	}
	return m
}

// Active returns the open tool, or "" when the picker is shown
func (m DashboardModel) Active() models.ToolID {
	return m.active
}

// Init initializes the model
func (m DashboardModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		var c1, c2 tea.Cmd
		m, c1 = m.updateConversation(msg)
		m, c2 = m.updateMusic(msg)
		return m, tea.Batch(c1, c2)

	case backMsg:
		m.active = ""
		return m, nil

	// Results go to the page that issued them even if the user has left it
	case conversationResultMsg:
		return m.updateConversation(msg)
	case musicResultMsg, downloadMsg:
		return m.updateMusic(msg)

	// Only the music page renders a spinner, for downloads
	case spinner.TickMsg:
		return m.updateMusic(msg)

	case animationTickMsg:
		switch msg.tool {
		case models.ToolConversation:
			return m.updateConversation(msg)
		case models.ToolMusic:
			return m.updateMusic(msg)
		}
		return m, nil
	}

	switch m.active {
	case models.ToolConversation:
		return m.updateConversation(msg)
	case models.ToolMusic:
		return m.updateMusic(msg)
	}

	return m.updatePicker(msg)
}

func (m DashboardModel) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc", "q":
		return m, tea.Quit

	case "up", "k":
		m.cursor--
		if m.cursor < 0 {
			m.cursor = len(m.tools) - 1
		}

	case "down", "j", "tab":
		m.cursor++
		if m.cursor >= len(m.tools) {
			m.cursor = 0
		}

	case "enter", " ":
		m.active = m.tools[m.cursor].ID
		return m, textinput.Blink

	default:
		// digits jump straight to a tool
		if len(key.Runes) == 1 && key.Runes[0] >= '1' && int(key.Runes[0]-'1') < len(m.tools) {
			m.cursor = int(key.Runes[0] - '1')
			m.active = m.tools[m.cursor].ID
			return m, textinput.Blink
		}
	}

	return m, nil
}

func (m DashboardModel) updateConversation(msg tea.Msg) (DashboardModel, tea.Cmd) {
	next, cmd := m.conversation.Update(msg)
	m.conversation = next.(ConversationModel)
	return m, cmd
}

func (m DashboardModel) updateMusic(msg tea.Msg) (DashboardModel, tea.Cmd) {
	next, cmd := m.music.Update(msg)
	m.music = next.(MusicModel)
	return m, cmd
}

// View renders the dashboard or the open page
func (m DashboardModel) View() string {
	switch m.active {
	case models.ToolConversation:
		return m.conversation.View()
	case models.ToolMusic:
		return m.music.View()
	}

	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	title := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("✦ Explore the power of AI"),
		subtitleStyle.Render("Chat with the smartest AI - Experience the power of AI"),
	)
	sections := []string{
		headerStyle.Width(contentWidth).Align(lipgloss.Center).Render(title),
	}

	for i, tool := range m.tools {
		sections = append(sections, m.renderToolCard(i, tool, contentWidth))
	}

	sections = append(sections,
		renderShortcuts(contentWidth, []shortcut{
			{"↑↓", "Navigate"},
			{"Enter", "Open"},
			{"1-" + fmt.Sprint(len(m.tools)), "Jump"},
			{"Esc", "Quit"},
		}),
		lipgloss.PlaceHorizontal(contentWidth, lipgloss.Center, renderUsage(m.deps.Meter)),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m DashboardModel) renderToolCard(i int, tool models.Tool, width int) string {
	accent := lipgloss.NewStyle().Foreground(lipgloss.Color(tool.Color)).Bold(true)

	cursor := "  "
	style := toolCardStyle
	if i == m.cursor {
		cursor = configCursorStyle.Render("▸ ")
		style = toolCardSelectedStyle
	}

	status := ""
	switch tool.ID {
	case models.ToolConversation:
		if n := m.conversation.panel.Len(); n > 0 {
			status = hintStyle.Render(fmt.Sprintf("  (%d messages)", n))
		}
	case models.ToolMusic:
		if _, ok := m.music.panel.Track(); ok {
			status = hintStyle.Render("  (track ready)")
		}
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		cursor+accent.Render(tool.Icon+" "+tool.Title)+status,
		"  "+toolDescStyle.Render(tool.Description),
	)
	return style.Width(width).Render(body)
}

// RunDashboard starts the dashboard, optionally opening a tool's page
func RunDashboard(deps Deps, open models.ToolID) error {
	m := NewDashboardModel(deps)
	if open != "" {
		m = m.Open(open)
	}

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}

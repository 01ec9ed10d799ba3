package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/promptdeck/internal/config"
	"github.com/diogo/promptdeck/internal/render"
)

// configView represents the current view in the config menu
type configView int

const (
	viewMain configView = iota
	viewThemeSelect
	viewTUIThemeSelect
)

// Menu item indices for main view
const (
	menuVerbose = iota
	menuCopyToClipboard
	menuTheme
	menuTUITheme
	menuExit
	menuItemCount
)

// ConfigModel is the interactive settings menu
type ConfigModel struct {
	config  config.Config
	paths   configPaths
	save    func(config.Config) error
	baseURL string

	view           configView
	cursor         int
	themeCursor    int
	tuiThemeCursor int

	feedback        string
	feedbackSeq     int
	feedbackTimeout time.Duration

	width  int
	height int
	ready  bool
}

type configPaths struct {
	config   string
	log      string
	download string
}

// NewConfigModel creates the settings menu for cfg. logPath is shown for
// reference only.
func NewConfigModel(cfg config.Config, logPath string) ConfigModel {
	configPath, _ := config.GetConfigPath()

	m := ConfigModel{
		config:  cfg,
		save:    config.SaveConfig,
		baseURL: cfg.BaseURL,
		paths: configPaths{
			config:   configPath,
			log:      logPath,
			download: cfg.DownloadDir,
		},
		view:            viewMain,
		feedbackTimeout: 2 * time.Second,
	}

	m.themeCursor = indexOf(render.ThemeNames(), m.markdownStyle())
	m.tuiThemeCursor = indexOf(render.TUIThemeNames(), m.tuiTheme())

	ApplyTheme(render.ResolveTUITheme(m.tuiTheme()))
	return m
}

func indexOf(items []string, want string) int {
	for i, s := range items {
		if s == want {
			return i
		}
	}
	return 0
}

func (m ConfigModel) markdownStyle() string {
	if m.config.Markdown.Style == "" {
		return render.StyleDark
	}
	return m.config.Markdown.Style
}

func (m ConfigModel) tuiTheme() string {
	if m.config.TUITheme == "" {
		return render.TokyoNightTheme.Name
	}
	return m.config.TUITheme
}

// Config returns the settings as edited so far
func (m ConfigModel) Config() config.Config {
	return m.config
}

// Init initializes the model
func (m ConfigModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m ConfigModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case feedbackClearMsg:
		if msg.seq == m.feedbackSeq {
			m.feedback = ""
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.view != viewMain {
				m.view = viewMain
			} else {
				return m, tea.Quit
			}

		case "up", "k":
			m.move(-1)

		case "down", "j":
			m.move(1)

		case "enter", " ":
			return m.handleSelect()
		}
	}

	return m, nil
}

// move shifts the cursor of the current view, wrapping at both ends
func (m *ConfigModel) move(delta int) {
	wrap := func(v, n int) int {
		return (v%n + n) % n
	}

	switch m.view {
	case viewMain:
		m.cursor = wrap(m.cursor+delta, menuItemCount)
	case viewThemeSelect:
		m.themeCursor = wrap(m.themeCursor+delta, len(render.ThemeNames()))
	case viewTUIThemeSelect:
		m.tuiThemeCursor = wrap(m.tuiThemeCursor+delta, len(render.TUIThemeNames()))
	}
}

// persist saves the config and reports the outcome in the feedback line
func (m ConfigModel) persist(success string) (tea.Model, tea.Cmd) {
	if err := m.save(m.config); err != nil {
		m.feedback = fmt.Sprintf("Error: %v", err)
	} else {
		m.feedback = success
	}
	m.feedbackSeq++
	return m, clearFeedback(m.feedbackTimeout, m.feedbackSeq)
}

func onOff(v bool) string {
	if v {
		return "enabled"
	}
	return "disabled"
}

func (m ConfigModel) handleSelect() (tea.Model, tea.Cmd) {
	switch m.view {
	case viewMain:
		switch m.cursor {
		case menuVerbose:
			m.config.Verbose = !m.config.Verbose
			return m.persist("Verbose logging " + onOff(m.config.Verbose))

		case menuCopyToClipboard:
			m.config.CopyToClipboard = !m.config.CopyToClipboard
			return m.persist("Copy to clipboard " + onOff(m.config.CopyToClipboard))

		case menuTheme:
			m.view = viewThemeSelect

		case menuTUITheme:
			m.view = viewTUIThemeSelect

		case menuExit:
			return m, tea.Quit
		}

	case viewThemeSelect:
		m.config.Markdown.Style = render.ThemeNames()[m.themeCursor]
		m.view = viewMain
		return m.persist("Markdown theme set to " + m.config.Markdown.Style)

	case viewTUIThemeSelect:
		selected := render.TUIThemeNames()[m.tuiThemeCursor]
		m.config.TUITheme = selected
		ApplyTheme(render.ResolveTUITheme(selected))
		m.view = viewMain
		return m.persist("TUI theme set to " + selected)
	}

	return m, nil
}

// View renders the TUI
func (m ConfigModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	sections := []string{
		configHeaderStyle.Width(contentWidth).Render(configTitleStyle.Render("✦ Configuration")),
	}

	pathsContent := lipgloss.JoinVertical(lipgloss.Left,
		configSectionTitleStyle.Render("📁 Paths"),
		fmt.Sprintf("   Config:    %s", configPathStyle.Render(m.paths.config)),
		fmt.Sprintf("   Log:       %s", configPathStyle.Render(m.paths.log)),
		fmt.Sprintf("   Downloads: %s", configPathStyle.Render(m.paths.download)),
		fmt.Sprintf("   Backend:   %s", configPathStyle.Render(m.baseURL)),
	)
	sections = append(sections, configPanelStyle.Width(contentWidth).Render(pathsContent))

	var settings string
	switch m.view {
	case viewMain:
		settings = m.renderMainMenu()
	case viewThemeSelect:
		settings = m.renderChoice("🎨 Select Markdown Theme", render.AvailableThemes(), m.themeCursor, m.markdownStyle())
	case viewTUIThemeSelect:
		var themes []render.ThemeInfo
		for _, t := range render.AvailableTUIThemes() {
			themes = append(themes, render.ThemeInfo{Name: t.Name, Description: t.Description})
		}
		settings = m.renderChoice("🎨 Select TUI Theme", themes, m.tuiThemeCursor, m.tuiTheme())
	}
	sections = append(sections, configPanelStyle.Width(contentWidth).Render(settings))

	if m.feedback != "" {
		sections = append(sections, feedbackStyle.Render("✓ "+m.feedback))
	}

	back := "Exit"
	if m.view != viewMain {
		back = "Back"
	}
	bar := renderShortcuts(contentWidth, []shortcut{
		{"↑↓", "Navigate"},
		{"Enter", "Select"},
		{"Esc", back},
	})
	sections = append(sections, bar)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// menuLine renders one row with the cursor marker when selected
func (m ConfigModel) menuLine(selected bool, label, value string) string {
	cursor := "  "
	style := configMenuItemStyle
	if selected {
		cursor = configCursorStyle.Render("▸ ")
		style = configMenuSelectedStyle
	}
	if value == "" {
		return cursor + style.Render(label)
	}
	return fmt.Sprintf("%s%-22s%s", cursor, style.Render(label), value)
}

func (m ConfigModel) renderMainMenu() string {
	items := []string{
		configSectionTitleStyle.Render("⚙ Settings"),
		"",
		m.menuLine(m.cursor == menuVerbose, "Verbose Logging", m.renderBoolValue(m.config.Verbose)),
		m.menuLine(m.cursor == menuCopyToClipboard, "Copy to Clipboard", m.renderBoolValue(m.config.CopyToClipboard)),
		m.menuLine(m.cursor == menuTheme, "Markdown Theme", configValueStyle.Render(m.markdownStyle())),
		m.menuLine(m.cursor == menuTUITheme, "TUI Theme", configValueStyle.Render(m.tuiTheme())),
		"",
		m.menuLine(m.cursor == menuExit, "Exit", ""),
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (m ConfigModel) renderChoice(title string, themes []render.ThemeInfo, cursor int, current string) string {
	items := []string{configSectionTitleStyle.Render(title), ""}
	for i, theme := range themes {
		mark := ""
		if theme.Name == current {
			mark = configStatusOkStyle.Render(" (current)")
		}
		items = append(items, m.menuLine(i == cursor, theme.Name+" - "+theme.Description, "")+mark)
	}
	return strings.Join(items, "\n")
}

func (m ConfigModel) renderBoolValue(value bool) string {
	if value {
		return configEnabledStyle.Render("enabled")
	}
	return configDisabledStyle.Render("disabled")
}

// RunConfig starts the settings menu
func RunConfig(cfg config.Config, logPath string) error {
	p := tea.NewProgram(
		NewConfigModel(cfg, logPath),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}

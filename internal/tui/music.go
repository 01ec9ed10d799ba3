package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/promptdeck/internal/api"
	"github.com/diogo/promptdeck/internal/models"
	"github.com/diogo/promptdeck/internal/panel"
)

type (
	// musicResultMsg carries the outcome of one music submission
	musicResultMsg struct {
		track models.Track
		err   error
	}

	// downloadMsg reports where a track was saved
	downloadMsg struct {
		path string
		err  error
	}
)

// MusicModel is the music generation page: a prompt field over a single
// player card holding the latest track.
type MusicModel struct {
	deps  Deps
	tool  models.Tool
	panel *panel.Music

	input   textinput.Model
	spinner spinner.Model

	loading     bool
	downloading bool
	err         error
	feedback    string
	feedbackSeq int
	frame       int
	ready       bool
	embedded    bool

	width  int
	height int
}

// NewMusicModel creates a standalone music page
func NewMusicModel(deps Deps) MusicModel {
	deps = deps.withDefaults()
	tool := models.MusicTool

	return MusicModel{
		deps:    deps,
		tool:    tool,
		panel:   panel.NewMusic(deps.Client, deps.panelOptions()...),
		input:   newPromptInput(tool),
		spinner: newSpinner(),
	}
}

// Panel exposes the prompt panel backing the page
func (m MusicModel) Panel() *panel.Music {
	return m.panel
}

// Init initializes the model
func (m MusicModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model
func (m MusicModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 12
		m.ready = true

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
			if track, ok := m.panel.Track(); ok {
				return m, copyCmd(m.deps.Clipboard, "track URL", track.URL)
			}
			return m, nil

		case "ctrl+d":
			track, ok := m.panel.Track()
			if !ok || m.downloading || m.loading {
				return m, nil
			}
			m.downloading = true
			m.feedback = ""
			return m, tea.Batch(m.download(track), m.spinner.Tick)

		case "enter":
			if m.loading {
				return m, nil
			}
			prompt := m.input.Value()
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

	case musicResultMsg:
		m.loading = false
		m.input.Focus()
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.input.Reset()
		}
		return m, textinput.Blink

	case downloadMsg:
		m.downloading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.feedback = "Saved to " + msg.path
		m.feedbackSeq++
		return m, clearFeedback(5*time.Second, m.feedbackSeq)

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

	case spinner.TickMsg:
		if m.downloading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if msg.tool == m.tool.ID && m.loading {
			m.frame++
			cmds = append(cmds, animationTick(m.tool.ID))
		}
	}

	if !m.loading {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m MusicModel) submit(prompt string) tea.Cmd {
	music := m.panel
	return func() tea.Msg {
		track, err := music.Submit(submitContext(), prompt)
		return musicResultMsg{track: track, err: err}
	}
}

func (m MusicModel) download(track models.Track) tea.Cmd {
	client := m.deps.Client
	dir := m.deps.DownloadDir
	return func() tea.Msg {
		path, err := client.DownloadAsset(submitContext(), track.URL, api.DownloadOptions{Directory: dir})
		return downloadMsg{path: path, err: err}
	}
}

// View renders the page
func (m MusicModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	areaHeight := m.height - 14
	if areaHeight < 7 {
		areaHeight = 7
	}

	sections := []string{renderHeader(m.tool, contentWidth)}

	track, hasTrack := m.panel.Track()
	items := 0
	if hasTrack {
		items = 1
	}

	var result string
	switch panel.ResolveView(m.loading, items) {
	case panel.ViewLoading:
		result = renderEmpty(renderLoading(m.frame, "Composing..."), contentWidth-4, areaHeight)
	case panel.ViewEmpty:
		result = renderEmpty(m.tool.EmptyLabel, contentWidth-4, areaHeight)
	default:
		result = m.renderPlayer(track, contentWidth-6)
	}
	sections = append(sections, resultAreaStyle.
		Width(contentWidth).
		Height(areaHeight).
		Render(result))

	input := m.input.View()
	if m.loading {
		input = hintStyle.Render(m.input.Value())
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(input))

	sections = append(sections, m.renderStatusBar(contentWidth))

	if m.downloading {
		sections = append(sections, loadingStyle.Render(m.spinner.View()+" Downloading..."))
	}
	if m.feedback != "" {
		sections = append(sections, feedbackStyle.Render("✓ "+m.feedback))
	}
	if m.err != nil {
		sections = append(sections, FormatError(m.err))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderPlayer draws the card standing in for the audio player
func (m MusicModel) renderPlayer(track models.Track, width int) string {
	lines := []string{
		playerTitleStyle.Render("♪ Track ready"),
		"",
		subtitleStyle.Render("Prompt: ") + track.Prompt,
		subtitleStyle.Render("Audio:  ") + linkStyle.Render(track.URL),
	}
	if !track.GeneratedAt.IsZero() {
		lines = append(lines, subtitleStyle.Render("Made:   ")+track.GeneratedAt.Format(time.Kitchen))
	}
	lines = append(lines, "", hintStyle.Render(fmt.Sprintf("ctrl+y copies the URL • ctrl+d saves to %s", m.downloadDirLabel())))

	return playerStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func (m MusicModel) downloadDirLabel() string {
	if m.deps.DownloadDir == "" {
		return "the download folder"
	}
	return m.deps.DownloadDir
}

func (m MusicModel) renderStatusBar(width int) string {
	back := shortcut{"Esc", "Quit"}
	if m.embedded {
		back = shortcut{"Esc", "Back"}
	}
	bar := renderShortcuts(width, []shortcut{
		{"Enter", "Generate"},
		{"Ctrl+Y", "Copy URL"},
		{"Ctrl+D", "Download"},
		back,
	})
	return lipgloss.JoinVertical(lipgloss.Center, bar,
		lipgloss.PlaceHorizontal(width, lipgloss.Center, renderUsage(m.deps.Meter)))
}

// RunMusic starts the music page on its own
func RunMusic(deps Deps) error {
	p := tea.NewProgram(
		NewMusicModel(deps),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}

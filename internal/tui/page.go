package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/promptdeck/internal/api"
	"github.com/diogo/promptdeck/internal/models"
	"github.com/diogo/promptdeck/internal/panel"
	"github.com/diogo/promptdeck/internal/render"
	"github.com/diogo/promptdeck/internal/usage"
)

// Deps are the collaborators shared by every page
type Deps struct {
	Client      api.ClientInterface
	Meter       *usage.Meter
	Render      render.Options
	DownloadDir string
	Logger      *slog.Logger

	// Clipboard writes text to the system clipboard
	Clipboard func(string) error
}

// withDefaults fills in the collaborators a caller left empty
func (d Deps) withDefaults() Deps {
	if d.Meter == nil {
		d.Meter = usage.NewMeter()
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Clipboard == nil {
		d.Clipboard = clipboard.WriteAll
	}
	if d.Render.Width == 0 {
		d.Render = render.DefaultOptions()
	}
	return d
}

// panelOptions wires the usage meter and logger into a prompt panel
func (d Deps) panelOptions() []panel.Option {
	return []panel.Option{
		panel.WithRefresher(d.Meter),
		panel.WithLogger(d.Logger),
	}
}

// Message types shared by the pages
type (
	// animationTickMsg advances the loading animation of one tool's page
	animationTickMsg struct {
		tool models.ToolID
	}

	// backMsg asks the dashboard to show the tool picker again
	backMsg struct{}

	// feedbackClearMsg clears the feedback line if nothing replaced it since
	feedbackClearMsg struct {
		seq int
	}

	// clipboardMsg reports the outcome of a copy
	clipboardMsg struct {
		what string
		err  error
	}
)

// animationTick schedules the next loading frame for a tool's page
func animationTick(tool models.ToolID) tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return animationTickMsg{tool: tool}
	})
}

// clearFeedback returns a command that clears feedback line seq after a delay
func clearFeedback(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return feedbackClearMsg{seq: seq}
	})
}

func goBack() tea.Msg {
	return backMsg{}
}

// copyCmd writes text to the clipboard off the update loop
func copyCmd(write func(string) error, what, text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{what: what, err: write(text)}
	}
}

// promptCharLimit caps what the prompt field accepts while typing
const promptCharLimit = 4000

// newPromptInput creates the single-line prompt field for a tool
func newPromptInput(tool models.Tool) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = tool.Placeholder
	ti.CharLimit = promptCharLimit
	ti.Prompt = "› "
	ti.PromptStyle = inputLabelStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorText)
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(colorTextDim)
	ti.Focus()
	return ti
}

func newSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle
	return s
}

// submitContext is the context handed to panel submissions
func submitContext() context.Context {
	return context.Background()
}

// renderHeader draws the page title bar in the tool's color
func renderHeader(tool models.Tool, width int) string {
	accent := lipgloss.NewStyle().Foreground(lipgloss.Color(tool.Color)).Bold(true)
	content := lipgloss.JoinHorizontal(lipgloss.Center,
		accent.Render(tool.Icon+" "+tool.Title),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(tool.Description),
	)
	return headerStyle.Width(width).Render(content)
}

// renderEmpty draws the empty-state placeholder centered in the result area
func renderEmpty(label string, width, height int) string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		emptyIconStyle.Width(width).Render("◌"),
		"",
		emptyTitleStyle.Width(width).Render(label),
	)

	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	return strings.Repeat("\n", topPadding) + content
}

// renderLoading draws the animated loading indicator
func renderLoading(frame int, label string) string {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "█", "█", "▓", "▒", "░"}

	spin := lipgloss.NewStyle().
		Foreground(gradientColors[frame%len(gradientColors)]).
		Bold(true).
		Render(chars[frame%len(chars)])

	barWidth := 20
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		style := lipgloss.NewStyle().Foreground(gradientColors[(i+frame)%len(gradientColors)])
		bar.WriteString(style.Render(barChars[(i+frame/2)%len(barChars)]))
	}

	text := lipgloss.NewStyle().Foreground(colorText).Render(" " + label + " ")
	return fmt.Sprintf("%s %s %s", spin, bar.String(), text)
}

// renderUsage draws the session counters kept by the meter
func renderUsage(meter *usage.Meter) string {
	if meter == nil {
		return ""
	}
	return usageStyle.Render(meter.Snapshot().Summary())
}

// Package tui provides the terminal user interface for promptdeck.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/promptdeck/internal/errors"
	"github.com/diogo/promptdeck/internal/render"
)

// Color variables (updated from theme)
var (
	colorSurface lipgloss.Color
	colorBorder  lipgloss.Color

	colorPrimary   lipgloss.Color
	colorSecondary lipgloss.Color
	colorAccent    lipgloss.Color
	colorWarning   lipgloss.Color
	colorError     lipgloss.Color

	colorText     lipgloss.Color
	colorTextDim  lipgloss.Color
	colorTextMute lipgloss.Color
)

// Style variables (rebuilt when theme changes)
var (
	headerStyle   lipgloss.Style
	titleStyle    lipgloss.Style
	subtitleStyle lipgloss.Style
	hintStyle     lipgloss.Style

	// Result area panel
	resultAreaStyle lipgloss.Style

	userBubbleStyle      lipgloss.Style
	userLabelStyle       lipgloss.Style
	assistantBubbleStyle lipgloss.Style
	assistantLabelStyle  lipgloss.Style

	// Music player card
	playerStyle      lipgloss.Style
	playerTitleStyle lipgloss.Style
	linkStyle        lipgloss.Style

	inputPanelStyle lipgloss.Style
	inputLabelStyle lipgloss.Style

	loadingStyle lipgloss.Style

	statusBarStyle  lipgloss.Style
	statusKeyStyle  lipgloss.Style
	statusDescStyle lipgloss.Style
	usageStyle      lipgloss.Style

	errorStyle    lipgloss.Style
	feedbackStyle lipgloss.Style

	// Empty state
	emptyStyle      lipgloss.Style
	emptyTitleStyle lipgloss.Style
	emptyIconStyle  lipgloss.Style

	// Dashboard tool cards
	toolCardStyle         lipgloss.Style
	toolCardSelectedStyle lipgloss.Style
	toolDescStyle         lipgloss.Style

	// Config menu
	configHeaderStyle       lipgloss.Style
	configTitleStyle        lipgloss.Style
	configPanelStyle        lipgloss.Style
	configSectionTitleStyle lipgloss.Style
	configMenuItemStyle     lipgloss.Style
	configMenuSelectedStyle lipgloss.Style
	configCursorStyle       lipgloss.Style
	configValueStyle        lipgloss.Style
	configEnabledStyle      lipgloss.Style
	configDisabledStyle     lipgloss.Style
	configPathStyle         lipgloss.Style
	configStatusOkStyle     lipgloss.Style
	configStatusBarStyle    lipgloss.Style
)

// Gradient colors for the loading bar (fixed colors)
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#8b5cf6"),
	lipgloss.Color("#a78bfa"),
	lipgloss.Color("#ec4899"),
	lipgloss.Color("#f59e0b"),
	lipgloss.Color("#10b981"),
	lipgloss.Color("#047857"),
	lipgloss.Color("#0ea5e9"),
	lipgloss.Color("#6366f1"),
}

// activeTheme is the palette the styles were last built from
var activeTheme = render.TokyoNightTheme

func init() {
	ApplyTheme(render.TokyoNightTheme)
}

// ApplyTheme rebuilds every style from the given palette
func ApplyTheme(theme render.TUITheme) {
	activeTheme = theme

	colorSurface = theme.Surface
	colorBorder = theme.Border
	colorPrimary = theme.Primary
	colorSecondary = theme.Secondary
	colorAccent = theme.Accent
	colorWarning = theme.Warning
	colorError = theme.Error
	colorText = theme.Text
	colorTextDim = theme.TextDim
	colorTextMute = theme.TextMute

	rebuildStyles()
}

// ActiveTheme returns the palette in use
func ActiveTheme() render.TUITheme {
	return activeTheme
}

func rebuildStyles() {
	headerStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 2).
		MarginBottom(1)

	titleStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	subtitleStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	hintStyle = lipgloss.NewStyle().
		Foreground(colorTextMute).
		Italic(true)

	resultAreaStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(1)

	userBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorSecondary).
		Padding(0, 1).
		MarginLeft(4)

	userLabelStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Bold(true).
		MarginLeft(4)

	assistantBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Foreground(colorText).
		Padding(0, 1).
		MarginRight(4)

	assistantLabelStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	playerStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorSecondary).
		Background(colorSurface).
		Padding(1, 2)

	playerTitleStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Bold(true)

	linkStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Underline(true)

	inputPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		MarginTop(1)

	inputLabelStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		MarginRight(1)

	loadingStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	statusBarStyle = lipgloss.NewStyle().
		Foreground(colorTextMute).
		MarginTop(1)

	statusKeyStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Bold(true)

	statusDescStyle = lipgloss.NewStyle().
		Foreground(colorTextMute)

	usageStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Italic(true)

	errorStyle = lipgloss.NewStyle().
		Foreground(colorError).
		Bold(true)

	feedbackStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Italic(true)

	emptyStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Align(lipgloss.Center)

	emptyTitleStyle = lipgloss.NewStyle().
		Foreground(colorText).
		Bold(true).
		Align(lipgloss.Center)

	emptyIconStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Align(lipgloss.Center)

	toolCardStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 2).
		MarginBottom(1)

	toolCardSelectedStyle = toolCardStyle.
		BorderForeground(colorPrimary)

	toolDescStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	configHeaderStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		MarginBottom(1).
		Align(lipgloss.Center)

	configTitleStyle = lipgloss.NewStyle().
		Foreground(colorText).
		Bold(true).
		PaddingLeft(1)

	configPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(1, 2)

	configSectionTitleStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Bold(true)

	configMenuItemStyle = lipgloss.NewStyle().
		Foreground(colorText)

	configMenuSelectedStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	configCursorStyle = lipgloss.NewStyle().
		Foreground(colorAccent)

	configValueStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	configEnabledStyle = lipgloss.NewStyle().
		Foreground(colorSecondary)

	configDisabledStyle = lipgloss.NewStyle().
		Foreground(colorError)

	configPathStyle = lipgloss.NewStyle().
		Foreground(colorTextMute).
		Italic(true)

	configStatusOkStyle = lipgloss.NewStyle().
		Foreground(colorSecondary)

	configStatusBarStyle = lipgloss.NewStyle().
		Foreground(colorTextMute).
		MarginTop(1).
		Align(lipgloss.Center)
}

// ErrorHint returns a short suggestion for the error's category, or ""
func ErrorHint(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.IsQuotaError(err):
		return "Free trial has expired. Upgrade to Pro to keep generating"
	case errors.IsAuthError(err):
		return "The backend rejected the request. Sign in to the dashboard and try again"
	case errors.IsRateLimitError(err):
		return "Too many requests. Wait a moment and try again"
	case errors.IsTimeoutError(err):
		return "Request timed out. Try again or raise timeout_seconds"
	case errors.IsNetworkError(err):
		return "Check that the backend at base_url is reachable"
	case errors.IsNoContentError(err):
		return "The backend answered without a usable result. Try rephrasing the prompt"
	case errors.GetErrorCode(err) == errors.ErrCodeDownload:
		return "Download failed. Check download_dir and the track URL"
	default:
		return ""
	}
}

// FormatError returns a styled error message with additional context.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	detailStyle := lipgloss.NewStyle().Foreground(colorTextDim).PaddingLeft(2)
	tipStyle := lipgloss.NewStyle().Foreground(colorWarning).PaddingLeft(2)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("⚠ Error: %v", err)))

	if status := errors.GetHTTPStatus(err); status > 0 {
		sb.WriteString("\n")
		sb.WriteString(detailStyle.Render(fmt.Sprintf("HTTP Status: %d", status)))
	}

	if code := errors.GetErrorCode(err); code != errors.ErrCodeUnknown {
		sb.WriteString("\n")
		sb.WriteString(detailStyle.Render(fmt.Sprintf("Error Code: %d (%s)", code, code.String())))
	}

	if hint := ErrorHint(err); hint != "" {
		sb.WriteString("\n")
		sb.WriteString(tipStyle.Render("💡 " + hint))
	}

	return sb.String()
}

// shortcut is one key hint in a status bar
type shortcut struct {
	key  string
	desc string
}

// renderShortcuts joins key hints into a centered status bar
func renderShortcuts(width int, shortcuts []shortcut) string {
	var items []string
	for _, s := range shortcuts {
		items = append(items, lipgloss.JoinHorizontal(
			lipgloss.Center,
			statusKeyStyle.Render(s.key),
			statusDescStyle.Render(" "+s.desc),
		))
	}

	bar := strings.Join(items, "  │  ")
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

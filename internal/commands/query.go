package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	apierrors "github.com/diogo/promptdeck/internal/errors"
	"github.com/diogo/promptdeck/internal/models"
	"github.com/diogo/promptdeck/internal/panel"
	"github.com/diogo/promptdeck/internal/render"
	"github.com/diogo/promptdeck/internal/tui"
	"github.com/diogo/promptdeck/internal/usage"
)

// Gradient colors for animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#8b5cf6"), // Violet
	lipgloss.Color("#a78bfa"), // Lavender
	lipgloss.Color("#ec4899"), // Pink
	lipgloss.Color("#f59e0b"), // Amber
	lipgloss.Color("#10b981"), // Emerald
	lipgloss.Color("#047857"), // Green
	lipgloss.Color("#0ea5e9"), // Sky
	lipgloss.Color("#6366f1"), // Indigo
}

var (
	colorText     = lipgloss.Color("#c0caf5")
	colorTextDim  = lipgloss.Color("#565f89")
	colorTextMute = lipgloss.Color("#3b4261")
	colorSuccess  = lipgloss.Color("#9ece6a")
	colorPrimary  = lipgloss.Color("#8b5cf6")
	colorError    = lipgloss.Color("#f7768e")
)

// Styles matching the conversation page
var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginTop(1).
				MarginBottom(1)
)

// spinner handles the animated loading indicator
type spinner struct {
	w       io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool
}

// newSpinner creates a new animated spinner writing to w
func newSpinner(w io.Writer, message string) *spinner {
	return &spinner{
		w:       w,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.w, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(s.w, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "█", "█", "▓", "▒", "░"}

	spinColor := gradientColors[s.frame%len(gradientColors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[s.frame%len(chars)])

	barWidth := 16
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		style := lipgloss.NewStyle().Foreground(gradientColors[(i+s.frame)%len(gradientColors)])
		bar.WriteString(style.Render(barChars[(i+s.frame/2)%len(barChars)]))
	}

	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dotColor := gradientColors[(s.frame+i)%len(gradientColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(colorText).Render(s.message)
	fmt.Fprintf(s.w, "\r\033[K%s %s %s %s", spinnerChar, bar.String(), msg, dots.String())
}

// stopOnce safely closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and shows success message
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	checkmark := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	msg := lipgloss.NewStyle().Foreground(colorSuccess).Render(message)
	fmt.Fprintf(s.w, "%s %s\n", checkmark, msg)
}

// stopWithError stops the spinner and shows error
func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

// runQuery sends a single conversation prompt and prints the reply.
// If rawOutput is true, only the reply text is printed without decoration.
func (a *app) runQuery(ctx context.Context, prompt string, rawOutput bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if err := panel.ValidatePrompt(prompt); err != nil {
		return err
	}

	client, err := a.deps.NewClient(a.cfg)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	a.logger.Debug("sending prompt", "base_url", client.BaseURL(), "length", len(prompt))

	meter := usage.NewMeter()
	conv := panel.NewConversation(client, panel.WithLogger(a.logger), panel.WithRefresher(meter))

	var spin *spinner
	if !rawOutput {
		spin = newSpinner(a.deps.Stderr, "Genius is thinking")
		spin.start()
	}

	startTime := time.Now()
	reply, err := conv.Submit(ctx, prompt)
	if err != nil {
		if !rawOutput {
			spin.stopWithError()
		}
		return fmt.Errorf("conversation failed: %w", err)
	}
	if !rawOutput {
		spin.stopWithSuccess("Done")
	}
	a.logger.Debug("reply received",
		"duration", time.Since(startTime).Round(time.Millisecond),
		"usage", meter.Snapshot().Summary())

	text := reply.Assistant.Content

	// Raw output mode: output only the reply text
	if rawOutput {
		if a.outputFlag != "" {
			return a.writeOutput(text, false)
		}
		fmt.Fprint(a.deps.Stdout, text)
		return nil
	}

	fmt.Fprintln(a.deps.Stderr)

	if a.cfg.CopyToClipboard {
		a.copyToClipboard(text, true)
	}

	if a.outputFlag != "" {
		return a.writeOutput(text, true)
	}

	termWidth := getTerminalWidth()
	bubbleWidth := termWidth - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	fmt.Fprintln(a.deps.Stdout, assistantLabelStyle.Render("✦ "+models.RoleAssistant.Label()))

	renderOpts := render.OptionsFromConfig(a.cfg.Markdown).WithWidth(contentWidth)
	rendered, err := render.Markdown(text, renderOpts)
	if err != nil {
		rendered = text
	}
	rendered = strings.TrimRight(rendered, "\n")

	fmt.Fprintln(a.deps.Stdout, assistantBubbleStyle.Width(bubbleWidth).Render(rendered))
	return nil
}

func (a *app) writeOutput(text string, decorated bool) error {
	if err := os.WriteFile(a.outputFlag, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if decorated {
		successMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render(
			fmt.Sprintf("✓ Reply saved to %s", a.outputFlag),
		)
		fmt.Fprintln(a.deps.Stderr, successMsg)
	}
	return nil
}

// copyToClipboard copies text and reports the outcome on stderr. A failed
// copy never fails the command.
func (a *app) copyToClipboard(text string, decorated bool) {
	if err := a.deps.Clipboard(text); err != nil {
		a.logger.Warn("clipboard copy failed", "error", err)
		if decorated {
			fmt.Fprintln(a.deps.Stderr, lipgloss.NewStyle().Foreground(colorError).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
			))
		}
		return
	}
	if decorated {
		fmt.Fprintln(a.deps.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard"))
	}
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}

	errorStyle := lipgloss.NewStyle().Foreground(colorError)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %v", context, err)))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	if code := apierrors.GetErrorCode(err); code != apierrors.ErrCodeUnknown {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Error Code: %d (%s)", code, code.String())))
	}

	if endpoint := apierrors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	if body := apierrors.GetResponseBody(err); body != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n\n  %s", strings.ReplaceAll(body, "\n", "\n  "))))
	} else if hint := tui.ErrorHint(err); hint != "" {
		sb.WriteString(dimStyle.Render("\n  Hint: " + hint))
	}

	return sb.String()
}

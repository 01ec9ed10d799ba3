package commands

import (
	"io"
	"os"

	"github.com/atotto/clipboard"
	"golang.org/x/term"

	"github.com/diogo/promptdeck/internal/api"
	"github.com/diogo/promptdeck/internal/config"
	"github.com/diogo/promptdeck/internal/models"
	"github.com/diogo/promptdeck/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunDashboard(deps tui.Deps, open models.ToolID) error
	RunConfig(cfg config.Config, logPath string) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// NewClient builds the backend client from the resolved config.
	NewClient func(cfg config.Config) (api.ClientInterface, error)

	// TUI is the terminal user interface.
	TUI TUIInterface

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// StdinPiped reports whether a prompt is being piped in
	StdinPiped func() bool
	// Interactive reports whether stdout is a terminal
	Interactive func() bool

	Clipboard func(string) error
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunDashboard(deps tui.Deps, open models.ToolID) error {
	return tui.RunDashboard(deps, open)
}

func (d *DefaultTUI) RunConfig(cfg config.Config, logPath string) error {
	return tui.RunConfig(cfg, logPath)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewClient:   NewClientFromConfig,
		TUI:         &DefaultTUI{},
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		StdinPiped:  stdinPiped,
		Interactive: isStdoutTTY,
		Clipboard:   clipboard.WriteAll,
	}
}

// NewClientFromConfig builds the HTTP client for the configured backend
func NewClientFromConfig(cfg config.Config) (api.ClientInterface, error) {
	return api.NewClient(
		api.WithBaseURL(cfg.BaseURL),
		api.WithEndpoints(cfg.ConversationPath, cfg.MusicPath),
		api.WithTimeout(cfg.Timeout()),
		api.WithRateLimit(cfg.RateLimitPerMinute),
	)
}

func stdinPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

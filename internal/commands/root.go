// Package commands provides CLI commands for promptdeck.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/diogo/promptdeck/internal/config"
	"github.com/diogo/promptdeck/internal/logging"
	"github.com/diogo/promptdeck/internal/models"
	"github.com/diogo/promptdeck/internal/render"
	"github.com/diogo/promptdeck/internal/tui"
	"github.com/diogo/promptdeck/internal/usage"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// app carries the resolved config and flag values shared by all commands
type app struct {
	deps   *Dependencies
	cfg    config.Config
	logger *slog.Logger

	// Global flags
	baseURLFlag string
	verboseFlag bool

	// Root flags
	outputFlag string
	fileFlag   string
	rawFlag    bool
}

// NewRootCmd builds the command tree around deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	if deps == nil {
		deps = NewDependencies()
	}
	a := &app{deps: deps, logger: logging.Discard()}

	cmd := &cobra.Command{
		Use:   "promptdeck [prompt]",
		Short: "Terminal dashboard for the conversation and music tools",
		Long: `promptdeck talks to the AI dashboard backend from the terminal.

Run it without arguments to open the dashboard and pick a tool, or pass a
prompt to get a single conversation reply.

Examples:
  promptdeck                            Open the dashboard
  promptdeck chat                       Open the conversation page
  promptdeck music                      Open the music page
  promptdeck music "Piano solo"         Generate a track and print its URL
  promptdeck "How is ice formed?"       Send a single prompt
  promptdeck -f prompt.md               Read prompt from file
  cat prompt.md | promptdeck            Read prompt from stdin
  promptdeck "Hello" -o reply.md        Save the reply to a file
  promptdeck config set base_url http://localhost:3000`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(a.deps.Stdout, "promptdeck %s (built %s)\n", Version, BuildTime)
				return nil
			}

			prompt, ok, err := a.readPrompt(args)
			if err != nil {
				return err
			}
			if ok {
				return a.runQuery(cmd.Context(), prompt, a.rawFlag || !a.deps.Interactive())
			}

			if a.deps.Interactive() {
				return a.runDashboard("")
			}
			return cmd.Help()
		},
	}

	cmd.SetIn(deps.Stdin)
	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)

	cmd.PersistentFlags().StringVar(&a.baseURLFlag, "base-url", "", "Backend root URL (overrides config)")
	cmd.PersistentFlags().BoolVarP(&a.verboseFlag, "verbose", "v", false, "Verbose logging")
	cmd.Flags().StringVarP(&a.outputFlag, "output", "o", "", "Save reply to file")
	cmd.Flags().StringVarP(&a.fileFlag, "file", "f", "", "Read prompt from file")
	cmd.Flags().BoolVar(&a.rawFlag, "raw", false, "Print the reply text without decoration")
	cmd.Flags().Bool("version", false, "Show version and exit")

	cmd.AddCommand(newChatCmd(a))
	cmd.AddCommand(newMusicCmd(a))
	cmd.AddCommand(NewConfigCmd(a))

	return cmd
}

// rootCmd represents the base command
var rootCmd = NewRootCmd(nil)

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Error"))
		os.Exit(1)
	}
}

// loadConfig resolves defaults, file, environment and flags, in that order
func (a *app) loadConfig(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	if a.baseURLFlag != "" {
		cfg.BaseURL = a.baseURLFlag
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = a.verboseFlag
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logging.New(a.deps.Stderr, cfg.Verbose, false)
	return nil
}

// readPrompt picks the prompt from --file, piped stdin or the argument.
// ok is false when none was given.
func (a *app) readPrompt(args []string) (prompt string, ok bool, err error) {
	if a.fileFlag != "" {
		data, err := os.ReadFile(a.fileFlag)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if len(args) > 0 {
		return args[0], true, nil
	}

	if a.deps.StdinPiped() {
		data, err := io.ReadAll(a.deps.Stdin)
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), true, nil
	}

	return "", false, nil
}

// runDashboard opens the TUI, logging to a file so the screen stays clean
func (a *app) runDashboard(open models.ToolID) error {
	logPath, err := logging.DefaultLogPath()
	if err != nil {
		return err
	}
	logger, closeLog, err := logging.SetupFile(logPath, a.cfg.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	client, err := a.deps.NewClient(a.cfg)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	downloadDir, err := config.GetDownloadDir(a.cfg)
	if err != nil {
		return err
	}

	tui.ApplyTheme(render.ResolveTUITheme(a.cfg.TUITheme))

	logger.Info("dashboard started", "base_url", client.BaseURL(), "open", string(open))
	return a.deps.TUI.RunDashboard(tui.Deps{
		Client:      client,
		Meter:       usage.NewMeter(),
		Render:      render.OptionsFromConfig(a.cfg.Markdown),
		DownloadDir: downloadDir,
		Logger:      logger,
		Clipboard:   a.deps.Clipboard,
	}, open)
}

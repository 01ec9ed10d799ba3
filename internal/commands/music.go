package commands

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/diogo/promptdeck/internal/api"
	"github.com/diogo/promptdeck/internal/config"
	apierrors "github.com/diogo/promptdeck/internal/errors"
	"github.com/diogo/promptdeck/internal/models"
	"github.com/diogo/promptdeck/internal/panel"
	"github.com/diogo/promptdeck/internal/usage"
)

func newMusicCmd(a *app) *cobra.Command {
	var download bool

	cmd := &cobra.Command{
		Use:   "music [prompt]",
		Short: "Generate music from a prompt",
		Long: `Generate a track from a text prompt.

Without a prompt the music page of the dashboard is opened. With a prompt
the track URL is printed, and --download also saves the audio to the
download directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				if a.deps.Interactive() {
					return a.runDashboard(models.ToolMusic)
				}
				return apierrors.ErrEmptyPrompt
			}
			return a.runMusic(cmd.Context(), args[0], download)
		},
	}

	cmd.Flags().BoolVarP(&download, "download", "d", false, "Save the track to the download directory")
	return cmd
}

// runMusic generates one track, prints its URL and optionally saves it
func (a *app) runMusic(ctx context.Context, prompt string, download bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	decorated := a.deps.Interactive()

	if err := panel.ValidatePrompt(prompt); err != nil {
		return err
	}

	client, err := a.deps.NewClient(a.cfg)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	meter := usage.NewMeter()
	music := panel.NewMusic(client, panel.WithLogger(a.logger), panel.WithRefresher(meter))

	var spin *spinner
	if decorated {
		spin = newSpinner(a.deps.Stderr, "Composing")
		spin.start()
	}

	track, err := music.Submit(ctx, prompt)
	if err != nil {
		if decorated {
			spin.stopWithError()
		}
		return fmt.Errorf("music generation failed: %w", err)
	}
	if decorated {
		spin.stopWithSuccess("Track ready")
	}
	a.logger.Debug("usage", "summary", meter.Snapshot().Summary())

	fmt.Fprintln(a.deps.Stdout, track.URL)

	if a.cfg.CopyToClipboard {
		a.copyToClipboard(track.URL, decorated)
	}

	if !download {
		return nil
	}

	dir, err := config.GetDownloadDir(a.cfg)
	if err != nil {
		return err
	}

	if decorated {
		spin = newSpinner(a.deps.Stderr, "Downloading")
		spin.start()
	}
	path, err := client.DownloadAsset(ctx, track.URL, api.DownloadOptions{Directory: dir})
	if err != nil {
		if decorated {
			spin.stopWithError()
		}
		return err
	}
	if decorated {
		spin.stopWithSuccess("Saved to " + path)
	} else {
		fmt.Fprintln(a.deps.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render("Saved to "+path))
	}

	return nil
}

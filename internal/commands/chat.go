package commands

import (
	"github.com/spf13/cobra"

	"github.com/diogo/promptdeck/internal/models"
)

func newChatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Open the conversation page",
		Long: `Open the conversation page of the dashboard.

Each reply is added to the history, newest first. Type /exit or press
Esc to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDashboard(models.ToolConversation)
		},
	}
}

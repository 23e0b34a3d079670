package cmd

import (
	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/drdscore/internal/assessment"
	"github.com/abhisek/drdscore/internal/store"
	"github.com/abhisek/drdscore/internal/ui/layout"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Render the scorecard of an assessment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		width, _ := cmd.Flags().GetInt("width")

		return withService(cmd, func(_ *store.Store, svc *assessment.Service) error {
			a, err := svc.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = lipgloss.Fprint(cmd.OutOrStdout(), layout.RenderScorecard(svc.Catalog(), a, width))
			return err
		})
	},
}

func init() {
	showCmd.Flags().Int("width", layout.DefaultWidth, "Scorecard width in columns")
}

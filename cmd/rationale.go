package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/drdscore/internal/assessment"
	"github.com/abhisek/drdscore/internal/drd"
	"github.com/abhisek/drdscore/internal/store"
)

var rationaleCmd = &cobra.Command{
	Use:   "rationale <id> <axis> [text...]",
	Short: "Set the strategic rationale of an axis (no text removes it)",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		axisID, err := drd.ParseAxisID(args[1])
		if err != nil {
			return err
		}
		text := strings.Join(args[2:], " ")

		return withService(cmd, func(_ *store.Store, svc *assessment.Service) error {
			_, err := svc.SetRationale(cmd.Context(), args[0], axisID, text)
			return err
		})
	},
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/drdscore/internal/assessment"
	"github.com/abhisek/drdscore/internal/store"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle <id> <axis> [area] <level>",
	Short: "Toggle an actual or target level",
	Long: `Toggle a level of an area, or of a simple axis when no area is given.
Toggling a level of one kind removes it from the other kind.`,
	Args: cobra.RangeArgs(3, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := kindFlag(cmd)
		if err != nil {
			return err
		}
		axisID, areaID, level, err := parseAxisLevel(args[1:])
		if err != nil {
			return err
		}

		return withService(cmd, func(_ *store.Store, svc *assessment.Service) error {
			a, err := svc.Toggle(cmd.Context(), args[0], axisID, areaID, level, kind)
			if err != nil {
				return err
			}
			printAxis(cmd, axisID, a.Scores(axisID))
			return nil
		})
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear <id> <axis> <area> <level>",
	Short: "Mark a level of an area as not applicable",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		axisID, areaID, level, err := parseAxisLevel(args[1:])
		if err != nil {
			return err
		}

		return withService(cmd, func(_ *store.Store, svc *assessment.Service) error {
			a, err := svc.Clear(cmd.Context(), args[0], axisID, areaID, level)
			if err != nil {
				return err
			}
			printAxis(cmd, axisID, a.Scores(axisID))
			return nil
		})
	},
}

var setCmd = &cobra.Command{
	Use:   "set <id> <axis> <level>",
	Short: "Set the level of a simple axis (0 unsets it)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := kindFlag(cmd)
		if err != nil {
			return err
		}
		axisID, _, level, err := parseAxisLevel(args[1:])
		if err != nil {
			return err
		}

		return withService(cmd, func(_ *store.Store, svc *assessment.Service) error {
			a, err := svc.SetSimple(cmd.Context(), args[0], axisID, level, kind)
			if err != nil {
				return err
			}
			printAxis(cmd, axisID, a.Scores(axisID))
			return nil
		})
	},
}

func init() {
	toggleCmd.Flags().StringP("kind", "k", "actual", "Level kind: actual or target")
	setCmd.Flags().StringP("kind", "k", "actual", "Level kind: actual or target")
}

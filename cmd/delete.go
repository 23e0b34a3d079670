package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/drdscore/internal/assessment"
	"github.com/abhisek/drdscore/internal/store"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an assessment and its snapshot history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return fmt.Errorf("refusing to delete %s without --yes", args[0])
		}

		return withService(cmd, func(_ *store.Store, svc *assessment.Service) error {
			if err := svc.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted", args[0])
			return nil
		})
	},
}

func init() {
	deleteCmd.Flags().BoolP("yes", "y", false, "Confirm deletion")
}

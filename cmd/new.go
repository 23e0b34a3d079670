package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/drdscore/internal/assessment"
	"github.com/abhisek/drdscore/internal/store"
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create an assessment",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		simple, _ := cmd.Flags().GetIntSlice("simple")

		return withService(cmd, func(_ *store.Store, svc *assessment.Service) error {
			a, err := svc.Create(cmd.Context(), name, simple...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.ID)
			return nil
		})
	},
}

func init() {
	newCmd.Flags().String("name", "", "Name of the assessed organisation")
	newCmd.Flags().IntSlice("simple", nil, "Axes to score directly instead of per area")
	_ = newCmd.MarkFlagRequired("name")
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/drdscore/internal/assessment"
	"github.com/abhisek/drdscore/internal/store"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List assessments",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(_ *store.Store, svc *assessment.Service) error {
			recs, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(recs) == 0 {
				fmt.Fprintln(out, "No assessments found.")
				return nil
			}

			fmt.Fprintf(out, "%-36s  %-16s  %s\n", "ID", "Updated", "Name")
			fmt.Fprintln(out, strings.Repeat("─", 80))
			for _, r := range recs {
				fmt.Fprintf(out, "%-36s  %-16s  %s\n",
					r.ID, r.UpdatedAt.Local().Format("2006-01-02 15:04"), r.Name)
			}
			return nil
		})
	},
}

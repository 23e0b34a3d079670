package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/drdscore/internal/assessment"
	"github.com/abhisek/drdscore/internal/scoring"
	"github.com/abhisek/drdscore/internal/store"
)

var eventsCmd = &cobra.Command{
	Use:   "events <id>",
	Short: "List the score events of an assessment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		return withService(cmd, func(_ *store.Store, svc *assessment.Service) error {
			evs, err := svc.Events(cmd.Context(), args[0], store.QueryOpts{Limit: limit})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(evs) == 0 {
				fmt.Fprintln(out, "No score events found.")
				return nil
			}

			fmt.Fprintf(out, "%-5s  %-19s  %-8s  %-5s  %-6s  %-6s  %-5s  %-13s  %-13s  %s\n",
				"Seq", "Timestamp", "Op", "Axis", "Area", "Kind", "Level", "Actual", "Target", "Axis A/T")
			fmt.Fprintln(out, strings.Repeat("─", 100))
			for _, e := range evs {
				fmt.Fprintf(out, "%-5d  %-19s  %-8s  %-5d  %-6s  %-6s  %-5s  %-13s  %-13s  %s/%s\n",
					e.Sequence,
					e.Timestamp.Local().Format("2006-01-02 15:04:05"),
					e.Operation,
					e.AxisID,
					dash(e.AreaID),
					dash(e.Kind),
					scoring.Level(e.Level),
					maskLevels(e.ActualMask),
					maskLevels(e.TargetMask),
					scoring.Level(e.AxisActual),
					scoring.Level(e.AxisTarget),
				)
			}
			return nil
		})
	},
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// maskLevels formats a mask as its level list, e.g. "1,2,4".
func maskLevels(m uint32) string {
	levels := scoring.Mask(m).Levels()
	if len(levels) == 0 {
		return "-"
	}
	parts := make([]string, len(levels))
	for i, l := range levels {
		parts[i] = l.String()
	}
	return strings.Join(parts, ",")
}

func init() {
	eventsCmd.Flags().IntP("limit", "n", 0, "Number of events to show (0 shows all)")
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/drdscore/internal/assessment"
	"github.com/abhisek/drdscore/internal/drd"
	"github.com/abhisek/drdscore/internal/llm"
	"github.com/abhisek/drdscore/internal/store"
	"github.com/abhisek/drdscore/internal/suggest"
	"github.com/abhisek/drdscore/internal/ui/theme"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <id> <axis> [area]",
	Short: "Ask the configured LLM to suggest a level",
	Long: `Ask the configured LLM to suggest an actual or target level for an area,
or for a simple axis when no area is given. With --apply the suggested level
is added to the assessment.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := kindFlag(cmd)
		if err != nil {
			return err
		}
		axisID, err := drd.ParseAxisID(args[1])
		if err != nil {
			return err
		}
		var areaID string
		if len(args) == 3 {
			areaID = args[2]
		}
		notes, _ := cmd.Flags().GetString("notes")
		apply, _ := cmd.Flags().GetBool("apply")

		if err := cfg.LLM.Validate(); err != nil {
			return fmt.Errorf("LLM provider not configured: %w", err)
		}

		return withService(cmd, func(s *store.Store, svc *assessment.Service) error {
			ctx := cmd.Context()

			in, err := svc.SuggestInput(ctx, args[0], axisID, areaID, kind, notes)
			if err != nil {
				return err
			}

			provider, err := llm.NewProvider(ctx, cfg.LLM, s.EventRepo(), logger)
			if err != nil {
				return err
			}

			sug, err := suggest.New(provider, suggest.DefaultConfig()).Suggest(ctx, in)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			title := in.Axis.LevelTitle(int(sug.Level))
			if in.Area != nil {
				title = in.Area.LevelTitle(in.Axis, int(sug.Level))
			}
			fmt.Fprintf(out, "%s %s level %d (%s), confidence %.0f%%\n",
				in.ItemID(), sug.Kind, sug.Level, title, sug.Confidence*100)
			fmt.Fprintln(out, sug.Rationale)

			if !apply {
				fmt.Fprintln(out, theme.Hint.Render("Run again with --apply to record this level."))
				return nil
			}
			a, err := svc.ApplySuggestion(ctx, args[0], *sug)
			if err != nil {
				return err
			}
			printAxis(cmd, axisID, a.Scores(axisID))
			return nil
		})
	},
}

func init() {
	suggestCmd.Flags().StringP("kind", "k", "actual", "Level kind: actual or target")
	suggestCmd.Flags().String("notes", "", "Assessor notes describing the organisation")
	suggestCmd.Flags().Bool("apply", false, "Add the suggested level to the assessment")
}

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/drdscore/internal/drd"
	"github.com/abhisek/drdscore/internal/scoring"
)

func parseLevel(s string) (scoring.Level, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid level %q", s)
	}
	return scoring.Level(n), nil
}

// parseAxisLevel splits "<axis> [area] <level>" arguments.
func parseAxisLevel(args []string) (axisID int, areaID string, level scoring.Level, err error) {
	axisID, err = drd.ParseAxisID(args[0])
	if err != nil {
		return 0, "", 0, err
	}
	if len(args) == 3 {
		areaID = args[1]
	}
	level, err = parseLevel(args[len(args)-1])
	return axisID, areaID, level, err
}

func kindFlag(cmd *cobra.Command) (scoring.Kind, error) {
	k, _ := cmd.Flags().GetString("kind")
	return scoring.ParseKind(k)
}

// printAxis prints the axis scalars after a mutation.
func printAxis(cmd *cobra.Command, axisID int, s scoring.Aggregate) {
	fmt.Fprintf(cmd.OutOrStdout(), "axis %d: actual %s, target %s\n", axisID, s.Actual, s.Target)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/drdscore/internal/drd"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the DRD catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(cat)
		}

		for _, ax := range cat.Axes {
			fmt.Fprintf(out, "%d. %s (%d levels)\n", ax.ID, ax.Name, ax.Scale)
			printLevels(cmd, "   ", ax.Levels)
			for _, ar := range ax.Areas {
				fmt.Fprintf(out, "   %s %s\n", ar.ID, ar.Name)
				printLevels(cmd, "      ", ar.Levels)
			}
		}
		return nil
	},
}

func printLevels(cmd *cobra.Command, indent string, levels []drd.LevelInfo) {
	if detailed, _ := cmd.Flags().GetBool("levels"); !detailed {
		return
	}
	for _, l := range levels {
		fmt.Fprintf(cmd.OutOrStdout(), "%s%d. %s", indent, l.Level, l.Title)
		if l.Description != "" {
			fmt.Fprintf(cmd.OutOrStdout(), ": %s", l.Description)
		}
		fmt.Fprintln(cmd.OutOrStdout())
	}
}

func init() {
	catalogCmd.Flags().Bool("levels", false, "Include level titles and descriptions")
	catalogCmd.Flags().Bool("yaml", false, "Print the catalog as YAML")
}

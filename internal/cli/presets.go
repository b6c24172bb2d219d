package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"MorningRadar/internal/config"
)

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the embedded rule presets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tINDICATORS\tDESCRIPTION")
			for _, name := range config.PresetNames() {
				p, err := config.LoadPreset(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\n", name, len(p.Indicators), p.Description)
			}
			return tw.Flush()
		},
	}
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"MorningRadar/internal/board"
	"MorningRadar/internal/logging"
)

func newOnceCmd(opts *globalOptions) *cobra.Command {
	var asJSON, mock bool
	cmd := &cobra.Command{
		Use:   "once",
		Short: "Run one refresh cycle and print the report",
		Long: `Run one collect, score and narrate cycle and print the result.

Examples:
  radar once
  radar once --json
  radar once --preset semis --mock`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			// keep stdout clean for the report
			log := logging.NewWithOutput(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)

			a, err := buildApp(cfg, log, mock)
			if err != nil {
				return err
			}
			defer a.Close()

			r := a.board.Refresh(cmd.Context())
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(r)
			}
			return printReport(cmd.OutOrStdout(), r)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	cmd.Flags().BoolVar(&mock, "mock", false, "Use fixed sample data instead of network sources")
	return cmd
}

func printReport(w io.Writer, r *board.Report) error {
	s := r.Score
	fmt.Fprintf(w, "Morning Radar  %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "위험도 %d/100  %s", s.Value, s.Level.Label)
	if s.Escalated {
		fmt.Fprintf(w, "  (평균 %d점에서 상향)", s.Raw)
	}
	fmt.Fprintf(w, "\n%s\n%s\n", r.Narrative.Narrative.Headline, r.Narrative.Narrative.Action)
	if r.Narrative.Notice != "" {
		fmt.Fprintf(w, "(%s)\n", r.Narrative.Notice)
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "지표\t현재\t변동\t위험도\t가중치")
	for _, c := range s.Contributions {
		fmt.Fprintf(tw, "%s\t%.2f\t%+.2f%%\t%.0f\t%.1f\n", c.Label, c.Current, c.ChangePct, c.Severity, c.Weight)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, f := range s.Risks {
		fmt.Fprintf(w, "! %s\n", f.Description)
	}
	for _, f := range s.Opportunities {
		fmt.Fprintf(w, "+ %s\n", f.Description)
	}
	if len(s.Missing) > 0 {
		fmt.Fprintf(w, "수집 실패: %s\n", strings.Join(s.Missing, ", "))
	}
	return nil
}

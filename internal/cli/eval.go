package cli

import (
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"topoconst/internal/graph"
	"topoconst/internal/physics"
)

func newEvalCommand(logger func() *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "eval [id...]",
		Short: "Evaluate constants (all of them when no ids are given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := physics.NewService(logger())
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return printSummary(cmd, svc.EvaluateAll())
			}

			failed := false
			for _, id := range args {
				v, err := svc.GetValue(id)
				if err != nil {
					failed = true
					fmt.Fprintf(cmd.OutOrStdout(), "%s\tFAILED\t%v\n", id, err)
					continue
				}
				unit := ""
				if rec, ok := svc.Record(id); ok {
					unit = rec.Unit
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.10g\t%s\n", id, v, unit)
			}
			if failed {
				return ErrEvaluationFailed
			}
			return nil
		},
	}
}

func printSummary(cmd *cobra.Command, measurements []physics.Measurement) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tVALUE\tUNIT\tREFERENCE\tREL.DEV")

	var failed int
	for _, m := range measurements {
		switch m.Status {
		case graph.StatusDone:
			ref, dev := "-", "-"
			if m.Reference != nil {
				ref = fmt.Sprintf("%.6g", *m.Reference)
			}
			if m.RelativeErr != nil {
				dev = fmt.Sprintf("%.2e", *m.RelativeErr)
			}
			fmt.Fprintf(w, "%s\t%s\t%.10g\t%s\t%s\t%s\n", m.ID, m.Status, m.Value, m.Unit, ref, dev)
		default:
			failed++
			fmt.Fprintf(w, "%s\t%s\t-\t%s\t-\t-\n", m.ID, m.Status, m.Unit)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n%d evaluated, %d failed\n", len(measurements)-failed, failed)
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d constants", ErrEvaluationFailed, failed, len(measurements))
	}
	return nil
}

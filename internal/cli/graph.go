package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"topoconst/internal/physics"
)

func newGraphCommand(logger func() *slog.Logger) *cobra.Command {
	var dot bool

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the constant dependency graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := physics.NewService(logger())
			if err != nil {
				return err
			}

			view := svc.GraphView()
			out := cmd.OutOrStdout()

			if dot {
				fmt.Fprintln(out, "digraph constants {")
				fmt.Fprintln(out, "  rankdir=LR;")
				for _, id := range view.Nodes {
					shape := "ellipse"
					if view.Fundamental[id] {
						shape = "box"
					}
					fmt.Fprintf(out, "  %q [shape=%s];\n", id, shape)
				}
				for _, e := range view.Edges {
					fmt.Fprintf(out, "  %q -> %q;\n", e.From, e.To)
				}
				fmt.Fprintln(out, "}")
				return nil
			}

			fmt.Fprintf(out, "%d constants, %d dependencies\n", len(view.Nodes), len(view.Edges))
			for _, e := range view.Edges {
				fmt.Fprintf(out, "%s -> %s\n", e.From, e.To)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dot, "dot", false, "emit Graphviz DOT output")
	return cmd
}

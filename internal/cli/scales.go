package cli

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/spf13/cobra"

	"topoconst/internal/physics"
)

func newScalesCommand(logger func() *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "scales",
		Short: "Locate the special scales in the RG flow",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := physics.NewService(logger())
			if err != nil {
				return err
			}

			scales := svc.SpecialScales()
			if len(scales) == 0 {
				return fmt.Errorf("%w: no special scales found", ErrEvaluationFailed)
			}

			names := make([]string, 0, len(scales))
			for name := range scales {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%-26s %.6e GeV\n", name, scales[name])
			}
			return nil
		},
	}
}

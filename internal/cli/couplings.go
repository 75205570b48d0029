package cli

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"topoconst/internal/physics"
	"topoconst/internal/rge"
)

func newCouplingsCommand(logger func() *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "couplings [scale-gev]",
		Short: "Print gauge couplings and derived observables at a scale (default M_Z)",
		Args:  invocationArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			scale := rge.MZ
			if len(args) == 1 {
				var err error
				scale, err = strconv.ParseFloat(args[0], 64)
				if err != nil || scale <= 0 {
					return fmt.Errorf("%w: scale must be a positive number in GeV, got %q", ErrInvalidInvocation, args[0])
				}
			}

			svc, err := physics.NewService(logger())
			if err != nil {
				return err
			}
			rep, err := svc.CouplingsAtScale(scale)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrEvaluationFailed, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "scale       = %.6g GeV\n", rep.Scale)
			fmt.Fprintf(out, "g1          = %.6f\n", rep.G1)
			fmt.Fprintf(out, "g2          = %.6f\n", rep.G2)
			fmt.Fprintf(out, "g3          = %.6f\n", rep.G3)
			fmt.Fprintf(out, "alpha_em    = %.6g\n", rep.AlphaEM)
			fmt.Fprintf(out, "alpha_s     = %.6g\n", rep.AlphaS)
			fmt.Fprintf(out, "sin2thetaW  = %.6f\n", rep.Sin2ThetaW)
			fmt.Fprintf(out, "1/alpha_1   = %.4f\n", rep.Alpha1Inv)
			fmt.Fprintf(out, "1/alpha_2   = %.4f\n", rep.Alpha2Inv)
			fmt.Fprintf(out, "1/alpha_3   = %.4f\n", rep.Alpha3Inv)
			fmt.Fprintf(out, "y_top       = %.6f\n", rep.YTop)
			return nil
		},
	}
}

// Package cli implements the topoconst command surface over the physics
// service. Commands print to the command's configured streams so black-box
// tests can capture output without touching process globals.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

// Semantic exit codes.
const (
	ExitSuccess           = 0
	ExitEvaluationFailure = 1
	ExitInvalidInvocation = 2
	ExitInternalError     = 3
)

var (
	// ErrEvaluationFailed marks a run in which at least one requested
	// constant or search failed to evaluate.
	ErrEvaluationFailed = errors.New("evaluation failed")

	// ErrInvalidInvocation marks a malformed command line: bad flags, bad
	// arguments, or an unknown subcommand.
	ErrInvalidInvocation = errors.New("invalid invocation")
)

// ExitCode maps an Execute error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrEvaluationFailed):
		return ExitEvaluationFailure
	case errors.Is(err, ErrInvalidInvocation):
		return ExitInvalidInvocation
	case strings.HasPrefix(err.Error(), "unknown command"):
		// cobra reports command-lookup failures as plain errors.
		return ExitInvalidInvocation
	default:
		return ExitInternalError
	}
}

// invocationArgs tags positional-argument validation failures with
// ErrInvalidInvocation so they map to the usage exit code.
func invocationArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInvocation, err)
		}
		return nil
	}
}

// NewRootCommand builds the topoconst command tree.
func NewRootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "topoconst",
		Short:         "Derive physical constants from topological fixed-point inputs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", ErrInvalidInvocation, err)
	})

	logger := func() *slog.Logger {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		return slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level}))
	}

	root.AddCommand(
		newEvalCommand(logger),
		newCouplingsCommand(logger),
		newScalesCommand(logger),
		newGraphCommand(logger),
	)
	return root
}

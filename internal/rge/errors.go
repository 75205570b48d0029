package rge

import (
	"errors"
	"fmt"
)

var (
	// ErrNonPerturbative marks a coupling leaving (0, GMax) during
	// integration.
	ErrNonPerturbative = errors.New("non-perturbative coupling")

	// ErrIntegrationDiverged marks an integration that exhausted its step
	// budget or underflowed its minimum step size.
	ErrIntegrationDiverged = errors.New("integration diverged")

	// ErrNoSignChange marks a root bracket whose endpoints do not straddle
	// the target.
	ErrNoSignChange = errors.New("no sign change over bracket")

	// ErrIterationBudgetExceeded marks a search that did not converge within
	// its iteration cap.
	ErrIterationBudgetExceeded = errors.New("iteration budget exceeded")
)

// SolveError wraps integrator and solver failures with a stable kind.
type SolveError struct {
	Kind error
	Msg  string
}

func (e *SolveError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *SolveError) Unwrap() error { return e.Kind }

func solvef(kind error, format string, args ...any) error {
	return &SolveError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

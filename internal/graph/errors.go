package graph

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidGraph marks structural problems found at construction time.
	ErrInvalidGraph = errors.New("invalid constant graph")

	// ErrCycleDetected marks a non-fundamental constant reached while it was
	// already being evaluated.
	ErrCycleDetected = errors.New("cycle detected")

	// ErrMissingDependency marks a reference to a constant that is absent
	// from the graph, or whose evaluation already failed.
	ErrMissingDependency = errors.New("missing dependency")

	// ErrComputeFailed marks a failure inside a constant's own compute
	// function.
	ErrComputeFailed = errors.New("compute failed")
)

// GraphError wraps evaluation and validation failures with a stable kind.
type GraphError struct {
	Kind error
	Msg  string
}

func (e *GraphError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *GraphError) Unwrap() error { return e.Kind }

func invalidf(format string, args ...any) error {
	return &GraphError{Kind: ErrInvalidGraph, Msg: fmt.Sprintf(format, args...)}
}

func missingf(format string, args ...any) error {
	return &GraphError{Kind: ErrMissingDependency, Msg: fmt.Sprintf(format, args...)}
}

func computef(format string, args ...any) error {
	return &GraphError{Kind: ErrComputeFailed, Msg: fmt.Sprintf(format, args...)}
}

func cycleError(path []string) error {
	msg := "cycle"
	if len(path) > 0 {
		msg = "cycle: " + strings.Join(path, " -> ")
	}
	return &GraphError{Kind: ErrCycleDetected, Msg: msg}
}

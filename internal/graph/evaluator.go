package graph

import (
	"log/slog"
	"sync"
)

// Evaluator owns the cache and status map for one evaluation run over a
// Graph.
//
// Lifecycle: create one Evaluator per run; results are memoized for its
// lifetime and discarded with it. The Graph itself is never mutated.
//
// Concurrency: all public entry points are guarded by a single mutex, since
// the EVALUATING marker used for cycle detection is not safe under
// concurrent entry. Recursive evaluation happens on the direct call stack
// with the lock held.
type Evaluator struct {
	graph  *Graph
	logger *slog.Logger

	mu       sync.Mutex
	status   map[string]Status
	values   map[string]float64
	failures map[string]error
	calls    map[string]int
}

// NewEvaluator creates an evaluator with every constant UNEVALUATED.
// logger may be nil.
func NewEvaluator(g *Graph, logger *slog.Logger) (*Evaluator, error) {
	if g == nil {
		return nil, invalidf("nil graph")
	}
	status := make(map[string]Status, len(g.nodes))
	for _, n := range g.nodes {
		status[n.def.ID] = StatusUnevaluated
	}
	return &Evaluator{
		graph:    g,
		logger:   logger,
		status:   status,
		values:   make(map[string]float64, len(g.nodes)),
		failures: make(map[string]error),
		calls:    make(map[string]int),
	}, nil
}

// Value evaluates the constant and returns its cached value. It is
// idempotent: each constant's compute function runs at most once per
// Evaluator.
func (e *Evaluator) Value(id string) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.evaluate(id, nil)
}

// Status returns the constant's current evaluation status.
func (e *Evaluator) Status(id string) (Status, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.status[id]
	return s, ok
}

// ComputeCalls returns how many times the constant's compute function has
// run. At most 1 by construction; exposed so tests can prove it.
func (e *Evaluator) ComputeCalls(id string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls[id]
}

// Result is the per-constant outcome of a batch evaluation.
type Result struct {
	ID     string
	Status Status
	Value  float64 // valid only when Status == StatusDone
	Err    error   // non-nil only when Status == StatusFailed
}

// Summary reports a batch evaluation, one entry per constant in declaration
// order.
type Summary struct {
	Results []Result
	Done    int
	Failed  int
}

// EvaluateAll evaluates every constant in the graph.
//
// Partial-failure policy: a single constant's failure is captured in its
// Result and does not abort evaluation of constants that do not depend on
// it. A constant downstream of a failure fails with a missing-dependency
// reason instead of computing on a garbage value.
func (e *Evaluator) EvaluateAll() Summary {
	e.mu.Lock()
	defer e.mu.Unlock()

	sum := Summary{Results: make([]Result, 0, len(e.graph.nodes))}
	for _, n := range e.graph.nodes {
		id := n.def.ID
		v, err := e.evaluate(id, nil)
		r := Result{ID: id, Status: e.status[id]}
		if err != nil {
			r.Err = err
			sum.Failed++
		} else {
			r.Value = v
			sum.Done++
		}
		sum.Results = append(sum.Results, r)
	}
	return sum
}

// evaluate resolves a single constant depth-first. stack holds the ids
// currently EVALUATING, outermost first, and is used to report a cycle
// witness path.
func (e *Evaluator) evaluate(id string, stack []string) (float64, error) {
	n, ok := e.graph.nodesByID[id]
	if !ok {
		return 0, missingf("unknown constant: %q", id)
	}

	switch e.status[id] {
	case StatusDone:
		return e.values[id], nil
	case StatusFailed:
		return 0, e.failures[id]
	case StatusEvaluating:
		if n.def.Fundamental {
			// Break-set policy: fundamentals short-circuit to their seed
			// instead of recursing, so apparent mutual references among
			// them are not cycles.
			return n.def.Seed, nil
		}
		return 0, e.fail(id, cycleError(witnessPath(stack, id)))
	}

	if n.def.Fundamental {
		e.values[id] = n.def.Seed
		e.status[id] = StatusDone
		if e.logger != nil {
			e.logger.Debug("seeded fundamental", "id", id, "value", n.def.Seed)
		}
		return n.def.Seed, nil
	}

	e.status[id] = StatusEvaluating
	stack = append(stack, id)

	deps := make(map[string]float64, len(n.def.DependsOn))
	for _, dep := range n.def.DependsOn {
		v, err := e.evaluate(dep, stack)
		if err != nil {
			return 0, e.fail(id, missingf("%s: dependency %s failed: %v", id, dep, err))
		}
		deps[dep] = v
	}

	v, err := e.runCompute(id, n.def.Compute, deps)
	if err != nil {
		return 0, e.fail(id, err)
	}

	e.values[id] = v
	e.status[id] = StatusDone
	if e.logger != nil {
		e.logger.Debug("evaluated constant", "id", id, "value", v)
	}
	return v, nil
}

// runCompute invokes the compute function exactly once, converting both
// returned errors and panics into ErrComputeFailed.
func (e *Evaluator) runCompute(id string, fn ComputeFn, deps map[string]float64) (v float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = computef("%s: panic: %v", id, r)
		}
	}()
	e.calls[id]++
	v, err = fn(deps)
	if err != nil {
		return 0, computef("%s: %v", id, err)
	}
	return v, nil
}

// fail records a terminal failure for id and returns the stored error. The
// first recorded failure wins: when a cycle re-enters the entry constant,
// the dependency loop unwinding above it must not overwrite the stored
// cycle witness with a missing-dependency wrapper.
func (e *Evaluator) fail(id string, err error) error {
	if e.status[id] == StatusFailed {
		return e.failures[id]
	}
	e.status[id] = StatusFailed
	e.failures[id] = err
	if e.logger != nil {
		e.logger.Warn("constant failed", "id", id, "err", err)
	}
	return err
}

// witnessPath extracts the cycle portion of the evaluation stack ending at
// the re-entered id, closed back on itself.
func witnessPath(stack []string, id string) []string {
	start := 0
	for i, s := range stack {
		if s == id {
			start = i
			break
		}
	}
	path := make([]string, 0, len(stack)-start+1)
	path = append(path, stack[start:]...)
	path = append(path, id)
	return path
}

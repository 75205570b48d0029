package graph

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
)

func mustGraph(t *testing.T, defs []Def) *Graph {
	t.Helper()
	g, err := New(defs)
	if err != nil {
		t.Fatalf("building graph: %v", err)
	}
	return g
}

func mustEvaluator(t *testing.T, g *Graph) *Evaluator {
	t.Helper()
	e, err := NewEvaluator(g, nil)
	if err != nil {
		t.Fatalf("building evaluator: %v", err)
	}
	return e
}

func TestEvaluate_FundamentalReturnsSeed(t *testing.T) {
	g := mustGraph(t, []Def{Fundamental("phi_0", 0.053171)})
	e := mustEvaluator(t, g)

	v, err := e.Value("phi_0")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if v != 0.053171 {
		t.Fatalf("expected seed 0.053171, got %v", v)
	}
	if s, _ := e.Status("phi_0"); s != StatusDone {
		t.Fatalf("expected DONE, got %v", s)
	}
}

func TestEvaluate_DerivedChain(t *testing.T) {
	g := mustGraph(t, []Def{
		Fundamental("phi_0", 0.05),
		Fundamental("m_planck", 2.0),
		Derived("product", func(deps map[string]float64) (float64, error) {
			return deps["phi_0"] * deps["m_planck"], nil
		}, "phi_0", "m_planck"),
		Derived("scaled", func(deps map[string]float64) (float64, error) {
			return 10 * deps["product"], nil
		}, "product"),
	})
	e := mustEvaluator(t, g)

	v, err := e.Value("scaled")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if math.Abs(v-1.0) > 1e-15 {
		t.Fatalf("expected 1.0, got %v", v)
	}
}

func TestEvaluate_Memoization(t *testing.T) {
	g := mustGraph(t, []Def{
		Fundamental("x", 3),
		Derived("shared", func(deps map[string]float64) (float64, error) {
			return deps["x"] + 1, nil
		}, "x"),
		Derived("left", func(deps map[string]float64) (float64, error) {
			return deps["shared"] * 2, nil
		}, "shared"),
		Derived("right", func(deps map[string]float64) (float64, error) {
			return deps["shared"] * 3, nil
		}, "shared"),
	})
	e := mustEvaluator(t, g)

	if _, err := e.Value("left"); err != nil {
		t.Fatalf("left: %v", err)
	}
	if _, err := e.Value("right"); err != nil {
		t.Fatalf("right: %v", err)
	}
	if _, err := e.Value("right"); err != nil {
		t.Fatalf("right again: %v", err)
	}
	if got := e.ComputeCalls("shared"); got != 1 {
		t.Fatalf("expected shared computed once, got %d", got)
	}
	if got := e.ComputeCalls("right"); got != 1 {
		t.Fatalf("expected right computed once, got %d", got)
	}
}

func TestEvaluate_UnknownID(t *testing.T) {
	g := mustGraph(t, []Def{Fundamental("x", 1)})
	e := mustEvaluator(t, g)

	_, err := e.Value("ghost")
	if !errors.Is(err, ErrMissingDependency) {
		t.Fatalf("expected ErrMissingDependency, got %v", err)
	}
}

func TestEvaluate_CycleDetectedWithWitness(t *testing.T) {
	g := mustGraph(t, []Def{
		Derived("a", constOne, "b"),
		Derived("b", constOne, "a"),
	})
	e := mustEvaluator(t, g)

	// The entry constant reports the cycle itself, not a missing-dependency
	// wrapper from its own unwinding dependency loop.
	_, err := e.Value("a")
	if !errors.Is(err, ErrCycleDetected) {
		t.Fatalf("expected ErrCycleDetected, got %v", err)
	}
	var ge *GraphError
	if !errors.As(err, &ge) {
		t.Fatalf("expected GraphError, got %T", err)
	}
	if !strings.Contains(ge.Msg, "a -> b -> a") {
		t.Fatalf("expected witness path in %q", ge.Msg)
	}

	// The intermediate constant failed because its dependency did.
	_, errB := e.Value("b")
	if !errors.Is(errB, ErrMissingDependency) {
		t.Fatalf("expected ErrMissingDependency for b, got %v", errB)
	}

	// A repeated request must report the same stored failure, not recompute.
	_, err2 := e.Value("a")
	if !errors.Is(err2, ErrCycleDetected) {
		t.Fatalf("expected stable failure, got %v", err2)
	}
}

func TestEvaluate_FundamentalShortCircuitBreaksApparentCycle(t *testing.T) {
	// Fundamentals may reference each other; evaluation returns the seed
	// instead of recursing, so the mutual reference never becomes a cycle.
	g := mustGraph(t, []Def{
		Fundamental("c_3", 0.0397887, "phi_0"),
		Fundamental("phi_0", 0.053171, "c_3"),
		Derived("ratio", func(deps map[string]float64) (float64, error) {
			return deps["phi_0"] / deps["c_3"], nil
		}, "phi_0", "c_3"),
	})
	e := mustEvaluator(t, g)

	v, err := e.Value("ratio")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if math.Abs(v-0.053171/0.0397887) > 1e-15 {
		t.Fatalf("unexpected ratio %v", v)
	}
}

func TestEvaluate_ComputeErrorWrapped(t *testing.T) {
	g := mustGraph(t, []Def{
		Derived("bad", func(map[string]float64) (float64, error) {
			return 0, fmt.Errorf("negative mass")
		}),
	})
	e := mustEvaluator(t, g)

	_, err := e.Value("bad")
	if !errors.Is(err, ErrComputeFailed) {
		t.Fatalf("expected ErrComputeFailed, got %v", err)
	}
	if s, _ := e.Status("bad"); s != StatusFailed {
		t.Fatalf("expected FAILED, got %v", s)
	}
	if got := e.ComputeCalls("bad"); got != 1 {
		t.Fatalf("failed compute must not rerun, got %d calls", got)
	}
}

func TestEvaluate_ComputePanicRecovered(t *testing.T) {
	g := mustGraph(t, []Def{
		Derived("explode", func(map[string]float64) (float64, error) {
			panic("division by zero")
		}),
	})
	e := mustEvaluator(t, g)

	_, err := e.Value("explode")
	if !errors.Is(err, ErrComputeFailed) {
		t.Fatalf("expected ErrComputeFailed, got %v", err)
	}
}

func TestEvaluate_FailurePropagatesAsMissingDependency(t *testing.T) {
	g := mustGraph(t, []Def{
		Derived("base", func(map[string]float64) (float64, error) {
			return 0, fmt.Errorf("boom")
		}),
		Derived("child", func(deps map[string]float64) (float64, error) {
			return deps["base"] + 1, nil
		}, "base"),
	})
	e := mustEvaluator(t, g)

	_, err := e.Value("child")
	if !errors.Is(err, ErrMissingDependency) {
		t.Fatalf("expected ErrMissingDependency for child, got %v", err)
	}
	if got := e.ComputeCalls("child"); got != 0 {
		t.Fatalf("child compute must not run on failed dependency, got %d calls", got)
	}
}

func TestEvaluateAll_PartialFailure(t *testing.T) {
	g := mustGraph(t, []Def{
		Fundamental("x", 2),
		Derived("ok", func(deps map[string]float64) (float64, error) {
			return deps["x"] * deps["x"], nil
		}, "x"),
		Derived("broken", func(map[string]float64) (float64, error) {
			return 0, fmt.Errorf("no convergence")
		}),
		Derived("downstream", func(deps map[string]float64) (float64, error) {
			return deps["broken"], nil
		}, "broken"),
	})
	e := mustEvaluator(t, g)

	sum := e.EvaluateAll()
	if sum.Done != 2 || sum.Failed != 2 {
		t.Fatalf("expected 2 done / 2 failed, got %d / %d", sum.Done, sum.Failed)
	}
	if len(sum.Results) != 4 {
		t.Fatalf("expected one result per constant, got %d", len(sum.Results))
	}
	// Results come back in declaration order.
	wantOrder := []string{"x", "ok", "broken", "downstream"}
	for i, r := range sum.Results {
		if r.ID != wantOrder[i] {
			t.Fatalf("expected declaration order %v, got %v at %d", wantOrder, r.ID, i)
		}
	}
	byID := map[string]Result{}
	for _, r := range sum.Results {
		byID[r.ID] = r
	}
	if byID["ok"].Status != StatusDone || byID["ok"].Value != 4 {
		t.Fatalf("expected ok = 4 DONE, got %+v", byID["ok"])
	}
	if !errors.Is(byID["broken"].Err, ErrComputeFailed) {
		t.Fatalf("expected ErrComputeFailed for broken, got %v", byID["broken"].Err)
	}
	if !errors.Is(byID["downstream"].Err, ErrMissingDependency) {
		t.Fatalf("expected ErrMissingDependency for downstream, got %v", byID["downstream"].Err)
	}
}

func TestEvaluator_FreshRunRecomputes(t *testing.T) {
	calls := 0
	g := mustGraph(t, []Def{
		Derived("counted", func(map[string]float64) (float64, error) {
			calls++
			return float64(calls), nil
		}),
	})

	e1 := mustEvaluator(t, g)
	if v, err := e1.Value("counted"); err != nil || v != 1 {
		t.Fatalf("first run: v=%v err=%v", v, err)
	}

	e2 := mustEvaluator(t, g)
	if v, err := e2.Value("counted"); err != nil || v != 2 {
		t.Fatalf("second run should recompute: v=%v err=%v", v, err)
	}
}

package graph

// ComputeFn produces a constant's value from its resolved dependencies.
//
// The map is keyed by dependency id and contains exactly the ids the
// constant declared, each guaranteed Done before the call.
type ComputeFn func(deps map[string]float64) (float64, error)

// Def is a single constant definition supplied at graph-build time.
//
// A Def is one of two tagged variants:
//
//   - Fundamental: carries a seed value and no compute function. Fundamentals
//     may declare apparent dependencies on each other; evaluation
//     short-circuits to the seed instead of recursing, so such references
//     never form a true cycle.
//   - Derived: carries a compute function over its declared dependencies.
type Def struct {
	ID          string
	DependsOn   []string
	Fundamental bool
	Seed        float64
	Compute     ComputeFn
}

// Fundamental declares a seed constant. Declared dependencies, if any, are
// apparent references only: they appear in the graph view but are never
// recursed into.
func Fundamental(id string, seed float64, deps ...string) Def {
	return Def{ID: id, Seed: seed, Fundamental: true, DependsOn: deps}
}

// Derived declares a computed constant over the given dependency ids.
func Derived(id string, compute ComputeFn, deps ...string) Def {
	return Def{ID: id, Compute: compute, DependsOn: deps}
}

// node is the immutable in-graph representation of a Def.
type node struct {
	def   Def
	index int // declaration order, used for deterministic tie-breaking
}

// Status is the per-run evaluation state of a constant.
type Status string

const (
	StatusUnevaluated Status = "UNEVALUATED"
	StatusEvaluating  Status = "EVALUATING"
	StatusDone        Status = "DONE"
	StatusFailed      Status = "FAILED"
)

package graph

import (
	"container/heap"
	"sync"
)

// Edge is a dependency relation: To depends on From, so From must be Done
// before To's compute function runs.
type Edge struct {
	From string
	To   string
}

// View is a read-only snapshot of the graph structure for visualization
// consumers. Callers may not mutate the underlying graph through it.
type View struct {
	Nodes       []string
	Edges       []Edge
	Fundamental map[string]bool
}

// Graph is an immutable, validated registry of constant definitions.
//
// It is safe for concurrent read access. All evaluation state lives in the
// Evaluator, so the same Graph can back any number of evaluation runs.
type Graph struct {
	nodesByID map[string]*node
	nodes     []*node // declaration order

	// outgoing[i] lists dependents of node i; incoming[i] lists the true
	// (recursed-into) dependencies. Apparent dependencies of fundamentals
	// appear in the view but not here.
	outgoing [][]int
	incoming [][]int

	viewOnce sync.Once
	view     View
}

// New builds and validates a Graph from constant definitions.
//
// Validation rejects:
//   - empty or duplicate ids
//   - a derived constant with no compute function
//   - a fundamental constant with a compute function
//   - dependency references to unknown ids
//
// Cycles are not rejected here: a cycle confined to the fundamental set is
// legal (evaluation short-circuits it), and a disallowed cycle among derived
// constants is reported per-constant at evaluation time so that independent
// branches still evaluate.
func New(defs []Def) (*Graph, error) {
	if len(defs) == 0 {
		return nil, invalidf("no constant definitions")
	}

	nodesByID := make(map[string]*node, len(defs))
	nodes := make([]*node, 0, len(defs))
	for _, d := range defs {
		if d.ID == "" {
			return nil, invalidf("constant id is required")
		}
		if _, exists := nodesByID[d.ID]; exists {
			return nil, invalidf("duplicate constant id: %q", d.ID)
		}
		if d.Fundamental && d.Compute != nil {
			return nil, invalidf("fundamental constant %q has a compute function", d.ID)
		}
		if !d.Fundamental && d.Compute == nil {
			return nil, invalidf("derived constant %q has no compute function", d.ID)
		}
		n := &node{def: d, index: len(nodes)}
		nodesByID[d.ID] = n
		nodes = append(nodes, n)
	}

	for _, n := range nodes {
		for _, dep := range n.def.DependsOn {
			if _, ok := nodesByID[dep]; !ok {
				return nil, &GraphError{
					Kind: ErrMissingDependency,
					Msg:  "constant " + n.def.ID + " references unknown id " + dep,
				}
			}
		}
	}

	g := &Graph{nodesByID: nodesByID, nodes: nodes}
	g.outgoing = make([][]int, len(nodes))
	g.incoming = make([][]int, len(nodes))
	for _, n := range nodes {
		if n.def.Fundamental {
			continue // apparent references only; never recursed
		}
		for _, dep := range n.def.DependsOn {
			from := nodesByID[dep].index
			g.outgoing[from] = append(g.outgoing[from], n.index)
			g.incoming[n.index] = append(g.incoming[n.index], from)
		}
	}

	return g, nil
}

// Contains reports whether id is defined in the graph.
func (g *Graph) Contains(id string) bool {
	_, ok := g.nodesByID[id]
	return ok
}

// IDs returns all constant ids in declaration order.
func (g *Graph) IDs() []string {
	out := make([]string, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = n.def.ID
	}
	return out
}

// View returns the nodes-and-edges snapshot, computed lazily from the
// dependency sets. Apparent dependencies of fundamentals are included so the
// visualization shows the full declared structure.
func (g *Graph) View() View {
	g.viewOnce.Do(func() {
		nodes := g.IDs()
		var edges []Edge
		for _, n := range g.nodes {
			for _, dep := range n.def.DependsOn {
				edges = append(edges, Edge{From: dep, To: n.def.ID})
			}
		}
		fundamental := make(map[string]bool, len(g.nodes))
		for _, n := range g.nodes {
			if n.def.Fundamental {
				fundamental[n.def.ID] = true
			}
		}
		g.view = View{Nodes: nodes, Edges: edges, Fundamental: fundamental}
	})
	out := View{
		Nodes:       make([]string, len(g.view.Nodes)),
		Edges:       make([]Edge, len(g.view.Edges)),
		Fundamental: make(map[string]bool, len(g.view.Fundamental)),
	}
	copy(out.Nodes, g.view.Nodes)
	copy(out.Edges, g.view.Edges)
	for id := range g.view.Fundamental {
		out.Fundamental[id] = true
	}
	return out
}

type intMinHeap []int

func (h intMinHeap) Len() int           { return len(h) }
func (h intMinHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h intMinHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *intMinHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *intMinHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// TopologicalOrder returns a deterministic dependency-respecting ordering of
// constant ids (Kahn's algorithm; ties broken by declaration order).
//
// Constants caught in a disallowed cycle are omitted; they can never be
// scheduled and will fail individually at evaluation time.
func (g *Graph) TopologicalOrder() []string {
	indeg := make([]int, len(g.nodes))
	for i := range g.nodes {
		indeg[i] = len(g.incoming[i])
	}

	ready := &intMinHeap{}
	heap.Init(ready)
	for i := range indeg {
		if indeg[i] == 0 {
			heap.Push(ready, i)
		}
	}

	out := make([]string, 0, len(g.nodes))
	for ready.Len() > 0 {
		i := heap.Pop(ready).(int)
		out = append(out, g.nodes[i].def.ID)
		for _, m := range g.outgoing[i] {
			indeg[m]--
			if indeg[m] == 0 {
				heap.Push(ready, m)
			}
		}
	}
	return out
}

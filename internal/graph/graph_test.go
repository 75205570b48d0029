package graph

import (
	"errors"
	"testing"
)

func constOne(map[string]float64) (float64, error) { return 1, nil }

func TestGraphConstruction_SingleFundamental(t *testing.T) {
	g, err := New([]Def{Fundamental("c_3", 0.0397887)})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !g.Contains("c_3") {
		t.Fatalf("expected graph to contain c_3")
	}
	if got := g.TopologicalOrder(); len(got) != 1 || got[0] != "c_3" {
		t.Fatalf("unexpected topo order: %v", got)
	}
}

func TestGraphConstruction_RejectsEmpty(t *testing.T) {
	_, err := New(nil)
	if !errors.Is(err, ErrInvalidGraph) {
		t.Fatalf("expected ErrInvalidGraph, got %v", err)
	}
}

func TestGraphConstruction_RejectsDuplicateID(t *testing.T) {
	_, err := New([]Def{
		Fundamental("phi_0", 0.053171),
		Fundamental("phi_0", 0.05),
	})
	if !errors.Is(err, ErrInvalidGraph) {
		t.Fatalf("expected ErrInvalidGraph, got %v", err)
	}
}

func TestGraphConstruction_RejectsMalformedVariants(t *testing.T) {
	cases := []struct {
		name string
		def  Def
	}{
		{"fundamental with compute", Def{ID: "a", Fundamental: true, Seed: 1, Compute: constOne}},
		{"derived without compute", Def{ID: "a"}},
		{"empty id", Def{Fundamental: true, Seed: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New([]Def{tc.def})
			if !errors.Is(err, ErrInvalidGraph) {
				t.Fatalf("expected ErrInvalidGraph, got %v", err)
			}
		})
	}
}

func TestGraphConstruction_RejectsUnknownDependency(t *testing.T) {
	_, err := New([]Def{
		Derived("m_proton", constOne, "phi_0", "nope"),
		Fundamental("phi_0", 0.053171),
	})
	if !errors.Is(err, ErrMissingDependency) {
		t.Fatalf("expected ErrMissingDependency, got %v", err)
	}
}

func TestGraphConstruction_CycleAllowedAtBuildTime(t *testing.T) {
	// A cycle among derived constants is a per-constant evaluation failure,
	// not a construction failure: independent branches must stay evaluable.
	g, err := New([]Def{
		Derived("a", constOne, "b"),
		Derived("b", constOne, "a"),
		Fundamental("seed", 2),
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	order := g.TopologicalOrder()
	if len(order) != 1 || order[0] != "seed" {
		t.Fatalf("expected only cycle-free nodes in topo order, got %v", order)
	}
}

func TestTopologicalOrder_RespectsDependencies(t *testing.T) {
	g, err := New([]Def{
		Derived("m_proton", constOne, "phi_0", "m_planck"),
		Derived("e_knee", constOne, "m_proton"),
		Fundamental("m_planck", 1.2209e19),
		Fundamental("phi_0", 0.053171),
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	pos := map[string]int{}
	for i, id := range g.TopologicalOrder() {
		pos[id] = i
	}
	if !(pos["phi_0"] < pos["m_proton"] && pos["m_planck"] < pos["m_proton"] && pos["m_proton"] < pos["e_knee"]) {
		t.Fatalf("topo order violates dependencies: %v", pos)
	}
}

func TestTopologicalOrder_TieBreakByDeclarationOrder(t *testing.T) {
	g, err := New([]Def{
		Fundamental("b", 1),
		Fundamental("a", 2),
		Fundamental("c", 3),
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	want := []string{"b", "a", "c"}
	got := g.TopologicalOrder()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected declaration order %v, got %v", want, got)
		}
	}
}

func TestView_IncludesApparentFundamentalEdges(t *testing.T) {
	g, err := New([]Def{
		Fundamental("phi_0", 0.053171, "c_3"),
		Fundamental("c_3", 0.0397887),
		Derived("w_boson", constOne, "phi_0"),
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	v := g.View()
	if len(v.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %v", v.Nodes)
	}
	if !v.Fundamental["phi_0"] || !v.Fundamental["c_3"] || v.Fundamental["w_boson"] {
		t.Fatalf("unexpected fundamental flags: %v", v.Fundamental)
	}
	hasEdge := func(from, to string) bool {
		for _, e := range v.Edges {
			if e.From == from && e.To == to {
				return true
			}
		}
		return false
	}
	if !hasEdge("c_3", "phi_0") {
		t.Fatalf("expected apparent edge c_3 -> phi_0 in view: %v", v.Edges)
	}
	if !hasEdge("phi_0", "w_boson") {
		t.Fatalf("expected edge phi_0 -> w_boson in view: %v", v.Edges)
	}

	// The view is a copy: mutating it must not leak into the graph.
	v.Nodes[0] = "mutated"
	if g.View().Nodes[0] == "mutated" {
		t.Fatalf("view mutation leaked into graph")
	}
}

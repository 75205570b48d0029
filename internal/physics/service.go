package physics

import (
	"log/slog"
	"math"

	"topoconst/internal/graph"
	"topoconst/internal/rge"
)

// Service wires the constant graph, its evaluator and the RG machinery into
// the operations consumers use: value lookup, batch evaluation, graph
// export, couplings at a scale and the special-scale catalogue.
//
// One Service owns one Evaluator, so cached results live exactly as long as
// the Service.
type Service struct {
	graph   *graph.Graph
	eval    *graph.Evaluator
	solver  *rge.Solver
	logger  *slog.Logger
	records []Record
	byID    map[string]Record
}

// NewService builds the full catalogue over the Standard Model boundary
// conditions. logger may be nil.
func NewService(logger *slog.Logger) (*Service, error) {
	records, err := LoadRecords()
	if err != nil {
		return nil, err
	}

	model := rge.NewBetaModel(rge.StandardModelCoefficients())
	integ := rge.NewIntegrator(model, rge.TopYukawa, rge.DefaultIntegratorConfig())
	solver := rge.NewSolver(integ, rge.BoundaryState(), rge.TwoLoop, rge.DefaultSolverConfig())

	defs, err := BuildDefs(records, solver)
	if err != nil {
		return nil, err
	}
	g, err := graph.New(defs)
	if err != nil {
		return nil, err
	}
	eval, err := graph.NewEvaluator(g, logger)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]Record, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}
	return &Service{
		graph:   g,
		eval:    eval,
		solver:  solver,
		logger:  logger,
		records: records,
		byID:    byID,
	}, nil
}

// GetValue returns the evaluated value for id. Failed constants return the
// captured error; no partial numeric value is ever surfaced.
func (s *Service) GetValue(id string) (float64, error) {
	return s.eval.Value(id)
}

// Record returns the catalogue metadata for id.
func (s *Service) Record(id string) (Record, bool) {
	r, ok := s.byID[id]
	return r, ok
}

// GraphView exposes the dependency structure for visualization consumers.
func (s *Service) GraphView() graph.View {
	return s.graph.View()
}

// Measurement is one row of a batch evaluation report: the evaluated value
// joined with the catalogue's reference metadata.
type Measurement struct {
	ID          string
	Description string
	Unit        string
	Status      graph.Status
	Value       float64
	Reference   *float64
	RelativeErr *float64
	Err         error
}

// EvaluateAll evaluates the whole catalogue and reports per-id outcomes in
// catalogue order. Independent constants still evaluate when others fail.
func (s *Service) EvaluateAll() []Measurement {
	sum := s.eval.EvaluateAll()

	out := make([]Measurement, 0, len(sum.Results))
	for _, res := range sum.Results {
		rec := s.byID[res.ID]
		m := Measurement{
			ID:          res.ID,
			Description: rec.Description,
			Unit:        rec.Unit,
			Status:      res.Status,
			Value:       res.Value,
			Reference:   rec.Experimental,
			Err:         res.Err,
		}
		if res.Status == graph.StatusDone && rec.Experimental != nil && *rec.Experimental != 0 {
			rel := math.Abs(res.Value-*rec.Experimental) / math.Abs(*rec.Experimental)
			m.RelativeErr = &rel
		}
		out = append(out, m)
	}
	return out
}

// ScaleReport bundles the couplings and derived observables at one scale.
type ScaleReport struct {
	Scale      float64
	G1, G2, G3 float64
	AlphaEM    float64
	AlphaS     float64
	Sin2ThetaW float64
	Alpha1Inv  float64
	Alpha2Inv  float64
	Alpha3Inv  float64
	YTop       float64
}

// CouplingsAtScale evolves the boundary couplings to the given scale and
// derives the standard observables there.
func (s *Service) CouplingsAtScale(scale float64) (ScaleReport, error) {
	st, err := s.solver.CouplingsAt(scale)
	if err != nil {
		return ScaleReport{}, err
	}
	return ScaleReport{
		Scale:      scale,
		G1:         st.G1,
		G2:         st.G2,
		G3:         st.G3,
		AlphaEM:    st.AlphaEM(),
		AlphaS:     st.G3 * st.G3 / (4 * math.Pi),
		Sin2ThetaW: st.Sin2ThetaW(),
		Alpha1Inv:  st.Alpha1Inv(),
		Alpha2Inv:  st.Alpha2Inv(),
		Alpha3Inv:  st.Alpha3Inv(),
		YTop:       rge.TopYukawa(scale),
	}, nil
}

// SpecialScales locates the named scales in the RG flow. Searches whose
// bracket does not contain the feature are logged and omitted, so the map
// holds only scales that actually exist in the flow.
func (s *Service) SpecialScales() map[string]float64 {
	seeds := fundamentalSeeds()
	phi0 := seeds["phi_0"]
	c3 := seeds["c_3"]

	alpha3 := func(mu float64) (float64, error) {
		st, err := s.solver.CouplingsAt(mu)
		if err != nil {
			return 0, err
		}
		return st.G3 * st.G3 / (4 * math.Pi), nil
	}
	sin2 := func(mu float64) (float64, error) {
		st, err := s.solver.CouplingsAt(mu)
		if err != nil {
			return 0, err
		}
		return st.Sin2ThetaW(), nil
	}

	out := make(map[string]float64)
	searches := []struct {
		name    string
		obs     rge.Observable
		target  float64
		bracket rge.Bracket
	}{
		{"alpha_s_equals_phi0", alpha3, phi0, rge.Bracket{Low: 1e2, High: 1e8}},
		{"alpha_s_equals_c3", alpha3, c3, rge.Bracket{Low: 1e2, High: 1e10}},
		{"sin2_theta_w_equals_phi0", sin2, phi0, rge.Bracket{Low: 1e10, High: 1e16}},
	}
	for _, sr := range searches {
		scale, err := s.solver.FindScaleWhere(sr.obs, sr.target, sr.bracket, 1e-8)
		if err != nil {
			if s.logger != nil {
				s.logger.Debug("special scale not found", "name", sr.name, "err", err)
			}
			continue
		}
		out[sr.name] = scale
	}

	if scale, _, err := s.solver.FindUnificationScale(rge.Bracket{Low: 1e14, High: 1e18}); err == nil {
		out["gut_scale"] = scale
	} else if s.logger != nil {
		s.logger.Warn("unification search failed", "err", err)
	}
	return out
}

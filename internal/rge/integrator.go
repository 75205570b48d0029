package rge

import "math"

// YukawaFunc supplies the top-Yukawa coupling at a given scale in GeV.
type YukawaFunc func(scale float64) float64

// IntegratorConfig bounds one integration.
type IntegratorConfig struct {
	RelTol      float64 // per-step relative error tolerance
	AbsTol      float64 // per-step absolute error tolerance
	InitialStep float64 // first step in t = ln(μ/μ0)
	MinStep     float64 // below this the integration is declared diverged
	MaxSteps    int     // accepted-step budget
	GMax        float64 // upper edge of the perturbative domain
}

// DefaultIntegratorConfig returns budgets suited to spans of up to ~40
// e-folds in scale (M_Z to well past the Planck mass).
func DefaultIntegratorConfig() IntegratorConfig {
	return IntegratorConfig{
		RelTol:      1e-10,
		AbsTol:      1e-12,
		InitialStep: 0.1,
		MinStep:     1e-12,
		MaxSteps:    100000,
		GMax:        math.Sqrt(4 * math.Pi),
	}
}

// Integrator evolves a CouplingState across scales by integrating the beta
// functions in the log-scale variable t = ln(μ/μ0), so one integration spans
// arbitrary scale ratios without step-size blow-up.
//
// Integrators are reentrant: Evolve carries no mutable state between calls.
type Integrator struct {
	model  *BetaModel
	yTop   YukawaFunc
	config IntegratorConfig
}

// NewIntegrator constructs an integrator. yTop is evaluated at the current
// scale during integration; pass TopYukawa for the Standard Model input.
func NewIntegrator(model *BetaModel, yTop YukawaFunc, cfg IntegratorConfig) *Integrator {
	return &Integrator{model: model, yTop: yTop, config: cfg}
}

// Cash-Karp embedded Runge-Kutta 4(5) tableau.
var (
	ckA = [6]float64{0, 1.0 / 5, 3.0 / 10, 3.0 / 5, 1, 7.0 / 8}
	ckB = [6][5]float64{
		{},
		{1.0 / 5},
		{3.0 / 40, 9.0 / 40},
		{3.0 / 10, -9.0 / 10, 6.0 / 5},
		{-11.0 / 54, 5.0 / 2, -70.0 / 27, 35.0 / 27},
		{1631.0 / 55296, 175.0 / 512, 575.0 / 13824, 44275.0 / 110592, 253.0 / 4096},
	}
	ckC5 = [6]float64{37.0 / 378, 0, 250.0 / 621, 125.0 / 594, 0, 512.0 / 1771}
	ckC4 = [6]float64{2825.0 / 27648, 0, 18575.0 / 48384, 13525.0 / 55296, 277.0 / 14336, 1.0 / 4}
)

// Evolve integrates the couplings from initial.Scale to targetScale at the
// given order and returns the state at the target.
//
// Forward and backward evolution are handled identically; evolving to the
// initial scale returns the initial state. Failures:
//   - ErrNonPerturbative if any coupling leaves (0, GMax) along the way
//   - ErrIntegrationDiverged if the step budget is exhausted or the adaptive
//     step underflows MinStep
func (in *Integrator) Evolve(initial CouplingState, targetScale float64, order Order) (CouplingState, error) {
	if initial.Scale <= 0 || targetScale <= 0 {
		return CouplingState{}, solvef(ErrIntegrationDiverged, "scales must be positive (from %g to %g)", initial.Scale, targetScale)
	}
	if !initial.Perturbative(in.config.GMax) {
		return CouplingState{}, solvef(ErrNonPerturbative, "initial state at %g GeV outside (0, %g)", initial.Scale, in.config.GMax)
	}

	tEnd := math.Log(targetScale / initial.Scale)
	if tEnd == 0 {
		out := initial
		out.Scale = targetScale
		return out, nil
	}

	dir := 1.0
	if tEnd < 0 {
		dir = -1.0
	}

	y := initial.couplings()
	t := 0.0
	h := math.Min(in.config.InitialStep, math.Abs(tEnd)) * dir

	for step := 0; ; step++ {
		if step >= in.config.MaxSteps {
			return CouplingState{}, solvef(ErrIntegrationDiverged, "step budget %d exhausted at %g GeV", in.config.MaxSteps, initial.Scale*math.Exp(t))
		}
		if (t+h-tEnd)*dir > 0 {
			h = tEnd - t
		}

		yNext, errNorm, ok := in.step(initial.Scale, t, h, y, order)
		if !ok {
			return CouplingState{}, solvef(ErrNonPerturbative, "coupling left (0, %g) near %g GeV", in.config.GMax, initial.Scale*math.Exp(t))
		}

		if errNorm <= 1 {
			t += h
			y = yNext
			for _, g := range y {
				if !(g > 0 && g < in.config.GMax) || math.IsNaN(g) {
					return CouplingState{}, solvef(ErrNonPerturbative, "coupling left (0, %g) at %g GeV", in.config.GMax, initial.Scale*math.Exp(t))
				}
			}
			if sameT(t, tEnd) {
				return CouplingState{Scale: targetScale, G1: y[0], G2: y[1], G3: y[2]}, nil
			}
		}

		// Standard fifth-order step-size controller, growth clamped to
		// [0.2, 5] to keep the controller stable.
		factor := 5.0
		if errNorm > 0 {
			factor = 0.9 * math.Pow(errNorm, -0.2)
			factor = math.Min(5, math.Max(0.2, factor))
		}
		h *= factor
		if math.Abs(h) < in.config.MinStep {
			return CouplingState{}, solvef(ErrIntegrationDiverged, "step underflow near %g GeV", initial.Scale*math.Exp(t))
		}
	}
}

// step takes one Cash-Karp trial step from t with size h and returns the
// fifth-order solution plus the normalized embedded error estimate. ok is
// false when a stage produced a non-finite derivative.
func (in *Integrator) step(scale0, t, h float64, y [3]float64, order Order) (out [3]float64, errNorm float64, ok bool) {
	var k [6][3]float64
	for stage := 0; stage < 6; stage++ {
		ys := y
		for j := 0; j < stage; j++ {
			for i := 0; i < 3; i++ {
				ys[i] += h * ckB[stage][j] * k[j][i]
			}
		}
		ts := t + ckA[stage]*h
		mu := scale0 * math.Exp(ts)
		state := CouplingState{Scale: mu, G1: ys[0], G2: ys[1], G3: ys[2]}
		if !state.Finite() {
			return out, 0, false
		}
		d1, d2, d3 := in.model.Derivative(state, in.yTop(mu), order)
		k[stage] = [3]float64{d1, d2, d3}
	}

	for i := 0; i < 3; i++ {
		var sum5, sum4 float64
		for stage := 0; stage < 6; stage++ {
			sum5 += ckC5[stage] * k[stage][i]
			sum4 += ckC4[stage] * k[stage][i]
		}
		out[i] = y[i] + h*sum5
		delta := h * (sum5 - sum4)
		sc := in.config.AbsTol + in.config.RelTol*math.Abs(y[i])
		errNorm = math.Max(errNorm, math.Abs(delta)/sc)
	}
	if math.IsNaN(errNorm) {
		return out, 0, false
	}
	return out, errNorm, true
}

// sameT reports whether t has reached tEnd within integration round-off.
func sameT(t, tEnd float64) bool {
	return math.Abs(t-tEnd) <= 1e-14*math.Max(1, math.Abs(tEnd))
}

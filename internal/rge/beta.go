package rge

import "math"

// BetaCoefficients holds the fixed Standard Model beta-function coefficients
// for U(1)_Y × SU(2)_L × SU(3)_C with three generations. Immutable; loaded
// once at construction.
type BetaCoefficients struct {
	// OneLoop holds b_i.
	OneLoop [3]float64
	// TwoLoop holds B_ij: the contribution of g_j to the beta function of
	// g_i.
	TwoLoop [3][3]float64
	// YukawaTop holds the top-Yukawa contribution coefficient per gauge
	// coupling.
	YukawaTop [3]float64
}

// StandardModelCoefficients returns the SM coefficients with GUT-normalized
// hypercharge.
func StandardModelCoefficients() BetaCoefficients {
	return BetaCoefficients{
		OneLoop: [3]float64{41.0 / 10.0, -19.0 / 6.0, -7.0},
		TwoLoop: [3][3]float64{
			{199.0 / 50.0, 27.0 / 10.0, 44.0 / 5.0},
			{9.0 / 10.0, 35.0 / 6.0, 12.0},
			{11.0 / 10.0, 9.0 / 2.0, -26.0},
		},
		YukawaTop: [3]float64{-17.0 / 20.0, -3.0, -8.0},
	}
}

// BetaModel computes coupling derivatives with respect to t = ln(μ/μ0).
//
// It is a pure function of its inputs and the fixed coefficients: no
// clamping, no side effects. Callers are responsible for detecting
// excursions outside the perturbative domain.
type BetaModel struct {
	coeff BetaCoefficients
}

// NewBetaModel constructs a model over the given coefficients.
func NewBetaModel(c BetaCoefficients) *BetaModel { return &BetaModel{coeff: c} }

// Derivative returns (dg1/dt, dg2/dt, dg3/dt) at the given state.
//
// yTop is the top-Yukawa coupling at the state's scale; it only enters at
// two loops.
func (m *BetaModel) Derivative(s CouplingState, yTop float64, order Order) (dg1, dg2, dg3 float64) {
	g := s.couplings()
	const loopFactor = 1.0 / (16 * math.Pi * math.Pi)

	var d [3]float64
	for i := 0; i < 3; i++ {
		d[i] = m.coeff.OneLoop[i] * g[i] * g[i] * g[i] * loopFactor
	}

	if order == TwoLoop {
		const loopFactor2 = loopFactor * loopFactor
		yt2 := yTop * yTop
		for i := 0; i < 3; i++ {
			gi3 := g[i] * g[i] * g[i]
			var gauge float64
			for j := 0; j < 3; j++ {
				gauge += m.coeff.TwoLoop[i][j] * g[j] * g[j]
			}
			d[i] += gi3 * (gauge + m.coeff.YukawaTop[i]*yt2) * loopFactor2
		}
	}

	return d[0], d[1], d[2]
}

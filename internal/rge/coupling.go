package rge

import "math"

// Boundary conditions and experimental inputs at the Z pole.
const (
	MZ     = 91.1876   // Z boson mass, GeV
	MPl    = 1.2209e19 // Planck mass, GeV
	MTop   = 173.0     // top quark mass, GeV
	VHiggs = 246.22    // Higgs VEV, GeV

	AlphaEMMZ    = 1.0 / 127.955 // running EM coupling at M_Z
	Sin2ThetaWMZ = 0.23121       // Weinberg angle at M_Z
	AlphaSMZ     = 0.1181        // strong coupling at M_Z
)

// Order selects the perturbative order of the beta functions.
type Order int

const (
	OneLoop Order = 1
	TwoLoop Order = 2
)

// CouplingState is an immutable snapshot of the three gauge couplings at an
// energy scale. g1 uses GUT normalization.
type CouplingState struct {
	Scale float64 // GeV, > 0
	G1    float64
	G2    float64
	G3    float64
}

// couplings returns the state as an array for the integrator.
func (s CouplingState) couplings() [3]float64 { return [3]float64{s.G1, s.G2, s.G3} }

// Finite reports whether all couplings are finite numbers.
func (s CouplingState) Finite() bool {
	for _, g := range s.couplings() {
		if math.IsNaN(g) || math.IsInf(g, 0) {
			return false
		}
	}
	return true
}

// Perturbative reports whether every coupling lies in (0, gMax).
func (s CouplingState) Perturbative(gMax float64) bool {
	if !s.Finite() {
		return false
	}
	for _, g := range s.couplings() {
		if g <= 0 || g >= gMax {
			return false
		}
	}
	return true
}

// Sin2ThetaW returns the Weinberg angle implied by the state, with GUT
// normalization: sin²θ_W = 3 g1² / (3 g1² + 5 g2²).
func (s CouplingState) Sin2ThetaW() float64 {
	g1sq, g2sq := s.G1*s.G1, s.G2*s.G2
	return 3 * g1sq / (3*g1sq + 5*g2sq)
}

// AlphaEM returns the electromagnetic coupling implied by the state:
// α_em = 3 g1² g2² / (4π (3 g1² + 5 g2²)).
func (s CouplingState) AlphaEM() float64 {
	g1sq, g2sq := s.G1*s.G1, s.G2*s.G2
	return 3 * g1sq * g2sq / (4 * math.Pi * (3*g1sq + 5*g2sq))
}

// Alpha1Inv returns 1/α₁ with GUT normalization.
func (s CouplingState) Alpha1Inv() float64 { return 4 * math.Pi / (s.G1 * s.G1) }

// Alpha2Inv returns 1/α₂.
func (s CouplingState) Alpha2Inv() float64 { return 4 * math.Pi / (s.G2 * s.G2) }

// Alpha3Inv returns 1/α₃.
func (s CouplingState) Alpha3Inv() float64 { return 4 * math.Pi / (s.G3 * s.G3) }

// BoundaryState returns the Standard Model couplings at M_Z derived from the
// experimental α_em, sin²θ_W and α_s inputs.
func BoundaryState() CouplingState {
	return CouplingState{
		Scale: MZ,
		G1:    math.Sqrt(5.0 / 3.0 * 4 * math.Pi * AlphaEMMZ / (1 - Sin2ThetaWMZ)),
		G2:    math.Sqrt(4 * math.Pi * AlphaEMMZ / Sin2ThetaWMZ),
		G3:    math.Sqrt(4 * math.Pi * AlphaSMZ),
	}
}

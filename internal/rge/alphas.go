package rge

import "math"

// QCD beta coefficients for six flavors, dα_s/dlnμ convention
// dα/dlnμ = -b0 α²/(2π) - b1 α³/(8π²).
const (
	qcdB0 = 7.0
	qcdB1 = 26.0
)

// AlphaS returns the strong coupling at scale mu from the analytic two-loop
// solution anchored at α_s(M_Z). Below M_Z the boundary value is returned
// unchanged (thresholds are outside this model's scope).
func AlphaS(mu float64) float64 {
	if mu <= MZ {
		return AlphaSMZ
	}
	t := math.Log(mu / MZ)
	den := 1 + AlphaSMZ*qcdB0*t/(2*math.Pi)
	a := AlphaSMZ / den
	// Two-loop correction to the one-loop solution.
	a *= 1 - (qcdB1/qcdB0)*a*math.Log(den)/(4*math.Pi)
	return a
}

// TopYukawa returns the top-Yukawa coupling at scale mu: the tree-level
// m_t √2 / v relation with the leading QCD correction evaluated at mu.
//
// This is the threshold-dependent Yukawa input the integrator needs; it is
// a function of the current scale, never frozen at the initial one.
func TopYukawa(mu float64) float64 {
	y0 := MTop * math.Sqrt2 / VHiggs
	return y0 * (1 - 4*AlphaS(mu)/(3*math.Pi))
}

// Package physics holds the topological fixed-point constant catalogue: the
// E8 cascade, the correction factors, and the formula registry that turns
// the catalogue into an evaluatable dependency graph.
package physics

import "math"

// Gamma is the E8 cascade attenuation at level n.
func Gamma(n int) float64 {
	fn := float64(n)
	return 0.834 + 0.108*fn + 0.0105*fn*fn
}

// SumGamma sums the attenuation from level start through end inclusive.
func SumGamma(start, end int) float64 {
	var sum float64
	for i := start; i <= end; i++ {
		sum += Gamma(i)
	}
	return sum
}

// PhiN is the cascade VEV at level n, seeded by phi0 at level zero.
func PhiN(phi0 float64, n int) float64 {
	if n <= 0 {
		return phi0
	}
	return phi0 * math.Exp(-SumGamma(0, n-1))
}

// Loop4D applies the one-loop 4D renormalization to a tree-level value.
func Loop4D(tree, c3 float64) float64 { return tree * (1 - 2*c3) }

// KKGeometry applies the first Kaluza-Klein shell correction on S¹.
func KKGeometry(tree, c3 float64) float64 { return tree * (1 - 4*c3) }

// VEVBackreaction applies the radion self-coupling correction with
// strength k.
func VEVBackreaction(tree, phi0 float64, k float64) float64 { return tree * (1 + k*phi0) }

package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGamma_CascadeAttenuation(t *testing.T) {
	assert.InDelta(t, 0.834, Gamma(0), 1e-12)
	assert.InDelta(t, 0.9525, Gamma(1), 1e-12)
	assert.InDelta(t, 0.834+0.108*5+0.0105*25, Gamma(5), 1e-12)

	// Attenuation grows with the level.
	for n := 0; n < 10; n++ {
		assert.Less(t, Gamma(n), Gamma(n+1))
	}
}

func TestSumGamma_MatchesTermwiseSum(t *testing.T) {
	want := Gamma(0) + Gamma(1) + Gamma(2)
	assert.InDelta(t, want, SumGamma(0, 2), 1e-12)
	assert.Equal(t, Gamma(4), SumGamma(4, 4))
	assert.Equal(t, 0.0, SumGamma(3, 2))
}

func TestPhiN_CascadeVEVs(t *testing.T) {
	const phi0 = 0.053171
	assert.Equal(t, phi0, PhiN(phi0, 0))
	assert.Equal(t, phi0, PhiN(phi0, -1))

	// Each level suppresses the VEV by e^{-γ(n)}.
	prev := phi0
	for n := 1; n <= 6; n++ {
		cur := PhiN(phi0, n)
		assert.Less(t, cur, prev)
		prev = cur
	}
	assert.InEpsilon(t, phi0*PhiN(1, 1), PhiN(phi0, 1), 1e-12)
}

func TestCorrectionFactors(t *testing.T) {
	const c3 = 0.0397887
	const phi0 = 0.053171

	assert.InDelta(t, 1-2*c3, Loop4D(1, c3), 1e-12)
	assert.InDelta(t, 1-4*c3, KKGeometry(1, c3), 1e-12)
	assert.InDelta(t, 1+2*phi0, VEVBackreaction(1, phi0, 2), 1e-12)
	assert.InDelta(t, 1-2*phi0, VEVBackreaction(1, phi0, -2), 1e-12)

	// Corrections scale linearly with the tree value.
	assert.InDelta(t, 10*Loop4D(1, c3), Loop4D(10, c3), 1e-12)
}

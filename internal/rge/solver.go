package rge

import "math"

// Bracket is a scale interval in GeV known (or assumed) to contain the
// feature being searched for.
type Bracket struct {
	Low  float64
	High float64
}

// Observable maps a scale in GeV to a scalar, typically by evolving
// couplings there first. Evolution failures propagate out of the search.
type Observable func(scale float64) (float64, error)

// SolverConfig bounds the scale searches.
type SolverConfig struct {
	MaxIterations int // root-finder and minimizer iteration cap
	ScanPoints    int // coarse logarithmic scan resolution for unification
}

// DefaultSolverConfig returns the standard budgets.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{MaxIterations: 100, ScanPoints: 64}
}

// Solver locates special scales in the RG flow. It invokes the integrator
// internally and caches nothing: memoization is the evaluation layer's
// concern. Solvers are pure with respect to external state and reentrant.
type Solver struct {
	integrator *Integrator
	base       CouplingState
	order      Order
	config     SolverConfig
}

// NewSolver constructs a solver that evolves base to candidate scales at the
// given order.
func NewSolver(in *Integrator, base CouplingState, order Order, cfg SolverConfig) *Solver {
	return &Solver{integrator: in, base: base, order: order, config: cfg}
}

// CouplingsAt evolves the solver's base state to the given scale.
func (s *Solver) CouplingsAt(scale float64) (CouplingState, error) {
	return s.integrator.Evolve(s.base, scale, s.order)
}

// FindScaleWhere finds a scale inside the bracket at which the observable
// equals target, within tolerance on the observable value.
//
// The search runs Brent's method on log10(scale), which keeps the iteration
// well conditioned across brackets spanning many decades. Failures:
//   - ErrNoSignChange if observable-target has the same sign at both ends
//   - ErrIterationBudgetExceeded past the configured cap
func (s *Solver) FindScaleWhere(obs Observable, target float64, bracket Bracket, tolerance float64) (float64, error) {
	if bracket.Low <= 0 || bracket.High <= bracket.Low {
		return 0, solvef(ErrNoSignChange, "invalid bracket [%g, %g]", bracket.Low, bracket.High)
	}

	f := func(x float64) (float64, error) {
		v, err := obs(math.Pow(10, x))
		if err != nil {
			return 0, err
		}
		return v - target, nil
	}

	a := math.Log10(bracket.Low)
	b := math.Log10(bracket.High)
	fa, err := f(a)
	if err != nil {
		return 0, err
	}
	fb, err := f(b)
	if err != nil {
		return 0, err
	}
	if (fa > 0 && fb > 0) || (fa < 0 && fb < 0) {
		return 0, solvef(ErrNoSignChange, "f(%g)=%g and f(%g)=%g", bracket.Low, fa, bracket.High, fb)
	}

	// Brent's method: inverse quadratic interpolation guarded by bisection.
	c, fc := b, fb
	var d, e float64
	const eps = 2.220446049250313e-16
	for iter := 0; iter < s.config.MaxIterations; iter++ {
		if (fb > 0 && fc > 0) || (fb < 0 && fc < 0) {
			c, fc = a, fa
			d = b - a
			e = d
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}
		tol1 := 2*eps*math.Abs(b) + 1e-13
		xm := 0.5 * (c - b)
		if math.Abs(fb) <= tolerance || fb == 0 || math.Abs(xm) <= tol1 {
			if math.Abs(fb) > tolerance {
				break
			}
			return math.Pow(10, b), nil
		}
		if math.Abs(e) >= tol1 && math.Abs(fa) > math.Abs(fb) {
			st := fb / fa
			var p, q float64
			if a == c {
				p = 2 * xm * st
				q = 1 - st
			} else {
				q = fa / fc
				r := fb / fc
				p = st * (2*xm*q*(q-r) - (b-a)*(r-1))
				q = (q - 1) * (r - 1) * (st - 1)
			}
			if p > 0 {
				q = -q
			}
			p = math.Abs(p)
			min1 := 3*xm*q - math.Abs(tol1*q)
			min2 := math.Abs(e * q)
			if 2*p < math.Min(min1, min2) {
				e = d
				d = p / q
			} else {
				d = xm
				e = d
			}
		} else {
			d = xm
			e = d
		}
		a, fa = b, fb
		if math.Abs(d) > tol1 {
			b += d
		} else {
			b += math.Copysign(tol1, xm)
		}
		fb, err = f(b)
		if err != nil {
			return 0, err
		}
	}
	return 0, solvef(ErrIterationBudgetExceeded, "no root within %d iterations", s.config.MaxIterations)
}

// Spread is the non-negative unification metric: the sum of squared pairwise
// coupling differences at the given scale.
func (s *Solver) Spread(scale float64) (float64, error) {
	st, err := s.CouplingsAt(scale)
	if err != nil {
		return 0, err
	}
	d12 := st.G1 - st.G2
	d23 := st.G2 - st.G3
	d13 := st.G1 - st.G3
	return d12*d12 + d23*d23 + d13*d13, nil
}

// FindUnificationScale minimizes the spread metric over the search range: a
// coarse logarithmic scan seeds a bounded golden-section refinement.
//
// Tie-break: the scan walks scales in ascending order and only a strictly
// smaller spread displaces the incumbent, so among near-equal minima the
// lowest scale wins.
func (s *Solver) FindUnificationScale(search Bracket) (float64, CouplingState, error) {
	if search.Low <= 0 || search.High <= search.Low {
		return 0, CouplingState{}, solvef(ErrNoSignChange, "invalid search range [%g, %g]", search.Low, search.High)
	}

	lo := math.Log10(search.Low)
	hi := math.Log10(search.High)
	n := s.config.ScanPoints
	if n < 3 {
		n = 3
	}

	bestIdx := -1
	bestVal := math.Inf(1)
	var lastErr error
	xs := make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i] = lo + (hi-lo)*float64(i)/float64(n-1)
		v, err := s.Spread(math.Pow(10, xs[i]))
		if err != nil {
			lastErr = err
			continue
		}
		if v < bestVal {
			bestVal = v
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return 0, CouplingState{}, lastErr
	}

	a := xs[max(0, bestIdx-1)]
	b := xs[min(n-1, bestIdx+1)]

	// Golden-section refinement; on exact ties the upper half is discarded,
	// biasing toward the lower scale.
	const gr = 0.6180339887498949
	c := b - gr*(b-a)
	d := a + gr*(b-a)
	fc, err := s.Spread(math.Pow(10, c))
	if err != nil {
		return 0, CouplingState{}, err
	}
	fd, err := s.Spread(math.Pow(10, d))
	if err != nil {
		return 0, CouplingState{}, err
	}
	for iter := 0; iter < s.config.MaxIterations && b-a > 1e-10; iter++ {
		if fc <= fd {
			b, d, fd = d, c, fc
			c = b - gr*(b-a)
			fc, err = s.Spread(math.Pow(10, c))
		} else {
			a, c, fc = c, d, fd
			d = a + gr*(b-a)
			fd, err = s.Spread(math.Pow(10, d))
		}
		if err != nil {
			return 0, CouplingState{}, err
		}
	}

	scale := math.Pow(10, 0.5*(a+b))
	state, err := s.CouplingsAt(scale)
	if err != nil {
		return 0, CouplingState{}, err
	}
	return scale, state, nil
}

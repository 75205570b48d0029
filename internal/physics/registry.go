package physics

import (
	"fmt"
	"math"

	"topoconst/internal/graph"
	"topoconst/internal/rge"
)

// Physical conversion constants used by the formula registry.
const (
	hbarJouleSecond = 1.054571817e-34 // J s
	hbarGeVSecond   = 6.582119569e-25 // GeV s
	geVToJoule      = 1.60218e-10
	planckLength    = 1.616e-35   // m
	planckTempK     = 1.416784e32 // K
	hubbleRate      = 2.2e-18     // s^-1
	speedOfLight    = 299792458.0 // m/s
	secondsPerYear  = 365.25 * 24 * 3600
	fPiMeV          = 93.0
	mPiMeV          = 135.0

	// Top Yukawa at the RG fixed point, y_t ≈ 1 - ε.
	topYukawaFixedPoint = 0.935
)

// fundamentalSeeds returns the seed value per fundamental constant id.
func fundamentalSeeds() map[string]float64 {
	return map[string]float64{
		"c_3":             1 / (8 * math.Pi),
		"phi_0":           0.053171,
		"m_planck":        rge.MPl,
		"alpha_em":        1 / 137.035999084,
		"m_z":             rge.MZ,
		"v_higgs":         rge.VHiggs,
		"alpha_s_exp":     rge.AlphaSMZ,
		"m_strange":       95.0,
		"sin2_theta_w_mz": rge.Sin2ThetaWMZ,
	}
}

// formulas returns the compute function per derived constant id, closing
// over the scale solver for the RG-coupled entries.
func formulas(solver *rge.Solver) map[string]graph.ComputeFn {
	// Evolved strong coupling as a root-finding observable.
	alpha3 := func(mu float64) (float64, error) {
		st, err := solver.CouplingsAt(mu)
		if err != nil {
			return 0, err
		}
		return st.G3 * st.G3 / (4 * math.Pi), nil
	}

	return map[string]graph.ComputeFn{
		"phi_3": func(d map[string]float64) (float64, error) {
			return PhiN(d["phi_0"], 3), nil
		},
		"phi_4": func(d map[string]float64) (float64, error) {
			return PhiN(d["phi_0"], 4), nil
		},
		"phi_5": func(d map[string]float64) (float64, error) {
			return PhiN(d["phi_0"], 5), nil
		},
		"c_4": func(d map[string]float64) (float64, error) {
			return d["c_3"] * d["c_3"] / d["phi_0"], nil
		},
		"alpha_g": func(d map[string]float64) (float64, error) {
			return math.Pow(d["phi_0"], 30), nil
		},
		"sin2_theta_w_tree": func(d map[string]float64) (float64, error) {
			return d["phi_0"], nil
		},
		"m_proton": func(d map[string]float64) (float64, error) {
			return d["m_planck"] * math.Pow(d["phi_0"], 15), nil
		},
		"m_proton_mev": func(d map[string]float64) (float64, error) {
			return d["m_proton"] * 1e3, nil
		},
		"m_electron": func(d map[string]float64) (float64, error) {
			vOverSqrt2 := d["v_higgs"] / math.Sqrt2
			yukawa := d["alpha_em"] * math.Pow(d["phi_0"], 5)
			return vOverSqrt2 * yukawa * (1 - d["phi_0"]) * 1e6, nil
		},
		"m_muon": func(d map[string]float64) (float64, error) {
			tree := d["v_higgs"] / math.Sqrt2 * math.Pow(d["phi_0"], 2.5)
			return Loop4D(tree, d["c_3"]) * 1e3, nil
		},
		"m_tau": func(d map[string]float64) (float64, error) {
			return d["v_higgs"] / math.Sqrt2 * (5.0 / 6.0) * math.Pow(d["phi_0"], 1.5), nil
		},
		"m_up": func(d map[string]float64) (float64, error) {
			tree := d["m_planck"] * math.Pow(d["phi_0"], 17) * 1e3
			return KKGeometry(tree, d["c_3"]), nil
		},
		"m_down": func(d map[string]float64) (float64, error) {
			return d["m_strange"] * d["phi_0"], nil
		},
		"m_strange_down_ratio": func(d map[string]float64) (float64, error) {
			return 1 / d["phi_0"], nil
		},
		"m_charm": func(d map[string]float64) (float64, error) {
			return d["m_planck"] * math.Pow(d["phi_0"], 16) / d["c_3"], nil
		},
		"m_bottom": func(d map[string]float64) (float64, error) {
			tree := d["m_planck"] * math.Pow(d["phi_0"], 15) / math.Sqrt(d["c_3"])
			return VEVBackreaction(tree, d["phi_0"], -2), nil
		},
		"m_top": func(d map[string]float64) (float64, error) {
			return topYukawaFixedPoint * d["v_higgs"] / math.Sqrt2, nil
		},
		"y_top": func(d map[string]float64) (float64, error) {
			return d["m_top"] * math.Sqrt2 / d["v_higgs"], nil
		},
		"y_electron": func(d map[string]float64) (float64, error) {
			return d["alpha_em"] * math.Pow(d["phi_0"], 5), nil
		},
		"theta_cabibbo": func(d map[string]float64) (float64, error) {
			return math.Asin(d["phi_0"] / (1 + d["phi_0"])), nil
		},
		"v_us_v_ud": func(d map[string]float64) (float64, error) {
			return d["phi_0"], nil
		},
		"v_cb": func(d map[string]float64) (float64, error) {
			return 0.75 * d["phi_0"], nil
		},
		"v_td_v_ts": func(d map[string]float64) (float64, error) {
			return d["phi_0"], nil
		},
		"m_w": func(d map[string]float64) (float64, error) {
			return d["m_z"] * math.Sqrt(1-d["phi_0"]), nil
		},
		"g_fermi": func(d map[string]float64) (float64, error) {
			return 1 / (math.Sqrt2 * d["v_higgs"] * d["v_higgs"]), nil
		},
		"v_higgs_calc": func(d map[string]float64) (float64, error) {
			return d["c_3"] * d["m_planck"] * math.Pow(d["phi_0"], 12), nil
		},
		"rho_parameter": func(d map[string]float64) (float64, error) {
			mw, mz := d["m_w"], d["m_z"]
			return mw * mw / (mz * mz * (1 - d["phi_0"])), nil
		},
		"m_neutrino": func(d map[string]float64) (float64, error) {
			mR := PhiN(d["phi_0"], 5) * d["m_planck"]
			const yukawaSq = 0.01
			return yukawaSq * d["v_higgs"] * d["v_higgs"] / mR * 1e9, nil
		},
		"sum_m_neutrino": func(d map[string]float64) (float64, error) {
			return 3 * d["m_neutrino"], nil
		},
		"omega_baryon": func(d map[string]float64) (float64, error) {
			return Loop4D(d["phi_0"], d["c_3"]), nil
		},
		"r_tensor": func(d map[string]float64) (float64, error) {
			return d["phi_0"] * d["phi_0"], nil
		},
		"n_scalar": func(d map[string]float64) (float64, error) {
			return 1 - d["phi_0"] - 1.5*d["phi_0"]*d["c_3"], nil
		},
		"eta_baryon": func(d map[string]float64) (float64, error) {
			return 4 * math.Pow(d["c_3"], 7), nil
		},
		"baryon_fraction": func(d map[string]float64) (float64, error) {
			eta := d["eta_baryon"]
			return eta / (eta + 5*math.Pow(d["c_3"], 7)), nil
		},
		"t_cmb": func(d map[string]float64) (float64, error) {
			return planckTempK * math.Pow(d["phi_0"], 25), nil
		},
		"t_neutrino": func(d map[string]float64) (float64, error) {
			return d["t_cmb"] * math.Cbrt(4.0/11.0), nil
		},
		"rho_lambda": func(d map[string]float64) (float64, error) {
			return math.Pow(d["m_planck"], 4) * math.Pow(d["phi_0"], 97), nil
		},
		"tau_reionization": func(d map[string]float64) (float64, error) {
			return 2 * d["c_3"] * math.Pow(d["phi_0"], 5), nil
		},
		"w_dark_energy": func(d map[string]float64) (float64, error) {
			return -1 + d["phi_0"]*d["phi_0"]/6, nil
		},
		"alpha_s_predicted": func(d map[string]float64) (float64, error) {
			return d["phi_0"] / 2, nil
		},
		"lambda_qcd": func(d map[string]float64) (float64, error) {
			// Two-loop closed form with five active flavors.
			const b0 = 23.0 / 3.0
			const b1 = 116.0 / 3.0
			a := d["alpha_s_exp"]
			lam := d["m_z"] * math.Exp(-2*math.Pi/(b0*a)) * math.Pow(b0*a/(4*math.Pi), -b1/(2*b0*b0))
			return lam * 1e3, nil
		},
		"theta_qcd": func(d map[string]float64) (float64, error) {
			return d["c_3"] * math.Pow(d["phi_0"], 7), nil
		},
		"f_pi_lambda_ratio": func(map[string]float64) (float64, error) {
			return 3.0 / 5.0, nil
		},
		"epsilon_k": func(d map[string]float64) (float64, error) {
			return VEVBackreaction(d["phi_0"]*d["phi_0"]/2, d["phi_0"], 2), nil
		},
		"tau_muon": func(d map[string]float64) (float64, error) {
			gF := d["g_fermi"]
			mMu := d["m_muon"] / 1e3 // GeV
			width := gF * gF * math.Pow(mMu, 5) / (192 * math.Pow(math.Pi, 3))
			return hbarGeVSecond / width * 1e6, nil
		},
		"tau_tau": func(d map[string]float64) (float64, error) {
			gF := d["g_fermi"]
			const hadronicFactor = 2.85 // total/leptonic width enhancement
			width := gF * gF * math.Pow(d["m_tau"], 5) * hadronicFactor / (192 * math.Pow(math.Pi, 3))
			return hbarGeVSecond / width * 1e15, nil
		},
		"tau_proton": func(d map[string]float64) (float64, error) {
			mGUT := PhiN(d["phi_0"], 3) * d["m_planck"]
			tau := math.Pow(mGUT, 4) / math.Pow(d["m_proton"], 5) * hbarGeVSecond
			return tau / secondsPerYear, nil
		},
		"tau_star": func(d map[string]float64) (float64, error) {
			mPlJoule := d["m_planck"] * geVToJoule
			return math.Pow(d["phi_0"], 3) * hbarJouleSecond / (4 * math.Pi * d["c_3"] * mPlJoule), nil
		},
		"lambda_qg": func(d map[string]float64) (float64, error) {
			return 2 * math.Pi * d["c_3"] * d["phi_0"] * d["m_planck"], nil
		},
		"lambda_star": func(d map[string]float64) (float64, error) {
			return planckLength / (d["phi_0"] * d["phi_0"]), nil
		},
		"e_knee": func(d map[string]float64) (float64, error) {
			return d["m_planck"] * math.Pow(d["phi_0"], 20) / 1e6, nil
		},
		"a_pioneer": func(d map[string]float64) (float64, error) {
			return speedOfLight * hubbleRate * d["phi_0"] / d["c_3"], nil
		},
		"beta_x": func(d map[string]float64) (float64, error) {
			return d["phi_0"] * d["phi_0"] / (2 * d["c_3"]), nil
		},
		"alpha_dark": func(d map[string]float64) (float64, error) {
			b := d["beta_x"]
			return b * b / d["alpha_em"] * 0.001, nil
		},
		"delta_nu_t": func(d map[string]float64) (float64, error) {
			y := d["y_top"]
			return d["beta_x"] * y * y, nil
		},
		"delta_gamma": func(d map[string]float64) (float64, error) {
			return math.Pow(d["phi_0"], 6) / d["c_3"] * d["alpha_em"], nil
		},
		"delta_a_mu": func(d map[string]float64) (float64, error) {
			mMu := d["m_muon"] / 1e3 // GeV
			return (248 * 0.25) / (8 * math.Pi * math.Pi) * math.Pow(mMu/100, 2) * 1e9, nil
		},
		"f_axion": func(d map[string]float64) (float64, error) {
			return PhiN(d["phi_0"], 4) * d["m_planck"], nil
		},
		"m_axion": func(d map[string]float64) (float64, error) {
			fAxionMeV := d["f_axion"] * 1e3
			return fPiMeV * mPiMeV / fAxionMeV * 1e6, nil
		},

		// RG-coupled quantities. These invoke the integrator and solver;
		// memoization of their results is the Evaluator's job.
		"gut_scale": func(map[string]float64) (float64, error) {
			scale, _, err := solver.FindUnificationScale(rge.Bracket{Low: 1e14, High: 1e18})
			return scale, err
		},
		"gut_coupling": func(d map[string]float64) (float64, error) {
			st, err := solver.CouplingsAt(d["gut_scale"])
			if err != nil {
				return 0, err
			}
			return (st.G1 + st.G2 + st.G3) / 3, nil
		},
		"sin2_theta_w_gut": func(d map[string]float64) (float64, error) {
			st, err := solver.CouplingsAt(d["gut_scale"])
			if err != nil {
				return 0, err
			}
			return st.Sin2ThetaW(), nil
		},
		"scale_alpha_s_phi0": func(d map[string]float64) (float64, error) {
			return solver.FindScaleWhere(alpha3, d["phi_0"], rge.Bracket{Low: 1e2, High: 1e8}, 1e-8)
		},
		"scale_alpha_s_c3": func(d map[string]float64) (float64, error) {
			return solver.FindScaleWhere(alpha3, d["c_3"], rge.Bracket{Low: 1e2, High: 1e10}, 1e-8)
		},
	}
}

// BuildDefs joins the catalogue records with the formula registry into graph
// definitions, in record order.
//
// Every record must resolve to either a seed (fundamental) or a registered
// formula (derived), and every registered formula must have a record; a
// mismatch is a programming error surfaced at construction time.
func BuildDefs(records []Record, solver *rge.Solver) ([]graph.Def, error) {
	seeds := fundamentalSeeds()
	computes := formulas(solver)

	defs := make([]graph.Def, 0, len(records))
	for _, r := range records {
		if r.Fundamental {
			seed, ok := seeds[r.ID]
			if !ok {
				return nil, fmt.Errorf("fundamental %q has no registered seed", r.ID)
			}
			defs = append(defs, graph.Fundamental(r.ID, seed, r.Dependencies...))
			continue
		}
		fn, ok := computes[r.ID]
		if !ok {
			return nil, fmt.Errorf("derived %q has no registered formula", r.ID)
		}
		defs = append(defs, graph.Derived(r.ID, fn, r.Dependencies...))
		delete(computes, r.ID)
	}
	for id := range computes {
		return nil, fmt.Errorf("formula %q has no catalogue record", id)
	}
	for id := range seeds {
		found := false
		for _, r := range records {
			if r.ID == id && r.Fundamental {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("seed %q has no catalogue record", id)
		}
	}
	return defs, nil
}

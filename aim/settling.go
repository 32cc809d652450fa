/*
Copyright © 2018 the APCEMM authors.
This file is part of APCEMM.

APCEMM is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

APCEMM is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with APCEMM.  If not, see <http://www.gnu.org/licenses/>.
*/

package aim

import "math"

// SettlingVelocities returns the gravitational settling velocity [m/s,
// positive downward] for each bin: Stokes terminal velocity with the
// Cunningham slip correction. It is a pure function of bin geometry,
// temperature [K] and pressure [Pa], computed once per run per phase.
func SettlingVelocities(bins []Bin, tempK, pressPa, rho float64) []float64 {
	const g = 9.80665
	mu := 1.458e-6 * math.Pow(tempK, 1.5) / (tempK + 110.4)
	lambda := 2. * mu / (pressPa * math.Sqrt(8.*28.9644e-3/(math.Pi*8.314462618*tempK)))

	v := make([]float64, len(bins))
	for b, bin := range bins {
		r := bin.Center
		if r <= 0 {
			continue
		}
		kn := lambda / r
		cc := 1. + kn*(1.257+0.4*math.Exp(-1.1/kn))
		v[b] = 2. * rho * g * r * r * cc / (9. * mu)
	}
	return v
}

// Grow advances condensational growth (or evaporation) of an ice
// population by span seconds at ice saturation ratio si (= RHi/100).
// Number density moves upwind in radius space: toward larger bins for
// si > 1, toward smaller bins for si < 1, at the diffusional growth rate
// dr/dt = G·(si−1)/r with a diffusion-limited growth coefficient G.
func (a *Aerosol) Grow(span, tempK, pressPa, si float64, regime Regime) {
	if regime == RegimeNone || span <= 0 || si == 1 {
		return
	}
	const (
		kB    = 1.380649e-23
		mH2O  = 18.01528e-3 / 6.02214076e23 // molecular mass [kg]
		rhoI  = 916.7
		dv0   = 0.211e-4 // water vapor diffusivity at 273.15 K, 101325 Pa [m2/s]
		tRef  = 273.15
		pRef  = 101325.
		tcRef = 272.55
	)
	dv := dv0 * math.Pow(tempK/tRef, 1.94) * pRef / pressPa
	// Saturation vapor density over ice (Buck 1981).
	tc := tempK - 273.15
	psat := 611.15 * math.Exp(22.452*tc/(tc+tcRef))
	rhoVap := psat * mH2O / (kB * tempK)
	g := dv * rhoVap / rhoI // growth coefficient [m2/s]

	nb := len(a.Bins)
	frac := make([]float64, nb) // fraction transferred per bin
	for b, bin := range a.Bins {
		dr := g * (si - 1.) / bin.Center * span
		width := bin.High - bin.Low
		f := math.Abs(dr) / width
		if f > 1 {
			f = 1
		}
		frac[b] = f
	}

	step := func(c int) {
		if si > 1 {
			for b := nb - 2; b >= 0; b-- {
				moved := a.NDF[b].Elements[c] * frac[b]
				a.NDF[b].Elements[c] -= moved
				a.NDF[b+1].Elements[c] += moved
			}
		} else {
			for b := 1; b < nb; b++ {
				moved := a.NDF[b].Elements[c] * frac[b]
				a.NDF[b].Elements[c] -= moved
				a.NDF[b-1].Elements[c] += moved
			}
		}
	}

	switch regime {
	case RegimeUniform:
		step(0)
		for b := 0; b < nb; b++ {
			v := a.NDF[b].Elements[0]
			for c := range a.NDF[b].Elements {
				a.NDF[b].Elements[c] = v
			}
		}
	case RegimePerCell:
		for c := 0; c < a.ny*a.nx; c++ {
			step(c)
		}
	}
}

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

// Regime selects how coagulation is applied spatially. It is chosen once
// at model initialization from the presence of emitted vs. background
// particles and is not revisited mid-run.
type Regime int

const (
	// RegimeNone: no particles of this phase anywhere; coagulation is
	// a no-op.
	RegimeNone Regime = iota
	// RegimeUniform: background particles only; the distribution is
	// spatially uniform, so one representative cell is solved and the
	// result assigned everywhere.
	RegimeUniform
	// RegimePerCell: emitted particles present; every cell is solved
	// independently.
	RegimePerCell
)

// Kernel holds pairwise coagulation rate coefficients [cm3/s] for a bin
// set, precomputed once per run per phase.
type Kernel struct {
	K [][]float64
}

// NewBrownianKernel computes the Brownian coagulation kernel with the
// Fuchs transition-regime correction (Seinfeld & Pandis eq. 13.56) for
// particles of material density rho [kg/m3] at the given temperature [K]
// and pressure [Pa].
func NewBrownianKernel(bins []Bin, tempK, pressPa, rho float64) *Kernel {
	const kB = 1.380649e-23
	n := len(bins)
	mu := 1.458e-6 * math.Pow(tempK, 1.5) / (tempK + 110.4)
	lambda := 2. * mu / (pressPa * math.Sqrt(8.*28.9644e-3/(math.Pi*8.314462618*tempK)))

	diff := make([]float64, n)  // particle diffusivity [m2/s]
	speed := make([]float64, n) // thermal speed [m/s]
	delta := make([]float64, n) // mean distance from sphere surface [m]
	for i, b := range bins {
		r := b.Center
		kn := lambda / r
		cc := 1. + kn*(1.257+0.4*math.Exp(-1.1/kn)) // Cunningham slip
		diff[i] = kB * tempK * cc / (6. * math.Pi * mu * r)
		m := rho * b.Volume()
		speed[i] = math.Sqrt(8. * kB * tempK / (math.Pi * m))
		lp := 8. * diff[i] / (math.Pi * speed[i])
		d := 2. * r
		delta[i] = (math.Pow(d+lp, 3.)-math.Pow(d*d+lp*lp, 1.5))/(3.*d*lp) - d
	}

	k := make([][]float64, n)
	for i := range k {
		k[i] = make([]float64, n)
		for j := range k[i] {
			ri, rj := bins[i].Center, bins[j].Center
			dij := diff[i] + diff[j]
			rij := ri + rj
			cij := math.Sqrt(speed[i]*speed[i] + speed[j]*speed[j])
			gij := math.Sqrt(delta[i]*delta[i]+delta[j]*delta[j]) / (2. * rij)
			beta := 1. / (rij/(rij+gij*rij) + 4.*dij/(cij*rij))
			// [m3/s] → [cm3/s]
			k[i][j] = 4. * math.Pi * rij * dij * beta * 1e6
		}
	}
	return &Kernel{K: k}
}

// volumeSplit returns the receiving bin index and the number fraction of
// coagulated particles of combined volume v assigned to it; the
// remainder goes to the next bin up. The split conserves particle volume
// (Jacobson 1994 semi-implicit scheme).
func volumeSplit(bins []Bin, v float64) (k int, frac float64) {
	last := len(bins) - 1
	if v >= bins[last].Volume() {
		return last, 1.
	}
	for k = 0; k < last; k++ {
		vk, vk1 := bins[k].Volume(), bins[k+1].Volume()
		if v >= vk && v < vk1 {
			return k, (vk1 - v) / (vk1 - vk) * vk / v
		}
	}
	return 0, 1.
}

// Coagulate advances the population by span seconds of coagulation using
// the precomputed kernel, under the given spatial regime.
//
// The stored fields cover one symmetry sector of the plume; symmetry is
// the number of sectors the full plume holds (2 when the fields are
// mirror-symmetric about an axis, 1 when the whole cross-section is
// stored). Particles in mirror sectors coagulate with the stored ones,
// so partner concentrations are scaled by the factor.
func (a *Aerosol) Coagulate(span float64, kernel *Kernel, regime Regime, symmetry int) {
	if regime == RegimeNone || span <= 0 {
		return
	}

	nb := len(a.Bins)
	vol := make([]float64, nb)
	for b := range a.Bins {
		vol[b] = a.Bins[b].Volume()
	}
	splitK := make([][]int, nb)
	splitF := make([][]float64, nb)
	for i := 0; i < nb; i++ {
		splitK[i] = make([]int, nb)
		splitF[i] = make([]float64, nb)
		for j := 0; j < nb; j++ {
			splitK[i][j], splitF[i][j] = volumeSplit(a.Bins, vol[i]+vol[j])
		}
	}

	n0 := make([]float64, nb) // number densities before the step
	vNew := make([]float64, nb)
	sym := float64(symmetry)

	step := func(c int) {
		for b := 0; b < nb; b++ {
			n0[b] = a.NDF[b].Elements[c]
		}
		// Semi-implicit volume-conserving update, ascending bins:
		// production uses already-updated volume concentrations below
		// bin k; loss uses start-of-step partner numbers.
		for k := 0; k < nb; k++ {
			prod := 0.
			for j := 0; j <= k; j++ {
				for i := 0; i < k; i++ {
					if splitK[i][j] == k {
						prod += splitF[i][j] * kernel.K[i][j] * vNew[i] * sym * n0[j]
					} else if splitK[i][j] == k-1 && splitF[i][j] < 1 {
						prod += (1. - splitF[i][j]) * kernel.K[i][j] * vNew[i] * sym * n0[j]
					}
				}
			}
			loss := 0.
			for j := 0; j < nb; j++ {
				keep := 0.
				if splitK[k][j] == k {
					keep = splitF[k][j]
				}
				loss += (1. - keep) * kernel.K[k][j] * sym * n0[j]
			}
			vNew[k] = (n0[k]*vol[k] + span*prod) / (1. + span*loss)
		}
		for b := 0; b < nb; b++ {
			a.NDF[b].Elements[c] = vNew[b] / vol[b]
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

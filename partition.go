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

package apcemm

import "math"

// h2so4GasFrac returns the equilibrium gas-phase fraction of total
// sulfate at the given temperature and total sulfate number density
// [molec/cm3]. Sulfuric acid has an extremely low vapor pressure at
// cruise temperatures, so nearly all sulfate condenses once the total
// exceeds the saturation density.
func h2so4GasFrac(tempK, total float64) float64 {
	if total <= 0 {
		return 1
	}
	// Saturation vapor pressure of H2SO4 [Pa] (Ayers et al. 1980 fit).
	psat := 2.0e9 * math.Exp(-10156./tempK)
	nsat := psat / (kBoltzmann * tempK) * 1e-6 // [molec/cm3]
	if nsat >= total {
		return 1
	}
	return nsat / total
}

// PartitionSulfate re-equilibrates gas and condensed sulfate in every
// cell after transport has moved the two fields jointly. Total sulfate
// in each cell is preserved exactly.
func PartitionSulfate(st *PlumeState, so4 int, tempK float64) {
	gas := st.Species[so4]
	for c, g := range gas.Elements {
		total := g + st.SO4Liq.Elements[c]
		f := h2so4GasFrac(tempK, total)
		gas.Elements[c] = f * total
		st.SO4Liq.Elements[c] = (1 - f) * total
	}
}

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

// Package minimech is a compact NOx-O3-sulfur mechanism for aircraft
// plume chemistry: the NO/NO2/O3 photostationary cycle, nighttime NO3
// and N2O5 formation, heterogeneous N2O5 hydrolysis on plume aerosol,
// and slow SO2 oxidation, plus the CO, CO2 and H2O tracers.
package minimech

import (
	"math"

	"github.com/cpmech/gosl/la"

	apcemm "github.com/fritzt/APCEMM"
)

// Variable species indices.
const (
	iNO = iota
	iNO2
	iNO3
	iN2O5
	iHNO3
	iHNO2
	iO3
	iCO
	iCO2
	iSO2
	iSO4
	iH2O
	nVar
)

// Fixed species indices.
const (
	iM = iota
	iO2
	iN2
	nFix
)

const (
	nReact  = 10
	nPhotol = 3
	nHet    = 1
	nAero   = 3 // soot, liquid sulfate, ice
)

var varNames = []string{
	"NO", "NO2", "NO3", "N2O5", "HNO3", "HNO2",
	"O3", "CO", "CO2", "SO2", "SO4", "H2O",
}

var fixNames = []string{"M", "O2", "N2"}

// Mech implements apcemm.Mechanism. It is stateless and safe for
// concurrent use.
type Mech struct {
	varIndex map[string]int
}

// New returns the mechanism.
func New() *Mech {
	m := &Mech{varIndex: make(map[string]int, nVar)}
	for i, name := range varNames {
		m.varIndex[name] = i
	}
	return m
}

// Dims implements apcemm.Mechanism.
func (m *Mech) Dims() apcemm.MechDims {
	return apcemm.MechDims{
		NVar:    nVar,
		NFix:    nFix,
		NSpec:   nVar + nFix,
		NReact:  nReact,
		NPhotol: nPhotol,
		NHet:    nHet,
		NAero:   nAero,
	}
}

// VarNames implements apcemm.Mechanism.
func (m *Mech) VarNames() []string { return varNames }

// FixNames implements apcemm.Mechanism.
func (m *Mech) FixNames() []string { return fixNames }

// VarIndex implements apcemm.Mechanism.
func (m *Mech) VarIndex(name string) (int, bool) {
	i, ok := m.varIndex[name]
	return i, ok
}

// Clear-sky photolysis rates at overhead sun [1/s].
const (
	jNO2Max  = 8.0e-3
	jNO3Max  = 0.19
	jHNO2Max = 1.5e-3
)

// Photolysis implements apcemm.Mechanism. Rates scale linearly with the
// cosine of the solar zenith angle.
func (m *Mech) Photolysis(photol []float64, csza float64) {
	photol[0] = jNO2Max * csza
	photol[1] = jNO3Max * csza
	photol[2] = jHNO2Max * csza
}

// gammaN2O5 is the N2O5 uptake coefficient on plume aerosol.
const gammaN2O5 = 0.1

// Heterogeneous implements apcemm.Mechanism: first-order N2O5 loss by
// hydrolysis on the combined aerosol surface, k = γ·v̄·A/4.
func (m *Mech) Heterogeneous(het []float64, s apcemm.HetState) {
	// Mean molecular speed of N2O5 [m/s].
	const mwN2O5 = 108.01e-3 // [kg/mol]
	vbar := math.Sqrt(8. * 8.314462618 * s.TempK / (math.Pi * mwN2O5))
	area := 0. // [m2/cm3] → [m2/m3]
	for _, a := range s.Area {
		area += a * 1e6
	}
	het[0] = gammaN2O5 * vbar * area / 4.
}

// Reaction index map:
//
//	0: NO2 + hv → NO + O3            (J_NO2)
//	1: NO + O3 → NO2 + O2
//	2: NO2 + O3 → NO3 + O2
//	3: NO2 + NO3 + M → N2O5 + M
//	4: N2O5 + M → NO2 + NO3 + M
//	5: NO3 + hv → NO2 + O3           (J_NO3)
//	6: HNO2 + hv → NO + OH           (J_HNO2)
//	7: NO + NO3 → 2 NO2
//	8: N2O5 + aerosol → 2 HNO3       (heterogeneous)
//	9: SO2 + O3 → SO4 + O2

// RateConstants implements apcemm.Mechanism.
func (m *Mech) RateConstants(k []float64, tempK, pressPa, airDens float64, photol, het []float64) {
	k[0] = photol[0]
	k[1] = 3.0e-12 * math.Exp(-1500./tempK)
	k[2] = 1.2e-13 * math.Exp(-2450./tempK)
	k[3] = troe(2.0e-30*math.Pow(300./tempK, 4.4),
		1.4e-12*math.Pow(300./tempK, 0.7), airDens)
	// Thermal decomposition from the equilibrium constant
	// Keq = 2.7e-27·exp(11000/T) cm3.
	k[4] = k[3] / (2.7e-27 * math.Exp(11000./tempK))
	k[5] = photol[1]
	k[6] = photol[2]
	k[7] = 1.5e-11 * math.Exp(170./tempK)
	k[8] = het[0]
	k[9] = 3.0e-12 * math.Exp(-7000./tempK)
}

// troe returns the falloff rate constant for a termolecular reaction
// with low- and high-pressure limits k0 [cm6/s] and kinf [cm3/s] at air
// density m [molec/cm3].
func troe(k0, kinf, m float64) float64 {
	a := k0 * m / kinf
	b := math.Log10(a)
	return k0 * m / (1. + a) * math.Pow(0.6, 1./(1.+b*b))
}

// Derivative implements apcemm.Mechanism.
func (m *Mech) Derivative(f, y, fix, k []float64) {
	r0 := k[0] * y[iNO2]
	r1 := k[1] * y[iNO] * y[iO3]
	r2 := k[2] * y[iNO2] * y[iO3]
	r3 := k[3] * y[iNO2] * y[iNO3]
	r4 := k[4] * y[iN2O5]
	r5 := k[5] * y[iNO3]
	r6 := k[6] * y[iHNO2]
	r7 := k[7] * y[iNO] * y[iNO3]
	r8 := k[8] * y[iN2O5]
	r9 := k[9] * y[iSO2] * y[iO3]

	f[iNO] = r0 - r1 + r6 - r7
	f[iNO2] = -r0 + r1 - r2 - r3 + r4 + r5 + 2.*r7
	f[iNO3] = r2 - r3 + r4 - r5 - r7
	f[iN2O5] = r3 - r4 - r8
	f[iHNO3] = 2. * r8
	f[iHNO2] = -r6
	f[iO3] = r0 - r1 - r2 + r5 - r9
	f[iCO] = 0
	f[iCO2] = 0
	f[iSO2] = -r9
	f[iSO4] = r9
	f[iH2O] = 0
}

// Jacobian implements apcemm.Mechanism.
func (m *Mech) Jacobian(dfdy *la.Triplet, y, fix, k []float64) {
	dfdy.Start()

	dfdy.Put(iNO, iNO, -k[1]*y[iO3]-k[7]*y[iNO3])
	dfdy.Put(iNO, iNO2, k[0])
	dfdy.Put(iNO, iNO3, -k[7]*y[iNO])
	dfdy.Put(iNO, iHNO2, k[6])
	dfdy.Put(iNO, iO3, -k[1]*y[iNO])

	dfdy.Put(iNO2, iNO, k[1]*y[iO3]+2.*k[7]*y[iNO3])
	dfdy.Put(iNO2, iNO2, -k[0]-k[2]*y[iO3]-k[3]*y[iNO3])
	dfdy.Put(iNO2, iNO3, -k[3]*y[iNO2]+k[5]+2.*k[7]*y[iNO])
	dfdy.Put(iNO2, iN2O5, k[4])
	dfdy.Put(iNO2, iO3, k[1]*y[iNO]-k[2]*y[iNO2])

	dfdy.Put(iNO3, iNO, -k[7]*y[iNO3])
	dfdy.Put(iNO3, iNO2, k[2]*y[iO3]-k[3]*y[iNO3])
	dfdy.Put(iNO3, iNO3, -k[3]*y[iNO2]-k[5]-k[7]*y[iNO])
	dfdy.Put(iNO3, iN2O5, k[4])
	dfdy.Put(iNO3, iO3, k[2]*y[iNO2])

	dfdy.Put(iN2O5, iNO2, k[3]*y[iNO3])
	dfdy.Put(iN2O5, iNO3, k[3]*y[iNO2])
	dfdy.Put(iN2O5, iN2O5, -k[4]-k[8])

	dfdy.Put(iHNO3, iN2O5, 2.*k[8])

	dfdy.Put(iHNO2, iHNO2, -k[6])

	dfdy.Put(iO3, iNO, -k[1]*y[iO3])
	dfdy.Put(iO3, iNO2, k[0]-k[2]*y[iO3])
	dfdy.Put(iO3, iNO3, k[5])
	dfdy.Put(iO3, iO3, -k[1]*y[iNO]-k[2]*y[iNO2]-k[9]*y[iSO2])
	dfdy.Put(iO3, iSO2, -k[9]*y[iO3])

	dfdy.Put(iSO2, iSO2, -k[9]*y[iO3])
	dfdy.Put(iSO2, iO3, -k[9]*y[iSO2])

	dfdy.Put(iSO4, iSO2, k[9]*y[iO3])
	dfdy.Put(iSO4, iO3, k[9]*y[iSO2])
}

// JacobianNonzeros implements apcemm.Mechanism.
func (m *Mech) JacobianNonzeros() int { return 32 }

// ConservedGroups implements apcemm.MassDiagnoser: total odd nitrogen
// and the inert carbon tracers.
func (m *Mech) ConservedGroups() map[string][]apcemm.WeightedSpecies {
	return map[string][]apcemm.WeightedSpecies{
		"NOy": {
			{Index: iNO, Weight: 1},
			{Index: iNO2, Weight: 1},
			{Index: iNO3, Weight: 1},
			{Index: iN2O5, Weight: 2},
			{Index: iHNO3, Weight: 1},
			{Index: iHNO2, Weight: 1},
		},
		"CO2": {
			{Index: iCO2, Weight: 1},
		},
		"S": {
			{Index: iSO2, Weight: 1},
			{Index: iSO4, Weight: 1},
		},
	}
}

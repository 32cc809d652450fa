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

package minimech

import (
	"math"
	"testing"

	apcemm "github.com/fritzt/APCEMM"
)

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

// testState returns plausible midlatitude cruise concentrations
// [molec/cm3] and the matching rate constants.
func testState(csza float64) (y, fix, k []float64) {
	m := New()
	dims := m.Dims()

	const (
		tempK   = 220.
		pressPa = 24000.
		airDens = 7.9e18
	)
	y = make([]float64, dims.NVar)
	y[iNO] = 0.1e-9 * airDens
	y[iNO2] = 0.15e-9 * airDens
	y[iNO3] = 1e-12 * airDens
	y[iN2O5] = 5e-12 * airDens
	y[iHNO3] = 0.2e-9 * airDens
	y[iHNO2] = 1e-12 * airDens
	y[iO3] = 50e-9 * airDens
	y[iCO] = 90e-9 * airDens
	y[iCO2] = 380e-6 * airDens
	y[iSO2] = 20e-12 * airDens
	y[iSO4] = 5e-12 * airDens
	y[iH2O] = 50e-6 * airDens

	fix = []float64{airDens, 0.2095 * airDens, 0.7808 * airDens}

	photol := make([]float64, dims.NPhotol)
	m.Photolysis(photol, csza)
	het := make([]float64, dims.NHet)
	m.Heterogeneous(het, apcemm.HetState{
		TempK:   tempK,
		PressPa: pressPa,
		AirDens: airDens,
		RHi:     80,
		Area:    []float64{1e-10, 5e-11, 0},
		Radius:  []float64{3e-8, 2e-8, 0},
	})
	k = make([]float64, dims.NReact)
	m.RateConstants(k, tempK, pressPa, airDens, photol, het)
	return y, fix, k
}

func TestDims(t *testing.T) {
	m := New()
	dims := m.Dims()
	if len(m.VarNames()) != dims.NVar {
		t.Errorf("%d variable names for %d species", len(m.VarNames()), dims.NVar)
	}
	if len(m.FixNames()) != dims.NFix {
		t.Errorf("%d fixed names for %d species", len(m.FixNames()), dims.NFix)
	}
	if dims.NSpec != dims.NVar+dims.NFix {
		t.Errorf("NSpec = %d; want %d", dims.NSpec, dims.NVar+dims.NFix)
	}
	for i, name := range m.VarNames() {
		j, ok := m.VarIndex(name)
		if !ok || j != i {
			t.Errorf("VarIndex(%q) = %d, %v; want %d, true", name, j, ok, i)
		}
	}
	if _, ok := m.VarIndex("OH"); ok {
		t.Error("VarIndex found a species the mechanism does not carry")
	}
}

func TestPhotolysis(t *testing.T) {
	m := New()
	j := make([]float64, m.Dims().NPhotol)

	m.Photolysis(j, 1)
	if different(j[0], jNO2Max, 1e-12) {
		t.Errorf("overhead J_NO2 = %g; want %g", j[0], jNO2Max)
	}
	// NO3 photolyzes much faster than NO2.
	if j[1] <= j[0] {
		t.Errorf("J_NO3 = %g not above J_NO2 = %g", j[1], j[0])
	}

	m.Photolysis(j, 0.5)
	if different(j[0], jNO2Max/2, 1e-12) {
		t.Errorf("half-sun J_NO2 = %g", j[0])
	}
}

func TestHeterogeneous(t *testing.T) {
	m := New()
	het := make([]float64, m.Dims().NHet)

	state := apcemm.HetState{TempK: 220, Area: []float64{0, 0, 0}, Radius: []float64{0, 0, 0}}
	m.Heterogeneous(het, state)
	if het[0] != 0 {
		t.Errorf("uptake on zero surface area = %g", het[0])
	}

	state.Area = []float64{1e-10, 0, 0}
	m.Heterogeneous(het, state)
	k1 := het[0]
	if k1 <= 0 {
		t.Fatalf("uptake rate = %g", k1)
	}
	// First order in surface area.
	state.Area = []float64{2e-10, 0, 0}
	m.Heterogeneous(het, state)
	if different(het[0], 2*k1, 1e-12) {
		t.Errorf("doubling the area gave %g; want %g", het[0], 2*k1)
	}
}

func TestRateConstants(t *testing.T) {
	_, _, k := testState(1)
	for i, v := range k {
		if v < 0 || math.IsNaN(v) {
			t.Errorf("k[%d] = %g", i, v)
		}
	}
	// Photolysis channels switch off at night.
	_, _, kn := testState(0)
	for _, i := range []int{0, 5, 6} {
		if kn[i] != 0 {
			t.Errorf("nighttime k[%d] = %g; want 0", i, kn[i])
		}
	}
	// Thermal channels do not.
	if kn[1] == 0 || kn[3] == 0 {
		t.Error("thermal rate vanished at night")
	}
}

// Odd nitrogen and total sulfur are conserved by the gas-phase
// derivative: the weighted row sums vanish for any state.
func TestDerivativeConservation(t *testing.T) {
	m := New()
	y, fix, k := testState(0.7)
	f := make([]float64, m.Dims().NVar)
	m.Derivative(f, y, fix, k)

	groups := m.ConservedGroups()
	for _, name := range []string{"NOy", "S", "CO2"} {
		sum, scale := 0., 0.
		for _, sp := range groups[name] {
			sum += sp.Weight * f[sp.Index]
			scale += math.Abs(sp.Weight * f[sp.Index])
		}
		if scale > 0 && math.Abs(sum) > 1e-10*scale {
			t.Errorf("%s production = %g (scale %g)", name, sum, scale)
		}
	}

	// The inert tracers have zero tendency.
	for _, i := range []int{iCO, iCO2, iH2O} {
		if f[i] != 0 {
			t.Errorf("tracer %s has tendency %g", varNames[i], f[i])
		}
	}
}

// Conservation must hold at any state, not just the reference one:
// perturb each species in turn and check the weighted tendencies still
// cancel.
func TestDerivativeConservationPerturbed(t *testing.T) {
	m := New()
	y, fix, k := testState(0.7)
	n := m.Dims().NVar

	f0 := make([]float64, n)
	f1 := make([]float64, n)

	groups := m.ConservedGroups()
	for j := 0; j < n; j++ {
		yj := y[j]
		y[j] = yj * 3.7
		m.Derivative(f1, y, fix, k)
		y[j] = yj * 0.1
		m.Derivative(f0, y, fix, k)
		y[j] = yj

		for name, group := range groups {
			for _, f := range [][]float64{f0, f1} {
				sum, scale := 0., 0.
				for _, sp := range group {
					sum += sp.Weight * f[sp.Index]
					scale += math.Abs(sp.Weight * f[sp.Index])
				}
				if scale > 0 && math.Abs(sum) > 1e-10*scale {
					t.Errorf("%s not conserved with species %d perturbed: %g",
						name, j, sum)
				}
			}
		}
	}
}

// N2O5 hydrolysis moves odd nitrogen from N2O5 into HNO3 at twice the
// molar rate.
func TestHeterogeneousStoichiometry(t *testing.T) {
	m := New()
	y, fix, k := testState(0)
	// Isolate the heterogeneous channel.
	for i := range k {
		if i != 8 {
			k[i] = 0
		}
	}
	f := make([]float64, m.Dims().NVar)
	m.Derivative(f, y, fix, k)

	if f[iN2O5] >= 0 {
		t.Errorf("N2O5 tendency = %g; want negative", f[iN2O5])
	}
	if different(f[iHNO3], -2*f[iN2O5], 1e-12) {
		t.Errorf("HNO3 tendency = %g; want %g", f[iHNO3], -2*f[iN2O5])
	}
}

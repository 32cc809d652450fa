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

import (
	"testing"

	"github.com/fritzt/APCEMM/aim"
)

// emitMech exposes emitted species names so injection can be checked
// against the per-meter burden.
type emitMech struct{ decayMech }

func (m *emitMech) VarNames() []string { return []string{"CO", "CO2"} }
func (m *emitMech) VarIndex(name string) (int, bool) {
	switch name {
	case "CO":
		return 0, true
	case "CO2":
		return 1, true
	}
	return 0, false
}

func TestNewEmissionState(t *testing.T) {
	ei := DefaultEmissionIndices()
	ac := AircraftGeometry{Engines: 2, FuelFlow: 1.2, FlightSpeed: 240, WingSpan: 60}

	es, err := NewEmissionState(ei, ac, 1500)
	if err != nil {
		t.Fatal(err)
	}

	// The cross-section merges an engine pair.
	if different(es.Area, 2*1500, testTolerance) {
		t.Errorf("area = %g; want %g", es.Area, 2.*1500)
	}

	fuelPerM := 2 * ac.FuelFlow / ac.FlightSpeed
	if different(es.SpeciesMass["CO2"], ei.CO2*1e-3*fuelPerM, testTolerance) {
		t.Errorf("CO2 mass = %g kg/m", es.SpeciesMass["CO2"])
	}
	// NOx splits 90/9/1 into NO, NO2 and HNO2, mass-converted from the
	// as-NO2 index.
	wantNO := ei.NOx * 0.90 * 1e-3 * fuelPerM * mwNO / mwNO2
	if different(es.SpeciesMass["NO"], wantNO, testTolerance) {
		t.Errorf("NO mass = %g kg/m; want %g", es.SpeciesMass["NO"], wantNO)
	}
	if es.SootDens <= 0 {
		t.Error("no soot emitted")
	}

	if es.Concentration("NO", mwNO) <= 0 {
		t.Error("NO concentration not positive")
	}
	if es.Concentration("XYZ", 30) != 0 {
		t.Error("unknown species has nonzero concentration")
	}
}

// Doubling the engine count doubles the emitted burden but leaves the
// pair-referenced plume area unchanged.
func TestEmissionEngineScaling(t *testing.T) {
	ei := DefaultEmissionIndices()
	two := AircraftGeometry{Engines: 2, FuelFlow: 1.2, FlightSpeed: 240}
	four := AircraftGeometry{Engines: 4, FuelFlow: 1.2, FlightSpeed: 240}

	es2, err := NewEmissionState(ei, two, 1500)
	if err != nil {
		t.Fatal(err)
	}
	es4, err := NewEmissionState(ei, four, 1500)
	if err != nil {
		t.Fatal(err)
	}

	if es4.Area != es2.Area {
		t.Errorf("area changed with engine count: %g vs %g", es4.Area, es2.Area)
	}
	for name, m2 := range es2.SpeciesMass {
		if different(es4.SpeciesMass[name], 2*m2, testTolerance) {
			t.Errorf("%s: 4-engine mass %g; want %g", name, es4.SpeciesMass[name], 2*m2)
		}
	}
	if different(es4.SootDens, 2*es2.SootDens, testTolerance) {
		t.Errorf("soot density %g; want %g", es4.SootDens, 2*es2.SootDens)
	}
}

func TestEmissionStateErrors(t *testing.T) {
	ei := DefaultEmissionIndices()
	if _, err := NewEmissionState(ei, AircraftGeometry{Engines: 0, FuelFlow: 1, FlightSpeed: 240}, 1500); err == nil {
		t.Error("zero engines accepted")
	}
	if _, err := NewEmissionState(ei, AircraftGeometry{Engines: 2, FuelFlow: 1, FlightSpeed: 0}, 1500); err == nil {
		t.Error("zero flight speed accepted")
	}
	if _, err := NewEmissionState(ei, AircraftGeometry{Engines: 2, FuelFlow: 1, FlightSpeed: 240}, 0); err == nil {
		t.Error("zero plume area accepted")
	}
}

// The grid-integrated mass injected must equal the emitted mass per
// meter of flight path exactly, whatever cell set covers the plume.
func TestInjectConservesMass(t *testing.T) {
	g, err := NewSpatialGrid(8, 8, 400, 100)
	if err != nil {
		t.Fatal(err)
	}
	bins, err := aim.NewLogBins(1e-9, 1e-7, 4)
	if err != nil {
		t.Fatal(err)
	}
	mech := &emitMech{}
	st := NewPlumeState(g, mech.Dims(), bins, bins)

	ei := DefaultEmissionIndices()
	ac := AircraftGeometry{Engines: 2, FuelFlow: 1.2, FlightSpeed: 240}
	es, err := NewEmissionState(ei, ac, 1500)
	if err != nil {
		t.Fatal(err)
	}

	cells := []int{10, 11, 18, 19, 26}
	es.Inject(st, mech, cells, g.CellArea())

	// kg per meter of flight path to the molec·m2/cm3 column burden.
	wantCO := es.SpeciesMass["CO"] / mwCO * avogadro * 1e-3
	wantCO2 := es.SpeciesMass["CO2"] / mwCO2 * avogadro * 1e-3
	if different(st.MassOf(0), wantCO, testTolerance) {
		t.Errorf("injected CO burden = %g; want %g", st.MassOf(0), wantCO)
	}
	if different(st.MassOf(1), wantCO2, testTolerance) {
		t.Errorf("injected CO2 burden = %g; want %g", st.MassOf(1), wantCO2)
	}
	if st.SootDens.Sum() <= 0 {
		t.Error("no soot injected")
	}
	if st.SootRadi.Elements[10] != ei.SootRadius {
		t.Errorf("soot radius = %g; want %g", st.SootRadi.Elements[10], ei.SootRadius)
	}
}

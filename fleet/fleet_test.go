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

package fleet

import (
	"testing"

	"github.com/ctessum/unit"
)

func TestPresets(t *testing.T) {
	for _, name := range Names() {
		a, err := Lookup(name)
		if err != nil {
			t.Fatal(err)
		}
		geo, err := a.Geometry()
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if geo.Engines < 2 || geo.FuelFlow <= 0 || geo.FlightSpeed <= 0 || geo.WingSpan <= 0 {
			t.Errorf("%s: implausible geometry %+v", name, geo)
		}
		ei, err := a.EmissionIndices()
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if ei.NOx <= 0 || ei.H2O != 1230 || ei.CO2 != 3160 {
			t.Errorf("%s: implausible emission indices %+v", name, ei)
		}
		if a.Eta <= 0 || a.Eta >= 1 {
			t.Errorf("%s: efficiency %g", name, a.Eta)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, err := Lookup("Concorde"); err == nil {
		t.Error("unknown aircraft accepted")
	}
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	if len(names) < 2 {
		t.Fatalf("only %d presets", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i] < names[i-1] {
			t.Errorf("names not sorted: %q before %q", names[i-1], names[i])
		}
	}
}

func TestCheckRejectsWrongDimensions(t *testing.T) {
	a := &Aircraft{
		Name:     "test",
		Engines:  2,
		FuelFlow: unit.New(1.0, meters), // wrong dimensions
		Speed:    unit.New(250, mPerSecond),
		WingSpan: unit.New(60, meters),
		EINOx:    unit.New(15, gramsPerKg),
		EICO:     unit.New(1, gramsPerKg),
		EISO2:    unit.New(1.2, gramsPerKg),
		EISoot:   unit.New(0.03, gramsPerKg),
		Eta:      0.33,
	}
	if _, err := a.Geometry(); err == nil {
		t.Error("mis-dimensioned fuel flow accepted")
	}

	a.FuelFlow = nil
	if _, err := a.Geometry(); err == nil {
		t.Error("missing fuel flow accepted")
	}

	a.FuelFlow = unit.New(1.0, kgPerSecond)
	a.Engines = 0
	if _, err := a.Geometry(); err == nil {
		t.Error("zero engines accepted")
	}
}

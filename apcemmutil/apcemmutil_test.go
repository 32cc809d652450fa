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

package apcemmutil

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apcemm "github.com/fritzt/APCEMM"
)

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

func TestModelConfigDefaults(t *testing.T) {
	cfg, err := ModelConfig(Cfg)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Nx != 64 || cfg.Ny != 64 {
		t.Errorf("grid = %d × %d; want 64 × 64", cfg.Nx, cfg.Ny)
	}
	if cfg.XLimit != 8000 || cfg.YLimit != 650 {
		t.Errorf("domain = %g × %g", cfg.XLimit, cfg.YLimit)
	}
	if cfg.NRing != 15 || different(cfg.RingRatio, 1.3, 1e-12) {
		t.Errorf("rings = %d at ratio %g", cfg.NRing, cfg.RingRatio)
	}
	if cfg.GridChemistry {
		t.Error("grid chemistry on by default")
	}
	if !cfg.Transport || !cfg.Advection || !cfg.Diffusion {
		t.Errorf("transport switches default to %v/%v/%v; want all on",
			cfg.Transport, cfg.Advection, cfg.Diffusion)
	}
	if !cfg.Chemistry || !cfg.HetChemistry {
		t.Errorf("chemistry switches default to %v/%v; want both on",
			cfg.Chemistry, cfg.HetChemistry)
	}
	if cfg.TransportTimestep != 10 {
		t.Errorf("timestep = %g", cfg.TransportTimestep)
	}
	if cfg.OutputPath != "apcemm_out.nc" {
		t.Errorf("output path = %q", cfg.OutputPath)
	}
}

func TestScenarioDefaults(t *testing.T) {
	cond, res, err := Scenario(Cfg)
	if err != nil {
		t.Fatal(err)
	}
	// 10500 m standard atmosphere.
	if cond.TempK < 215 || cond.TempK > 225 {
		t.Errorf("flight level temperature = %g K", cond.TempK)
	}
	if cond.PressPa < 20000 || cond.PressPa > 30000 {
		t.Errorf("flight level pressure = %g Pa", cond.PressPa)
	}
	if cond.TStart != 8*3600 || cond.TFinal != 16*3600 {
		t.Errorf("window = [%g, %g] s", cond.TStart, cond.TFinal)
	}
	if cond.PlumeArea != res.Area {
		t.Errorf("plume area %g does not match the early plume %g",
			cond.PlumeArea, res.Area)
	}
	if cond.Background["O3"] <= 0 || cond.Background["CO"] <= 0 {
		t.Error("background species not converted to number densities")
	}
	// 50 ppb of O3 at ~7e18 molec/cm3 air.
	if o3 := cond.Background["O3"]; o3 < 1e11 || o3 > 1e12 {
		t.Errorf("background O3 = %g molec/cm3", o3)
	}
	if cond.Diffusion == nil {
		t.Error("no diffusion function")
	}
	if res.Forms && cond.EmittedIce.N0 != res.IceNumber {
		t.Error("emitted ice not seeded from the early plume")
	}
	if cond.Met == nil {
		t.Error("no sounding attached to the run conditions")
	}
	if cond.Altitude != 10500 {
		t.Errorf("flight altitude = %g m; want 10500", cond.Altitude)
	}
}

func TestReadSweepPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.toml")
	content := `
OutputDir = "out"

[[scenario]]
Name = "cold"
Aircraft = "B777-300"
Altitude = 10500.0
Latitude = 45.0
Day = 172
Hour = 8.0
Duration = 2.0
Humidity = 60.0
TempShift = -5.0
Shear = 2e-3

[[scenario]]
Name = "warm"
Aircraft = "A320-214"
Altitude = 9500.0
Latitude = 30.0
Day = 200
Hour = 14.0
Duration = 1.0
Humidity = 40.0
TempShift = 5.0
Shear = 0.0
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	plan, err := ReadSweepPlan(path)
	if err != nil {
		t.Fatal(err)
	}
	if plan.OutputDir != "out" {
		t.Errorf("output dir = %q", plan.OutputDir)
	}
	if len(plan.Scenarios) != 2 {
		t.Fatalf("got %d scenarios", len(plan.Scenarios))
	}
	s := plan.Scenarios[0]
	if s.Name != "cold" || s.Aircraft != "B777-300" || s.TempShift != -5 {
		t.Errorf("first scenario = %+v", s)
	}
	if plan.Scenarios[1].Duration != 1 {
		t.Errorf("second duration = %g", plan.Scenarios[1].Duration)
	}
}

func TestReadSweepPlanErrors(t *testing.T) {
	if _, err := ReadSweepPlan(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("missing file accepted")
	}
	empty := filepath.Join(t.TempDir(), "empty.toml")
	if err := os.WriteFile(empty, []byte("OutputDir = \"out\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadSweepPlan(empty); err == nil {
		t.Error("plan without scenarios accepted")
	}
}

func TestSweepScenarioConditions(t *testing.T) {
	s := SweepScenario{
		Name:     "test",
		Aircraft: "B777-300",
		Altitude: 10500,
		Latitude: 45,
		Day:      172,
		Hour:     8,
		Duration: 2,
		Humidity: 60,
	}
	cond, res, err := s.conditions()
	if err != nil {
		t.Fatal(err)
	}
	if cond.TFinal-cond.TStart != 2*3600 {
		t.Errorf("duration = %g s", cond.TFinal-cond.TStart)
	}
	if cond.PlumeArea != res.Area {
		t.Error("plume area not taken from the early plume")
	}
	if cond.Liquid.N0 != backgroundSulfate.N0 {
		t.Error("background sulfate not applied")
	}
	if cond.Met == nil || cond.Altitude != 10500 {
		t.Error("sounding and flight altitude not carried into the conditions")
	}

	s.Aircraft = "unknown"
	if _, _, err := s.conditions(); err == nil {
		t.Error("unknown aircraft accepted")
	}
}

func TestSummarizeSweep(t *testing.T) {
	results := []SweepResult{
		{
			Scenario:   SweepScenario{Name: "a"},
			Status:     apcemm.Success,
			Persistent: true,
			IceNumber:  100,
			NOyBurden:  2e12,
		},
		{
			Scenario:  SweepScenario{Name: "b"},
			Status:    apcemm.Success,
			IceNumber: 200,
			NOyBurden: 4e12,
		},
	}
	var buf bytes.Buffer
	if err := SummarizeSweep(&buf, results); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"a", "b", "mean 150", "NOy"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}

	results[1].Status = apcemm.ChemistryFailure
	buf.Reset()
	if err := SummarizeSweep(&buf, results); err == nil {
		t.Error("failed scenario not reported")
	}
}

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
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/GaryBoone/GoStats/stats"
	"github.com/sirupsen/logrus"

	apcemm "github.com/fritzt/APCEMM"
	"github.com/fritzt/APCEMM/epm"
	"github.com/fritzt/APCEMM/fleet"
	"github.com/fritzt/APCEMM/met"
)

// SweepScenario is one flight in a parameter sweep.
type SweepScenario struct {
	Name      string
	Aircraft  string
	Altitude  float64 // [m]
	Latitude  float64 // [deg]
	Day       int
	Hour      float64 // local emission time [h]
	Duration  float64 // simulated plume age [h]
	Humidity  float64 // RH w.r.t. liquid [%]
	TempShift float64 // [K]
	Shear     float64 // [1/s]
}

// SweepPlan is a TOML-encoded set of scenarios.
type SweepPlan struct {
	OutputDir string
	Scenarios []SweepScenario `toml:"scenario"`
}

// ReadSweepPlan parses a sweep plan from a TOML file.
func ReadSweepPlan(path string) (*SweepPlan, error) {
	var plan SweepPlan
	if _, err := toml.DecodeFile(path, &plan); err != nil {
		return nil, fmt.Errorf("apcemm: reading sweep plan %s: %v", path, err)
	}
	if len(plan.Scenarios) == 0 {
		return nil, fmt.Errorf("apcemm: sweep plan %s has no scenarios", path)
	}
	return &plan, nil
}

// SweepResult is the outcome of one scenario.
type SweepResult struct {
	Scenario SweepScenario
	Status   apcemm.Status
	Err      error

	Persistent bool
	IceNumber  float64 // final grid-total ice number density [#/cm3]
	NOyBurden  float64 // final grid-integrated NOy [molec·m2/cm3]
}

// conditions builds the run conditions for one scenario.
func (s SweepScenario) conditions() (apcemm.Conditions, *epm.Result, error) {
	var cond apcemm.Conditions

	sounding := met.ISA{TempShift: s.TempShift, Humidity: s.Humidity}
	if err := met.Validate(sounding, s.Altitude); err != nil {
		return cond, nil, err
	}
	aircraft, err := fleet.Lookup(s.Aircraft)
	if err != nil {
		return cond, nil, err
	}
	geo, err := aircraft.Geometry()
	if err != nil {
		return cond, nil, err
	}
	ei, err := aircraft.EmissionIndices()
	if err != nil {
		return cond, nil, err
	}

	tempK := sounding.TempK(s.Altitude)
	pressPa := sounding.PressPa(s.Altitude)

	res, err := epm.Run(epm.Inputs{
		TempK:       tempK,
		PressPa:     pressPa,
		RHw:         s.Humidity,
		EIH2O:       ei.H2O,
		EISoot:      ei.Soot,
		SootRadius:  ei.SootRadius,
		FuelFlow:    geo.FuelFlow,
		Engines:     geo.Engines,
		FlightSpeed: geo.FlightSpeed,
		WingSpan:    geo.WingSpan,
		Eta:         aircraft.Eta,
		LHV:         jetALHV,
	})
	if err != nil {
		return cond, nil, err
	}

	airDens := pressPa / (1.380649e-23 * tempK) * 1e-6
	tStart := s.Hour * 3600.
	cond = apcemm.Conditions{
		TempK:    tempK,
		PressPa:  pressPa,
		RHw:      s.Humidity,
		Latitude: s.Latitude,
		Day:      s.Day,
		TStart:   tStart,
		TFinal:   tStart + s.Duration*3600.,
		Background: map[string]float64{
			"O3":  50. * 1e-9 * airDens,
			"NO":  0.02 * 1e-9 * airDens,
			"NO2": 0.03 * 1e-9 * airDens,
			"CO":  90. * 1e-9 * airDens,
		},
		Liquid:    backgroundSulfate,
		PlumeArea: res.Area,
		EI:        ei,
		Aircraft:  geo,
		Diffusion: met.ShearDiffusion(18., 0.15, s.Shear),
		Altitude:  s.Altitude,
		Met:       sounding,
	}
	if res.Forms {
		cond.EmittedIce = apcemm.BackgroundAerosol{
			N0:    res.IceNumber,
			RMode: res.IceRadius,
			Sigma: 1.6,
		}
	}
	return cond, res, nil
}

// Sweep simulates every scenario of the plan concurrently. Each
// scenario gets its own Model, and through it its own solver and
// chemistry buffers, so runs never share mutable state. maxParallel
// caps concurrency; zero means one per CPU.
func Sweep(cfg apcemm.Config, mech apcemm.Mechanism, plan *SweepPlan, maxParallel int) ([]SweepResult, error) {
	if maxParallel <= 0 {
		maxParallel = runtime.GOMAXPROCS(0)
	}
	cfg.OutputPath = "" // sweep results are summarized, not written per run

	results := make([]SweepResult, len(plan.Scenarios))
	sem := make(chan struct{}, maxParallel)
	var wg sync.WaitGroup
	for i := range plan.Scenarios {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = runScenario(cfg, mech, plan.Scenarios[i])
		}(i)
	}
	wg.Wait()

	for i := range results {
		if results[i].Err != nil {
			logrus.WithFields(logrus.Fields{
				"scenario": results[i].Scenario.Name,
				"status":   results[i].Status,
			}).Error(results[i].Err.Error())
		}
	}
	return results, nil
}

func runScenario(cfg apcemm.Config, mech apcemm.Mechanism, s SweepScenario) SweepResult {
	out := SweepResult{Scenario: s, Status: apcemm.Aborted}

	cond, res, err := s.conditions()
	if err != nil {
		out.Err = err
		return out
	}
	out.Persistent = res.Persistent

	m, err := apcemm.New(cfg, mech)
	if err != nil {
		out.Err = err
		return out
	}
	out.Status, out.Err = m.Run(cond)
	if out.Status != apcemm.Success {
		return out
	}

	for _, set := range m.Snapshots {
		if set.Name == "iceNumber" && set.Len() > 0 {
			out.IceNumber = set.Frames[set.Len()-1].Sum()
		}
	}
	if len(m.Ambient.Conc) > 0 {
		if d, ok := mech.(apcemm.MassDiagnoser); ok {
			last := m.Rings.Conc[len(m.Rings.Conc)-1]
			for _, sp := range d.ConservedGroups()["NOy"] {
				for b := 0; b < m.Rings.NBuckets; b++ {
					out.NOyBurden += sp.Weight * last[b*m.Rings.NVar+sp.Index]
				}
			}
		}
	}
	return out
}

// SummarizeSweep prints per-scenario outcomes and cross-scenario
// statistics.
func SummarizeSweep(w io.Writer, results []SweepResult) error {
	var ice, noy stats.Stats
	failed := 0
	for _, r := range results {
		fmt.Fprintf(w, "%-20s status=%v persistent=%v ice=%.4g NOy=%.4g\n",
			r.Scenario.Name, r.Status, r.Persistent, r.IceNumber, r.NOyBurden)
		if r.Status != apcemm.Success {
			failed++
			continue
		}
		ice.Update(r.IceNumber)
		noy.Update(r.NOyBurden)
	}
	if ice.Count() > 1 {
		fmt.Fprintf(w, "ice number: mean %.4g sd %.4g over %d runs\n",
			ice.Mean(), ice.SampleStandardDeviation(), ice.Count())
		fmt.Fprintf(w, "NOy: mean %.4g sd %.4g\n",
			noy.Mean(), noy.SampleStandardDeviation())
	}
	if failed > 0 {
		return fmt.Errorf("apcemm: %d of %d sweep scenarios failed", failed, len(results))
	}
	return nil
}

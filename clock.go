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

// TimestepFunc picks the next integration step size [s] from the current
// time, the simulation start time, and the sunrise/sunset times (all [s]
// since local midnight). Implementations must be deterministic: the same
// inputs always yield the same step.
type TimestepFunc func(t, tStart, sunRise, sunSet float64) float64

// DiffusionFunc returns the horizontal and vertical diffusion
// coefficients [m2/s] for the given elapsed simulation time [s].
// Implementations must be deterministic.
type DiffusionFunc func(elapsed float64) (dh, dv float64)

// AdvectionFunc returns the horizontal and vertical domain-wide advection
// velocities [m/s] for the given elapsed simulation time [s].
// Implementations must be deterministic.
type AdvectionFunc func(elapsed float64) (vx, vy float64)

// FixedTimestep returns a TimestepFunc that always picks dt.
func FixedTimestep(dt float64) TimestepFunc {
	return func(t, tStart, sunRise, sunSet float64) float64 { return dt }
}

// DayNightTimestep returns a TimestepFunc with base step size dt that
// shortens a step to land exactly on the next sunrise or sunset, so the
// photolysis switch never happens mid-step.
func DayNightTimestep(dt float64) TimestepFunc {
	return func(t, tStart, sunRise, sunSet float64) float64 {
		const day = 24. * 3600.
		tod := t - day*float64(int(t/day)) // time of day
		for _, event := range []float64{sunRise, sunSet} {
			if tod < event && tod+dt > event {
				return event - tod
			}
		}
		return dt
	}
}

// SimulationClock tracks the progress of one run. The clock advances
// monotonically; the step size is recomputed every iteration by the
// model's TimestepFunc.
type SimulationClock struct {
	T      float64 // current time [s] since local midnight
	Dt     float64 // current step size [s]
	TStart float64 // [s]
	TFinal float64 // [s]
	Step   int     // completed step count
}

// LastStep reports whether the current step will reach or pass TFinal.
func (c *SimulationClock) LastStep() bool { return c.T+c.Dt >= c.TFinal }

// Done reports whether the run is complete.
func (c *SimulationClock) Done() bool { return c.T >= c.TFinal }

// Advance moves the clock forward by the current step size.
func (c *SimulationClock) Advance() {
	c.T += c.Dt
	c.Step++
}

// Schedule fires events on an independent cadence within the simulation
// loop: an event is due when the time elapsed since the last event
// reaches the period, or unconditionally on the terminal step. The
// elapsed span at firing, not the transport step size, is the caller's
// integration span (sub-cycling).
type Schedule struct {
	Period float64 // [s]
	last   float64 // time of the last fired event [s]
}

// NewSchedule creates a schedule with the given period whose last event
// is taken to be t0.
func NewSchedule(period, t0 float64) *Schedule {
	return &Schedule{Period: period, last: t0}
}

// Due reports whether the event should fire at time t.
func (s *Schedule) Due(t float64, lastStep bool) bool {
	return t-s.last >= s.Period || lastStep
}

// Fire records an event at time t and returns the span elapsed since the
// previous event.
func (s *Schedule) Fire(t float64) float64 {
	elapsed := t - s.last
	s.last = t
	return elapsed
}

// Last returns the time of the most recent event.
func (s *Schedule) Last() float64 { return s.last }

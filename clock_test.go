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

import "testing"

func TestSchedule(t *testing.T) {
	s := NewSchedule(100, 0)

	if s.Due(40, false) {
		t.Error("due at 0.4 periods")
	}
	if s.Due(90, false) {
		t.Error("due at 0.9 periods")
	}
	if !s.Due(110, false) {
		t.Error("not due at 1.1 periods")
	}

	// The terminal step always fires, whatever the elapsed span.
	if !s.Due(40, true) {
		t.Error("not due on terminal step")
	}

	// Firing returns the full elapsed span, not the period, so
	// sub-cycled processes integrate over exactly the time that passed.
	if got := s.Fire(110); got != 110 {
		t.Errorf("fired span = %g; want 110", got)
	}
	if s.Last() != 110 {
		t.Errorf("last = %g; want 110", s.Last())
	}
	if s.Due(150, false) {
		t.Error("due again 40 s after firing")
	}
	if got := s.Fire(230); got != 120 {
		t.Errorf("second span = %g; want 120", got)
	}
}

func TestSimulationClock(t *testing.T) {
	c := &SimulationClock{T: 0, Dt: 60, TStart: 0, TFinal: 150}

	if c.Done() || c.LastStep() {
		t.Error("fresh clock reports done or last step")
	}
	c.Advance()
	if c.T != 60 || c.Step != 1 {
		t.Errorf("after one step: t = %g, step = %d", c.T, c.Step)
	}
	c.Advance()
	if !c.LastStep() {
		t.Error("step crossing the end time not reported as last")
	}
	c.Dt = c.TFinal - c.T
	c.Advance()
	if !c.Done() {
		t.Error("clock not done at the end time")
	}
}

func TestFixedTimestep(t *testing.T) {
	step := FixedTimestep(45)
	for _, tm := range []float64{0, 1000, 86400} {
		if got := step(tm, 0, 6*3600, 18*3600); got != 45 {
			t.Errorf("step at t=%g is %g; want 45", tm, got)
		}
	}
}

func TestDayNightTimestep(t *testing.T) {
	const sunRise, sunSet = 6 * 3600., 18 * 3600.
	step := DayNightTimestep(600)

	// Away from the terminator the base step is used.
	if got := step(12*3600, 0, sunRise, sunSet); got != 600 {
		t.Errorf("midday step = %g; want 600", got)
	}

	// A step that would straddle sunrise is cut to land exactly on it.
	if got := step(sunRise-100, 0, sunRise, sunSet); got != 100 {
		t.Errorf("pre-sunrise step = %g; want 100", got)
	}
	if got := step(sunSet-250, 0, sunRise, sunSet); got != 250 {
		t.Errorf("pre-sunset step = %g; want 250", got)
	}

	// The shortening also applies on later days.
	day2 := 24*3600 + sunSet - 50
	if got := step(day2, 0, sunRise, sunSet); got != 50 {
		t.Errorf("day-2 pre-sunset step = %g; want 50", got)
	}
}

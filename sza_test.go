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
	"math"
	"testing"
)

func TestSolarGeometry(t *testing.T) {
	// Midlatitude summer solstice.
	s := NewSolarGeometry(45, 172)

	if s.SunRise >= s.SunSet {
		t.Fatalf("sunrise %g not before sunset %g", s.SunRise, s.SunSet)
	}
	// Day length exceeds 12 hours in summer.
	if s.SunSet-s.SunRise <= 12*3600 {
		t.Errorf("day length = %g h", (s.SunSet-s.SunRise)/3600)
	}

	// CSZA peaks at solar noon and matches the declination geometry there.
	s.Update(12 * 3600)
	if different(s.CSZA, s.CSZAMax, testTolerance) {
		t.Errorf("noon CSZA = %g; max = %g", s.CSZA, s.CSZAMax)
	}
	if !s.Sunlit() {
		t.Error("not sunlit at noon")
	}

	// The sun crosses the horizon at the computed sunrise and sunset.
	s.Update(s.SunRise)
	if math.Abs(s.CSZA) > 1e-9 {
		t.Errorf("CSZA at sunrise = %g; want 0", s.CSZA)
	}
	s.Update(s.SunSet)
	if math.Abs(s.CSZA) > 1e-9 {
		t.Errorf("CSZA at sunset = %g; want 0", s.CSZA)
	}

	s.Update(0)
	if s.Sunlit() {
		t.Error("sunlit at midnight")
	}

	// Time wraps at 24 hours.
	s.Update(12 * 3600)
	noon := s.CSZA
	s.Update(36 * 3600)
	if different(s.CSZA, noon, testTolerance) {
		t.Errorf("wrapped noon CSZA = %g; want %g", s.CSZA, noon)
	}
}

func TestSolarGeometryPolar(t *testing.T) {
	// Polar day at high northern latitude near the solstice.
	day := NewSolarGeometry(80, 172)
	if day.SunRise != 0 || day.SunSet != 24*3600 {
		t.Errorf("polar day: sunrise %g, sunset %g", day.SunRise, day.SunSet)
	}
	day.Update(0)
	if !day.Sunlit() {
		t.Error("polar day dark at midnight")
	}

	// Polar night in winter.
	night := NewSolarGeometry(80, 355)
	if night.SunRise != 0 || night.SunSet != 0 {
		t.Errorf("polar night: sunrise %g, sunset %g", night.SunRise, night.SunSet)
	}
	night.Update(12 * 3600)
	if night.Sunlit() {
		t.Error("polar night sunlit at noon")
	}
}

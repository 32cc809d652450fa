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

// SolarGeometry tracks the cosine of the solar zenith angle for a fixed
// latitude and day of year. Time is local solar time in seconds since
// midnight; photolysis is active while CSZA > 0.
type SolarGeometry struct {
	Latitude float64 // [degrees north]
	Day      int     // day of year (1-365)

	CSZA    float64 // cosine of the solar zenith angle at the last Update
	CSZAMax float64 // maximum (solar noon) value

	SunRise float64 // [s] since local midnight
	SunSet  float64 // [s] since local midnight

	sinLatSinDec float64
	cosLatCosDec float64
}

// NewSolarGeometry computes sunrise/sunset and the noon solar zenith
// angle for the given latitude and day of year.
func NewSolarGeometry(latitudeDeg float64, day int) *SolarGeometry {
	s := &SolarGeometry{Latitude: latitudeDeg, Day: day}

	lat := latitudeDeg * math.Pi / 180.
	// Solar declination, approximated with a 23.44° obliquity cosine fit.
	dec := -23.44 * math.Pi / 180. *
		math.Cos(2.*math.Pi*(float64(day)+10.)/365.)

	s.sinLatSinDec = math.Sin(lat) * math.Sin(dec)
	s.cosLatCosDec = math.Cos(lat) * math.Cos(dec)
	s.CSZAMax = s.sinLatSinDec + s.cosLatCosDec

	// Hour angle of sunrise; clamp for polar day and night.
	cosH0 := -math.Tan(lat) * math.Tan(dec)
	switch {
	case cosH0 <= -1.: // polar day
		s.SunRise, s.SunSet = 0., 24.*3600.
	case cosH0 >= 1.: // polar night
		s.SunRise, s.SunSet = 0., 0.
	default:
		h0 := math.Acos(cosH0)                    // [rad]
		half := h0 / (2. * math.Pi) * 24. * 3600. // [s]
		s.SunRise = 12.*3600. - half
		s.SunSet = 12.*3600. + half
	}

	s.Update(0)
	return s
}

// Update recomputes CSZA at local time t [s]; t wraps at 24 hours.
func (s *SolarGeometry) Update(t float64) {
	hourAngle := 2. * math.Pi * (math.Mod(t, 24.*3600.)/(24.*3600.) - 0.5)
	s.CSZA = s.sinLatSinDec + s.cosLatCosDec*math.Cos(hourAngle)
}

// Sunlit reports whether the sun was above the horizon at the last Update.
func (s *SolarGeometry) Sunlit() bool { return s.CSZA > 0 }

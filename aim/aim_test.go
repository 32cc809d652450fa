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

package aim

import (
	"math"
	"testing"
)

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

func TestNewLogBins(t *testing.T) {
	bins, err := NewLogBins(1e-9, 1e-6, 12)
	if err != nil {
		t.Fatal(err)
	}
	if len(bins) != 12 {
		t.Fatalf("got %d bins", len(bins))
	}
	if different(bins[0].Low, 1e-9, 1e-12) {
		t.Errorf("first edge = %g", bins[0].Low)
	}
	if different(bins[11].High, 1e-6, 1e-12) {
		t.Errorf("last edge = %g", bins[11].High)
	}
	// Edges are contiguous with a constant ratio.
	ratio := bins[0].High / bins[0].Low
	for b := 1; b < len(bins); b++ {
		if bins[b].Low != bins[b-1].High {
			t.Errorf("gap between bins %d and %d", b-1, b)
		}
		if different(bins[b].High/bins[b].Low, ratio, 1e-10) {
			t.Errorf("bin %d ratio = %g; want %g", b, bins[b].High/bins[b].Low, ratio)
		}
		if bins[b].Center <= bins[b].Low || bins[b].Center >= bins[b].High {
			t.Errorf("bin %d center %g outside [%g, %g]",
				b, bins[b].Center, bins[b].Low, bins[b].High)
		}
	}

	if _, err := NewLogBins(1e-9, 1e-6, 1); err == nil {
		t.Error("single bin accepted")
	}
	if _, err := NewLogBins(1e-6, 1e-9, 8); err == nil {
		t.Error("inverted radii accepted")
	}
}

func TestSpectrumLogNormal(t *testing.T) {
	bins, err := NewLogBins(1e-9, 1e-6, 32)
	if err != nil {
		t.Fatal(err)
	}
	s := NewSpectrum(bins)
	s.LogNormal(500, 3e-8, 1.6)

	if different(s.Moment(0), 500, 1e-9) {
		t.Errorf("total number = %g; want 500", s.Moment(0))
	}
	// The mode bin carries the largest density.
	max, argmax := 0., 0
	for b := range s.N {
		if s.N[b] > max {
			max, argmax = s.N[b], b
		}
	}
	if r := bins[argmax].Center; r < 2e-8 || r > 4.5e-8 {
		t.Errorf("mode at %g m; want near 3e-8", r)
	}
	if eff := s.EffRadius(); eff <= 3e-8 {
		t.Errorf("effective radius %g not above the mode radius", eff)
	}

	s.Scale(2)
	if different(s.Moment(0), 1000, 1e-9) {
		t.Errorf("scaled total = %g; want 1000", s.Moment(0))
	}
}

func TestAerosolFields(t *testing.T) {
	bins, err := NewLogBins(1e-8, 1e-6, 8)
	if err != nil {
		t.Fatal(err)
	}
	s := NewSpectrum(bins)
	s.LogNormal(200, 1e-7, 1.5)

	a := NewUniformAerosol(s, 4, 4)
	if a.NBins() != 8 {
		t.Fatalf("NBins = %d", a.NBins())
	}
	if different(a.NumberAt(5), 200, 1e-9) {
		t.Errorf("NumberAt = %g; want 200", a.NumberAt(5))
	}
	if different(a.TotalNumber(), 200*16, 1e-9) {
		t.Errorf("TotalNumber = %g; want %g", a.TotalNumber(), 200.*16)
	}
	if a.SurfaceAreaAt(0) <= 0 || a.VolumeAt(0) <= 0 {
		t.Error("zero surface area or volume for a loaded cell")
	}
	if eff := a.EffRadiusAt(0); different(eff, s.EffRadius(), 1e-9) {
		t.Errorf("EffRadiusAt = %g; want %g", eff, s.EffRadius())
	}

	f := a.NumberField()
	if different(f.Elements[7], 200, 1e-9) {
		t.Errorf("number field cell = %g; want 200", f.Elements[7])
	}

	c := a.Copy()
	c.NDF[0].Elements[0] = -1
	if a.NDF[0].Elements[0] == -1 {
		t.Error("Copy shares storage with the original")
	}

	empty := NewAerosol(bins, 2, 2)
	if empty.EffRadiusAt(0) != 0 {
		t.Error("empty cell has a nonzero effective radius")
	}
}

func TestBrownianKernel(t *testing.T) {
	bins, err := NewLogBins(1e-9, 1e-6, 16)
	if err != nil {
		t.Fatal(err)
	}
	k := NewBrownianKernel(bins, 220, 24000, 1600)

	for i := range k.K {
		for j := range k.K[i] {
			if k.K[i][j] <= 0 || math.IsNaN(k.K[i][j]) {
				t.Fatalf("kernel[%d][%d] = %g", i, j, k.K[i][j])
			}
			if different(k.K[i][j], k.K[j][i], 1e-9) {
				t.Fatalf("kernel not symmetric at (%d,%d)", i, j)
			}
		}
	}
	// Brownian coagulation is fastest between very different sizes.
	n := len(bins)
	if k.K[0][n-1] <= k.K[0][0] || k.K[0][n-1] <= k.K[n-1][n-1] {
		t.Error("unlike-size pair does not dominate the kernel")
	}
}

// Coagulation conserves particle volume while reducing particle number.
func TestCoagulateConservesVolume(t *testing.T) {
	bins, err := NewLogBins(1e-9, 1e-6, 24)
	if err != nil {
		t.Fatal(err)
	}
	s := NewSpectrum(bins)
	s.LogNormal(1e5, 2e-8, 1.6)
	a := NewUniformAerosol(s, 2, 2)
	kernel := NewBrownianKernel(bins, 220, 24000, 1600)

	n0 := a.NumberAt(0)
	v0 := a.VolumeAt(0)

	a.Coagulate(600, kernel, RegimePerCell, 1)

	if a.NumberAt(0) >= n0 {
		t.Errorf("number did not decrease: %g to %g", n0, a.NumberAt(0))
	}
	if different(a.VolumeAt(0), v0, 1e-6) {
		t.Errorf("volume drifted from %g to %g", v0, a.VolumeAt(0))
	}
	for b := range bins {
		for _, v := range a.NDF[b].Elements {
			if v < 0 {
				t.Fatalf("negative density in bin %d", b)
			}
		}
	}
}

// Doubling the symmetry factor strengthens coagulation: more partners
// per stored particle.
func TestCoagulateSymmetry(t *testing.T) {
	bins, err := NewLogBins(1e-9, 1e-6, 24)
	if err != nil {
		t.Fatal(err)
	}
	s := NewSpectrum(bins)
	s.LogNormal(1e5, 2e-8, 1.6)
	kernel := NewBrownianKernel(bins, 220, 24000, 1600)

	a1 := NewUniformAerosol(s, 2, 2)
	a2 := NewUniformAerosol(s, 2, 2)
	a1.Coagulate(600, kernel, RegimeUniform, 1)
	a2.Coagulate(600, kernel, RegimeUniform, 2)

	if a2.NumberAt(0) >= a1.NumberAt(0) {
		t.Errorf("symmetry 2 lost fewer particles: %g vs %g",
			a2.NumberAt(0), a1.NumberAt(0))
	}
}

func TestCoagulateRegimes(t *testing.T) {
	bins, err := NewLogBins(1e-9, 1e-6, 16)
	if err != nil {
		t.Fatal(err)
	}
	s := NewSpectrum(bins)
	s.LogNormal(1e5, 2e-8, 1.6)
	kernel := NewBrownianKernel(bins, 220, 24000, 1600)

	// RegimeNone is a no-op.
	a := NewUniformAerosol(s, 2, 2)
	before := a.NumberAt(0)
	a.Coagulate(600, kernel, RegimeNone, 1)
	if a.NumberAt(0) != before {
		t.Error("RegimeNone changed the population")
	}

	// RegimeUniform keeps the field uniform.
	a.Coagulate(600, kernel, RegimeUniform, 1)
	for b := range bins {
		v := a.NDF[b].Elements[0]
		for c := range a.NDF[b].Elements {
			if a.NDF[b].Elements[c] != v {
				t.Fatalf("bin %d not uniform after RegimeUniform", b)
			}
		}
	}
}

func TestSettlingVelocities(t *testing.T) {
	bins, err := NewLogBins(1e-8, 1e-4, 16)
	if err != nil {
		t.Fatal(err)
	}
	v := SettlingVelocities(bins, 220, 24000, 916.7)

	// Larger crystals fall faster.
	for b := 1; b < len(v); b++ {
		if v[b] <= v[b-1] {
			t.Fatalf("settling not monotone at bin %d: %g <= %g", b, v[b], v[b-1])
		}
	}
	// A 50 µm crystal falls on the order of 0.1 m/s at cruise level.
	r50 := 0
	for b, bin := range bins {
		if bin.Center < 50e-6 {
			r50 = b
		}
	}
	if v[r50] < 1e-3 || v[r50] > 10 {
		t.Errorf("v(%g m) = %g m/s", bins[r50].Center, v[r50])
	}
}

// Supersaturation shifts the population toward larger radii, conserving
// number; subsaturation shifts it back down.
func TestGrow(t *testing.T) {
	bins, err := NewLogBins(1e-7, 1e-4, 24)
	if err != nil {
		t.Fatal(err)
	}
	s := NewSpectrum(bins)
	s.LogNormal(100, 1e-6, 1.4)
	a := NewUniformAerosol(s, 2, 2)

	n0 := a.NumberAt(0)
	r0 := a.EffRadiusAt(0)

	a.Grow(60, 215, 24000, 1.4, RegimePerCell)
	if different(a.NumberAt(0), n0, 1e-9) {
		t.Errorf("growth changed the number: %g to %g", n0, a.NumberAt(0))
	}
	r1 := a.EffRadiusAt(0)
	if r1 <= r0 {
		t.Errorf("supersaturated growth shrank the radius: %g to %g", r0, r1)
	}

	a.Grow(60, 215, 24000, 0.6, RegimePerCell)
	if a.EffRadiusAt(0) >= r1 {
		t.Error("subsaturated population did not shrink")
	}

	// si = 1 is equilibrium.
	r2 := a.EffRadiusAt(0)
	a.Grow(60, 215, 24000, 1.0, RegimePerCell)
	if a.EffRadiusAt(0) != r2 {
		t.Error("equilibrium changed the population")
	}
}

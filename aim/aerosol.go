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

// Package aim holds the Aerosol Interactions and Microphysics engine:
// binned particle-size distributions over the plume mesh, Brownian
// coagulation, condensational ice growth, and gravitational settling.
package aim

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// Bin is one size bin of a particle-size distribution.
type Bin struct {
	Center float64 // radius at bin center [m]
	Low    float64 // lower edge radius [m]
	High   float64 // upper edge radius [m]
}

// Volume returns the single-particle volume at the bin center [m3].
func (b Bin) Volume() float64 {
	return 4. / 3. * math.Pi * b.Center * b.Center * b.Center
}

// NewLogBins builds n logarithmically spaced bins spanning
// [rMin, rMax] radii [m].
func NewLogBins(rMin, rMax float64, n int) ([]Bin, error) {
	if n < 2 || rMin <= 0 || rMax <= rMin {
		return nil, fmt.Errorf("aim: invalid bin specification rMin=%g rMax=%g n=%d",
			rMin, rMax, n)
	}
	ratio := math.Pow(rMax/rMin, 1./float64(n))
	bins := make([]Bin, n)
	low := rMin
	for b := range bins {
		high := low * ratio
		bins[b] = Bin{Low: low, High: high, Center: math.Sqrt(low * high)}
		low = high
	}
	return bins, nil
}

// BinCenters returns the center radii of bins [m].
func BinCenters(bins []Bin) []float64 {
	r := make([]float64, len(bins))
	for i, b := range bins {
		r[i] = b.Center
	}
	return r
}

// Spectrum is a spatially uniform particle-size distribution: one number
// density per bin.
type Spectrum struct {
	Bins []Bin
	N    []float64 // number density per bin [#/cm3]
}

// NewSpectrum creates an empty spectrum over bins.
func NewSpectrum(bins []Bin) *Spectrum {
	return &Spectrum{Bins: bins, N: make([]float64, len(bins))}
}

// LogNormal fills the spectrum with a log-normal distribution with total
// number n0 [#/cm3], mode radius rMode [m] and geometric standard
// deviation sigma.
func (s *Spectrum) LogNormal(n0, rMode, sigma float64) {
	lnS := math.Log(sigma)
	total := 0.
	for b, bin := range s.Bins {
		x := math.Log(bin.Center/rMode) / lnS
		s.N[b] = math.Exp(-0.5*x*x) * math.Log(bin.High/bin.Low)
		total += s.N[b]
	}
	if total == 0 {
		return
	}
	for b := range s.N {
		s.N[b] *= n0 / total
	}
}

// Moment returns the radius moment Σ N_b·r_b^order. Moment(0) is the
// total number density [#/cm3].
func (s *Spectrum) Moment(order int) float64 {
	m := 0.
	for b, bin := range s.Bins {
		m += s.N[b] * math.Pow(bin.Center, float64(order))
	}
	return m
}

// EffRadius returns the effective (area-weighted) radius [m], or zero
// for an empty spectrum.
func (s *Spectrum) EffRadius() float64 {
	m2 := s.Moment(2)
	if m2 <= 0 {
		return 0
	}
	return s.Moment(3) / m2
}

// Scale multiplies all bin densities by f.
func (s *Spectrum) Scale(f float64) {
	for b := range s.N {
		s.N[b] *= f
	}
}

// Aerosol is a binned particle-size distribution resolved over the plume
// mesh: one number-density field per size bin. Bins are shared by all
// cells; each bin's field is transported independently.
type Aerosol struct {
	Bins []Bin
	NDF  []*sparse.DenseArray // number density per bin [#/cm3], shape [ny, nx]

	ny, nx int
}

// NewAerosol creates a gridded aerosol population with all densities
// zero.
func NewAerosol(bins []Bin, ny, nx int) *Aerosol {
	a := &Aerosol{Bins: bins, ny: ny, nx: nx,
		NDF: make([]*sparse.DenseArray, len(bins))}
	for b := range bins {
		a.NDF[b] = sparse.ZerosDense(ny, nx)
	}
	return a
}

// NewUniformAerosol creates a gridded population with every cell set to
// the given spectrum.
func NewUniformAerosol(s *Spectrum, ny, nx int) *Aerosol {
	a := NewAerosol(s.Bins, ny, nx)
	for b := range s.Bins {
		for i := range a.NDF[b].Elements {
			a.NDF[b].Elements[i] = s.N[b]
		}
	}
	return a
}

// NBins returns the number of size bins.
func (a *Aerosol) NBins() int { return len(a.Bins) }

// AddSpectrumAt adds spectrum densities into the cell at flat index c.
func (a *Aerosol) AddSpectrumAt(s *Spectrum, c int) {
	for b := range a.Bins {
		a.NDF[b].Elements[c] += s.N[b]
	}
}

// NumberAt returns the total number density at flat cell index c [#/cm3].
func (a *Aerosol) NumberAt(c int) float64 {
	n := 0.
	for b := range a.Bins {
		n += a.NDF[b].Elements[c]
	}
	return n
}

// SurfaceAreaAt returns the particle surface area density at flat cell
// index c [m2/cm3].
func (a *Aerosol) SurfaceAreaAt(c int) float64 {
	area := 0.
	for b, bin := range a.Bins {
		area += 4. * math.Pi * bin.Center * bin.Center * a.NDF[b].Elements[c]
	}
	return area
}

// EffRadiusAt returns the effective radius at flat cell index c [m].
func (a *Aerosol) EffRadiusAt(c int) float64 {
	var m2, m3 float64
	for b, bin := range a.Bins {
		r := bin.Center
		m2 += a.NDF[b].Elements[c] * r * r
		m3 += a.NDF[b].Elements[c] * r * r * r
	}
	if m2 <= 0 {
		return 0
	}
	return m3 / m2
}

// VolumeAt returns the particle volume density at flat cell index c
// [m3/cm3].
func (a *Aerosol) VolumeAt(c int) float64 {
	v := 0.
	for b, bin := range a.Bins {
		v += bin.Volume() * a.NDF[b].Elements[c]
	}
	return v
}

// TotalNumber returns the grid-summed number density [#/cm3].
func (a *Aerosol) TotalNumber() float64 {
	n := 0.
	for b := range a.Bins {
		n += floats.Sum(a.NDF[b].Elements)
	}
	return n
}

// NumberField returns the total number density as a gridded field
// [#/cm3], shape [ny, nx].
func (a *Aerosol) NumberField() *sparse.DenseArray {
	f := sparse.ZerosDense(a.ny, a.nx)
	for b := range a.Bins {
		f.AddDense(a.NDF[b])
	}
	return f
}

// Copy returns a deep copy of the population.
func (a *Aerosol) Copy() *Aerosol {
	c := &Aerosol{Bins: a.Bins, ny: a.ny, nx: a.nx,
		NDF: make([]*sparse.DenseArray, len(a.Bins))}
	for b := range a.Bins {
		c.NDF[b] = a.NDF[b].Copy()
	}
	return c
}

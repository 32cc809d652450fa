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
	"fmt"
	"math"

	"github.com/ctessum/sparse"
)

// RingCluster is a set of nested elliptical rings centered on the plume
// axis. Ring r occupies the area between ellipse r−1 and ellipse r
// (ring 0 is the innermost ellipse). When HalfRing is set, each ring is
// split into an upper and a lower half so that vertically asymmetric
// processes, such as ice settling in supersaturated air, stay resolved.
type RingCluster struct {
	NRing    int
	HalfRing bool
	HAxis    []float64 // horizontal semi-axis per ellipse [m]
	VAxis    []float64 // vertical semi-axis per ellipse [m]
}

// NewRingCluster builds nRing nested ellipses whose semi-axes grow
// geometrically by ratio from the innermost (h0, v0).
func NewRingCluster(nRing int, halfRing bool, h0, v0, ratio float64) (*RingCluster, error) {
	if nRing < 1 {
		return nil, fmt.Errorf("apcemm: ring count %d must be positive", nRing)
	}
	if h0 <= 0 || v0 <= 0 || ratio <= 1 {
		return nil, fmt.Errorf("apcemm: invalid ring geometry h0=%g v0=%g ratio=%g",
			h0, v0, ratio)
	}
	rc := &RingCluster{
		NRing:    nRing,
		HalfRing: halfRing,
		HAxis:    make([]float64, nRing),
		VAxis:    make([]float64, nRing),
	}
	h, v := h0, v0
	for r := 0; r < nRing; r++ {
		rc.HAxis[r] = h
		rc.VAxis[r] = v
		h *= ratio
		v *= ratio
	}
	return rc, nil
}

// NBuckets returns the number of concentration buckets the cluster
// resolves: one per ring (two per ring for half rings) plus the ambient
// bucket, which is always last.
func (rc *RingCluster) NBuckets() int {
	if rc.HalfRing {
		return 2*rc.NRing + 1
	}
	return rc.NRing + 1
}

// Ambient returns the index of the ambient bucket.
func (rc *RingCluster) Ambient() int { return rc.NBuckets() - 1 }

// RingAreas returns the analytic area of every non-ambient bucket [m2]:
// the area between consecutive ellipses, split evenly between the upper
// and lower halves when half rings are enabled.
func (rc *RingCluster) RingAreas() []float64 {
	out := make([]float64, rc.NBuckets()-1)
	prev := 0.
	for r := 0; r < rc.NRing; r++ {
		a := math.Pi * rc.HAxis[r] * rc.VAxis[r]
		band := a - prev
		prev = a
		if rc.HalfRing {
			out[2*r] = band / 2
			out[2*r+1] = band / 2
			continue
		}
		out[r] = band
	}
	return out
}

// bucket returns the bucket index for a point at (x, y) relative to the
// plume center, or the ambient index if the point lies outside all
// rings.
func (rc *RingCluster) bucket(x, y float64) int {
	for r := 0; r < rc.NRing; r++ {
		h, v := rc.HAxis[r], rc.VAxis[r]
		if x*x/(h*h)+y*y/(v*v) <= 1 {
			if rc.HalfRing && y < 0 {
				return 2*r + 1
			}
			if rc.HalfRing {
				return 2 * r
			}
			return r
		}
	}
	return rc.Ambient()
}

// RingMap assigns every mesh cell to exactly one ring bucket. Cells[b]
// lists the flat cell indices of bucket b; the last bucket holds the
// ambient cells outside the outermost ring.
type RingMap struct {
	Cluster *RingCluster
	Cells   [][]int
}

// NewRingMap partitions the grid cells among the cluster's buckets by
// cell-center membership. Every cell lands in exactly one bucket.
func NewRingMap(rc *RingCluster, g *SpatialGrid) *RingMap {
	m := &RingMap{Cluster: rc, Cells: make([][]int, rc.NBuckets())}
	for j := 0; j < g.Ny; j++ {
		for i := 0; i < g.Nx; i++ {
			b := rc.bucket(g.X(i), g.Y(j))
			m.Cells[b] = append(m.Cells[b], j*g.Nx+i)
		}
	}
	return m
}

// NBuckets returns the number of buckets including the ambient bucket.
func (m *RingMap) NBuckets() int { return len(m.Cells) }

// MappedAreas returns the grid area assigned to each bucket, the member
// cell count times cellArea [m2]. The buckets partition the mesh, so
// the areas sum to the domain area; the non-ambient entries approach
// RingAreas as the mesh is refined.
func (m *RingMap) MappedAreas(cellArea float64) []float64 {
	out := make([]float64, len(m.Cells))
	for b, cells := range m.Cells {
		out[b] = float64(len(cells)) * cellArea
	}
	return out
}

// Average returns the mean of field over each bucket's cells. Empty
// buckets average to zero.
func (m *RingMap) Average(field *sparse.DenseArray) []float64 {
	avg := make([]float64, len(m.Cells))
	for b, cells := range m.Cells {
		if len(cells) == 0 {
			continue
		}
		sum := 0.
		for _, c := range cells {
			sum += field.Elements[c]
		}
		avg[b] = sum / float64(len(cells))
	}
	return avg
}

// ApplyDelta adds the per-bucket change ringNew−ringOld to every cell of
// each bucket, preserving the sub-ring structure transport built up:
// cell_new = cell_old + (ring_new − ring_old). The ambient bucket is
// updated like any other.
func (m *RingMap) ApplyDelta(field *sparse.DenseArray, ringNew, ringOld []float64) {
	for b, cells := range m.Cells {
		d := ringNew[b] - ringOld[b]
		if d == 0 {
			continue
		}
		for _, c := range cells {
			field.Elements[c] += d
		}
	}
}

// RingHistory records per-bucket mean concentrations over time. One
// record per chemistry step; Conc[n] is flattened [bucket][species].
type RingHistory struct {
	NBuckets int
	NVar     int
	Species  []string // variable species names, length NVar
	Times    []float64
	Conc     [][]float64
}

// NewRingHistory creates an empty history for nBuckets buckets and nVar
// species.
func NewRingHistory(nBuckets, nVar int) *RingHistory {
	return &RingHistory{NBuckets: nBuckets, NVar: nVar}
}

// Record appends a snapshot. conc must be flattened [bucket][species]
// with length NBuckets·NVar; the values are copied.
func (h *RingHistory) Record(t float64, conc []float64) {
	c := make([]float64, len(conc))
	copy(c, conc)
	h.Times = append(h.Times, t)
	h.Conc = append(h.Conc, c)
}

// At returns the recorded concentration of species v in bucket b at
// record n.
func (h *RingHistory) At(n, b, v int) float64 {
	return h.Conc[n][b*h.NVar+v]
}

// AmbientHistory records the far-field concentrations and solar state
// over time, one record per chemistry step.
type AmbientHistory struct {
	NVar    int
	Species []string // variable species names, length NVar
	Times   []float64
	CosSZA  []float64
	Conc    [][]float64
}

// NewAmbientHistory creates an empty ambient history for nVar species.
func NewAmbientHistory(nVar int) *AmbientHistory {
	return &AmbientHistory{NVar: nVar}
}

// Record appends a snapshot of the ambient concentrations; the values
// are copied.
func (h *AmbientHistory) Record(t, csza float64, conc []float64) {
	c := make([]float64, len(conc))
	copy(c, conc)
	h.Times = append(h.Times, t)
	h.CosSZA = append(h.CosSZA, csza)
	h.Conc = append(h.Conc, c)
}

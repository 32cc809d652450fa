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
	"os"
	"strings"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// SnapshotSet accumulates timestamped copies of one gridded field for
// output.
type SnapshotSet struct {
	Name   string
	Units  string
	Times  []float64
	Frames []*sparse.DenseArray
}

// NewSnapshotSet creates an empty snapshot set.
func NewSnapshotSet(name, units string) *SnapshotSet {
	return &SnapshotSet{Name: name, Units: units}
}

// Record appends a copy of field stamped with time t [s].
func (s *SnapshotSet) Record(t float64, field *sparse.DenseArray) {
	s.Times = append(s.Times, t)
	s.Frames = append(s.Frames, field.Copy())
}

// Len returns the number of recorded frames.
func (s *SnapshotSet) Len() int { return len(s.Frames) }

// flatten lays the frames out as [time, y, x] in float32.
func (s *SnapshotSet) flatten() []float32 {
	if len(s.Frames) == 0 {
		return nil
	}
	n := len(s.Frames[0].Elements)
	out := make([]float32, len(s.Frames)*n)
	for t, f := range s.Frames {
		for i, v := range f.Elements {
			out[t*n+i] = float32(v)
		}
	}
	return out
}

// Writer persists a run's output: the snapshot sets sharing one time
// axis, plus the per-step ring and ambient species histories. Either
// history may be nil.
type Writer interface {
	Write(g *SpatialGrid, sets []*SnapshotSet, rings *RingHistory, ambient *AmbientHistory) error
}

// NetCDFWriter writes run output to a NetCDF file. Snapshot sets get
// dimensions [time, y, x] with coordinate variables for all three; the
// histories get their own record axis with per-bucket and far-field
// concentration variables.
type NetCDFWriter struct {
	Path string
}

// Write creates (or replaces) the file at w.Path. All sets must have
// the same number of frames, and the two histories, when both present,
// the same number of records.
func (w *NetCDFWriter) Write(g *SpatialGrid, sets []*SnapshotSet,
	rings *RingHistory, ambient *AmbientHistory) error {

	if len(sets) == 0 {
		return fmt.Errorf("apcemm: nothing to write to %s", w.Path)
	}
	nt := sets[0].Len()
	for _, s := range sets {
		if s.Len() != nt {
			return fmt.Errorf("apcemm: snapshot set %s has %d frames; want %d",
				s.Name, s.Len(), nt)
		}
	}

	nrec, nb, nv := 0, 0, 0
	var recTimes []float64
	if rings != nil && len(rings.Times) > 0 {
		nrec, nb, nv = len(rings.Times), rings.NBuckets, rings.NVar
		recTimes = rings.Times
	}
	if ambient != nil && len(ambient.Times) > 0 {
		if nrec == 0 {
			nrec, nv = len(ambient.Times), ambient.NVar
			recTimes = ambient.Times
		} else if len(ambient.Times) != nrec || ambient.NVar != nv {
			return fmt.Errorf("apcemm: ring history has %d records of %d species; ambient has %d of %d",
				nrec, nv, len(ambient.Times), ambient.NVar)
		}
	}

	dims := []string{"time", "y", "x"}
	lens := []int{nt, g.Ny, g.Nx}
	if nrec > 0 {
		dims = append(dims, "record", "species")
		lens = append(lens, nrec, nv)
	}
	if nb > 0 {
		dims = append(dims, "bucket")
		lens = append(lens, nb)
	}

	h := cdf.NewHeader(dims, lens)
	h.AddVariable("time", []string{"time"}, []float32{0})
	h.AddAttribute("time", "units", "s since local midnight")
	h.AddVariable("x", []string{"x"}, []float32{0})
	h.AddAttribute("x", "units", "m")
	h.AddVariable("y", []string{"y"}, []float32{0})
	h.AddAttribute("y", "units", "m")
	for _, s := range sets {
		h.AddVariable(s.Name, []string{"time", "y", "x"}, []float32{0})
		h.AddAttribute(s.Name, "units", s.Units)
	}
	if nrec > 0 {
		h.AddVariable("recordTime", []string{"record"}, []float32{0})
		h.AddAttribute("recordTime", "units", "s since local midnight")
	}
	if nb > 0 {
		h.AddVariable("ringConc", []string{"record", "bucket", "species"}, []float32{0})
		h.AddAttribute("ringConc", "units", "molec cm-3")
		h.AddAttribute("ringConc", "species", strings.Join(rings.Species, " "))
	}
	if ambient != nil && len(ambient.Times) > 0 {
		h.AddVariable("ambientConc", []string{"record", "species"}, []float32{0})
		h.AddAttribute("ambientConc", "units", "molec cm-3")
		h.AddAttribute("ambientConc", "species", strings.Join(ambient.Species, " "))
		h.AddVariable("cosSZA", []string{"record"}, []float32{0})
	}
	h.Define()

	ff, err := os.Create(w.Path)
	if err != nil {
		return fmt.Errorf("apcemm: creating output file: %v", err)
	}
	defer ff.Close()
	f, err := cdf.Create(ff, h)
	if err != nil {
		return fmt.Errorf("apcemm: creating NetCDF header: %v", err)
	}

	if err := writeVar(f, "time", toFloat32(sets[0].Times)); err != nil {
		return err
	}
	if err := writeVar(f, "x", toFloat32(g.XCoords())); err != nil {
		return err
	}
	if err := writeVar(f, "y", toFloat32(g.YCoords())); err != nil {
		return err
	}
	for _, s := range sets {
		if err := writeVar(f, s.Name, s.flatten()); err != nil {
			return err
		}
	}
	if nrec > 0 {
		if err := writeVar(f, "recordTime", toFloat32(recTimes)); err != nil {
			return err
		}
	}
	if nb > 0 {
		if err := writeVar(f, "ringConc", flattenRecords(rings.Conc)); err != nil {
			return err
		}
	}
	if ambient != nil && len(ambient.Times) > 0 {
		if err := writeVar(f, "ambientConc", flattenRecords(ambient.Conc)); err != nil {
			return err
		}
		if err := writeVar(f, "cosSZA", toFloat32(ambient.CosSZA)); err != nil {
			return err
		}
	}
	return nil
}

// flattenRecords concatenates per-record concentration vectors into one
// contiguous float32 buffer.
func flattenRecords(conc [][]float64) []float32 {
	if len(conc) == 0 {
		return nil
	}
	out := make([]float32, 0, len(conc)*len(conc[0]))
	for _, rec := range conc {
		for _, v := range rec {
			out = append(out, float32(v))
		}
	}
	return out
}

func writeVar(f *cdf.File, name string, data []float32) error {
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	w := f.Writer(name, start, end)
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("apcemm: writing variable %s: %v", name, err)
	}
	return nil
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}

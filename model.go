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
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/fritzt/APCEMM/aim"
	"github.com/fritzt/APCEMM/met"
)

// Status is the outcome of one simulation run.
type Status int

const (
	// Aborted means the run never started: the inputs did not validate.
	Aborted Status = 0
	// Success means the run completed and its output was written.
	Success Status = 1
	// ChemistryFailure means the stiff kinetics integration failed and
	// the run stopped at the failing step.
	ChemistryFailure Status = -1
	// SaveFailure means the run completed but its output could not be
	// written.
	SaveFailure Status = -2
)

func (s Status) String() string {
	switch s {
	case Aborted:
		return "aborted"
	case Success:
		return "success"
	case ChemistryFailure:
		return "chemistry failure"
	case SaveFailure:
		return "save failure"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Config holds the numerical settings of the model: mesh, rings,
// aerosol bins, cadences and tolerances. One Config is typically shared
// by all runs of a fleet sweep.
type Config struct {
	Nx, Ny         int     // mesh cells
	XLimit, YLimit float64 // domain half-widths [m]

	NRing     int     // plume rings
	RingRatio float64 // geometric growth factor of ring semi-axes

	// GridChemistry switches the kinetics from ring-averaged to
	// per-cell integration.
	GridChemistry bool

	// Feature switches. DefaultConfig enables all of them; a disabled
	// phase is skipped without changing the loop order.
	Transport    bool // advection-diffusion stepping
	Advection    bool // background advection inside the transport step
	Diffusion    bool // turbulent diffusion inside the transport step
	Chemistry    bool // kinetics integration
	HetChemistry bool // heterogeneous rate recompute before kinetics

	LiquidBins             int
	LiquidRMin, LiquidRMax float64 // [m]
	SolidBins              int
	SolidRMin, SolidRMax   float64 // [m]

	TransportTimestep float64 // base step size [s]
	LiquidCoagPeriod  float64 // [s]
	SolidCoagPeriod   float64 // [s]

	GasSnapshotPeriod     float64 // [s]
	AerosolSnapshotPeriod float64 // [s]
	SnapshotSpecies       []string

	ChemATol, ChemRTol float64

	// MassDiagnostics logs the drift of the mechanism's conserved
	// species groups every step.
	MassDiagnostics bool

	// AerosolFloor replaces negative aerosol densities left behind by
	// the spectral step [#/cm3]. Gas species are floored at zero.
	AerosolFloor float64

	OutputPath string // NetCDF output file; empty disables writing
}

// DefaultConfig returns settings suitable for a single-flight contrail
// simulation.
func DefaultConfig() Config {
	return Config{
		Nx:     64,
		Ny:     64,
		XLimit: 8000,
		YLimit: 650,

		NRing:     15,
		RingRatio: 1.3,

		Transport:    true,
		Advection:    true,
		Diffusion:    true,
		Chemistry:    true,
		HetChemistry: true,

		LiquidBins: 32,
		LiquidRMin: 1e-9,
		LiquidRMax: 5e-7,
		SolidBins:  32,
		SolidRMin:  5e-8,
		SolidRMax:  5e-4,

		TransportTimestep: 10,
		LiquidCoagPeriod:  60,
		SolidCoagPeriod:   60,

		GasSnapshotPeriod:     900,
		AerosolSnapshotPeriod: 900,
		SnapshotSpecies:       []string{"NO", "NO2", "O3", "H2O"},

		ChemATol: 1.0,
		ChemRTol: 1e-5,

		MassDiagnostics: true,

		AerosolFloor: 1e-30,
	}
}

// BackgroundAerosol describes a log-normal particle population.
type BackgroundAerosol struct {
	N0    float64 // total number density [#/cm3]
	RMode float64 // mode radius [m]
	Sigma float64 // geometric standard deviation
}

// Conditions is one run's scenario: ambient state, flight, emissions,
// and the deterministic forcing functions. Nil forcing functions fall
// back to defaults.
type Conditions struct {
	TempK    float64
	PressPa  float64
	RHw      float64 // relative humidity w.r.t. liquid water [%]
	Latitude float64 // [deg]
	Day      int     // day of year

	TStart, TFinal float64 // [s since local midnight]

	// Background maps species names to far-field concentrations
	// [molec/cm3].
	Background map[string]float64

	Liquid BackgroundAerosol // background liquid sulfate
	Solid  BackgroundAerosol // background ice

	// EmittedIce is the crystal population left behind by the
	// jet/vortex regimes, spread over the initial plume.
	EmittedIce BackgroundAerosol

	PlumeArea float64 // post-vortex plume cross-section area [m2]

	EI       EmissionIndices
	Aircraft AircraftGeometry

	Timestep  TimestepFunc
	Diffusion DiffusionFunc
	Advection AdvectionFunc

	// Altitude is the flight level [m]. With Met it resolves the
	// vertical structure of the domain: each mesh row gets the sounding
	// state at Altitude plus the row's y offset. TempK and PressPa stay
	// the flight-level state used for the far field, settling, and
	// microphysics.
	Altitude float64
	// Met optionally supplies temperature and pressure around the
	// flight level. Nil keeps the run vertically uniform.
	Met met.Sounding
}

// Model runs plume simulations. A Model holds no cross-run state except
// the results of its most recent Run, so it is not safe for concurrent
// Run calls; parameter sweeps build one Model per scenario.
type Model struct {
	Config Config
	Mech   Mechanism
	Log    logrus.FieldLogger

	// Writer overrides the Config.OutputPath NetCDF writer when set.
	Writer Writer

	// Results of the most recent Run.
	Rings     *RingHistory
	Ambient   *AmbientHistory
	Snapshots []*SnapshotSet
}

// New creates a model from a configuration and a chemical mechanism.
func New(cfg Config, mech Mechanism) (*Model, error) {
	if mech == nil {
		return nil, fmt.Errorf("apcemm: nil mechanism")
	}
	if cfg.Nx < 2 || cfg.Ny < 2 {
		return nil, fmt.Errorf("apcemm: mesh %d × %d is too small", cfg.Nx, cfg.Ny)
	}
	return &Model{Config: cfg, Mech: mech, Log: logrus.StandardLogger()}, nil
}

// chemistryStrategy integrates one chemistry step over the whole
// cross-section. Both implementations are permanent: ring-averaged
// kinetics for speed, per-cell kinetics for fidelity.
type chemistryStrategy interface {
	name() string
	step(r *runState, t, dt float64) error
}

// runState gathers the per-run objects the chemistry strategies
// operate on.
type runState struct {
	mech Mechanism
	chem *ChemContext
	st   *PlumeState
	grid *SpatialGrid

	rings    *RingMap
	ringHist *RingHistory
	ambHist  *AmbientHistory

	yAmb []float64 // ambient concentrations [molec/cm3]
	csza float64

	// Flight-level state, used for the far field.
	tempK, pressPa, airDens, rhi float64

	// Per-row state resolved from the sounding, and its per-bucket
	// means over each bucket's member cells.
	tempRow, pressRow, airDensRow, rhiRow             []float64
	bucketTemp, bucketPress, bucketAirDens, bucketRHi []float64

	hetOn bool

	// scratch
	ringConc  [][]float64 // per-bucket concentrations
	bucketOld []float64
	bucketNew []float64
	yCell     []float64
	ambOld    []float64
}

func newRunState(m *Model, st *PlumeState, rings *RingMap, cond Conditions,
	chem *ChemContext) *runState {

	nb := rings.NBuckets()
	nv := chem.Dims.NVar
	r := &runState{
		mech:      m.Mech,
		chem:      chem,
		st:        st,
		grid:      st.Grid,
		rings:     rings,
		ringHist:  NewRingHistory(nb, nv),
		ambHist:   NewAmbientHistory(nv),
		yAmb:      make([]float64, nv),
		tempK:     cond.TempK,
		pressPa:   cond.PressPa,
		airDens:   airNumberDensity(cond.TempK, cond.PressPa),
		rhi:       RHiFromRHw(cond.RHw, cond.TempK),
		hetOn:     m.Config.HetChemistry,
		ringConc:  make([][]float64, nb),
		bucketOld: make([]float64, nb),
		bucketNew: make([]float64, nb),
		yCell:     make([]float64, nv),
		ambOld:    make([]float64, nv),
	}
	for b := range r.ringConc {
		r.ringConc[b] = make([]float64, nv)
	}
	r.ringHist.Species = m.Mech.VarNames()
	r.ambHist.Species = m.Mech.VarNames()

	g := st.Grid
	r.tempRow = make([]float64, g.Ny)
	r.pressRow = make([]float64, g.Ny)
	r.airDensRow = make([]float64, g.Ny)
	r.rhiRow = make([]float64, g.Ny)
	for j := 0; j < g.Ny; j++ {
		t, p := cond.TempK, cond.PressPa
		if cond.Met != nil {
			t = cond.Met.TempK(cond.Altitude + g.Y(j))
			p = cond.Met.PressPa(cond.Altitude + g.Y(j))
		}
		r.tempRow[j] = t
		r.pressRow[j] = p
		r.airDensRow[j] = airNumberDensity(t, p)
		r.rhiRow[j] = RHiFromRHw(cond.RHw, t)
	}

	r.bucketTemp = make([]float64, nb)
	r.bucketPress = make([]float64, nb)
	r.bucketAirDens = make([]float64, nb)
	r.bucketRHi = make([]float64, nb)
	for b, cells := range rings.Cells {
		if len(cells) == 0 {
			r.bucketTemp[b], r.bucketPress[b] = r.tempK, r.pressPa
			r.bucketAirDens[b], r.bucketRHi[b] = r.airDens, r.rhi
			continue
		}
		var t, p, a, ri float64
		for _, c := range cells {
			j := c / g.Nx
			t += r.tempRow[j]
			p += r.pressRow[j]
			a += r.airDensRow[j]
			ri += r.rhiRow[j]
		}
		n := float64(len(cells))
		r.bucketTemp[b] = t / n
		r.bucketPress[b] = p / n
		r.bucketAirDens[b] = a / n
		r.bucketRHi[b] = ri / n
	}
	return r
}

// updateRates refreshes the rate-constant table, holding the
// heterogeneous rates at zero when heterogeneous chemistry is off.
func (r *runState) updateRates(s HetState) {
	if r.hetOn {
		r.chem.UpdateRates(s)
		return
	}
	r.chem.UpdateRatesNoHet(s)
}

// hetBucket assembles the surface state of bucket b at the bucket's
// mean thermodynamic state.
func (r *runState) hetBucket(b int) HetState {
	return r.st.hetStateMean(r.rings.Cells[b],
		r.bucketTemp[b], r.bucketPress[b], r.bucketAirDens[b], r.bucketRHi[b])
}

// hetCell assembles the surface state of flat cell c at its row's
// thermodynamic state.
func (r *runState) hetCell(c int) HetState {
	j := c / r.grid.Nx
	return r.st.hetStateAt(c, r.tempRow[j], r.pressRow[j], r.airDensRow[j], r.rhiRow[j])
}

// recordHistories appends the current per-bucket means and the ambient
// vector at time t.
func (r *runState) recordHistories(t float64) {
	nb := r.rings.NBuckets()
	nv := r.chem.Dims.NVar
	flat := make([]float64, nb*nv)
	for v := 0; v < nv; v++ {
		avg := r.rings.Average(r.st.Species[v])
		for b := 0; b < nb; b++ {
			flat[b*nv+v] = avg[b]
		}
	}
	r.ringHist.Record(t, flat)
	r.ambHist.Record(t, r.csza, r.yAmb)
}

// solveAmbient advances the far-field vector by one step using the
// ambient cells' surface state at the flight-level thermodynamic state.
func (r *runState) solveAmbient(t, dt float64) error {
	amb := r.rings.NBuckets() - 1
	het := r.st.hetStateMean(r.rings.Cells[amb], r.tempK, r.pressPa, r.airDens, r.rhi)
	r.chem.SetAirComposition(r.airDens)
	r.updateRates(het)
	copy(r.ambOld, r.yAmb)
	return r.chem.Integrate(r.yAmb, "ambient", t, dt)
}

// ringChemistry integrates the kinetics once per ring on the ring-mean
// concentrations and redistributes the per-ring change to the member
// cells, preserving the sub-ring structure transport built up.
type ringChemistry struct{}

func (ringChemistry) name() string { return "ring" }

func (ringChemistry) step(r *runState, t, dt float64) error {
	nb := r.rings.NBuckets()
	nv := r.chem.Dims.NVar
	amb := nb - 1

	ringOld := make([][]float64, nb)
	for b := range ringOld {
		ringOld[b] = make([]float64, nv)
	}
	for v := 0; v < nv; v++ {
		avg := r.rings.Average(r.st.Species[v])
		for b := 0; b < nb; b++ {
			ringOld[b][v] = avg[b]
			r.ringConc[b][v] = avg[b]
		}
	}

	for b := 0; b < amb; b++ {
		r.chem.SetAirComposition(r.bucketAirDens[b])
		r.updateRates(r.hetBucket(b))
		if err := r.chem.Integrate(r.ringConc[b], fmt.Sprintf("ring %d", b), t, dt); err != nil {
			return err
		}
	}

	// The ambient bucket follows the far-field vector, not its own
	// bucket mean, so the boundary stays pinned to the background.
	if err := r.solveAmbient(t, dt); err != nil {
		return err
	}
	copy(ringOld[amb], r.ambOld)
	copy(r.ringConc[amb], r.yAmb)

	for v := 0; v < nv; v++ {
		for b := 0; b < nb; b++ {
			r.bucketOld[b] = ringOld[b][v]
			r.bucketNew[b] = r.ringConc[b][v]
		}
		r.rings.ApplyDelta(r.st.Species[v], r.bucketNew, r.bucketOld)
	}
	return nil
}

// gridChemistry integrates the kinetics in every mesh cell
// independently, with per-cell heterogeneous rates.
type gridChemistry struct{}

func (gridChemistry) name() string { return "grid" }

func (gridChemistry) step(r *runState, t, dt float64) error {
	nv := r.chem.Dims.NVar
	for j := 0; j < r.grid.Ny; j++ {
		r.chem.SetAirComposition(r.airDensRow[j])
		for i := 0; i < r.grid.Nx; i++ {
			c := j*r.grid.Nx + i
			for v := 0; v < nv; v++ {
				r.yCell[v] = r.st.Species[v].Elements[c]
			}
			r.updateRates(r.hetCell(c))
			where := fmt.Sprintf("cell (%d,%d)", i, j)
			if err := r.chem.Integrate(r.yCell, where, t, dt); err != nil {
				return err
			}
			for v := 0; v < nv; v++ {
				r.st.Species[v].Elements[c] = r.yCell[v]
			}
		}
	}
	// The far-field vector still advances for the ambient history.
	return r.solveAmbient(t, dt)
}

// Run simulates one scenario to completion and reports how it ended.
// The returned error carries detail for non-Success statuses.
func (m *Model) Run(cond Conditions) (Status, error) {
	if m.Log == nil {
		m.Log = logrus.StandardLogger()
	}
	cfg := m.Config

	if cond.TFinal <= cond.TStart {
		return Aborted, fmt.Errorf("apcemm: run ends (%g s) before it starts (%g s)",
			cond.TFinal, cond.TStart)
	}
	if cond.TempK <= 0 || cond.PressPa <= 0 {
		return Aborted, fmt.Errorf("apcemm: invalid ambient state T=%g K p=%g Pa",
			cond.TempK, cond.PressPa)
	}
	if cond.PlumeArea <= 0 {
		return Aborted, fmt.Errorf("apcemm: invalid plume area %g m2", cond.PlumeArea)
	}

	grid, err := NewSpatialGrid(cfg.Nx, cfg.Ny, cfg.XLimit, cfg.YLimit)
	if err != nil {
		return Aborted, err
	}

	rhi := RHiFromRHw(cond.RHw, cond.TempK)
	airDens := airNumberDensity(cond.TempK, cond.PressPa)

	// Rings grow geometrically from an ellipse matching the initial
	// plume; supersaturated air gets half rings so settling ice stays
	// resolved.
	const aspect = 4.
	v0 := math.Sqrt(cond.PlumeArea / (math.Pi * aspect))
	h0 := aspect * v0
	cluster, err := NewRingCluster(cfg.NRing, rhi > 100, h0, v0, cfg.RingRatio)
	if err != nil {
		return Aborted, err
	}
	rings := NewRingMap(cluster, grid)

	liquidBins, err := aim.NewLogBins(cfg.LiquidRMin, cfg.LiquidRMax, cfg.LiquidBins)
	if err != nil {
		return Aborted, err
	}
	solidBins, err := aim.NewLogBins(cfg.SolidRMin, cfg.SolidRMax, cfg.SolidBins)
	if err != nil {
		return Aborted, err
	}

	st := NewPlumeState(grid, m.Mech.Dims(), liquidBins, solidBins)
	chem := NewChemContext(m.Mech, cfg.ChemATol, cfg.ChemRTol)
	r := newRunState(m, st, rings, cond, chem)
	m.Rings = r.ringHist
	m.Ambient = r.ambHist

	chem.SetAirComposition(airDens)
	m.initBackground(r, cond)

	// Plume cells: every cell inside the outermost ring.
	var plumeCells []int
	for b := 0; b < rings.NBuckets()-1; b++ {
		plumeCells = append(plumeCells, rings.Cells[b]...)
	}
	es, err := NewEmissionState(cond.EI, cond.Aircraft, cond.PlumeArea)
	if err != nil {
		return Aborted, err
	}
	es.Inject(st, m.Mech, plumeCells, grid.CellArea())
	addAerosol(st.Solid, cond.EmittedIce, plumeCells)

	so4, hasSO4 := m.Mech.VarIndex("SO4")
	if hasSO4 {
		PartitionSulfate(st, so4, cond.TempK)
	}

	te, err := NewTransportEngine(grid, cfg.AerosolFloor)
	if err != nil {
		return Aborted, err
	}
	// Settling depends only on the run's fixed thermodynamic state, so
	// it is computed once per run.
	te.VFallSolid = aim.SettlingVelocities(solidBins, cond.TempK, cond.PressPa, rhoIce)
	if err := te.Warmup(); err != nil {
		return Aborted, err
	}

	micro := NewMicrophysicsEngine(liquidBins, solidBins, MicrophysicsSources{
		EmittedLiquid:    es.SpeciesMass["SO2"] > 0,
		BackgroundLiquid: cond.Liquid.N0 > 0,
		EmittedSolid:     cond.EmittedIce.N0 > 0,
		BackgroundSolid:  cond.Solid.N0 > 0,
	}, cond.TempK, cond.PressPa, rhi,
		cfg.LiquidCoagPeriod, cfg.SolidCoagPeriod, cond.TStart)

	sza := NewSolarGeometry(cond.Latitude, cond.Day)
	sza.Update(cond.TStart)
	r.csza = sza.CSZA

	var strategy chemistryStrategy = ringChemistry{}
	if cfg.GridChemistry {
		strategy = gridChemistry{}
	}

	timestep := cond.Timestep
	if timestep == nil {
		timestep = DayNightTimestep(cfg.TransportTimestep)
	}
	diffusion := cond.Diffusion
	if diffusion == nil {
		diffusion = func(elapsed float64) (float64, float64) { return 20., 0.15 }
	}
	advection := cond.Advection
	if advection == nil {
		advection = func(elapsed float64) (float64, float64) { return 0., 0. }
	}

	gasSched := NewSchedule(cfg.GasSnapshotPeriod, cond.TStart)
	aerSched := NewSchedule(cfg.AerosolSnapshotPeriod, cond.TStart)
	gasSets, aerSets := m.newSnapshotSets()
	m.Snapshots = append(gasSets, aerSets...)
	m.recordGasSnapshots(gasSets, st, cond.TStart)
	m.recordAerosolSnapshots(aerSets, st, cond.TStart)
	r.recordHistories(cond.TStart)

	groups := m.conservedBurdens(st)

	m.Log.WithFields(logrus.Fields{
		"mesh":      fmt.Sprintf("%d × %d", cfg.Nx, cfg.Ny),
		"rings":     cluster.NBuckets() - 1,
		"chemistry": strategy.name(),
		"T":         cond.TempK,
		"p":         cond.PressPa,
		"RHi":       rhi,
		"tStart":    cond.TStart,
		"tFinal":    cond.TFinal,
	}).Info("starting plume simulation")

	clock := &SimulationClock{T: cond.TStart, TStart: cond.TStart, TFinal: cond.TFinal}
	si := rhi / 100.

	for !clock.Done() {
		clock.Dt = timestep(clock.T, cond.TStart, sza.SunRise, sza.SunSet)
		if clock.Dt <= 0 {
			return Aborted, fmt.Errorf("apcemm: timestep function returned %g s at t=%g s",
				clock.Dt, clock.T)
		}
		if clock.T+clock.Dt > cond.TFinal {
			clock.Dt = cond.TFinal - clock.T
		}
		tNext := clock.T + clock.Dt
		lastStep := clock.LastStep()

		if cfg.Transport {
			// Coefficients are zeroed, not just ignored, when their
			// switch is off.
			dh, dv := 0., 0.
			if cfg.Diffusion {
				dh, dv = diffusion(clock.T - cond.TStart)
			}
			vx, vy := 0., 0.
			if cfg.Advection {
				vx, vy = advection(clock.T - cond.TStart)
			}
			te.Update(clock.Dt, dh, dv, vx, vy)
			if err := te.Step(st); err != nil {
				return Aborted, err
			}
		}

		if hasSO4 {
			PartitionSulfate(st, so4, cond.TempK)
		}

		// Photolysis follows the sun at the start of the step.
		sza.Update(clock.T)
		r.csza = sza.CSZA
		chem.UpdatePhotolysis(sza.CSZA)

		if cfg.Chemistry {
			if err := strategy.step(r, clock.T, clock.Dt); err != nil {
				var cerr *ChemistryError
				if errors.As(err, &cerr) {
					m.Log.WithFields(logrus.Fields{
						"t":     cerr.Time,
						"where": cerr.Where,
					}).Error(cerr.Error())
					return ChemistryFailure, err
				}
				return Aborted, err
			}
		}
		r.recordHistories(tNext)

		micro.Step(st, tNext, lastStep, cond.TempK, cond.PressPa, si)

		if gasSched.Due(tNext, lastStep) {
			gasSched.Fire(tNext)
			m.recordGasSnapshots(gasSets, st, tNext)
		}
		if aerSched.Due(tNext, lastStep) {
			aerSched.Fire(tNext)
			m.recordAerosolSnapshots(aerSets, st, tNext)
		}

		if cfg.MassDiagnostics && groups != nil {
			now := m.conservedBurdens(st)
			for name, b0 := range groups {
				if b0 == 0 {
					continue
				}
				m.Log.WithFields(logrus.Fields{
					"t":     tNext,
					"group": name,
					"drift": (now[name] - b0) / b0,
				}).Debug("conserved group burden")
			}
		}

		clock.Advance()
	}

	if w := m.writer(); w != nil {
		if err := w.Write(grid, m.Snapshots, m.Rings, m.Ambient); err != nil {
			m.Log.WithFields(logrus.Fields{"path": cfg.OutputPath}).Error(err.Error())
			return SaveFailure, err
		}
	}

	m.Log.WithFields(logrus.Fields{
		"steps": clock.Step,
		"t":     clock.T,
	}).Info("plume simulation finished")
	return Success, nil
}

// writer picks the output sink: an explicit Writer wins over the
// configured path.
func (m *Model) writer() Writer {
	if m.Writer != nil {
		return m.Writer
	}
	if m.Config.OutputPath != "" {
		return &NetCDFWriter{Path: m.Config.OutputPath}
	}
	return nil
}

// initBackground fills the species fields, the ambient vector and the
// background aerosol populations from the scenario.
func (m *Model) initBackground(r *runState, cond Conditions) {
	for name, conc := range cond.Background {
		if v, ok := m.Mech.VarIndex(name); ok {
			r.st.SetUniformSpecies(v, conc)
			r.yAmb[v] = conc
		}
	}
	// Water vapor follows the scenario humidity unless set explicitly.
	if v, ok := m.Mech.VarIndex("H2O"); ok {
		if _, set := cond.Background["H2O"]; !set {
			p := cond.RHw / 100. * satPressureLiquid(cond.TempK)
			n := p / (kBoltzmann * cond.TempK) * 1e-6
			r.st.SetUniformSpecies(v, n)
			r.yAmb[v] = n
		}
	}
	all := make([]int, m.Config.Nx*m.Config.Ny)
	for c := range all {
		all[c] = c
	}
	addAerosol(r.st.Liquid, cond.Liquid, all)
	addAerosol(r.st.Solid, cond.Solid, all)
}

// addAerosol adds a log-normal population to the given cells.
func addAerosol(a *aim.Aerosol, bg BackgroundAerosol, cells []int) {
	if bg.N0 <= 0 || bg.RMode <= 0 || bg.Sigma <= 1 {
		return
	}
	s := aim.NewSpectrum(a.Bins)
	s.LogNormal(bg.N0, bg.RMode, bg.Sigma)
	for _, c := range cells {
		a.AddSpectrumAt(s, c)
	}
}

// newSnapshotSets builds the gas and aerosol snapshot sets from the
// configuration.
func (m *Model) newSnapshotSets() (gas, aer []*SnapshotSet) {
	for _, name := range m.Config.SnapshotSpecies {
		if _, ok := m.Mech.VarIndex(name); ok {
			gas = append(gas, NewSnapshotSet(name, "molec cm-3"))
		}
	}
	aer = []*SnapshotSet{
		NewSnapshotSet("sootNumber", "cm-3"),
		NewSnapshotSet("liquidNumber", "cm-3"),
		NewSnapshotSet("iceNumber", "cm-3"),
	}
	return gas, aer
}

func (m *Model) recordGasSnapshots(sets []*SnapshotSet, st *PlumeState, t float64) {
	for _, s := range sets {
		if v, ok := m.Mech.VarIndex(s.Name); ok {
			s.Record(t, st.Species[v])
		}
	}
}

func (m *Model) recordAerosolSnapshots(sets []*SnapshotSet, st *PlumeState, t float64) {
	for _, s := range sets {
		switch s.Name {
		case "sootNumber":
			s.Record(t, st.SootDens)
		case "liquidNumber":
			s.Record(t, st.Liquid.NumberField())
		case "iceNumber":
			s.Record(t, st.Solid.NumberField())
		}
	}
}

// conservedBurdens evaluates the mechanism's conserved species groups
// on the current fields.
func (m *Model) conservedBurdens(st *PlumeState) map[string]float64 {
	d, ok := m.Mech.(MassDiagnoser)
	if !ok {
		return nil
	}
	out := make(map[string]float64)
	for name, members := range d.ConservedGroups() {
		sum := 0.
		for _, s := range members {
			sum += s.Weight * st.MassOf(s.Index)
		}
		out[name] = sum
	}
	return out
}

package sim

import (
	"math"
	"math/rand"

	"github.com/sphflow/sphflow/hydro"
	"github.com/sphflow/sphflow/mesh"
	"github.com/sphflow/sphflow/ndarray"
	"github.com/sphflow/sphflow/patches"
)

// Atmosphere is the initial condition: a power-law density profile in
// hydrostatic balance with the GM = 1 point mass, at rest, with optional
// uniform density noise. The noise draws from the shared math/rand source,
// so it must only run during single-threaded init.
type Atmosphere struct {
	Noise float64
}

func (a Atmosphere) At(X hydro.Position) hydro.Vars {
	var (
		r     = X[0]
		alpha = 1.5                   // density index
		vf    = math.Sqrt(1.0 / r)    // free-fall velocity (GM = 1)
		cs    = vf / math.Sqrt(alpha) // sound speed via Virial condition
		dg    = math.Pow(r, -alpha)   // power-law everywhere (infinite Virial radius)
		pg    = dg * cs * cs / hydro.Gamma
		delta = a.Noise * rand.Float64()
	)
	return hydro.Vars{dg + delta, 0, 0, 0, pg}
}

// NewBoundaryValue is the reference boundary policy: reflecting at the
// inner radial edge, zero-gradient at the outer, and empty for the polar
// edges (the solver zero-pads the theta gradient there instead).
func NewBoundaryValue() patches.BoundaryValue {
	return func(idx patches.Index, edge patches.BoundaryEdge, depth int, patch ndarray.Array) ndarray.Array {
		switch edge {
		case patches.EdgeIL:
			return reflectingInner(patch, depth)
		case patches.EdgeIR:
			return zeroGradientOuter(patch, depth)
		case patches.EdgeJL, patches.EdgeJR:
			return ndarray.Array{}
		}
		panic("sim: unknown boundary edge")
	}
}

// NewFixedInnerBoundary pins the inner radial guard cells to the
// atmosphere state at r = 1 instead of reflecting.
func NewFixedInnerBoundary() patches.BoundaryValue {
	reference := NewBoundaryValue()
	return func(idx patches.Index, edge patches.BoundaryEdge, depth int, patch ndarray.Array) ndarray.Array {
		if edge != patches.EdgeIL {
			return reference(idx, edge, depth, patch)
		}
		var (
			U = ndarray.New(depth, patch.Shape(1), 5)
			P = hydro.PrimToCons(Atmosphere{}.At(hydro.Position{1.0, 0.0}))
		)
		for q := 0; q < 5; q++ {
			U.Take(2, q).Fill(P[q])
		}
		return U
	}
}

func zeroGradientOuter(patch ndarray.Array, depth int) ndarray.Array {
	U := ndarray.New(depth, patch.Shape(1), 5)
	for d := 0; d < depth; d++ {
		U.Take(0, d).Assign(patch.Take(0, "end"))
	}
	return U
}

func reflectingInner(patch ndarray.Array, depth int) ndarray.Array {
	var (
		neg = ndarray.From1(func(x float64) float64 { return -x })
		U   = ndarray.New(depth, patch.Shape(1), 5)
	)
	for d := 0; d < depth; d++ {
		mirror := patch.Take(0, depth-1-d)
		U.Take(0, d).Assign(mirror)
		U.Select(d, ":", hydro.Vr).Assign(neg(mirror.Take(2, hydro.Vr)))
	}
	return U
}

func CreateHeader() patches.Header {
	return patches.Header{
		patches.Conserved:  {Components: 5, Location: patches.Cell},
		patches.VertCoords: {Components: 2, Location: patches.Vert},
		patches.CellCoords: {Components: 2, Location: patches.Cell},
		patches.CellVolume: {Components: 1, Location: patches.Cell},
		patches.FaceAreaI:  {Components: 1, Location: patches.FaceI},
		patches.FaceAreaJ:  {Components: 1, Location: patches.FaceJ},
	}
}

// CreateDatabase builds the patch database: either loaded from a restart
// checkpoint or initialized with mesh geometry and the atmosphere state on
// geometrically tiled radial blocks.
func CreateDatabase(cfg RunConfig) (*patches.Database, error) {
	var (
		ni = cfg.BlockSize()
		nj = cfg.Nr
		db = patches.NewDatabase(ni, nj, CreateHeader())
	)

	if cfg.Restart != "" {
		if err := LoadPatches(db, cfg.Restart); err != nil {
			return nil, err
		}
	} else {
		var (
			primToCons  = ndarray.VFrom(hydro.PrimToCons)
			initialData = ndarray.VFromCoords(Atmosphere{Noise: cfg.Noise}.At)
		)
		for b := 0; b < cfg.NumBlocks; b++ {
			var (
				r0     = math.Pow(cfg.OuterRadius, float64(b+0)/float64(cfg.NumBlocks))
				r1     = math.Pow(cfg.OuterRadius, float64(b+1)/float64(cfg.NumBlocks))
				verts  = mesh.Vertices(ni, nj, [4]float64{r0, r1, 0, math.Pi})
				cells  = mesh.CellCentroids(verts)
				vols   = mesh.CellVolumes(verts)
				facesI = mesh.FaceAreasI(verts)
				facesJ = mesh.FaceAreasJ(verts)
			)
			db.Insert(patches.Index{Block: b, Field: patches.VertCoords}, verts)
			db.Insert(patches.Index{Block: b, Field: patches.CellCoords}, cells)
			db.Insert(patches.Index{Block: b, Field: patches.CellVolume}, vols)
			db.Insert(patches.Index{Block: b, Field: patches.FaceAreaI}, facesI)
			db.Insert(patches.Index{Block: b, Field: patches.FaceAreaJ}, facesJ)

			db.Insert(patches.Index{Block: b, Field: patches.Conserved},
				primToCons(initialData(cells)))
		}
	}

	db.SetBoundaryValue(NewBoundaryValue())
	return db, nil
}

// CreateScheduler wires the VTK and checkpoint writers as periodic tasks
// mutating the status counters.
func CreateScheduler(cfg RunConfig, sts *RunStatus, db *patches.Database) *Scheduler {
	scheduler := NewScheduler(sts.Time)

	scheduler.Repeat("write vtk", cfg.Vtki, sts.VtkCount, func(count int) error {
		sts.VtkCount = count + 1
		return WriteVTK(db, cfg, count)
	})
	scheduler.Repeat("write checkpoint", cfg.Cpi, sts.ChkptCount, func(count int) error {
		sts.ChkptCount = count + 1
		return WriteChkpt(db, cfg, *sts, count)
	})
	return scheduler
}

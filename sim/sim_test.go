package sim

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sphflow/sphflow/hydro"
	"github.com/sphflow/sphflow/ndarray"
	"github.com/sphflow/sphflow/patches"
	"github.com/sphflow/sphflow/solver"
	"github.com/sphflow/sphflow/utils"
)

func stepN(t *testing.T, cfg RunConfig, db *patches.Database, steps int) {
	t.Helper()
	var (
		pool = utils.NewPool(cfg.NumThreads)
		src  = hydro.NewSourceTerms(cfg.HeatingRate, cfg.CoolingRate)
		dt   = 0.25 * math.Pi / float64(cfg.Nr)
	)
	defer pool.Close()
	for n := 0; n < steps; n++ {
		require.NoError(t, solver.Update(pool, src, db, dt, cfg.Rk))
	}
}

// A power-law atmosphere at rest should stay near rest: velocities remain
// small and the density drifts by less than a percent over the run.
func TestHydrostaticAtmosphere(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumBlocks = 1
	cfg.Nr = 16
	cfg.OuterRadius = 10
	cfg.Rk = 2
	cfg.NumThreads = 1
	cfg.Tfinal = 0.1

	db, err := CreateDatabase(cfg)
	require.NoError(t, err)

	var (
		consToPrim = ndarray.VFrom(hydro.ConsToPrim)
		prim0      = consToPrim(db.At(0, patches.Conserved))
		steps      = int(math.Ceil(cfg.Tfinal / (0.25 * math.Pi / float64(cfg.Nr))))
	)
	stepN(t, cfg, db, steps)

	var (
		prim            = consToPrim(db.At(0, patches.Conserved))
		maxVr, maxDrift float64
	)
	for i := 0; i < prim.Shape(0); i++ {
		for j := 0; j < prim.Shape(1); j++ {
			if v := math.Abs(prim.At(i, j, hydro.Vr)); v > maxVr {
				maxVr = v
			}
			drift := math.Abs(prim.At(i, j, hydro.Rho)-prim0.At(i, j, hydro.Rho)) / prim0.At(i, j, hydro.Rho)
			if drift > maxDrift {
				maxDrift = drift
			}
		}
	}
	assert.Less(t, maxVr, 1e-2)
	assert.Less(t, maxDrift, 1e-2)
}

// Checkpoint, restart, and continue: the split run must match the
// contiguous one.
func TestCheckpointRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Outdir = t.TempDir()
	cfg.NumBlocks = 2
	cfg.Nr = 8
	cfg.OuterRadius = 100
	cfg.Rk = 2
	cfg.NumThreads = 2
	cfg.HeatingRate = 0.5

	dbA, err := CreateDatabase(cfg)
	require.NoError(t, err)
	stepN(t, cfg, dbA, 10)

	sts := RunStatus{Time: 1.0, Iter: 10}
	require.NoError(t, WriteChkpt(dbA, cfg, sts, 0))

	// Resume from the checkpoint into a fresh database
	cfgB, err := LoadConfig(cfg.MakeFilenameConfig(0))
	require.NoError(t, err)
	cfgB.Restart = cfg.MakeFilenameChkpt(0)
	stsB, err := StatusFromFile(cfg.MakeFilenameStatus(0))
	require.NoError(t, err)
	assert.Equal(t, sts, stsB)

	dbB, err := CreateDatabase(cfgB)
	require.NoError(t, err)
	for b := 0; b < cfg.NumBlocks; b++ {
		assert.Equal(t, 0.0, dbA.At(b, patches.Conserved).MaxAbsDiff(dbB.At(b, patches.Conserved)))
	}

	stepN(t, cfg, dbA, 10)
	stepN(t, cfgB, dbB, 10)
	for b := 0; b < cfg.NumBlocks; b++ {
		assert.InDelta(t, 0.0,
			dbA.At(b, patches.Conserved).MaxAbsDiff(dbB.At(b, patches.Conserved)), 1e-12)
	}
}

func TestWriteVTK(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Outdir = t.TempDir()
	cfg.NumBlocks = 2
	cfg.Nr = 8
	cfg.OuterRadius = 100

	db, err := CreateDatabase(cfg)
	require.NoError(t, err)
	require.NoError(t, WriteVTK(db, cfg, 0))

	data, err := os.ReadFile(cfg.MakeFilenameVtk(0))
	require.NoError(t, err)
	text := string(data)

	ni, nj := db.PatchDims()
	assert.True(t, strings.HasPrefix(text, "# vtk DataFile Version 3.0\n"))
	assert.Contains(t, text, "BINARY\n")
	assert.Contains(t, text, "DATASET STRUCTURED_GRID\n")
	assert.Contains(t, text, "DIMENSIONS 17 9 1")
	assert.Contains(t, text, "POINTS 153 FLOAT")
	assert.Contains(t, text, "CELL_DATA 128")
	for _, name := range []string{"density", "radial_velocity", "pressure"} {
		assert.Contains(t, text, "SCALARS "+name+" FLOAT 1")
	}
	// 2 blocks of 8 radial zones: 17 x 9 vertices, 16 x 8 cells
	assert.Equal(t, 2*ni*8, 128)
	assert.Equal(t, (2*ni+1)*(nj+1), 17*9)
}

func TestRunEndToEnd(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Outdir = t.TempDir()
	cfg.NumBlocks = 1
	cfg.Nr = 8
	cfg.OuterRadius = 10
	cfg.Rk = 1
	cfg.NumThreads = 2
	cfg.Tfinal = 0.2
	cfg.Vtki = 0.1
	cfg.Cpi = 0.1

	require.NoError(t, cfg.Validate())
	require.NoError(t, Run(cfg))

	// Scheduler output landed on its intervals
	for _, name := range []string{"0000.vtk", "0001.vtk", "chkpt.0000", "chkpt.0001"} {
		_, err := os.Stat(filepath.Join(cfg.Outdir, name))
		assert.NoError(t, err, name)
	}

	// Restarting from the last checkpoint runs to completion
	cfg2, err := LoadConfig(filepath.Join(cfg.Outdir, "chkpt.0001", "config.json"))
	require.NoError(t, err)
	cfg2.Restart = filepath.Join(cfg.Outdir, "chkpt.0001")
	cfg2.Tfinal = 0.3
	require.NoError(t, Run(cfg2))
}

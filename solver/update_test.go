package solver

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sphflow/sphflow/hydro"
	"github.com/sphflow/sphflow/patches"
	"github.com/sphflow/sphflow/utils"
)

func TestUpdateRejectsBadRK(t *testing.T) {
	var (
		db   = makeTestDatabase(6, 6)
		pool = utils.NewPool(1)
	)
	defer pool.Close()
	assert.Error(t, Update(pool, zeroSource, db, 0.01, 3))
	assert.Error(t, Update(pool, zeroSource, db, 0.01, 0))
}

func TestRK2IsAveragedCommit(t *testing.T) {
	// rk=2 blends the second stage against the first-stage commit: the
	// stored state ends at (U1 + update(U1)) / 2.
	var (
		ni, nj = 8, 6
		dt     = 0.25 * math.Pi / float64(nj)
		src    = hydro.NewSourceTerms(0.5, 0.1)
		dbA    = makeTestDatabase(ni, nj)
		dbB    = makeTestDatabase(ni, nj)
		pool   = utils.NewPool(2)
	)
	defer pool.Close()

	require.NoError(t, UpdateThreaded(pool, src, dbB, dt, 0.0))
	U1 := dbB.At(0, patches.Conserved).Copy()
	require.NoError(t, UpdateThreaded(pool, src, dbB, dt, 0.0))
	var (
		U2       = dbB.At(0, patches.Conserved)
		expected = U1.Add(U2)
	)
	half := expected.Copy()
	for i := 0; i < ni; i++ {
		for j := 0; j < nj; j++ {
			for k := 0; k < 5; k++ {
				half.Set(i, j, k, 0.5*expected.At(i, j, k))
			}
		}
	}

	require.NoError(t, Update(pool, src, dbA, dt, 2))
	assert.InDelta(t, 0.0, dbA.At(0, patches.Conserved).MaxAbsDiff(half), 1e-12)
}

func TestThreadCountInvariance(t *testing.T) {
	// Futures drain in enqueue order and each worker is a pure function of
	// its inputs, so results are bit-for-bit identical across pool sizes.
	run := func(numThreads, steps int) *patches.Database {
		var (
			db   = makeTestDatabase(8, 8)
			dt   = 0.25 * math.Pi / 8
			src  = hydro.NewSourceTerms(1.0, 0.5)
			pool = utils.NewPool(numThreads)
		)
		defer pool.Close()
		for n := 0; n < steps; n++ {
			if err := Update(pool, src, db, dt, 2); err != nil {
				t.Fatal(err)
			}
		}
		return db
	}
	var (
		db1 = run(1, 3)
		db4 = run(4, 3)
	)
	assert.Equal(t, 0.0,
		db1.At(0, patches.Conserved).MaxAbsDiff(db4.At(0, patches.Conserved)))
}

func TestWorkerErrorPropagates(t *testing.T) {
	// An invalid state inside a worker surfaces as an Update error, not a
	// crash: make the energy negative so cons_to_prim fails on the next step.
	var (
		db   = makeTestDatabase(6, 6)
		idx  = patches.Index{Field: patches.Conserved}
		U    = db.At(0, patches.Conserved).Copy()
		pool = utils.NewPool(2)
	)
	defer pool.Close()
	U.Take(2, hydro.Nrg).Fill(-1)
	db.Commit(idx, U, 0.0)
	err := Update(pool, zeroSource, db, 0.01, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative")
}

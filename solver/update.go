package solver

import (
	"fmt"

	"github.com/sphflow/sphflow/hydro"
	"github.com/sphflow/sphflow/mesh"
	"github.com/sphflow/sphflow/ndarray"
	"github.com/sphflow/sphflow/patches"
	"github.com/sphflow/sphflow/utils"
)

type patchResult struct {
	idx  patches.Index
	data ndarray.Array
}

// UpdateThreaded advances every conserved patch by dt on the worker pool
// and commits the results with the given RK blend factor. Each task
// consumes a guard-padded copy fetched before dispatch, so workers never
// read the database while commits run. Futures are drained in enqueue
// order; commits happen on the calling goroutine.
func UpdateThreaded(pool *utils.Pool, sourceTerms func(hydro.Vars, hydro.Position) hydro.Vars,
	db *patches.Database, dt, rkFactor float64) error {

	var futures []*utils.Future[patchResult]

	for _, patch := range db.All(patches.Conserved) {
		var (
			idx = patch.Index
			U   = db.Fetch(idx, 2, 2, 0, 0)
			G   = mesh.Geometry{
				Centroids:  db.At(idx.Block, patches.CellCoords),
				Volumes:    db.At(idx.Block, patches.CellVolume),
				FaceAreasI: db.At(idx.Block, patches.FaceAreaI),
				FaceAreasJ: db.At(idx.Block, patches.FaceAreaJ),
			}
		)
		futures = append(futures, utils.Enqueue(pool, func() (patchResult, error) {
			return patchResult{idx, Advance2D(sourceTerms, U, G, dt)}, nil
		}))
	}

	for _, fut := range futures {
		res, err := fut.Get()
		if err != nil {
			return err
		}
		db.Commit(res.idx, res.data, rkFactor)
	}
	return nil
}

// Update composes threaded sub-steps into one Runge-Kutta step. rk=1 is a
// plain replace; rk=2 is the averaged two-stage scheme with commit factors
// {0, 0.5}.
func Update(pool *utils.Pool, sourceTerms func(hydro.Vars, hydro.Position) hydro.Vars,
	db *patches.Database, dt float64, rk int) error {

	switch rk {
	case 1:
		return UpdateThreaded(pool, sourceTerms, db, dt, 0.0)
	case 2:
		if err := UpdateThreaded(pool, sourceTerms, db, dt, 0.0); err != nil {
			return err
		}
		return UpdateThreaded(pool, sourceTerms, db, dt, 0.5)
	default:
		return fmt.Errorf("solver: rk must be 1 or 2, have %d", rk)
	}
}

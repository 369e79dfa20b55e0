package sim

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sphflow/sphflow/hydro"
	"github.com/sphflow/sphflow/patches"
	"github.com/sphflow/sphflow/solver"
	"github.com/sphflow/sphflow/utils"
)

// Run executes the main loop for a validated config: scheduler dispatch,
// RK update over the thread pool, status advance, and a trailing dispatch
// so the final state is written. Kernel panics (invalid states, shape
// mismatches) are converted to errors here.
func Run(cfg RunConfig) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	sts := RunStatus{}
	if cfg.Restart != "" {
		if sts, err = StatusFromFile(filepath.Join(cfg.Restart, "status.json")); err != nil {
			return err
		}
	}

	db, err := CreateDatabase(cfg)
	if err != nil {
		return err
	}
	var (
		scheduler   = CreateScheduler(cfg, &sts, db)
		sourceTerms = hydro.NewSourceTerms(cfg.HeatingRate, cfg.CoolingRate)
		dt          = 0.25 * math.Pi / float64(cfg.Nr) // WARNING: assuming speeds stay of order 1
		pool        = utils.NewPool(cfg.NumThreads)
	)
	defer pool.Close()

	fmt.Printf("\n")
	cfg.Print(os.Stdout)
	sts.Print(os.Stdout)
	db.Print(os.Stdout)
	scheduler.Print(os.Stdout)

	fmt.Println(strings.Repeat("=", 52))
	fmt.Printf("Main loop:\n\n")

	for sts.Time < cfg.Tfinal {
		if err := scheduler.Dispatch(sts.Time); err != nil {
			return err
		}
		start := time.Now()
		if err := solver.Update(pool, sourceTerms, db, dt, cfg.Rk); err != nil {
			return err
		}
		elapsed := time.Since(start).Seconds()

		sts.Time += dt
		sts.Iter += 1
		sts.Wall += elapsed

		kzps := float64(db.NumCells(patches.Conserved)) / 1e3 / elapsed
		fmt.Printf("[%04d] t=%3.3f kzps=%3.2f\n", sts.Iter, sts.Time, kzps)
	}
	if err := scheduler.Dispatch(sts.Time); err != nil {
		return err
	}

	fmt.Printf("\n")
	fmt.Println(strings.Repeat("=", 52))
	fmt.Printf("Run completed:\n\n")
	fmt.Printf("\taverage kzps=%f\n", float64(db.NumCells(patches.Conserved))/1e3/sts.Wall*float64(sts.Iter))
	fmt.Printf("\t%s\n\n", utils.MemUsage())

	return nil
}

package sim

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/sphflow/sphflow/hydro"
	"github.com/sphflow/sphflow/ndarray"
	"github.com/sphflow/sphflow/patches"
)

// writeSwappedBytes flushes buf as big-endian binary and clears it. VTK
// legacy binary payloads are big-endian regardless of host order.
func writeSwappedBytes(w *bufio.Writer, buf *[]float32) error {
	if err := binary.Write(w, binary.BigEndian, *buf); err != nil {
		return err
	}
	*buf = (*buf)[:0]
	return nil
}

// WriteVTK writes the assembled mesh and primitive fields as a legacy
// binary structured grid, with the (r, theta) mesh projected to the x-z
// plane.
func WriteVTK(db *patches.Database, cfg RunConfig, count int) error {
	filename := cfg.MakeFilenameVtk(count)
	fmt.Printf("write VTK %s\n", filename)

	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	var (
		w          = bufio.NewWriter(f)
		consToPrim = ndarray.VFrom(hydro.ConsToPrim)
		vert       = db.Assemble(0, cfg.NumBlocks, 0, 1, 0, patches.VertCoords)
		buffer     []float32
	)

	fmt.Fprintf(w, "# vtk DataFile Version 3.0\n")
	fmt.Fprintf(w, "My Data\n")
	fmt.Fprintf(w, "BINARY\n")
	fmt.Fprintf(w, "DATASET STRUCTURED_GRID\n")
	fmt.Fprintf(w, "DIMENSIONS %d %d %d\n", vert.Shape(0), vert.Shape(1), 1)

	fmt.Fprintf(w, "POINTS %d FLOAT\n", vert.Shape(0)*vert.Shape(1))
	for j := 0; j < vert.Shape(1); j++ {
		for i := 0; i < vert.Shape(0); i++ {
			var (
				r = vert.At(i, j, 0)
				q = vert.At(i, j, 1)
			)
			buffer = append(buffer, float32(r*math.Sin(q)), 0.0, float32(r*math.Cos(q)))
		}
	}
	if err := writeSwappedBytes(w, &buffer); err != nil {
		return err
	}

	var (
		cons = db.Assemble(0, cfg.NumBlocks, 0, 1, 0, patches.Conserved)
		prim = consToPrim(cons)
	)
	fmt.Fprintf(w, "CELL_DATA %d\n", prim.Shape(0)*prim.Shape(1))

	scalars := []struct {
		name      string
		component int
	}{
		{"density", hydro.Rho},
		{"radial_velocity", hydro.Vr},
		{"pressure", hydro.Pre},
	}
	for _, s := range scalars {
		fmt.Fprintf(w, "SCALARS %s FLOAT %d\n", s.name, 1)
		fmt.Fprintf(w, "LOOKUP_TABLE default\n")
		for j := 0; j < prim.Shape(1); j++ {
			for i := 0; i < prim.Shape(0); i++ {
				buffer = append(buffer, float32(prim.At(i, j, s.component)))
			}
		}
		if err := writeSwappedBytes(w, &buffer); err != nil {
			return err
		}
	}
	return w.Flush()
}

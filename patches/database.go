package patches

import (
	"fmt"
	"io"
	"sort"

	"github.com/sphflow/sphflow/ndarray"
)

// FieldShape fixes the component count and mesh location of a field.
type FieldShape struct {
	Components int
	Location   MeshLocation
}

type Header map[Field]FieldShape

// BoundaryEdge names the four sides of a patch.
type BoundaryEdge uint8

const (
	EdgeIL BoundaryEdge = iota // inner radial
	EdgeIR                     // outer radial
	EdgeJL                     // lower polar
	EdgeJR                     // upper polar
)

// BoundaryValue synthesizes guard-zone data at an external border. It is
// called with the requested guard depth and must return an array of shape
// (depth, nj, C) for i-edges or (ni, depth, C) for j-edges. An empty
// result leaves the guard region untouched.
type BoundaryValue func(idx Index, edge BoundaryEdge, depth int, patch ndarray.Array) ndarray.Array

// Database is the patch-indexed store for state and geometry arrays.
// Patches are inserted during init or checkpoint load; only conserved
// patches are mutated afterwards, through Commit.
type Database struct {
	ni, nj   int
	header   Header
	patches  map[Index]ndarray.Array
	boundary BoundaryValue
}

func NewDatabase(ni, nj int, header Header) *Database {
	return &Database{
		ni:      ni,
		nj:      nj,
		header:  header,
		patches: make(map[Index]ndarray.Array),
	}
}

func (db *Database) PatchDims() (ni, nj int) { return db.ni, db.nj }

func (db *Database) SetBoundaryValue(policy BoundaryValue) { db.boundary = policy }

// fieldShape is the required array shape for a field at this patch size.
func (db *Database) fieldShape(field Field) (ni, nj, nk int) {
	shape, ok := db.header[field]
	if !ok {
		panic(fmt.Sprintf("patches: field %v not in header", field))
	}
	ni, nj, nk = db.ni, db.nj, shape.Components
	switch shape.Location {
	case Vert:
		ni, nj = ni+1, nj+1
	case FaceI:
		ni = ni + 1
	case FaceJ:
		nj = nj + 1
	}
	return
}

// Insert stores a copy of data under idx, validating its shape against the
// header and patch dimensions.
func (db *Database) Insert(idx Index, data ndarray.Array) {
	var (
		ni, nj, nk = db.fieldShape(idx.Field)
		ai, aj, ak = data.Dims()
	)
	if ai != ni || aj != nj || ak != nk {
		panic(fmt.Sprintf("patches: insert %v: shape (%d,%d,%d) != (%d,%d,%d)",
			idx, ai, aj, ak, ni, nj, nk))
	}
	db.patches[idx] = data.Copy()
}

// At returns a non-owning reference to the stored array for (block,
// field) at block-grid position (0, 0).
func (db *Database) At(block int, field Field) ndarray.Array {
	a, ok := db.patches[Index{Block: block, Field: field}]
	if !ok {
		panic(fmt.Sprintf("patches: no patch (%d, %s)", block, field))
	}
	return a
}

// Patch holds one iteration item from All.
type Patch struct {
	Index Index
	Data  ndarray.Array
}

// All returns the patches of a field in deterministic block order.
func (db *Database) All(field Field) (out []Patch) {
	for idx, a := range db.patches {
		if idx.Field == field {
			out = append(out, Patch{idx, a})
		}
	}
	sort.Slice(out, func(a, b int) bool {
		ia, ib := out[a].Index, out[b].Index
		if ia.Block != ib.Block {
			return ia.Block < ib.Block
		}
		if ia.I != ib.I {
			return ia.I < ib.I
		}
		return ia.J < ib.J
	})
	return
}

// NumCells sums the product of the leading-axis extents over the stored
// patches of a field.
func (db *Database) NumCells(field Field) (n int) {
	for idx, a := range db.patches {
		if idx.Field == field {
			n += a.Shape(0) * a.Shape(1)
		}
	}
	return
}

// Fetch assembles a padded working buffer for one patch: the patch
// interior, strips copied from neighboring patches where they exist, and
// boundary-policy data at external borders.
func (db *Database) Fetch(idx Index, giLo, giHi, gjLo, gjHi int) ndarray.Array {
	var (
		patch      = db.patches[idx]
		ni, nj, nk = patch.Dims()
		out        = ndarray.New(ni+giLo+giHi, nj+gjLo+gjHi, nk)
		interI     = ndarray.Span(giLo, giLo+ni)
		interJ     = ndarray.Span(gjLo, gjLo+nj)
	)
	out.Select(interI, interJ, ":").Assign(patch)

	fill := func(target ndarray.Array, neighbor Index, strip func(ndarray.Array) ndarray.Array,
		edge BoundaryEdge, depth int) {
		if nbr, ok := db.patches[neighbor]; ok {
			target.Assign(strip(nbr))
			return
		}
		if db.boundary == nil {
			return
		}
		if bv := db.boundary(idx, edge, depth, patch); !bv.Empty() {
			target.Assign(bv)
		}
	}

	if giLo > 0 {
		fill(out.Select(ndarray.Span(0, giLo), interJ, ":"),
			Index{idx.Block - 1, idx.I, idx.J, idx.Field},
			func(n ndarray.Array) ndarray.Array { return n.Take(0, ndarray.Span(ni-giLo, ni)) },
			EdgeIL, giLo)
	}
	if giHi > 0 {
		fill(out.Select(ndarray.Span(giLo+ni, giLo+ni+giHi), interJ, ":"),
			Index{idx.Block + 1, idx.I, idx.J, idx.Field},
			func(n ndarray.Array) ndarray.Array { return n.Take(0, ndarray.Span(0, giHi)) },
			EdgeIR, giHi)
	}
	if gjLo > 0 {
		fill(out.Select(interI, ndarray.Span(0, gjLo), ":"),
			Index{idx.Block, idx.I, idx.J - 1, idx.Field},
			func(n ndarray.Array) ndarray.Array { return n.Take(1, ndarray.Span(nj-gjLo, nj)) },
			EdgeJL, gjLo)
	}
	if gjHi > 0 {
		fill(out.Select(interI, ndarray.Span(gjLo+nj, gjLo+nj+gjHi), ":"),
			Index{idx.Block, idx.I, idx.J + 1, idx.Field},
			func(n ndarray.Array) ndarray.Array { return n.Take(1, ndarray.Span(0, gjHi)) },
			EdgeJR, gjHi)
	}
	return out
}

// Commit blends data into the stored patch: A <- rk*A + (1-rk)*data. A
// factor of 0 replaces outright.
func (db *Database) Commit(idx Index, data ndarray.Array, rkFactor float64) {
	a, ok := db.patches[idx]
	if !ok {
		panic(fmt.Sprintf("patches: commit to missing patch %v", idx))
	}
	var (
		ni, nj, nk = a.Dims()
		di, dj, dk = data.Dims()
	)
	if di != ni || dj != nj || dk != nk {
		panic(fmt.Sprintf("patches: commit %v: shape (%d,%d,%d) != (%d,%d,%d)",
			idx, di, dj, dk, ni, nj, nk))
	}
	for i := 0; i < ni; i++ {
		for j := 0; j < nj; j++ {
			for k := 0; k < nk; k++ {
				a.Set(i, j, k, rkFactor*a.At(i, j, k)+(1-rkFactor)*data.At(i, j, k))
			}
		}
	}
}

// Assemble concatenates the patches of a field over blocks [blockLo,
// blockHi) and block-grid columns [jLo, jHi) into one global array.
// Vertex- and face-located fields share rows or columns at patch seams;
// the duplicated edge is dropped from all but the last patch. k0 narrows
// the component axis to [k0:].
func (db *Database) Assemble(blockLo, blockHi, jLo, jHi, k0 int, field Field) ndarray.Array {
	var (
		shape      = db.header[field]
		iOverlap   = shape.Location == Vert || shape.Location == FaceI
		jOverlap   = shape.Location == Vert || shape.Location == FaceJ
		_, _, nk   = db.fieldShape(field)
		rows, cols int
	)
	rows = (blockHi - blockLo) * db.ni
	if iOverlap {
		rows++
	}
	cols = (jHi - jLo) * db.nj
	if jOverlap {
		cols++
	}
	out := ndarray.New(rows, cols, nk-k0)

	for b := blockLo; b < blockHi; b++ {
		for jj := jLo; jj < jHi; jj++ {
			idx := Index{Block: b, J: jj, Field: field}
			patch, ok := db.patches[idx]
			if !ok {
				panic(fmt.Sprintf("patches: assemble: missing patch %v", idx))
			}
			var (
				pi = patch.Shape(0)
				pj = patch.Shape(1)
			)
			if iOverlap && b != blockHi-1 {
				pi = db.ni
			}
			if jOverlap && jj != jHi-1 {
				pj = db.nj
			}
			var (
				r0 = (b - blockLo) * db.ni
				c0 = (jj - jLo) * db.nj
			)
			out.Select(ndarray.Span(r0, r0+pi), ndarray.Span(c0, c0+pj), ":").
				Assign(patch.Select(ndarray.Span(0, pi), ndarray.Span(0, pj), ndarray.Span(k0, nk)))
		}
	}
	return out
}

// Print writes a one-line-per-field summary in the run report.
func (db *Database) Print(w io.Writer) {
	fields := make([]Field, 0, len(db.header))
	for f := range db.header {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(a, b int) bool { return fields[a] < fields[b] })
	fmt.Fprintf(w, "Database: patch size %d x %d\n", db.ni, db.nj)
	for _, f := range fields {
		var count int
		for idx := range db.patches {
			if idx.Field == f {
				count++
			}
		}
		fmt.Fprintf(w, "%-16s patches=%-4d cells=%d\n", f.String(), count, db.NumCells(f))
	}
}

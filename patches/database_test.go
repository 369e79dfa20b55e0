package patches

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sphflow/sphflow/ndarray"
)

func testHeader() Header {
	return Header{
		Conserved:  {Components: 5, Location: Cell},
		VertCoords: {Components: 2, Location: Vert},
		CellVolume: {Components: 1, Location: Cell},
		FaceAreaI:  {Components: 1, Location: FaceI},
		FaceAreaJ:  {Components: 1, Location: FaceJ},
	}
}

// rampPatch fills a conserved-shaped array with a value derived from the
// block and cell position, so neighbor strips are distinguishable.
func rampPatch(block, ni, nj int) ndarray.Array {
	a := ndarray.New(ni, nj, 5)
	for i := 0; i < ni; i++ {
		for j := 0; j < nj; j++ {
			for k := 0; k < 5; k++ {
				a.Set(i, j, k, float64(1000*block+100*i+10*j+k))
			}
		}
	}
	return a
}

func TestIndexRoundTrip(t *testing.T) {
	idx := Index{Block: 3, I: 0, J: 1, Field: FaceAreaJ}
	parsed, err := ParseIndex(idx.String())
	require.NoError(t, err)
	assert.Equal(t, idx, parsed)

	_, err = ParseIndex("nonsense")
	assert.Error(t, err)
	_, err = ParseIndex("0.0.0/unknown_field")
	assert.Error(t, err)
}

func TestInsertValidatesShape(t *testing.T) {
	db := NewDatabase(4, 3, testHeader())
	assert.Panics(t, func() {
		db.Insert(Index{Field: Conserved}, ndarray.New(4, 3, 2))
	})
	assert.Panics(t, func() {
		db.Insert(Index{Field: VertCoords}, ndarray.New(4, 3, 2))
	})
	db.Insert(Index{Field: VertCoords}, ndarray.New(5, 4, 2))
	db.Insert(Index{Field: FaceAreaI}, ndarray.New(5, 3, 1))
	db.Insert(Index{Field: FaceAreaJ}, ndarray.New(4, 4, 1))
}

func TestFetchNeighborStrips(t *testing.T) {
	var (
		ni, nj = 4, 3
		db     = NewDatabase(ni, nj, testHeader())
	)
	for b := 0; b < 3; b++ {
		db.Insert(Index{Block: b, Field: Conserved}, rampPatch(b, ni, nj))
	}
	U := db.Fetch(Index{Block: 1, Field: Conserved}, 2, 2, 0, 0)
	assert.Equal(t, ni+4, U.Shape(0))
	assert.Equal(t, nj, U.Shape(1))

	// Interior equals the original patch
	assert.Equal(t, 0.0, U.Select("2:6", ":", ":").MaxAbsDiff(db.At(1, Conserved)))
	// Left guards hold block 0's last two rows
	assert.Equal(t, float64(1000*0+100*2), U.At(0, 0, 0))
	assert.Equal(t, float64(1000*0+100*3+10*2+4), U.At(1, 2, 4))
	// Right guards hold block 2's first two rows
	assert.Equal(t, float64(1000*2+100*0), U.At(6, 0, 0))
	assert.Equal(t, float64(1000*2+100*1+10*1+1), U.At(7, 1, 1))
}

func TestFetchBoundaryPolicyDepth(t *testing.T) {
	var (
		ni, nj = 4, 3
		db     = NewDatabase(ni, nj, testHeader())
		depths []int
	)
	db.Insert(Index{Block: 0, Field: Conserved}, rampPatch(0, ni, nj))
	db.SetBoundaryValue(func(idx Index, edge BoundaryEdge, depth int, patch ndarray.Array) ndarray.Array {
		depths = append(depths, depth)
		out := ndarray.New(depth, nj, 5)
		out.Fill(float64(7 * depth))
		return out
	})
	// The policy is called with the requested depth, not a fixed one
	for _, depth := range []int{1, 2, 3} {
		depths = depths[:0]
		U := db.Fetch(Index{Block: 0, Field: Conserved}, depth, depth, 0, 0)
		assert.Equal(t, []int{depth, depth}, depths)
		assert.Equal(t, float64(7*depth), U.At(0, 0, 0))
		assert.Equal(t, float64(7*depth), U.At(ni+2*depth-1, nj-1, 4))
	}
	// An empty policy result leaves the guard region zeroed
	db.SetBoundaryValue(func(idx Index, edge BoundaryEdge, depth int, patch ndarray.Array) ndarray.Array {
		return ndarray.Array{}
	})
	U := db.Fetch(Index{Block: 0, Field: Conserved}, 1, 1, 0, 0)
	assert.Equal(t, 0.0, U.At(0, 0, 0))
}

func TestCommitBlend(t *testing.T) {
	var (
		ni, nj = 2, 2
		db     = NewDatabase(ni, nj, testHeader())
		idx    = Index{Field: Conserved}
	)
	U0 := ndarray.New(ni, nj, 5)
	U0.Fill(1)
	db.Insert(idx, U0)

	// Factor 0 replaces
	U1 := ndarray.New(ni, nj, 5)
	U1.Fill(5)
	db.Commit(idx, U1, 0.0)
	assert.Equal(t, 5.0, db.At(0, Conserved).At(0, 0, 0))

	// Factor 0.5 averages with the stored state
	U2 := ndarray.New(ni, nj, 5)
	U2.Fill(9)
	db.Commit(idx, U2, 0.5)
	assert.Equal(t, 7.0, db.At(0, Conserved).At(1, 1, 4))

	assert.Panics(t, func() {
		db.Commit(idx, ndarray.New(ni, nj+1, 5), 0.0)
	})
}

func TestRK2CommitSequence(t *testing.T) {
	// After factors {0, 0.5} the stored state is (U1 + U2)/2: the second
	// commit blends against the first commit's replacement.
	var (
		db  = NewDatabase(1, 1, testHeader())
		idx = Index{Field: Conserved}
	)
	U0 := ndarray.New(1, 1, 5)
	U0.Fill(2)
	U1 := ndarray.New(1, 1, 5)
	U1.Fill(8)
	U2 := ndarray.New(1, 1, 5)
	U2.Fill(4)
	db.Insert(idx, U0)
	db.Commit(idx, U1, 0.0)
	db.Commit(idx, U2, 0.5)
	assert.Equal(t, 0.5*(8.0+4.0), db.At(0, Conserved).At(0, 0, 0))
}

func TestAllOrderAndNumCells(t *testing.T) {
	var (
		ni, nj = 4, 3
		db     = NewDatabase(ni, nj, testHeader())
	)
	for _, b := range []int{2, 0, 1} {
		db.Insert(Index{Block: b, Field: Conserved}, rampPatch(b, ni, nj))
	}
	all := db.All(Conserved)
	require.Len(t, all, 3)
	for b, patch := range all {
		assert.Equal(t, b, patch.Index.Block)
	}
	assert.Equal(t, 3*ni*nj, db.NumCells(Conserved))
	assert.Equal(t, 0, db.NumCells(CellVolume))
}

func TestAssemble(t *testing.T) {
	var (
		ni, nj = 4, 3
		db     = NewDatabase(ni, nj, testHeader())
	)
	for b := 0; b < 2; b++ {
		db.Insert(Index{Block: b, Field: Conserved}, rampPatch(b, ni, nj))
		verts := ndarray.New(ni+1, nj+1, 2)
		verts.Fill(float64(b))
		verts.Take(0, 0).Fill(float64(b) - 0.5) // shared seam row
		db.Insert(Index{Block: b, Field: VertCoords}, verts)
	}
	// Cell-located fields concatenate without overlap
	{
		A := db.Assemble(0, 2, 0, 1, 0, Conserved)
		assert.Equal(t, 2*ni, A.Shape(0))
		assert.Equal(t, nj, A.Shape(1))
		assert.Equal(t, 5, A.Shape(2))
		assert.Equal(t, float64(1000*1+100*0), A.At(ni, 0, 0))
	}
	// Vertex-located fields share a seam row
	{
		V := db.Assemble(0, 2, 0, 1, 0, VertCoords)
		assert.Equal(t, 2*ni+1, V.Shape(0))
		assert.Equal(t, nj+1, V.Shape(1))
		// Row ni comes from block 1's first row, not block 0's last
		assert.Equal(t, 0.5, V.At(ni, 0, 0))
	}
	// k0 narrows the component axis
	{
		A := db.Assemble(0, 2, 0, 1, 1, Conserved)
		assert.Equal(t, 4, A.Shape(2))
		assert.Equal(t, float64(1), A.At(0, 0, 0))
	}
}

package ndarray

import (
	"fmt"
	"math"
)

// Array is a rank-3 array of float64. A freshly constructed Array owns
// contiguous row-major storage; Select and Take produce non-owning views
// that share the owner's storage, so writes through a view mutate the
// owner. Shape and stride bookkeeping is per-axis.
type Array struct {
	data    []float64
	offset  int
	shape   [3]int
	strides [3]int
}

func New(ni, nj, nk int) Array {
	return Array{
		data:    make([]float64, ni*nj*nk),
		shape:   [3]int{ni, nj, nk},
		strides: [3]int{nj * nk, nk, 1},
	}
}

// NewData wraps an existing row-major slice. The slice length must equal
// ni*nj*nk.
func NewData(data []float64, ni, nj, nk int) Array {
	if len(data) != ni*nj*nk {
		panic(fmt.Sprintf("ndarray: data length %d != %d x %d x %d", len(data), ni, nj, nk))
	}
	return Array{
		data:    data,
		shape:   [3]int{ni, nj, nk},
		strides: [3]int{nj * nk, nk, 1},
	}
}

func (a Array) Shape(axis int) int { return a.shape[axis] }

func (a Array) Dims() (ni, nj, nk int) {
	ni, nj, nk = a.shape[0], a.shape[1], a.shape[2]
	return
}

func (a Array) Size() int { return a.shape[0] * a.shape[1] * a.shape[2] }

func (a Array) Empty() bool { return a.Size() == 0 }

func (a Array) index(i, j, k int) int {
	return a.offset + i*a.strides[0] + j*a.strides[1] + k*a.strides[2]
}

func (a Array) At(i, j, k int) float64 { return a.data[a.index(i, j, k)] }

func (a Array) Set(i, j, k int, v float64) { a.data[a.index(i, j, k)] = v }

// Select narrows all three axes at once. Each dim accepts the ranger
// phrases (":", "lo:hi", "lo:hi:step", "end", bare int). The result is an
// O(1) view into the same storage.
func (a Array) Select(dimI, dimJ, dimK interface{}) Array {
	var (
		i1, i2, is = ParseAxis(dimI, a.shape[0])
		j1, j2, js = ParseAxis(dimJ, a.shape[1])
		k1, k2, ks = ParseAxis(dimK, a.shape[2])
	)
	return Array{
		data:   a.data,
		offset: a.index(i1, j1, k1),
		shape: [3]int{
			spanLen(i1, i2, is),
			spanLen(j1, j2, js),
			spanLen(k1, k2, ks),
		},
		strides: [3]int{
			a.strides[0] * is,
			a.strides[1] * js,
			a.strides[2] * ks,
		},
	}
}

// Take narrows a single axis, leaving the others whole.
func (a Array) Take(axis int, dim interface{}) Array {
	switch axis {
	case 0:
		return a.Select(dim, ":", ":")
	case 1:
		return a.Select(":", dim, ":")
	case 2:
		return a.Select(":", ":", dim)
	}
	panic(fmt.Sprintf("ndarray: axis %d out of range", axis))
}

func spanLen(lo, hi, step int) int {
	if hi <= lo {
		return 0
	}
	return (hi - lo + step - 1) / step
}

// Assign copies src into the receiver elementwise. A size-1 axis of src
// broadcasts along the receiver's axis; otherwise shapes must agree.
func (a Array) Assign(src Array) {
	var bcast [3]int
	for ax := 0; ax < 3; ax++ {
		switch src.shape[ax] {
		case a.shape[ax]:
			bcast[ax] = 1
		case 1:
			bcast[ax] = 0
		default:
			panic(fmt.Sprintf("ndarray: assign shape mismatch %v <- %v", a.shape, src.shape))
		}
	}
	for i := 0; i < a.shape[0]; i++ {
		for j := 0; j < a.shape[1]; j++ {
			for k := 0; k < a.shape[2]; k++ {
				a.Set(i, j, k, src.At(i*bcast[0], j*bcast[1], k*bcast[2]))
			}
		}
	}
}

func (a Array) Fill(v float64) {
	for i := 0; i < a.shape[0]; i++ {
		for j := 0; j < a.shape[1]; j++ {
			for k := 0; k < a.shape[2]; k++ {
				a.Set(i, j, k, v)
			}
		}
	}
}

// Copy returns an owned contiguous duplicate of the receiver's window.
func (a Array) Copy() Array {
	out := New(a.shape[0], a.shape[1], a.shape[2])
	out.Assign(a)
	return out
}

func (a Array) sameShape(b Array, op string) {
	if a.shape != b.shape {
		panic(fmt.Sprintf("ndarray: %s shape mismatch %v vs %v", op, a.shape, b.shape))
	}
}

// Add returns a + b as a new owned array.
func (a Array) Add(b Array) Array {
	a.sameShape(b, "add")
	out := New(a.shape[0], a.shape[1], a.shape[2])
	for i := 0; i < a.shape[0]; i++ {
		for j := 0; j < a.shape[1]; j++ {
			for k := 0; k < a.shape[2]; k++ {
				out.Set(i, j, k, a.At(i, j, k)+b.At(i, j, k))
			}
		}
	}
	return out
}

// Sub returns a - b as a new owned array.
func (a Array) Sub(b Array) Array {
	a.sameShape(b, "sub")
	out := New(a.shape[0], a.shape[1], a.shape[2])
	for i := 0; i < a.shape[0]; i++ {
		for j := 0; j < a.shape[1]; j++ {
			for k := 0; k < a.shape[2]; k++ {
				out.Set(i, j, k, a.At(i, j, k)-b.At(i, j, k))
			}
		}
	}
	return out
}

// MaxAbsDiff reports the largest componentwise |a-b|, for tolerance checks.
func (a Array) MaxAbsDiff(b Array) (d float64) {
	a.sameShape(b, "maxabsdiff")
	for i := 0; i < a.shape[0]; i++ {
		for j := 0; j < a.shape[1]; j++ {
			for k := 0; k < a.shape[2]; k++ {
				if m := math.Abs(a.At(i, j, k) - b.At(i, j, k)); m > d {
					d = m
				}
			}
		}
	}
	return
}

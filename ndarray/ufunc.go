package ndarray

import "fmt"

// Universal-function lifters. Each entry point lifts a typed pointwise
// closure to an operator over conforming arrays. Scalar lifts apply over
// every element; vector lifts apply over the leading two axes and treat the
// trailing axis as the component axis. Leading-shape disagreement panics.

func conform(op string, lead [2]int, arrays ...Array) {
	for _, a := range arrays {
		if a.shape[0] != lead[0] || a.shape[1] != lead[1] {
			panic(fmt.Sprintf("ndarray: %s leading shape mismatch %v vs (%d,%d,-)",
				op, a.shape, lead[0], lead[1]))
		}
	}
}

func components(op string, a Array, nk int) {
	if a.shape[2] != nk {
		panic(fmt.Sprintf("ndarray: %s expects %d components, have %d", op, nk, a.shape[2]))
	}
}

// From1 lifts a unary scalar function.
func From1(f func(float64) float64) func(Array) Array {
	return func(a Array) Array {
		out := New(a.shape[0], a.shape[1], a.shape[2])
		for i := 0; i < a.shape[0]; i++ {
			for j := 0; j < a.shape[1]; j++ {
				for k := 0; k < a.shape[2]; k++ {
					out.Set(i, j, k, f(a.At(i, j, k)))
				}
			}
		}
		return out
	}
}

// From2 lifts a binary scalar function over two conforming arrays.
func From2(f func(a, b float64) float64) func(Array, Array) Array {
	return func(a, b Array) Array {
		a.sameShape(b, "ufunc.From2")
		out := New(a.shape[0], a.shape[1], a.shape[2])
		for i := 0; i < a.shape[0]; i++ {
			for j := 0; j < a.shape[1]; j++ {
				for k := 0; k < a.shape[2]; k++ {
					out.Set(i, j, k, f(a.At(i, j, k), b.At(i, j, k)))
				}
			}
		}
		return out
	}
}

// From3 lifts a ternary scalar function over three conforming arrays.
func From3(f func(a, b, c float64) float64) func(Array, Array, Array) Array {
	return func(a, b, c Array) Array {
		a.sameShape(b, "ufunc.From3")
		a.sameShape(c, "ufunc.From3")
		out := New(a.shape[0], a.shape[1], a.shape[2])
		for i := 0; i < a.shape[0]; i++ {
			for j := 0; j < a.shape[1]; j++ {
				for k := 0; k < a.shape[2]; k++ {
					out.Set(i, j, k, f(a.At(i, j, k), b.At(i, j, k), c.At(i, j, k)))
				}
			}
		}
		return out
	}
}

func (a Array) vars5(i, j int) (v [5]float64) {
	for k := 0; k < 5; k++ {
		v[k] = a.At(i, j, k)
	}
	return
}

func (a Array) setVars5(i, j int, v [5]float64) {
	for k := 0; k < 5; k++ {
		a.Set(i, j, k, v[k])
	}
}

// VFrom lifts a unary function over 5-tuples.
func VFrom(f func([5]float64) [5]float64) func(Array) Array {
	return func(a Array) Array {
		components("ufunc.VFrom", a, 5)
		out := New(a.shape[0], a.shape[1], 5)
		for i := 0; i < a.shape[0]; i++ {
			for j := 0; j < a.shape[1]; j++ {
				out.setVars5(i, j, f(a.vars5(i, j)))
			}
		}
		return out
	}
}

// VFrom2 lifts a binary function over 5-tuples, e.g. a Riemann solver.
func VFrom2(f func(l, r [5]float64) [5]float64) func(Array, Array) Array {
	return func(a, b Array) Array {
		components("ufunc.VFrom2", a, 5)
		components("ufunc.VFrom2", b, 5)
		conform("ufunc.VFrom2", [2]int{a.shape[0], a.shape[1]}, b)
		out := New(a.shape[0], a.shape[1], 5)
		for i := 0; i < a.shape[0]; i++ {
			for j := 0; j < a.shape[1]; j++ {
				out.setVars5(i, j, f(a.vars5(i, j), b.vars5(i, j)))
			}
		}
		return out
	}
}

// VFromPos lifts a function of a 5-tuple and a coordinate pair, e.g. source
// terms evaluated at cell centroids.
func VFromPos(f func(p [5]float64, x [2]float64) [5]float64) func(Array, Array) Array {
	return func(a, x Array) Array {
		components("ufunc.VFromPos", a, 5)
		components("ufunc.VFromPos", x, 2)
		conform("ufunc.VFromPos", [2]int{a.shape[0], a.shape[1]}, x)
		out := New(a.shape[0], a.shape[1], 5)
		for i := 0; i < a.shape[0]; i++ {
			for j := 0; j < a.shape[1]; j++ {
				out.setVars5(i, j, f(a.vars5(i, j), [2]float64{x.At(i, j, 0), x.At(i, j, 1)}))
			}
		}
		return out
	}
}

// VFromCoords lifts a function of a coordinate pair to a 5-tuple field,
// e.g. initial data evaluated at cell centroids.
func VFromCoords(f func(x [2]float64) [5]float64) func(Array) Array {
	return func(x Array) Array {
		components("ufunc.VFromCoords", x, 2)
		out := New(x.shape[0], x.shape[1], 5)
		for i := 0; i < x.shape[0]; i++ {
			for j := 0; j < x.shape[1]; j++ {
				out.setVars5(i, j, f([2]float64{x.At(i, j, 0), x.At(i, j, 1)}))
			}
		}
		return out
	}
}

// VFromArea lifts a function of a 5-tuple and a single-component value,
// e.g. flux times face area.
func VFromArea(f func(p [5]float64, da float64) [5]float64) func(Array, Array) Array {
	return func(a, da Array) Array {
		components("ufunc.VFromArea", a, 5)
		components("ufunc.VFromArea", da, 1)
		conform("ufunc.VFromArea", [2]int{a.shape[0], a.shape[1]}, da)
		out := New(a.shape[0], a.shape[1], 5)
		for i := 0; i < a.shape[0]; i++ {
			for j := 0; j < a.shape[1]; j++ {
				out.setVars5(i, j, f(a.vars5(i, j), da.At(i, j, 0)))
			}
		}
		return out
	}
}

// VFromUpdate lifts a function of two 5-tuples and a single-component
// value, e.g. the conservative update from sources, flux divergence, and
// cell volume.
func VFromUpdate(f func(s, df [5]float64, dv float64) [5]float64) func(Array, Array, Array) Array {
	return func(s, df, dv Array) Array {
		components("ufunc.VFromUpdate", s, 5)
		components("ufunc.VFromUpdate", df, 5)
		components("ufunc.VFromUpdate", dv, 1)
		conform("ufunc.VFromUpdate", [2]int{s.shape[0], s.shape[1]}, df, dv)
		out := New(s.shape[0], s.shape[1], 5)
		for i := 0; i < s.shape[0]; i++ {
			for j := 0; j < s.shape[1]; j++ {
				out.setVars5(i, j, f(s.vars5(i, j), df.vars5(i, j), dv.At(i, j, 0)))
			}
		}
		return out
	}
}

// NFrom4 lifts a function of a fixed 4-tuple over four parallel
// single-component arrays, e.g. cell volumes from vertex extents.
func NFrom4(f func([4]float64) float64) func(a, b, c, d Array) Array {
	return func(a, b, c, d Array) Array {
		lead := [2]int{a.shape[0], a.shape[1]}
		conform("ufunc.NFrom4", lead, b, c, d)
		out := New(a.shape[0], a.shape[1], 1)
		for i := 0; i < a.shape[0]; i++ {
			for j := 0; j < a.shape[1]; j++ {
				out.Set(i, j, 0, f([4]float64{
					a.At(i, j, 0),
					b.At(i, j, 0),
					c.At(i, j, 0),
					d.At(i, j, 0),
				}))
			}
		}
		return out
	}
}

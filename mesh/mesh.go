package mesh

import (
	"math"

	"github.com/sphflow/sphflow/ndarray"
)

// Closed-form geometry for a logically rectangular (r, theta) patch with
// azimuthal symmetry over phi in [0, 2pi). Radial spacing is geometric,
// polar spacing is uniform.

// Geometry bundles the per-patch arrays consumed by the update.
type Geometry struct {
	Centroids  ndarray.Array // (ni, nj, 2)
	Volumes    ndarray.Array // (ni, nj, 1)
	FaceAreasI ndarray.Array // (ni+1, nj, 1)
	FaceAreasJ ndarray.Array // (ni, nj+1, 1)
}

// Vertices returns the (ni+1, nj+1, 2) vertex coordinates for extent
// {r0, r1, q0, q1}.
func Vertices(ni, nj int, extent [4]float64) ndarray.Array {
	var (
		x0 = extent[0]
		x1 = extent[1]
		y0 = extent[2]
		y1 = extent[3]
		X  = ndarray.New(ni+1, nj+1, 2)
	)
	for i := 0; i < ni+1; i++ {
		for j := 0; j < nj+1; j++ {
			X.Set(i, j, 0, x0*math.Pow(x1/x0, float64(i)/float64(ni)))
			X.Set(i, j, 1, y0+(y1-y0)*float64(j)/float64(nj))
		}
	}
	return X
}

// cellExtent slices the four per-cell vertex views (r0, r1, q0, q1) used by
// the closed-form volume and area expressions.
func cellExtent(verts ndarray.Array) (r0, r1, q0, q1 ndarray.Array) {
	var (
		mi = verts.Shape(0)
		mj = verts.Shape(1)
	)
	r0 = verts.Select(ndarray.Span(0, mi-1), ndarray.Span(0, mj-1), "0:1")
	r1 = verts.Select(ndarray.Span(1, mi), ndarray.Span(1, mj), "0:1")
	q0 = verts.Select(ndarray.Span(0, mi-1), ndarray.Span(0, mj-1), "1:2")
	q1 = verts.Select(ndarray.Span(1, mi), ndarray.Span(1, mj), "1:2")
	return
}

// CellCentroids returns the (ni, nj, 2) cell centers: geometric mean in r,
// arithmetic mean in theta.
func CellCentroids(verts ndarray.Array) ndarray.Array {
	var (
		centroidR = ndarray.From2(func(r0, r1 float64) float64 {
			return math.Sqrt(r0 * r1)
		})
		centroidQ = ndarray.From2(func(q0, q1 float64) float64 {
			return 0.5 * (q0 + q1)
		})
		r0, r1, q0, q1 = cellExtent(verts)
		res            = ndarray.New(verts.Shape(0)-1, verts.Shape(1)-1, 2)
	)
	res.Take(2, "0:1").Assign(centroidR(r0, r1))
	res.Take(2, "1:2").Assign(centroidQ(q0, q1))
	return res
}

// CellVolumes returns the (ni, nj, 1) cell volumes.
func CellVolumes(verts ndarray.Array) ndarray.Array {
	var (
		p0, p1 = 0.0, 2 * math.Pi
		volume = ndarray.NFrom4(func(extent [4]float64) float64 {
			var (
				r0 = extent[0]
				r1 = extent[1]
				q0 = extent[2]
				q1 = extent[3]
			)
			return -1. / 3 * (r1*r1*r1 - r0*r0*r0) * (math.Cos(q1) - math.Cos(q0)) * (p1 - p0)
		})
		r0, r1, q0, q1 = cellExtent(verts)
	)
	return volume(r0, r1, q0, q1)
}

// FaceAreasI returns the (ni+1, nj, 1) radial face areas.
func FaceAreasI(verts ndarray.Array) ndarray.Array {
	var (
		p0, p1 = 0.0, 2 * math.Pi
		mj     = verts.Shape(1)
		r0     = verts.Select(":", ndarray.Span(0, mj-1), "0:1")
		r1     = verts.Select(":", ndarray.Span(1, mj), "0:1")
		q0     = verts.Select(":", ndarray.Span(0, mj-1), "1:2")
		q1     = verts.Select(":", ndarray.Span(1, mj), "1:2")
		area   = ndarray.NFrom4(func(extent [4]float64) float64 {
			var (
				r0 = extent[0]
				q0 = extent[2]
				q1 = extent[3]
			)
			return -r0 * r0 * (p1 - p0) * (math.Cos(q1) - math.Cos(q0))
		})
	)
	return area(r0, r1, q0, q1)
}

// FaceAreasJ returns the (ni, nj+1, 1) polar face areas.
func FaceAreasJ(verts ndarray.Array) ndarray.Array {
	var (
		p0, p1 = 0.0, 2 * math.Pi
		mi     = verts.Shape(0)
		r0     = verts.Select(ndarray.Span(0, mi-1), ":", "0:1")
		r1     = verts.Select(ndarray.Span(1, mi), ":", "0:1")
		q0     = verts.Select(ndarray.Span(0, mi-1), ":", "1:2")
		q1     = verts.Select(ndarray.Span(1, mi), ":", "1:2")
		area   = ndarray.NFrom4(func(extent [4]float64) float64 {
			var (
				r0 = extent[0]
				r1 = extent[1]
				q0 = extent[2]
			)
			return 0.5 * (r1 + r0) * (r1 - r0) * (p1 - p0) * math.Sin(q0)
		})
	)
	return area(r0, r1, q0, q1)
}

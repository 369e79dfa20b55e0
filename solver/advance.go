package solver

import (
	"math"

	"github.com/sphflow/sphflow/hydro"
	"github.com/sphflow/sphflow/mesh"
	"github.com/sphflow/sphflow/ndarray"
)

func sgn(x float64) float64 {
	return math.Copysign(1, x)
}

func min3abs(a, b, c float64) float64 {
	return math.Min(math.Min(math.Abs(a), math.Abs(b)), math.Abs(c))
}

func minmod(ul, u0, ur, theta float64) float64 {
	var (
		a = theta * (u0 - ul)
		b = 0.5 * (ur - ul)
		c = theta * (ur - u0)
	)
	return 0.25 * math.Abs(sgn(a)+sgn(b)) * (sgn(a) + sgn(c)) * min3abs(a, b, c)
}

// GradientPLM is the slope-limited PLM gradient estimator with limiter
// parameter theta.
func GradientPLM(theta float64) func(a, b, c float64) float64 {
	return func(a, b, c float64) float64 {
		return minmod(a, b, c, theta)
	}
}

// padWithZerosJ widens A by one zero row on each end of axis 1, the
// zero-gradient treatment of the polar axis.
func padWithZerosJ(A ndarray.Array) ndarray.Array {
	var (
		ni, nj, nk = A.Dims()
		res        = ndarray.New(ni, nj+2, nk)
	)
	res.Select(":", ndarray.Span(1, nj+1), ":").Assign(A)
	return res
}

// Advance2D advances one patch by dt. U0 carries two radial guard cells on
// each side and none in theta, shape (ni+4, nj, 5); G is sized for the
// interior. Returns the updated interior conserved array. Invalid states
// are not floored here; they surface through the validity checks on the
// next conservative-to-primitive transform.
func Advance2D(sourceTerms func(hydro.Vars, hydro.Position) hydro.Vars,
	U0 ndarray.Array, G mesh.Geometry, dt float64) ndarray.Array {

	updateFormula := func(s, df [5]float64, dv float64) (du [5]float64) {
		for q := 0; q < 5; q++ {
			du[q] = dt * (s[q] - df[q]/dv)
		}
		return
	}
	fluxTimesAreaFormula := func(f [5]float64, da float64) (fa [5]float64) {
		for q := 0; q < 5; q++ {
			fa[q] = f[q] * da
		}
		return
	}

	var (
		gradientEst  = ndarray.From3(GradientPLM(2.0))
		advanceCons  = ndarray.VFromUpdate(updateFormula)
		evaluateSrc  = ndarray.VFromPos(sourceTerms)
		consToPrim   = ndarray.VFrom(hydro.ConsToPrim)
		godunovFluxI = ndarray.VFrom2(hydro.RiemannHLLE(hydro.Unit{1, 0, 0}))
		godunovFluxJ = ndarray.VFrom2(hydro.RiemannHLLE(hydro.Unit{0, 1, 0}))
		extrapL      = ndarray.From2(func(a, b float64) float64 { return a - b*0.5 })
		extrapR      = ndarray.From2(func(a, b float64) float64 { return a + b*0.5 })
		fluxArea     = ndarray.VFromArea(fluxTimesAreaFormula)

		mi = U0.Shape(0)
		mj = U0.Shape(1)
		P0 = consToPrim(U0)
	)

	Fhi := func() ndarray.Array {
		var (
			Pa = P0.Select(ndarray.Span(0, mi-2), ":", ":")
			Pb = P0.Select(ndarray.Span(1, mi-1), ":", ":")
			Pc = P0.Select(ndarray.Span(2, mi), ":", ":")
			Gb = gradientEst(Pa, Pb, Pc)
			Pl = extrapL(Pb, Gb)
			Pr = extrapR(Pb, Gb)
			Fh = godunovFluxI(Pr.Take(0, ndarray.Span(0, mi-3)), Pl.Take(0, ndarray.Span(1, mi-2)))
		)
		return fluxArea(Fh, G.FaceAreasI)
	}()

	Fhj := func() ndarray.Array {
		var (
			Pa = P0.Select(ndarray.Span(2, mi-2), ndarray.Span(0, mj-2), ":")
			Pb = P0.Select(ndarray.Span(2, mi-2), ndarray.Span(1, mj-1), ":")
			Pc = P0.Select(ndarray.Span(2, mi-2), ndarray.Span(2, mj), ":")
			Gb = padWithZerosJ(gradientEst(Pa, Pb, Pc))
			Pl = extrapL(P0.Take(0, ndarray.Span(2, mi-2)), Gb)
			Pr = extrapR(P0.Take(0, ndarray.Span(2, mi-2)), Gb)
			Fh = padWithZerosJ(godunovFluxJ(Pr.Take(1, ndarray.Span(0, mj-1)), Pl.Take(1, ndarray.Span(1, mj))))
		)
		return fluxArea(Fh, G.FaceAreasJ)
	}()

	var (
		dFi = Fhi.Take(0, ndarray.Span(1, mi-3)).Sub(Fhi.Take(0, ndarray.Span(0, mi-4)))
		dFj = Fhj.Take(1, ndarray.Span(1, mj+1)).Sub(Fhj.Take(1, ndarray.Span(0, mj)))
		dF  = dFi.Add(dFj)
		S0  = evaluateSrc(P0.Take(0, ndarray.Span(2, mi-2)), G.Centroids)
		dU  = advanceCons(S0, dF, G.Volumes)
	)
	return U0.Take(0, ndarray.Span(2, mi-2)).Add(dU)
}

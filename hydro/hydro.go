package hydro

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Newtonian compressible hydrodynamics on 5-tuples, gamma-law gas.

type Vars = [5]float64     // primitive {rho, vr, vq, vp, p} or conserved {D, Sr, Sq, Sp, E}
type Unit = [3]float64     // axis-aligned face normal
type Position = [2]float64 // (r, theta)

// Indexes to primitive quantities P
const (
	Rho = iota
	Vr
	Vq
	Vp
	Pre
)

// Indexes to conserved quantities U
const (
	Den = iota
	Sr
	Sq
	Sp
	Nrg
)

const Gamma = 5. / 3

func checkValidCons(U Vars, caller string) Vars {
	if U[Den] < 0.0 {
		panic(fmt.Sprintf("%s: negative conserved density D = %v", caller, U[Den]))
	}
	if U[Nrg] < 0.0 {
		panic(fmt.Sprintf("%s: negative conserved energy E = %v", caller, U[Nrg]))
	}
	return U
}

func checkValidPrim(P Vars, caller string) Vars {
	if P[Rho] < 0.0 {
		panic(fmt.Sprintf("%s: negative density rho = %v", caller, P[Rho]))
	}
	if P[Pre] < 0.0 {
		panic(fmt.Sprintf("%s: negative pressure p = %v", caller, P[Pre]))
	}
	return P
}

func ConsToPrim(U Vars) (P Vars) {
	checkValidCons(U, "hydro.ConsToPrim")
	var (
		gm1 = Gamma - 1.0
		ss  = U[Sr]*U[Sr] + U[Sq]*U[Sq] + U[Sp]*U[Sp]
	)
	P[Rho] = U[Den]
	P[Pre] = (U[Nrg] - 0.5*ss/U[Den]) * gm1
	P[Vr] = U[Sr] / U[Den]
	P[Vq] = U[Sq] / U[Den]
	P[Vp] = U[Sp] / U[Den]
	return checkValidPrim(P, "hydro.ConsToPrim")
}

func PrimToCons(P Vars) (U Vars) {
	checkValidPrim(P, "hydro.PrimToCons")
	var (
		gm1 = Gamma - 1.0
		vv  = P[Vr]*P[Vr] + P[Vq]*P[Vq] + P[Vp]*P[Vp]
	)
	U[Den] = P[Rho]
	U[Sr] = P[Rho] * P[Vr]
	U[Sq] = P[Rho] * P[Vq]
	U[Sp] = P[Rho] * P[Vp]
	U[Nrg] = P[Rho]*0.5*vv + P[Pre]/gm1
	return
}

func PrimToFlux(P Vars, N Unit) (F Vars) {
	checkValidPrim(P, "hydro.PrimToFlux")
	var (
		vn = P[Vr]*N[0] + P[Vq]*N[1] + P[Vp]*N[2]
		U  = PrimToCons(P)
	)
	F[Den] = vn * U[Den]
	F[Sr] = vn*U[Sr] + P[Pre]*N[0]
	F[Sq] = vn*U[Sq] + P[Pre]*N[1]
	F[Sp] = vn*U[Sp] + P[Pre]*N[2]
	F[Nrg] = vn*U[Nrg] + P[Pre]*vn
	return
}

// PrimToEval returns the characteristic speeds along N. A negative
// pressure is treated as zero for the sound speed only.
func PrimToEval(P Vars, N Unit) (A Vars) {
	if P[Rho] < 0.0 {
		panic(fmt.Sprintf("%s: negative density rho = %v", "hydro.PrimToEval", P[Rho]))
	}
	var (
		dg = P[Rho]
		pg = math.Max(0.0, P[Pre])
		cs = math.Sqrt(Gamma * pg / dg)
		vn = P[Vr]*N[0] + P[Vq]*N[1] + P[Vp]*N[2]
	)
	A[0] = vn - cs
	A[1] = vn
	A[2] = vn
	A[3] = vn
	A[4] = vn + cs
	return
}

// RiemannHLLE returns an HLLE approximate Riemann solver for faces with
// normal nhat.
func RiemannHLLE(nhat Unit) func(Pl, Pr Vars) Vars {
	return func(Pl, Pr Vars) (F Vars) {
		checkValidPrim(Pl, "hydro.RiemannHLLE")
		checkValidPrim(Pr, "hydro.RiemannHLLE")
		var (
			Ul = PrimToCons(Pl)
			Ur = PrimToCons(Pr)
			Al = PrimToEval(Pl, nhat)
			Ar = PrimToEval(Pr, nhat)
			Fl = PrimToFlux(Pl, nhat)
			Fr = PrimToFlux(Pr, nhat)
			ap = math.Max(0.0, math.Max(floats.Max(Al[:]), floats.Max(Ar[:])))
			am = math.Min(0.0, math.Min(floats.Min(Al[:]), floats.Min(Ar[:])))
		)
		for q := 0; q < 5; q++ {
			F[q] = (ap*Fl[q] - am*Fr[q] - (Ul[q]-Ur[q])*ap*am) / (ap - am)
		}
		return
	}
}

func cot(x float64) float64 {
	return math.Tan(math.Pi/2 - x)
}

// NewSourceTerms returns the pointwise source-term evaluator for spherical
// geometry, GM = 1 point-mass gravity, thermal heating, and Bremsstrahlung
// cooling.
func NewSourceTerms(heatingRate, coolingRate float64) func(P Vars, X Position) Vars {
	return func(P Vars, X Position) (S Vars) {
		checkValidPrim(P, "hydro.SourceTerms")
		var (
			r  = X[0]
			q  = X[1]
			dg = P[Rho]
			vr = P[Vr]
			vq = P[Vq]
			vp = P[Vp]
			pg = P[Pre]
			Tg = pg / dg / (Gamma - 1)
		)

		// Spherical geometry
		S[Den] = 0.0
		S[Sr] = (2*pg + dg*(vq*vq+vp*vp)) / r
		S[Sq] = (pg*cot(q) + dg*(vp*vp*cot(q)-vr*vq)) / r
		S[Sp] = -dg * vp * (vr + vq*cot(q)) / r
		S[Nrg] = 0.0

		// Point mass gravity, GM = 1
		g := 1.0 / r / r
		S[Sr] -= dg * g
		S[Nrg] -= dg * g * vr

		// Thermal heating and Bremsstrahlung cooling
		S[Nrg] += heatingRate * math.Exp(-r*r)
		S[Nrg] -= coolingRate * math.Sqrt(Tg) * dg * dg

		return
	}
}

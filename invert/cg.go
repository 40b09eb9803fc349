package invert

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/jvlmdr/go-lens/geom"
)

// ConjGrad solves a x = b for symmetric positive-definite a by
// conjugate gradients, starting from x0 (nil for zero). It stops when
// the relative residual drops below tol and fails after maxIter
// iterations. Per-iteration residuals go to debug when non-nil.
//
// For meshes of a few thousand source pixels this avoids the cubic
// cost of the direct factorization; the two paths agree within the
// tolerance.
func ConjGrad(a mat.Symmetric, b, x0 []float64, tol float64, maxIter int, debug io.Writer) ([]float64, error) {
	n := a.SymmetricDim()
	if len(b) != n {
		panic(fmt.Sprintf("right-hand side length %d, matrix is %dx%d", len(b), n, n))
	}
	x := make([]float64, n)
	if x0 != nil {
		copy(x, x0)
	}

	mulVec := func(dst, v []float64) {
		var out mat.VecDense
		out.MulVec(a, mat.NewVecDense(n, v))
		copy(dst, out.RawVector().Data)
	}

	r := make([]float64, n)
	mulVec(r, x)
	floats.SubTo(r, b, r)
	p := make([]float64, n)
	copy(p, r)
	ap := make([]float64, n)

	bnorm := floats.Norm(b, 2)
	if bnorm == 0 {
		return x, nil
	}
	rr := floats.Dot(r, r)

	for it := 0; it < maxIter; it++ {
		res := floats.Norm(r, 2) / bnorm
		if debug != nil {
			fmt.Fprintf(debug, "cg: iter %d, residual %g\n", it, res)
		}
		if res <= tol {
			return x, nil
		}

		mulVec(ap, p)
		pap := floats.Dot(p, ap)
		if pap <= 0 {
			return nil, &NotPosDefError{Op: "conjugate gradient"}
		}
		alpha := rr / pap
		floats.AddScaled(x, alpha, p)
		floats.AddScaled(r, -alpha, ap)

		rrNext := floats.Dot(r, r)
		beta := rrNext / rr
		rr = rrNext
		for i := range p {
			p[i] = r[i] + beta*p[i]
		}
	}
	return nil, fmt.Errorf("conjugate gradient: no convergence to %g in %d iterations", tol, maxIter)
}

// SolveConjGrad solves (F + R) s = rhs iteratively without
// factorizing, the large-mesh alternative to NewSystem.Solve.
func SolveConjGrad(f, r mat.Symmetric, rhs, x0 []float64, tol float64, maxIter int, debug io.Writer) ([]float64, error) {
	n := f.SymmetricDim()
	if r.SymmetricDim() != n {
		return nil, geom.ShapeErrorf("normal equations are %dx%d, regularization is %dx%d",
			n, n, r.SymmetricDim(), r.SymmetricDim())
	}
	a := mat.NewSymDense(n, nil)
	a.AddSym(f, r)
	return ConjGrad(a, rhs, x0, tol, maxIter, debug)
}

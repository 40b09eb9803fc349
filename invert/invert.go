package invert

import (
	"log"

	"gonum.org/v1/gonum/mat"

	"github.com/jvlmdr/go-lens/geom"
)

// NotPosDefError reports a normal-equations matrix whose Cholesky
// factorization failed. The sampler driving the fit should treat the
// parameter point as having vanishing likelihood.
type NotPosDefError struct {
	// Op names the operation that required positive-definiteness.
	Op string
}

func (e *NotPosDefError) Error() string {
	return e.Op + ": matrix is not positive definite"
}

// NormalEquations forms F = M' diag(1/noise^2) M from the blurred
// mapping matrix. F is the noise-weighted covariance of the source
// pixels' blurred images. Returns a ShapeError if the noise map length
// does not match the matrix rows.
func NormalEquations(blurred *mat.Dense, noise []float64) (*mat.SymDense, error) {
	rows, cols := blurred.Dims()
	if len(noise) != rows {
		return nil, geom.ShapeErrorf("noise map length %d, mapping matrix has %d rows", len(noise), rows)
	}
	f := mat.NewSymDense(cols, nil)
	for i := 0; i < rows; i++ {
		w := 1 / (noise[i] * noise[i])
		for j := 0; j < cols; j++ {
			mij := blurred.At(i, j)
			if mij == 0 {
				continue
			}
			for k := j; k < cols; k++ {
				mik := blurred.At(i, k)
				if mik == 0 {
					continue
				}
				f.SetSym(j, k, f.At(j, k)+w*mij*mik)
			}
		}
	}
	return f, nil
}

// DataVector forms M' diag(1/noise^2) d, the right-hand side of the
// normal equations.
func DataVector(blurred *mat.Dense, data, noise []float64) ([]float64, error) {
	rows, cols := blurred.Dims()
	if len(data) != rows || len(noise) != rows {
		return nil, geom.ShapeErrorf("data length %d, noise length %d, mapping matrix has %d rows",
			len(data), len(noise), rows)
	}
	rhs := make([]float64, cols)
	for i := 0; i < rows; i++ {
		w := data[i] / (noise[i] * noise[i])
		if w == 0 {
			continue
		}
		for j := 0; j < cols; j++ {
			rhs[j] += w * blurred.At(i, j)
		}
	}
	return rhs, nil
}

// A System is one factorized F + R, shared by the solve and the
// evidence's log-determinant so both see exactly the same matrix.
type System struct {
	a    *mat.SymDense
	chol mat.Cholesky
}

// NewSystem adds the regularization to the normal equations and
// factorizes. Returns a NotPosDefError if F + R is not positive
// definite, and a ShapeError if the dimensions disagree.
func NewSystem(f, r mat.Symmetric) (*System, error) {
	n := f.SymmetricDim()
	if r.SymmetricDim() != n {
		return nil, geom.ShapeErrorf("normal equations are %dx%d, regularization is %dx%d",
			n, n, r.SymmetricDim(), r.SymmetricDim())
	}
	a := mat.NewSymDense(n, nil)
	a.AddSym(f, r)

	sys := &System{a: a}
	log.Printf("invert: factorize %dx%d system", n, n)
	if !sys.chol.Factorize(a) {
		return nil, &NotPosDefError{Op: "factorize F+R"}
	}
	return sys, nil
}

// Dim returns the source-pixel count of the system.
func (s *System) Dim() int { return s.a.SymmetricDim() }

// Matrix returns the F + R instance the system factorized. Callers
// must not modify it.
func (s *System) Matrix() *mat.SymDense { return s.a }

// Solve returns the reconstruction for the given right-hand side.
// Panics if rhs has the wrong length (programmer error; the system
// fixed its dimension at construction).
func (s *System) Solve(rhs []float64) []float64 {
	var x mat.VecDense
	if err := s.chol.SolveVecTo(&x, mat.NewVecDense(len(rhs), rhs)); err != nil {
		// Factorize succeeded, so the solve cannot fail.
		panic(err)
	}
	out := make([]float64, s.Dim())
	copy(out, x.RawVector().Data)
	return out
}

// LogDet returns log det(F + R) through the Cholesky factor.
func (s *System) LogDet() float64 {
	return s.chol.LogDet()
}

// LogDetCholesky returns 2 sum log diag(L) for the lower-Cholesky
// factor L of m. Numerically equivalent to log det(m) but stable for
// the large, near-singular matrices the evidence compares. Returns a
// NotPosDefError if m is not positive definite.
func LogDetCholesky(m mat.Symmetric) (float64, error) {
	var chol mat.Cholesky
	if !chol.Factorize(m) {
		return 0, &NotPosDefError{Op: "log determinant"}
	}
	return chol.LogDet(), nil
}

// ModelImage returns M s, the blurred model image of a reconstruction.
func ModelImage(blurred *mat.Dense, s []float64) ([]float64, error) {
	rows, cols := blurred.Dims()
	if len(s) != cols {
		return nil, geom.ShapeErrorf("reconstruction length %d, mapping matrix has %d cols", len(s), cols)
	}
	var out mat.VecDense
	out.MulVec(blurred, mat.NewVecDense(cols, s))
	model := make([]float64, rows)
	copy(model, out.RawVector().Data)
	return model, nil
}

// RegTerm returns s' R s, the smoothness penalty of a reconstruction.
func RegTerm(s []float64, r mat.Symmetric) float64 {
	n := r.SymmetricDim()
	var sum float64
	for j := 0; j < n; j++ {
		var row float64
		for k := 0; k < n; k++ {
			row += r.At(j, k) * s[k]
		}
		sum += s[j] * row
	}
	return sum
}

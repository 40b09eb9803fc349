package invert

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/jvlmdr/go-lens/geom"
)

// randSPD builds a well-conditioned symmetric positive-definite matrix
// A'A + I.
func randSPD(rng *rand.Rand, n int) *mat.SymDense {
	a := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a.Set(i, j, rng.NormFloat64())
		}
	}
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			var v float64
			for k := 0; k < n; k++ {
				v += a.At(k, i) * a.At(k, j)
			}
			if i == j {
				v++
			}
			s.SetSym(i, j, v)
		}
	}
	return s
}

func randMapping(rng *rand.Rand, rows, cols int) *mat.Dense {
	m := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		// Every source pixel covered in turn plus spill-over, like a
		// blurred mapping matrix.
		j := i % cols
		m.Set(i, j, 0.6+0.4*rng.Float64())
		m.Set(i, (j+1)%cols, 0.2*rng.Float64())
	}
	return m
}

func TestLogDetCholeskyMatchesDirect(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for _, n := range []int{2, 5, 20} {
		s := randSPD(rng, n)
		got, err := LogDetCholesky(s)
		require.NoError(t, err)

		want, sign := mat.LogDet(s)
		require.Equal(t, 1.0, sign)
		if math.Abs(got-want) > 1e-4*math.Abs(want) {
			t.Errorf("n=%d: cholesky log det %g, direct %g", n, got, want)
		}
	}
}

func TestLogDetCholeskyNotPosDef(t *testing.T) {
	// Eigenvalues 1 and -1.
	s := mat.NewSymDense(2, []float64{1, 0, 0, -1})
	var npd *NotPosDefError
	_, err := LogDetCholesky(s)
	require.True(t, errors.As(err, &npd), "got %v", err)
}

func TestNormalEquations(t *testing.T) {
	// M = [[1, 0], [1, 1]], noise = [1, 2].
	m := mat.NewDense(2, 2, []float64{1, 0, 1, 1})
	f, err := NormalEquations(m, []float64{1, 2})
	require.NoError(t, err)

	// F = M' diag(1, 1/4) M.
	require.InDelta(t, 1.25, f.At(0, 0), 1e-12)
	require.InDelta(t, 0.25, f.At(0, 1), 1e-12)
	require.InDelta(t, 0.25, f.At(1, 1), 1e-12)

	var shapeErr *geom.ShapeError
	_, err = NormalEquations(m, []float64{1})
	require.True(t, errors.As(err, &shapeErr), "got %v", err)
}

func TestDataVector(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{1, 0, 1, 1})
	rhs, err := DataVector(m, []float64{2, 4}, []float64{1, 2})
	require.NoError(t, err)
	// M' diag(1, 1/4) d = [2 + 1, 1].
	require.InDelta(t, 3, rhs[0], 1e-12)
	require.InDelta(t, 1, rhs[1], 1e-12)
}

// Noiseless synthetic data generated from a known reconstruction is
// recovered by the solve.
func TestSolveRoundTrip(t *testing.T) {
	const (
		rows = 40
		cols = 12
	)
	rng := rand.New(rand.NewSource(11))
	m := randMapping(rng, rows, cols)

	want := make([]float64, cols)
	for j := range want {
		want[j] = 1 + rng.Float64()
	}
	data, err := ModelImage(m, want)
	require.NoError(t, err)
	noise := make([]float64, rows)
	for i := range noise {
		noise[i] = 1
	}

	f, err := NormalEquations(m, noise)
	require.NoError(t, err)
	rhs, err := DataVector(m, data, noise)
	require.NoError(t, err)

	// Vanishing regularization: the solve must reproduce the inputs.
	r := mat.NewSymDense(cols, nil)
	for j := 0; j < cols; j++ {
		r.SetSym(j, j, 1e-12)
	}
	sys, err := NewSystem(f, r)
	require.NoError(t, err)
	got := sys.Solve(rhs)

	delta := make([]float64, cols)
	floats.SubTo(delta, want, got)
	res := floats.Norm(delta, 2) / floats.Norm(want, 2)
	require.Less(t, res, 1e-8, "reconstruction residual %g", res)

	model, err := ModelImage(m, got)
	require.NoError(t, err)
	if !floats.EqualApprox(data, model, 1e-8) {
		t.Errorf("model image does not reproduce data")
	}
}

func TestNewSystemNotPosDef(t *testing.T) {
	f := mat.NewSymDense(2, []float64{1, 0, 0, 1})
	r := mat.NewSymDense(2, []float64{-3, 0, 0, -3})
	var npd *NotPosDefError
	_, err := NewSystem(f, r)
	require.True(t, errors.As(err, &npd), "got %v", err)

	var shapeErr *geom.ShapeError
	_, err = NewSystem(f, mat.NewSymDense(3, nil))
	require.True(t, errors.As(err, &shapeErr), "got %v", err)
}

func TestSystemLogDetMatchesStandalone(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	f := randSPD(rng, 8)
	r := mat.NewSymDense(8, nil)
	for j := 0; j < 8; j++ {
		r.SetSym(j, j, 0.5)
	}
	sys, err := NewSystem(f, r)
	require.NoError(t, err)

	want, err := LogDetCholesky(sys.Matrix())
	require.NoError(t, err)
	require.InDelta(t, want, sys.LogDet(), 1e-10)
}

func TestRegTerm(t *testing.T) {
	r := mat.NewSymDense(2, []float64{2, -1, -1, 2})
	// s' R s for s = (1, 2): 2 - 2 - 2 + 8 = 6.
	require.InDelta(t, 6, RegTerm([]float64{1, 2}, r), 1e-12)
}

func TestConjGradMatchesDirect(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	f := randSPD(rng, 15)
	r := mat.NewSymDense(15, nil)
	for j := 0; j < 15; j++ {
		r.SetSym(j, j, 0.1)
	}
	rhs := make([]float64, 15)
	for i := range rhs {
		rhs[i] = rng.NormFloat64()
	}

	sys, err := NewSystem(f, r)
	require.NoError(t, err)
	direct := sys.Solve(rhs)

	iter, err := SolveConjGrad(f, r, rhs, nil, 1e-12, 1000, nil)
	require.NoError(t, err)
	if !floats.EqualApprox(direct, iter, 1e-6) {
		t.Errorf("cg solution differs from direct:\ndirect %v\ncg     %v", direct, iter)
	}
}

func TestConjGradNoConvergence(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	f := randSPD(rng, 10)
	rhs := make([]float64, 10)
	rhs[0] = 1
	_, err := ConjGrad(f, rhs, nil, 1e-15, 1, nil)
	require.Error(t, err)
}

package pixelize

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// The regularization matrix of the one-to-one 3x3 pixelization with
// unit coefficient: a rook-adjacency graph Laplacian.
func TestRegularizationConstantOnGrid(t *testing.T) {
	mp := oneToOneMapper(t)
	reg := Regularization(mp.Pixels(), mp.Neighbors, Constant(1.0))

	want := mat.NewSymDense(9, []float64{
		2, -1, 0, -1, 0, 0, 0, 0, 0,
		-1, 3, -1, 0, -1, 0, 0, 0, 0,
		0, -1, 2, 0, 0, -1, 0, 0, 0,
		-1, 0, 0, 3, -1, 0, -1, 0, 0,
		0, -1, 0, -1, 4, -1, 0, -1, 0,
		0, 0, -1, 0, -1, 3, 0, 0, -1,
		0, 0, 0, -1, 0, 0, 2, -1, 0,
		0, 0, 0, 0, -1, 0, -1, 3, -1,
		0, 0, 0, 0, 0, -1, 0, -1, 2,
	})
	// Up to the diagonal floor that keeps det(R) finite.
	for i := 0; i < 9; i++ {
		for j := 0; j < 9; j++ {
			w := want.At(i, j)
			if i == j {
				w += regularizationFloor
			}
			require.InDelta(t, w, reg.At(i, j), 1e-15, "entry (%d,%d)", i, j)
		}
	}
}

func TestRegularizationIsPositiveDefinite(t *testing.T) {
	mp := oneToOneMapper(t)
	reg := Regularization(mp.Pixels(), mp.Neighbors, Constant(1.0))
	var ch mat.Cholesky
	require.True(t, ch.Factorize(reg), "regularization matrix must be positive definite")
}

func TestRegularizationScalesWithCoefficient(t *testing.T) {
	mp := oneToOneMapper(t)
	one := Regularization(mp.Pixels(), mp.Neighbors, Constant(1.0))
	two := Regularization(mp.Pixels(), mp.Neighbors, Constant(2.0))

	// Off-diagonal entries scale with the squared coefficient.
	require.InDelta(t, 4*one.At(0, 1), two.At(0, 1), 1e-15)
}

func TestRegularizationPixelWeights(t *testing.T) {
	// Two cells, one pair. Mean squared coefficient of (1, 3) is 5.
	neighbors := [][]int{{1}, {0}}
	reg := Regularization(2, neighbors, PixelWeights{1, 3})

	require.InDelta(t, 5+regularizationFloor, reg.At(0, 0), 1e-15)
	require.InDelta(t, 5+regularizationFloor, reg.At(1, 1), 1e-15)
	require.InDelta(t, -5, reg.At(0, 1), 1e-15)
}

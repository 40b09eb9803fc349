package pixelize

import "gonum.org/v1/gonum/mat"

// regularizationFloor keeps the regularization matrix strictly
// positive-definite so its log-determinant is finite. The graph
// Laplacian alone is singular: the constant source is unpenalized.
const regularizationFloor = 1e-8

// A WeightStrategy supplies the regularization coefficient of each
// source pixel. Schemes that adapt smoothness to reconstructed
// brightness implement this with per-pixel values.
type WeightStrategy interface {
	Coefficient(j int) float64
}

// Constant applies one coefficient to every source pixel.
type Constant float64

func (c Constant) Coefficient(int) float64 { return float64(c) }

// PixelWeights is an adaptive strategy with an explicit coefficient
// per source pixel.
type PixelWeights []float64

func (w PixelWeights) Coefficient(j int) float64 { return w[j] }

// Regularization builds the smoothness penalty matrix over n source
// pixels from the neighbor graph: a weighted graph Laplacian where
// each neighboring pair (j, k) is penalized by the mean of the two
// pixels' squared coefficients, plus a small diagonal floor.
func Regularization(n int, neighbors [][]int, w WeightStrategy) *mat.SymDense {
	reg := mat.NewSymDense(n, nil)
	for j := 0; j < n; j++ {
		reg.SetSym(j, j, regularizationFloor)
	}
	for j, adj := range neighbors {
		cj := w.Coefficient(j)
		for _, k := range adj {
			if k <= j {
				continue // each undirected pair once
			}
			ck := w.Coefficient(k)
			c2 := (cj*cj + ck*ck) / 2
			reg.SetSym(j, j, reg.At(j, j)+c2)
			reg.SetSym(k, k, reg.At(k, k)+c2)
			reg.SetSym(j, k, reg.At(j, k)-c2)
		}
	}
	return reg
}

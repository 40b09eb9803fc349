package frame

import (
	"fmt"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/jvlmdr/go-lens/geom"
)

func errRaggedKernel(row, got, want int) error {
	return geom.ShapeErrorf("kernel row %d has %d cols, row 0 has %d", row, got, want)
}

// Convolve blurs a 1D image vector together with its blurring-region
// vector, returning an image-length vector. blurring may be nil when
// the blurring region is empty or carries no flux. Panics if either
// vector has the wrong length.
func (c *Convolver) Convolve(image, blurring []float64) []float64 {
	if len(image) != c.pixels {
		panic(fmt.Sprintf("image vector length %d, convolver built for %d", len(image), c.pixels))
	}
	if blurring != nil && len(blurring) != c.blurringPixels {
		panic(fmt.Sprintf("blurring vector length %d, convolver built for %d", len(blurring), c.blurringPixels))
	}
	out := make([]float64, c.pixels)
	scatter(out, image, c.frames)
	if blurring != nil {
		scatter(out, blurring, c.blurringFrames)
	}
	return out
}

// scatter accumulates src[i] * w into out[target] for every tap of
// every frame. This is the hot loop; it allocates nothing.
func scatter(out, src []float64, frames []tapFrame) {
	for i, v := range src {
		if v == 0 {
			continue
		}
		f := &frames[i]
		for k, target := range f.idx {
			out[target] += v * f.w[k]
		}
	}
}

// ConvolveMapping blurs every column of a mapping matrix through the
// image frames, producing the blurred mapping matrix. Column j of the
// result equals Convolve applied to column j with no blurring-region
// flux.
func (c *Convolver) ConvolveMapping(m *mat.Dense) (*mat.Dense, error) {
	rows, cols := m.Dims()
	if rows != c.pixels {
		return nil, geom.ShapeErrorf("mapping matrix has %d rows, convolver built for %d pixels", rows, c.pixels)
	}
	out := mat.NewDense(rows, cols, nil)
	for j := 0; j < cols; j++ {
		c.convolveColumn(out, m, j)
	}
	return out, nil
}

// ConvolveMappingParallel is ConvolveMapping with the column loop
// fanned out over at most workers goroutines. Columns are independent,
// so the result is identical to the serial path.
func (c *Convolver) ConvolveMappingParallel(m *mat.Dense, workers int) (*mat.Dense, error) {
	rows, cols := m.Dims()
	if rows != c.pixels {
		return nil, geom.ShapeErrorf("mapping matrix has %d rows, convolver built for %d pixels", rows, c.pixels)
	}
	if workers < 1 {
		workers = 1
	}
	out := mat.NewDense(rows, cols, nil)
	var g errgroup.Group
	g.SetLimit(workers)
	for j := 0; j < cols; j++ {
		j := j
		g.Go(func() error {
			c.convolveColumn(out, m, j)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// convolveColumn scatters column j of m into column j of out. Distinct
// columns touch disjoint elements of out.
func (c *Convolver) convolveColumn(out, m *mat.Dense, j int) {
	for i := 0; i < c.pixels; i++ {
		v := m.At(i, j)
		if v == 0 {
			continue
		}
		f := &c.frames[i]
		for k, target := range f.idx {
			out.Set(target, j, out.At(target, j)+v*f.w[k])
		}
	}
}

package fit

import (
	"math"

	"github.com/jvlmdr/go-lens/frame"
	"github.com/jvlmdr/go-lens/geom"
	"github.com/jvlmdr/go-lens/trace"
)

// ChiSquared sums the squared noise-weighted residuals of a model
// image. Panics on mismatched lengths (programmer error; callers
// validate shapes at the fit boundary).
func ChiSquared(data, noise, model []float64) float64 {
	if len(noise) != len(data) || len(model) != len(data) {
		panic("fit: data, noise and model lengths differ")
	}
	var sum float64
	for i := range data {
		r := (data[i] - model[i]) / noise[i]
		sum += r * r
	}
	return sum
}

// NoiseNormalization sums log(2 pi sigma^2) over the noise map. It
// depends only on the data, but keeping it in the likelihood lets
// fits with different noise scalings be compared.
func NoiseNormalization(noise []float64) float64 {
	var sum float64
	for _, s := range noise {
		sum += math.Log(2 * math.Pi * s * s)
	}
	return sum
}

// Likelihood scores a model image: -0.5 (chi^2 + noise normalization).
func Likelihood(data, noise, model []float64) float64 {
	return -0.5 * (ChiSquared(data, noise, model) + NoiseNormalization(noise))
}

// Profiles fits the data with the tracer's light profiles alone: the
// model image is the summed galaxy light, blurred through the PSF
// together with the blurring-region light, and scored by Likelihood.
func Profiles(data, noise []float64, conv *frame.Convolver, tr *trace.Tracer) (float64, error) {
	if err := checkVectors(data, noise, conv); err != nil {
		return 0, err
	}
	if err := checkTracer(tr, conv); err != nil {
		return 0, err
	}
	model := conv.Convolve(tr.ImageLight(), tr.BlurringLight())
	return Likelihood(data, noise, model), nil
}

func checkTracer(tr *trace.Tracer, conv *frame.Convolver) error {
	if n := len(tr.ImagePlane.Grids.Image); n != conv.Pixels() {
		return geom.ShapeErrorf("tracer grids have %d pixels, convolver built for %d", n, conv.Pixels())
	}
	if n := len(tr.ImagePlane.Grids.Blurring); n != conv.BlurringPixels() {
		return geom.ShapeErrorf("tracer blurring grid has %d pixels, convolver built for %d", n, conv.BlurringPixels())
	}
	return nil
}

func checkVectors(data, noise []float64, conv *frame.Convolver) error {
	if len(data) != conv.Pixels() {
		return geom.ShapeErrorf("data vector length %d, convolver built for %d pixels", len(data), conv.Pixels())
	}
	if len(noise) != conv.Pixels() {
		return geom.ShapeErrorf("noise map length %d, convolver built for %d pixels", len(noise), conv.Pixels())
	}
	return nil
}

package trace

import (
	"github.com/jvlmdr/go-lens/geom"
	"github.com/jvlmdr/go-lens/profile"
)

// imageLight evaluates a plane's galaxy light on its sub-grid and
// averages to pixel resolution.
func (p Plane) imageLight(pixels int) []float64 {
	ls := lightProfiles(p.Galaxies)
	sub := profile.SumIntensity(ls, p.Grids.Sub)
	out, err := geom.AverageSubToImage(sub, p.Grids.SubMap, p.Grids.SubSize, pixels)
	if err != nil {
		// The grids and sub-map come from one mask, so the shapes
		// cannot disagree.
		panic(err)
	}
	return out
}

// ImageLight returns the pixel-resolution model image of every
// galaxy's light, each plane evaluated on its own (traced) grids and
// summed.
func (t *Tracer) ImageLight() []float64 {
	pixels := len(t.ImagePlane.Grids.Image)
	out := t.ImagePlane.imageLight(pixels)
	src := t.SourcePlane.imageLight(pixels)
	for i := range out {
		out[i] += src[i]
	}
	return out
}

// BlurringLight returns the light falling on the blurring-region
// pixels, which carries no data but scatters flux into the mask under
// the PSF.
func (t *Tracer) BlurringLight() []float64 {
	n := len(t.ImagePlane.Grids.Blurring)
	out := make([]float64, n)
	for _, p := range []Plane{t.ImagePlane, t.SourcePlane} {
		v := profile.SumIntensity(lightProfiles(p.Galaxies), p.Grids.Blurring)
		for i := range out {
			out[i] += v[i]
		}
	}
	return out
}

// ImageLight for a multi-plane system sums every plane's light on its
// traced grids.
func (mt *MultiTracer) ImageLight() []float64 {
	pixels := len(mt.Planes[0].Grids.Image)
	out := make([]float64, pixels)
	for _, p := range mt.Planes {
		v := p.imageLight(pixels)
		for i := range out {
			out[i] += v[i]
		}
	}
	return out
}

// BlurringLight for a multi-plane system.
func (mt *MultiTracer) BlurringLight() []float64 {
	n := len(mt.Planes[0].Grids.Blurring)
	out := make([]float64, n)
	for _, p := range mt.Planes {
		v := profile.SumIntensity(lightProfiles(p.Galaxies), p.Grids.Blurring)
		for i := range out {
			out[i] += v[i]
		}
	}
	return out
}

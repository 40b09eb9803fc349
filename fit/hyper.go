package fit

import (
	"math"

	"github.com/jvlmdr/go-lens/frame"
	"github.com/jvlmdr/go-lens/geom"
	"github.com/jvlmdr/go-lens/trace"
)

// A HyperGalaxy scales the noise map in the pixels a galaxy
// dominates, using the model images of a previous fit. Galaxies whose
// light the model cannot reproduce exactly would otherwise force the
// sampler towards over-structured lens models; boosting their noise
// instead discounts those residuals.
type HyperGalaxy struct {
	// ContributionFactor softens the contribution ratio in faint
	// pixels.
	ContributionFactor float64
	// NoiseFactor and NoisePower shape the per-pixel noise boost.
	NoiseFactor float64
	NoisePower  float64
}

// Contributions estimates the fraction of each pixel's flux belonging
// to this galaxy from the previous fit's total model image and this
// galaxy's own model image. The result is normalized to peak at 1;
// fractions below minimum are zeroed.
func (h HyperGalaxy) Contributions(modelImage, galaxyImage []float64, minimum float64) ([]float64, error) {
	if len(galaxyImage) != len(modelImage) {
		return nil, geom.ShapeErrorf("galaxy image length %d, model image length %d",
			len(galaxyImage), len(modelImage))
	}
	out := make([]float64, len(modelImage))
	var peak float64
	for i := range out {
		out[i] = galaxyImage[i] / (modelImage[i] + h.ContributionFactor)
		if out[i] > peak {
			peak = out[i]
		}
	}
	if peak <= 0 {
		return nil, geom.ShapeErrorf("galaxy contributes no flux")
	}
	for i := range out {
		out[i] /= peak
		if out[i] < minimum {
			out[i] = 0
		}
	}
	return out, nil
}

// scaledNoise returns this galaxy's additive noise boost,
// NoiseFactor * (noise * contribution)^NoisePower per pixel.
func (h HyperGalaxy) scaledNoise(noise, contributions []float64) []float64 {
	out := make([]float64, len(noise))
	for i := range out {
		out[i] = h.NoiseFactor * math.Pow(noise[i]*contributions[i], h.NoisePower)
	}
	return out
}

// ScaledNoise adds every hyper galaxy's noise boost to the base noise
// map.
func ScaledNoise(noise []float64, galaxies []HyperGalaxy, contributions [][]float64) ([]float64, error) {
	if len(contributions) != len(galaxies) {
		return nil, geom.ShapeErrorf("%d contribution maps for %d hyper galaxies",
			len(contributions), len(galaxies))
	}
	out := make([]float64, len(noise))
	copy(out, noise)
	for g, h := range galaxies {
		if len(contributions[g]) != len(noise) {
			return nil, geom.ShapeErrorf("contribution map %d has length %d, noise map %d",
				g, len(contributions[g]), len(noise))
		}
		boost := h.scaledNoise(noise, contributions[g])
		for i := range out {
			out[i] += boost[i]
		}
	}
	return out, nil
}

// ProfilesHyper is Profiles with hyper-galaxy noise scaling: the
// galaxies' contribution maps are derived from a previous fit's model
// images, the noise map is boosted accordingly, and the likelihood is
// evaluated against the scaled noise.
func ProfilesHyper(data, noise []float64, conv *frame.Convolver, tr *trace.Tracer,
	modelImage []float64, galaxyImages [][]float64, minima []float64, galaxies []HyperGalaxy) (float64, error) {

	if len(galaxyImages) != len(galaxies) || len(minima) != len(galaxies) {
		return 0, geom.ShapeErrorf("%d galaxy images and %d minima for %d hyper galaxies",
			len(galaxyImages), len(minima), len(galaxies))
	}
	contributions := make([][]float64, len(galaxies))
	for g, h := range galaxies {
		c, err := h.Contributions(modelImage, galaxyImages[g], minima[g])
		if err != nil {
			return 0, err
		}
		contributions[g] = c
	}
	scaled, err := ScaledNoise(noise, galaxies, contributions)
	if err != nil {
		return 0, err
	}
	return Profiles(data, scaled, conv, tr)
}

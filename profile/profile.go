/*
Package profile defines the analytic light and mass profiles evaluated
by the ray tracer. Profiles are pure value types: a profile plus a
coordinate fully determines a deflection angle or surface brightness.

The set of profiles is closed. A new profile type is added as a new
variant implementing MassProfile or LightProfile; the rest of the
library dispatches only through those two interfaces.
*/
package profile

import "github.com/jvlmdr/go-lens/geom"

// A MassProfile deflects light rays: it maps an image-plane position
// to the deflection angle (in arcseconds) it induces there.
type MassProfile interface {
	DeflectionsAt(p geom.Coord) geom.Coord
}

// A LightProfile emits light: it maps a position to surface
// brightness.
type LightProfile interface {
	IntensityAt(p geom.Coord) float64
}

// Deflections evaluates a mass profile over a whole grid.
func Deflections(m MassProfile, grid geom.Grid) geom.Grid {
	out := make(geom.Grid, len(grid))
	for i, p := range grid {
		out[i] = m.DeflectionsAt(p)
	}
	return out
}

// SumDeflections accumulates the deflection fields of several mass
// profiles over a grid. An empty profile list gives a zero field.
func SumDeflections(ms []MassProfile, grid geom.Grid) geom.Grid {
	out := make(geom.Grid, len(grid))
	for _, m := range ms {
		for i, p := range grid {
			out[i] = out[i].Add(m.DeflectionsAt(p))
		}
	}
	return out
}

// Intensity evaluates a light profile over a whole grid.
func Intensity(l LightProfile, grid geom.Grid) []float64 {
	out := make([]float64, len(grid))
	for i, p := range grid {
		out[i] = l.IntensityAt(p)
	}
	return out
}

// SumIntensity accumulates the surface brightness of several light
// profiles over a grid.
func SumIntensity(ls []LightProfile, grid geom.Grid) []float64 {
	out := make([]float64, len(grid))
	for _, l := range ls {
		for i, p := range grid {
			out[i] += l.IntensityAt(p)
		}
	}
	return out
}

package profile

import (
	"math"

	"github.com/jvlmdr/go-lens/geom"
)

// EllipticalSersic is the Sersic surface-brightness law
// I(r) = Intensity * exp(-k ((r/Re)^(1/n) - 1)) on elliptical radii.
// AxisRatio in (0, 1]; Phi in degrees counter-clockwise from x.
type EllipticalSersic struct {
	Centre          geom.Coord
	Intensity       float64
	EffectiveRadius float64
	SersicIndex     float64
	AxisRatio       float64
	Phi             float64
}

// sersicConstant is the k for which EffectiveRadius encloses half the
// total light (series approximation in the index).
func sersicConstant(n float64) float64 {
	return 2*n - 1.0/3 + 4/(405*n) + 46/(25515*n*n) + 131/(1148175*n*n*n)
}

// ellipticalRadius maps p to the circularized radius of the ellipse
// through it.
func (l EllipticalSersic) ellipticalRadius(p geom.Coord) float64 {
	sin, cos := math.Sincos(l.Phi * math.Pi / 180)
	d := p.Sub(l.Centre)
	x := d.X*cos + d.Y*sin
	y := -d.X*sin + d.Y*cos
	q := l.AxisRatio
	if q <= 0 || q > 1 {
		q = 1
	}
	return math.Sqrt(x*x + (y/q)*(y/q))
}

func (l EllipticalSersic) IntensityAt(p geom.Coord) float64 {
	r := l.ellipticalRadius(p)
	k := sersicConstant(l.SersicIndex)
	return l.Intensity * math.Exp(-k*(math.Pow(r/l.EffectiveRadius, 1/l.SersicIndex)-1))
}

// SphericalExponential is the circular Sersic n=1 profile, the common
// disk-light model.
type SphericalExponential struct {
	Centre          geom.Coord
	Intensity       float64
	EffectiveRadius float64
}

func (l SphericalExponential) IntensityAt(p geom.Coord) float64 {
	s := EllipticalSersic{
		Centre:          l.Centre,
		Intensity:       l.Intensity,
		EffectiveRadius: l.EffectiveRadius,
		SersicIndex:     1,
		AxisRatio:       1,
	}
	return s.IntensityAt(p)
}

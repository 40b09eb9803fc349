package profile

import (
	"math"

	"github.com/jvlmdr/go-lens/geom"
)

// PointMass deflects by EinsteinRadius^2 / r towards its centre.
type PointMass struct {
	Centre         geom.Coord
	EinsteinRadius float64
}

func (m PointMass) DeflectionsAt(p geom.Coord) geom.Coord {
	d := p.Sub(m.Centre)
	r2 := d.X*d.X + d.Y*d.Y
	if r2 == 0 {
		return geom.Coord{}
	}
	k := m.EinsteinRadius * m.EinsteinRadius / r2
	return d.Scale(k)
}

// SphericalIsothermal is the singular isothermal sphere: deflection of
// constant magnitude EinsteinRadius, directed radially.
type SphericalIsothermal struct {
	Centre         geom.Coord
	EinsteinRadius float64
}

func (m SphericalIsothermal) DeflectionsAt(p geom.Coord) geom.Coord {
	d := p.Sub(m.Centre)
	r := math.Hypot(d.X, d.Y)
	if r == 0 {
		return geom.Coord{}
	}
	return d.Scale(m.EinsteinRadius / r)
}

// EllipticalIsothermal is the singular isothermal ellipsoid. AxisRatio
// is the minor/major ratio in (0, 1]; Phi is the position angle of the
// major axis in degrees, counter-clockwise from the x axis. AxisRatio
// of 1 reduces to SphericalIsothermal.
type EllipticalIsothermal struct {
	Centre         geom.Coord
	EinsteinRadius float64
	AxisRatio      float64
	Phi            float64
}

func (m EllipticalIsothermal) DeflectionsAt(p geom.Coord) geom.Coord {
	q := m.AxisRatio
	if q >= 1 {
		sis := SphericalIsothermal{Centre: m.Centre, EinsteinRadius: m.EinsteinRadius}
		return sis.DeflectionsAt(p)
	}

	// Work in the frame aligned with the ellipse.
	sin, cos := math.Sincos(m.Phi * math.Pi / 180)
	d := p.Sub(m.Centre)
	x := d.X*cos + d.Y*sin
	y := -d.X*sin + d.Y*cos

	psi := math.Sqrt(q*q*x*x + y*y)
	if psi == 0 {
		return geom.Coord{}
	}
	f := math.Sqrt(1 - q*q)
	norm := m.EinsteinRadius * math.Sqrt(q) / f
	ax := norm * math.Atan(f*x/psi)
	ay := norm * math.Atanh(f*y/psi)

	// Rotate back to the sky frame.
	return geom.Coord{
		X: ax*cos - ay*sin,
		Y: ax*sin + ay*cos,
	}
}

/*
Package trace applies the lens equation to image-plane grids. A tracer
is a pure function of (galaxies, grids): it holds the image-plane grids
and the source-plane grids obtained by subtracting the summed
deflection field of the lensing galaxies, and evaluates galaxy light on
whichever plane each galaxy lives in. Nothing is mutated after
construction; a tracer is rebuilt for every model-parameter instance.
*/
package trace

import (
	"github.com/jvlmdr/go-lens/geom"
	"github.com/jvlmdr/go-lens/profile"
)

// A Galaxy is a collection of mass and light profiles sharing one
// position on the sky (and, in the multi-plane case, one redshift
// plane).
type Galaxy struct {
	Mass  []profile.MassProfile
	Light []profile.LightProfile
}

// massProfiles flattens the mass profiles of several galaxies.
func massProfiles(gs []Galaxy) []profile.MassProfile {
	var ms []profile.MassProfile
	for _, g := range gs {
		ms = append(ms, g.Mass...)
	}
	return ms
}

func lightProfiles(gs []Galaxy) []profile.LightProfile {
	var ls []profile.LightProfile
	for _, g := range gs {
		ls = append(ls, g.Light...)
	}
	return ls
}

// PlaneGrids bundles the three grids a plane is evaluated on: the
// pixel grid, the sub-pixel grid and the blurring-region grid. Sub
// carries the sub-to-pixel index map of the image-plane sub-grid it
// descends from.
type PlaneGrids struct {
	Image    geom.Grid
	Sub      geom.Grid
	SubMap   []int
	SubSize  int
	Blurring geom.Grid
}

// FromMask assembles image-plane grids from a mask, a sub-grid size
// and a kernel shape for the blurring region.
func FromMask(m *geom.Mask, subSize, kh, kw int) (PlaneGrids, error) {
	sub, err := m.SubGrid(subSize)
	if err != nil {
		return PlaneGrids{}, err
	}
	blur, err := m.BlurringGrid(kh, kw)
	if err != nil {
		return PlaneGrids{}, err
	}
	return PlaneGrids{
		Image:    m.Grid(),
		Sub:      sub.Coords,
		SubMap:   sub.SubToImage,
		SubSize:  sub.SubSize,
		Blurring: blur,
	}, nil
}

// deflect returns the grids mapped through the given deflection
// fields: coordinate minus deflection, per grid.
func (g PlaneGrids) deflect(image, sub, blurring geom.Grid) PlaneGrids {
	out := PlaneGrids{
		Image:    make(geom.Grid, len(g.Image)),
		Sub:      make(geom.Grid, len(g.Sub)),
		SubMap:   g.SubMap,
		SubSize:  g.SubSize,
		Blurring: make(geom.Grid, len(g.Blurring)),
	}
	for i, p := range g.Image {
		out.Image[i] = p.Sub(image[i])
	}
	for i, p := range g.Sub {
		out.Sub[i] = p.Sub(sub[i])
	}
	for i, p := range g.Blurring {
		out.Blurring[i] = p.Sub(blurring[i])
	}
	return out
}

// A Plane is one redshift slice: its galaxies and the grids traced to
// it.
type Plane struct {
	Galaxies []Galaxy
	Grids    PlaneGrids
}

// deflections evaluates the summed deflection field of the plane's
// galaxies on each of its grids.
func (p Plane) deflections() (image, sub, blurring geom.Grid) {
	ms := massProfiles(p.Galaxies)
	return profile.SumDeflections(ms, p.Grids.Image),
		profile.SumDeflections(ms, p.Grids.Sub),
		profile.SumDeflections(ms, p.Grids.Blurring)
}

// A Tracer is the two-plane lens system: foreground lens galaxies on
// the image plane, background source galaxies on the source plane.
type Tracer struct {
	ImagePlane  Plane
	SourcePlane Plane
}

// NewTracer traces the image-plane grids through the lens galaxies'
// deflection field to build the source plane.
func NewTracer(lens, source []Galaxy, grids PlaneGrids) *Tracer {
	imagePlane := Plane{Galaxies: lens, Grids: grids}
	di, ds, db := imagePlane.deflections()
	return &Tracer{
		ImagePlane:  imagePlane,
		SourcePlane: Plane{Galaxies: source, Grids: grids.deflect(di, ds, db)},
	}
}

// A MultiTracer chains the lens equation through redshift-ordered
// planes. Scaling[k][i] is the cosmological factor applied to plane
// i's deflection when tracing to plane k (i < k); cosmology itself is
// the caller's concern.
type MultiTracer struct {
	Planes []Plane
}

// NewMultiTracer traces grids through len(galaxies) planes. galaxies
// is ordered by increasing redshift; plane 0 receives the input grids
// unchanged. scaling must be lower-triangular with scaling[k] of
// length k; panics otherwise (programmer error, the shapes are fixed
// by the plane count).
func NewMultiTracer(galaxies [][]Galaxy, scaling [][]float64, grids PlaneGrids) *MultiTracer {
	n := len(galaxies)
	if len(scaling) != n {
		panic("trace: scaling must have one row per plane")
	}
	mt := &MultiTracer{Planes: make([]Plane, n)}

	// Accumulated deflections of each earlier plane, per grid.
	defImage := make([]geom.Grid, 0, n)
	defSub := make([]geom.Grid, 0, n)
	defBlur := make([]geom.Grid, 0, n)

	for k := 0; k < n; k++ {
		if len(scaling[k]) != k {
			panic("trace: scaling row length must equal plane index")
		}
		g := grids
		if k > 0 {
			di := scaledSum(grids.Image, defImage, scaling[k])
			ds := scaledSum(grids.Sub, defSub, scaling[k])
			db := scaledSum(grids.Blurring, defBlur, scaling[k])
			g = grids.deflect(di, ds, db)
		}
		mt.Planes[k] = Plane{Galaxies: galaxies[k], Grids: g}
		di, ds, db := mt.Planes[k].deflections()
		defImage = append(defImage, di)
		defSub = append(defSub, ds)
		defBlur = append(defBlur, db)
	}
	return mt
}

// scaledSum combines earlier planes' deflection fields with their
// scaling factors into a single field over a grid like ref.
func scaledSum(ref geom.Grid, fields []geom.Grid, scale []float64) geom.Grid {
	out := make(geom.Grid, len(ref))
	for i, f := range fields {
		s := scale[i]
		for j, a := range f {
			out[j] = out[j].Add(a.Scale(s))
		}
	}
	return out
}

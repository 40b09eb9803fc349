package pixelize

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/jvlmdr/go-lens/geom"
)

// A Mapper is one realized pixelization: the cell centers in the
// source plane, the cell assignment of every image sub-pixel, the
// mapping matrix and the neighbor graph.
type Mapper struct {
	// Matrix has shape (image pixels, source pixels); entry (i, j) is
	// the fraction of image pixel i's flux attributed to source pixel
	// j. Entries are non-negative and each row sums to 1.
	Matrix *mat.Dense
	// Centers are the source-plane cell centers, one per source pixel.
	Centers geom.Grid
	// CellOf assigns every image sub-pixel to its source pixel.
	CellOf []int
	// Neighbors[j] lists the source pixels geometrically adjacent to
	// j, sorted ascending.
	Neighbors [][]int
}

// Pixels returns the number of source pixels.
func (mp *Mapper) Pixels() int { return len(mp.Centers) }

// NewMapper assigns every traced sub-pixel to its nearest center and
// accumulates the mapping matrix. traced holds the source-plane
// coordinates of the mask's sub-grid, index-aligned with sub.Coords.
//
// Nearest-center assignment is total, so every sub-pixel contributes;
// the ill-posed cases are coincident centers and centers whose cell
// captures no sub-pixel, both reported as SingularError.
func NewMapper(m *geom.Mask, sub *geom.SubGrid, traced geom.Grid, centers geom.Grid) (*Mapper, error) {
	if len(traced) != len(sub.Coords) {
		return nil, geom.ShapeErrorf("traced grid length %d, sub-grid has %d sub-pixels", len(traced), len(sub.Coords))
	}
	if len(centers) == 0 {
		return nil, singularErrorf("no source pixels")
	}
	if j, k, ok := coincident(centers); ok {
		return nil, singularErrorf("cell centers %d and %d coincide at (%g, %g)", j, k, centers[j].X, centers[j].Y)
	}

	nImage := m.Unmasked()
	nSource := len(centers)
	mp := &Mapper{
		Matrix:  mat.NewDense(nImage, nSource, nil),
		Centers: centers,
		CellOf:  make([]int, len(traced)),
	}

	frac := sub.Fraction()
	counts := make([]int, nSource)
	for i, p := range traced {
		j := nearest(centers, p)
		mp.CellOf[i] = j
		counts[j]++
		parent := sub.SubToImage[i]
		mp.Matrix.Set(parent, j, mp.Matrix.At(parent, j)+frac)
	}
	for j, c := range counts {
		if c == 0 {
			return nil, singularErrorf("source pixel %d at (%g, %g) receives no flux", j, centers[j].X, centers[j].Y)
		}
	}

	mp.Neighbors = neighborGraph(m, sub.SubSize, nSource, mp.CellOf)
	return mp, nil
}

// nearest returns the index of the center closest to p, first match
// winning ties so the assignment is deterministic.
func nearest(centers geom.Grid, p geom.Coord) int {
	best, bestD := 0, distSq(centers[0], p)
	for j := 1; j < len(centers); j++ {
		if d := distSq(centers[j], p); d < bestD {
			best, bestD = j, d
		}
	}
	return best
}

func distSq(a, b geom.Coord) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

func coincident(centers geom.Grid) (int, int, bool) {
	for j := range centers {
		for k := j + 1; k < len(centers); k++ {
			if centers[j] == centers[k] {
				return j, k, true
			}
		}
	}
	return 0, 0, false
}

// neighborGraph derives geometric adjacency between source pixels from
// the image plane: two cells are neighbors when two edge-adjacent
// sub-pixels land in them. Under the continuous lens mapping this
// samples the shared cell boundaries without any explicit Voronoi
// construction.
func neighborGraph(m *geom.Mask, subSize, nSource int, cellOf []int) [][]int {
	rows, cols := m.Rows()*subSize, m.Cols()*subSize

	// Cell of each sub-pixel laid out at sub resolution, -1 where
	// masked. Parent iteration order matches the sub-grid's.
	cell := make([][]int, rows)
	for r := range cell {
		cell[r] = make([]int, cols)
		for c := range cell[r] {
			cell[r][c] = -1
		}
	}
	i := 0
	for r := 0; r < m.Rows(); r++ {
		for c := 0; c < m.Cols(); c++ {
			if m.Masked(r, c) {
				continue
			}
			for sr := 0; sr < subSize; sr++ {
				for sc := 0; sc < subSize; sc++ {
					cell[r*subSize+sr][c*subSize+sc] = cellOf[i]
					i++
				}
			}
		}
	}

	adj := make([]map[int]bool, nSource)
	link := func(a, b int) {
		if a < 0 || b < 0 || a == b {
			return
		}
		if adj[a] == nil {
			adj[a] = make(map[int]bool)
		}
		if adj[b] == nil {
			adj[b] = make(map[int]bool)
		}
		adj[a][b] = true
		adj[b][a] = true
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if c+1 < cols {
				link(cell[r][c], cell[r][c+1])
			}
			if r+1 < rows {
				link(cell[r][c], cell[r+1][c])
			}
		}
	}

	neighbors := make([][]int, nSource)
	for j, set := range adj {
		for k := range set {
			neighbors[j] = append(neighbors[j], k)
		}
		sort.Ints(neighbors[j])
	}
	return neighbors
}

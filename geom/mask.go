package geom

// A Coord is a position on the sky in arcseconds, relative to the mask
// centre. X increases to the right, Y increases upwards.
type Coord struct {
	X, Y float64
}

// Sub returns c - d.
func (c Coord) Sub(d Coord) Coord {
	return Coord{c.X - d.X, c.Y - d.Y}
}

// Add returns c + d.
func (c Coord) Add(d Coord) Coord {
	return Coord{c.X + d.X, c.Y + d.Y}
}

// Scale returns c scaled by k.
func (c Coord) Scale(k float64) Coord {
	return Coord{k * c.X, k * c.Y}
}

// A Grid is an ordered list of sky coordinates, one per pixel,
// index-aligned with the 1D data vector of the structure it was built
// from.
type Grid []Coord

// A Mask marks the pixels of a rectangular image that are excluded
// from a fit (true = excluded). Immutable once constructed.
type Mask struct {
	cells      [][]bool
	pixelScale float64
	unmasked   int
}

// NewMask validates the cells and pixel scale. It returns a
// ConfigError if no pixel is unmasked, the rows are ragged, or the
// scale is not positive.
func NewMask(cells [][]bool, pixelScale float64) (*Mask, error) {
	if pixelScale <= 0 {
		return nil, configErrorf("pixel scale must be positive: %g", pixelScale)
	}
	if len(cells) == 0 || len(cells[0]) == 0 {
		return nil, configErrorf("empty mask")
	}
	cols := len(cells[0])
	var unmasked int
	for r, row := range cells {
		if len(row) != cols {
			return nil, configErrorf("ragged rows: row 0 has %d cols, row %d has %d", cols, r, len(row))
		}
		for _, masked := range row {
			if !masked {
				unmasked++
			}
		}
	}
	if unmasked == 0 {
		return nil, configErrorf("all pixels masked")
	}
	return &Mask{cells: cells, pixelScale: pixelScale, unmasked: unmasked}, nil
}

// Rows returns the number of pixel rows.
func (m *Mask) Rows() int { return len(m.cells) }

// Cols returns the number of pixel columns.
func (m *Mask) Cols() int { return len(m.cells[0]) }

// PixelScale returns the width of one pixel in arcseconds.
func (m *Mask) PixelScale() float64 { return m.pixelScale }

// Unmasked returns the number of unmasked pixels.
func (m *Mask) Unmasked() int { return m.unmasked }

// Masked reports whether the pixel at (row, col) is excluded. Pixels
// outside the image count as masked.
func (m *Mask) Masked(row, col int) bool {
	if row < 0 || row >= m.Rows() || col < 0 || col >= m.Cols() {
		return true
	}
	return m.cells[row][col]
}

// coord returns the sky position of the centre of pixel (row, col).
func (m *Mask) coord(row, col int) Coord {
	cy := float64(m.Rows()-1) / 2
	cx := float64(m.Cols()-1) / 2
	return Coord{
		X: (float64(col) - cx) * m.pixelScale,
		Y: (cy - float64(row)) * m.pixelScale,
	}
}

// Grid returns the coordinates of every unmasked pixel centre in
// row-major order.
func (m *Mask) Grid() Grid {
	grid := make(Grid, 0, m.unmasked)
	for r := 0; r < m.Rows(); r++ {
		for c := 0; c < m.Cols(); c++ {
			if !m.cells[r][c] {
				grid = append(grid, m.coord(r, c))
			}
		}
	}
	return grid
}

// IndexGrid returns a 2D map from pixel position to 1D grid index,
// with -1 at masked pixels. The indices follow the ordering of Grid.
func (m *Mask) IndexGrid() [][]int {
	idx := make([][]int, m.Rows())
	n := 0
	for r := range idx {
		idx[r] = make([]int, m.Cols())
		for c := range idx[r] {
			if m.cells[r][c] {
				idx[r][c] = -1
			} else {
				idx[r][c] = n
				n++
			}
		}
	}
	return idx
}

// DataVector extracts the values of image at the unmasked pixels, in
// grid order. It returns a ShapeError if image does not match the mask
// shape.
func (m *Mask) DataVector(image [][]float64) ([]float64, error) {
	if len(image) != m.Rows() {
		return nil, shapeErrorf("image has %d rows, mask has %d", len(image), m.Rows())
	}
	vec := make([]float64, 0, m.unmasked)
	for r, row := range image {
		if len(row) != m.Cols() {
			return nil, shapeErrorf("image row %d has %d cols, mask has %d", r, len(row), m.Cols())
		}
		for c, v := range row {
			if !m.cells[r][c] {
				vec = append(vec, v)
			}
		}
	}
	return vec, nil
}

// MapToImage scatters a 1D grid-ordered vector back onto the 2D image,
// with zeros at masked pixels. It returns a ShapeError if vec does not
// have one value per unmasked pixel.
func (m *Mask) MapToImage(vec []float64) ([][]float64, error) {
	if len(vec) != m.unmasked {
		return nil, shapeErrorf("vector length %d, mask has %d unmasked pixels", len(vec), m.unmasked)
	}
	out := make([][]float64, m.Rows())
	i := 0
	for r := range out {
		out[r] = make([]float64, m.Cols())
		for c := range out[r] {
			if !m.cells[r][c] {
				out[r][c] = vec[i]
				i++
			}
		}
	}
	return out, nil
}

package geom

// blurringCells marks the masked pixels that lie within the kernel
// half-width of at least one unmasked pixel. Flux placed at these
// pixels is spread into the mask by the PSF, so fits must evaluate
// light there even though the pixels carry no data.
func (m *Mask) blurringCells(kh, kw int) [][]bool {
	cells := make([][]bool, m.Rows())
	for r := range cells {
		cells[r] = make([]bool, m.Cols())
	}
	hr, hc := kh/2, kw/2
	for r := 0; r < m.Rows(); r++ {
		for c := 0; c < m.Cols(); c++ {
			if m.cells[r][c] {
				continue
			}
			for dr := -hr; dr <= hr; dr++ {
				for dc := -hc; dc <= hc; dc++ {
					tr, tc := r+dr, c+dc
					if tr < 0 || tr >= m.Rows() || tc < 0 || tc >= m.Cols() {
						continue
					}
					if m.cells[tr][tc] {
						cells[tr][tc] = true
					}
				}
			}
		}
	}
	return cells
}

// BlurringGrid returns the coordinates of the blurring region for a
// kernel of shape (kh, kw): masked pixels close enough to the mask to
// scatter flux into it. Ordering is row-major, matching
// BlurringIndexGrid. Returns a ShapeError for even kernel dimensions.
func (m *Mask) BlurringGrid(kh, kw int) (Grid, error) {
	if err := ErrKernelShape(kh, kw); err != nil {
		return nil, err
	}
	cells := m.blurringCells(kh, kw)
	var grid Grid
	for r := range cells {
		for c := range cells[r] {
			if cells[r][c] {
				grid = append(grid, m.coord(r, c))
			}
		}
	}
	return grid, nil
}

// BlurringIndexGrid returns a 2D map from pixel position to 1D
// blurring-grid index, with -1 outside the blurring region. The
// indices follow the ordering of BlurringGrid.
func (m *Mask) BlurringIndexGrid(kh, kw int) ([][]int, error) {
	if err := ErrKernelShape(kh, kw); err != nil {
		return nil, err
	}
	cells := m.blurringCells(kh, kw)
	idx := make([][]int, m.Rows())
	n := 0
	for r := range idx {
		idx[r] = make([]int, m.Cols())
		for c := range idx[r] {
			if cells[r][c] {
				idx[r][c] = n
				n++
			} else {
				idx[r][c] = -1
			}
		}
	}
	return idx, nil
}

package geom

// A SubGrid subdivides every unmasked pixel into SubSize x SubSize
// sub-pixels for anti-aliasing of ray-traced positions. Sub-pixels are
// ordered row-major within each parent pixel, parents in grid order,
// and the ordering is stable across calls.
type SubGrid struct {
	Coords Grid
	// SubToImage maps each sub-pixel to its parent pixel's grid index.
	SubToImage []int
	SubSize    int
}

// SubGrid builds the sub-pixel grid for the mask. Sub-pixel centres
// are spaced uniformly within the pixel: offset (i+0.5)/n - 0.5 pixel
// widths for i in [0, n). Returns a ConfigError for subSize < 1.
func (m *Mask) SubGrid(subSize int) (*SubGrid, error) {
	if subSize < 1 {
		return nil, configErrorf("sub-grid size must be at least 1: %d", subSize)
	}
	n := subSize
	offsets := make([]float64, n)
	for i := range offsets {
		offsets[i] = ((float64(i)+0.5)/float64(n) - 0.5) * m.pixelScale
	}
	sub := &SubGrid{
		Coords:     make(Grid, 0, m.unmasked*n*n),
		SubToImage: make([]int, 0, m.unmasked*n*n),
		SubSize:    n,
	}
	parent := 0
	for r := 0; r < m.Rows(); r++ {
		for c := 0; c < m.Cols(); c++ {
			if m.cells[r][c] {
				continue
			}
			centre := m.coord(r, c)
			for sr := 0; sr < n; sr++ {
				for sc := 0; sc < n; sc++ {
					sub.Coords = append(sub.Coords, Coord{
						X: centre.X + offsets[sc],
						Y: centre.Y - offsets[sr],
					})
					sub.SubToImage = append(sub.SubToImage, parent)
				}
			}
			parent++
		}
	}
	return sub, nil
}

// Fraction returns the weight of one sub-pixel in its parent pixel's
// average, 1/SubSize^2.
func (s *SubGrid) Fraction() float64 {
	n := float64(s.SubSize)
	return 1 / (n * n)
}

// AverageToImage reduces a sub-pixel-length vector to pixel resolution
// by averaging the sub-pixels of each parent. Returns a ShapeError if
// vec is not sub-grid length.
func (s *SubGrid) AverageToImage(vec []float64, pixels int) ([]float64, error) {
	return AverageSubToImage(vec, s.SubToImage, s.SubSize, pixels)
}

// AverageSubToImage reduces a sub-pixel-length vector to pixel
// resolution: each parent receives the mean of its subSize^2
// sub-pixels. subToImage maps sub-pixel to parent index. Returns a
// ShapeError if vec and subToImage disagree or a parent index falls
// outside [0, pixels).
func AverageSubToImage(vec []float64, subToImage []int, subSize, pixels int) ([]float64, error) {
	if len(vec) != len(subToImage) {
		return nil, shapeErrorf("vector length %d, sub-grid has %d sub-pixels", len(vec), len(subToImage))
	}
	out := make([]float64, pixels)
	for i, v := range vec {
		p := subToImage[i]
		if p < 0 || p >= pixels {
			return nil, shapeErrorf("sub-pixel %d maps to parent %d of %d", i, p, pixels)
		}
		out[p] += v
	}
	f := 1 / float64(subSize*subSize)
	for i := range out {
		out[i] *= f
	}
	return out, nil
}

package pixelize

import (
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/jvlmdr/go-lens/geom"
)

// A ClusterGrid is a sparse subset of the image pixels used to seed
// source-pixel centers. Seeding from image pixels makes the cell
// density in the source plane follow the lens magnification: highly
// magnified regions are traced by many image pixels and receive many
// small cells.
type ClusterGrid struct {
	// ToImage holds the image-grid index of each seed pixel.
	ToImage []int
}

// NewClusterGrid takes every size-th unmasked pixel (in both
// directions) as a seed. size of 1 seeds from every unmasked pixel.
func NewClusterGrid(m *geom.Mask, size int) (*ClusterGrid, error) {
	if size < 1 {
		return nil, geom.ShapeErrorf("cluster grid size must be at least 1: %d", size)
	}
	var seeds []int
	idx := m.IndexGrid()
	for r := 0; r < m.Rows(); r += size {
		for c := 0; c < m.Cols(); c += size {
			if i := idx[r][c]; i >= 0 {
				seeds = append(seeds, i)
			}
		}
	}
	if len(seeds) == 0 {
		return nil, singularErrorf("cluster grid of stride %d hits no unmasked pixel", size)
	}
	return &ClusterGrid{ToImage: seeds}, nil
}

// Pixels returns the number of seeds, which is the source-pixel count
// of mappers built from this grid.
func (cg *ClusterGrid) Pixels() int { return len(cg.ToImage) }

// Centers picks the traced source-plane positions of the seed pixels
// out of the traced image grid.
func (cg *ClusterGrid) Centers(tracedImage geom.Grid) geom.Grid {
	centers := make(geom.Grid, len(cg.ToImage))
	for j, i := range cg.ToImage {
		centers[j] = tracedImage[i]
	}
	return centers
}

// KMeansCenters seeds cell centers by k-means clustering of the traced
// sub-pixel cloud itself, so cells follow the source's surface
// brightness distribution rather than the image magnification. The
// cloud is subsampled to at most maxSamples points to keep the
// clustering tractable (maxSamples <= 0 means no limit).
func KMeansCenters(traced geom.Grid, pixels, maxSamples int) (geom.Grid, error) {
	if pixels < 1 {
		return nil, singularErrorf("source pixel count must be at least 1: %d", pixels)
	}
	step := 1
	if maxSamples > 0 && len(traced) > maxSamples {
		// Ceil division: at most maxSamples points survive.
		step = (len(traced) + maxSamples - 1) / maxSamples
	}
	dataset := make(clusters.Observations, 0, len(traced)/step+1)
	for i := 0; i < len(traced); i += step {
		dataset = append(dataset, clusters.Coordinates{traced[i].X, traced[i].Y})
	}
	if len(dataset) < pixels {
		return nil, singularErrorf("%d traced points cannot seed %d source pixels", len(dataset), pixels)
	}

	km := kmeans.New()
	cc, err := km.Partition(dataset, pixels)
	if err != nil {
		return nil, singularErrorf("kmeans seeding failed: %v", err)
	}
	if len(cc) != pixels {
		return nil, singularErrorf("kmeans produced %d of %d source pixels", len(cc), pixels)
	}

	centers := make(geom.Grid, len(cc))
	for j, c := range cc {
		centers[j] = geom.Coord{X: c.Center[0], Y: c.Center[1]}
	}
	return centers, nil
}

package pixelize

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/jvlmdr/go-lens/geom"
)

// 5x5 mask with the interior 3x3 unmasked.
func interiorMask(t *testing.T) *geom.Mask {
	t.Helper()
	cells := make([][]bool, 5)
	for r := range cells {
		cells[r] = make([]bool, 5)
		for c := range cells[r] {
			cells[r][c] = r == 0 || r == 4 || c == 0 || c == 4
		}
	}
	m, err := geom.NewMask(cells, 1.0)
	require.NoError(t, err)
	return m
}

// oneToOneMapper pixelizes the unlensed interior mask with one source
// pixel per image pixel.
func oneToOneMapper(t *testing.T) *Mapper {
	t.Helper()
	m := interiorMask(t)
	sub, err := m.SubGrid(1)
	require.NoError(t, err)

	cg, err := NewClusterGrid(m, 1)
	require.NoError(t, err)
	require.Equal(t, 9, cg.Pixels())

	traced := m.Grid() // no deflection
	mp, err := NewMapper(m, sub, traced, cg.Centers(traced))
	require.NoError(t, err)
	return mp
}

func TestOneToOneMappingMatrixIsIdentity(t *testing.T) {
	mp := oneToOneMapper(t)
	r, c := mp.Matrix.Dims()
	require.Equal(t, 9, r)
	require.Equal(t, 9, c)
	for i := 0; i < 9; i++ {
		for j := 0; j < 9; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			require.Equal(t, want, mp.Matrix.At(i, j), "entry (%d,%d)", i, j)
		}
	}
}

func TestOneToOneNeighborsAreRookAdjacency(t *testing.T) {
	mp := oneToOneMapper(t)
	want := [][]int{
		{1, 3},
		{0, 2, 4},
		{1, 5},
		{0, 4, 6},
		{1, 3, 5, 7},
		{2, 4, 8},
		{3, 7},
		{4, 6, 8},
		{5, 7},
	}
	if diff := cmp.Diff(want, mp.Neighbors); diff != "" {
		t.Errorf("neighbor graph mismatch (-want +got):\n%s", diff)
	}
}

func TestMapperSubGridFractions(t *testing.T) {
	m := interiorMask(t)
	sub, err := m.SubGrid(2)
	require.NoError(t, err)

	cg, err := NewClusterGrid(m, 1)
	require.NoError(t, err)
	traced := append(geom.Grid(nil), sub.Coords...)
	mp, err := NewMapper(m, sub, traced, cg.Centers(m.Grid()))
	require.NoError(t, err)

	// Every row sums to 1 and entries are multiples of 1/4.
	rows, cols := mp.Matrix.Dims()
	for i := 0; i < rows; i++ {
		var sum float64
		for j := 0; j < cols; j++ {
			v := mp.Matrix.At(i, j)
			require.GreaterOrEqual(t, v, 0.0)
			require.InDelta(t, 0.0, 4*v-float64(int(4*v+0.5)), 1e-9)
			sum += v
		}
		require.InDelta(t, 1.0, sum, 1e-12, "row %d", i)
	}
}

func TestMapperCoincidentCenters(t *testing.T) {
	m := interiorMask(t)
	sub, err := m.SubGrid(1)
	require.NoError(t, err)
	traced := m.Grid()

	centers := geom.Grid{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 0}}
	var singular *SingularError
	_, err = NewMapper(m, sub, traced, centers)
	require.True(t, errors.As(err, &singular), "got %v", err)
}

func TestMapperEmptySourcePixel(t *testing.T) {
	m := interiorMask(t)
	sub, err := m.SubGrid(1)
	require.NoError(t, err)
	traced := m.Grid()

	// The far-away center is never anyone's nearest.
	centers := append(append(geom.Grid(nil), traced...), geom.Coord{X: 100, Y: 100})
	var singular *SingularError
	_, err = NewMapper(m, sub, traced, centers)
	require.True(t, errors.As(err, &singular), "got %v", err)
}

func TestMapperShapeError(t *testing.T) {
	m := interiorMask(t)
	sub, err := m.SubGrid(2)
	require.NoError(t, err)

	var shapeErr *geom.ShapeError
	_, err = NewMapper(m, sub, m.Grid(), m.Grid())
	require.True(t, errors.As(err, &shapeErr), "got %v", err)
}

func TestClusterGridStride(t *testing.T) {
	cells := make([][]bool, 3)
	for r := range cells {
		cells[r] = make([]bool, 3)
	}
	m, err := geom.NewMask(cells, 1.0)
	require.NoError(t, err)

	cg, err := NewClusterGrid(m, 2)
	require.NoError(t, err)
	// Stride 2 over the open 3x3 mask hits its four corners and would
	// hit the centre row/column only at even positions.
	require.Equal(t, []int{0, 2, 6, 8}, cg.ToImage)

	// On the interior mask, stride 2 only lands on the central pixel.
	cg, err = NewClusterGrid(interiorMask(t), 2)
	require.NoError(t, err)
	require.Equal(t, []int{4}, cg.ToImage)

	_, err = NewClusterGrid(m, 0)
	var shapeErr *geom.ShapeError
	require.True(t, errors.As(err, &shapeErr), "got %v", err)
}

func TestKMeansCentersSeparatedBlobs(t *testing.T) {
	// Two tight, well-separated blobs must yield one center near each.
	var traced geom.Grid
	for i := 0; i < 20; i++ {
		d := float64(i%5) * 0.01
		traced = append(traced, geom.Coord{X: -5 + d, Y: 0})
		traced = append(traced, geom.Coord{X: 5 + d, Y: 0})
	}
	centers, err := KMeansCenters(traced, 2, 0)
	require.NoError(t, err)
	require.Len(t, centers, 2)
	require.InDelta(t, 5, centers[0].X*centers[0].X/5, 0.5) // |x| near 5
	require.InDelta(t, 5, centers[1].X*centers[1].X/5, 0.5)
	require.NotEqual(t, centers[0].X > 0, centers[1].X > 0)
}

func TestKMeansCentersTooFewPoints(t *testing.T) {
	var singular *SingularError
	_, err := KMeansCenters(geom.Grid{{X: 0, Y: 0}, {X: 1, Y: 1}}, 5, 0)
	require.True(t, errors.As(err, &singular), "got %v", err)
}

func TestKMeansCentersSampleCap(t *testing.T) {
	traced := make(geom.Grid, 10000)
	for i := range traced {
		traced[i] = geom.Coord{X: 0.1 * float64(i%100), Y: 0.1 * float64(i/100)}
	}

	// Capped at 10 samples, the cloud cannot seed 50 centers.
	var singular *SingularError
	_, err := KMeansCenters(traced, 50, 10)
	require.True(t, errors.As(err, &singular), "got %v", err)

	// The cap leaves enough points when it exceeds the pixel count.
	centers, err := KMeansCenters(traced, 2, 200)
	require.NoError(t, err)
	require.Len(t, centers, 2)
}

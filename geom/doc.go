/*
Package geom converts a 2D boolean mask over a telescope image into the
1D coordinate grids used by the rest of the library.

A mask selects the pixels that take part in a fit. Every derived
structure orders those pixels row-major, top-left to bottom-right, and
that ordering is shared by data vectors, noise maps and convolver
frames:

	msk, err := geom.NewMask(cells, 0.1)
	if err != nil {
		// no unmasked pixels, or ragged rows
	}
	grid := msk.Grid()                    // one Coord per unmasked pixel
	blur, err := msk.BlurringGrid(3, 3)   // masked pixels within PSF reach
	sub, err := msk.SubGrid(2)            // 4 sub-pixels per unmasked pixel

Coordinates are in arcseconds relative to the mask centre, x increasing
right and y increasing up.
*/
package geom

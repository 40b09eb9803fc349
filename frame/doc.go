/*
Package frame precomputes the PSF blurring operator for a masked image
as per-pixel tap tables, and applies it to 1D image vectors and to the
columns of inversion mapping matrices.

A frame is the subset of kernel taps, centred on one pixel, that land
on other unmasked pixels: pairs of (target grid index, kernel weight).
Taps that fall on masked pixels outside the blurring region are
dropped, which loses flux at the mask edge rather than raising an
error. Frames depend only on the mask and the kernel, so a Convolver
is built once per (mask, PSF) pair and shared read-only across many
fit evaluations:

	conv, err := frame.NewConvolver(msk, kernel)
	blurred := conv.Convolve(image, blurring)
	bm := conv.ConvolveMapping(mapping)

Convolve and ConvolveMapping agree exactly: blurring each column of an
identity mapping matrix and reassembling reproduces Convolve of the
corresponding vector.
*/
package frame

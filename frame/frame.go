package frame

import (
	"github.com/jvlmdr/go-lens/geom"
)

// A tapFrame lists where flux placed at one pixel lands inside the
// mask: parallel target-index and kernel-weight slices.
type tapFrame struct {
	idx []int
	w   []float64
}

// A Convolver holds the precomputed tap tables of one (mask, PSF)
// pair. It is immutable after construction and safe to share between
// concurrent fit evaluations.
type Convolver struct {
	// frames[i] scatters flux from image pixel i.
	frames []tapFrame
	// blurringFrames[i] scatters flux from blurring-region pixel i
	// into the mask.
	blurringFrames []tapFrame
	pixels         int
	blurringPixels int
}

// NewConvolver builds tap tables for every unmasked and blurring-region
// pixel of the mask under the given kernel. The kernel must have odd
// dimensions (ShapeError otherwise); its normalization is the caller's
// responsibility and weights are used as given.
func NewConvolver(m *geom.Mask, kernel [][]float64) (*Convolver, error) {
	kh := len(kernel)
	kw := 0
	if kh > 0 {
		kw = len(kernel[0])
	}
	if err := geom.ErrKernelShape(kh, kw); err != nil {
		return nil, err
	}
	for r := range kernel {
		if len(kernel[r]) != kw {
			return nil, errRaggedKernel(r, len(kernel[r]), kw)
		}
	}

	imageIdx := m.IndexGrid()
	blurIdx, err := m.BlurringIndexGrid(kh, kw)
	if err != nil {
		return nil, err
	}

	conv := &Convolver{pixels: m.Unmasked()}
	hr, hc := kh/2, kw/2

	frameAt := func(r, c int) tapFrame {
		f := tapFrame{
			idx: make([]int, 0, kh*kw),
			w:   make([]float64, 0, kh*kw),
		}
		for dr := -hr; dr <= hr; dr++ {
			for dc := -hc; dc <= hc; dc++ {
				tr, tc := r+dr, c+dc
				if tr < 0 || tr >= m.Rows() || tc < 0 || tc >= m.Cols() {
					continue
				}
				if target := imageIdx[tr][tc]; target >= 0 {
					f.idx = append(f.idx, target)
					f.w = append(f.w, kernel[dr+hr][dc+hc])
				}
				// Taps on masked non-blurring pixels drop their
				// weight: flux loss at the mask edge.
			}
		}
		return f
	}

	conv.frames = make([]tapFrame, 0, m.Unmasked())
	for r := 0; r < m.Rows(); r++ {
		for c := 0; c < m.Cols(); c++ {
			switch {
			case imageIdx[r][c] >= 0:
				conv.frames = append(conv.frames, frameAt(r, c))
			case blurIdx[r][c] >= 0:
				conv.blurringFrames = append(conv.blurringFrames, frameAt(r, c))
				conv.blurringPixels++
			}
		}
	}
	return conv, nil
}

// Pixels returns the length of image vectors the convolver accepts.
func (c *Convolver) Pixels() int { return c.pixels }

// BlurringPixels returns the length of blurring-region vectors the
// convolver accepts.
func (c *Convolver) BlurringPixels() int { return c.blurringPixels }

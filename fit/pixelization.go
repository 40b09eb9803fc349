package fit

import (
	"gonum.org/v1/gonum/mat"

	"github.com/jvlmdr/go-lens/frame"
	"github.com/jvlmdr/go-lens/geom"
	"github.com/jvlmdr/go-lens/invert"
	"github.com/jvlmdr/go-lens/pixelize"
	"github.com/jvlmdr/go-lens/trace"
)

// PixelizationConfig selects the source-plane mesh and regularization
// of an inversion fit. Exactly one seeding scheme applies: Pixels > 0
// selects kmeans seeding with that many source pixels, otherwise the
// cluster-grid scheme with stride ClusterSize seeds from the image
// pixels.
type PixelizationConfig struct {
	Mask *geom.Mask
	Sub  *geom.SubGrid

	// ClusterSize is the image-pixel stride of the cluster-grid
	// scheme.
	ClusterSize int
	// Pixels selects kmeans seeding when positive.
	Pixels int
	// MaxSamples caps the points handed to kmeans (<= 0: no cap).
	MaxSamples int

	// Coeff is the regularization coefficient. Weights, when non-nil,
	// overrides it with a per-pixel strategy.
	Coeff   float64
	Weights pixelize.WeightStrategy

	// Workers fans the mapping-matrix blur over goroutines when > 1.
	Workers int
}

func (cfg PixelizationConfig) weights() pixelize.WeightStrategy {
	if cfg.Weights != nil {
		return cfg.Weights
	}
	return pixelize.Constant(cfg.Coeff)
}

// A PixelizationResult is one complete inversion: the evidence and its
// per-term breakdown, the reconstruction, and the matrix instances the
// terms were computed from.
type PixelizationResult struct {
	Evidence       float64
	Reconstruction []float64
	ModelImage     []float64

	ChiSquared float64
	RegTerm    float64
	LogDetFR   float64
	LogDetR    float64
	NoiseTerm  float64

	Mapper         *pixelize.Mapper
	BlurredMapping *mat.Dense
	Regularization *mat.SymDense
	System         *invert.System
}

// Pixelization reconstructs the source on an adaptive mesh and scores
// the model by the Bayesian evidence. The tracer must have been built
// from cfg.Mask's grids with cfg.Sub's sub-grid size.
func Pixelization(data, noise []float64, conv *frame.Convolver, tr *trace.Tracer, cfg PixelizationConfig) (*PixelizationResult, error) {
	if err := checkVectors(data, noise, conv); err != nil {
		return nil, err
	}
	if err := checkTracer(tr, conv); err != nil {
		return nil, err
	}
	tracedSub := tr.SourcePlane.Grids.Sub
	if len(tracedSub) != len(cfg.Sub.Coords) {
		return nil, geom.ShapeErrorf("tracer sub-grid has %d points, config sub-grid has %d",
			len(tracedSub), len(cfg.Sub.Coords))
	}

	centers, err := seedCenters(tr, cfg)
	if err != nil {
		return nil, err
	}
	mapper, err := pixelize.NewMapper(cfg.Mask, cfg.Sub, tracedSub, centers)
	if err != nil {
		return nil, err
	}

	blurred, err := blurMapping(conv, mapper.Matrix, cfg.Workers)
	if err != nil {
		return nil, err
	}

	f, err := invert.NormalEquations(blurred, noise)
	if err != nil {
		return nil, err
	}
	rhs, err := invert.DataVector(blurred, data, noise)
	if err != nil {
		return nil, err
	}
	reg := pixelize.Regularization(mapper.Pixels(), mapper.Neighbors, cfg.weights())

	sys, err := invert.NewSystem(f, reg)
	if err != nil {
		return nil, err
	}
	s := sys.Solve(rhs)
	model, err := invert.ModelImage(blurred, s)
	if err != nil {
		return nil, err
	}

	logDetR, err := invert.LogDetCholesky(reg)
	if err != nil {
		return nil, err
	}

	res := &PixelizationResult{
		Reconstruction: s,
		ModelImage:     model,
		ChiSquared:     ChiSquared(data, noise, model),
		RegTerm:        invert.RegTerm(s, reg),
		LogDetFR:       sys.LogDet(),
		LogDetR:        logDetR,
		NoiseTerm:      NoiseNormalization(noise),
		Mapper:         mapper,
		BlurredMapping: blurred,
		Regularization: reg,
		System:         sys,
	}
	res.Evidence = -0.5 * (res.ChiSquared + res.RegTerm + res.LogDetFR - res.LogDetR + res.NoiseTerm)
	return res, nil
}

func seedCenters(tr *trace.Tracer, cfg PixelizationConfig) (geom.Grid, error) {
	if cfg.Pixels > 0 {
		return pixelize.KMeansCenters(tr.SourcePlane.Grids.Sub, cfg.Pixels, cfg.MaxSamples)
	}
	cg, err := pixelize.NewClusterGrid(cfg.Mask, cfg.ClusterSize)
	if err != nil {
		return nil, err
	}
	return cg.Centers(tr.SourcePlane.Grids.Image), nil
}

func blurMapping(conv *frame.Convolver, m *mat.Dense, workers int) (*mat.Dense, error) {
	if workers > 1 {
		return conv.ConvolveMappingParallel(m, workers)
	}
	return conv.ConvolveMapping(m)
}

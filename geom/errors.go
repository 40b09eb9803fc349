package geom

import "fmt"

// ConfigError reports a mask that cannot support a fit, such as a mask
// with no unmasked pixels or ragged rows.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "mask configuration: " + e.Reason
}

func configErrorf(format string, args ...interface{}) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// ShapeError reports two structures whose dimensions do not agree, for
// example a data image whose shape differs from the mask or a PSF
// kernel with even dimensions.
type ShapeError struct {
	Reason string
}

func (e *ShapeError) Error() string {
	return "shape mismatch: " + e.Reason
}

func shapeErrorf(format string, args ...interface{}) *ShapeError {
	return &ShapeError{Reason: fmt.Sprintf(format, args...)}
}

// ShapeErrorf builds a ShapeError. Exported for the packages layered
// on geom so the whole library shares one shape-mismatch type.
func ShapeErrorf(format string, args ...interface{}) *ShapeError {
	return shapeErrorf(format, args...)
}

// ErrKernelShape returns a ShapeError unless both kernel dimensions are
// positive and odd. Shared by BlurringGrid and the frame convolver.
func ErrKernelShape(kh, kw int) error {
	if kh <= 0 || kw <= 0 || kh%2 == 0 || kw%2 == 0 {
		return shapeErrorf("kernel dimensions must be positive and odd: %dx%d", kh, kw)
	}
	return nil
}

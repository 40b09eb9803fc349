package pixelize

import "fmt"

// SingularError reports a pixelization that would make the inversion
// ill-posed: a source pixel that receives no mapped flux, or
// degenerate cell centers.
type SingularError struct {
	Reason string
}

func (e *SingularError) Error() string {
	return "singular pixelization: " + e.Reason
}

func singularErrorf(format string, args ...interface{}) *SingularError {
	return &SingularError{Reason: fmt.Sprintf(format, args...)}
}

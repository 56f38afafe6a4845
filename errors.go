package collider3d

import "errors"

var (
	ErrMissingGeometry   = errors.New("object has no bounding geometry")
	ErrMissingMaterial   = errors.New("object has no material")
	ErrWriteFailed       = errors.New("failed to write collider export")
	ErrUnsupportedFormat = errors.New("unsupported scene format")
)

// SkippedObject records a selected object that produced no collider.
type SkippedObject struct {
	Name   string
	Reason error
}

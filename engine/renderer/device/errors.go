package device

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidSize is returned for zero-sized or out-of-range buffer operations.
	ErrInvalidSize = errors.New("invalid size")
	// ErrOutOfMemory is returned when the device cannot satisfy an allocation.
	ErrOutOfMemory = errors.New("device out of memory")
	// ErrReleased is returned when a released resource is used.
	ErrReleased = errors.New("resource released")
	// ErrNoAdapter is returned when no compatible adapter or device is available.
	ErrNoAdapter = errors.New("no compatible adapter")

	// ErrSurfaceLost matches surface acquisition failures that are recovered by reconfiguring the surface.
	ErrSurfaceLost = errors.New("surface lost")
	// ErrSurfaceOutOfMemory matches surface acquisition failures that must terminate the render loop.
	ErrSurfaceOutOfMemory = errors.New("surface out of memory")
)

// DeviceResourceError reports a failed buffer, texture, bind group, or pipeline operation.
type DeviceResourceError struct {
	// Op is the failing operation, e.g. "create buffer".
	Op string
	// Label is the label of the resource involved.
	Label string
	// Err is the underlying cause.
	Err error
}

func (e *DeviceResourceError) Error() string {
	if e.Label == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Label, e.Err)
}

func (e *DeviceResourceError) Unwrap() error {
	return e.Err
}

// ResourceError is shorthand for building a *DeviceResourceError.
func ResourceError(op, label string, err error) error {
	return &DeviceResourceError{Op: op, Label: label, Err: err}
}

// SurfaceStatus classifies a failed surface acquisition.
type SurfaceStatus int

const (
	SurfaceOther SurfaceStatus = iota
	SurfaceLost
	SurfaceOutdated
	SurfaceTimeout
	SurfaceOutOfMemory
)

func (s SurfaceStatus) String() string {
	switch s {
	case SurfaceLost:
		return "lost"
	case SurfaceOutdated:
		return "outdated"
	case SurfaceTimeout:
		return "timeout"
	case SurfaceOutOfMemory:
		return "out of memory"
	default:
		return "other"
	}
}

// SurfaceAcquisitionError reports a failure to acquire the next surface image.
type SurfaceAcquisitionError struct {
	Status SurfaceStatus
	Err    error
}

func (e *SurfaceAcquisitionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("acquire surface texture: %s", e.Status)
	}
	return fmt.Sprintf("acquire surface texture: %s: %v", e.Status, e.Err)
}

func (e *SurfaceAcquisitionError) Unwrap() error {
	return e.Err
}

// Is matches ErrSurfaceLost for lost and outdated surfaces and ErrSurfaceOutOfMemory for out of memory.
func (e *SurfaceAcquisitionError) Is(target error) bool {
	switch target {
	case ErrSurfaceLost:
		return e.Status == SurfaceLost || e.Status == SurfaceOutdated
	case ErrSurfaceOutOfMemory:
		return e.Status == SurfaceOutOfMemory
	}
	return false
}

// Recoverable reports whether reconfiguring the surface is expected to fix the failure.
func (e *SurfaceAcquisitionError) Recoverable() bool {
	return e.Status == SurfaceLost || e.Status == SurfaceOutdated
}

// SurfaceStatusFromMessage classifies a backend's acquisition failure message, matching status names
// case-insensitively and ignoring separators ("Lost", "OUT_OF_MEMORY", "out of memory").
//
// Parameters:
//   - msg: the error message reported by the backend
//
// Returns:
//   - SurfaceStatus: the matching status, or SurfaceOther
func SurfaceStatusFromMessage(msg string) SurfaceStatus {
	norm := strings.NewReplacer("_", "", " ", "", "-", "").Replace(strings.ToLower(msg))
	switch {
	case strings.Contains(norm, "outofmemory"):
		return SurfaceOutOfMemory
	case strings.Contains(norm, "lost"):
		return SurfaceLost
	case strings.Contains(norm, "outdated"):
		return SurfaceOutdated
	case strings.Contains(norm, "timeout"):
		return SurfaceTimeout
	default:
		return SurfaceOther
	}
}

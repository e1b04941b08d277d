package headless

import (
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/device"
)

// HeadlessBuilderOption is a functional option applied to a Backend during construction via NewHeadlessBackend.
type HeadlessBuilderOption func(*Backend)

// WithSurfaceFormats replaces the formats the surface reports, in preference order.
//
// Parameters:
//   - formats: the supported formats
//
// Returns:
//   - HeadlessBuilderOption: a function that applies the formats option to a Backend
func WithSurfaceFormats(formats ...renderer.SurfaceFormat) HeadlessBuilderOption {
	return func(b *Backend) {
		b.caps.Formats = formats
	}
}

// WithPresentModes replaces the present modes the surface reports.
//
// Parameters:
//   - modes: the supported present modes
//
// Returns:
//   - HeadlessBuilderOption: a function that applies the present modes option to a Backend
func WithPresentModes(modes ...renderer.PresentMode) HeadlessBuilderOption {
	return func(b *Backend) {
		b.caps.PresentModes = modes
	}
}

// WithAllocationLimit caps the bytes held by live buffers. CreateBuffer fails with device.ErrOutOfMemory past it.
//
// Parameters:
//   - bytes: the limit, 0 for unlimited
//
// Returns:
//   - HeadlessBuilderOption: a function that applies the allocation limit to a Backend
func WithAllocationLimit(bytes uint64) HeadlessBuilderOption {
	return func(b *Backend) {
		b.allocationLimit = bytes
	}
}

// WithAcquireFailures queues surface acquisition failures consumed by the first BeginFrame calls.
//
// Parameters:
//   - statuses: the statuses reported, in order
//
// Returns:
//   - HeadlessBuilderOption: a function that applies the failures to a Backend
func WithAcquireFailures(statuses ...device.SurfaceStatus) HeadlessBuilderOption {
	return func(b *Backend) {
		b.acquireFailures = append(b.acquireFailures, statuses...)
	}
}

package wgpu_backend

import "log/slog"

// WGPUBackendBuilderOption is a functional option for configuring a Backend via NewWGPUBackend.
type WGPUBackendBuilderOption func(*Backend)

// WithForceFallbackAdapter requests the software fallback adapter.
//
// Parameters:
//   - force: whether to force the fallback adapter
//
// Returns:
//   - WGPUBackendBuilderOption: a function that applies the option to a Backend
func WithForceFallbackAdapter(force bool) WGPUBackendBuilderOption {
	return func(b *Backend) {
		b.forceFallbackAdapter = force
	}
}

// WithLogger sets the logger for device diagnostics.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - WGPUBackendBuilderOption: a function that applies the option to a Backend
func WithLogger(logger *slog.Logger) WGPUBackendBuilderOption {
	return func(b *Backend) {
		if logger != nil {
			b.logger = logger
		}
	}
}

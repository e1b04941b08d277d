package scene

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-scene/engine/camera"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithLogger sets the logger used by the scene, its renderer, and its loader.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) SceneBuilderOption {
	return func(s *scene) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCameraOptions passes options through to camera.NewCamera. They apply after the surface aspect ratio, so an
// explicit camera.WithAspect wins until the first resize.
//
// Parameters:
//   - options: the camera options
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCameraOptions(options ...camera.CameraBuilderOption) SceneBuilderOption {
	return func(s *scene) {
		s.cameraOptions = append(s.cameraOptions, options...)
	}
}

// WithRendererOptions passes options through to renderer.NewRenderer.
//
// Parameters:
//   - options: the renderer options
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithRendererOptions(options ...renderer.RendererBuilderOption) SceneBuilderOption {
	return func(s *scene) {
		s.rendererOptions = append(s.rendererOptions, options...)
	}
}

// WithLoaderWorkers sets the number of workers preparing models in parallel.
// Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLoaderWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.loaderWorkers = n
	}
}

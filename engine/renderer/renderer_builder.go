package renderer

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/pipeline"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPipeline replaces the default object pipeline description.
//
// Parameters:
//   - p: the Pipeline to compile
//
// Returns:
//   - RendererBuilderOption: a function that applies the pipeline option to a renderer
func WithPipeline(p pipeline.Pipeline) RendererBuilderOption {
	return func(r *renderer) {
		r.pipeline = p
	}
}

// WithOverlayPipeline replaces the default screen-space pipeline description used for UI elements.
//
// Parameters:
//   - p: the Pipeline to compile
//
// Returns:
//   - RendererBuilderOption: a function that applies the overlay pipeline option to a renderer
func WithOverlayPipeline(p pipeline.Pipeline) RendererBuilderOption {
	return func(r *renderer) {
		r.overlay = p
	}
}

// WithPresentMode sets the requested surface present mode. Unsupported modes fall back to the first supported mode.
//
// Parameters:
//   - mode: the PresentMode to use (VSync, Uncapped, or Mailbox)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.presentMode = mode
	}
}

// WithClearColor sets the background color every frame clears to.
//
// Parameters:
//   - c: the clear color
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color option to a renderer
func WithClearColor(c Color) RendererBuilderOption {
	return func(r *renderer) {
		r.clearColor = c
	}
}

// WithLogger sets the logger used for configuration and resize events.
//
// Parameters:
//   - logger: the logger, nil keeps slog.Default()
//
// Returns:
//   - RendererBuilderOption: a function that applies the logger option to a renderer
func WithLogger(logger *slog.Logger) RendererBuilderOption {
	return func(r *renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

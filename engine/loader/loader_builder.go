package loader

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-scene/engine/model"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithWorkers sets the number of goroutines used to prepare models in parallel.
// Defaults to runtime.NumCPU()-1, values below 1 are clamped to 1.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker count option to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		l.workers = max(n, 1)
	}
}

// WithLogger sets the logger used for load events.
//
// Parameters:
//   - logger: the logger, nil keeps slog.Default()
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a loader
func WithLogger(logger *slog.Logger) LoaderBuilderOption {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithModel is an option builder that pre-populates the model cache with an already uploaded model.
// The loader takes ownership and releases it on Release.
//
// Parameters:
//   - m: the model to cache under its name
//
// Returns:
//   - LoaderBuilderOption: a function that applies the model option to a loader
func WithModel(m model.Model) LoaderBuilderOption {
	return func(l *loader) {
		l.modelCache[m.Name()] = m
		l.order = append(l.order, m.Name())
	}
}

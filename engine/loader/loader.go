package loader

import (
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-scene/engine/model"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/device"
)

// loader is the implementation of the Loader interface.
type loader struct {
	dev    device.Device
	logger *slog.Logger

	modelCache map[string]model.Model
	order      []string

	workers int
	pool    worker.DynamicWorkerPool
}

// Loader turns model descriptions into uploaded models and owns them until Release.
// Validation and marshalling run in parallel on a worker pool; uploads run on the calling goroutine in input order.
type Loader interface {
	// LoadModels prepares and uploads every model. Models whose name is already cached are returned from the cache.
	// Loading is all or nothing: on the first failure every model uploaded by this call is released and nothing is
	// cached.
	//
	// Parameters:
	//   - data: the model descriptions, each with a unique, non-empty name
	//
	// Returns:
	//   - []model.Model: the models in input order
	//   - error: a *model.ModelLoadError
	LoadModels(data ...model.ModelData) ([]model.Model, error)

	// Get retrieves a cached model by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - model.Model: the cached model or nil
	Get(name string) model.Model

	// Models returns the full model cache.
	//
	// Returns:
	//   - map[string]model.Model: all cached models keyed by name
	Models() map[string]model.Model

	// Release releases every cached model in load order and empties the cache.
	Release()
}

var _ Loader = &loader{}

// NewLoader creates a new Loader uploading to dev.
//
// Parameters:
//   - dev: the device models are uploaded to
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided options
func NewLoader(dev device.Device, options ...LoaderBuilderOption) Loader {
	l := &loader{
		dev:        dev,
		logger:     slog.Default(),
		modelCache: make(map[string]model.Model),
		workers:    max(runtime.NumCPU()-1, 1),
	}
	for _, option := range options {
		option(l)
	}
	l.pool = worker.NewDynamicWorkerPool(l.workers, 256, 1*time.Second)
	return l
}

func (l *loader) LoadModels(data ...model.ModelData) ([]model.Model, error) {
	seen := make(map[string]bool, len(data))
	for _, d := range data {
		if d.Name == "" {
			return nil, &model.ModelLoadError{Reason: "model has no name"}
		}
		if seen[d.Name] {
			return nil, &model.ModelLoadError{Model: d.Name, Reason: "duplicate model name"}
		}
		seen[d.Name] = true
	}

	// Phase 1: parallel CPU prep. A WaitGroup is the barrier, the pool's workers idle-exit on their own.
	prepared := make([]*model.Prepared, len(data))
	errs := make([]error, len(data))
	var wg sync.WaitGroup
	for i, d := range data {
		if _, ok := l.modelCache[d.Name]; ok {
			continue
		}
		wg.Add(1)
		id, dCap := i, d
		l.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				prepared[id], errs[id] = model.Prepare(dCap)
				return nil, nil
			},
		})
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	// Phase 2: serial upload, the device is single-threaded.
	out := make([]model.Model, len(data))
	var uploaded []model.Model
	for i, d := range data {
		if cached, ok := l.modelCache[d.Name]; ok {
			out[i] = cached
			continue
		}
		m, err := model.Upload(l.dev, prepared[i])
		if err != nil {
			for _, u := range uploaded {
				u.Release()
			}
			return nil, err
		}
		uploaded = append(uploaded, m)
		out[i] = m
	}

	for _, m := range uploaded {
		l.modelCache[m.Name()] = m
		l.order = append(l.order, m.Name())
		l.logger.Debug("model loaded", "model", m.Name(), "meshes", len(m.Meshes()), "materials", len(m.Materials()))
	}
	return out, nil
}

func (l *loader) Get(name string) model.Model {
	return l.modelCache[name]
}

func (l *loader) Models() map[string]model.Model {
	return l.modelCache
}

func (l *loader) Release() {
	for _, name := range l.order {
		if m, ok := l.modelCache[name]; ok {
			m.Release()
		}
	}
	l.modelCache = make(map[string]model.Model)
	l.order = nil
}

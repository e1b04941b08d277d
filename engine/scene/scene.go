package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Carmen-Shannon/oxy-scene/engine/camera"
	"github.com/Carmen-Shannon/oxy-scene/engine/loader"
	"github.com/Carmen-Shannon/oxy-scene/engine/model"
	"github.com/Carmen-Shannon/oxy-scene/engine/render_object"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/uniform"
	"github.com/Carmen-Shannon/oxy-scene/engine/ui_element"
)

// ErrSceneClosed is returned by every operation on a closed Scene.
var ErrSceneClosed = errors.New("scene is closed")

// ErrDuplicateLabel is returned when an object or element label is already used in the scene.
var ErrDuplicateLabel = errors.New("object label already in use")

// State is the lifecycle state of a Scene.
type State int

const (
	StateUninitialized State = iota
	StateReady
	StateResizing
	StateClosed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateResizing:
		return "resizing"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// RenderStats summarizes one rendered frame.
type RenderStats struct {
	// Objects is the number of objects drawn.
	Objects int
	// DrawCalls is the number of indexed draws issued.
	DrawCalls int
	// Instances is the number of instances drawn across all draws.
	Instances int
	// Elements is the number of UI elements drawn over the objects.
	Elements int
}

// Scene owns the renderer, the camera, the loader with its models, and the ordered collection of render objects,
// and drives them through the per-frame update and render sequence.
//
// A Scene is not safe for concurrent use; every call happens on the frame goroutine.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// State returns the lifecycle state.
	State() State

	// Renderer returns the scene's renderer.
	Renderer() renderer.Renderer

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// Loader returns the loader owning the scene's models.
	Loader() loader.Loader

	// LoadModels loads models through the scene's loader. The scene releases them on Close.
	//
	// Parameters:
	//   - data: the model descriptions
	//
	// Returns:
	//   - []model.Model: the models in input order
	//   - error: a *model.ModelLoadError, or ErrSceneClosed
	LoadModels(data ...model.ModelData) ([]model.Model, error)

	// AddObject creates a render object for m and appends it to the draw order.
	//
	// Parameters:
	//   - m: the model to draw
	//   - cfg: the object configuration
	//
	// Returns:
	//   - render_object.RenderObject: the new object
	//   - error: ErrDuplicateLabel, a *device.DeviceResourceError, or ErrSceneClosed
	AddObject(m model.Model, cfg render_object.Config) (render_object.RenderObject, error)

	// RemoveObject removes the object with the given label and releases it immediately.
	//
	// Parameters:
	//   - label: the object label
	//
	// Returns:
	//   - bool: true if an object was removed
	RemoveObject(label string) bool

	// Object looks up an object by label. Returns nil if not found.
	//
	// Parameters:
	//   - label: the object label
	//
	// Returns:
	//   - render_object.RenderObject: the object or nil
	Object(label string) render_object.RenderObject

	// Objects returns the objects in draw order.
	//
	// Returns:
	//   - []render_object.RenderObject: a copy of the object list
	Objects() []render_object.RenderObject

	// AddElement creates a screen-space UI element and appends it to the overlay draw order.
	// Elements are updated after the objects and drawn over them.
	//
	// Parameters:
	//   - cfg: the element configuration
	//
	// Returns:
	//   - ui_element.Element: the new element
	//   - error: ErrDuplicateLabel, a *model.ModelLoadError for a bad texture, a *device.DeviceResourceError, or
	//     ErrSceneClosed
	AddElement(cfg ui_element.Config) (ui_element.Element, error)

	// RemoveElement removes the element with the given label and releases it immediately.
	//
	// Parameters:
	//   - label: the element label
	//
	// Returns:
	//   - bool: true if an element was removed
	RemoveElement(label string) bool

	// Element looks up a UI element by label. Returns nil if not found.
	//
	// Parameters:
	//   - label: the element label
	//
	// Returns:
	//   - ui_element.Element: the element or nil
	Element(label string) ui_element.Element

	// Elements returns the UI elements in draw order.
	//
	// Returns:
	//   - []ui_element.Element: a copy of the element list
	Elements() []ui_element.Element

	// Update advances the scene clock by elapsed, then updates the camera, every object, and every UI element in order.
	//
	// Parameters:
	//   - elapsed: the time since the previous update
	//
	// Returns:
	//   - error: the first update failure, or ErrSceneClosed
	Update(elapsed time.Duration) error

	// Render acquires the next surface image, draws every enabled object in order, then every enabled UI element
	// through the overlay pipeline, submits, and presents.
	// While the surface is minimized the frame is skipped and no image is acquired.
	// Nothing is retried; a *device.SurfaceAcquisitionError is returned to the caller to act on.
	//
	// Returns:
	//   - RenderStats: what the frame drew
	//   - error: a *device.SurfaceAcquisitionError, a submission error, or ErrSceneClosed
	Render() (RenderStats, error)

	// Resize reconfigures the surface, rebuilds the depth buffer, and sets the camera aspect.
	// A zero or negative dimension marks the scene minimized and keeps the previous configuration.
	//
	// Parameters:
	//   - width: the new surface width in pixels
	//   - height: the new surface height in pixels
	//
	// Returns:
	//   - error: a reconfiguration error, or ErrSceneClosed
	Resize(width, height int) error

	// Size returns the configured surface size.
	Size() (int, int)

	// DepthBufferSize returns the depth buffer size.
	DepthBufferSize() (int, int)

	// Minimized reports whether the last resize had a zero dimension.
	Minimized() bool

	// Time returns the total elapsed time passed to Update.
	Time() time.Duration

	// Stats returns the statistics of the last rendered frame.
	Stats() RenderStats

	// Close releases the objects in order, then the UI elements, the camera, the models, and the renderer with its
	// depth buffer, pipelines, and backend.
	//
	// Returns:
	//   - error: ErrSceneClosed if already closed
	Close() error
}

type scene struct {
	name   string
	logger *slog.Logger
	state  State

	r   renderer.Renderer
	cam camera.Camera
	ldr loader.Loader

	objects  []render_object.RenderObject
	elements []ui_element.Element
	screen   uniform.UniformResource[uniform.Matrix]

	cameraOptions   []camera.CameraBuilderOption
	rendererOptions []renderer.RendererBuilderOption
	loaderWorkers   int

	elapsed   time.Duration
	minimized bool
	stats     RenderStats
}

var _ Scene = &scene{}

// NewScene creates a Scene over backend: it configures the renderer for the initial size, creates the camera with
// the surface aspect ratio, and starts an empty loader.
//
// Parameters:
//   - name: the scene's identifier
//   - backend: the GPU backend the scene renders through; the scene takes ownership
//   - width: the initial surface width
//   - height: the initial surface height
//   - options: variadic list of SceneBuilderOption functions
//
// Returns:
//   - Scene: the ready scene
//   - error: a construction failure; the backend is released
func NewScene(name string, backend renderer.RendererBackend, width, height int, options ...SceneBuilderOption) (Scene, error) {
	s := &scene{
		name:   name,
		logger: slog.Default(),
		state:  StateUninitialized,
	}
	for _, opt := range options {
		opt(s)
	}
	s.logger = s.logger.With("scene", name)

	r, err := renderer.NewRenderer(backend, width, height,
		append([]renderer.RendererBuilderOption{renderer.WithLogger(s.logger)}, s.rendererOptions...)...)
	if err != nil {
		if backend != nil {
			backend.Release()
		}
		return nil, fmt.Errorf("scene %q: %w", name, err)
	}
	s.r = r

	cam, err := camera.NewCamera(r.Device(),
		append([]camera.CameraBuilderOption{camera.WithAspect(float32(width) / float32(height))}, s.cameraOptions...)...)
	if err != nil {
		r.Release()
		return nil, fmt.Errorf("scene %q: %w", name, err)
	}
	s.cam = cam

	screen, err := uniform.NewUniformResource(r.Device(), name+"_screen", uniform.IdentityMatrix())
	if err != nil {
		cam.Release()
		r.Release()
		return nil, fmt.Errorf("scene %q: %w", name, err)
	}
	s.screen = screen

	loaderOpts := []loader.LoaderBuilderOption{loader.WithLogger(s.logger)}
	if s.loaderWorkers > 0 {
		loaderOpts = append(loaderOpts, loader.WithWorkers(s.loaderWorkers))
	}
	s.ldr = loader.NewLoader(r.Device(), loaderOpts...)

	s.state = StateReady
	s.logger.Info("scene ready", "width", width, "height", height)
	return s, nil
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) State() State {
	return s.state
}

func (s *scene) Renderer() renderer.Renderer {
	return s.r
}

func (s *scene) Camera() camera.Camera {
	return s.cam
}

func (s *scene) Loader() loader.Loader {
	return s.ldr
}

func (s *scene) LoadModels(data ...model.ModelData) ([]model.Model, error) {
	if s.state == StateClosed {
		return nil, ErrSceneClosed
	}
	return s.ldr.LoadModels(data...)
}

func (s *scene) AddObject(m model.Model, cfg render_object.Config) (render_object.RenderObject, error) {
	if s.state == StateClosed {
		return nil, ErrSceneClosed
	}
	if cfg.Label != "" && s.Object(cfg.Label) != nil {
		return nil, fmt.Errorf("scene %q: %w: %q", s.name, ErrDuplicateLabel, cfg.Label)
	}
	obj, err := render_object.NewRenderObject(s.r.Device(), m, cfg)
	if err != nil {
		return nil, fmt.Errorf("scene %q: %w", s.name, err)
	}
	// a generated label can still collide with one chosen earlier
	if s.Object(obj.Label()) != nil {
		obj.Release()
		return nil, fmt.Errorf("scene %q: %w: %q", s.name, ErrDuplicateLabel, obj.Label())
	}
	s.objects = append(s.objects, obj)
	s.logger.Debug("object added", "object", obj.Label(), "model", m.Name(), "instances", obj.InstanceCount())
	return obj, nil
}

func (s *scene) RemoveObject(label string) bool {
	for i, obj := range s.objects {
		if obj.Label() == label {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			obj.Release()
			return true
		}
	}
	return false
}

func (s *scene) Object(label string) render_object.RenderObject {
	for _, obj := range s.objects {
		if obj.Label() == label {
			return obj
		}
	}
	return nil
}

func (s *scene) Objects() []render_object.RenderObject {
	out := make([]render_object.RenderObject, len(s.objects))
	copy(out, s.objects)
	return out
}

func (s *scene) AddElement(cfg ui_element.Config) (ui_element.Element, error) {
	if s.state == StateClosed {
		return nil, ErrSceneClosed
	}
	if cfg.Label != "" && s.Element(cfg.Label) != nil {
		return nil, fmt.Errorf("scene %q: %w: %q", s.name, ErrDuplicateLabel, cfg.Label)
	}
	el, err := ui_element.NewElement(s.r.Device(), cfg)
	if err != nil {
		return nil, fmt.Errorf("scene %q: %w", s.name, err)
	}
	if s.Element(el.Label()) != nil {
		el.Release()
		return nil, fmt.Errorf("scene %q: %w: %q", s.name, ErrDuplicateLabel, el.Label())
	}
	s.elements = append(s.elements, el)
	s.logger.Debug("ui element added", "element", el.Label())
	return el, nil
}

func (s *scene) RemoveElement(label string) bool {
	for i, el := range s.elements {
		if el.Label() == label {
			s.elements = append(s.elements[:i], s.elements[i+1:]...)
			el.Release()
			return true
		}
	}
	return false
}

func (s *scene) Element(label string) ui_element.Element {
	for _, el := range s.elements {
		if el.Label() == label {
			return el
		}
	}
	return nil
}

func (s *scene) Elements() []ui_element.Element {
	out := make([]ui_element.Element, len(s.elements))
	copy(out, s.elements)
	return out
}

func (s *scene) Update(elapsed time.Duration) error {
	if s.state == StateClosed {
		return ErrSceneClosed
	}
	s.elapsed += elapsed

	if err := s.cam.Update(); err != nil {
		return fmt.Errorf("scene %q: update camera: %w", s.name, err)
	}
	for _, obj := range s.objects {
		if err := obj.Update(); err != nil {
			return fmt.Errorf("scene %q: update object %q: %w", s.name, obj.Label(), err)
		}
	}
	for _, el := range s.elements {
		if err := el.Update(); err != nil {
			return fmt.Errorf("scene %q: update ui element %q: %w", s.name, el.Label(), err)
		}
	}
	return nil
}

func (s *scene) Render() (RenderStats, error) {
	if s.state == StateClosed {
		return RenderStats{}, ErrSceneClosed
	}
	if s.minimized {
		return RenderStats{}, nil
	}

	pass, err := s.r.BeginFrame()
	if err != nil {
		return RenderStats{}, err
	}
	pass.SetPipeline(s.r.Pipeline().RenderPipeline())

	var stats RenderStats
	cameraGroup := s.cam.BindGroup()
	for _, obj := range s.objects {
		if !obj.Enabled() {
			continue
		}
		draws := render_object.DrawInstanced(pass, obj, cameraGroup)
		if draws == 0 {
			continue
		}
		stats.Objects++
		stats.DrawCalls += draws
		stats.Instances += draws * obj.InstanceCount()
	}

	overlaySet := false
	for _, el := range s.elements {
		if !el.Enabled() {
			continue
		}
		if !overlaySet {
			pass.SetPipeline(s.r.OverlayPipeline().RenderPipeline())
			overlaySet = true
		}
		draws := ui_element.DrawElement(pass, el, s.screen.BindGroup())
		stats.Elements++
		stats.DrawCalls += draws
		stats.Instances += draws
	}

	if err := s.r.EndFrame(); err != nil {
		return RenderStats{}, fmt.Errorf("scene %q: %w", s.name, err)
	}
	s.r.Present()
	s.stats = stats
	return stats, nil
}

func (s *scene) Resize(width, height int) error {
	if s.state == StateClosed {
		return ErrSceneClosed
	}
	if width <= 0 || height <= 0 {
		if !s.minimized {
			s.logger.Debug("surface minimized, rendering paused", "width", width, "height", height)
		}
		s.minimized = true
		return nil
	}

	s.state = StateResizing
	defer func() { s.state = StateReady }()

	if err := s.r.Resize(width, height); err != nil {
		return fmt.Errorf("scene %q: resize: %w", s.name, err)
	}
	s.cam.SetAspect(float32(width) / float32(height))
	s.minimized = false
	return nil
}

func (s *scene) Size() (int, int) {
	return s.r.SurfaceSize()
}

func (s *scene) DepthBufferSize() (int, int) {
	return s.r.DepthSize()
}

func (s *scene) Minimized() bool {
	return s.minimized
}

func (s *scene) Time() time.Duration {
	return s.elapsed
}

func (s *scene) Stats() RenderStats {
	return s.stats
}

func (s *scene) Close() error {
	if s.state == StateClosed {
		return ErrSceneClosed
	}
	s.state = StateClosed

	for _, obj := range s.objects {
		obj.Release()
	}
	s.objects = nil
	for _, el := range s.elements {
		el.Release()
	}
	s.elements = nil
	s.screen.Release()
	s.cam.Release()
	s.ldr.Release()
	s.r.Release()

	s.logger.Info("scene closed")
	return nil
}

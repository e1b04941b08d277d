package renderer

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/pipeline"
)

// DefaultClearColor is the background color every frame clears to unless overridden.
var DefaultClearColor = Color{R: 0.1, G: 0.2, B: 0.3, A: 1.0}

// ErrFrameState is returned when the frame lifecycle methods are called out of order.
var ErrFrameState = errors.New("frame lifecycle out of order")

// renderer is the implementation of the Renderer interface.
type renderer struct {
	backend RendererBackend
	logger  *slog.Logger

	config   SurfaceConfiguration
	depth    device.TextureView
	pipeline pipeline.Pipeline
	overlay  pipeline.Pipeline

	clearColor  Color
	presentMode PresentMode

	inFrame  bool
	released bool
}

// Renderer owns the configured surface, the depth attachment matching it, and the compiled object pipeline.
//
// This is a high-level API over a RendererBackend. It negotiates the surface configuration once at construction,
// keeps the depth attachment equal to the surface size across resizes, and exposes a begin/end/present frame lifecycle.
type Renderer interface {
	// Device returns the device used to create buffers and bind groups for this renderer.
	//
	// Returns:
	//   - device.Device: the backend device
	Device() device.Device

	// Configuration returns the surface configuration currently applied.
	//
	// Returns:
	//   - SurfaceConfiguration: the active configuration
	Configuration() SurfaceConfiguration

	// Format returns the negotiated surface color format.
	//
	// Returns:
	//   - SurfaceFormat: the color format
	Format() SurfaceFormat

	// SurfaceSize returns the configured surface dimensions.
	//
	// Returns:
	//   - int: the width in pixels
	//   - int: the height in pixels
	SurfaceSize() (int, int)

	// DepthSize returns the dimensions of the depth attachment.
	//
	// Returns:
	//   - int: the width in pixels
	//   - int: the height in pixels
	DepthSize() (int, int)

	// Pipeline returns the compiled object pipeline.
	//
	// Returns:
	//   - pipeline.Pipeline: the pipeline, with its compiled handle set
	Pipeline() pipeline.Pipeline

	// OverlayPipeline returns the compiled screen-space pipeline used for UI elements.
	//
	// Returns:
	//   - pipeline.Pipeline: the overlay pipeline, with its compiled handle set
	OverlayPipeline() pipeline.Pipeline

	// ClearColor returns the color each frame clears to.
	//
	// Returns:
	//   - Color: the clear color
	ClearColor() Color

	// Resize reconfigures the surface and rebuilds the depth attachment. Non-positive dimensions are ignored.
	// The new depth attachment is created first; if it or the surface reconfiguration fails, the surface and the
	// previous depth attachment are left untouched.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: an error if reconfiguration or depth creation fails
	Resize(width, height int) error

	// BeginFrame acquires the next surface image and opens a render pass clearing color to ClearColor and depth to 1.
	// Must be paired with EndFrame.
	//
	// Returns:
	//   - device.RenderPass: the open pass
	//   - error: a *device.SurfaceAcquisitionError if the surface image could not be acquired
	BeginFrame() (device.RenderPass, error)

	// EndFrame ends the current render pass and submits the command buffer.
	// Does not present the surface, call Present() after EndFrame to display the frame.
	//
	// Returns:
	//   - error: an error if submission fails or no frame is open
	EndFrame() error

	// Present presents the surface to the display and releases the swapchain texture.
	// Must be called once per frame after EndFrame.
	Present()

	// Release releases the depth attachment, both pipelines, and the backend. Calling Release again is a no-op.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer over backend and configures it for an initial surface size.
// The color format is the first sRGB format the surface reports, else its first format. The present mode is the
// requested one when supported, else the first supported. The alpha mode is the first supported.
//
// Parameters:
//   - backend: the GPU backend, typically from wgpu_backend.NewWGPUBackend or headless.NewHeadlessBackend
//   - width: the initial surface width in pixels
//   - height: the initial surface height in pixels
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the configured renderer
//   - error: an error if the surface cannot be configured or the pipeline cannot be compiled
func NewRenderer(backend RendererBackend, width, height int, options ...RendererBuilderOption) (Renderer, error) {
	if backend == nil {
		return nil, errors.New("renderer backend is nil")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("initial surface size %dx%d must be positive", width, height)
	}

	r := &renderer{
		backend:     backend,
		logger:      slog.Default(),
		clearColor:  DefaultClearColor,
		presentMode: PresentModeVSync,
	}
	for _, opt := range options {
		opt(r)
	}
	if r.pipeline == nil {
		r.pipeline = pipeline.NewPipeline("object")
	}
	if r.overlay == nil {
		r.overlay = pipeline.NewOverlayPipeline("overlay")
	}

	caps := backend.SurfaceCapabilities()
	format, ok := SelectSurfaceFormat(caps.Formats)
	if !ok {
		return nil, device.ResourceError("configure surface", "", errors.New("surface reports no supported formats"))
	}
	r.config = SurfaceConfiguration{
		Width:       width,
		Height:      height,
		Format:      format,
		PresentMode: SelectPresentMode(caps.PresentModes, r.presentMode),
	}
	if len(caps.AlphaModes) > 0 {
		r.config.AlphaMode = caps.AlphaModes[0]
	}

	if err := backend.ConfigureSurface(r.config); err != nil {
		return nil, err
	}
	depth, err := backend.CreateDepthTexture(width, height, r.pipeline.SampleCount())
	if err != nil {
		return nil, err
	}
	r.depth = depth

	rp, err := backend.CreateRenderPipeline(r.pipeline, format)
	if err != nil {
		r.depth.Release()
		return nil, err
	}
	r.pipeline.SetRenderPipeline(rp)

	orp, err := backend.CreateRenderPipeline(r.overlay, format)
	if err != nil {
		r.pipeline.Release()
		r.depth.Release()
		return nil, err
	}
	r.overlay.SetRenderPipeline(orp)

	r.logger.Info("renderer configured",
		"format", format.Name,
		"srgb", format.SRGB,
		"present_mode", r.config.PresentMode.String(),
		"width", width,
		"height", height,
	)
	return r, nil
}

// SelectSurfaceFormat returns the first sRGB format, else the first format.
//
// Parameters:
//   - formats: the surface formats in backend preference order
//
// Returns:
//   - SurfaceFormat: the chosen format
//   - bool: false if formats is empty
func SelectSurfaceFormat(formats []SurfaceFormat) (SurfaceFormat, bool) {
	if len(formats) == 0 {
		return SurfaceFormat{}, false
	}
	for _, f := range formats {
		if f.SRGB {
			return f, true
		}
	}
	return formats[0], true
}

// SelectPresentMode returns want when supported, else the first supported mode, else VSync.
//
// Parameters:
//   - supported: the present modes the surface supports
//   - want: the requested mode
//
// Returns:
//   - PresentMode: the chosen mode
func SelectPresentMode(supported []PresentMode, want PresentMode) PresentMode {
	for _, m := range supported {
		if m == want {
			return m
		}
	}
	if len(supported) > 0 {
		return supported[0]
	}
	return PresentModeVSync
}

func (r *renderer) Device() device.Device {
	return r.backend
}

func (r *renderer) Configuration() SurfaceConfiguration {
	return r.config
}

func (r *renderer) Format() SurfaceFormat {
	return r.config.Format
}

func (r *renderer) SurfaceSize() (int, int) {
	return r.config.Width, r.config.Height
}

func (r *renderer) DepthSize() (int, int) {
	if r.depth == nil {
		return 0, 0
	}
	return r.depth.Width(), r.depth.Height()
}

func (r *renderer) Pipeline() pipeline.Pipeline {
	return r.pipeline
}

func (r *renderer) OverlayPipeline() pipeline.Pipeline {
	return r.overlay
}

func (r *renderer) ClearColor() Color {
	return r.clearColor
}

func (r *renderer) Resize(width, height int) error {
	if r.released {
		return device.ResourceError("resize surface", "", device.ErrReleased)
	}
	if width <= 0 || height <= 0 {
		r.logger.Debug("ignoring zero-area resize", "width", width, "height", height)
		return nil
	}

	// allocate the depth attachment before touching the surface so a failure leaves both at the old size
	depth, err := r.backend.CreateDepthTexture(width, height, r.pipeline.SampleCount())
	if err != nil {
		return err
	}
	cfg := r.config
	cfg.Width, cfg.Height = width, height
	if err := r.backend.ConfigureSurface(cfg); err != nil {
		depth.Release()
		return err
	}
	r.config = cfg

	if r.depth != nil {
		r.depth.Release()
	}
	r.depth = depth

	r.logger.Debug("surface reconfigured", "width", width, "height", height)
	return nil
}

func (r *renderer) BeginFrame() (device.RenderPass, error) {
	if r.released {
		return nil, device.ResourceError("begin frame", "", device.ErrReleased)
	}
	if r.inFrame {
		return nil, fmt.Errorf("begin frame: %w", ErrFrameState)
	}
	pass, err := r.backend.BeginFrame(FrameTarget{
		Depth:      r.depth,
		ClearColor: r.clearColor,
		ClearDepth: 1.0,
	})
	if err != nil {
		return nil, err
	}
	r.inFrame = true
	return pass, nil
}

func (r *renderer) EndFrame() error {
	if !r.inFrame {
		return fmt.Errorf("end frame: %w", ErrFrameState)
	}
	r.inFrame = false
	return r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	if r.released {
		return
	}
	r.released = true
	if r.depth != nil {
		r.depth.Release()
		r.depth = nil
	}
	r.pipeline.Release()
	r.overlay.Release()
	r.backend.Release()
}

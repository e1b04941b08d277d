package renderer

import (
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/pipeline"
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped

	// PresentModeMailbox replaces the queued frame with the newest one without tearing.
	PresentModeMailbox
)

func (m PresentMode) String() string {
	switch m {
	case PresentModeVSync:
		return "vsync"
	case PresentModeUncapped:
		return "uncapped"
	case PresentModeMailbox:
		return "mailbox"
	default:
		return "unknown"
	}
}

// SurfaceFormat is a color format supported by the surface. ID is the backend's native format value.
type SurfaceFormat struct {
	ID   uint32
	Name string
	SRGB bool
}

// AlphaMode is a backend-native compositing alpha mode value.
type AlphaMode uint32

// SurfaceCapabilities lists what the surface supports, in the backend's order of preference.
type SurfaceCapabilities struct {
	Formats      []SurfaceFormat
	PresentModes []PresentMode
	AlphaModes   []AlphaMode
}

// SurfaceConfiguration is the negotiated configuration applied to the surface.
type SurfaceConfiguration struct {
	Width       int
	Height      int
	Format      SurfaceFormat
	PresentMode PresentMode
	AlphaMode   AlphaMode
}

// Color is a linear RGBA clear color.
type Color struct {
	R, G, B, A float64
}

// FrameTarget describes the attachments and clear values of a frame's render pass.
type FrameTarget struct {
	Depth      device.TextureView
	ClearColor Color
	ClearDepth float32
}

// RendererBackend is the top-level backend interface for the Renderer.
// It extends device.Device with surface management, pipeline compilation, and the frame lifecycle.
type RendererBackend interface {
	device.Device

	// SurfaceCapabilities reports the formats, present modes, and alpha modes of the surface.
	//
	// Returns:
	//   - SurfaceCapabilities: the supported surface configuration values
	SurfaceCapabilities() SurfaceCapabilities

	// ConfigureSurface applies cfg to the surface. Width and height are always positive.
	//
	// Parameters:
	//   - cfg: the surface configuration
	//
	// Returns:
	//   - error: a *device.DeviceResourceError if the surface cannot be configured
	ConfigureSurface(cfg SurfaceConfiguration) error

	// CreateDepthTexture creates a depth attachment of the given size and sample count.
	//
	// Parameters:
	//   - width: the attachment width in pixels
	//   - height: the attachment height in pixels
	//   - sampleCount: the multisample count
	//
	// Returns:
	//   - device.TextureView: the depth attachment view, which owns its texture
	//   - error: a *device.DeviceResourceError if creation fails
	CreateDepthTexture(width, height int, sampleCount uint32) (device.TextureView, error)

	// CreateRenderPipeline compiles p for the given color format.
	//
	// Parameters:
	//   - p: the pipeline description
	//   - format: the color attachment format
	//
	// Returns:
	//   - device.RenderPipeline: the compiled pipeline
	//   - error: a *device.DeviceResourceError if compilation fails
	CreateRenderPipeline(p pipeline.Pipeline, format SurfaceFormat) (device.RenderPipeline, error)

	// BeginFrame acquires the next surface image and opens a render pass clearing color and depth.
	//
	// Parameters:
	//   - target: the depth attachment and clear values
	//
	// Returns:
	//   - device.RenderPass: the open pass
	//   - error: a *device.SurfaceAcquisitionError if no image could be acquired
	BeginFrame(target FrameTarget) (device.RenderPass, error)

	// EndFrame closes the open pass and submits the recorded commands.
	//
	// Returns:
	//   - error: an error if no frame is open or submission fails
	EndFrame() error

	// Present presents the submitted frame and releases the acquired surface image.
	Present()

	// Release releases the surface, device, and every backend-held object.
	Release()
}

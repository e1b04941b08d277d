// Package wgpu_backend implements renderer.RendererBackend on the native WebGPU bindings.
package wgpu_backend

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/Carmen-Shannon/oxy-scene/engine/renderer"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/device"
	"github.com/cogentcore/webgpu/wgpu"
)

// Backend is the WebGPU implementation of renderer.RendererBackend.
// All calls must happen on the goroutine that created it; NewWGPUBackend locks it to its OS thread.
type Backend struct {
	logger               *slog.Logger
	forceFallbackAdapter bool

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface

	uniformLayout *wgpu.BindGroupLayout
	textureLayout *wgpu.BindGroupLayout

	configured bool

	// frame state between BeginFrame and Present
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView

	released bool
}

var _ renderer.RendererBackend = &Backend{}

// NewWGPUBackend creates the WebGPU instance for surfaceDescriptor, requests an adapter compatible with it, and opens
// the device.
//
// Parameters:
//   - surfaceDescriptor: the native surface, typically from window.Window.SurfaceDescriptor
//   - options: variadic list of WGPUBackendBuilderOption functions
//
// Returns:
//   - *Backend: the backend, with its surface not yet configured
//   - error: a *device.DeviceResourceError wrapping device.ErrNoAdapter when no adapter or device is available
func NewWGPUBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, options ...WGPUBackendBuilderOption) (*Backend, error) {
	if surfaceDescriptor == nil {
		return nil, device.ResourceError("create backend", "", errors.New("surface descriptor is nil"))
	}
	runtime.LockOSThread()

	b := &Backend{logger: slog.Default()}
	for _, opt := range options {
		opt(b)
	}

	b.instance = wgpu.CreateInstance(nil)
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: b.forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		b.Release()
		return nil, device.ResourceError("request adapter", "", fmt.Errorf("%w: %v", device.ErrNoAdapter, err))
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		b.Release()
		return nil, device.ResourceError("request device", "", fmt.Errorf("%w: %v", device.ErrNoAdapter, err))
	}
	b.device = d
	b.queue = d.GetQueue()

	if err := b.createBindGroupLayouts(); err != nil {
		b.Release()
		return nil, err
	}

	b.logger.Info("webgpu device ready", "fallback_adapter", b.forceFallbackAdapter)
	return b, nil
}

func (b *Backend) createBindGroupLayouts() error {
	var err error
	b.uniformLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Uniform Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return device.ResourceError("create bind group layout", "uniform", err)
	}

	b.textureLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Texture Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return device.ResourceError("create bind group layout", "texture", err)
	}
	return nil
}

func (b *Backend) layoutFor(kind device.BindGroupKind) *wgpu.BindGroupLayout {
	if kind == device.BindGroupKindTexture {
		return b.textureLayout
	}
	return b.uniformLayout
}

func (b *Backend) SurfaceCapabilities() renderer.SurfaceCapabilities {
	caps := b.surface.GetCapabilities(b.adapter)

	out := renderer.SurfaceCapabilities{}
	for _, f := range caps.Formats {
		out.Formats = append(out.Formats, renderer.SurfaceFormat{
			ID:   uint32(f),
			Name: fmt.Sprint(f),
			SRGB: f == wgpu.TextureFormatBGRA8UnormSrgb || f == wgpu.TextureFormatRGBA8UnormSrgb,
		})
	}
	for _, m := range caps.PresentModes {
		if mode, ok := fromWGPUPresentMode(m); ok {
			out.PresentModes = append(out.PresentModes, mode)
		}
	}
	for _, a := range caps.AlphaModes {
		out.AlphaModes = append(out.AlphaModes, renderer.AlphaMode(a))
	}
	return out
}

func (b *Backend) ConfigureSurface(cfg renderer.SurfaceConfiguration) error {
	if b.released {
		return device.ResourceError("configure surface", "", device.ErrReleased)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return device.ResourceError("configure surface", "", fmt.Errorf("%w: %dx%d", device.ErrInvalidSize, cfg.Width, cfg.Height))
	}
	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      wgpu.TextureFormat(cfg.Format.ID),
		Width:       uint32(cfg.Width),
		Height:      uint32(cfg.Height),
		PresentMode: toWGPUPresentMode(cfg.PresentMode),
		AlphaMode:   wgpu.CompositeAlphaMode(cfg.AlphaMode),
	})
	b.configured = true
	return nil
}

func (b *Backend) CreateDepthTexture(width, height int, sampleCount uint32) (device.TextureView, error) {
	if width <= 0 || height <= 0 {
		return nil, device.ResourceError("create depth texture", "", fmt.Errorf("%w: %dx%d", device.ErrInvalidSize, width, height))
	}
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   max(sampleCount, 1),
		Dimension:     wgpu.TextureDimension2D,
		Format:        depthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return nil, device.ResourceError("create depth texture", "", err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, device.ResourceError("create depth texture view", "", err)
	}
	return &textureView{label: "Depth Texture", texture: tex, view: view, width: width, height: height}, nil
}

func (b *Backend) BeginFrame(target renderer.FrameTarget) (device.RenderPass, error) {
	if b.released {
		return nil, device.ResourceError("begin frame", "", device.ErrReleased)
	}
	// a held surface texture means the previous frame was never presented
	if b.frameSurface != nil {
		return nil, errors.New("begin frame: previous frame surface not yet presented")
	}
	if !b.configured {
		return nil, &device.SurfaceAcquisitionError{Status: device.SurfaceOutdated, Err: errors.New("surface not configured")}
	}
	depth, ok := target.Depth.(*textureView)
	if !ok || depth == nil {
		return nil, errors.New("begin frame: missing depth attachment")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return nil, &device.SurfaceAcquisitionError{Status: device.SurfaceStatusFromMessage(err.Error()), Err: err}
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return nil, device.ResourceError("create surface view", "", err)
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return nil, device.ResourceError("create command encoder", "", err)
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    view,
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: wgpu.StoreOpStore,
				ClearValue: wgpu.Color{
					R: target.ClearColor.R,
					G: target.ClearColor.G,
					B: target.ClearColor.B,
					A: target.ClearColor.A,
				},
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            depth.view,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: target.ClearDepth,
		},
	})

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view
	return &renderPass{pass: pass}, nil
}

func (b *Backend) EndFrame() error {
	if b.framePass == nil {
		return errors.New("end frame: no frame is open")
	}
	b.framePass.End()
	b.framePass = nil

	commandBuffer, err := b.frameEncoder.Finish(nil)
	b.frameEncoder.Release()
	b.frameEncoder = nil
	if err != nil {
		b.releaseFrameSurface()
		return device.ResourceError("finish command encoder", "", err)
	}

	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	return nil
}

func (b *Backend) Present() {
	// nothing acquired, nothing to present
	if b.frameSurface == nil {
		return
	}
	b.surface.Present()
	b.releaseFrameSurface()
}

func (b *Backend) releaseFrameSurface() {
	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameSurface != nil {
		b.frameSurface.Release()
		b.frameSurface = nil
	}
}

func (b *Backend) Release() {
	if b.released {
		return
	}
	b.released = true
	b.releaseFrameSurface()

	if b.textureLayout != nil {
		b.textureLayout.Release()
	}
	if b.uniformLayout != nil {
		b.uniformLayout.Release()
	}
	if b.device != nil {
		b.device.Release()
	}
	if b.adapter != nil {
		b.adapter.Release()
	}
	if b.surface != nil {
		b.surface.Release()
	}
	if b.instance != nil {
		b.instance.Release()
	}
	runtime.UnlockOSThread()
}

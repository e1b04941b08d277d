// Package headless provides an in-memory RendererBackend. It allocates no GPU resources: buffers are byte slices,
// and every frame, draw, and release is recorded so callers can inspect what a real device would have received.
// It backs offline runs of the binary and every GPU-free test.
package headless

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/pipeline"
)

// Default surface formats reported by a headless backend, mirroring a typical desktop swapchain.
var (
	FormatBGRA8Unorm     = renderer.SurfaceFormat{ID: 23, Name: "bgra8unorm"}
	FormatBGRA8UnormSrgb = renderer.SurfaceFormat{ID: 24, Name: "bgra8unorm-srgb", SRGB: true}
)

// Backend is the headless renderer.RendererBackend.
type Backend struct {
	caps            renderer.SurfaceCapabilities
	allocationLimit uint64
	allocated       uint64

	surface        *renderer.SurfaceConfiguration
	configureCount int

	buffers    []*Buffer
	bindGroups []*BindGroup
	depths     []*TextureView
	pipelines  []*Pipeline

	acquireFailures []device.SurfaceStatus
	open            *pass
	frames          []*FrameRecord
	presents        int

	doubleReleases int
	released       bool
}

var _ renderer.RendererBackend = &Backend{}

// NewHeadlessBackend creates a headless backend.
//
// Parameters:
//   - options: variadic list of HeadlessBuilderOption functions to configure the backend
//
// Returns:
//   - *Backend: the backend
func NewHeadlessBackend(options ...HeadlessBuilderOption) *Backend {
	b := &Backend{
		caps: renderer.SurfaceCapabilities{
			Formats:      []renderer.SurfaceFormat{FormatBGRA8Unorm, FormatBGRA8UnormSrgb},
			PresentModes: []renderer.PresentMode{renderer.PresentModeVSync, renderer.PresentModeUncapped},
			AlphaModes:   []renderer.AlphaMode{0},
		},
	}
	for _, opt := range options {
		opt(b)
	}
	return b
}

// Buffer is a headless device.Buffer backed by a byte slice.
type Buffer struct {
	owner    *Backend
	label    string
	usage    device.BufferUsage
	data     []byte
	released bool
}

func (buf *Buffer) Label() string             { return buf.label }
func (buf *Buffer) Size() uint64              { return uint64(len(buf.data)) }
func (buf *Buffer) Usage() device.BufferUsage { return buf.usage }

// Released reports whether the buffer has been released.
func (buf *Buffer) Released() bool { return buf.released }

// Contents returns a copy of the buffer's bytes.
func (buf *Buffer) Contents() []byte {
	return append([]byte(nil), buf.data...)
}

func (buf *Buffer) Release() {
	if buf.released {
		buf.owner.doubleReleases++
		return
	}
	buf.released = true
	buf.owner.allocated -= uint64(len(buf.data))
}

// BindGroup is a headless device.BindGroup.
type BindGroup struct {
	owner    *Backend
	label    string
	Kind     device.BindGroupKind
	Buffer   *Buffer
	Texture  common.TextureStagingData
	Sampler  device.SamplerDescriptor
	released bool
}

func (bg *BindGroup) Label() string { return bg.label }

// Released reports whether the bind group has been released.
func (bg *BindGroup) Released() bool { return bg.released }

func (bg *BindGroup) Release() {
	if bg.released {
		bg.owner.doubleReleases++
		return
	}
	bg.released = true
}

// TextureView is a headless depth attachment.
type TextureView struct {
	owner       *Backend
	label       string
	width       int
	height      int
	SampleCount uint32
	released    bool
}

func (tv *TextureView) Label() string { return tv.label }
func (tv *TextureView) Width() int    { return tv.width }
func (tv *TextureView) Height() int   { return tv.height }

// Released reports whether the view has been released.
func (tv *TextureView) Released() bool { return tv.released }

func (tv *TextureView) Release() {
	if tv.released {
		tv.owner.doubleReleases++
		return
	}
	tv.released = true
}

// Pipeline is a headless compiled pipeline holding its description.
type Pipeline struct {
	owner       *Backend
	Description pipeline.Pipeline
	Format      renderer.SurfaceFormat
	released    bool
}

func (p *Pipeline) Label() string { return p.Description.PipelineKey() }

// Released reports whether the pipeline has been released.
func (p *Pipeline) Released() bool { return p.released }

func (p *Pipeline) Release() {
	if p.released {
		p.owner.doubleReleases++
		return
	}
	p.released = true
}

func (b *Backend) SurfaceCapabilities() renderer.SurfaceCapabilities {
	return b.caps
}

func (b *Backend) ConfigureSurface(cfg renderer.SurfaceConfiguration) error {
	if b.released {
		return device.ResourceError("configure surface", "", device.ErrReleased)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return device.ResourceError("configure surface", "", fmt.Errorf("%w: %dx%d", device.ErrInvalidSize, cfg.Width, cfg.Height))
	}
	b.surface = &cfg
	b.configureCount++
	return nil
}

func (b *Backend) CreateDepthTexture(width, height int, sampleCount uint32) (device.TextureView, error) {
	if width <= 0 || height <= 0 {
		return nil, device.ResourceError("create depth texture", "depth", fmt.Errorf("%w: %dx%d", device.ErrInvalidSize, width, height))
	}
	tv := &TextureView{owner: b, label: "depth", width: width, height: height, SampleCount: sampleCount}
	b.depths = append(b.depths, tv)
	return tv, nil
}

func (b *Backend) CreateRenderPipeline(p pipeline.Pipeline, format renderer.SurfaceFormat) (device.RenderPipeline, error) {
	if p.ShaderSource() == "" {
		return nil, device.ResourceError("create render pipeline", p.PipelineKey(), errors.New("empty shader source"))
	}
	rp := &Pipeline{owner: b, Description: p, Format: format}
	b.pipelines = append(b.pipelines, rp)
	return rp, nil
}

func (b *Backend) CreateBuffer(desc device.BufferDescriptor) (device.Buffer, error) {
	size := desc.Size
	if size == 0 {
		size = uint64(len(desc.Contents))
	}
	if size == 0 || uint64(len(desc.Contents)) > size {
		return nil, device.ResourceError("create buffer", desc.Label, device.ErrInvalidSize)
	}
	if b.allocationLimit > 0 && b.allocated+size > b.allocationLimit {
		return nil, device.ResourceError("create buffer", desc.Label, device.ErrOutOfMemory)
	}
	buf := &Buffer{owner: b, label: desc.Label, usage: desc.Usage, data: make([]byte, size)}
	copy(buf.data, desc.Contents)
	b.allocated += size
	b.buffers = append(b.buffers, buf)
	return buf, nil
}

func (b *Backend) WriteBuffer(buf device.Buffer, offset uint64, data []byte) error {
	hb, ok := buf.(*Buffer)
	if !ok || hb == nil {
		return device.ResourceError("write buffer", "", errors.New("buffer does not belong to this device"))
	}
	if hb.released {
		return device.ResourceError("write buffer", hb.label, device.ErrReleased)
	}
	if !hb.usage.Has(device.BufferUsageCopyDst) {
		return device.ResourceError("write buffer", hb.label, errors.New("buffer lacks copy-dst usage"))
	}
	if offset+uint64(len(data)) > uint64(len(hb.data)) {
		return device.ResourceError("write buffer", hb.label, device.ErrInvalidSize)
	}
	copy(hb.data[offset:], data)
	return nil
}

func (b *Backend) CreateUniformBindGroup(label string, buf device.Buffer) (device.BindGroup, error) {
	hb, ok := buf.(*Buffer)
	if !ok || hb == nil || hb.released {
		return nil, device.ResourceError("create bind group", label, device.ErrReleased)
	}
	if !hb.usage.Has(device.BufferUsageUniform) {
		return nil, device.ResourceError("create bind group", label, errors.New("buffer lacks uniform usage"))
	}
	bg := &BindGroup{owner: b, label: label, Kind: device.BindGroupKindUniform, Buffer: hb}
	b.bindGroups = append(b.bindGroups, bg)
	return bg, nil
}

func (b *Backend) CreateTextureBindGroup(label string, tex common.TextureStagingData, sampler device.SamplerDescriptor) (device.BindGroup, error) {
	if err := tex.Validate(); err != nil {
		return nil, device.ResourceError("create texture", label, err)
	}
	bg := &BindGroup{
		owner:   b,
		label:   label,
		Kind:    device.BindGroupKindTexture,
		Texture: common.TextureStagingData{Pixels: append([]byte(nil), tex.Pixels...), Width: tex.Width, Height: tex.Height},
		Sampler: sampler,
	}
	b.bindGroups = append(b.bindGroups, bg)
	return bg, nil
}

func (b *Backend) BeginFrame(target renderer.FrameTarget) (device.RenderPass, error) {
	if b.released {
		return nil, device.ResourceError("begin frame", "", device.ErrReleased)
	}
	if b.open != nil {
		return nil, errors.New("begin frame: a frame is already open")
	}
	if len(b.acquireFailures) > 0 {
		status := b.acquireFailures[0]
		b.acquireFailures = b.acquireFailures[1:]
		return nil, &device.SurfaceAcquisitionError{Status: status}
	}
	if b.surface == nil {
		return nil, &device.SurfaceAcquisitionError{Status: device.SurfaceOutdated, Err: errors.New("surface not configured")}
	}
	depth, ok := target.Depth.(*TextureView)
	if !ok || depth == nil || depth.released {
		return nil, errors.New("begin frame: missing depth attachment")
	}
	if depth.width != b.surface.Width || depth.height != b.surface.Height {
		return nil, fmt.Errorf("begin frame: depth attachment %dx%d does not match surface %dx%d",
			depth.width, depth.height, b.surface.Width, b.surface.Height)
	}

	rec := &FrameRecord{Target: target, Width: b.surface.Width, Height: b.surface.Height}
	b.frames = append(b.frames, rec)
	b.open = newPass(rec)
	return b.open, nil
}

func (b *Backend) EndFrame() error {
	if b.open == nil {
		return errors.New("end frame: no frame is open")
	}
	b.open.rec.Submitted = true
	b.open = nil
	return nil
}

func (b *Backend) Present() {
	if len(b.frames) == 0 {
		return
	}
	last := b.frames[len(b.frames)-1]
	if last.Submitted && !last.Presented {
		last.Presented = true
		b.presents++
	}
}

func (b *Backend) Release() {
	if b.released {
		b.doubleReleases++
		return
	}
	b.released = true
}

// FailNextAcquire makes the next BeginFrame fail with status. Calls queue up in order.
//
// Parameters:
//   - status: the acquisition status the next frame reports
func (b *Backend) FailNextAcquire(status device.SurfaceStatus) {
	b.acquireFailures = append(b.acquireFailures, status)
}

// Surface returns the last applied surface configuration, or nil if the surface was never configured.
func (b *Backend) Surface() *renderer.SurfaceConfiguration {
	return b.surface
}

// ConfigureCount returns how many times the surface has been configured.
func (b *Backend) ConfigureCount() int {
	return b.configureCount
}

// Frames returns every frame opened so far, in order.
func (b *Backend) Frames() []*FrameRecord {
	return b.frames
}

// LastFrame returns the most recent frame or nil.
func (b *Backend) LastFrame() *FrameRecord {
	if len(b.frames) == 0 {
		return nil
	}
	return b.frames[len(b.frames)-1]
}

// Presents returns how many frames were presented.
func (b *Backend) Presents() int {
	return b.presents
}

// Buffers returns every buffer created so far, including released ones.
func (b *Backend) Buffers() []*Buffer {
	return b.buffers
}

// BindGroups returns every bind group created so far, including released ones.
func (b *Backend) BindGroups() []*BindGroup {
	return b.bindGroups
}

// DepthTextures returns every depth attachment created so far, including released ones.
func (b *Backend) DepthTextures() []*TextureView {
	return b.depths
}

// Pipelines returns every compiled pipeline, including released ones.
func (b *Backend) Pipelines() []*Pipeline {
	return b.pipelines
}

// AllocatedBytes returns the bytes held by live buffers.
func (b *Backend) AllocatedBytes() uint64 {
	return b.allocated
}

// LiveResources returns how many buffers, bind groups, depth textures, and pipelines are not yet released.
func (b *Backend) LiveResources() int {
	n := 0
	for _, buf := range b.buffers {
		if !buf.released {
			n++
		}
	}
	for _, bg := range b.bindGroups {
		if !bg.released {
			n++
		}
	}
	for _, tv := range b.depths {
		if !tv.released {
			n++
		}
	}
	for _, p := range b.pipelines {
		if !p.released {
			n++
		}
	}
	return n
}

// DoubleReleases returns how many Release calls hit an already released object.
func (b *Backend) DoubleReleases() int {
	return b.doubleReleases
}

// Released reports whether the backend itself has been released.
func (b *Backend) Released() bool {
	return b.released
}

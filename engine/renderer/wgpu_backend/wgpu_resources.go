package wgpu_backend

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/device"
	"github.com/cogentcore/webgpu/wgpu"
)

// depthFormat is the format of every depth attachment and of the pipelines' depth state.
const depthFormat = wgpu.TextureFormatDepth24Plus

type buffer struct {
	label    string
	buf      *wgpu.Buffer
	size     uint64
	usage    device.BufferUsage
	released bool
}

func (b *buffer) Label() string             { return b.label }
func (b *buffer) Size() uint64              { return b.size }
func (b *buffer) Usage() device.BufferUsage { return b.usage }

func (b *buffer) Release() {
	if b.released {
		return
	}
	b.released = true
	b.buf.Release()
}

// bindGroup owns the texture, view, and sampler of texture bind groups.
type bindGroup struct {
	label   string
	group   *wgpu.BindGroup
	texture *wgpu.Texture
	view    *wgpu.TextureView
	sampler *wgpu.Sampler

	released bool
}

func (g *bindGroup) Label() string { return g.label }

func (g *bindGroup) Release() {
	if g.released {
		return
	}
	g.released = true
	g.group.Release()
	if g.sampler != nil {
		g.sampler.Release()
	}
	if g.view != nil {
		g.view.Release()
	}
	if g.texture != nil {
		g.texture.Release()
	}
}

type textureView struct {
	label   string
	texture *wgpu.Texture
	view    *wgpu.TextureView
	width   int
	height  int

	released bool
}

func (t *textureView) Label() string { return t.label }
func (t *textureView) Width() int    { return t.width }
func (t *textureView) Height() int   { return t.height }

func (t *textureView) Release() {
	if t.released {
		return
	}
	t.released = true
	t.view.Release()
	t.texture.Release()
}

type renderPass struct {
	pass *wgpu.RenderPassEncoder
}

var _ device.RenderPass = &renderPass{}

func (p *renderPass) SetPipeline(rp device.RenderPipeline) {
	p.pass.SetPipeline(rp.(*renderPipeline).pipeline)
}

func (p *renderPass) SetBindGroup(group uint32, bg device.BindGroup) {
	p.pass.SetBindGroup(group, bg.(*bindGroup).group, nil)
}

func (p *renderPass) SetVertexBuffer(slot uint32, buf device.Buffer) {
	p.pass.SetVertexBuffer(slot, buf.(*buffer).buf, 0, wgpu.WholeSize)
}

func (p *renderPass) SetIndexBuffer(buf device.Buffer) {
	p.pass.SetIndexBuffer(buf.(*buffer).buf, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
}

func (p *renderPass) DrawIndexed(indexCount, instanceCount uint32) {
	p.pass.DrawIndexed(indexCount, instanceCount, 0, 0, 0)
}

// allocationError wraps err, marking exhausted device memory with device.ErrOutOfMemory.
func allocationError(op, label string, err error) error {
	if strings.Contains(strings.ToLower(err.Error()), "out of memory") {
		err = fmt.Errorf("%w: %v", device.ErrOutOfMemory, err)
	}
	return device.ResourceError(op, label, err)
}

func (b *Backend) CreateBuffer(desc device.BufferDescriptor) (device.Buffer, error) {
	if b.released {
		return nil, device.ResourceError("create buffer", desc.Label, device.ErrReleased)
	}
	size := desc.Size
	if size == 0 {
		size = uint64(len(desc.Contents))
	}
	if size == 0 || uint64(len(desc.Contents)) > size {
		return nil, device.ResourceError("create buffer", desc.Label, fmt.Errorf("%w: size %d, contents %d", device.ErrInvalidSize, size, len(desc.Contents)))
	}

	var (
		buf *wgpu.Buffer
		err error
	)
	if desc.Contents != nil {
		contents := desc.Contents
		if uint64(len(contents)) < size {
			contents = append(make([]byte, 0, size), contents...)
			contents = contents[:size]
		}
		buf, err = b.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    desc.Label,
			Contents: contents,
			Usage:    toWGPUBufferUsage(desc.Usage),
		})
	} else {
		buf, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: desc.Label,
			Size:  size,
			Usage: toWGPUBufferUsage(desc.Usage),
		})
	}
	if err != nil {
		return nil, allocationError("create buffer", desc.Label, err)
	}
	return &buffer{label: desc.Label, buf: buf, size: size, usage: desc.Usage}, nil
}

func (b *Backend) WriteBuffer(buf device.Buffer, offset uint64, data []byte) error {
	wb, ok := buf.(*buffer)
	if !ok || wb == nil {
		return device.ResourceError("write buffer", "", errors.New("buffer was not created by this backend"))
	}
	if wb.released {
		return device.ResourceError("write buffer", wb.label, device.ErrReleased)
	}
	if !wb.usage.Has(device.BufferUsageCopyDst) {
		return device.ResourceError("write buffer", wb.label, errors.New("buffer lacks copy-dst usage"))
	}
	if offset+uint64(len(data)) > wb.size {
		return device.ResourceError("write buffer", wb.label, fmt.Errorf("%w: %d bytes at %d into %d-byte buffer", device.ErrInvalidSize, len(data), offset, wb.size))
	}
	if err := b.queue.WriteBuffer(wb.buf, offset, data); err != nil {
		return device.ResourceError("write buffer", wb.label, err)
	}
	return nil
}

func (b *Backend) CreateUniformBindGroup(label string, buf device.Buffer) (device.BindGroup, error) {
	wb, ok := buf.(*buffer)
	if !ok || wb == nil || wb.released {
		return nil, device.ResourceError("create bind group", label, errors.New("invalid or released buffer"))
	}
	group, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  label + " Bind Group",
		Layout: b.uniformLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: wb.buf, Offset: 0, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return nil, device.ResourceError("create bind group", label, err)
	}
	return &bindGroup{label: label, group: group}, nil
}

func (b *Backend) CreateTextureBindGroup(label string, tex common.TextureStagingData, sampler device.SamplerDescriptor) (device.BindGroup, error) {
	if err := tex.Validate(); err != nil {
		return nil, device.ResourceError("create texture", label, fmt.Errorf("%w: %v", device.ErrInvalidSize, err))
	}

	size := wgpu.Extent3D{Width: tex.Width, Height: tex.Height, DepthOrArrayLayers: 1}
	texture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label + " Texture",
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		Size:          size,
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, allocationError("create texture", label, err)
	}

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		tex.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  tex.Width * 4,
			RowsPerImage: tex.Height,
		},
		&size,
	)

	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, device.ResourceError("create texture view", label, err)
	}

	samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         label + " Sampler",
		AddressModeU:  toWGPUAddressMode(sampler.AddressModeU),
		AddressModeV:  toWGPUAddressMode(sampler.AddressModeV),
		AddressModeW:  toWGPUAddressMode(sampler.AddressModeW),
		MagFilter:     toWGPUFilterMode(sampler.MagFilter),
		MinFilter:     toWGPUFilterMode(sampler.MinFilter),
		MipmapFilter:  toWGPUMipmapFilterMode(sampler.MipmapFilter),
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		view.Release()
		texture.Release()
		return nil, device.ResourceError("create sampler", label, err)
	}

	group, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  label + " Bind Group",
		Layout: b.textureLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: view},
			{Binding: 1, Sampler: samp},
		},
	})
	if err != nil {
		samp.Release()
		view.Release()
		texture.Release()
		return nil, device.ResourceError("create bind group", label, err)
	}
	return &bindGroup{label: label, group: group, texture: texture, view: view, sampler: samp}, nil
}

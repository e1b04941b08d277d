// Package device defines the backend-neutral GPU handles used by the scene core. The wgpu and headless
// renderer backends implement these interfaces; nothing above the renderer imports a graphics API directly.
package device

import "github.com/Carmen-Shannon/oxy-scene/common"

// BufferUsage is a bit set describing how a buffer may be used.
type BufferUsage uint32

const (
	BufferUsageVertex BufferUsage = 1 << iota
	BufferUsageIndex
	BufferUsageUniform
	BufferUsageCopyDst
)

// Has reports whether every bit of flag is set in u.
func (u BufferUsage) Has(flag BufferUsage) bool {
	return u&flag == flag
}

// AddressMode controls texture coordinate wrapping outside [0, 1].
type AddressMode int

const (
	AddressModeRepeat AddressMode = iota
	AddressModeClampToEdge
	AddressModeMirrorRepeat
)

// FilterMode controls texel filtering for magnification, minification, and mip selection.
type FilterMode int

const (
	FilterModeLinear FilterMode = iota
	FilterModeNearest
)

// SamplerDescriptor is the backend-neutral sampler configuration for a texture bind group.
// The zero value is a linear, repeating sampler.
type SamplerDescriptor struct {
	AddressModeU, AddressModeV, AddressModeW AddressMode
	MagFilter, MinFilter, MipmapFilter       FilterMode
}

// BufferDescriptor describes a buffer allocation.
type BufferDescriptor struct {
	// Label identifies the buffer in diagnostics.
	Label string
	// Size is the buffer size in bytes. When zero, len(Contents) is used.
	Size uint64
	// Usage is the set of permitted buffer usages.
	Usage BufferUsage
	// Contents, when non-nil, is copied into the buffer at creation.
	Contents []byte
}

// Buffer is a device-resident byte buffer. Its size never changes after creation.
type Buffer interface {
	Label() string
	Size() uint64
	Usage() BufferUsage
	Release()
}

// BindGroup is an immutable, bindable set of resources matching one of the pipeline's bind group layouts.
type BindGroup interface {
	Label() string
	Release()
}

// TextureView is a view of a device texture, used for the depth attachment.
type TextureView interface {
	Label() string
	Width() int
	Height() int
	Release()
}

// RenderPipeline is a compiled render pipeline.
type RenderPipeline interface {
	Label() string
	Release()
}

// RenderPass records draw commands into an open render pass.
type RenderPass interface {
	// SetPipeline binds the pipeline used by subsequent draws.
	SetPipeline(p RenderPipeline)

	// SetBindGroup binds a bind group to the given group index.
	SetBindGroup(group uint32, bg BindGroup)

	// SetVertexBuffer binds the whole of buf to the given vertex slot.
	SetVertexBuffer(slot uint32, buf Buffer)

	// SetIndexBuffer binds the whole of buf as a 32-bit index buffer.
	SetIndexBuffer(buf Buffer)

	// DrawIndexed issues an indexed draw over indexCount indices, instanced instanceCount times starting at instance 0.
	DrawIndexed(indexCount, instanceCount uint32)
}

// Device creates and writes GPU resources.
type Device interface {
	// CreateBuffer allocates a buffer.
	//
	// Parameters:
	//   - desc: the buffer descriptor
	//
	// Returns:
	//   - Buffer: the new buffer
	//   - error: a *DeviceResourceError if the allocation fails
	CreateBuffer(desc BufferDescriptor) (Buffer, error)

	// WriteBuffer copies data into buf at offset. The write must fit inside the buffer.
	//
	// Parameters:
	//   - buf: the destination buffer
	//   - offset: byte offset into buf
	//   - data: the bytes to copy
	//
	// Returns:
	//   - error: a *DeviceResourceError if the write is out of range or the buffer was released
	WriteBuffer(buf Buffer, offset uint64, data []byte) error

	// CreateUniformBindGroup creates a bind group exposing buf as a vertex-stage uniform at binding 0.
	//
	// Parameters:
	//   - label: diagnostic label
	//   - buf: the uniform buffer
	//
	// Returns:
	//   - BindGroup: the new bind group
	//   - error: a *DeviceResourceError if creation fails
	CreateUniformBindGroup(label string, buf Buffer) (BindGroup, error)

	// CreateTextureBindGroup uploads tex and creates a fragment-stage bind group with the texture at
	// binding 0 and a sampler at binding 1.
	//
	// Parameters:
	//   - label: diagnostic label
	//   - tex: RGBA8 texel data
	//   - sampler: the sampler configuration
	//
	// Returns:
	//   - BindGroup: the new bind group, which owns the texture and sampler
	//   - error: a *DeviceResourceError if creation fails
	CreateTextureBindGroup(label string, tex common.TextureStagingData, sampler SamplerDescriptor) (BindGroup, error)
}

// BindGroupKind identifies one of the bind group layouts the backends know how to build.
type BindGroupKind int

const (
	// BindGroupKindUniform is a single vertex-stage uniform buffer at binding 0.
	BindGroupKindUniform BindGroupKind = iota
	// BindGroupKindTexture is a fragment-stage 2D float texture at binding 0 and a filtering sampler at binding 1.
	BindGroupKindTexture
)

package bind_group_provider

import (
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/device"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label added for convenience.
	label string

	// The following fields are device resources and must be released when no longer needed.

	// bindGroup is the bind group created for this provider, or nil if the provider has none.
	bindGroup device.BindGroup
	// buffers holds the buffers exposed through the bind group, keyed by binding index.
	buffers map[int]device.Buffer

	// The following fields are specific to mesh providers.

	// vertexBuffer is the vertex buffer bound at vertex slot 0, or nil.
	vertexBuffer device.Buffer
	// indexBuffer is the 32-bit index buffer, or nil.
	indexBuffer device.Buffer
	// indexCount is the number of indices issued per draw.
	indexCount int

	released bool
}

// BindGroupProvider groups the device resources one component needs at draw time.
// Uniform resources hold a buffer at binding 0 plus the bind group exposing it, materials hold a texture bind group,
// and meshes hold vertex and index buffers with their index count.
//
// Usage pattern:
//  1. Component creates its device resources through a device.Device
//  2. Component stores them on a provider via the setters
//  3. Draw routines read them back through the accessors
//  4. The owner calls Release once, which releases every stored handle exactly once
type BindGroupProvider interface {
	// Release releases every device resource held by this provider. Calling Release again is a no-op.
	Release()

	// Released reports whether Release has been called.
	//
	// Returns:
	//   - bool: true once the provider has been released
	Released() bool

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// BindGroup returns the bind group, or nil if none was set.
	//
	// Returns:
	//   - device.BindGroup: the bind group or nil
	BindGroup() device.BindGroup

	// Buffer returns the buffer stored at binding, or nil if not set.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - device.Buffer: the buffer or nil
	Buffer(binding int) device.Buffer

	// Buffers returns a map of all buffers associated with this provider, keyed by binding index.
	//
	// Returns:
	//   - map[int]device.Buffer: a map of buffers keyed by binding index
	Buffers() map[int]device.Buffer

	// VertexBuffer returns the vertex buffer, or nil if not set.
	//
	// Returns:
	//   - device.Buffer: the vertex buffer or nil
	VertexBuffer() device.Buffer

	// IndexBuffer returns the index buffer, or nil if not set.
	//
	// Returns:
	//   - device.Buffer: the index buffer or nil
	IndexBuffer() device.Buffer

	// IndexCount returns the number of indices for draw calls.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// SetBindGroup stores the bind group.
	//
	// Parameters:
	//   - bg: the created bind group
	SetBindGroup(bg device.BindGroup)

	// SetBuffer stores a buffer for a binding index.
	//
	// Parameters:
	//   - binding: the binding index
	//   - buf: the created buffer
	SetBuffer(binding int, buf device.Buffer)

	// SetVertexBuffer stores the vertex buffer.
	//
	// Parameters:
	//   - buf: the created vertex buffer
	SetVertexBuffer(buf device.Buffer)

	// SetIndexBuffer stores the index buffer.
	//
	// Parameters:
	//   - buf: the created index buffer
	SetIndexBuffer(buf device.Buffer)

	// SetIndexCount sets the number of indices for draw calls.
	//
	// Parameters:
	//   - count: the index count
	SetIndexCount(count int)
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new BindGroupProvider with the provided options.
//
// Parameters:
//   - label: the debug label for the provider
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: a new instance of BindGroupProvider configured with the provided options
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:   label,
		buffers: make(map[int]device.Buffer),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) Released() bool {
	return p.released
}

func (p *bindGroupProvider) BindGroup() device.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) Buffer(binding int) device.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) Buffers() map[int]device.Buffer {
	return p.buffers
}

func (p *bindGroupProvider) VertexBuffer() device.Buffer {
	return p.vertexBuffer
}

func (p *bindGroupProvider) IndexBuffer() device.Buffer {
	return p.indexBuffer
}

func (p *bindGroupProvider) IndexCount() int {
	return p.indexCount
}

func (p *bindGroupProvider) SetBindGroup(bg device.BindGroup) {
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBuffer(binding int, buf device.Buffer) {
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) SetVertexBuffer(buf device.Buffer) {
	p.vertexBuffer = buf
}

func (p *bindGroupProvider) SetIndexBuffer(buf device.Buffer) {
	p.indexBuffer = buf
}

func (p *bindGroupProvider) SetIndexCount(count int) {
	p.indexCount = count
}

func (p *bindGroupProvider) Release() {
	if p.released {
		return
	}
	p.released = true

	// the bind group references the buffers, so it goes first
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, i)
	}
	if p.vertexBuffer != nil {
		p.vertexBuffer.Release()
		p.vertexBuffer = nil
	}
	if p.indexBuffer != nil {
		p.indexBuffer.Release()
		p.indexBuffer = nil
	}
	p.indexCount = 0
}

package bind_group_provider

import "github.com/Carmen-Shannon/oxy-scene/engine/renderer/device"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithBindGroup sets the bind group for this provider.
//
// Parameters:
//   - bg: the bind group to set for this provider
//
// Returns:
//   - BindGroupProviderOption: a function that sets the bind group for this provider
func WithBindGroup(bg device.BindGroup) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.bindGroup = bg
	}
}

// WithBuffer sets a buffer for a specific binding index.
//
// Parameters:
//   - binding: the binding index for this buffer
//   - buf: the buffer to associate with this binding
//
// Returns:
//   - BindGroupProviderOption: a function that sets the buffer for the specified binding
func WithBuffer(binding int, buf device.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.buffers[binding] = buf
	}
}

// WithMesh sets the vertex buffer, index buffer, and index count of a mesh provider.
//
// Parameters:
//   - vertices: the vertex buffer
//   - indices: the 32-bit index buffer
//   - indexCount: the number of indices issued per draw
//
// Returns:
//   - BindGroupProviderOption: a function that sets the mesh buffers for this provider
func WithMesh(vertices, indices device.Buffer, indexCount int) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.vertexBuffer = vertices
		p.indexBuffer = indices
		p.indexCount = indexCount
	}
}

package material

import (
	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/device"
)

// MaterialBuilderOption is a functional option applied to a material during construction via NewMaterial.
type MaterialBuilderOption func(*material)

// WithName sets the material identifier.
//
// Parameters:
//   - name: the name of the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithBaseColor sets the albedo/diffuse RGBA color of the material.
//
// Parameters:
//   - color: the base color as RGBA values
//
// Returns:
//   - MaterialBuilderOption: a function that applies the base color option to a material
func WithBaseColor(color [4]float32) MaterialBuilderOption {
	return func(m *material) {
		m.baseColor = color
	}
}

// WithDiffuseTexture sets the RGBA8 diffuse texture of the material.
//
// Parameters:
//   - tex: the staged texel data
//
// Returns:
//   - MaterialBuilderOption: a function that applies the diffuse texture option to a material
func WithDiffuseTexture(tex common.TextureStagingData) MaterialBuilderOption {
	return func(m *material) {
		m.diffuseTexture = &tex
	}
}

// WithSampler sets the sampler configuration of the diffuse texture.
//
// Parameters:
//   - sampler: the sampler configuration
//
// Returns:
//   - MaterialBuilderOption: a function that applies the sampler option to a material
func WithSampler(sampler device.SamplerDescriptor) MaterialBuilderOption {
	return func(m *material) {
		m.sampler = sampler
	}
}

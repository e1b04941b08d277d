package material

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/device"
)

// material is the implementation of the Material interface.
type material struct {
	name              string
	baseColor         [4]float32
	diffuseTexture    *common.TextureStagingData
	sampler           device.SamplerDescriptor
	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Material defines the interface for a render material, encapsulating surface
// properties, the diffuse texture, and the bind group needed for draw calls.
//
// Surface properties (name, base color, texture, sampler) are set at load time and are read-only through this
// interface. The bind group is created by Init during the loader's upload phase and released with Release.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// BaseColor retrieves the albedo/diffuse RGBA color of the material.
	//
	// Returns:
	//   - [4]float32: the base color as RGBA values
	BaseColor() [4]float32

	// DiffuseTexture retrieves the staged diffuse texture, or nil when the base color is used instead.
	//
	// Returns:
	//   - *common.TextureStagingData: the diffuse texture, or nil
	DiffuseTexture() *common.TextureStagingData

	// Sampler retrieves the sampler configuration of the diffuse texture.
	//
	// Returns:
	//   - device.SamplerDescriptor: the sampler configuration
	Sampler() device.SamplerDescriptor

	// Init uploads the diffuse texture and creates the material bind group. Without a diffuse texture a single
	// texel of the base color is uploaded. Calling Init on an initialized material is a no-op.
	//
	// Parameters:
	//   - dev: the device to create the bind group on
	//
	// Returns:
	//   - error: an error if the texture is malformed or the bind group cannot be created
	Init(dev device.Device) error

	// BindGroup retrieves the material bind group, or nil before Init.
	//
	// Returns:
	//   - device.BindGroup: the bind group or nil
	BindGroup() device.BindGroup

	// BindGroupProvider retrieves the bind group provider holding GPU-side resources for this material.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the bind group provider, or nil if not yet initialized
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// Release releases the material's GPU resources.
	Release()
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		baseColor: [4]float32{1, 1, 1, 1},
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) BaseColor() [4]float32 {
	return m.baseColor
}

func (m *material) DiffuseTexture() *common.TextureStagingData {
	return m.diffuseTexture
}

func (m *material) Sampler() device.SamplerDescriptor {
	return m.sampler
}

func (m *material) Init(dev device.Device) error {
	if m.bindGroupProvider != nil {
		return nil
	}
	tex := common.SolidTexture(m.baseColor)
	if m.diffuseTexture != nil {
		if err := m.diffuseTexture.Validate(); err != nil {
			return fmt.Errorf("material %q: %w", m.name, err)
		}
		tex = *m.diffuseTexture
	}
	bg, err := dev.CreateTextureBindGroup(m.name, tex, m.sampler)
	if err != nil {
		return err
	}
	m.bindGroupProvider = bind_group_provider.NewBindGroupProvider(m.name, bind_group_provider.WithBindGroup(bg))
	return nil
}

func (m *material) BindGroup() device.BindGroup {
	if m.bindGroupProvider == nil {
		return nil
	}
	return m.bindGroupProvider.BindGroup()
}

func (m *material) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return m.bindGroupProvider
}

func (m *material) Release() {
	if m.bindGroupProvider != nil {
		m.bindGroupProvider.Release()
	}
}

package model

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/device"
)

// MeshData is the CPU-side description of one mesh.
type MeshData struct {
	// Label identifies the mesh in diagnostics.
	Label string

	// Vertices are the mesh vertices.
	Vertices []GPUVertex

	// Indices are triangle-list indices into Vertices.
	Indices []uint32

	// Material is the index of the mesh's material in ModelData.Materials.
	Material int
}

// MaterialData is the CPU-side description of one material.
type MaterialData struct {
	// Name is the material identifier.
	Name string

	// BaseColor is the albedo/diffuse color (RGBA), used as a single texel when Texture is nil.
	BaseColor [4]float32

	// Texture is the optional RGBA8 diffuse texture.
	Texture *common.TextureStagingData

	// Sampler is the diffuse texture's sampler configuration.
	Sampler device.SamplerDescriptor
}

// ModelData is the CPU-side description of a model, the input of the loader.
type ModelData struct {
	// Name is the model identifier.
	Name string

	// Meshes are drawn in order.
	Meshes []MeshData

	// Materials are referenced by index from each mesh.
	Materials []MaterialData
}

// ModelLoadError reports malformed model data or a failed upload.
type ModelLoadError struct {
	// Model is the name of the model being loaded.
	Model string

	// Reason describes what is wrong with the data.
	Reason string

	// Err is the underlying cause, if any.
	Err error
}

func (e *ModelLoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("load model %q: %s", e.Model, e.Reason)
	}
	return fmt.Sprintf("load model %q: %s: %v", e.Model, e.Reason, e.Err)
}

func (e *ModelLoadError) Unwrap() error {
	return e.Err
}

func loadError(model, reason string, err error) error {
	return &ModelLoadError{Model: model, Reason: reason, Err: err}
}

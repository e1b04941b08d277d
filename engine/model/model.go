package model

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/material"
)

// model is the implementation of the Model interface.
type model struct {
	name      string
	meshes    []Mesh
	materials []material.Material
}

// Mesh is one uploaded mesh of a Model.
type Mesh struct {
	// Label identifies the mesh in diagnostics.
	Label string

	// Provider holds the vertex buffer, index buffer, and index count.
	Provider bind_group_provider.BindGroupProvider

	// Material is the index of the mesh's material in the owning Model.
	Material int
}

// Model is an uploaded, immutable set of meshes and the materials they reference.
// Every mesh's material index is guaranteed to be in range.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the name of the model
	Name() string

	// Meshes retrieves the meshes in draw order.
	//
	// Returns:
	//   - []Mesh: the meshes
	Meshes() []Mesh

	// Materials retrieves the materials referenced by the meshes.
	//
	// Returns:
	//   - []material.Material: the materials
	Materials() []material.Material

	// Material retrieves the material used by mesh.
	//
	// Parameters:
	//   - mesh: the mesh whose material to look up
	//
	// Returns:
	//   - material.Material: the material
	Material(mesh Mesh) material.Material

	// Release releases every mesh buffer and material bind group.
	Release()
}

var _ Model = &model{}

// PreparedMesh is a validated mesh with its vertex and index data marshalled for upload.
type PreparedMesh struct {
	Label      string
	VertexData []byte
	IndexData  []byte
	IndexCount int
	Material   int
}

// Prepared is the CPU-side result of Prepare, ready for Upload.
type Prepared struct {
	Name      string
	Meshes    []PreparedMesh
	Materials []MaterialData
}

// Prepare validates data and marshals every mesh. It touches no device and is safe to run concurrently.
//
// Parameters:
//   - data: the model description
//
// Returns:
//   - *Prepared: the marshalled model
//   - error: a *ModelLoadError describing the first problem found
func Prepare(data ModelData) (*Prepared, error) {
	if len(data.Meshes) == 0 {
		return nil, loadError(data.Name, "model has no meshes", nil)
	}
	if len(data.Materials) == 0 {
		return nil, loadError(data.Name, "model has no materials", nil)
	}
	for i, mat := range data.Materials {
		if mat.Texture == nil {
			continue
		}
		if err := mat.Texture.Validate(); err != nil {
			return nil, loadError(data.Name, fmt.Sprintf("material %d (%q) has a malformed texture", i, mat.Name), err)
		}
	}

	p := &Prepared{Name: data.Name, Materials: data.Materials, Meshes: make([]PreparedMesh, 0, len(data.Meshes))}
	for i, mesh := range data.Meshes {
		label := common.Coalesce(mesh.Label, fmt.Sprintf("%s_mesh_%d", data.Name, i))
		switch {
		case len(mesh.Vertices) == 0:
			return nil, loadError(data.Name, fmt.Sprintf("mesh %q has no vertices", label), nil)
		case len(mesh.Indices) == 0:
			return nil, loadError(data.Name, fmt.Sprintf("mesh %q has no indices", label), nil)
		case len(mesh.Indices)%3 != 0:
			return nil, loadError(data.Name, fmt.Sprintf("mesh %q has %d indices, unsupported primitive topology (want triangle list)", label, len(mesh.Indices)), nil)
		case mesh.Material < 0 || mesh.Material >= len(data.Materials):
			return nil, loadError(data.Name, fmt.Sprintf("mesh %q references material %d of %d", label, mesh.Material, len(data.Materials)), nil)
		}
		for _, idx := range mesh.Indices {
			if int(idx) >= len(mesh.Vertices) {
				return nil, loadError(data.Name, fmt.Sprintf("mesh %q index %d out of range of %d vertices", label, idx, len(mesh.Vertices)), nil)
			}
		}
		p.Meshes = append(p.Meshes, PreparedMesh{
			Label:      label,
			VertexData: MarshalVertices(mesh.Vertices),
			IndexData:  common.AppendUint32s(make([]byte, 0, len(mesh.Indices)*4), mesh.Indices),
			IndexCount: len(mesh.Indices),
			Material:   mesh.Material,
		})
	}
	return p, nil
}

// Upload creates the device buffers and material bind groups of a prepared model. On failure everything
// created so far is released.
//
// Parameters:
//   - dev: the device to upload to
//   - p: the prepared model
//
// Returns:
//   - Model: the uploaded model
//   - error: a *ModelLoadError wrapping the device error
func Upload(dev device.Device, p *Prepared) (Model, error) {
	m := &model{name: p.Name}

	for i, md := range p.Materials {
		opts := []material.MaterialBuilderOption{
			material.WithName(common.Coalesce(md.Name, fmt.Sprintf("%s_material_%d", p.Name, i))),
			material.WithBaseColor(md.BaseColor),
			material.WithSampler(md.Sampler),
		}
		if md.Texture != nil {
			opts = append(opts, material.WithDiffuseTexture(*md.Texture))
		}
		mat := material.NewMaterial(opts...)
		if err := mat.Init(dev); err != nil {
			m.Release()
			return nil, loadError(p.Name, fmt.Sprintf("upload material %d", i), err)
		}
		m.materials = append(m.materials, mat)
	}

	for _, pm := range p.Meshes {
		vb, err := dev.CreateBuffer(device.BufferDescriptor{
			Label:    pm.Label + "_vertices",
			Usage:    device.BufferUsageVertex | device.BufferUsageCopyDst,
			Contents: pm.VertexData,
		})
		if err != nil {
			m.Release()
			return nil, loadError(p.Name, fmt.Sprintf("upload mesh %q", pm.Label), err)
		}
		ib, err := dev.CreateBuffer(device.BufferDescriptor{
			Label:    pm.Label + "_indices",
			Usage:    device.BufferUsageIndex | device.BufferUsageCopyDst,
			Contents: pm.IndexData,
		})
		if err != nil {
			vb.Release()
			m.Release()
			return nil, loadError(p.Name, fmt.Sprintf("upload mesh %q", pm.Label), err)
		}
		m.meshes = append(m.meshes, Mesh{
			Label:    pm.Label,
			Provider: bind_group_provider.NewBindGroupProvider(pm.Label, bind_group_provider.WithMesh(vb, ib, pm.IndexCount)),
			Material: pm.Material,
		})
	}
	return m, nil
}

// NewModel validates and uploads data in one step.
//
// Parameters:
//   - dev: the device to upload to
//   - data: the model description
//
// Returns:
//   - Model: the uploaded model
//   - error: a *ModelLoadError
func NewModel(dev device.Device, data ModelData) (Model, error) {
	p, err := Prepare(data)
	if err != nil {
		return nil, err
	}
	return Upload(dev, p)
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Meshes() []Mesh {
	return m.meshes
}

func (m *model) Materials() []material.Material {
	return m.materials
}

func (m *model) Material(mesh Mesh) material.Material {
	return m.materials[mesh.Material]
}

func (m *model) Release() {
	for _, mesh := range m.meshes {
		mesh.Provider.Release()
	}
	for _, mat := range m.materials {
		mat.Release()
	}
}

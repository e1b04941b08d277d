package model

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/headless"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangle() []GPUVertex {
	return []GPUVertex{
		{Position: [3]float32{0, 0, 0}},
		{Position: [3]float32{1, 0, 0}},
		{Position: [3]float32{0, 1, 0}},
	}
}

func TestPrepareRejectsMalformedData(t *testing.T) {
	red := []MaterialData{{Name: "red", BaseColor: [4]float32{1, 0, 0, 1}}}
	cases := []struct {
		name   string
		data   ModelData
		reason string
	}{
		{"no meshes", ModelData{Name: "m", Materials: red}, "no meshes"},
		{"no materials", ModelData{Name: "m", Meshes: []MeshData{{Vertices: triangle(), Indices: []uint32{0, 1, 2}}}}, "no materials"},
		{"material out of range", ModelData{Name: "m", Materials: red, Meshes: []MeshData{{Vertices: triangle(), Indices: []uint32{0, 1, 2}, Material: 1}}}, "references material 1 of 1"},
		{"negative material", ModelData{Name: "m", Materials: red, Meshes: []MeshData{{Vertices: triangle(), Indices: []uint32{0, 1, 2}, Material: -1}}}, "references material -1"},
		{"not triangles", ModelData{Name: "m", Materials: red, Meshes: []MeshData{{Vertices: triangle(), Indices: []uint32{0, 1}}}}, "unsupported primitive topology"},
		{"index out of range", ModelData{Name: "m", Materials: red, Meshes: []MeshData{{Vertices: triangle(), Indices: []uint32{0, 1, 3}}}}, "out of range"},
		{"no vertices", ModelData{Name: "m", Materials: red, Meshes: []MeshData{{Indices: []uint32{0, 1, 2}}}}, "no vertices"},
		{"bad texture", ModelData{Name: "m", Materials: []MaterialData{{Texture: &common.TextureStagingData{Width: 2, Height: 2}}}, Meshes: []MeshData{{Vertices: triangle(), Indices: []uint32{0, 1, 2}}}}, "malformed texture"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Prepare(tc.data)
			var mle *ModelLoadError
			require.ErrorAs(t, err, &mle)
			assert.Equal(t, "m", mle.Model)
			assert.Contains(t, mle.Error(), tc.reason)
		})
	}
}

func TestNewModelUploadsMeshesAndMaterials(t *testing.T) {
	backend := headless.NewHeadlessBackend()
	m, err := NewModel(backend, Cube("crate", 1, [4]float32{1, 1, 1, 1}))
	require.NoError(t, err)

	require.Len(t, m.Meshes(), 1)
	require.Len(t, m.Materials(), 1)
	mesh := m.Meshes()[0]
	assert.Equal(t, 36, mesh.Provider.IndexCount())
	assert.Equal(t, uint64(24*GPUVertexSize), mesh.Provider.VertexBuffer().Size())
	assert.Equal(t, uint64(36*4), mesh.Provider.IndexBuffer().Size())
	assert.True(t, mesh.Provider.VertexBuffer().Usage().Has(device.BufferUsageVertex))
	assert.True(t, mesh.Provider.IndexBuffer().Usage().Has(device.BufferUsageIndex))
	assert.Same(t, m.Materials()[0], m.Material(mesh))
	assert.NotNil(t, m.Material(mesh).BindGroup())

	m.Release()
	assert.Zero(t, backend.LiveResources())
}

func TestUploadFailureReleasesPartialModel(t *testing.T) {
	// room for the vertex buffer of the quad but not its index buffer
	backend := headless.NewHeadlessBackend(headless.WithAllocationLimit(4 * GPUVertexSize))
	_, err := NewModel(backend, Quad("panel", [4]float32{1, 1, 1, 1}))

	var mle *ModelLoadError
	require.ErrorAs(t, err, &mle)
	assert.True(t, errors.Is(err, device.ErrOutOfMemory))
	assert.Zero(t, backend.LiveResources())
}

func TestCubeWindsOutward(t *testing.T) {
	data := Cube("c", 2, [4]float32{})
	mesh := data.Meshes[0]
	for i := 0; i < len(mesh.Indices); i += 3 {
		a := mgl32.Vec3(mesh.Vertices[mesh.Indices[i]].Position)
		b := mgl32.Vec3(mesh.Vertices[mesh.Indices[i+1]].Position)
		c := mgl32.Vec3(mesh.Vertices[mesh.Indices[i+2]].Position)
		normal := b.Sub(a).Cross(c.Sub(a))
		centroid := a.Add(b).Add(c).Mul(1.0 / 3)
		assert.Greater(t, normal.Dot(centroid), float32(0), "triangle %d faces inward", i/3)
		for _, p := range []mgl32.Vec3{a, b, c} {
			for _, v := range p {
				assert.Equal(t, float32(1), abs(v))
			}
		}
	}
}

func TestQuadWindsTowardViewer(t *testing.T) {
	mesh := Quad("q", [4]float32{}).Meshes[0]
	for i := 0; i < len(mesh.Indices); i += 3 {
		a := mgl32.Vec3(mesh.Vertices[mesh.Indices[i]].Position)
		b := mgl32.Vec3(mesh.Vertices[mesh.Indices[i+1]].Position)
		c := mgl32.Vec3(mesh.Vertices[mesh.Indices[i+2]].Position)
		assert.Greater(t, b.Sub(a).Cross(c.Sub(a)).Z(), float32(0))
	}
}

func TestMarshalVerticesLayout(t *testing.T) {
	blob := MarshalVertices([]GPUVertex{{Position: [3]float32{1, 2, 3}, TexCoord: [2]float32{0.5, 1}}, {}})
	assert.Len(t, blob, 2*GPUVertexSize)
	assert.Equal(t, GPUVertex{Position: [3]float32{1, 2, 3}, TexCoord: [2]float32{0.5, 1}}.Marshal(), blob[:GPUVertexSize])
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

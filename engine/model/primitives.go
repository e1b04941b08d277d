package model

// Cube returns a single-mesh, single-material cube centered at the origin with the given edge length.
// Each face has its own four vertices so texture coordinates run 0..1 per face; triangles wind counter-clockwise
// seen from outside.
//
// Parameters:
//   - name: the model name
//   - size: the edge length
//   - color: the material base color
//
// Returns:
//   - ModelData: the cube description
func Cube(name string, size float32, color [4]float32) ModelData {
	h := size / 2
	// each face: origin corner, u axis, v axis (u x v points outward)
	faces := [6][3][3]float32{
		{{-h, -h, h}, {1, 0, 0}, {0, 1, 0}},  // +z
		{{h, -h, -h}, {-1, 0, 0}, {0, 1, 0}}, // -z
		{{h, -h, h}, {0, 0, -1}, {0, 1, 0}},  // +x
		{{-h, -h, -h}, {0, 0, 1}, {0, 1, 0}}, // -x
		{{-h, h, h}, {1, 0, 0}, {0, 0, -1}},  // +y
		{{-h, -h, -h}, {1, 0, 0}, {0, 0, 1}}, // -y
	}

	vertices := make([]GPUVertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, f := range faces {
		base := uint32(len(vertices))
		o, u, v := f[0], f[1], f[2]
		for _, uv := range [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}} {
			vertices = append(vertices, GPUVertex{
				Position: [3]float32{
					o[0] + (u[0]*uv[0]+v[0]*(1-uv[1]))*size,
					o[1] + (u[1]*uv[0]+v[1]*(1-uv[1]))*size,
					o[2] + (u[2]*uv[0]+v[2]*(1-uv[1]))*size,
				},
				TexCoord: uv,
			})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}

	return ModelData{
		Name:      name,
		Meshes:    []MeshData{{Label: name, Vertices: vertices, Indices: indices}},
		Materials: []MaterialData{{Name: name, BaseColor: color}},
	}
}

// Quad returns a single-mesh, single-material square spanning -1..1 on X and Y at z = 0, facing +Z, with texture
// coordinates 0..1 (v grows downward).
//
// Parameters:
//   - name: the model name
//   - color: the material base color
//
// Returns:
//   - ModelData: the quad description
func Quad(name string, color [4]float32) ModelData {
	vertices := []GPUVertex{
		{Position: [3]float32{-1, 1, 0}, TexCoord: [2]float32{0, 0}},
		{Position: [3]float32{-1, -1, 0}, TexCoord: [2]float32{0, 1}},
		{Position: [3]float32{1, -1, 0}, TexCoord: [2]float32{1, 1}},
		{Position: [3]float32{1, 1, 0}, TexCoord: [2]float32{1, 0}},
	}
	return ModelData{
		Name:      name,
		Meshes:    []MeshData{{Label: name, Vertices: vertices, Indices: []uint32{0, 1, 2, 0, 2, 3}}},
		Materials: []MaterialData{{Name: name, BaseColor: color}},
	}
}

package model

import (
	"encoding/binary"
	"math"
)

// GPUVertexSize is the size in bytes of a marshalled GPUVertex.
const GPUVertexSize = 20

// GPUVertex is the GPU representation of a single mesh vertex.
// Matches the object shader's VertexInput layout: position at location 0, texture coordinates at location 1.
type GPUVertex struct {
	Position [3]float32 // offset  0: vertex position in model space (12 bytes)
	TexCoord [2]float32 // offset 12: UV texture coordinate (8 bytes)
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g GPUVertex) Size() int {
	return GPUVertexSize
}

// Marshal serializes the GPUVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 20-byte buffer ready for GPU upload.
func (g GPUVertex) Marshal() []byte {
	return g.appendTo(make([]byte, 0, GPUVertexSize))
}

func (g GPUVertex) appendTo(buf []byte) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(g.Position[0]))
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(g.Position[1]))
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(g.Position[2]))
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(g.TexCoord[0]))
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(g.TexCoord[1]))
	return buf
}

// MarshalVertices serializes vertices back to back.
//
// Parameters:
//   - vertices: the vertices to encode
//
// Returns:
//   - []byte: len(vertices) * GPUVertexSize bytes
func MarshalVertices(vertices []GPUVertex) []byte {
	buf := make([]byte, 0, len(vertices)*GPUVertexSize)
	for _, v := range vertices {
		buf = v.appendTo(buf)
	}
	return buf
}

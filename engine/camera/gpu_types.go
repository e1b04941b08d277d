package camera

import (
	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUCameraUniform is the GPU representation of the camera uniform buffer.
// Matches the object shader's CameraUniform struct: a single mat4x4<f32>.
// Size: 64 bytes.
type GPUCameraUniform struct {
	ViewProj mgl32.Mat4 // offset 0: combined view-projection matrix (mat4x4<f32>)
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (64)
func (g GPUCameraUniform) Size() int {
	return common.Mat4Size
}

// Marshal serializes the GPUCameraUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g GPUCameraUniform) Marshal() []byte {
	return common.Mat4Bytes(g.ViewProj)
}

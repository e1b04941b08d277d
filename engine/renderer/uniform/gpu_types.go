package uniform

import (
	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Matrix is a column-major 4x4 float32 matrix uniform.
type Matrix mgl32.Mat4

// IdentityMatrix returns the identity matrix uniform.
func IdentityMatrix() Matrix {
	return Matrix(mgl32.Ident4())
}

// Size returns the size in bytes of the GPU representation.
//
// Returns:
//   - int: always 64
func (m Matrix) Size() int {
	return common.Mat4Size
}

// Marshal serializes the matrix column by column into little-endian bytes.
//
// Returns:
//   - []byte: the 64-byte representation
func (m Matrix) Marshal() []byte {
	return common.Mat4Bytes(mgl32.Mat4(m))
}

// Mat4 returns the matrix as an mgl32.Mat4.
func (m Matrix) Mat4() mgl32.Mat4 {
	return mgl32.Mat4(m)
}

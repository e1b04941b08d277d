package common

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Mat4Size is the size in bytes of a column-major 4x4 float32 matrix.
const Mat4Size = 64

// DepthRemap converts OpenGL clip-space depth [-1, 1] into the WebGPU convention [0, 1].
// It is left-multiplied onto projection matrices produced by mgl32: z' = 0.5z + 0.5w.
var DepthRemap = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// AppendMat4 appends the little-endian, column-major byte representation of m to dst.
//
// Parameters:
//   - dst: the byte slice to append to (may be nil)
//   - m: the matrix to encode
//
// Returns:
//   - []byte: dst extended by Mat4Size bytes
func AppendMat4(dst []byte, m mgl32.Mat4) []byte {
	for _, v := range m {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
	}
	return dst
}

// Mat4Bytes encodes m as a freshly allocated 64-byte blob suitable for a uniform buffer.
//
// Parameters:
//   - m: the matrix to encode
//
// Returns:
//   - []byte: the encoded matrix
func Mat4Bytes(m mgl32.Mat4) []byte {
	return AppendMat4(make([]byte, 0, Mat4Size), m)
}

// Mat4FromBytes decodes a 64-byte little-endian blob back into a matrix.
// Blobs shorter than Mat4Size decode into the identity matrix.
//
// Parameters:
//   - b: the encoded matrix
//
// Returns:
//   - mgl32.Mat4: the decoded matrix
func Mat4FromBytes(b []byte) mgl32.Mat4 {
	if len(b) < Mat4Size {
		return mgl32.Ident4()
	}
	var m mgl32.Mat4
	for i := range m {
		m[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return m
}

// AppendUint32s appends each value in little-endian order to dst.
func AppendUint32s(dst []byte, values []uint32) []byte {
	for _, v := range values {
		dst = binary.LittleEndian.AppendUint32(dst, v)
	}
	return dst
}

// QuatFromEulerDegrees builds a unit quaternion from XYZ euler angles expressed in degrees.
//
// Parameters:
//   - angles: rotation around X, Y and Z in degrees
//
// Returns:
//   - mgl32.Quat: the normalized rotation
func QuatFromEulerDegrees(angles mgl32.Vec3) mgl32.Quat {
	return mgl32.AnglesToQuat(
		mgl32.DegToRad(angles.X()),
		mgl32.DegToRad(angles.Y()),
		mgl32.DegToRad(angles.Z()),
		mgl32.XYZ,
	).Normalize()
}

// QuatFromAxisAngle builds a unit quaternion rotating degrees around axis.
// A zero-length axis yields the identity rotation.
//
// Parameters:
//   - axis: the rotation axis, normalized internally
//   - degrees: the rotation angle in degrees
//
// Returns:
//   - mgl32.Quat: the normalized rotation
func QuatFromAxisAngle(axis mgl32.Vec3, degrees float32) mgl32.Quat {
	if axis.Len() == 0 {
		return mgl32.QuatIdent()
	}
	return mgl32.QuatRotate(mgl32.DegToRad(degrees), axis.Normalize()).Normalize()
}

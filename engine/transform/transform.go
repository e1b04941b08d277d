// Package transform holds the pure math of object placement: a position/rotation/scale Transform and the
// per-instance position/rotation pairs drawn with a single object.
package transform

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform places an object in world space. Rotation is kept unit-length by the constructors and setters of
// the types that own a Transform; a zero-valued Transform is not valid, use Identity.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// Identity returns the transform at the origin with identity rotation and unit scale.
func Identity() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// New returns a transform with rotation normalized.
//
// Parameters:
//   - position: the world-space translation
//   - rotation: the orientation, normalized before use (a zero quaternion becomes identity)
//   - scale: the per-axis scale
//
// Returns:
//   - Transform: the transform
func New(position mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) Transform {
	return Transform{Position: position, Rotation: rotation.Normalize(), Scale: scale}
}

// Matrix returns translate(Position) * rotate(Rotation) * scale(Scale).
//
// Returns:
//   - mgl32.Mat4: the column-major model matrix
func (t Transform) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).
		Mul4(t.Rotation.Mat4()).
		Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// Decompose splits a translate * rotate * scale matrix back into its components. Scale is recovered as the
// length of each basis column. A mirroring matrix (negative determinant) cannot be expressed by a rotation, so its
// reflection is carried by a negative X scale; Matrix of the result reproduces m.
//
// Parameters:
//   - m: a matrix produced by Matrix or an equivalent composition
//
// Returns:
//   - Transform: the recovered components
func Decompose(m mgl32.Mat4) Transform {
	position := m.Col(3).Vec3()
	scale := mgl32.Vec3{m.Col(0).Vec3().Len(), m.Col(1).Vec3().Len(), m.Col(2).Vec3().Len()}
	if m.Mat3().Det() < 0 {
		scale[0] = -scale[0]
	}

	rot := mgl32.Ident4()
	for c := 0; c < 3; c++ {
		if scale[c] == 0 {
			continue
		}
		col := m.Col(c).Vec3().Mul(1 / scale[c])
		rot.SetCol(c, col.Vec4(0))
	}
	return Transform{
		Position: position,
		Rotation: mgl32.Mat4ToQuat(rot).Normalize(),
		Scale:    scale,
	}
}

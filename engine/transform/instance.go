package transform

import (
	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/go-gl/mathgl/mgl32"
)

// InstanceSize is the size in bytes of one raw instance matrix.
const InstanceSize = common.Mat4Size

// Instance is one copy of an object, placed relative to the object's own transform.
type Instance struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
}

// DefaultInstance is the single instance an object draws when none are supplied.
func DefaultInstance() Instance {
	return Instance{Rotation: mgl32.QuatIdent()}
}

// Raw returns translate(Position) * rotate(Rotation).
//
// Returns:
//   - mgl32.Mat4: the column-major instance matrix
func (i Instance) Raw() mgl32.Mat4 {
	return mgl32.Translate3D(i.Position.X(), i.Position.Y(), i.Position.Z()).Mul4(i.Rotation.Normalize().Mat4())
}

// MarshalInstances encodes the raw matrix of every instance, in order, into one contiguous blob.
//
// Parameters:
//   - instances: the instances to encode
//
// Returns:
//   - []byte: len(instances) * InstanceSize bytes
func MarshalInstances(instances []Instance) []byte {
	out := make([]byte, 0, len(instances)*InstanceSize)
	for _, inst := range instances {
		out = common.AppendMat4(out, inst.Raw())
	}
	return out
}

// Grid lays out perRow^3 instances on an integer lattice, iterating z, then x, then y, each position offset by
// -displacement. Each instance is rotated 45 degrees around its normalized position; the one at the origin keeps
// the identity rotation.
//
// Parameters:
//   - perRow: the number of instances along each axis, values below 1 yield no instances
//   - displacement: subtracted from every lattice position
//
// Returns:
//   - []Instance: the instances in iteration order
func Grid(perRow int, displacement mgl32.Vec3) []Instance {
	if perRow < 1 {
		return nil
	}
	out := make([]Instance, 0, perRow*perRow*perRow)
	for z := 0; z < perRow; z++ {
		for x := 0; x < perRow; x++ {
			for y := 0; y < perRow; y++ {
				pos := mgl32.Vec3{float32(x), float32(y), float32(z)}.Sub(displacement)
				out = append(out, Instance{
					Position: pos,
					Rotation: common.QuatFromAxisAngle(pos, 45),
				})
			}
		}
	}
	return out
}

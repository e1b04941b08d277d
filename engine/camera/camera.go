package camera

import (
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/uniform"
	"github.com/go-gl/mathgl/mgl32"
)

// cameraCount is an atomic counter used to generate unique labels for each camera instance.
var cameraCount atomic.Uint64

// ProjectionMode selects between perspective and orthographic projection.
type ProjectionMode int

const (
	ProjectionPerspective ProjectionMode = iota
	ProjectionOrthographic
)

// Projection describes how the camera projects view space into clip space.
type Projection struct {
	Mode ProjectionMode
	// FovY is the vertical field of view in degrees, used in perspective mode.
	FovY float32
}

// Perspective returns a perspective projection with the given vertical field of view in degrees.
func Perspective(fovYDegrees float32) Projection {
	return Projection{Mode: ProjectionPerspective, FovY: fovYDegrees}
}

// Orthographic returns an orthographic projection of the fixed box [-1, 1] x [-1, 1] between near and far.
func Orthographic() Projection {
	return Projection{Mode: ProjectionOrthographic}
}

type cameraImpl struct {
	label string

	eye    mgl32.Vec3
	target mgl32.Vec3
	up     mgl32.Vec3

	aspect     float32
	projection Projection
	near       float32
	far        float32

	viewMatrix           mgl32.Mat4
	projectionMatrix     mgl32.Mat4
	viewProjectionMatrix mgl32.Mat4

	uniform uniform.UniformResource[GPUCameraUniform]
}

// Camera defines the interface for the camera system.
// The camera holds look-at and projection settings. Setters only record the new values; the matrices and the
// uniform are refreshed by Update, which the owning scene calls every frame.
type Camera interface {
	// Label returns the camera's diagnostic label.
	//
	// Returns:
	//   - string: the label
	Label() string

	// Eye returns the camera position.
	//
	// Returns:
	//   - mgl32.Vec3: the eye position
	Eye() mgl32.Vec3

	// Target returns the point the camera looks at.
	//
	// Returns:
	//   - mgl32.Vec3: the look-at target
	Target() mgl32.Vec3

	// Up returns the camera's up vector.
	//
	// Returns:
	//   - mgl32.Vec3: the up vector
	Up() mgl32.Vec3

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Projection returns the projection mode and field of view.
	//
	// Returns:
	//   - Projection: the projection
	Projection() Projection

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// ViewMatrix returns the view matrix computed by the last Update.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the projection matrix computed by the last Update, depth remapped to [0, 1].
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// ViewProjection returns the combined matrix computed by the last Update. It is the identity until the
	// first Update.
	//
	// Returns:
	//   - mgl32.Mat4: the combined view-projection matrix
	ViewProjection() mgl32.Mat4

	// Uniform returns the camera's uniform resource.
	//
	// Returns:
	//   - uniform.UniformResource[GPUCameraUniform]: the uniform
	Uniform() uniform.UniformResource[GPUCameraUniform]

	// BindGroup returns the bind group exposing the camera uniform.
	//
	// Returns:
	//   - device.BindGroup: the bind group
	BindGroup() device.BindGroup

	// Update recomputes the view, projection, and view-projection matrices from the current parameters and
	// writes the view-projection matrix into the uniform. Parameters set since construction are checked first; an
	// invalid set leaves the matrices and the uniform untouched.
	//
	// Returns:
	//   - error: an error if the parameters are invalid or the uniform write fails
	Update() error

	// SetEye sets the camera position.
	//
	// Parameters:
	//   - eye: the new eye position
	SetEye(eye mgl32.Vec3)

	// SetTarget sets the look-at target.
	//
	// Parameters:
	//   - target: the new target
	SetTarget(target mgl32.Vec3)

	// SetUp sets the camera's up vector.
	//
	// Parameters:
	//   - up: the new up vector
	SetUp(up mgl32.Vec3)

	// SetAspect sets the aspect ratio (width / height).
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetProjection sets the projection mode and field of view.
	//
	// Parameters:
	//   - p: the projection
	SetProjection(p Projection)

	// SetNear sets the near clipping plane distance.
	//
	// Parameters:
	//   - near: near plane distance
	SetNear(near float32)

	// SetFar sets the far clipping plane distance.
	//
	// Parameters:
	//   - far: far plane distance
	SetFar(far float32)

	// Release releases the camera uniform.
	Release()
}

var _ Camera = &cameraImpl{}

// NewCamera creates a camera and allocates its uniform holding the identity matrix. No real view-projection
// matrix is computed until the first Update.
//
// Defaults: eye (0, 0, 7.5), target at the origin, up +Y, aspect 1, 45 degree perspective, near 0.1, far 100.
//
// Parameters:
//   - dev: the device the uniform is allocated on
//   - options: variadic list of CameraBuilderOption functions to configure the camera
//
// Returns:
//   - Camera: the camera
//   - error: an error for invalid parameters or a *device.DeviceResourceError if the uniform cannot be allocated
func NewCamera(dev device.Device, options ...CameraBuilderOption) (Camera, error) {
	c := &cameraImpl{
		label:                "camera_" + strconv.FormatUint(cameraCount.Add(1)-1, 10),
		eye:                  mgl32.Vec3{0, 0, 7.5},
		up:                   mgl32.Vec3{0, 1, 0},
		aspect:               1,
		projection:           Perspective(45),
		near:                 0.1,
		far:                  100,
		viewMatrix:           mgl32.Ident4(),
		projectionMatrix:     mgl32.Ident4(),
		viewProjectionMatrix: mgl32.Ident4(),
	}
	for _, opt := range options {
		opt(c)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("camera %q: %w", c.label, err)
	}

	u, err := uniform.NewUniformResource(dev, c.label, GPUCameraUniform{ViewProj: mgl32.Ident4()})
	if err != nil {
		return nil, err
	}
	c.uniform = u
	return c, nil
}

func (c *cameraImpl) validate() error {
	switch {
	case c.aspect <= 0:
		return fmt.Errorf("aspect %v must be positive", c.aspect)
	case c.near >= c.far:
		return fmt.Errorf("near %v must be less than far %v", c.near, c.far)
	case c.projection.Mode == ProjectionPerspective && c.near <= 0:
		return fmt.Errorf("perspective near %v must be positive", c.near)
	case c.projection.Mode == ProjectionPerspective && (c.projection.FovY <= 0 || c.projection.FovY >= 180):
		return fmt.Errorf("perspective fov %v must be in (0, 180) degrees", c.projection.FovY)
	case c.eye.Sub(c.target).Len() == 0:
		return errors.New("eye and target coincide")
	case c.up.Len() == 0:
		return errors.New("up vector is zero")
	case c.up.Cross(c.target.Sub(c.eye)).Len() == 0:
		return errors.New("up vector is parallel to the view direction")
	}
	return nil
}

func (c *cameraImpl) Label() string {
	return c.label
}

func (c *cameraImpl) Eye() mgl32.Vec3 {
	return c.eye
}

func (c *cameraImpl) Target() mgl32.Vec3 {
	return c.target
}

func (c *cameraImpl) Up() mgl32.Vec3 {
	return c.up
}

func (c *cameraImpl) Aspect() float32 {
	return c.aspect
}

func (c *cameraImpl) Projection() Projection {
	return c.projection
}

func (c *cameraImpl) Near() float32 {
	return c.near
}

func (c *cameraImpl) Far() float32 {
	return c.far
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjection() mgl32.Mat4 {
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Uniform() uniform.UniformResource[GPUCameraUniform] {
	return c.uniform
}

func (c *cameraImpl) BindGroup() device.BindGroup {
	return c.uniform.BindGroup()
}

func (c *cameraImpl) Update() error {
	if err := c.validate(); err != nil {
		return fmt.Errorf("camera %q: %w", c.label, err)
	}
	view := mgl32.LookAtV(c.eye, c.target, c.up)

	var proj mgl32.Mat4
	switch c.projection.Mode {
	case ProjectionOrthographic:
		proj = mgl32.Ortho(-1, 1, -1, 1, c.near, c.far)
	default:
		proj = mgl32.Perspective(mgl32.DegToRad(c.projection.FovY), c.aspect, c.near, c.far)
	}
	proj = common.DepthRemap.Mul4(proj)
	vp := proj.Mul4(view)

	if err := c.uniform.Write(GPUCameraUniform{ViewProj: vp}); err != nil {
		return err
	}
	c.viewMatrix = view
	c.projectionMatrix = proj
	c.viewProjectionMatrix = vp
	return nil
}

func (c *cameraImpl) SetEye(eye mgl32.Vec3) {
	c.eye = eye
}

func (c *cameraImpl) SetTarget(target mgl32.Vec3) {
	c.target = target
}

func (c *cameraImpl) SetUp(up mgl32.Vec3) {
	c.up = up
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.aspect = aspect
}

func (c *cameraImpl) SetProjection(p Projection) {
	c.projection = p
}

func (c *cameraImpl) SetNear(near float32) {
	c.near = near
}

func (c *cameraImpl) SetFar(far float32) {
	c.far = far
}

func (c *cameraImpl) Release() {
	c.uniform.Release()
}

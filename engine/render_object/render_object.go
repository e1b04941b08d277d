package render_object

import (
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-scene/engine/model"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/uniform"
	"github.com/Carmen-Shannon/oxy-scene/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrNoInstances is returned when an instance set would become empty.
var ErrNoInstances = errors.New("instance set is empty")

// objectCount generates unique ids and default labels.
var objectCount atomic.Uint64

type renderObject struct {
	id      uint64
	label   string
	enabled bool
	dev     device.Device
	mdl     model.Model

	transform transform.Transform
	instances []transform.Instance

	instanceProvider bind_group_provider.BindGroupProvider
	uniform          uniform.UniformResource[uniform.Matrix]

	released bool
}

// RenderObject is a drawable placement of a Model: a transform uploaded as the object uniform each Update, and an
// instance set mirrored into a per-instance vertex buffer.
//
// The object owns its instance buffer and uniform. The Model is only referenced; its owner releases it.
type RenderObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Label returns the diagnostic label.
	//
	// Returns:
	//   - string: the label
	Label() string

	// Enabled returns whether this object is drawn.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled enables or disables drawing. Disabled objects are still updated.
	//
	// Parameters:
	//   - enabled: whether to draw the object
	SetEnabled(enabled bool)

	// Model returns the referenced Model.
	//
	// Returns:
	//   - model.Model: the model
	Model() model.Model

	// Transform returns the current transform.
	//
	// Returns:
	//   - transform.Transform: the transform
	Transform() transform.Transform

	// SetTransform replaces the transform. The rotation is normalized.
	//
	// Parameters:
	//   - t: the new transform
	SetTransform(t transform.Transform)

	// Position returns the object position.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// SetPosition sets the object position.
	//
	// Parameters:
	//   - p: the new position
	SetPosition(p mgl32.Vec3)

	// Rotation returns the object rotation.
	//
	// Returns:
	//   - mgl32.Quat: the unit rotation
	Rotation() mgl32.Quat

	// SetRotation sets the object rotation, normalizing it.
	//
	// Parameters:
	//   - q: the new rotation
	SetRotation(q mgl32.Quat)

	// Rotate composes q after the current rotation and renormalizes.
	//
	// Parameters:
	//   - q: the rotation to apply
	Rotate(q mgl32.Quat)

	// Scale returns the object scale.
	//
	// Returns:
	//   - mgl32.Vec3: the per-axis scale
	Scale() mgl32.Vec3

	// SetScale sets the object scale.
	//
	// Parameters:
	//   - s: the new per-axis scale
	SetScale(s mgl32.Vec3)

	// Instances returns a copy of the instance set, in draw order.
	//
	// Returns:
	//   - []transform.Instance: the instances
	Instances() []transform.Instance

	// InstanceCount returns the number of instances drawn.
	//
	// Returns:
	//   - int: the instance count, at least 1
	InstanceCount() int

	// SetInstances replaces the instance set and re-uploads the instance buffer. A set of the same length is
	// written in place; a set of a different length reallocates the buffer.
	//
	// Parameters:
	//   - instances: the new instances, copied
	//
	// Returns:
	//   - error: ErrNoInstances for an empty set, or a *device.DeviceResourceError if the upload fails
	SetInstances(instances []transform.Instance) error

	// InstanceBuffer returns the per-instance vertex buffer.
	//
	// Returns:
	//   - device.Buffer: the instance buffer
	InstanceBuffer() device.Buffer

	// Uniform returns the object transform uniform.
	//
	// Returns:
	//   - uniform.UniformResource[uniform.Matrix]: the uniform
	Uniform() uniform.UniformResource[uniform.Matrix]

	// BindGroup returns the bind group exposing the object uniform.
	//
	// Returns:
	//   - device.BindGroup: the bind group
	BindGroup() device.BindGroup

	// Update recomputes the transform matrix and writes it to the object uniform. Instance data is left untouched.
	//
	// Returns:
	//   - error: an error if the uniform write fails
	Update() error

	// Release releases the instance buffer and the uniform. Calling Release again is a no-op.
	Release()
}

var _ RenderObject = &renderObject{}

// NewRenderObject places m in the world using cfg.
// The object uniform starts at the identity matrix; the first Update uploads the configured transform.
//
// Parameters:
//   - dev: the device that allocates the instance buffer and uniform
//   - m: the model to draw
//   - cfg: the construction parameters, see Config for defaults
//
// Returns:
//   - RenderObject: the object
//   - error: an error if m is nil, or a *device.DeviceResourceError if allocation fails
func NewRenderObject(dev device.Device, m model.Model, cfg Config) (RenderObject, error) {
	if dev == nil {
		return nil, device.ResourceError("create render object", cfg.Label, errors.New("device is nil"))
	}
	if m == nil {
		return nil, fmt.Errorf("render object %q: model is nil", cfg.Label)
	}

	id := objectCount.Add(1) - 1
	o := &renderObject{
		id:        id,
		label:     cfg.Label,
		enabled:   true,
		dev:       dev,
		mdl:       m,
		transform: cfg.transform(),
		instances: cfg.instances(),
	}
	if o.label == "" {
		o.label = "render_object_" + strconv.FormatUint(id, 10)
	}

	buf, err := o.createInstanceBuffer(o.instances)
	if err != nil {
		return nil, err
	}
	o.instanceProvider = bind_group_provider.NewBindGroupProvider(o.label+"_instances", bind_group_provider.WithBuffer(0, buf))

	u, err := uniform.NewUniformResource(dev, o.label+"_transform", uniform.IdentityMatrix())
	if err != nil {
		o.instanceProvider.Release()
		return nil, err
	}
	o.uniform = u
	return o, nil
}

func (o *renderObject) createInstanceBuffer(instances []transform.Instance) (device.Buffer, error) {
	data := transform.MarshalInstances(instances)
	return o.dev.CreateBuffer(device.BufferDescriptor{
		Label:    o.label + "_instances",
		Size:     uint64(len(data)),
		Usage:    device.BufferUsageVertex | device.BufferUsageCopyDst,
		Contents: data,
	})
}

func (o *renderObject) ID() uint64 {
	return o.id
}

func (o *renderObject) Label() string {
	return o.label
}

func (o *renderObject) Enabled() bool {
	return o.enabled
}

func (o *renderObject) SetEnabled(enabled bool) {
	o.enabled = enabled
}

func (o *renderObject) Model() model.Model {
	return o.mdl
}

func (o *renderObject) Transform() transform.Transform {
	return o.transform
}

func (o *renderObject) SetTransform(t transform.Transform) {
	t.Rotation = t.Rotation.Normalize()
	o.transform = t
}

func (o *renderObject) Position() mgl32.Vec3 {
	return o.transform.Position
}

func (o *renderObject) SetPosition(p mgl32.Vec3) {
	o.transform.Position = p
}

func (o *renderObject) Rotation() mgl32.Quat {
	return o.transform.Rotation
}

func (o *renderObject) SetRotation(q mgl32.Quat) {
	o.transform.Rotation = q.Normalize()
}

func (o *renderObject) Rotate(q mgl32.Quat) {
	o.transform.Rotation = q.Mul(o.transform.Rotation).Normalize()
}

func (o *renderObject) Scale() mgl32.Vec3 {
	return o.transform.Scale
}

func (o *renderObject) SetScale(s mgl32.Vec3) {
	o.transform.Scale = s
}

func (o *renderObject) Instances() []transform.Instance {
	out := make([]transform.Instance, len(o.instances))
	copy(out, o.instances)
	return out
}

func (o *renderObject) InstanceCount() int {
	return len(o.instances)
}

func (o *renderObject) SetInstances(instances []transform.Instance) error {
	if o.released {
		return device.ResourceError("set instances", o.label, device.ErrReleased)
	}
	if len(instances) == 0 {
		return fmt.Errorf("render object %q: %w", o.label, ErrNoInstances)
	}
	next := make([]transform.Instance, len(instances))
	copy(next, instances)

	if len(next) == len(o.instances) {
		if err := bind_group_provider.WriteBuffers(o.dev, bind_group_provider.BufferWrite{
			Provider: o.instanceProvider,
			Binding:  0,
			Data:     transform.MarshalInstances(next),
		}); err != nil {
			return err
		}
		o.instances = next
		return nil
	}

	buf, err := o.createInstanceBuffer(next)
	if err != nil {
		return err
	}
	if old := o.instanceProvider.Buffer(0); old != nil {
		old.Release()
	}
	o.instanceProvider.SetBuffer(0, buf)
	o.instances = next
	return nil
}

func (o *renderObject) InstanceBuffer() device.Buffer {
	return o.instanceProvider.Buffer(0)
}

func (o *renderObject) Uniform() uniform.UniformResource[uniform.Matrix] {
	return o.uniform
}

func (o *renderObject) BindGroup() device.BindGroup {
	return o.uniform.BindGroup()
}

func (o *renderObject) Update() error {
	if o.released {
		return device.ResourceError("update render object", o.label, device.ErrReleased)
	}
	return o.uniform.Write(uniform.Matrix(o.transform.Matrix()))
}

func (o *renderObject) Release() {
	if o.released {
		return
	}
	o.released = true
	o.instanceProvider.Release()
	o.uniform.Release()
}

// DrawInstanced records the draw calls for obj into pass: the instance buffer, camera bind group, and object bind
// group are bound once, then each mesh binds its vertex buffer, index buffer, and material and issues one indexed
// draw over the full instance set. The caller must have set the object pipeline on pass.
//
// Parameters:
//   - pass: the open render pass
//   - obj: the object to draw
//   - camera: the camera bind group
//
// Returns:
//   - int: the number of draw calls issued
func DrawInstanced(pass device.RenderPass, obj RenderObject, camera device.BindGroup) int {
	meshes := obj.Model().Meshes()
	if len(meshes) == 0 {
		return 0
	}

	pass.SetVertexBuffer(pipeline.SlotInstance, obj.InstanceBuffer())
	pass.SetBindGroup(pipeline.GroupCamera, camera)
	pass.SetBindGroup(pipeline.GroupObject, obj.BindGroup())

	instanceCount := uint32(obj.InstanceCount())
	draws := 0
	for _, mesh := range meshes {
		pass.SetVertexBuffer(pipeline.SlotMesh, mesh.Provider.VertexBuffer())
		pass.SetIndexBuffer(mesh.Provider.IndexBuffer())
		pass.SetBindGroup(pipeline.GroupMaterial, obj.Model().Material(mesh).BindGroup())
		pass.DrawIndexed(uint32(mesh.Provider.IndexCount()), instanceCount)
		draws++
	}
	return draws
}

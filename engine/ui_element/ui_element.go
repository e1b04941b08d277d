// Package ui_element draws textured quads in screen space, over the 3D scene.
package ui_element

import (
	"errors"
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

// elementCount generates default labels.
var elementCount atomic.Uint64

type element struct {
	label    string
	enabled  bool
	position mgl32.Vec2
	scale    mgl32.Vec2

	quad     model.Model
	instance bind_group_provider.BindGroupProvider
	uniform  uniform.UniformResource[uniform.Matrix]

	released bool
}

// Element is a textured quad placed in normalized device coordinates. The quad spans -1..1 before scaling, so a
// scale of (0.5, 0.5) covers a quarter of the surface. Its transform is T(x, y, 1) * S(sx, sy, 1), uploaded as the
// element uniform on each Update.
//
// The element owns its quad mesh, texture, and uniform.
type Element interface {
	// Label returns the diagnostic label.
	//
	// Returns:
	//   - string: the label
	Label() string

	// Enabled returns whether this element is drawn.
	Enabled() bool

	// SetEnabled enables or disables drawing.
	//
	// Parameters:
	//   - enabled: whether to draw the element
	SetEnabled(enabled bool)

	// Position returns the screen-space center.
	Position() mgl32.Vec2

	// SetPosition moves the element. Takes effect on the next Update.
	//
	// Parameters:
	//   - p: the new center in normalized device coordinates
	SetPosition(p mgl32.Vec2)

	// Scale returns the per-axis scale.
	Scale() mgl32.Vec2

	// SetScale resizes the element. Takes effect on the next Update.
	//
	// Parameters:
	//   - s: the new per-axis scale
	SetScale(s mgl32.Vec2)

	// Matrix computes the element transform from the current position and scale.
	//
	// Returns:
	//   - mgl32.Mat4: T(x, y, 1) * S(sx, sy, 1)
	Matrix() mgl32.Mat4

	// Quad returns the uploaded quad model holding the mesh and the texture material.
	Quad() model.Model

	// InstanceBuffer returns the single identity instance the object pipeline expects.
	InstanceBuffer() device.Buffer

	// Uniform returns the element transform uniform.
	Uniform() uniform.UniformResource[uniform.Matrix]

	// Update writes Matrix to the element uniform.
	//
	// Returns:
	//   - error: an error if the element is released or the write fails
	Update() error

	// Release releases the quad, the instance buffer, and the uniform. Calling Release again is a no-op.
	Release()
}

var _ Element = &element{}

// NewElement uploads a quad textured with cfg.Texture and allocates the element uniform.
//
// Parameters:
//   - dev: the device that allocates the element resources
//   - cfg: the construction parameters, see Config for defaults
//
// Returns:
//   - Element: the element
//   - error: a *model.ModelLoadError for an invalid texture, or a *device.DeviceResourceError if allocation fails
func NewElement(dev device.Device, cfg Config) (Element, error) {
	if dev == nil {
		return nil, device.ResourceError("create ui element", cfg.Label, errors.New("device is nil"))
	}
	e := &element{
		label:    cfg.Label,
		enabled:  true,
		position: cfg.position(),
		scale:    cfg.scale(),
	}
	if e.label == "" {
		e.label = "ui_element_" + strconv.FormatUint(elementCount.Add(1)-1, 10)
	}

	data := model.Quad(e.label, cfg.color())
	data.Materials[0].Texture = cfg.Texture
	data.Materials[0].Sampler = cfg.Sampler
	quad, err := model.NewModel(dev, data)
	if err != nil {
		return nil, err
	}
	e.quad = quad

	buf, err := dev.CreateBuffer(device.BufferDescriptor{
		Label:    e.label + "_instance",
		Usage:    device.BufferUsageVertex,
		Contents: transform.MarshalInstances([]transform.Instance{transform.DefaultInstance()}),
	})
	if err != nil {
		quad.Release()
		return nil, err
	}
	e.instance = bind_group_provider.NewBindGroupProvider(e.label+"_instance", bind_group_provider.WithBuffer(0, buf))

	u, err := uniform.NewUniformResource(dev, e.label+"_transform", uniform.IdentityMatrix())
	if err != nil {
		e.instance.Release()
		quad.Release()
		return nil, err
	}
	e.uniform = u
	return e, nil
}

func (e *element) Label() string {
	return e.label
}

func (e *element) Enabled() bool {
	return e.enabled
}

func (e *element) SetEnabled(enabled bool) {
	e.enabled = enabled
}

func (e *element) Position() mgl32.Vec2 {
	return e.position
}

func (e *element) SetPosition(p mgl32.Vec2) {
	e.position = p
}

func (e *element) Scale() mgl32.Vec2 {
	return e.scale
}

func (e *element) SetScale(s mgl32.Vec2) {
	e.scale = s
}

func (e *element) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(e.position.X(), e.position.Y(), 1).Mul4(mgl32.Scale3D(e.scale.X(), e.scale.Y(), 1))
}

func (e *element) Quad() model.Model {
	return e.quad
}

func (e *element) InstanceBuffer() device.Buffer {
	return e.instance.Buffer(0)
}

func (e *element) Uniform() uniform.UniformResource[uniform.Matrix] {
	return e.uniform
}

func (e *element) Update() error {
	if e.released {
		return device.ResourceError("update ui element", e.label, device.ErrReleased)
	}
	return e.uniform.Write(uniform.Matrix(e.Matrix()))
}

func (e *element) Release() {
	if e.released {
		return
	}
	e.released = true
	e.uniform.Release()
	e.instance.Release()
	e.quad.Release()
}

// DrawElement records the draw call for e into pass. The caller must have set the overlay pipeline and pass the
// bind group of an identity view-projection, so the element transform maps straight to clip space.
//
// Parameters:
//   - pass: the open render pass
//   - e: the element to draw
//   - screen: the identity camera bind group
//
// Returns:
//   - int: the number of draw calls issued
func DrawElement(pass device.RenderPass, e Element, screen device.BindGroup) int {
	meshes := e.Quad().Meshes()
	if len(meshes) == 0 {
		return 0
	}
	mesh := meshes[0]
	pass.SetVertexBuffer(pipeline.SlotInstance, e.InstanceBuffer())
	pass.SetBindGroup(pipeline.GroupCamera, screen)
	pass.SetBindGroup(pipeline.GroupObject, e.Uniform().BindGroup())
	pass.SetVertexBuffer(pipeline.SlotMesh, mesh.Provider.VertexBuffer())
	pass.SetIndexBuffer(mesh.Provider.IndexBuffer())
	pass.SetBindGroup(pipeline.GroupMaterial, e.Quad().Material(mesh).BindGroup())
	pass.DrawIndexed(uint32(mesh.Provider.IndexCount()), 1)
	return 1
}

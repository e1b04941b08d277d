package pipeline

import "github.com/Carmen-Shannon/oxy-scene/engine/renderer/device"

// CullMode selects which triangle faces are discarded.
type CullMode int

const (
	CullModeNone CullMode = iota
	CullModeFront
	CullModeBack
)

// FrontFace selects the winding order of front-facing triangles.
type FrontFace int

const (
	FrontFaceCCW FrontFace = iota
	FrontFaceCW
)

// Topology is the primitive assembly mode.
type Topology int

const (
	TopologyTriangleList Topology = iota
	TopologyTriangleStrip
	TopologyLineList
)

// CompareFunction is the depth comparison used when depth testing is enabled.
type CompareFunction int

const (
	CompareLess CompareFunction = iota
	CompareLessEqual
	CompareAlways
)

// BlendFactor is a blend equation factor.
type BlendFactor int

const (
	BlendFactorZero BlendFactor = iota
	BlendFactorOne
	BlendFactorSrcAlpha
	BlendFactorOneMinusSrcAlpha
)

// BlendOperation combines the weighted source and destination.
type BlendOperation int

const (
	BlendOperationAdd BlendOperation = iota
	BlendOperationSubtract
)

// BlendComponent describes blending for the color or the alpha channel.
type BlendComponent struct {
	SrcFactor BlendFactor
	DstFactor BlendFactor
	Operation BlendOperation
}

// BlendState holds the color and alpha blend equations.
type BlendState struct {
	Color BlendComponent
	Alpha BlendComponent
}

// AlphaBlending is standard non-premultiplied alpha blending.
var AlphaBlending = BlendState{
	Color: BlendComponent{SrcFactor: BlendFactorSrcAlpha, DstFactor: BlendFactorOneMinusSrcAlpha, Operation: BlendOperationAdd},
	Alpha: BlendComponent{SrcFactor: BlendFactorOne, DstFactor: BlendFactorOneMinusSrcAlpha, Operation: BlendOperationAdd},
}

// VertexFormat is the format of a single vertex attribute.
type VertexFormat int

const (
	VertexFormatFloat32x2 VertexFormat = iota
	VertexFormatFloat32x3
	VertexFormatFloat32x4
)

// Size returns the attribute size in bytes.
func (f VertexFormat) Size() uint64 {
	switch f {
	case VertexFormatFloat32x2:
		return 8
	case VertexFormatFloat32x3:
		return 12
	default:
		return 16
	}
}

// StepMode selects whether a vertex buffer advances per vertex or per instance.
type StepMode int

const (
	StepModeVertex StepMode = iota
	StepModeInstance
)

// VertexAttribute maps a slice of each vertex buffer element onto a shader location.
type VertexAttribute struct {
	Format         VertexFormat
	Offset         uint64
	ShaderLocation uint32
}

// VertexBufferLayout describes one vertex buffer slot.
type VertexBufferLayout struct {
	ArrayStride uint64
	StepMode    StepMode
	Attributes  []VertexAttribute
}

// MeshVertexLayout is slot 0: position (location 0) followed by texture coordinates (location 1).
var MeshVertexLayout = VertexBufferLayout{
	ArrayStride: 20,
	StepMode:    StepModeVertex,
	Attributes: []VertexAttribute{
		{Format: VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
	},
}

// InstanceLayout is slot 1: one column-major 4x4 matrix per instance at locations 5 through 8.
var InstanceLayout = VertexBufferLayout{
	ArrayStride: 64,
	StepMode:    StepModeInstance,
	Attributes: []VertexAttribute{
		{Format: VertexFormatFloat32x4, Offset: 0, ShaderLocation: 5},
		{Format: VertexFormatFloat32x4, Offset: 16, ShaderLocation: 6},
		{Format: VertexFormatFloat32x4, Offset: 32, ShaderLocation: 7},
		{Format: VertexFormatFloat32x4, Offset: 48, ShaderLocation: 8},
	},
}

// Bind group indices used by the object pipeline.
const (
	GroupMaterial uint32 = 0
	GroupCamera   uint32 = 1
	GroupObject   uint32 = 2
)

// Vertex buffer slots used by the object pipeline.
const (
	SlotMesh     uint32 = 0
	SlotInstance uint32 = 1
)

// ObjectBindGroupLayouts lists the layout kind of each bind group of the object pipeline, by group index.
var ObjectBindGroupLayouts = []device.BindGroupKind{
	GroupMaterial: device.BindGroupKindTexture,
	GroupCamera:   device.BindGroupKindUniform,
	GroupObject:   device.BindGroupKindUniform,
}

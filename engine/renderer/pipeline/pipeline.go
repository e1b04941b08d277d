package pipeline

import (
	_ "embed"

	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/device"
)

// ObjectShader is the WGSL source of the textured, instanced object pipeline.
//
//go:embed assets/object.wgsl
var ObjectShader string

// pipeline is the implementation of the Pipeline interface.
// It holds the backend-neutral description of a render pipeline plus the compiled handle once a backend builds it.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used for caching and lookups
	pipelineKey string

	// shader source and entry points, required before a backend can compile the pipeline
	shaderSource       string
	vertexEntryPoint   string
	fragmentEntryPoint string

	vertexLayouts    []VertexBufferLayout
	bindGroupLayouts []device.BindGroupKind

	// renderPipeline is the compiled pipeline, nil until a backend compiles the description
	renderPipeline device.RenderPipeline

	// The following properties are used to configure the pipeline during creation and can be toggled/set with the builder options.

	depthTestEnabled  bool
	depthWriteEnabled bool
	depthCompare      CompareFunction
	blendEnabled      bool
	cullMode          CullMode
	topology          Topology
	frontFace         FrontFace
	blendState        BlendState
	sampleCount       uint32
}

// Pipeline defines the interface for a backend-neutral render pipeline description. It holds the shader source,
// vertex buffer layouts, bind group layouts and all fixed-function state required by a backend to compile it.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline, used for caching and lookups.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// ShaderSource returns the WGSL module containing both entry points.
	//
	// Returns:
	//   - string: the shader source
	ShaderSource() string

	// VertexEntryPoint returns the name of the vertex stage entry point.
	//
	// Returns:
	//   - string: the vertex entry point
	VertexEntryPoint() string

	// FragmentEntryPoint returns the name of the fragment stage entry point.
	//
	// Returns:
	//   - string: the fragment entry point
	FragmentEntryPoint() string

	// VertexLayouts returns the vertex buffer layouts indexed by vertex slot.
	//
	// Returns:
	//   - []VertexBufferLayout: one layout per slot
	VertexLayouts() []VertexBufferLayout

	// BindGroupLayouts returns the bind group layout kind for each group index.
	//
	// Returns:
	//   - []device.BindGroupKind: one kind per group
	BindGroupLayouts() []device.BindGroupKind

	// DepthTestEnabled returns whether depth testing is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if depth testing is enabled, false otherwise
	DepthTestEnabled() bool

	// DepthWriteEnabled returns whether depth writing is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if depth writing is enabled, false otherwise
	DepthWriteEnabled() bool

	// DepthCompare returns the depth comparison function.
	//
	// Returns:
	//   - CompareFunction: the depth comparison
	DepthCompare() CompareFunction

	// BlendEnabled returns whether blending is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if blending is enabled, false otherwise
	BlendEnabled() bool

	// BlendState returns the blend state configured for this pipeline. It only applies when BlendEnabled is true.
	//
	// Returns:
	//   - BlendState: the blend state for this pipeline
	BlendState() BlendState

	// CullMode returns the cull mode configured for this pipeline.
	//
	// Returns:
	//   - CullMode: the cull mode for this pipeline
	CullMode() CullMode

	// Topology returns the primitive topology configured for this pipeline.
	//
	// Returns:
	//   - Topology: the primitive topology for this pipeline
	Topology() Topology

	// FrontFace returns the front face winding order configured for this pipeline.
	//
	// Returns:
	//   - FrontFace: the front face winding order for this pipeline
	FrontFace() FrontFace

	// SampleCount returns the multisample count of the color and depth attachments.
	//
	// Returns:
	//   - uint32: the sample count
	SampleCount() uint32

	// RenderPipeline returns the compiled pipeline, or nil if it has not been compiled.
	//
	// Returns:
	//   - device.RenderPipeline: the compiled pipeline or nil
	RenderPipeline() device.RenderPipeline

	// SetRenderPipeline stores the compiled pipeline.
	//
	// Parameters:
	//   - rp: the compiled pipeline
	SetRenderPipeline(rp device.RenderPipeline)

	// Release releases the compiled pipeline, if any.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline is the entry point to create a new Pipeline. Defaults describe the object pipeline: the embedded object
// shader, mesh and instance vertex layouts, material/camera/object bind groups, back-face culling, counter-clockwise
// front faces, alpha blending, depth test and write with Less, and a single sample.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance with the specified configuration
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:        pipelineKey,
		shaderSource:       ObjectShader,
		vertexEntryPoint:   "vs_main",
		fragmentEntryPoint: "fs_main",
		vertexLayouts:      []VertexBufferLayout{MeshVertexLayout, InstanceLayout},
		bindGroupLayouts:   ObjectBindGroupLayouts,
		depthTestEnabled:   true,
		depthWriteEnabled:  true,
		depthCompare:       CompareLess,
		blendEnabled:       true,
		cullMode:           CullModeBack,
		topology:           TopologyTriangleList,
		frontFace:          FrontFaceCCW,
		blendState:         AlphaBlending,
		sampleCount:        1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewOverlayPipeline creates the screen-space pipeline UI elements draw with. It shares the object shader and
// layouts but draws over everything: depth test and write are off and no faces are culled.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions applied after the overlay defaults
//
// Returns:
//   - Pipeline: the overlay pipeline description
func NewOverlayPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	return NewPipeline(pipelineKey, append([]PipelineBuilderOption{
		WithDepthTestEnabled(false),
		WithDepthWriteEnabled(false),
		WithDepthCompare(CompareAlways),
		WithCullMode(CullModeNone),
	}, opts...)...)
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) ShaderSource() string {
	return p.shaderSource
}

func (p *pipeline) VertexEntryPoint() string {
	return p.vertexEntryPoint
}

func (p *pipeline) FragmentEntryPoint() string {
	return p.fragmentEntryPoint
}

func (p *pipeline) VertexLayouts() []VertexBufferLayout {
	return p.vertexLayouts
}

func (p *pipeline) BindGroupLayouts() []device.BindGroupKind {
	return p.bindGroupLayouts
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) DepthCompare() CompareFunction {
	return p.depthCompare
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) BlendState() BlendState {
	return p.blendState
}

func (p *pipeline) CullMode() CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() Topology {
	return p.topology
}

func (p *pipeline) FrontFace() FrontFace {
	return p.frontFace
}

func (p *pipeline) SampleCount() uint32 {
	return p.sampleCount
}

func (p *pipeline) RenderPipeline() device.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) SetRenderPipeline(rp device.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
}

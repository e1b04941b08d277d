package wgpu_backend

import (
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

type renderPipeline struct {
	label    string
	pipeline *wgpu.RenderPipeline
	layout   *wgpu.PipelineLayout
	module   *wgpu.ShaderModule

	released bool
}

func (p *renderPipeline) Label() string { return p.label }

func (p *renderPipeline) Release() {
	if p.released {
		return
	}
	p.released = true
	p.pipeline.Release()
	p.layout.Release()
	p.module.Release()
}

func (b *Backend) CreateRenderPipeline(p pipeline.Pipeline, format renderer.SurfaceFormat) (device.RenderPipeline, error) {
	if b.released {
		return nil, device.ResourceError("create render pipeline", p.PipelineKey(), device.ErrReleased)
	}

	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: p.PipelineKey() + " Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: p.ShaderSource(),
		},
	})
	if err != nil {
		return nil, device.ResourceError("create shader module", p.PipelineKey(), err)
	}

	kinds := p.BindGroupLayouts()
	bindGroupLayouts := make([]*wgpu.BindGroupLayout, len(kinds))
	for g, kind := range kinds {
		bindGroupLayouts[g] = b.layoutFor(kind)
	}
	layout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.PipelineKey(),
		BindGroupLayouts: bindGroupLayouts,
	})
	if err != nil {
		module.Release()
		return nil, device.ResourceError("create pipeline layout", p.PipelineKey(), err)
	}

	vertexLayouts := make([]wgpu.VertexBufferLayout, 0, len(p.VertexLayouts()))
	for _, vl := range p.VertexLayouts() {
		vertexLayouts = append(vertexLayouts, toWGPUVertexLayout(vl))
	}

	target := wgpu.ColorTargetState{
		Format:    wgpu.TextureFormat(format.ID),
		WriteMask: wgpu.ColorWriteMaskAll,
	}
	if p.BlendEnabled() {
		blend := toWGPUBlendState(p.BlendState())
		target.Blend = &blend
	}

	depthCompare := toWGPUCompare(p.DepthCompare())
	if !p.DepthTestEnabled() {
		depthCompare = wgpu.CompareFunctionAlways
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " Render Pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: p.VertexEntryPoint(),
			Buffers:    vertexLayouts,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: p.FragmentEntryPoint(),
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  toWGPUTopology(p.Topology()),
			FrontFace: toWGPUFrontFace(p.FrontFace()),
			CullMode:  toWGPUCullMode(p.CullMode()),
		},
		Multisample: wgpu.MultisampleState{
			Count: max(p.SampleCount(), 1),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: p.DepthWriteEnabled(),
			DepthCompare:      depthCompare,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		layout.Release()
		module.Release()
		return nil, device.ResourceError("create render pipeline", p.PipelineKey(), err)
	}

	b.logger.Debug("render pipeline compiled", "pipeline", p.PipelineKey(), "format", format.Name)
	return &renderPipeline{label: p.PipelineKey(), pipeline: created, layout: layout, module: module}, nil
}

package wgpu_backend

import (
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

func toWGPUPresentMode(m renderer.PresentMode) wgpu.PresentMode {
	switch m {
	case renderer.PresentModeUncapped:
		return wgpu.PresentModeImmediate
	case renderer.PresentModeMailbox:
		return wgpu.PresentModeMailbox
	default:
		return wgpu.PresentModeFifo
	}
}

func fromWGPUPresentMode(m wgpu.PresentMode) (renderer.PresentMode, bool) {
	switch m {
	case wgpu.PresentModeFifo:
		return renderer.PresentModeVSync, true
	case wgpu.PresentModeImmediate:
		return renderer.PresentModeUncapped, true
	case wgpu.PresentModeMailbox:
		return renderer.PresentModeMailbox, true
	default:
		return 0, false
	}
}

func toWGPUBufferUsage(u device.BufferUsage) wgpu.BufferUsage {
	var out wgpu.BufferUsage
	if u.Has(device.BufferUsageVertex) {
		out |= wgpu.BufferUsageVertex
	}
	if u.Has(device.BufferUsageIndex) {
		out |= wgpu.BufferUsageIndex
	}
	if u.Has(device.BufferUsageUniform) {
		out |= wgpu.BufferUsageUniform
	}
	if u.Has(device.BufferUsageCopyDst) {
		out |= wgpu.BufferUsageCopyDst
	}
	return out
}

func toWGPUAddressMode(m device.AddressMode) wgpu.AddressMode {
	switch m {
	case device.AddressModeClampToEdge:
		return wgpu.AddressModeClampToEdge
	case device.AddressModeMirrorRepeat:
		return wgpu.AddressModeMirrorRepeat
	default:
		return wgpu.AddressModeRepeat
	}
}

func toWGPUFilterMode(m device.FilterMode) wgpu.FilterMode {
	if m == device.FilterModeNearest {
		return wgpu.FilterModeNearest
	}
	return wgpu.FilterModeLinear
}

func toWGPUMipmapFilterMode(m device.FilterMode) wgpu.MipmapFilterMode {
	if m == device.FilterModeNearest {
		return wgpu.MipmapFilterModeNearest
	}
	return wgpu.MipmapFilterModeLinear
}

func toWGPUVertexLayout(l pipeline.VertexBufferLayout) wgpu.VertexBufferLayout {
	attrs := make([]wgpu.VertexAttribute, len(l.Attributes))
	for i, a := range l.Attributes {
		attrs[i] = wgpu.VertexAttribute{
			Format:         toWGPUVertexFormat(a.Format),
			Offset:         a.Offset,
			ShaderLocation: a.ShaderLocation,
		}
	}
	step := wgpu.VertexStepModeVertex
	if l.StepMode == pipeline.StepModeInstance {
		step = wgpu.VertexStepModeInstance
	}
	return wgpu.VertexBufferLayout{
		ArrayStride: l.ArrayStride,
		StepMode:    step,
		Attributes:  attrs,
	}
}

func toWGPUVertexFormat(f pipeline.VertexFormat) wgpu.VertexFormat {
	switch f {
	case pipeline.VertexFormatFloat32x2:
		return wgpu.VertexFormatFloat32x2
	case pipeline.VertexFormatFloat32x3:
		return wgpu.VertexFormatFloat32x3
	default:
		return wgpu.VertexFormatFloat32x4
	}
}

func toWGPUBlendState(s pipeline.BlendState) wgpu.BlendState {
	return wgpu.BlendState{
		Color: toWGPUBlendComponent(s.Color),
		Alpha: toWGPUBlendComponent(s.Alpha),
	}
}

func toWGPUBlendComponent(c pipeline.BlendComponent) wgpu.BlendComponent {
	op := wgpu.BlendOperationAdd
	if c.Operation == pipeline.BlendOperationSubtract {
		op = wgpu.BlendOperationSubtract
	}
	return wgpu.BlendComponent{
		SrcFactor: toWGPUBlendFactor(c.SrcFactor),
		DstFactor: toWGPUBlendFactor(c.DstFactor),
		Operation: op,
	}
}

func toWGPUBlendFactor(f pipeline.BlendFactor) wgpu.BlendFactor {
	switch f {
	case pipeline.BlendFactorZero:
		return wgpu.BlendFactorZero
	case pipeline.BlendFactorSrcAlpha:
		return wgpu.BlendFactorSrcAlpha
	case pipeline.BlendFactorOneMinusSrcAlpha:
		return wgpu.BlendFactorOneMinusSrcAlpha
	default:
		return wgpu.BlendFactorOne
	}
}

func toWGPUCompare(c pipeline.CompareFunction) wgpu.CompareFunction {
	switch c {
	case pipeline.CompareLessEqual:
		return wgpu.CompareFunctionLessEqual
	case pipeline.CompareAlways:
		return wgpu.CompareFunctionAlways
	default:
		return wgpu.CompareFunctionLess
	}
}

func toWGPUTopology(t pipeline.Topology) wgpu.PrimitiveTopology {
	switch t {
	case pipeline.TopologyTriangleStrip:
		return wgpu.PrimitiveTopologyTriangleStrip
	case pipeline.TopologyLineList:
		return wgpu.PrimitiveTopologyLineList
	default:
		return wgpu.PrimitiveTopologyTriangleList
	}
}

func toWGPUFrontFace(f pipeline.FrontFace) wgpu.FrontFace {
	if f == pipeline.FrontFaceCW {
		return wgpu.FrontFaceCW
	}
	return wgpu.FrontFaceCCW
}

func toWGPUCullMode(m pipeline.CullMode) wgpu.CullMode {
	switch m {
	case pipeline.CullModeNone:
		return wgpu.CullModeNone
	case pipeline.CullModeFront:
		return wgpu.CullModeFront
	default:
		return wgpu.CullModeBack
	}
}

package headless

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-scene/engine/renderer"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/pipeline"
)

// DrawRecord is one recorded DrawIndexed call with the state bound when it was issued.
type DrawRecord struct {
	Pipeline      *Pipeline
	BindGroups    map[uint32]*BindGroup
	VertexBuffers map[uint32]*Buffer
	IndexBuffer   *Buffer
	IndexCount    uint32
	InstanceCount uint32
}

// FrameRecord is one frame opened through BeginFrame.
type FrameRecord struct {
	Target    renderer.FrameTarget
	Width     int
	Height    int
	Draws     []DrawRecord
	Errors    []error
	Submitted bool
	Presented bool
}

// pass is the headless device.RenderPass. It validates bindings the way a device's validation layer would and
// records failures on the frame instead of aborting.
type pass struct {
	rec *FrameRecord

	pipeline      *Pipeline
	bindGroups    map[uint32]*BindGroup
	vertexBuffers map[uint32]*Buffer
	indexBuffer   *Buffer
}

var _ device.RenderPass = &pass{}

func newPass(rec *FrameRecord) *pass {
	return &pass{
		rec:           rec,
		bindGroups:    make(map[uint32]*BindGroup),
		vertexBuffers: make(map[uint32]*Buffer),
	}
}

func (p *pass) fail(format string, args ...any) {
	p.rec.Errors = append(p.rec.Errors, fmt.Errorf(format, args...))
}

func (p *pass) SetPipeline(rp device.RenderPipeline) {
	hp, ok := rp.(*Pipeline)
	if !ok || hp == nil || hp.released {
		p.fail("set pipeline: invalid or released pipeline")
		return
	}
	p.pipeline = hp
}

func (p *pass) SetBindGroup(group uint32, bg device.BindGroup) {
	hbg, ok := bg.(*BindGroup)
	if !ok || hbg == nil || hbg.released {
		p.fail("set bind group %d: invalid or released bind group", group)
		return
	}
	if p.pipeline != nil {
		kinds := p.pipeline.Description.BindGroupLayouts()
		if int(group) >= len(kinds) || kinds[group] != hbg.Kind {
			p.fail("set bind group %d: %q does not match the pipeline layout", group, hbg.label)
			return
		}
	}
	p.bindGroups[group] = hbg
}

func (p *pass) SetVertexBuffer(slot uint32, buf device.Buffer) {
	hb, ok := buf.(*Buffer)
	if !ok || hb == nil || hb.released {
		p.fail("set vertex buffer %d: invalid or released buffer", slot)
		return
	}
	if !hb.usage.Has(device.BufferUsageVertex) {
		p.fail("set vertex buffer %d: %q lacks vertex usage", slot, hb.label)
		return
	}
	p.vertexBuffers[slot] = hb
}

func (p *pass) SetIndexBuffer(buf device.Buffer) {
	hb, ok := buf.(*Buffer)
	if !ok || hb == nil || hb.released {
		p.fail("set index buffer: invalid or released buffer")
		return
	}
	if !hb.usage.Has(device.BufferUsageIndex) {
		p.fail("set index buffer: %q lacks index usage", hb.label)
		return
	}
	p.indexBuffer = hb
}

func (p *pass) DrawIndexed(indexCount, instanceCount uint32) {
	if p.pipeline == nil {
		p.fail("draw indexed: no pipeline bound")
		return
	}
	if p.indexBuffer == nil {
		p.fail("draw indexed: no index buffer bound")
		return
	}
	if uint64(indexCount)*4 > p.indexBuffer.Size() {
		p.fail("draw indexed: %d indices exceed index buffer %q", indexCount, p.indexBuffer.label)
		return
	}
	for group := range p.pipeline.Description.BindGroupLayouts() {
		if _, ok := p.bindGroups[uint32(group)]; !ok {
			p.fail("draw indexed: bind group %d not set", group)
			return
		}
	}
	for slot, layout := range p.pipeline.Description.VertexLayouts() {
		buf, ok := p.vertexBuffers[uint32(slot)]
		if !ok {
			p.fail("draw indexed: vertex slot %d not set", slot)
			return
		}
		if layout.StepMode == pipeline.StepModeInstance && uint64(instanceCount)*layout.ArrayStride > buf.Size() {
			p.fail("draw indexed: %d instances exceed instance buffer %q", instanceCount, buf.label)
			return
		}
	}

	rec := DrawRecord{
		Pipeline:      p.pipeline,
		BindGroups:    make(map[uint32]*BindGroup, len(p.bindGroups)),
		VertexBuffers: make(map[uint32]*Buffer, len(p.vertexBuffers)),
		IndexBuffer:   p.indexBuffer,
		IndexCount:    indexCount,
		InstanceCount: instanceCount,
	}
	for k, v := range p.bindGroups {
		rec.BindGroups[k] = v
	}
	for k, v := range p.vertexBuffers {
		rec.VertexBuffers[k] = v
	}
	p.rec.Draws = append(p.rec.Draws, rec)
}

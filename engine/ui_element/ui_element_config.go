package ui_element

import (
	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/device"
	"github.com/go-gl/mathgl/mgl32"
)

// Config enumerates the recognized construction parameters of an Element.
// Nil and empty fields take their defaults: an empty Label generates "ui_element_N", Position is the screen center,
// Scale is (1, 1) which covers the whole surface, and a nil Texture uploads a single texel of Color.
// A zero Color is treated as opaque white.
type Config struct {
	Label    string
	Position *mgl32.Vec2
	Scale    *mgl32.Vec2
	Texture  *common.TextureStagingData
	Color    [4]float32
	Sampler  device.SamplerDescriptor
}

func (c Config) position() mgl32.Vec2 {
	if c.Position == nil {
		return mgl32.Vec2{}
	}
	return *c.Position
}

func (c Config) scale() mgl32.Vec2 {
	if c.Scale == nil {
		return mgl32.Vec2{1, 1}
	}
	return *c.Scale
}

func (c Config) color() [4]float32 {
	if c.Color == ([4]float32{}) {
		return [4]float32{1, 1, 1, 1}
	}
	return c.Color
}

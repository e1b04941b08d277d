// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import "fmt"

// TextureStagingData holds RGBA pixel data for a texture binding pending GPU upload.
// This is primarily used by materials to stage texture data before creating the GPU texture and bind group.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels. This is required to correctly create the GPU texture and interpret the pixel data.
	Width uint32
	// Height is the height of the texture in pixels. This is required to correctly create the GPU texture and interpret the pixel data.
	Height uint32
}

// Validate reports whether the pixel slice matches the declared dimensions.
//
// Returns:
//   - error: nil when the texture holds exactly Width*Height RGBA texels
func (t TextureStagingData) Validate() error {
	if t.Width == 0 || t.Height == 0 {
		return fmt.Errorf("texture has zero dimension %dx%d", t.Width, t.Height)
	}
	if want := int(t.Width) * int(t.Height) * 4; len(t.Pixels) != want {
		return fmt.Errorf("texture %dx%d expects %d bytes, got %d", t.Width, t.Height, want, len(t.Pixels))
	}
	return nil
}

// SolidTexture returns a 1x1 RGBA texture filled with the given color.
//
// Parameters:
//   - color: RGBA components in the range [0, 1]
//
// Returns:
//   - TextureStagingData: the single-texel texture
func SolidTexture(color [4]float32) TextureStagingData {
	px := make([]byte, 4)
	for i, c := range color {
		px[i] = uint8(clamp01(c)*255 + 0.5)
	}
	return TextureStagingData{Pixels: px, Width: 1, Height: 1}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

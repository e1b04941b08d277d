package render_object

import (
	"github.com/Carmen-Shannon/oxy-scene/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
)

// Config enumerates the recognized construction parameters of a RenderObject.
// Nil and empty fields take their defaults: an empty Label generates "render_object_N", Position is the origin,
// Rotation is the identity, Scale is (1, 1, 1), and Instances is a single DefaultInstance.
type Config struct {
	Label     string
	Position  *mgl32.Vec3
	Rotation  *mgl32.Quat
	Scale     *mgl32.Vec3
	Instances []transform.Instance
}

// transform resolves the configured transform, normalizing the rotation.
func (c Config) transform() transform.Transform {
	t := transform.Identity()
	if c.Position != nil {
		t.Position = *c.Position
	}
	if c.Rotation != nil {
		t.Rotation = c.Rotation.Normalize()
	}
	if c.Scale != nil {
		t.Scale = *c.Scale
	}
	return t
}

// instances resolves the configured instance set into a private copy.
func (c Config) instances() []transform.Instance {
	if len(c.Instances) == 0 {
		return []transform.Instance{transform.DefaultInstance()}
	}
	out := make([]transform.Instance, len(c.Instances))
	copy(out, c.Instances)
	return out
}

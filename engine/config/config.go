// Package config loads scene descriptions from YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/camera"
	"github.com/Carmen-Shannon/oxy-scene/engine/model"
	"github.com/Carmen-Shannon/oxy-scene/engine/render_object"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer"
	"github.com/Carmen-Shannon/oxy-scene/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// Config is a complete scene description.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Renderer RendererConfig `yaml:"renderer"`
	Camera   CameraConfig   `yaml:"camera"`
	Objects  []ObjectConfig `yaml:"objects"`
}

// WindowConfig describes the native window, or the surface size when headless.
type WindowConfig struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Resizable *bool  `yaml:"resizable"`
}

// RendererConfig describes surface presentation.
type RendererConfig struct {
	ClearColor  [4]float64 `yaml:"clear_color"`
	PresentMode string     `yaml:"present_mode"`
}

// CameraConfig describes the scene camera.
type CameraConfig struct {
	Eye        [3]float32 `yaml:"eye"`
	Target     [3]float32 `yaml:"target"`
	Up         [3]float32 `yaml:"up"`
	Projection string     `yaml:"projection"`
	FovY       float32    `yaml:"fov"`
	Near       float32    `yaml:"near"`
	Far        float32    `yaml:"far"`
}

// ObjectConfig describes one renderable object and the primitive model it draws.
type ObjectConfig struct {
	Label     string      `yaml:"label"`
	Primitive string      `yaml:"primitive"`
	Size      float32     `yaml:"size"`
	Color     [4]float32  `yaml:"color"`
	Position  *[3]float32 `yaml:"position"`
	Rotation  *Rotation   `yaml:"rotation"`
	Scale     *[3]float32 `yaml:"scale"`
	Spin      *Rotation   `yaml:"spin"`
	Grid      *GridConfig `yaml:"grid"`
}

// Rotation is an axis-angle rotation. For spins, Degrees is the rate per second.
type Rotation struct {
	Axis    [3]float32 `yaml:"axis"`
	Degrees float32    `yaml:"degrees"`
}

// GridConfig lays out instances in a cube of PerRow^3 positions shifted by Displacement.
type GridConfig struct {
	PerRow       int        `yaml:"per_row"`
	Displacement [3]float32 `yaml:"displacement"`
}

const (
	PrimitiveCube = "cube"
	PrimitiveQuad = "quad"

	ProjectionPerspective  = "perspective"
	ProjectionOrthographic = "orthographic"
)

var presentModes = map[string]renderer.PresentMode{
	"vsync":    renderer.PresentModeVSync,
	"uncapped": renderer.PresentModeUncapped,
	"mailbox":  renderer.PresentModeMailbox,
}

// Default returns the configuration of the stock demo: a single cube in front of a perspective camera.
//
// Returns:
//   - Config: the default configuration
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "oxy-scene",
			Width:  800,
			Height: 600,
		},
		Renderer: RendererConfig{
			ClearColor:  [4]float64{0.1, 0.2, 0.3, 1.0},
			PresentMode: "vsync",
		},
		Camera: CameraConfig{
			Eye:        [3]float32{0, 0, 7.5},
			Target:     [3]float32{0, 0, 0},
			Up:         [3]float32{0, 1, 0},
			Projection: ProjectionPerspective,
			FovY:       45,
			Near:       0.1,
			Far:        100,
		},
		Objects: []ObjectConfig{
			{Label: "cube", Primitive: PrimitiveCube, Size: 1, Color: [4]float32{1, 1, 1, 1}},
		},
	}
}

// Load reads and parses a YAML scene description. Missing fields take the values of Default.
//
// Parameters:
//   - path: the file to read
//
// Returns:
//   - Config: the validated configuration
//   - error: an error if the file cannot be read, parsed, or validated
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML scene description over Default and validates it. Unknown keys are rejected.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - Config: the validated configuration
//   - error: an error if the document cannot be decoded or fails validation
func Parse(data []byte) (Config, error) {
	cfg := Default()
	objects := cfg.Objects
	cfg.Objects = nil

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Objects == nil {
		cfg.Objects = objects
	}
	for i := range cfg.Objects {
		cfg.Objects[i].applyDefaults(i)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (o *ObjectConfig) applyDefaults(i int) {
	if o.Label == "" {
		o.Label = fmt.Sprintf("object_%d", i)
	}
	if o.Primitive == "" {
		o.Primitive = PrimitiveCube
	}
	if o.Size == 0 {
		o.Size = 1
	}
	if o.Color == [4]float32{} {
		o.Color = [4]float32{1, 1, 1, 1}
	}
}

// Validate reports the first invalid field.
//
// Returns:
//   - error: nil when every section is usable
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if _, ok := presentModes[c.Renderer.PresentMode]; !ok {
		return fmt.Errorf("unknown present mode %q", c.Renderer.PresentMode)
	}

	cam := c.Camera
	switch cam.Projection {
	case ProjectionPerspective:
		if cam.FovY <= 0 || cam.FovY >= 180 {
			return fmt.Errorf("camera fov %v must be in (0, 180)", cam.FovY)
		}
		if cam.Near <= 0 {
			return fmt.Errorf("camera near %v must be positive for a perspective projection", cam.Near)
		}
	case ProjectionOrthographic:
	default:
		return fmt.Errorf("unknown camera projection %q", cam.Projection)
	}
	if cam.Near >= cam.Far {
		return fmt.Errorf("camera near %v must be less than far %v", cam.Near, cam.Far)
	}
	if cam.Eye == cam.Target {
		return errors.New("camera eye and target coincide")
	}
	if cam.Up == [3]float32{} {
		return errors.New("camera up vector is zero")
	}

	labels := make(map[string]bool, len(c.Objects))
	for _, o := range c.Objects {
		if labels[o.Label] {
			return fmt.Errorf("duplicate object label %q", o.Label)
		}
		labels[o.Label] = true
		switch o.Primitive {
		case PrimitiveCube, PrimitiveQuad:
		default:
			return fmt.Errorf("object %q: unknown primitive %q", o.Label, o.Primitive)
		}
		if o.Size <= 0 {
			return fmt.Errorf("object %q: size %v must be positive", o.Label, o.Size)
		}
		if o.Rotation != nil && o.Rotation.Axis == [3]float32{} {
			return fmt.Errorf("object %q: rotation axis is zero", o.Label)
		}
		if o.Spin != nil && o.Spin.Axis == [3]float32{} {
			return fmt.Errorf("object %q: spin axis is zero", o.Label)
		}
		if o.Grid != nil && o.Grid.PerRow <= 0 {
			return fmt.Errorf("object %q: grid per_row %d must be positive", o.Label, o.Grid.PerRow)
		}
	}
	return nil
}

// Mode returns the configured present mode.
//
// Returns:
//   - renderer.PresentMode: the mode, VSync for unknown names
func (r RendererConfig) Mode() renderer.PresentMode {
	return presentModes[r.PresentMode]
}

// Options converts the renderer section to renderer builder options.
//
// Returns:
//   - []renderer.RendererBuilderOption: clear color and present mode options
func (r RendererConfig) Options() []renderer.RendererBuilderOption {
	return []renderer.RendererBuilderOption{
		renderer.WithClearColor(renderer.Color{R: r.ClearColor[0], G: r.ClearColor[1], B: r.ClearColor[2], A: r.ClearColor[3]}),
		renderer.WithPresentMode(r.Mode()),
	}
}

// Options converts the camera section to camera builder options.
//
// Returns:
//   - []camera.CameraBuilderOption: eye, target, up, projection, and clip plane options
func (c CameraConfig) Options() []camera.CameraBuilderOption {
	projection := camera.Perspective(c.FovY)
	if c.Projection == ProjectionOrthographic {
		projection = camera.Orthographic()
	}
	return []camera.CameraBuilderOption{
		camera.WithEye(mgl32.Vec3(c.Eye)),
		camera.WithTarget(mgl32.Vec3(c.Target)),
		camera.WithUp(mgl32.Vec3(c.Up)),
		camera.WithProjection(projection),
		camera.WithNear(c.Near),
		camera.WithFar(c.Far),
	}
}

// ModelData builds the primitive model the object draws. The model is named after the object.
//
// Returns:
//   - model.ModelData: the CPU-side model
func (o ObjectConfig) ModelData() model.ModelData {
	name := o.Label + "_" + o.Primitive
	if o.Primitive == PrimitiveQuad {
		return model.Quad(name, o.Color)
	}
	return model.Cube(name, o.Size, o.Color)
}

// RenderObject converts the object section to a render object configuration.
//
// Returns:
//   - render_object.Config: the object's label, transform, and instances
func (o ObjectConfig) RenderObject() render_object.Config {
	cfg := render_object.Config{Label: o.Label}
	if o.Position != nil {
		p := mgl32.Vec3(*o.Position)
		cfg.Position = &p
	}
	if o.Rotation != nil {
		q := o.Rotation.Quat(1)
		cfg.Rotation = &q
	}
	if o.Scale != nil {
		s := mgl32.Vec3(*o.Scale)
		cfg.Scale = &s
	}
	if o.Grid != nil {
		cfg.Instances = transform.Grid(o.Grid.PerRow, mgl32.Vec3(o.Grid.Displacement))
	}
	return cfg
}

// Quat returns the rotation by Degrees*scale around the normalized axis.
//
// Parameters:
//   - scale: the factor applied to Degrees, 1 for a static rotation or elapsed seconds for a spin
//
// Returns:
//   - mgl32.Quat: the unit quaternion
func (r Rotation) Quat(scale float32) mgl32.Quat {
	return common.QuatFromAxisAngle(mgl32.Vec3(r.Axis), r.Degrees*scale)
}

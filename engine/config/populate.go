package config

import (
	"fmt"
	"time"

	"github.com/Carmen-Shannon/oxy-scene/engine/model"
	"github.com/Carmen-Shannon/oxy-scene/engine/scene"
)

type spin struct {
	label    string
	rotation Rotation
}

// Spins rotates the configured objects by their rate every frame.
type Spins []spin

// Populate loads every object's model in one batch and adds the objects to s in file order.
//
// Parameters:
//   - s: the scene to populate
//
// Returns:
//   - Spins: the spinning objects, tick them each frame
//   - error: a model load error, or the first object that could not be added
func (c Config) Populate(s scene.Scene) (Spins, error) {
	data := make([]model.ModelData, len(c.Objects))
	for i, o := range c.Objects {
		data[i] = o.ModelData()
	}
	models, err := s.LoadModels(data...)
	if err != nil {
		return nil, err
	}

	var out Spins
	for i, o := range c.Objects {
		if _, err := s.AddObject(models[i], o.RenderObject()); err != nil {
			return nil, fmt.Errorf("add object %q: %w", o.Label, err)
		}
		if o.Spin != nil {
			out = append(out, spin{label: o.Label, rotation: *o.Spin})
		}
	}
	return out, nil
}

// Tick rotates each spinning object by its rate times elapsed. Removed objects are skipped.
// It has the signature of engine.TickFunc.
func (sp Spins) Tick(s scene.Scene, elapsed time.Duration) error {
	dt := float32(elapsed.Seconds())
	for _, sn := range sp {
		if obj := s.Object(sn.label); obj != nil {
			obj.Rotate(sn.rotation.Quat(dt))
		}
	}
	return nil
}

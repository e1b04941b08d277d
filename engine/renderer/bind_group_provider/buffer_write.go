package bind_group_provider

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/device"
)

// BufferWrite describes a single GPU buffer write operation targeting a specific binding
// on a BindGroupProvider at a given byte offset.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// WriteBuffers applies writes in order and stops at the first failure.
//
// Parameters:
//   - dev: the device performing the copies
//   - writes: the writes to apply
//
// Returns:
//   - error: a *device.DeviceResourceError for a missing, released, or undersized target buffer
func WriteBuffers(dev device.Device, writes ...BufferWrite) error {
	for _, w := range writes {
		if w.Provider == nil || w.Provider.Released() {
			return device.ResourceError("write buffer", "", device.ErrReleased)
		}
		buf := w.Provider.Buffer(w.Binding)
		if buf == nil {
			return device.ResourceError("write buffer", w.Provider.Label(), fmt.Errorf("no buffer at binding %d", w.Binding))
		}
		if err := dev.WriteBuffer(buf, w.Offset, w.Data); err != nil {
			return err
		}
	}
	return nil
}

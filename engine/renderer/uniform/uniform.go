// Package uniform pairs a fixed-size CPU value with the device buffer and bind group that expose it to shaders.
package uniform

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/device"
)

// Value is a plain value with a stable, positional byte layout.
// Marshal must always return exactly Size bytes.
type Value interface {
	Size() int
	Marshal() []byte
}

// uniformResource is the implementation of the UniformResource interface.
type uniformResource[T Value] struct {
	dev      device.Device
	provider bind_group_provider.BindGroupProvider
	value    T
	size     int
}

// UniformResource holds a value of type T mirrored into a uniform buffer. The buffer is sized to the value once at
// creation and never reallocated, and the bind group exposing it is created once and cached.
type UniformResource[T Value] interface {
	// Label returns the debug label of the resource.
	//
	// Returns:
	//   - string: the label
	Label() string

	// Value returns the value most recently written.
	//
	// Returns:
	//   - T: the current value
	Value() T

	// Write copies v into the existing buffer. The buffer is never resized.
	//
	// Parameters:
	//   - v: the new value
	//
	// Returns:
	//   - error: a *device.DeviceResourceError wrapping device.ErrInvalidSize if v marshals to a different size,
	//     or the device's error if the copy fails
	Write(v T) error

	// BindGroup returns the cached bind group exposing the buffer at binding 0.
	//
	// Returns:
	//   - device.BindGroup: the bind group
	BindGroup() device.BindGroup

	// Buffer returns the uniform buffer.
	//
	// Returns:
	//   - device.Buffer: the buffer
	Buffer() device.Buffer

	// Release releases the bind group and the buffer.
	Release()
}

var _ UniformResource[Matrix] = &uniformResource[Matrix]{}

// NewUniformResource allocates a uniform buffer sized to initial, uploads initial, and creates its bind group.
//
// Parameters:
//   - dev: the device to allocate on
//   - label: diagnostic label used for the buffer and the bind group
//   - initial: the initial value
//
// Returns:
//   - UniformResource[T]: the resource
//   - error: a *device.DeviceResourceError if allocation fails
func NewUniformResource[T Value](dev device.Device, label string, initial T) (UniformResource[T], error) {
	if dev == nil {
		return nil, device.ResourceError("create uniform", label, errors.New("device is nil"))
	}
	size := initial.Size()
	data := initial.Marshal()
	if size <= 0 || len(data) != size {
		return nil, device.ResourceError("create uniform", label, fmt.Errorf("%w: value marshals to %d bytes, declares %d", device.ErrInvalidSize, len(data), size))
	}

	buf, err := dev.CreateBuffer(device.BufferDescriptor{
		Label:    label,
		Size:     uint64(size),
		Usage:    device.BufferUsageUniform | device.BufferUsageCopyDst,
		Contents: data,
	})
	if err != nil {
		return nil, err
	}
	bg, err := dev.CreateUniformBindGroup(label, buf)
	if err != nil {
		buf.Release()
		return nil, err
	}

	return &uniformResource[T]{
		dev: dev,
		provider: bind_group_provider.NewBindGroupProvider(label,
			bind_group_provider.WithBuffer(0, buf),
			bind_group_provider.WithBindGroup(bg),
		),
		value: initial,
		size:  size,
	}, nil
}

func (u *uniformResource[T]) Label() string {
	return u.provider.Label()
}

func (u *uniformResource[T]) Value() T {
	return u.value
}

func (u *uniformResource[T]) Write(v T) error {
	data := v.Marshal()
	if len(data) != u.size {
		return device.ResourceError("write uniform", u.Label(), fmt.Errorf("%w: %d bytes into %d-byte buffer", device.ErrInvalidSize, len(data), u.size))
	}
	if err := bind_group_provider.WriteBuffers(u.dev, bind_group_provider.BufferWrite{
		Provider: u.provider,
		Binding:  0,
		Data:     data,
	}); err != nil {
		return err
	}
	u.value = v
	return nil
}

func (u *uniformResource[T]) BindGroup() device.BindGroup {
	return u.provider.BindGroup()
}

func (u *uniformResource[T]) Buffer() device.Buffer {
	return u.provider.Buffer(0)
}

func (u *uniformResource[T]) Release() {
	u.provider.Release()
}

package uniform

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/headless"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blob is a Value whose marshalled size can disagree with its declared size.
type blob struct {
	declared int
	data     []byte
}

func (b blob) Size() int       { return b.declared }
func (b blob) Marshal() []byte { return b.data }

func TestNewUniformResourceUploadsInitialValue(t *testing.T) {
	backend := headless.NewHeadlessBackend()
	u, err := NewUniformResource(backend, "object_0", IdentityMatrix())
	require.NoError(t, err)

	buf := u.Buffer().(*headless.Buffer)
	assert.Equal(t, uint64(64), buf.Size())
	assert.True(t, buf.Usage().Has(device.BufferUsageUniform|device.BufferUsageCopyDst))
	assert.Equal(t, mgl32.Ident4(), common.Mat4FromBytes(buf.Contents()))
	assert.Equal(t, "object_0", u.Label())
	assert.Equal(t, IdentityMatrix(), u.Value())
}

func TestWriteOverwritesInPlace(t *testing.T) {
	backend := headless.NewHeadlessBackend()
	u, err := NewUniformResource(backend, "camera_0", IdentityMatrix())
	require.NoError(t, err)

	bufBefore := u.Buffer()
	bgBefore := u.BindGroup()
	m := Matrix(mgl32.Translate3D(1, 2, 3))
	require.NoError(t, u.Write(m))

	assert.Same(t, bufBefore, u.Buffer())
	assert.Same(t, bgBefore, u.BindGroup())
	assert.Len(t, backend.Buffers(), 1)
	assert.Len(t, backend.BindGroups(), 1)
	assert.Equal(t, m.Mat4(), common.Mat4FromBytes(u.Buffer().(*headless.Buffer).Contents()))
	assert.Equal(t, m, u.Value())
}

func TestWriteRejectsSizeMismatch(t *testing.T) {
	backend := headless.NewHeadlessBackend()
	u, err := NewUniformResource(backend, "blob", blob{declared: 16, data: make([]byte, 16)})
	require.NoError(t, err)

	err = u.Write(blob{declared: 32, data: make([]byte, 32)})
	assert.ErrorIs(t, err, device.ErrInvalidSize)
	assert.Equal(t, uint64(16), u.Buffer().Size())
	assert.Equal(t, 16, u.Value().declared)
}

func TestNewUniformResourceFailures(t *testing.T) {
	_, err := NewUniformResource(headless.NewHeadlessBackend(), "bad", blob{declared: 8, data: make([]byte, 4)})
	assert.ErrorIs(t, err, device.ErrInvalidSize)

	_, err = NewUniformResource(headless.NewHeadlessBackend(headless.WithAllocationLimit(32)), "oom", IdentityMatrix())
	var dre *device.DeviceResourceError
	require.ErrorAs(t, err, &dre)
	assert.ErrorIs(t, err, device.ErrOutOfMemory)
}

func TestReleaseIsDeterministic(t *testing.T) {
	backend := headless.NewHeadlessBackend()
	u, err := NewUniformResource(backend, "object_1", IdentityMatrix())
	require.NoError(t, err)

	u.Release()
	u.Release()
	assert.Zero(t, backend.LiveResources())
	assert.Zero(t, backend.DoubleReleases())
	assert.ErrorIs(t, u.Write(IdentityMatrix()), device.ErrReleased)
}

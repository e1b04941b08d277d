package device

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSurfaceAcquisitionErrorClassification(t *testing.T) {
	cases := []struct {
		status SurfaceStatus
		lost   bool
		oom    bool
	}{
		{SurfaceLost, true, false},
		{SurfaceOutdated, true, false},
		{SurfaceOutOfMemory, false, true},
		{SurfaceTimeout, false, false},
		{SurfaceOther, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.status.String(), func(t *testing.T) {
			err := fmt.Errorf("render: %w", &SurfaceAcquisitionError{Status: tc.status})
			assert.Equal(t, tc.lost, errors.Is(err, ErrSurfaceLost))
			assert.Equal(t, tc.oom, errors.Is(err, ErrSurfaceOutOfMemory))

			var sae *SurfaceAcquisitionError
			assert.True(t, errors.As(err, &sae))
			assert.Equal(t, tc.lost, sae.Recoverable())
		})
	}
}

func TestDeviceResourceErrorUnwraps(t *testing.T) {
	err := fmt.Errorf("scene: %w", ResourceError("create buffer", "camera_0", ErrOutOfMemory))

	var dre *DeviceResourceError
	assert.True(t, errors.As(err, &dre))
	assert.Equal(t, "create buffer", dre.Op)
	assert.Equal(t, "camera_0", dre.Label)
	assert.ErrorIs(t, err, ErrOutOfMemory)
	assert.Contains(t, err.Error(), `create buffer "camera_0"`)
}

func TestBufferUsageHas(t *testing.T) {
	u := BufferUsageUniform | BufferUsageCopyDst
	assert.True(t, u.Has(BufferUsageUniform))
	assert.True(t, u.Has(BufferUsageUniform|BufferUsageCopyDst))
	assert.False(t, u.Has(BufferUsageVertex))
}

func TestSurfaceStatusFromMessage(t *testing.T) {
	assert.Equal(t, SurfaceLost, SurfaceStatusFromMessage("getCurrentTexture status=Lost"))
	assert.Equal(t, SurfaceOutdated, SurfaceStatusFromMessage("surface status: Outdated"))
	assert.Equal(t, SurfaceOutOfMemory, SurfaceStatusFromMessage("OUT_OF_MEMORY"))
	assert.Equal(t, SurfaceOutOfMemory, SurfaceStatusFromMessage("device out of memory"))
	assert.Equal(t, SurfaceTimeout, SurfaceStatusFromMessage("Timeout"))
	assert.Equal(t, SurfaceOther, SurfaceStatusFromMessage("validation error"))
}

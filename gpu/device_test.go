package gpu

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestState_resize(t *testing.T) {
	state := &State{surfaceConfig: &wgpu.SurfaceConfiguration{Width: 1280, Height: 720}}

	assert.False(t, state.resize(1280, 720), "same size")
	assert.False(t, state.resize(0, 0), "minimized window keeps the last size")
	assert.Equal(t, uint32(1280), state.surfaceConfig.Width)

	assert.True(t, state.resize(800, 600))
	assert.Equal(t, uint32(800), state.surfaceConfig.Width)
	assert.Equal(t, uint32(600), state.surfaceConfig.Height)
}

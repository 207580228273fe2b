package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInput_setKey(t *testing.T) {
	var input Input

	input.setKey(KeyO, true)
	assert.True(t, input.Pressed[KeyO])
	assert.True(t, input.JustPressed[KeyO])

	input.setKey(KeyO, true)
	assert.True(t, input.Pressed[KeyO])
	assert.False(t, input.JustPressed[KeyO], "held keys are only just pressed once")

	input.setKey(KeyO, false)
	assert.False(t, input.Pressed[KeyO])
	assert.True(t, input.JustReleased[KeyO])

	input.setKey(KeyO, false)
	assert.False(t, input.JustReleased[KeyO])
}

func TestKeyToGlfw_CoversEveryKey(t *testing.T) {
	assert.Len(t, keyToGlfw, keyCount)
}

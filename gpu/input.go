package gpu

import (
	gekko "github.com/gekko3d/gekko-outline"
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	KeyB int = iota
	KeyG
	KeyN
	KeyO
	KeyR
	KeyW
	KeySpace
	KeyEscape
	KeyMinus
	KeyEqual
	keyCount
)

// Input holds the keyboard state of the current frame.
type Input struct {
	Pressed      [keyCount]bool
	JustPressed  [keyCount]bool
	JustReleased [keyCount]bool
}

// InputModule polls the keys every PreUpdate. WindowModule must be installed first.
type InputModule struct{}

func (mod InputModule) Install(app *gekko.App, cmd *gekko.Commands) {
	if _, ok := gekko.Resource[WindowState](app); !ok {
		panic("gpu.InputModule requires gpu.WindowModule to be installed first")
	}
	cmd.AddResources(&Input{})
	app.UseSystem(
		gekko.System(inputSystem).
			InStage(gekko.PreUpdate).
			RunAlways(),
	)
}

func inputSystem(s *WindowState, input *Input) {
	for key, glfwKey := range keyToGlfw {
		input.setKey(key, s.windowGlfw.GetKey(glfwKey) == glfw.Press)
	}
}

func (input *Input) setKey(key int, pressed bool) {
	input.JustPressed[key] = pressed && !input.Pressed[key]
	input.JustReleased[key] = !pressed && input.Pressed[key]
	input.Pressed[key] = pressed
}

var keyToGlfw = map[int]glfw.Key{
	KeyB:      glfw.KeyB,
	KeyG:      glfw.KeyG,
	KeyN:      glfw.KeyN,
	KeyO:      glfw.KeyO,
	KeyR:      glfw.KeyR,
	KeyW:      glfw.KeyW,
	KeySpace:  glfw.KeySpace,
	KeyEscape: glfw.KeyEscape,
	KeyMinus:  glfw.KeyMinus,
	KeyEqual:  glfw.KeyEqual,
}

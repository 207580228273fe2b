package gpu

import (
	"runtime"

	gekko "github.com/gekko3d/gekko-outline"
	"github.com/go-gl/glfw/v3.3/glfw"
)

type WindowState struct {
	windowGlfw   *glfw.Window
	WindowWidth  int
	WindowHeight int
	windowTitle  string
}

// WindowModule creates the shared glfw window, polls its events every
// Prelude and quits the app when the window is closed.
type WindowModule struct {
	Width  int
	Height int
	Title  string
}

// NewWindowModule fills in defaults for zero values.
func NewWindowModule(width, height int, title string) WindowModule {
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 720
	}
	if title == "" {
		title = "Gekko"
	}
	return WindowModule{Width: width, Height: height, Title: title}
}

func (m WindowModule) Install(app *gekko.App, cmd *gekko.Commands) {
	if _, ok := gekko.Resource[WindowState](app); ok {
		return
	}

	ws := createWindowState(m.Width, m.Height, m.Title)
	cmd.AddResources(ws)
	app.OnShutdown(ws.destroy)
	app.UseSystem(
		gekko.System(pollWindowSystem).
			InStage(gekko.Prelude).
			RunAlways(),
	)
	cmd.Logger().Infof("Created window (%dx%d) '%s'", m.Width, m.Height, m.Title)
}

func createWindowState(width int, height int, title string) *WindowState {
	// glfw must stay on the main thread.
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		panic(err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		panic(err)
	}

	return &WindowState{
		windowGlfw:   win,
		WindowWidth:  width,
		WindowHeight: height,
		windowTitle:  title,
	}
}

func (ws *WindowState) destroy() {
	ws.windowGlfw.Destroy()
	glfw.Terminate()
}

func pollWindowSystem(ws *WindowState, cmd *gekko.Commands) {
	glfw.PollEvents()
	if ws.windowGlfw.ShouldClose() {
		cmd.Quit()
	}
}

package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	gekko "github.com/gekko3d/gekko-outline"
)

// State is the device of the shared window. The adapter and surface
// configuration are kept so the surface can be reconfigured on resize.
type State struct {
	surface       *wgpu.Surface
	adapter       *wgpu.Adapter
	device        *wgpu.Device
	queue         *wgpu.Queue
	surfaceConfig *wgpu.SurfaceConfiguration
}

// Module acquires a device for the shared window. WindowModule must be installed first.
type Module struct{}

func (Module) Install(app *gekko.App, cmd *gekko.Commands) {
	ws, ok := gekko.Resource[WindowState](app)
	if !ok {
		panic("gpu.Module requires WindowModule to be installed first")
	}

	state := createState(ws)
	cmd.AddResources(state)
	app.OnShutdown(state.release)
	app.UseSystem(
		gekko.System(resizeSurfaceSystem).
			InStage(gekko.PreRender).
			RunAlways(),
	)
}

func createState(ws *WindowState) *State {
	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(ws.windowGlfw))
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		panic(err)
	}
	// Outline uniforms are plain uniform buffers, default limits are enough.
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Outline Device",
	})
	if err != nil {
		panic(err)
	}

	caps := surface.GetCapabilities(adapter)
	state := &State{
		surface: surface,
		adapter: adapter,
		device:  device,
		queue:   device.GetQueue(),
		surfaceConfig: &wgpu.SurfaceConfiguration{
			Usage:       wgpu.TextureUsageRenderAttachment,
			Format:      caps.Formats[0],
			Width:       uint32(ws.WindowWidth),
			Height:      uint32(ws.WindowHeight),
			PresentMode: wgpu.PresentModeFifo, // vsync
			AlphaMode:   caps.AlphaModes[0],
		},
	}
	state.configure()
	return state
}

func (s *State) configure() {
	s.surface.Configure(s.adapter, s.device, s.surfaceConfig)
}

// resize updates the surface size. It reports false when nothing changed
// or the window is minimized (zero sized).
func (s *State) resize(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	if s.surfaceConfig.Width == uint32(width) && s.surfaceConfig.Height == uint32(height) {
		return false
	}
	s.surfaceConfig.Width = uint32(width)
	s.surfaceConfig.Height = uint32(height)
	return true
}

func resizeSurfaceSystem(ws *WindowState, state *State, cmd *gekko.Commands) {
	width, height := ws.windowGlfw.GetFramebufferSize()
	if !state.resize(width, height) {
		return
	}
	ws.WindowWidth, ws.WindowHeight = width, height
	state.configure()
	cmd.Logger().Debugf("Surface resized to %dx%d", width, height)
}

func (s *State) release() {
	s.queue.Release()
	s.device.Release()
	s.adapter.Release()
	s.surface.Release()
}

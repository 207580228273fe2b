package main

import (
	"flag"
	"math"
	"time"

	gekko "github.com/gekko3d/gekko-outline"
	"github.com/gekko3d/gekko-outline/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

// demoState is filled by the setup system on the first frame.
type demoState struct {
	presetPath string
	ready      bool
	root       gekko.EntityId

	outlineMaterial gekko.AssetId
	body            gekko.AssetId
	cube            gekko.AssetId
	spawned         int
}

const thicknessStep float32 = .01

func main() {
	presetPath := flag.String("preset", "", "outline preset JSON file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	app := gekko.NewAppBuilder().
		UseModule(
			gekko.LoggingModule{Prefix: "outline-demo", Debug: *debug},
			gekko.TimeModule{},
			gekko.AssetServerModule{},
			gekko.HierarchyModule{},
			gekko.LifecycleModule{},
			gekko.OutlineModule{},
		).
		UseModule(
			gpu.NewWindowModule(1280, 720, "Outline demo"),
			gpu.InputModule{},
			gpu.Module{},
			gpu.OutlineUniformsModule{},
		).
		Build()
	app.Commands().AddResources(&demoState{presetPath: *presetPath})

	app.UseSystem(gekko.System(setupSystem).InStage(gekko.Prelude).RunAlways())
	app.UseSystem(gekko.System(controlSystem).InStage(gekko.Update).RunAlways())
	app.UseSystem(gekko.System(pulseSystem).InStage(gekko.Update).RunAlways())

	app.Run()
}

func setupSystem(cmd *gekko.Commands, assets *gekko.AssetServer, state *demoState) {
	if state.ready {
		return
	}
	state.ready = true

	outlineShader := assets.CreateShader("Gekko/Highlight Outline", "")
	litShader := assets.CreateShader("Gekko/Lit", "")
	state.outlineMaterial = assets.CreateMaterial("Outline", outlineShader)
	state.body = assets.CreateMaterial("Body", litShader)
	state.cube = assets.CreateMesh("cube")

	def := &gekko.OutlineDef{Material: state.outlineMaterial}
	if state.presetPath != "" {
		preset, err := gekko.LoadOutlinePreset(state.presetPath)
		if err != nil {
			cmd.Logger().Errorf("Loading preset: %v", err)
		} else {
			def.Preset = &preset
		}
	}

	roots := gekko.LoadScene(cmd, &gekko.SceneDef{
		Objects: []gekko.ObjectDef{{
			Name:     "crate",
			Renderer: &gekko.RendererDef{Mesh: state.cube, Materials: []gekko.AssetId{state.body}},
			Outline:  def,
			Children: []gekko.ObjectDef{
				{
					Name:     "lid",
					Position: mgl32.Vec3{0, 1, 0},
					Renderer: &gekko.RendererDef{Mesh: state.cube, Materials: []gekko.AssetId{state.body}},
				},
			},
		}},
	})
	state.root = roots[0]
}

// controlSystem maps keys to the outline setters:
// O toggles it, R/G/B flip a color channel, -/= change the thickness,
// W saves the current look to the preset file and N spawns a short-lived crate.
func controlSystem(cmd *gekko.Commands, input *gpu.Input, registry *gekko.OutlineRegistry, state *demoState) {
	if input.JustPressed[gpu.KeyEscape] {
		cmd.Quit()
		return
	}
	if input.JustPressed[gpu.KeyN] {
		spawnFlash(cmd, state)
	}

	outline, ok := registry.Get(state.root)
	if !ok {
		return
	}

	if input.JustPressed[gpu.KeyO] {
		outline.SetShow(!outline.Show())
	}
	color := outline.Color()
	if input.JustPressed[gpu.KeyR] {
		outline.SetColorRed(1 - color.X())
	}
	if input.JustPressed[gpu.KeyG] {
		outline.SetColorGreen(1 - color.Y())
	}
	if input.JustPressed[gpu.KeyB] {
		outline.SetColorBlue(1 - color.Z())
	}
	if input.JustPressed[gpu.KeyMinus] {
		outline.SetThickness(max(0, outline.Thickness()-thicknessStep))
	}
	if input.JustPressed[gpu.KeyEqual] {
		outline.SetThickness(outline.Thickness() + thicknessStep)
	}
	if input.JustPressed[gpu.KeyW] && state.presetPath != "" {
		if err := gekko.SaveOutlinePreset(state.presetPath, gekko.PresetOf(outline)); err != nil {
			cmd.Logger().Errorf("Saving preset: %v", err)
		} else {
			cmd.Logger().Infof("Saved outline preset to %s", state.presetPath)
		}
	}
}

func spawnFlash(cmd *gekko.Commands, state *demoState) {
	state.spawned++
	outline := gekko.NewOutlineComponent(state.outlineMaterial)
	outline.Color = gekko.RedOutlineColor

	tr := gekko.IdentityTransform()
	tr.Position = mgl32.Vec3{float32(state.spawned%5)*2 - 4, 0, -3}
	cmd.AddEntity(
		&gekko.NameComponent{Name: "flash"},
		&tr,
		&gekko.MeshRendererComponent{Mesh: state.cube, Materials: []gekko.AssetId{state.body}},
		&outline,
		&gekko.LifetimeComponent{TimeLeft: 2 * time.Second},
	)
}

// pulseSystem animates the alpha of the main outline while it is shown.
func pulseSystem(t *gekko.Time, registry *gekko.OutlineRegistry, state *demoState) {
	outline, ok := registry.Get(state.root)
	if !ok || !outline.Show() {
		return
	}

	phase := float32(math.Sin(t.Elapsed.Seconds()*2)*0.5 + 0.5)
	outline.SetColorAlpha(0.25 + 0.75*phase)
}

package gekko

import (
	"fmt"
	"maps"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// OutlineComponent requests an outline on its entity and the entity's
// descendants. It only seeds the outline; use OutlineRegistry.Get to change
// the live values afterwards.
type OutlineComponent struct {
	Material  AssetId
	Color     mgl32.Vec4
	Thickness float32
	Show      bool
}

// NewOutlineComponent returns a component with the default outline settings.
func NewOutlineComponent(material AssetId) OutlineComponent {
	cfg := DefaultOutlineConfig()
	return OutlineComponent{
		Material:  material,
		Color:     cfg.Color,
		Thickness: cfg.Thickness,
		Show:      cfg.Show,
	}
}

func (c OutlineComponent) config() OutlineConfig {
	return OutlineConfig{
		Material:  c.Material,
		Color:     c.Color,
		Thickness: c.Thickness,
		Show:      c.Show,
	}
}

// OutlineRegistry owns the outline of every entity carrying an OutlineComponent.
type OutlineRegistry struct {
	outlines map[EntityId]*Outline
	failed   map[EntityId]error
}

func NewOutlineRegistry() *OutlineRegistry {
	return &OutlineRegistry{
		outlines: make(map[EntityId]*Outline),
		failed:   make(map[EntityId]error),
	}
}

func (r *OutlineRegistry) Get(eid EntityId) (*Outline, bool) {
	o, ok := r.outlines[eid]
	return o, ok
}

// Failed returns the activation error of the entity's outline, if any.
func (r *OutlineRegistry) Failed(eid EntityId) error {
	return r.failed[eid]
}

func (r *OutlineRegistry) Entities() []EntityId {
	return slices.Sorted(maps.Keys(r.outlines))
}

func (r *OutlineRegistry) release(eid EntityId) {
	if o, ok := r.outlines[eid]; ok {
		o.Destroy()
		delete(r.outlines, eid)
	}
	delete(r.failed, eid)
}

// releaseDetached releases outlines and forgets failures of entities that
// no longer carry an OutlineComponent.
func (r *OutlineRegistry) releaseDetached(cmd *Commands) {
	tracked := slices.Concat(r.Entities(), slices.Collect(maps.Keys(r.failed)))
	for _, eid := range tracked {
		if _, ok := GetComponent[OutlineComponent](cmd, eid); !ok {
			r.release(eid)
		}
	}
}

func (r *OutlineRegistry) releaseAll() {
	for _, eid := range r.Entities() {
		r.release(eid)
	}
}

// OutlineModule activates outlines for new OutlineComponent entities in
// PreUpdate and releases them when their entity or component is removed.
type OutlineModule struct{}

func (OutlineModule) Install(app *App, cmd *Commands) {
	if _, ok := Resource[AssetServer](app); !ok {
		panic("OutlineModule requires AssetServerModule to be installed first")
	}

	registry := NewOutlineRegistry()
	app.addResources(registry)
	app.OnEntityRemoved(registry.release)
	app.OnShutdown(registry.releaseAll)

	app.UseSystem(
		System(outlineActivationSystem).
			InStage(PreUpdate).
			RunAlways(),
	)
}

func outlineActivationSystem(cmd *Commands, assets *AssetServer, registry *OutlineRegistry) {
	registry.releaseDetached(cmd)

	var pending []EntityId
	MakeQuery1[OutlineComponent](cmd).Map(func(eid EntityId, _ *OutlineComponent) bool {
		_, active := registry.outlines[eid]
		_, failed := registry.failed[eid]
		if !active && !failed {
			pending = append(pending, eid)
		}
		return true
	})
	slices.Sort(pending)

	logger := cmd.Logger()
	for _, eid := range pending {
		comp, _ := GetComponent[OutlineComponent](cmd, eid)

		outline := NewOutline(entityName(cmd, eid), assets, NewHierarchySurfaces(cmd, eid), logger, comp.config())
		if err := outline.Activate(); err != nil {
			logger.Errorf("Outline activation failed: %v", err)
			registry.failed[eid] = err
			continue
		}
		registry.outlines[eid] = outline
	}
}

func entityName(cmd *Commands, eid EntityId) string {
	if n, ok := GetComponent[NameComponent](cmd, eid); ok && n.Name != "" {
		return n.Name
	}
	return fmt.Sprintf("entity %d", eid)
}

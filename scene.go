package gekko

import (
	"github.com/go-gl/mathgl/mgl32"
)

// SceneDef defines the initial state of a scene.
type SceneDef struct {
	Objects []ObjectDef
}

// ObjectDef is one entity and its children. A zero Rotation or Scale means identity.
type ObjectDef struct {
	Name     string
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
	Renderer *RendererDef
	Outline  *OutlineDef
	Children []ObjectDef
}

type RendererDef struct {
	Mesh      AssetId
	Materials []AssetId
}

// OutlineDef seeds an OutlineComponent. Preset, when set, overrides the defaults.
type OutlineDef struct {
	Material AssetId
	Preset   *OutlinePreset
}

// LoadScene spawns every object of the scene and returns the root entities.
func LoadScene(cmd *Commands, scene *SceneDef) []EntityId {
	var roots []EntityId
	for _, obj := range scene.Objects {
		roots = append(roots, spawnObject(cmd, obj, nil))
	}
	return roots
}

func spawnObject(cmd *Commands, def ObjectDef, parent *EntityId) EntityId {
	rotation := def.Rotation
	if rotation == (mgl32.Quat{}) {
		rotation = mgl32.QuatIdent()
	}
	scale := def.Scale
	if scale == (mgl32.Vec3{}) {
		scale = mgl32.Vec3{1, 1, 1}
	}

	components := []any{
		&NameComponent{Name: def.Name},
		&TransformComponent{Position: def.Position, Rotation: rotation, Scale: scale},
		&LocalTransformComponent{Position: def.Position, Rotation: rotation, Scale: scale},
	}
	if parent != nil {
		components = append(components, &Parent{Entity: *parent})
	}
	if def.Renderer != nil {
		components = append(components, &MeshRendererComponent{
			Mesh:      def.Renderer.Mesh,
			Materials: append([]AssetId(nil), def.Renderer.Materials...),
		})
	}
	if def.Outline != nil {
		outline := NewOutlineComponent(def.Outline.Material)
		if def.Outline.Preset != nil {
			cfg := outline.config()
			def.Outline.Preset.ApplyConfig(&cfg)
			outline.Color, outline.Thickness, outline.Show = cfg.Color, cfg.Thickness, cfg.Show
		}
		components = append(components, &outline)
	}

	eid := cmd.AddEntity(components...)
	for _, child := range def.Children {
		spawnObject(cmd, child, &eid)
	}
	return eid
}

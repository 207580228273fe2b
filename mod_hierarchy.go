package gekko

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

type Parent struct {
	Entity EntityId
}

type NameComponent struct {
	Name string
}

// TransformComponent is the world transform.
type TransformComponent struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// LocalTransformComponent is the transform relative to the Parent.
type LocalTransformComponent struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func IdentityTransform() TransformComponent {
	return TransformComponent{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

type HierarchyModule struct{}

func (HierarchyModule) Install(app *App, cmd *Commands) {
	app.UseSystem(
		System(TransformHierarchySystem).
			InStage(PostUpdate).
			RunAlways(),
	)
}

// TransformHierarchySystem derives world transforms of children from their
// parent's world transform and their local transform.
func TransformHierarchySystem(cmd *Commands) {
	// Roots own their world transform; keep the local copy in sync.
	MakeQuery2[LocalTransformComponent, TransformComponent](cmd).Without(Parent{}).Map(func(eid EntityId, local *LocalTransformComponent, tr *TransformComponent) bool {
		local.Position = tr.Position
		local.Rotation = tr.Rotation
		local.Scale = tr.Scale
		return true
	})

	// Parents are visited top-down so one pass covers any depth.
	for _, eid := range hierarchyOrder(cmd) {
		local, ok := GetComponent[LocalTransformComponent](cmd, eid)
		if !ok {
			continue
		}
		parent, ok := GetComponent[Parent](cmd, eid)
		if !ok {
			continue
		}
		world, ok := GetComponent[TransformComponent](cmd, eid)
		if !ok {
			continue
		}
		parentWorld, ok := GetComponent[TransformComponent](cmd, parent.Entity)
		if !ok {
			continue
		}

		// Component-wise propagation keeps negative scales (reflections) intact.
		// WorldPos = ParentPos + ParentRot * (ParentScale * LocalPos)
		scaledLocalPos := mgl32.Vec3{
			local.Position.X() * parentWorld.Scale.X(),
			local.Position.Y() * parentWorld.Scale.Y(),
			local.Position.Z() * parentWorld.Scale.Z(),
		}
		world.Position = parentWorld.Position.Add(parentWorld.Rotation.Rotate(scaledLocalPos))
		world.Rotation = parentWorld.Rotation.Mul(local.Rotation).Normalize()
		world.Scale = mgl32.Vec3{
			parentWorld.Scale.X() * local.Scale.X(),
			parentWorld.Scale.Y() * local.Scale.Y(),
			parentWorld.Scale.Z() * local.Scale.Z(),
		}
	}
}

// childrenIndex maps each parent to its children, sorted by entity id.
func childrenIndex(cmd *Commands) map[EntityId][]EntityId {
	children := make(map[EntityId][]EntityId)
	MakeQuery1[Parent](cmd).Map(func(eid EntityId, p *Parent) bool {
		children[p.Entity] = append(children[p.Entity], eid)
		return true
	})
	for _, c := range children {
		slices.Sort(c)
	}
	return children
}

// HierarchyOf returns root followed by its descendants, depth-first pre-order,
// siblings in entity id order. A Parent cycle is walked only once.
func HierarchyOf(cmd *Commands, root EntityId) []EntityId {
	if !cmd.HasEntity(root) {
		return nil
	}
	return walkHierarchy(childrenIndex(cmd), root, nil, make(set[EntityId]))
}

func walkHierarchy(children map[EntityId][]EntityId, eid EntityId, out []EntityId, seen set[EntityId]) []EntityId {
	if _, ok := seen[eid]; ok {
		return out
	}
	seen[eid] = struct{}{}
	out = append(out, eid)
	for _, child := range children[eid] {
		out = walkHierarchy(children, child, out, seen)
	}
	return out
}

// hierarchyOrder lists every child entity after its parent.
func hierarchyOrder(cmd *Commands) []EntityId {
	children := childrenIndex(cmd)
	var roots []EntityId
	for parent := range children {
		if p, ok := GetComponent[Parent](cmd, parent); !ok || !cmd.HasEntity(p.Entity) {
			roots = append(roots, parent)
		}
	}
	slices.Sort(roots)

	seen := make(set[EntityId])
	var order []EntityId
	for _, root := range roots {
		order = walkHierarchy(children, root, order, seen)
	}
	return order
}

package gekko

import "slices"

// MeshRendererComponent draws Mesh once per material slot.
type MeshRendererComponent struct {
	Mesh      AssetId
	Materials []AssetId
}

// VisibleMaterials returns the slots whose material is still loaded.
func (r *MeshRendererComponent) VisibleMaterials(assets *AssetServer) []AssetId {
	var res []AssetId
	for _, id := range r.Materials {
		if assets.HasMaterial(id) {
			res = append(res, id)
		}
	}
	return res
}

// rendererSurface is a Surface backed by an entity's MeshRendererComponent.
// It looks the component up on every call because archetype moves
// invalidate component pointers.
type rendererSurface struct {
	cmd *Commands
	eid EntityId
}

func (s rendererSurface) Materials() []AssetId {
	r, ok := GetComponent[MeshRendererComponent](s.cmd, s.eid)
	if !ok {
		return nil
	}
	return slices.Clone(r.Materials)
}

func (s rendererSurface) SetMaterials(materials []AssetId) {
	r, ok := GetComponent[MeshRendererComponent](s.cmd, s.eid)
	if !ok {
		return
	}
	r.Materials = slices.Clone(materials)
}

// HierarchySurfaces provides the mesh renderers of root and its descendants.
type HierarchySurfaces struct {
	cmd  *Commands
	root EntityId
}

func NewHierarchySurfaces(cmd *Commands, root EntityId) HierarchySurfaces {
	return HierarchySurfaces{cmd: cmd, root: root}
}

func (h HierarchySurfaces) Surfaces() []Surface {
	var res []Surface
	for _, eid := range HierarchyOf(h.cmd, h.root) {
		if _, ok := GetComponent[MeshRendererComponent](h.cmd, eid); ok {
			res = append(res, rendererSurface{cmd: h.cmd, eid: eid})
		}
	}
	return res
}

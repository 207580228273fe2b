package gekko

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type uniformWrite struct {
	material AssetId
	property string
	value    any
}

type fakeMaterial struct {
	name   string
	shader string
}

// recordingHost is a MaterialHost that records every uniform write.
type recordingHost struct {
	materials map[AssetId]fakeMaterial
	writes    []uniformWrite
	released  []AssetId
	clones    int
}

func newRecordingHost() *recordingHost {
	return &recordingHost{materials: make(map[AssetId]fakeMaterial)}
}

func (h *recordingHost) add(id AssetId, name, shader string) AssetId {
	h.materials[id] = fakeMaterial{name: name, shader: shader}
	return id
}

func (h *recordingHost) MaterialInfo(id AssetId) (string, string, bool) {
	m, ok := h.materials[id]
	return m.name, m.shader, ok
}

func (h *recordingHost) CloneMaterial(id AssetId, name string) (AssetId, error) {
	src, ok := h.materials[id]
	if !ok {
		return "", ErrAssetNotFound
	}
	h.clones++
	clone := AssetId(fmt.Sprintf("%s#%d", id, h.clones))
	h.materials[clone] = fakeMaterial{name: name, shader: src.shader}
	return clone, nil
}

func (h *recordingHost) SetColor(id AssetId, property string, value mgl32.Vec4) {
	h.writes = append(h.writes, uniformWrite{id, property, value})
}

func (h *recordingHost) SetFloat(id AssetId, property string, value float32) {
	h.writes = append(h.writes, uniformWrite{id, property, value})
}

func (h *recordingHost) SetInt(id AssetId, property string, value int32) {
	h.writes = append(h.writes, uniformWrite{id, property, value})
}

func (h *recordingHost) ReleaseMaterial(id AssetId) {
	delete(h.materials, id)
	h.released = append(h.released, id)
}

type sliceSurface struct {
	materials []AssetId
}

func (s *sliceSurface) Materials() []AssetId            { return slices.Clone(s.materials) }
func (s *sliceSurface) SetMaterials(materials []AssetId) { s.materials = slices.Clone(materials) }

type staticSurfaces []*sliceSurface

func (s staticSurfaces) Surfaces() []Surface {
	res := make([]Surface, len(s))
	for i, surface := range s {
		res[i] = surface
	}
	return res
}

// warnCounter counts warnings and drops everything else.
type warnCounter struct {
	nopLogger
	warnings []string
}

func (w *warnCounter) Warnf(format string, args ...any) {
	w.warnings = append(w.warnings, fmt.Sprintf(format, args...))
}

const outlineShader = "Gekko/Highlight Outline"

func newTestOutline(t *testing.T, surfaces ...*sliceSurface) (*Outline, *recordingHost) {
	t.Helper()
	host := newRecordingHost()
	cfg := DefaultOutlineConfig()
	cfg.Material = host.add("outline", "Outline", outlineShader)
	return NewOutline("crate", host, staticSurfaces(surfaces), nil, cfg), host
}

func TestOutline_BuffersUntilActivated(t *testing.T) {
	outline, host := newTestOutline(t, &sliceSurface{})

	color := mgl32.Vec4{0.1, 0.2, 0.3, 0.4}
	outline.SetColor(color)
	outline.SetThickness(0.2)
	outline.SetShow(false)

	assert.Empty(t, host.writes, "no uniform may be touched before activation")
	assert.Equal(t, color, outline.Color())
	assert.Equal(t, float32(0.2), outline.Thickness())
	assert.False(t, outline.Show())

	require.NoError(t, outline.Activate())

	instance := outline.MaterialInstance()
	assert.Equal(t, []uniformWrite{
		{instance, OutlineEnabledProperty, int32(0)},
		{instance, OutlineThicknessProperty, float32(0.2)},
		{instance, OutlineColorProperty, color},
	}, host.writes, "buffered values are applied once, visibility then thickness then color")
}

func TestOutline_SetColorAfterActivation(t *testing.T) {
	outline, host := newTestOutline(t, &sliceSurface{})
	require.NoError(t, outline.Activate())
	host.writes = nil

	// Out of range values are forwarded untouched.
	color := mgl32.Vec4{2, -1, 0.5, 7}
	outline.SetColor(color)

	assert.Equal(t, color, outline.Color())
	assert.Equal(t, []uniformWrite{{outline.MaterialInstance(), OutlineColorProperty, color}}, host.writes)
}

func TestOutline_ChannelSettersBeforeActivationAreIgnored(t *testing.T) {
	outline, host := newTestOutline(t, &sliceSurface{})

	outline.SetColorRed(1)
	outline.SetColorGreen(0)
	outline.SetColorBlue(1)
	outline.SetColorAlpha(0)

	assert.Equal(t, DefaultOutlineColor, outline.Color())
	assert.Empty(t, host.writes)

	require.NoError(t, outline.Activate())
	assert.Equal(t, DefaultOutlineColor, outline.Color(), "ignored channel writes must not be replayed")
}

func TestOutline_ChannelSettersAfterActivation(t *testing.T) {
	tests := []struct {
		name    string
		set     func(o *Outline, v float32)
		channel int
	}{
		{"red", (*Outline).SetColorRed, 0},
		{"green", (*Outline).SetColorGreen, 1},
		{"blue", (*Outline).SetColorBlue, 2},
		{"alpha", (*Outline).SetColorAlpha, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outline, host := newTestOutline(t, &sliceSurface{})
			require.NoError(t, outline.Activate())
			host.writes = nil

			start := outline.Color()
			tt.set(outline, 0.75)

			want := start
			want[tt.channel] = 0.75
			assert.Equal(t, want, outline.Color())
			assert.Equal(t, []uniformWrite{{outline.MaterialInstance(), OutlineColorProperty, want}}, host.writes)
		})
	}
}

func TestOutline_ActivateWithoutMaterial(t *testing.T) {
	surface := &sliceSurface{materials: []AssetId{"body"}}
	host := newRecordingHost()
	outline := NewOutline("crate", host, staticSurfaces{surface}, nil, DefaultOutlineConfig())

	err := outline.Activate()

	require.ErrorIs(t, err, ErrMissingOutlineMaterial)
	assert.False(t, outline.Initialized())
	assert.Equal(t, []AssetId{"body"}, surface.materials, "surfaces must not be touched")
	assert.Zero(t, host.clones)

	// The outline stays inert; writes keep buffering.
	outline.SetColor(RedOutlineColor)
	assert.Empty(t, host.writes)
	assert.Equal(t, RedOutlineColor, outline.Color())
}

func TestOutline_ActivateWithUnknownMaterial(t *testing.T) {
	surface := &sliceSurface{}
	cfg := DefaultOutlineConfig()
	cfg.Material = "deleted"
	outline := NewOutline("crate", newRecordingHost(), staticSurfaces{surface}, nil, cfg)

	assert.ErrorIs(t, outline.Activate(), ErrMissingOutlineMaterial)
	assert.Empty(t, surface.materials)
}

func TestOutline_WarnsOnUnexpectedShader(t *testing.T) {
	host := newRecordingHost()
	logger := &warnCounter{}
	cfg := DefaultOutlineConfig()
	cfg.Material = host.add("lit", "Lit", "Gekko/Lit")
	surface := &sliceSurface{}

	outline := NewOutline("crate", host, staticSurfaces{surface}, logger, cfg)

	require.NoError(t, outline.Activate(), "a shader name mismatch is not fatal")
	assert.True(t, outline.Initialized())
	require.Len(t, logger.warnings, 1)
	assert.Contains(t, logger.warnings[0], "crate")
	assert.Len(t, surface.materials, 1)
}

func TestOutline_ShaderNameNeedsSeparator(t *testing.T) {
	host := newRecordingHost()
	logger := &warnCounter{}
	cfg := DefaultOutlineConfig()
	cfg.Material = host.add("bad", "Bad", "NotAHighlight Outline")

	require.NoError(t, NewOutline("crate", host, staticSurfaces{}, logger, cfg).Activate())
	assert.Len(t, logger.warnings, 1)
}

func TestOutline_AttachesOneSharedInstance(t *testing.T) {
	surfaces := []*sliceSurface{
		{materials: []AssetId{"body"}},
		{},
		{materials: []AssetId{"a", "b"}},
	}
	outline, host := newTestOutline(t, surfaces...)

	require.NoError(t, outline.Activate())

	instance := outline.MaterialInstance()
	require.NotEmpty(t, instance)
	assert.Equal(t, 1, host.clones)
	assert.Equal(t, []AssetId{"body", instance}, surfaces[0].materials)
	assert.Equal(t, []AssetId{instance}, surfaces[1].materials)
	assert.Equal(t, []AssetId{"a", "b", instance}, surfaces[2].materials)
	assert.Equal(t, []int{1, 0, 2}, outline.materialIndices)

	name, _, _ := host.MaterialInfo(instance)
	assert.Equal(t, "Outline (Clone)", name)
}

func TestOutline_ActivateTwice(t *testing.T) {
	surface := &sliceSurface{}
	outline, _ := newTestOutline(t, surface)

	require.NoError(t, outline.Activate())
	assert.ErrorIs(t, outline.Activate(), ErrOutlineActive)
	assert.Len(t, surface.materials, 1)
}

func TestOutline_ReassignMaterialAfterActivation(t *testing.T) {
	surfaces := []*sliceSurface{{materials: []AssetId{"body"}}, {}}
	outline, host := newTestOutline(t, surfaces...)
	require.NoError(t, outline.Activate())
	outline.SetColor(RedOutlineColor)
	outline.SetThickness(0.3)
	outline.SetShow(false)
	old := outline.MaterialInstance()

	replacement := host.add("outline-2", "Outline 2", outlineShader)
	host.writes = nil
	require.NoError(t, outline.SetOutlineMaterial(replacement))

	instance := outline.MaterialInstance()
	assert.NotEqual(t, old, instance, "a new instance is created")
	assert.Equal(t, replacement, outline.OutlineMaterial())
	assert.Equal(t, []AssetId{"body", instance}, surfaces[0].materials, "the recorded slot is overwritten")
	assert.Equal(t, []AssetId{instance}, surfaces[1].materials)
	assert.Equal(t, []AssetId{old}, host.released, "the previous instance is released")

	assert.Equal(t, []uniformWrite{
		{instance, OutlineEnabledProperty, int32(0)},
		{instance, OutlineThicknessProperty, float32(0.3)},
		{instance, OutlineColorProperty, RedOutlineColor},
	}, host.writes)
}

func TestOutline_ReassignMaterialBeforeActivation(t *testing.T) {
	surface := &sliceSurface{}
	outline, host := newTestOutline(t, surface)
	replacement := host.add("outline-2", "Outline 2", outlineShader)

	require.NoError(t, outline.SetOutlineMaterial(replacement))
	assert.Zero(t, host.clones, "nothing is instanced before activation")
	assert.Empty(t, surface.materials)

	require.NoError(t, outline.Activate())
	name, _, _ := host.MaterialInfo(outline.MaterialInstance())
	assert.Equal(t, "Outline 2 (Clone)", name)
}

func TestOutline_ReassignMissingMaterialKeepsInstance(t *testing.T) {
	surface := &sliceSurface{}
	outline, _ := newTestOutline(t, surface)
	require.NoError(t, outline.Activate())
	instance := outline.MaterialInstance()

	err := outline.SetOutlineMaterial("")

	assert.True(t, errors.Is(err, ErrMissingOutlineMaterial))
	assert.Equal(t, instance, outline.MaterialInstance())
	assert.Equal(t, []AssetId{instance}, surface.materials)
}

func TestOutline_SurfacesAddedLaterAreNotTracked(t *testing.T) {
	surfaces := staticSurfaces{{}}
	host := newRecordingHost()
	cfg := DefaultOutlineConfig()
	cfg.Material = host.add("outline", "Outline", outlineShader)
	outline := NewOutline("crate", host, &surfaces, nil, cfg)
	require.NoError(t, outline.Activate())

	late := &sliceSurface{}
	surfaces = append(surfaces, late)
	require.NoError(t, outline.SetOutlineMaterial(cfg.Material))

	assert.Empty(t, late.materials)
}

func TestOutline_Destroy(t *testing.T) {
	outline, host := newTestOutline(t, &sliceSurface{})
	require.NoError(t, outline.Activate())
	instance := outline.MaterialInstance()

	outline.Destroy()
	outline.Destroy()

	assert.Equal(t, []AssetId{instance}, host.released)
	assert.Empty(t, outline.MaterialInstance())
}

func TestOutline_SettersAfterDestroyDoNotInstance(t *testing.T) {
	surface := &sliceSurface{}
	outline, host := newTestOutline(t, surface)
	require.NoError(t, outline.Activate())
	outline.SetColor(RedOutlineColor)
	outline.Destroy()
	host.writes = nil

	replacement := host.add("outline-2", "Outline 2", outlineShader)
	require.NoError(t, outline.SetOutlineMaterial(replacement))
	outline.SetThickness(0.5)
	outline.SetColorGreen(1)

	assert.False(t, outline.Initialized())
	assert.Equal(t, 1, host.clones, "no instance may be created after Destroy")
	assert.Empty(t, host.writes)
	assert.Empty(t, outline.MaterialInstance())
	assert.Equal(t, replacement, outline.OutlineMaterial())
	assert.Equal(t, RedOutlineColor, outline.Color(), "the last live color is kept")
	assert.Equal(t, float32(0.5), outline.Thickness())
}

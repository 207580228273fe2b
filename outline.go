package gekko

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// OutlineShaderName is the suffix every outline shader name must end with,
	// after a "/" separator.
	OutlineShaderName = "Highlight Outline"

	OutlineColorProperty     = "_Color"
	OutlineEnabledProperty   = "_Enabled"
	OutlineThicknessProperty = "_Thickness"

	// DefaultOutlineThickness is in world space units.
	DefaultOutlineThickness float32 = .05

	// noMaterialSlot marks a surface that has not received an outline slot yet.
	noMaterialSlot = -1
)

var (
	DefaultOutlineColor = mgl32.Vec4{1.0 / 3.0, 1, .25, 1}
	RedOutlineColor     = mgl32.Vec4{1, .25, .25, 1}
)

var (
	ErrMissingOutlineMaterial = errors.New("outline material is not assigned")
	ErrOutlineActive          = errors.New("outline is already active")
)

// Surface is a renderable with an ordered list of material slots.
type Surface interface {
	Materials() []AssetId
	SetMaterials(materials []AssetId)
}

// SurfaceProvider lists the surfaces of an object and its descendants.
type SurfaceProvider interface {
	Surfaces() []Surface
}

// MaterialHost is the material store the outline instances and drives.
type MaterialHost interface {
	MaterialInfo(id AssetId) (name string, shaderName string, ok bool)
	CloneMaterial(id AssetId, name string) (AssetId, error)
	SetColor(id AssetId, property string, value mgl32.Vec4)
	SetFloat(id AssetId, property string, value float32)
	SetInt(id AssetId, property string, value int32)
	ReleaseMaterial(id AssetId)
}

// OutlineConfig holds the settings applied when the outline is activated.
type OutlineConfig struct {
	Material  AssetId
	Color     mgl32.Vec4
	Thickness float32
	// Show is the visibility right after activation.
	Show bool
}

func DefaultOutlineConfig() OutlineConfig {
	return OutlineConfig{
		Color:     DefaultOutlineColor,
		Thickness: DefaultOutlineThickness,
		Show:      true,
	}
}

// Outline draws an outline around every surface of an object by appending
// one shared material instance to each surface's material slots.
//
// Until Activate succeeds, Color, Thickness and Show read and write the
// configuration. Afterwards they read the live values and write straight to
// the instance's uniforms. The per-channel setters and OutlineMaterial only
// take visible effect after activation.
type Outline struct {
	name     string
	host     MaterialHost
	provider SurfaceProvider
	logger   Logger
	config   OutlineConfig

	initialized      bool
	surfaces         []Surface
	materialIndices  []int
	materialInstance AssetId
	currentColor     mgl32.Vec4
	currentThickness float32
	show             bool
}

// NewOutline creates an inactive outline. name identifies the owning object in logs.
func NewOutline(name string, host MaterialHost, provider SurfaceProvider, logger Logger, config OutlineConfig) *Outline {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &Outline{
		name:     name,
		host:     host,
		provider: provider,
		logger:   logger,
		config:   config,
	}
}

// Activate instances the material, attaches it to every surface found now
// and applies the configured visibility, thickness and color, in that order.
// Surfaces added later are not tracked.
func (o *Outline) Activate() error {
	if o.initialized {
		return ErrOutlineActive
	}
	if err := o.validateMaterial(o.config.Material); err != nil {
		return err
	}

	o.surfaces = o.provider.Surfaces()
	o.materialIndices = make([]int, len(o.surfaces))
	for i := range o.materialIndices {
		o.materialIndices[i] = noMaterialSlot
	}

	if err := o.applyMaterial(); err != nil {
		return err
	}

	o.initialized = true
	o.SetShow(o.config.Show)
	o.SetThickness(o.config.Thickness)
	o.SetColor(o.config.Color)

	o.logger.Debugf("Outline on %q attached to %d surface(s)", o.name, len(o.surfaces))
	return nil
}

// validateMaterial fails when the material is missing and only warns when its
// shader does not look like an outline shader.
func (o *Outline) validateMaterial(id AssetId) error {
	if id == "" {
		return fmt.Errorf("outline on %q: %w", o.name, ErrMissingOutlineMaterial)
	}
	_, shaderName, ok := o.host.MaterialInfo(id)
	if !ok {
		return fmt.Errorf("outline on %q: material %q: %w", o.name, id, ErrMissingOutlineMaterial)
	}
	if !strings.HasSuffix(shaderName, "/"+OutlineShaderName) {
		o.logger.Warnf("The outline material attached to %q might have an invalid shader (%q)!", o.name, shaderName)
	}
	return nil
}

// applyMaterial creates a fresh instance of the configured material and puts
// it in each surface's outline slot, appending the slot the first time.
func (o *Outline) applyMaterial() error {
	name, _, _ := o.host.MaterialInfo(o.config.Material)
	instance, err := o.host.CloneMaterial(o.config.Material, name+" (Clone)")
	if err != nil {
		return fmt.Errorf("outline on %q: %w", o.name, err)
	}

	for i, surface := range o.surfaces {
		materials := surface.Materials()

		if o.materialIndices[i] < 0 || o.materialIndices[i] >= len(materials) {
			o.materialIndices[i] = len(materials)
			materials = append(materials, instance)
		} else {
			materials[o.materialIndices[i]] = instance
		}

		surface.SetMaterials(materials)
	}

	if o.materialInstance != "" {
		o.host.ReleaseMaterial(o.materialInstance)
	}
	o.materialInstance = instance
	return nil
}

func (o *Outline) Initialized() bool {
	return o.initialized
}

// MaterialInstance is the material owned by this outline, empty until activated.
func (o *Outline) MaterialInstance() AssetId {
	return o.materialInstance
}

func (o *Outline) Name() string {
	return o.name
}

func (o *Outline) OutlineMaterial() AssetId {
	return o.config.Material
}

// SetOutlineMaterial replaces the base material. Once active, the outline
// switches every surface to a new instance of it, keeping the current color,
// thickness and visibility.
func (o *Outline) SetOutlineMaterial(id AssetId) error {
	if !o.initialized {
		o.config.Material = id
		return nil
	}
	if err := o.validateMaterial(id); err != nil {
		return err
	}

	o.config.Material = id
	if err := o.applyMaterial(); err != nil {
		return err
	}

	// A fresh clone carries the base material's uniforms, so the live
	// values are pushed again to keep the getters and the shader in sync.
	o.SetShow(o.show)
	o.SetThickness(o.currentThickness)
	o.SetColor(o.currentColor)
	return nil
}

func (o *Outline) Color() mgl32.Vec4 {
	if o.initialized {
		return o.currentColor
	}
	return o.config.Color
}

func (o *Outline) SetColor(color mgl32.Vec4) {
	if !o.initialized {
		o.config.Color = color
		return
	}

	o.host.SetColor(o.materialInstance, OutlineColorProperty, color)
	o.currentColor = color
}

// Thickness is measured in world space units.
func (o *Outline) Thickness() float32 {
	if o.initialized {
		return o.currentThickness
	}
	return o.config.Thickness
}

func (o *Outline) SetThickness(thickness float32) {
	if !o.initialized {
		o.config.Thickness = thickness
		return
	}

	o.host.SetFloat(o.materialInstance, OutlineThicknessProperty, thickness)
	o.currentThickness = thickness
}

func (o *Outline) Show() bool {
	if o.initialized {
		return o.show
	}
	return o.config.Show
}

func (o *Outline) SetShow(show bool) {
	if !o.initialized {
		o.config.Show = show
		return
	}

	var enabled int32
	if show {
		enabled = 1
	}
	o.host.SetInt(o.materialInstance, OutlineEnabledProperty, enabled)
	o.show = show
}

func (o *Outline) SetColorRed(red float32) {
	o.setColorChannel(0, red)
}

func (o *Outline) SetColorGreen(green float32) {
	o.setColorChannel(1, green)
}

func (o *Outline) SetColorBlue(blue float32) {
	o.setColorChannel(2, blue)
}

func (o *Outline) SetColorAlpha(alpha float32) {
	o.setColorChannel(3, alpha)
}

// Channel writes are dropped before activation, not buffered.
func (o *Outline) setColorChannel(channel int, value float32) {
	if !o.initialized {
		return
	}

	color := o.currentColor
	color[channel] = value
	o.SetColor(color)
}

// Destroy releases the material instance and returns the outline to its
// inactive state, keeping the last color, thickness and visibility as its
// configuration. The surfaces keep their slots.
func (o *Outline) Destroy() {
	if o.materialInstance == "" {
		return
	}
	o.host.ReleaseMaterial(o.materialInstance)
	o.logger.Debugf("Outline on %q released material %s", o.name, o.materialInstance)
	o.materialInstance = ""

	o.config.Color, o.config.Thickness, o.config.Show = o.currentColor, o.currentThickness, o.show
	o.initialized = false
	o.surfaces = nil
	o.materialIndices = nil
}

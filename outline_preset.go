package gekko

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/colornames"
)

var ErrInvalidColor = errors.New("invalid color")

// ColorValue is an RGBA color that decodes from a hex string ("#RGB",
// "#RGBA", "#RRGGBB", "#RRGGBBAA"), an SVG color name, or an [r, g, b, a]
// array of floats. It always encodes as an array.
type ColorValue mgl32.Vec4

func (c ColorValue) Vec4() mgl32.Vec4 {
	return mgl32.Vec4(c)
}

func (c ColorValue) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float32(c))
}

func (c *ColorValue) UnmarshalJSON(data []byte) error {
	var channels []float32
	if err := json.Unmarshal(data, &channels); err == nil {
		switch len(channels) {
		case 3:
			*c = ColorValue{channels[0], channels[1], channels[2], 1}
		case 4:
			*c = ColorValue{channels[0], channels[1], channels[2], channels[3]}
		default:
			return fmt.Errorf("%w: expected 3 or 4 channels, got %d", ErrInvalidColor, len(channels))
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidColor, data)
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = ColorValue(parsed)
	return nil
}

// ParseColor parses a "#" prefixed hex color or an SVG color name into RGBA in [0, 1].
func ParseColor(s string) (mgl32.Vec4, error) {
	s = strings.TrimSpace(s)
	if named, ok := colornames.Map[strings.ToLower(s)]; ok {
		return mgl32.Vec4{
			float32(named.R) / 255,
			float32(named.G) / 255,
			float32(named.B) / 255,
			float32(named.A) / 255,
		}, nil
	}

	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return mgl32.Vec4{}, fmt.Errorf("%w: %q is neither a color name nor a #hex color", ErrInvalidColor, s)
	}
	switch len(hex) {
	case 3, 4:
		// Short form: each digit is doubled.
		var expanded strings.Builder
		for _, r := range hex {
			expanded.WriteRune(r)
			expanded.WriteRune(r)
		}
		hex = expanded.String()
	case 6, 8:
	default:
		return mgl32.Vec4{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return mgl32.Vec4{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return mgl32.Vec4{
		float32(v>>24&0xff) / 255,
		float32(v>>16&0xff) / 255,
		float32(v>>8&0xff) / 255,
		float32(v&0xff) / 255,
	}, nil
}

// OutlinePreset is a saved outline look. Nil fields leave the target unchanged.
type OutlinePreset struct {
	Color     *ColorValue `json:"color,omitempty"`
	Thickness *float32    `json:"thickness,omitempty"`
	Show      *bool       `json:"show,omitempty"`
}

// PresetOf captures the outline's current look.
func PresetOf(o *Outline) OutlinePreset {
	color := ColorValue(o.Color())
	thickness := o.Thickness()
	show := o.Show()
	return OutlinePreset{Color: &color, Thickness: &thickness, Show: &show}
}

func (p OutlinePreset) ApplyConfig(cfg *OutlineConfig) {
	if p.Color != nil {
		cfg.Color = p.Color.Vec4()
	}
	if p.Thickness != nil {
		cfg.Thickness = *p.Thickness
	}
	if p.Show != nil {
		cfg.Show = *p.Show
	}
}

// Apply goes through the outline's setters, so it buffers before activation
// and updates the shader afterwards.
func (p OutlinePreset) Apply(o *Outline) {
	if p.Show != nil {
		o.SetShow(*p.Show)
	}
	if p.Thickness != nil {
		o.SetThickness(*p.Thickness)
	}
	if p.Color != nil {
		o.SetColor(p.Color.Vec4())
	}
}

func (p OutlinePreset) validate() error {
	if p.Thickness != nil && *p.Thickness < 0 {
		return fmt.Errorf("thickness must not be negative, got %v", *p.Thickness)
	}
	return nil
}

func LoadOutlinePreset(filename string) (OutlinePreset, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return OutlinePreset{}, err
	}

	var preset OutlinePreset
	if err := json.Unmarshal(bytes, &preset); err != nil {
		return OutlinePreset{}, fmt.Errorf("outline preset %s: %w", filename, err)
	}
	if err := preset.validate(); err != nil {
		return OutlinePreset{}, fmt.Errorf("outline preset %s: %w", filename, err)
	}
	return preset, nil
}

func SaveOutlinePreset(filename string, preset OutlinePreset) error {
	if err := preset.validate(); err != nil {
		return err
	}
	bytes, err := json.MarshalIndent(preset, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filename, bytes, 0644)
}

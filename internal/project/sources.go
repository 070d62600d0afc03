package project

import (
	"fmt"

	"github.com/dotcommander/igbcscore/internal/catalog"
	"github.com/dotcommander/igbcscore/internal/types"
)

func (in *Input) source(g catalog.PresetGroup) *types.Source {
	switch g {
	case catalog.PresetRETV:
		return &in.Energy.Sources.RETV
	case catalog.PresetUValue:
		return &in.Energy.Sources.UValue
	case catalog.PresetLPD:
		return &in.Energy.Sources.LPD
	case catalog.PresetLightingControls:
		return &in.Energy.Sources.LightingControls
	case catalog.PresetAlternateLitres:
		return &in.WaterHeating.Source
	case catalog.PresetRenewableGeneration:
		return &in.Renewable.Source
	}
	return nil
}

// SourceOf returns the source of a preset group. An unset source reads as
// custom.
func (in Input) SourceOf(g catalog.PresetGroup) types.Source {
	s := in.source(g)
	if s == nil || *s == "" {
		return types.SourceCustom
	}
	return *s
}

// Sources returns the source of every preset group.
func (in Input) Sources() map[catalog.PresetGroup]types.Source {
	out := make(map[catalog.PresetGroup]types.Source, len(catalog.PresetGroups))
	for _, g := range catalog.PresetGroups {
		out[g] = in.SourceOf(g)
	}
	return out
}

// PresetValue returns the preset value of a field, or false when the field
// is not part of a preset group.
func PresetValue(p catalog.PresetValues, f Field) (Value, bool) {
	switch f.Group {
	case catalog.PresetRETV:
		return NumberValue(p.RETV), true
	case catalog.PresetUValue:
		return NumberValue(p.UValue), true
	case catalog.PresetLPD:
		zone := f.Path[len("enhancedEnergy.lpd."):]
		return NumberValue(p.LPD[zone]), true
	case catalog.PresetLightingControls:
		return FlagValue(f.Key == p.LightingControl), true
	case catalog.PresetAlternateLitres:
		return NumberValue(p.AlternateLitres), true
	case catalog.PresetRenewableGeneration:
		return NumberValue(p.RenewableGeneration), true
	}
	return Value{}, false
}

func applyPreset(in *Input, g catalog.PresetGroup, p catalog.PresetValues) {
	for _, f := range FieldsInGroup(g) {
		if v, ok := PresetValue(p, f); ok {
			f.set(in, v)
		}
	}
}

// SetSource switches a preset group between preset and custom. Switching to
// preset overwrites the group's fields with the preset values; switching to
// custom keeps the current values editable.
func SetSource(in Input, g catalog.PresetGroup, src types.Source) (Input, error) {
	out := in.Clone()
	ptr := out.source(g)
	if ptr == nil {
		return in, fmt.Errorf("%w: %q", ErrUnknownSourceGroup, g)
	}
	if src != types.SourcePreset && src != types.SourceCustom {
		return in, fmt.Errorf("%w: source must be %q or %q, got %q", ErrInvalidValue, types.SourcePreset, types.SourceCustom, src)
	}
	*ptr = src
	if src == types.SourcePreset {
		applyPreset(&out, g, catalog.Presets())
	}
	return out, nil
}

// Normalize re-applies preset values to every group tagged preset and fills
// empty sources with custom.
func Normalize(in Input) Input {
	out := in.Clone()
	presets := catalog.Presets()
	for _, g := range catalog.PresetGroups {
		ptr := out.source(g)
		if *ptr == "" {
			*ptr = types.SourceCustom
		}
		if *ptr == types.SourcePreset {
			applyPreset(&out, g, presets)
		}
	}
	return out
}

package catalog

// PresetGroup names a group of fields that can be reset to scheme defaults.
type PresetGroup string

// Preset groups.
const (
	PresetRETV                PresetGroup = "retv"
	PresetUValue              PresetGroup = "uValue"
	PresetLPD                 PresetGroup = "lpd"
	PresetLightingControls    PresetGroup = "lightingControls"
	PresetAlternateLitres     PresetGroup = "alternateLitres"
	PresetRenewableGeneration PresetGroup = "renewableGeneration"
)

// PresetGroups lists every preset group in display order.
var PresetGroups = []PresetGroup{
	PresetRETV,
	PresetUValue,
	PresetLPD,
	PresetLightingControls,
	PresetAlternateLitres,
	PresetRenewableGeneration,
}

// ParsePresetGroup resolves a group name.
func ParsePresetGroup(name string) (PresetGroup, bool) {
	for _, g := range PresetGroups {
		if string(g) == name {
			return g, true
		}
	}
	return "", false
}

// PresetValues are the scheme-provided ("SD+") default values.
type PresetValues struct {
	RETV                string            `json:"retv" yaml:"retv"`
	UValue              string            `json:"uValue" yaml:"uValue"`
	LPD                 map[string]string `json:"lpd" yaml:"lpd"`
	LightingControl     string            `json:"lightingControl" yaml:"lightingControl"`
	AlternateLitres     string            `json:"alternateLitres" yaml:"alternateLitres"`
	RenewableGeneration string            `json:"renewableGeneration" yaml:"renewableGeneration"`
}

// Presets returns a fresh copy of the preset values.
func Presets() PresetValues {
	return PresetValues{
		RETV:   "12.5",
		UValue: "1.0",
		LPD: map[string]string{
			"interior": "3.5",
			"exterior": "1.5",
			"common":   "2.5",
			"parking":  "1.5",
		},
		LightingControl:     "daylight",
		AlternateLitres:     "200",
		RenewableGeneration: "3000",
	}
}

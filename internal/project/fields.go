package project

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dotcommander/igbcscore/internal/catalog"
)

// Edit errors.
var (
	ErrUnknownField       = errors.New("unknown field")
	ErrInvalidValue       = errors.New("invalid value")
	ErrPresetLocked       = errors.New("field is locked to its preset value")
	ErrUnknownSourceGroup = errors.New("unknown source group")
)

// Kind is the value kind a field accepts.
type Kind int

const (
	KindNumber Kind = iota
	KindFlag
	KindChoice
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindFlag:
		return "flag"
	case KindChoice:
		return "choice"
	default:
		return "unknown"
	}
}

// Field identifies one editable input. Fields come from the static registry
// through ParseField or Fields; the zero Field is invalid.
type Field struct {
	Path    string
	Kind    Kind
	Choices []string
	// Group is set when the field belongs to a preset group.
	Group catalog.PresetGroup
	// Options and Key are set for membership in a selection set.
	Options *catalog.OptionSet
	Key     string

	number    func(*Input) *Quantity
	flag      func(*Input) *bool
	choice    func(*Input) *string
	selection func(*Input) *Selection
}

// Valid reports whether the field came from the registry.
func (f Field) Valid() bool {
	return f.number != nil || f.flag != nil || f.choice != nil || f.selection != nil
}

// Value is a tagged field value.
type Value struct {
	Kind Kind
	Text string
	Flag bool
}

// NumberValue wraps numeric-as-string input. Any text is accepted; text that
// does not parse scores as 0.
func NumberValue(s string) Value { return Value{Kind: KindNumber, Text: s} }

// FlagValue wraps a boolean.
func FlagValue(b bool) Value { return Value{Kind: KindFlag, Flag: b} }

// ChoiceValue wraps an enumerated choice.
func ChoiceValue(s string) Value { return Value{Kind: KindChoice, Text: s} }

func (v Value) String() string {
	if v.Kind == KindFlag {
		return strconv.FormatBool(v.Flag)
	}
	return v.Text
}

// Edit sets one field to one value.
type Edit struct {
	Field Field
	Value Value
}

func numberField(path string, get func(*Input) *Quantity) Field {
	return Field{Path: path, Kind: KindNumber, number: get}
}

func flagField(path string, get func(*Input) *bool) Field {
	return Field{Path: path, Kind: KindFlag, flag: get}
}

func choiceField(path string, choices []string, get func(*Input) *string) Field {
	return Field{Path: path, Kind: KindChoice, Choices: choices, choice: get}
}

func inGroup(f Field, g catalog.PresetGroup) Field {
	f.Group = g
	return f
}

type selectionSpec struct {
	path    string
	options *catalog.OptionSet
	group   catalog.PresetGroup
	get     func(*Input) *Selection
}

var scalarFields = []Field{
	numberField("project.dwellingUnits", func(in *Input) *Quantity { return &in.Project.DwellingUnits }),

	choiceField("topography.option", catalog.TopographyOptions, func(in *Input) *string { return &in.Topography.Option }),
	numberField("topography.siteArea", func(in *Input) *Quantity { return &in.Topography.SiteArea }),
	numberField("topography.naturalArea", func(in *Input) *Quantity { return &in.Topography.NaturalArea }),
	numberField("topography.groundVegetation", func(in *Input) *Quantity { return &in.Topography.GroundVegetation }),
	numberField("topography.builtVegetation", func(in *Input) *Quantity { return &in.Topography.BuiltVegetation }),

	numberField("heatIsland.nonRoof.totalArea", func(in *Input) *Quantity { return &in.HeatIsland.NonRoof.TotalArea }),
	numberField("heatIsland.nonRoof.treeCover", func(in *Input) *Quantity { return &in.HeatIsland.NonRoof.TreeCover }),
	numberField("heatIsland.nonRoof.openGrid", func(in *Input) *Quantity { return &in.HeatIsland.NonRoof.OpenGrid }),
	numberField("heatIsland.nonRoof.hardscape", func(in *Input) *Quantity { return &in.HeatIsland.NonRoof.Hardscape }),
	numberField("heatIsland.roof.totalArea", func(in *Input) *Quantity { return &in.HeatIsland.Roof.TotalArea }),
	numberField("heatIsland.roof.highSRI", func(in *Input) *Quantity { return &in.HeatIsland.Roof.HighSRI }),
	numberField("heatIsland.roof.vegetation", func(in *Input) *Quantity { return &in.HeatIsland.Roof.Vegetation }),

	numberField("passiveArchitecture.totalWindows", func(in *Input) *Quantity { return &in.Passive.TotalWindows }),
	numberField("passiveArchitecture.compliantWindows", func(in *Input) *Quantity { return &in.Passive.CompliantWindows }),
	numberField("passiveArchitecture.skylightArea", func(in *Input) *Quantity { return &in.Passive.SkylightArea }),
	numberField("passiveArchitecture.roofArea", func(in *Input) *Quantity { return &in.Passive.RoofArea }),
	numberField("passiveArchitecture.daylightPercentage", func(in *Input) *Quantity { return &in.Passive.DaylightPercentage }),

	numberField("universalDesign.providedParking", func(in *Input) *Quantity { return &in.Universal.ProvidedParking }),
	numberField("universalDesign.providedRestRooms", func(in *Input) *Quantity { return &in.Universal.ProvidedRestRooms }),
	flagField("universalDesign.wheelchair", func(in *Input) *bool { return &in.Universal.Wheelchair }),

	choiceField("greenParking.ventilation.type", catalog.VentilationTypes, func(in *Input) *string { return &in.Parking.Ventilation.Type }),
	flagField("greenParking.ventilation.compliance", func(in *Input) *bool { return &in.Parking.Ventilation.Compliance }),
	numberField("greenParking.ev.catered4W", func(in *Input) *Quantity { return &in.Parking.EV.Catered4W }),
	numberField("greenParking.ev.total4W", func(in *Input) *Quantity { return &in.Parking.EV.Total4W }),
	numberField("greenParking.ev.catered2W", func(in *Input) *Quantity { return &in.Parking.EV.Catered2W }),
	numberField("greenParking.ev.total2W", func(in *Input) *Quantity { return &in.Parking.EV.Total2W }),
	numberField("greenParking.bicycle.spaces", func(in *Input) *Quantity { return &in.Parking.Bicycle.Spaces }),
	flagField("greenParking.bicycle.signage", func(in *Input) *bool { return &in.Parking.Bicycle.Signage }),

	flagField("amenities.playArea", func(in *Input) *bool { return &in.Amenities.PlayArea }),
	flagField("amenities.seatingArea", func(in *Input) *bool { return &in.Amenities.SeatingArea }),
	numberField("amenities.providedToilets", func(in *Input) *Quantity { return &in.Amenities.ProvidedToilets }),

	choiceField("enhancedEnergy.approach", catalog.EnergyApproaches, func(in *Input) *string { return &in.Energy.Approach }),
	inGroup(numberField("enhancedEnergy.retv", func(in *Input) *Quantity { return &in.Energy.RETV }), catalog.PresetRETV),
	inGroup(numberField("enhancedEnergy.uValue", func(in *Input) *Quantity { return &in.Energy.UValue }), catalog.PresetUValue),
	inGroup(numberField("enhancedEnergy.lpd.interior", func(in *Input) *Quantity { return &in.Energy.LPD.Interior }), catalog.PresetLPD),
	inGroup(numberField("enhancedEnergy.lpd.exterior", func(in *Input) *Quantity { return &in.Energy.LPD.Exterior }), catalog.PresetLPD),
	inGroup(numberField("enhancedEnergy.lpd.common", func(in *Input) *Quantity { return &in.Energy.LPD.Common }), catalog.PresetLPD),
	inGroup(numberField("enhancedEnergy.lpd.parking", func(in *Input) *Quantity { return &in.Energy.LPD.Parking }), catalog.PresetLPD),
	choiceField("enhancedEnergy.ac", catalog.ACRatingKeys(), func(in *Input) *string { return &in.Energy.AC }),
	flagField("enhancedEnergy.heating.applicable", func(in *Input) *bool { return &in.Energy.Heating.Applicable }),
	numberField("enhancedEnergy.energySavings", func(in *Input) *Quantity { return &in.Energy.EnergySavings }),

	numberField("waterHeating.residents", func(in *Input) *Quantity { return &in.WaterHeating.Residents }),
	inGroup(numberField("waterHeating.alternateLitres", func(in *Input) *Quantity { return &in.WaterHeating.AlternateLitres }), catalog.PresetAlternateLitres),

	numberField("renewableEnergy.totalConsumption", func(in *Input) *Quantity { return &in.Renewable.TotalConsumption }),
	inGroup(numberField("renewableEnergy.generation", func(in *Input) *Quantity { return &in.Renewable.Generation }), catalog.PresetRenewableGeneration),

	flagField("commonEquipment.pumps.selected", func(in *Input) *bool { return &in.Equipment.Pumps.Selected }),
	flagField("commonEquipment.motors.selected", func(in *Input) *bool { return &in.Equipment.Motors.Selected }),
	flagField("commonEquipment.lifts.selected", func(in *Input) *bool { return &in.Equipment.Lifts.Selected }),
	choiceField("commonEquipment.lifts.type", append([]string{""}, catalog.LiftTypes.Keys()...), func(in *Input) *string { return &in.Equipment.Lifts.Type }),

	choiceField("energyMonitoring.approach", catalog.MonitoringApproaches, func(in *Input) *string { return &in.Monitoring.Approach }),
}

var selectionSpecs = []selectionSpec{
	{"passiveArchitecture.measures", &catalog.PassiveMeasures, "", func(in *Input) *Selection { return &in.Passive.Measures }},
	{"passiveArchitecture.cooling", &catalog.PassiveCooling, "", func(in *Input) *Selection { return &in.Passive.Cooling }},
	{"universalDesign.partB", &catalog.UniversalPartB, "", func(in *Input) *Selection { return &in.Universal.PartB }},
	{"amenities.nearby", &catalog.Amenities, "", func(in *Input) *Selection { return &in.Amenities.Nearby }},
	{"workforce.facilities", &catalog.WorkforceFacilities, "", func(in *Input) *Selection { return &in.Workforce.Facilities }},
	{"education.during", &catalog.EducationDuring, "", func(in *Input) *Selection { return &in.Education.During }},
	{"education.post", &catalog.EducationPost, "", func(in *Input) *Selection { return &in.Education.Post }},
	{"enhancedEnergy.lightingControls", &catalog.LightingControls, catalog.PresetLightingControls, func(in *Input) *Selection { return &in.Energy.LightingControls }},
	{"enhancedEnergy.heating.conditions", &catalog.HeatingConditions, "", func(in *Input) *Selection { return &in.Energy.Heating.Conditions }},
	{"waterHeating.technologies", &catalog.WaterTechnologies, "", func(in *Input) *Selection { return &in.WaterHeating.Technologies }},
	{"commonEquipment.pumps.types", &catalog.PumpTypes, "", func(in *Input) *Selection { return &in.Equipment.Pumps.Types }},
	{"commonEquipment.motors.types", &catalog.MotorTypes, "", func(in *Input) *Selection { return &in.Equipment.Motors.Types }},
	{"energyMonitoring.caseA", &catalog.MonitoringCaseA, "", func(in *Input) *Selection { return &in.Monitoring.CaseA }},
	{"energyMonitoring.caseB", &catalog.MonitoringCaseB, "", func(in *Input) *Selection { return &in.Monitoring.CaseB }},
}

var (
	scalarIndex    = map[string]Field{}
	selectionIndex = map[string]selectionSpec{}
)

func init() {
	for _, f := range scalarFields {
		scalarIndex[f.Path] = f
	}
	for _, s := range selectionSpecs {
		selectionIndex[s.path] = s
	}
}

func (s selectionSpec) member(key string) Field {
	return Field{
		Path:      s.path + "." + key,
		Kind:      KindFlag,
		Group:     s.group,
		Options:   s.options,
		Key:       key,
		selection: s.get,
	}
}

// ParseField resolves a dotted field path such as "topography.siteArea" or
// "amenities.nearby.bank".
func ParseField(path string) (Field, error) {
	if f, ok := scalarIndex[path]; ok {
		return f, nil
	}
	if i := strings.LastIndex(path, "."); i > 0 {
		if spec, ok := selectionIndex[path[:i]]; ok {
			key := path[i+1:]
			if spec.options.Has(key) {
				return spec.member(key), nil
			}
		}
	}
	return Field{}, fmt.Errorf("%w: %s", ErrUnknownField, path)
}

// Fields returns every editable field, sorted by path.
func Fields() []Field {
	out := make([]Field, 0, len(scalarFields)+64)
	out = append(out, scalarFields...)
	for _, s := range selectionSpecs {
		for _, key := range s.options.Keys() {
			out = append(out, s.member(key))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// FieldsInGroup returns the fields belonging to a preset group.
func FieldsInGroup(g catalog.PresetGroup) []Field {
	var out []Field
	for _, f := range Fields() {
		if f.Group == g {
			out = append(out, f)
		}
	}
	return out
}

// ParseValue converts raw text into a value of the field's kind.
func ParseValue(f Field, raw string) (Value, error) {
	switch f.Kind {
	case KindNumber:
		return NumberValue(raw), nil
	case KindFlag:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %s expects true or false, got %q", ErrInvalidValue, f.Path, raw)
		}
		return FlagValue(b), nil
	case KindChoice:
		return ChoiceValue(raw), nil
	}
	return Value{}, fmt.Errorf("%w: %s", ErrUnknownField, f.Path)
}

// ValueOf converts a decoded JSON value (string, float64 or bool) into a
// value of the field's kind.
func ValueOf(f Field, v any) (Value, error) {
	switch t := v.(type) {
	case string:
		return ParseValue(f, t)
	case bool:
		if f.Kind != KindFlag {
			return Value{}, fmt.Errorf("%w: %s expects a %s", ErrInvalidValue, f.Path, f.Kind)
		}
		return FlagValue(t), nil
	case float64:
		if f.Kind != KindNumber {
			return Value{}, fmt.Errorf("%w: %s expects a %s", ErrInvalidValue, f.Path, f.Kind)
		}
		return NumberValue(strconv.FormatFloat(t, 'f', -1, 64)), nil
	}
	return Value{}, fmt.Errorf("%w: %s: unsupported value %v", ErrInvalidValue, f.Path, v)
}

func (f Field) check(v Value) error {
	if v.Kind != f.Kind {
		return fmt.Errorf("%w: %s expects a %s, got a %s", ErrInvalidValue, f.Path, f.Kind, v.Kind)
	}
	if f.Kind == KindChoice {
		for _, c := range f.Choices {
			if c == v.Text {
				return nil
			}
		}
		return fmt.Errorf("%w: %s must be one of %q, got %q", ErrInvalidValue, f.Path, f.Choices, v.Text)
	}
	return nil
}

// Get reads the field's current value.
func (f Field) Get(in Input) Value {
	switch {
	case f.number != nil:
		return NumberValue(string(*f.number(&in)))
	case f.flag != nil:
		return FlagValue(*f.flag(&in))
	case f.choice != nil:
		return ChoiceValue(*f.choice(&in))
	case f.selection != nil:
		return FlagValue((*f.selection(&in)).Has(f.Key))
	}
	return Value{}
}

func (f Field) set(in *Input, v Value) {
	switch {
	case f.number != nil:
		*f.number(in) = Quantity(v.Text)
	case f.flag != nil:
		*f.flag(in) = v.Flag
	case f.choice != nil:
		*f.choice(in) = v.Text
	case f.selection != nil:
		sel := f.selection(in)
		if *sel == nil {
			*sel = Selection{}
		}
		(*sel)[f.Key] = v.Flag
	}
}

// Apply returns a new snapshot with the edit applied. The given snapshot is
// never modified.
func Apply(in Input, e Edit) (Input, error) {
	if !e.Field.Valid() {
		return in, fmt.Errorf("%w: %q", ErrUnknownField, e.Field.Path)
	}
	if err := e.Field.check(e.Value); err != nil {
		return in, err
	}
	if e.Field.Group != "" && in.SourceOf(e.Field.Group).IsPreset() {
		return in, fmt.Errorf("%w: %s (switch %s to custom first)", ErrPresetLocked, e.Field.Path, e.Field.Group)
	}
	out := in.Clone()
	e.Field.set(&out, e.Value)
	return out, nil
}

// ApplyAll applies edits in order and stops at the first failure.
func ApplyAll(in Input, edits ...Edit) (Input, error) {
	cur := in
	for _, e := range edits {
		next, err := Apply(cur, e)
		if err != nil {
			return in, err
		}
		cur = next
	}
	return cur, nil
}

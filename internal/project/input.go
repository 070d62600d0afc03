// Package project models the editable project snapshot that every credit is
// scored from, together with typed edits, preset sources and file codecs.
package project

import (
	"encoding/json"
	"fmt"

	"github.com/dotcommander/igbcscore/internal/catalog"
	"github.com/dotcommander/igbcscore/internal/types"
)

// Quantity is a numeric input kept as the text the user entered.
type Quantity string

// UnmarshalJSON accepts both strings and bare numbers.
func (q *Quantity) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*q = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*q = Quantity(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("quantity must be a string or number: %w", err)
	}
	*q = Quantity(n.String())
	return nil
}

// String returns the raw text.
func (q Quantity) String() string { return string(q) }

// Selection is a boolean-valued set keyed by option. Missing keys are false.
type Selection map[string]bool

// Count returns the number of selected keys.
func (s Selection) Count() int {
	n := 0
	for _, v := range s {
		if v {
			n++
		}
	}
	return n
}

// Has reports whether key is selected.
func (s Selection) Has(key string) bool { return s[key] }

// Any reports whether at least one key is selected.
func (s Selection) Any() bool { return s.Count() > 0 }

// All reports whether every given key is selected.
func (s Selection) All(keys []string) bool {
	for _, k := range keys {
		if !s[k] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes a nil selection as an empty object, so every encoding
// of a snapshot carries the same shape.
func (s Selection) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]bool(s))
}

// Clone returns an independent copy.
func (s Selection) Clone() Selection {
	if s == nil {
		return nil
	}
	out := make(Selection, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

func selectionOf(keys ...string) Selection {
	s := make(Selection, len(keys))
	for _, k := range keys {
		s[k] = true
	}
	return s
}

// Config holds values shared by several credits.
type Config struct {
	DwellingUnits Quantity `json:"dwellingUnits"`
}

// Topography is the input of the natural topography credit.
type Topography struct {
	Option           string   `json:"option"`
	SiteArea         Quantity `json:"siteArea"`
	NaturalArea      Quantity `json:"naturalArea"`
	GroundVegetation Quantity `json:"groundVegetation"`
	BuiltVegetation  Quantity `json:"builtVegetation"`
}

// NonRoof areas for the heat island credit.
type NonRoof struct {
	TotalArea Quantity `json:"totalArea"`
	TreeCover Quantity `json:"treeCover"`
	OpenGrid  Quantity `json:"openGrid"`
	Hardscape Quantity `json:"hardscape"`
}

// Roof areas for the heat island credit.
type Roof struct {
	TotalArea  Quantity `json:"totalArea"`
	HighSRI    Quantity `json:"highSRI"`
	Vegetation Quantity `json:"vegetation"`
}

// HeatIsland is the input of the heat island credit.
type HeatIsland struct {
	NonRoof NonRoof `json:"nonRoof"`
	Roof    Roof    `json:"roof"`
}

// Passive is the input of the passive architecture credit.
type Passive struct {
	Measures           Selection `json:"measures"`
	TotalWindows       Quantity  `json:"totalWindows"`
	CompliantWindows   Quantity  `json:"compliantWindows"`
	SkylightArea       Quantity  `json:"skylightArea"`
	RoofArea           Quantity  `json:"roofArea"`
	DaylightPercentage Quantity  `json:"daylightPercentage"`
	Cooling            Selection `json:"cooling"`
}

// Universal is the input of the universal design credit.
type Universal struct {
	ProvidedParking   Quantity  `json:"providedParking"`
	ProvidedRestRooms Quantity  `json:"providedRestRooms"`
	Wheelchair        bool      `json:"wheelchair"`
	PartB             Selection `json:"partB"`
}

// Ventilation of the parking area.
type Ventilation struct {
	Type       string `json:"type"`
	Compliance bool   `json:"compliance"`
}

// EVCharging counts parking spaces with charging.
type EVCharging struct {
	Catered4W Quantity `json:"catered4W"`
	Total4W   Quantity `json:"total4W"`
	Catered2W Quantity `json:"catered2W"`
	Total2W   Quantity `json:"total2W"`
}

// Bicycle parking provision.
type Bicycle struct {
	Spaces  Quantity `json:"spaces"`
	Signage bool     `json:"signage"`
}

// Parking is the input of the green parking credit.
type Parking struct {
	Ventilation Ventilation `json:"ventilation"`
	EV          EVCharging  `json:"ev"`
	Bicycle     Bicycle     `json:"bicycle"`
}

// Amenities is the input of the access to amenities credit.
type Amenities struct {
	Nearby          Selection `json:"nearby"`
	PlayArea        bool      `json:"playArea"`
	SeatingArea     bool      `json:"seatingArea"`
	ProvidedToilets Quantity  `json:"providedToilets"`
}

// Workforce is the input of the construction workforce credit.
type Workforce struct {
	Facilities Selection `json:"facilities"`
}

// Education is the input of the green education credit.
type Education struct {
	During Selection `json:"during"`
	Post   Selection `json:"post"`
}

// LPD holds actual lighting power densities per zone in W/m².
type LPD struct {
	Interior Quantity `json:"interior"`
	Exterior Quantity `json:"exterior"`
	Common   Quantity `json:"common"`
	Parking  Quantity `json:"parking"`
}

// Zone returns the value for a catalog zone key.
func (l LPD) Zone(key string) Quantity {
	if p := l.zone(key); p != nil {
		return *p
	}
	return ""
}

func (l *LPD) zone(key string) *Quantity {
	switch key {
	case "interior":
		return &l.Interior
	case "exterior":
		return &l.Exterior
	case "common":
		return &l.Common
	case "parking":
		return &l.Parking
	}
	return nil
}

// Heating is the space heating sub-measure.
type Heating struct {
	Applicable bool      `json:"applicable"`
	Conditions Selection `json:"conditions"`
}

// EnergySources tags the preset-capable energy fields.
type EnergySources struct {
	RETV             types.Source `json:"retv"`
	UValue           types.Source `json:"uValue"`
	LPD              types.Source `json:"lpd"`
	LightingControls types.Source `json:"lightingControls"`
}

// Energy is the input of the enhanced energy performance credit.
type Energy struct {
	Approach         string        `json:"approach"`
	RETV             Quantity      `json:"retv"`
	UValue           Quantity      `json:"uValue"`
	LPD              LPD           `json:"lpd"`
	AC               string        `json:"ac"`
	LightingControls Selection     `json:"lightingControls"`
	Heating          Heating       `json:"heating"`
	EnergySavings    Quantity      `json:"energySavings"`
	Sources          EnergySources `json:"sources"`
}

// WaterHeating is the input of the alternate water heating credit.
type WaterHeating struct {
	Residents       Quantity     `json:"residents"`
	AlternateLitres Quantity     `json:"alternateLitres"`
	Technologies    Selection    `json:"technologies"`
	Source          types.Source `json:"source"`
}

// Renewable is the input of the on-site renewable energy credit.
type Renewable struct {
	TotalConsumption Quantity     `json:"totalConsumption"`
	Generation       Quantity     `json:"generation"`
	Source           types.Source `json:"source"`
}

// EquipmentGroup is a selectable equipment category with qualifying types.
type EquipmentGroup struct {
	Selected bool      `json:"selected"`
	Types    Selection `json:"types"`
}

// Lifts qualify through a single lift type.
type Lifts struct {
	Selected bool   `json:"selected"`
	Type     string `json:"type"`
}

// Equipment is the input of the common area equipment credit.
type Equipment struct {
	Pumps  EquipmentGroup `json:"pumps"`
	Motors EquipmentGroup `json:"motors"`
	Lifts  Lifts          `json:"lifts"`
}

// Monitoring is the input of the energy monitoring credit.
type Monitoring struct {
	Approach string    `json:"approach"`
	CaseA    Selection `json:"caseA"`
	CaseB    Selection `json:"caseB"`
}

// Input is the complete project snapshot.
type Input struct {
	Project      Config       `json:"project"`
	Topography   Topography   `json:"topography"`
	HeatIsland   HeatIsland   `json:"heatIsland"`
	Passive      Passive      `json:"passiveArchitecture"`
	Universal    Universal    `json:"universalDesign"`
	Parking      Parking      `json:"greenParking"`
	Amenities    Amenities    `json:"amenities"`
	Workforce    Workforce    `json:"workforce"`
	Education    Education    `json:"education"`
	Energy       Energy       `json:"enhancedEnergy"`
	WaterHeating WaterHeating `json:"waterHeating"`
	Renewable    Renewable    `json:"renewableEnergy"`
	Equipment    Equipment    `json:"commonEquipment"`
	Monitoring   Monitoring   `json:"energyMonitoring"`
}

// Clone returns a deep copy; selections are not shared.
func (in Input) Clone() Input {
	out := in
	out.Passive.Measures = in.Passive.Measures.Clone()
	out.Passive.Cooling = in.Passive.Cooling.Clone()
	out.Universal.PartB = in.Universal.PartB.Clone()
	out.Amenities.Nearby = in.Amenities.Nearby.Clone()
	out.Workforce.Facilities = in.Workforce.Facilities.Clone()
	out.Education.During = in.Education.During.Clone()
	out.Education.Post = in.Education.Post.Clone()
	out.Energy.LightingControls = in.Energy.LightingControls.Clone()
	out.Energy.Heating.Conditions = in.Energy.Heating.Conditions.Clone()
	out.WaterHeating.Technologies = in.WaterHeating.Technologies.Clone()
	out.Equipment.Pumps.Types = in.Equipment.Pumps.Types.Clone()
	out.Equipment.Motors.Types = in.Equipment.Motors.Types.Clone()
	out.Monitoring.CaseA = in.Monitoring.CaseA.Clone()
	out.Monitoring.CaseB = in.Monitoring.CaseB.Clone()
	return out
}

// New returns a blank snapshot: empty quantities, nothing selected and
// every source custom.
func New() Input {
	return Input{
		Topography: Topography{Option: catalog.OptionA},
		Parking:    Parking{Ventilation: Ventilation{Type: catalog.VentilationStilt}},
		Energy: Energy{
			Approach: catalog.ApproachPrescriptive,
			AC:       catalog.ACNone,
			Sources: EnergySources{
				RETV:             types.SourceCustom,
				UValue:           types.SourceCustom,
				LPD:              types.SourceCustom,
				LightingControls: types.SourceCustom,
			},
		},
		WaterHeating: WaterHeating{Source: types.SourceCustom},
		Renewable:    Renewable{Source: types.SourceCustom},
		Monitoring:   Monitoring{Approach: catalog.OptionA},
	}
}

// Defaults returns the scheme's starting snapshot with preset sources applied.
func Defaults() Input {
	in := Input{
		Project: Config{DwellingUnits: "200"},
		Topography: Topography{
			Option:           catalog.OptionA,
			SiteArea:         "1000",
			NaturalArea:      "100",
			GroundVegetation: "50",
			BuiltVegetation:  "0",
		},
		HeatIsland: HeatIsland{
			NonRoof: NonRoof{TotalArea: "500", TreeCover: "100", OpenGrid: "100", Hardscape: "50"},
			Roof:    Roof{TotalArea: "800", HighSRI: "500", Vegetation: "100"},
		},
		Passive: Passive{
			Measures:           selectionOf("exteriorOpenings", "skylights"),
			TotalWindows:       "100",
			CompliantWindows:   "75",
			SkylightArea:       "90",
			RoofArea:           "1000",
			DaylightPercentage: "40",
			Cooling:            Selection{},
		},
		Universal: Universal{
			ProvidedParking:   "1",
			ProvidedRestRooms: "1",
			PartB:             Selection{},
		},
		Parking: Parking{
			Ventilation: Ventilation{Type: catalog.VentilationBasement},
			EV:          EVCharging{Catered4W: "15", Total4W: "100", Catered2W: "35", Total2W: "100"},
			Bicycle:     Bicycle{Spaces: "8"},
		},
		Amenities: Amenities{
			Nearby:          selectionOf("bank", "transport", "education", "grocery", "stores", "medical", "playground"),
			ProvidedToilets: "1",
		},
		Workforce: Workforce{Facilities: Selection{}},
		Education: Education{During: Selection{}, Post: Selection{}},
		Energy: Energy{
			Approach:         catalog.ApproachPrescriptive,
			AC:               catalog.ACFiveStar,
			LightingControls: Selection{},
			Heating:          Heating{Conditions: Selection{}},
			EnergySavings:    "10",
			Sources: EnergySources{
				RETV:             types.SourcePreset,
				UValue:           types.SourcePreset,
				LPD:              types.SourcePreset,
				LightingControls: types.SourcePreset,
			},
		},
		WaterHeating: WaterHeating{
			Residents:    "10",
			Technologies: selectionOf("solar"),
			Source:       types.SourcePreset,
		},
		Renewable: Renewable{TotalConsumption: "10000", Source: types.SourcePreset},
		Equipment: Equipment{
			Pumps:  EquipmentGroup{Selected: true, Types: selectionOf("bee4star")},
			Motors: EquipmentGroup{Types: Selection{}},
			Lifts:  Lifts{Selected: true, Type: "regenerative"},
		},
		Monitoring: Monitoring{
			Approach: catalog.OptionA,
			CaseA:    selectionOf("commonLighting", "exteriorLighting", "lifts", "stp"),
			CaseB:    Selection{},
		},
	}
	return Normalize(in)
}


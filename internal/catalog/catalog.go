// Package catalog holds the rating scheme's static data: credits, their
// maximum points, threshold ladders, option lists and preset values. Scoring
// and insight generation both read their tables from here.
package catalog

import "github.com/dotcommander/igbcscore/internal/types"

// Credit describes one credit of the rating scheme.
type Credit struct {
	ID        types.CreditID   `json:"id" yaml:"id"`
	Category  types.CategoryID `json:"category" yaml:"category"`
	Title     string           `json:"title" yaml:"title"`
	MaxPoints int              `json:"max_points" yaml:"max_points"`
}

// Category groups credits under a category cap.
type Category struct {
	ID        types.CategoryID `json:"id" yaml:"id"`
	Title     string           `json:"title" yaml:"title"`
	MaxPoints int              `json:"max_points" yaml:"max_points"`
}

// Categories in report order.
var Categories = []Category{
	{ID: types.CategorySustainableDesign, Title: "Sustainable Design", MaxPoints: 20},
	{ID: types.CategoryEnergyEfficiency, Title: "Energy Efficiency", MaxPoints: 20},
}

// Credits in report order.
var Credits = []Credit{
	{ID: types.SDCredit1, Category: types.CategorySustainableDesign, Title: "Natural Topography & Vegetation", MaxPoints: 4},
	{ID: types.SDCredit2, Category: types.CategorySustainableDesign, Title: "Heat Island Effect, Roof & Non-roof", MaxPoints: 4},
	{ID: types.SDCredit3, Category: types.CategorySustainableDesign, Title: "Passive Architecture", MaxPoints: 2},
	{ID: types.SDCredit4, Category: types.CategorySustainableDesign, Title: "Universal Design", MaxPoints: 2},
	{ID: types.SDCredit5, Category: types.CategorySustainableDesign, Title: "Green Parking Facility", MaxPoints: 4},
	{ID: types.SDCredit6, Category: types.CategorySustainableDesign, Title: "Access to Amenities", MaxPoints: 2},
	{ID: types.SDCredit7, Category: types.CategorySustainableDesign, Title: "Basic Facilities for Construction Workforce", MaxPoints: 1},
	{ID: types.SDCredit8, Category: types.CategorySustainableDesign, Title: "Green Education & Awareness", MaxPoints: 1},
	{ID: types.EECredit1, Category: types.CategoryEnergyEfficiency, Title: "Enhanced Energy Performance", MaxPoints: 10},
	{ID: types.EECredit2, Category: types.CategoryEnergyEfficiency, Title: "Alternate Water Heating Systems", MaxPoints: 3},
	{ID: types.EECredit3, Category: types.CategoryEnergyEfficiency, Title: "On-site Renewable Energy, Common Lighting", MaxPoints: 4},
	{ID: types.EECredit4, Category: types.CategoryEnergyEfficiency, Title: "Energy Efficiency in Common Area Equipment", MaxPoints: 1},
	{ID: types.EECredit5, Category: types.CategoryEnergyEfficiency, Title: "Integrated Energy Monitoring System", MaxPoints: 2},
}

// Lookup returns the credit with the given id.
func Lookup(id types.CreditID) (Credit, bool) {
	for _, c := range Credits {
		if c.ID == id {
			return c, true
		}
	}
	return Credit{}, false
}

// LookupCategory returns the category with the given id.
func LookupCategory(id types.CategoryID) (Category, bool) {
	for _, c := range Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// CreditsIn returns the credits of a category in report order.
func CreditsIn(id types.CategoryID) []Credit {
	var out []Credit
	for _, c := range Credits {
		if c.Category == id {
			out = append(out, c)
		}
	}
	return out
}

// MaxTotal is the sum of all category maxima.
func MaxTotal() int {
	total := 0
	for _, c := range Categories {
		total += c.MaxPoints
	}
	return total
}

// Threshold ladders.
var (
	TopographyOptionA = Ladder{Name: "Option A", Unit: "%", Steps: []Threshold{{15, 1}, {25, 2}}}
	TopographyOptionB = Ladder{Name: "Option B", Unit: "%", Steps: []Threshold{{30, 3}, {40, 4}}}

	HeatIslandNonRoof = percentLadder("Non-roof", 50, 75)
	HeatIslandRoof    = percentLadder("Roof", 75, 95)

	ExteriorOpenings = percentLadder("Exterior openings", 80)
	Skylights        = percentLadder("Skylights", 10)
	Daylighting      = percentLadder("Daylighting", 50)

	EVCharging     = percentLadder("EV charging", 20, 30)
	BicycleParking = percentLadder("Bicycle parking", 5)

	RETV = Ladder{Name: "RETV", Unit: "W/m²", Direction: AtMost, Steps: []Threshold{
		{15, 1}, {14.5, 2}, {14, 3}, {13.5, 4}, {13, 5},
	}}
	RoofUValue = Ladder{Name: "Roof U-value", Unit: "W/m²K", Direction: AtMost, Steps: []Threshold{
		{1.2, 1}, {1.0, 2},
	}}
	LPDReduction  = percentLadder("Lighting power density reduction", 25, 30)
	EnergySavings = percentLadder("Energy savings", 2.5, 5, 7.5, 10, 12.5, 15, 17.5, 20, 22.5, 25)

	WaterHeating    = percentLadder("Alternate water heating", 50, 75, 95)
	RenewableEnergy = percentLadder("On-site renewable energy", 25, 50, 75, 95)
)

// Scheme constants.
const (
	// DwellingUnitsPerFacility is the number of dwelling units served by one
	// accessible parking space, rest room or visitor toilet.
	DwellingUnitsPerFacility = 250

	PassiveArchitectureCap = 2
	UniversalPartBRequired = 4
	AmenitiesRequired      = 6
	EquipmentRequired      = 2
	EnhancedEnergyCap      = 10

	// LitresPerResident is the daily hot water demand per resident.
	LitresPerResident = 20

	MonitoringGroupA = 4
	MonitoringGroupB = 2
	MonitoringCap    = 2
)

// Enumerated choices.
const (
	OptionA = "A"
	OptionB = "B"

	VentilationStilt    = "stilt"
	VentilationBasement = "basement"

	ApproachPrescriptive = "prescriptive"
	ApproachSimulation   = "simulation"

	ACNone     = "none"
	ACFourStar = "4-star"
	ACFiveStar = "5-star"
)

// Zone is a lighting power density zone with its baseline in W/m².
type Zone struct {
	Key      string  `json:"key" yaml:"key"`
	Label    string  `json:"label" yaml:"label"`
	Baseline float64 `json:"baseline" yaml:"baseline"`
}

// LPDZones lists the zones in evaluation order.
var LPDZones = []Zone{
	{Key: "interior", Label: "Interior", Baseline: 5},
	{Key: "exterior", Label: "Exterior", Baseline: 2.5},
	{Key: "common", Label: "Common area", Baseline: 4},
	{Key: "parking", Label: "Parking", Baseline: 2.5},
}

// ACRatings maps air-conditioner rating choices to points.
var ACRatings = []PointOption{
	{Option: Option{Key: ACNone, Label: "None / < 4-Star"}, Points: 0},
	{Option: Option{Key: ACFourStar, Label: "BEE 4-Star Rated"}, Points: 1},
	{Option: Option{Key: ACFiveStar, Label: "BEE 5-Star / Inverter"}, Points: 2},
}

// ACPoints returns the points of an air-conditioner rating. Unknown ratings
// score 0.
func ACPoints(rating string) int {
	for _, r := range ACRatings {
		if r.Key == rating {
			return r.Points
		}
	}
	return 0
}

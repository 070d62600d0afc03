package derive

import (
	"math"

	"github.com/dotcommander/igbcscore/internal/catalog"
	"github.com/dotcommander/igbcscore/internal/project"
)

// TopographyMetrics for the natural topography credit.
type TopographyMetrics struct {
	Option     string
	SiteArea   float64
	Vegetated  float64
	Percentage float64
}

// Topography sums the vegetated area counted by the chosen option. Option B
// also counts vegetation on built structures.
func Topography(t project.Topography) TopographyMetrics {
	m := TopographyMetrics{
		Option:    t.Option,
		SiteArea:  Number(t.SiteArea),
		Vegetated: Number(t.NaturalArea) + Number(t.GroundVegetation),
	}
	if t.Option == catalog.OptionB {
		m.Vegetated += Number(t.BuiltVegetation)
	}
	m.Percentage = Percent(m.Vegetated, m.SiteArea)
	return m
}

// AreaShare is a compliant area against its total.
type AreaShare struct {
	Total      float64
	Compliant  float64
	Percentage float64
}

func share(compliant, total float64) AreaShare {
	return AreaShare{Total: total, Compliant: compliant, Percentage: Percent(compliant, total)}
}

// HeatIslandMetrics for the heat island credit.
type HeatIslandMetrics struct {
	NonRoof AreaShare
	Roof    AreaShare
}

// HeatIsland computes the compliant share of non-roof and roof areas.
func HeatIsland(h project.HeatIsland) HeatIslandMetrics {
	n, r := h.NonRoof, h.Roof
	return HeatIslandMetrics{
		NonRoof: share(Number(n.TreeCover)+Number(n.OpenGrid)+Number(n.Hardscape), Number(n.TotalArea)),
		Roof:    share(Number(r.HighSRI)+Number(r.Vegetation), Number(r.TotalArea)),
	}
}

// PassiveMetrics for the passive architecture credit.
type PassiveMetrics struct {
	TotalWindows     int
	CompliantWindows int
	OpeningsPct      float64
	Skylights        AreaShare
	DaylightPct      float64
	CoolingSelected  bool
}

// Passive computes each passive measure's metric.
func Passive(p project.Passive) PassiveMetrics {
	total, compliant := Count(p.TotalWindows), Count(p.CompliantWindows)
	return PassiveMetrics{
		TotalWindows:     total,
		CompliantWindows: compliant,
		OpeningsPct:      Percent(float64(compliant), float64(total)),
		Skylights:        share(Number(p.SkylightArea), Number(p.RoofArea)),
		DaylightPct:      Number(p.DaylightPercentage),
		CoolingSelected:  Selected(p.Cooling, catalog.PassiveCooling) > 0,
	}
}

// UniversalMetrics for the universal design credit.
type UniversalMetrics struct {
	DwellingUnits int
	Required      int
	Parking       int
	RestRooms     int
	Wheelchair    bool
	PartBCount    int
}

// Universal computes the accessible facility requirement and provision.
func Universal(u project.Universal, c project.Config) UniversalMetrics {
	du := Count(c.DwellingUnits)
	return UniversalMetrics{
		DwellingUnits: du,
		Required:      RequiredFacilities(du),
		Parking:       Count(u.ProvidedParking),
		RestRooms:     Count(u.ProvidedRestRooms),
		Wheelchair:    u.Wheelchair,
		PartBCount:    Selected(u.PartB, catalog.UniversalPartB),
	}
}

// CountShare is a provided count against its total.
type CountShare struct {
	Total      int
	Provided   int
	Percentage float64
}

func countShare(provided, total int) CountShare {
	return CountShare{Total: total, Provided: provided, Percentage: Percent(float64(provided), float64(total))}
}

// ParkingMetrics for the green parking credit.
type ParkingMetrics struct {
	VentilationType string
	Compliance      bool
	FourWheeler     CountShare
	TwoWheeler      CountShare
	// EVPct is the lower of the two vehicle class percentages.
	EVPct         float64
	DwellingUnits int
	Bicycle       CountShare
	Signage       bool
}

// Parking computes the EV charging and bicycle parking shares.
func Parking(p project.Parking, c project.Config) ParkingMetrics {
	four := countShare(Count(p.EV.Catered4W), Count(p.EV.Total4W))
	two := countShare(Count(p.EV.Catered2W), Count(p.EV.Total2W))
	du := Count(c.DwellingUnits)
	return ParkingMetrics{
		VentilationType: p.Ventilation.Type,
		Compliance:      p.Ventilation.Compliance,
		FourWheeler:     four,
		TwoWheeler:      two,
		EVPct:           math.Min(four.Percentage, two.Percentage),
		DwellingUnits:   du,
		Bicycle:         countShare(Count(p.Bicycle.Spaces), du),
		Signage:         p.Bicycle.Signage,
	}
}

// AmenityMetrics for the access to amenities credit.
type AmenityMetrics struct {
	NearbyCount     int
	PlayArea        bool
	SeatingArea     bool
	ProvidedToilets int
	RequiredToilets int
}

// Amenities counts nearby amenities and the visitor toilet requirement. At
// least one toilet is required even without dwelling units.
func Amenities(a project.Amenities, c project.Config) AmenityMetrics {
	required := RequiredFacilities(Count(c.DwellingUnits))
	if required == 0 {
		required = 1
	}
	return AmenityMetrics{
		NearbyCount:     Selected(a.Nearby, catalog.Amenities),
		PlayArea:        a.PlayArea,
		SeatingArea:     a.SeatingArea,
		ProvidedToilets: Count(a.ProvidedToilets),
		RequiredToilets: required,
	}
}

// ZoneReduction is the lighting power density reduction of one zone.
type ZoneReduction struct {
	Zone      catalog.Zone
	Actual    float64
	Valid     bool
	Reduction float64
}

// EnergyMetrics for the enhanced energy performance credit.
type EnergyMetrics struct {
	RETV       float64
	RETVValid  bool
	UValue     float64
	UValueOK   bool
	Zones      []ZoneReduction
	Savings    float64
	Controls   int
	HeatingMet bool
}

// Energy reads the envelope, lighting and simulation inputs.
func Energy(e project.Energy) EnergyMetrics {
	m := EnergyMetrics{Savings: Number(e.EnergySavings), Controls: Selected(e.LightingControls, catalog.LightingControls)}
	m.RETV, m.RETVValid = Reading(e.RETV)
	m.UValue, m.UValueOK = Reading(e.UValue)
	for _, z := range catalog.LPDZones {
		m.Zones = append(m.Zones, LPDReduction(z, e.LPD.Zone(z.Key)))
	}
	m.HeatingMet = e.Heating.Applicable && e.Heating.Conditions.All(catalog.HeatingConditions.Keys())
	return m
}

// LPDReduction computes a zone's percentage reduction from its baseline. The
// zone is invalid when the actual value does not parse or the baseline is 0.
func LPDReduction(z catalog.Zone, actual project.Quantity) ZoneReduction {
	v, ok := Reading(actual)
	r := ZoneReduction{Zone: z, Actual: v, Valid: ok && z.Baseline != 0}
	if r.Valid {
		r.Reduction = (z.Baseline - v) * 100 / z.Baseline
	}
	return r
}

// WaterMetrics for the alternate water heating credit.
type WaterMetrics struct {
	Residents   int
	Requirement float64
	Litres      float64
	Percentage  float64
	Technology  bool
}

// WaterHeating computes the share of the daily hot water requirement met by
// alternate systems.
func WaterHeating(w project.WaterHeating) WaterMetrics {
	residents := Count(w.Residents)
	requirement := float64(residents) * catalog.LitresPerResident
	litres := Number(w.AlternateLitres)
	return WaterMetrics{
		Residents:   residents,
		Requirement: requirement,
		Litres:      litres,
		Percentage:  Percent(litres, requirement),
		Technology:  Selected(w.Technologies, catalog.WaterTechnologies) > 0,
	}
}

// RenewableMetrics for the on-site renewable energy credit.
type RenewableMetrics struct {
	Consumption float64
	Generation  float64
	Percentage  float64
}

// Renewable computes the share of common lighting consumption generated on site.
func Renewable(r project.Renewable) RenewableMetrics {
	c, g := Number(r.TotalConsumption), Number(r.Generation)
	return RenewableMetrics{Consumption: c, Generation: g, Percentage: Percent(g, c)}
}

// EquipmentMetrics for the common area equipment credit.
type EquipmentMetrics struct {
	Pumps  bool
	Motors bool
	Lifts  bool
}

// Met returns how many equipment categories qualify.
func (m EquipmentMetrics) Met() int {
	n := 0
	for _, ok := range []bool{m.Pumps, m.Motors, m.Lifts} {
		if ok {
			n++
		}
	}
	return n
}

// Equipment checks each equipment category. A category qualifies when it is
// selected with at least one recognised type.
func Equipment(e project.Equipment) EquipmentMetrics {
	return EquipmentMetrics{
		Pumps:  e.Pumps.Selected && Selected(e.Pumps.Types, catalog.PumpTypes) > 0,
		Motors: e.Motors.Selected && Selected(e.Motors.Types, catalog.MotorTypes) > 0,
		Lifts:  e.Lifts.Selected && catalog.LiftTypes.Has(e.Lifts.Type),
	}
}

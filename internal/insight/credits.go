package insight

import (
	"fmt"

	"github.com/dotcommander/igbcscore/internal/catalog"
	"github.com/dotcommander/igbcscore/internal/derive"
	"github.com/dotcommander/igbcscore/internal/project"
	"github.com/dotcommander/igbcscore/internal/scoring"
	"github.com/dotcommander/igbcscore/internal/types"
)

var ceilShare = derive.CeilShare

func topography(in project.Input, c scoring.CreditScore) []Insight {
	m := derive.Topography(in.Topography)
	ladder, ok := scoring.TopographyLadder(m.Option)
	if !ok {
		return []Insight{Message(c.ID, scoring.PartVegetation, "Choose compliance option A or B.")}
	}
	if m.SiteArea <= 0 {
		return []Insight{Message(c.ID, scoring.PartVegetation, "Enter the total site area.")}
	}
	amount, target, ok := areaShortfall(ladder, c.Points, m.Vegetated, m.SiteArea)
	if !ok {
		return []Insight{Complete(c.ID)}
	}
	return []Insight{Shortfall(c.ID, scoring.PartVegetation, VerbProvide, amount, "sqm of vegetated area", target)}
}

func heatIsland(in project.Input, c scoring.CreditScore) []Insight {
	m := derive.HeatIsland(in.HeatIsland)
	var out []Insight
	for _, part := range []struct {
		key    string
		label  string
		ladder catalog.Ladder
		share  derive.AreaShare
	}{
		{scoring.PartNonRoof, "non-roof", catalog.HeatIslandNonRoof, m.NonRoof},
		{scoring.PartRoof, "roof", catalog.HeatIslandRoof, m.Roof},
	} {
		d, _ := c.Detail(part.key)
		if d.Passed {
			continue
		}
		if part.share.Total <= 0 {
			out = append(out, Message(c.ID, part.key, fmt.Sprintf("Enter the total %s area.", part.label)))
			continue
		}
		if amount, target, ok := areaShortfall(part.ladder, d.Points, part.share.Compliant, part.share.Total); ok {
			out = append(out, Shortfall(c.ID, part.key, VerbProvide, amount, "sqm of compliant "+part.label+" area", target))
		}
	}
	return out
}

func passiveArchitecture(in project.Input, c scoring.CreditScore) []Insight {
	m := derive.Passive(in.Passive)
	var out []Insight
	for _, d := range unmet(c) {
		key := d.Part
		if scoring.PassiveMeasureMet(key, m) {
			out = append(out, Message(c.ID, key, fmt.Sprintf("Select %s to count this measure.", catalog.PassiveMeasures.Label(key))))
			continue
		}
		switch key {
		case "exteriorOpenings":
			if m.TotalWindows <= 0 {
				out = append(out, Message(c.ID, key, "Enter the total number of windows."))
				continue
			}
			amount, _, _ := countShortfall(catalog.ExteriorOpenings, 0, m.CompliantWindows, m.TotalWindows)
			out = append(out, Shortfall(c.ID, key, VerbProvide, amount, "compliant windows", c.Points+1))
		case "skylights":
			if m.Skylights.Total <= 0 {
				out = append(out, Message(c.ID, key, "Enter the total roof area."))
				continue
			}
			amount, _, _ := areaShortfall(catalog.Skylights, 0, m.Skylights.Compliant, m.Skylights.Total)
			out = append(out, Shortfall(c.ID, key, VerbProvide, amount, "sqm of skylight area", c.Points+1))
		case "daylighting":
			amount, _, _ := areaShortfall(catalog.Daylighting, 0, m.DaylightPct, 100)
			out = append(out, Shortfall(c.ID, key, VerbIncrease, amount, "% of compliant area", c.Points+1))
		case "passiveCooling":
			out = append(out, Message(c.ID, key, "Select at least one passive cooling measure."))
		}
	}
	return out
}

func universalDesign(in project.Input, c scoring.CreditScore) []Insight {
	m := derive.Universal(in.Universal, in.Project)
	var out []Insight
	for _, d := range unmet(c) {
		switch d.Part {
		case scoring.PartUniversalA:
			if m.Parking < m.Required {
				out = append(out, Shortfall(c.ID, d.Part, VerbProvide, float64(m.Required-m.Parking), "accessible parking spaces", c.Points+1))
			}
			if m.RestRooms < m.Required {
				out = append(out, Shortfall(c.ID, d.Part, VerbProvide, float64(m.Required-m.RestRooms), "accessible rest rooms", c.Points+1))
			}
			if !m.Wheelchair {
				out = append(out, Message(c.ID, d.Part, "Provide wheelchair access for differently abled people."))
			}
		case scoring.PartUniversalB:
			out = append(out, Shortfall(c.ID, d.Part, VerbSelect, float64(catalog.UniversalPartBRequired-m.PartBCount), "universal design measures", c.Points+1))
		}
	}
	return out
}

func greenParking(in project.Input, c scoring.CreditScore) []Insight {
	m := derive.Parking(in.Parking, in.Project)
	var out []Insight
	for _, d := range unmet(c) {
		switch d.Part {
		case scoring.PartVentilation:
			if m.VentilationType == catalog.VentilationBasement {
				out = append(out, Message(c.ID, d.Part, "Provide compliant mechanical ventilation for basement parking."))
			} else {
				out = append(out, Message(c.ID, d.Part, "Choose stilt parking, or basement parking with compliant ventilation."))
			}
		case scoring.PartEVCharging:
			out = append(out, evCharging(c.ID, d.Points, m)...)
		case scoring.PartBicycle:
			out = append(out, bicycle(c.ID, c.Points, m)...)
		}
	}
	return out
}

// evCharging targets the tier above the EV points and reports each vehicle
// class that falls short of it, so closing every reported gap crosses the tier.
func evCharging(id types.CreditID, points int, m derive.ParkingMetrics) []Insight {
	next, ok := catalog.EVCharging.Next(points)
	if !ok {
		return nil
	}
	var out []Insight
	for _, class := range []struct {
		name  string
		share derive.CountShare
	}{
		{"4W", m.FourWheeler},
		{"2W", m.TwoWheeler},
	} {
		if catalog.EVCharging.Meets(class.share.Percentage, next.Value) {
			continue
		}
		if class.share.Total <= 0 {
			out = append(out, Message(id, scoring.PartEVCharging, fmt.Sprintf("Enter the total number of %s parking spaces.", class.name)))
			continue
		}
		required := ceilShare(float64(class.share.Total), next.Value)
		out = append(out, Shortfall(id, scoring.PartEVCharging, VerbProvide, float64(required-class.share.Provided), class.name+" spaces", next.Points))
	}
	return out
}

func bicycle(id types.CreditID, points int, m derive.ParkingMetrics) []Insight {
	var out []Insight
	if !catalog.BicycleParking.Meets(m.Bicycle.Percentage, catalog.BicycleParking.Steps[0].Value) {
		if m.DwellingUnits <= 0 {
			out = append(out, Message(id, scoring.PartBicycle, "Enter the number of dwelling units."))
		} else {
			amount, _, _ := countShortfall(catalog.BicycleParking, 0, m.Bicycle.Provided, m.DwellingUnits)
			out = append(out, Shortfall(id, scoring.PartBicycle, VerbProvide, amount, "bicycle spaces", points+1))
		}
	}
	if !m.Signage {
		out = append(out, Message(id, scoring.PartBicycle, "Provide signage for bicycle parking."))
	}
	return out
}

func amenities(in project.Input, c scoring.CreditScore) []Insight {
	m := derive.Amenities(in.Amenities, in.Project)
	var out []Insight
	for _, d := range unmet(c) {
		switch d.Part {
		case scoring.PartNearbyAmenities:
			out = append(out, Shortfall(c.ID, d.Part, VerbSelect, float64(catalog.AmenitiesRequired-m.NearbyCount), "amenities", c.Points+1))
		case scoring.PartOnSiteFacilities:
			if !m.PlayArea {
				out = append(out, Message(c.ID, d.Part, "Provide a children's play area."))
			}
			if !m.SeatingArea {
				out = append(out, Message(c.ID, d.Part, "Provide a seating area."))
			}
			if m.ProvidedToilets < m.RequiredToilets {
				out = append(out, Shortfall(c.ID, d.Part, VerbProvide, float64(m.RequiredToilets-m.ProvidedToilets), "visitor toilets", c.Points+1))
			}
		}
	}
	return out
}

func workforce(in project.Input, c scoring.CreditScore) []Insight {
	set := catalog.WorkforceFacilities
	missing := len(set.Options) - derive.Selected(in.Workforce.Facilities, set)
	return []Insight{Shortfall(c.ID, scoring.PartFacilities, VerbSelect, float64(missing), "workforce facilities", 1)}
}

func education(in project.Input, c scoring.CreditScore) []Insight {
	during, post := catalog.EducationDuring, catalog.EducationPost
	missing := len(during.Options) - derive.Selected(in.Education.During, during) +
		len(post.Options) - derive.Selected(in.Education.Post, post)
	return []Insight{Shortfall(c.ID, scoring.PartEducation, VerbSelect, float64(missing), "education measures", 1)}
}

func enhancedEnergy(in project.Input, c scoring.CreditScore) []Insight {
	e := in.Energy
	m := derive.Energy(e)
	var out []Insight
	for _, d := range unmet(c) {
		switch d.Part {
		case scoring.PartRETV:
			if !m.RETVValid {
				out = append(out, Message(c.ID, d.Part, "Enter the envelope RETV."))
			} else if amount, target, ok := limitShortfall(catalog.RETV, d.Points, m.RETV); ok {
				out = append(out, Reduction(c.ID, d.Part, "RETV", amount, catalog.RETV.Unit, target))
			}
		case scoring.PartUValue:
			if !m.UValueOK {
				out = append(out, Message(c.ID, d.Part, "Enter the roof U-value."))
			} else if amount, target, ok := limitShortfall(catalog.RoofUValue, d.Points, m.UValue); ok {
				out = append(out, Reduction(c.ID, d.Part, "roof U-value", amount, catalog.RoofUValue.Unit, target))
			}
		case scoring.PartLPD:
			out = append(out, lpd(c.ID, d.Points, m.Zones)...)
		case scoring.PartAC:
			out = append(out, Message(c.ID, d.Part, "Use BEE 5-star rated or inverter air-conditioners."))
		case scoring.PartLightingControls:
			out = append(out, Message(c.ID, d.Part, "Select at least one lighting control."))
		case scoring.PartSpaceHeating:
			out = append(out, Message(c.ID, d.Part, "Where space heating is provided, meet both efficiency conditions."))
		case scoring.PartSimulation:
			if e.Approach != catalog.ApproachSimulation {
				out = append(out, Message(c.ID, d.Part, "Choose the prescriptive or simulation approach."))
			} else if amount, target, ok := areaShortfall(catalog.EnergySavings, d.Points, m.Savings, 100); ok {
				out = append(out, Shortfall(c.ID, d.Part, VerbIncrease, amount, "% energy savings", target))
			}
		}
	}
	return out
}

// lpd reports, for every zone short of the next tier, the density reduction
// that brings it to the tier.
func lpd(id types.CreditID, points int, zones []derive.ZoneReduction) []Insight {
	next, ok := catalog.LPDReduction.Next(points)
	if !ok {
		return nil
	}
	var out []Insight
	for _, z := range zones {
		if !z.Valid {
			out = append(out, Message(id, scoring.PartLPD, fmt.Sprintf("Enter the %s lighting power density.", z.Zone.Label)))
			continue
		}
		if catalog.LPDReduction.Meets(z.Reduction, next.Value) {
			continue
		}
		limit := z.Zone.Baseline - z.Zone.Baseline*next.Value/100
		out = append(out, Reduction(id, scoring.PartLPD, z.Zone.Label+" lighting power density", z.Actual-limit, "W/m²", next.Points))
	}
	return out
}

func waterHeating(in project.Input, c scoring.CreditScore) []Insight {
	m := derive.WaterHeating(in.WaterHeating)
	if m.Requirement <= 0 {
		return []Insight{Message(c.ID, scoring.PartWaterHeating, "Enter the number of residents.")}
	}
	next, ok := catalog.WaterHeating.Next(c.Points)
	if !ok {
		return []Insight{Complete(c.ID)}
	}
	// points need both the litres and a technology
	var out []Insight
	if !catalog.WaterHeating.Meets(m.Percentage, next.Value) {
		amount := m.Requirement*next.Value/100 - m.Litres
		out = append(out, Shortfall(c.ID, scoring.PartWaterHeating, VerbProvide, amount, "litres/day", next.Points))
	}
	if !m.Technology {
		out = append(out, Message(c.ID, scoring.PartWaterHeating, "Select at least one alternate water heating technology."))
	}
	return out
}

func renewable(in project.Input, c scoring.CreditScore) []Insight {
	m := derive.Renewable(in.Renewable)
	if m.Consumption <= 0 {
		return []Insight{Message(c.ID, scoring.PartRenewable, "Enter the total common lighting consumption.")}
	}
	amount, target, ok := areaShortfall(catalog.RenewableEnergy, c.Points, m.Generation, m.Consumption)
	if !ok {
		return []Insight{Complete(c.ID)}
	}
	return []Insight{Shortfall(c.ID, scoring.PartRenewable, VerbProvide, amount, "kWh/year", target)}
}

func equipment(in project.Input, c scoring.CreditScore) []Insight {
	met := derive.Equipment(in.Equipment).Met()
	return []Insight{Shortfall(c.ID, scoring.PartEquipment, VerbSelect, float64(catalog.EquipmentRequired-met), "qualifying equipment categories", 1)}
}

func monitoring(in project.Input, c scoring.CreditScore) []Insight {
	set, group, ok := scoring.MonitoringGroup(in.Monitoring.Approach)
	if !ok {
		return []Insight{Message(c.ID, scoring.PartMonitoring, "Choose monitoring approach A or B.")}
	}
	count := derive.Selected(scoring.MonitoringSelection(in.Monitoring), set)
	return []Insight{Shortfall(c.ID, scoring.PartMonitoring, VerbSelect, float64(group*(c.Points+1)-count), "monitored systems", c.Points+1)}
}

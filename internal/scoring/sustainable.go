package scoring

import (
	"fmt"

	"github.com/dotcommander/igbcscore/internal/catalog"
	"github.com/dotcommander/igbcscore/internal/derive"
	"github.com/dotcommander/igbcscore/internal/project"
	"github.com/dotcommander/igbcscore/internal/types"
)

// Part keys shared with insight generation.
const (
	PartVegetation       = "vegetation"
	PartNonRoof          = "non-roof"
	PartRoof             = "roof"
	PartUniversalA       = "part-a"
	PartUniversalB       = "part-b"
	PartVentilation      = "ventilation"
	PartEVCharging       = "ev-charging"
	PartBicycle          = "bicycle"
	PartNearbyAmenities  = "nearby"
	PartOnSiteFacilities = "on-site"
	PartFacilities       = "facilities"
	PartEducation        = "education"
)

// TopographyLadder returns the ladder of a compliance option.
func TopographyLadder(option string) (catalog.Ladder, bool) {
	switch option {
	case catalog.OptionA:
		return catalog.TopographyOptionA, true
	case catalog.OptionB:
		return catalog.TopographyOptionB, true
	}
	return catalog.Ladder{}, false
}

// ScoreTopography scores the natural topography credit. An unknown option
// scores 0.
func ScoreTopography(in project.Input) CreditScore {
	m := derive.Topography(in.Topography)
	ladder, ok := TopographyLadder(m.Option)
	if !ok {
		_, d := unscored(PartVegetation, "Vegetated site area", 0, fmt.Sprintf("unknown option %q", m.Option))
		return newCreditScore(types.SDCredit1, 0, []ScoringMetric{d})
	}
	points, d := ScoreLadder(PartVegetation, "Vegetated site area ("+ladder.Name+")", ladder, m.Percentage)
	return newCreditScore(types.SDCredit1, points, []ScoringMetric{d})
}

// ScoreHeatIsland scores non-roof and roof areas and sums them.
func ScoreHeatIsland(in project.Input) CreditScore {
	m := derive.HeatIsland(in.HeatIsland)
	_, nonRoof := ScoreLadder(PartNonRoof, "Non-roof impervious area", catalog.HeatIslandNonRoof, m.NonRoof.Percentage)
	_, roof := ScoreLadder(PartRoof, "Exposed roof area", catalog.HeatIslandRoof, m.Roof.Percentage)
	details := []ScoringMetric{nonRoof, roof}
	return newCreditScore(types.SDCredit2, sumPoints(details), details)
}

// PassiveMeasureMet reports whether a passive measure's own requirement is
// met, regardless of whether it is selected.
func PassiveMeasureMet(key string, m derive.PassiveMetrics) bool {
	switch key {
	case "exteriorOpenings":
		return m.TotalWindows > 0 && catalog.ExteriorOpenings.Points(m.OpeningsPct) > 0
	case "skylights":
		return catalog.Skylights.Points(m.Skylights.Percentage) > 0
	case "daylighting":
		return catalog.Daylighting.Points(m.DaylightPct) > 0
	case "passiveCooling":
		return m.CoolingSelected
	}
	return false
}

// PassiveMetric returns the value a passive measure is judged on.
func PassiveMetric(key string, m derive.PassiveMetrics) float64 {
	switch key {
	case "exteriorOpenings":
		return m.OpeningsPct
	case "skylights":
		return m.Skylights.Percentage
	case "daylighting":
		return m.DaylightPct
	case "passiveCooling":
		return float64(boolToInt(m.CoolingSelected))
	}
	return 0
}

// ScorePassiveArchitecture counts measures that are both selected and met.
func ScorePassiveArchitecture(in project.Input) CreditScore {
	m := derive.Passive(in.Passive)
	var details []ScoringMetric
	count := 0
	for _, opt := range catalog.PassiveMeasures.Options {
		selected := in.Passive.Measures.Has(opt.Key)
		met := PassiveMeasureMet(opt.Key, m)
		achieved := selected && met
		if achieved {
			count++
		}
		note := ""
		if !selected {
			note = "not selected"
		}
		details = append(details, ScoringMetric{
			Part:      opt.Key,
			Name:      opt.Label,
			Points:    boolToInt(achieved),
			MaxPoints: 1,
			Passed:    achieved,
			Metric:    PassiveMetric(opt.Key, m),
			Note:      note,
		})
	}
	return newCreditScore(types.SDCredit3, min(count, catalog.PassiveArchitectureCap), details)
}

// ScoreUniversalDesign scores accessible facilities (part A) and design
// measures (part B).
func ScoreUniversalDesign(in project.Input) CreditScore {
	m := derive.Universal(in.Universal, in.Project)
	passedA := m.Parking >= m.Required && m.RestRooms >= m.Required && m.Wheelchair
	_, partA := ScoreGate(PartUniversalA, "Accessible parking, rest rooms and wheelchair provision", passedA,
		fmt.Sprintf("%d required for %d dwelling units", m.Required, m.DwellingUnits))
	_, partB := ScoreAnyOf(PartUniversalB, "Universal design measures", m.PartBCount, catalog.UniversalPartBRequired)
	details := []ScoringMetric{partA, partB}
	return newCreditScore(types.SDCredit4, sumPoints(details), details)
}

// VentilationMet reports whether parking ventilation qualifies: stilt
// parking always does, basement parking only with compliant ventilation.
func VentilationMet(ventType string, compliance bool) bool {
	switch ventType {
	case catalog.VentilationStilt:
		return true
	case catalog.VentilationBasement:
		return compliance
	}
	return false
}

// ScoreGreenParking scores ventilation, EV charging and bicycle parking.
func ScoreGreenParking(in project.Input) CreditScore {
	m := derive.Parking(in.Parking, in.Project)
	_, vent := ScoreGate(PartVentilation, "Parking ventilation", VentilationMet(m.VentilationType, m.Compliance), m.VentilationType)
	_, ev := ScoreLadder(PartEVCharging, "EV charging (lower of 4W and 2W)", catalog.EVCharging, m.EVPct)
	bicycleMet := catalog.BicycleParking.Points(m.Bicycle.Percentage) > 0 && m.Signage
	_, bicycle := ScoreGate(PartBicycle, "Bicycle parking with signage", bicycleMet, "")
	bicycle.Metric = m.Bicycle.Percentage
	bicycle.Unit = "%"
	details := []ScoringMetric{vent, ev, bicycle}
	return newCreditScore(types.SDCredit5, sumPoints(details), details)
}

// ScoreAmenities scores nearby amenities and on-site facilities.
func ScoreAmenities(in project.Input) CreditScore {
	m := derive.Amenities(in.Amenities, in.Project)
	_, nearby := ScoreAnyOf(PartNearbyAmenities, "Basic amenities within reach", m.NearbyCount, catalog.AmenitiesRequired)
	onSite := m.PlayArea && m.SeatingArea && m.ProvidedToilets >= m.RequiredToilets
	_, facilities := ScoreGate(PartOnSiteFacilities, "Play area, seating and visitor toilets", onSite,
		fmt.Sprintf("%d of %d toilets", m.ProvidedToilets, m.RequiredToilets))
	details := []ScoringMetric{nearby, facilities}
	return newCreditScore(types.SDCredit6, sumPoints(details), details)
}

// ScoreWorkforce requires every workforce facility.
func ScoreWorkforce(in project.Input) CreditScore {
	set := catalog.WorkforceFacilities
	points, d := ScoreAllOf(PartFacilities, "Construction workforce facilities", derive.Selected(in.Workforce.Facilities, set), len(set.Options))
	return newCreditScore(types.SDCredit7, points, []ScoringMetric{d})
}

// ScoreEducation requires every during and post construction measure.
func ScoreEducation(in project.Input) CreditScore {
	during, post := catalog.EducationDuring, catalog.EducationPost
	count := derive.Selected(in.Education.During, during) + derive.Selected(in.Education.Post, post)
	points, d := ScoreAllOf(PartEducation, "Green education measures", count, len(during.Options)+len(post.Options))
	return newCreditScore(types.SDCredit8, points, []ScoringMetric{d})
}

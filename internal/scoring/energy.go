package scoring

import (
	"fmt"
	"math"

	"github.com/dotcommander/igbcscore/internal/catalog"
	"github.com/dotcommander/igbcscore/internal/derive"
	"github.com/dotcommander/igbcscore/internal/project"
	"github.com/dotcommander/igbcscore/internal/types"
)

// Part keys for energy credits.
const (
	PartRETV             = "retv"
	PartUValue           = "u-value"
	PartLPD              = "lpd"
	PartAC               = "ac"
	PartLightingControls = "lighting-controls"
	PartSpaceHeating     = "space-heating"
	PartSimulation       = "simulation"
	PartWaterHeating     = "water-heating"
	PartRenewable        = "renewable"
	PartEquipment        = "equipment"
	PartMonitoring       = "monitoring"
)

// MinLPDReduction returns the smallest zone reduction, and false when any
// zone is invalid or increases on its baseline.
func MinLPDReduction(zones []derive.ZoneReduction) (float64, bool) {
	if len(zones) == 0 {
		return 0, false
	}
	lowest := math.Inf(1)
	for _, z := range zones {
		if !z.Valid || z.Reduction < 0 {
			return 0, false
		}
		lowest = math.Min(lowest, z.Reduction)
	}
	return lowest, true
}

// LPDPoints awards points only when every zone reaches the tier.
func LPDPoints(zones []derive.ZoneReduction) int {
	lowest, ok := MinLPDReduction(zones)
	if !ok {
		return 0
	}
	return catalog.LPDReduction.Points(lowest)
}

// ScoreEnhancedEnergy scores the prescriptive or simulation approach and caps
// the result at the credit maximum.
func ScoreEnhancedEnergy(in project.Input) CreditScore {
	m := derive.Energy(in.Energy)
	var details []ScoringMetric

	switch in.Energy.Approach {
	case catalog.ApproachPrescriptive:
		details = prescriptiveDetails(in.Energy, m)
	case catalog.ApproachSimulation:
		_, d := ScoreLadder(PartSimulation, "Energy savings over baseline", catalog.EnergySavings, m.Savings)
		details = append(details, d)
	default:
		_, d := unscored(PartSimulation, "Energy performance", catalog.EnhancedEnergyCap,
			fmt.Sprintf("unknown approach %q", in.Energy.Approach))
		details = append(details, d)
	}

	return newCreditScore(types.EECredit1, min(sumPoints(details), catalog.EnhancedEnergyCap), details)
}

func prescriptiveDetails(e project.Energy, m derive.EnergyMetrics) []ScoringMetric {
	var details []ScoringMetric

	_, retv := ScoreLadder(PartRETV, "Envelope RETV", catalog.RETV, m.RETV)
	if !m.RETVValid {
		retv.Points, retv.Passed, retv.Note = 0, false, "RETV not provided"
	}
	details = append(details, retv)

	_, uValue := ScoreLadder(PartUValue, "Roof U-value", catalog.RoofUValue, m.UValue)
	if !m.UValueOK {
		uValue.Points, uValue.Passed, uValue.Note = 0, false, "U-value not provided"
	}
	details = append(details, uValue)

	lpdPoints := LPDPoints(m.Zones)
	lowest, valid := MinLPDReduction(m.Zones)
	lpd := ScoringMetric{
		Part:      PartLPD,
		Name:      "Lighting power density reduction (all zones)",
		Points:    lpdPoints,
		MaxPoints: catalog.LPDReduction.MaxPoints(),
		Passed:    lpdPoints >= catalog.LPDReduction.MaxPoints(),
		Metric:    lowest,
		Unit:      "%",
	}
	if !valid {
		lpd.Note = "every zone needs a value at or below its baseline"
	}
	details = append(details, lpd)

	acPoints := catalog.ACPoints(e.AC)
	details = append(details, ScoringMetric{
		Part:      PartAC,
		Name:      "Air-conditioner rating",
		Points:    acPoints,
		MaxPoints: 2,
		Passed:    acPoints == 2,
		Metric:    float64(acPoints),
		Note:      e.AC,
	})

	_, controls := ScoreGate(PartLightingControls, "Lighting controls", m.Controls > 0, "")
	controls.Metric = float64(m.Controls)
	details = append(details, controls)

	_, heating := ScoreGate(PartSpaceHeating, "Space heating", m.HeatingMet, "")
	if !e.Heating.Applicable {
		heating.Note = "not applicable"
	}
	details = append(details, heating)

	return details
}

// ScoreWaterHeating scores the alternate water heating share. Points need at
// least one technology.
func ScoreWaterHeating(in project.Input) CreditScore {
	m := derive.WaterHeating(in.WaterHeating)
	points, d := ScoreLadder(PartWaterHeating, "Hot water from alternate systems", catalog.WaterHeating, m.Percentage)
	if !m.Technology {
		points, d.Points, d.Passed, d.Note = 0, 0, false, "no technology selected"
	}
	return newCreditScore(types.EECredit2, points, []ScoringMetric{d})
}

// ScoreRenewable scores on-site renewable generation against common lighting
// consumption.
func ScoreRenewable(in project.Input) CreditScore {
	m := derive.Renewable(in.Renewable)
	points, d := ScoreLadder(PartRenewable, "Renewable share of common lighting", catalog.RenewableEnergy, m.Percentage)
	return newCreditScore(types.EECredit3, points, []ScoringMetric{d})
}

// ScoreEquipment needs two of pumps, motors and lifts to qualify.
func ScoreEquipment(in project.Input) CreditScore {
	m := derive.Equipment(in.Equipment)
	points, d := ScoreAnyOf(PartEquipment, "Efficient pumps, motors and lifts", m.Met(), catalog.EquipmentRequired)
	return newCreditScore(types.EECredit4, points, []ScoringMetric{d})
}

// MonitoringGroup returns the options and group size of a monitoring approach.
func MonitoringGroup(approach string) (catalog.OptionSet, int, bool) {
	switch approach {
	case catalog.OptionA:
		return catalog.MonitoringCaseA, catalog.MonitoringGroupA, true
	case catalog.OptionB:
		return catalog.MonitoringCaseB, catalog.MonitoringGroupB, true
	}
	return catalog.OptionSet{}, 0, false
}

// MonitoringSelection returns the selection used by an approach.
func MonitoringSelection(mon project.Monitoring) project.Selection {
	if mon.Approach == catalog.OptionB {
		return mon.CaseB
	}
	return mon.CaseA
}

// ScoreMonitoring awards a point per full group of monitored systems.
func ScoreMonitoring(in project.Input) CreditScore {
	set, group, ok := MonitoringGroup(in.Monitoring.Approach)
	if !ok {
		_, d := unscored(PartMonitoring, "Monitored systems", catalog.MonitoringCap,
			fmt.Sprintf("unknown approach %q", in.Monitoring.Approach))
		return newCreditScore(types.EECredit5, 0, []ScoringMetric{d})
	}
	count := derive.Selected(MonitoringSelection(in.Monitoring), set)
	points, d := ScoreFloorTiers(PartMonitoring, "Monitored systems (approach "+in.Monitoring.Approach+")", count, group, catalog.MonitoringCap)
	return newCreditScore(types.EECredit5, points, []ScoringMetric{d})
}

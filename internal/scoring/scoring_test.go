package scoring

import (
	"testing"

	"github.com/dotcommander/igbcscore/internal/catalog"
	"github.com/dotcommander/igbcscore/internal/derive"
	"github.com/dotcommander/igbcscore/internal/project"
	"github.com/dotcommander/igbcscore/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deriveZones(in project.Input) []derive.ZoneReduction {
	return derive.Energy(in.Energy).Zones
}

func firstN(set catalog.OptionSet, n int) project.Selection {
	sel := project.Selection{}
	for i, key := range set.Keys() {
		if i >= n {
			break
		}
		sel[key] = true
	}
	return sel
}

func all(set catalog.OptionSet) project.Selection {
	return firstN(set, len(set.Options))
}

// saturated returns a snapshot that reaches every credit maximum.
func saturated() project.Input {
	in := project.Defaults()
	in.Project.DwellingUnits = "200"
	in.Topography = project.Topography{Option: catalog.OptionB, SiteArea: "1000", NaturalArea: "600", GroundVegetation: "200", BuiltVegetation: "200"}
	in.HeatIsland = project.HeatIsland{
		NonRoof: project.NonRoof{TotalArea: "100", TreeCover: "50", OpenGrid: "30", Hardscape: "20"},
		Roof:    project.Roof{TotalArea: "100", HighSRI: "60", Vegetation: "40"},
	}
	in.Passive.Measures = all(catalog.PassiveMeasures)
	in.Passive.CompliantWindows = "90"
	in.Passive.SkylightArea = "100"
	in.Universal = project.Universal{ProvidedParking: "1", ProvidedRestRooms: "1", Wheelchair: true, PartB: all(catalog.UniversalPartB)}
	in.Parking = project.Parking{
		Ventilation: project.Ventilation{Type: catalog.VentilationStilt},
		EV:          project.EVCharging{Catered4W: "30", Total4W: "100", Catered2W: "40", Total2W: "100"},
		Bicycle:     project.Bicycle{Spaces: "20", Signage: true},
	}
	in.Amenities = project.Amenities{Nearby: all(catalog.Amenities), PlayArea: true, SeatingArea: true, ProvidedToilets: "1"}
	in.Workforce.Facilities = all(catalog.WorkforceFacilities)
	in.Education = project.Education{During: all(catalog.EducationDuring), Post: all(catalog.EducationPost)}
	in.Renewable = project.Renewable{TotalConsumption: "1000", Generation: "1000", Source: types.SourceCustom}
	in.Monitoring.CaseA = all(catalog.MonitoringCaseA)
	return in
}

func TestScoreTopography(t *testing.T) {
	tests := []struct {
		name string
		topo project.Topography
		want int
		pct  float64
	}{
		{
			name: "option A exactly at 15%",
			topo: project.Topography{Option: "A", SiteArea: "1000", NaturalArea: "100", GroundVegetation: "50"},
			want: 1, pct: 15,
		},
		{
			name: "option A ignores built vegetation",
			topo: project.Topography{Option: "A", SiteArea: "1000", NaturalArea: "100", GroundVegetation: "50", BuiltVegetation: "500"},
			want: 1, pct: 15,
		},
		{
			name: "option A capped at 2",
			topo: project.Topography{Option: "A", SiteArea: "1000", NaturalArea: "900"},
			want: 2, pct: 90,
		},
		{
			name: "option B at 40%",
			topo: project.Topography{Option: "B", SiteArea: "1000", NaturalArea: "100", GroundVegetation: "50", BuiltVegetation: "250"},
			want: 4, pct: 40,
		},
		{
			name: "option B below first tier",
			topo: project.Topography{Option: "B", SiteArea: "1000", NaturalArea: "290"},
			want: 0, pct: 29,
		},
		{
			name: "zero site area",
			topo: project.Topography{Option: "A", SiteArea: "0", NaturalArea: "100"},
			want: 0, pct: 0,
		},
		{
			name: "unknown option",
			topo: project.Topography{Option: "C", SiteArea: "1000", NaturalArea: "900"},
			want: 0, pct: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := project.New()
			in.Topography = tt.topo
			got := ScoreTopography(in)
			assert.Equal(t, tt.want, got.Points)
			assert.Equal(t, 4, got.MaxPoints)
			d, ok := got.Detail(PartVegetation)
			require.True(t, ok)
			assert.InDelta(t, tt.pct, d.Metric, 1e-9)
		})
	}
}

func TestScoreHeatIsland(t *testing.T) {
	in := project.New()
	in.HeatIsland = project.HeatIsland{
		NonRoof: project.NonRoof{TotalArea: "500", TreeCover: "200", OpenGrid: "100", Hardscape: "75"},
		Roof:    project.Roof{TotalArea: "800", HighSRI: "500", Vegetation: "100"},
	}
	got := ScoreHeatIsland(in)
	assert.Equal(t, 3, got.Points)

	nonRoof, _ := got.Detail(PartNonRoof)
	assert.Equal(t, 2, nonRoof.Points)
	roof, _ := got.Detail(PartRoof)
	assert.Equal(t, 1, roof.Points)
}

func TestScorePassiveArchitecture(t *testing.T) {
	base := project.Passive{
		TotalWindows: "100", CompliantWindows: "80",
		SkylightArea: "100", RoofArea: "1000",
		DaylightPercentage: "60",
		Cooling:            project.Selection{"windTower": true},
	}

	tests := []struct {
		name     string
		measures project.Selection
		want     int
	}{
		{"nothing selected", project.Selection{}, 0},
		{"one met measure", project.Selection{"exteriorOpenings": true}, 1},
		{"capped at two", project.Selection{"exteriorOpenings": true, "skylights": true, "daylighting": true, "passiveCooling": true}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := project.New()
			in.Passive = base
			in.Passive.Measures = tt.measures
			assert.Equal(t, tt.want, ScorePassiveArchitecture(in).Points)
		})
	}

	t.Run("selected but unmet", func(t *testing.T) {
		in := project.New()
		in.Passive = base
		in.Passive.CompliantWindows = "79"
		in.Passive.Measures = project.Selection{"exteriorOpenings": true}
		assert.Equal(t, 0, ScorePassiveArchitecture(in).Points)
	})

	t.Run("no windows never meets openings", func(t *testing.T) {
		in := project.New()
		in.Passive.Measures = project.Selection{"exteriorOpenings": true}
		assert.Equal(t, 0, ScorePassiveArchitecture(in).Points)
	})
}

func TestScoreUniversalDesign_TwoHundredUnits(t *testing.T) {
	in := project.New()
	in.Project.DwellingUnits = "200"
	in.Universal = project.Universal{
		ProvidedParking:   "1",
		ProvidedRestRooms: "1",
		Wheelchair:        true,
		PartB:             project.Selection{"uniformFloor": true, "wideWalkways": true, "brailleLifts": true, "stretcherLift": true},
	}

	got := ScoreUniversalDesign(in)
	assert.Equal(t, 2, got.Points)
	assert.Equal(t, 2, got.MaxPoints)
	a, _ := got.Detail(PartUniversalA)
	assert.Equal(t, 1, a.Points)
	b, _ := got.Detail(PartUniversalB)
	assert.Equal(t, 1, b.Points)
}

func TestScoreUniversalDesign(t *testing.T) {
	in := project.New()
	in.Project.DwellingUnits = "251"
	in.Universal = project.Universal{
		ProvidedParking:   "2",
		ProvidedRestRooms: "2",
		Wheelchair:        true,
		PartB:             project.Selection{"uniformFloor": true, "wideWalkways": true, "brailleLifts": true, "stretcherLift": true},
	}
	assert.Equal(t, 2, ScoreUniversalDesign(in).Points)

	in.Universal.ProvidedRestRooms = "1"
	got := ScoreUniversalDesign(in)
	assert.Equal(t, 1, got.Points)
	a, _ := got.Detail(PartUniversalA)
	assert.False(t, a.Passed)

	in.Universal.PartB = project.Selection{"uniformFloor": true, "wideWalkways": true, "brailleLifts": true}
	assert.Equal(t, 0, ScoreUniversalDesign(in).Points)
}

func TestScoreGreenParking(t *testing.T) {
	tests := []struct {
		name    string
		parking project.Parking
		du      project.Quantity
		want    int
	}{
		{
			name: "2W surplus cannot compensate for 4W",
			parking: project.Parking{
				Ventilation: project.Ventilation{Type: "basement"},
				EV:          project.EVCharging{Catered4W: "20", Total4W: "100", Catered2W: "35", Total2W: "100"},
			},
			du:   "200",
			want: 1,
		},
		{
			name: "stilt parking with full EV and bicycle",
			parking: project.Parking{
				Ventilation: project.Ventilation{Type: "stilt"},
				EV:          project.EVCharging{Catered4W: "30", Total4W: "100", Catered2W: "30", Total2W: "100"},
				Bicycle:     project.Bicycle{Spaces: "10", Signage: true},
			},
			du:   "200",
			want: 4,
		},
		{
			name: "basement with compliance",
			parking: project.Parking{
				Ventilation: project.Ventilation{Type: "basement", Compliance: true},
			},
			want: 1,
		},
		{
			name: "bicycle without signage",
			parking: project.Parking{
				Ventilation: project.Ventilation{Type: "podium", Compliance: true},
				Bicycle:     project.Bicycle{Spaces: "10"},
			},
			du:   "200",
			want: 0,
		},
		{
			name: "zero totals",
			parking: project.Parking{
				EV:      project.EVCharging{Catered4W: "5", Catered2W: "5"},
				Bicycle: project.Bicycle{Spaces: "5", Signage: true},
			},
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := project.New()
			in.Parking = tt.parking
			in.Project.DwellingUnits = tt.du
			assert.Equal(t, tt.want, ScoreGreenParking(in).Points)
		})
	}
}

func TestScoreAmenities(t *testing.T) {
	in := project.New()
	in.Amenities = project.Amenities{
		Nearby:          project.Selection{"bank": true, "park": true, "gym": true, "theater": true, "worship": true, "casino": true},
		PlayArea:        true,
		SeatingArea:     true,
		ProvidedToilets: "1",
	}
	got := ScoreAmenities(in)
	assert.Equal(t, 1, got.Points, "unknown amenity keys are not counted")

	in.Amenities.Nearby["laundry"] = true
	assert.Equal(t, 2, ScoreAmenities(in).Points)

	in.Project.DwellingUnits = "300"
	assert.Equal(t, 1, ScoreAmenities(in).Points, "two toilets needed for 300 units")
}

func TestAllOfCredits(t *testing.T) {
	in := project.New()
	in.Workforce.Facilities = project.Selection{}
	for _, key := range catalog.WorkforceFacilities.Keys() {
		in.Workforce.Facilities[key] = true
	}
	assert.Equal(t, 1, ScoreWorkforce(in).Points)
	in.Workforce.Facilities["dust"] = false
	assert.Equal(t, 0, ScoreWorkforce(in).Points)

	in.Education.During = project.Selection{"awareness": true, "signage": true}
	in.Education.Post = project.Selection{"brochure": true, "awareness": true, "guidelines": true}
	assert.Equal(t, 0, ScoreEducation(in).Points)
	in.Education.Post["signage"] = true
	assert.Equal(t, 1, ScoreEducation(in).Points)
}

func TestLPDPoints(t *testing.T) {
	tests := []struct {
		name string
		lpd  project.LPD
		want int
	}{
		{"preset values", project.LPD{Interior: "3.5", Exterior: "1.5", Common: "2.5", Parking: "1.5"}, 2},
		{"below 25% on some zones", project.LPD{Interior: "4.5", Exterior: "2.5", Common: "3.5", Parking: "2.5"}, 0},
		{"all at 25%", project.LPD{Interior: "3.75", Exterior: "1.875", Common: "3", Parking: "1.875"}, 1},
		{"missing zone fails closed", project.LPD{Interior: "1", Exterior: "1", Common: "1"}, 0},
		{"unparseable zone fails closed", project.LPD{Interior: "1", Exterior: "1", Common: "1", Parking: "low"}, 0},
		{"increase on baseline", project.LPD{Interior: "6", Exterior: "1", Common: "1", Parking: "1"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := project.New()
			in.Energy.LPD = tt.lpd
			assert.Equal(t, tt.want, LPDPoints(deriveZones(in)))
		})
	}
}

func TestScoreEnhancedEnergy(t *testing.T) {
	t.Run("prescriptive capped at 10", func(t *testing.T) {
		in := project.Defaults()
		got := ScoreEnhancedEnergy(in)
		assert.Equal(t, 12, sumPoints(got.Details))
		assert.Equal(t, 10, got.Points)
		assert.True(t, got.Complete())
	})

	t.Run("prescriptive parts", func(t *testing.T) {
		in := project.New()
		in.Energy.RETV = "14.2"
		in.Energy.UValue = "1.1"
		in.Energy.AC = "4-star"
		got := ScoreEnhancedEnergy(in)
		// RETV 2, U-value 1, LPD 0, AC 1
		assert.Equal(t, 4, got.Points)
	})

	t.Run("blank retv scores nothing", func(t *testing.T) {
		in := project.New()
		got := ScoreEnhancedEnergy(in)
		assert.Equal(t, 0, got.Points)
	})

	t.Run("space heating needs both conditions", func(t *testing.T) {
		in := project.New()
		in.Energy.Heating = project.Heating{Applicable: true, Conditions: project.Selection{"heatPump": true, "thermal": true}}
		assert.Equal(t, 1, ScoreEnhancedEnergy(in).Points)
		in.Energy.Heating.Applicable = false
		assert.Equal(t, 0, ScoreEnhancedEnergy(in).Points)
	})

	t.Run("simulation", func(t *testing.T) {
		in := project.New()
		in.Energy.Approach = "simulation"
		in.Energy.EnergySavings = "17.5"
		assert.Equal(t, 7, ScoreEnhancedEnergy(in).Points)
		in.Energy.EnergySavings = "40"
		assert.Equal(t, 10, ScoreEnhancedEnergy(in).Points)
	})

	t.Run("unknown approach", func(t *testing.T) {
		in := project.Defaults()
		in.Energy.Approach = "hybrid"
		assert.Equal(t, 0, ScoreEnhancedEnergy(in).Points)
	})
}

func TestScoreWaterHeating(t *testing.T) {
	in := project.New()
	in.WaterHeating = project.WaterHeating{Residents: "10", AlternateLitres: "150", Technologies: project.Selection{"gas": true}}
	assert.Equal(t, 2, ScoreWaterHeating(in).Points)

	in.WaterHeating.Technologies = project.Selection{}
	assert.Equal(t, 0, ScoreWaterHeating(in).Points)

	in.WaterHeating = project.WaterHeating{AlternateLitres: "150", Technologies: project.Selection{"gas": true}}
	assert.Equal(t, 0, ScoreWaterHeating(in).Points, "no residents")
}

func TestScoreRenewable(t *testing.T) {
	in := project.New()
	in.Renewable = project.Renewable{TotalConsumption: "10000", Generation: "9500"}
	assert.Equal(t, 4, ScoreRenewable(in).Points)
	in.Renewable.TotalConsumption = ""
	assert.Equal(t, 0, ScoreRenewable(in).Points)
}

func TestScoreEquipment(t *testing.T) {
	in := project.New()
	in.Equipment = project.Equipment{
		Pumps:  project.EquipmentGroup{Selected: true, Types: project.Selection{"isi": true}},
		Motors: project.EquipmentGroup{Selected: false, Types: project.Selection{"eff85": true}},
		Lifts:  project.Lifts{Selected: true, Type: "gearless"},
	}
	assert.Equal(t, 1, ScoreEquipment(in).Points)
	in.Equipment.Lifts.Type = ""
	assert.Equal(t, 0, ScoreEquipment(in).Points)
}

func TestScoreMonitoring(t *testing.T) {
	tests := []struct {
		name     string
		approach string
		caseA    int
		caseB    int
		want     int
	}{
		{"A three selected", "A", 3, 0, 0},
		{"A four selected", "A", 4, 0, 1},
		{"A eleven selected", "A", 11, 0, 2},
		{"B three selected", "B", 0, 3, 1},
		{"B seven selected", "B", 0, 7, 2},
		{"B ignores case A", "B", 12, 1, 0},
		{"unknown approach", "C", 12, 7, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := project.New()
			in.Monitoring = project.Monitoring{
				Approach: tt.approach,
				CaseA:    firstN(catalog.MonitoringCaseA, tt.caseA),
				CaseB:    firstN(catalog.MonitoringCaseB, tt.caseB),
			}
			assert.Equal(t, tt.want, ScoreMonitoring(in).Points)
		})
	}
}

func TestEvaluateDefaults(t *testing.T) {
	r := Evaluate(project.Defaults())
	require.Len(t, r.Credits, len(catalog.Credits))

	want := map[types.CreditID]int{
		types.SDCredit1: 1, types.SDCredit2: 2, types.SDCredit3: 0, types.SDCredit4: 0,
		types.SDCredit5: 0, types.SDCredit6: 1, types.SDCredit7: 0, types.SDCredit8: 0,
		types.EECredit1: 10, types.EECredit2: 3, types.EECredit3: 1, types.EECredit4: 1, types.EECredit5: 1,
	}
	for id, points := range want {
		c, ok := r.Credit(id)
		require.True(t, ok, string(id))
		assert.Equal(t, points, c.Points, string(id))
	}

	sd, _ := r.Category(types.CategorySustainableDesign)
	ee, _ := r.Category(types.CategoryEnergyEfficiency)
	assert.Equal(t, 4, sd.Points)
	assert.Equal(t, 16, ee.Points)
	assert.Equal(t, 20, r.Total)
	assert.Equal(t, 40, r.MaxTotal)
}

func TestEvaluateInvariants(t *testing.T) {
	inputs := []project.Input{project.New(), project.Defaults(), saturated()}
	for _, in := range inputs {
		r := Evaluate(in)
		sum := 0
		for _, c := range r.Credits {
			assert.GreaterOrEqual(t, c.Points, 0, string(c.ID))
			assert.LessOrEqual(t, c.Points, c.MaxPoints, string(c.ID))
		}
		for _, cat := range r.Categories {
			assert.LessOrEqual(t, cat.Points, cat.MaxPoints)
			sum += cat.Points
		}
		assert.Equal(t, sum, r.Total)
		assert.LessOrEqual(t, r.Total, 40)

		// pure and idempotent
		assert.Equal(t, r, Evaluate(in))
	}
}

func TestEvaluateSaturatedReachesMaximum(t *testing.T) {
	r := Evaluate(saturated())
	for _, c := range r.Credits {
		assert.True(t, c.Complete(), "%s scored %d of %d", c.ID, c.Points, c.MaxPoints)
	}
	assert.Equal(t, 40, r.Total)
}

func TestRollupDoesNotRecap(t *testing.T) {
	r := Rollup([]CreditScore{
		{ID: types.SDCredit1, Category: types.CategorySustainableDesign, Points: 4, MaxPoints: 4},
		{ID: types.EECredit1, Category: types.CategoryEnergyEfficiency, Points: 10, MaxPoints: 10},
	})
	assert.Equal(t, 14, r.Total)
	assert.Len(t, r.Categories, 2)
}

func TestZeroDenominatorScoresZero(t *testing.T) {
	tests := []struct {
		name   string
		credit types.CreditID
		setup  func(in *project.Input)
	}{
		{
			name:   "heat island non-roof total",
			credit: types.SDCredit2,
			setup: func(in *project.Input) {
				in.HeatIsland.NonRoof = project.NonRoof{TotalArea: "0", TreeCover: "200", OpenGrid: "100", Hardscape: "75"}
			},
		},
		{
			name:   "heat island roof total",
			credit: types.SDCredit2,
			setup: func(in *project.Input) {
				in.HeatIsland.Roof = project.Roof{TotalArea: "0", HighSRI: "500", Vegetation: "100"}
			},
		},
		{
			name:   "total windows",
			credit: types.SDCredit3,
			setup: func(in *project.Input) {
				in.Passive = project.Passive{Measures: project.Selection{"exteriorOpenings": true}, TotalWindows: "0", CompliantWindows: "80"}
			},
		},
		{
			name:   "skylight roof area",
			credit: types.SDCredit3,
			setup: func(in *project.Input) {
				in.Passive = project.Passive{Measures: project.Selection{"skylights": true}, SkylightArea: "100", RoofArea: "0"}
			},
		},
		{
			name:   "renewable consumption",
			credit: types.EECredit3,
			setup: func(in *project.Input) {
				in.Renewable = project.Renewable{TotalConsumption: "0", Generation: "9500"}
			},
		},
		{
			name:   "water heating residents",
			credit: types.EECredit2,
			setup: func(in *project.Input) {
				in.WaterHeating = project.WaterHeating{Residents: "0", AlternateLitres: "150", Technologies: project.Selection{"gas": true}}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := project.New()
			tt.setup(&in)
			got, ok := ScoreCredit(tt.credit, in)
			require.True(t, ok)
			assert.Equal(t, 0, got.Points)
		})
	}
}

func TestScoreCreditUnknown(t *testing.T) {
	_, ok := ScoreCredit("xx-cr-1", project.New())
	assert.False(t, ok)
}

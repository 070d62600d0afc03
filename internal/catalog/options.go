package catalog

// Option is a selectable item with a display label.
type Option struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
}

// PointOption is an exclusive choice that carries points.
type PointOption struct {
	Option `yaml:",inline"`
	Points int `json:"points" yaml:"points"`
}

// OptionSet is a named list of options backing a boolean selection.
type OptionSet struct {
	Name    string
	Options []Option
}

// Has reports whether key is one of the set's options.
func (s OptionSet) Has(key string) bool {
	for _, o := range s.Options {
		if o.Key == key {
			return true
		}
	}
	return false
}

// Keys returns the option keys in order.
func (s OptionSet) Keys() []string {
	keys := make([]string, len(s.Options))
	for i, o := range s.Options {
		keys[i] = o.Key
	}
	return keys
}

// Label returns the display label for key, or key itself.
func (s OptionSet) Label(key string) string {
	for _, o := range s.Options {
		if o.Key == key {
			return o.Label
		}
	}
	return key
}

// Selection option sets.
var (
	PassiveMeasures = OptionSet{Name: "passive measures", Options: []Option{
		{"exteriorOpenings", "Exterior openings"},
		{"skylights", "Skylights"},
		{"daylighting", "Daylighting"},
		{"passiveCooling", "Passive cooling"},
	}}

	PassiveCooling = OptionSet{Name: "passive cooling", Options: []Option{
		{"windTower", "Wind Tower"},
		{"earthTunnel", "Earth Tunnel"},
		{"geothermal", "Geothermal"},
		{"other", "Other"},
	}}

	UniversalPartB = OptionSet{Name: "universal design part B", Options: []Option{
		{"uniformFloor", "Uniformity in floor level for hindrance-free movement"},
		{"wideWalkways", "Walkways/ pathways with adequate width in exterior areas"},
		{"brailleLifts", "Braille and audio assistance in lifts"},
		{"stretcherLift", "Atleast one lift with minimum dimensions to allow a stretcher"},
		{"visualSignages", "Visual warning signages in common areas & exterior areas"},
	}}

	Amenities = OptionSet{Name: "amenities", Options: []Option{
		{"bank", "Bank/ ATM"},
		{"beautySaloon", "Beauty Saloon"},
		{"transport", "Bus/ Metro/ Auto Stand"},
		{"clubhouse", "Clubhouse"},
		{"education", "Educational Institutions"},
		{"grocery", "Grocery/ Super Market"},
		{"stores", "Stores (various)"},
		{"laundry", "Laundry Services"},
		{"medical", "Medical Clinic/ Hospital"},
		{"park", "Park/ Garden"},
		{"worship", "Place of Worship"},
		{"playground", "Playground/ Jogging Track"},
		{"restaurant", "Restaurant"},
		{"refueling", "Refueling Station"},
		{"gym", "Sports club/ Gym"},
		{"theater", "Theater"},
	}}

	WorkforceFacilities = OptionSet{Name: "workforce facilities", Options: []Option{
		{"housing", "Adequate housing to meet or exceed local/ labour bye-law requirement."},
		{"sanitary", "Sanitary measures to meet or exceed local/ labour bye-law requirement."},
		{"firstAid", "First-aid and emergency facilities."},
		{"drinkingWater", "Adequate drinking water facilities."},
		{"ppe", "Personal protective equipment (by owner/ contractor)."},
		{"dust", "Dust suppression measures."},
		{"illumination", "Adequate illumination levels in construction work areas."},
		{"dayCare", "Day care/ creche facility for workers' children"},
	}}

	EducationDuring = OptionSet{Name: "during construction", Options: []Option{
		{"awareness", "Awareness sessions for construction workforce on green & safety measures."},
		{"signage", "Display signages indicating envisaged green features."},
	}}

	EducationPost = OptionSet{Name: "post construction", Options: []Option{
		{"brochure", "Project brochure highlighting the green features proposed."},
		{"awareness", "Awareness sessions to prospective occupants."},
		{"guidelines", "Circulate green home guidelines."},
		{"signage", "Permanent signages highlighting the implemented green features."},
	}}

	LightingControls = OptionSet{Name: "lighting controls", Options: []Option{
		{"daylight", "Daylight Sensor"},
		{"occupancy", "Occupancy/Motion Sensor"},
		{"timer", "Timer Based Controls"},
	}}

	HeatingConditions = OptionSet{Name: "space heating conditions", Options: []Option{
		{"heatPump", "Unitary heat pumps meet ECBC-R / ECBC 2017 criteria"},
		{"thermal", "Non-electricity heating has 70% thermal efficiency"},
	}}

	WaterTechnologies = OptionSet{Name: "water heating technologies", Options: []Option{
		{"gas", "Natural Gas (or) LPG based systems"},
		{"heatPump", "Heat pump with minimum of COP 3.2"},
		{"solar", "Solar water heating systems"},
	}}

	PumpTypes = OptionSet{Name: "pump types", Options: []Option{
		{"bee4star", "BEE 4-star rated"},
		{"eff70", "Min. 70% efficiency (>3 HP)"},
		{"isi", "ISI certified (others)"},
	}}

	MotorTypes = OptionSet{Name: "motor types", Options: []Option{
		{"bee4star", "BEE 4-star rated"},
		{"eff85", "Min. 85% efficiency (>3 HP)"},
		{"isi", "ISI certified (others)"},
	}}

	LiftTypes = OptionSet{Name: "lift types", Options: []Option{
		{"regenerative", "Regenerative lifts"},
		{"doubleDeck", "Double-deck elevators"},
		{"gearless", "Gearless traction elevators"},
		{"machineRoomless", "Machine-room less traction elevators"},
	}}

	MonitoringCaseA = OptionSet{Name: "monitoring case A", Options: []Option{
		{"commonLighting", "Common area lighting"},
		{"exteriorLighting", "Exterior area lighting"},
		{"lifts", "Energy meter for lifts"},
		{"stp", "STP"},
		{"pumpsMotors", "Pumps & motors"},
		{"clubHouse", "Club house"},
		{"dgSet", "DG set"},
		{"reGeneration", "RE generation"},
		{"airConditioning", "Air-conditioning"},
		{"treatedWater", "Treated waste water pumping"},
		{"powerBackup", "Power backup systems"},
		{"other", "Any other energy consuming equipment"},
	}}

	MonitoringCaseB = OptionSet{Name: "monitoring case B", Options: []Option{
		{"acManagement", "Air-conditioning management system"},
		{"lightingManagement", "Lighting management system"},
		{"elevatorManagement", "Elevator management system"},
		{"reManagement", "Renewable energy management system"},
		{"cctv", "CCTV"},
		{"waterLevel", "Overhead water level indicators"},
		{"waterMetering", "Water Metering (dwelling unit level)"},
	}}
)

// Exclusive choice lists.
var (
	TopographyOptions    = []string{OptionA, OptionB}
	VentilationTypes     = []string{VentilationStilt, VentilationBasement}
	EnergyApproaches     = []string{ApproachPrescriptive, ApproachSimulation}
	MonitoringApproaches = []string{OptionA, OptionB}
)

// ACRatingKeys returns the valid air-conditioner rating keys.
func ACRatingKeys() []string {
	keys := make([]string, len(ACRatings))
	for i, r := range ACRatings {
		keys[i] = r.Key
	}
	return keys
}

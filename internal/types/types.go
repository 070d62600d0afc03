// Package types provides shared identifiers used across the igbcscore codebase.
// This package is at the bottom of the dependency graph and should not import
// any other internal packages to avoid circular dependencies.
package types

// CreditID identifies a single credit in the rating scheme.
type CreditID string

// Credit identifiers.
const (
	SDCredit1 CreditID = "sd-cr-1" // Natural Topography & Vegetation
	SDCredit2 CreditID = "sd-cr-2" // Heat Island Effect
	SDCredit3 CreditID = "sd-cr-3" // Passive Architecture
	SDCredit4 CreditID = "sd-cr-4" // Universal Design
	SDCredit5 CreditID = "sd-cr-5" // Green Parking Facility
	SDCredit6 CreditID = "sd-cr-6" // Access to Amenities
	SDCredit7 CreditID = "sd-cr-7" // Construction Workforce facilities
	SDCredit8 CreditID = "sd-cr-8" // Green Education & Awareness
	EECredit1 CreditID = "ee-cr-1" // Enhanced Energy Performance
	EECredit2 CreditID = "ee-cr-2" // Alternate Water Heating
	EECredit3 CreditID = "ee-cr-3" // On-site Renewable Energy
	EECredit4 CreditID = "ee-cr-4" // Common Area Equipment
	EECredit5 CreditID = "ee-cr-5" // Integrated Energy Monitoring
)

// CategoryID identifies a credit category.
type CategoryID string

// Category identifiers.
const (
	CategorySustainableDesign CategoryID = "sd"
	CategoryEnergyEfficiency  CategoryID = "ee"
)

// Source tags where a defaultable field's value comes from.
type Source string

// Source constants.
const (
	SourcePreset Source = "preset" // scheme-provided default, field locked
	SourceCustom Source = "custom" // user-entered value
)

// Valid reports whether s is a known source. An empty source reads as custom.
func (s Source) Valid() bool {
	return s == SourcePreset || s == SourceCustom || s == ""
}

// IsPreset reports whether the value is locked to the scheme default.
func (s Source) IsPreset() bool { return s == SourcePreset }

// Insight kinds.
const (
	InsightShortfall = "shortfall"
	InsightComplete  = "complete"
	InsightMessage   = "message"
)

// Report format constants.
const (
	FormatConsole  = "console"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

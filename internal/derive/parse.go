// Package derive turns raw project inputs into the numeric metrics the
// scoring rules compare against threshold ladders. Every function is pure
// and never fails: unusable input degrades to zero.
package derive

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/dotcommander/igbcscore/internal/catalog"
	"github.com/dotcommander/igbcscore/internal/project"
)

var (
	decimalPrefix = regexp.MustCompile(`^\s*[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	integerPrefix = regexp.MustCompile(`^\s*[+-]?\d+`)
)

// Reading parses the leading decimal number of q. ok is false when there is
// no number to read.
func Reading(q project.Quantity) (float64, bool) {
	m := decimalPrefix.FindString(string(q))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(m), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Number parses q leniently. Blank or unparseable text is 0.
func Number(q project.Quantity) float64 {
	v, _ := Reading(q)
	return v
}

// Count parses the leading integer of q. Blank or unparseable text is 0.
func Count(q project.Quantity) int {
	m := integerPrefix.FindString(string(q))
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(m))
	if err != nil {
		return 0
	}
	return n
}

// Percent returns num as a percentage of den, or 0 when den is not positive.
func Percent(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num * 100 / den
}

// RequiredFacilities is the number of accessible facilities needed for the
// given dwelling units, one per started block of units.
func RequiredFacilities(dwellingUnits int) int {
	if dwellingUnits <= 0 {
		return 0
	}
	return (dwellingUnits + catalog.DwellingUnitsPerFacility - 1) / catalog.DwellingUnitsPerFacility
}

// CeilShare returns the whole number of items needed to reach pct percent of
// total.
func CeilShare(total, pct float64) int {
	if total <= 0 {
		return 0
	}
	// round away float noise before the ceiling, e.g. 100*0.3 = 30.000000000000004
	return int(math.Ceil(math.Round(total*pct/100*1e9) / 1e9))
}

// Selected counts the options of set that are selected. Keys outside the set
// are ignored.
func Selected(sel project.Selection, set catalog.OptionSet) int {
	n := 0
	for _, key := range set.Keys() {
		if sel.Has(key) {
			n++
		}
	}
	return n
}

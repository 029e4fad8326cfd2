// Package policy holds the pluggable rule tables the simulation core queries:
// work and school hours, holidays, curfew and wages.
package policy

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/hearth/internal/model"
)

// Shift is a daily time window in hours. End may be smaller than Start for
// night shifts.
type Shift struct {
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
	Days  []int   `yaml:"days"` // weekdays the shift runs on, empty = every day
}

// contains reports whether minuteOfDay (already offset) falls within the shift.
func (s Shift) contains(minuteOfDay float64) bool {
	start := s.Start * MinutesPerHour
	end := s.End * MinutesPerHour
	if start == end {
		return false
	}
	if start < end {
		return minuteOfDay >= start && minuteOfDay < end
	}
	return minuteOfDay >= start || minuteOfDay < end
}

func (s Shift) runsOn(weekday int) bool {
	return len(s.Days) == 0 || slices.Contains(s.Days, weekday)
}

// Curfew keeps children inside between From and Until (hours).
type Curfew struct {
	From  float64 `yaml:"from"`
	Until float64 `yaml:"until"`
}

// Tables is the full rule set.
type Tables struct {
	Work   Shift `yaml:"work"`
	School Shift `yaml:"school"`
	// Shifts overrides Work per workplace id.
	Shifts map[model.WorkplaceID]Shift `yaml:"shifts"`
	// Holidays are day numbers modulo YearDays with no work and no school.
	Holidays []int `yaml:"holidays"`
	YearDays int   `yaml:"year_days"`

	Curfew       Curfew `yaml:"curfew"`
	SchoolMinAge int    `yaml:"school_min_age"`
	SchoolMaxAge int    `yaml:"school_max_age"`
	// AdultAge gates work objects and the loneliness trigger.
	AdultAge int `yaml:"adult_age"`

	// Wages per job title per sim hour; DefaultWage applies to unknown titles.
	Wages       map[string]float64 `yaml:"wages"`
	DefaultWage float64            `yaml:"default_wage"`
	// CommuteLead is how many minutes before a shift agents set off.
	CommuteLead float64 `yaml:"commute_lead"`
}

// DefaultTables returns a Monday-to-Friday town.
func DefaultTables() Tables {
	weekdays := []int{0, 1, 2, 3, 4}
	return Tables{
		Work:         Shift{Start: 9, End: 17, Days: weekdays},
		School:       Shift{Start: 8, End: 14, Days: weekdays},
		YearDays:     112,
		Holidays:     []int{0, 27, 55, 83},
		Curfew:       Curfew{From: 21, Until: 6},
		SchoolMinAge: 6,
		SchoolMaxAge: 17,
		AdultAge:     18,
		Wages: map[string]float64{
			"teacher": 14,
			"cook":    11,
			"clerk":   12,
			"doctor":  25,
		},
		DefaultWage: 10,
		CommuteLead: 30,
	}
}

// Load reads rule tables from a YAML file.
// If the file doesn't exist, returns defaults.
func Load(path string) (Tables, error) {
	t := DefaultTables()
	if path == "" {
		return t, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return t, fmt.Errorf("reading policy %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("parsing policy %s: %w", path, err)
	}
	return t, nil
}

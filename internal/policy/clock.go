package policy

import "fmt"

// Calendar constants. Simulation time is measured in sim minutes since day 0, 00:00.
const (
	MinutesPerHour = 60
	MinutesPerDay  = 24 * MinutesPerHour
	DaysPerWeek    = 7
)

// Day returns the zero-based day number of minute.
func Day(minute float64) int {
	if minute < 0 {
		return 0
	}
	return int(minute / MinutesPerDay)
}

// MinuteOfDay returns minutes since midnight in [0, 1440).
func MinuteOfDay(minute float64) float64 {
	if minute < 0 {
		return 0
	}
	return minute - float64(Day(minute))*MinutesPerDay
}

// Hour returns the hour of day (0-23).
func Hour(minute float64) int {
	return int(MinuteOfDay(minute) / MinutesPerHour)
}

// Weekday returns the day of week, 0 = first day of the simulation.
func Weekday(minute float64) int {
	return Day(minute) % DaysPerWeek
}

// FormatClock renders minute as "day 3 07:45".
func FormatClock(minute float64) string {
	m := int(MinuteOfDay(minute))
	return fmt.Sprintf("day %d %02d:%02d", Day(minute), m/MinutesPerHour, m%MinutesPerHour)
}

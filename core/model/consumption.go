package model

import "fmt"

// Canonical weekday identifiers in the order every allocator iterates them.
const (
	Monday    = "Monday"
	Tuesday   = "Tuesday"
	Wednesday = "Wednesday"
	Thursday  = "Thursday"
	Friday    = "Friday"
	Saturday  = "Saturday"
	Sunday    = "Sunday"
)

// Weekdays lists the canonical days Monday through Sunday.
var Weekdays = []string{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// HoursPerDay is the number of hourly slots in a day.
const HoursPerDay = 24

// ConsumptionRecord is one row of the historical dataset.
type ConsumptionRecord struct {
	Appliance string  `json:"appliance"`
	Day       string  `json:"day_of_week"`
	Time      string  `json:"time"`
	EnergyKWh float64 `json:"energy_consumption_kwh"`
}

// HourLabel returns the first five characters of the raw time, e.g. "07:00"
// for "07:00:00".
func (r ConsumptionRecord) HourLabel() string {
	if len(r.Time) <= 5 {
		return r.Time
	}
	return r.Time[:5]
}

// HourLabel formats an hour of day as "HH:00".
func HourLabel(h int) string {
	return fmt.Sprintf("%02d:00", h)
}

// IsWeekday reports whether day is one of the canonical weekday names.
func IsWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

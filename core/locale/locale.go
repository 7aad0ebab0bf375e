// Package locale maps localized appliance and weekday names to the
// canonical identifiers used in the consumption dataset.
package locale

import "strings"

// Table is an immutable name mapping. Unknown names pass through.
type Table struct {
	m map[string]string
}

// NewTable copies entries into a new Table.
func NewTable(entries map[string]string) Table {
	m := make(map[string]string, len(entries))
	for k, v := range entries {
		m[strings.TrimSpace(k)] = v
	}
	return Table{m: m}
}

// With returns a copy of t extended or overridden by entries.
func (t Table) With(entries map[string]string) Table {
	m := make(map[string]string, len(t.m)+len(entries))
	for k, v := range t.m {
		m[k] = v
	}
	for k, v := range entries {
		m[strings.TrimSpace(k)] = v
	}
	return Table{m: m}
}

// Len returns the number of entries.
func (t Table) Len() int { return len(t.m) }

// Translate trims name and returns its mapping, or the trimmed name itself.
func (t Table) Translate(name string) string {
	name = strings.TrimSpace(name)
	if v, ok := t.m[name]; ok {
		return v
	}
	return name
}

// TranslateAll translates every element of names.
func (t Table) TranslateAll(names []string) []string {
	if names == nil {
		return nil
	}
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = t.Translate(n)
	}
	return out
}

// SplitList parses comma-separated user input. Empty items are dropped.
func SplitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Appliances holds the Indonesian appliance names of the reference dataset.
var Appliances = NewTable(map[string]string{
	"Kulkas":               "Refrigerator",
	"Mesin pencuci piring": "Dishwasher",
	"Lampu":                "Lighting",
	"Elektronik":           "Electronics",
	"Mesin cuci":           "Washing Machine",
	"Ac":                   "HVAC",
	"AC":                   "HVAC",
})

// Days holds the Indonesian weekday names.
var Days = NewTable(map[string]string{
	"Senin":  "Monday",
	"Selasa": "Tuesday",
	"Rabu":   "Wednesday",
	"Kamis":  "Thursday",
	"Jumat":  "Friday",
	"Sabtu":  "Saturday",
	"Minggu": "Sunday",
})

// Config lets deployments extend or override the default tables.
type Config struct {
	Appliances map[string]string `json:"appliances"`
	Days       map[string]string `json:"days"`
}

// Tables returns the default tables merged with the configured entries.
func (c Config) Tables() (appliances, days Table) {
	return Appliances.With(c.Appliances), Days.With(c.Days)
}

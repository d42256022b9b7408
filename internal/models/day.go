package models

// DayOfWeek is a weekday code. Codes are passed through verbatim; the canonical
// ordering and display labels only know the seven lowercase codes below.
type DayOfWeek string

const (
	Monday    DayOfWeek = "mon"
	Tuesday   DayOfWeek = "tue"
	Wednesday DayOfWeek = "wed"
	Thursday  DayOfWeek = "thu"
	Friday    DayOfWeek = "fri"
	Saturday  DayOfWeek = "sat"
	Sunday    DayOfWeek = "sun"
)

// CanonicalDays is the fixed display order of the week.
var CanonicalDays = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var dayLabels = map[DayOfWeek]string{
	Monday:    "月",
	Tuesday:   "火",
	Wednesday: "水",
	Thursday:  "木",
	Friday:    "金",
	Saturday:  "土",
	Sunday:    "日",
}

// Label returns the short Japanese weekday label, or the raw code for unknown days.
func (d DayOfWeek) Label() string {
	if label, ok := dayLabels[d]; ok {
		return label
	}
	return string(d)
}

// Valid reports whether d is one of the canonical codes.
func (d DayOfWeek) Valid() bool {
	_, ok := dayLabels[d]
	return ok
}

// DayConfig describes whether a weekday is taught and how many periods it holds.
type DayConfig struct {
	DayOfWeek   DayOfWeek `db:"day_of_week" json:"dayOfWeek" validate:"required,oneof=mon tue wed thu fri sat sun"`
	IsAvailable bool      `db:"is_available" json:"isAvailable"`
	AmPeriods   int       `db:"am_periods" json:"amPeriods" validate:"min=0"`
	PmPeriods   int       `db:"pm_periods" json:"pmPeriods" validate:"min=0"`
}

// Periods returns the number of periods taught on the day.
func (d DayConfig) Periods() int {
	return d.AmPeriods + d.PmPeriods
}

// AttendanceDay is a per-homeroom or per-instructor day record whose fields may be unset.
type AttendanceDay struct {
	DayOfWeek   DayOfWeek `db:"day_of_week" json:"dayOfWeek" validate:"required"`
	IsAvailable *bool     `db:"is_available" json:"isAvailable,omitempty"`
	AmPeriods   *int      `db:"am_periods" json:"amPeriods,omitempty" validate:"omitempty,min=0"`
	PmPeriods   *int      `db:"pm_periods" json:"pmPeriods,omitempty" validate:"omitempty,min=0"`
}

// DayConfig resolves unset fields to an unavailable day without periods.
func (d AttendanceDay) DayConfig() DayConfig {
	cfg := DayConfig{DayOfWeek: d.DayOfWeek}
	if d.IsAvailable != nil {
		cfg.IsAvailable = *d.IsAvailable
	}
	if d.AmPeriods != nil {
		cfg.AmPeriods = *d.AmPeriods
	}
	if d.PmPeriods != nil {
		cfg.PmPeriods = *d.PmPeriods
	}
	return cfg
}

package enums

import "fmt"

// ScheduleFrequency classifies how a sync schedule recurs.
type ScheduleFrequency string

const (
	ScheduleFrequencyHourly ScheduleFrequency = "HOURLY"
	ScheduleFrequencyDaily  ScheduleFrequency = "DAILY"
	ScheduleFrequencyWeekly ScheduleFrequency = "WEEKLY"
	ScheduleFrequencyCustom ScheduleFrequency = "CUSTOM"
)

var validScheduleFrequencies = []ScheduleFrequency{
	ScheduleFrequencyHourly,
	ScheduleFrequencyDaily,
	ScheduleFrequencyWeekly,
	ScheduleFrequencyCustom,
}

// String implements fmt.Stringer.
func (f ScheduleFrequency) String() string {
	return string(f)
}

// Valid reports whether the value is a known frequency.
func (f ScheduleFrequency) Valid() bool {
	for _, v := range validScheduleFrequencies {
		if f == v {
			return true
		}
	}
	return false
}

// ParseScheduleFrequency validates and converts a raw string.
func ParseScheduleFrequency(raw string) (ScheduleFrequency, error) {
	freq := ScheduleFrequency(raw)
	if !freq.Valid() {
		return "", fmt.Errorf("unknown schedule frequency %q", raw)
	}
	return freq, nil
}

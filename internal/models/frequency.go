package models

import (
	"fmt"
	"strings"
	"time"
)

type FrequencyType string

const (
	FrequencyDaily   FrequencyType = "daily"
	FrequencyWeekly  FrequencyType = "weekly"
	FrequencyMonthly FrequencyType = "monthly"
	FrequencyCustom  FrequencyType = "custom"
)

// Valid reports whether t is one of the known frequency types.
func (t FrequencyType) Valid() bool {
	switch t {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyCustom:
		return true
	}
	return false
}

// Frequency is the cadence a habit is expected to be performed at.
// Days is only meaningful for weekly habits (0=Sunday, 6=Saturday) and
// CustomDays only for custom ones.
type Frequency struct {
	Type       FrequencyType `json:"type"`
	Days       []int         `json:"days,omitempty"`
	CustomDays int           `json:"customDays,omitempty"`
}

func Daily() Frequency { return Frequency{Type: FrequencyDaily} }

func Weekly(days ...time.Weekday) Frequency {
	f := Frequency{Type: FrequencyWeekly}
	for _, d := range days {
		f.Days = append(f.Days, int(d))
	}
	return f
}

func Monthly() Frequency { return Frequency{Type: FrequencyMonthly} }

func EveryNDays(n int) Frequency { return Frequency{Type: FrequencyCustom, CustomDays: n} }

// Clone returns a copy of f that does not share its Days slice.
func (f Frequency) Clone() Frequency {
	c := f
	if f.Days != nil {
		c.Days = make([]int, len(f.Days))
		copy(c.Days, f.Days)
	}
	return c
}

// Weekdays returns Days as time.Weekday values.
func (f Frequency) Weekdays() []time.Weekday {
	days := make([]time.Weekday, 0, len(f.Days))
	for _, d := range f.Days {
		days = append(days, time.Weekday(d))
	}
	return days
}

// String formats the frequency into a human-readable string
func (f Frequency) String() string {
	switch f.Type {
	case FrequencyDaily:
		return "daily"
	case FrequencyWeekly:
		if len(f.Days) > 0 {
			var days []string
			for _, wd := range f.Weekdays() {
				days = append(days, wd.String()[:3])
			}
			return fmt.Sprintf("weekly on %s", strings.Join(days, ","))
		}
		return "weekly"
	case FrequencyMonthly:
		return "monthly"
	case FrequencyCustom:
		return fmt.Sprintf("every %d days", f.CustomDays)
	default:
		return "unknown"
	}
}

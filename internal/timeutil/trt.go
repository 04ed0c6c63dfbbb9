package timeutil

import (
	"time"
)

// TRT is the Turkey Time location (UTC+3)
var TRT *time.Location

func init() {
	var err error
	TRT, err = time.LoadLocation("Europe/Istanbul")
	if err != nil {
		// Fallback: create fixed zone if Europe/Istanbul not available
		TRT = time.FixedZone("TRT", 3*60*60) // UTC+3
	}
}

// Now returns the current time in TRT
func Now() time.Time {
	return time.Now().In(TRT)
}

// ToTRT converts any time to TRT
func ToTRT(t time.Time) time.Time {
	return t.In(TRT)
}

// ParseInTRT parses a time string and returns it in TRT
func ParseInTRT(layout, value string) (time.Time, error) {
	t, err := time.ParseInLocation(layout, value, TRT)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// StartOfDay returns the start of day (00:00:00) in TRT for the given time
func StartOfDay(t time.Time) time.Time {
	trt := t.In(TRT)
	return time.Date(trt.Year(), trt.Month(), trt.Day(), 0, 0, 0, 0, TRT)
}

// StartOfMonth returns the first of the month (00:00:00) in TRT for the given time
func StartOfMonth(t time.Time) time.Time {
	trt := t.In(TRT)
	return time.Date(trt.Year(), trt.Month(), 1, 0, 0, 0, 0, TRT)
}

// SameDay reports whether two times fall on the same TRT calendar day
func SameDay(a, b time.Time) bool {
	at := a.In(TRT)
	bt := b.In(TRT)
	return at.Year() == bt.Year() && at.Month() == bt.Month() && at.Day() == bt.Day()
}

// Common layouts for TRT formatting
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "02.01.2006 15:04"
)

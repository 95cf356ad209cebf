package safety

import (
	"strconv"
	"strings"
)

// Blood pressure limits beyond which a session must not start.
const (
	SystolicHigh  = 160
	SystolicLow   = 90
	DiastolicHigh = 100
)

// ValidReading reports whether a typed value counts as a measurement: at least two
// characters after trimming and an integer.
func ValidReading(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if len(s) < 2 {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

// BPUncontrolled derives the exclusion flag from the typed readings. Invalid readings never trigger it.
func BPUncontrolled(systolic, diastolic string) bool {
	if sys, ok := ValidReading(systolic); ok && (sys > SystolicHigh || sys < SystolicLow) {
		return true
	}
	if dia, ok := ValidReading(diastolic); ok && dia > DiastolicHigh {
		return true
	}
	return false
}

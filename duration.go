package bikeshare

import (
	"math"
)

const (
	secondsPerDay    = 24 * 60 * 60
	secondsPerHour   = 60 * 60
	secondsPerMinute = 60
)

// A duration broken into whole units.
type Span struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// Breaks seconds into days, hours, minutes and seconds. Each unit is
// truncated before the remainder is carried to the next one, and any
// fraction of a second left at the end is dropped.
func DecomposeTotal(seconds float64) Span {
	return decompose(seconds, true)
}

// Like DecomposeTotal but without a days unit; hours may exceed 23.
func DecomposeMean(seconds float64) Span {
	return decompose(seconds, false)
}

func decompose(seconds float64, withDays bool) Span {
	span := Span{}
	rem := seconds

	if withDays {
		days := math.Trunc(rem / secondsPerDay)
		span.Days = int(days)
		rem -= days * secondsPerDay
	}

	hours := math.Trunc(rem / secondsPerHour)
	span.Hours = int(hours)
	rem -= hours * secondsPerHour

	minutes := math.Trunc(rem / secondsPerMinute)
	span.Minutes = int(minutes)
	rem -= minutes * secondsPerMinute

	span.Seconds = int(math.Trunc(rem))

	return span
}

// Total number of whole seconds in the span.
func (s Span) TotalSeconds() int {
	return s.Days*secondsPerDay + s.Hours*secondsPerHour + s.Minutes*secondsPerMinute + s.Seconds
}

package protocol

import "time"

// NominalTime converts an engine day/time pair to UTC. cyd is yyddd or
// yyyyddd (two-digit years below 50 are 20xx, the rest 19xx; three-digit
// years count from 1900). hms is hhmmss. A zero cyd yields the zero time.
func NominalTime(cyd, hms int) time.Time {
	if cyd <= 0 {
		return time.Time{}
	}

	year := cyd / 1000
	switch {
	case year < 50:
		year += 2000
	case year < 1900:
		year += 1900
	}
	doy := cyd % 1000

	hh := hms / 10000
	mm := (hms / 100) % 100
	ss := hms % 100

	// time.Date normalizes day-of-year overflow into later months
	return time.Date(year, time.January, doy, hh, mm, ss, 0, time.UTC)
}

package service

import "time"

// clock returns now in UTC, defaulting to the wall clock.
func clock(now func() time.Time) time.Time {
	if now == nil {
		return time.Now().UTC()
	}
	return now().UTC()
}

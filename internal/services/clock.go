package services

import "time"

// Clock supplies the current time. Every status derivation and reminder
// decision is a pure function of stored dates and Now().
type Clock interface {
	Now() time.Time
}

type realClock struct {
	loc *time.Location
}

func (c realClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// NewClock returns a Clock reporting wall time in loc. A nil location
// defaults to UTC.
func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return realClock{loc: loc}
}

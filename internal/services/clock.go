package services

import (
	"time"

	"luckylotto/internal/generator"
)

// Clock supplies the current time. The calendar day it falls on is the
// "today" fed to the generator.
type Clock interface {
	Now() time.Time
}

// CalendarClock reads the wall clock in a fixed location so the day key
// does not depend on where the process runs.
type CalendarClock struct {
	Location *time.Location
}

// NewCalendarClock returns a clock for loc, falling back to UTC.
func NewCalendarClock(loc *time.Location) CalendarClock {
	if loc == nil {
		loc = time.UTC
	}
	return CalendarClock{Location: loc}
}

func (c CalendarClock) Now() time.Time {
	return time.Now().In(c.Location)
}

// FixedClock always returns the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time {
	return time.Time(c)
}

// Today returns the day key for c.
func Today(c Clock) string {
	return generator.DateKey(c.Now())
}

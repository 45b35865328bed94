package bulb

import (
	"fmt"

	"github.com/muurk/mipow/internal/protocol"
)

type startKind uint8

const (
	startNext startKind = iota
	startAt
	startFromNow
)

// StartTime is when a timer, scene or security window begins: a clock
// time, a number of minutes from the bulb's current time, or the zero
// value, which means one minute from now.
type StartTime struct {
	kind    startKind
	at      protocol.TimeOfDay
	minutes int
}

// At starts at a fixed time of day.
func At(t protocol.TimeOfDay) StartTime {
	return StartTime{kind: startAt, at: t}
}

// FromNow starts minutes after the bulb clock.
func FromNow(minutes int) StartTime {
	return StartTime{kind: startFromNow, minutes: minutes}
}

// NeedsClock reports whether resolving needs the bulb clock.
func (s StartTime) NeedsClock() bool {
	return s.kind != startAt
}

// Resolve returns the absolute start for the bulb clock now.
func (s StartTime) Resolve(now protocol.TimeOfDay) protocol.TimeOfDay {
	switch s.kind {
	case startAt:
		return s.at
	case startFromNow:
		return now.Add(s.minutes)
	default:
		return now.Add(1)
	}
}

func (s StartTime) String() string {
	switch s.kind {
	case startAt:
		return s.at.String()
	case startFromNow:
		return fmt.Sprintf("+%dm", s.minutes)
	default:
		return "next minute"
	}
}

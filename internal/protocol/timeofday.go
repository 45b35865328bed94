package protocol

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// unsetByte marks an hour or minute the bulb has no value for.
const unsetByte = 0xFF

// MinutesPerDay bounds every scheduled start and runtime.
const MinutesPerDay = 24 * 60

// TimeOfDay is an hour:minute pair as stored by the bulb.
type TimeOfDay struct {
	Hour   uint8
	Minute uint8
}

// UnsetTime is the sentinel pair (0xFF, 0xFF).
var UnsetTime = TimeOfDay{Hour: unsetByte, Minute: unsetByte}

// NewTimeOfDay validates hour 0-23 and minute 0-59.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if err := checkRange("hour", hour, 0, 23); err != nil {
		return TimeOfDay{}, err
	}
	if err := checkRange("minute", minute, 0, 59); err != nil {
		return TimeOfDay{}, err
	}
	return TimeOfDay{Hour: uint8(hour), Minute: uint8(minute)}, nil
}

// TimeOfDayFromClock takes hour and minute from t.
func TimeOfDayFromClock(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: uint8(t.Hour()), Minute: uint8(t.Minute())}
}

// TimeOfDayFromMinutes wraps m around midnight.
func TimeOfDayFromMinutes(m int) TimeOfDay {
	m %= MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return TimeOfDay{Hour: uint8(m / 60), Minute: uint8(m % 60)}
}

// ParseTimeOfDay parses "hh:mm".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: want hh:mm", s)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || len(hh) > 2 {
		return TimeOfDay{}, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || len(mm) != 2 {
		return TimeOfDay{}, fmt.Errorf("invalid minute in %q", s)
	}
	return NewTimeOfDay(hour, minute)
}

// IsSet reports whether both fields hold a time. Either field at 0xFF
// means unset.
func (t TimeOfDay) IsSet() bool {
	return t.Hour != unsetByte && t.Minute != unsetByte
}

// Minutes returns minutes since midnight. Only meaningful when IsSet.
func (t TimeOfDay) Minutes() int {
	return int(t.Hour)*60 + int(t.Minute)
}

// Add returns t shifted by minutes, wrapping at midnight.
func (t TimeOfDay) Add(minutes int) TimeOfDay {
	return TimeOfDayFromMinutes(t.Minutes() + minutes)
}

// String returns "hh:mm" or "--:--" when unset.
func (t TimeOfDay) String() string {
	if !t.IsSet() {
		return "--:--"
	}
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// MarshalJSON encodes a set time as "hh:mm" and an unset one as null.
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	if !t.IsSet() {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}

// decodeTime keeps the raw bytes. A 0xFF in either field makes the time
// unset (see IsSet) but the other byte survives a write back.
func decodeTime(hour, minute byte) TimeOfDay {
	return TimeOfDay{Hour: hour, Minute: minute}
}

// DecodeClock parses the bulb clock pair.
func DecodeClock(data []byte) (TimeOfDay, error) {
	if err := checkLen("clock", data, 2); err != nil {
		return TimeOfDay{}, err
	}
	return decodeTime(data[0], data[1]), nil
}

// EncodeClock returns [hour, minute] as stored, so UnsetTime encodes as
// [0xFF, 0xFF].
func EncodeClock(t TimeOfDay) []byte {
	return []byte{t.Hour, t.Minute}
}

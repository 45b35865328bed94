package protocol

import (
	"fmt"
	"time"
)

// SecurityRecordSize is the wire size of the security record.
const SecurityRecordSize = 13

// Security is the simulated-presence schedule. Between Start and End the
// bulb switches Color on and off at random intervals of MinInterval to
// MaxInterval minutes.
//
// Read layout (13 bytes):
//
//	[0]     active flag
//	[1:3]   bulb clock hour, minute
//	[3:5]   start hour, minute
//	[5:7]   end hour, minute
//	[7]     min interval
//	[8]     max interval
//	[9:13]  color W R G B
//
// The write layout is the same except byte 0 is always zero and the clock
// is sent as minute, hour.
type Security struct {
	Active      bool
	Clock       TimeOfDay
	Start       TimeOfDay
	End         TimeOfDay
	MinInterval uint8
	MaxInterval uint8
	Color       Color
}

// DisabledSecurity is what the bulb reports after a clear.
func DisabledSecurity() Security {
	return Security{
		Clock:       UnsetTime,
		Start:       UnsetTime,
		End:         UnsetTime,
		MinInterval: unsetByte,
		MaxInterval: unsetByte,
	}
}

// Scheduled reports whether a window is configured.
func (s Security) Scheduled() bool {
	return s.Start.IsSet() && s.End.IsSet()
}

func (s Security) String() string {
	state := "inactive"
	if s.Active {
		state = "running"
	}
	return fmt.Sprintf("Security(%s, %s-%s, interval=%d-%dm, color=%s)",
		state, s.Start, s.End, s.MinInterval, s.MaxInterval, s.Color)
}

// DecodeSecurity parses a 13-byte security read record.
func DecodeSecurity(data []byte) (Security, error) {
	if err := checkLen("security", data, SecurityRecordSize); err != nil {
		return Security{}, err
	}
	return Security{
		Active:      data[0] != 0,
		Clock:       decodeTime(data[1], data[2]),
		Start:       decodeTime(data[3], data[4]),
		End:         decodeTime(data[5], data[6]),
		MinInterval: data[7],
		MaxInterval: data[8],
		Color:       colorAt(data, 9),
	}, nil
}

// EncodeSecurity returns the 13-byte write record and syncs the bulb clock
// to now. Start and End must be set, and MinInterval may not exceed
// MaxInterval.
func EncodeSecurity(s Security, now time.Time) ([]byte, error) {
	if !s.Scheduled() {
		return nil, fmt.Errorf("security schedule needs start and end time")
	}
	for _, t := range []TimeOfDay{s.Start, s.End} {
		if _, err := NewTimeOfDay(int(t.Hour), int(t.Minute)); err != nil {
			return nil, err
		}
	}
	if s.MinInterval > s.MaxInterval {
		return nil, &RangeError{Field: "min interval", Value: int(s.MinInterval), Min: 0, Max: int(s.MaxInterval)}
	}

	buf := make([]byte, SecurityRecordSize)
	buf[1] = byte(now.Minute())
	buf[2] = byte(now.Hour())
	buf[3] = s.Start.Hour
	buf[4] = s.Start.Minute
	buf[5] = s.End.Hour
	buf[6] = s.End.Minute
	buf[7] = s.MinInterval
	buf[8] = s.MaxInterval
	putColor(buf, 9, s.Color)
	return buf, nil
}

// EncodeSecurityClear returns the write record that disables the schedule.
func EncodeSecurityClear(now time.Time) []byte {
	buf := make([]byte, SecurityRecordSize)
	buf[1] = byte(now.Minute())
	buf[2] = byte(now.Hour())
	for i := 3; i < 9; i++ {
		buf[i] = unsetByte
	}
	return buf
}

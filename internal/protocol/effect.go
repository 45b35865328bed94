package protocol

import "fmt"

// EffectRecordSize is the wire size of an effect record.
const EffectRecordSize = 8

// EffectType is the on-wire effect code. Codes the firmware reports that
// are not listed below are kept as-is and reported as unknown.
type EffectType uint8

// Effect codes
const (
	EffectFlash   EffectType = 0x00
	EffectPulse   EffectType = 0x01
	EffectDisco   EffectType = 0x02
	EffectRainbow EffectType = 0x03
	EffectCandle  EffectType = 0x04
	EffectOff     EffectType = 0xFF
)

// Known reports whether t is one of the documented effect codes.
func (t EffectType) Known() bool {
	switch t {
	case EffectFlash, EffectPulse, EffectDisco, EffectRainbow, EffectCandle, EffectOff:
		return true
	}
	return false
}

func (t EffectType) String() string {
	switch t {
	case EffectFlash:
		return "flash"
	case EffectPulse:
		return "pulse"
	case EffectDisco:
		return "disco"
	case EffectRainbow:
		return "rainbow"
	case EffectCandle:
		return "candle"
	case EffectOff:
		return "off"
	default:
		return fmt.Sprintf("unknown(0x%02x)", uint8(t))
	}
}

// Effect is a built-in animation run by the bulb firmware.
//
// Wire layout (8 bytes):
//
//	[0:4] color W R G B
//	[4]   effect type
//	[5]   repetitions before pause (flash)
//	[6]   delay / hold per step
//	[7]   pause (flash)
type Effect struct {
	Type        EffectType
	Color       Color
	Repetitions uint8
	Delay       uint8
	Pause       uint8
}

// OffEffect stops any running effect and keeps color in the record.
func OffEffect(color Color) Effect {
	return Effect{Type: EffectOff, Color: color}
}

// PulseEffect fades the given channels in and out. Channels are 0 or 1.
func PulseEffect(color Color, hold uint8) Effect {
	return Effect{Type: EffectPulse, Color: color, Delay: hold}
}

// FlashEffect blinks color for time (1/100 s), optionally pausing after
// repetitions blinks for pause (1/10 s).
func FlashEffect(color Color, time, repetitions, pause uint8) Effect {
	return Effect{Type: EffectFlash, Color: color, Delay: time, Repetitions: repetitions, Pause: pause}
}

// RainbowEffect cycles through hues with hold per step.
func RainbowEffect(hold uint8) Effect {
	return Effect{Type: EffectRainbow, Delay: hold}
}

// CandleEffect flickers around color.
func CandleEffect(color Color) Effect {
	return Effect{Type: EffectCandle, Color: color}
}

// DiscoEffect jumps between colors with hold per step.
func DiscoEffect(hold uint8) Effect {
	return Effect{Type: EffectDisco, Delay: hold}
}

// WithTiming returns a copy of e with new timing fields. Color and type are
// left untouched.
func (e Effect) WithTiming(delay, repetitions, pause uint8) Effect {
	e.Delay = delay
	e.Repetitions = repetitions
	e.Pause = pause
	return e
}

// Running reports whether the bulb is animating.
func (e Effect) Running() bool {
	return e.Type != EffectOff
}

func (e Effect) String() string {
	return fmt.Sprintf("Effect(type=%s, color=%s, repetitions=%d, delay=%d, pause=%d)",
		e.Type, e.Color, e.Repetitions, e.Delay, e.Pause)
}

// EncodeEffect returns the 8-byte effect record.
func EncodeEffect(e Effect) []byte {
	buf := make([]byte, EffectRecordSize)
	putColor(buf, 0, e.Color)
	buf[4] = byte(e.Type)
	buf[5] = e.Repetitions
	buf[6] = e.Delay
	buf[7] = e.Pause
	return buf
}

// DecodeEffect parses an 8-byte effect record.
func DecodeEffect(data []byte) (Effect, error) {
	if err := checkLen("effect", data, EffectRecordSize); err != nil {
		return Effect{}, err
	}
	return Effect{
		Color:       colorAt(data, 0),
		Type:        EffectType(data[4]),
		Repetitions: data[5],
		Delay:       data[6],
		Pause:       data[7],
	}, nil
}

package protocol

import (
	"fmt"
	"math"
)

// ColorRecordSize is the wire size of a color record.
const ColorRecordSize = 4

// Color holds the four channels of a bulb. Wire order is W, R, G, B.
type Color struct {
	White uint8 `json:"white"`
	Red   uint8 `json:"red"`
	Green uint8 `json:"green"`
	Blue  uint8 `json:"blue"`
}

// Predefined colors used by on/off and the scene programs
var (
	ColorOff   = Color{}
	ColorWhite = Color{White: 255}
)

// IsOff reports whether every channel is zero.
func (c Color) IsOff() bool {
	return c == ColorOff
}

// Scale multiplies every channel by factor, rounds half down and clamps to
// 0-255. Rounding half down keeps 255*0.5 at 127, so down followed by up
// lands on 254: successive dimming is lossy on purpose.
func (c Color) Scale(factor float64) Color {
	return Color{
		White: scaleChannel(c.White, factor),
		Red:   scaleChannel(c.Red, factor),
		Green: scaleChannel(c.Green, factor),
		Blue:  scaleChannel(c.Blue, factor),
	}
}

func scaleChannel(v uint8, factor float64) uint8 {
	scaled := math.Ceil(float64(v)*factor - 0.5)
	switch {
	case scaled <= 0:
		return 0
	case scaled >= 255:
		return 255
	default:
		return uint8(scaled)
	}
}

// String returns "off" or "WRGB(w,r,g,b)".
func (c Color) String() string {
	if c.IsOff() {
		return "off"
	}
	return fmt.Sprintf("WRGB(%d,%d,%d,%d)", c.White, c.Red, c.Green, c.Blue)
}

// EncodeColor returns the 4-byte color record.
func EncodeColor(c Color) []byte {
	return []byte{c.White, c.Red, c.Green, c.Blue}
}

// DecodeColor parses a 4-byte color record.
func DecodeColor(data []byte) (Color, error) {
	if err := checkLen("color", data, ColorRecordSize); err != nil {
		return Color{}, err
	}
	return colorAt(data, 0), nil
}

func colorAt(data []byte, off int) Color {
	return Color{White: data[off], Red: data[off+1], Green: data[off+2], Blue: data[off+3]}
}

func putColor(dst []byte, off int, c Color) {
	dst[off] = c.White
	dst[off+1] = c.Red
	dst[off+2] = c.Green
	dst[off+3] = c.Blue
}

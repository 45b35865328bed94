// Package bulb drives one connected Playbulb.
//
// A Session owns the connection for its lifetime and translates domain
// operations (turn on, toggle, set a timer, program a scene) into reads and
// writes of the bulb's characteristics, encoding through package protocol.
// It keeps the little state relative commands need: the last color and
// effect seen and the last color the light was on with. Nothing is shared
// between sessions.
//
// Everything read or written lands in a DeviceReport. Reads the bulb
// refuses, or that its model does not implement, become unavailable fields
// rather than errors that stop the caller; see UnavailableError and
// IsTransportFailure.
package bulb

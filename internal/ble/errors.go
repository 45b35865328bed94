package ble

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/muurk/mipow/internal/identity"
	"github.com/muurk/mipow/internal/protocol"
)

// ErrorType represents the category of a transport error
type ErrorType int

const (
	// ErrTypeTransport indicates a generic radio or stack failure
	ErrTypeTransport ErrorType = iota
	// ErrTypePermissionDenied indicates the bulb refused a read or write
	ErrTypePermissionDenied
	// ErrTypeNotFound indicates the bulb was not seen by the adapter
	ErrTypeNotFound
	// ErrTypeUnsupported indicates the bulb has no such characteristic
	ErrTypeUnsupported
	// ErrTypeTimeout indicates an operation did not finish in time
	ErrTypeTimeout
	// ErrTypeNotConnected indicates the link dropped
	ErrTypeNotConnected
	// ErrTypeAdapter indicates the local Bluetooth adapter is unusable
	ErrTypeAdapter
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeTransport:
		return "Transport Error"
	case ErrTypePermissionDenied:
		return "Permission Denied"
	case ErrTypeNotFound:
		return "Not Found"
	case ErrTypeUnsupported:
		return "Unsupported Characteristic"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeNotConnected:
		return "Not Connected"
	case ErrTypeAdapter:
		return "Adapter Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Error is a classified transport failure.
type Error struct {
	Type           ErrorType
	Op             string // connect, read, write, scan
	Address        identity.Address
	Characteristic protocol.Characteristic // zero for connect and scan
	Err            error
	Retryable      bool
}

// Error implements the error interface
func (e *Error) Error() string {
	target := e.Address.String()
	if e.Characteristic != 0 {
		target += " " + e.Characteristic.Name()
	}
	if e.Address.IsZero() && e.Characteristic == 0 {
		target = "adapter"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s %s (caused by: %v)", e.Type, e.Op, target, e.Err)
	}
	return fmt.Sprintf("%s: %s %s", e.Type, e.Op, target)
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// ErrCharacteristicMissing is wrapped when service discovery did not find a
// characteristic.
var ErrCharacteristicMissing = errors.New("characteristic not present")

// ErrNotSupportedPlatform is returned by transports on systems without a
// BlueZ backend.
var ErrNotSupportedPlatform = errors.New("bluetooth transport not available on this platform")

// Classify maps a raw stack error to an *Error. BlueZ reports failures as
// D-Bus error names, so classification works on the message text.
func Classify(op string, addr identity.Address, char protocol.Characteristic, err error) *Error {
	if err == nil {
		return nil
	}

	var already *Error
	if errors.As(err, &already) {
		return already
	}

	e := &Error{Op: op, Address: addr, Characteristic: char, Err: err}

	if errors.Is(err, context.DeadlineExceeded) {
		e.Type, e.Retryable = ErrTypeTimeout, true
		return e
	}
	if errors.Is(err, ErrCharacteristicMissing) {
		e.Type = ErrTypeUnsupported
		return e
	}
	if errors.Is(err, ErrNotSupportedPlatform) {
		e.Type = ErrTypeAdapter
		return e
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, "notpermitted", "not permitted", "notauthorized", "not authorized",
		"insufficient authentication", "insufficient encryption", "authentication failed"):
		e.Type = ErrTypePermissionDenied
	case containsAny(msg, "notsupported", "not supported"):
		e.Type = ErrTypeUnsupported
	case containsAny(msg, "doesnotexist", "does not exist", "unknownobject", "not found", "no such device"):
		e.Type, e.Retryable = ErrTypeNotFound, op == "connect"
	case containsAny(msg, "timeout", "timed out"):
		e.Type, e.Retryable = ErrTypeTimeout, true
	case containsAny(msg, "notconnected", "not connected", "disconnected"):
		e.Type, e.Retryable = ErrTypeNotConnected, true
	case containsAny(msg, "notready", "not ready", "powered off", "no default adapter", "rfkill"):
		e.Type = ErrTypeAdapter
	default:
		e.Type, e.Retryable = ErrTypeTransport, true
	}
	return e
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func errorType(err error) (ErrorType, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Type, true
	}
	return 0, false
}

// IsPermissionDenied checks if the bulb refused the operation
func IsPermissionDenied(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypePermissionDenied
}

// IsUnsupported checks if the bulb lacks the characteristic
func IsUnsupported(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeUnsupported
}

// IsNotFound checks if the bulb could not be found
func IsNotFound(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeNotFound
}

// IsTimeout checks if an operation timed out
func IsTimeout(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeTimeout
}

// IsReadRefusal reports whether a failed read should be shown as
// unavailable rather than abort the bulb: the bulb refused it or does not
// implement the characteristic.
func IsReadRefusal(err error) bool {
	t, ok := errorType(err)
	return ok && (t == ErrTypePermissionDenied || t == ErrTypeUnsupported)
}

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return false
}

// GetTroubleshootingHint returns user-friendly troubleshooting advice for an error
func GetTroubleshootingHint(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "An unexpected error occurred. Please try again."
	}

	switch e.Type {
	case ErrTypeNotFound:
		return strings.Join([]string{
			"The bulb was not seen by the Bluetooth adapter.",
			"Troubleshooting:",
			"  • Check that the bulb is powered (candles: battery charged)",
			"  • Run 'mipow scan' and compare the address",
			"  • Move closer; Playbulbs have a short range",
		}, "\n")

	case ErrTypeTimeout:
		return strings.Join([]string{
			"The bulb did not respond in time.",
			"Troubleshooting:",
			"  • Another phone or hub may hold the connection",
			"  • Reduce the number of bulbs addressed at once",
			"  • Increase connect_timeout in the config file",
		}, "\n")

	case ErrTypePermissionDenied:
		return strings.Join([]string{
			"The bulb refused the request.",
			"Troubleshooting:",
			"  • Some models protect PIN and security mode",
			"  • Remove a stale pairing with bluetoothctl remove " + e.Address.String(),
		}, "\n")

	case ErrTypeAdapter:
		return strings.Join([]string{
			"The local Bluetooth adapter is not usable.",
			"Troubleshooting:",
			"  • Check 'bluetoothctl show' reports Powered: yes",
			"  • Make sure bluetoothd is running",
			"  • Unblock the radio with 'rfkill unblock bluetooth'",
		}, "\n")

	case ErrTypeUnsupported:
		return "This bulb model does not implement the requested feature."

	default:
		return "A Bluetooth error occurred. Please check the error message for details."
	}
}

// GetShortErrorMessage returns a concise, user-friendly error message
func GetShortErrorMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}

	switch e.Type {
	case ErrTypeNotFound:
		return "Bulb not found - is it powered and in range?"
	case ErrTypeTimeout:
		return "Bulb not responding (timeout)"
	case ErrTypePermissionDenied:
		return "Bulb refused the request"
	case ErrTypeUnsupported:
		return fmt.Sprintf("Not supported by this bulb (%s)", e.Characteristic.Name())
	case ErrTypeNotConnected:
		return "Connection to bulb lost"
	case ErrTypeAdapter:
		return "Bluetooth adapter not available"
	default:
		return e.Error()
	}
}

package bulb

import (
	"errors"
	"time"

	"github.com/muurk/mipow/internal/ble"
	"github.com/muurk/mipow/internal/identity"
	"github.com/muurk/mipow/internal/protocol"
)

// ErrUnavailable marks a field the bulb would not or could not report.
var ErrUnavailable = errors.New("unavailable")

// UnavailableError is returned by a read the bulb refused, does not
// implement, or answered with a malformed record.
type UnavailableError struct {
	Field string
	Err   error
}

func (e *UnavailableError) Error() string {
	return e.Field + " unavailable: " + e.Err.Error()
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Is matches ErrUnavailable.
func (e *UnavailableError) Is(target error) bool {
	return target == ErrUnavailable
}

// Field is one optional value of a report. A nil *Field was never read;
// a non-nil one is either available or carries the reason it is not.
type Field[T any] struct {
	Value T
	Err   error
}

// Available wraps a value that was read or written successfully.
func Available[T any](v T) *Field[T] {
	return &Field[T]{Value: v}
}

// Unavailable records why a value could not be read.
func Unavailable[T any](err error) *Field[T] {
	return &Field[T]{Err: err}
}

// Get returns the value and whether it is available.
func (f *Field[T]) Get() (T, bool) {
	if f == nil || f.Err != nil {
		var zero T
		return zero, false
	}
	return f.Value, true
}

// Known reports whether the value is available.
func (f *Field[T]) Known() bool {
	return f != nil && f.Err == nil
}

// Reason is a short explanation for a missing value.
func (f *Field[T]) Reason() string {
	switch {
	case f == nil:
		return "not read"
	case f.Err == nil:
		return ""
	default:
		var ue *UnavailableError
		if errors.As(f.Err, &ue) {
			return ble.GetShortErrorMessage(ue.Err)
		}
		return ble.GetShortErrorMessage(f.Err)
	}
}

// Failure is a queued command that did not complete.
type Failure struct {
	Command string
	Err     error
}

// DeviceReport collects everything read from or written to one bulb during
// one invocation.
type DeviceReport struct {
	Address identity.Address
	Aliases []string

	Name         *Field[string]
	PIN          *Field[string]
	Battery      *Field[int]
	Manufacturer *Field[string]
	Serial       *Field[string]
	Hardware     *Field[string]
	Software     *Field[string]
	Firmware     *Field[string]
	PnPID        *Field[protocol.PnPID]

	Color    *Field[protocol.Color]
	Effect   *Field[protocol.Effect]
	Timers   *Field[protocol.TimerBank]
	Security *Field[protocol.Security]

	Failures []Failure

	// Aborted is set when a transport failure skipped the rest of the queue.
	Aborted bool

	Started  time.Time
	Finished time.Time
}

// NewReport returns an empty report for addr.
func NewReport(addr identity.Address) *DeviceReport {
	return &DeviceReport{Address: addr}
}

// AddFailure records a failed command.
func (r *DeviceReport) AddFailure(command string, err error) {
	r.Failures = append(r.Failures, Failure{Command: command, Err: err})
}

// OK reports whether every command succeeded.
func (r *DeviceReport) OK() bool {
	return len(r.Failures) == 0 && !r.Aborted
}

// Snapshot returns a copy that later commands do not change. Fields are
// replaced, never mutated, so copying the pointers is enough.
func (r *DeviceReport) Snapshot() DeviceReport {
	c := *r
	c.Aliases = append([]string(nil), r.Aliases...)
	c.Failures = append([]Failure(nil), r.Failures...)
	return c
}

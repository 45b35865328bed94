package protocol

import (
	"errors"
	"fmt"
)

// ErrMalformedRecord is matched by every DecodeError via errors.Is.
var ErrMalformedRecord = errors.New("malformed record")

// DecodeError reports a record whose length does not match its layout.
// Unknown type tags and 0xFF sentinels are not decode errors.
type DecodeError struct {
	Record string // record kind, e.g. "color"
	Want   int    // expected length in bytes
	Got    int    // received length in bytes
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed %s record: got %d bytes, want %d", e.Record, e.Got, e.Want)
}

// Is lets errors.Is(err, ErrMalformedRecord) succeed.
func (e *DecodeError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// RangeError reports a value the codec refuses to encode.
type RangeError struct {
	Field string
	Value int
	Min   int
	Max   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s out of range: %d (valid %d-%d)", e.Field, e.Value, e.Min, e.Max)
}

// IsMalformed reports whether err is (or wraps) a DecodeError.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedRecord)
}

func checkLen(record string, data []byte, want int) error {
	if len(data) != want {
		return &DecodeError{Record: record, Want: want, Got: len(data)}
	}
	return nil
}

func checkRange(field string, value, min, max int) error {
	if value < min || value > max {
		return &RangeError{Field: field, Value: value, Min: min, Max: max}
	}
	return nil
}

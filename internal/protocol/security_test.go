package protocol

import (
	"bytes"
	"testing"
	"time"
)

func TestDecodeSecurity(t *testing.T) {
	data := []byte{0x01, 18, 5, 19, 0, 23, 30, 5, 20, 255, 0, 0, 0}

	got, err := DecodeSecurity(data)
	if err != nil {
		t.Fatalf("DecodeSecurity() error = %v", err)
	}

	want := Security{
		Active:      true,
		Clock:       TimeOfDay{18, 5},
		Start:       TimeOfDay{19, 0},
		End:         TimeOfDay{23, 30},
		MinInterval: 5,
		MaxInterval: 20,
		Color:       ColorWhite,
	}
	if got != want {
		t.Errorf("DecodeSecurity() = %v, want %v", got, want)
	}
	if !got.Scheduled() {
		t.Error("Scheduled() = false")
	}
}

func TestDecodeSecurityCleared(t *testing.T) {
	data := []byte{0x00, 9, 41, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0, 0, 0, 0}

	got, err := DecodeSecurity(data)
	if err != nil {
		t.Fatalf("DecodeSecurity() error = %v", err)
	}
	if got.Active || got.Scheduled() {
		t.Errorf("cleared record decoded as active/scheduled: %v", got)
	}
	if got.Start != UnsetTime || got.End != UnsetTime {
		t.Errorf("Start/End = %v/%v, want unset", got.Start, got.End)
	}
	if got.Clock.String() != "09:41" {
		t.Errorf("Clock = %s, want 09:41", got.Clock)
	}
}

func TestDecodeSecurityMalformed(t *testing.T) {
	for _, n := range []int{0, 12, 14} {
		if _, err := DecodeSecurity(make([]byte, n)); !IsMalformed(err) {
			t.Errorf("DecodeSecurity(%d bytes) error = %v, want malformed", n, err)
		}
	}
}

func TestEncodeSecurity(t *testing.T) {
	now := time.Date(2024, 6, 1, 17, 42, 0, 0, time.Local)
	s := Security{
		Active:      true,
		Start:       TimeOfDay{19, 0},
		End:         TimeOfDay{23, 30},
		MinInterval: 5,
		MaxInterval: 20,
		Color:       Color{Red: 200},
	}

	got, err := EncodeSecurity(s, now)
	if err != nil {
		t.Fatalf("EncodeSecurity() error = %v", err)
	}
	want := []byte{0x00, 42, 17, 19, 0, 23, 30, 5, 20, 0, 200, 0, 0}
	if !bytes.Equal(got, want) {
		t.Errorf("EncodeSecurity() = % x, want % x", got, want)
	}
}

func TestEncodeSecurityValidation(t *testing.T) {
	tests := []struct {
		name string
		s    Security
	}{
		{"no window", Security{Start: UnsetTime, End: TimeOfDay{1, 0}, MaxInterval: 5}},
		{"bad end hour", Security{Start: TimeOfDay{1, 0}, End: TimeOfDay{25, 0}, MaxInterval: 5}},
		{"min above max", Security{Start: TimeOfDay{1, 0}, End: TimeOfDay{2, 0}, MinInterval: 9, MaxInterval: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := EncodeSecurity(tt.s, time.Now()); err == nil {
				t.Errorf("EncodeSecurity(%v) returned no error", tt.s)
			}
		})
	}
}

func TestEncodeSecurityClear(t *testing.T) {
	now := time.Date(2024, 6, 1, 8, 3, 0, 0, time.Local)
	want := []byte{0x00, 3, 8, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0, 0, 0, 0}
	if got := EncodeSecurityClear(now); !bytes.Equal(got, want) {
		t.Errorf("EncodeSecurityClear() = % x, want % x", got, want)
	}
}
